package marketdata

// Asset identifies one tradable instrument known to the data collaborator.
type Asset struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Industry string `json:"industry,omitempty"`  // stocks
	FundType string `json:"fund_type,omitempty"` // funds
}

// Bar is one daily price/volume observation. Series are ordered oldest first.
type Bar struct {
	Date      string  `json:"date"` // YYYY-MM-DD
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
	NetInflow float64 `json:"net_inflow"` // net institutional inflow for the day
}

// Fundamentals is a point-in-time fundamental snapshot for a stock.
// Pointer fields are absent when the provider did not report them.
type Fundamentals struct {
	ROE           *float64 `json:"roe"` // percent
	PEG           *float64 `json:"peg"`
	PERatio       *float64 `json:"pe_ratio"`
	PBRatio       *float64 `json:"pb_ratio"`
	GrossMargin   *float64 `json:"gross_margin"`  // percent
	ProfitMargin  *float64 `json:"profit_margin"` // percent
	DebtToEquity  *float64 `json:"debt_to_equity"`
	RevenueGrowth *float64 `json:"revenue_growth"` // percent, year over year
	EPSGrowth     *float64 `json:"eps_growth"`     // percent, year over year
}

// NAVPoint is one (date, net asset value) observation for a fund. Histories
// are sparse: funds skip their own holidays and suspension days.
type NAVPoint struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Value float64 `json:"value"`
}

// Holding is one disclosed top holding of a fund.
type Holding struct {
	StockCode string  `json:"stock_code"`
	StockName string  `json:"stock_name"`
	Weight    float64 `json:"weight"` // percent of fund assets
}

// Manager describes the current manager of a fund.
type Manager struct {
	Name        string  `json:"name"`
	TenureYears float64 `json:"tenure_years"`
}

// FundBenchmark carries the fund's benchmark daily returns, used for the
// alpha factor. May be empty when the provider has no benchmark mapping.
type FundBenchmark struct {
	Code    string    `json:"code"`
	Returns []float64 `json:"returns"` // daily, oldest first
}
