// Package domain contains the core entities shared across modules.
package domain

import "time"

// Horizon is the investment timeframe a factor set and score apply to.
type Horizon string

const (
	HorizonShort Horizon = "short"
	HorizonLong  Horizon = "long"
)

// AssetType distinguishes exchange-traded stocks from mutual funds.
type AssetType string

const (
	AssetStock AssetType = "stock"
	AssetFund  AssetType = "fund"
)

// Group identifies one (horizon, asset type) combination. Every weight table
// and factor group is keyed by a Group so branching stays in one place.
type Group struct {
	Horizon   Horizon   `json:"horizon"`
	AssetType AssetType `json:"asset_type"`
}

// Key returns the stable string form used wherever a Group keys a JSON map.
func (g Group) Key() string {
	return string(g.Horizon) + "_" + string(g.AssetType)
}

// AllGroups enumerates the four supported combinations in a fixed order.
func AllGroups() []Group {
	return []Group{
		{HorizonShort, AssetStock},
		{HorizonShort, AssetFund},
		{HorizonLong, AssetStock},
		{HorizonLong, AssetFund},
	}
}

// FactorSet maps factor names to nullable values for one (asset, horizon)
// pair. A nil entry means the factor could not be computed from the available
// data; that is distinct from a computed zero and must stay distinct all the
// way to the caller.
type FactorSet map[string]*float64

// Present reports whether the named factor has a computed value.
func (fs FactorSet) Present(name string) bool {
	v, ok := fs[name]
	return ok && v != nil
}

// PresentCount returns the number of factors with computed values.
func (fs FactorSet) PresentCount() int {
	n := 0
	for _, v := range fs {
		if v != nil {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the factor set.
func (fs FactorSet) Clone() FactorSet {
	out := make(FactorSet, len(fs))
	for name, v := range fs {
		if v == nil {
			out[name] = nil
			continue
		}
		f := *v
		out[name] = &f
	}
	return out
}

// Value returns a new nullable factor value.
func Value(f float64) *float64 {
	return &f
}

// Flag encodes a boolean factor as 0/1 so it can live in a FactorSet.
func Flag(b bool) *float64 {
	if b {
		return Value(1)
	}
	return Value(0)
}

// AssetScore is one scored asset for one horizon. Instances are created once
// per generation run and never mutated afterwards.
type AssetScore struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Industry    string    `json:"industry,omitempty"`
	FundType    string    `json:"fund_type,omitempty"`
	Horizon     Horizon   `json:"horizon"`
	AssetType   AssetType `json:"asset_type"`
	Factors     FactorSet `json:"factors"`
	Score       float64   `json:"score"`
	Confidence  string    `json:"confidence"`
	Strategy    string    `json:"strategy,omitempty"`
	Explanation *string   `json:"explanation,omitempty"`
	Catalysts   []string  `json:"catalysts,omitempty"`
	Risks       []string  `json:"risks,omitempty"`
}

// RunMetadata carries per-run diagnostics for a snapshot. FactorStatus is
// keyed by Group.Key and holds each group's counts from the run that last
// computed it, so a recomputed group replaces its counts instead of adding
// to them.
type RunMetadata struct {
	FactorDuration time.Duration                 `json:"factor_duration"`
	TotalDuration  time.Duration                 `json:"total_duration"`
	FactorStatus   map[string]FactorAvailability `json:"factor_status,omitempty"`
}

// FactorAvailability counts how many assets of one group produced a usable
// factor set during the last run that computed that group.
type FactorAvailability struct {
	Requested int `json:"requested"`
	WithData  int `json:"with_data"`
	Scored    int `json:"scored"`
	Excluded  int `json:"excluded"`
}

// RecommendationResult is one immutable snapshot produced by a single
// generation run. A new run supersedes the previous snapshot; it is never
// edited in place.
type RecommendationResult struct {
	ID              string       `json:"id"`
	EngineVersion   string       `json:"engine_version"`
	TradeDate       string       `json:"trade_date"` // YYYY-MM-DD
	GeneratedAt     time.Time    `json:"generated_at"`
	ShortTermStocks []AssetScore `json:"short_term_stocks"`
	ShortTermFunds  []AssetScore `json:"short_term_funds"`
	LongTermStocks  []AssetScore `json:"long_term_stocks"`
	LongTermFunds   []AssetScore `json:"long_term_funds"`
	Metadata        RunMetadata  `json:"metadata"`
}

// NAVBundle is N fund NAV series re-expressed on one shared, ascending date
// axis. A nil point means the fund reported no NAV for that date; points are
// never fabricated by alignment.
type NAVBundle struct {
	Dates  []string              `json:"dates"` // YYYY-MM-DD, ascending
	Series map[string][]*float64 `json:"series"`
}

// ReturnRow holds trailing percentage returns for one fund at the fixed
// comparison horizons. Nil cells mean no NAV existed at or before the
// horizon start.
type ReturnRow struct {
	Code        string   `json:"code"`
	OneMonth    *float64 `json:"one_month"`
	ThreeMonths *float64 `json:"three_months"`
	SixMonths   *float64 `json:"six_months"`
	OneYear     *float64 `json:"one_year"`
	ThreeYears  *float64 `json:"three_years"`
}

// RiskRow holds risk metrics for one fund over its available history.
type RiskRow struct {
	Code             string   `json:"code"`
	Sharpe           *float64 `json:"sharpe"`
	MaxDrawdown      *float64 `json:"max_drawdown"`
	Volatility       *float64 `json:"volatility"`
	Calmar           *float64 `json:"calmar"`
	AnnualizedReturn *float64 `json:"annualized_return"`
}

// OverlapEntry is one stock held by at least two of the compared funds.
type OverlapEntry struct {
	StockCode string   `json:"stock_code"`
	StockName string   `json:"stock_name,omitempty"`
	HeldBy    []string `json:"held_by"`
	Count     int      `json:"count"`
}

// RankEntry is one fund's composite standing within a comparison set.
type RankEntry struct {
	Code  string  `json:"code"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// ComparisonResult is the full output for one fund comparison request.
// Computed fresh per request and never persisted.
type ComparisonResult struct {
	Codes      []string       `json:"codes"`
	NAV        NAVBundle      `json:"nav"`
	Returns    []ReturnRow    `json:"returns"`
	Risk       []RiskRow      `json:"risk"`
	Overlap    []OverlapEntry `json:"overlap"`
	Ranking    []RankEntry    `json:"ranking"`
	ComputedAt time.Time      `json:"computed_at"`
}
