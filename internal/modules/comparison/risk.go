package comparison

import (
	"github.com/quantdesk/advisor/internal/clients/marketdata"
	"github.com/quantdesk/advisor/internal/domain"
	"github.com/quantdesk/advisor/pkg/formulas"
)

// RiskMetrics computes the risk row for one fund over its full available
// NAV history. Sharpe uses daily log returns; Calmar stays absent when the
// drawdown is zero.
func RiskMetrics(code string, navs []marketdata.NAVPoint, riskFreeRate float64, periodsPerYear int) domain.RiskRow {
	row := domain.RiskRow{Code: code}
	if len(navs) < 2 {
		return row
	}

	values := make([]float64, len(navs))
	for i, nav := range navs {
		values[i] = nav.Value
	}

	logReturns := formulas.LogReturns(values)

	row.Sharpe = formulas.SharpeRatio(logReturns, riskFreeRate, periodsPerYear)
	row.MaxDrawdown = asPct(formulas.MaxDrawdown(values))
	if vol := formulas.AnnualizedVolatility(formulas.Returns(values), periodsPerYear); vol > 0 {
		volPct := vol * 100
		row.Volatility = &volPct
	}
	row.Calmar = formulas.CalmarRatio(values, periodsPerYear)
	row.AnnualizedReturn = asPct(formulas.AnnualizedReturn(values, periodsPerYear))

	return row
}

func asPct(v *float64) *float64 {
	if v == nil {
		return nil
	}
	pct := *v * 100
	return &pct
}
