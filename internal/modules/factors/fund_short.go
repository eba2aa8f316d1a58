package factors

import (
	"github.com/quantdesk/advisor/internal/clients/marketdata"
	"github.com/quantdesk/advisor/internal/domain"
	"github.com/quantdesk/advisor/internal/modules/scoring"
	"github.com/quantdesk/advisor/pkg/formulas"
)

const (
	sharpeShortWindow = 20
	weekWindow        = 5
	fourWeekWindow    = 20
	volWindow         = 60
)

// computeFundShort derives the short-term fund factor group from the NAV
// history, oldest first.
func computeFundShort(navs []marketdata.NAVPoint, riskFreeRate float64, periodsPerYear int) domain.FactorSet {
	values := navValues(navs)

	return domain.FactorSet{
		FactorSharpe20D: windowSharpe(values, sharpeShortWindow, riskFreeRate, periodsPerYear),
		FactorReturn1W:  trailingReturnPct(values, weekWindow),
		FactorReturn4W:  trailingReturnPct(values, fourWeekWindow),
		FactorVol60D:    volatilityPct(values, volWindow, periodsPerYear),
		FactorMomentum:  momentumScore(values),
	}
}

// windowSharpe computes the annualized Sharpe ratio over the trailing window
// of daily returns.
func windowSharpe(values []float64, days int, riskFreeRate float64, periodsPerYear int) *float64 {
	if len(values) < days+1 {
		return nil
	}
	returns := formulas.Returns(values[len(values)-days-1:])
	return formulas.SharpeRatio(returns, riskFreeRate, periodsPerYear)
}

// trailingReturnPct is the percentage change over the trailing window.
func trailingReturnPct(values []float64, days int) *float64 {
	m := formulas.Momentum(values, days)
	if m == nil {
		return nil
	}
	pct := *m * 100
	return &pct
}

// volatilityPct is annualized volatility over the window, as a percentage.
func volatilityPct(values []float64, days int, periodsPerYear int) *float64 {
	v := formulas.WindowVolatility(values, days, periodsPerYear)
	if v == nil {
		return nil
	}
	pct := *v * 100
	return &pct
}

// momentumScore blends 30-day and 90-day NAV momentum (60/40) and maps the
// result to 0-100. A steady gain in the mid single digits scores highest;
// overextended moves taper off.
func momentumScore(values []float64) *float64 {
	m30 := formulas.Momentum(values, 30)
	if m30 == nil {
		return nil
	}

	blended := *m30
	if m90 := formulas.Momentum(values, 90); m90 != nil {
		blended = *m30*0.6 + *m90*0.4
	}

	var score float64
	switch {
	case blended >= 0.05 && blended <= 0.15:
		score = 100
	case blended >= 0 && blended < 0.05:
		score = 60 + blended/0.05*40
	case blended > 0.15 && blended <= 0.30:
		score = 80 + (0.30-blended)/0.15*20
	case blended > 0.30:
		score = 80 - (blended-0.30)*200
	case blended >= -0.10:
		score = 50 + (blended+0.10)/0.10*10
	default:
		score = 50 + blended*300
	}

	score = scoring.Clamp(score)
	return &score
}

func navValues(navs []marketdata.NAVPoint) []float64 {
	values := make([]float64, len(navs))
	for i, n := range navs {
		values[i] = n.Value
	}
	return values
}
