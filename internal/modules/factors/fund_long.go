package factors

import (
	"github.com/quantdesk/advisor/internal/clients/marketdata"
	"github.com/quantdesk/advisor/internal/domain"
	"github.com/quantdesk/advisor/internal/modules/scoring"
	"github.com/quantdesk/advisor/pkg/formulas"
)

const yearWindow = 252

// computeFundLong derives the long-term fund factor group. manager and
// benchmark are optional: when their fetches failed the corresponding
// factors stay absent while the NAV-driven ones still compute.
func computeFundLong(
	navs []marketdata.NAVPoint,
	manager *marketdata.Manager,
	benchmark *marketdata.FundBenchmark,
	riskFreeRate float64,
	periodsPerYear int,
) domain.FactorSet {
	values := navValues(navs)

	fs := domain.FactorSet{
		FactorSharpe1Y:  windowSharpe(values, yearWindow, riskFreeRate, periodsPerYear),
		FactorSortino1Y: windowSortino(values, yearWindow, riskFreeRate, periodsPerYear),
		FactorMaxDD1Y:   yearDrawdownPct(values),
		FactorTenure:    nil,
		FactorAlpha:     alphaScore(values, benchmark, periodsPerYear),
	}

	if manager != nil && manager.TenureYears > 0 {
		fs[FactorTenure] = domain.Value(manager.TenureYears)
	}

	return fs
}

func windowSortino(values []float64, days int, riskFreeRate float64, periodsPerYear int) *float64 {
	if len(values) < days+1 {
		return nil
	}
	returns := formulas.Returns(values[len(values)-days-1:])
	return formulas.SortinoRatio(returns, riskFreeRate, periodsPerYear)
}

// yearDrawdownPct is the max drawdown over the trailing year, as a positive
// percentage.
func yearDrawdownPct(values []float64) *float64 {
	if len(values) < 2 {
		return nil
	}

	window := values
	if len(window) > yearWindow+1 {
		window = window[len(window)-yearWindow-1:]
	}

	dd := formulas.MaxDrawdown(window)
	if dd == nil {
		return nil
	}
	pct := *dd * 100
	return &pct
}

// alphaScore measures annualized excess return over the fund's benchmark and
// maps it to 0-100, centred at 50. +10% annual alpha saturates the score;
// -10% floors it.
func alphaScore(values []float64, benchmark *marketdata.FundBenchmark, periodsPerYear int) *float64 {
	if benchmark == nil || len(benchmark.Returns) < 2 || len(values) < 2 {
		return nil
	}

	fundReturns := formulas.Returns(values)
	n := len(fundReturns)
	if len(benchmark.Returns) < n {
		n = len(benchmark.Returns)
	}
	if n < 2 {
		return nil
	}

	fundMean := formulas.Mean(fundReturns[len(fundReturns)-n:])
	benchMean := formulas.Mean(benchmark.Returns[len(benchmark.Returns)-n:])

	alphaAnnualPct := (fundMean - benchMean) * float64(periodsPerYear) * 100
	score := scoring.Clamp(50 + alphaAnnualPct*5)
	return &score
}
