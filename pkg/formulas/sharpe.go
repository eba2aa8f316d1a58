package formulas

import (
	"math"
)

// SharpeRatio calculates the annualized Sharpe ratio from periodic returns.
//
// Sharpe Formula:
//
//	Sharpe = (Mean Return - Periodic Risk-free Rate) / StdDev of Returns
//	Annualized: Sharpe x sqrt(periodsPerYear)
//
// riskFreeRate is annual, as decimal (0.02 for 2%). Returns nil when there is
// insufficient data or zero dispersion.
func SharpeRatio(returns []float64, riskFreeRate float64, periodsPerYear int) *float64 {
	if len(returns) < 2 {
		return nil
	}

	stdDev := StdDev(returns)
	if stdDev == 0 {
		return nil
	}

	periodicRiskFree := riskFreeRate / float64(periodsPerYear)
	sharpe := (Mean(returns) - periodicRiskFree) / stdDev

	annualized := sharpe * math.Sqrt(float64(periodsPerYear))
	return &annualized
}

// SortinoRatio calculates the annualized Sortino ratio (downside deviation
// version of Sharpe). Only returns below the periodic risk-free rate count
// towards the deviation.
func SortinoRatio(returns []float64, riskFreeRate float64, periodsPerYear int) *float64 {
	if len(returns) < 2 {
		return nil
	}

	periodicRiskFree := riskFreeRate / float64(periodsPerYear)

	var downsideSquaredSum float64
	downsideCount := 0
	for _, ret := range returns {
		if ret < periodicRiskFree {
			deviation := ret - periodicRiskFree
			downsideSquaredSum += deviation * deviation
			downsideCount++
		}
	}
	if downsideCount == 0 {
		return nil
	}

	downsideDeviation := math.Sqrt(downsideSquaredSum / float64(downsideCount))
	if downsideDeviation == 0 {
		return nil
	}

	sortino := (Mean(returns) - periodicRiskFree) / downsideDeviation

	annualized := sortino * math.Sqrt(float64(periodsPerYear))
	return &annualized
}

// CalmarRatio calculates annualized return over absolute max drawdown.
// A zero drawdown yields nil rather than an infinite ratio.
func CalmarRatio(values []float64, periodsPerYear int) *float64 {
	annualized := AnnualizedReturn(values, periodsPerYear)
	drawdown := MaxDrawdown(values)
	if annualized == nil || drawdown == nil || *drawdown == 0 {
		return nil
	}

	calmar := *annualized / math.Abs(*drawdown)
	return &calmar
}
