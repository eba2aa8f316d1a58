package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization basis for daily series.
const TradingDaysPerYear = 252

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Variance calculates the variance of a slice of float64 values
func Variance(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Variance(data, nil)
}

// Returns converts a value series to simple percentage returns.
// Returns[i] = (v[i] - v[i-1]) / v[i-1]
func Returns(values []float64) []float64 {
	if len(values) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] != 0 {
			returns[i-1] = (values[i] - values[i-1]) / values[i-1]
		}
	}
	return returns
}

// LogReturns converts a value series to log returns.
// LogReturns[i] = ln(v[i] / v[i-1])
func LogReturns(values []float64) []float64 {
	if len(values) < 2 {
		return []float64{}
	}

	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] > 0 && values[i] > 0 {
			returns = append(returns, math.Log(values[i]/values[i-1]))
		}
	}
	return returns
}

// AnnualizedVolatility calculates annualized volatility from daily returns.
// Formula: StdDev of daily returns x sqrt(periodsPerYear)
func AnnualizedVolatility(dailyReturns []float64, periodsPerYear int) float64 {
	if len(dailyReturns) < 2 {
		return 0
	}
	return StdDev(dailyReturns) * math.Sqrt(float64(periodsPerYear))
}

// AnnualizedReturn calculates the geometric annualized return over a value
// series assuming one observation per trading day.
//
// Formula: (end/start)^(periodsPerYear/n) - 1
func AnnualizedReturn(values []float64, periodsPerYear int) *float64 {
	if len(values) < 2 {
		return nil
	}

	start := values[0]
	end := values[len(values)-1]
	if start <= 0 || end <= 0 {
		return nil
	}

	periods := float64(len(values) - 1)
	annualized := math.Pow(end/start, float64(periodsPerYear)/periods) - 1
	return &annualized
}
