package formulas

// MaxDrawdown calculates the maximum drawdown from a value series.
//
// Drawdown Formula:
//
//	Drawdown = (Peak Value - Current Value) / Peak Value
//	Max Drawdown = Maximum of all drawdowns
//
// Returns the drawdown as a positive fraction (0.25 = 25% loss from peak),
// or nil when fewer than two values are available.
func MaxDrawdown(values []float64) *float64 {
	if len(values) < 2 {
		return nil
	}

	maxDrawdown := 0.0
	peak := values[0]

	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return &maxDrawdown
}

// Momentum calculates the fractional price change over the trailing period.
func Momentum(values []float64, days int) *float64 {
	if len(values) < days+1 {
		return nil
	}

	start := values[len(values)-days-1]
	end := values[len(values)-1]
	if start == 0 {
		return nil
	}

	momentum := (end - start) / start
	return &momentum
}

// WindowVolatility calculates annualized volatility over the trailing window.
func WindowVolatility(values []float64, days int, periodsPerYear int) *float64 {
	if len(values) < days+1 {
		return nil
	}

	window := values[len(values)-days-1:]
	volatility := AnnualizedVolatility(Returns(window), periodsPerYear)
	return &volatility
}
