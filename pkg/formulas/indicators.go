package formulas

import (
	"github.com/markcheno/go-talib"
)

// RSI calculates the current Relative Strength Index.
//
// RSI Formula:
//
//	RSI = 100 - (100 / (1 + RS))
//	where RS = Average Gain / Average Loss over N periods
//
// closes must be ordered oldest first. Returns nil on insufficient data.
func RSI(closes []float64, length int) *float64 {
	if len(closes) < length+1 {
		return nil
	}

	rsi := talib.Rsi(closes, length)
	if len(rsi) == 0 || isNaN(rsi[len(rsi)-1]) {
		return nil
	}

	result := rsi[len(rsi)-1]
	return &result
}

// SMA calculates the current simple moving average.
func SMA(closes []float64, period int) *float64 {
	if len(closes) < period {
		return nil
	}

	sma := talib.Sma(closes, period)
	if len(sma) == 0 || isNaN(sma[len(sma)-1]) {
		return nil
	}

	result := sma[len(sma)-1]
	return &result
}

// EMA calculates the current exponential moving average.
func EMA(closes []float64, period int) *float64 {
	if len(closes) < period {
		return nil
	}

	ema := talib.Ema(closes, period)
	if len(ema) == 0 || isNaN(ema[len(ema)-1]) {
		return nil
	}

	result := ema[len(ema)-1]
	return &result
}

// MACD calculates the current MACD line, signal line and histogram using the
// standard 12/26/9 periods.
func MACD(closes []float64) (macd, signal, histogram *float64) {
	if len(closes) < 35 {
		return nil, nil, nil
	}

	macdLine, signalLine, hist := talib.Macd(closes, 12, 26, 9)
	n := len(macdLine)
	if n == 0 || isNaN(macdLine[n-1]) || isNaN(signalLine[n-1]) || isNaN(hist[n-1]) {
		return nil, nil, nil
	}

	m, s, h := macdLine[n-1], signalLine[n-1], hist[n-1]
	return &m, &s, &h
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
