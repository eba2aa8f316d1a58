package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturns(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   []float64
	}{
		{"empty", nil, []float64{}},
		{"single value", []float64{1.0}, []float64{}},
		{"rising", []float64{100, 110}, []float64{0.10}},
		{"falling", []float64{100, 90}, []float64{-0.10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Returns(tt.values)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-9)
			}
		})
	}
}

func TestSharpeRatio(t *testing.T) {
	t.Run("insufficient data", func(t *testing.T) {
		assert.Nil(t, SharpeRatio([]float64{0.01}, 0, 252))
	})

	t.Run("zero dispersion", func(t *testing.T) {
		assert.Nil(t, SharpeRatio([]float64{0.01, 0.01, 0.01}, 0, 252))
	})

	t.Run("positive returns give positive sharpe", func(t *testing.T) {
		returns := []float64{0.01, 0.02, 0.01, 0.03, 0.02}
		sharpe := SharpeRatio(returns, 0, 252)
		require.NotNil(t, sharpe)
		assert.Greater(t, *sharpe, 0.0)
	})

	t.Run("risk-free rate lowers sharpe", func(t *testing.T) {
		returns := []float64{0.01, 0.02, 0.01, 0.03, 0.02}
		base := SharpeRatio(returns, 0, 252)
		withRate := SharpeRatio(returns, 0.05, 252)
		require.NotNil(t, base)
		require.NotNil(t, withRate)
		assert.Less(t, *withRate, *base)
	})
}

func TestSortinoRatio(t *testing.T) {
	t.Run("no downside returns nil", func(t *testing.T) {
		assert.Nil(t, SortinoRatio([]float64{0.01, 0.02, 0.03}, 0, 252))
	})

	t.Run("mixed returns", func(t *testing.T) {
		returns := []float64{0.02, -0.01, 0.03, -0.02, 0.01}
		sortino := SortinoRatio(returns, 0, 252)
		require.NotNil(t, sortino)
		assert.False(t, math.IsNaN(*sortino))
	})
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   *float64
	}{
		{"insufficient data", []float64{1.0}, nil},
		{"monotonic rise has zero drawdown", []float64{1, 2, 3, 4}, ptr(0.0)},
		{"half lost", []float64{100, 50, 60}, ptr(0.5)},
		{"recovers but drawdown stands", []float64{100, 80, 120, 90}, ptr(0.25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaxDrawdown(tt.values)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestCalmarRatio(t *testing.T) {
	t.Run("zero drawdown yields nil not infinity", func(t *testing.T) {
		values := []float64{1.0, 1.1, 1.2, 1.3}
		assert.Nil(t, CalmarRatio(values, 252))
	})

	t.Run("positive when rising with a dip", func(t *testing.T) {
		values := make([]float64, 0, 100)
		for i := 0; i < 100; i++ {
			v := 100 + float64(i)
			if i == 50 {
				v -= 10
			}
			values = append(values, v)
		}
		calmar := CalmarRatio(values, 252)
		require.NotNil(t, calmar)
		assert.Greater(t, *calmar, 0.0)
	})
}

func TestAnnualizedReturn(t *testing.T) {
	t.Run("doubling over one year", func(t *testing.T) {
		values := make([]float64, 253)
		for i := range values {
			values[i] = 100 * math.Pow(2, float64(i)/252)
		}
		got := AnnualizedReturn(values, 252)
		require.NotNil(t, got)
		assert.InDelta(t, 1.0, *got, 1e-6)
	})

	t.Run("non-positive start", func(t *testing.T) {
		assert.Nil(t, AnnualizedReturn([]float64{0, 1}, 252))
	})
}

func TestMomentum(t *testing.T) {
	values := []float64{100, 101, 102, 103, 104, 110}

	got := Momentum(values, 5)
	require.NotNil(t, got)
	assert.InDelta(t, 0.10, *got, 1e-9)

	assert.Nil(t, Momentum(values, 6), "window longer than history")
}

func TestRSIBounds(t *testing.T) {
	closes := []float64{
		44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46.1,
		45.9, 46.3, 46.0, 46.6, 46.2, 46.7, 46.4, 46.2, 45.6, 46.2,
	}

	rsi := RSI(closes, 14)
	require.NotNil(t, rsi)
	assert.GreaterOrEqual(t, *rsi, 0.0)
	assert.LessOrEqual(t, *rsi, 100.0)

	assert.Nil(t, RSI(closes[:10], 14), "insufficient history")
}

func ptr(f float64) *float64 {
	return &f
}
