package factors

import (
	"github.com/quantdesk/advisor/internal/clients/marketdata"
	"github.com/quantdesk/advisor/internal/domain"
	"github.com/quantdesk/advisor/internal/modules/scoring"
	"github.com/quantdesk/advisor/pkg/formulas"
)

const (
	consolidationWindow = 20
	volumeShortWindow   = 5
	volumeBaseWindow    = 20
	inflowWindow        = 5
	rsiPeriod           = 14
)

// computeStockShort derives the short-term stock factor group from daily
// bars. Bars are ordered oldest first.
func computeStockShort(bars []marketdata.Bar) domain.FactorSet {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	return domain.FactorSet{
		FactorConsolidation:   consolidationStrength(bars),
		FactorVolumePrecursor: volumePrecursor(bars),
		FactorMAConvergence:   maConvergence(closes),
		FactorNetInflow5D:     netInflow(bars, inflowWindow),
		FactorRSI:             formulas.RSI(closes, rsiPeriod),
		FactorAccumulation:    accumulationFlag(bars, closes),
	}
}

// consolidationStrength scores how tightly price has traded over the recent
// window. A narrow range near the period average signals a base forming;
// wide swings score low.
//
// Score: 100 at a 0% range, 0 at a 20%-of-price range, linear in between.
func consolidationStrength(bars []marketdata.Bar) *float64 {
	if len(bars) < consolidationWindow {
		return nil
	}

	window := bars[len(bars)-consolidationWindow:]
	high := window[0].High
	low := window[0].Low
	closeSum := 0.0
	for _, b := range window {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
		closeSum += b.Close
	}

	avgClose := closeSum / float64(len(window))
	if avgClose <= 0 {
		return nil
	}

	rangePct := (high - low) / avgClose
	score := scoring.Clamp(100 * (1 - rangePct/0.20))
	return &score
}

// volumePrecursor scores recent volume expansion against the trailing base
// period. Ratios at or below 0.8x score 0; 2.0x and above score 100.
func volumePrecursor(bars []marketdata.Bar) *float64 {
	if len(bars) < volumeShortWindow+volumeBaseWindow {
		return nil
	}

	recent := bars[len(bars)-volumeShortWindow:]
	base := bars[len(bars)-volumeShortWindow-volumeBaseWindow : len(bars)-volumeShortWindow]

	var recentAvg, baseAvg float64
	for _, b := range recent {
		recentAvg += b.Volume
	}
	recentAvg /= float64(len(recent))
	for _, b := range base {
		baseAvg += b.Volume
	}
	baseAvg /= float64(len(base))

	if baseAvg <= 0 {
		return nil
	}

	ratio := recentAvg / baseAvg
	score := scoring.Clamp((ratio - 0.8) / (2.0 - 0.8) * 100)
	return &score
}

// maConvergence maps the MACD histogram, normalized by price, to a 0-100
// score centred at 50. A positive, widening histogram (fast average pulling
// above slow) pushes the score up.
func maConvergence(closes []float64) *float64 {
	_, _, hist := formulas.MACD(closes)
	if hist == nil || len(closes) == 0 {
		return nil
	}

	price := closes[len(closes)-1]
	if price <= 0 {
		return nil
	}

	relHist := *hist / price * 100 // histogram as percent of price
	score := scoring.Clamp(50 + relHist*25)
	return &score
}

// netInflow sums institutional net inflow over the trailing window. Raw
// currency units, not a 0-100 sub-score.
func netInflow(bars []marketdata.Bar, days int) *float64 {
	if len(bars) < days {
		return nil
	}

	sum := 0.0
	for _, b := range bars[len(bars)-days:] {
		sum += b.NetInflow
	}
	return &sum
}

// accumulationFlag detects quiet accumulation: price holding above its
// 20-day average while volume expands and institutional money flows in.
func accumulationFlag(bars []marketdata.Bar, closes []float64) *float64 {
	sma := formulas.SMA(closes, consolidationWindow)
	volume := volumePrecursor(bars)
	inflow := netInflow(bars, inflowWindow)
	if sma == nil || volume == nil || inflow == nil {
		return nil
	}

	price := closes[len(closes)-1]
	accumulating := price > *sma && *volume >= 40 && *inflow > 0
	return domain.Flag(accumulating)
}
