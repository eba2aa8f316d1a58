package factors

import (
	"github.com/quantdesk/advisor/internal/clients/marketdata"
	"github.com/quantdesk/advisor/internal/domain"
	"github.com/quantdesk/advisor/internal/modules/scoring"
)

// computeStockLong derives the long-term stock factor group from a
// fundamental snapshot. Provider gaps propagate as absent factors.
func computeStockLong(f *marketdata.Fundamentals) domain.FactorSet {
	return domain.FactorSet{
		FactorROE:         clonePtr(f.ROE),
		FactorPEG:         clonePtr(f.PEG),
		FactorQuality:     qualityScore(f),
		FactorGrowth:      growthScore(f),
		FactorValuation:   valuationScore(f),
		FactorGrossMargin: clonePtr(f.GrossMargin),
	}
}

// qualityScore blends profitability and balance-sheet strength into a 0-100
// sub-score. Each component is scored on its own band and the present
// components are averaged; all-absent inputs make the factor absent.
//
// Bands: ROE 0-25% maps to 0-100; profit margin 0-30% maps to 0-100;
// debt/equity 2.0-0 maps to 0-100 (less leverage is better).
func qualityScore(f *marketdata.Fundamentals) *float64 {
	var components []float64

	if f.ROE != nil {
		components = append(components, scoring.Clamp(*f.ROE/25*100))
	}
	if f.ProfitMargin != nil {
		components = append(components, scoring.Clamp(*f.ProfitMargin/30*100))
	}
	if f.DebtToEquity != nil {
		components = append(components, scoring.Clamp((2.0-*f.DebtToEquity)/2.0*100))
	}

	return average(components)
}

// growthScore blends revenue and EPS growth into a 0-100 sub-score.
// 30% year-over-year growth saturates a component.
func growthScore(f *marketdata.Fundamentals) *float64 {
	var components []float64

	if f.RevenueGrowth != nil {
		components = append(components, scoring.Clamp(*f.RevenueGrowth/30*100))
	}
	if f.EPSGrowth != nil {
		components = append(components, scoring.Clamp(*f.EPSGrowth/30*100))
	}

	return average(components)
}

// valuationScore rewards cheap multiples with a 0-100 sub-score.
// PE 40-5 maps to 0-100, PB 8-0.5 maps to 0-100; non-positive multiples
// (loss makers) score 0 for that component.
func valuationScore(f *marketdata.Fundamentals) *float64 {
	var components []float64

	if f.PERatio != nil {
		if *f.PERatio <= 0 {
			components = append(components, 0)
		} else {
			components = append(components, scoring.Clamp((40-*f.PERatio)/(40-5)*100))
		}
	}
	if f.PBRatio != nil {
		if *f.PBRatio <= 0 {
			components = append(components, 0)
		} else {
			components = append(components, scoring.Clamp((8-*f.PBRatio)/(8-0.5)*100))
		}
	}

	return average(components)
}

func average(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	return &avg
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}
