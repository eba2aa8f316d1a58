package comparison

import (
	"sort"

	"github.com/quantdesk/advisor/internal/domain"
)

// Composite ranking weights. Return and risk-adjusted signals dominate;
// duplicated holdings shave the score.
const (
	weightReturn     = 0.35
	weightSharpe     = 0.25
	weightDrawdown   = 0.20 // lower drawdown scores higher
	weightVolatility = 0.10 // lower volatility scores higher
	weightOverlap    = 0.10 // penalty share, lower overlap scores higher
)

// RankFunds combines normalized return, risk and overlap-penalty signals
// into one composite score per fund. Ranks run 1..N with ties broken by fund
// code ascending.
func RankFunds(risk []domain.RiskRow, overlapShares map[string]float64) []domain.RankEntry {
	if len(risk) == 0 {
		return []domain.RankEntry{}
	}

	annualized := normalize(collect(risk, func(r domain.RiskRow) *float64 { return r.AnnualizedReturn }), false)
	sharpe := normalize(collect(risk, func(r domain.RiskRow) *float64 { return r.Sharpe }), false)
	drawdown := normalize(collect(risk, func(r domain.RiskRow) *float64 { return r.MaxDrawdown }), true)
	volatility := normalize(collect(risk, func(r domain.RiskRow) *float64 { return r.Volatility }), true)

	entries := make([]domain.RankEntry, 0, len(risk))
	for i, row := range risk {
		score := annualized[i]*weightReturn +
			sharpe[i]*weightSharpe +
			drawdown[i]*weightDrawdown +
			volatility[i]*weightVolatility +
			(1-overlapShares[row.Code])*weightOverlap

		entries = append(entries, domain.RankEntry{
			Code:  row.Code,
			Score: score * 100,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Code < entries[j].Code
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}

func collect(rows []domain.RiskRow, pick func(domain.RiskRow) *float64) []*float64 {
	out := make([]*float64, len(rows))
	for i, row := range rows {
		out[i] = pick(row)
	}
	return out
}

// normalize min-max scales present values onto [0,1]; absent values map to
// 0 so a fund missing a metric earns nothing from it. invert flips the scale
// for metrics where smaller is better. All-equal inputs map to 0.5.
func normalize(values []*float64, invert bool) []float64 {
	min, max := 0.0, 0.0
	first := true
	for _, v := range values {
		if v == nil {
			continue
		}
		if first || *v < min {
			min = *v
		}
		if first || *v > max {
			max = *v
		}
		first = false
	}

	out := make([]float64, len(values))
	for i, v := range values {
		if v == nil {
			out[i] = 0
			continue
		}
		if max == min {
			out[i] = 0.5
			continue
		}
		scaled := (*v - min) / (max - min)
		if invert {
			scaled = 1 - scaled
		}
		out[i] = scaled
	}
	return out
}
