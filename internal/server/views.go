package server

import (
	"math"

	"github.com/quantdesk/advisor/internal/domain"
)

// The engine carries full precision internally; two-decimal rounding happens
// here, at the presentation boundary, and nowhere else.

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round2p(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round2(*v)
	return &r
}

func factorsView(fs domain.FactorSet) domain.FactorSet {
	out := make(domain.FactorSet, len(fs))
	for name, v := range fs {
		out[name] = round2p(v)
	}
	return out
}

func scoresView(scores []domain.AssetScore) []domain.AssetScore {
	out := make([]domain.AssetScore, len(scores))
	copy(out, scores)
	for i := range out {
		out[i].Score = round2(out[i].Score)
		out[i].Factors = factorsView(out[i].Factors)
	}
	return out
}

func recommendationView(result *domain.RecommendationResult) *domain.RecommendationResult {
	view := *result
	view.ShortTermStocks = scoresView(result.ShortTermStocks)
	view.ShortTermFunds = scoresView(result.ShortTermFunds)
	view.LongTermStocks = scoresView(result.LongTermStocks)
	view.LongTermFunds = scoresView(result.LongTermFunds)
	return &view
}

func comparisonView(result *domain.ComparisonResult) *domain.ComparisonResult {
	view := *result

	view.Returns = make([]domain.ReturnRow, len(result.Returns))
	for i, row := range result.Returns {
		view.Returns[i] = domain.ReturnRow{
			Code:        row.Code,
			OneMonth:    round2p(row.OneMonth),
			ThreeMonths: round2p(row.ThreeMonths),
			SixMonths:   round2p(row.SixMonths),
			OneYear:     round2p(row.OneYear),
			ThreeYears:  round2p(row.ThreeYears),
		}
	}

	view.Risk = make([]domain.RiskRow, len(result.Risk))
	for i, row := range result.Risk {
		view.Risk[i] = domain.RiskRow{
			Code:             row.Code,
			Sharpe:           round2p(row.Sharpe),
			MaxDrawdown:      round2p(row.MaxDrawdown),
			Volatility:       round2p(row.Volatility),
			Calmar:           round2p(row.Calmar),
			AnnualizedReturn: round2p(row.AnnualizedReturn),
		}
	}

	view.Ranking = make([]domain.RankEntry, len(result.Ranking))
	for i, entry := range result.Ranking {
		entry.Score = round2(entry.Score)
		view.Ranking[i] = entry
	}

	return &view
}
