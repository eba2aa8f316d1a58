// Package ranking orders scored assets, enforces result limits and derives
// the confidence and strategy labels shown with each entry.
package ranking

import (
	"sort"

	"github.com/quantdesk/advisor/internal/domain"
	"github.com/quantdesk/advisor/internal/modules/scoring"
)

// Thresholds are the confidence label cut-offs, shared by stocks and funds
// of the same horizon. Defaults: >=80 high, >=60 medium, else low.
type Thresholds struct {
	High   float64
	Medium float64
}

// DefaultThresholds returns the built-in confidence cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 80, Medium: 60}
}

// Confidence labels.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Service ranks scored assets for one (horizon, asset type) group.
type Service struct {
	thresholds Thresholds
}

// NewService creates a ranking service
func NewService(thresholds Thresholds) *Service {
	return &Service{thresholds: thresholds}
}

// Rank sorts the scores descending, breaks ties deterministically, caps the
// list at limit and stamps each surviving entry with its confidence and
// strategy labels. The input slice is not modified.
func (s *Service) Rank(scores []domain.AssetScore, table scoring.Table, limit int) []domain.AssetScore {
	ranked := make([]domain.AssetScore, len(scores))
	copy(ranked, scores)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		// Equal scores: compare on the table's highest-weighted factor,
		// higher value first, then fall back to code ascending.
		ki := scoring.TieBreakKey(ranked[i].Factors, table)
		kj := scoring.TieBreakKey(ranked[j].Factors, table)
		if ki != kj {
			return ki > kj
		}
		return ranked[i].Code < ranked[j].Code
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	for i := range ranked {
		ranked[i].Confidence = s.Confidence(ranked[i].Score)
		ranked[i].Strategy = Strategy(ranked[i].Factors, table)
	}

	return ranked
}

// Confidence maps a composite score to its discrete label.
func (s *Service) Confidence(score float64) string {
	switch {
	case score >= s.thresholds.High:
		return ConfidenceHigh
	case score >= s.thresholds.Medium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Strategy returns the tag of the factor with the largest weighted
// contribution to the composite score. Derived on the fly, never stored as
// input. Ties resolve by factor name ascending for determinism.
func Strategy(fs domain.FactorSet, table scoring.Table) string {
	contributions := scoring.Contributions(fs, table)
	if len(contributions) == 0 {
		return ""
	}

	names := make([]string, 0, len(contributions))
	for name := range contributions {
		names = append(names, name)
	}
	sort.Strings(names)

	topName := ""
	best := -1.0
	for _, name := range names {
		if contributions[name] > best {
			best = contributions[name]
			topName = name
		}
	}

	return table.Specs[topName].Tag
}
