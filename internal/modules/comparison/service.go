package comparison

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantdesk/advisor/internal/clients/marketdata"
	"github.com/quantdesk/advisor/internal/domain"
)

// Comparison set size bounds.
const (
	MinFunds = 2
	MaxFunds = 10
)

// Engine compares a set of funds on performance, risk and holdings overlap.
// It holds no state between requests.
type Engine struct {
	source             marketdata.Source
	riskFreeRate       float64
	tradingDaysPerYear int
	log                zerolog.Logger
}

// NewEngine creates a comparison engine
func NewEngine(source marketdata.Source, riskFreeRate float64, tradingDaysPerYear int, log zerolog.Logger) *Engine {
	if tradingDaysPerYear <= 0 {
		tradingDaysPerYear = 252
	}
	return &Engine{
		source:             source,
		riskFreeRate:       riskFreeRate,
		tradingDaysPerYear: tradingDaysPerYear,
		log:                log.With().Str("module", "comparison").Logger(),
	}
}

// Compare runs the full comparison pipeline for 2..10 distinct fund codes.
// A malformed request or an unknown fund fails the whole request; nothing
// partial is ever returned.
func (e *Engine) Compare(ctx context.Context, codes []string) (*domain.ComparisonResult, error) {
	distinct, err := validateCodes(codes)
	if err != nil {
		return nil, err
	}

	histories := make(map[string][]marketdata.NAVPoint, len(distinct))
	holdings := make(map[string][]marketdata.Holding, len(distinct))
	for _, code := range distinct {
		// A failed fetch is retryable; a fund the source knows nothing
		// about is a caller error. The two must not collapse into one.
		navs, err := e.source.GetNAVHistory(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("%w: nav history for %s: %v", domain.ErrDataUnavailable, code, err)
		}
		if len(navs) == 0 {
			return nil, fmt.Errorf("%w: unknown fund %s", domain.ErrInvalidComparison, code)
		}
		histories[code] = navs

		// Holdings are optional: a fund with no disclosure still compares on
		// NAV metrics, it just contributes nothing to overlap.
		held, err := e.source.GetHoldings(ctx, code)
		if err != nil {
			e.log.Debug().Err(err).Str("code", code).Msg("Holdings unavailable")
			held = nil
		}
		holdings[code] = held
	}

	returns := make([]domain.ReturnRow, 0, len(distinct))
	risk := make([]domain.RiskRow, 0, len(distinct))
	for _, code := range distinct {
		returns = append(returns, TrailingReturns(code, histories[code]))
		risk = append(risk, RiskMetrics(code, histories[code], e.riskFreeRate, e.tradingDaysPerYear))
	}

	overlap := Overlap(holdings)

	result := &domain.ComparisonResult{
		Codes:      distinct,
		NAV:        Align(histories),
		Returns:    returns,
		Risk:       risk,
		Overlap:    overlap,
		Ranking:    RankFunds(risk, overlapShare(holdings, overlap)),
		ComputedAt: time.Now(),
	}

	e.log.Info().
		Int("funds", len(distinct)).
		Int("overlap_stocks", len(overlap)).
		Msg("Comparison computed")

	return result, nil
}

// validateCodes enforces the 2..10 bound and rejects duplicates, preserving
// the caller's order.
func validateCodes(codes []string) ([]string, error) {
	seen := make(map[string]struct{}, len(codes))
	distinct := make([]string, 0, len(codes))
	for _, code := range codes {
		if code == "" {
			return nil, fmt.Errorf("%w: empty fund code", domain.ErrInvalidComparison)
		}
		if _, dup := seen[code]; dup {
			return nil, fmt.Errorf("%w: duplicate fund code %s", domain.ErrInvalidComparison, code)
		}
		seen[code] = struct{}{}
		distinct = append(distinct, code)
	}

	if len(distinct) < MinFunds || len(distinct) > MaxFunds {
		return nil, fmt.Errorf("%w: need %d to %d distinct fund codes, got %d",
			domain.ErrInvalidComparison, MinFunds, MaxFunds, len(distinct))
	}

	return distinct, nil
}
