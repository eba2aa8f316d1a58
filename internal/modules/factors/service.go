package factors

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/quantdesk/advisor/internal/clients/marketdata"
	"github.com/quantdesk/advisor/internal/domain"
)

// barHistoryDays covers the longest lookback any short-term stock factor
// needs, with headroom for the MACD warmup.
const barHistoryDays = 120

// Service computes factor sets from the market data collaborator.
type Service struct {
	source             marketdata.Source
	riskFreeRate       float64
	tradingDaysPerYear int
	log                zerolog.Logger
}

// NewService creates a factor computation service
func NewService(source marketdata.Source, riskFreeRate float64, tradingDaysPerYear int, log zerolog.Logger) *Service {
	if tradingDaysPerYear <= 0 {
		tradingDaysPerYear = 252
	}
	return &Service{
		source:             source,
		riskFreeRate:       riskFreeRate,
		tradingDaysPerYear: tradingDaysPerYear,
		log:                log.With().Str("module", "factors").Logger(),
	}
}

// Compute derives the factor set for one asset and group. A failed fetch of
// the group's primary series returns ErrDataUnavailable and excludes the
// asset from the run; insufficient history only blanks individual factors.
func (s *Service) Compute(ctx context.Context, asset marketdata.Asset, group domain.Group) (domain.FactorSet, error) {
	switch group {
	case domain.Group{Horizon: domain.HorizonShort, AssetType: domain.AssetStock}:
		return s.computeStockShort(ctx, asset)
	case domain.Group{Horizon: domain.HorizonLong, AssetType: domain.AssetStock}:
		return s.computeStockLong(ctx, asset)
	case domain.Group{Horizon: domain.HorizonShort, AssetType: domain.AssetFund}:
		return s.computeFundShort(ctx, asset)
	case domain.Group{Horizon: domain.HorizonLong, AssetType: domain.AssetFund}:
		return s.computeFundLong(ctx, asset)
	default:
		return nil, fmt.Errorf("unsupported factor group %s/%s", group.Horizon, group.AssetType)
	}
}

func (s *Service) computeStockShort(ctx context.Context, asset marketdata.Asset) (domain.FactorSet, error) {
	bars, err := s.source.GetBars(ctx, asset.Code, barHistoryDays)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDataUnavailable, asset.Code, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s: empty bar history", domain.ErrDataUnavailable, asset.Code)
	}

	return computeStockShort(bars), nil
}

func (s *Service) computeStockLong(ctx context.Context, asset marketdata.Asset) (domain.FactorSet, error) {
	fundamentals, err := s.source.GetFundamentals(ctx, asset.Code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDataUnavailable, asset.Code, err)
	}

	return computeStockLong(fundamentals), nil
}

func (s *Service) computeFundShort(ctx context.Context, asset marketdata.Asset) (domain.FactorSet, error) {
	navs, err := s.source.GetNAVHistory(ctx, asset.Code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDataUnavailable, asset.Code, err)
	}
	if len(navs) == 0 {
		return nil, fmt.Errorf("%w: %s: empty nav history", domain.ErrDataUnavailable, asset.Code)
	}

	return computeFundShort(navs, s.riskFreeRate, s.tradingDaysPerYear), nil
}

func (s *Service) computeFundLong(ctx context.Context, asset marketdata.Asset) (domain.FactorSet, error) {
	navs, err := s.source.GetNAVHistory(ctx, asset.Code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDataUnavailable, asset.Code, err)
	}
	if len(navs) == 0 {
		return nil, fmt.Errorf("%w: %s: empty nav history", domain.ErrDataUnavailable, asset.Code)
	}

	// Manager and benchmark are secondary inputs: a failed fetch blanks their
	// factors instead of excluding the fund.
	manager, err := s.source.GetManager(ctx, asset.Code)
	if err != nil {
		s.log.Debug().Err(err).Str("code", asset.Code).Msg("Manager record unavailable")
		manager = nil
	}
	benchmark, err := s.source.GetBenchmark(ctx, asset.Code)
	if err != nil {
		s.log.Debug().Err(err).Str("code", asset.Code).Msg("Benchmark unavailable")
		benchmark = nil
	}

	return computeFundLong(navs, manager, benchmark, s.riskFreeRate, s.tradingDaysPerYear), nil
}
