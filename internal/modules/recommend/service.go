package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quantdesk/advisor/internal/clients/llm"
	"github.com/quantdesk/advisor/internal/clients/marketdata"
	"github.com/quantdesk/advisor/internal/domain"
	"github.com/quantdesk/advisor/internal/modules/factors"
	"github.com/quantdesk/advisor/internal/modules/ranking"
	"github.com/quantdesk/advisor/internal/modules/scoring"
)

// Generation modes.
const (
	ModeAll   = "all"
	ModeShort = "short"
	ModeLong  = "long"
)

// GenerateOptions controls one generation run.
type GenerateOptions struct {
	Mode            string // all | short | long
	StockLimit      int
	FundLimit       int
	UseExplanations bool
	ForceRefresh    bool
}

// Service runs the full recommendation pipeline: factor computation,
// scoring, ranking, optional explanations, snapshot publication.
type Service struct {
	source             marketdata.Source
	pool               *factors.Pool
	engine             *scoring.Engine
	ranker             *ranking.Service
	store              *Store
	explainer          llm.Explainer // nil disables explanations
	explanationTimeout time.Duration
	now                func() time.Time
	log                zerolog.Logger
}

// NewService creates a recommendation service
func NewService(
	source marketdata.Source,
	pool *factors.Pool,
	engine *scoring.Engine,
	ranker *ranking.Service,
	store *Store,
	explainer llm.Explainer,
	explanationTimeout time.Duration,
	log zerolog.Logger,
) *Service {
	return &Service{
		source:             source,
		pool:               pool,
		engine:             engine,
		ranker:             ranker,
		store:              store,
		explainer:          explainer,
		explanationTimeout: explanationTimeout,
		now:                time.Now,
		log:                log.With().Str("module", "recommend").Logger(),
	}
}

// Latest returns the current snapshot or ErrNoSnapshot.
func (s *Service) Latest() (*domain.RecommendationResult, error) {
	result := s.store.Latest()
	if result == nil {
		return nil, domain.ErrNoSnapshot
	}
	return result, nil
}

// FactorStatus reports per-asset-type factor availability, aggregated from
// the per-group counts of the runs that last computed each group.
func (s *Service) FactorStatus() (map[domain.AssetType]domain.FactorAvailability, error) {
	result := s.store.Latest()
	if result == nil {
		return nil, domain.ErrNoSnapshot
	}

	status := make(map[domain.AssetType]domain.FactorAvailability)
	for _, group := range domain.AllGroups() {
		availability, ok := result.Metadata.FactorStatus[group.Key()]
		if !ok {
			continue
		}
		merged := status[group.AssetType]
		merged.Requested += availability.Requested
		merged.WithData += availability.WithData
		merged.Scored += availability.Scored
		merged.Excluded += availability.Excluded
		status[group.AssetType] = merged
	}
	return status, nil
}

// Generate produces a recommendation snapshot. Without ForceRefresh a
// same-trade-date snapshot is returned unchanged; with it the run always
// recomputes. At most one run executes at a time: a losing concurrent call
// gets ErrGenerationBusy and can retry.
func (s *Service) Generate(ctx context.Context, opts GenerateOptions) (*domain.RecommendationResult, error) {
	tradeDate := s.now().Format("2006-01-02")

	if !opts.ForceRefresh {
		if cached := s.store.Latest(); cached != nil && cached.TradeDate == tradeDate {
			return cached, nil
		}
	}

	if !s.store.TryBegin() {
		return nil, domain.ErrGenerationBusy
	}
	defer s.store.End()

	// A concurrent run may have published while this call waited on the
	// fast path above; check again inside the slot.
	if !opts.ForceRefresh {
		if cached := s.store.Latest(); cached != nil && cached.TradeDate == tradeDate {
			return cached, nil
		}
	}

	return s.run(ctx, opts, tradeDate)
}

func (s *Service) run(ctx context.Context, opts GenerateOptions, tradeDate string) (*domain.RecommendationResult, error) {
	started := s.now()
	s.log.Info().
		Str("mode", opts.Mode).
		Str("trade_date", tradeDate).
		Bool("force_refresh", opts.ForceRefresh).
		Msg("Generation run started")

	result := &domain.RecommendationResult{
		ID:            uuid.NewString(),
		EngineVersion: s.store.EngineVersion(),
		TradeDate:     tradeDate,
		GeneratedAt:   started,
	}

	// A partial-mode run keeps the other horizon's lists from the previous
	// snapshot so the published result stays complete.
	if previous := s.store.Latest(); previous != nil {
		result.ShortTermStocks = cloneScores(previous.ShortTermStocks)
		result.ShortTermFunds = cloneScores(previous.ShortTermFunds)
		result.LongTermStocks = cloneScores(previous.LongTermStocks)
		result.LongTermFunds = cloneScores(previous.LongTermFunds)
		result.Metadata.FactorStatus = previous.Metadata.FactorStatus
	}

	status := make(map[string]domain.FactorAvailability)
	for key, fa := range result.Metadata.FactorStatus {
		status[key] = fa
	}

	factorStarted := s.now()
	for _, group := range domain.AllGroups() {
		if !groupSelected(group.Horizon, opts.Mode) {
			continue
		}

		limit := opts.StockLimit
		if group.AssetType == domain.AssetFund {
			limit = opts.FundLimit
		}

		ranked, availability, err := s.runGroup(ctx, group, limit)
		if err != nil {
			return nil, err
		}

		// Replace, never add: a recomputed group's counts describe this run
		// only. Non-selected groups keep the counts carried over above.
		status[group.Key()] = availability

		switch group {
		case domain.Group{Horizon: domain.HorizonShort, AssetType: domain.AssetStock}:
			result.ShortTermStocks = ranked
		case domain.Group{Horizon: domain.HorizonShort, AssetType: domain.AssetFund}:
			result.ShortTermFunds = ranked
		case domain.Group{Horizon: domain.HorizonLong, AssetType: domain.AssetStock}:
			result.LongTermStocks = ranked
		case domain.Group{Horizon: domain.HorizonLong, AssetType: domain.AssetFund}:
			result.LongTermFunds = ranked
		}
	}
	result.Metadata.FactorDuration = s.now().Sub(factorStarted)
	result.Metadata.FactorStatus = status

	if opts.UseExplanations && s.explainer != nil {
		s.explainAll(ctx, result)
	}

	result.Metadata.TotalDuration = s.now().Sub(started)

	if err := s.store.Publish(result); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("snapshot_id", result.ID).
		Dur("total", result.Metadata.TotalDuration).
		Msg("Generation run published")

	return result, nil
}

// runGroup computes, scores and ranks one (horizon, asset type) group.
func (s *Service) runGroup(ctx context.Context, group domain.Group, limit int) ([]domain.AssetScore, domain.FactorAvailability, error) {
	var availability domain.FactorAvailability

	assets, err := s.source.ListAssets(ctx, group.AssetType)
	if err != nil {
		return nil, availability, err
	}
	availability.Requested = len(assets)

	table, ok := s.engine.TableFor(group)
	if !ok {
		return nil, availability, errors.New("missing weight table")
	}

	results := s.pool.ComputeBatch(ctx, assets, group)

	scores := make([]domain.AssetScore, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			availability.Excluded++
			s.log.Debug().Err(r.Err).Str("code", r.Asset.Code).Msg("Asset excluded from run")
			continue
		}
		availability.WithData++

		composite, err := s.engine.Score(r.Factors, group)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientFactors) {
				availability.Excluded++
				continue
			}
			return nil, availability, err
		}
		availability.Scored++

		scores = append(scores, domain.AssetScore{
			Code:      r.Asset.Code,
			Name:      r.Asset.Name,
			Industry:  r.Asset.Industry,
			FundType:  r.Asset.FundType,
			Horizon:   group.Horizon,
			AssetType: group.AssetType,
			Factors:   r.Factors,
			Score:     composite,
		})
	}

	return s.ranker.Rank(scores, table, limit), availability, nil
}

// explainAll attaches best-effort explanations to every ranked entry. Each
// call has its own timeout; a failure leaves that entry's explanation absent
// and the entry ranked.
func (s *Service) explainAll(ctx context.Context, result *domain.RecommendationResult) {
	lists := [][]domain.AssetScore{
		result.ShortTermStocks,
		result.ShortTermFunds,
		result.LongTermStocks,
		result.LongTermFunds,
	}

	for _, list := range lists {
		for i := range list {
			explainCtx, cancel := context.WithTimeout(ctx, s.explanationTimeout)
			explanation, err := s.explainer.Explain(explainCtx, list[i])
			cancel()

			if err != nil || explanation == nil {
				continue
			}
			text := explanation.Text
			list[i].Explanation = &text
			list[i].Catalysts = explanation.Catalysts
			list[i].Risks = explanation.Risks
		}
	}
}

// cloneScores copies a published sub-list so a carried-over snapshot never
// shares asset-score objects with the new one.
func cloneScores(in []domain.AssetScore) []domain.AssetScore {
	if in == nil {
		return nil
	}
	out := make([]domain.AssetScore, len(in))
	copy(out, in)
	return out
}

func groupSelected(horizon domain.Horizon, mode string) bool {
	switch mode {
	case ModeShort:
		return horizon == domain.HorizonShort
	case ModeLong:
		return horizon == domain.HorizonLong
	default:
		return true
	}
}
