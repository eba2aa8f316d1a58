// Package recommend orchestrates generation runs and owns the versioned
// snapshot lifecycle: a run creates a complete RecommendationResult, the
// store swaps it in atomically, and readers only ever see whole snapshots.
package recommend

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/quantdesk/advisor/internal/domain"
)

// SnapshotRepository persists the latest snapshot per engine version.
// Implemented by repositories.SnapshotRepository; nil disables persistence.
type SnapshotRepository interface {
	SaveLatest(result *domain.RecommendationResult) error
	GetLatest(engineVersion string) (*domain.RecommendationResult, error)
}

// Store holds the latest snapshot for one engine version. Reads are lock-free
// pointer loads; writes replace the pointer with a fully built result, never
// mutate the published value. The generation mutex admits at most one run.
type Store struct {
	engineVersion string
	latest        atomic.Pointer[domain.RecommendationResult]
	generating    sync.Mutex
	repo          SnapshotRepository
	log           zerolog.Logger
}

// NewStore creates a snapshot store for one engine version
func NewStore(engineVersion string, repo SnapshotRepository, log zerolog.Logger) *Store {
	return &Store{
		engineVersion: engineVersion,
		repo:          repo,
		log:           log.With().Str("module", "snapshot_store").Logger(),
	}
}

// Restore loads the persisted snapshot, if any, into the store. Called once
// at startup so Latest survives restarts.
func (s *Store) Restore() error {
	if s.repo == nil {
		return nil
	}

	result, err := s.repo.GetLatest(s.engineVersion)
	if err != nil {
		return err
	}
	if result != nil {
		s.latest.Store(result)
		s.log.Info().
			Str("trade_date", result.TradeDate).
			Msg("Snapshot restored from disk")
	}
	return nil
}

// Latest returns the current snapshot, or nil when none has been generated.
// Never blocks, even while a generation run is in flight.
func (s *Store) Latest() *domain.RecommendationResult {
	return s.latest.Load()
}

// TryBegin claims the single generation slot. Returns false when another run
// is already in flight.
func (s *Store) TryBegin() bool {
	return s.generating.TryLock()
}

// End releases the generation slot.
func (s *Store) End() {
	s.generating.Unlock()
}

// Publish persists the result and swaps it in as the latest snapshot. The
// swap is a single pointer store, so a concurrent reader sees either the
// previous complete snapshot or this one.
func (s *Store) Publish(result *domain.RecommendationResult) error {
	if s.repo != nil {
		if err := s.repo.SaveLatest(result); err != nil {
			// The in-memory snapshot still advances: losing persistence
			// degrades restart recovery, not the current process.
			s.log.Error().Err(err).Msg("Failed to persist snapshot")
		}
	}

	s.latest.Store(result)
	return nil
}

// EngineVersion returns the version tag snapshots are keyed by.
func (s *Store) EngineVersion() string {
	return s.engineVersion
}
