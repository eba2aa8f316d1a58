// Package repositories contains the persistence layer for engine snapshots.
package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantdesk/advisor/internal/domain"
)

// SnapshotRepository persists the latest recommendation snapshot per engine
// version.
type SnapshotRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sql.DB, log zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:  db,
		log: log.With().Str("repo", "snapshots").Logger(),
	}
}

// SaveLatest replaces the stored snapshot for the result's engine version.
func (r *SnapshotRepository) SaveLatest(result *domain.RecommendationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO snapshots (engine_version, snapshot_id, trade_date, generated_at, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(engine_version) DO UPDATE SET
			snapshot_id = excluded.snapshot_id,
			trade_date = excluded.trade_date,
			generated_at = excluded.generated_at,
			payload = excluded.payload`,
		result.EngineVersion,
		result.ID,
		result.TradeDate,
		result.GeneratedAt.Format(time.RFC3339Nano),
		payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	r.log.Debug().
		Str("engine_version", result.EngineVersion).
		Str("trade_date", result.TradeDate).
		Msg("Snapshot saved")

	return nil
}

// GetLatest loads the stored snapshot for an engine version. Returns
// (nil, nil) when no snapshot exists yet.
func (r *SnapshotRepository) GetLatest(engineVersion string) (*domain.RecommendationResult, error) {
	var payload []byte
	err := r.db.QueryRow(
		`SELECT payload FROM snapshots WHERE engine_version = ?`,
		engineVersion,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var result domain.RecommendationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &result, nil
}
