package repositories

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantdesk/advisor/internal/database"
	"github.com/quantdesk/advisor/internal/domain"
)

func newTestRepo(t *testing.T) *SnapshotRepository {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "advisor.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	return NewSnapshotRepository(db.Conn(), zerolog.Nop())
}

func sampleResult(id, tradeDate string) *domain.RecommendationResult {
	return &domain.RecommendationResult{
		ID:            id,
		EngineVersion: "v1",
		TradeDate:     tradeDate,
		GeneratedAt:   time.Date(2025, 8, 29, 9, 30, 0, 0, time.UTC),
		ShortTermStocks: []domain.AssetScore{
			{
				Code:       "600519",
				Name:       "Kweichow Moutai",
				Horizon:    domain.HorizonShort,
				AssetType:  domain.AssetStock,
				Factors:    domain.FactorSet{"rsi_14": domain.Value(62.5), "net_inflow_5d": nil},
				Score:      84.2,
				Confidence: "high",
				Strategy:   "breakout",
			},
		},
		Metadata: domain.RunMetadata{
			FactorStatus: map[string]domain.FactorAvailability{
				"short_stock": {Requested: 10, WithData: 9, Scored: 8, Excluded: 2},
			},
		},
	}
}

func TestSaveAndGetLatest(t *testing.T) {
	repo := newTestRepo(t)

	saved := sampleResult("run-1", "2025-08-29")
	require.NoError(t, repo.SaveLatest(saved))

	loaded, err := repo.GetLatest("v1")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, "run-1", loaded.ID)
	assert.Equal(t, "2025-08-29", loaded.TradeDate)
	require.Len(t, loaded.ShortTermStocks, 1)

	score := loaded.ShortTermStocks[0]
	assert.Equal(t, "600519", score.Code)
	assert.Equal(t, 84.2, score.Score)
	require.NotNil(t, score.Factors["rsi_14"])
	assert.Equal(t, 62.5, *score.Factors["rsi_14"])
	assert.Nil(t, score.Factors["net_inflow_5d"], "absent factor survives the round trip as absent")

	status := loaded.Metadata.FactorStatus["short_stock"]
	assert.Equal(t, 10, status.Requested)
	assert.Equal(t, 2, status.Excluded)
}

func TestGetLatestNoSnapshot(t *testing.T) {
	repo := newTestRepo(t)

	loaded, err := repo.GetLatest("v1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSaveLatestReplacesPerVersion(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.SaveLatest(sampleResult("run-1", "2025-08-28")))
	require.NoError(t, repo.SaveLatest(sampleResult("run-2", "2025-08-29")))

	loaded, err := repo.GetLatest("v1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "run-2", loaded.ID, "one row per engine version, latest wins")
	assert.Equal(t, "2025-08-29", loaded.TradeDate)
}

func TestSnapshotsIsolatedByVersion(t *testing.T) {
	repo := newTestRepo(t)

	v1 := sampleResult("run-v1", "2025-08-29")
	v2 := sampleResult("run-v2", "2025-08-29")
	v2.EngineVersion = "v2"

	require.NoError(t, repo.SaveLatest(v1))
	require.NoError(t, repo.SaveLatest(v2))

	loaded, err := repo.GetLatest("v1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "run-v1", loaded.ID)

	loaded, err = repo.GetLatest("v2")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "run-v2", loaded.ID)
}
