package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantdesk/advisor/internal/domain"
	"github.com/quantdesk/advisor/internal/modules/recommend"
)

// RefreshJob regenerates the recommendation snapshot on a schedule.
type RefreshJob struct {
	service    *recommend.Service
	stockLimit int
	fundLimit  int
	timeout    time.Duration
	log        zerolog.Logger
}

// NewRefreshJob creates the scheduled snapshot refresh job
func NewRefreshJob(service *recommend.Service, stockLimit, fundLimit int, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		service:    service,
		stockLimit: stockLimit,
		fundLimit:  fundLimit,
		timeout:    30 * time.Minute,
		log:        log.With().Str("job", "snapshot_refresh").Logger(),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "snapshot_refresh"
}

// Run regenerates the snapshot. A run already triggered by an API caller
// wins the slot; that is not a failure for the schedule.
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	_, err := j.service.Generate(ctx, recommend.GenerateOptions{
		Mode:         recommend.ModeAll,
		StockLimit:   j.stockLimit,
		FundLimit:    j.fundLimit,
		ForceRefresh: true,
	})
	if errors.Is(err, domain.ErrGenerationBusy) {
		j.log.Info().Msg("Generation already in flight, skipping scheduled refresh")
		return nil
	}
	return err
}
