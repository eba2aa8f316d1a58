package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantdesk/advisor/internal/clients/llm"
	"github.com/quantdesk/advisor/internal/clients/marketdata"
	"github.com/quantdesk/advisor/internal/config"
	"github.com/quantdesk/advisor/internal/database"
	"github.com/quantdesk/advisor/internal/database/repositories"
	"github.com/quantdesk/advisor/internal/modules/comparison"
	"github.com/quantdesk/advisor/internal/modules/factors"
	"github.com/quantdesk/advisor/internal/modules/ranking"
	"github.com/quantdesk/advisor/internal/modules/recommend"
	"github.com/quantdesk/advisor/internal/modules/scoring"
	"github.com/quantdesk/advisor/internal/scheduler"
	"github.com/quantdesk/advisor/internal/server"
	"github.com/quantdesk/advisor/pkg/logger"
)

func main() {
	log := logger.New(logger.Config{
		Level:  "info",
		Pretty: true,
	})

	log.Info().Msg("Starting advisor")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.DevMode})
	logger.SetGlobalLogger(log)

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	source := marketdata.NewClient(cfg.MarketDataURL, cfg.MarketDataTimeout, log)

	var explainer llm.Explainer
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiExplainer(context.Background(), cfg.GeminiAPIKey, log,
			llm.WithModel(cfg.GeminiModel))
		if err != nil {
			log.Warn().Err(err).Msg("Explanation client unavailable, continuing without explanations")
		} else {
			explainer = gemini
		}
	}

	factorService := factors.NewService(source, cfg.RiskFreeRate, cfg.TradingDaysPerYear, log)
	pool := factors.NewPool(factorService, cfg.FactorWorkers, cfg.AssetTimeout)
	engine := scoring.NewEngine(scoring.DefaultTables(), cfg.MinFactorFraction)
	ranker := ranking.NewService(ranking.Thresholds{
		High:   cfg.ConfidenceHigh,
		Medium: cfg.ConfidenceMedium,
	})

	snapshotRepo := repositories.NewSnapshotRepository(db.Conn(), log)
	store := recommend.NewStore(cfg.EngineVersion, snapshotRepo, log)
	if err := store.Restore(); err != nil {
		log.Warn().Err(err).Msg("Failed to restore snapshot from disk")
	}

	recommendService := recommend.NewService(
		source, pool, engine, ranker, store,
		explainer, cfg.ExplanationTimeout, log,
	)
	comparisonEngine := comparison.NewEngine(source, cfg.RiskFreeRate, cfg.TradingDaysPerYear, log)

	sched := scheduler.New(log)
	if cfg.RefreshSchedule != "" {
		job := scheduler.NewRefreshJob(recommendService, cfg.StockLimit, cfg.FundLimit, log)
		if err := sched.AddJob(cfg.RefreshSchedule, job); err != nil {
			log.Fatal().Err(err).Msg("Failed to register refresh job")
		}
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Port:       cfg.Port,
		Log:        log,
		Recommend:  recommendService,
		Comparison: comparisonEngine,
		DevMode:    cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
