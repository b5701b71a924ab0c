package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/medai-console/internal/appointment"
	"github.com/hackgods/medai-console/internal/config"
	"github.com/hackgods/medai-console/internal/db"
	"github.com/hackgods/medai-console/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logging.New("dev", "info")
		fallback.Fatal().Err(err).Msg("config load error")
	}

	logger := logging.New(cfg.Env, cfg.LogLevel).With().Str("service", "noshow-worker").Logger()
	logger.Info().
		Str("env", cfg.Env).
		Dur("interval", cfg.WorkerInterval).
		Dur("grace", cfg.NoShowGrace).
		Msg("no-show worker starting up")

	if !cfg.UsePostgres() {
		logger.Fatal().Msg("POSTGRES_DSN is required; in-memory stores live inside the api-server process")
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.Open(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	logger.Info().Msg("connected to Postgres")

	svc := appointment.NewService(appointment.NewPgRepository(pgPool), logger)

	// Run once at startup
	runOnce(rootCtx, svc, cfg.NoShowGrace, logger)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			logger.Info().Msg("shutdown signal received, stopping no-show worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, svc, cfg.NoShowGrace, logger)
		}
	}
}

func runOnce(ctx context.Context, svc *appointment.Service, grace time.Duration, logger zerolog.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	marked, err := svc.MarkNoShows(runCtx, grace)
	if err != nil {
		logger.Error().Err(err).Msg("no-show run error")
		return
	}
	logger.Info().Int("marked", marked).Dur("took", time.Since(start)).Msg("no-show run complete")
}
