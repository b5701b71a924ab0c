package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hackgods/medai-console/internal/api"
	"github.com/hackgods/medai-console/internal/appointment"
	"github.com/hackgods/medai-console/internal/auth"
	"github.com/hackgods/medai-console/internal/config"
	"github.com/hackgods/medai-console/internal/dashboard"
	"github.com/hackgods/medai-console/internal/db"
	"github.com/hackgods/medai-console/internal/demo"
	"github.com/hackgods/medai-console/internal/diagnostic"
	"github.com/hackgods/medai-console/internal/logging"
	"github.com/hackgods/medai-console/internal/patient"
	redisclient "github.com/hackgods/medai-console/internal/redis"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logging.New("dev", "info")
		fallback.Fatal().Err(err).Msg("config load error")
	}

	logger := logging.New(cfg.Env, cfg.LogLevel).With().Str("service", "api-server").Logger()
	logger.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(rootCtx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("api-server stopped with error")
		os.Exit(1)
	}

	logger.Info().Msg("api-server shut down")
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	var (
		pgPool      *pgxpool.Pool
		rdb         *redis.Client
		accountRepo auth.Repository        = auth.NewMemoryRepository()
		patientRepo patient.Repository     = patient.NewMemoryRepository()
		apptRepo    appointment.Repository = appointment.NewMemoryRepository()
		locker      redisclient.Locker     = redisclient.NewLocalLocker(cfg.LockTTL)
	)

	if cfg.UsePostgres() {
		pgCtx, cancelPg := context.WithTimeout(ctx, 10*time.Second)
		pool, err := db.Open(pgCtx, cfg.PostgresDSN)
		cancelPg()
		if err != nil {
			return err
		}
		defer pool.Close()
		logger.Info().Msg("connected to Postgres")

		pgPool = pool
		accountRepo = auth.NewPgRepository(pool)
		patientRepo = patient.NewPgRepository(pool)
		apptRepo = appointment.NewPgRepository(pool)
	} else {
		logger.Warn().Msg("POSTGRES_DSN not set, using in-memory stores; data is lost on restart")
	}

	if cfg.UseRedis() {
		client, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Close(); err != nil {
				logger.Error().Err(err).Msg("error closing redis")
			}
		}()
		logger.Info().Msg("connected to Redis")

		rdb = client
		locker = redisclient.NewRedisLocker(client, cfg.LockTTL)
	}

	authSvc := auth.NewService(accountRepo, locker, auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL), logger)
	patientSvc := patient.NewService(patientRepo, logger)
	apptSvc := appointment.NewService(apptRepo, logger)

	if cfg.SeedDemoData {
		if err := demo.Load(ctx, authSvc, patientSvc, apptSvc); err != nil {
			return err
		}
		logger.Info().Str("email", auth.DemoEmail).Msg("demo data loaded")
	}

	handler := api.NewRouter(api.RouterConfig{
		Auth:           authSvc,
		Patients:       patientSvc,
		Appointments:   apptSvc,
		Diagnostics:    diagnostic.NewService(diagnostic.NewStubBackend(cfg.SymptomDelay, cfg.ImageDelay), logger),
		Dashboard:      dashboard.NewService(patientSvc, apptSvc),
		PgPool:         pgPool,
		Redis:          rdb,
		Logger:         logger,
		CORSOrigins:    cfg.CORSOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Env:            cfg.Env,
		Version:        version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
