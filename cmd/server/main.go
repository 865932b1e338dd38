package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/statementrecon/internal/adapter/http"
	"github.com/iho/statementrecon/internal/adapter/http/handler"
	"github.com/iho/statementrecon/internal/adapter/http/middleware"
	"github.com/iho/statementrecon/internal/adapter/parser"
	postgresRepo "github.com/iho/statementrecon/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/statementrecon/internal/adapter/repository/redis"
	sqliteRepo "github.com/iho/statementrecon/internal/adapter/repository/sqlite"
	"github.com/iho/statementrecon/internal/domain"
	"github.com/iho/statementrecon/internal/infrastructure/config"
	appLogger "github.com/iho/statementrecon/internal/infrastructure/logger"
	"github.com/iho/statementrecon/internal/infrastructure/metrics"
	"github.com/iho/statementrecon/internal/infrastructure/postgres"
	"github.com/iho/statementrecon/internal/infrastructure/redis"
	"github.com/iho/statementrecon/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := appLogger.New(appLogger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

// stores holds the ledger and report stores picked by LEDGER_DRIVER.
type stores struct {
	ledger  usecase.LedgerRepository
	reports usecase.ReportRepository
	closers []func()
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	synonyms, err := config.LoadFieldSynonyms(cfg.FieldSynonymsFile)
	if err != nil {
		return err
	}
	resolver := domain.NewFieldResolver(synonyms)

	health := handler.NewHealthHandler()

	st, err := openStores(ctx, cfg, logger, health)
	if err != nil {
		return err
	}
	defer st.Close()

	ledger := st.ledger
	var idempotencyStore usecase.IdempotencyStore
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		logger.Info().Msg("connected to redis")

		ledger = redisRepo.NewCachedLedger(ledger, redisRepo.NewCache(redisClient), cfg.LedgerCacheTTL, logger)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		health.AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	reconciliationUC := usecase.NewReconciliationUseCase(
		parser.New(),
		resolver,
		ledger,
		st.reports,
		postgresRepo.NewULIDGenerator(),
		metrics.New(),
		logger,
	)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		go rateLimiter.RunCleanup(ctx, 10*time.Minute, time.Hour)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC, cfg.MaxUploadBytes, logger),
		HealthHandler:         health,
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		RateLimiter:           rateLimiter,
		Logger:                logger,
	})

	server := &http.Server{
		Addr:         serverAddr(cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Str("ledger_driver", cfg.LedgerDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, logger zerolog.Logger, health *handler.HealthHandler) (*stores, error) {
	switch cfg.LedgerDriver {
	case config.LedgerDriverSQLite:
		db, err := sqliteRepo.InitDB(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite ledger: %w", err)
		}
		logger.Info().Str("path", cfg.SQLitePath).Msg("opened sqlite ledger")
		health.AddCheck("sqlite", db.PingContext)

		return &stores{
			ledger:  sqliteRepo.NewLedgerRepository(db, logger),
			reports: sqliteRepo.NewReportRepository(db),
			closers: []func(){func() { db.Close() }},
		}, nil

	default:
		if cfg.RunMigrations {
			if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
				return nil, err
			}
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		logger.Info().Msg("connected to postgres")
		health.AddCheck("postgres", pool.Ping)

		return &stores{
			ledger:  postgresRepo.NewLedgerRepository(pool, logger),
			reports: postgresRepo.NewReportRepository(pool),
			closers: []func(){pool.Close},
		}, nil
	}
}

func serverAddr(port string) string {
	return fmt.Sprintf(":%s", port)
}
