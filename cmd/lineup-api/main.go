package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kickoffxi/lineup-api/internal/app"
	"github.com/kickoffxi/lineup-api/internal/bot"
	"github.com/kickoffxi/lineup-api/internal/cache"
	"github.com/kickoffxi/lineup-api/internal/config"
	"github.com/kickoffxi/lineup-api/internal/handlers"
	"github.com/kickoffxi/lineup-api/internal/scheduler"
	"github.com/kickoffxi/lineup-api/internal/store"
	"github.com/kickoffxi/lineup-api/internal/worker"
)

// @title Lineup Prediction API
// @version 1.0
// @description Predicts football starting lineups from squad, injury, news and history data.
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKey
// @in header
// @name X-API-Key
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Error loading .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server exited with error", zap.Error(err))
	}
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	sugar := logger.Sugar()

	core, err := app.NewCore(cfg, logger)
	if err != nil {
		return err
	}

	checks := map[string]handlers.Pinger{}

	// Redis: prediction cache backend and popularity side effects
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		checks["redis"] = redisPinger{rdb}
	}
	predictionCache := cache.New(ctx, cfg.CacheBackend, rdb, logger)
	defer predictionCache.Close()
	checks["cache"] = predictionCache

	poolCfg := worker.PoolConfig{
		WorkerCount:   cfg.WorkerCount,
		QueueSize:     cfg.QueueSize,
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
		Logger:        logger,
	}
	if rdb != nil {
		poolCfg.Redis = rdb
	}

	// Postgres: prediction history
	var history handlers.PredictionReader
	if cfg.PostgresURL != "" {
		pg, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pg.Close()

		repo := store.NewPredictionRepository(pg)
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("postgres schema: %w", err)
		}
		poolCfg.Store = repo
		history = repo
		checks["postgres"] = pg
	} else {
		sugar.Warnw("POSTGRES_URL not set, prediction history disabled")
	}

	// ClickHouse: per-player score analytics
	if cfg.ClickHouseURL != "" {
		opts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
		if err != nil {
			return fmt.Errorf("parse clickhouse dsn: %w", err)
		}
		ch, err := clickhouse.Open(opts)
		if err != nil {
			return fmt.Errorf("connect clickhouse: %w", err)
		}
		defer ch.Close()

		sink := store.NewScoreSink(ch)
		if err := sink.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("clickhouse schema: %w", err)
		}
		poolCfg.Scores = sink
		checks["clickhouse"] = ch
	}

	pool := worker.NewPool(poolCfg)
	pool.Start(ctx)
	defer pool.Stop()

	service := core.Service(predictionCache, pool)

	// Telegram bot and scheduled warm-ups
	var updates handlers.UpdateHandler
	var sched *scheduler.Scheduler
	if cfg.TelegramMode != config.TelegramOff {
		botHandler := bot.NewHandler(service, core.Directory, bot.NewSubscriptions(), logger)
		telegramBot, err := bot.NewTelegramBot(cfg.TelegramToken, botHandler, logger)
		if err != nil {
			return fmt.Errorf("connect telegram: %w", err)
		}
		switch cfg.TelegramMode {
		case config.TelegramPolling:
			go func() {
				if err := telegramBot.Start(ctx); err != nil {
					sugar.Errorw("Telegram bot stopped", "error", err)
				}
			}()
		case config.TelegramWebhook:
			updates = telegramBot
			defer telegramBot.Wait()
		}

		sched, err = scheduler.NewScheduler(scheduler.Config{
			Predictor:     service,
			Subscriptions: botHandler.Subscriptions(),
			Notifier:      telegramBot,
			Popular: func(ctx context.Context, n int) ([]string, error) {
				if rdb == nil {
					return nil, nil
				}
				return worker.PopularTeams(ctx, rdb, n)
			},
			Cron:     cfg.WarmupCron,
			Timezone: cfg.Timezone,
			Logger:   logger,
		})
		if err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				sugar.Errorw("Error stopping scheduler", "error", err)
			}
		}()
	}

	h := handlers.New(handlers.Config{
		Prediction:    service,
		History:       history,
		Queue:         pool,
		Checks:        checks,
		Bot:           updates,
		WebhookSecret: cfg.TelegramWebhookSecret,
		APIKeys:       cfg.APIKeys,
		RateLimit:     cfg.RateLimitPerSecond,
		RateBurst:     cfg.RateLimitBurst,
		AllowedOrigin: cfg.AllowedOrigins,
		Logger:        logger,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("Server listening", "addr", srv.Addr, "env", cfg.Env, "telegram", cfg.TelegramMode)
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

	sugar.Infow("Shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
