package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/koopa0/system-design/paddle-arena/internal"
	"github.com/koopa0/system-design/paddle-arena/internal/auth"
	"github.com/koopa0/system-design/paddle-arena/internal/migrations"
	"github.com/koopa0/system-design/paddle-arena/internal/store"
	"github.com/koopa0/system-design/paddle-arena/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "配置檔案路徑")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "paddle-arena: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// 載入配置
	config, err := internal.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 設定日誌
	log, logCloser := logger.New(logger.Options{
		Level:      config.Log.Level,
		Format:     config.Log.Format,
		Output:     config.Log.Output,
		AddSource:  config.Log.Level == "debug",
		MaxSizeMB:  config.Log.MaxSizeMB,
		MaxBackups: config.Log.MaxBackups,
		MaxAgeDays: config.Log.MaxAgeDays,
		Compress:   config.Log.Compress,
	})
	defer logCloser.Close()
	slog.SetDefault(log)

	ctx := context.Background()

	// 持久化：PostgreSQL 為權威來源，Redis 排行榜為鏡像
	var (
		sink        internal.PersistenceSink = internal.NopSink{}
		leaderboard internal.LeaderboardReader
		statsReader internal.StatsReader
		board       *store.Leaderboard
	)

	if config.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         config.Redis.Addr,
			Password:     config.Redis.Password,
			DB:           config.Redis.DB,
			PoolSize:     config.Redis.PoolSize,
			ReadTimeout:  config.Redis.ReadTimeout,
			WriteTimeout: config.Redis.WriteTimeout,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		board = store.NewLeaderboard(redisClient, config.Redis.KeyPrefix, log)
		leaderboard = board
	}

	if config.Postgres.Enabled {
		pool, err := connectPostgres(ctx, config, log)
		if err != nil {
			return err
		}
		defer pool.Close()

		matches := store.NewMatchStore(pool, log)
		sink = store.NewSink(matches, board, log)
		statsReader = matches
	} else {
		log.Warn("postgres disabled, match results will not be persisted")
	}

	// 身分驗證 + 連線中心 + 協調者
	binder := auth.NewJWTBinder(config.Auth.JWTSecret, config.Auth.Issuer)
	hub := internal.NewHub(binder, log, internal.WithAllowedOrigins(config.Server.AllowedOrigins))
	arena := internal.NewArena(hub, sink, log,
		internal.WithTickInterval(config.TickInterval()),
		internal.WithWinningScore(config.Game.WinningScore),
		internal.WithPersistTimeout(config.Persistence.Timeout),
	)
	hub.Attach(arena)

	handler := internal.NewHandler(arena, hub, leaderboard, statsReader, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Server.Port),
		Handler:      handler.Routes(),
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("starting server",
			"port", config.Server.Port,
			"tick_rate", config.Game.TickRate,
			"winning_score", config.Game.WinningScore)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}

	case sig := <-shutdown:
		log.Info("shutdown signal received", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// 停止接受新連接
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shutdown server", "error", err)
			if closeErr := srv.Close(); closeErr != nil {
				log.Error("failed to force close server", "error", closeErr)
			}
		}

		// 先終止房間並等待持久化，再關閉連線
		arena.Stop()
		hub.Stop()
	}

	log.Info("server stopped")
	return nil
}

// connectPostgres 建立連接池並執行遷移
func connectPostgres(ctx context.Context, config *internal.Config, log *slog.Logger) (*pgxpool.Pool, error) {
	dsn := config.PostgresDSN()

	migrator, err := migrations.New(dsn, log)
	if err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if err := migrator.Close(); err != nil {
		log.Warn("failed to close migrator", "error", err)
	}

	pgConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	pgConfig.MaxConns = config.Postgres.MaxConns
	pgConfig.MinConns = config.Postgres.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, pgConfig)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}
