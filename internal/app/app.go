package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/moviedex/moviedex/internal/collections"
	"github.com/moviedex/moviedex/internal/config"
	"github.com/moviedex/moviedex/internal/httpserver"
	"github.com/moviedex/moviedex/internal/httpserver/deps"
	"github.com/moviedex/moviedex/internal/logger"
	"github.com/moviedex/moviedex/internal/redis"
	"github.com/moviedex/moviedex/internal/search"
	"github.com/moviedex/moviedex/internal/seed"
	"github.com/moviedex/moviedex/internal/session"
	filestore "github.com/moviedex/moviedex/internal/store/file"
	redisstore "github.com/moviedex/moviedex/internal/store/redis"
	"github.com/moviedex/moviedex/internal/tmdb"
	"github.com/moviedex/moviedex/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Collections persistence: file by default, redis when configured.
	var (
		store       collections.Store
		storePing   func(context.Context) error
		redisClient *goredis.Client
	)
	switch cfg.StoreBackend {
	case config.StoreRedis:
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		redisClient = client
		rs := redisstore.NewStore(client)
		store, storePing = rs, rs.Ping
	default:
		fs := filestore.NewStore(cfg.CollectionsFile)
		store, storePing = fs, fs.Ping
		loggerClient.Info("using file collections store",
			logger.String("path", cfg.CollectionsFile))
	}

	startCtx := context.Background()
	colService := collections.NewService(startCtx, store, loggerClient)

	// Seed starter collections into an empty install. A configured but
	// unreadable seed file is a deployment mistake, not something to limp past.
	if cfg.SeedFile != "" {
		if err := seed.Import(startCtx, cfg.SeedFile, colService, loggerClient); err != nil {
			loggerClient.Errorf("Failed to import seed file %s: %v", cfg.SeedFile, err)
			os.Exit(1)
		}
	}

	client := tmdb.NewClient(tmdb.Options{
		BaseURL:       cfg.TMDBBaseURL,
		APIKey:        cfg.TMDBAPIKey,
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    cfg.RetryDelay,
	})

	broker := session.NewBroker(client, loggerClient, session.Options{
		ExpiryBuffer: cfg.SessionExpiryBuffer,
		WaitTimeout:  cfg.SessionWaitTimeout,
	})

	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		TimeNow:      time.Now,
		Client:       client,
		Aggregator:   search.NewAggregator(client, loggerClient),
		SearchState:  search.NewStateHolder(),
		Sessions:     broker,
		Collections:  colService,
		StoreBackend: cfg.StoreBackend,
		StorePing:    storePing,
		TrustProxy:   cfg.TrustProxy,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
	}
}

func (a *App) Run() error {
	a.logger.Infof("Starting moviedex v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("moviedex %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("Redis closed cleanly")
		}
	}

	a.logger.Info("moviedex stopped cleanly")
	return nil
}
