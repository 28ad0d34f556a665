package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/playpredict/forecast-api/internal/config"
	"github.com/playpredict/forecast-api/internal/handlers"
	"github.com/playpredict/forecast-api/internal/loader"
	"github.com/playpredict/forecast-api/internal/logic"
	"github.com/playpredict/forecast-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Sugar().Fatalw("Server exited with error", "error", err)
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, closeSource, err := loader.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open data source: %w", err)
	}
	defer closeSource()

	store, err := logic.NewStore(ctx, loader.SnapshotLoader(src, logger), logger)
	if err != nil {
		return err
	}

	rdb := connectRedis(ctx, cfg.RedisURL, log)
	if rdb != nil {
		defer rdb.Close()
	}

	reloaderCfg := worker.ReloaderConfig{
		Store:     store,
		QueueSize: cfg.ReloadQueueSize,
		Interval:  cfg.ReloadInterval,
		Logger:    logger,
	}
	if rdb != nil {
		reloaderCfg.Notifier = rdb
	}
	reloader := worker.NewReloader(reloaderCfg)
	reloader.Start(ctx)
	defer reloader.Stop()

	if rdb != nil {
		go reloader.Listen(ctx, rdb)
	}

	h := handlers.New(handlers.Config{
		Prediction:       logic.NewPredictionService(store, logger),
		Reloads:          reloader,
		Logger:           logger,
		BatchConcurrency: cfg.BatchConcurrency,
		MaxBatchSize:     cfg.MaxBatchSize,
		AdminToken:       cfg.AdminToken,
	})

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: h.Router(handlers.RouterConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			RequestTimeout: cfg.RequestTimeout,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("Server listening", "addr", srv.Addr, "env", cfg.Env, "source", src.Name())
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

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// connectRedis returns nil when Redis is not configured or unreachable.
// Reload events are best effort and never block startup.
func connectRedis(ctx context.Context, url string, log *zap.SugaredLogger) *redis.Client {
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Warnw("Invalid REDIS_URL, reload notifications disabled", "error", err)
		return nil
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warnw("Redis unreachable, reload notifications disabled", "error", err)
		rdb.Close()
		return nil
	}
	return rdb
}
