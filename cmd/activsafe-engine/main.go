// Engine daemon entry point: wires configuration, backends and the safety
// service, then serves metrics and health until terminated.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/activsafe/ActivSafe-Platform/internal/application/safety"
	"github.com/activsafe/ActivSafe-Platform/internal/config"
	"github.com/activsafe/ActivSafe-Platform/internal/infrastructure/database/postgres"
	redisadapter "github.com/activsafe/ActivSafe-Platform/internal/infrastructure/database/redis"
	kafkaadapter "github.com/activsafe/ActivSafe-Platform/internal/infrastructure/messaging/kafka"
	"github.com/activsafe/ActivSafe-Platform/internal/infrastructure/monitoring/logging"
	"github.com/activsafe/ActivSafe-Platform/internal/infrastructure/monitoring/prometheus"
	"github.com/activsafe/ActivSafe-Platform/internal/intelligence/trendstat"
)

const (
	defaultConfigPath = "configs/config.yaml"
	defaultAdminAddr  = ":9102"
	startupTimeout    = 30 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	adminAddr := flag.String("admin-addr", defaultAdminAddr, "listen address for metrics and health endpoints")
	trendScope := flag.String("trend-scope", "global", "scope whose trend analysis the daemon keeps warm")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:            cfg.Log.Level,
		Format:           cfg.Log.Format,
		OutputPaths:      cfg.Log.OutputPaths,
		ErrorOutputPaths: cfg.Log.ErrorOutputPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger initialization failed: %v\n", err)
		os.Exit(1)
	}
	logger.Info("starting activsafe engine",
		logging.String("admin_addr", *adminAddr),
		logging.Int("history_window_days", cfg.Engine.HistoryWindowDays))

	metrics := prometheus.NewMetrics(cfg.Metrics.Namespace)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("incident store connection failed", logging.Err(err))
	}
	defer pool.Close()
	history := postgres.NewHistoryRepository(pool, logger,
		postgres.WithMetrics(metrics),
		postgres.WithQueryTimeout(cfg.Database.QueryTimeout))

	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("trend cache connection failed", logging.Err(err))
	}
	defer redisClient.Close()
	cache := redisadapter.NewTrendCache(redisClient, cfg.Redis.KeyPrefix,
		cfg.Engine.TrendCacheTTL, logger, redisadapter.WithMetrics(metrics))

	var publisher safety.EventPublisher
	if cfg.Engine.PublishAssessments {
		p := kafkaadapter.NewPublisher(cfg.Kafka, logger, kafkaadapter.WithMetrics(metrics))
		defer p.Close()
		publisher = p
	}

	service := safety.NewService(safety.Deps{
		History:           history,
		Analyzer:          trendstat.NewAnalyzer(logger, trendstat.WithMetrics(metrics)),
		Cache:             cache,
		Publisher:         publisher,
		Logger:            logger,
		Metrics:           metrics,
		DefaultWindowDays: cfg.Engine.HistoryWindowDays,
	})
	refreshCtx, refreshCancel := context.WithCancel(context.Background())
	defer refreshCancel()
	go refreshTrends(refreshCtx, service, *trendScope, cfg.Engine.TrendCacheTTL, logger)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			http.Error(w, "incident store unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	adminSrv := &http.Server{
		Addr:         *adminAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("admin server listening", logging.String("addr", *adminAddr))
		if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("admin server error", logging.Err(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := adminSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("admin server shutdown error", logging.Err(err))
	}
	logger.Info("stopped")
}

// refreshTrends recomputes the scope's trend analysis ahead of cache expiry
// so interactive callers always hit a warm entry.
func refreshTrends(ctx context.Context, svc *safety.Service, scope string, ttl time.Duration, logger logging.Logger) {
	interval := ttl / 2
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := svc.AnalyzeTrends(ctx, &safety.TrendRequest{Scope: scope}); err != nil {
			logger.Warn("trend refresh failed",
				logging.String("scope", scope),
				logging.Err(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// No file is fine; the environment supplies overrides.
		return config.LoadFromEnv()
	}
	return config.Load(path)
}
