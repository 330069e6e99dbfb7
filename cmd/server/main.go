package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/job-fraud-detector/internal/analysis"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/cache"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/config"
	apperrors "github.com/ZanzyTHEbar/job-fraud-detector/internal/errors"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/model"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/monitoring"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/ratelimit"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/resilience"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/scraper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal(apperrors.NewConfigurationError("failed to load configuration", err))
	}

	gin.SetMode(cfg.GinMode)

	// Structured logging setup
	appLogger := monitoring.NewLogger(cfg.LogLevel)
	slog.SetDefault(appLogger.Logger)

	// Artifacts are loaded once and shared read-only by all requests
	artifacts, err := model.LoadArtifacts(cfg.ModelDir)
	if err != nil {
		fatal(apperrors.NewConfigurationError("failed to load model artifacts from "+cfg.ModelDir, err))
	}
	analyzer, err := analysis.NewAnalyzerFromArtifacts(artifacts)
	if err != nil {
		fatal(apperrors.NewConfigurationError("model artifacts do not match the feature extractor", err))
	}
	slog.Info("Model loaded",
		"model_dir", cfg.ModelDir,
		"vocabulary_size", artifacts.Vectorizer.Dimension(),
		"feature_columns", len(artifacts.FeatureColumns),
	)

	appMetrics := monitoring.NewMetrics()

	redisClient, err := ratelimit.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		slog.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
	}
	if redisClient.IsEnabled() {
		if err := redisClient.RegisterMetrics(appMetrics.Registry()); err != nil {
			slog.Warn("Failed to register Redis pool metrics", "error", err)
		}
	}

	var limiter *ratelimit.RateLimiter
	if cfg.RateLimitPerMin > 0 {
		limiter = ratelimit.NewRateLimiter(redisClient, ratelimit.Config{
			IPLimitPerMin:   cfg.RateLimitPerMin,
			BurstMultiplier: 1,
			CleanupInterval: 10 * time.Minute,
		}, appMetrics)
	}

	var responseCache *cache.Cache
	if cfg.CacheTTL > 0 {
		responseCache = cache.NewCache(cfg.CacheTTL, cfg.CacheMaxEntries)
	}

	breakers := resilience.NewCircuitBreakerRegistry(breakerConfig(cfg, appMetrics, appLogger))
	fetcher := scraper.NewFetcher(scraper.Config{
		Timeout:      cfg.FetchTimeout,
		UserAgent:    cfg.FetchUserAgent,
		MaxBodyBytes: cfg.FetchMaxBodyBytes,
	}, breakers, appMetrics, appLogger)

	r := setupRouter(&server{
		cfg:      cfg,
		analyzer: analyzer,
		fetcher:  fetcher,
		metrics:  appMetrics,
		logger:   appLogger,
		cache:    responseCache,
		limiter:  limiter,
	})

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "addr", cfg.Address(), "redis", redisClient.IsEnabled())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	if responseCache != nil {
		responseCache.Close()
	}
	if limiter != nil {
		limiter.Close()
	}
	apperrors.SafeClose(redisClient, "redis client")

	slog.Info("Server exited")
}

func breakerConfig(cfg *config.Config, metrics *monitoring.Metrics, logger *monitoring.Logger) resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		FailureThreshold: cfg.BreakerFailureThreshold,
		RecoveryTimeout:  cfg.BreakerRecoveryTimeout,
		SuccessThreshold: 1,
		IsFailure:        scraper.CountsAsFailure,
		OnStateChange: func(host string, from, to resilience.CircuitBreakerState) {
			switch to {
			case resilience.StateOpen:
				metrics.IncrementCircuitBreakerOpen()
			case resilience.StateClosed:
				metrics.IncrementCircuitBreakerClose()
			}
			logger.SystemLogger("circuit_breaker_"+to.String(), host+" was "+from.String())
		},
	}
}

func fatal(err *apperrors.AppError) {
	slog.Error(err.Error(), "details", err.Detail, "cause", err.Unwrap())
	os.Exit(1)
}
