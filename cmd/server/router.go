package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ZanzyTHEbar/job-fraud-detector/docs"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/analysis"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/cache"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/config"
	apperrors "github.com/ZanzyTHEbar/job-fraud-detector/internal/errors"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/monitoring"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/ratelimit"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/scraper"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/security"
)

// listingFetcher acquires listing text from a URL
type listingFetcher interface {
	Fetch(ctx context.Context, url string) (*scraper.Listing, error)
}

// server carries the handler dependencies. cache and limiter are optional.
type server struct {
	cfg      *config.Config
	analyzer *analysis.Analyzer
	fetcher  listingFetcher
	metrics  *monitoring.Metrics
	logger   *monitoring.Logger
	cache    *cache.Cache
	limiter  *ratelimit.RateLimiter
}

func setupRouter(s *server) *gin.Engine {
	r := gin.New()

	// Monitoring first so every request is counted
	r.Use(monitoring.MonitoringMiddleware(s.metrics, s.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(s.logger, s.cfg.MaxRequestBodyBytes))

	r.Use(apperrors.ErrorHandler())
	r.Use(apperrors.RecoveryHandler())

	r.Use(cors.New(corsConfig(s.cfg.CORSAllowedOrigins)))
	r.Use(security.SecurityHeadersMiddleware(s.cfg.EnableHSTS))
	r.Use(security.RequestTimeoutMiddleware(s.cfg.RequestTimeout))
	r.Use(security.BodyLimitMiddleware(s.cfg.MaxRequestBodyBytes))

	var limited []gin.HandlerFunc
	if s.limiter != nil {
		limited = append(limited, s.limiter.IPRateLimitMiddleware())
	}

	analyzeChain := append([]gin.HandlerFunc{}, limited...)
	if s.cache != nil {
		analyzeChain = append(analyzeChain, s.cache.Middleware("/api/analyze", s.metrics))
	}

	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.POST("/analyze", append(analyzeChain, s.analyze)...)
		api.POST("/test", append(limited, s.sample)...)
	}

	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	// Swagger documentation routes
	docs.SwaggerInfo.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"X-Cache", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			config.AllowAllOrigins = true
			return config
		}
	}
	config.AllowOrigins = origins
	return config
}
