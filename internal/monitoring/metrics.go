package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "job_detector"

// Metrics holds application metrics on a private Prometheus registry
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          prometheus.Counter

	analyses         *prometheus.CounterVec
	analysisFailures *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	fraudProbability prometheus.Histogram

	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	rateLimitBlocks      prometheus.Counter
	rateLimitRedisErrors prometheus.Counter
	rateLimitFallbacks   prometheus.Counter

	breakerTransitions *prometheus.CounterVec
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		errors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Responses with a status of 400 or above",
		}),
		analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed analyses by verdict",
		}, []string{"verdict"}),
		analysisFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_failures_total",
			Help:      "Rejected or failed analyses by error category",
		}, []string{"category"}),
		analysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent in the inference pipeline",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		fraudProbability: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fraud_probability",
			Help:      "Distribution of predicted fraud probabilities",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 9),
		}),
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listing_fetches_total",
			Help:      "Listing fetches by outcome",
		}, []string{"outcome"}),
		fetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "listing_fetch_duration_seconds",
			Help:      "Listing fetch latency",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Analysis responses served from cache",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Analysis requests not found in cache",
		}),
		rateLimitBlocks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_blocks_total",
			Help:      "Requests rejected by the per-IP rate limit",
		}),
		rateLimitRedisErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_redis_errors_total",
			Help:      "Redis failures while checking rate limits",
		}),
		rateLimitFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_fallbacks_total",
			Help:      "Rate limit checks served by the in-memory limiter",
		}),
		breakerTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_transitions_total",
			Help:      "Circuit breaker state changes by target state",
		}, []string{"state"}),
	}
}

// Registry exposes the underlying registry for tests and extra collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordRequest records one HTTP exchange
func (m *Metrics) RecordRequest(method, route string, statusCode int, duration time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	if statusCode >= 400 {
		m.errors.Inc()
	}
}

// RecordAnalysis records a completed analysis
func (m *Metrics) RecordAnalysis(verdict string, fraudProbability float64, duration time.Duration) {
	m.analyses.WithLabelValues(verdict).Inc()
	m.fraudProbability.Observe(fraudProbability)
	m.analysisDuration.Observe(duration.Seconds())
}

// RecordAnalysisFailure records a rejected or failed analysis
func (m *Metrics) RecordAnalysisFailure(category string) {
	m.analysisFailures.WithLabelValues(category).Inc()
}

// RecordFetch records a listing fetch. outcome is "ok" or the failure status.
func (m *Metrics) RecordFetch(outcome string, duration time.Duration) {
	m.fetches.WithLabelValues(outcome).Inc()
	m.fetchDuration.Observe(duration.Seconds())
}

// IncrementCacheHit increments cache hit count
func (m *Metrics) IncrementCacheHit() {
	m.cacheHits.Inc()
}

// IncrementCacheMiss increments cache miss count
func (m *Metrics) IncrementCacheMiss() {
	m.cacheMisses.Inc()
}

func (m *Metrics) IncrementRateLimitIPBlock() {
	m.rateLimitBlocks.Inc()
}

func (m *Metrics) IncrementRateLimitRedisError() {
	m.rateLimitRedisErrors.Inc()
}

func (m *Metrics) IncrementRateLimitFallback() {
	m.rateLimitFallbacks.Inc()
}

// IncrementCircuitBreakerOpen increments circuit breaker open count
func (m *Metrics) IncrementCircuitBreakerOpen() {
	m.breakerTransitions.WithLabelValues("open").Inc()
}

// IncrementCircuitBreakerClose increments circuit breaker close count
func (m *Metrics) IncrementCircuitBreakerClose() {
	m.breakerTransitions.WithLabelValues("closed").Inc()
}
