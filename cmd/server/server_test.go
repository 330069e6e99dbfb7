package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/job-fraud-detector/internal/analysis"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/cache"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/config"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/model"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/monitoring"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/ratelimit"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/resilience"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/scraper"
)

const legitimateListing = "Our platform engineering group is looking for a backend developer to join a distributed team of twelve. " +
	"You will design and maintain services written in Go, review code with peers, and mentor junior colleagues. " +
	"The role includes health coverage, a retirement plan, parental leave, and a yearly learning budget. " +
	"Interviews consist of a short call, a take home exercise, and a conversation with the hiring manager."

const listingPage = `<html><head><title>Careers</title></head><body>
<nav>Jobs Home About</nav>
<h1>Backend Developer</h1>
<p>` + legitimateListing + `</p>
<footer>All rights reserved</footer>
</body></html>`

func init() {
	gin.SetMode(gin.TestMode)
}

type testOptions struct {
	limitPerMin int
	cacheTTL    time.Duration
	maxBody     int64
	classifier  model.Classifier
}

func testConfig(opts testOptions) *config.Config {
	maxBody := opts.maxBody
	if maxBody == 0 {
		maxBody = 1 << 20
	}
	return &config.Config{
		Port:                    5000,
		CORSAllowedOrigins:      []string{"*"},
		MaxRequestBodyBytes:     maxBody,
		RequestTimeout:          5 * time.Second,
		FetchTimeout:            time.Second,
		BreakerFailureThreshold: 5,
		BreakerRecoveryTimeout:  time.Minute,
	}
}

func newTestRouter(t *testing.T, opts testOptions) (*gin.Engine, *monitoring.Metrics) {
	t.Helper()

	artifacts, err := model.LoadArtifacts("../../internal/model/testdata")
	require.NoError(t, err)

	classifier := artifacts.Classifier
	if opts.classifier != nil {
		classifier = opts.classifier
	}
	analyzer, err := analysis.NewAnalyzer(artifacts.Vectorizer, classifier, artifacts.FeatureColumns)
	require.NoError(t, err)

	cfg := testConfig(opts)
	metrics := monitoring.NewMetrics()
	logger := monitoring.NewLoggerTo(io.Discard, slog.LevelError)
	breakers := resilience.NewCircuitBreakerRegistry(breakerConfig(cfg, metrics, logger))

	s := &server{
		cfg:      cfg,
		analyzer: analyzer,
		fetcher:  scraper.NewFetcher(scraper.Config{Timeout: cfg.FetchTimeout}, breakers, metrics, logger),
		metrics:  metrics,
		logger:   logger,
	}

	if opts.limitPerMin > 0 {
		redisClient, err := ratelimit.NewRedisClient("", "", 0)
		require.NoError(t, err)
		s.limiter = ratelimit.NewRateLimiter(redisClient, ratelimit.Config{
			IPLimitPerMin:   opts.limitPerMin,
			BurstMultiplier: 1,
			CleanupInterval: time.Hour,
		}, metrics)
		t.Cleanup(s.limiter.Close)
	}
	if opts.cacheTTL > 0 {
		s.cache = cache.NewCache(opts.cacheTTL, 100)
		t.Cleanup(s.cache.Close)
	}

	return setupRouter(s), metrics
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, testOptions{})

	tests := []struct {
		name           string
		method         string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "GET returns ok",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok","message":"Job detector API is running"}`,
		},
		{
			name:           "POST is not routed",
			method:         http.MethodPost,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, "/api/health", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
				assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
			}
		})
	}
}

func TestSampleEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, testOptions{})

	w := post(r, "/api/test", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "likely_fraud", body["verdict"])
	assert.Equal(t, "high", body["riskLevel"])
	assert.Equal(t, float64(97), body["confidence"])
	assert.Equal(t, 97.1, body["fraudProbability"])
	assert.Equal(t, "unknown", body["companyName"])
	assert.Len(t, body["redFlags"], 4)
	assert.Equal(t, []interface{}{}, body["positiveSignals"])
	assert.NotContains(t, body, "extractedTitle")
}

func TestAnalyzeText(t *testing.T) {
	r, metrics := newTestRouter(t, testOptions{})

	w := post(r, "/api/analyze", mustJSON(t, map[string]string{"text": legitimateListing}))
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "legitimate", body["verdict"])
	assert.Equal(t, "low", body["riskLevel"])
	assert.Equal(t, float64(92), body["confidence"])
	assert.Equal(t, 7.6, body["fraudProbability"])
	assert.Equal(t, []interface{}{}, body["redFlags"])
	assert.NotContains(t, body, "extractedTitle")

	metricsBody := httptest.NewRecorder()
	setupMetricsCheck(t, metrics, metricsBody)
	assert.Contains(t, metricsBody.Body.String(), `job_detector_analyses_total{verdict="legitimate"} 1`)
}

func setupMetricsCheck(t *testing.T, metrics *monitoring.Metrics, w *httptest.ResponseRecorder) {
	t.Helper()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyzeInputValidation(t *testing.T) {
	r, _ := newTestRouter(t, testOptions{})

	tests := []struct {
		name          string
		body          string
		expectedError string
	}{
		{name: "empty body", body: "", expectedError: "No data provided"},
		{name: "empty object", body: "{}", expectedError: "No data provided"},
		{name: "null", body: "null", expectedError: "No data provided"},
		{name: "not json", body: "text=hello", expectedError: "No data provided"},
		{name: "array", body: `["text"]`, expectedError: "No data provided"},
		{name: "unrelated fields", body: `{"title":"Engineer"}`, expectedError: "No URL or text provided"},
		{name: "empty text", body: `{"text":""}`, expectedError: "No URL or text provided"},
		{name: "short text", body: `{"text":"   Apply today.        "}`, expectedError: "Text too short to analyze"},
		{name: "wrong type", body: `{"text":42}`, expectedError: "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(r, "/api/analyze", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.expectedError, body["error"])
			assert.Equal(t, "invalid_input", body["status"])
		})
	}
}

func TestAnalyzeURL(t *testing.T) {
	listings := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/listing":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = io.WriteString(w, listingPage)
		case "/tiny":
			_, _ = io.WriteString(w, "<html><body><h1>Hiring</h1></body></html>")
		default:
			http.NotFound(w, r)
		}
	}))
	defer listings.Close()

	r, _ := newTestRouter(t, testOptions{})

	t.Run("fetched listing", func(t *testing.T) {
		w := post(r, "/api/analyze", mustJSON(t, map[string]string{"url": listings.URL + "/listing"}))
		require.Equal(t, http.StatusOK, w.Code)

		body := decode(t, w)
		assert.Equal(t, "legitimate", body["verdict"])
		assert.Equal(t, "Backend Developer", body["extractedTitle"])
	})

	t.Run("url wins over text", func(t *testing.T) {
		w := post(r, "/api/analyze", mustJSON(t, map[string]string{
			"url":  listings.URL + "/listing",
			"text": analysis.SampleListing,
		}))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "legitimate", decode(t, w)["verdict"])
	})

	failures := []struct {
		name           string
		path           string
		expectedError  string
		expectedStatus string
	}{
		{name: "not found", path: "/missing", expectedError: "HTTP error occurred: 404", expectedStatus: "http_error"},
		{name: "thin page", path: "/tiny", expectedError: "Could not extract sufficient content from the URL", expectedStatus: "insufficient_content"},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			w := post(r, "/api/analyze", mustJSON(t, map[string]string{"url": listings.URL + tt.path}))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.expectedError, body["error"])
			assert.Equal(t, tt.expectedStatus, body["status"])
			assert.NotContains(t, body, "verdict")
		})
	}
}

type failingClassifier struct{}

func (failingClassifier) Predict(model.SparseVector) (int, error) {
	return 0, errors.New("booster unavailable")
}

func (failingClassifier) PredictProba(model.SparseVector) ([]float64, error) {
	return nil, errors.New("booster unavailable")
}

func TestAnalyzeInternalFailure(t *testing.T) {
	r, _ := newTestRouter(t, testOptions{classifier: failingClassifier{}})

	for _, path := range []string{"/api/analyze", "/api/test"} {
		t.Run(path, func(t *testing.T) {
			w := post(r, path, mustJSON(t, map[string]string{"text": legitimateListing}))

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			body := decode(t, w)
			assert.Equal(t, "Analysis failed", body["error"])
			assert.Contains(t, body["details"], "booster unavailable")
			assert.NotContains(t, body, "status")
		})
	}
}

func TestAnalyzeRateLimited(t *testing.T) {
	r, _ := newTestRouter(t, testOptions{limitPerMin: 1})
	payload := mustJSON(t, map[string]string{"text": legitimateListing})

	first := post(r, "/api/analyze", payload)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := post(r, "/api/analyze", payload)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	body := decode(t, second)
	assert.Equal(t, "Rate limit exceeded", body["error"])
	assert.Equal(t, "rate_limited", body["status"])

	health := httptest.NewRecorder()
	r.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestAnalyzeCached(t *testing.T) {
	r, _ := newTestRouter(t, testOptions{cacheTTL: time.Minute})
	payload := mustJSON(t, map[string]string{"text": legitimateListing})

	first := post(r, "/api/analyze", payload)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := post(r, "/api/analyze", payload)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	rejected := post(r, "/api/analyze", `{"text":"tiny"}`)
	assert.Equal(t, http.StatusBadRequest, rejected.Code)
	again := post(r, "/api/analyze", `{"text":"tiny"}`)
	assert.Equal(t, "MISS", again.Header().Get("X-Cache"))
}

func TestAnalyzeBodyTooLarge(t *testing.T) {
	r, _ := newTestRouter(t, testOptions{maxBody: 64})

	w := post(r, "/api/analyze", mustJSON(t, map[string]string{"text": legitimateListing}))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "Request body too large", decode(t, w)["error"])
}

func TestMetricsAndSwaggerRoutes(t *testing.T) {
	r, _ := newTestRouter(t, testOptions{})
	post(r, "/api/test", "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `job_detector_http_requests_total{method="POST",route="/api/test",status="200"} 1`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/api/analyze"`)
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t, testOptions{})

	req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
