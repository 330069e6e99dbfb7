package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/job-fraud-detector/internal/analysis"
	apperrors "github.com/ZanzyTHEbar/job-fraud-detector/internal/errors"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/scraper"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/security"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/types"
)

// minTextLength is the shortest trimmed listing accepted for analysis
const minTextLength = 20

// health godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} types.HealthResponse
// @Router /api/health [get]
func (s *server) health(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:  "ok",
		Message: "Job detector API is running",
	})
}

// analyze godoc
// @Summary Analyze a job listing
// @Description Fetches the listing when url is set, otherwise analyzes text directly
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body types.AnalyzeRequest true "Listing URL or text"
// @Success 200 {object} types.AnalyzeResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 413 {object} types.ErrorResponse
// @Failure 429 {object} types.ErrorResponse
// @Failure 500 {object} types.FailureResponse
// @Router /api/analyze [post]
func (s *server) analyze(c *gin.Context) {
	start := time.Now()

	body, err := c.GetRawData()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.reject(c, security.NewBodyTooLargeError())
			return
		}
		s.reject(c, apperrors.NewValidationError("No data provided", err.Error()))
		return
	}

	req, appErr := decodeAnalyzeRequest(body)
	if appErr != nil {
		s.reject(c, appErr)
		return
	}

	var text, title, source string
	switch {
	case req.URL != "":
		listing, err := s.fetcher.Fetch(c.Request.Context(), req.URL)
		if err != nil {
			s.reject(c, sourceError(err))
			return
		}
		text, title, source = listing.Text, listing.Title, "url"
	case req.Text != "":
		text, source = req.Text, "text"
	default:
		s.reject(c, apperrors.NewValidationError("No URL or text provided"))
		return
	}

	if utf8.RuneCountInString(strings.TrimSpace(text)) < minTextLength {
		s.reject(c, apperrors.NewValidationError("Text too short to analyze"))
		return
	}

	result, err := s.analyzer.Analyze(text)
	if err != nil {
		s.reject(c, analysisError(err))
		return
	}
	s.record(source, text, result, time.Since(start))

	c.JSON(http.StatusOK, types.AnalyzeResponse{
		AnalysisResult: result,
		ExtractedTitle: title,
	})
}

// sample godoc
// @Summary Analyze the sample listing
// @Description Runs the pipeline against a built-in fraudulent sample listing
// @Tags analysis
// @Produce json
// @Success 200 {object} analysis.AnalysisResult
// @Failure 429 {object} types.ErrorResponse
// @Failure 500 {object} types.FailureResponse
// @Router /api/test [post]
func (s *server) sample(c *gin.Context) {
	start := time.Now()

	result, err := s.analyzer.Analyze(analysis.SampleListing)
	if err != nil {
		s.reject(c, analysisError(err))
		return
	}
	s.record("sample", analysis.SampleListing, result, time.Since(start))

	c.JSON(http.StatusOK, result)
}

// decodeAnalyzeRequest treats anything other than a non-empty JSON object as
// missing data
func decodeAnalyzeRequest(body []byte) (types.AnalyzeRequest, *apperrors.AppError) {
	var req types.AnalyzeRequest

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
		return req, apperrors.NewValidationError("No data provided")
	}

	if err := json.Unmarshal(body, &req); err != nil {
		return req, apperrors.NewValidationError("Invalid request body", err.Error())
	}
	return req, nil
}

func sourceError(err error) *apperrors.AppError {
	var fetchErr *scraper.FetchError
	if errors.As(err, &fetchErr) {
		return apperrors.NewSourceError(fetchErr.Status, fetchErr.Message, fetchErr)
	}
	return apperrors.NewSourceError(scraper.StatusError, "Failed to fetch job listing: "+err.Error(), err)
}

func analysisError(err error) *apperrors.AppError {
	if errors.Is(err, analysis.ErrSchemaMismatch) {
		return apperrors.NewSchemaError(err)
	}
	return apperrors.NewInternalError(err.Error(), err)
}

func (s *server) reject(c *gin.Context, appErr *apperrors.AppError) {
	s.metrics.RecordAnalysisFailure(string(appErr.Category))
	apperrors.Respond(c, appErr)
}

func (s *server) record(source, text string, result analysis.AnalysisResult, duration time.Duration) {
	s.metrics.RecordAnalysis(string(result.Verdict), result.FraudProbability/100, duration)
	s.logger.AnalysisLogger(
		source,
		utf8.RuneCountInString(text),
		string(result.Verdict),
		result.FraudProbability,
		result.Confidence,
		duration,
	)
}
