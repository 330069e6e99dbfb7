package types

import "github.com/ZanzyTHEbar/job-fraud-detector/internal/analysis"

// AnalyzeRequest represents the request structure for analyze endpoint.
// URL wins when both fields are set.
type AnalyzeRequest struct {
	URL  string `json:"url,omitempty" example:"https://jobs.example.com/listing/42"`
	Text string `json:"text,omitempty" example:"We are hiring a backend engineer with 5 years of experience..."`
}

// AnalyzeResponse is the analysis result plus the page title for URL input
type AnalyzeResponse struct {
	analysis.AnalysisResult
	ExtractedTitle string `json:"extractedTitle,omitempty"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message" example:"Job detector API is running"`
}

// ErrorResponse is returned for rejected input, failed fetches and rate limiting
type ErrorResponse struct {
	Error  string `json:"error" example:"Text too short to analyze"`
	Status string `json:"status" example:"invalid_input"`
}

// FailureResponse is returned when analysis fails unexpectedly
type FailureResponse struct {
	Error   string `json:"error" example:"Analysis failed"`
	Details string `json:"details" example:"inference failed"`
}
