// Package analysis turns job-listing text into a fraud verdict.
package analysis

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/ZanzyTHEbar/job-fraud-detector/internal/model"
)

// ErrInference wraps failures raised by the vectorizer or classifier.
var ErrInference = errors.New("inference failed")

// Analyzer orchestrates the full analysis pipeline. It holds only the
// read-only artifacts and is safe for concurrent use.
type Analyzer struct {
	vectorizer model.Vectorizer
	classifier model.Classifier
	schema     []string
}

// NewAnalyzer validates the column schema against the extracted features.
func NewAnalyzer(vectorizer model.Vectorizer, classifier model.Classifier, schema []string) (*Analyzer, error) {
	if vectorizer == nil || classifier == nil {
		return nil, errors.New("analyzer requires a vectorizer and a classifier")
	}
	if err := ValidateSchema(schema); err != nil {
		return nil, err
	}
	cols := make([]string, len(schema))
	copy(cols, schema)
	return &Analyzer{
		vectorizer: vectorizer,
		classifier: classifier,
		schema:     cols,
	}, nil
}

// NewAnalyzerFromArtifacts builds an Analyzer over a loaded bundle.
func NewAnalyzerFromArtifacts(a *model.Artifacts) (*Analyzer, error) {
	return NewAnalyzer(a.Vectorizer, a.Classifier, a.FeatureColumns)
}

// Dimension is the width of the combined feature vector.
func (a *Analyzer) Dimension() int {
	return a.vectorizer.Dimension() + len(a.schema)
}

// Analyze runs extraction, vectorisation, assembly, classification and the
// verdict policy. Any failure aborts the whole analysis.
func (a *Analyzer) Analyze(text string) (AnalysisResult, error) {
	features := Extract(text)

	textVec, err := a.vectorizer.Transform(text)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("%w: vectorize: %v", ErrInference, err)
	}

	combined, err := Assemble(features, a.schema, textVec)
	if err != nil {
		return AnalysisResult{}, err
	}

	label, err := a.classifier.Predict(combined)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("%w: predict: %v", ErrInference, err)
	}
	proba, err := a.classifier.PredictProba(combined)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("%w: predict_proba: %v", ErrInference, err)
	}
	if err := checkProbabilities(proba); err != nil {
		return AnalysisResult{}, err
	}

	slog.Debug("Listing classified",
		"label", label,
		"fraud_probability", proba[1],
		"text_nnz", textVec.NNZ(),
		"dimension", combined.Dim,
	)

	return Decide(proba[1], features, math.Max(proba[0], proba[1]), text), nil
}

func checkProbabilities(p []float64) error {
	if len(p) != 2 {
		return fmt.Errorf("%w: expected 2 class probabilities, got %d", ErrInference, len(p))
	}
	for _, v := range p {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: probability %v outside [0,1]", ErrInference, v)
		}
	}
	return nil
}
