// Package model loads the pre-trained artifacts used for inference and
// exposes them behind small read-only contracts.
package model

import "errors"

var (
	ErrMissingArtifact   = errors.New("artifact missing")
	ErrMalformedArtifact = errors.New("artifact malformed")
	ErrDimensionMismatch = errors.New("artifact dimension mismatch")
)

// Vectorizer turns raw text into a fixed-dimension sparse representation.
type Vectorizer interface {
	Transform(text string) (SparseVector, error)
	Dimension() int
}

// Classifier is a binary classifier over combined feature vectors.
// PredictProba returns [p0, p1] where index 1 is the positive class.
type Classifier interface {
	Predict(v SparseVector) (int, error)
	PredictProba(v SparseVector) ([]float64, error)
}

// FeatureCounter is implemented by classifiers that know their input width.
type FeatureCounter interface {
	NumFeatures() int
}

func labelFor(p1 float64) int {
	if p1 >= 0.5 {
		return 1
	}
	return 0
}
