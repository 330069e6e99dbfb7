package model

import "fmt"

// LogisticConfig is the decoded form of a {"type":"logistic"} classifier.
type LogisticConfig struct {
	Type        string          `json:"type"`
	Intercept   float64         `json:"intercept"`
	Weights     map[int]float64 `json:"weights"`
	NumFeatures int             `json:"num_features"`
}

// LogisticClassifier is a sparse linear model with a sigmoid link.
type LogisticClassifier struct {
	intercept   float64
	weights     map[int]float64
	numFeatures int
}

func NewLogisticClassifier(cfg LogisticConfig) (*LogisticClassifier, error) {
	if cfg.NumFeatures <= 0 {
		return nil, fmt.Errorf("%w: logistic num_features must be positive", ErrMalformedArtifact)
	}
	for idx := range cfg.Weights {
		if idx < 0 || idx >= cfg.NumFeatures {
			return nil, fmt.Errorf("%w: weight index %d outside [0,%d)", ErrMalformedArtifact, idx, cfg.NumFeatures)
		}
	}
	return &LogisticClassifier{
		intercept:   cfg.Intercept,
		weights:     cfg.Weights,
		numFeatures: cfg.NumFeatures,
	}, nil
}

func (m *LogisticClassifier) NumFeatures() int {
	return m.numFeatures
}

func (m *LogisticClassifier) PredictProba(v SparseVector) ([]float64, error) {
	if v.Dim != m.numFeatures {
		return nil, fmt.Errorf("%w: vector has %d features, model expects %d", ErrDimensionMismatch, v.Dim, m.numFeatures)
	}
	z := m.intercept
	for i, idx := range v.Indices {
		z += m.weights[idx] * v.Values[i]
	}
	p1 := sigmoid(z)
	return []float64{1 - p1, p1}, nil
}

func (m *LogisticClassifier) Predict(v SparseVector) (int, error) {
	proba, err := m.PredictProba(v)
	if err != nil {
		return 0, err
	}
	return labelFor(proba[1]), nil
}
