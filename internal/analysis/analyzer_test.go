package analysis

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ZanzyTHEbar/job-fraud-detector/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legitimateParagraph = "Our platform engineering group is looking for a backend developer to join a distributed team of twelve. " +
	"You will design and maintain services written in Go, review code with peers, and mentor junior colleagues. " +
	"We value clear writing, careful testing, and steady collaboration across time zones. " +
	"The role includes health coverage, a retirement plan, parental leave, and a yearly learning budget. " +
	"Interviews consist of a short call, a take home exercise, and a conversation with the hiring manager. "

type stubVectorizer struct {
	dim int
	err error
}

func (s stubVectorizer) Dimension() int { return s.dim }

func (s stubVectorizer) Transform(string) (model.SparseVector, error) {
	if s.err != nil {
		return model.SparseVector{}, s.err
	}
	return model.SparseVector{Dim: s.dim, Indices: []int{0}, Values: []float64{0.5}}, nil
}

type stubClassifier struct {
	proba []float64
	err   error
	seen  model.SparseVector
}

func (s *stubClassifier) Predict(v model.SparseVector) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.proba[1] >= 0.5 {
		return 1, nil
	}
	return 0, nil
}

func (s *stubClassifier) PredictProba(v model.SparseVector) ([]float64, error) {
	s.seen = v
	return s.proba, s.err
}

func loadAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	artifacts, err := model.LoadArtifacts("../model/testdata")
	require.NoError(t, err)
	a, err := NewAnalyzerFromArtifacts(artifacts)
	require.NoError(t, err)
	return a
}

func TestAnalyzeSampleListing(t *testing.T) {
	a := loadAnalyzer(t)
	assert.Equal(t, 21, a.Dimension())

	res, err := a.Analyze(SampleListing)
	require.NoError(t, err)

	assert.Equal(t, VerdictLikelyFraud, res.Verdict)
	assert.Equal(t, RiskHigh, res.RiskLevel)
	assert.Equal(t, 97, res.Confidence)
	assert.Equal(t, 97.1, res.FraudProbability)
	assert.Equal(t, recommendations[VerdictLikelyFraud], res.Recommendation)
	assert.Equal(t, []string{
		"Excessive urgency language detected (3 instances)",
		"Unrealistic promises detected (e.g., 'easy money', 'guaranteed income')",
		"Very short job description (lacks detail)",
		"Personal email address used instead of company domain",
	}, res.RedFlags)
	assert.Equal(t, []string{}, res.PositiveSignals)
	assert.Contains(t, res.Summary, "exhibits 4 major red flags")
	assert.Equal(t, UnknownCompany, res.CompanyName)
}

func TestAnalyzeLegitimateListing(t *testing.T) {
	a := loadAnalyzer(t)
	text := strings.Repeat(legitimateParagraph, 5)

	res, err := a.Analyze(text)
	require.NoError(t, err)

	assert.Equal(t, VerdictLegitimate, res.Verdict)
	assert.Equal(t, RiskLow, res.RiskLevel)
	assert.Equal(t, 92, res.Confidence)
	assert.Equal(t, 7.6, res.FraudProbability)
	assert.Equal(t, []string{}, res.RedFlags)
	assert.Equal(t, []string{
		"Detailed job description provided",
		"No pressure tactics or urgency language",
		"No requests for upfront payments",
	}, res.PositiveSignals)

	again, err := a.Analyze(text)
	require.NoError(t, err)
	assert.Equal(t, res, again)
}

func TestAnalyzeConcurrent(t *testing.T) {
	a := loadAnalyzer(t)
	want, err := a.Analyze(SampleListing)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := a.Analyze(SampleListing)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestAnalyzeSuspicious(t *testing.T) {
	clf := &stubClassifier{proba: []float64{0.4, 0.6}}
	a, err := NewAnalyzer(stubVectorizer{dim: 4}, clf, FeatureNames)
	require.NoError(t, err)

	res, err := a.Analyze("Please pay the processing fee before your first shift.")
	require.NoError(t, err)

	assert.Equal(t, VerdictSuspicious, res.Verdict)
	assert.Equal(t, 60, res.Confidence)
	assert.Equal(t, 60.0, res.FraudProbability)
	assert.Equal(t, 4+len(FeatureNames), clf.seen.Dim)
}

func TestAnalyzeFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name       string
		vectorizer model.Vectorizer
		classifier model.Classifier
		wantErr    error
	}{
		{
			name:       "vectorizer error",
			vectorizer: stubVectorizer{dim: 2, err: boom},
			classifier: &stubClassifier{proba: []float64{0.5, 0.5}},
			wantErr:    ErrInference,
		},
		{
			name:       "classifier error",
			vectorizer: stubVectorizer{dim: 2},
			classifier: &stubClassifier{proba: []float64{0.5, 0.5}, err: boom},
			wantErr:    ErrInference,
		},
		{
			name:       "wrong probability count",
			vectorizer: stubVectorizer{dim: 2},
			classifier: &stubClassifier{proba: []float64{0.2, 0.3, 0.5}},
			wantErr:    ErrInference,
		},
		{
			name:       "probability out of range",
			vectorizer: stubVectorizer{dim: 2},
			classifier: &stubClassifier{proba: []float64{-0.5, 1.5}},
			wantErr:    ErrInference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAnalyzer(tt.vectorizer, tt.classifier, FeatureNames)
			require.NoError(t, err)

			res, err := a.Analyze(SampleListing)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, res)
		})
	}
}

func TestNewAnalyzerValidatesSchema(t *testing.T) {
	v := stubVectorizer{dim: 2}
	c := &stubClassifier{proba: []float64{0.5, 0.5}}

	_, err := NewAnalyzer(v, c, FeatureNames[:len(FeatureNames)-1])
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	_, err = NewAnalyzer(v, c, append(append([]string{}, FeatureNames...), "salary"))
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	dup := append(append([]string{}, FeatureNames[:len(FeatureNames)-1]...), FeatureNames[0])
	_, err = NewAnalyzer(v, c, dup)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	_, err = NewAnalyzer(nil, c, FeatureNames)
	assert.Error(t, err)
}
