package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		prob    float64
		verdict Verdict
		risk    RiskLevel
	}{
		{name: "zero", prob: 0, verdict: VerdictLegitimate, risk: RiskLow},
		{name: "just below suspicious", prob: 0.2999, verdict: VerdictLegitimate, risk: RiskLow},
		{name: "suspicious lower bound", prob: 0.30, verdict: VerdictSuspicious, risk: RiskMedium},
		{name: "midpoint", prob: 0.5, verdict: VerdictSuspicious, risk: RiskMedium},
		{name: "just below fraud", prob: 0.6999, verdict: VerdictSuspicious, risk: RiskMedium},
		{name: "fraud lower bound", prob: 0.70, verdict: VerdictLikelyFraud, risk: RiskHigh},
		{name: "one", prob: 1, verdict: VerdictLikelyFraud, risk: RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, risk := Classify(tt.prob)
			assert.Equal(t, tt.verdict, verdict)
			assert.Equal(t, tt.risk, risk)
		})
	}
}

func TestClassifyPartitionIsTotal(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		p := float64(i) / 1000
		verdict, risk := Classify(p)
		switch {
		case p < 0.3:
			assert.Equal(t, VerdictLegitimate, verdict, p)
			assert.Equal(t, RiskLow, risk, p)
		case p < 0.7:
			assert.Equal(t, VerdictSuspicious, verdict, p)
			assert.Equal(t, RiskMedium, risk, p)
		default:
			assert.Equal(t, VerdictLikelyFraud, verdict, p)
			assert.Equal(t, RiskHigh, risk, p)
		}
	}
}

func features(overrides map[string]float64) FeatureSet {
	fs := FeatureSet{}
	for _, name := range FeatureNames {
		fs[name] = 0
	}
	for k, v := range overrides {
		fs[k] = v
	}
	return fs
}

func TestRedFlags(t *testing.T) {
	tests := []struct {
		name     string
		fs       FeatureSet
		text     string
		expected []string
	}{
		{
			name:     "clean detailed listing",
			fs:       features(map[string]float64{WordCount: 300}),
			expected: []string{},
		},
		{
			name: "thresholds are strict",
			fs: features(map[string]float64{
				UrgencyCount: 2, MoneyRequestCount: 3, ExclamationCount: 5, WordCount: 50,
			}),
			expected: []string{},
		},
		{
			name: "every flag in order",
			fs: features(map[string]float64{
				UrgencyCount: 3, MoneyRequestCount: 4, TooGoodCount: 1, ExclamationCount: 6, WordCount: 49,
			}),
			text: "write to Recruiter@Yahoo.COM",
			expected: []string{
				"Excessive urgency language detected (3 instances)",
				"Multiple mentions of payment/fees (4 instances)",
				"Unrealistic promises detected (e.g., 'easy money', 'guaranteed income')",
				"Excessive punctuation (6 exclamation marks)",
				"Very short job description (lacks detail)",
				"Personal email address used instead of company domain",
			},
		},
		{
			name:     "company domain is not flagged",
			fs:       features(map[string]float64{WordCount: 80}),
			text:     "send your resume to jobs@acme.com or hr@gmailcorp.com",
			expected: []string{},
		},
		{
			name:     "each personal domain",
			fs:       features(map[string]float64{WordCount: 80}),
			text:     "a@hotmail.com",
			expected: []string{"Personal email address used instead of company domain"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RedFlags(tt.fs, tt.text))
		})
	}
}

func TestPositiveSignals(t *testing.T) {
	assert.Equal(t, []string{
		"Detailed job description provided",
		"No pressure tactics or urgency language",
		"No requests for upfront payments",
	}, PositiveSignals(features(map[string]float64{WordCount: 201})))

	assert.Equal(t, []string{}, PositiveSignals(features(map[string]float64{
		WordCount: 200, UrgencyCount: 1, MoneyRequestCount: 1,
	})))

	assert.Equal(t, []string{"No requests for upfront payments"}, PositiveSignals(features(map[string]float64{
		WordCount: 10, UrgencyCount: 1,
	})))
}

func TestDecide(t *testing.T) {
	t.Run("likely fraud", func(t *testing.T) {
		fs := features(map[string]float64{UrgencyCount: 3, WordCount: 20, MoneyRequestCount: 1})
		res := Decide(0.9234, fs, 0.9234, "")

		assert.Equal(t, VerdictLikelyFraud, res.Verdict)
		assert.Equal(t, RiskHigh, res.RiskLevel)
		assert.Equal(t, 92, res.Confidence)
		assert.Equal(t, 92.3, res.FraudProbability)
		assert.Equal(t, UnknownCompany, res.CompanyName)
		assert.Equal(t, recommendations[VerdictLikelyFraud], res.Recommendation)
		assert.Equal(t, "This listing exhibits 2 major red flags typical of employment scams. The language patterns and structure strongly suggest fraudulent intent.", res.Summary)
	})

	t.Run("suspicious uses favoured class for confidence", func(t *testing.T) {
		res := Decide(0.45, features(map[string]float64{WordCount: 100}), 0.55, "")

		assert.Equal(t, VerdictSuspicious, res.Verdict)
		assert.Equal(t, RiskMedium, res.RiskLevel)
		assert.Equal(t, 55, res.Confidence)
		assert.Equal(t, 45.0, res.FraudProbability)
		assert.Equal(t, "This job listing shows some warning signs. Research the company thoroughly, verify contact information, and be cautious about sharing personal details.", res.Recommendation)
		assert.Equal(t, "This listing contains 0 warning signs that warrant caution. While it may be legitimate, several aspects raise concerns about authenticity.", res.Summary)
	})

	t.Run("legitimate counts positive signals", func(t *testing.T) {
		res := Decide(0.0441, features(map[string]float64{WordCount: 250}), 0.9559, "")

		assert.Equal(t, VerdictLegitimate, res.Verdict)
		assert.Equal(t, RiskLow, res.RiskLevel)
		assert.Equal(t, 96, res.Confidence)
		assert.Equal(t, 4.4, res.FraudProbability)
		assert.Empty(t, res.RedFlags)
		assert.NotNil(t, res.RedFlags)
		assert.Len(t, res.PositiveSignals, 3)
		assert.Equal(t, "This job listing appears legitimate. However, always verify the company independently and never provide sensitive information upfront.", res.Recommendation)
		assert.Equal(t, "This listing appears legitimate with 3 positive indicators and minimal red flags. The content and structure are consistent with genuine job postings.", res.Summary)
	})
}
