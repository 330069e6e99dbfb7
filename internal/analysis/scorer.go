package analysis

import (
	"fmt"
	"math"
	"regexp"
)

const (
	suspiciousThreshold = 0.30
	fraudThreshold      = 0.70
)

var personalEmailPattern = regexp.MustCompile(`(?i)@(gmail|yahoo|hotmail|outlook|aol)\.com`)

var recommendations = map[Verdict]string{
	VerdictLegitimate:  "This job listing appears legitimate. However, always verify the company independently and never provide sensitive information upfront.",
	VerdictSuspicious:  "This job listing shows some warning signs. Research the company thoroughly, verify contact information, and be cautious about sharing personal details.",
	VerdictLikelyFraud: "This job listing shows multiple red flags of a potential scam. Do not apply, do not provide personal information, and do not send any money.",
}

// Classify maps a fraud probability to its verdict and risk level. Lower
// bounds are inclusive.
func Classify(fraudProb float64) (Verdict, RiskLevel) {
	switch {
	case fraudProb < suspiciousThreshold:
		return VerdictLegitimate, RiskLow
	case fraudProb < fraudThreshold:
		return VerdictSuspicious, RiskMedium
	default:
		return VerdictLikelyFraud, RiskHigh
	}
}

// Decide turns model output and heuristic features into an AnalysisResult.
// maxProb is the probability of whichever class the model favours.
func Decide(fraudProb float64, fs FeatureSet, maxProb float64, text string) AnalysisResult {
	verdict, risk := Classify(fraudProb)
	redFlags := RedFlags(fs, text)
	positives := PositiveSignals(fs)

	return AnalysisResult{
		Verdict:          verdict,
		Confidence:       int(math.Round(maxProb * 100)),
		RedFlags:         redFlags,
		PositiveSignals:  positives,
		RiskLevel:        risk,
		Recommendation:   recommendations[verdict],
		CompanyName:      UnknownCompany,
		Summary:          summarize(verdict, len(redFlags), len(positives)),
		FraudProbability: math.Round(fraudProb*1000) / 10,
	}
}

// RedFlags returns the triggered warnings in a fixed order.
func RedFlags(fs FeatureSet, text string) []string {
	flags := []string{}
	if n := fs.count(UrgencyCount); n > 2 {
		flags = append(flags, fmt.Sprintf("Excessive urgency language detected (%d instances)", n))
	}
	if n := fs.count(MoneyRequestCount); n > 3 {
		flags = append(flags, fmt.Sprintf("Multiple mentions of payment/fees (%d instances)", n))
	}
	if fs.count(TooGoodCount) > 0 {
		flags = append(flags, "Unrealistic promises detected (e.g., 'easy money', 'guaranteed income')")
	}
	if n := fs.count(ExclamationCount); n > 5 {
		flags = append(flags, fmt.Sprintf("Excessive punctuation (%d exclamation marks)", n))
	}
	if fs.count(WordCount) < 50 {
		flags = append(flags, "Very short job description (lacks detail)")
	}
	if personalEmailPattern.MatchString(text) {
		flags = append(flags, "Personal email address used instead of company domain")
	}
	return flags
}

// PositiveSignals returns the reassuring indicators in a fixed order.
func PositiveSignals(fs FeatureSet) []string {
	signals := []string{}
	if fs.count(WordCount) > 200 {
		signals = append(signals, "Detailed job description provided")
	}
	if fs.count(UrgencyCount) == 0 {
		signals = append(signals, "No pressure tactics or urgency language")
	}
	if fs.count(MoneyRequestCount) == 0 {
		signals = append(signals, "No requests for upfront payments")
	}
	return signals
}

func summarize(v Verdict, redFlags, positives int) string {
	switch v {
	case VerdictLikelyFraud:
		return fmt.Sprintf("This listing exhibits %d major red flags typical of employment scams. The language patterns and structure strongly suggest fraudulent intent.", redFlags)
	case VerdictSuspicious:
		return fmt.Sprintf("This listing contains %d warning signs that warrant caution. While it may be legitimate, several aspects raise concerns about authenticity.", redFlags)
	default:
		return fmt.Sprintf("This listing appears legitimate with %d positive indicators and minimal red flags. The content and structure are consistent with genuine job postings.", positives)
	}
}
