package analysis

// FeatureSet maps heuristic feature names to their values.
type FeatureSet map[string]float64

// Feature names. The set is fixed and exhaustive.
const (
	UrgencyCount          = "urgency_count"
	MoneyRequestCount     = "money_request_count"
	TooGoodCount          = "too_good_count"
	TextLength            = "text_length"
	WordCount             = "word_count"
	ExclamationCount      = "exclamation_count"
	HasLogo               = "has_logo"
	HasQuestions          = "has_questions"
	HasEmploymentType     = "has_employment_type"
	HasRequiredExperience = "has_required_experience"
	HasRequiredEducation  = "has_required_education"
	HasIndustry           = "has_industry"
	HasFunction           = "has_function"
)

// FeatureNames lists every key Extract produces.
var FeatureNames = []string{
	UrgencyCount,
	MoneyRequestCount,
	TooGoodCount,
	TextLength,
	WordCount,
	ExclamationCount,
	HasLogo,
	HasQuestions,
	HasEmploymentType,
	HasRequiredExperience,
	HasRequiredEducation,
	HasIndustry,
	HasFunction,
}

func (fs FeatureSet) count(name string) int {
	return int(fs[name])
}

type Verdict string

const (
	VerdictLegitimate  Verdict = "legitimate"
	VerdictSuspicious  Verdict = "suspicious"
	VerdictLikelyFraud Verdict = "likely_fraud"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// UnknownCompany is returned until company extraction exists.
const UnknownCompany = "unknown"

// AnalysisResult is the outcome of a single analysis.
type AnalysisResult struct {
	Verdict          Verdict   `json:"verdict"`
	Confidence       int       `json:"confidence"`
	RedFlags         []string  `json:"redFlags"`
	PositiveSignals  []string  `json:"positiveSignals"`
	RiskLevel        RiskLevel `json:"riskLevel"`
	Recommendation   string    `json:"recommendation"`
	CompanyName      string    `json:"companyName"`
	Summary          string    `json:"summary"`
	FraudProbability float64   `json:"fraudProbability"`
}
