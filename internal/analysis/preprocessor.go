package analysis

import "strings"

// Keyword lists are matched as substrings of the lower-cased text. Each
// entry counts at most once.
var (
	urgencyWords  = []string{"urgent", "immediate", "asap", "hurry", "limited time", "act now", "apply now"}
	moneyWords    = []string{"pay", "fee", "invest", "purchase", "buy", "payment required", "deposit"}
	tooGoodWords  = []string{"easy money", "no experience", "guaranteed income", "unlimited", "get rich"}
	metadataFlags = []string{HasLogo, HasQuestions, HasEmploymentType, HasRequiredExperience, HasRequiredEducation, HasIndustry, HasFunction}
)

// Extract derives the heuristic feature set for text. It is pure and total.
func Extract(text string) FeatureSet {
	lower := strings.ToLower(text)

	fs := FeatureSet{
		UrgencyCount:      float64(countPresent(lower, urgencyWords)),
		MoneyRequestCount: float64(countPresent(lower, moneyWords)),
		TooGoodCount:      float64(countPresent(lower, tooGoodWords)),
		TextLength:        float64(len([]rune(text))),
		WordCount:         float64(len(strings.Fields(text))),
		ExclamationCount:  float64(strings.Count(text, "!")),
	}

	// free text carries no structured posting metadata
	for _, name := range metadataFlags {
		fs[name] = 0
	}
	return fs
}

func countPresent(text string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if strings.Contains(text, p) {
			n++
		}
	}
	return n
}
