package model

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
)

// TfidfConfig is the decoded tfidf_vectorizer.json artifact.
type TfidfConfig struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	Lowercase   *bool          `json:"lowercase,omitempty"`
	NgramRange  []int          `json:"ngram_range,omitempty"`
	SublinearTF bool           `json:"sublinear_tf,omitempty"`
	Norm        *string        `json:"norm,omitempty"`
	StopWords   []string       `json:"stop_words,omitempty"`
}

// TfidfVectorizer reproduces the scikit-learn word analyzer and tf-idf
// weighting for a fitted vocabulary. It is immutable after construction.
type TfidfVectorizer struct {
	vocabulary  map[string]int
	idf         []float64
	lowercase   bool
	minN, maxN  int
	sublinearTF bool
	norm        string
	stopWords   map[string]struct{}
}

// NewTfidfVectorizer validates cfg and builds a vectorizer.
func NewTfidfVectorizer(cfg TfidfConfig) (*TfidfVectorizer, error) {
	if len(cfg.IDF) == 0 {
		return nil, fmt.Errorf("%w: tfidf idf is empty", ErrMalformedArtifact)
	}
	if len(cfg.Vocabulary) > len(cfg.IDF) {
		return nil, fmt.Errorf("%w: vocabulary has %d terms but idf has %d weights",
			ErrMalformedArtifact, len(cfg.Vocabulary), len(cfg.IDF))
	}
	seen := make(map[int]string, len(cfg.Vocabulary))
	for term, idx := range cfg.Vocabulary {
		if idx < 0 || idx >= len(cfg.IDF) {
			return nil, fmt.Errorf("%w: term %q has index %d outside [0,%d)", ErrMalformedArtifact, term, idx, len(cfg.IDF))
		}
		if other, dup := seen[idx]; dup {
			return nil, fmt.Errorf("%w: terms %q and %q share index %d", ErrMalformedArtifact, other, term, idx)
		}
		seen[idx] = term
	}

	v := &TfidfVectorizer{
		vocabulary:  cfg.Vocabulary,
		idf:         cfg.IDF,
		lowercase:   true,
		minN:        1,
		maxN:        1,
		sublinearTF: cfg.SublinearTF,
		norm:        "l2",
		stopWords:   make(map[string]struct{}, len(cfg.StopWords)),
	}
	if cfg.Lowercase != nil {
		v.lowercase = *cfg.Lowercase
	}
	if cfg.Norm != nil {
		v.norm = *cfg.Norm
	}
	switch v.norm {
	case "l1", "l2", "":
	default:
		return nil, fmt.Errorf("%w: unsupported norm %q", ErrMalformedArtifact, v.norm)
	}
	if len(cfg.NgramRange) > 0 {
		if len(cfg.NgramRange) != 2 || cfg.NgramRange[0] < 1 || cfg.NgramRange[1] < cfg.NgramRange[0] {
			return nil, fmt.Errorf("%w: invalid ngram_range %v", ErrMalformedArtifact, cfg.NgramRange)
		}
		v.minN, v.maxN = cfg.NgramRange[0], cfg.NgramRange[1]
	}
	for _, w := range cfg.StopWords {
		v.stopWords[w] = struct{}{}
	}
	return v, nil
}

// Dimension returns the vocabulary width.
func (v *TfidfVectorizer) Dimension() int {
	return len(v.idf)
}

// Transform returns the normalised tf-idf row for text.
func (v *TfidfVectorizer) Transform(text string) (SparseVector, error) {
	if v.lowercase {
		text = strings.ToLower(text)
	}
	tokens := v.tokenize(text)

	counts := make(map[int]float64)
	for n := v.minN; n <= v.maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			gram := tokens[i]
			if n > 1 {
				gram = strings.Join(tokens[i:i+n], " ")
			}
			if idx, ok := v.vocabulary[gram]; ok {
				counts[idx]++
			}
		}
	}

	out := SparseVector{Dim: len(v.idf)}
	if len(counts) == 0 {
		return out, nil
	}

	out.Indices = make([]int, 0, len(counts))
	for idx := range counts {
		out.Indices = append(out.Indices, idx)
	}
	sort.Ints(out.Indices)
	out.Values = make([]float64, len(out.Indices))

	var norm float64
	for i, idx := range out.Indices {
		tf := counts[idx]
		if v.sublinearTF {
			tf = 1 + math.Log(tf)
		}
		w := tf * v.idf[idx]
		out.Values[i] = w
		switch v.norm {
		case "l2":
			norm += w * w
		case "l1":
			norm += math.Abs(w)
		}
	}
	if v.norm == "l2" {
		norm = math.Sqrt(norm)
	}
	if v.norm != "" && norm > 0 {
		for i := range out.Values {
			out.Values[i] /= norm
		}
	}

	// zero idf weights must not be stored
	kept := 0
	for i := range out.Values {
		if out.Values[i] != 0 {
			out.Indices[kept] = out.Indices[i]
			out.Values[kept] = out.Values[i]
			kept++
		}
	}
	out.Indices = out.Indices[:kept]
	out.Values = out.Values[:kept]
	return out, nil
}

// tokenize splits text into runs of word runes at least two runes long,
// dropping stop words.
func (v *TfidfVectorizer) tokenize(text string) []string {
	var tokens []string
	start := -1
	runes := 0
	flush := func(end int) {
		if start >= 0 && runes >= 2 {
			tok := text[start:end]
			if _, stop := v.stopWords[tok]; !stop {
				tokens = append(tokens, tok)
			}
		}
		start, runes = -1, 0
	}
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			runes++
			continue
		}
		flush(i)
	}
	flush(len(text))
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
