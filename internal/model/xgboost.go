package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// xgbDocument mirrors the parts of an XGBoost JSON model we need.
type xgbDocument struct {
	Learner struct {
		GradientBooster struct {
			Name  string `json:"name"`
			Model struct {
				Trees []xgbTree `json:"trees"`
			} `json:"model"`
		} `json:"gradient_booster"`
		LearnerModelParam struct {
			BaseScore  string `json:"base_score"`
			NumClass   string `json:"num_class"`
			NumFeature string `json:"num_feature"`
		} `json:"learner_model_param"`
		Objective struct {
			Name string `json:"name"`
		} `json:"objective"`
	} `json:"learner"`
}

type xgbTree struct {
	LeftChildren    []int     `json:"left_children"`
	RightChildren   []int     `json:"right_children"`
	SplitIndices    []int     `json:"split_indices"`
	SplitConditions []float64 `json:"split_conditions"`
	DefaultLeft     flexBools `json:"default_left"`
}

// flexBools accepts both [0,1] and [false,true]; XGBoost has written both.
type flexBools []bool

func (f *flexBools) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]bool, len(raw))
	for i, r := range raw {
		s := string(bytes.TrimSpace(r))
		switch s {
		case "true", "1":
			out[i] = true
		case "false", "0":
			out[i] = false
		default:
			return fmt.Errorf("default_left[%d]: unexpected value %s", i, s)
		}
	}
	*f = out
	return nil
}

// XGBoostClassifier evaluates a binary:logistic gbtree model.
type XGBoostClassifier struct {
	trees       []xgbTree
	baseMargin  float64
	numFeatures int
}

// NewXGBoostClassifier decodes an XGBoost JSON model document.
func NewXGBoostClassifier(data []byte) (*XGBoostClassifier, error) {
	var doc xgbDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode xgboost model: %v", ErrMalformedArtifact, err)
	}
	l := doc.Learner

	if l.GradientBooster.Name != "gbtree" {
		return nil, fmt.Errorf("%w: unsupported booster %q", ErrMalformedArtifact, l.GradientBooster.Name)
	}
	switch l.Objective.Name {
	case "binary:logistic", "reg:logistic":
	default:
		return nil, fmt.Errorf("%w: unsupported objective %q", ErrMalformedArtifact, l.Objective.Name)
	}
	if nc := strings.TrimSpace(l.LearnerModelParam.NumClass); nc != "" && nc != "0" && nc != "1" {
		return nil, fmt.Errorf("%w: expected a binary model, got num_class=%s", ErrMalformedArtifact, nc)
	}

	baseScore := 0.5
	if s := strings.Trim(strings.TrimSpace(l.LearnerModelParam.BaseScore), "[]"); s != "" {
		bs, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: base_score %q: %v", ErrMalformedArtifact, s, err)
		}
		baseScore = bs
	}
	if baseScore <= 0 || baseScore >= 1 {
		return nil, fmt.Errorf("%w: base_score %v outside (0,1)", ErrMalformedArtifact, baseScore)
	}

	numFeatures := 0
	if s := strings.TrimSpace(l.LearnerModelParam.NumFeature); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: num_feature %q: %v", ErrMalformedArtifact, s, err)
		}
		numFeatures = n
	}

	trees := l.GradientBooster.Model.Trees
	if len(trees) == 0 {
		return nil, fmt.Errorf("%w: model has no trees", ErrMalformedArtifact)
	}
	for i := range trees {
		if err := validateTree(&trees[i], numFeatures); err != nil {
			return nil, fmt.Errorf("%w: tree %d: %v", ErrMalformedArtifact, i, err)
		}
	}

	return &XGBoostClassifier{
		trees:       trees,
		baseMargin:  math.Log(baseScore / (1 - baseScore)),
		numFeatures: numFeatures,
	}, nil
}

func validateTree(t *xgbTree, numFeatures int) error {
	n := len(t.LeftChildren)
	if n == 0 {
		return fmt.Errorf("no nodes")
	}
	if len(t.RightChildren) != n || len(t.SplitIndices) != n || len(t.SplitConditions) != n || len(t.DefaultLeft) != n {
		return fmt.Errorf("node arrays have different lengths")
	}
	for i := 0; i < n; i++ {
		l, r := t.LeftChildren[i], t.RightChildren[i]
		if l == -1 {
			continue
		}
		// children always follow their parent in the node arrays
		if l <= i || l >= n || r <= i || r >= n {
			return fmt.Errorf("node %d has invalid children %d/%d", i, l, r)
		}
		if t.SplitIndices[i] < 0 || (numFeatures > 0 && t.SplitIndices[i] >= numFeatures) {
			return fmt.Errorf("node %d splits on feature %d", i, t.SplitIndices[i])
		}
	}
	return nil
}

// NumFeatures returns num_feature as declared by the model, 0 if unknown.
func (x *XGBoostClassifier) NumFeatures() int {
	return x.numFeatures
}

// Margin returns the raw log-odds for v.
func (x *XGBoostClassifier) Margin(v SparseVector) float64 {
	margin := x.baseMargin
	for i := range x.trees {
		margin += x.trees[i].leaf(v)
	}
	return margin
}

// PredictProba returns [p0, p1].
func (x *XGBoostClassifier) PredictProba(v SparseVector) ([]float64, error) {
	if x.numFeatures > 0 && v.Dim != x.numFeatures {
		return nil, fmt.Errorf("%w: vector has %d features, model expects %d", ErrDimensionMismatch, v.Dim, x.numFeatures)
	}
	p1 := sigmoid(x.Margin(v))
	return []float64{1 - p1, p1}, nil
}

// Predict returns the favoured class label.
func (x *XGBoostClassifier) Predict(v SparseVector) (int, error) {
	proba, err := x.PredictProba(v)
	if err != nil {
		return 0, err
	}
	return labelFor(proba[1]), nil
}

// leaf walks the tree. Entries absent from v are missing values.
func (t *xgbTree) leaf(v SparseVector) float64 {
	node := 0
	for t.LeftChildren[node] != -1 {
		val, ok := v.Lookup(t.SplitIndices[node])
		switch {
		case !ok:
			if t.DefaultLeft[node] {
				node = t.LeftChildren[node]
			} else {
				node = t.RightChildren[node]
			}
		case float32(val) < float32(t.SplitConditions[node]):
			node = t.LeftChildren[node]
		default:
			node = t.RightChildren[node]
		}
	}
	return t.SplitConditions[node]
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }
