package model

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Artifact file names inside the model directory.
const (
	ClassifierFile     = "classifier.json"
	VectorizerFile     = "tfidf_vectorizer.json"
	FeatureColumnsFile = "feature_columns.json"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Artifacts is the trained bundle shared read-only by all requests.
type Artifacts struct {
	Classifier     Classifier
	Vectorizer     Vectorizer
	FeatureColumns []string
}

// LoadArtifacts reads and validates all three artifacts from dir.
func LoadArtifacts(dir string) (*Artifacts, error) {
	columns, err := LoadFeatureColumns(filepath.Join(dir, FeatureColumnsFile))
	if err != nil {
		return nil, err
	}
	vectorizer, err := LoadVectorizer(filepath.Join(dir, VectorizerFile))
	if err != nil {
		return nil, err
	}
	classifier, err := LoadClassifier(filepath.Join(dir, ClassifierFile))
	if err != nil {
		return nil, err
	}

	if fc, ok := classifier.(FeatureCounter); ok && fc.NumFeatures() > 0 {
		want := vectorizer.Dimension() + len(columns)
		if fc.NumFeatures() != want {
			return nil, fmt.Errorf("%w: classifier expects %d features, vectorizer (%d) + feature columns (%d) give %d",
				ErrDimensionMismatch, fc.NumFeatures(), vectorizer.Dimension(), len(columns), want)
		}
	}

	slog.Info("Model artifacts loaded",
		"dir", dir,
		"vocabulary_size", vectorizer.Dimension(),
		"feature_columns", len(columns),
		"classifier", fmt.Sprintf("%T", classifier),
	)

	return &Artifacts{
		Classifier:     classifier,
		Vectorizer:     vectorizer,
		FeatureColumns: columns,
	}, nil
}

// LoadFeatureColumns reads the ordered feature column list.
func LoadFeatureColumns(path string) ([]string, error) {
	data, err := readArtifact(path, "feature_columns.schema.json")
	if err != nil {
		return nil, err
	}
	var columns []string
	if err := json.Unmarshal(data, &columns); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedArtifact, path, err)
	}
	return columns, nil
}

// LoadVectorizer reads a tf-idf vectorizer artifact.
func LoadVectorizer(path string) (*TfidfVectorizer, error) {
	data, err := readArtifact(path, "tfidf_vectorizer.schema.json")
	if err != nil {
		return nil, err
	}
	var cfg TfidfConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedArtifact, path, err)
	}
	v, err := NewTfidfVectorizer(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// LoadClassifier reads either an XGBoost JSON model or a logistic model.
func LoadClassifier(path string) (Classifier, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedArtifact, path, err)
	}

	if _, ok := probe["learner"]; ok {
		if err := validateAgainst("xgboost.schema.json", path, data); err != nil {
			return nil, err
		}
		c, err := NewXGBoostClassifier(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return c, nil
	}

	var kind string
	if raw, ok := probe["type"]; ok {
		_ = json.Unmarshal(raw, &kind)
	}
	if kind != "logistic" {
		return nil, fmt.Errorf("%w: %s: unrecognised classifier format", ErrMalformedArtifact, path)
	}
	if err := validateAgainst("logistic.schema.json", path, data); err != nil {
		return nil, err
	}
	var cfg LogisticConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedArtifact, path, err)
	}
	c, err := NewLogisticClassifier(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func readArtifact(path, schemaName string) ([]byte, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if err := validateAgainst(schemaName, path, data); err != nil {
		return nil, err
	}
	return data, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingArtifact, path)
		}
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	return data, nil
}

func validateAgainst(schemaName, path string, data []byte) error {
	schema, err := schemaFS.ReadFile("schemas/" + schemaName)
	if err != nil {
		return fmt.Errorf("load schema %s: %w", schemaName, err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedArtifact, path, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s: %s", ErrMalformedArtifact, path, strings.Join(msgs, "; "))
	}
	return nil
}
