// Package model loads the trained model and scaler capability pairs and runs
// predictions through them. Artifacts are JSON exports of the fitted
// estimators: a standardization scaler (mean/scale per feature) and a
// logistic model (coefficients/intercept).
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// StandardScaler standardizes features to zero mean and unit variance using
// the statistics it was fitted with.
type StandardScaler struct {
	mean  []float64
	scale []float64
}

type scalerArtifact struct {
	NFeatures int       `json:"n_features"`
	Mean      []float64 `json:"mean"`
	Scale     []float64 `json:"scale"`
}

// LoadScaler reads a scaler artifact from disk.
func LoadScaler(path string) (*StandardScaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var artifact scalerArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("malformed scaler artifact: %w", err)
	}
	if artifact.NFeatures <= 0 {
		return nil, fmt.Errorf("scaler artifact declares invalid n_features %d", artifact.NFeatures)
	}
	if len(artifact.Mean) != artifact.NFeatures || len(artifact.Scale) != artifact.NFeatures {
		return nil, fmt.Errorf("scaler artifact statistics do not match n_features %d", artifact.NFeatures)
	}

	return &StandardScaler{mean: artifact.Mean, scale: artifact.Scale}, nil
}

// ExpectedWidth returns the input width the scaler was fitted on.
func (s *StandardScaler) ExpectedWidth() int {
	return len(s.mean)
}

// Transform standardizes a feature vector. A zero scale for a feature leaves
// that feature centered but unscaled, matching how constant features behave
// in fitted scalers.
func (s *StandardScaler) Transform(vector []float64) ([]float64, error) {
	if len(vector) != len(s.mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.mean), len(vector))
	}

	scaled := make([]float64, len(vector))
	for i, v := range vector {
		divisor := s.scale[i]
		if divisor == 0 {
			divisor = 1
		}
		scaled[i] = (v - s.mean[i]) / divisor
	}
	return scaled, nil
}

// LogisticModel is a binary logistic classifier over scaled features.
type LogisticModel struct {
	coefficients []float64
	intercept    float64
}

type modelArtifact struct {
	NFeatures    int       `json:"n_features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// LoadClassifier reads a model artifact from disk.
func LoadClassifier(path string) (*LogisticModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var artifact modelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("malformed model artifact: %w", err)
	}
	if artifact.NFeatures <= 0 || len(artifact.Coefficients) != artifact.NFeatures {
		return nil, fmt.Errorf("model artifact coefficients do not match n_features %d", artifact.NFeatures)
	}

	return &LogisticModel{coefficients: artifact.Coefficients, intercept: artifact.Intercept}, nil
}

// PredictProba returns [p(class 0), p(class 1)] for a scaled feature vector.
func (m *LogisticModel) PredictProba(vector []float64) ([2]float64, error) {
	if len(vector) != len(m.coefficients) {
		return [2]float64{}, fmt.Errorf("model expects %d features, got %d", len(m.coefficients), len(vector))
	}

	logit := m.intercept
	for i, v := range vector {
		logit += m.coefficients[i] * v
	}

	p1 := 1 / (1 + math.Exp(-logit))
	return [2]float64{1 - p1, p1}, nil
}
