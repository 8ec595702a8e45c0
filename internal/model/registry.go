package model

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/virtual-patient-simulator/internal/domain"
	"github.com/virtual-patient-simulator/internal/features"
)

// Entry pairs one disease with its loaded model and scaler capabilities.
type Entry struct {
	Disease   domain.Disease
	Scaler    domain.Scaler
	Model     domain.Classifier
	ModelPath string
}

// Registry holds the capability pair for every disease. It is built once at
// startup and is read-only afterwards, so it is safe to share across
// concurrent simulation runs.
type Registry struct {
	entries map[domain.Disease]*Entry
	logger  *logrus.Logger
}

// NewRegistry builds a registry from pre-constructed entries. Used directly
// by tests to inject fake capability pairs.
func NewRegistry(entries []*Entry, logger *logrus.Logger) *Registry {
	byDisease := make(map[domain.Disease]*Entry, len(entries))
	for _, e := range entries {
		byDisease[e.Disease] = e
	}
	return &Registry{entries: byDisease, logger: logger}
}

// Load reads the model and scaler artifacts for all diseases. Loading is
// all-or-nothing: a single missing or corrupt artifact fails the whole load
// with a ModelLoadError naming the disease and path.
func Load(cfg *domain.ModelsConfig, logger *logrus.Logger) (*Registry, error) {
	entries := make([]*Entry, 0, len(domain.Diseases()))

	for _, disease := range domain.Diseases() {
		paths := cfg.ForDisease(disease)

		scaler, err := LoadScaler(paths.Scaler)
		if err != nil {
			return nil, domain.NewModelLoadError(disease, "scaler", paths.Scaler, err)
		}

		classifier, err := LoadClassifier(paths.Model)
		if err != nil {
			return nil, domain.NewModelLoadError(disease, "model", paths.Model, err)
		}

		logger.WithFields(logrus.Fields{
			"disease":        disease,
			"model_path":     paths.Model,
			"expected_width": scaler.ExpectedWidth(),
		}).Info("Loaded model capability pair")

		entries = append(entries, &Entry{
			Disease:   disease,
			Scaler:    scaler,
			Model:     classifier,
			ModelPath: paths.Model,
		})
	}

	return NewRegistry(entries, logger), nil
}

// Diseases returns the registered diseases in the canonical order.
func (r *Registry) Diseases() []domain.Disease {
	diseases := make([]domain.Disease, 0, len(r.entries))
	for _, d := range domain.Diseases() {
		if _, ok := r.entries[d]; ok {
			diseases = append(diseases, d)
		}
	}
	return diseases
}

// Predict runs one disease's capability pair against a feature vector:
// dimension reconciliation, then Transform, then PredictProba. The label is 1
// exactly when p(class 1) >= 0.5; the threshold is fixed policy, not a
// tunable.
func (r *Registry) Predict(disease domain.Disease, vector []float64) (domain.Prediction, error) {
	entry, ok := r.entries[disease]
	if !ok {
		return domain.Prediction{}, fmt.Errorf("no model registered for disease %q", disease)
	}

	expected := entry.Scaler.ExpectedWidth()
	if len(vector) != expected {
		r.logger.WithFields(logrus.Fields{
			"disease":        disease,
			"vector_width":   len(vector),
			"expected_width": expected,
		}).Warn("Reconciling feature vector width to model input")
	}
	vector = features.Reconcile(vector, expected)

	scaled, err := entry.Scaler.Transform(vector)
	if err != nil {
		return domain.Prediction{}, domain.NewPredictionError(disease, "transform", err)
	}

	proba, err := entry.Model.PredictProba(scaled)
	if err != nil {
		return domain.Prediction{}, domain.NewPredictionError(disease, "predict_proba", err)
	}

	probability := proba[1]
	label := 0
	if probability >= 0.5 {
		label = 1
	}

	return domain.Prediction{
		PredLabel:   label,
		Probability: probability,
		ModelPath:   entry.ModelPath,
	}, nil
}
