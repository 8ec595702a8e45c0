package domain

import "fmt"

// ConfigurationError reports a malformed or incomplete probability table.
// Fatal at load time; the orchestrator must never run with one outstanding.
type ConfigurationError struct {
	Table   string `json:"table"`
	Disease string `json:"disease,omitempty"`
	Message string `json:"message"`
}

func (e *ConfigurationError) Error() string {
	if e.Disease != "" {
		return fmt.Sprintf("configuration error in table %q for disease %q: %s", e.Table, e.Disease, e.Message)
	}
	return fmt.Sprintf("configuration error in table %q: %s", e.Table, e.Message)
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(table, disease, message string) *ConfigurationError {
	return &ConfigurationError{Table: table, Disease: disease, Message: message}
}

// ModelLoadError reports a missing or unreadable model/scaler artifact.
// Fatal at load time; it names exactly which disease and artifact failed.
type ModelLoadError struct {
	Disease  Disease `json:"disease"`
	Artifact string  `json:"artifact"` // "model" or "scaler"
	Path     string  `json:"path"`
	Err      error   `json:"-"`
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("failed to load %s for %s from %s: %v", e.Artifact, e.Disease, e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// NewModelLoadError creates a new ModelLoadError.
func NewModelLoadError(disease Disease, artifact, path string, err error) *ModelLoadError {
	return &ModelLoadError{Disease: disease, Artifact: artifact, Path: path, Err: err}
}

// FeatureAdaptationError reports a patient field the adapter could not turn
// into a numeric feature. Recoverable per run.
type FeatureAdaptationError struct {
	Disease Disease `json:"disease"`
	Field   string  `json:"field"`
	Message string  `json:"message"`
}

func (e *FeatureAdaptationError) Error() string {
	return fmt.Sprintf("feature adaptation failed for %s field %q: %s", e.Disease, e.Field, e.Message)
}

// NewFeatureAdaptationError creates a new FeatureAdaptationError.
func NewFeatureAdaptationError(disease Disease, field, message string) *FeatureAdaptationError {
	return &FeatureAdaptationError{Disease: disease, Field: field, Message: message}
}

// PredictionError reports a scaler or model failure during prediction.
// Recoverable per run.
type PredictionError struct {
	Disease Disease `json:"disease"`
	Stage   string  `json:"stage"` // "transform" or "predict_proba"
	Err     error   `json:"-"`
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed for %s during %s: %v", e.Disease, e.Stage, e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

// NewPredictionError creates a new PredictionError.
func NewPredictionError(disease Disease, stage string, err error) *PredictionError {
	return &PredictionError{Disease: disease, Stage: stage, Err: err}
}

// PersistenceError reports a failed simulation record write. The run's result
// is still returned to the caller, flagged as unpersisted.
type PersistenceError struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist simulation record to %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NewPersistenceError creates a new PersistenceError.
func NewPersistenceError(path string, err error) *PersistenceError {
	return &PersistenceError{Path: path, Err: err}
}
