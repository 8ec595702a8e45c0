package domain

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelLoadError_NamesDiseaseAndPath(t *testing.T) {
	err := NewModelLoadError(HeartDisease, "scaler", "models/heart_failure_scaler.json", os.ErrNotExist)

	assert.Contains(t, err.Error(), "heart_disease")
	assert.Contains(t, err.Error(), "models/heart_failure_scaler.json")
	assert.Contains(t, err.Error(), "scaler")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestConfigurationError_Message(t *testing.T) {
	withDisease := NewConfigurationError("symptoms", "diabetes", "no symptom probabilities defined")
	assert.Contains(t, withDisease.Error(), `"symptoms"`)
	assert.Contains(t, withDisease.Error(), `"diabetes"`)

	withoutDisease := NewConfigurationError("disease_priors", "", "all prior weights are zero")
	assert.NotContains(t, withoutDisease.Error(), "disease \"\"")
}

func TestPredictionError_Unwrap(t *testing.T) {
	cause := errors.New("scaler expects 8 features, got 13")
	err := NewPredictionError(Diabetes, "transform", cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "diabetes")
	assert.Contains(t, err.Error(), "transform")
}

func TestFeatureAdaptationError_Message(t *testing.T) {
	err := NewFeatureAdaptationError(KidneyDisease, "is_male", `unrecognized gender "other"`)
	assert.Contains(t, err.Error(), "kidney_disease")
	assert.Contains(t, err.Error(), "is_male")
}

func TestPersistenceError_Unwrap(t *testing.T) {
	err := NewPersistenceError("predictions/patient_x.json", os.ErrPermission)
	require.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "predictions/patient_x.json")
}
