package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtual-patient-simulator/internal/domain"
)

func TestNewManager_Defaults(t *testing.T) {
	manager, err := NewManager()
	require.NoError(t, err)

	cfg := manager.GetConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "predictions", cfg.Simulation.OutputDir)
	assert.Equal(t, 1, cfg.Simulation.BatchWorkers)
	assert.Equal(t, "info", cfg.Logging.Level)

	// Every disease gets artifact paths by default
	for _, d := range domain.Diseases() {
		paths := cfg.Models.ForDisease(d)
		assert.NotEmpty(t, paths.Model, "model path for %s", d)
		assert.NotEmpty(t, paths.Scaler, "scaler path for %s", d)
	}

	require.NoError(t, manager.Validate())
}

func TestManager_Validate(t *testing.T) {
	manager, err := NewManager()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(cfg *domain.Config)
	}{
		{"Invalid port", func(cfg *domain.Config) { cfg.Server.Port = -1 }},
		{"Missing model path", func(cfg *domain.Config) { cfg.Models.Diabetes.Model = "" }},
		{"Missing scaler path", func(cfg *domain.Config) { cfg.Models.KidneyDisease.Scaler = "" }},
		{"Empty output dir", func(cfg *domain.Config) { cfg.Simulation.OutputDir = "" }},
		{"Zero batch workers", func(cfg *domain.Config) { cfg.Simulation.BatchWorkers = 0 }},
		{"Bad log level", func(cfg *domain.Config) { cfg.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fresh, err := NewManager()
			require.NoError(t, err)
			tt.mutate(fresh.GetConfig())
			assert.Error(t, fresh.Validate())
		})
	}

	assert.NoError(t, manager.Validate())
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger(&domain.LoggingConfig{Level: "debug", Format: "json"})
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	// Unknown level falls back to info
	logger = NewLogger(&domain.LoggingConfig{Level: "bogus", Format: "text"})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}
