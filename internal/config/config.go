package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/virtual-patient-simulator/internal/domain"
)

// Manager loads and holds the application configuration using Viper
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	// Set configuration file name and paths
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/virtual-patient-simulator/")

	// Set environment variable prefix and enable automatic env binding
	viper.SetEnvPrefix("VPS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	m.setDefaults()

	// Read configuration file (optional - will use defaults and env vars if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using defaults and environment variables
	}

	// Unmarshal configuration into struct
	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// Model artifact defaults
	viper.SetDefault("models.diabetes.model", "models/diabetes_model.json")
	viper.SetDefault("models.diabetes.scaler", "models/diabetes_scaler.json")
	viper.SetDefault("models.heart_disease.model", "models/heart_failure_model.json")
	viper.SetDefault("models.heart_disease.scaler", "models/heart_failure_scaler.json")
	viper.SetDefault("models.kidney_disease.model", "models/kidney_model.json")
	viper.SetDefault("models.kidney_disease.scaler", "models/kidney_scaler.json")

	// Simulation defaults
	viper.SetDefault("simulation.output_dir", "predictions")
	viper.SetDefault("simulation.history_db", "data/simulations.db")
	viper.SetDefault("simulation.seed", 0)
	viper.SetDefault("simulation.batch_workers", 1)

	// Image catalog defaults
	viper.SetDefault("images.root", "synthetic_images")
	viper.SetDefault("images.cache_size", 16)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetSimulationConfig returns simulation configuration
func (m *Manager) GetSimulationConfig() *domain.SimulationConfig {
	return &m.config.Simulation
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	// Validate server configuration
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	// Every disease needs both artifact paths
	for _, d := range domain.Diseases() {
		paths := config.Models.ForDisease(d)
		if paths.Model == "" {
			return fmt.Errorf("model artifact path is required for %s", d)
		}
		if paths.Scaler == "" {
			return fmt.Errorf("scaler artifact path is required for %s", d)
		}
	}

	// Validate simulation configuration
	if config.Simulation.OutputDir == "" {
		return fmt.Errorf("simulation output directory is required")
	}
	if config.Simulation.BatchWorkers < 1 {
		return fmt.Errorf("simulation batch_workers must be at least 1, got %d", config.Simulation.BatchWorkers)
	}

	// Validate logging configuration
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// NewLogger builds a logrus logger from the logging configuration.
func NewLogger(cfg *domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.ToLower(cfg.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
