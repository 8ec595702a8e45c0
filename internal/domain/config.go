package domain

import "time"

// Config represents the main application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Models     ModelsConfig     `mapstructure:"models"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Images     ImagesConfig     `mapstructure:"images"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// ArtifactPaths names the model and scaler artifact files for one disease.
type ArtifactPaths struct {
	Model  string `mapstructure:"model"`
	Scaler string `mapstructure:"scaler"`
}

// ModelsConfig maps each disease to its artifact locations.
type ModelsConfig struct {
	Diabetes      ArtifactPaths `mapstructure:"diabetes"`
	HeartDisease  ArtifactPaths `mapstructure:"heart_disease"`
	KidneyDisease ArtifactPaths `mapstructure:"kidney_disease"`
}

// ForDisease returns the artifact paths configured for a disease.
func (m *ModelsConfig) ForDisease(d Disease) ArtifactPaths {
	switch d {
	case Diabetes:
		return m.Diabetes
	case HeartDisease:
		return m.HeartDisease
	case KidneyDisease:
		return m.KidneyDisease
	}
	return ArtifactPaths{}
}

// SimulationConfig controls the orchestrator.
type SimulationConfig struct {
	// OutputDir is where per-run JSON records are written.
	OutputDir string `mapstructure:"output_dir"`
	// HistoryDB is the SQLite file for run summaries; empty disables history.
	HistoryDB string `mapstructure:"history_db"`
	// Seed fixes the random source for reproducible batches; 0 means seed
	// from the clock.
	Seed int64 `mapstructure:"seed"`
	// BatchWorkers bounds concurrent runs in a batch; 1 means sequential.
	BatchWorkers int `mapstructure:"batch_workers"`
}

// ImagesConfig locates the synthetic image catalog.
type ImagesConfig struct {
	// Root contains one subdirectory of image assets per disease. An absent
	// or empty catalog is not an error; the image reference is simply omitted.
	Root string `mapstructure:"root"`
	// CacheSize bounds the directory-listing LRU cache.
	CacheSize int `mapstructure:"cache_size"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
