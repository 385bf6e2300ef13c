package config

// Package config loads, validates and converts optimizer run configurations

// ConfigManager handles loading, validation and persistence of run configurations
type ConfigManager interface {
	// LoadConfig loads defaults, then the file, then environment overrides and
	// finally command line parameters
	LoadConfig(configFile string, params map[string]interface{}) (*NestedConfig, error)

	// ValidateConfig validates a configuration
	ValidateConfig(cfg *NestedConfig) error

	// SaveConfig saves configuration to file
	SaveConfig(cfg *NestedConfig, path string) error
}

// Validator interface for configuration validation
type Validator interface {
	Validate(cfg *NestedConfig) error
}

// Common configuration constants
const (
	DefaultRunName          = "ga-run"
	DefaultMetricsAddr      = ":9090"
	DefaultEvaluatorTimeout = 30 // seconds
	DefaultLogDir           = "logs"

	// File and directory constants
	ResultsDir     = "results"
	BestConfigFile = "config.json"
)

// Environment variables recognised by ApplyEnvOverrides
const (
	EnvRandomSeed     = "GA_RANDOM_SEED"
	EnvGenerations    = "GA_GENERATIONS"
	EnvPopulationSize = "GA_POPULATION_SIZE"
	EnvEvaluatorURL   = "GA_EVALUATOR_URL"
	EnvMetricsAddr    = "GA_METRICS_ADDR"
)

// Evaluator types
const (
	EvaluatorSum      = "sum"
	EvaluatorWeighted = "weighted"
	EvaluatorTarget   = "target"
	EvaluatorHTTP     = "http"
)
