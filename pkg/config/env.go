package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LookupFunc resolves an environment variable
type LookupFunc func(key string) (string, bool)

// ProcessEnv looks variables up in the process environment
var ProcessEnv LookupFunc = os.LookupEnv

// MapEnv looks variables up in a fixed map
func MapEnv(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

// ReadEnvFile parses a .env file without touching the process environment
func ReadEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return values, nil
}

// ApplyEnvOverrides applies GA_* variables on top of cfg. Empty values are
// ignored.
func ApplyEnvOverrides(cfg *NestedConfig, lookup LookupFunc) error {
	if lookup == nil {
		lookup = ProcessEnv
	}

	if v, ok := lookup(EnvRandomSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRandomSeed, err)
		}
		cfg.Optimizer.RandomSeed = &seed
	}
	if v, ok := lookup(EnvGenerations); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvGenerations, err)
		}
		cfg.Optimizer.Generations = n
	}
	if v, ok := lookup(EnvPopulationSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvPopulationSize, err)
		}
		cfg.Optimizer.PopulationSize = n
	}
	if v, ok := lookup(EnvEvaluatorURL); ok && v != "" {
		cfg.Evaluator.URL = v
		cfg.Evaluator.Type = EvaluatorHTTP
	}
	if v, ok := lookup(EnvMetricsAddr); ok && v != "" {
		cfg.Metrics.Address = v
		cfg.Metrics.Enabled = true
	}
	return nil
}
