package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// GAConfigManager implements ConfigManager for optimizer runs
type GAConfigManager struct {
	validator Validator
	lookup    LookupFunc
}

// NewGAConfigManager creates a new configuration manager reading overrides
// from the process environment
func NewGAConfigManager() *GAConfigManager {
	return &GAConfigManager{
		validator: NewGAValidator(),
		lookup:    ProcessEnv,
	}
}

// WithLookup replaces the environment source
func (m *GAConfigManager) WithLookup(lookup LookupFunc) *GAConfigManager {
	m.lookup = lookup
	return m
}

// LoadConfig loads configuration from file, environment and command line
// parameters. Recognised params: name, population_size, generations,
// random_seed, verbose, output_dir, category_sizes.
func (m *GAConfigManager) LoadConfig(configFile string, params map[string]interface{}) (*NestedConfig, error) {
	cfg := NewDefaultConfig()

	if configFile != "" {
		if err := m.loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := ApplyEnvOverrides(cfg, m.lookup); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := applyParams(cfg, params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if err := m.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ParseConfig decodes a configuration document over the defaults and
// validates it
func (m *GAConfigManager) ParseConfig(data []byte) (*NestedConfig, error) {
	cfg := NewDefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}
	if err := m.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile decodes a JSON file over the defaults already in cfg
func (m *GAConfigManager) loadFromFile(configFile string, cfg *NestedConfig) error {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("could not read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("could not parse config file: %w", err)
	}

	// Catalog paths are relative to the config file
	if cfg.Categories.File != "" && !filepath.IsAbs(cfg.Categories.File) {
		cfg.Categories.File = filepath.Join(filepath.Dir(configFile), cfg.Categories.File)
	}
	return nil
}

func applyParams(cfg *NestedConfig, params map[string]interface{}) error {
	if len(params) == 0 {
		return nil
	}
	if name, ok := params["name"].(string); ok && name != "" {
		cfg.Name = name
	}
	if dir, ok := params["output_dir"].(string); ok && dir != "" {
		cfg.Output.Directory = dir
	}
	if verbose, ok := params["verbose"].(bool); ok {
		cfg.Optimizer.Verbose = verbose
	}
	if sizes, ok := params["category_sizes"].([]int); ok && len(sizes) > 0 {
		cfg.Categories.Sizes = sizes
		cfg.Categories.File = ""
	}

	if _, ok := params["population_size"]; ok {
		n, err := intParam(params, "population_size", cfg.Optimizer.PopulationSize)
		if err != nil {
			return err
		}
		cfg.Optimizer.PopulationSize = n
	}
	if _, ok := params["generations"]; ok {
		n, err := intParam(params, "generations", cfg.Optimizer.Generations)
		if err != nil {
			return err
		}
		cfg.Optimizer.Generations = n
	}
	if raw, ok := params["random_seed"]; ok {
		switch v := raw.(type) {
		case int64:
			cfg.Optimizer.RandomSeed = &v
		case int:
			seed := int64(v)
			cfg.Optimizer.RandomSeed = &seed
		default:
			return fmt.Errorf("parameter \"random_seed\" must be an integer, got %T", raw)
		}
	}
	return nil
}

// ValidateConfig validates a configuration using the validator
func (m *GAConfigManager) ValidateConfig(cfg *NestedConfig) error {
	return m.validator.Validate(cfg)
}

// SaveConfig saves configuration to file
func (m *GAConfigManager) SaveConfig(cfg *NestedConfig, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}

var _ ConfigManager = (*GAConfigManager)(nil)
