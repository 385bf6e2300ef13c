package config

import (
	"strings"

	gaerrors "github.com/ducminhle1904/combo-optimizer/internal/errors"
)

// GAValidator implements validation for run configurations. Numeric engine
// bounds are checked again by optimization.GAConfig.Validate; this layer
// rejects file-level mistakes early with configuration errors.
type GAValidator struct{}

// NewGAValidator creates a new validator
func NewGAValidator() *GAValidator {
	return &GAValidator{}
}

// Validate performs validation on the run configuration
func (v *GAValidator) Validate(cfg *NestedConfig) error {
	if cfg == nil {
		return gaerrors.NewConfigurationError("validator", "Validate", "configuration is nil")
	}
	if strings.TrimSpace(cfg.Name) == "" {
		return gaerrors.NewConfigurationError("validator", "Validate", "run name must not be empty")
	}
	if strings.ContainsAny(cfg.Name, `/\`) {
		return gaerrors.NewConfigurationError("validator", "Validate",
			"run name must not contain path separators, got: %s", cfg.Name)
	}

	if err := v.validateCategories(cfg.Categories); err != nil {
		return err
	}
	if err := v.validateEvaluator(cfg); err != nil {
		return err
	}
	if err := v.validateStrategies(cfg); err != nil {
		return err
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Address == "" {
		return gaerrors.NewConfigurationError("validator", "Validate", "metrics address is required when metrics are enabled")
	}

	// Engine bounds, reported with the engine's own messages
	if _, err := ToGAConfig(cfg, categorySizesHint(cfg)); err != nil {
		return err
	}
	return nil
}

func (v *GAValidator) validateCategories(c CategoriesConfig) error {
	if len(c.Sizes) == 0 && c.File == "" {
		return gaerrors.NewConfigurationError("validator", "validateCategories",
			"either categories.sizes or categories.file must be set")
	}
	if len(c.Sizes) > 0 && c.File != "" {
		return gaerrors.NewConfigurationError("validator", "validateCategories",
			"categories.sizes and categories.file are mutually exclusive")
	}
	for i, size := range c.Sizes {
		if size < 1 {
			return gaerrors.NewConfigurationError("validator", "validateCategories",
				"category %d must have at least 1 option, got: %d", i, size)
		}
	}
	if c.File != "" {
		switch CatalogFormat(c) {
		case "csv", "xlsx":
		default:
			return gaerrors.NewConfigurationError("validator", "validateCategories",
				"unsupported catalog format: %s (supported: csv, xlsx)", c.Format)
		}
	}
	return nil
}

func (v *GAValidator) validateEvaluator(cfg *NestedConfig) error {
	e := cfg.Evaluator
	switch normalizeName(e.Type) {
	case EvaluatorSum:
	case EvaluatorWeighted:
		if len(e.Weights) == 0 {
			return gaerrors.NewConfigurationError("validator", "validateEvaluator", "weighted evaluator requires weights")
		}
		if sizes := cfg.Categories.Sizes; len(sizes) > 0 {
			if len(e.Weights) != len(sizes) {
				return gaerrors.NewConfigurationError("validator", "validateEvaluator",
					"weights cover %d categories, expected %d", len(e.Weights), len(sizes))
			}
			for i, row := range e.Weights {
				if len(row) != sizes[i] {
					return gaerrors.NewConfigurationError("validator", "validateEvaluator",
						"weights for category %d have %d entries, expected %d", i, len(row), sizes[i])
				}
			}
		}
	case EvaluatorTarget:
		if len(e.Target) == 0 {
			return gaerrors.NewConfigurationError("validator", "validateEvaluator", "target evaluator requires a target combination")
		}
		if sizes := cfg.Categories.Sizes; len(sizes) > 0 && len(e.Target) != len(sizes) {
			return gaerrors.NewConfigurationError("validator", "validateEvaluator",
				"target has %d genes, expected %d", len(e.Target), len(sizes))
		}
	case EvaluatorHTTP:
		if e.URL == "" {
			return gaerrors.NewConfigurationError("validator", "validateEvaluator", "http evaluator requires a url")
		}
		if e.TimeoutSeconds < 0 {
			return gaerrors.NewConfigurationError("validator", "validateEvaluator",
				"timeout must be non-negative, got: %d", e.TimeoutSeconds)
		}
		if e.MaxRetries < 0 {
			return gaerrors.NewConfigurationError("validator", "validateEvaluator",
				"max_retries must be non-negative, got: %d", e.MaxRetries)
		}
		if e.RateLimit < 0 {
			return gaerrors.NewConfigurationError("validator", "validateEvaluator",
				"rate_limit must be non-negative, got: %d", e.RateLimit)
		}
	default:
		return gaerrors.NewConfigurationError("validator", "validateEvaluator",
			"unknown evaluator: %s (supported: sum, weighted, target, http)", e.Type)
	}
	return nil
}

func (v *GAValidator) validateStrategies(cfg *NestedConfig) error {
	if _, err := CreateSelection(cfg.Selection); err != nil {
		return err
	}
	if _, err := CreateCrossover(cfg.Crossover); err != nil {
		return err
	}
	if _, err := CreateMutation(cfg.Mutation, cfg.Optimizer.MutationRate); err != nil {
		return err
	}
	return nil
}

// CatalogFormat returns the catalog format, derived from the file extension
// when not given explicitly
func CatalogFormat(c CategoriesConfig) string {
	if c.Format != "" {
		return normalizeName(c.Format)
	}
	lower := strings.ToLower(c.File)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return "xlsx"
	case strings.HasSuffix(lower, ".csv"):
		return "csv"
	default:
		return ""
	}
}

// categorySizesHint returns placeholder sizes when the categories come from a
// file that has not been loaded yet
func categorySizesHint(cfg *NestedConfig) []int {
	if len(cfg.Categories.Sizes) > 0 {
		return cfg.Categories.Sizes
	}
	return []int{1}
}
