package evaluation

import (
	"context"
	"strings"
	"time"

	gaerrors "github.com/ducminhle1904/combo-optimizer/internal/errors"
	"github.com/ducminhle1904/combo-optimizer/pkg/catalog"
	"github.com/ducminhle1904/combo-optimizer/pkg/config"
	"github.com/ducminhle1904/combo-optimizer/pkg/optimization"
)

// New creates the fitness function described by cfg. cat may be nil; when
// set it is used to label remote requests.
func New(ctx context.Context, cfg config.EvaluatorConfig, cat *catalog.Catalog) (optimization.FitnessFunc, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case config.EvaluatorSum, "":
		return Sum(), nil

	case config.EvaluatorWeighted:
		fn, err := Weighted(cfg.Weights)
		if err != nil {
			return nil, gaerrors.Wrap(err, gaerrors.ErrorCategoryConfiguration, "evaluation", "New")
		}
		return fn, nil

	case config.EvaluatorTarget:
		fn, err := Target(cfg.Target)
		if err != nil {
			return nil, gaerrors.Wrap(err, gaerrors.ErrorCategoryConfiguration, "evaluation", "New")
		}
		return fn, nil

	case config.EvaluatorHTTP:
		if cfg.URL == "" {
			return nil, gaerrors.NewConfigurationError("evaluation", "New", "http evaluator requires a url")
		}
		timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
		return NewHTTPEvaluator(cfg.URL, timeout).
			WithCatalog(cat).
			WithRetry(DefaultRetryPolicy(cfg.MaxRetries)).
			WithRateLimit(cfg.RateLimit).
			FitnessFunc(ctx), nil

	default:
		return nil, gaerrors.NewConfigurationError("evaluation", "New",
			"unknown evaluator: %s (supported: %s)", cfg.Type, strings.Join(GetAvailableEvaluators(), ", "))
	}
}

// GetAvailableEvaluators returns the supported evaluator types
func GetAvailableEvaluators() []string {
	return []string{config.EvaluatorSum, config.EvaluatorWeighted, config.EvaluatorTarget, config.EvaluatorHTTP}
}
