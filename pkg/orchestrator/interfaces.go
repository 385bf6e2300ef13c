package orchestrator

import (
	"context"
	"time"

	"github.com/ducminhle1904/combo-optimizer/pkg/catalog"
	"github.com/ducminhle1904/combo-optimizer/pkg/config"
	"github.com/ducminhle1904/combo-optimizer/pkg/optimization"
	"github.com/ducminhle1904/combo-optimizer/pkg/reporting"
)

// Orchestrator coordinates catalog loading, evaluation, the engine and reporting
type Orchestrator interface {
	// Plan resolves the search space and engine configuration without running
	Plan(cfg *config.NestedConfig) (*RunPlan, error)

	// RunOptimization executes one full run and writes its reports
	RunOptimization(ctx context.Context, cfg *config.NestedConfig, opts ...RunOption) (*RunOutcome, error)
}

// Workflow represents different execution workflows
type Workflow interface {
	// Execute runs the workflow and returns results
	Execute(ctx context.Context) (interface{}, error)

	// GetWorkflowType returns the type of workflow
	GetWorkflowType() WorkflowType
}

// WorkflowType represents different types of workflows
type WorkflowType string

const (
	WorkflowTypeOptimization WorkflowType = "optimization"
	WorkflowTypeValidation   WorkflowType = "validation"
)

// RunPlan is everything needed to start an engine
type RunPlan struct {
	Catalog     *catalog.Catalog
	GAConfig    optimization.GAConfig
	SearchSpace uint64
}

// RunOutcome represents the result of one orchestrated run
type RunOutcome struct {
	RunID    string               `json:"run_id"`
	RunName  string               `json:"run_name"`
	Report   *reporting.RunReport `json:"report"`
	Files    []string             `json:"files,omitempty"`
	LogPath  string               `json:"log_path,omitempty"`
	Duration time.Duration        `json:"duration"`
}

// Result returns the engine result of the run
func (o *RunOutcome) Result() *optimization.Result {
	if o == nil || o.Report == nil {
		return nil
	}
	return o.Report.Result
}

// RunOption customizes a single run
type RunOption func(*runOptions)

type runOptions struct {
	runID     string
	observers []optimization.GenerationObserver
}

// WithRunID fixes the run id instead of generating one
func WithRunID(id string) RunOption {
	return func(o *runOptions) {
		o.runID = id
	}
}

// WithObservers attaches extra generation observers to the engine
func WithObservers(observers ...optimization.GenerationObserver) RunOption {
	return func(o *runOptions) {
		o.observers = append(o.observers, observers...)
	}
}
