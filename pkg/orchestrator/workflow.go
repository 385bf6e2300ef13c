package orchestrator

import (
	"context"

	"github.com/ducminhle1904/combo-optimizer/pkg/config"
)

// OptimizationWorkflow represents a full optimization run
type OptimizationWorkflow struct {
	orchestrator Orchestrator
	config       *config.NestedConfig
	opts         []RunOption
}

// NewOptimizationWorkflow creates a new optimization workflow
func NewOptimizationWorkflow(orchestrator Orchestrator, config *config.NestedConfig, opts ...RunOption) Workflow {
	return &OptimizationWorkflow{
		orchestrator: orchestrator,
		config:       config,
		opts:         opts,
	}
}

// Execute runs the optimization workflow
func (w *OptimizationWorkflow) Execute(ctx context.Context) (interface{}, error) {
	return w.orchestrator.RunOptimization(ctx, w.config, w.opts...)
}

// GetWorkflowType returns the workflow type
func (w *OptimizationWorkflow) GetWorkflowType() WorkflowType {
	return WorkflowTypeOptimization
}

// ValidationWorkflow checks a configuration and resolves its search space
// without running the engine
type ValidationWorkflow struct {
	orchestrator Orchestrator
	config       *config.NestedConfig
}

// NewValidationWorkflow creates a new validation workflow
func NewValidationWorkflow(orchestrator Orchestrator, config *config.NestedConfig) Workflow {
	return &ValidationWorkflow{
		orchestrator: orchestrator,
		config:       config,
	}
}

// Execute runs the validation workflow
func (w *ValidationWorkflow) Execute(ctx context.Context) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return w.orchestrator.Plan(w.config)
}

// GetWorkflowType returns the workflow type
func (w *ValidationWorkflow) GetWorkflowType() WorkflowType {
	return WorkflowTypeValidation
}
