package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	gaerrors "github.com/ducminhle1904/combo-optimizer/internal/errors"
	"github.com/ducminhle1904/combo-optimizer/internal/evaluation"
	"github.com/ducminhle1904/combo-optimizer/internal/logger"
	"github.com/ducminhle1904/combo-optimizer/internal/monitoring"
	"github.com/ducminhle1904/combo-optimizer/internal/notifications"
	"github.com/ducminhle1904/combo-optimizer/pkg/catalog"
	"github.com/ducminhle1904/combo-optimizer/pkg/config"
	"github.com/ducminhle1904/combo-optimizer/pkg/optimization"
	"github.com/ducminhle1904/combo-optimizer/pkg/reporting"
)

// DefaultOrchestrator implements the Orchestrator interface
type DefaultOrchestrator struct {
	validator config.Validator
	health    *monitoring.HealthChecker
	notifier  notifications.Notifier
	console   io.Writer
}

// NewOrchestrator creates a new orchestrator with default components
func NewOrchestrator() *DefaultOrchestrator {
	return &DefaultOrchestrator{
		validator: config.NewGAValidator(),
		console:   os.Stdout,
	}
}

// WithHealthChecker reports run starts and ends to h
func (o *DefaultOrchestrator) WithHealthChecker(h *monitoring.HealthChecker) *DefaultOrchestrator {
	o.health = h
	return o
}

// WithNotifier sends an alert when each run ends. A nil notifier disables
// alerts.
func (o *DefaultOrchestrator) WithNotifier(n notifications.Notifier) *DefaultOrchestrator {
	o.notifier = n
	return o
}

// WithConsole redirects console reports
func (o *DefaultOrchestrator) WithConsole(w io.Writer) *DefaultOrchestrator {
	o.console = w
	return o
}

var _ Orchestrator = (*DefaultOrchestrator)(nil)

// Plan loads the catalog and converts the configuration for the engine
func (o *DefaultOrchestrator) Plan(cfg *config.NestedConfig) (*RunPlan, error) {
	if cfg == nil {
		return nil, gaerrors.NewValidationError("orchestrator", "Plan", "configuration is required")
	}
	if err := o.validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	cat, err := loadCatalog(cfg.Categories)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	// Evaluator checks against the real sizes once a catalog file is loaded
	if cfg.Categories.File != "" {
		resolved := *cfg
		resolved.Categories = config.CategoriesConfig{Sizes: cat.Sizes()}
		if err := o.validator.Validate(&resolved); err != nil {
			return nil, fmt.Errorf("configuration does not match catalog %s: %w", cfg.Categories.File, err)
		}
	}

	gaCfg, err := config.ToGAConfig(cfg, cat.Sizes())
	if err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}

	return &RunPlan{
		Catalog:     cat,
		GAConfig:    gaCfg,
		SearchSpace: cat.SearchSpace(),
	}, nil
}

// RunOptimization executes one full run and writes its reports
func (o *DefaultOrchestrator) RunOptimization(ctx context.Context, cfg *config.NestedConfig, opts ...RunOption) (*RunOutcome, error) {
	options := runOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.runID == "" {
		options.runID = uuid.NewString()
	}

	plan, err := o.Plan(cfg)
	if err != nil {
		return nil, err
	}

	log.Printf("🚀 Starting optimization run %s (%s)", cfg.Name, options.runID)
	log.Printf("🧬 Categories: %d, search space: %d combinations", plan.Catalog.Len(), plan.SearchSpace)

	fitness, err := evaluation.New(ctx, cfg.Evaluator, plan.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluator: %w", err)
	}
	fitness = monitoring.InstrumentFitness(cfg.Name, withContext(ctx, fitness))

	engine, err := optimization.NewEngine(plan.GAConfig, fitness)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	engine.AddObserver(monitoring.NewRunObserver(cfg.Name))
	for _, obs := range options.observers {
		engine.AddObserver(obs)
	}

	var runLog *logger.Logger
	if cfg.Logging.File {
		runLog, err = logger.NewLogger(cfg.Logging.Directory, cfg.Name)
		if err != nil {
			log.Printf("⚠️ File logging disabled: %v", err)
		} else {
			defer runLog.Close()
			runLog.Info("Run ID: %s", options.runID)
			runLog.LogConfig(plan.GAConfig.Summary())
			engine.AddObserver(runLog)
		}
	}

	monitoring.RunStarted()
	if o.health != nil {
		o.health.RunStarted()
	}

	start := time.Now()
	result, runErr := engine.Run()

	monitoring.RunFinished(monitoring.OutcomeOf(result, runErr))
	if o.health != nil {
		o.health.RunFinished(runErr)
	}
	o.notify(cfg.Name, options.runID, result, runErr)

	if runErr != nil {
		if runLog != nil {
			runLog.LogError("engine run", runErr)
		}
		return nil, fmt.Errorf("optimization run %s failed: %w", cfg.Name, runErr)
	}
	if runLog != nil {
		runLog.LogResult(result)
	}

	report, err := reporting.NewRunReport(options.runID, cfg.Name, result, plan.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}

	outcome := &RunOutcome{
		RunID:    options.runID,
		RunName:  cfg.Name,
		Report:   report,
		Duration: time.Since(start),
	}
	if runLog != nil {
		outcome.LogPath = runLog.GetLogPath()
	}

	manager := reporting.NewReportingManager(ReportingConfigFrom(cfg.Output)).WithConsole(o.console)
	files, err := manager.ReportResults(report)
	if err != nil {
		return outcome, fmt.Errorf("failed to write reports: %w", err)
	}
	configPath, err := manager.ReportConfig(result.Config, cfg, cfg.Name)
	if err != nil {
		return outcome, fmt.Errorf("failed to write run config: %w", err)
	}
	if configPath != "" {
		files = append(files, configPath)
	}
	outcome.Files = files

	log.Printf("✅ Run %s finished: %s after %d generations", cfg.Name, result.TerminationReason(), result.GenerationsCompleted)
	return outcome, nil
}

func (o *DefaultOrchestrator) notify(runName, runID string, result *optimization.Result, runErr error) {
	if o.notifier == nil {
		return
	}
	level, message := notifications.RunAlert(runName, runID, result, runErr)
	if err := o.notifier.SendAlert(level, message); err != nil {
		log.Printf("⚠️ Failed to send run alert: %v", err)
	}
}

// ReportingConfigFrom maps the output section of a run config
func ReportingConfigFrom(out config.OutputConfig) reporting.ReportingConfig {
	files := out.JSON || out.CSV || out.Excel || out.Markdown
	return reporting.ReportingConfig{
		EnableConsole:   out.Console,
		EnableFiles:     files,
		OutputDirectory: out.Directory,
		JSONEnabled:     out.JSON,
		CSVEnabled:      out.CSV,
		ExcelEnabled:    out.Excel,
		MarkdownEnabled: out.Markdown,
	}
}

// loadCatalog reads the catalog file or synthesizes one from sizes
func loadCatalog(c config.CategoriesConfig) (*catalog.Catalog, error) {
	if c.File != "" {
		return catalog.Load(c.File, config.CatalogFormat(c), c.Sheet)
	}
	return catalog.FromSizes(c.Sizes)
}

// withContext stops evaluation once ctx is done
func withContext(ctx context.Context, fn optimization.FitnessFunc) optimization.FitnessFunc {
	return func(genes []int) (float64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return fn(genes)
	}
}
