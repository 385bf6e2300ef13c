package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ducminhle1904/combo-optimizer/cmd/common"
	"github.com/ducminhle1904/combo-optimizer/internal/monitoring"
	"github.com/ducminhle1904/combo-optimizer/internal/notifications"
	"github.com/ducminhle1904/combo-optimizer/pkg/config"
	"github.com/ducminhle1904/combo-optimizer/pkg/orchestrator"
)

const AppName = "GA Optimize"

func main() {
	fs := flag.NewFlagSet("ga-optimize", flag.ExitOnError)
	flags := NewOptimizeFlags(fs)
	fs.Parse(os.Args[1:])

	usage := common.NewUsageFormatter(AppName, "Genetic search over categorical combinations").
		AddExample("ga-optimize -sizes 3,4,5 -generations 50 -seed 42", "Quick run with the sum evaluator").
		AddExample("ga-optimize -config configs/menu.json -log-file", "Run from a configuration file").
		AddExample("ga-optimize -config configs/menu.json -dry-run", "Validate a configuration")
	if common.CheckHelpAndVersion(AppName, fs, flags.CommonFlags, usage) {
		return
	}

	logger := common.SetupLogger(flags.CommonFlags)

	if *flags.List {
		printStrategies()
		return
	}

	if err := flags.Validate(); err != nil {
		logger.Error("Flag validation error: %v", err)
		os.Exit(2)
	}

	if err := common.LoadEnvFile(*flags.EnvFile); err != nil {
		logger.Warn("Continuing without %s", *flags.EnvFile)
	}

	if err := run(flags, logger); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run(flags *OptimizeFlags, logger *common.Logger) error {
	logger.Header(AppName + " v" + common.ProjectVersion)

	cfg, err := config.NewGAConfigManager().LoadConfig(*flags.ConfigFile, flags.Params())
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if *flags.LogFile {
		cfg.Logging.File = true
	}
	if *flags.Silent {
		cfg.Output.Console = false
	}

	orch := orchestrator.NewOrchestrator().WithNotifier(notifications.FromEnv(os.LookupEnv))

	if *flags.DryRun {
		plan, err := orchestrator.NewValidationWorkflow(orch, cfg).Execute(context.Background())
		if err != nil {
			return err
		}
		p := plan.(*orchestrator.RunPlan)
		logger.Success("Configuration %q is valid", cfg.Name)
		logger.Info("Categories: %s", strings.Join(p.Catalog.Names(), ", "))
		logger.Info("Search space: %d combinations", p.SearchSpace)
		return nil
	}

	addr := *flags.MetricsAddr
	if addr == "" && cfg.Metrics.Enabled {
		addr = cfg.Metrics.Address
	}
	if addr != "" {
		srv := serveMetrics(addr, logger)
		defer srv.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, err := orchestrator.NewOptimizationWorkflow(orch, cfg).Execute(ctx)
	if err != nil {
		return err
	}
	outcome := out.(*orchestrator.RunOutcome)

	logger.Section("Output")
	for _, path := range outcome.Files {
		logger.Info("📁 %s", path)
	}
	if outcome.LogPath != "" {
		logger.Info("📝 %s", outcome.LogPath)
	}
	logger.Success("Run %s finished in %s (%s)", outcome.RunID, common.FormatDuration(outcome.Duration),
		outcome.Result().TerminationReason())
	return nil
}

func serveMetrics(addr string, logger *common.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.NewMetricsHandler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Metrics server stopped: %v", err)
		}
	}()
	logger.Info("📈 Metrics on http://%s/metrics", addr)
	return srv
}

func printStrategies() {
	groups := []struct {
		title string
		names []string
	}{
		{"Selection", config.GetAvailableSelections()},
		{"Crossover", config.GetAvailableCrossovers()},
		{"Mutation", config.GetAvailableMutations()},
	}
	for _, g := range groups {
		common.Section(g.title)
		for _, name := range g.names {
			fmt.Printf("  %-14s %s\n", name, config.GetStrategyDescription(name))
			if params := config.GetDefaultParameters(name); len(params) > 0 {
				fmt.Printf("  %-14s defaults: %v\n", "", params)
			}
		}
	}
}
