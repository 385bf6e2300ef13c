package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ducminhle1904/combo-optimizer/cmd/common"
	"github.com/ducminhle1904/combo-optimizer/internal/jobs"
	"github.com/ducminhle1904/combo-optimizer/internal/monitoring"
	"github.com/ducminhle1904/combo-optimizer/internal/notifications"
	"github.com/ducminhle1904/combo-optimizer/pkg/config"
	"github.com/ducminhle1904/combo-optimizer/pkg/orchestrator"
)

const (
	AppName         = "GA Server"
	shutdownTimeout = 30 * time.Second
)

func main() {
	fs := flag.NewFlagSet("ga-server", flag.ExitOnError)
	commonFlags := common.RegisterCommonFlags(fs)
	addr := fs.String("addr", ":8080", "HTTP listen address")
	resultsDir := fs.String("results", config.ResultsDir, "Root directory for job results")
	workers := fs.Int("workers", 0, "Concurrent runs (0 = number of CPUs)")
	queueSize := fs.Int("queue", jobs.DefaultQueueSize, "Jobs that may wait for a worker")
	fs.Parse(os.Args[1:])

	usage := common.NewUsageFormatter(AppName, "REST job server for genetic combination search").
		AddExample("ga-server -addr :8080 -results results", "Serve jobs, /metrics and /health")
	if common.CheckHelpAndVersion(AppName, fs, commonFlags, usage) {
		return
	}

	logger := common.SetupLogger(commonFlags)
	if err := common.LoadEnvFile(*commonFlags.EnvFile); err != nil {
		logger.Warn("Continuing without %s", *commonFlags.EnvFile)
	}

	health := monitoring.NewHealthChecker()
	orch := orchestrator.NewOrchestrator().
		WithHealthChecker(health).
		WithNotifier(notifications.FromEnv(os.LookupEnv))
	manager := jobs.NewManager(orch).
		WithOutputRoot(*resultsDir).
		WithWorkers(*workers, *queueSize)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newMux(manager, health),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Header(AppName + " v" + common.ProjectVersion)
		logger.Info("🌐 Listening on %s (%d workers)", *addr, manager.Workers())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("🛑 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown: %v", err)
	}
	if err := manager.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Jobs still running at exit: %v", err)
	}
	logger.Success("Stopped")
}

// newMux wires the job API with the operational endpoints
func newMux(manager *jobs.Manager, health *monitoring.HealthChecker) *http.ServeMux {
	mux := http.NewServeMux()
	jobs.NewHandler(manager).Register(mux)
	mux.Handle("GET /metrics", monitoring.NewMetricsHandler())
	mux.Handle("GET /health", health)
	mux.HandleFunc("GET /version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(common.GetVersionInfo())
	})
	return mux
}
