package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ducminhle1904/combo-optimizer/pkg/optimization"
)

// Logger writes a per-run log file. It also implements
// optimization.GenerationObserver so every generation gets a line.
type Logger struct {
	runName string
	logPath string
	logFile *os.File
	logger  *log.Logger
	mu      sync.Mutex
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo       LogLevel = "INFO"
	LogLevelWarning    LogLevel = "WARN"
	LogLevelError      LogLevel = "ERROR"
	LogLevelGeneration LogLevel = "GEN"
	LogLevelStatus     LogLevel = "STATUS"
)

const timestampFormat = "2006-01-02 15:04:05"

// NewLogger creates <logDir>/<runName>_<date>.log, appending when it exists
func NewLogger(logDir, runName string) (*Logger, error) {
	if logDir == "" {
		logDir = "logs"
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.log", runName, time.Now().Format("2006-01-02"))
	logPath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := &Logger{
		runName: runName,
		logPath: logPath,
		logFile: file,
		logger:  log.New(file, "", 0),
	}
	l.writeSessionHeader()
	return l, nil
}

func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
🧬 OPTIMIZATION RUN STARTED
================================================================================
Run: %s
Started: %s
Log File: %s
================================================================================
`, l.runName, time.Now().Format(timestampFormat), filepath.Base(l.logPath))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	message := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] [%s] %s", time.Now().Format(timestampFormat), level, message)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// Status logs run status information
func (l *Logger) Status(format string, args ...interface{}) {
	l.Log(LogLevelStatus, format, args...)
}

// LogError logs error with context
func (l *Logger) LogError(context string, err error) {
	l.Error("%s: %v", context, err)
}

// OnGeneration implements optimization.GenerationObserver
func (l *Logger) OnGeneration(stats optimization.GenerationStatistics) {
	l.Log(LogLevelGeneration, "gen=%d best=%.6f avg=%.6f worst=%.6f diversity=%.3f time=%.4fs genes=%v",
		stats.Generation, stats.BestFitness, stats.AverageFitness, stats.WorstFitness,
		stats.DiversityScore, stats.ExecutionTime, stats.BestGenes)
}

// LogConfig logs the engine configuration of the run
func (l *Logger) LogConfig(cfg optimization.ConfigSummary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	configLog := fmt.Sprintf(`
[%s] [STATUS] ==================== CONFIGURATION ====================
🧩 Categories: %d %v
👥 Population: %d | Generations: %d | Elitism: %d
🔀 Crossover: %s (rate %.2f) | 🎲 Mutation: %s (rate %.2f)
🎯 Selection: %s | Convergence: %d
==========================================================`,
		time.Now().Format(timestampFormat), len(cfg.CategorySizes), cfg.CategorySizes,
		cfg.PopulationSize, cfg.Generations, cfg.ElitismCount,
		cfg.Crossover.Type, cfg.CrossoverRate, cfg.Mutation.Type, cfg.MutationRate,
		cfg.Selection.Type, cfg.ConvergenceThreshold)

	l.logger.Println(configLog)
}

// LogResult logs the outcome of the run
func (l *Logger) LogResult(result *optimization.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	best := "n/a"
	if result.BestFitness != nil {
		best = fmt.Sprintf("%.6f", *result.BestFitness)
	}

	resultLog := fmt.Sprintf(`
[%s] [STATUS] ==================== RUN COMPLETED ====================
🏆 Best Fitness: %s
🧬 Best Combination: %v
🔄 Generations: %d | Stopped: %s
⏱️  Total Time: %.3fs
==============================================================`,
		time.Now().Format(timestampFormat), best, result.BestCombination,
		result.GenerationsCompleted, result.TerminationReason(), result.TotalTime)

	l.logger.Println(resultLog)
}

// Writer returns a standard logger writing INFO lines into this file, for
// code that takes a *log.Logger
func (l *Logger) Writer() *log.Logger {
	return log.New(lineWriter{l}, "", 0)
}

type lineWriter struct {
	l *Logger
}

func (w lineWriter) Write(p []byte) (int, error) {
	w.l.Info("%s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// Close writes the session footer and closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile == nil {
		return nil
	}

	footer := fmt.Sprintf(`
================================================================================
🛑 OPTIMIZATION RUN ENDED
================================================================================
Ended: %s
================================================================================

`, time.Now().Format(timestampFormat))
	l.logger.Print(footer)

	err := l.logFile.Close()
	l.logFile = nil
	return err
}

// GetLogPath returns the log file path
func (l *Logger) GetLogPath() string {
	return l.logPath
}
