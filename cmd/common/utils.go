package common

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LogLevel represents different logging levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Logger provides structured logging for CLI applications
type Logger struct {
	Level      LogLevel
	ShowEmojis bool
	SilentMode bool
	Out        io.Writer
}

// NewLogger creates a new logger with default settings
func NewLogger() *Logger {
	return &Logger{
		Level:      LogLevelInfo,
		ShowEmojis: true,
		Out:        os.Stdout,
	}
}

// SetSilentMode enables or disables silent mode
func (l *Logger) SetSilentMode(silent bool) {
	l.SilentMode = silent
}

func (l *Logger) print(emoji, plain, format string, args ...interface{}) {
	if !l.ShowEmojis {
		emoji = plain
	}
	fmt.Fprintf(l.Out, "%s %s\n", emoji, fmt.Sprintf(format, args...))
}

// Header prints a formatted header
func (l *Logger) Header(title string) {
	if l.SilentMode {
		return
	}
	l.print("🎯", "***", "%s", strings.ToUpper(title))
	fmt.Fprintln(l.Out, strings.Repeat("=", len(title)+5))
}

// Section prints a formatted section header
func (l *Logger) Section(title string) {
	if l.SilentMode {
		return
	}
	fmt.Fprintln(l.Out)
	l.print("📋", "---", "%s", title)
	fmt.Fprintln(l.Out, strings.Repeat("-", len(title)+5))
}

// Info prints an info message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.SilentMode || l.Level < LogLevelInfo {
		return
	}
	l.print("ℹ️ ", "[INFO]", format, args...)
}

// Error prints an error message; never silenced
func (l *Logger) Error(format string, args ...interface{}) {
	l.print("❌", "[ERROR]", format, args...)
}

// Success prints a success message
func (l *Logger) Success(format string, args ...interface{}) {
	if l.SilentMode {
		return
	}
	l.print("✅", "[SUCCESS]", format, args...)
}

// Warn prints a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.Level < LogLevelWarn {
		return
	}
	l.print("⚠️ ", "[WARN]", format, args...)
}

// Debug prints a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.Level < LogLevelDebug {
		return
	}
	l.print("🔍", "[DEBUG]", format, args...)
}

// EnvLoader provides environment loading utilities
type EnvLoader struct {
	logger *Logger
}

// NewEnvLoader creates a new environment loader
func NewEnvLoader(logger *Logger) *EnvLoader {
	return &EnvLoader{logger: logger}
}

// LoadEnvFile loads environment variables from a file. A missing file is
// not an error; variables already set in the process win.
func (e *EnvLoader) LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		e.logger.Debug("Environment file %s not found, using system environment", path)
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		e.logger.Warn("Could not load environment file %s: %v", path, err)
		return err
	}

	e.logger.Debug("Environment loaded from %s", path)
	return nil
}

// GetEnvWithDefault gets an environment variable with a default value
func (e *EnvLoader) GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ParseIntList parses "3,4,5" into []int
func ParseIntList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}

// Global instances for convenience
var (
	DefaultLogger    = NewLogger()
	DefaultEnvLoader = NewEnvLoader(DefaultLogger)
)

// Convenience functions using global instances
func Header(title string)                        { DefaultLogger.Header(title) }
func Section(title string)                       { DefaultLogger.Section(title) }
func Info(format string, args ...interface{})    { DefaultLogger.Info(format, args...) }
func Error(format string, args ...interface{})   { DefaultLogger.Error(format, args...) }
func Success(format string, args ...interface{}) { DefaultLogger.Success(format, args...) }
func Warn(format string, args ...interface{})    { DefaultLogger.Warn(format, args...) }
func Debug(format string, args ...interface{})   { DefaultLogger.Debug(format, args...) }

func LoadEnvFile(path string) error            { return DefaultEnvLoader.LoadEnvFile(path) }
func GetEnvWithDefault(key, def string) string { return DefaultEnvLoader.GetEnvWithDefault(key, def) }
