// Package notifications sends run alerts to chat services
package notifications

import (
	"fmt"
	"strings"

	"github.com/ducminhle1904/combo-optimizer/pkg/optimization"
)

// Alert levels
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
	LevelSuccess = "success"
)

// Environment variables enabling Telegram alerts
const (
	EnvTelegramToken  = "TELEGRAM_TOKEN"
	EnvTelegramChatID = "TELEGRAM_CHAT_ID"
)

// Notifier defines the interface for notification services
type Notifier interface {
	// SendAlert sends an alert with the specified level and message
	SendAlert(level, message string) error
}

// FromEnv returns a Telegram notifier when both variables are set, nil
// otherwise
func FromEnv(lookup func(string) (string, bool)) Notifier {
	token, _ := lookup(EnvTelegramToken)
	chatID, _ := lookup(EnvTelegramChatID)
	if strings.TrimSpace(token) == "" || strings.TrimSpace(chatID) == "" {
		return nil
	}
	return NewTelegramNotifier(token, chatID)
}

// RunAlert builds the alert for a finished run
func RunAlert(runName, runID string, result *optimization.Result, runErr error) (string, string) {
	if runErr != nil {
		return LevelError, fmt.Sprintf("Run *%s* (`%s`) failed:\n%v", runName, runID, runErr)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Run *%s* (`%s`) finished: %s\n", runName, runID, result.TerminationReason())
	fmt.Fprintf(&b, "Generations: %d\n", result.GenerationsCompleted)
	if result.BestFitness != nil {
		fmt.Fprintf(&b, "Best fitness: %.6f\n", *result.BestFitness)
		fmt.Fprintf(&b, "Best combination: %v", result.BestCombination)
	}

	level := LevelSuccess
	if !result.Converged && !result.TargetReached {
		level = LevelInfo
	}
	return level, strings.TrimRight(b.String(), "\n")
}
