package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// errorWindow is how long a recorded error keeps the service degraded
const errorWindow = 5 * time.Minute

// maxRecentErrors bounds the error list kept for the health report
const maxRecentErrors = 10

type HealthChecker struct {
	mu            sync.RWMutex
	activeRuns    int
	completedRuns int
	failedRuns    int
	lastRun       time.Time
	lastErrorAt   time.Time
	errors        []string
}

type HealthStatus struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	ActiveRuns    int       `json:"active_runs"`
	CompletedRuns int       `json:"completed_runs"`
	FailedRuns    int       `json:"failed_runs"`
	LastRun       time.Time `json:"last_run,omitempty"`
	Uptime        string    `json:"uptime"`
	Errors        []string  `json:"errors,omitempty"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		errors: make([]string, 0),
	}
}

// RunStarted records a run start
func (h *HealthChecker) RunStarted() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.activeRuns++
	h.lastRun = time.Now()
}

// RunFinished records a run end; a non-nil err counts as a failure
func (h *HealthChecker) RunFinished(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.activeRuns > 0 {
		h.activeRuns--
	}
	if err == nil {
		h.completedRuns++
		return
	}
	h.failedRuns++
	h.lastErrorAt = time.Now()
	h.errors = append(h.errors, err.Error())
	if len(h.errors) > maxRecentErrors {
		h.errors = h.errors[len(h.errors)-maxRecentErrors:]
	}
}

// Status returns the current health report
func (h *HealthChecker) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if !h.lastErrorAt.IsZero() && time.Since(h.lastErrorAt) < errorWindow {
		status = "degraded"
	}

	return HealthStatus{
		Status:        status,
		Timestamp:     time.Now(),
		ActiveRuns:    h.activeRuns,
		CompletedRuns: h.completedRuns,
		FailedRuns:    h.failedRuns,
		LastRun:       h.lastRun,
		Uptime:        time.Since(startTime).String(),
		Errors:        append([]string(nil), h.errors...),
	}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	health := h.Status()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
