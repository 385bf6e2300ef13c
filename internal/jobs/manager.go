// Package jobs runs optimizations asynchronously and tracks their status
package jobs

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	gaerrors "github.com/ducminhle1904/combo-optimizer/internal/errors"
	"github.com/ducminhle1904/combo-optimizer/pkg/config"
	"github.com/ducminhle1904/combo-optimizer/pkg/optimization"
	"github.com/ducminhle1904/combo-optimizer/pkg/orchestrator"
	"github.com/ducminhle1904/combo-optimizer/pkg/reporting"
)

// Status is the lifecycle state of a job
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Finished reports whether the job reached a terminal state
func (s Status) Finished() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is a snapshot of one submitted run
type Job struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	Generation  int        `json:"generation"`
	BestFitness *float64   `json:"best_fitness,omitempty"`
	Error       string     `json:"error,omitempty"`
}

type entry struct {
	job    Job
	report *reporting.RunReport
	done   chan struct{}
}

// Manager owns the job table. Jobs wait in a bounded queue until one of
// the pool's workers picks them up.
type Manager struct {
	mu         sync.RWMutex
	jobs       map[string]*entry
	order      []string
	runner     orchestrator.Orchestrator
	outputRoot string
	pool       *WorkerPool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager creates a job manager executing runs with runner
func NewManager(runner orchestrator.Orchestrator) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		jobs:   make(map[string]*entry),
		runner: runner,
		pool:   NewWorkerPool(0, DefaultQueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// WithWorkers bounds the number of concurrent runs and queued jobs.
// Call it before the first Submit.
func (m *Manager) WithWorkers(workers, queueSize int) *Manager {
	m.pool = NewWorkerPool(workers, queueSize)
	return m
}

// WithOutputRoot writes the reports of each job under root/<job id>
func (m *Manager) WithOutputRoot(root string) *Manager {
	m.outputRoot = root
	return m
}

// Workers returns the number of runs that may execute at once
func (m *Manager) Workers() int {
	return m.pool.Workers()
}

// Submit validates cfg and queues it. ErrQueueFull is returned when every
// worker is busy and the queue has no free slot.
func (m *Manager) Submit(cfg *config.NestedConfig) (Job, error) {
	if _, err := m.runner.Plan(cfg); err != nil {
		return Job{}, err
	}

	id := uuid.NewString()
	if m.outputRoot != "" {
		cfg.Output.Directory = filepath.Join(m.outputRoot, id)
	}

	e := &entry{
		job: Job{
			ID:        id,
			Name:      cfg.Name,
			Status:    StatusPending,
			CreatedAt: time.Now(),
		},
		done: make(chan struct{}),
	}

	m.mu.Lock()
	m.jobs[id] = e
	m.order = append(m.order, id)
	snapshot := e.job
	m.mu.Unlock()

	m.pool.Start()
	if err := m.pool.Submit(task{entry: e, run: func() { m.run(e, cfg) }}); err != nil {
		m.forget(id)
		log.Printf("⚠️ Job %s rejected: %v", id, err)
		return Job{}, err
	}

	log.Printf("📥 Job %s submitted (%s)", id, cfg.Name)
	return snapshot, nil
}

// forget removes a job that never made it into the queue
func (m *Manager) forget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *Manager) run(e *entry, cfg *config.NestedConfig) {
	defer close(e.done)

	m.update(e, func(j *Job) {
		now := time.Now()
		j.Status = StatusRunning
		j.StartedAt = &now
	})

	outcome, err := m.runner.RunOptimization(m.ctx, cfg,
		orchestrator.WithRunID(e.job.ID),
		orchestrator.WithObservers(&progressObserver{manager: m, entry: e}))

	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	e.job.FinishedAt = &now
	if err != nil {
		e.job.Status = StatusFailed
		e.job.Error = err.Error()
		log.Printf("❌ Job %s failed: %v", e.job.ID, err)
		return
	}
	e.job.Status = StatusCompleted
	e.report = outcome.Report
	if res := outcome.Result(); res != nil {
		e.job.Generation = res.GenerationsCompleted
		e.job.BestFitness = res.BestFitness
	}
	log.Printf("✅ Job %s completed", e.job.ID)
}

func (m *Manager) update(e *entry, fn func(*Job)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&e.job)
}

// Get returns a snapshot of the job
func (m *Manager) Get(id string) (Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.jobs[id]
	if !ok {
		return Job{}, gaerrors.NewNotFoundError("jobs", "Get", "job not found: "+id)
	}
	return e.job, nil
}

// List returns all jobs in submission order
func (m *Manager) List() []Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Job, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.jobs[id].job)
	}
	return out
}

// Result returns the report of a completed job
func (m *Manager) Result(id string) (*reporting.RunReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.jobs[id]
	if !ok {
		return nil, gaerrors.NewNotFoundError("jobs", "Result", "job not found: "+id)
	}
	if e.job.Status != StatusCompleted {
		return nil, gaerrors.NewValidationError("jobs", "Result", "job %s is %s", id, e.job.Status).
			WithContext("status", e.job.Status)
	}
	return e.report, nil
}

// Wait blocks until the job finishes or ctx is done
func (m *Manager) Wait(ctx context.Context, id string) (Job, error) {
	m.mu.RLock()
	e, ok := m.jobs[id]
	m.mu.RUnlock()
	if !ok {
		return Job{}, gaerrors.NewNotFoundError("jobs", "Wait", "job not found: "+id)
	}
	select {
	case <-e.done:
		return m.Get(id)
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}
}

// Shutdown cancels running jobs, waits for the workers and fails every job
// still queued
func (m *Manager) Shutdown(ctx context.Context) error {
	m.cancel()
	pending, err := m.pool.Stop(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, t := range pending {
		t.entry.job.Status = StatusFailed
		t.entry.job.Error = ErrShuttingDown.Error()
		t.entry.job.FinishedAt = &now
		close(t.entry.done)
	}
	if len(pending) > 0 {
		log.Printf("🛑 %d queued jobs cancelled", len(pending))
	}
	return nil
}

// progressObserver mirrors engine progress into the job snapshot
type progressObserver struct {
	manager *Manager
	entry   *entry
}

func (p *progressObserver) OnGeneration(stats optimization.GenerationStatistics) {
	best := stats.BestFitness
	p.manager.update(p.entry, func(j *Job) {
		j.Generation = stats.Generation
		j.BestFitness = &best
	})
}
