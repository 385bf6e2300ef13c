package jobs

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

var (
	// ErrQueueFull is returned when no queue slot is free for a new job
	ErrQueueFull = errors.New("job queue is full")
	// ErrShuttingDown is returned for submissions after Shutdown
	ErrShuttingDown = errors.New("job manager is shutting down")
)

// DefaultQueueSize is the number of jobs that may wait for a worker
const DefaultQueueSize = 64

// task is one queued optimization
type task struct {
	entry *entry
	run   func()
}

// WorkerPool executes queued jobs on a fixed number of goroutines
type WorkerPool struct {
	workerCount int
	queue       chan task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	startOnce   sync.Once

	// mu orders Submit against Stop so nothing is queued after the drain
	mu     sync.Mutex
	closed bool
}

// NewWorkerPool creates a pool. workerCount <= 0 uses the number of CPUs.
func NewWorkerPool(workerCount, queueSize int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if queueSize < 0 {
		queueSize = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		workerCount: workerCount,
		queue:       make(chan task, queueSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Workers returns the number of worker goroutines
func (wp *WorkerPool) Workers() int {
	return wp.workerCount
}

// Start launches the workers. Calling it again is a no-op.
func (wp *WorkerPool) Start() {
	wp.startOnce.Do(func() {
		for i := 0; i < wp.workerCount; i++ {
			wp.wg.Add(1)
			go wp.worker()
		}
	})
}

// Submit queues t without blocking
func (wp *WorkerPool) Submit(t task) error {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.closed {
		return ErrShuttingDown
	}
	select {
	case wp.queue <- t:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop stops accepting work, waits for the workers and returns the tasks
// that never started
func (wp *WorkerPool) Stop(ctx context.Context) ([]task, error) {
	wp.mu.Lock()
	wp.closed = true
	wp.cancel()
	wp.mu.Unlock()

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var pending []task
	for {
		select {
		case t := <-wp.queue:
			pending = append(pending, t)
		default:
			return pending, nil
		}
	}
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		// Prefer shutdown over picking up more work
		if wp.ctx.Err() != nil {
			return
		}
		select {
		case t := <-wp.queue:
			t.run()
		case <-wp.ctx.Done():
			return
		}
	}
}
