// ABOUTME: Supervised worker pool that runs background article processing jobs
// ABOUTME: Accepted jobs always run: Stop drains the queue and panics are recovered per job

package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"foodforbrain-api/core/interfaces"
)

// Job is a unit of background work
type Job struct {
	// Key identifies the job in logs
	Key string

	// Run performs the work. Its context is cancelled only when Stop runs out of time.
	Run func(ctx context.Context)
}

// Config holds configuration for the worker pool
type Config struct {
	MaxWorkers     int
	QueueSize      int
	EnqueueTimeout time.Duration
}

// DefaultConfig returns the default worker configuration
func DefaultConfig() Config {
	return Config{
		MaxWorkers:     10,
		QueueSize:      100,
		EnqueueTimeout: 5 * time.Second,
	}
}

// Pool runs jobs on a fixed number of goroutines fed by a bounded queue
type Pool struct {
	jobQueue       chan *Job
	maxWorkers     int
	enqueueTimeout time.Duration
	logger         interfaces.Logger
	wg             sync.WaitGroup
	ctx            context.Context
	cancel         context.CancelFunc
	mu             sync.RWMutex
	running        bool
	stopped        bool
}

// NewPool creates a pool. Call Start before submitting jobs.
func NewPool(config Config, logger interfaces.Logger) *Pool {
	defaults := DefaultConfig()
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = defaults.MaxWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.EnqueueTimeout <= 0 {
		config.EnqueueTimeout = defaults.EnqueueTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		jobQueue:       make(chan *Job, config.QueueSize),
		maxWorkers:     config.MaxWorkers,
		enqueueTimeout: config.EnqueueTimeout,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Start launches the workers. A stopped pool cannot be restarted.
func (p *Pool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrPoolNotRunning
	}
	if p.running {
		return nil
	}

	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.work(i)
	}

	p.running = true
	return nil
}

// Submit enqueues job. It waits at most the enqueue timeout for queue space.
func (p *Pool) Submit(job *Job) error {
	// the read lock keeps Stop from closing the queue mid-send
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.running {
		return ErrPoolNotRunning
	}

	select {
	case p.jobQueue <- job:
		return nil
	default:
	}

	timer := time.NewTimer(p.enqueueTimeout)
	defer timer.Stop()

	select {
	case p.jobQueue <- job:
		return nil
	case <-timer.C:
		return ErrQueueFull
	}
}

// Stop closes intake and waits for every queued job to finish.
// When ctx expires first, running jobs see their context cancelled and Stop
// still waits for the queue to drain before returning ctx's error.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	p.stopped = true
	close(p.jobQueue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		return ctx.Err()
	}
}

// Pending returns the number of queued jobs not yet picked up
func (p *Pool) Pending() int {
	return len(p.jobQueue)
}

// work is the main loop for each worker
func (p *Pool) work(id int) {
	defer p.wg.Done()

	for job := range p.jobQueue {
		p.runJob(id, job)
	}
}

// runJob executes one job, recovering from panics so the worker survives
func (p *Pool) runJob(workerID int, job *Job) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Worker job panicked", map[string]interface{}{
				"worker": workerID,
				"job":    job.Key,
				"panic":  fmt.Sprint(r),
			})
		}
	}()

	job.Run(p.ctx)
}

// Error definitions
var (
	ErrPoolNotRunning = &WorkerError{Message: "worker pool is not running"}
	ErrQueueFull      = &WorkerError{Message: "job queue is full"}
)

// WorkerError represents a worker-specific error
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string {
	return e.Message
}
