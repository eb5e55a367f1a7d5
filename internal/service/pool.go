package service

import (
	"context"
	"log/slog"
	"sync"
)

// WorkerPool runs fetch jobs on a fixed set of workers behind a bounded
// queue. When the queue is full Submit runs the job on the caller's
// goroutine instead of dropping it, so a burst of manual fetches degrades
// to synchronous execution rather than lost tasks.
type WorkerPool struct {
	jobs   chan func()
	wg     sync.WaitGroup
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

func NewWorkerPool(workers, queueSize int, logger *slog.Logger) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	p := &WorkerPool{
		jobs:   make(chan func(), queueSize),
		logger: logger.With("component", "worker_pool"),
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// Submit enqueues a job, falling back to running it inline when the queue
// is full or the pool is shut down.
func (p *WorkerPool) Submit(job func()) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		job()
		return
	}

	select {
	case p.jobs <- job:
		p.mu.Unlock()
	default:
		p.mu.Unlock()
		p.logger.Warn("queue full, running job on caller")
		job()
	}
}

// Shutdown stops accepting jobs and waits for in-flight ones, or returns
// early when ctx expires.
func (p *WorkerPool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
