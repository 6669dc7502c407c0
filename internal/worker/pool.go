package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool manages a pool of workers that execute jobs concurrently
type Pool struct {
	workers    int
	jobQueue   chan Job
	results    chan Result
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
	queueOnce  sync.Once
}

// NewPool creates a new worker pool; jobs run under a child of ctx
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*2), // Buffered to prevent blocking
		results:    make(chan Result, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker pool
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// worker is the worker goroutine that processes jobs
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit submits a job to the pool for execution.
// It returns false once the pool's context is done.
func (p *Pool) Submit(job Job) bool {
	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- job:
		return true
	}
}

// Close stops accepting jobs; results are closed when the workers drain
func (p *Pool) Close() {
	p.queueOnce.Do(func() {
		// Close job queue to signal workers to exit when done
		close(p.jobQueue)

		// Use a goroutine to wait for workers and close results
		go func() {
			p.wg.Wait()
			p.closeResults()
		}()
	})
}

// Run submits jobs while collecting results, so any number of jobs can be
// queued without the submitter blocking on undrained results
func (p *Pool) Run(jobs []Job) []Result {
	// Feed the queue from a separate goroutine
	go func() {
		defer p.Close()
		for _, job := range jobs {
			if !p.Submit(job) {
				return
			}
		}
	}()

	return p.collect()
}

// collect gathers results until every worker has exited
func (p *Pool) collect() []Result {
	var results []Result
	for result := range p.results {
		results = append(results, result)
	}

	// Release the pool context once results are drained
	p.cancelFunc()
	return results
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
