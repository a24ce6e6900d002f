package qsim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

/*
Pool is a fixed set of workers fed through a dispatch loop. Every idle
worker offers its own job channel on workers; the manager hands each
submitted job to the next channel it receives.

The simulator uses it to evolve the independent amplitude blocks of a
qubit-disjoint gate group concurrently.
*/
type Pool struct {
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	workers    chan chan Job
	jobs       chan Job
	workerMu   sync.Mutex
	workerList []*Worker
	metrics    *PoolMetrics
	closeOnce  sync.Once
}

// PoolMetrics counts completed jobs and the time spent in them.
type PoolMetrics struct {
	mu           sync.RWMutex
	WorkerCount  int
	JobCount     int64
	FailedJobs   int64
	TotalJobTime time.Duration
}

// NewPool starts size workers bound to ctx.
func NewPool(ctx context.Context, size int) *Pool {
	if size < 1 {
		size = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Pool{
		ctx:     ctx,
		cancel:  cancel,
		workers: make(chan chan Job, size),
		jobs:    make(chan Job, size*4),
		metrics: &PoolMetrics{},
	}

	for i := 0; i < size; i++ {
		p.startWorker()
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.manage()
	}()

	errnie.Info("NewPool - started %d workers", size)
	return p
}

func (p *Pool) manage() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case job := <-p.jobs:
			select {
			case <-p.ctx.Done():
				job.done <- fmt.Errorf("job %s: %w", job.ID, ErrPoolClosed)
				return
			case workerChan := <-p.workers:
				select {
				case workerChan <- job:
				case <-p.ctx.Done():
					job.done <- fmt.Errorf("job %s: %w", job.ID, ErrPoolClosed)
					return
				}
			}
		}
	}
}

func (p *Pool) startWorker() {
	worker := &Worker{
		pool: p,
		jobs: make(chan Job),
	}

	p.workerMu.Lock()
	p.workerList = append(p.workerList, worker)
	p.workerMu.Unlock()

	p.metrics.mu.Lock()
	p.metrics.WorkerCount++
	p.metrics.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		worker.run()
	}()
}

/*
Run submits every fn as a job and blocks until all of them have finished.
It returns the first error any job produced, or ErrPoolClosed when the pool
shuts down underneath it.
*/
func (p *Pool) Run(id string, fns []func() error) error {
	if p.ctx.Err() != nil {
		return ErrPoolClosed
	}

	done := make(chan error, len(fns))
	submitted := 0
	for i, fn := range fns {
		job := Job{
			ID:        fmt.Sprintf("%s-%d", id, i),
			Fn:        fn,
			StartTime: time.Now(),
			done:      done,
		}

		select {
		case p.jobs <- job:
			submitted++
		case <-p.ctx.Done():
			return ErrPoolClosed
		}
	}

	var first error
	for range submitted {
		select {
		case err := <-done:
			if err != nil && first == nil {
				first = err
			}
		case <-p.ctx.Done():
			return ErrPoolClosed
		}
	}
	return first
}

// Size is the number of workers.
func (p *Pool) Size() int {
	p.workerMu.Lock()
	defer p.workerMu.Unlock()
	return len(p.workerList)
}

// Metrics returns a snapshot of the pool counters.
func (p *Pool) Metrics() PoolMetrics {
	p.metrics.mu.RLock()
	defer p.metrics.mu.RUnlock()

	return PoolMetrics{
		WorkerCount:  p.metrics.WorkerCount,
		JobCount:     p.metrics.JobCount,
		FailedJobs:   p.metrics.FailedJobs,
		TotalJobTime: p.metrics.TotalJobTime,
	}
}

func (m *PoolMetrics) recordJob(startTime time.Time, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.JobCount++
	m.TotalJobTime += time.Since(startTime)
	if !success {
		m.FailedJobs++
	}
}

// Close stops the workers and waits for them to exit. It is safe to call more than once.
func (p *Pool) Close() {
	if p == nil {
		return
	}

	p.closeOnce.Do(func() {
		p.cancel()
		p.wg.Wait()

		p.workerMu.Lock()
		p.workerList = nil
		p.workerMu.Unlock()

		errnie.Info("Pool closed")
	})
}
