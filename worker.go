package qsim

import (
	"fmt"
	"log"
)

// Worker processes jobs handed to it by the pool's dispatch loop.
type Worker struct {
	pool *Pool
	jobs chan Job
}

func (w *Worker) run() {
	for {
		select {
		case <-w.pool.ctx.Done():
			return
		case w.pool.workers <- w.jobs:
			select {
			case job := <-w.jobs:
				job.done <- w.processJob(job)
			case <-w.pool.ctx.Done():
				return
			}
		}
	}
}

// processJob runs the job and turns a panic into an error so one bad block cannot kill the pool.
func (w *Worker) processJob(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.ID, r)
			log.Printf("Job %s failed: %v", job.ID, err)
		}
		w.pool.metrics.recordJob(job.StartTime, err == nil)
	}()

	return job.Fn()
}
