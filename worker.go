package qcircuit

import (
	"context"
	"fmt"
	"time"

	"github.com/theapemachine/errnie"
)

// Worker processes jobs
type Worker struct {
	id   int
	pool *Q
	jobs chan Job
}

/*
run offers the worker's job channel to the pool, takes one job, publishes its
result and repeats until the pool context is cancelled. Cancellation is only
observed between jobs; a running circuit always completes.
*/
func (w *Worker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case w.pool.workers <- w.jobs:
		}

		select {
		case <-ctx.Done():
			return
		case job := <-w.jobs:
			counts, err := w.processJob(job)
			w.pool.space.Store(job.ID, counts, err, job.TTL)
		}
	}
}

func (w *Worker) processJob(job Job) (counts Counts, err error) {
	defer func() {
		if r := recover(); r != nil {
			counts, err = nil, fmt.Errorf("job %s panicked: %v", job.ID, r)
		}
		w.pool.metrics.recordJobExecution(job.StartTime, job.Shots, err == nil)
	}()

	counts, err = job.Fn()
	if err != nil {
		errnie.Info("Worker %d - job %s failed: %v", w.id, job.ID, err)
		return nil, fmt.Errorf("job %s: %w", job.ID, err)
	}

	errnie.Info("Worker %d - job %s done in %v", w.id, job.ID, time.Since(job.StartTime))
	return counts, nil
}
