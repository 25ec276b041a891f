package qcircuit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

// ErrNoAvailableWorkers is returned when no worker picks up a job within the
// scheduling timeout.
var ErrNoAvailableWorkers = errors.New("no workers available to process job")

// ErrPoolClosed is returned for jobs scheduled after Close.
var ErrPoolClosed = errors.New("pool closed")

/*
Q runs independent circuit jobs on a fixed set of workers. Every job builds
its own register and random source, so workers share nothing but the result
space and the metrics.
*/
type Q struct {
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	workers   chan chan Job
	jobs      chan Job
	space     *Space
	metrics   *Metrics
	config    *Config
	closeOnce sync.Once
}

// NewQ starts a pool with the given number of workers; a non-positive count
// falls back to config.Workers.
func NewQ(ctx context.Context, workers int, config *Config) *Q {
	config = orDefault(config)
	if workers <= 0 {
		workers = config.Workers
	}

	ctx, cancel := context.WithCancel(ctx)
	q := &Q{
		ctx:     ctx,
		cancel:  cancel,
		jobs:    make(chan Job, workers*10),
		workers: make(chan chan Job, workers),
		space:   NewSpace(time.Minute),
		metrics: NewMetrics(),
		config:  config,
	}

	for i := 0; i < workers; i++ {
		q.startWorker(i)
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.manage()
	}()

	return q
}

// manage hands each queued job to the next idle worker.
func (q *Q) manage() {
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.jobs:
			select {
			case <-q.ctx.Done():
				q.space.Store(job.ID, nil, fmt.Errorf("job %s: %w", job.ID, ErrPoolClosed), job.TTL)
				return
			case workerChan := <-q.workers:
				select {
				case workerChan <- job:
				case <-q.ctx.Done():
					q.space.Store(job.ID, nil, fmt.Errorf("job %s: %w", job.ID, ErrPoolClosed), job.TTL)
					return
				}
			case <-time.After(q.getSchedulingTimeout()):
				errnie.Info("Q - no available workers for job %s, timeout occurred", job.ID)
				q.metrics.recordSchedulingFailure()
				q.space.Store(job.ID, nil, fmt.Errorf("job %s: %w", job.ID, ErrNoAvailableWorkers), job.TTL)
			}
		}
	}
}

/*
Schedule queues fn under id and returns a channel for its result. Ids must be
unique for as long as results are kept: awaiting a reused id returns the
earlier result.
*/
func (q *Q) Schedule(id string, fn func() (Counts, error), opts ...JobOption) chan Result {
	job := Job{
		ID:        id,
		Fn:        fn,
		StartTime: time.Now(),
	}

	for _, opt := range opts {
		opt(&job)
	}

	if q.ctx.Err() != nil {
		return failed(id, ErrPoolClosed)
	}

	result := q.space.Await(id)

	ctx, cancel := context.WithTimeout(q.ctx, q.getSchedulingTimeout())
	defer cancel()

	select {
	case q.jobs <- job:
		errnie.Info("Q - scheduled job %s", id)
		return result
	case <-ctx.Done():
		q.metrics.recordSchedulingFailure()
		err := fmt.Errorf("job %s scheduling timeout: %w", id, ctx.Err())
		q.space.Store(id, nil, err, job.TTL)
		return result
	}
}

/*
ScheduleCircuit queues a Deutsch-Jozsa run. The job seeds its own generator,
so jobs given distinct seeds draw from independent streams and the result of
each job is reproducible regardless of which worker runs it.
*/
func (q *Q) ScheduleCircuit(id string, inputs int, oracle Oracle, shots int, seed uint64, opts ...JobOption) chan Result {
	config := q.config
	fn := func() (Counts, error) {
		return DeutschJozsa(inputs, oracle, shots, NewRandomSource(seed), config)
	}
	return q.Schedule(id, fn, append([]JobOption{WithShots(shots)}, opts...)...)
}

// Metrics returns a snapshot of the pool metrics.
func (q *Q) Metrics() map[string]interface{} {
	q.metrics.mu.Lock()
	q.metrics.JobQueueSize = len(q.jobs)
	q.metrics.mu.Unlock()
	return q.metrics.ExportMetrics()
}

func (q *Q) startWorker(id int) {
	worker := &Worker{
		id:   id,
		pool: q,
		jobs: make(chan Job),
	}

	q.metrics.mu.Lock()
	q.metrics.WorkerCount++
	count := q.metrics.WorkerCount
	q.metrics.mu.Unlock()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		worker.run(q.ctx)
	}()

	errnie.Info("Q - started worker %d, total workers: %d", id, count)
}

func (q *Q) getSchedulingTimeout() time.Duration {
	if q.config != nil && q.config.SchedulingTimeout > 0 {
		return q.config.SchedulingTimeout
	}
	return 5 * time.Second
}

// Close cancels the pool, waits for running jobs and closes pending awaits.
func (q *Q) Close() {
	if q == nil {
		return
	}

	q.closeOnce.Do(func() {
		errnie.Info("Q - closing")
		q.cancel()
		q.wg.Wait()
		q.space.Close()
	})
}

func failed(id string, err error) chan Result {
	ch := make(chan Result, 1)
	ch <- Result{ID: id, Error: fmt.Errorf("job %s: %w", id, err), CreatedAt: time.Now()}
	close(ch)
	return ch
}
