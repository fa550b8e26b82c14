package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eduplan/adaptive-scheduler/pkg/jobs"
)

// Dispatcher runs scheduling requests on a bounded worker pool, adapting
// pkg/jobs.Queue's fire-and-forget design into a request/response shape:
// Submit blocks the caller until the run completes, is cancelled, or its
// deadline elapses, while still bounding total concurrent runs via the
// queue's worker count.
type Dispatcher struct {
	queue *jobs.Queue
}

// dispatchJob carries a run closure and the channel its result is delivered
// on; the queue only ever sees Payload as an opaque interface{}.
type dispatchJob struct {
	ctx    context.Context
	run    func(context.Context) RunResult
	result chan<- RunResult
}

// NewDispatcher builds a dispatcher with workers concurrent slots.
func NewDispatcher(workers int, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{}
	d.queue = jobs.NewQueue("scheduler-runs", d.handle, jobs.QueueConfig{
		Workers:    workers,
		MaxRetries: 0,
		Logger:     logger,
	})
	return d
}

// Start begins accepting submissions; Stop cancels the workers and waits for
// them to exit, without running jobs still waiting in the queue.
func (d *Dispatcher) Start(ctx context.Context) { d.queue.Start(ctx) }
func (d *Dispatcher) Stop()                     { d.queue.Stop() }

func (d *Dispatcher) handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(dispatchJob)
	if !ok {
		return fmt.Errorf("scheduler dispatcher: unexpected payload type %T", job.Payload)
	}
	runCtx, cancel := context.WithCancel(payload.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	payload.result <- payload.run(runCtx)
	close(payload.result)
	return nil
}

// Submit enqueues a controller run and blocks until it completes or ctx is
// done. ctx's deadline, not the queue's, governs how long the run is
// allowed: the controller itself checks ctx.Done() every generation.
func (d *Dispatcher) Submit(ctx context.Context, run func(context.Context) RunResult) (RunResult, error) {
	result := make(chan RunResult, 1)
	job := jobs.Job{ID: fmt.Sprintf("run-%d", time.Now().UnixNano()), Type: "scheduler-run", Payload: dispatchJob{ctx: ctx, run: run, result: result}}

	if err := d.queue.Enqueue(job); err != nil {
		return RunResult{}, err
	}

	select {
	case <-ctx.Done():
		return RunResult{}, ctx.Err()
	case r := <-result:
		return r, nil
	}
}
