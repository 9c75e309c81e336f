package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/anatole0000/book-store/internal/domain"
	"github.com/anatole0000/book-store/internal/logger"
	"github.com/anatole0000/book-store/internal/metrics"
)

// HandlerFunc processes a claimed job. A nil return acks the job; an error
// nacks it for redelivery.
type HandlerFunc func(ctx context.Context, job *domain.Job) error

// Consumer is the queue surface the pool drives
type Consumer interface {
	Dequeue(ctx context.Context, queue string) (*domain.Job, error)
	Ack(ctx context.Context, job *domain.Job) error
	Nack(ctx context.Context, job *domain.Job, cause error) error
}

// Pool runs a fixed number of workers per registered queue. Each worker
// blocks on Dequeue, dispatches by job kind, and acks or nacks the result.
type Pool struct {
	consumer        Consumer
	workersPerQueue int

	mu       sync.Mutex
	handlers map[string]map[string]HandlerFunc // queue -> kind -> handler

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewPool creates a new worker pool
func NewPool(consumer Consumer, workersPerQueue int) *Pool {
	if workersPerQueue <= 0 {
		workersPerQueue = 1
	}
	return &Pool{
		consumer:        consumer,
		workersPerQueue: workersPerQueue,
		handlers:        make(map[string]map[string]HandlerFunc),
	}
}

// Register binds a handler to a (queue, kind) pair. Must be called before
// Start.
func (p *Pool) Register(queue, kind string, handler HandlerFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handlers[queue] == nil {
		p.handlers[queue] = make(map[string]HandlerFunc)
	}
	p.handlers[queue][kind] = handler
}

// Start launches the workers. They run until Shutdown.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for queue := range p.handlers {
		for i := 0; i < p.workersPerQueue; i++ {
			p.wg.Add(1)
			go p.run(runCtx, queue, i)
		}
	}
}

// run is the per-worker loop
func (p *Pool) run(ctx context.Context, queue string, id int) {
	defer p.wg.Done()

	log := logger.FromContext(ctx)
	log.Info(LogMsgWorkerStarted, "queue", queue, "worker", id)
	defer log.Info(LogMsgWorkerStopped, "queue", queue, "worker", id)

	for {
		job, err := p.consumer.Dequeue(ctx, queue)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error(LogMsgDequeueFailed, "queue", queue, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(DequeueErrorBackoff):
			}
			continue
		}
		p.process(ctx, job)
	}
}

// process dispatches one job and finalizes it. Handler panics are contained
// and treated as failures so one bad payload cannot take a worker down.
func (p *Pool) process(ctx context.Context, job *domain.Job) {
	log := logger.FromContext(ctx)

	p.mu.Lock()
	handler, ok := p.handlers[job.Queue][job.Kind]
	p.mu.Unlock()
	if !ok {
		log.Error(LogMsgNoHandlerForJob, "job_id", job.ID, "queue", job.Queue, "kind", job.Kind)
		p.nack(ctx, job, fmt.Errorf("%w: %s", domain.ErrUnknownJobKind, job.Kind))
		return
	}

	start := time.Now()
	err := p.invoke(ctx, handler, job)
	metrics.JobDuration.WithLabelValues(job.Queue, job.Kind).Observe(time.Since(start).Seconds())

	if err != nil {
		log.Warn(LogMsgJobHandlerFailed,
			"job_id", job.ID, "queue", job.Queue, "kind", job.Kind,
			"attempt", job.Attempts, "error", err)
		p.nack(ctx, job, err)
		return
	}
	p.ack(ctx, job)
}

func (p *Pool) invoke(ctx context.Context, handler HandlerFunc, job *domain.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error(LogMsgJobHandlerPanicked,
				"job_id", job.ID, "queue", job.Queue, "kind", job.Kind, "panic", r)
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctx, job)
}

// ack finalizes a successful job. Like nack, it must survive the pool's own
// cancellation: a handler that finishes during the drain has already done its
// side effect, so failing to record the ack would redeliver completed work.
func (p *Pool) ack(ctx context.Context, job *domain.Job) {
	ackCtx := ctx
	if ctx.Err() != nil {
		ackCtx = context.Background()
	}
	if err := p.consumer.Ack(ackCtx, job); err != nil && !errors.Is(err, context.Canceled) {
		logger.FromContext(ctx).Error(LogMsgAckFailed, "job_id", job.ID, "error", err)
	}
}

func (p *Pool) nack(ctx context.Context, job *domain.Job, cause error) {
	// Finalization must survive the pool's own cancellation
	nackCtx := ctx
	if ctx.Err() != nil {
		nackCtx = context.Background()
	}
	if err := p.consumer.Nack(nackCtx, job, cause); err != nil && !errors.Is(err, context.Canceled) {
		logger.FromContext(ctx).Error(LogMsgNackFailed, "job_id", job.ID, "error", err)
	}
}

// Shutdown stops claiming new jobs and waits for in-flight handlers
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()

	log := logger.FromContext(ctx)
	log.Info(LogMsgPoolShutdownWaiting)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgPoolShutdownDone)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgPoolShutdownTimeout)
		return ctx.Err()
	}
}
