package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anatole0000/book-store/internal/domain"
	"github.com/anatole0000/book-store/internal/logger"
	"github.com/anatole0000/book-store/internal/metrics"
	"github.com/anatole0000/book-store/internal/repository"
)

// Service defines the durable job queue business logic. Delivery is
// at-least-once: a job handed to a consumer that is never acked or nacked
// (process crash) becomes claimable again once its claim lease expires, and
// a nacked job is redelivered until its attempts are exhausted.
type Service interface {
	// Enqueue validates and persists a job built from a typed payload
	Enqueue(ctx context.Context, queue string, payload domain.JobPayload) (*domain.Job, error)
	// Dequeue blocks until a job is available on the queue or the context is
	// cancelled
	Dequeue(ctx context.Context, queue string) (*domain.Job, error)
	// Ack finalizes a claimed job as successfully processed
	Ack(ctx context.Context, job *domain.Job) error
	// Nack reports a processing failure. The job is released for redelivery
	// unless its attempts are exhausted, in which case it is finalized as
	// failed and dead-lettered.
	Nack(ctx context.Context, job *domain.Job, cause error) error
	// ListFailed returns permanently failed jobs for operator inspection
	ListFailed(ctx context.Context, limit int) ([]domain.Job, error)
	Shutdown(ctx context.Context) error
}

type service struct {
	repo         repository.Queue
	deadLetter   *DeadLetterWriter
	maxAttempts  int
	pollInterval time.Duration
}

// NewService creates a new queue service. deadLetter may be nil, in which
// case exhausted jobs are only recorded in the store.
func NewService(repo repository.Queue, deadLetter *DeadLetterWriter, maxAttempts int, pollInterval time.Duration) Service {
	if maxAttempts <= 0 {
		maxAttempts = domain.DefaultMaxJobAttempts
	}
	return &service{
		repo:         repo,
		deadLetter:   deadLetter,
		maxAttempts:  maxAttempts,
		pollInterval: pollInterval,
	}
}

func (s *service) Enqueue(ctx context.Context, queue string, payload domain.JobPayload) (*domain.Job, error) {
	if queue == "" {
		return nil, fmt.Errorf("%w: queue name is required", domain.ErrInvalidInput)
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job payload: %w", err)
	}

	job := &domain.Job{
		ID:          uuid.New(),
		Queue:       queue,
		Kind:        payload.JobKind(),
		Payload:     data,
		Status:      domain.JobStatusPending,
		MaxAttempts: s.maxAttempts,
	}

	if err := s.repo.Insert(ctx, job); err != nil {
		return nil, err
	}

	metrics.JobsEnqueued.WithLabelValues(job.Queue, job.Kind).Inc()
	logger.FromContext(ctx).Debug(LogMsgJobEnqueued, "job_id", job.ID, "queue", job.Queue, "kind", job.Kind)
	return job, nil
}

func (s *service) Dequeue(ctx context.Context, queue string) (*domain.Job, error) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		job, err := s.repo.ClaimNext(ctx, queue)
		if err != nil {
			return nil, err
		}
		if job != nil {
			logger.FromContext(ctx).Debug(LogMsgJobClaimed,
				"job_id", job.ID, "queue", job.Queue, "kind", job.Kind, "attempt", job.Attempts)
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *service) Ack(ctx context.Context, job *domain.Job) error {
	if err := s.repo.MarkCompleted(ctx, job.ID); err != nil {
		return err
	}
	metrics.JobsProcessed.WithLabelValues(job.Queue, job.Kind, metrics.OutcomeCompleted).Inc()
	logger.FromContext(ctx).Debug(LogMsgJobCompleted, "job_id", job.ID, "queue", job.Queue, "kind", job.Kind)
	return nil
}

func (s *service) Nack(ctx context.Context, job *domain.Job, cause error) error {
	log := logger.FromContext(ctx)

	if job.Attempts < job.MaxAttempts {
		if err := s.repo.Release(ctx, job.ID, cause.Error()); err != nil {
			return err
		}
		metrics.JobsProcessed.WithLabelValues(job.Queue, job.Kind, metrics.OutcomeRetried).Inc()
		log.Warn(LogMsgJobReleasedForRetry,
			"job_id", job.ID, "queue", job.Queue, "kind", job.Kind,
			"attempt", job.Attempts, "max_attempts", job.MaxAttempts, "error", cause)
		return nil
	}

	if err := s.repo.MarkFailed(ctx, job.ID, cause.Error()); err != nil {
		return err
	}
	metrics.JobsProcessed.WithLabelValues(job.Queue, job.Kind, metrics.OutcomeFailed).Inc()
	metrics.JobsDeadLettered.WithLabelValues(job.Queue, job.Kind).Inc()
	log.Error(LogMsgJobRetriesExhausted,
		"job_id", job.ID, "queue", job.Queue, "kind", job.Kind,
		"attempts", job.Attempts, "error", cause)

	if s.deadLetter != nil {
		if err := s.deadLetter.Write(ctx, job, cause); err != nil {
			log.Error(LogMsgDeadLetterWriteFailed, "job_id", job.ID, "error", err)
		}
	}
	return nil
}

func (s *service) ListFailed(ctx context.Context, limit int) ([]domain.Job, error) {
	return s.repo.ListFailed(ctx, limit)
}

// Shutdown closes the dead-letter file. The store needs no teardown.
func (s *service) Shutdown(ctx context.Context) error {
	if s.deadLetter != nil {
		return s.deadLetter.Close()
	}
	return nil
}
