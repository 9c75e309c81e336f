package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/anatole0000/book-store/internal/domain"
)

// Queue defines the interface for durable job persistence. Jobs survive
// process restarts until completed or permanently failed.
type Queue interface {
	// Insert stores a new pending job
	Insert(ctx context.Context, job *domain.Job) error
	// ClaimNext atomically claims the oldest claimable job on the named
	// queue, marking it running and incrementing its attempt count. Returns
	// (nil, nil) when no job is available. A claimed job is invisible to
	// other claimants until released, finalized, or its claim lease expires;
	// lease expiry makes jobs abandoned by a crashed consumer claimable
	// again.
	ClaimNext(ctx context.Context, queue string) (*domain.Job, error)
	// MarkCompleted finalizes a job successfully
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	// Release returns a claimed job to pending for redelivery, recording the
	// failure reason
	Release(ctx context.Context, id uuid.UUID, lastError string) error
	// MarkFailed finalizes a job as permanently failed, recording the reason
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error
	// ListFailed returns permanently failed jobs for operator inspection
	ListFailed(ctx context.Context, limit int) ([]domain.Job, error)
}
