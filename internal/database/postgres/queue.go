package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anatole0000/book-store/internal/domain"
)

// QueueRepository implements durable job persistence for PostgreSQL
type QueueRepository struct {
	db *pgxpool.Pool
	// claimLease is how long a claimed job stays invisible. A consumer that
	// dies between claim and finalize loses the job to another claimant once
	// the lease expires.
	claimLease time.Duration
}

// NewQueueRepository creates a new QueueRepository
func NewQueueRepository(db *pgxpool.Pool, claimLease time.Duration) *QueueRepository {
	if claimLease <= 0 {
		claimLease = DefaultClaimLease
	}
	return &QueueRepository{db: db, claimLease: claimLease}
}

// Insert stores a new pending job
func (r *QueueRepository) Insert(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (job_id, queue, kind, payload, status, max_attempts)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING enqueued_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		job.ID, job.Queue, job.Kind, job.Payload, job.Status, job.MaxAttempts,
	).Scan(&job.EnqueuedAt, &job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// ClaimNext claims the oldest claimable job on the named queue: pending jobs,
// plus running jobs whose claim lease has expired (the previous claimant died
// without finalizing). FOR UPDATE SKIP LOCKED lets concurrent workers claim
// disjoint jobs without blocking each other; the claimed row is marked
// running and its attempt count incremented in the same statement, so a claim
// is never observable half-done.
func (r *QueueRepository) ClaimNext(ctx context.Context, queue string) (*domain.Job, error) {
	query := `
		UPDATE jobs
		SET status = $3, attempts = attempts + 1, updated_at = NOW()
		WHERE job_id = (
			SELECT job_id FROM jobs
			WHERE queue = $1 AND (status = $2 OR (status = $3 AND updated_at < $4))
			ORDER BY enqueued_at, job_id
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING job_id, queue, kind, payload, status, attempts, max_attempts, COALESCE(last_error, ''), enqueued_at, updated_at
	`

	leaseCutoff := time.Now().Add(-r.claimLease)
	job, err := scanJob(r.db.QueryRow(ctx, query, queue, domain.JobStatusPending, domain.JobStatusRunning, leaseCutoff))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to claim job: %w", err)
	}
	return job, nil
}

// MarkCompleted finalizes a job successfully
func (r *QueueRepository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, domain.JobStatusCompleted, "")
}

// Release returns a claimed job to pending so another claim can retry it
func (r *QueueRepository) Release(ctx context.Context, id uuid.UUID, lastError string) error {
	return r.setStatus(ctx, id, domain.JobStatusPending, lastError)
}

// MarkFailed finalizes a job as permanently failed
func (r *QueueRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	return r.setStatus(ctx, id, domain.JobStatusFailed, lastError)
}

func (r *QueueRepository) setStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus, lastError string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE jobs SET status = $2, last_error = NULLIF($3, ''), updated_at = NOW() WHERE job_id = $1`,
		id, status, lastError,
	)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

// ListFailed returns permanently failed jobs, most recent first
func (r *QueueRepository) ListFailed(ctx context.Context, limit int) ([]domain.Job, error) {
	query := `
		SELECT job_id, queue, kind, payload, status, attempts, max_attempts, COALESCE(last_error, ''), enqueued_at, updated_at
		FROM jobs
		WHERE status = $1
		ORDER BY updated_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, domain.JobStatusFailed, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query failed jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}
