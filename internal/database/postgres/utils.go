package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/anatole0000/book-store/internal/domain"
)

// mapPgError translates retryable PostgreSQL failures into
// domain.ErrTransactionConflict so the order coordinator can recognize them
// without importing pgx. Other errors pass through unchanged.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeSerializationFailure, pgCodeDeadlockDetected:
			return fmt.Errorf("%w: %s", domain.ErrTransactionConflict, pgErr.Code)
		}
	}
	return err
}

func scanBook(row pgx.Row) (*domain.Book, error) {
	var b domain.Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.PriceCents, &b.Stock, &b.Available,
		&b.Status, &b.SoldCount, &b.Description, &b.ImagePath, &b.Category,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var j domain.Job
	err := row.Scan(
		&j.ID, &j.Queue, &j.Kind, &j.Payload, &j.Status, &j.Attempts,
		&j.MaxAttempts, &j.LastError, &j.EnqueuedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}
