package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anatole0000/book-store/internal/domain"
	"github.com/anatole0000/book-store/internal/repository"
)

// BookstoreRepository implements the catalog and order repository for PostgreSQL
type BookstoreRepository struct {
	db *pgxpool.Pool
}

// NewBookstoreRepository creates a new BookstoreRepository
func NewBookstoreRepository(db *pgxpool.Pool) *BookstoreRepository {
	return &BookstoreRepository{db: db}
}

const bookColumns = `book_id, title, author, price_cents, stock, available, status, sold_count,
		COALESCE(description, ''), COALESCE(image_path, ''), COALESCE(category, ''), created_at, updated_at`

// CreateBook inserts a new catalog entry. The derived status must already be
// set by the caller (the catalog service refreshes it before persisting).
func (r *BookstoreRepository) CreateBook(ctx context.Context, book *domain.Book) error {
	query := `
		INSERT INTO books (book_id, title, author, price_cents, stock, available, status, description, image_path, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''))
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		book.ID, book.Title, book.Author, book.PriceCents, book.Stock,
		book.Available, book.Status, book.Description, book.ImagePath, book.Category,
	).Scan(&book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}
	return nil
}

// GetBook retrieves a single book by id
func (r *BookstoreRepository) GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE book_id = $1`

	book, err := scanBook(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return book, nil
}

// ListBooks retrieves books matching the filter along with the total match count
func (r *BookstoreRepository) ListBooks(ctx context.Context, filter repository.BookFilter) ([]domain.Book, int, error) {
	var where strings.Builder
	where.WriteString(" WHERE 1=1")

	args := []interface{}{}
	argNum := 1

	if filter.Query != "" {
		fmt.Fprintf(&where, " AND (title ILIKE $%d OR author ILIKE $%d OR category ILIKE $%d)", argNum, argNum, argNum)
		args = append(args, "%"+filter.Query+"%")
		argNum++
	}

	if filter.Category != "" {
		fmt.Fprintf(&where, " AND category = $%d", argNum)
		args = append(args, filter.Category)
		argNum++
	}

	if filter.InStockOnly {
		fmt.Fprintf(&where, " AND status = $%d AND available", argNum)
		args = append(args, domain.BookStatusInStock)
		argNum++
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM books"+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	var page strings.Builder
	page.WriteString(" ORDER BY created_at DESC, book_id")
	if filter.Limit > 0 {
		fmt.Fprintf(&page, " LIMIT $%d", argNum)
		args = append(args, filter.Limit)
		argNum++
	}
	if filter.Offset > 0 {
		fmt.Fprintf(&page, " OFFSET $%d", argNum)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, "SELECT "+bookColumns+" FROM books"+where.String()+page.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

const updateBookSQL = `
	UPDATE books
	SET title = $2, author = $3, price_cents = $4, stock = $5, available = $6,
		status = $7, description = NULLIF($8, ''), image_path = NULLIF($9, ''),
		category = NULLIF($10, ''), updated_at = NOW()
	WHERE book_id = $1
`

// UpdateBook persists catalog changes to an existing book. Writes every
// column, so callers racing against order placement must go through the
// transactional variant instead.
func (r *BookstoreRepository) UpdateBook(ctx context.Context, book *domain.Book) error {
	tag, err := r.db.Exec(ctx, updateBookSQL,
		book.ID, book.Title, book.Author, book.PriceCents, book.Stock,
		book.Available, book.Status, book.Description, book.ImagePath, book.Category,
	)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// UpdateBook writes a book the transaction already holds the row lock for.
// Combined with GetBookForUpdate this makes catalog edits a locked
// read-modify-write, so a sale committing mid-edit is never overwritten.
func (t *bookstoreTx) UpdateBook(ctx context.Context, book *domain.Book) error {
	tag, err := t.tx.Exec(ctx, updateBookSQL,
		book.ID, book.Title, book.Author, book.PriceCents, book.Stock,
		book.Available, book.Status, book.Description, book.ImagePath, book.Category,
	)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// DeleteBook removes a catalog entry. Historical orders keep their line
// snapshots; nothing cascades.
func (r *BookstoreRepository) DeleteBook(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE book_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}
