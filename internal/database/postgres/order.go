package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/anatole0000/book-store/internal/domain"
	"github.com/anatole0000/book-store/internal/repository"
)

// GetOrder retrieves an order with its lines
func (r *BookstoreRepository) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return getOrder(ctx, r.db, id, false)
}

// ListOrders retrieves orders matching the filter, newest first
func (r *BookstoreRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	query := `SELECT order_id, user_id, total_cents, status, created_at FROM orders`
	args := []interface{}{}

	if filter.UserID != nil {
		query += ` WHERE user_id = $1`
		args = append(args, *filter.UserID)
	}
	query += ` ORDER BY created_at DESC, order_id`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalCents, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		lines, err := getOrderLines(ctx, r.db, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

// DeleteOrder removes an order that has not entered fulfillment. The status
// guard runs in the DELETE itself so a concurrent transition cannot race it.
func (r *BookstoreRepository) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM orders WHERE order_id = $1 AND status = $2`,
		id, domain.OrderStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE order_id = $1)`, id,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check order: %w", err)
		}
		if exists {
			return domain.ErrOrderNotPending
		}
		return domain.ErrOrderNotFound
	}
	return nil
}

// BeginTx starts a transaction scoped to order placement and status changes
func (r *BookstoreRepository) BeginTx(ctx context.Context) (repository.BookstoreTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", mapPgError(err))
	}
	return &bookstoreTx{tx: tx}, nil
}

// bookstoreTx wraps a pgx transaction with the row-locked operations the
// order coordinator composes
type bookstoreTx struct {
	tx pgx.Tx
}

func (t *bookstoreTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return mapPgError(err)
	}
	return nil
}

func (t *bookstoreTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// GetBookForUpdate reads a book row under FOR UPDATE so concurrent placements
// touching the same book serialize
func (t *bookstoreTx) GetBookForUpdate(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE book_id = $1 FOR UPDATE`

	book, err := scanBook(t.tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to lock book: %w", mapPgError(err))
	}
	return book, nil
}

// DecrementStock reduces stock by quantity, bumps sold_count, and re-derives
// the book status in the same statement. The stock >= quantity guard in the
// WHERE clause makes the decrement conditional: zero rows affected means the
// inventory could not cover the quantity.
func (t *bookstoreTx) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	query := `
		UPDATE books
		SET stock = stock - $2,
			sold_count = sold_count + $2,
			status = CASE
				WHEN stock - $2 <= 0 THEN 'out_of_stock'
				WHEN NOT available THEN 'discontinued'
				ELSE 'in_stock'
			END,
			updated_at = NOW()
		WHERE book_id = $1 AND stock >= $2
	`

	tag, err := t.tx.Exec(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// InsertOrder persists the order header and its lines
func (t *bookstoreTx) InsertOrder(ctx context.Context, order *domain.Order) error {
	err := t.tx.QueryRow(ctx,
		`INSERT INTO orders (order_id, user_id, total_cents, status) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		order.ID, order.UserID, order.TotalCents, order.Status,
	).Scan(&order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", mapPgError(err))
	}

	for i, line := range order.Lines {
		_, err := t.tx.Exec(ctx,
			`INSERT INTO order_items (order_id, line_no, book_id, quantity, unit_price_cents) VALUES ($1, $2, $3, $4, $5)`,
			order.ID, i+1, line.BookID, line.Quantity, line.UnitPriceCents,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", mapPgError(err))
		}
	}
	return nil
}

// GetOrderForUpdate reads an order under a row lock for a status transition
func (t *bookstoreTx) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return getOrder(ctx, t.tx, id, true)
}

// SetOrderStatus updates the order status. Transition legality is the
// caller's responsibility; the row must already be locked.
func (t *bookstoreTx) SetOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	tag, err := t.tx.Exec(ctx, `UPDATE orders SET status = $2 WHERE order_id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// querier covers both the pool and a transaction
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getOrder(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (*domain.Order, error) {
	query := `SELECT order_id, user_id, total_cents, status, created_at FROM orders WHERE order_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var o domain.Order
	err := q.QueryRow(ctx, query, id).Scan(&o.ID, &o.UserID, &o.TotalCents, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", mapPgError(err))
	}

	lines, err := getOrderLines(ctx, q, id)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

func getOrderLines(ctx context.Context, q querier, orderID uuid.UUID) ([]domain.OrderLine, error) {
	rows, err := q.Query(ctx,
		`SELECT book_id, quantity, unit_price_cents FROM order_items WHERE order_id = $1 ORDER BY line_no`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.BookID, &l.Quantity, &l.UnitPriceCents); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
