package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/anatole0000/book-store/internal/domain"
)

// BookFilter narrows catalog listings
type BookFilter struct {
	// Query matches title, author, or category (case-insensitive substring)
	Query string
	// Category restricts to an exact category
	Category string
	// InStockOnly hides discontinued and out-of-stock entries
	InStockOnly bool
	Offset      int
	Limit       int
}

// Bookstore defines the interface for catalog and order persistence
type Bookstore interface {
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	ListBooks(ctx context.Context, filter BookFilter) ([]domain.Book, int, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id uuid.UUID) error

	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	// DeleteOrder removes an order that is still pending. Returns
	// domain.ErrOrderNotFound if absent and domain.ErrOrderNotPending if
	// fulfillment has already started.
	DeleteOrder(ctx context.Context, id uuid.UUID) error

	BeginTx(ctx context.Context) (BookstoreTx, error)
}

// BookstoreTx defines the transactional surface used by the order
// coordinator. All reads lock the touched rows so concurrent placements
// serialize on contended books.
type BookstoreTx interface {
	Tx
	// GetBookForUpdate reads a book row under a row lock
	GetBookForUpdate(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	// DecrementStock conditionally reduces stock and bumps sold_count,
	// re-deriving the book status. Returns domain.ErrInsufficientStock when
	// the guard (stock >= quantity) does not hold.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
	// UpdateBook persists catalog changes to a book previously read with
	// GetBookForUpdate, so the write cannot clobber a concurrent sale
	UpdateBook(ctx context.Context, book *domain.Book) error
	InsertOrder(ctx context.Context, order *domain.Order) error
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	SetOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
}
