package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookStatus is the lifecycle status of a catalog book.
// It is always derived from (stock, available) via DeriveBookStatus and is
// never set directly by callers.
type BookStatus string

const (
	BookStatusInStock      BookStatus = "in_stock"
	BookStatusOutOfStock   BookStatus = "out_of_stock"
	BookStatusDiscontinued BookStatus = "discontinued"
)

// Book represents a catalog entry with finite inventory
type Book struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	PriceCents  int64      `json:"price_cents"`
	Stock       int        `json:"stock"`
	Available   bool       `json:"available"`
	Status      BookStatus `json:"status"`
	SoldCount   int        `json:"sold_count"`
	Description string     `json:"description,omitempty"`
	ImagePath   string     `json:"image_path,omitempty"`
	Category    string     `json:"category,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DeriveBookStatus computes the lifecycle status from stock and availability.
// Single source of truth for the status invariant: every mutation path must
// recompute status through this function.
func DeriveBookStatus(stock int, available bool) BookStatus {
	switch {
	case stock <= 0:
		return BookStatusOutOfStock
	case !available:
		return BookStatusDiscontinued
	default:
		return BookStatusInStock
	}
}

// RefreshStatus recomputes the derived status in place
func (b *Book) RefreshStatus() {
	b.Status = DeriveBookStatus(b.Stock, b.Available)
}

// InStock reports whether the book can currently be ordered
func (b *Book) InStock() bool {
	return b.Stock > 0 && b.Available && b.Status == BookStatusInStock
}
