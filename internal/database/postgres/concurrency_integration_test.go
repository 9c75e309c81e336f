package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/anatole0000/book-store/internal/domain"
)

// TestConcurrentDecrement_Integration verifies that concurrent conditional
// decrements against the same book never oversell: with stock S and N > S
// buyers, exactly S succeed and the rest see ErrInsufficientStock.
func TestConcurrentDecrement_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	pool := setupTestDB(t, ctx)
	repo := NewBookstoreRepository(pool)

	const stock = 5
	const buyers = 20

	book := newTestBook("Contended Bestseller", 2500, stock)
	if err := repo.CreateBook(ctx, book); err != nil {
		t.Fatalf("CreateBook failed: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(buyers)
	results := make(chan error, buyers)

	for i := 0; i < buyers; i++ {
		go func() {
			defer wg.Done()

			tx, err := repo.BeginTx(ctx)
			if err != nil {
				results <- err
				return
			}
			defer tx.Rollback(ctx)

			if err := tx.DecrementStock(ctx, book.ID, 1); err != nil {
				results <- err
				return
			}
			results <- tx.Commit(ctx)
		}()
	}

	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrInsufficientStock):
			rejected++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != stock {
		t.Errorf("expected exactly %d successful purchases, got %d", stock, succeeded)
	}
	if rejected != buyers-stock {
		t.Errorf("expected %d rejections, got %d", buyers-stock, rejected)
	}

	final, err := repo.GetBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("GetBook failed: %v", err)
	}
	if final.Stock != 0 {
		t.Errorf("expected stock 0, got %d", final.Stock)
	}
	if final.SoldCount != stock {
		t.Errorf("expected sold count %d, got %d", stock, final.SoldCount)
	}
	if final.Status != domain.BookStatusOutOfStock {
		t.Errorf("expected out_of_stock, got %s", final.Status)
	}
}
