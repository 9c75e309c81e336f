package order

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatole0000/book-store/internal/domain"
)

func testBook(title string, priceCents int64, stock int) *domain.Book {
	b := &domain.Book{
		ID:         uuid.New(),
		Title:      title,
		Author:     "Author",
		PriceCents: priceCents,
		Stock:      stock,
		Available:  true,
	}
	b.RefreshStatus()
	return b
}

func buyer(id string) domain.Caller {
	return domain.Caller{UserID: id}
}

func admin() domain.Caller {
	return domain.Caller{UserID: "admin", Privileged: true}
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("commits lines, total, and decrements", func(t *testing.T) {
		repo := newMockBookstore()
		book1 := testBook("Book One", 1500, 10)
		book2 := testBook("Book Two", 2000, 4)
		repo.addBook(book1)
		repo.addBook(book2)

		enq := newMockEnqueuer()
		svc := NewService(repo, enq, time.Second)

		order, err := svc.PlaceOrder(ctx, buyer("alice"), []domain.OrderLineRequest{
			{BookID: book1.ID, Quantity: 2},
			{BookID: book2.ID, Quantity: 1},
		})
		require.NoError(t, err)

		assert.Equal(t, "alice", order.UserID)
		assert.Equal(t, domain.OrderStatusPending, order.Status)
		assert.Equal(t, int64(2*1500+2000), order.TotalCents)
		assert.Len(t, order.Lines, 2)

		assert.Equal(t, 8, repo.getBook(book1.ID).Stock)
		assert.Equal(t, 3, repo.getBook(book2.ID).Stock)
		assert.Equal(t, 2, repo.getBook(book1.ID).SoldCount)

		stored, err := repo.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.TotalCents, stored.TotalCents)
	})

	t.Run("snapshots unit prices at commit time", func(t *testing.T) {
		repo := newMockBookstore()
		book := testBook("Repriced", 1000, 5)
		repo.addBook(book)
		svc := NewService(repo, nil, time.Second)

		order, err := svc.PlaceOrder(ctx, buyer("alice"), []domain.OrderLineRequest{
			{BookID: book.ID, Quantity: 1},
		})
		require.NoError(t, err)

		// Reprice after the order commits
		updated := repo.getBook(book.ID)
		updated.PriceCents = 9999
		require.NoError(t, repo.UpdateBook(ctx, updated))

		stored, err := repo.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), stored.Lines[0].UnitPriceCents)
		assert.Equal(t, int64(1000), stored.TotalCents)
	})

	t.Run("rejects the whole order when one line cannot be covered", func(t *testing.T) {
		repo := newMockBookstore()
		plenty := testBook("Plenty", 1000, 100)
		scarce := testBook("Scarce", 1000, 1)
		repo.addBook(plenty)
		repo.addBook(scarce)
		svc := NewService(repo, nil, time.Second)

		_, err := svc.PlaceOrder(ctx, buyer("bob"), []domain.OrderLineRequest{
			{BookID: plenty.ID, Quantity: 5},
			{BookID: scarce.ID, Quantity: 2},
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		// Nothing was decremented, nothing was stored
		assert.Equal(t, 100, repo.getBook(plenty.ID).Stock)
		assert.Equal(t, 1, repo.getBook(scarce.ID).Stock)
		assert.Empty(t, repo.orders)
	})

	t.Run("rejects unavailable books", func(t *testing.T) {
		repo := newMockBookstore()
		book := testBook("Pulled", 1000, 5)
		book.Available = false
		book.RefreshStatus()
		repo.addBook(book)
		svc := NewService(repo, nil, time.Second)

		_, err := svc.PlaceOrder(ctx, buyer("bob"), []domain.OrderLineRequest{
			{BookID: book.ID, Quantity: 1},
		})
		assert.ErrorIs(t, err, domain.ErrBookUnavailable)
	})

	t.Run("rejects unknown books", func(t *testing.T) {
		svc := NewService(newMockBookstore(), nil, time.Second)

		_, err := svc.PlaceOrder(ctx, buyer("bob"), []domain.OrderLineRequest{
			{BookID: uuid.New(), Quantity: 1},
		})
		assert.ErrorIs(t, err, domain.ErrBookNotFound)
	})

	t.Run("merges duplicate lines", func(t *testing.T) {
		repo := newMockBookstore()
		book := testBook("Popular", 500, 10)
		repo.addBook(book)
		svc := NewService(repo, nil, time.Second)

		order, err := svc.PlaceOrder(ctx, buyer("alice"), []domain.OrderLineRequest{
			{BookID: book.ID, Quantity: 2},
			{BookID: book.ID, Quantity: 3},
		})
		require.NoError(t, err)
		require.Len(t, order.Lines, 1)
		assert.Equal(t, 5, order.Lines[0].Quantity)
		assert.Equal(t, 5, repo.getBook(book.ID).Stock)
	})

	t.Run("preserves the requested line order", func(t *testing.T) {
		repo := newMockBookstore()
		one := testBook("One", 1000, 5)
		two := testBook("Two", 2000, 5)
		repo.addBook(one)
		repo.addBook(two)
		svc := NewService(repo, nil, time.Second)

		// Request the byte-wise greater ID first so row-lock ordering and
		// request ordering differ
		first, second := one, two
		if bytes.Compare(first.ID[:], second.ID[:]) < 0 {
			first, second = second, first
		}

		order, err := svc.PlaceOrder(ctx, buyer("alice"), []domain.OrderLineRequest{
			{BookID: first.ID, Quantity: 1},
			{BookID: second.ID, Quantity: 2},
		})
		require.NoError(t, err)
		require.Len(t, order.Lines, 2)
		assert.Equal(t, first.ID, order.Lines[0].BookID)
		assert.Equal(t, second.ID, order.Lines[1].BookID)
		assert.Equal(t, 1, order.Lines[0].Quantity)
		assert.Equal(t, 2, order.Lines[1].Quantity)
	})

	t.Run("retries after a transaction conflict", func(t *testing.T) {
		repo := newMockBookstore()
		book := testBook("Contended", 1000, 10)
		repo.addBook(book)
		repo.commitConflicts = 2
		svc := NewService(repo, nil, time.Second)

		order, err := svc.PlaceOrder(ctx, buyer("alice"), []domain.OrderLineRequest{
			{BookID: book.ID, Quantity: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, repo.beginCount, "expected two retries")
		assert.Equal(t, 9, repo.getBook(book.ID).Stock)
		assert.NotNil(t, order)
	})

	t.Run("gives up after exhausting conflict retries", func(t *testing.T) {
		repo := newMockBookstore()
		book := testBook("Hopeless", 1000, 10)
		repo.addBook(book)
		repo.commitConflicts = MaxPlacementAttempts
		svc := NewService(repo, nil, time.Second)

		_, err := svc.PlaceOrder(ctx, buyer("alice"), []domain.OrderLineRequest{
			{BookID: book.ID, Quantity: 1},
		})
		assert.ErrorIs(t, err, domain.ErrTransactionConflict)
		assert.Equal(t, MaxPlacementAttempts, repo.beginCount)
		assert.Equal(t, 10, repo.getBook(book.ID).Stock)
	})

	t.Run("validates the request", func(t *testing.T) {
		repo := newMockBookstore()
		book := testBook("Valid", 1000, 10)
		repo.addBook(book)
		svc := NewService(repo, nil, time.Second)

		cases := []struct {
			name   string
			caller domain.Caller
			lines  []domain.OrderLineRequest
		}{
			{"missing user", domain.Caller{}, []domain.OrderLineRequest{{BookID: book.ID, Quantity: 1}}},
			{"no lines", buyer("a"), nil},
			{"zero quantity", buyer("a"), []domain.OrderLineRequest{{BookID: book.ID, Quantity: 0}}},
			{"negative quantity", buyer("a"), []domain.OrderLineRequest{{BookID: book.ID, Quantity: -1}}},
			{"nil book id", buyer("a"), []domain.OrderLineRequest{{Quantity: 1}}},
			{"excessive quantity", buyer("a"), []domain.OrderLineRequest{{BookID: book.ID, Quantity: domain.MaxOrderLineQuantity + 1}}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.PlaceOrder(ctx, tc.caller, tc.lines)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			})
		}
		assert.Equal(t, 0, repo.beginCount, "validation failures must not open transactions")
	})

	t.Run("enqueues a confirmation after commit", func(t *testing.T) {
		repo := newMockBookstore()
		book := testBook("Confirmed", 1200, 5)
		repo.addBook(book)
		enq := newMockEnqueuer()
		svc := NewService(repo, enq, time.Second)

		order, err := svc.PlaceOrder(ctx, buyer("alice"), []domain.OrderLineRequest{
			{BookID: book.ID, Quantity: 2},
		})
		require.NoError(t, err)

		select {
		case <-enq.signal:
		case <-time.After(time.Second):
			t.Fatal("confirmation was never enqueued")
		}

		queue, payload := enq.last()
		assert.Equal(t, domain.QueueEmail, queue)
		confirmation, ok := payload.(domain.OrderConfirmationPayload)
		require.True(t, ok)
		assert.Equal(t, order.ID, confirmation.OrderID)
		assert.Equal(t, "alice", confirmation.Recipient)
		assert.Equal(t, int64(2400), confirmation.TotalCents)
		require.Len(t, confirmation.Lines, 1)
		assert.Equal(t, "Confirmed", confirmation.Lines[0].Title)
	})

	t.Run("a failed enqueue does not fail the order", func(t *testing.T) {
		repo := newMockBookstore()
		book := testBook("Unnotified", 1000, 5)
		repo.addBook(book)
		enq := newMockEnqueuer()
		enq.err = context.DeadlineExceeded
		svc := NewService(repo, enq, 50*time.Millisecond)

		order, err := svc.PlaceOrder(ctx, buyer("alice"), []domain.OrderLineRequest{
			{BookID: book.ID, Quantity: 1},
		})
		require.NoError(t, err)
		assert.NotNil(t, order)

		select {
		case <-enq.signal:
		case <-time.After(time.Second):
			t.Fatal("enqueue attempt never happened")
		}
		// Order is durable regardless
		_, err = repo.GetOrder(ctx, order.ID)
		assert.NoError(t, err)
	})
}

func TestPlaceOrder_ConcurrentBuyers(t *testing.T) {
	ctx := context.Background()
	repo := newMockBookstore()
	book := testBook("Race", 1000, 5)
	repo.addBook(book)
	svc := NewService(repo, nil, time.Second)

	const buyers = 5
	var wg sync.WaitGroup
	wg.Add(buyers)
	for i := 0; i < buyers; i++ {
		go func(n int) {
			defer wg.Done()
			_, _ = svc.PlaceOrder(ctx, buyer("user"), []domain.OrderLineRequest{
				{BookID: book.ID, Quantity: 1},
			})
		}(i)
	}
	wg.Wait()

	// Never oversold
	final := repo.getBook(book.ID)
	assert.GreaterOrEqual(t, final.Stock, 0)
	assert.LessOrEqual(t, final.SoldCount, 5)
}

func TestGetOrder(t *testing.T) {
	ctx := context.Background()
	repo := newMockBookstore()
	book := testBook("Scoped", 1000, 10)
	repo.addBook(book)
	svc := NewService(repo, nil, time.Second)

	order, err := svc.PlaceOrder(ctx, buyer("alice"), []domain.OrderLineRequest{
		{BookID: book.ID, Quantity: 1},
	})
	require.NoError(t, err)

	t.Run("owner sees own order", func(t *testing.T) {
		got, err := svc.GetOrder(ctx, buyer("alice"), order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		_, err := svc.GetOrder(ctx, buyer("mallory"), order.ID)
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})

	t.Run("privileged caller sees any order", func(t *testing.T) {
		got, err := svc.GetOrder(ctx, admin(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
	})
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()
	repo := newMockBookstore()
	book := testBook("Listed", 1000, 100)
	repo.addBook(book)
	svc := NewService(repo, nil, time.Second)

	for _, user := range []string{"alice", "alice", "bob"} {
		_, err := svc.PlaceOrder(ctx, buyer(user), []domain.OrderLineRequest{
			{BookID: book.ID, Quantity: 1},
		})
		require.NoError(t, err)
	}

	aliceOrders, err := svc.ListOrders(ctx, buyer("alice"))
	require.NoError(t, err)
	assert.Len(t, aliceOrders, 2)
	for _, o := range aliceOrders {
		assert.Equal(t, "alice", o.UserID)
	}

	allOrders, err := svc.ListOrders(ctx, admin())
	require.NoError(t, err)
	assert.Len(t, allOrders, 3)
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (Service, *domain.Order) {
		repo := newMockBookstore()
		book := testBook("Transition", 1000, 10)
		repo.addBook(book)
		svc := NewService(repo, nil, time.Second)
		order, err := svc.PlaceOrder(ctx, buyer("alice"), []domain.OrderLineRequest{
			{BookID: book.ID, Quantity: 1},
		})
		require.NoError(t, err)
		return svc, order
	}

	t.Run("moves forward", func(t *testing.T) {
		svc, order := setup(t)
		updated, err := svc.UpdateOrderStatus(ctx, admin(), order.ID, domain.OrderStatusShipping)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusShipping, updated.Status)

		updated, err = svc.UpdateOrderStatus(ctx, admin(), order.ID, domain.OrderStatusDelivered)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusDelivered, updated.Status)
	})

	t.Run("allows skipping ahead", func(t *testing.T) {
		svc, order := setup(t)
		updated, err := svc.UpdateOrderStatus(ctx, admin(), order.ID, domain.OrderStatusDelivered)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusDelivered, updated.Status)
	})

	t.Run("rejects backward and repeated transitions", func(t *testing.T) {
		svc, order := setup(t)
		_, err := svc.UpdateOrderStatus(ctx, admin(), order.ID, domain.OrderStatusShipping)
		require.NoError(t, err)

		_, err = svc.UpdateOrderStatus(ctx, admin(), order.ID, domain.OrderStatusPending)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		_, err = svc.UpdateOrderStatus(ctx, admin(), order.ID, domain.OrderStatusShipping)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("rejects unknown statuses", func(t *testing.T) {
		svc, order := setup(t)
		_, err := svc.UpdateOrderStatus(ctx, admin(), order.ID, "returned")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("requires privilege", func(t *testing.T) {
		svc, order := setup(t)
		_, err := svc.UpdateOrderStatus(ctx, buyer("alice"), order.ID, domain.OrderStatusShipping)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestDeleteOrder(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (Service, *domain.Order) {
		repo := newMockBookstore()
		book := testBook("Deletable", 1000, 10)
		repo.addBook(book)
		svc := NewService(repo, nil, time.Second)
		order, err := svc.PlaceOrder(ctx, buyer("alice"), []domain.OrderLineRequest{
			{BookID: book.ID, Quantity: 1},
		})
		require.NoError(t, err)
		return svc, order
	}

	t.Run("admin deletes a pending order", func(t *testing.T) {
		svc, order := setup(t)
		require.NoError(t, svc.DeleteOrder(ctx, admin(), order.ID))
		_, err := svc.GetOrder(ctx, admin(), order.ID)
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})

	t.Run("owner cannot delete their own order", func(t *testing.T) {
		svc, order := setup(t)
		err := svc.DeleteOrder(ctx, buyer("alice"), order.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		// Still there
		_, err = svc.GetOrder(ctx, buyer("alice"), order.ID)
		assert.NoError(t, err)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		svc, order := setup(t)
		err := svc.DeleteOrder(ctx, buyer("mallory"), order.ID)
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})

	t.Run("fulfillment blocks deletion", func(t *testing.T) {
		svc, order := setup(t)
		_, err := svc.UpdateOrderStatus(ctx, admin(), order.ID, domain.OrderStatusShipping)
		require.NoError(t, err)

		err = svc.DeleteOrder(ctx, admin(), order.ID)
		assert.ErrorIs(t, err, domain.ErrOrderNotPending)
	})
}

func TestShutdown(t *testing.T) {
	repo := newMockBookstore()
	book := testBook("Draining", 1000, 10)
	repo.addBook(book)
	enq := newMockEnqueuer()
	svc := NewService(repo, enq, time.Second)

	_, err := svc.PlaceOrder(context.Background(), buyer("alice"), []domain.OrderLineRequest{
		{BookID: book.ID, Quantity: 1},
	})
	require.NoError(t, err)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, svc.Shutdown(shutdownCtx))
}
