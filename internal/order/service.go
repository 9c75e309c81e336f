package order

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anatole0000/book-store/internal/domain"
	"github.com/anatole0000/book-store/internal/logger"
	"github.com/anatole0000/book-store/internal/metrics"
	"github.com/anatole0000/book-store/internal/repository"
)

// Enqueuer enqueues background jobs after an order commits
type Enqueuer interface {
	Enqueue(ctx context.Context, queue string, payload domain.JobPayload) (*domain.Job, error)
}

// Service defines the order business logic
type Service interface {
	// PlaceOrder atomically commits an order against current inventory. Either
	// every line is charged and decremented or nothing is.
	PlaceOrder(ctx context.Context, caller domain.Caller, lines []domain.OrderLineRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, caller domain.Caller) ([]domain.Order, error)
	// UpdateOrderStatus moves an order forward through the fulfillment states.
	// Privileged callers only.
	UpdateOrderStatus(ctx context.Context, caller domain.Caller, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	// DeleteOrder removes an order that has not entered fulfillment.
	// Privileged callers only; owners cancel through support, not the API.
	DeleteOrder(ctx context.Context, caller domain.Caller, id uuid.UUID) error
	Shutdown(ctx context.Context) error
}

type service struct {
	repo           repository.Bookstore
	enqueuer       Enqueuer
	enqueueTimeout time.Duration

	// Tracks post-commit confirmation enqueues so shutdown can drain them
	wg sync.WaitGroup
}

// NewService creates a new order service. enqueuer may be nil, in which case
// no confirmation jobs are produced.
func NewService(repo repository.Bookstore, enqueuer Enqueuer, enqueueTimeout time.Duration) Service {
	return &service{
		repo:           repo,
		enqueuer:       enqueuer,
		enqueueTimeout: enqueueTimeout,
	}
}

func (s *service) PlaceOrder(ctx context.Context, caller domain.Caller, lines []domain.OrderLineRequest) (*domain.Order, error) {
	log := logger.FromContext(ctx)

	merged, err := normalizeLines(caller, lines)
	if err != nil {
		metrics.OrdersRejected.WithLabelValues(metrics.ReasonInvalidInput).Inc()
		return nil, err
	}

	var order *domain.Order
	var titles map[uuid.UUID]string
	for attempt := 1; ; attempt++ {
		order, titles, err = s.placeOnce(ctx, caller, merged)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrTransactionConflict) && attempt < MaxPlacementAttempts {
			metrics.OrderConflictRetries.Inc()
			log.Warn(LogMsgPlacementConflictRetry, "attempt", attempt, "error", err)
			continue
		}
		s.recordRejection(err)
		log.Info(LogMsgOrderRejected, "user_id", caller.UserID, "error", err)
		return nil, err
	}

	var copies int
	for _, l := range order.Lines {
		copies += l.Quantity
	}
	metrics.OrdersPlaced.Inc()
	metrics.BooksSold.Add(float64(copies))
	metrics.RevenueCents.Add(float64(order.TotalCents))
	log.Info(LogMsgOrderPlaced,
		"order_id", order.ID, "user_id", order.UserID,
		"lines", len(order.Lines), "total_cents", order.TotalCents)

	s.enqueueConfirmation(ctx, order, titles)
	return order, nil
}

// placeOnce runs a single placement transaction. A conflict error from the
// store means the whole attempt rolled back and can be retried.
func (s *service) placeOnce(ctx context.Context, caller domain.Caller, lines []domain.OrderLineRequest) (*domain.Order, map[uuid.UUID]string, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer repository.SafeRollback(ctx, tx)

	order := &domain.Order{
		ID:     uuid.New(),
		UserID: caller.UserID,
		Status: domain.OrderStatusPending,
	}
	titles := make(map[uuid.UUID]string, len(lines))

	// Lock and decrement in sorted order so concurrent multi-line placements
	// cannot deadlock against each other
	books := make(map[uuid.UUID]*domain.Book, len(lines))
	for _, line := range lockOrder(lines) {
		book, err := tx.GetBookForUpdate(ctx, line.BookID)
		if err != nil {
			return nil, nil, err
		}
		if !book.Available {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrBookUnavailable, book.ID)
		}
		if book.Stock < line.Quantity {
			return nil, nil, fmt.Errorf("%w: %s has %d of %d requested",
				domain.ErrInsufficientStock, book.ID, book.Stock, line.Quantity)
		}
		if err := tx.DecrementStock(ctx, book.ID, line.Quantity); err != nil {
			return nil, nil, err
		}
		books[book.ID] = book
	}

	// Persist the lines in the order the caller supplied them
	for _, line := range lines {
		book := books[line.BookID]
		titles[book.ID] = book.Title
		order.Lines = append(order.Lines, domain.OrderLine{
			BookID:         book.ID,
			Quantity:       line.Quantity,
			UnitPriceCents: book.PriceCents,
		})
		order.TotalCents += int64(line.Quantity) * book.PriceCents
	}

	if err := tx.InsertOrder(ctx, order); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return order, titles, nil
}

// enqueueConfirmation produces the confirmation job after the order has
// committed. Uses a detached context with a short timeout: the order is
// already durable, so a queue hiccup must not fail the request, only lose the
// notification.
func (s *service) enqueueConfirmation(ctx context.Context, order *domain.Order, titles map[uuid.UUID]string) {
	if s.enqueuer == nil {
		return
	}

	payload := domain.OrderConfirmationPayload{
		OrderID:    order.ID,
		Recipient:  order.UserID,
		TotalCents: order.TotalCents,
	}
	for _, line := range order.Lines {
		payload.Lines = append(payload.Lines, domain.OrderLineSummary{
			BookID:   line.BookID,
			Title:    titles[line.BookID],
			Quantity: line.Quantity,
		})
	}

	detached := context.Background()
	if requestID, ok := logger.RequestIDFromContext(ctx); ok {
		detached = logger.WithRequestID(detached, requestID)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		enqueueCtx, cancel := context.WithTimeout(detached, s.enqueueTimeout)
		defer cancel()

		if _, err := s.enqueuer.Enqueue(enqueueCtx, domain.QueueEmail, payload); err != nil {
			logger.FromContext(enqueueCtx).Error(LogMsgConfirmationEnqueueFail,
				"order_id", order.ID, "error", err)
		}
	}()
}

func (s *service) GetOrder(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	// Non-owners learn nothing, not even existence
	if !caller.Privileged && order.UserID != caller.UserID {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, caller domain.Caller) ([]domain.Order, error) {
	filter := domain.OrderFilter{}
	if !caller.Privileged {
		userID := caller.UserID
		filter.UserID = &userID
	}
	return s.repo.ListOrders(ctx, filter)
}

func (s *service) UpdateOrderStatus(ctx context.Context, caller domain.Caller, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !caller.Privileged {
		return nil, domain.ErrForbidden
	}
	if !domain.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer repository.SafeRollback(ctx, tx)

	order, err := tx.GetOrderForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransitionOrderStatus(order.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, order.Status, status)
	}
	if err := tx.SetOrderStatus(ctx, id, status); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgOrderStatusUpdated,
		"order_id", id, "from", order.Status, "to", status)
	order.Status = status
	return order, nil
}

func (s *service) DeleteOrder(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if !caller.Privileged {
		// Owners learn the order exists but cannot purge it; strangers learn
		// nothing at all
		if order.UserID != caller.UserID {
			return domain.ErrOrderNotFound
		}
		return domain.ErrForbidden
	}

	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info(LogMsgOrderDeleted, "order_id", id, "user_id", order.UserID)
	return nil
}

// Shutdown drains in-flight confirmation enqueues
func (s *service) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgShutdownWaitingEnqueues)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgShutdownComplete)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}

// recordRejection buckets a placement failure for the rejection counter
func (s *service) recordRejection(err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		metrics.OrdersRejected.WithLabelValues(metrics.ReasonInsufficientStock).Inc()
	case errors.Is(err, domain.ErrBookNotFound), errors.Is(err, domain.ErrBookUnavailable):
		metrics.OrdersRejected.WithLabelValues(metrics.ReasonBookNotFound).Inc()
	case errors.Is(err, domain.ErrTransactionConflict):
		metrics.OrdersRejected.WithLabelValues(metrics.ReasonConflict).Inc()
	default:
		metrics.OrdersRejected.WithLabelValues(metrics.ReasonInvalidInput).Inc()
	}
}

// normalizeLines validates a placement request and merges duplicate book
// lines, preserving the order lines first appear in
func normalizeLines(caller domain.Caller, lines []domain.OrderLineRequest) ([]domain.OrderLineRequest, error) {
	if caller.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one line", domain.ErrInvalidInput)
	}
	if len(lines) > domain.MaxOrderLines {
		return nil, fmt.Errorf("%w: order exceeds %d lines", domain.ErrInvalidInput, domain.MaxOrderLines)
	}

	byBook := make(map[uuid.UUID]int, len(lines))
	var merged []domain.OrderLineRequest
	for _, line := range lines {
		if line.BookID == uuid.Nil {
			return nil, fmt.Errorf("%w: line is missing a book id", domain.ErrInvalidInput)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
		}
		if idx, ok := byBook[line.BookID]; ok {
			merged[idx].Quantity += line.Quantity
		} else {
			byBook[line.BookID] = len(merged)
			merged = append(merged, line)
		}
	}
	for _, line := range merged {
		if line.Quantity > domain.MaxOrderLineQuantity {
			return nil, fmt.Errorf("%w: quantity exceeds %d", domain.ErrInvalidInput, domain.MaxOrderLineQuantity)
		}
	}
	return merged, nil
}

// lockOrder returns a copy of the lines sorted by book ID bytes. Every
// placement locks rows in this order.
func lockOrder(lines []domain.OrderLineRequest) []domain.OrderLineRequest {
	sorted := make([]domain.OrderLineRequest, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].BookID[:], sorted[j].BookID[:]) < 0
	})
	return sorted
}
