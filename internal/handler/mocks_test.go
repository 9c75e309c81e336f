package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/anatole0000/book-store/internal/catalog"
	"github.com/anatole0000/book-store/internal/domain"
	"github.com/anatole0000/book-store/internal/repository"
)

// mockCatalogService implements catalog.Service with overridable functions
type mockCatalogService struct {
	createFn func(ctx context.Context, caller domain.Caller, input catalog.CreateBookInput) (*domain.Book, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	listFn   func(ctx context.Context, filter repository.BookFilter) ([]domain.Book, int, error)
	updateFn func(ctx context.Context, caller domain.Caller, id uuid.UUID, input catalog.UpdateBookInput) (*domain.Book, error)
	deleteFn func(ctx context.Context, caller domain.Caller, id uuid.UUID) error
}

func (m *mockCatalogService) CreateBook(ctx context.Context, caller domain.Caller, input catalog.CreateBookInput) (*domain.Book, error) {
	return m.createFn(ctx, caller, input)
}

func (m *mockCatalogService) GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	return m.getFn(ctx, id)
}

func (m *mockCatalogService) ListBooks(ctx context.Context, filter repository.BookFilter) ([]domain.Book, int, error) {
	return m.listFn(ctx, filter)
}

func (m *mockCatalogService) UpdateBook(ctx context.Context, caller domain.Caller, id uuid.UUID, input catalog.UpdateBookInput) (*domain.Book, error) {
	return m.updateFn(ctx, caller, id, input)
}

func (m *mockCatalogService) DeleteBook(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	return m.deleteFn(ctx, caller, id)
}

// mockOrderService implements order.Service with overridable functions
type mockOrderService struct {
	placeFn        func(ctx context.Context, caller domain.Caller, lines []domain.OrderLineRequest) (*domain.Order, error)
	getFn          func(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Order, error)
	listFn         func(ctx context.Context, caller domain.Caller) ([]domain.Order, error)
	updateStatusFn func(ctx context.Context, caller domain.Caller, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	deleteFn       func(ctx context.Context, caller domain.Caller, id uuid.UUID) error
}

func (m *mockOrderService) PlaceOrder(ctx context.Context, caller domain.Caller, lines []domain.OrderLineRequest) (*domain.Order, error) {
	return m.placeFn(ctx, caller, lines)
}

func (m *mockOrderService) GetOrder(ctx context.Context, caller domain.Caller, id uuid.UUID) (*domain.Order, error) {
	return m.getFn(ctx, caller, id)
}

func (m *mockOrderService) ListOrders(ctx context.Context, caller domain.Caller) ([]domain.Order, error) {
	return m.listFn(ctx, caller)
}

func (m *mockOrderService) UpdateOrderStatus(ctx context.Context, caller domain.Caller, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	return m.updateStatusFn(ctx, caller, id, status)
}

func (m *mockOrderService) DeleteOrder(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	return m.deleteFn(ctx, caller, id)
}

func (m *mockOrderService) Shutdown(ctx context.Context) error { return nil }

// mockJobService implements queue.Service with overridable functions
type mockJobService struct {
	listFailedFn func(ctx context.Context, limit int) ([]domain.Job, error)
}

func (m *mockJobService) Enqueue(ctx context.Context, queue string, payload domain.JobPayload) (*domain.Job, error) {
	return nil, nil
}

func (m *mockJobService) Dequeue(ctx context.Context, queue string) (*domain.Job, error) {
	return nil, nil
}

func (m *mockJobService) Ack(ctx context.Context, job *domain.Job) error { return nil }

func (m *mockJobService) Nack(ctx context.Context, job *domain.Job, cause error) error { return nil }

func (m *mockJobService) ListFailed(ctx context.Context, limit int) ([]domain.Job, error) {
	return m.listFailedFn(ctx, limit)
}

func (m *mockJobService) Shutdown(ctx context.Context) error { return nil }
