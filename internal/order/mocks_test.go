package order

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/anatole0000/book-store/internal/domain"
	"github.com/anatole0000/book-store/internal/repository"
)

// mockBookstore is an in-memory repository.Bookstore. Transactions stage
// their writes on a copy and only publish on Commit, so rollback semantics
// match the real store.
type mockBookstore struct {
	mu     sync.Mutex
	books  map[uuid.UUID]*domain.Book
	orders map[uuid.UUID]*domain.Order

	beginErr error
	// commitConflicts makes the next N commits fail with a conflict
	commitConflicts int
	beginCount      int
}

func newMockBookstore() *mockBookstore {
	return &mockBookstore{
		books:  make(map[uuid.UUID]*domain.Book),
		orders: make(map[uuid.UUID]*domain.Order),
	}
}

func (m *mockBookstore) addBook(b *domain.Book) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *b
	m.books[b.ID] = &copied
}

func (m *mockBookstore) getBook(id uuid.UUID) *domain.Book {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := *m.books[id]
	return &b
}

func (m *mockBookstore) CreateBook(ctx context.Context, book *domain.Book) error {
	m.addBook(book)
	return nil
}

func (m *mockBookstore) GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *mockBookstore) ListBooks(ctx context.Context, filter repository.BookFilter) ([]domain.Book, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var books []domain.Book
	for _, b := range m.books {
		books = append(books, *b)
	}
	return books, len(books), nil
}

func (m *mockBookstore) UpdateBook(ctx context.Context, book *domain.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[book.ID]; !ok {
		return domain.ErrBookNotFound
	}
	copied := *book
	m.books[book.ID] = &copied
	return nil
}

func (m *mockBookstore) DeleteBook(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[id]; !ok {
		return domain.ErrBookNotFound
	}
	delete(m.books, id)
	return nil
}

func (m *mockBookstore) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *mockBookstore) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orders []domain.Order
	for _, o := range m.orders {
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

func (m *mockBookstore) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if o.Status != domain.OrderStatusPending {
		return domain.ErrOrderNotPending
	}
	delete(m.orders, id)
	return nil
}

func (m *mockBookstore) BeginTx(ctx context.Context) (repository.BookstoreTx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.beginCount++
	if m.beginErr != nil {
		return nil, m.beginErr
	}

	staged := make(map[uuid.UUID]*domain.Book, len(m.books))
	for id, b := range m.books {
		copied := *b
		staged[id] = &copied
	}
	return &mockTx{store: m, books: staged, orders: make(map[uuid.UUID]*domain.Order)}, nil
}

type mockTx struct {
	store  *mockBookstore
	books  map[uuid.UUID]*domain.Book
	orders map[uuid.UUID]*domain.Order
	// staged status changes keyed by order id
	statusChanges map[uuid.UUID]domain.OrderStatus
	closed        bool
}

func (t *mockTx) Commit(ctx context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.closed {
		return fmt.Errorf("%s", domain.ErrMsgTxClosed)
	}
	t.closed = true

	if t.store.commitConflicts > 0 {
		t.store.commitConflicts--
		return domain.ErrTransactionConflict
	}

	for id, b := range t.books {
		t.store.books[id] = b
	}
	for id, o := range t.orders {
		t.store.orders[id] = o
	}
	for id, status := range t.statusChanges {
		if o, ok := t.store.orders[id]; ok {
			o.Status = status
		}
	}
	return nil
}

func (t *mockTx) Rollback(ctx context.Context) error {
	if t.closed {
		return fmt.Errorf("%s", domain.ErrMsgTxClosed)
	}
	t.closed = true
	return nil
}

func (t *mockTx) GetBookForUpdate(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	b, ok := t.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	copied := *b
	return &copied, nil
}

func (t *mockTx) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	b, ok := t.books[id]
	if !ok {
		return domain.ErrBookNotFound
	}
	if b.Stock < quantity {
		return domain.ErrInsufficientStock
	}
	b.Stock -= quantity
	b.SoldCount += quantity
	b.RefreshStatus()
	return nil
}

func (t *mockTx) UpdateBook(ctx context.Context, book *domain.Book) error {
	if _, ok := t.books[book.ID]; !ok {
		return domain.ErrBookNotFound
	}
	copied := *book
	t.books[book.ID] = &copied
	return nil
}

func (t *mockTx) InsertOrder(ctx context.Context, order *domain.Order) error {
	copied := *order
	t.orders[order.ID] = &copied
	return nil
}

func (t *mockTx) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	o, ok := t.store.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (t *mockTx) SetOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	if t.statusChanges == nil {
		t.statusChanges = make(map[uuid.UUID]domain.OrderStatus)
	}
	t.statusChanges[id] = status
	return nil
}

// mockEnqueuer records enqueued payloads and signals on a channel
type mockEnqueuer struct {
	mu       sync.Mutex
	payloads []domain.JobPayload
	queues   []string
	err      error
	signal   chan struct{}
}

func newMockEnqueuer() *mockEnqueuer {
	return &mockEnqueuer{signal: make(chan struct{}, 16)}
}

func (m *mockEnqueuer) Enqueue(ctx context.Context, queue string, payload domain.JobPayload) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		m.signal <- struct{}{}
		return nil, m.err
	}
	m.payloads = append(m.payloads, payload)
	m.queues = append(m.queues, queue)
	m.signal <- struct{}{}
	return &domain.Job{ID: uuid.New(), Queue: queue, Kind: payload.JobKind()}, nil
}

func (m *mockEnqueuer) last() (string, domain.JobPayload) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.payloads) == 0 {
		return "", nil
	}
	return m.queues[len(m.queues)-1], m.payloads[len(m.payloads)-1]
}
