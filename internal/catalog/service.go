package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/anatole0000/book-store/internal/domain"
	"github.com/anatole0000/book-store/internal/logger"
	"github.com/anatole0000/book-store/internal/repository"
)

// Enqueuer enqueues background jobs for catalog side effects
type Enqueuer interface {
	Enqueue(ctx context.Context, queue string, payload domain.JobPayload) (*domain.Job, error)
}

// CreateBookInput describes a new catalog entry
type CreateBookInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Author      string `json:"author" validate:"required,max=255"`
	PriceCents  int64  `json:"price_cents" validate:"required,gt=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	Available   *bool  `json:"available"`
	Description string `json:"description"`
	ImagePath   string `json:"image_path"`
	Category    string `json:"category" validate:"max=100"`
}

// UpdateBookInput carries a partial update; nil fields are left unchanged
type UpdateBookInput struct {
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Author      *string `json:"author" validate:"omitempty,max=255"`
	PriceCents  *int64  `json:"price_cents" validate:"omitempty,gt=0"`
	Stock       *int    `json:"stock" validate:"omitempty,gte=0"`
	Available   *bool   `json:"available"`
	Description *string `json:"description"`
	ImagePath   *string `json:"image_path"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
}

// Service defines the catalog business logic
type Service interface {
	// CreateBook adds a book to the catalog. Privileged callers only.
	CreateBook(ctx context.Context, caller domain.Caller, input CreateBookInput) (*domain.Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	ListBooks(ctx context.Context, filter repository.BookFilter) ([]domain.Book, int, error)
	// UpdateBook applies a partial update. Privileged callers only.
	UpdateBook(ctx context.Context, caller domain.Caller, id uuid.UUID, input UpdateBookInput) (*domain.Book, error)
	// DeleteBook removes a catalog entry. Committed orders keep their
	// snapshots. Privileged callers only.
	DeleteBook(ctx context.Context, caller domain.Caller, id uuid.UUID) error
}

type service struct {
	repo             repository.Bookstore
	enqueuer         Enqueuer
	cache            *bookCache
	imageTargetWidth int
}

// NewService creates a new catalog service. enqueuer may be nil, in which
// case no notification or resize jobs are produced.
func NewService(repo repository.Bookstore, enqueuer Enqueuer, imageTargetWidth int) Service {
	return &service{
		repo:             repo,
		enqueuer:         enqueuer,
		cache:            newBookCache(DefaultCacheSize, DefaultCacheTTL),
		imageTargetWidth: imageTargetWidth,
	}
}

func (s *service) CreateBook(ctx context.Context, caller domain.Caller, input CreateBookInput) (*domain.Book, error) {
	if !caller.Privileged {
		return nil, domain.ErrForbidden
	}
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}
	book := &domain.Book{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Author:      strings.TrimSpace(input.Author),
		PriceCents:  input.PriceCents,
		Stock:       input.Stock,
		Available:   available,
		Description: input.Description,
		ImagePath:   input.ImagePath,
		Category:    strings.TrimSpace(input.Category),
	}
	book.RefreshStatus()

	if err := s.repo.CreateBook(ctx, book); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Info(LogMsgBookCreated, "book_id", book.ID, "title", book.Title, "stock", book.Stock)

	// Side effects are best-effort: the catalog entry is already durable
	if s.enqueuer != nil {
		if _, err := s.enqueuer.Enqueue(ctx, domain.QueueCatalog, domain.NewBookEntryPayload{
			BookID:  book.ID,
			AdminID: caller.UserID,
			Title:   book.Title,
		}); err != nil {
			log.Error(LogMsgNewBookEnqueueFailed, "book_id", book.ID, "error", err)
		}
		s.enqueueResize(ctx, book)
	}
	return book, nil
}

func (s *service) GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	if book, ok := s.cache.Get(id); ok {
		return book, nil
	}

	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(book)
	return book, nil
}

func (s *service) ListBooks(ctx context.Context, filter repository.BookFilter) ([]domain.Book, int, error) {
	return s.repo.ListBooks(ctx, filter)
}

func (s *service) UpdateBook(ctx context.Context, caller domain.Caller, id uuid.UUID, input UpdateBookInput) (*domain.Book, error) {
	if !caller.Privileged {
		return nil, domain.ErrForbidden
	}

	// Read-modify-write under the row lock. Order placement decrements stock
	// concurrently, and an unlocked update would write the pre-sale stock
	// back.
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer repository.SafeRollback(ctx, tx)

	book, err := tx.GetBookForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	imageChanged, err := applyUpdate(book, input)
	if err != nil {
		return nil, err
	}
	book.RefreshStatus()

	if err := tx.UpdateBook(ctx, book); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	s.cache.Invalidate(id)

	log := logger.FromContext(ctx)
	log.Info(LogMsgBookUpdated, "book_id", book.ID, "status", book.Status)

	if imageChanged && s.enqueuer != nil {
		s.enqueueResize(ctx, book)
	}
	return book, nil
}

func (s *service) DeleteBook(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	if !caller.Privileged {
		return domain.ErrForbidden
	}
	if err := s.repo.DeleteBook(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(id)
	logger.FromContext(ctx).Info(LogMsgBookDeleted, "book_id", id)
	return nil
}

// enqueueResize requests cover post-processing when the book carries an image
func (s *service) enqueueResize(ctx context.Context, book *domain.Book) {
	if book.ImagePath == "" {
		return
	}
	_, err := s.enqueuer.Enqueue(ctx, domain.QueueImages, domain.ResizeImagePayload{
		ImagePath:   book.ImagePath,
		TargetWidth: s.imageTargetWidth,
	})
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgResizeEnqueueFailed, "book_id", book.ID, "error", err)
	}
}

func validateCreate(input CreateBookInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(input.Author) == "" {
		return fmt.Errorf("%w: author is required", domain.ErrInvalidInput)
	}
	if input.PriceCents <= 0 {
		return fmt.Errorf("%w: price must be positive", domain.ErrInvalidInput)
	}
	if input.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

// applyUpdate copies non-nil input fields onto the book and reports whether
// the image path changed
func applyUpdate(book *domain.Book, input UpdateBookInput) (bool, error) {
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return false, fmt.Errorf("%w: title must not be empty", domain.ErrInvalidInput)
		}
		book.Title = strings.TrimSpace(*input.Title)
	}
	if input.Author != nil {
		if strings.TrimSpace(*input.Author) == "" {
			return false, fmt.Errorf("%w: author must not be empty", domain.ErrInvalidInput)
		}
		book.Author = strings.TrimSpace(*input.Author)
	}
	if input.PriceCents != nil {
		if *input.PriceCents <= 0 {
			return false, fmt.Errorf("%w: price must be positive", domain.ErrInvalidInput)
		}
		book.PriceCents = *input.PriceCents
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return false, fmt.Errorf("%w: stock must not be negative", domain.ErrInvalidInput)
		}
		book.Stock = *input.Stock
	}
	if input.Available != nil {
		book.Available = *input.Available
	}
	if input.Description != nil {
		book.Description = *input.Description
	}
	if input.Category != nil {
		book.Category = strings.TrimSpace(*input.Category)
	}

	imageChanged := false
	if input.ImagePath != nil && *input.ImagePath != book.ImagePath {
		book.ImagePath = *input.ImagePath
		imageChanged = true
	}
	return imageChanged, nil
}
