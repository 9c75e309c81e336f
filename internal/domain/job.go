package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the queue-side lifecycle of a background job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Queue names. Producers and workers agree on these; a queue exists as soon
// as a job names it.
const (
	QueueEmail   = "emails"
	QueueCatalog = "catalog"
	QueueImages  = "images"
)

// Job kinds discriminate which handler a job is dispatched to
const (
	JobKindOrderConfirmation = "sendOrderConfirmation"
	JobKindNewBookEntry      = "sendNewBookEntryEmail"
	JobKindResizeImage       = "resizeImage"
)

// Job is a durable unit of deferred work. It is owned by the queue until a
// worker claims it (status running); on Nack it reverts to pending, on Ack or
// retry exhaustion it is finalized.
type Job struct {
	ID          uuid.UUID `json:"id"`
	Queue       string    `json:"queue"`
	Kind        string    `json:"kind"`
	Payload     []byte    `json:"payload"`
	Status      JobStatus `json:"status"`
	Attempts    int       `json:"attempts"`
	MaxAttempts int       `json:"max_attempts"`
	LastError   string    `json:"last_error,omitempty"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JobPayload is implemented by every typed job payload. Validate runs at
// enqueue time so a malformed payload can never reach a handler.
type JobPayload interface {
	JobKind() string
	Validate() error
}

// OrderLineSummary is one line of an order as carried in a notification
// payload. Identifiers only, never live references.
type OrderLineSummary struct {
	BookID   uuid.UUID `json:"book_id"`
	Title    string    `json:"title"`
	Quantity int       `json:"quantity"`
}

// OrderConfirmationPayload notifies the ordering user after a committed order
type OrderConfirmationPayload struct {
	OrderID    uuid.UUID          `json:"order_id"`
	Recipient  string             `json:"recipient"`
	TotalCents int64              `json:"total_cents"`
	Lines      []OrderLineSummary `json:"lines"`
}

func (p OrderConfirmationPayload) JobKind() string { return JobKindOrderConfirmation }

func (p OrderConfirmationPayload) Validate() error {
	if p.OrderID == uuid.Nil {
		return fmt.Errorf("%w: order confirmation requires an order id", ErrInvalidInput)
	}
	if strings.TrimSpace(p.Recipient) == "" {
		return fmt.Errorf("%w: order confirmation requires a recipient", ErrInvalidInput)
	}
	if p.TotalCents < 0 {
		return fmt.Errorf("%w: order confirmation total must not be negative", ErrInvalidInput)
	}
	return nil
}

// NewBookEntryPayload alerts administrators that a book was added to the
// catalog
type NewBookEntryPayload struct {
	BookID  uuid.UUID `json:"book_id"`
	AdminID string    `json:"admin_id"`
	Title   string    `json:"title"`
}

func (p NewBookEntryPayload) JobKind() string { return JobKindNewBookEntry }

func (p NewBookEntryPayload) Validate() error {
	if p.BookID == uuid.Nil {
		return fmt.Errorf("%w: new book entry requires a book id", ErrInvalidInput)
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: new book entry requires a title", ErrInvalidInput)
	}
	return nil
}

// ResizeImagePayload requests post-processing of an uploaded cover image
type ResizeImagePayload struct {
	ImagePath   string `json:"image_path"`
	TargetWidth int    `json:"target_width"`
}

func (p ResizeImagePayload) JobKind() string { return JobKindResizeImage }

func (p ResizeImagePayload) Validate() error {
	if strings.TrimSpace(p.ImagePath) == "" {
		return fmt.Errorf("%w: resize requires an image path", ErrInvalidInput)
	}
	if p.TargetWidth <= 0 {
		return fmt.Errorf("%w: resize width must be positive", ErrInvalidInput)
	}
	return nil
}
