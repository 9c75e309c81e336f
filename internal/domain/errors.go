package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Catalog errors
	ErrMsgBookNotFound = "book not found"

	// Inventory errors
	ErrMsgInsufficientStock = "insufficient stock"
	ErrMsgBookUnavailable   = "book is not available"

	// Order errors
	ErrMsgOrderNotFound     = "order not found"
	ErrMsgInvalidTransition = "invalid status transition"
	ErrMsgOrderNotPending   = "order is no longer pending"

	// Authorization errors
	ErrMsgForbidden = "forbidden"

	// Transaction errors
	ErrMsgTransactionConflict = "transaction conflict"
	ErrMsgTxClosed            = "tx is closed"

	// Queue errors
	ErrMsgJobNotFound    = "job not found"
	ErrMsgUnknownJobKind = "unknown job kind"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Catalog errors
	ErrBookNotFound = errors.New(ErrMsgBookNotFound)

	// Inventory errors
	ErrInsufficientStock = errors.New(ErrMsgInsufficientStock)
	ErrBookUnavailable   = errors.New(ErrMsgBookUnavailable)

	// Order errors
	ErrOrderNotFound     = errors.New(ErrMsgOrderNotFound)
	ErrInvalidTransition = errors.New(ErrMsgInvalidTransition)
	ErrOrderNotPending   = errors.New(ErrMsgOrderNotPending)

	// Authorization errors
	ErrForbidden = errors.New(ErrMsgForbidden)

	// Transaction errors
	ErrTransactionConflict = errors.New(ErrMsgTransactionConflict)

	// Queue errors
	ErrJobNotFound    = errors.New(ErrMsgJobNotFound)
	ErrUnknownJobKind = errors.New(ErrMsgUnknownJobKind)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
