package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest = "Invalid request body"
	ErrMsgInvalidBookID  = "Invalid book ID"
	ErrMsgInvalidOrderID = "Invalid order ID"

	// Header error messages
	ErrMsgUserIDRequired = "X-User-ID header is required"

	// Catalog operation error messages
	ErrMsgCreateBookFailed = "Failed to create book"
	ErrMsgGetBookFailed    = "Failed to get book"
	ErrMsgListBooksFailed  = "Failed to list books"
	ErrMsgUpdateBookFailed = "Failed to update book"
	ErrMsgDeleteBookFailed = "Failed to delete book"

	// Order operation error messages
	ErrMsgPlaceOrderFailed   = "Failed to place order"
	ErrMsgGetOrderFailed     = "Failed to get order"
	ErrMsgListOrdersFailed   = "Failed to list orders"
	ErrMsgUpdateOrderFailed  = "Failed to update order"
	ErrMsgDeleteOrderFailed  = "Failed to delete order"
	ErrMsgListFailedJobsFail = "Failed to list failed jobs"

	// Parameter validation error messages
	ErrMsgInvalidLimit  = "Invalid limit parameter"
	ErrMsgInvalidOffset = "Invalid offset parameter"
)

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgBookNotFoundHTTP    = "Book not found"
	ErrMsgBookUnavailableHTTP = "Book is not available for purchase"
	ErrMsgOutOfStockHTTP      = "Not enough copies in stock"
	ErrMsgOrderNotFoundHTTP   = "Order not found"
	ErrMsgOrderNotPendingHTTP = "Order has already entered fulfillment"
	ErrMsgBadTransitionHTTP   = "Order status can only move forward"
	ErrMsgForbiddenHTTP       = "You are not allowed to do that"
	ErrMsgConflictHTTP        = "The store is busy, please retry"
	ErrMsgBadInputHTTP        = "Invalid request. Please check your inputs."
)

// Success messages for API responses
const (
	MsgBookDeletedSuccess  = "Book deleted"
	MsgOrderDeletedSuccess = "Order deleted"
)
