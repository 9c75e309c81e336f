package order

// Placement retry configuration
const (
	// MaxPlacementAttempts bounds how many times a placement transaction is
	// retried after a serialization conflict before giving up
	MaxPlacementAttempts = 3
)

// Log message constants
const (
	LogMsgOrderPlaced             = "Order placed"
	LogMsgOrderRejected           = "Order placement rejected"
	LogMsgPlacementConflictRetry  = "Placement transaction conflicted, retrying"
	LogMsgOrderStatusUpdated      = "Order status updated"
	LogMsgOrderDeleted            = "Order deleted"
	LogMsgConfirmationEnqueueFail = "Failed to enqueue order confirmation"
	LogMsgShutdownWaitingEnqueues = "Waiting for in-flight confirmation enqueues"
	LogMsgShutdownComplete        = "Order service shutdown complete"
	LogMsgShutdownTimeout         = "Order service shutdown timed out"
)
