package catalog

import "time"

// Cache configuration
const (
	// DefaultCacheSize is the maximum number of books kept in the read cache
	DefaultCacheSize = 512

	// DefaultCacheTTL bounds how stale a cached book can get
	DefaultCacheTTL = 5 * time.Minute
)

// Log message constants
const (
	LogMsgBookCreated          = "Book created"
	LogMsgBookUpdated          = "Book updated"
	LogMsgBookDeleted          = "Book deleted"
	LogMsgNewBookEnqueueFailed = "Failed to enqueue new book notification"
	LogMsgResizeEnqueueFailed  = "Failed to enqueue image resize"
)
