package queue

// Dead letter file configuration
const (
	// DeadLetterSchemaVersion is the current version of the dead-letter log format
	// Increment this when changing the DeadLetterEntry structure
	DeadLetterSchemaVersion = "1.0"

	// DeadLetterFilePermissions is the file permission mode for dead-letter files
	DeadLetterFilePermissions = 0644
)

// Log message constants
const (
	LogMsgJobEnqueued           = "Job enqueued"
	LogMsgJobClaimed            = "Job claimed"
	LogMsgJobCompleted          = "Job completed"
	LogMsgJobReleasedForRetry   = "Job released for retry"
	LogMsgJobRetriesExhausted   = "Job retries exhausted, writing to dead-letter"
	LogMsgDeadLetterWriteFailed = "Failed to write to dead letter"
)
