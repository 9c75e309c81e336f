package worker

import "time"

// Pool configuration
const (
	// DequeueErrorBackoff is how long a worker sleeps after a failed claim
	// before trying again, so a store outage does not spin the loop
	DequeueErrorBackoff = time.Second
)

// Log message constants
const (
	LogMsgWorkerStarted       = "Worker started"
	LogMsgWorkerStopped       = "Worker stopped"
	LogMsgJobHandlerFailed    = "Job handler failed"
	LogMsgJobHandlerPanicked  = "Job handler panicked"
	LogMsgNoHandlerForJob     = "No handler registered for job"
	LogMsgDequeueFailed       = "Failed to dequeue job"
	LogMsgAckFailed           = "Failed to ack job"
	LogMsgNackFailed          = "Failed to nack job"
	LogMsgPoolShutdownWaiting = "Waiting for workers to drain"
	LogMsgPoolShutdownDone    = "Worker pool shutdown complete"
	LogMsgPoolShutdownTimeout = "Worker pool shutdown timed out"
)
