package queue

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/anatole0000/book-store/internal/domain"
	"github.com/anatole0000/book-store/internal/logger"
)

// DeadLetterWriter appends jobs that exhausted their retries to a JSONL file
// so no failed work is ever silently lost
type DeadLetterWriter struct {
	file *os.File
	mu   sync.Mutex
}

// DeadLetterEntry represents a job that failed all of its delivery attempts
type DeadLetterEntry struct {
	SchemaVersion string     `json:"schema_version"` // Format version for future migrations
	Timestamp     time.Time  `json:"timestamp"`
	Job           domain.Job `json:"job"`
	LastError     string     `json:"last_error,omitempty"`
}

// NewDeadLetterWriter creates a new DeadLetterWriter
func NewDeadLetterWriter(path string) (*DeadLetterWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return nil, err
	}
	return &DeadLetterWriter{file: f}, nil
}

// Write appends a dead-lettered job to the file
func (dlw *DeadLetterWriter) Write(ctx context.Context, job *domain.Job, lastError error) error {
	dlw.mu.Lock()
	defer dlw.mu.Unlock()

	log := logger.FromContext(ctx)
	log.Warn("job_dead_lettered",
		"job_id", job.ID,
		"queue", job.Queue,
		"kind", job.Kind,
		"attempts", job.Attempts,
		"error", lastError)

	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Timestamp:     time.Now(),
		Job:           *job,
	}
	if lastError != nil {
		entry.LastError = lastError.Error()
	}

	data, _ := json.Marshal(entry)
	_, err := dlw.file.Write(append(data, '\n'))
	return err
}

// Close closes the dead-letter file
func (dlw *DeadLetterWriter) Close() error {
	return dlw.file.Close()
}
