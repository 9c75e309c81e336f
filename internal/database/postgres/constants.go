package postgres

import "time"

// PostgreSQL error codes treated as retryable transaction conflicts
const (
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"
)

// DefaultClaimLease bounds how long a claimed job stays invisible before it
// is considered abandoned and becomes claimable again
const DefaultClaimLease = 5 * time.Minute
