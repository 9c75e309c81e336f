package config

import "time"

// Defaults applied when the corresponding environment variable is unset
const (
	DefaultPort             = 8080
	DefaultJobMaxAttempts   = 3
	DefaultWorkersPerQueue  = 2
	DefaultImageTargetWidth = 800
	DefaultJobPollInterval  = 500 * time.Millisecond
	DefaultJobClaimLease    = 5 * time.Minute
	DefaultEnqueueTimeout   = 2 * time.Second
)
