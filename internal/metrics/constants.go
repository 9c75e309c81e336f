package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Order metric names
const (
	MetricNameOrdersPlaced         = "orders_placed_total"
	MetricNameOrdersRejected       = "orders_rejected_total"
	MetricNameOrderConflictRetries = "order_conflict_retries_total"
	MetricNameBooksSold            = "books_sold_total"
	MetricNameRevenueCents         = "revenue_cents_total"
)

// Job queue metric names
const (
	MetricNameJobsEnqueued     = "jobs_enqueued_total"
	MetricNameJobsProcessed    = "jobs_processed_total"
	MetricNameJobsDeadLettered = "jobs_dead_lettered_total"
	MetricNameJobDuration      = "job_duration_seconds"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Order metric help text
const (
	HelpTextOrdersPlaced         = "Total number of orders committed"
	HelpTextOrdersRejected       = "Total number of order placements rejected"
	HelpTextOrderConflictRetries = "Total number of order transactions retried after a conflict"
	HelpTextBooksSold            = "Total number of book copies sold"
	HelpTextRevenueCents         = "Total revenue from committed orders, in cents"
)

// Job queue metric help text
const (
	HelpTextJobsEnqueued     = "Total number of jobs enqueued"
	HelpTextJobsProcessed    = "Total number of jobs processed by workers"
	HelpTextJobsDeadLettered = "Total number of jobs that exhausted their retries"
	HelpTextJobDuration      = "Job handler execution time in seconds"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelReason  = "reason"
	LabelQueue   = "queue"
	LabelKind    = "kind"
	LabelOutcome = "outcome"
)

// Outcome label values for processed jobs
const (
	OutcomeCompleted = "completed"
	OutcomeRetried   = "retried"
	OutcomeFailed    = "failed"
)

// Reason label values for rejected orders
const (
	ReasonInsufficientStock = "insufficient_stock"
	ReasonBookNotFound      = "book_not_found"
	ReasonInvalidInput      = "invalid_input"
	ReasonConflict          = "conflict"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// JobDurationBuckets covers handler runtimes from milliseconds (emails) up to
// a minute (image processing)
var JobDurationBuckets = []float64{.005, .01, .05, .1, .5, 1, 5, 15, 30, 60}
