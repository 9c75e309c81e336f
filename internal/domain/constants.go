package domain

// Order placement limits
const (
	// MaxOrderLines caps the number of line items in a single order request
	MaxOrderLines = 50

	// MaxOrderLineQuantity caps the quantity on a single line item
	MaxOrderLineQuantity = 1000
)

// Queue defaults
const (
	// DefaultMaxJobAttempts is how many times a job is attempted before it is
	// marked permanently failed. The original system never bounded retries;
	// three attempts keeps transient failures recoverable without letting a
	// poison job spin forever.
	DefaultMaxJobAttempts = 3
)
