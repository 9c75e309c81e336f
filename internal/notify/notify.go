package notify

import "context"

// Email is a rendered message ready for delivery
type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers rendered emails. Implementations must be safe for
// concurrent use by multiple workers.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// ImageResizer post-processes uploaded cover images to a target width
type ImageResizer interface {
	Resize(ctx context.Context, imagePath string, targetWidth int) error
}
