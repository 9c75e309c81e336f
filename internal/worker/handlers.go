package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anatole0000/book-store/internal/domain"
	"github.com/anatole0000/book-store/internal/notify"
)

// NewOrderConfirmationHandler emails the buyer after an order commits
func NewOrderConfirmationHandler(mailer notify.Mailer) HandlerFunc {
	return func(ctx context.Context, job *domain.Job) error {
		var payload domain.OrderConfirmationPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("malformed confirmation payload: %w", err)
		}

		var body strings.Builder
		fmt.Fprintf(&body, "Thank you for your order %s.\n\n", payload.OrderID)
		for _, line := range payload.Lines {
			fmt.Fprintf(&body, "  %dx %s\n", line.Quantity, line.Title)
		}
		fmt.Fprintf(&body, "\nTotal: $%d.%02d\n", payload.TotalCents/100, payload.TotalCents%100)

		return mailer.Send(ctx, notify.Email{
			To:      payload.Recipient,
			Subject: fmt.Sprintf("Order confirmation %s", payload.OrderID),
			Body:    body.String(),
		})
	}
}

// NewBookEntryHandler notifies administrators about a new catalog entry
func NewBookEntryHandler(mailer notify.Mailer, adminEmail string) HandlerFunc {
	return func(ctx context.Context, job *domain.Job) error {
		var payload domain.NewBookEntryPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("malformed new book payload: %w", err)
		}

		return mailer.Send(ctx, notify.Email{
			To:      adminEmail,
			Subject: fmt.Sprintf("New book added: %s", payload.Title),
			Body: fmt.Sprintf("Book %s (%q) was added to the catalog by %s.\n",
				payload.BookID, payload.Title, payload.AdminID),
		})
	}
}

// NewResizeImageHandler post-processes uploaded cover images
func NewResizeImageHandler(resizer notify.ImageResizer) HandlerFunc {
	return func(ctx context.Context, job *domain.Job) error {
		var payload domain.ResizeImagePayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("malformed resize payload: %w", err)
		}
		return resizer.Resize(ctx, payload.ImagePath, payload.TargetWidth)
	}
}
