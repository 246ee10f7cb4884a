package payment

import (
	"context"

	"storefront-service/internal/entity"
)

// Gateway abstracts the PIX payment provider so a real EFI Bank client can
// replace the simulator without touching the checkout flow.
type Gateway interface {
	// CreatePayment builds the displayable charge for an order total. The
	// returned code stays stable for the lifetime of one checkout attempt.
	CreatePayment(ctx context.Context, orderID string, total float64, email string) (*entity.PixCharge, error)

	// CheckStatus reports whether the charge was paid. Safe to call
	// repeatedly; it never mutates order state, the checkout flow owns that
	// transition.
	CheckStatus(ctx context.Context, orderID string) (entity.PaymentCheck, error)
}
