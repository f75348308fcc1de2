package usecase

import (
	"context"

	"github.com/unimart/settlement/internal/domain/model"
)

// PaymentGateway is the engine's view of the payment provider. Implementations
// must bound every call with a timeout: a hung transfer may leave a ledger
// entry pending, never lose or double-send money.
type PaymentGateway interface {
	// CreatePaymentIntent registers the order's charge with the provider and
	// returns the client secret the storefront completes payment with.
	CreatePaymentIntent(ctx context.Context, order *model.Order, items []model.OrderLineItem) (string, error)
	// Transfer pays out to a vendor's destination account and returns the
	// provider's transfer id.
	Transfer(ctx context.Context, destination string, amount int64, currency string) (string, error)
	// Refund reverses a captured charge, fully when amount is nil, and
	// returns the provider's refund id.
	Refund(ctx context.Context, chargeRef string, amount *int64) (string, error)
}
