package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"

	"github.com/unimart/settlement/internal/domain/model"
)

// Narrow views of the Stripe clients so tests can substitute stubs.
type stripeIntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type stripeTransferAPI interface {
	New(params *stripe.TransferParams) (*stripe.Transfer, error)
}

type stripeRefundAPI interface {
	New(params *stripe.RefundParams) (*stripe.Refund, error)
}

// StripeGateway implements the payment gateway port on top of Stripe payment
// intents, transfers and refunds. Every call carries a bounded deadline so a
// hung gateway can stall neither settlement nor the state machine.
type StripeGateway struct {
	intents   stripeIntentAPI
	transfers stripeTransferAPI
	refunds   stripeRefundAPI
	timeout   time.Duration
	logger    *slog.Logger
}

// NewStripeGateway constructs the gateway from a Stripe secret key.
func NewStripeGateway(apiKey string, timeout time.Duration, logger *slog.Logger) (*StripeGateway, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("stripe api key is required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	sc := client.New(apiKey, nil)
	return &StripeGateway{
		intents:   sc.PaymentIntents,
		transfers: sc.Transfers,
		refunds:   sc.Refunds,
		timeout:   timeout,
		logger:    logger,
	}, nil
}

// CreatePaymentIntent opens a payment intent for the order's frozen total and
// returns the client secret. The idempotency key is derived from the order id
// so a retried checkout reuses the same intent.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, order *model.Order, items []model.OrderLineItem) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(order.TotalAmount),
		Currency:           stripe.String(strings.ToLower(order.Currency)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Description:        stripe.String(fmt.Sprintf("order %d (%d items)", order.ID, len(items))),
		Metadata: map[string]string{
			"order_id":    strconv.FormatInt(order.ID, 10),
			"customer_id": order.CustomerID,
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(fmt.Sprintf("order-%d-intent", order.ID))

	intent, err := g.intents.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create payment intent: %w", err)
	}

	g.logger.Info("payment intent created",
		slog.Int64("order", order.ID),
		slog.String("intent", intent.ID),
	)
	return intent.ClientSecret, nil
}

// Transfer pays out to a vendor's connected account.
func (g *StripeGateway) Transfer(ctx context.Context, destination string, amount int64, currency string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.TransferParams{
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String(strings.ToLower(currency)),
		Destination: stripe.String(destination),
	}
	params.Context = ctx

	transfer, err := g.transfers.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe transfer: %w", err)
	}
	return transfer.ID, nil
}

// Refund reverses a captured payment intent, fully when amount is nil.
func (g *StripeGateway) Refund(ctx context.Context, chargeRef string, amount *int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(chargeRef),
	}
	if amount != nil {
		params.Amount = stripe.Int64(*amount)
	}
	params.Context = ctx

	refund, err := g.refunds.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe refund: %w", err)
	}
	return refund.ID, nil
}
