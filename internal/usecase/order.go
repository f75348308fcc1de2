package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/unimart/settlement/internal/domain/errors"
	"github.com/unimart/settlement/internal/domain/model"
	"github.com/unimart/settlement/internal/domain/repository"
)

const defaultCurrency = "USD"

// OrderUseCase encapsulates order intake and the manual lifecycle operations.
type OrderUseCase struct {
	orders  repository.OrderRepository
	gateway PaymentGateway
	logger  *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, gateway PaymentGateway, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, gateway: gateway, logger: logger}
}

// Submit creates a pending order, freezing line item prices and vendor
// assignments, and opens a payment intent with the gateway. Returns the
// persisted order, its items and the intent's client secret.
func (u *OrderUseCase) Submit(ctx context.Context, in model.OrderSubmission) (*model.Order, []model.OrderLineItem, string, error) {
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, nil, "", fmt.Errorf("%w: customer id required", domainErrors.ErrInvalidLineItems)
	}
	if len(in.Items) == 0 {
		return nil, nil, "", fmt.Errorf("%w: order needs at least one line item", domainErrors.ErrInvalidLineItems)
	}

	items := make([]model.OrderLineItem, 0, len(in.Items))
	var total int64
	for _, li := range in.Items {
		if strings.TrimSpace(li.ProductID) == "" || strings.TrimSpace(li.VendorID) == "" {
			return nil, nil, "", fmt.Errorf("%w: product and vendor ids required", domainErrors.ErrInvalidLineItems)
		}
		if li.Quantity <= 0 || li.UnitPrice <= 0 {
			return nil, nil, "", fmt.Errorf("%w: quantity and unit price must be positive", domainErrors.ErrInvalidAmount)
		}
		subtotal := li.UnitPrice * li.Quantity
		items = append(items, model.OrderLineItem{
			ProductID: li.ProductID,
			VendorID:  li.VendorID,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
			Subtotal:  subtotal,
		})
		total += subtotal
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	order := &model.Order{
		CustomerID:    in.CustomerID,
		Status:        model.OrderStatusPending,
		TotalAmount:   total,
		Currency:      currency,
		PaymentMethod: in.PaymentMethod,
		Shipping:      in.Shipping,
	}

	created, err := u.orders.Create(ctx, order, items)
	if err != nil {
		return nil, nil, "", fmt.Errorf("create order: %w", err)
	}
	for i := range items {
		items[i].OrderID = created.ID
	}

	clientSecret, err := u.gateway.CreatePaymentIntent(ctx, created, items)
	if err != nil {
		// The pending order survives; checkout can be retried against it.
		return nil, nil, "", fmt.Errorf("create payment intent: %w", err)
	}

	return created, items, clientSecret, nil
}

// Get returns an order with its line items.
func (u *OrderUseCase) Get(ctx context.Context, orderID int64) (*model.Order, []model.OrderLineItem, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	items, err := u.orders.ListItems(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

// ListByCustomer returns a customer's orders sorted by creation time.
func (u *OrderUseCase) ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	return u.orders.ListByCustomer(ctx, customerID)
}

// MarkPacked records that the vendor packed the order.
func (u *OrderUseCase) MarkPacked(ctx context.Context, orderID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order, _, err = applyEvent(ctx, u.orders, u.logger, order, model.EventVendorPacked, model.TrackingPatch{})
	return order, err
}

// MarkDelivered is the manual override for support staff.
func (u *OrderUseCase) MarkDelivered(ctx context.Context, orderID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	notes := "marked delivered manually"
	order, _, err = applyEvent(ctx, u.orders, u.logger, order, model.EventManualDelivered, model.TrackingPatch{DeliveryNotes: &notes})
	return order, err
}
