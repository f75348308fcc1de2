package model

import "time"

// OrderStatus describes the order fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusPacked         OrderStatus = "packed"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusReturned       OrderStatus = "returned"
)

// IsTerminal reports whether no further automatic transition is allowed.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}

var statusRank = map[OrderStatus]int{
	OrderStatusPending:        0,
	OrderStatusProcessing:     1,
	OrderStatusPacked:         2,
	OrderStatusShipped:        3,
	OrderStatusOutForDelivery: 4,
	OrderStatusDelivered:      5,
}

// Rank orders statuses along the happy path. Cancelled and returned rank
// highest so nothing overtakes them.
func (s OrderStatus) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return 6
}

// OrderEvent identifies a lifecycle event fed to the state machine.
type OrderEvent string

const (
	EventPaymentCaptured  OrderEvent = "payment_captured"
	EventPaymentFailed    OrderEvent = "payment_failed"
	EventVendorPacked     OrderEvent = "vendor_marks_packed"
	EventCarrierShipped   OrderEvent = "carrier_shipped"
	EventCarrierOutForDel OrderEvent = "carrier_out_for_delivery"
	EventCarrierDelivered OrderEvent = "carrier_delivered"
	EventManualDelivered  OrderEvent = "manual_mark_delivered"
	EventAdminRefund      OrderEvent = "admin_refund"
	EventReturnRequested  OrderEvent = "return_requested"
)

// ShippingAddress is captured at checkout.
type ShippingAddress struct {
	Name     string
	Line1    string
	Line2    string
	City     string
	Postcode string
	Country  string
}

// Order describes one customer's purchase, possibly spanning several vendors.
// TotalAmount is fixed at creation and never recomputed; Version guards
// concurrent writers via compare-and-swap updates.
type Order struct {
	ID                   int64
	CustomerID           string
	Status               OrderStatus
	TotalAmount          int64
	Currency             string
	PaymentMethod        string
	Shipping             ShippingAddress
	TrackingNumber       *string
	Carrier              *Carrier
	EstimatedDeliveryAt  *time.Time
	ActualDeliveryAt     *time.Time
	LastTrackingUpdateAt *time.Time
	DeliveryNotes        string
	Version              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// OrderLineItem is one product line within an order. VendorID is denormalized
// at order time so later vendor reassignments cannot rewrite history;
// Subtotal = UnitPrice * Quantity, fixed at creation.
type OrderLineItem struct {
	ID        int64
	OrderID   int64
	ProductID string
	VendorID  string
	Quantity  int64
	UnitPrice int64
	Subtotal  int64
}

// SubmissionLine is one product line of a checkout request. UnitPrice is in
// minor units.
type SubmissionLine struct {
	ProductID string
	VendorID  string
	Quantity  int64
	UnitPrice int64
}

// OrderSubmission carries everything needed to open a pending order.
type OrderSubmission struct {
	CustomerID    string
	Currency      string
	PaymentMethod string
	Shipping      ShippingAddress
	Items         []SubmissionLine
}
