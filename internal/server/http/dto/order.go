package dto

import "time"

// ShippingAddress mirrors the checkout shipping block.
type ShippingAddress struct {
	Name     string `json:"name"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

// LineItemRequest is one product line in a checkout request. Prices are in
// minor units.
type LineItemRequest struct {
	ProductID string `json:"product_id"`
	VendorID  string `json:"vendor_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// SubmitOrderRequest describes the checkout payload.
type SubmitOrderRequest struct {
	CustomerID    string            `json:"customer_id"`
	Currency      string            `json:"currency,omitempty"`
	PaymentMethod string            `json:"payment_method,omitempty"`
	Shipping      ShippingAddress   `json:"shipping"`
	Items         []LineItemRequest `json:"items"`
}

// LineItemResponse is one frozen order line.
type LineItemResponse struct {
	ProductID string `json:"product_id"`
	VendorID  string `json:"vendor_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

// OrderResponse describes an order with its tracking fields.
type OrderResponse struct {
	ID                   int64              `json:"id"`
	CustomerID           string             `json:"customer_id"`
	Status               string             `json:"status"`
	TotalAmount          int64              `json:"total_amount"`
	Currency             string             `json:"currency"`
	PaymentMethod        string             `json:"payment_method,omitempty"`
	Shipping             ShippingAddress    `json:"shipping"`
	TrackingNumber       *string            `json:"tracking_number,omitempty"`
	Carrier              *string            `json:"carrier,omitempty"`
	EstimatedDeliveryAt  *time.Time         `json:"estimated_delivery_at,omitempty"`
	ActualDeliveryAt     *time.Time         `json:"actual_delivery_at,omitempty"`
	LastTrackingUpdateAt *time.Time         `json:"last_tracking_update_at,omitempty"`
	DeliveryNotes        string             `json:"delivery_notes,omitempty"`
	CreatedAt            time.Time          `json:"created_at"`
	Items                []LineItemResponse `json:"items,omitempty"`
}

// SubmitOrderResponse returns the created order and the payment client secret.
type SubmitOrderResponse struct {
	Order        OrderResponse `json:"order"`
	ClientSecret string        `json:"client_secret"`
}

// RefundRequest optionally limits the refund amount; full refund when omitted.
type RefundRequest struct {
	Amount *int64 `json:"amount,omitempty"`
}

// LedgerEntryResponse describes one money movement record.
type LedgerEntryResponse struct {
	ID          string    `json:"id"`
	OrderID     int64     `json:"order_id"`
	VendorID    *string   `json:"vendor_id,omitempty"`
	Kind        string    `json:"kind"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	State       string    `json:"state"`
	ExternalRef string    `json:"external_ref"`
	CreatedAt   time.Time `json:"created_at"`
}
