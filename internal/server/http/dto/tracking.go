package dto

// UpdateTrackingRequest attaches carrier tracking data to an order.
type UpdateTrackingRequest struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
}

// PaymentWebhookRequest mirrors the gateway's webhook envelope after upstream
// signature verification.
type PaymentWebhookRequest struct {
	Type      string `json:"type"`
	OrderID   int64  `json:"order_id"`
	ChargeRef string `json:"charge_ref,omitempty"`
}
