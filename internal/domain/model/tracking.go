package model

import "time"

// Carrier identifies a shipping carrier. The set is open: anything outside the
// known constants routes to the default normalizer.
type Carrier string

const (
	CarrierRoyalMail       Carrier = "royal_mail"
	CarrierDHL             Carrier = "dhl"
	CarrierFedEx           Carrier = "fedex"
	CarrierUPS             Carrier = "ups"
	CarrierEvri            Carrier = "evri"
	CarrierDPD             Carrier = "dpd"
	CarrierAmazonLogistics Carrier = "amazon_logistics"
	CarrierOther           Carrier = "other"
)

// TrackingStatus is the engine's canonical tracking vocabulary, independent of
// any carrier's native status set.
type TrackingStatus string

const (
	TrackingStatusProcessing     TrackingStatus = "processing"
	TrackingStatusShipped        TrackingStatus = "shipped"
	TrackingStatusOutForDelivery TrackingStatus = "out_for_delivery"
	TrackingStatusDelivered      TrackingStatus = "delivered"
)

// TrackingEvent is one entry in a shipment's history.
type TrackingEvent struct {
	Date        time.Time      `json:"date"`
	Status      TrackingStatus `json:"status"`
	Location    string         `json:"location"`
	Description string         `json:"description"`
}

// UnavailableSnapshot is the degraded snapshot reported when a carrier is
// unreachable, returns malformed data, or is not supported. Callers treat it
// as "no update yet", never as an error that blocks order progress.
func UnavailableSnapshot() TrackingSnapshot {
	return TrackingSnapshot{
		Status:       TrackingStatusProcessing,
		StatusDetail: "tracking information not available",
		Timestamp:    time.Now().UTC(),
		Events:       []TrackingEvent{},
	}
}

// TrackingPatch carries tracking fields merged into an order alongside an
// accepted status transition. Nil fields are left untouched.
type TrackingPatch struct {
	EstimatedDeliveryAt  *time.Time
	ActualDeliveryAt     *time.Time
	LastTrackingUpdateAt *time.Time
	DeliveryNotes        *string
}

// TrackingSnapshot is the canonical view of a shipment produced by a carrier
// normalizer. Events are sorted ascending by date and the latest event's
// status matches Status.
type TrackingSnapshot struct {
	Status            TrackingStatus  `json:"status"`
	StatusDetail      string          `json:"status_detail"`
	Location          string          `json:"location"`
	Timestamp         time.Time       `json:"timestamp"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery,omitempty"`
	IsDelivered       bool            `json:"is_delivered"`
	Events            []TrackingEvent `json:"events"`
}
