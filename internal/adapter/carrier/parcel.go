package carrier

import (
	"encoding/json"
	"time"

	"github.com/unimart/settlement/internal/domain/model"
)

// Evri, DPD and Amazon Logistics arrive through the parcel aggregator in a
// shared envelope; only the native status vocabulary differs per carrier.
type parcelPayload struct {
	EstimatedDelivery string `json:"estimatedDelivery"`
	Events            []struct {
		Timestamp   string `json:"timestamp"`
		Code        string `json:"code"`
		Location    string `json:"location"`
		Description string `json:"description"`
	} `json:"events"`
}

var evriVocab = map[string]model.TrackingStatus{
	"COLLECTED":        model.TrackingStatusShipped,
	"AT_DEPOT":         model.TrackingStatusShipped,
	"ON_ROUND":         model.TrackingStatusOutForDelivery,
	"DELIVERED":        model.TrackingStatusDelivered,
	"DELIVERED_SAFE":   model.TrackingStatusDelivered,
	"DELIVERED_NEIGHB": model.TrackingStatusDelivered,
}

var dpdVocab = map[string]model.TrackingStatus{
	"ACCEPTED":         model.TrackingStatusProcessing,
	"AT_HUB":           model.TrackingStatusShipped,
	"IN_TRANSIT":       model.TrackingStatusShipped,
	"OUT_FOR_DELIVERY": model.TrackingStatusOutForDelivery,
	"DELIVERED":        model.TrackingStatusDelivered,
	"PICKUP_COLLECTED": model.TrackingStatusDelivered,
}

var amazonVocab = map[string]model.TrackingStatus{
	"PACKAGE_RECEIVED":    model.TrackingStatusProcessing,
	"SHIPPED":             model.TrackingStatusShipped,
	"IN_TRANSIT":          model.TrackingStatusShipped,
	"OUT_FOR_DELIVERY":    model.TrackingStatusOutForDelivery,
	"DELIVERED":           model.TrackingStatusDelivered,
	"DELIVERED_TO_LOCKER": model.TrackingStatusDelivered,
}

type parcelNormalizer struct {
	vocab map[string]model.TrackingStatus
}

func (n parcelNormalizer) Normalize(raw []byte) model.TrackingSnapshot {
	var payload parcelPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return model.UnavailableSnapshot()
	}

	events := make([]model.TrackingEvent, 0, len(payload.Events))
	for _, ev := range payload.Events {
		date, err := time.Parse(time.RFC3339, ev.Timestamp)
		if err != nil {
			continue
		}
		events = append(events, model.TrackingEvent{
			Date:        date,
			Status:      mapStatus(n.vocab, ev.Code),
			Location:    ev.Location,
			Description: ev.Description,
		})
	}

	var estimated *time.Time
	if payload.EstimatedDelivery != "" {
		if t, err := time.Parse(time.RFC3339, payload.EstimatedDelivery); err == nil {
			estimated = &t
		}
	}

	return buildSnapshot(events, estimated)
}
