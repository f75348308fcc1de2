package carrier

import (
	"encoding/json"
	"time"

	"github.com/unimart/settlement/internal/domain/model"
)

// DHL unified shipment tracking payload.
type dhlPayload struct {
	Shipments []struct {
		EstimatedTimeOfDelivery string `json:"estimatedTimeOfDelivery"`
		Events                  []struct {
			Timestamp   string `json:"timestamp"`
			StatusCode  string `json:"statusCode"`
			Description string `json:"description"`
			Location    struct {
				Address struct {
					AddressLocality string `json:"addressLocality"`
				} `json:"address"`
			} `json:"location"`
		} `json:"events"`
	} `json:"shipments"`
}

var dhlVocab = map[string]model.TrackingStatus{
	"pre-transit":      model.TrackingStatusProcessing,
	"transit":          model.TrackingStatusShipped,
	"out-for-delivery": model.TrackingStatusOutForDelivery,
	"delivered":        model.TrackingStatusDelivered,
}

type dhlNormalizer struct{}

func (dhlNormalizer) Normalize(raw []byte) model.TrackingSnapshot {
	var payload dhlPayload
	if err := json.Unmarshal(raw, &payload); err != nil || len(payload.Shipments) == 0 {
		return model.UnavailableSnapshot()
	}

	shipment := payload.Shipments[0]
	events := make([]model.TrackingEvent, 0, len(shipment.Events))
	for _, ev := range shipment.Events {
		date, err := time.Parse(time.RFC3339, ev.Timestamp)
		if err != nil {
			continue
		}
		events = append(events, model.TrackingEvent{
			Date:        date,
			Status:      mapStatus(dhlVocab, ev.StatusCode),
			Location:    ev.Location.Address.AddressLocality,
			Description: ev.Description,
		})
	}

	var estimated *time.Time
	if shipment.EstimatedTimeOfDelivery != "" {
		if t, err := time.Parse(time.RFC3339, shipment.EstimatedTimeOfDelivery); err == nil {
			estimated = &t
		}
	}

	return buildSnapshot(events, estimated)
}
