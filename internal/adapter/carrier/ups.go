package carrier

import (
	"encoding/json"
	"time"

	"github.com/unimart/settlement/internal/domain/model"
)

// UPS track API shipment payload. Dates arrive split as YYYYMMDD + HHMMSS.
type upsPayload struct {
	TrackResponse struct {
		Shipment []struct {
			Package []struct {
				Activity []struct {
					Date   string `json:"date"`
					Time   string `json:"time"`
					Status struct {
						Type        string `json:"type"`
						Description string `json:"description"`
					} `json:"status"`
					Location struct {
						Address struct {
							City string `json:"city"`
						} `json:"address"`
					} `json:"location"`
				} `json:"activity"`
				DeliveryDate []struct {
					Type string `json:"type"`
					Date string `json:"date"`
				} `json:"deliveryDate"`
			} `json:"package"`
		} `json:"shipment"`
	} `json:"trackResponse"`
}

var upsVocab = map[string]model.TrackingStatus{
	"M":  model.TrackingStatusProcessing,     // manifest pickup
	"P":  model.TrackingStatusShipped,        // pickup
	"I":  model.TrackingStatusShipped,        // in transit
	"O":  model.TrackingStatusOutForDelivery, // out for delivery
	"D":  model.TrackingStatusDelivered,      // delivered
	"DO": model.TrackingStatusDelivered,      // delivered origin CFS
}

type upsNormalizer struct{}

func (upsNormalizer) Normalize(raw []byte) model.TrackingSnapshot {
	var payload upsPayload
	if err := json.Unmarshal(raw, &payload); err != nil ||
		len(payload.TrackResponse.Shipment) == 0 ||
		len(payload.TrackResponse.Shipment[0].Package) == 0 {
		return model.UnavailableSnapshot()
	}

	pkg := payload.TrackResponse.Shipment[0].Package[0]
	events := make([]model.TrackingEvent, 0, len(pkg.Activity))
	for _, act := range pkg.Activity {
		date, err := time.Parse("20060102 150405", act.Date+" "+act.Time)
		if err != nil {
			continue
		}
		events = append(events, model.TrackingEvent{
			Date:        date,
			Status:      mapStatus(upsVocab, act.Status.Type),
			Location:    act.Location.Address.City,
			Description: act.Status.Description,
		})
	}

	var estimated *time.Time
	for _, dd := range pkg.DeliveryDate {
		if dd.Type != "SDD" && dd.Type != "RDD" {
			continue
		}
		if t, err := time.Parse("20060102", dd.Date); err == nil {
			estimated = &t
			break
		}
	}

	return buildSnapshot(events, estimated)
}
