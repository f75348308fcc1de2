package carrier

import (
	"encoding/json"
	"time"

	"github.com/unimart/settlement/internal/domain/model"
)

// FedEx track API output payload.
type fedexPayload struct {
	Output struct {
		CompleteTrackResults []struct {
			TrackResults []struct {
				EstimatedDeliveryTimeWindow struct {
					Ends string `json:"ends"`
				} `json:"estimatedDeliveryTimeWindow"`
				ScanEvents []struct {
					Date              string `json:"date"`
					DerivedStatusCode string `json:"derivedStatusCode"`
					EventDescription  string `json:"eventDescription"`
					ScanLocation      struct {
						City string `json:"city"`
					} `json:"scanLocation"`
				} `json:"scanEvents"`
			} `json:"trackResults"`
		} `json:"completeTrackResults"`
	} `json:"output"`
}

var fedexVocab = map[string]model.TrackingStatus{
	"IN":  model.TrackingStatusProcessing,     // initiated
	"IT":  model.TrackingStatusShipped,        // in transit
	"PU":  model.TrackingStatusShipped,        // picked up
	"AR":  model.TrackingStatusShipped,        // arrived at facility
	"OD":  model.TrackingStatusOutForDelivery, // out for delivery
	"DL":  model.TrackingStatusDelivered,      // delivered
	"HAL": model.TrackingStatusDelivered,      // held at location, recipient collected
}

type fedexNormalizer struct{}

func (fedexNormalizer) Normalize(raw []byte) model.TrackingSnapshot {
	var payload fedexPayload
	if err := json.Unmarshal(raw, &payload); err != nil ||
		len(payload.Output.CompleteTrackResults) == 0 ||
		len(payload.Output.CompleteTrackResults[0].TrackResults) == 0 {
		return model.UnavailableSnapshot()
	}

	result := payload.Output.CompleteTrackResults[0].TrackResults[0]
	events := make([]model.TrackingEvent, 0, len(result.ScanEvents))
	for _, ev := range result.ScanEvents {
		date, err := time.Parse(time.RFC3339, ev.Date)
		if err != nil {
			continue
		}
		events = append(events, model.TrackingEvent{
			Date:        date,
			Status:      mapStatus(fedexVocab, ev.DerivedStatusCode),
			Location:    ev.ScanLocation.City,
			Description: ev.EventDescription,
		})
	}

	var estimated *time.Time
	if ends := result.EstimatedDeliveryTimeWindow.Ends; ends != "" {
		if t, err := time.Parse(time.RFC3339, ends); err == nil {
			estimated = &t
		}
	}

	return buildSnapshot(events, estimated)
}
