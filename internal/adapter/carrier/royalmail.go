package carrier

import (
	"encoding/json"
	"time"

	"github.com/unimart/settlement/internal/domain/model"
)

// Royal Mail Tracking API v2 mail pieces payload.
type royalMailPayload struct {
	MailPieces struct {
		Summary struct {
			StatusCategory    string `json:"statusCategory"`
			StatusDescription string `json:"statusDescription"`
			EstimatedDelivery struct {
				Date string `json:"date"`
			} `json:"estimatedDelivery"`
		} `json:"summary"`
		Events []struct {
			EventCode     string `json:"eventCode"`
			EventName     string `json:"eventName"`
			LocationName  string `json:"locationName"`
			EventDateTime string `json:"eventDateTime"`
		} `json:"events"`
	} `json:"mailPieces"`
}

var royalMailVocab = map[string]model.TrackingStatus{
	"EVNMI": model.TrackingStatusProcessing,     // notification of items received
	"EVAIE": model.TrackingStatusProcessing,     // item received at origin
	"EVDAC": model.TrackingStatusShipped,        // accepted at delivery office
	"EVIMC": model.TrackingStatusShipped,        // item in transit to mail centre
	"EVNRT": model.TrackingStatusShipped,        // item at national hub
	"EVODO": model.TrackingStatusOutForDelivery, // with delivery postie
	"EVKSF": model.TrackingStatusDelivered,      // delivered to safe place
	"EVKOP": model.TrackingStatusDelivered,      // delivered
	"EVKSP": model.TrackingStatusDelivered,      // delivered with signature
}

type royalMailNormalizer struct{}

func (royalMailNormalizer) Normalize(raw []byte) model.TrackingSnapshot {
	var payload royalMailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return model.UnavailableSnapshot()
	}

	events := make([]model.TrackingEvent, 0, len(payload.MailPieces.Events))
	for _, ev := range payload.MailPieces.Events {
		date, err := time.Parse(time.RFC3339, ev.EventDateTime)
		if err != nil {
			continue
		}
		events = append(events, model.TrackingEvent{
			Date:        date,
			Status:      mapStatus(royalMailVocab, ev.EventCode),
			Location:    ev.LocationName,
			Description: ev.EventName,
		})
	}

	var estimated *time.Time
	if d := payload.MailPieces.Summary.EstimatedDelivery.Date; d != "" {
		if t, err := time.Parse("2006-01-02", d); err == nil {
			estimated = &t
		}
	}

	return buildSnapshot(events, estimated)
}
