package carrier

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/unimart/settlement/internal/domain/model"
)

// Normalizer converts one carrier's raw tracking payload into the canonical
// snapshot. Normalizers never fail: malformed or empty input degrades to the
// "not available" snapshot, which callers treat as no update. Any native
// status missing from a carrier's vocabulary maps to processing, never to
// delivered.
type Normalizer interface {
	Normalize(raw []byte) model.TrackingSnapshot
}

// defaultNormalizer serves unknown carriers and the explicit "other" id.
type defaultNormalizer struct{}

func (defaultNormalizer) Normalize([]byte) model.TrackingSnapshot {
	return model.UnavailableSnapshot()
}

// Registry routes a carrier id to its normalizer, falling back to the default
// variant so an unsupported carrier can never fail or fake a delivery.
type Registry struct {
	byCarrier map[model.Carrier]Normalizer
	fallback  Normalizer
}

// NewRegistry builds the registry with all supported carrier variants.
func NewRegistry() *Registry {
	return &Registry{
		byCarrier: map[model.Carrier]Normalizer{
			model.CarrierRoyalMail:       royalMailNormalizer{},
			model.CarrierDHL:             dhlNormalizer{},
			model.CarrierFedEx:           fedexNormalizer{},
			model.CarrierUPS:             upsNormalizer{},
			model.CarrierEvri:            parcelNormalizer{vocab: evriVocab},
			model.CarrierDPD:             parcelNormalizer{vocab: dpdVocab},
			model.CarrierAmazonLogistics: parcelNormalizer{vocab: amazonVocab},
		},
		fallback: defaultNormalizer{},
	}
}

// For returns the normalizer for the carrier, or the default variant.
func (r *Registry) For(carrier model.Carrier) Normalizer {
	if n, ok := r.byCarrier[carrier]; ok {
		return n
	}
	return r.fallback
}

// Service combines fetching and normalization behind the tracking provider
// contract. Fetch failures and timeouts degrade to the "not available"
// snapshot instead of blocking the state machine.
type Service struct {
	fetcher  Fetcher
	registry *Registry
	logger   *slog.Logger
}

// NewService constructs the carrier tracking service.
func NewService(fetcher Fetcher, registry *Registry, logger *slog.Logger) *Service {
	return &Service{fetcher: fetcher, registry: registry, logger: logger}
}

// Snapshot fetches and normalizes the shipment's current state.
func (s *Service) Snapshot(ctx context.Context, carrier model.Carrier, trackingNumber string) model.TrackingSnapshot {
	raw, err := s.fetcher.FetchTracking(ctx, carrier, trackingNumber)
	if err != nil {
		s.logger.Warn("carrier fetch failed",
			slog.String("carrier", string(carrier)),
			slog.String("tracking_number", trackingNumber),
			slog.String("error", err.Error()),
		)
		return model.UnavailableSnapshot()
	}
	return s.registry.For(carrier).Normalize(raw)
}

// Normalize converts an already-received raw payload, e.g. from an inbound
// carrier webhook.
func (s *Service) Normalize(carrier model.Carrier, raw []byte) model.TrackingSnapshot {
	return s.registry.For(carrier).Normalize(raw)
}

// buildSnapshot assembles the canonical snapshot from parsed events: sorted
// ascending, top-level fields mirroring the latest event.
func buildSnapshot(events []model.TrackingEvent, estimated *time.Time) model.TrackingSnapshot {
	if len(events) == 0 {
		return model.UnavailableSnapshot()
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	latest := events[len(events)-1]
	return model.TrackingSnapshot{
		Status:            latest.Status,
		StatusDetail:      latest.Description,
		Location:          latest.Location,
		Timestamp:         latest.Date,
		EstimatedDelivery: estimated,
		IsDelivered:       latest.Status == model.TrackingStatusDelivered,
		Events:            events,
	}
}

// mapStatus resolves a native status code against a carrier vocabulary,
// defaulting to processing for anything unmapped.
func mapStatus(vocab map[string]model.TrackingStatus, code string) model.TrackingStatus {
	if status, ok := vocab[code]; ok {
		return status
	}
	return model.TrackingStatusProcessing
}
