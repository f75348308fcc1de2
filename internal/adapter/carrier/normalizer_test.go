package carrier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/unimart/settlement/internal/domain/model"
	testhelpers "github.com/unimart/settlement/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestRoyalMailNormalizeDelivered(t *testing.T) {
	raw := []byte(`{
		"mailPieces": {
			"summary": {
				"statusCategory": "Delivered",
				"statusDescription": "Delivered",
				"estimatedDelivery": {"date": "2025-06-02"}
			},
			"events": [
				{"eventCode": "EVAIE", "eventName": "Item received", "locationName": "Gatwick MC", "eventDateTime": "2025-05-30T08:00:00Z"},
				{"eventCode": "EVODO", "eventName": "Out for delivery", "locationName": "Brighton DO", "eventDateTime": "2025-06-02T07:30:00Z"},
				{"eventCode": "EVKSP", "eventName": "Delivered with signature", "locationName": "Brighton", "eventDateTime": "2025-06-02T11:15:00Z"}
			]
		}
	}`)

	snapshot := royalMailNormalizer{}.Normalize(raw)
	if snapshot.Status != model.TrackingStatusDelivered || !snapshot.IsDelivered {
		t.Fatalf("expected delivered snapshot, got %+v", snapshot)
	}
	if snapshot.Location != "Brighton" || snapshot.StatusDetail != "Delivered with signature" {
		t.Fatalf("top-level fields must mirror latest event: %+v", snapshot)
	}
	if len(snapshot.Events) != 3 || snapshot.Events[0].Status != model.TrackingStatusProcessing {
		t.Fatalf("unexpected events: %+v", snapshot.Events)
	}
	if snapshot.EstimatedDelivery == nil || snapshot.EstimatedDelivery.Format("2006-01-02") != "2025-06-02" {
		t.Fatalf("unexpected estimate: %v", snapshot.EstimatedDelivery)
	}
}

func TestRoyalMailNormalizeSortsOutOfOrderEvents(t *testing.T) {
	raw := []byte(`{
		"mailPieces": {
			"summary": {},
			"events": [
				{"eventCode": "EVKOP", "eventName": "Delivered", "eventDateTime": "2025-06-02T11:00:00Z"},
				{"eventCode": "EVAIE", "eventName": "Item received", "eventDateTime": "2025-05-30T08:00:00Z"}
			]
		}
	}`)

	snapshot := royalMailNormalizer{}.Normalize(raw)
	if snapshot.Status != model.TrackingStatusDelivered {
		t.Fatalf("latest event must win regardless of payload order, got %s", snapshot.Status)
	}
	if !snapshot.Events[0].Date.Before(snapshot.Events[1].Date) {
		t.Fatalf("events must be sorted ascending")
	}
}

func TestDHLNormalizeInTransit(t *testing.T) {
	raw := []byte(`{
		"shipments": [{
			"estimatedTimeOfDelivery": "2025-06-03T17:00:00Z",
			"events": [
				{"timestamp": "2025-05-31T09:00:00Z", "statusCode": "pre-transit", "description": "Label created", "location": {"address": {"addressLocality": "Leipzig"}}},
				{"timestamp": "2025-06-01T14:00:00Z", "statusCode": "transit", "description": "In transit", "location": {"address": {"addressLocality": "Cologne"}}}
			]
		}]
	}`)

	snapshot := dhlNormalizer{}.Normalize(raw)
	if snapshot.Status != model.TrackingStatusShipped || snapshot.IsDelivered {
		t.Fatalf("expected shipped snapshot, got %+v", snapshot)
	}
	if snapshot.Location != "Cologne" {
		t.Fatalf("unexpected location %q", snapshot.Location)
	}
	if snapshot.EstimatedDelivery == nil {
		t.Fatalf("expected estimate")
	}
}

func TestFedExNormalizeOutForDelivery(t *testing.T) {
	raw := []byte(`{
		"output": {
			"completeTrackResults": [{
				"trackResults": [{
					"estimatedDeliveryTimeWindow": {"ends": "2025-06-02T20:00:00Z"},
					"scanEvents": [
						{"date": "2025-06-01T06:00:00Z", "derivedStatusCode": "PU", "eventDescription": "Picked up", "scanLocation": {"city": "MEMPHIS"}},
						{"date": "2025-06-02T08:00:00Z", "derivedStatusCode": "OD", "eventDescription": "On FedEx vehicle for delivery", "scanLocation": {"city": "AUSTIN"}}
					]
				}]
			}]
		}
	}`)

	snapshot := fedexNormalizer{}.Normalize(raw)
	if snapshot.Status != model.TrackingStatusOutForDelivery {
		t.Fatalf("expected out_for_delivery, got %s", snapshot.Status)
	}
	if snapshot.Location != "AUSTIN" {
		t.Fatalf("unexpected location %q", snapshot.Location)
	}
}

func TestUPSNormalizeSplitDates(t *testing.T) {
	raw := []byte(`{
		"trackResponse": {
			"shipment": [{
				"package": [{
					"activity": [
						{"date": "20250601", "time": "091500", "status": {"type": "I", "description": "Departed from facility"}, "location": {"address": {"city": "Louisville"}}},
						{"date": "20250602", "time": "103000", "status": {"type": "D", "description": "Delivered"}, "location": {"address": {"city": "Portland"}}}
					],
					"deliveryDate": [{"type": "SDD", "date": "20250602"}]
				}]
			}]
		}
	}`)

	snapshot := upsNormalizer{}.Normalize(raw)
	if snapshot.Status != model.TrackingStatusDelivered || !snapshot.IsDelivered {
		t.Fatalf("expected delivered, got %+v", snapshot)
	}
	want := time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)
	if !snapshot.Timestamp.Equal(want) {
		t.Fatalf("expected timestamp %v, got %v", want, snapshot.Timestamp)
	}
	if snapshot.EstimatedDelivery == nil || snapshot.EstimatedDelivery.Format("20060102") != "20250602" {
		t.Fatalf("unexpected estimate: %v", snapshot.EstimatedDelivery)
	}
}

func TestParcelNormalizePerCarrierVocab(t *testing.T) {
	raw := []byte(`{
		"events": [
			{"timestamp": "2025-06-01T10:00:00Z", "code": "ON_ROUND", "location": "Sheffield", "description": "Courier on round"}
		]
	}`)

	evri := parcelNormalizer{vocab: evriVocab}.Normalize(raw)
	if evri.Status != model.TrackingStatusOutForDelivery {
		t.Fatalf("evri ON_ROUND must be out_for_delivery, got %s", evri.Status)
	}

	// The same code means nothing to DPD and must degrade to processing.
	dpd := parcelNormalizer{vocab: dpdVocab}.Normalize(raw)
	if dpd.Status != model.TrackingStatusProcessing {
		t.Fatalf("unmapped code must map to processing, got %s", dpd.Status)
	}
	if dpd.IsDelivered {
		t.Fatalf("unmapped code must never read as delivered")
	}
}

func TestNormalizeMalformedPayloads(t *testing.T) {
	payloads := [][]byte{
		[]byte(`not json`),
		[]byte(`{}`),
		[]byte(`{"mailPieces": {"events": []}}`),
		nil,
	}
	normalizers := []Normalizer{
		royalMailNormalizer{},
		dhlNormalizer{},
		fedexNormalizer{},
		upsNormalizer{},
		parcelNormalizer{vocab: evriVocab},
		defaultNormalizer{},
	}
	for _, n := range normalizers {
		for _, raw := range payloads {
			snapshot := n.Normalize(raw)
			if snapshot.IsDelivered {
				t.Fatalf("%T: malformed payload must never read as delivered", n)
			}
			if snapshot.Status != model.TrackingStatusProcessing {
				t.Fatalf("%T: expected degraded processing snapshot, got %s", n, snapshot.Status)
			}
		}
	}
}

func TestRegistryUnknownCarrierFallsBack(t *testing.T) {
	registry := NewRegistry()

	delivered := []byte(`{"events": [{"timestamp": "2025-06-01T10:00:00Z", "code": "DELIVERED"}]}`)
	snapshot := registry.For(model.Carrier("pigeon_post")).Normalize(delivered)
	if snapshot.IsDelivered || snapshot.Status != model.TrackingStatusProcessing {
		t.Fatalf("unknown carrier must degrade, got %+v", snapshot)
	}

	snapshot = registry.For(model.CarrierOther).Normalize(delivered)
	if snapshot.IsDelivered {
		t.Fatalf("explicit other carrier must degrade")
	}

	snapshot = registry.For(model.CarrierEvri).Normalize(delivered)
	if !snapshot.IsDelivered {
		t.Fatalf("known carrier must use its own vocabulary")
	}
}

func TestServiceSnapshotFetchFailure(t *testing.T) {
	fetcher := &testhelpers.CarrierFetcherStub{Err: errors.New("connection refused")}
	service := NewService(fetcher, NewRegistry(), discardLogger())

	snapshot := service.Snapshot(context.Background(), model.CarrierDHL, "TRK-1")
	if snapshot.Status != model.TrackingStatusProcessing || snapshot.IsDelivered {
		t.Fatalf("fetch failure must degrade, got %+v", snapshot)
	}
}

func TestServiceSnapshotRoutesToNormalizer(t *testing.T) {
	fetcher := &testhelpers.CarrierFetcherStub{Payloads: map[string][]byte{
		"TRK-9": []byte(`{"events": [{"timestamp": "2025-06-01T10:00:00Z", "code": "DELIVERED", "location": "Hull"}]}`),
	}}
	service := NewService(fetcher, NewRegistry(), discardLogger())

	snapshot := service.Snapshot(context.Background(), model.CarrierDPD, "TRK-9")
	if !snapshot.IsDelivered || snapshot.Location != "Hull" {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
}
