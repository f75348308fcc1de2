package usecase

import (
	"testing"

	"github.com/unimart/settlement/internal/domain/model"
)

func TestNextAcceptedTransitions(t *testing.T) {
	cases := []struct {
		current model.OrderStatus
		event   model.OrderEvent
		want    model.OrderStatus
	}{
		{model.OrderStatusPending, model.EventPaymentCaptured, model.OrderStatusProcessing},
		{model.OrderStatusProcessing, model.EventVendorPacked, model.OrderStatusPacked},
		{model.OrderStatusProcessing, model.EventCarrierShipped, model.OrderStatusShipped},
		{model.OrderStatusPacked, model.EventCarrierShipped, model.OrderStatusShipped},
		{model.OrderStatusShipped, model.EventCarrierOutForDel, model.OrderStatusOutForDelivery},
		{model.OrderStatusShipped, model.EventCarrierDelivered, model.OrderStatusDelivered},
		{model.OrderStatusOutForDelivery, model.EventCarrierDelivered, model.OrderStatusDelivered},
		{model.OrderStatusPending, model.EventManualDelivered, model.OrderStatusDelivered},
		{model.OrderStatusOutForDelivery, model.EventManualDelivered, model.OrderStatusDelivered},
		{model.OrderStatusPending, model.EventAdminRefund, model.OrderStatusCancelled},
		{model.OrderStatusOutForDelivery, model.EventAdminRefund, model.OrderStatusCancelled},
		{model.OrderStatusDelivered, model.EventReturnRequested, model.OrderStatusReturned},
	}
	for _, tc := range cases {
		next, ok := Next(tc.current, tc.event)
		if !ok {
			t.Fatalf("%s + %s: expected accepted transition", tc.current, tc.event)
		}
		if next != tc.want {
			t.Fatalf("%s + %s: expected %s, got %s", tc.current, tc.event, tc.want, next)
		}
	}
}

func TestNextRejectedTransitions(t *testing.T) {
	cases := []struct {
		current model.OrderStatus
		event   model.OrderEvent
	}{
		{model.OrderStatusProcessing, model.EventPaymentCaptured},
		{model.OrderStatusDelivered, model.EventPaymentCaptured},
		{model.OrderStatusPending, model.EventVendorPacked},
		{model.OrderStatusShipped, model.EventVendorPacked},
		{model.OrderStatusPending, model.EventCarrierShipped},
		{model.OrderStatusDelivered, model.EventCarrierShipped},
		{model.OrderStatusPacked, model.EventCarrierOutForDel},
		{model.OrderStatusDelivered, model.EventCarrierOutForDel},
		{model.OrderStatusProcessing, model.EventCarrierDelivered},
		{model.OrderStatusDelivered, model.EventManualDelivered},
		{model.OrderStatusCancelled, model.EventManualDelivered},
		{model.OrderStatusDelivered, model.EventAdminRefund},
		{model.OrderStatusReturned, model.EventAdminRefund},
		{model.OrderStatusShipped, model.EventReturnRequested},
		{model.OrderStatusPending, model.EventPaymentFailed},
	}
	for _, tc := range cases {
		next, ok := Next(tc.current, tc.event)
		if ok {
			t.Fatalf("%s + %s: expected rejection", tc.current, tc.event)
		}
		if next != tc.current {
			t.Fatalf("%s + %s: rejected transition must not change status, got %s", tc.current, tc.event, next)
		}
	}
}

func TestNextNeverRegresses(t *testing.T) {
	statuses := []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusProcessing,
		model.OrderStatusPacked,
		model.OrderStatusShipped,
		model.OrderStatusOutForDelivery,
		model.OrderStatusDelivered,
		model.OrderStatusCancelled,
		model.OrderStatusReturned,
	}
	events := []model.OrderEvent{
		model.EventPaymentCaptured,
		model.EventPaymentFailed,
		model.EventVendorPacked,
		model.EventCarrierShipped,
		model.EventCarrierOutForDel,
		model.EventCarrierDelivered,
		model.EventManualDelivered,
		model.EventAdminRefund,
		model.EventReturnRequested,
	}
	for _, status := range statuses {
		for _, event := range events {
			next, ok := Next(status, event)
			if !ok {
				continue
			}
			if status.IsTerminal() && event != model.EventReturnRequested {
				t.Fatalf("terminal %s accepted %s", status, event)
			}
			if next.Rank() < status.Rank() && !next.IsTerminal() {
				t.Fatalf("%s + %s regressed to %s", status, event, next)
			}
		}
	}
}

func TestSnapshotEventsLadder(t *testing.T) {
	if events := snapshotEvents(model.TrackingStatusProcessing); events != nil {
		t.Fatalf("processing snapshot must imply no events, got %v", events)
	}
	if events := snapshotEvents(model.TrackingStatusShipped); len(events) != 1 || events[0] != model.EventCarrierShipped {
		t.Fatalf("unexpected shipped ladder: %v", events)
	}
	events := snapshotEvents(model.TrackingStatusDelivered)
	want := []model.OrderEvent{model.EventCarrierShipped, model.EventCarrierOutForDel, model.EventCarrierDelivered}
	if len(events) != len(want) {
		t.Fatalf("unexpected delivered ladder: %v", events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("delivered ladder[%d]: expected %s, got %s", i, want[i], events[i])
		}
	}
}

func TestSnapshotLadderCatchesUpFromProcessing(t *testing.T) {
	status := model.OrderStatusProcessing
	for _, event := range snapshotEvents(model.TrackingStatusDelivered) {
		if next, ok := Next(status, event); ok {
			status = next
		}
	}
	if status != model.OrderStatusDelivered {
		t.Fatalf("expected delivered after full ladder, got %s", status)
	}
}
