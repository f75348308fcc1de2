package usecase

import "github.com/unimart/settlement/internal/domain/model"

// Next is the authoritative transition function from (current state, event) to
// the new state. The second return reports whether the transition is accepted;
// a rejected transition is a no-op by contract, never an error, because
// asynchronous events routinely arrive duplicated or out of order.
func Next(current model.OrderStatus, event model.OrderEvent) (model.OrderStatus, bool) {
	switch event {
	case model.EventPaymentCaptured:
		if current == model.OrderStatusPending {
			return model.OrderStatusProcessing, true
		}
	case model.EventPaymentFailed:
		// order stays pending; the caller logs the failure
	case model.EventVendorPacked:
		if current == model.OrderStatusProcessing {
			return model.OrderStatusPacked, true
		}
	case model.EventCarrierShipped:
		if current == model.OrderStatusProcessing || current == model.OrderStatusPacked {
			return model.OrderStatusShipped, true
		}
	case model.EventCarrierOutForDel:
		if current == model.OrderStatusShipped {
			return model.OrderStatusOutForDelivery, true
		}
	case model.EventCarrierDelivered:
		if current == model.OrderStatusShipped || current == model.OrderStatusOutForDelivery {
			return model.OrderStatusDelivered, true
		}
	case model.EventManualDelivered:
		if !current.IsTerminal() {
			return model.OrderStatusDelivered, true
		}
	case model.EventAdminRefund:
		if !current.IsTerminal() {
			return model.OrderStatusCancelled, true
		}
	case model.EventReturnRequested:
		if current == model.OrderStatusDelivered {
			return model.OrderStatusReturned, true
		}
	}
	return current, false
}

// snapshotEvents translates a canonical tracking status into the ladder of
// state machine events implied by it. Feeding the whole ladder lets an order
// that missed intermediate polls catch up in one pass while the transition
// table still blocks regressions.
func snapshotEvents(status model.TrackingStatus) []model.OrderEvent {
	switch status {
	case model.TrackingStatusShipped:
		return []model.OrderEvent{model.EventCarrierShipped}
	case model.TrackingStatusOutForDelivery:
		return []model.OrderEvent{model.EventCarrierShipped, model.EventCarrierOutForDel}
	case model.TrackingStatusDelivered:
		return []model.OrderEvent{model.EventCarrierShipped, model.EventCarrierOutForDel, model.EventCarrierDelivered}
	}
	return nil
}
