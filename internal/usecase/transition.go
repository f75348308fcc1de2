package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainErrors "github.com/unimart/settlement/internal/domain/errors"
	"github.com/unimart/settlement/internal/domain/model"
	"github.com/unimart/settlement/internal/domain/repository"
)

// casRetries bounds how often a transition is re-evaluated after losing a
// version race. Each retry re-reads the order, so a loss usually means the
// competing writer already performed an equivalent or further transition.
const casRetries = 3

// applyEvent runs one event through the state machine and persists the result
// with a compare-and-swap on the order's version. Rejected transitions are
// logged no-ops. Returns the freshest order view and whether a write happened.
func applyEvent(ctx context.Context, orders repository.OrderRepository, logger *slog.Logger, order *model.Order, event model.OrderEvent, patch model.TrackingPatch) (*model.Order, bool, error) {
	for attempt := 0; ; attempt++ {
		next, ok := Next(order.Status, event)
		if !ok {
			logger.Info("transition skipped",
				slog.Int64("order", order.ID),
				slog.String("event", string(event)),
				slog.String("status", string(order.Status)),
			)
			return order, false, nil
		}

		now := time.Now().UTC()
		patch.LastTrackingUpdateAt = &now
		if next == model.OrderStatusDelivered && patch.ActualDeliveryAt == nil {
			patch.ActualDeliveryAt = &now
		}

		err := orders.UpdateStatus(ctx, order.ID, order.Version, next, patch)
		if err == nil {
			order.Status = next
			order.Version++
			order.LastTrackingUpdateAt = patch.LastTrackingUpdateAt
			if patch.ActualDeliveryAt != nil {
				order.ActualDeliveryAt = patch.ActualDeliveryAt
			}
			if patch.EstimatedDeliveryAt != nil {
				order.EstimatedDeliveryAt = patch.EstimatedDeliveryAt
			}
			if patch.DeliveryNotes != nil {
				order.DeliveryNotes = *patch.DeliveryNotes
			}
			return order, true, nil
		}
		if !errors.Is(err, domainErrors.ErrVersionConflict) {
			return order, false, fmt.Errorf("update order status: %w", err)
		}
		if attempt >= casRetries {
			return order, false, fmt.Errorf("update order status: %w", err)
		}

		fresh, err := orders.GetByID(ctx, order.ID)
		if err != nil {
			return order, false, fmt.Errorf("reload order after version conflict: %w", err)
		}
		order = fresh
	}
}
