package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/unimart/settlement/internal/domain/errors"
	"github.com/unimart/settlement/internal/domain/model"
	"github.com/unimart/settlement/internal/domain/repository"
)

// TrackingProvider fetches and normalizes carrier data. Implementations never
// fail hard: an unreachable carrier, malformed payload or unknown carrier id
// yields the canonical "not available" snapshot, which the state machine
// treats as no update.
type TrackingProvider interface {
	Snapshot(ctx context.Context, carrier model.Carrier, trackingNumber string) model.TrackingSnapshot
	Normalize(carrier model.Carrier, raw []byte) model.TrackingSnapshot
}

// TrackingUseCase feeds canonical carrier snapshots into the order lifecycle.
// It is safe to invoke redundantly: the poller and an inbound webhook racing
// on the same order converge through the version CAS and the transition table.
type TrackingUseCase struct {
	orders  repository.OrderRepository
	tracker TrackingProvider
	logger  *slog.Logger
}

// NewTrackingUseCase constructs TrackingUseCase.
func NewTrackingUseCase(orders repository.OrderRepository, tracker TrackingProvider, logger *slog.Logger) *TrackingUseCase {
	return &TrackingUseCase{orders: orders, tracker: tracker, logger: logger}
}

// UpdateTracking attaches a carrier and tracking number to the order and runs
// an immediate refresh.
func (u *TrackingUseCase) UpdateTracking(ctx context.Context, orderID int64, carrier model.Carrier, trackingNumber string) (*model.Order, error) {
	if strings.TrimSpace(trackingNumber) == "" {
		return nil, fmt.Errorf("%w: tracking number required", domainErrors.ErrInvalidLineItems)
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, domainErrors.ErrOrderTerminal
	}

	if err := u.orders.SetTracking(ctx, order.ID, order.Version, carrier, trackingNumber); err != nil {
		if !errors.Is(err, domainErrors.ErrVersionConflict) {
			return nil, fmt.Errorf("set tracking: %w", err)
		}
		// A concurrent status write advanced the version; re-read and retry
		// once against the fresh view.
		order, err = u.orders.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if order.Status.IsTerminal() {
			return nil, domainErrors.ErrOrderTerminal
		}
		if err := u.orders.SetTracking(ctx, order.ID, order.Version, carrier, trackingNumber); err != nil {
			return nil, fmt.Errorf("set tracking: %w", err)
		}
	}

	order, err = u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := u.Refresh(ctx, order); err != nil {
		u.logger.Error("initial tracking refresh failed",
			slog.Int64("order", order.ID),
			slog.String("error", err.Error()),
		)
	}

	return u.orders.GetByID(ctx, orderID)
}

// Refresh pulls the carrier's current view and applies it. Orders without a
// tracking number are skipped.
func (u *TrackingUseCase) Refresh(ctx context.Context, order *model.Order) error {
	if order.TrackingNumber == nil || order.Carrier == nil {
		return nil
	}
	snapshot := u.tracker.Snapshot(ctx, *order.Carrier, *order.TrackingNumber)
	return u.Apply(ctx, order, snapshot)
}

// ApplyRaw normalizes an inbound carrier webhook payload and applies it.
func (u *TrackingUseCase) ApplyRaw(ctx context.Context, orderID int64, carrier model.Carrier, raw []byte) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	snapshot := u.tracker.Normalize(carrier, raw)
	return u.Apply(ctx, order, snapshot)
}

// Apply walks the snapshot's implied event ladder through the state machine.
// Duplicates and late arrivals fall out as logged no-ops; state never moves
// backwards.
func (u *TrackingUseCase) Apply(ctx context.Context, order *model.Order, snapshot model.TrackingSnapshot) error {
	patch := model.TrackingPatch{EstimatedDeliveryAt: snapshot.EstimatedDelivery}
	if snapshot.IsDelivered {
		if !snapshot.Timestamp.IsZero() {
			ts := snapshot.Timestamp
			patch.ActualDeliveryAt = &ts
		}
		if snapshot.StatusDetail != "" {
			notes := snapshot.StatusDetail
			patch.DeliveryNotes = &notes
		}
	}

	var err error
	for _, event := range snapshotEvents(snapshot.Status) {
		order, _, err = applyEvent(ctx, u.orders, u.logger, order, event, patch)
		if err != nil {
			return err
		}
	}
	return nil
}

// Status returns the live canonical snapshot for the order. An order without
// tracking data reports the "not available" snapshot rather than an error.
func (u *TrackingUseCase) Status(ctx context.Context, orderID int64) (*model.TrackingSnapshot, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.TrackingNumber == nil || order.Carrier == nil {
		snapshot := model.UnavailableSnapshot()
		return &snapshot, nil
	}
	snapshot := u.tracker.Snapshot(ctx, *order.Carrier, *order.TrackingNumber)
	return &snapshot, nil
}

// OrdersForTracking returns the next batch of pollable orders: tracked,
// post-payment, non-terminal.
func (u *TrackingUseCase) OrdersForTracking(ctx context.Context, limit int) ([]model.Order, error) {
	return u.orders.SelectBatchForTracking(ctx, limit)
}
