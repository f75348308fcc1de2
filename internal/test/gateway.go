package test

import (
	"context"
	"fmt"

	"github.com/unimart/settlement/internal/domain/model"
)

// PaymentGatewayStub records gateway calls and returns configured responses.
type PaymentGatewayStub struct {
	CreatePaymentIntentFn func(context.Context, *model.Order, []model.OrderLineItem) (string, error)
	TransferFn            func(context.Context, string, int64, string) (string, error)
	RefundFn              func(context.Context, string, *int64) (string, error)

	Transfers []TransferCall
	Refunds   []RefundCall
}

// TransferCall records one Transfer invocation.
type TransferCall struct {
	Destination string
	Amount      int64
	Currency    string
}

// RefundCall records one Refund invocation.
type RefundCall struct {
	ChargeRef string
	Amount    *int64
}

func (s *PaymentGatewayStub) CreatePaymentIntent(ctx context.Context, order *model.Order, items []model.OrderLineItem) (string, error) {
	if s.CreatePaymentIntentFn != nil {
		return s.CreatePaymentIntentFn(ctx, order, items)
	}
	return fmt.Sprintf("pi_%d_secret_test", order.ID), nil
}

func (s *PaymentGatewayStub) Transfer(ctx context.Context, destination string, amount int64, currency string) (string, error) {
	s.Transfers = append(s.Transfers, TransferCall{Destination: destination, Amount: amount, Currency: currency})
	if s.TransferFn != nil {
		return s.TransferFn(ctx, destination, amount, currency)
	}
	return fmt.Sprintf("tr_%d", len(s.Transfers)), nil
}

func (s *PaymentGatewayStub) Refund(ctx context.Context, chargeRef string, amount *int64) (string, error) {
	s.Refunds = append(s.Refunds, RefundCall{ChargeRef: chargeRef, Amount: amount})
	if s.RefundFn != nil {
		return s.RefundFn(ctx, chargeRef, amount)
	}
	return fmt.Sprintf("re_%d", len(s.Refunds)), nil
}

// TrackingProviderStub serves canned snapshots keyed by tracking number.
type TrackingProviderStub struct {
	SnapshotFn  func(context.Context, model.Carrier, string) model.TrackingSnapshot
	NormalizeFn func(model.Carrier, []byte) model.TrackingSnapshot

	Snapshots map[string]model.TrackingSnapshot
}

func (s *TrackingProviderStub) Snapshot(ctx context.Context, carrier model.Carrier, trackingNumber string) model.TrackingSnapshot {
	if s.SnapshotFn != nil {
		return s.SnapshotFn(ctx, carrier, trackingNumber)
	}
	if snapshot, ok := s.Snapshots[trackingNumber]; ok {
		return snapshot
	}
	return model.UnavailableSnapshot()
}

func (s *TrackingProviderStub) Normalize(carrier model.Carrier, raw []byte) model.TrackingSnapshot {
	if s.NormalizeFn != nil {
		return s.NormalizeFn(carrier, raw)
	}
	return model.UnavailableSnapshot()
}
