package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	domainErrors "github.com/unimart/settlement/internal/domain/errors"
	"github.com/unimart/settlement/internal/domain/model"
	testhelpers "github.com/unimart/settlement/internal/test"
	"github.com/unimart/settlement/internal/usecase"
)

type healthStub struct {
	err error
}

func (s healthStub) HealthCheck(context.Context) error { return s.err }

func newFacade(health error) (*EngineFacade, *testhelpers.OrderRepositoryStub, *testhelpers.LedgerRepositoryStub, *testhelpers.VendorRepositoryStub, *testhelpers.PaymentGatewayStub, *testhelpers.TrackingProviderStub) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	orders := testhelpers.NewOrderRepositoryStub()
	ledger := &testhelpers.LedgerRepositoryStub{}
	vendors := testhelpers.NewVendorRepositoryStub()
	gateway := &testhelpers.PaymentGatewayStub{}
	tracker := &testhelpers.TrackingProviderStub{}

	orderUC := usecase.NewOrderUseCase(orders, gateway, logger)
	settlementUC := usecase.NewSettlementUseCase(orders, ledger, vendors, usecase.NewCommissionPolicy(), gateway, logger)
	trackingUC := usecase.NewTrackingUseCase(orders, tracker, logger)
	vendorUC := usecase.NewVendorUseCase(vendors, ledger)

	facade := NewEngineFacade(orderUC, settlementUC, trackingUC, vendorUC, healthStub{err: health})
	return facade, orders, ledger, vendors, gateway, tracker
}

func TestEngineFacadeOrders(t *testing.T) {
	facade, orders, _, _, _, _ := newFacade(nil)

	order, items, clientSecret, err := facade.SubmitOrder(context.Background(), model.OrderSubmission{
		CustomerID: "cust-1",
		Items: []model.SubmissionLine{
			{ProductID: "sku-1", VendorID: "vendor-a", Quantity: 2, UnitPrice: 2500},
		},
	})
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}
	if order.TotalAmount != 5000 || len(items) != 1 || clientSecret == "" {
		t.Fatalf("unexpected submit result: %+v %d %q", order, len(items), clientSecret)
	}

	got, gotItems, err := facade.Order(context.Background(), order.ID)
	if err != nil || got.ID != order.ID || len(gotItems) != 1 {
		t.Fatalf("unexpected get result: %+v err=%v", got, err)
	}

	listed, err := facade.OrdersByCustomer(context.Background(), "cust-1")
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one customer order, got %v err=%v", listed, err)
	}

	// Manual packing only applies after payment.
	orders.Orders[order.ID].Status = model.OrderStatusProcessing
	orders.Orders[order.ID].Version = 2

	packed, err := facade.MarkPacked(context.Background(), order.ID)
	if err != nil || packed.Status != model.OrderStatusPacked {
		t.Fatalf("unexpected mark packed result: %+v err=%v", packed, err)
	}

	delivered, err := facade.MarkDelivered(context.Background(), order.ID)
	if err != nil || delivered.Status != model.OrderStatusDelivered {
		t.Fatalf("unexpected mark delivered result: %+v err=%v", delivered, err)
	}
}

func TestEngineFacadeSettlement(t *testing.T) {
	facade, orders, ledger, vendors, gateway, _ := newFacade(nil)

	if _, err := vendors.Upsert(context.Background(), &model.VendorAccount{
		ID: "vendor-a", Tier: model.VendorTierStandard, PayoutDestination: "acct_a", PayoutVerified: true,
	}); err != nil {
		t.Fatalf("seed vendor: %v", err)
	}

	order, _, _, err := facade.SubmitOrder(context.Background(), model.OrderSubmission{
		CustomerID: "cust-1",
		Items: []model.SubmissionLine{
			{ProductID: "sku-1", VendorID: "vendor-a", Quantity: 1, UnitPrice: 10000},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := facade.RecordPaymentCaptured(context.Background(), order.ID, "ch_1"); err != nil {
		t.Fatalf("record captured: %v", err)
	}
	if orders.Orders[order.ID].Status != model.OrderStatusProcessing {
		t.Fatalf("expected processing status, got %s", orders.Orders[order.ID].Status)
	}
	if len(gateway.Transfers) != 1 || gateway.Transfers[0].Amount != 9000 {
		t.Fatalf("expected one transfer of 9000, got %+v", gateway.Transfers)
	}

	entries, err := facade.OrderLedger(context.Background(), order.ID)
	if err != nil || len(entries) != 2 {
		t.Fatalf("expected charge and payout entries, got %v err=%v", entries, err)
	}

	amount := int64(2500)
	refund, err := facade.RequestRefund(context.Background(), order.ID, &amount)
	if err != nil || refund.Amount != -2500 {
		t.Fatalf("unexpected refund result: %+v err=%v", refund, err)
	}
	if len(ledger.Entries) != 3 {
		t.Fatalf("expected refund entry appended, got %d", len(ledger.Entries))
	}

	balance, err := facade.VendorBalance(context.Background(), "vendor-a")
	if err != nil || balance.Paid != 9000 {
		t.Fatalf("unexpected vendor balance: %+v err=%v", balance, err)
	}
}

func TestEngineFacadeTracking(t *testing.T) {
	facade, orders, _, _, _, tracker := newFacade(nil)

	order, _, _, err := facade.SubmitOrder(context.Background(), model.OrderSubmission{
		CustomerID: "cust-1",
		Items: []model.SubmissionLine{
			{ProductID: "sku-1", VendorID: "vendor-a", Quantity: 1, UnitPrice: 100},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	orders.Orders[order.ID].Status = model.OrderStatusPacked
	orders.Orders[order.ID].Version = 2

	tracker.Snapshots = map[string]model.TrackingSnapshot{
		"TRK-1": {Status: model.TrackingStatusShipped},
	}

	updated, err := facade.UpdateTracking(context.Background(), order.ID, model.CarrierDHL, "TRK-1")
	if err != nil {
		t.Fatalf("update tracking: %v", err)
	}
	if updated.Status != model.OrderStatusShipped {
		t.Fatalf("expected shipped after refresh, got %s", updated.Status)
	}

	snapshot, err := facade.TrackingStatus(context.Background(), order.ID)
	if err != nil || snapshot.Status != model.TrackingStatusShipped {
		t.Fatalf("unexpected tracking status: %+v err=%v", snapshot, err)
	}

	tracker.NormalizeFn = func(model.Carrier, []byte) model.TrackingSnapshot {
		return model.TrackingSnapshot{Status: model.TrackingStatusOutForDelivery}
	}
	if err := facade.ApplyCarrierWebhook(context.Background(), order.ID, model.CarrierDHL, []byte(`{}`)); err != nil {
		t.Fatalf("apply webhook: %v", err)
	}
	if orders.Orders[order.ID].Status != model.OrderStatusOutForDelivery {
		t.Fatalf("expected out_for_delivery, got %s", orders.Orders[order.ID].Status)
	}

	orders.SelectBatchForTrackingFn = func(context.Context, int) ([]model.Order, error) {
		return []model.Order{*orders.Orders[order.ID]}, nil
	}
	batch, err := facade.OrdersForTracking(context.Background(), 10)
	if err != nil || len(batch) != 1 {
		t.Fatalf("unexpected batch: %v err=%v", batch, err)
	}
	if err := facade.RefreshTracking(context.Background(), batch[0]); err != nil {
		t.Fatalf("refresh tracking: %v", err)
	}
}

func TestEngineFacadeVendors(t *testing.T) {
	facade, _, _, _, _, _ := newFacade(nil)

	account, err := facade.UpsertVendor(context.Background(), &model.VendorAccount{ID: "vendor-a"})
	if err != nil {
		t.Fatalf("upsert vendor: %v", err)
	}
	if account.Tier != model.VendorTierStandard {
		t.Fatalf("expected standard tier default, got %s", account.Tier)
	}

	got, err := facade.Vendor(context.Background(), "vendor-a")
	if err != nil || got.ID != "vendor-a" {
		t.Fatalf("unexpected vendor: %+v err=%v", got, err)
	}

	if _, err := facade.Vendor(context.Background(), "ghost"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEngineFacadeHealth(t *testing.T) {
	facade, _, _, _, _, _ := newFacade(nil)
	if err := facade.Health(context.Background()); err != nil {
		t.Fatalf("expected healthy facade, got %v", err)
	}

	down := errors.New("pool down")
	facade, _, _, _, _, _ = newFacade(down)
	if err := facade.Health(context.Background()); !errors.Is(err, down) {
		t.Fatalf("expected health error, got %v", err)
	}
}
