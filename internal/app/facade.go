package app

import (
	"context"

	"github.com/unimart/settlement/internal/domain/model"
	"github.com/unimart/settlement/internal/usecase"
)

// HealthChecker reports readiness of the backing store.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EngineFacade is the application surface consumed by the HTTP handlers and
// the tracking poller.
type EngineFacade struct {
	orders     *usecase.OrderUseCase
	settlement *usecase.SettlementUseCase
	tracking   *usecase.TrackingUseCase
	vendors    *usecase.VendorUseCase
	health     HealthChecker
}

func NewEngineFacade(
	orders *usecase.OrderUseCase,
	settlement *usecase.SettlementUseCase,
	tracking *usecase.TrackingUseCase,
	vendors *usecase.VendorUseCase,
	health HealthChecker,
) *EngineFacade {
	return &EngineFacade{
		orders:     orders,
		settlement: settlement,
		tracking:   tracking,
		vendors:    vendors,
		health:     health,
	}
}

func (f *EngineFacade) SubmitOrder(ctx context.Context, in model.OrderSubmission) (*model.Order, []model.OrderLineItem, string, error) {
	return f.orders.Submit(ctx, in)
}

func (f *EngineFacade) Order(ctx context.Context, orderID int64) (*model.Order, []model.OrderLineItem, error) {
	return f.orders.Get(ctx, orderID)
}

func (f *EngineFacade) OrdersByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	return f.orders.ListByCustomer(ctx, customerID)
}

func (f *EngineFacade) MarkPacked(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.orders.MarkPacked(ctx, orderID)
}

func (f *EngineFacade) MarkDelivered(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.orders.MarkDelivered(ctx, orderID)
}

func (f *EngineFacade) RecordPaymentCaptured(ctx context.Context, orderID int64, chargeRef string) error {
	return f.settlement.RecordPaymentCaptured(ctx, orderID, chargeRef)
}

func (f *EngineFacade) RecordPaymentFailed(ctx context.Context, orderID int64) error {
	return f.settlement.RecordPaymentFailed(ctx, orderID)
}

func (f *EngineFacade) RequestRefund(ctx context.Context, orderID int64, amount *int64) (*model.LedgerEntry, error) {
	return f.settlement.RequestRefund(ctx, orderID, amount)
}

func (f *EngineFacade) OrderLedger(ctx context.Context, orderID int64) ([]model.LedgerEntry, error) {
	return f.settlement.Ledger(ctx, orderID)
}

func (f *EngineFacade) UpdateTracking(ctx context.Context, orderID int64, carrier model.Carrier, trackingNumber string) (*model.Order, error) {
	return f.tracking.UpdateTracking(ctx, orderID, carrier, trackingNumber)
}

func (f *EngineFacade) TrackingStatus(ctx context.Context, orderID int64) (*model.TrackingSnapshot, error) {
	return f.tracking.Status(ctx, orderID)
}

func (f *EngineFacade) ApplyCarrierWebhook(ctx context.Context, orderID int64, carrier model.Carrier, raw []byte) error {
	return f.tracking.ApplyRaw(ctx, orderID, carrier, raw)
}

func (f *EngineFacade) OrdersForTracking(ctx context.Context, limit int) ([]model.Order, error) {
	return f.tracking.OrdersForTracking(ctx, limit)
}

func (f *EngineFacade) RefreshTracking(ctx context.Context, order model.Order) error {
	return f.tracking.Refresh(ctx, &order)
}

func (f *EngineFacade) UpsertVendor(ctx context.Context, account *model.VendorAccount) (*model.VendorAccount, error) {
	return f.vendors.Upsert(ctx, account)
}

func (f *EngineFacade) Vendor(ctx context.Context, vendorID string) (*model.VendorAccount, error) {
	return f.vendors.Get(ctx, vendorID)
}

func (f *EngineFacade) VendorBalance(ctx context.Context, vendorID string) (*model.VendorBalance, error) {
	return f.vendors.Balance(ctx, vendorID)
}

func (f *EngineFacade) Health(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
