package test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/unimart/settlement/internal/domain/model"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	SubmitFn        func(context.Context, model.OrderSubmission) (*model.Order, []model.OrderLineItem, string, error)
	OrderFn         func(context.Context, int64) (*model.Order, []model.OrderLineItem, error)
	ByCustomerFn    func(context.Context, string) ([]model.Order, error)
	MarkPackedFn    func(context.Context, int64) (*model.Order, error)
	MarkDeliveredFn func(context.Context, int64) (*model.Order, error)
}

func (s OrderFacadeStub) SubmitOrder(ctx context.Context, in model.OrderSubmission) (*model.Order, []model.OrderLineItem, string, error) {
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, in)
	}
	return &model.Order{ID: 1, CustomerID: in.CustomerID, Status: model.OrderStatusPending}, nil, "pi_1_secret_test", nil
}

func (s OrderFacadeStub) Order(ctx context.Context, orderID int64) (*model.Order, []model.OrderLineItem, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusPending}, nil, nil
}

func (s OrderFacadeStub) OrdersByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	if s.ByCustomerFn != nil {
		return s.ByCustomerFn(ctx, customerID)
	}
	return []model.Order{{ID: 1, CustomerID: customerID}}, nil
}

func (s OrderFacadeStub) MarkPacked(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.MarkPackedFn != nil {
		return s.MarkPackedFn(ctx, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusPacked}, nil
}

func (s OrderFacadeStub) MarkDelivered(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.MarkDeliveredFn != nil {
		return s.MarkDeliveredFn(ctx, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusDelivered}, nil
}

// SettlementFacadeStub simulates money movement operations.
type SettlementFacadeStub struct {
	CapturedFn func(context.Context, int64, string) error
	FailedFn   func(context.Context, int64) error
	RefundFn   func(context.Context, int64, *int64) (*model.LedgerEntry, error)
	LedgerFn   func(context.Context, int64) ([]model.LedgerEntry, error)
}

func (s SettlementFacadeStub) RecordPaymentCaptured(ctx context.Context, orderID int64, chargeRef string) error {
	if s.CapturedFn != nil {
		return s.CapturedFn(ctx, orderID, chargeRef)
	}
	return nil
}

func (s SettlementFacadeStub) RecordPaymentFailed(ctx context.Context, orderID int64) error {
	if s.FailedFn != nil {
		return s.FailedFn(ctx, orderID)
	}
	return nil
}

func (s SettlementFacadeStub) RequestRefund(ctx context.Context, orderID int64, amount *int64) (*model.LedgerEntry, error) {
	if s.RefundFn != nil {
		return s.RefundFn(ctx, orderID, amount)
	}
	return &model.LedgerEntry{OrderID: orderID, Kind: model.LedgerKindRefund, State: model.LedgerStateSettled}, nil
}

func (s SettlementFacadeStub) OrderLedger(ctx context.Context, orderID int64) ([]model.LedgerEntry, error) {
	if s.LedgerFn != nil {
		return s.LedgerFn(ctx, orderID)
	}
	return []model.LedgerEntry{{OrderID: orderID, Kind: model.LedgerKindCharge, State: model.LedgerStateSettled}}, nil
}

// TrackingHTTPFacadeStub simulates tracking endpoints.
type TrackingHTTPFacadeStub struct {
	UpdateFn  func(context.Context, int64, model.Carrier, string) (*model.Order, error)
	StatusFn  func(context.Context, int64) (*model.TrackingSnapshot, error)
	WebhookFn func(context.Context, int64, model.Carrier, []byte) error
}

func (s TrackingHTTPFacadeStub) UpdateTracking(ctx context.Context, orderID int64, carrier model.Carrier, trackingNumber string) (*model.Order, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, orderID, carrier, trackingNumber)
	}
	return &model.Order{ID: orderID, Carrier: &carrier, TrackingNumber: &trackingNumber}, nil
}

func (s TrackingHTTPFacadeStub) TrackingStatus(ctx context.Context, orderID int64) (*model.TrackingSnapshot, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, orderID)
	}
	snapshot := model.UnavailableSnapshot()
	return &snapshot, nil
}

func (s TrackingHTTPFacadeStub) ApplyCarrierWebhook(ctx context.Context, orderID int64, carrier model.Carrier, raw []byte) error {
	if s.WebhookFn != nil {
		return s.WebhookFn(ctx, orderID, carrier, raw)
	}
	return nil
}

// VendorFacadeStub simulates vendor account endpoints.
type VendorFacadeStub struct {
	UpsertFn  func(context.Context, *model.VendorAccount) (*model.VendorAccount, error)
	GetFn     func(context.Context, string) (*model.VendorAccount, error)
	BalanceFn func(context.Context, string) (*model.VendorBalance, error)
}

func (s VendorFacadeStub) UpsertVendor(ctx context.Context, account *model.VendorAccount) (*model.VendorAccount, error) {
	if s.UpsertFn != nil {
		return s.UpsertFn(ctx, account)
	}
	return account, nil
}

func (s VendorFacadeStub) Vendor(ctx context.Context, vendorID string) (*model.VendorAccount, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, vendorID)
	}
	return &model.VendorAccount{ID: vendorID, Tier: model.VendorTierStandard}, nil
}

func (s VendorFacadeStub) VendorBalance(ctx context.Context, vendorID string) (*model.VendorBalance, error) {
	if s.BalanceFn != nil {
		return s.BalanceFn(ctx, vendorID)
	}
	return &model.VendorBalance{VendorID: vendorID}, nil
}

// EngineFacadeStub aggregates individual facade stubs for router tests.
type EngineFacadeStub struct {
	OrderFacadeStub
	SettlementFacadeStub
	TrackingHTTPFacadeStub
	VendorFacadeStub

	HealthFn func(context.Context) error
}

func (s EngineFacadeStub) Health(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}

// PollerFacadeStub mimics worker interactions with the tracking facade.
type PollerFacadeStub struct {
	Batches   [][]model.Order
	BatchesFn func(context.Context, int) ([]model.Order, error)
	RefreshFn func(context.Context, model.Order) error

	Refreshed []model.Order

	mu             sync.Mutex
	batchCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *PollerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *PollerFacadeStub) Unlock() { s.mu.Unlock() }

// OrdersForTracking returns batches from the configured queue.
func (s *PollerFacadeStub) OrdersForTracking(ctx context.Context, limit int) ([]model.Order, error) {
	if s.BatchesFn != nil {
		return s.BatchesFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.batchCallCount, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if int(call) > len(s.Batches) {
		return nil, nil
	}
	return s.Batches[call-1], nil
}

// RefreshTracking records refreshed orders.
func (s *PollerFacadeStub) RefreshTracking(ctx context.Context, order model.Order) error {
	s.mu.Lock()
	s.Refreshed = append(s.Refreshed, order)
	s.mu.Unlock()
	if s.RefreshFn != nil {
		return s.RefreshFn(ctx, order)
	}
	return nil
}
