package handlers

import (
	"context"

	"github.com/unimart/settlement/internal/domain/model"
)

// OrderFacade encapsulates order intake and manual lifecycle operations.
type OrderFacade interface {
	SubmitOrder(ctx context.Context, in model.OrderSubmission) (*model.Order, []model.OrderLineItem, string, error)
	Order(ctx context.Context, orderID int64) (*model.Order, []model.OrderLineItem, error)
	OrdersByCustomer(ctx context.Context, customerID string) ([]model.Order, error)
	MarkPacked(ctx context.Context, orderID int64) (*model.Order, error)
	MarkDelivered(ctx context.Context, orderID int64) (*model.Order, error)
}

// SettlementFacade covers money movement operations.
type SettlementFacade interface {
	RecordPaymentCaptured(ctx context.Context, orderID int64, chargeRef string) error
	RecordPaymentFailed(ctx context.Context, orderID int64) error
	RequestRefund(ctx context.Context, orderID int64, amount *int64) (*model.LedgerEntry, error)
	OrderLedger(ctx context.Context, orderID int64) ([]model.LedgerEntry, error)
}

// TrackingFacade covers carrier tracking operations exposed via HTTP.
type TrackingFacade interface {
	UpdateTracking(ctx context.Context, orderID int64, carrier model.Carrier, trackingNumber string) (*model.Order, error)
	TrackingStatus(ctx context.Context, orderID int64) (*model.TrackingSnapshot, error)
	ApplyCarrierWebhook(ctx context.Context, orderID int64, carrier model.Carrier, raw []byte) error
}

// VendorFacade covers vendor account and balance operations.
type VendorFacade interface {
	UpsertVendor(ctx context.Context, account *model.VendorAccount) (*model.VendorAccount, error)
	Vendor(ctx context.Context, vendorID string) (*model.VendorAccount, error)
	VendorBalance(ctx context.Context, vendorID string) (*model.VendorBalance, error)
}

// EngineFacade aggregates the full set of operations used across handlers.
type EngineFacade interface {
	OrderFacade
	SettlementFacade
	TrackingFacade
	VendorFacade
	Health(ctx context.Context) error
}
