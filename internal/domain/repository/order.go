package repository

import (
	"context"

	"github.com/unimart/settlement/internal/domain/model"
)

// OrderRepository describes persistence operations with orders and their line
// items. Status and tracking writes are compare-and-swap on (id, version):
// a stale version yields ErrVersionConflict and must be retried against a
// fresh read.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order, items []model.OrderLineItem) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListItems(ctx context.Context, orderID int64) ([]model.OrderLineItem, error)
	ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID, version int64, status model.OrderStatus, patch model.TrackingPatch) error
	SetTracking(ctx context.Context, orderID, version int64, carrier model.Carrier, trackingNumber string) error
	SelectBatchForTracking(ctx context.Context, limit int) ([]model.Order, error)
}
