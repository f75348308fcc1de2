package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/unimart/settlement/internal/domain/model"
)

// LedgerRepository appends immutable money movement records. Duplicate
// (order, kind, external ref) appends are absorbed by the storage layer so
// webhook redelivery across processes stays idempotent without locks.
type LedgerRepository interface {
	// Append stores the entry. Returns false when an entry with the same
	// order, kind and external reference already exists.
	Append(ctx context.Context, entry *model.LedgerEntry) (bool, error)
	HasCharge(ctx context.Context, orderID int64, externalRef string) (bool, error)
	MarkSettled(ctx context.Context, id uuid.UUID, externalRef string) error
	ListByOrder(ctx context.Context, orderID int64) ([]model.LedgerEntry, error)
	VendorBalance(ctx context.Context, vendorID string) (*model.VendorBalance, error)
}
