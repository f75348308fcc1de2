package model

import (
	"time"

	"github.com/google/uuid"
)

// LedgerKind classifies a money movement.
type LedgerKind string

const (
	LedgerKindCharge       LedgerKind = "charge"
	LedgerKindVendorPayout LedgerKind = "vendor_payout"
	LedgerKindRefund       LedgerKind = "refund"
)

// LedgerState tracks whether the external money movement completed. Pending
// entries are the resumption point for out-of-band reconciliation.
type LedgerState string

const (
	LedgerStateSettled LedgerState = "settled"
	LedgerStatePending LedgerState = "pending"
)

// LedgerEntry is an immutable record of one money movement tied to an order.
// Amount is signed in minor units: positive credits the recipient, negative
// is a debit or refund. Entries are only ever appended, never updated, except
// for the pending->settled state flip once an external transfer confirms.
type LedgerEntry struct {
	ID          uuid.UUID
	OrderID     int64
	VendorID    *string
	Kind        LedgerKind
	Amount      int64
	Currency    string
	State       LedgerState
	ExternalRef string
	CreatedAt   time.Time
}
