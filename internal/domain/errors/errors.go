package errors

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidLineItems = errors.New("invalid line items")
	ErrOrderTerminal    = errors.New("order in terminal state")
	ErrVersionConflict  = errors.New("stale order version")
	ErrRefundRejected   = errors.New("refund rejected by gateway")
	// ErrLedgerMismatch indicates the payout split no longer sums to the
	// captured charge. Settlement for the order halts pending manual review.
	ErrLedgerMismatch = errors.New("ledger sum mismatch")
)
