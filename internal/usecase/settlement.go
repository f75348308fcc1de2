package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	domainErrors "github.com/unimart/settlement/internal/domain/errors"
	"github.com/unimart/settlement/internal/domain/model"
	"github.com/unimart/settlement/internal/domain/repository"
)

// SettlementUseCase turns a captured payment into ledger entries and vendor
// payouts, and handles the refund path.
type SettlementUseCase struct {
	orders  repository.OrderRepository
	ledger  repository.LedgerRepository
	vendors repository.VendorRepository
	policy  *CommissionPolicy
	gateway PaymentGateway
	logger  *slog.Logger
}

// NewSettlementUseCase constructs SettlementUseCase.
func NewSettlementUseCase(
	orders repository.OrderRepository,
	ledger repository.LedgerRepository,
	vendors repository.VendorRepository,
	policy *CommissionPolicy,
	gateway PaymentGateway,
	logger *slog.Logger,
) *SettlementUseCase {
	return &SettlementUseCase{
		orders:  orders,
		ledger:  ledger,
		vendors: vendors,
		policy:  policy,
		gateway: gateway,
		logger:  logger,
	}
}

// RecordPaymentCaptured settles a captured payment: one charge entry, one
// payout entry and transfer per vendor, and the pending->processing
// transition. The charge entry's unique external reference is the idempotency
// gate, so redelivered webhooks are absorbed as no-ops even across processes.
func (u *SettlementUseCase) RecordPaymentCaptured(ctx context.Context, orderID int64, chargeRef string) error {
	if chargeRef == "" {
		return fmt.Errorf("%w: charge reference required", domainErrors.ErrInvalidAmount)
	}

	seen, err := u.ledger.HasCharge(ctx, orderID, chargeRef)
	if err != nil {
		return fmt.Errorf("check charge entry: %w", err)
	}
	if seen {
		u.logger.Info("duplicate charge webhook absorbed",
			slog.Int64("order", orderID),
			slog.String("charge_ref", chargeRef),
		)
		return nil
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}

	items, err := u.orders.ListItems(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load line items: %w", err)
	}

	vendorIDs, err := verifySplit(order, items)
	if err != nil {
		return err
	}

	charge := &model.LedgerEntry{
		ID:          uuid.New(),
		OrderID:     order.ID,
		Kind:        model.LedgerKindCharge,
		Amount:      order.TotalAmount,
		Currency:    order.Currency,
		State:       model.LedgerStateSettled,
		ExternalRef: chargeRef,
	}
	created, err := u.ledger.Append(ctx, charge)
	if err != nil {
		return fmt.Errorf("append charge entry: %w", err)
	}
	if !created {
		u.logger.Info("duplicate charge webhook absorbed",
			slog.Int64("order", order.ID),
			slog.String("charge_ref", chargeRef),
		)
		return nil
	}

	order, accepted, err := applyEvent(ctx, u.orders, u.logger, order, model.EventPaymentCaptured, model.TrackingPatch{})
	if err != nil {
		return err
	}
	if !accepted {
		// A refund raced ahead of the capture, or the order already settled
		// under another charge reference. The capture is recorded but no
		// vendor is ever paid out of a non-pending order.
		u.logger.Warn("capture on non-pending order absorbed, payouts withheld",
			slog.Int64("order", order.ID),
			slog.String("status", string(order.Status)),
			slog.String("charge_ref", chargeRef),
		)
		return nil
	}

	for _, vendorID := range vendorIDs {
		if err := u.payOut(ctx, order, items, chargeRef, vendorID); err != nil {
			return err
		}
	}

	return nil
}

// verifySplit checks the ledger sum invariant before anything is written and
// returns the distinct vendor ids in stable order. A mismatch between the
// frozen total and the line items is the one fatal class: it means a bug, and
// settlement for the order must halt pending review.
func verifySplit(order *model.Order, items []model.OrderLineItem) ([]string, error) {
	seen := make(map[string]bool)
	var vendorIDs []string
	var distributed int64
	for _, item := range items {
		if !seen[item.VendorID] {
			seen[item.VendorID] = true
			vendorIDs = append(vendorIDs, item.VendorID)
		}
		distributed += item.Subtotal
	}
	sort.Strings(vendorIDs)

	if distributed != order.TotalAmount {
		return nil, fmt.Errorf("%w: order %d total %d, line items sum %d",
			domainErrors.ErrLedgerMismatch, order.ID, order.TotalAmount, distributed)
	}
	return vendorIDs, nil
}

// payOut records one vendor's payout entry and, when the destination is
// verified, initiates the transfer. The entry is written first so a transfer
// timeout leaves money accounted for but pending, never lost.
func (u *SettlementUseCase) payOut(ctx context.Context, order *model.Order, items []model.OrderLineItem, chargeRef, vendorID string) error {
	vendor, err := u.vendors.Get(ctx, vendorID)
	if err != nil {
		if !errors.Is(err, domainErrors.ErrNotFound) {
			return fmt.Errorf("load vendor %s: %w", vendorID, err)
		}
		// Unknown vendor account settles at the standard tier but is never
		// paid until the account is registered and verified.
		vendor = &model.VendorAccount{ID: vendorID, Tier: model.VendorTierStandard}
		u.logger.Warn("vendor account missing, payout held",
			slog.Int64("order", order.ID),
			slog.String("vendor", vendorID),
		)
	}

	split := u.policy.Settle(items, *vendor)

	entry := &model.LedgerEntry{
		ID:          uuid.New(),
		OrderID:     order.ID,
		VendorID:    &vendor.ID,
		Kind:        model.LedgerKindVendorPayout,
		Amount:      split.Net,
		Currency:    order.Currency,
		State:       model.LedgerStatePending,
		ExternalRef: fmt.Sprintf("%s/%s", chargeRef, vendor.ID),
	}
	if _, err := u.ledger.Append(ctx, entry); err != nil {
		return fmt.Errorf("append payout entry: %w", err)
	}

	if !vendor.PayoutVerified {
		u.logger.Info("payout destination unverified, entry left pending",
			slog.Int64("order", order.ID),
			slog.String("vendor", vendor.ID),
		)
		return nil
	}

	transferID, err := u.gateway.Transfer(ctx, vendor.PayoutDestination, split.Net, order.Currency)
	if err != nil {
		// Transient gateway failure: reconciliation retries from the
		// pending entry.
		u.logger.Error("vendor transfer failed, entry left pending",
			slog.Int64("order", order.ID),
			slog.String("vendor", vendor.ID),
			slog.String("error", err.Error()),
		)
		return nil
	}

	if err := u.ledger.MarkSettled(ctx, entry.ID, transferID); err != nil {
		return fmt.Errorf("mark payout settled: %w", err)
	}
	return nil
}

// RecordPaymentFailed logs a failed capture attempt; the order stays pending.
func (u *SettlementUseCase) RecordPaymentFailed(ctx context.Context, orderID int64) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	u.logger.Warn("payment failed",
		slog.Int64("order", order.ID),
		slog.String("status", string(order.Status)),
	)
	return nil
}

// RequestRefund refunds the order, fully when amount is nil, and cancels it.
// The status only moves after the gateway confirms; rejections surface to the
// caller untouched.
func (u *SettlementUseCase) RequestRefund(ctx context.Context, orderID int64, amount *int64) (*model.LedgerEntry, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order.Status.IsTerminal() {
		return nil, domainErrors.ErrOrderTerminal
	}

	refundAmount := order.TotalAmount
	if amount != nil {
		refundAmount = *amount
	}
	if refundAmount <= 0 || refundAmount > order.TotalAmount {
		return nil, domainErrors.ErrInvalidAmount
	}

	chargeRef, charged, err := u.chargeRef(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	externalRef := "uncaptured"
	if charged {
		refundID, err := u.gateway.Refund(ctx, chargeRef, amount)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", domainErrors.ErrRefundRejected, err)
		}
		externalRef = refundID
	}

	entry := &model.LedgerEntry{
		ID:          uuid.New(),
		OrderID:     order.ID,
		Kind:        model.LedgerKindRefund,
		Amount:      -refundAmount,
		Currency:    order.Currency,
		State:       model.LedgerStateSettled,
		ExternalRef: externalRef,
	}
	if _, err := u.ledger.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append refund entry: %w", err)
	}

	if _, _, err := applyEvent(ctx, u.orders, u.logger, order, model.EventAdminRefund, model.TrackingPatch{}); err != nil {
		return nil, err
	}

	return entry, nil
}

// chargeRef finds the captured charge's external reference, if any. An order
// refunded before capture has nothing to reverse at the gateway.
func (u *SettlementUseCase) chargeRef(ctx context.Context, orderID int64) (string, bool, error) {
	entries, err := u.ledger.ListByOrder(ctx, orderID)
	if err != nil {
		return "", false, fmt.Errorf("load ledger: %w", err)
	}
	for _, e := range entries {
		if e.Kind == model.LedgerKindCharge {
			return e.ExternalRef, true, nil
		}
	}
	return "", false, nil
}

// Ledger returns the order's money movement history.
func (u *SettlementUseCase) Ledger(ctx context.Context, orderID int64) ([]model.LedgerEntry, error) {
	if _, err := u.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return u.ledger.ListByOrder(ctx, orderID)
}
