package usecase

import (
	"context"
	"fmt"
	"strings"

	domainErrors "github.com/unimart/settlement/internal/domain/errors"
	"github.com/unimart/settlement/internal/domain/model"
	"github.com/unimart/settlement/internal/domain/repository"
)

// VendorUseCase manages vendor settlement accounts and balances.
type VendorUseCase struct {
	vendors repository.VendorRepository
	ledger  repository.LedgerRepository
}

// NewVendorUseCase constructs VendorUseCase.
func NewVendorUseCase(vendors repository.VendorRepository, ledger repository.LedgerRepository) *VendorUseCase {
	return &VendorUseCase{vendors: vendors, ledger: ledger}
}

// Upsert creates or updates a vendor account. Tier defaults to standard;
// an override outside [0,10000] basis points is rejected.
func (u *VendorUseCase) Upsert(ctx context.Context, account *model.VendorAccount) (*model.VendorAccount, error) {
	if strings.TrimSpace(account.ID) == "" {
		return nil, fmt.Errorf("%w: vendor id required", domainErrors.ErrInvalidLineItems)
	}
	switch account.Tier {
	case model.VendorTierStandard, model.VendorTierPremium, model.VendorTierEnterprise:
	case "":
		account.Tier = model.VendorTierStandard
	default:
		return nil, fmt.Errorf("%w: unknown tier %q", domainErrors.ErrInvalidLineItems, account.Tier)
	}
	if account.CommissionOverrideBps != nil {
		if *account.CommissionOverrideBps < 0 || *account.CommissionOverrideBps > bpsDenominator {
			return nil, domainErrors.ErrInvalidAmount
		}
	}
	return u.vendors.Upsert(ctx, account)
}

// Get returns a vendor account.
func (u *VendorUseCase) Get(ctx context.Context, vendorID string) (*model.VendorAccount, error) {
	return u.vendors.Get(ctx, vendorID)
}

// Balance reports the vendor's settled payout total and the unpaid balance,
// computed as the sum of payout entries still pending.
func (u *VendorUseCase) Balance(ctx context.Context, vendorID string) (*model.VendorBalance, error) {
	if _, err := u.vendors.Get(ctx, vendorID); err != nil {
		return nil, err
	}
	return u.ledger.VendorBalance(ctx, vendorID)
}
