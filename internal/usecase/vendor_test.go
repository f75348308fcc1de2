package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	domainErrors "github.com/unimart/settlement/internal/domain/errors"
	"github.com/unimart/settlement/internal/domain/model"
	testhelpers "github.com/unimart/settlement/internal/test"
)

func newVendorFixture() (*VendorUseCase, *testhelpers.VendorRepositoryStub, *testhelpers.LedgerRepositoryStub) {
	vendors := testhelpers.NewVendorRepositoryStub()
	ledger := &testhelpers.LedgerRepositoryStub{}
	return NewVendorUseCase(vendors, ledger), vendors, ledger
}

func TestVendorUpsertDefaultsTier(t *testing.T) {
	uc, _, _ := newVendorFixture()

	account, err := uc.Upsert(context.Background(), &model.VendorAccount{ID: "vendor-a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Tier != model.VendorTierStandard {
		t.Fatalf("expected standard tier, got %s", account.Tier)
	}
}

func TestVendorUpsertRejectsUnknownTier(t *testing.T) {
	uc, _, _ := newVendorFixture()

	if _, err := uc.Upsert(context.Background(), &model.VendorAccount{ID: "vendor-a", Tier: "platinum"}); !errors.Is(err, domainErrors.ErrInvalidLineItems) {
		t.Fatalf("expected ErrInvalidLineItems, got %v", err)
	}
}

func TestVendorUpsertRejectsOutOfRangeOverride(t *testing.T) {
	uc, _, _ := newVendorFixture()

	for _, bps := range []int64{-1, 10001} {
		override := bps
		account := &model.VendorAccount{ID: "vendor-a", Tier: model.VendorTierStandard, CommissionOverrideBps: &override}
		if _, err := uc.Upsert(context.Background(), account); !errors.Is(err, domainErrors.ErrInvalidAmount) {
			t.Fatalf("override %d: expected ErrInvalidAmount, got %v", bps, err)
		}
	}
}

func TestVendorUpsertRequiresID(t *testing.T) {
	uc, _, _ := newVendorFixture()

	if _, err := uc.Upsert(context.Background(), &model.VendorAccount{ID: "  "}); !errors.Is(err, domainErrors.ErrInvalidLineItems) {
		t.Fatalf("expected ErrInvalidLineItems, got %v", err)
	}
}

func TestVendorBalanceSumsPayouts(t *testing.T) {
	uc, vendors, ledger := newVendorFixture()
	vendors.Vendors["vendor-a"] = &model.VendorAccount{ID: "vendor-a", Tier: model.VendorTierStandard}
	vendorID := "vendor-a"
	otherID := "vendor-b"
	ledger.Entries = []model.LedgerEntry{
		{ID: uuid.New(), OrderID: 1, VendorID: &vendorID, Kind: model.LedgerKindVendorPayout, Amount: 9000, State: model.LedgerStateSettled},
		{ID: uuid.New(), OrderID: 2, VendorID: &vendorID, Kind: model.LedgerKindVendorPayout, Amount: 4600, State: model.LedgerStatePending},
		{ID: uuid.New(), OrderID: 3, VendorID: &otherID, Kind: model.LedgerKindVendorPayout, Amount: 100, State: model.LedgerStateSettled},
		{ID: uuid.New(), OrderID: 1, Kind: model.LedgerKindCharge, Amount: 10000, State: model.LedgerStateSettled},
	}

	balance, err := uc.Balance(context.Background(), "vendor-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance.Paid != 9000 || balance.Pending != 4600 {
		t.Fatalf("expected paid 9000 pending 4600, got %+v", balance)
	}
}

func TestVendorBalanceUnknownVendor(t *testing.T) {
	uc, _, _ := newVendorFixture()

	if _, err := uc.Balance(context.Background(), "ghost"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
