package model

import "time"

// VendorTier selects the default commission rate.
type VendorTier string

const (
	VendorTierStandard   VendorTier = "standard"
	VendorTierPremium    VendorTier = "premium"
	VendorTierEnterprise VendorTier = "enterprise"
)

// VendorAccount is the settlement-relevant subset of a vendor profile.
// Payouts must never be attempted while PayoutVerified is false; such vendors
// accrue a pending ledger balance instead.
type VendorAccount struct {
	ID                    string
	Tier                  VendorTier
	CommissionOverrideBps *int64
	PayoutDestination     string
	PayoutVerified        bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Settlement is one vendor's share of a captured payment.
// Gross = Commission + Net exactly.
type Settlement struct {
	VendorID   string
	Gross      int64
	Commission int64
	Net        int64
}

// VendorBalance summarizes a vendor's settled and pending payout totals.
type VendorBalance struct {
	VendorID string
	Paid     int64
	Pending  int64
}
