package dto

import "time"

// VendorRequest creates or updates a vendor settlement account.
type VendorRequest struct {
	Tier                  string `json:"tier,omitempty"`
	CommissionOverrideBps *int64 `json:"commission_override_bps,omitempty"`
	PayoutDestination     string `json:"payout_destination,omitempty"`
	PayoutVerified        bool   `json:"payout_verified"`
}

// VendorResponse describes a vendor settlement account.
type VendorResponse struct {
	ID                    string    `json:"id"`
	Tier                  string    `json:"tier"`
	CommissionOverrideBps *int64    `json:"commission_override_bps,omitempty"`
	PayoutDestination     string    `json:"payout_destination,omitempty"`
	PayoutVerified        bool      `json:"payout_verified"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// VendorBalanceResponse summarizes settled and pending payout totals.
type VendorBalanceResponse struct {
	VendorID string `json:"vendor_id"`
	Paid     int64  `json:"paid"`
	Pending  int64  `json:"pending"`
}
