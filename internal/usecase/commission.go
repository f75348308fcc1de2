package usecase

import "github.com/unimart/settlement/internal/domain/model"

// Commission rates are basis points of gross so the whole computation stays in
// integer minor units and settles byte-identically on every call.
const bpsDenominator = 10000

var tierRates = map[model.VendorTier]int64{
	model.VendorTierStandard:   1000,
	model.VendorTierPremium:    800,
	model.VendorTierEnterprise: 500,
}

// CommissionPolicy maps vendor tiers to commission rates and splits an order's
// line items into gross, commission and net. Pure computation, no side effects.
type CommissionPolicy struct{}

// NewCommissionPolicy constructs CommissionPolicy.
func NewCommissionPolicy() *CommissionPolicy {
	return &CommissionPolicy{}
}

// RateBps returns the vendor's commission rate in basis points. An explicit
// per-vendor override takes precedence over the tier default.
func (CommissionPolicy) RateBps(vendor model.VendorAccount) int64 {
	if vendor.CommissionOverrideBps != nil {
		return *vendor.CommissionOverrideBps
	}
	if rate, ok := tierRates[vendor.Tier]; ok {
		return rate
	}
	return tierRates[model.VendorTierStandard]
}

// Settle computes the vendor's share of an order. Only line items carrying the
// vendor's id participate. Net is rounded half-to-even to the minor unit and
// commission is the remainder, so Gross = Commission + Net exactly.
func (p CommissionPolicy) Settle(items []model.OrderLineItem, vendor model.VendorAccount) model.Settlement {
	var gross int64
	for _, item := range items {
		if item.VendorID != vendor.ID {
			continue
		}
		gross += item.UnitPrice * item.Quantity
	}

	rate := p.RateBps(vendor)
	net := divHalfEven(gross*(bpsDenominator-rate), bpsDenominator)

	return model.Settlement{
		VendorID:   vendor.ID,
		Gross:      gross,
		Commission: gross - net,
		Net:        net,
	}
}

// divHalfEven divides non-negative n by positive d rounding half to even.
func divHalfEven(n, d int64) int64 {
	q := n / d
	r := n % d
	switch {
	case 2*r > d:
		q++
	case 2*r == d && q%2 != 0:
		q++
	}
	return q
}
