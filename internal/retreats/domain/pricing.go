package domain

import (
	"sort"
	"time"
)

// ActiveTier returns the pricing tier in force at now: the earliest-expiring
// tier whose validUntil has not passed. Expired tiers are never picked, even
// when no later tier exists. Returns nil when no tier qualifies.
func ActiveTier(tiers []PricingTier, now time.Time) *PricingTier {
	var valid []PricingTier
	for _, tier := range tiers {
		if tier.Price < 0 {
			continue
		}
		if tier.ValidUntil.Before(now) {
			continue
		}
		valid = append(valid, tier)
	}
	if len(valid) == 0 {
		return nil
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].ValidUntil.Before(valid[j].ValidUntil)
	})

	tier := valid[0]
	return &tier
}

// EffectivePrice returns the price in force at now, falling back to the base
// price when no pricing tier qualifies.
func EffectivePrice(basePrice float64, tiers []PricingTier, now time.Time) float64 {
	if tier := ActiveTier(tiers, now); tier != nil {
		return tier.Price
	}
	return basePrice
}
