package domain

import (
	"testing"
	"time"
)

func TestEffectivePrice(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)
	inTenDays := now.AddDate(0, 0, 10)

	t.Run("picks earliest-expiring valid tier", func(t *testing.T) {
		tiers := []PricingTier{
			{Name: "early bird", Price: 100, ValidUntil: yesterday},
			{Name: "regular", Price: 90, ValidUntil: tomorrow},
			{Name: "late", Price: 80, ValidUntil: inTenDays},
		}
		if got := EffectivePrice(150, tiers, now); got != 90 {
			t.Fatalf("EffectivePrice = %v, want 90", got)
		}
	})

	t.Run("falls back to base price when no tiers", func(t *testing.T) {
		if got := EffectivePrice(150, nil, now); got != 150 {
			t.Fatalf("EffectivePrice = %v, want 150", got)
		}
	})

	t.Run("expired tier never picked even when alone", func(t *testing.T) {
		tiers := []PricingTier{{Name: "early bird", Price: 100, ValidUntil: yesterday}}
		if got := EffectivePrice(150, tiers, now); got != 150 {
			t.Fatalf("EffectivePrice = %v, want 150", got)
		}
	})

	t.Run("negative price tier skipped", func(t *testing.T) {
		tiers := []PricingTier{
			{Name: "broken", Price: -5, ValidUntil: tomorrow},
			{Name: "late", Price: 80, ValidUntil: inTenDays},
		}
		if got := EffectivePrice(150, tiers, now); got != 80 {
			t.Fatalf("EffectivePrice = %v, want 80", got)
		}
	})
}

func TestActiveTierDoesNotMutateInput(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	tiers := []PricingTier{
		{Name: "b", Price: 90, ValidUntil: now.AddDate(0, 0, 10)},
		{Name: "a", Price: 100, ValidUntil: now.AddDate(0, 0, 1)},
	}

	tier := ActiveTier(tiers, now)
	if tier == nil || tier.Name != "a" {
		t.Fatalf("ActiveTier = %+v, want tier a", tier)
	}
	if tiers[0].Name != "b" || tiers[1].Name != "a" {
		t.Fatal("ActiveTier reordered the caller's slice")
	}
}
