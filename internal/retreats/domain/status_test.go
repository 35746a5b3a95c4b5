package domain

import (
	"testing"
	"time"
)

var statusNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return statusNow.AddDate(0, 0, offset)
}

func TestSuggestStatus(t *testing.T) {
	cases := []struct {
		name        string
		status      Status
		start, end  time.Time
		suggested   Status
		needsChange bool
	}{
		{"cancelled is authoritative even after end", StatusCancelled, day(-10), day(-5), StatusCancelled, false},
		{"draft past start suggests active", StatusDraft, day(-1), day(5), StatusActive, true},
		{"draft before start unchanged", StatusDraft, day(3), day(8), StatusDraft, false},
		{"active past end suggests completed", StatusActive, day(-7), day(-1), StatusCompleted, true},
		{"completed before end suggests active", StatusCompleted, day(-2), day(1), StatusActive, true},
		{"active in progress unchanged", StatusActive, day(-1), day(2), StatusActive, false},
		{"active upcoming unchanged", StatusActive, day(5), day(10), StatusActive, false},
		{"completed after end unchanged", StatusCompleted, day(-10), day(-3), StatusCompleted, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SuggestStatus(tc.status, tc.start, tc.end, statusNow)
			if got.Current != tc.status {
				t.Fatalf("Current = %q, want %q", got.Current, tc.status)
			}
			if got.Suggested != tc.suggested {
				t.Fatalf("Suggested = %q, want %q", got.Suggested, tc.suggested)
			}
			if got.NeedsChange != tc.needsChange {
				t.Fatalf("NeedsChange = %v, want %v", got.NeedsChange, tc.needsChange)
			}
			if got.NeedsChange && got.Reason == "" {
				t.Fatalf("NeedsChange without a reason")
			}
		})
	}
}

func TestComputed(t *testing.T) {
	if got := Computed(StatusActive, day(1), day(5), statusNow); got != ComputedUpcoming {
		t.Fatalf("upcoming retreat computed as %q", got)
	}
	if got := Computed(StatusActive, day(-1), day(1), statusNow); got != ComputedInProgress {
		t.Fatalf("running retreat computed as %q", got)
	}
	if got := Computed(StatusActive, day(-5), day(-1), statusNow); got != ComputedCompleted {
		t.Fatalf("concluded retreat computed as %q", got)
	}
}

func TestValidateStatusDates(t *testing.T) {
	if err := ValidateStatusDates(StatusCompleted, day(1), statusNow); err == nil {
		t.Fatal("expected error marking retreat completed before end date")
	}
	if err := ValidateStatusDates(StatusCompleted, day(-1), statusNow); err != nil {
		t.Fatalf("unexpected error for past end date: %v", err)
	}
	if err := ValidateStatusDates(StatusActive, day(1), statusNow); err != nil {
		t.Fatalf("unexpected error for active retreat: %v", err)
	}
}
