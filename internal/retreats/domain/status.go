package domain

import (
	"fmt"
	"time"

	"retiros_backend/platform/apperr"
)

// StatusSuggestion is the advisory result of checking a retreat's stored
// status against its dates. It never mutates anything; admin callers decide
// whether to apply the suggestion.
type StatusSuggestion struct {
	Current     Status `json:"current"`
	Suggested   Status `json:"suggested"`
	NeedsChange bool   `json:"needsChange"`
	Reason      string `json:"reason,omitempty"`
}

// SuggestStatus compares the stored status with the date-derived phase and
// suggests a correction when they contradict. Rule order matters:
// cancelled is always authoritative, then draft launch, then concluded
// retreats, then premature completion marks.
func SuggestStatus(status Status, startDate, endDate, now time.Time) StatusSuggestion {
	unchanged := StatusSuggestion{Current: status, Suggested: status}

	switch {
	case status == StatusCancelled:
		return unchanged

	case status == StatusDraft:
		if !now.Before(startDate) {
			return StatusSuggestion{
				Current:     status,
				Suggested:   StatusActive,
				NeedsChange: true,
				Reason:      "retreat start date has passed but it is still a draft",
			}
		}
		return unchanged

	case endDate.Before(now) && status != StatusCompleted:
		return StatusSuggestion{
			Current:     status,
			Suggested:   StatusCompleted,
			NeedsChange: true,
			Reason:      "retreat has concluded but is not marked completed",
		}

	case status == StatusCompleted && !endDate.Before(now):
		return StatusSuggestion{
			Current:     status,
			Suggested:   StatusActive,
			NeedsChange: true,
			Reason:      "retreat is marked completed before its end date",
		}
	}

	return unchanged
}

// Computed derives the real-world phase of a retreat from its dates.
// Stored status wins only for draft and cancelled; callers should check
// those before display.
func Computed(status Status, startDate, endDate, now time.Time) ComputedStatus {
	switch {
	case now.Before(startDate):
		return ComputedUpcoming
	case endDate.Before(now):
		return ComputedCompleted
	default:
		return ComputedInProgress
	}
}

// ValidateStatusDates is the hard write-time invariant: a retreat cannot be
// stored as completed while its end date is still in the future. This is
// independent of the advisory SuggestStatus.
func ValidateStatusDates(status Status, endDate, now time.Time) error {
	if status == StatusCompleted && endDate.After(now) {
		return apperr.BadRequest(fmt.Sprintf(
			"cannot mark retreat completed before its end date (%s)",
			endDate.Format("2006-01-02"),
		))
	}
	return nil
}
