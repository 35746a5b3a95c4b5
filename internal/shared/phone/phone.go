// Package phone normalizes phone numbers for WhatsApp links.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"retiros_backend/platform/apperr"
)

// DefaultRegion is the region used when a number has no country prefix.
const DefaultRegion = "AR"

// Normalize parses a phone number and returns it in E.164 form.
// Empty input passes through unchanged.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}

	parsed, err := phonenumbers.Parse(trimmed, DefaultRegion)
	if err != nil {
		return "", apperr.Validation("invalid phone number: " + trimmed)
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", apperr.Validation("invalid phone number: " + trimmed)
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
