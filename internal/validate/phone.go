package validate

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used when NationalPhone is given no region.
const DefaultPhoneRegion = "US"

// NationalPhone parses a formatted phone number such as "(555) 666-7777" or
// "+1 555 666 7777" and returns its national significant number, which is
// the form IsValidPhone accepts. The result is rejected unless it is exactly
// 10 digits.
func NationalPhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("phone number is empty")
	}
	if region == "" {
		region = DefaultPhoneRegion
	}

	parsed, err := phonenumbers.Parse(raw, strings.ToUpper(region))
	if err != nil {
		return "", fmt.Errorf("parse phone number %q: %w", raw, err)
	}

	national := phonenumbers.GetNationalSignificantNumber(parsed)
	if !IsValidPhone(national) {
		return "", fmt.Errorf("phone number %q has %d national digits, want 10", raw, len(national))
	}
	return national, nil
}
