// Package validate holds the checks applied to send input before any request
// is made. The predicates are pure; Params runs them through
// go-playground/validator so every send parameter is checked in one place.
package validate

import (
	"strings"

	"github.com/amcards/amcards-go/internal/address"
)

// MissingRequiredFields returns the required shipping fields that are absent
// or blank in a, in address.Required order. An empty result means a is valid.
func MissingRequiredFields(a address.Address) []string {
	var missing []string
	for _, field := range address.Required {
		if strings.TrimSpace(a[field]) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// IsValidDate reports whether value has the lexical shape YYYY-MM-DD.
// Calendar validity is not checked: "2024-13-40" passes.
func IsValidDate(value string) bool {
	if len(value) != 10 {
		return false
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if i == 4 || i == 7 {
			if c != '-' {
				return false
			}
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// IsValidPhone reports whether value is exactly 10 ASCII digits.
func IsValidPhone(value string) bool {
	if len(value) != 10 {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}
