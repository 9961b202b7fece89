// Package country maps free-text country names to the codes the service uses
// and decides which postage tier a send falls into.
package country

import "strings"

// DefaultCode is assumed for a shipping address that names no country.
const DefaultCode = "US"

// aliases maps upper-cased free-text names to canonical codes. Anything not
// listed is assumed to already be a code.
var aliases = map[string]string{
	"USA":                          "US",
	"U.S.":                         "US",
	"U.S.A.":                       "US",
	"UNITED STATES":                "US",
	"UNITED STATES OF AMERICA":     "US",
	"THE UNITED STATES OF AMERICA": "US",
	"AMERICA":                      "US",
	"ENGLAND":                      "GB",
	"UK":                           "GB",
	"UNITED KINGDOM":               "GB",
	"GREAT BRITAIN":                "GB",
	"CANADA":                       "CA",
	"MEXICO":                       "MX",
}

// Normalize upper-cases country and resolves known aliases. It is
// idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(country string) string {
	upper := strings.ToUpper(strings.TrimSpace(country))
	if code, ok := aliases[upper]; ok {
		return code
	}
	return upper
}

// Postage is the postage tier of a send.
type Postage int

const (
	// Domestic applies when both ends of the send are in the domestic set.
	Domestic Postage = iota
	// International applies otherwise.
	International
)

func (p Postage) String() string {
	if p == Domestic {
		return "domestic"
	}
	return "international"
}

// Classify returns Domestic iff both normalized codes are in domestic.
// A blank country never matches.
func Classify(shipping, ret string, domestic []string) Postage {
	s, r := Normalize(shipping), Normalize(ret)
	if s == "" || r == "" {
		return International
	}
	var shipOK, retOK bool
	for _, code := range domestic {
		code = Normalize(code)
		shipOK = shipOK || code == s
		retOK = retOK || code == r
	}
	if shipOK && retOK {
		return Domestic
	}
	return International
}

// Pricing is the per-account cost configuration, in cents.
type Pricing struct {
	GreetingCard         int
	DomesticPostage      int
	InternationalPostage int
}

// Cost returns the greeting card cost plus the postage for tier p.
func (pr Pricing) Cost(p Postage) int {
	if p == Domestic {
		return pr.GreetingCard + pr.DomesticPostage
	}
	return pr.GreetingCard + pr.InternationalPostage
}
