// Package address holds the free-form address mapping accepted by the send
// endpoints and the per-endpoint allow-lists applied before a payload is built.
//
// All functions are pure and total: they never mutate their input and always
// return a fresh map.
package address

// Address maps a field name to its value.
type Address map[string]string

// Field names understood by the service.
const (
	FirstName           = "first_name"
	LastName            = "last_name"
	AddressLine1        = "address_line_1"
	City                = "city"
	State               = "state"
	PostalCode          = "postal_code"
	Country             = "country"
	Organization        = "organization"
	ThirdPartyContactID = "third_party_contact_id"
	PhoneNumber         = "phone_number"
	BirthDate           = "birth_date"
	AnniversaryDate     = "anniversary_date"
)

// Required lists the shipping fields every send needs, in check order.
var Required = []string{FirstName, LastName, AddressLine1, City, State, PostalCode}

var (
	cardOptional     = []string{Country, Organization, ThirdPartyContactID}
	campaignOptional = []string{Country, Organization, PhoneNumber, BirthDate, AnniversaryDate, ThirdPartyContactID}
	returnFields     = []string{FirstName, LastName, AddressLine1, City, State, PostalCode, Country}
)

// Clone returns a shallow copy of a. A nil Address clones to nil.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	out := make(Address, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// ForCardSend keeps the required fields plus the non-empty card optionals.
// Callers must validate a first; a missing required key is carried as "".
func ForCardSend(a Address) Address {
	return withOptionals(a, cardOptional)
}

// ForCampaignSend keeps the required fields plus the non-empty campaign
// optionals (phone number, birth and anniversary dates included).
func ForCampaignSend(a Address) Address {
	return withOptionals(a, campaignOptional)
}

// ForReturnAddress keeps every return field whose key is present, even when
// its value is empty.
func ForReturnAddress(a Address) Address {
	out := make(Address, len(returnFields))
	for _, field := range returnFields {
		if v, ok := a[field]; ok {
			out[field] = v
		}
	}
	return out
}

func withOptionals(a Address, optional []string) Address {
	out := make(Address, len(Required)+len(optional))
	for _, field := range Required {
		out[field] = a[field]
	}
	for _, field := range optional {
		if v := a[field]; v != "" {
			out[field] = v
		}
	}
	return out
}
