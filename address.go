package amcards

import "github.com/amcards/amcards-go/internal/address"

// Address is a free-form address mapping from field name to value, used for
// both shipping and return addresses.
//
// A shipping address needs FirstName, LastName, AddressLine1, City, State and
// PostalCode; a field that is absent or blank counts as missing. Country is
// optional and defaults to "US" for cost calculation. Fields a send endpoint
// does not accept are dropped before the request is built.
type Address = address.Address

// Address field names.
const (
	FirstName           = address.FirstName
	LastName            = address.LastName
	AddressLine1        = address.AddressLine1
	City                = address.City
	State               = address.State
	PostalCode          = address.PostalCode
	Country             = address.Country
	Organization        = address.Organization
	ThirdPartyContactID = address.ThirdPartyContactID

	// Accepted by campaign sends only.
	PhoneNumber     = address.PhoneNumber
	BirthDate       = address.BirthDate
	AnniversaryDate = address.AnniversaryDate
)
