package amcards

import (
	"fmt"
	"strings"
	"time"

	"github.com/amcards/amcards-go/internal/address"
	"github.com/amcards/amcards-go/internal/api"
	"github.com/amcards/amcards-go/internal/country"
)

// Cents is an amount of money in US cents.
type Cents int

// String renders c as dollars, for example "$4.42".
func (c Cents) String() string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s$%d.%02d", sign, int(c)/100, int(c)%100)
}

// timeLayouts are the timestamp forms the service emits.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02",
}

// parseTime returns the zero time for an empty or unparseable value.
func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Page is one page of a list call. HasNext reports whether another page
// follows.
type Page[T any] struct {
	Items      []T
	TotalCount int
	Limit      int
	Offset     int
	HasNext    bool
}

func newPage[D, T any](env *api.Envelope[D], convert func(*D) T) *Page[T] {
	items := make([]T, 0, len(env.Objects))
	for i := range env.Objects {
		items = append(items, convert(&env.Objects[i]))
	}
	return &Page[T]{
		Items:      items,
		TotalCount: env.Meta.TotalCount,
		Limit:      env.Meta.Limit,
		Offset:     env.Meta.Offset,
		HasNext:    env.Meta.Next != nil && *env.Meta.Next != "",
	}
}

// Postage is the postage tier of a send.
type Postage = country.Postage

// Postage tiers.
const (
	Domestic      = country.Domestic
	International = country.International
)

// User is the account the access token belongs to, with its pricing.
type User struct {
	ID                   int
	Email                string
	FirstName            string
	LastName             string
	Credits              Cents
	DateJoined           time.Time
	AddressLine1         string
	City                 string
	State                string
	PostalCode           string
	Country              string
	DomesticPostage      Cents
	InternationalPostage Cents
	DomesticCountries    []string
	GreetingCardCost     Cents
}

func newUser(d *api.UserDTO) *User {
	return &User{
		ID:                   d.ID,
		Email:                d.Email,
		FirstName:            d.FirstName,
		LastName:             d.LastName,
		Credits:              Cents(d.Credits),
		DateJoined:           parseTime(d.DateJoined),
		AddressLine1:         d.AddressLine1,
		City:                 d.City,
		State:                d.State,
		PostalCode:           d.Postal,
		Country:              d.Country,
		DomesticPostage:      Cents(d.Postage.DomesticCost),
		InternationalPostage: Cents(d.Postage.InternationalCost),
		DomesticCountries:    d.Postage.DomesticCountries,
		GreetingCardCost:     Cents(d.ProductPricingInfo[api.GreetingCardProduct]),
	}
}

// Postage returns the postage tier of a card shipped to shippingCountry with
// returnCountry on the envelope. Country names such as "USA" or "England" are
// normalized first; a blank country is international.
func (u *User) Postage(shippingCountry, returnCountry string) Postage {
	return country.Classify(shippingCountry, returnCountry, u.DomesticCountries)
}

// CardCost returns the greeting card cost plus the postage for the given
// shipping and return countries.
func (u *User) CardCost(shippingCountry, returnCountry string) Cents {
	pricing := country.Pricing{
		GreetingCard:         int(u.GreetingCardCost),
		DomesticPostage:      int(u.DomesticPostage),
		InternationalPostage: int(u.InternationalPostage),
	}
	return Cents(pricing.Cost(u.Postage(shippingCountry, returnCountry)))
}

func (u *User) String() string {
	return fmt.Sprintf("User{id: %d, email: %q, name: %q, credits: %s, country: %q, "+
		"card: %s, domestic postage: %s, international postage: %s, domestic countries: [%s]}",
		u.ID, u.Email, strings.TrimSpace(u.FirstName+" "+u.LastName), u.Credits, u.Country,
		u.GreetingCardCost, u.DomesticPostage, u.InternationalPostage,
		strings.Join(u.DomesticCountries, ", "))
}

// Gift is a purchasable item bundled with a template.
type Gift struct {
	ID    int
	Name  string
	Price Cents
}

func (g Gift) String() string {
	return fmt.Sprintf("Gift{id: %d, name: %q, price: %s}", g.ID, g.Name, g.Price)
}

// Template is a reusable card design.
type Template struct {
	ID        int
	Name      string
	Thumbnail string
	Gifts     []Gift
}

func newTemplate(d *api.TemplateDTO) *Template {
	t := &Template{ID: d.ID, Name: d.Name, Thumbnail: d.Thumbnail}
	for _, g := range d.Gifts {
		t.Gifts = append(t.Gifts, Gift{ID: g.ID, Name: g.Name, Price: Cents(g.Price)})
	}
	return t
}

func (t *Template) String() string {
	return fmt.Sprintf("Template{id: %d, name: %q, gifts: %d}", t.ID, t.Name, len(t.Gifts))
}

// Campaign is a drip campaign: a sequence of card sends triggered together.
// A campaign without SendDuplicates rejects a recipient who already received
// it with ErrDuplicateCampaign.
type Campaign struct {
	ID             int
	Name           string
	SendDuplicates bool
	Created        time.Time
}

func newCampaign(d *api.CampaignDTO) *Campaign {
	return &Campaign{
		ID:             d.ID,
		Name:           d.Name,
		SendDuplicates: d.SendDuplicates,
		Created:        parseTime(d.DateCreated),
	}
}

func (c *Campaign) String() string {
	return fmt.Sprintf("Campaign{id: %d, name: %q, send duplicates: %t}", c.ID, c.Name, c.SendDuplicates)
}

// Card is a single physical card.
type Card struct {
	ID              int
	Status          string
	SendDate        string
	Price           Cents
	TemplateID      int
	CampaignID      int
	MailingID       int
	ShippingAddress Address
	ReturnAddress   Address
	Created         time.Time
}

func newCard(d *api.CardDTO) *Card {
	return &Card{
		ID:              d.ID,
		Status:          d.Status,
		SendDate:        d.SendDate,
		Price:           Cents(d.Price),
		TemplateID:      d.TemplateID,
		CampaignID:      d.CampaignID,
		MailingID:       d.MailingID,
		ShippingAddress: d.ShippingAddress,
		ReturnAddress:   d.ReturnAddress,
		Created:         parseTime(d.DateCreated),
	}
}

func (c *Card) String() string {
	return fmt.Sprintf("Card{id: %d, status: %q, send date: %q, price: %s, template: %d, to: %q}",
		c.ID, c.Status, c.SendDate, c.Price, c.TemplateID,
		strings.TrimSpace(c.ShippingAddress[FirstName]+" "+c.ShippingAddress[LastName]))
}

// Contact is an entry in the account's address book.
type Contact struct {
	ID                  int
	FirstName           string
	LastName            string
	Email               string
	Organization        string
	AddressLine1        string
	City                string
	State               string
	PostalCode          string
	Country             string
	PhoneNumber         string
	BirthDate           string
	AnniversaryDate     string
	ThirdPartyContactID string
}

func newContact(d *api.ContactDTO) *Contact {
	return &Contact{
		ID:                  d.ID,
		FirstName:           d.FirstName,
		LastName:            d.LastName,
		Email:               d.Email,
		Organization:        d.Organization,
		AddressLine1:        d.AddressLine1,
		City:                d.City,
		State:               d.State,
		PostalCode:          d.PostalCode,
		Country:             d.Country,
		PhoneNumber:         d.PhoneNumber,
		BirthDate:           d.BirthDate,
		AnniversaryDate:     d.AnniversaryDate,
		ThirdPartyContactID: d.ThirdPartyContactID,
	}
}

// Address returns the contact as a shipping address. Empty optional fields
// are left out.
func (c *Contact) Address() Address {
	a := Address{
		address.FirstName:    c.FirstName,
		address.LastName:     c.LastName,
		address.AddressLine1: c.AddressLine1,
		address.City:         c.City,
		address.State:        c.State,
		address.PostalCode:   c.PostalCode,
	}
	optional := map[string]string{
		address.Country:             c.Country,
		address.Organization:        c.Organization,
		address.PhoneNumber:         c.PhoneNumber,
		address.BirthDate:           c.BirthDate,
		address.AnniversaryDate:     c.AnniversaryDate,
		address.ThirdPartyContactID: c.ThirdPartyContactID,
	}
	for k, v := range optional {
		if v != "" {
			a[k] = v
		}
	}
	return a
}

func (c *Contact) String() string {
	return fmt.Sprintf("Contact{id: %d, name: %q, city: %q, state: %q, country: %q}",
		c.ID, strings.TrimSpace(c.FirstName+" "+c.LastName), c.City, c.State, c.Country)
}

// Mailing is the batch created by SendCards.
type Mailing struct {
	ID          int
	Status      string
	TemplateID  int
	SendIfError bool
	SendDate    string
	CardIDs     []int
	TotalCost   Cents
	Created     time.Time
}

func newMailing(d *api.MailingDTO) *Mailing {
	return &Mailing{
		ID:          d.ID,
		Status:      d.Status,
		TemplateID:  d.TemplateID,
		SendIfError: d.SendIfError,
		SendDate:    d.SendDate,
		CardIDs:     d.CardIDs,
		TotalCost:   Cents(d.TotalCost),
		Created:     parseTime(d.DateCreated),
	}
}

func (m *Mailing) String() string {
	return fmt.Sprintf("Mailing{id: %d, status: %q, template: %d, cards: %d, total cost: %s}",
		m.ID, m.Status, m.TemplateID, len(m.CardIDs), m.TotalCost)
}

// CardResponse is the result of SendCard.
type CardResponse struct {
	CardID    int
	TotalCost Cents
	User      string
	Message   string
	// ShippingAddress and ReturnAddress are the sanitized addresses that
	// were submitted. ReturnAddress is nil when none was given.
	ShippingAddress Address
	ReturnAddress   Address
}

func (r *CardResponse) String() string {
	return fmt.Sprintf("CardResponse{card: %d, total cost: %s, user: %q, message: %q}",
		r.CardID, r.TotalCost, r.User, r.Message)
}

// CampaignResponse is the result of SendCampaign.
type CampaignResponse struct {
	CardIDs         []int
	MailingID       int
	TotalCost       Cents
	User            string
	Message         string
	ShippingAddress Address
	ReturnAddress   Address
}

func (r *CampaignResponse) String() string {
	return fmt.Sprintf("CampaignResponse{cards: %v, mailing: %d, total cost: %s, user: %q, message: %q}",
		r.CardIDs, r.MailingID, r.TotalCost, r.User, r.Message)
}

// CardsResponse is the result of SendCards. Poll the mailing for the outcome
// of each recipient.
type CardsResponse struct {
	MailingID         int
	TotalCost         Cents
	User              string
	Message           string
	ShippingAddresses []Address
	ReturnAddress     Address
}

func (r *CardsResponse) String() string {
	return fmt.Sprintf("CardsResponse{mailing: %d, recipients: %d, total cost: %s, user: %q, message: %q}",
		r.MailingID, len(r.ShippingAddresses), r.TotalCost, r.User, r.Message)
}
