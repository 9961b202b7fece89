package api

// Envelope is the list response wrapper.
type Envelope[T any] struct {
	Meta    Meta `json:"meta"`
	Objects []T  `json:"objects"`
}

// Meta is the pagination block of a list response.
type Meta struct {
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
	TotalCount int     `json:"total_count"`
	Next       *string `json:"next"`
	Previous   *string `json:"previous"`
}

// UserDTO represents the /.api/v1/user/ object.
type UserDTO struct {
	ID                 int            `json:"id"`
	Email              string         `json:"email"`
	FirstName          string         `json:"first_name"`
	LastName           string         `json:"last_name"`
	Credits            int            `json:"credits"`
	DateJoined         string         `json:"date_joined"`
	AddressLine1       string         `json:"address_line_1"`
	City               string         `json:"city"`
	State              string         `json:"state"`
	Postal             string         `json:"postal"`
	Country            string         `json:"country"`
	Postage            PostageDTO     `json:"postage"`
	ProductPricingInfo map[string]int `json:"product_pricing_info"`
}

// PostageDTO is the postage block of a user.
type PostageDTO struct {
	DomesticCost      int      `json:"domestic_cost"`
	InternationalCost int      `json:"international_cost"`
	DomesticCountries []string `json:"domestic_countries"`
}

// GreetingCardProduct is the product_pricing_info key of the base card cost.
const GreetingCardProduct = "5x7greetingcard"

// TemplateDTO represents a template or quicksend template object.
type TemplateDTO struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Thumbnail string    `json:"thumbnail"`
	Gifts     []GiftDTO `json:"gifts"`
}

// GiftDTO is a purchasable gift bundled with a template.
type GiftDTO struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// CampaignDTO represents a drip campaign object.
type CampaignDTO struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	SendDuplicates bool   `json:"send_duplicates"`
	DateCreated    string `json:"date_created"`
}

// CardDTO represents a card object.
type CardDTO struct {
	ID              int               `json:"id"`
	Status          string            `json:"status"`
	SendDate        string            `json:"send_date"`
	Price           int               `json:"price"`
	TemplateID      int               `json:"template"`
	CampaignID      int               `json:"campaign"`
	MailingID       int               `json:"mailing"`
	ShippingAddress map[string]string `json:"shipping_address"`
	ReturnAddress   map[string]string `json:"return_address"`
	DateCreated     string            `json:"date_created"`
}

// ContactDTO represents a contact object.
type ContactDTO struct {
	ID                  int    `json:"id"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	Email               string `json:"email"`
	Organization        string `json:"organization"`
	AddressLine1        string `json:"address_line_1"`
	City                string `json:"city"`
	State               string `json:"state"`
	PostalCode          string `json:"postal_code"`
	Country             string `json:"country"`
	PhoneNumber         string `json:"phone_number"`
	BirthDate           string `json:"birth_date"`
	AnniversaryDate     string `json:"anniversary_date"`
	ThirdPartyContactID string `json:"third_party_contact_id"`
}

// MailingDTO represents a batch mailing object.
type MailingDTO struct {
	ID          int    `json:"id"`
	Status      string `json:"status"`
	TemplateID  int    `json:"template"`
	SendIfError bool   `json:"send_if_error"`
	SendDate    string `json:"send_date"`
	CardIDs     []int  `json:"cards"`
	TotalCost   int    `json:"total_cost"`
	DateCreated string `json:"date_created"`
}

// CardSendDTO is the single card send response.
type CardSendDTO struct {
	Card      int    `json:"card"`
	TotalCost int    `json:"total_cost"`
	User      string `json:"user"`
	Message   string `json:"message"`
}

// CampaignSendDTO is the drip campaign send response.
type CampaignSendDTO struct {
	CardIDs   []int  `json:"card_ids"`
	Mailing   int    `json:"mailing"`
	TotalCost int    `json:"total_cost"`
	User      string `json:"user"`
	Message   string `json:"message"`
}

// CardsSendDTO is the batch send response.
type CardsSendDTO struct {
	Mailing   int    `json:"mailing"`
	TotalCost int    `json:"total_cost"`
	User      string `json:"user"`
	Message   string `json:"message"`
}

// CampaignCostDTO is the campaign cost calculation response.
type CampaignCostDTO struct {
	TotalCost int `json:"total_cost"`
}
