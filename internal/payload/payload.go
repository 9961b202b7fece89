// Package payload assembles the JSON bodies posted by the send operations.
//
// Each body is built by an ordered sequence of named steps starting from an
// empty map:
//
//  1. resource identifier and initiator
//  2. shipping fields, spread at the top level or wrapped in "recipients"
//  3. return address fields, prefixed with "return_", when one was supplied
//  4. send date fields
//  5. derived birth/anniversary day and month (campaign family only)
//  6. batch error handling flag (batch sends only)
//
// Inputs are expected to be validated and sanitized already.
package payload

import (
	"time"

	"github.com/amcards/amcards-go/internal/address"
)

// Body keys.
const (
	KeyTemplateID        = "template_id"
	KeyCampaignID        = "campaign_id"
	KeyInitiator         = "initiator"
	KeyRecipients        = "recipients"
	KeySendDate          = "send_date"
	KeySendDateType      = "send_date_type"
	KeySendDateOffset    = "send_date_offset"
	KeySendDateOffsetDir = "send_date_offset_direction"
	KeySendIfError       = "send_if_error"

	ReturnPrefix = "return_"

	BirthDay         = "birth_day"
	BirthMonth       = "birth_month"
	AnniversaryDay   = "anniversary_day"
	AnniversaryMonth = "anniversary_month"
)

// Batch send date types.
const (
	SendImmediate    = "immediate"
	SendSpecificDate = "specific_date"
)

// DateLayout is the YYYY-MM-DD layout used for send dates.
const DateLayout = "2006-01-02"

// Body is an outbound request body.
type Body map[string]any

type builder struct {
	body Body
}

func newBuilder() *builder {
	return &builder{body: Body{}}
}

func (b *builder) set(key string, value any) *builder {
	b.body[key] = value
	return b
}

func (b *builder) identifier(key string, id int, initiator string) *builder {
	b.set(key, id)
	if initiator != "" {
		b.set(KeyInitiator, initiator)
	}
	return b
}

func (b *builder) spread(a address.Address) *builder {
	for k, v := range a {
		b.set(k, v)
	}
	return b
}

func (b *builder) recipients(list []address.Address) *builder {
	return b.set(KeyRecipients, list)
}

func (b *builder) returnAddress(ret address.Address) *builder {
	if ret == nil {
		return b
	}
	for k, v := range ret {
		b.set(ReturnPrefix+k, v)
	}
	return b
}

func (b *builder) sendDate(date string) *builder {
	if date != "" {
		b.set(KeySendDate, date)
	}
	return b
}

func (b *builder) build() Body {
	return b.body
}

// withDerivedDates returns a copy of a with day and month fields split out of
// birth_date and anniversary_date.
func withDerivedDates(a address.Address) address.Address {
	out := a.Clone()
	if day, month, ok := splitDate(a[address.BirthDate]); ok {
		out[BirthDay] = day
		out[BirthMonth] = month
	}
	if day, month, ok := splitDate(a[address.AnniversaryDate]); ok {
		out[AnniversaryDay] = day
		out[AnniversaryMonth] = month
	}
	return out
}

// splitDate takes the day from the last two characters and the month from
// the two before the final separator.
func splitDate(date string) (day, month string, ok bool) {
	n := len(date)
	if n < 5 {
		return "", "", false
	}
	return date[n-2:], date[n-5 : n-3], true
}

// Card is the single card send.
type Card struct {
	TemplateID int
	Initiator  string
	Shipping   address.Address
	Return     address.Address
	SendDate   string
}

// Build assembles the body for a single card send.
func (c Card) Build() Body {
	return newBuilder().
		identifier(KeyTemplateID, c.TemplateID, c.Initiator).
		spread(c.Shipping).
		returnAddress(c.Return).
		sendDate(c.SendDate).
		build()
}

// Campaign is the single drip campaign send.
type Campaign struct {
	CampaignID int
	Initiator  string
	Shipping   address.Address
	Return     address.Address
	SendDate   string
}

// Build assembles the body for a drip campaign send.
func (c Campaign) Build() Body {
	return newBuilder().
		identifier(KeyCampaignID, c.CampaignID, c.Initiator).
		spread(withDerivedDates(c.Shipping)).
		returnAddress(c.Return).
		sendDate(c.SendDate).
		build()
}

// CampaignCost is the campaign cost calculation. It carries no initiator.
type CampaignCost struct {
	CampaignID int
	Shipping   address.Address
	Return     address.Address
	SendDate   string
}

// Build assembles the body for a campaign cost calculation.
func (c CampaignCost) Build() Body {
	return newBuilder().
		identifier(KeyCampaignID, c.CampaignID, "").
		recipients([]address.Address{withDerivedDates(c.Shipping)}).
		returnAddress(c.Return).
		sendDate(c.SendDate).
		build()
}

// Cards is the multi-recipient batch send.
type Cards struct {
	TemplateID  int
	Initiator   string
	Shipping    []address.Address
	Return      address.Address
	SendDate    string
	Today       time.Time
	SendIfError bool
}

// Build assembles the body for a batch send. Without a SendDate the batch is
// sent immediately and Today fills the send date.
func (c Cards) Build() Body {
	b := newBuilder().
		identifier(KeyTemplateID, c.TemplateID, c.Initiator).
		recipients(c.Shipping).
		returnAddress(c.Return)

	if c.SendDate != "" {
		b.set(KeySendDate, c.SendDate).set(KeySendDateType, SendSpecificDate)
	} else {
		b.set(KeySendDate, c.Today.Format(DateLayout)).set(KeySendDateType, SendImmediate)
	}
	// The endpoint requires the offset pair even though it ignores them.
	b.set(KeySendDateOffset, 0).set(KeySendDateOffsetDir, "before")

	return b.set(KeySendIfError, c.SendIfError).build()
}
