// Package apierrors provides shared error types for the AMcards client.
package apierrors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind tags an *Error with the failure it describes.
type Kind int

const (
	// KindUnknown is the zero Kind.
	KindUnknown Kind = iota

	// Local validation kinds. No request is made when one of these is returned.
	KindShippingAddress
	KindDateFormat
	KindPhoneFormat
	KindInvalidRequest

	// Service kinds, derived from the HTTP status of a response.
	KindAuthentication
	KindInsufficientCredits
	KindForbiddenTemplate
	KindForbiddenCampaign
	KindForbiddenCard
	KindForbiddenMailing
	KindForbiddenContact
	KindDuplicateCampaign
	KindCardSend
	KindCardsSend
	KindCampaignSend
	KindUnexpectedStatus
)

var kindNames = map[Kind]string{
	KindUnknown:             "unknown",
	KindShippingAddress:     "shipping_address",
	KindDateFormat:          "date_format",
	KindPhoneFormat:         "phone_format",
	KindInvalidRequest:      "invalid_request",
	KindAuthentication:      "authentication",
	KindInsufficientCredits: "insufficient_credits",
	KindForbiddenTemplate:   "forbidden_template",
	KindForbiddenCampaign:   "forbidden_campaign",
	KindForbiddenCard:       "forbidden_card",
	KindForbiddenMailing:    "forbidden_mailing",
	KindForbiddenContact:    "forbidden_contact",
	KindDuplicateCampaign:   "duplicate_campaign",
	KindCardSend:            "card_send",
	KindCardsSend:           "cards_send",
	KindCampaignSend:        "campaign_send",
	KindUnexpectedStatus:    "unexpected_status",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsValidation reports whether k is raised before any request is made.
func (k Kind) IsValidation() bool {
	switch k {
	case KindShippingAddress, KindDateFormat, KindPhoneFormat, KindInvalidRequest:
		return true
	}
	return false
}

// IsForbidden reports whether k is a resource ownership failure.
func (k Kind) IsForbidden() bool {
	switch k {
	case KindForbiddenTemplate, KindForbiddenCampaign, KindForbiddenCard,
		KindForbiddenMailing, KindForbiddenContact:
		return true
	}
	return false
}

// IsSendFailure reports whether k is an unmapped failure of a send operation.
func (k Kind) IsSendFailure() bool {
	return k == KindCardSend || k == KindCardsSend || k == KindCampaignSend
}

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingAccessToken is returned when no access token is provided.
	ErrMissingAccessToken = errors.New("access token is required")

	// ErrValidation matches every local validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrShippingAddress is returned when required shipping address fields are missing.
	ErrShippingAddress = errors.New("shipping address is missing required fields")

	// ErrDateFormat is returned when a date is not in YYYY-MM-DD form.
	ErrDateFormat = errors.New("date must be in YYYY-MM-DD format")

	// ErrPhoneFormat is returned when a phone number is not exactly 10 digits.
	ErrPhoneFormat = errors.New("phone number must be exactly 10 digits")

	// ErrInvalidRequest is returned when a send parameter is missing or malformed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrAuthentication is returned when the access token is invalid or expired.
	ErrAuthentication = errors.New("invalid or expired access token")

	// ErrInsufficientCredits is returned when the account balance cannot cover a send.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrForbiddenResource matches every resource ownership failure.
	ErrForbiddenResource = errors.New("resource is not owned by this account")

	// ErrForbiddenTemplate is returned when a template is not owned by the account.
	ErrForbiddenTemplate = errors.New("template is not owned by this account")

	// ErrForbiddenCampaign is returned when a campaign is not owned by the account.
	ErrForbiddenCampaign = errors.New("campaign is not owned by this account")

	// ErrForbiddenCard is returned when a card is not owned by the account.
	ErrForbiddenCard = errors.New("card is not owned by this account")

	// ErrForbiddenMailing is returned when a mailing is not owned by the account.
	ErrForbiddenMailing = errors.New("mailing is not owned by this account")

	// ErrForbiddenContact is returned when a contact is not owned by the account.
	ErrForbiddenContact = errors.New("contact is not owned by this account")

	// ErrDuplicateCampaign is returned when the service rejects a duplicate campaign recipient.
	ErrDuplicateCampaign = errors.New("duplicate campaign detected")

	// ErrSendFailed matches every unmapped send failure.
	ErrSendFailed = errors.New("send failed")

	// ErrUnexpectedStatus is returned for statuses with no specific mapping.
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

var kindSentinels = map[Kind]error{
	KindShippingAddress:     ErrShippingAddress,
	KindDateFormat:          ErrDateFormat,
	KindPhoneFormat:         ErrPhoneFormat,
	KindInvalidRequest:      ErrInvalidRequest,
	KindAuthentication:      ErrAuthentication,
	KindInsufficientCredits: ErrInsufficientCredits,
	KindForbiddenTemplate:   ErrForbiddenTemplate,
	KindForbiddenCampaign:   ErrForbiddenCampaign,
	KindForbiddenCard:       ErrForbiddenCard,
	KindForbiddenMailing:    ErrForbiddenMailing,
	KindForbiddenContact:    ErrForbiddenContact,
	KindDuplicateCampaign:   ErrDuplicateCampaign,
	KindUnexpectedStatus:    ErrUnexpectedStatus,
}

// Error is the single error type returned by the client for domain failures.
type Error struct {
	Kind       Kind
	Message    string
	ResourceID string   // template, campaign, card, mailing or contact id
	StatusCode int      // zero for local validation failures
	Fields     []string // missing fields, in check order
	RequestID  string   // X-Request-ID of the failed request
}

func (e *Error) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s (request_id: %s)", e.Message, e.RequestID)
	}
	return e.Message
}

// Is implements errors.Is for sentinel error matching.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind.IsValidation()
	case ErrForbiddenResource:
		return e.Kind.IsForbidden()
	case ErrSendFailed:
		return e.Kind.IsSendFailure()
	}
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsValidationError reports whether err was raised locally, before any request.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// MissingFields builds the shipping address error listing every missing field.
func MissingFields(fields []string) *Error {
	return &Error{
		Kind:    KindShippingAddress,
		Message: fmt.Sprintf("shipping address is missing required fields: %s", strings.Join(fields, ", ")),
		Fields:  fields,
	}
}

// MissingRecipientFields is MissingFields for one recipient of a batch.
func MissingRecipientFields(index int, fields []string) *Error {
	return &Error{
		Kind: KindShippingAddress,
		Message: fmt.Sprintf("shipping address %d is missing required fields: %s",
			index, strings.Join(fields, ", ")),
		Fields: fields,
	}
}

// DateFormat reports that field holds a value that is not YYYY-MM-DD.
func DateFormat(field, value string) *Error {
	return &Error{
		Kind:    KindDateFormat,
		Message: fmt.Sprintf("%s %q must be in YYYY-MM-DD format", field, value),
		Fields:  []string{field},
	}
}

// PhoneFormat reports a phone number that is not exactly 10 digits.
func PhoneFormat(value string) *Error {
	return &Error{
		Kind:    KindPhoneFormat,
		Message: fmt.Sprintf("phone_number %q must be exactly 10 digits with no formatting", value),
		Fields:  []string{"phone_number"},
	}
}

// InvalidRequest reports a missing or malformed send parameter.
func InvalidRequest(format string, args ...any) *Error {
	return &Error{
		Kind:    KindInvalidRequest,
		Message: fmt.Sprintf(format, args...),
	}
}

// ResourceKind names what a resource id refers to.
type ResourceKind string

const (
	ResourceTemplate ResourceKind = "template"
	ResourceCampaign ResourceKind = "campaign"
	ResourceCard     ResourceKind = "card"
	ResourceMailing  ResourceKind = "mailing"
	ResourceContact  ResourceKind = "contact"
)

// ForbiddenKind returns the ownership Kind for a resource.
func (r ResourceKind) ForbiddenKind() Kind {
	switch r {
	case ResourceTemplate:
		return KindForbiddenTemplate
	case ResourceCampaign:
		return KindForbiddenCampaign
	case ResourceCard:
		return KindForbiddenCard
	case ResourceMailing:
		return KindForbiddenMailing
	case ResourceContact:
		return KindForbiddenContact
	}
	return KindUnknown
}

// Forbidden reports that the resource with id is not owned by the account.
func Forbidden(resource ResourceKind, id string, status int) *Error {
	return &Error{
		Kind:       resource.ForbiddenKind(),
		Message:    fmt.Sprintf("%s with id %s is not owned by this account", resource, id),
		ResourceID: id,
		StatusCode: status,
	}
}

// NetworkError represents a network-level failure.
type NetworkError struct {
	Err       error
	URL       string
	RequestID string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}
