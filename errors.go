package amcards

import (
	"github.com/amcards/amcards-go/internal/api"
	"github.com/amcards/amcards-go/internal/apierrors"
	"github.com/amcards/amcards-go/internal/validate"
)

// Error is the single error type returned for domain failures. Inspect its
// Kind, or match it with errors.Is against the sentinels below.
type Error = apierrors.Error

// Kind tags an Error with the failure it describes.
type Kind = apierrors.Kind

// NetworkError represents a failure to get any HTTP response.
type NetworkError = apierrors.NetworkError

// Error kinds.
const (
	KindShippingAddress     = apierrors.KindShippingAddress
	KindDateFormat          = apierrors.KindDateFormat
	KindPhoneFormat         = apierrors.KindPhoneFormat
	KindInvalidRequest      = apierrors.KindInvalidRequest
	KindAuthentication      = apierrors.KindAuthentication
	KindInsufficientCredits = apierrors.KindInsufficientCredits
	KindForbiddenTemplate   = apierrors.KindForbiddenTemplate
	KindForbiddenCampaign   = apierrors.KindForbiddenCampaign
	KindForbiddenCard       = apierrors.KindForbiddenCard
	KindForbiddenMailing    = apierrors.KindForbiddenMailing
	KindForbiddenContact    = apierrors.KindForbiddenContact
	KindDuplicateCampaign   = apierrors.KindDuplicateCampaign
	KindCardSend            = apierrors.KindCardSend
	KindCardsSend           = apierrors.KindCardsSend
	KindCampaignSend        = apierrors.KindCampaignSend
	KindUnexpectedStatus    = apierrors.KindUnexpectedStatus
)

// Sentinel errors for errors.Is() checks
var (
	ErrMissingAccessToken  = apierrors.ErrMissingAccessToken
	ErrValidation          = apierrors.ErrValidation
	ErrShippingAddress     = apierrors.ErrShippingAddress
	ErrDateFormat          = apierrors.ErrDateFormat
	ErrPhoneFormat         = apierrors.ErrPhoneFormat
	ErrInvalidRequest      = apierrors.ErrInvalidRequest
	ErrAuthentication      = apierrors.ErrAuthentication
	ErrInsufficientCredits = apierrors.ErrInsufficientCredits
	ErrForbiddenResource   = apierrors.ErrForbiddenResource
	ErrForbiddenTemplate   = apierrors.ErrForbiddenTemplate
	ErrForbiddenCampaign   = apierrors.ErrForbiddenCampaign
	ErrForbiddenCard       = apierrors.ErrForbiddenCard
	ErrForbiddenMailing    = apierrors.ErrForbiddenMailing
	ErrForbiddenContact    = apierrors.ErrForbiddenContact
	ErrDuplicateCampaign   = apierrors.ErrDuplicateCampaign
	ErrSendFailed          = apierrors.ErrSendFailed
	ErrUnexpectedStatus    = apierrors.ErrUnexpectedStatus

	// ErrCircuitOpen is returned without a request being made while the
	// circuit breaker is open.
	ErrCircuitOpen = api.ErrCircuitOpen

	// ErrEmptyUser is returned when the user endpoint returns no account.
	ErrEmptyUser = api.ErrEmptyUser
)

// IsValidationError reports whether err is a local validation failure, which
// means no request was sent.
func IsValidationError(err error) bool {
	return apierrors.IsValidationError(err)
}

// KindOf returns the Kind of the first *Error in err's chain, or the zero
// Kind when there is none.
func KindOf(err error) Kind {
	return apierrors.KindOf(err)
}

// NormalizePhone converts a formatted phone number such as "(555) 666-7777"
// into the 10-digit form the campaign endpoints accept. region is an ISO
// country code used when the number has no international prefix; empty
// means "US".
func NormalizePhone(raw, region string) (string, error) {
	return validate.NationalPhone(raw, region)
}
