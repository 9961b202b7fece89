package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/amcards/amcards-go/internal/apierrors"
)

// Operation names a call to the service. It labels spans and metrics and
// selects the status mapping in CheckStatus.
type Operation string

const (
	OpGetUser                Operation = "get_user"
	OpGetTemplate            Operation = "get_template"
	OpListTemplates          Operation = "list_templates"
	OpGetQuickSendTemplate   Operation = "get_quicksend_template"
	OpListQuickSendTemplates Operation = "list_quicksend_templates"
	OpGetCampaign            Operation = "get_campaign"
	OpListCampaigns          Operation = "list_campaigns"
	OpGetCard                Operation = "get_card"
	OpListCards              Operation = "list_cards"
	OpGetContact             Operation = "get_contact"
	OpListContacts           Operation = "list_contacts"
	OpGetMailing             Operation = "get_mailing"
	OpSendCard               Operation = "send_card"
	OpSendCampaign           Operation = "send_campaign"
	OpSendCards              Operation = "send_cards"
	OpCampaignCost           Operation = "campaign_cost"
)

// resource returns the resource kind an operation's id refers to.
func (op Operation) resource() apierrors.ResourceKind {
	switch op {
	case OpGetTemplate, OpGetQuickSendTemplate, OpSendCard, OpSendCards:
		return apierrors.ResourceTemplate
	case OpGetCampaign, OpSendCampaign, OpCampaignCost:
		return apierrors.ResourceCampaign
	case OpGetCard:
		return apierrors.ResourceCard
	case OpGetContact:
		return apierrors.ResourceContact
	case OpGetMailing:
		return apierrors.ResourceMailing
	}
	return ""
}

// sendFailure returns the unmapped-failure Kind of a send operation, or
// KindUnknown for non-send operations.
func (op Operation) sendFailure() apierrors.Kind {
	switch op {
	case OpSendCard:
		return apierrors.KindCardSend
	case OpSendCards:
		return apierrors.KindCardsSend
	case OpSendCampaign, OpCampaignCost:
		return apierrors.KindCampaignSend
	}
	return apierrors.KindUnknown
}

func (op Operation) isGetByID() bool {
	switch op {
	case OpGetTemplate, OpGetQuickSendTemplate, OpGetCampaign, OpGetCard, OpGetContact, OpGetMailing:
		return true
	}
	return false
}

// CheckStatus maps a response status to a domain error. It returns nil for
// 2xx. resourceID is the id the operation targeted, if any; it is carried by
// ownership errors.
func CheckStatus(op Operation, resp *Response, resourceID int) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	err := mapStatus(op, resp, resourceID)
	err.StatusCode = resp.StatusCode
	err.RequestID = resp.RequestID
	return err
}

func mapStatus(op Operation, resp *Response, resourceID int) *apierrors.Error {
	id := ""
	if resourceID != 0 {
		id = strconv.Itoa(resourceID)
	}
	status := resp.StatusCode

	if status == http.StatusUnauthorized {
		return &apierrors.Error{
			Kind:    apierrors.KindAuthentication,
			Message: "access token is invalid or expired",
		}
	}

	if sendKind := op.sendFailure(); sendKind != apierrors.KindUnknown {
		switch {
		case status == http.StatusPaymentRequired:
			return &apierrors.Error{
				Kind:    apierrors.KindInsufficientCredits,
				Message: "account has insufficient credits for this send",
			}
		case status == http.StatusForbidden:
			return apierrors.Forbidden(op.resource(), id, status)
		case status == http.StatusConflict && op == OpSendCampaign:
			return &apierrors.Error{
				Kind:       apierrors.KindDuplicateCampaign,
				Message:    fmt.Sprintf("campaign %s was already sent to this recipient and does not allow duplicates", id),
				ResourceID: id,
			}
		}
		return &apierrors.Error{
			Kind:       sendKind,
			Message:    fmt.Sprintf("%s failed with status %d%s", op, status, detail(resp.Body)),
			ResourceID: id,
		}
	}

	if op.isGetByID() && (status == http.StatusForbidden || status == http.StatusNotFound) {
		return apierrors.Forbidden(op.resource(), id, status)
	}

	return &apierrors.Error{
		Kind:       apierrors.KindUnexpectedStatus,
		Message:    fmt.Sprintf("%s returned unexpected status %d%s", op, status, detail(resp.Body)),
		ResourceID: id,
	}
}

// detail extracts a human-readable reason from an error body.
func detail(body []byte) string {
	var errResp struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return ""
	}
	for _, s := range []string{errResp.Message, errResp.Detail, errResp.Error} {
		if s != "" {
			return ": " + s
		}
	}
	return ""
}

// Decode unmarshals a successful response body into v.
func Decode(op Operation, resp *Response, v any) error {
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}
