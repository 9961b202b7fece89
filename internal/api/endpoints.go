package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/amcards/amcards-go/internal/payload"
)

// Resource paths.
const (
	pathUser              = "/.api/v1/user/"
	pathTemplate          = "/.api/v1/template/"
	pathQuickSendTemplate = "/.api/v1/quicksendtemplate/"
	pathCampaign          = "/.api/v1/campaign/"
	pathCard              = "/.api/v1/card/"
	pathContact           = "/.api/v1/contact/"
	pathMailing           = "/.api/v1/mailing/"
	pathSendCard          = "/cards/open-card-form-oa/"
	pathSendCampaign      = "/campaigns/open-campaign-form-oa/"
	pathSendCards         = "/cards/open-cards-form-oa/"
	pathCalculateCampaign = "/campaigns/calculate-campaign-cost/"
)

// ErrEmptyUser is returned when the user endpoint lists no objects.
var ErrEmptyUser = errors.New("user response contained no objects")

// GetUser retrieves the account the access token belongs to.
func (c *Client) GetUser(ctx context.Context) (*UserDTO, error) {
	users, err := list[UserDTO](ctx, c, OpGetUser, pathUser, nil)
	if err != nil {
		return nil, err
	}
	if len(users.Objects) == 0 {
		return nil, ErrEmptyUser
	}
	return &users.Objects[0], nil
}

// GetTemplate retrieves a template by id.
func (c *Client) GetTemplate(ctx context.Context, id int) (*TemplateDTO, error) {
	return getOne[TemplateDTO](ctx, c, OpGetTemplate, pathTemplate, id)
}

// ListTemplates lists the account's templates.
func (c *Client) ListTemplates(ctx context.Context, query url.Values) (*Envelope[TemplateDTO], error) {
	return list[TemplateDTO](ctx, c, OpListTemplates, pathTemplate, query)
}

// GetQuickSendTemplate retrieves a quicksend template by id.
func (c *Client) GetQuickSendTemplate(ctx context.Context, id int) (*TemplateDTO, error) {
	return getOne[TemplateDTO](ctx, c, OpGetQuickSendTemplate, pathQuickSendTemplate, id)
}

// ListQuickSendTemplates lists the quicksend templates available to the account.
func (c *Client) ListQuickSendTemplates(ctx context.Context, query url.Values) (*Envelope[TemplateDTO], error) {
	return list[TemplateDTO](ctx, c, OpListQuickSendTemplates, pathQuickSendTemplate, query)
}

// GetCampaign retrieves a drip campaign by id.
func (c *Client) GetCampaign(ctx context.Context, id int) (*CampaignDTO, error) {
	return getOne[CampaignDTO](ctx, c, OpGetCampaign, pathCampaign, id)
}

// ListCampaigns lists the account's drip campaigns.
func (c *Client) ListCampaigns(ctx context.Context, query url.Values) (*Envelope[CampaignDTO], error) {
	return list[CampaignDTO](ctx, c, OpListCampaigns, pathCampaign, query)
}

// GetCard retrieves a card by id.
func (c *Client) GetCard(ctx context.Context, id int) (*CardDTO, error) {
	return getOne[CardDTO](ctx, c, OpGetCard, pathCard, id)
}

// ListCards lists the account's cards.
func (c *Client) ListCards(ctx context.Context, query url.Values) (*Envelope[CardDTO], error) {
	return list[CardDTO](ctx, c, OpListCards, pathCard, query)
}

// GetContact retrieves a contact by id.
func (c *Client) GetContact(ctx context.Context, id int) (*ContactDTO, error) {
	return getOne[ContactDTO](ctx, c, OpGetContact, pathContact, id)
}

// ListContacts lists the account's contacts.
func (c *Client) ListContacts(ctx context.Context, query url.Values) (*Envelope[ContactDTO], error) {
	return list[ContactDTO](ctx, c, OpListContacts, pathContact, query)
}

// GetMailing retrieves a batch mailing by id.
func (c *Client) GetMailing(ctx context.Context, id int) (*MailingDTO, error) {
	return getOne[MailingDTO](ctx, c, OpGetMailing, pathMailing, id)
}

// SendCard posts a single card send.
func (c *Client) SendCard(ctx context.Context, templateID int, body payload.Body) (*CardSendDTO, error) {
	return post[CardSendDTO](ctx, c, OpSendCard, pathSendCard, templateID, body)
}

// SendCampaign posts a drip campaign send.
func (c *Client) SendCampaign(ctx context.Context, campaignID int, body payload.Body) (*CampaignSendDTO, error) {
	return post[CampaignSendDTO](ctx, c, OpSendCampaign, pathSendCampaign, campaignID, body)
}

// SendCards posts a batch send.
func (c *Client) SendCards(ctx context.Context, templateID int, body payload.Body) (*CardsSendDTO, error) {
	return post[CardsSendDTO](ctx, c, OpSendCards, pathSendCards, templateID, body)
}

// CampaignCost posts a campaign cost calculation.
func (c *Client) CampaignCost(ctx context.Context, campaignID int, body payload.Body) (*CampaignCostDTO, error) {
	return post[CampaignCostDTO](ctx, c, OpCampaignCost, pathCalculateCampaign, campaignID, body)
}

func getOne[T any](ctx context.Context, c *Client, op Operation, base string, id int) (*T, error) {
	path := fmt.Sprintf("%s%s/", base, url.PathEscape(fmt.Sprint(id)))
	return call[T](ctx, c, Request{Operation: op, Method: http.MethodGet, Path: path}, id)
}

func list[T any](ctx context.Context, c *Client, op Operation, path string, query url.Values) (*Envelope[T], error) {
	return call[Envelope[T]](ctx, c, Request{Operation: op, Method: http.MethodGet, Path: path, Query: query}, 0)
}

func post[T any](ctx context.Context, c *Client, op Operation, path string, resourceID int, body payload.Body) (*T, error) {
	return call[T](ctx, c, Request{Operation: op, Method: http.MethodPost, Path: path, Body: body}, resourceID)
}

// call sends req, maps the status and decodes a successful body into T.
func call[T any](ctx context.Context, c *Client, req Request, resourceID int) (*T, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := CheckStatus(req.Operation, resp, resourceID); err != nil {
		return nil, err
	}
	var result T
	if err := Decode(req.Operation, resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
