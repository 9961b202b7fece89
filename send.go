package amcards

import (
	"context"
	"log/slog"
	"strings"

	"github.com/amcards/amcards-go/internal/address"
	"github.com/amcards/amcards-go/internal/apierrors"
	"github.com/amcards/amcards-go/internal/country"
	"github.com/amcards/amcards-go/internal/payload"
	"github.com/amcards/amcards-go/internal/validate"
)

// SendCard sends one card from templateID to shipping.
//
// shipping must have every required field. Only the card fields (required
// fields, country, organization, third_party_contact_id) are sent. Without
// WithSendDate the service sends the card on its next mailing day.
func (c *Client) SendCard(ctx context.Context, templateID int, shipping Address, opts ...SendOption) (*CardResponse, error) {
	cfg := newSendConfig(opts)

	if err := c.checkShipping(ctx, "send_card", shipping); err != nil {
		return nil, err
	}
	params := validate.Params{
		ResourceName: payload.KeyTemplateID,
		ResourceID:   templateID,
		SendDate:     cfg.sendDate,
	}
	if err := c.checkParams(ctx, "send_card", params); err != nil {
		return nil, err
	}

	ship := address.ForCardSend(shipping)
	ret := sanitizeReturn(cfg.returnAddress)
	body := payload.Card{
		TemplateID: templateID,
		Initiator:  c.initiator,
		Shipping:   ship,
		Return:     ret,
		SendDate:   cfg.sendDate,
	}.Build()

	dto, err := c.apiClient.SendCard(ctx, templateID, body)
	if err != nil {
		return nil, err
	}
	return &CardResponse{
		CardID:          dto.Card,
		TotalCost:       Cents(dto.TotalCost),
		User:            dto.User,
		Message:         dto.Message,
		ShippingAddress: ship,
		ReturnAddress:   ret,
	}, nil
}

// SendCampaign sends the drip campaign campaignID to shipping.
//
// Besides the card fields, shipping may carry phone_number (exactly 10
// digits, see NormalizePhone), birth_date and anniversary_date (YYYY-MM-DD).
// A campaign that disallows duplicates returns ErrDuplicateCampaign for a
// recipient who already received it.
func (c *Client) SendCampaign(ctx context.Context, campaignID int, shipping Address, opts ...SendOption) (*CampaignResponse, error) {
	cfg := newSendConfig(opts)

	if err := c.checkShipping(ctx, "send_campaign", shipping); err != nil {
		return nil, err
	}
	if err := c.checkParams(ctx, "send_campaign", campaignParams(campaignID, shipping, cfg)); err != nil {
		return nil, err
	}

	ship := address.ForCampaignSend(shipping)
	ret := sanitizeReturn(cfg.returnAddress)
	body := payload.Campaign{
		CampaignID: campaignID,
		Initiator:  c.initiator,
		Shipping:   ship,
		Return:     ret,
		SendDate:   cfg.sendDate,
	}.Build()

	dto, err := c.apiClient.SendCampaign(ctx, campaignID, body)
	if err != nil {
		return nil, err
	}
	return &CampaignResponse{
		CardIDs:         dto.CardIDs,
		MailingID:       dto.Mailing,
		TotalCost:       Cents(dto.TotalCost),
		User:            dto.User,
		Message:         dto.Message,
		ShippingAddress: ship,
		ReturnAddress:   ret,
	}, nil
}

// SendCards sends templateID to every address in shipping as one mailing.
//
// Every recipient is validated before anything is sent. Without WithSendDate
// the mailing goes out immediately. By default the service halts the mailing
// at the first failed recipient; WithSendIfError(true) lets the rest go out.
// The outcome per recipient is available later through Mailing.
func (c *Client) SendCards(ctx context.Context, templateID int, shipping []Address, opts ...SendOption) (*CardsResponse, error) {
	cfg := newSendConfig(opts)

	if len(shipping) == 0 {
		return nil, c.reject(ctx, "send_cards", apierrors.InvalidRequest("at least one shipping address is required"))
	}
	for i, a := range shipping {
		if missing := validate.MissingRequiredFields(a); len(missing) > 0 {
			return nil, c.reject(ctx, "send_cards", apierrors.MissingRecipientFields(i, missing))
		}
	}
	params := validate.Params{
		ResourceName: payload.KeyTemplateID,
		ResourceID:   templateID,
		SendDate:     cfg.sendDate,
	}
	if err := c.checkParams(ctx, "send_cards", params); err != nil {
		return nil, err
	}

	ships := make([]address.Address, len(shipping))
	for i, a := range shipping {
		ships[i] = address.ForCardSend(a)
	}
	ret := sanitizeReturn(cfg.returnAddress)
	body := payload.Cards{
		TemplateID:  templateID,
		Initiator:   c.initiator,
		Shipping:    ships,
		Return:      ret,
		SendDate:    cfg.sendDate,
		Today:       c.now(),
		SendIfError: cfg.sendIfError,
	}.Build()

	dto, err := c.apiClient.SendCards(ctx, templateID, body)
	if err != nil {
		return nil, err
	}
	return &CardsResponse{
		MailingID:         dto.Mailing,
		TotalCost:         Cents(dto.TotalCost),
		User:              dto.User,
		Message:           dto.Message,
		ShippingAddresses: ships,
		ReturnAddress:     ret,
	}, nil
}

// SendCardCost returns what SendCard would charge for shipping, without
// sending anything. It fetches the account's pricing on every call.
//
// The postage is domestic only when both the shipping and the return country
// are in the account's domestic set. A shipping address without a country is
// treated as "US"; without a return country the account's own country is
// used.
func (c *Client) SendCardCost(ctx context.Context, shipping Address, opts ...SendOption) (Cents, error) {
	cfg := newSendConfig(opts)

	if err := c.checkShipping(ctx, "card_cost", shipping); err != nil {
		return 0, err
	}
	if err := c.checkParams(ctx, "card_cost", validate.Params{SendDate: cfg.sendDate}); err != nil {
		return 0, err
	}

	ship := address.ForCardSend(shipping)
	ret := sanitizeReturn(cfg.returnAddress)

	user, err := c.User(ctx)
	if err != nil {
		return 0, err
	}

	shipCountry := orDefault(ship[address.Country], country.DefaultCode)
	retCountry := orDefault(ret[address.Country], user.Country)
	cost := user.CardCost(shipCountry, retCountry)

	c.logger.DebugContext(ctx, "amcards card cost",
		slog.String("shipping_country", country.Normalize(shipCountry)),
		slog.String("return_country", country.Normalize(retCountry)),
		slog.String("postage", user.Postage(shipCountry, retCountry).String()),
		slog.Int("cost", int(cost)),
	)
	return cost, nil
}

// SendCampaignCost asks the service what SendCampaign would charge for
// sending campaignID to shipping. The same checks as SendCampaign apply.
func (c *Client) SendCampaignCost(ctx context.Context, campaignID int, shipping Address, opts ...SendOption) (Cents, error) {
	cfg := newSendConfig(opts)

	if err := c.checkShipping(ctx, "campaign_cost", shipping); err != nil {
		return 0, err
	}
	if err := c.checkParams(ctx, "campaign_cost", campaignParams(campaignID, shipping, cfg)); err != nil {
		return 0, err
	}

	body := payload.CampaignCost{
		CampaignID: campaignID,
		Shipping:   address.ForCampaignSend(shipping),
		Return:     sanitizeReturn(cfg.returnAddress),
		SendDate:   cfg.sendDate,
	}.Build()

	dto, err := c.apiClient.CampaignCost(ctx, campaignID, body)
	if err != nil {
		return 0, err
	}
	return Cents(dto.TotalCost), nil
}

func campaignParams(campaignID int, shipping Address, cfg *sendConfig) validate.Params {
	return validate.Params{
		ResourceName:    payload.KeyCampaignID,
		ResourceID:      campaignID,
		SendDate:        cfg.sendDate,
		PhoneNumber:     shipping[address.PhoneNumber],
		BirthDate:       shipping[address.BirthDate],
		AnniversaryDate: shipping[address.AnniversaryDate],
	}
}

func (c *Client) checkShipping(ctx context.Context, op string, shipping Address) error {
	if missing := validate.MissingRequiredFields(shipping); len(missing) > 0 {
		return c.reject(ctx, op, apierrors.MissingFields(missing))
	}
	return nil
}

func (c *Client) checkParams(ctx context.Context, op string, params validate.Params) error {
	if err := params.Check(); err != nil {
		return c.reject(ctx, op, err)
	}
	return nil
}

// reject logs a local validation failure and returns it.
func (c *Client) reject(ctx context.Context, op string, err error) error {
	c.logger.DebugContext(ctx, "amcards request rejected",
		slog.String("operation", op),
		slog.String("kind", apierrors.KindOf(err).String()),
		slog.Any("error", err),
	)
	return err
}

// sanitizeReturn returns nil when no return address was given.
func sanitizeReturn(ret Address) Address {
	if ret == nil {
		return nil
	}
	return address.ForReturnAddress(ret)
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
