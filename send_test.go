package amcards

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func validShipping() Address {
	return Address{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		AddressLine1: "12 Main St",
		City:         "Raleigh",
		State:        "NC",
		PostalCode:   "27601",
	}
}

const (
	pathSendCard     = "/cards/open-card-form-oa/"
	pathSendCampaign = "/campaigns/open-campaign-form-oa/"
	pathSendCards    = "/cards/open-cards-form-oa/"
	pathCampaignCost = "/campaigns/calculate-campaign-cost/"
	pathUser         = "/.api/v1/user/"
)

func TestSendCardCost_Domestic(t *testing.T) {
	client, s := newSpyClient(t, map[string]reply{pathUser: {200, userBody}})
	ship := validShipping()
	ship[Country] = "USA"

	cost, err := client.SendCardCost(context.Background(), ship)
	require.NoError(t, err)

	assert.Equal(t, Cents(376+66), cost)
	assert.Equal(t, 1, s.calls())
}

func TestSendCardCost_International(t *testing.T) {
	client, _ := newSpyClient(t, map[string]reply{pathUser: {200, userBody}})
	ship := validShipping()
	ship[Country] = "FR"

	cost, err := client.SendCardCost(context.Background(), ship)
	require.NoError(t, err)

	assert.Equal(t, Cents(376+150), cost)
}

func TestSendCardCost_Fallbacks(t *testing.T) {
	client, _ := newSpyClient(t, map[string]reply{pathUser: {200, userBody}})
	ctx := context.Background()

	// No shipping country means US; no return country means the account's
	// "USA", which normalizes to US.
	cost, err := client.SendCardCost(ctx, validShipping())
	require.NoError(t, err)
	assert.Equal(t, Cents(442), cost)

	cost, err = client.SendCardCost(ctx, validShipping(), WithReturnAddress(Address{Country: "England"}))
	require.NoError(t, err)
	assert.Equal(t, Cents(526), cost)

	cost, err = client.SendCardCost(ctx, validShipping(), WithReturnAddress(Address{City: "Raleigh"}))
	require.NoError(t, err)
	assert.Equal(t, Cents(442), cost)
}

func TestSendCardCost_ValidatesBeforeFetchingUser(t *testing.T) {
	client, s := newSpyClient(t, map[string]reply{pathUser: {200, userBody}})
	ship := validShipping()
	delete(ship, City)

	_, err := client.SendCardCost(context.Background(), ship)
	assert.ErrorIs(t, err, ErrShippingAddress)
	assert.Zero(t, s.calls())

	_, err = client.SendCardCost(context.Background(), validShipping(), WithSendDate("tomorrow"))
	assert.ErrorIs(t, err, ErrDateFormat)
	assert.Zero(t, s.calls())
}

func TestSendCard_MissingPostalCode(t *testing.T) {
	client, s := newSpyClient(t, map[string]reply{pathSendCard: {200, `{}`}})
	ship := validShipping()
	delete(ship, PostalCode)

	_, err := client.SendCard(context.Background(), 77, ship)
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrShippingAddress)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "postal_code")
	assert.Zero(t, s.calls())
}

func TestSendCard_ListsEveryMissingField(t *testing.T) {
	client, s := newSpyClient(t, nil)
	ship := Address{FirstName: "Ada", City: "  "}

	_, err := client.SendCard(context.Background(), 77, ship)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.ElementsMatch(t, []string{LastName, AddressLine1, City, State, PostalCode}, apiErr.Fields)
	assert.Zero(t, s.calls())
}

func TestSendCard_InvalidParams(t *testing.T) {
	client, s := newSpyClient(t, nil)

	tests := []struct {
		name       string
		templateID int
		opts       []SendOption
		target     error
	}{
		{"zero template", 0, nil, ErrInvalidRequest},
		{"negative template", -3, nil, ErrInvalidRequest},
		{"bad send date", 77, []SendOption{WithSendDate("05/01/2030")}, ErrDateFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.SendCard(context.Background(), tt.templateID, validShipping(), tt.opts...)
			assert.ErrorIs(t, err, tt.target)
			assert.True(t, IsValidationError(err))
		})
	}
	assert.Zero(t, s.calls())
}

func TestSendCampaign_PhoneFormat(t *testing.T) {
	client, s := newSpyClient(t, map[string]reply{pathSendCampaign: {200, `{}`}})
	ship := validShipping()
	ship[PhoneNumber] = "555-666-7777"

	_, err := client.SendCampaign(context.Background(), 12, ship)

	assert.ErrorIs(t, err, ErrPhoneFormat)
	assert.Equal(t, KindPhoneFormat, KindOf(err))
	assert.Zero(t, s.calls())
}

func TestSendCampaign_DateFormats(t *testing.T) {
	client, s := newSpyClient(t, nil)

	for _, field := range []string{BirthDate, AnniversaryDate} {
		ship := validShipping()
		ship[field] = "1990/04/23"

		_, err := client.SendCampaign(context.Background(), 12, ship)
		assert.ErrorIs(t, err, ErrDateFormat)
		assert.Contains(t, err.Error(), field)
	}
	assert.Zero(t, s.calls())
}

func TestSendCard_ForbiddenTemplate(t *testing.T) {
	client, s := newSpyClient(t, map[string]reply{pathSendCard: {403, `{"detail":"forbidden"}`}})

	_, err := client.SendCard(context.Background(), 4321, validShipping())

	assert.ErrorIs(t, err, ErrForbiddenTemplate)
	assert.Contains(t, err.Error(), "4321")
	assert.Equal(t, 1, s.calls())
}

func TestSendCard_Success(t *testing.T) {
	client, s := newSpyClient(t, map[string]reply{
		pathSendCard: {200, `{"card": 1522873, "total_cost": 442, "user": "a@b.com", "message": "ok",
			"shipping_address": {"first_name": "Someone Else"}}`},
	})
	ship := validShipping()
	ship[PhoneNumber] = "5556667777"
	ship[Organization] = "Analytical Engines"

	resp, err := client.SendCard(context.Background(), 77, ship,
		WithReturnAddress(Address{FirstName: "Grace", Country: "US", "nickname": "amazing"}),
		WithSendDate("2030-05-01"),
	)
	require.NoError(t, err)

	want := validShipping()
	want[Organization] = "Analytical Engines"
	assert.Equal(t, 1522873, resp.CardID)
	assert.Equal(t, Cents(442), resp.TotalCost)
	assert.Equal(t, "a@b.com", resp.User)
	assert.Equal(t, "ok", resp.Message)
	assert.Equal(t, want, resp.ShippingAddress)
	assert.Equal(t, Address{FirstName: "Grace", Country: "US"}, resp.ReturnAddress)

	body := s.last().body
	assert.Equal(t, float64(77), body["template_id"])
	assert.Equal(t, "amcards-go", body["initiator"])
	assert.Equal(t, "Ada", body["first_name"])
	assert.Equal(t, "Analytical Engines", body["organization"])
	assert.NotContains(t, body, "phone_number")
	assert.Equal(t, "Grace", body["return_first_name"])
	assert.NotContains(t, body, "return_nickname")
	assert.Equal(t, "2030-05-01", body["send_date"])
}

func TestSendCard_InsufficientCredits(t *testing.T) {
	client, _ := newSpyClient(t, map[string]reply{pathSendCard: {402, `{}`}})

	_, err := client.SendCard(context.Background(), 77, validShipping())
	assert.ErrorIs(t, err, ErrInsufficientCredits)
	assert.False(t, IsValidationError(err))
}

func TestSendCard_UnmappedStatus(t *testing.T) {
	client, _ := newSpyClient(t, map[string]reply{pathSendCard: {400, `{"message":"template archived"}`}})

	_, err := client.SendCard(context.Background(), 77, validShipping())
	assert.ErrorIs(t, err, ErrSendFailed)
	assert.Equal(t, KindCardSend, KindOf(err))
	assert.Contains(t, err.Error(), "template archived")
}

func TestSendCampaign_Success(t *testing.T) {
	client, s := newSpyClient(t, map[string]reply{
		pathSendCampaign: {200, `{"card_ids": [10, 11, 12], "mailing": 99, "total_cost": 1326, "user": "a@b.com", "message": "ok"}`},
	}, WithInitiator("crm-sync"))
	ship := validShipping()
	ship[PhoneNumber] = "5556667777"
	ship[BirthDate] = "1815-12-10"
	ship[AnniversaryDate] = ""

	resp, err := client.SendCampaign(context.Background(), 12, ship)
	require.NoError(t, err)

	assert.Equal(t, []int{10, 11, 12}, resp.CardIDs)
	assert.Equal(t, 99, resp.MailingID)
	assert.Equal(t, Cents(1326), resp.TotalCost)
	assert.Equal(t, "5556667777", resp.ShippingAddress[PhoneNumber])
	assert.NotContains(t, resp.ShippingAddress, AnniversaryDate)
	assert.Nil(t, resp.ReturnAddress)

	body := s.last().body
	assert.Equal(t, float64(12), body["campaign_id"])
	assert.Equal(t, "crm-sync", body["initiator"])
	assert.Equal(t, "10", body["birth_day"])
	assert.Equal(t, "12", body["birth_month"])
	assert.NotContains(t, body, "anniversary_day")
	assert.NotContains(t, body, "send_date")
}

func TestSendCampaign_Duplicate(t *testing.T) {
	client, _ := newSpyClient(t, map[string]reply{pathSendCampaign: {409, `{}`}})

	_, err := client.SendCampaign(context.Background(), 12, validShipping())
	assert.ErrorIs(t, err, ErrDuplicateCampaign)
}

func TestSendCampaign_Forbidden(t *testing.T) {
	client, _ := newSpyClient(t, map[string]reply{pathSendCampaign: {403, `{}`}})

	_, err := client.SendCampaign(context.Background(), 12, validShipping())
	assert.ErrorIs(t, err, ErrForbiddenCampaign)
	assert.Contains(t, err.Error(), "12")
}

func TestSendCards_Immediate(t *testing.T) {
	today := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	client, s := newSpyClient(t, map[string]reply{
		pathSendCards: {200, `{"mailing": 55, "total_cost": 884, "user": "a@b.com", "message": "queued"}`},
	}, WithClock(func() time.Time { return today }))

	second := validShipping()
	second[FirstName] = "Charles"
	second[BirthDate] = "1791-12-26"

	resp, err := client.SendCards(context.Background(), 77, []Address{validShipping(), second})
	require.NoError(t, err)

	assert.Equal(t, 55, resp.MailingID)
	require.Len(t, resp.ShippingAddresses, 2)
	assert.NotContains(t, resp.ShippingAddresses[1], BirthDate)

	body := s.last().body
	assert.Equal(t, "2026-10-19", body["send_date"])
	assert.Equal(t, "immediate", body["send_date_type"])
	assert.Equal(t, float64(0), body["send_date_offset"])
	assert.Equal(t, "before", body["send_date_offset_direction"])
	assert.Equal(t, false, body["send_if_error"])

	recipients, ok := body["recipients"].([]any)
	require.True(t, ok)
	require.Len(t, recipients, 2)
	assert.Equal(t, "Charles", recipients[1].(map[string]any)["first_name"])
}

func TestSendCards_SpecificDate(t *testing.T) {
	client, s := newSpyClient(t, map[string]reply{pathSendCards: {200, `{"mailing": 56}`}})

	_, err := client.SendCards(context.Background(), 77, []Address{validShipping()},
		WithSendDate("2030-02-14"), WithSendIfError(true))
	require.NoError(t, err)

	body := s.last().body
	assert.Equal(t, "2030-02-14", body["send_date"])
	assert.Equal(t, "specific_date", body["send_date_type"])
	assert.Equal(t, true, body["send_if_error"])
}

func TestSendCards_Validation(t *testing.T) {
	client, s := newSpyClient(t, nil)
	ctx := context.Background()

	_, err := client.SendCards(ctx, 77, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	bad := validShipping()
	delete(bad, State)
	delete(bad, LastName)
	_, err = client.SendCards(ctx, 77, []Address{validShipping(), bad})
	assert.ErrorIs(t, err, ErrShippingAddress)
	assert.Contains(t, err.Error(), "1")
	assert.Contains(t, err.Error(), "state")
	assert.Contains(t, err.Error(), "last_name")

	_, err = client.SendCards(ctx, 0, []Address{validShipping()})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	assert.Zero(t, s.calls())
}

func TestSendCampaignCost(t *testing.T) {
	client, s := newSpyClient(t, map[string]reply{pathCampaignCost: {200, `{"total_cost": 1325}`}})
	ship := validShipping()
	ship[BirthDate] = "1990-04-23"

	cost, err := client.SendCampaignCost(context.Background(), 12, ship, WithReturnAddress(Address{Country: "US"}))
	require.NoError(t, err)
	assert.Equal(t, Cents(1325), cost)

	body := s.last().body
	assert.Equal(t, float64(12), body["campaign_id"])
	assert.NotContains(t, body, "initiator")
	assert.NotContains(t, body, "first_name")
	assert.Equal(t, "US", body["return_country"])

	recipients := body["recipients"].([]any)
	require.Len(t, recipients, 1)
	assert.Equal(t, "23", recipients[0].(map[string]any)["birth_day"])
}

func TestSendCampaignCost_Errors(t *testing.T) {
	client, s := newSpyClient(t, map[string]reply{pathCampaignCost: {402, `{}`}})

	ship := validShipping()
	ship[PhoneNumber] = "(555) 666-7777"
	_, err := client.SendCampaignCost(context.Background(), 12, ship)
	assert.ErrorIs(t, err, ErrPhoneFormat)
	assert.Zero(t, s.calls())

	_, err = client.SendCampaignCost(context.Background(), 12, validShipping())
	assert.ErrorIs(t, err, ErrInsufficientCredits)
	assert.Equal(t, 1, s.calls())
}

func TestSend_LogsRejection(t *testing.T) {
	var buf strings.Builder
	client, _ := newSpyClient(t, nil, WithLogger(newTestLogger(&buf)))
	ship := validShipping()
	delete(ship, City)

	_, err := client.SendCard(context.Background(), 77, ship)
	require.Error(t, err)

	assert.Contains(t, buf.String(), `"kind":"shipping_address"`)
	assert.Contains(t, buf.String(), `"operation":"send_card"`)
}

func TestNormalizePhone(t *testing.T) {
	phone, err := NormalizePhone("(555) 666-7777", "")
	require.NoError(t, err)
	assert.Equal(t, "5556667777", phone)

	ship := validShipping()
	ship[PhoneNumber] = phone
	client, s := newSpyClient(t, map[string]reply{pathSendCampaign: {200, `{"mailing": 1}`}})
	_, err = client.SendCampaign(context.Background(), 12, ship)
	require.NoError(t, err)
	assert.Equal(t, "5556667777", s.last().body["phone_number"])
}
