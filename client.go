package amcards

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/amcards/amcards-go/internal/api"
)

// Client is the AMcards API client. It is safe for concurrent use.
type Client struct {
	apiClient *api.Client
	logger    *slog.Logger
	initiator string
	now       func() time.Time
}

// New creates a client that authenticates with accessToken. No request is
// made until the first call.
func New(accessToken string, opts ...Option) (*Client, error) {
	if accessToken == "" {
		return nil, ErrMissingAccessToken
	}

	cfg := &clientConfig{
		baseURL:   defaultBaseURL,
		initiator: defaultInitiator,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	apiClient, err := buildAPIClient(accessToken, cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		apiClient: apiClient,
		logger:    cfg.logger,
		initiator: cfg.initiator,
		now:       cfg.now,
	}, nil
}

// buildAPIClient creates and configures an API client from the given config.
func buildAPIClient(accessToken string, cfg *clientConfig) (*api.Client, error) {
	apiCfg := api.Config{
		BaseURL:        cfg.baseURL,
		AccessToken:    accessToken,
		HTTPClient:     cfg.httpClient,
		Timeout:        cfg.timeout,
		UserAgent:      "amcards-go/" + Version,
		Logger:         cfg.logger,
		TracerProvider: cfg.tracerProvider,
		Breaker:        cfg.breaker,
		Limiter:        cfg.limiter,
	}
	if cfg.registerer != nil {
		metrics, err := api.NewMetrics(cfg.registerer)
		if err != nil {
			return nil, err
		}
		apiCfg.Metrics = metrics
	}
	return api.NewClient(apiCfg)
}

// BaseURL returns the API base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.apiClient.BaseURL()
}

// User fetches the account the access token belongs to, including its
// pricing. The result is not cached.
func (c *Client) User(ctx context.Context) (*User, error) {
	dto, err := c.apiClient.GetUser(ctx)
	if err != nil {
		return nil, err
	}
	return newUser(dto), nil
}

// Template fetches a template by id. A template that does not exist or
// belongs to another account returns ErrForbiddenTemplate.
func (c *Client) Template(ctx context.Context, id int) (*Template, error) {
	dto, err := c.apiClient.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	return newTemplate(dto), nil
}

// Templates lists the account's templates.
func (c *Client) Templates(ctx context.Context, opts ...ListOption) (*Page[*Template], error) {
	env, err := c.apiClient.ListTemplates(ctx, newListConfig(opts).query())
	if err != nil {
		return nil, err
	}
	return newPage(env, newTemplate), nil
}

// QuickSendTemplate fetches a quicksend template by id.
func (c *Client) QuickSendTemplate(ctx context.Context, id int) (*Template, error) {
	dto, err := c.apiClient.GetQuickSendTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	return newTemplate(dto), nil
}

// QuickSendTemplates lists the quicksend templates available to the account.
func (c *Client) QuickSendTemplates(ctx context.Context, opts ...ListOption) (*Page[*Template], error) {
	env, err := c.apiClient.ListQuickSendTemplates(ctx, newListConfig(opts).query())
	if err != nil {
		return nil, err
	}
	return newPage(env, newTemplate), nil
}

// Campaign fetches a drip campaign by id.
func (c *Client) Campaign(ctx context.Context, id int) (*Campaign, error) {
	dto, err := c.apiClient.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	return newCampaign(dto), nil
}

// Campaigns lists the account's drip campaigns.
func (c *Client) Campaigns(ctx context.Context, opts ...ListOption) (*Page[*Campaign], error) {
	env, err := c.apiClient.ListCampaigns(ctx, newListConfig(opts).query())
	if err != nil {
		return nil, err
	}
	return newPage(env, newCampaign), nil
}

// Card fetches a card by id.
func (c *Client) Card(ctx context.Context, id int) (*Card, error) {
	dto, err := c.apiClient.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}
	return newCard(dto), nil
}

// Cards lists the account's cards.
func (c *Client) Cards(ctx context.Context, opts ...ListOption) (*Page[*Card], error) {
	env, err := c.apiClient.ListCards(ctx, newListConfig(opts).query())
	if err != nil {
		return nil, err
	}
	return newPage(env, newCard), nil
}

// Contact fetches a contact by id.
func (c *Client) Contact(ctx context.Context, id int) (*Contact, error) {
	dto, err := c.apiClient.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	return newContact(dto), nil
}

// Contacts lists the account's contacts.
func (c *Client) Contacts(ctx context.Context, opts ...ListOption) (*Page[*Contact], error) {
	env, err := c.apiClient.ListContacts(ctx, newListConfig(opts).query())
	if err != nil {
		return nil, err
	}
	return newPage(env, newContact), nil
}

// Mailing fetches a batch mailing by id, for example to poll the outcome of
// SendCards.
func (c *Client) Mailing(ctx context.Context, id int) (*Mailing, error) {
	dto, err := c.apiClient.GetMailing(ctx, id)
	if err != nil {
		return nil, err
	}
	return newMailing(dto), nil
}
