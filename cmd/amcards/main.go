package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/amcards/amcards-go"
)

// Config holds the I/O streams for the CLI.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// DotenvPath is loaded before the environment is parsed. A missing file is ignored.
	DotenvPath string

	// NewClient builds the client from the parsed environment. Tests swap it for a mock.
	NewClient func(*Env, io.Writer) (ClientInterface, error)
}

// DefaultConfig returns a Config using the standard streams.
func DefaultConfig() Config {
	return Config{
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		DotenvPath: ".env",
		NewClient:  newClient,
	}
}

// ClientInterface is the subset of *amcards.Client the CLI calls.
type ClientInterface interface {
	User(ctx context.Context) (*amcards.User, error)
	Templates(ctx context.Context, opts ...amcards.ListOption) (*amcards.Page[*amcards.Template], error)
	Campaigns(ctx context.Context, opts ...amcards.ListOption) (*amcards.Page[*amcards.Campaign], error)
	Cards(ctx context.Context, opts ...amcards.ListOption) (*amcards.Page[*amcards.Card], error)
	Contacts(ctx context.Context, opts ...amcards.ListOption) (*amcards.Page[*amcards.Contact], error)
	Mailing(ctx context.Context, id int) (*amcards.Mailing, error)
	SendCard(ctx context.Context, templateID int, shipping amcards.Address, opts ...amcards.SendOption) (*amcards.CardResponse, error)
	SendCampaign(ctx context.Context, campaignID int, shipping amcards.Address, opts ...amcards.SendOption) (*amcards.CampaignResponse, error)
	SendCards(ctx context.Context, templateID int, shipping []amcards.Address, opts ...amcards.SendOption) (*amcards.CardsResponse, error)
	SendCardCost(ctx context.Context, shipping amcards.Address, opts ...amcards.SendOption) (amcards.Cents, error)
	SendCampaignCost(ctx context.Context, campaignID int, shipping amcards.Address, opts ...amcards.SendOption) (amcards.Cents, error)
}

func newClient(e *Env, logOut io.Writer) (ClientInterface, error) {
	return amcards.New(e.AccessToken,
		amcards.WithBaseURL(e.BaseURL),
		amcards.WithTimeout(e.Timeout),
		amcards.WithInitiator(e.Initiator),
		amcards.WithLogger(newLogger(e.LogLevel, logOut)),
	)
}

// sendInput is the JSON document read from stdin by the send and cost
// commands. send-cards reads Recipients, the others read Shipping.
type sendInput struct {
	Shipping      amcards.Address   `json:"shipping_address"`
	Recipients    []amcards.Address `json:"shipping_addresses"`
	ReturnAddress amcards.Address   `json:"return_address"`
}

type costOutput struct {
	Cents     int    `json:"cents"`
	Formatted string `json:"formatted"`
}

var sendFlags = []cli.Flag{
	&cli.StringFlag{Name: "send-date", Usage: "schedule the send for `YYYY-MM-DD`"},
	&cli.BoolFlag{Name: "send-if-error", Usage: "send even if the address fails verification"},
}

var listFlags = []cli.Flag{
	&cli.IntFlag{Name: "limit", Usage: "page size"},
	&cli.IntFlag{Name: "offset", Usage: "page offset"},
}

func run(args []string, cfg Config) error {
	var client ClientInterface

	app := &cli.App{
		Name:      "amcards",
		Usage:     "query an AMcards account and send greeting cards",
		Version:   amcards.Version,
		Reader:    cfg.Stdin,
		Writer:    cfg.Stdout,
		ErrWriter: cfg.Stderr,
		Before: func(c *cli.Context) error {
			if !c.Args().Present() || c.Args().First() == "help" {
				return nil
			}
			e, err := loadEnv(cfg.DotenvPath)
			if err != nil {
				return err
			}
			client, err = cfg.NewClient(e, cfg.Stderr)
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			if c.Args().Present() {
				return fmt.Errorf("unknown command: %s", c.Args().First())
			}
			return cli.ShowAppHelp(c)
		},
		Commands: []*cli.Command{
			{
				Name:  "user",
				Usage: "print the account behind the access token",
				Action: func(c *cli.Context) error {
					user, err := client.User(c.Context)
					if err != nil {
						return err
					}
					return writeJSON(cfg.Stdout, user)
				},
			},
			{
				Name:  "templates",
				Usage: "list card templates",
				Flags: listFlags,
				Action: func(c *cli.Context) error {
					page, err := client.Templates(c.Context, listOptions(c)...)
					if err != nil {
						return err
					}
					return writeJSON(cfg.Stdout, page)
				},
			},
			{
				Name:  "campaigns",
				Usage: "list drip campaigns",
				Flags: listFlags,
				Action: func(c *cli.Context) error {
					page, err := client.Campaigns(c.Context, listOptions(c)...)
					if err != nil {
						return err
					}
					return writeJSON(cfg.Stdout, page)
				},
			},
			{
				Name:  "cards",
				Usage: "list cards sent by the account",
				Flags: append([]cli.Flag{&cli.StringFlag{Name: "status", Usage: "only cards with this status"}}, listFlags...),
				Action: func(c *cli.Context) error {
					opts := listOptions(c)
					if status := c.String("status"); status != "" {
						opts = append(opts, amcards.WithFilter("status", status))
					}
					page, err := client.Cards(c.Context, opts...)
					if err != nil {
						return err
					}
					return writeJSON(cfg.Stdout, page)
				},
			},
			{
				Name:  "contacts",
				Usage: "list saved contacts",
				Flags: listFlags,
				Action: func(c *cli.Context) error {
					page, err := client.Contacts(c.Context, listOptions(c)...)
					if err != nil {
						return err
					}
					return writeJSON(cfg.Stdout, page)
				},
			},
			{
				Name:      "mailing",
				Usage:     "print one mailing",
				ArgsUsage: "<mailing_id>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, "mailing_id")
					if err != nil {
						return err
					}
					mailing, err := client.Mailing(c.Context, id)
					if err != nil {
						return err
					}
					return writeJSON(cfg.Stdout, mailing)
				},
			},
			{
				Name:      "send-card",
				Usage:     "send one card; reads {shipping_address, return_address} from stdin",
				ArgsUsage: "<template_id>",
				Flags:     sendFlags,
				Action: func(c *cli.Context) error {
					id, err := idArg(c, "template_id")
					if err != nil {
						return err
					}
					in, err := readInput(cfg.Stdin)
					if err != nil {
						return err
					}
					resp, err := client.SendCard(c.Context, id, in.Shipping, sendOptions(c, in)...)
					if err != nil {
						return err
					}
					return writeJSON(cfg.Stdout, resp)
				},
			},
			{
				Name:      "send-campaign",
				Usage:     "enroll a recipient in a campaign; reads {shipping_address, return_address} from stdin",
				ArgsUsage: "<campaign_id>",
				Flags:     sendFlags,
				Action: func(c *cli.Context) error {
					id, err := idArg(c, "campaign_id")
					if err != nil {
						return err
					}
					in, err := readInput(cfg.Stdin)
					if err != nil {
						return err
					}
					resp, err := client.SendCampaign(c.Context, id, in.Shipping, sendOptions(c, in)...)
					if err != nil {
						return err
					}
					return writeJSON(cfg.Stdout, resp)
				},
			},
			{
				Name:      "send-cards",
				Usage:     "send one template to many recipients; reads {shipping_addresses, return_address} from stdin",
				ArgsUsage: "<template_id>",
				Flags:     sendFlags,
				Action: func(c *cli.Context) error {
					id, err := idArg(c, "template_id")
					if err != nil {
						return err
					}
					in, err := readInput(cfg.Stdin)
					if err != nil {
						return err
					}
					resp, err := client.SendCards(c.Context, id, in.Recipients, sendOptions(c, in)...)
					if err != nil {
						return err
					}
					return writeJSON(cfg.Stdout, resp)
				},
			},
			{
				Name:  "card-cost",
				Usage: "price one card; reads {shipping_address, return_address} from stdin",
				Action: func(c *cli.Context) error {
					in, err := readInput(cfg.Stdin)
					if err != nil {
						return err
					}
					cost, err := client.SendCardCost(c.Context, in.Shipping, sendOptions(c, in)...)
					if err != nil {
						return err
					}
					return writeJSON(cfg.Stdout, costOutput{Cents: int(cost), Formatted: cost.String()})
				},
			},
			{
				Name:      "campaign-cost",
				Usage:     "price a campaign for one recipient; reads {shipping_address, return_address} from stdin",
				ArgsUsage: "<campaign_id>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, "campaign_id")
					if err != nil {
						return err
					}
					in, err := readInput(cfg.Stdin)
					if err != nil {
						return err
					}
					cost, err := client.SendCampaignCost(c.Context, id, in.Shipping, sendOptions(c, in)...)
					if err != nil {
						return err
					}
					return writeJSON(cfg.Stdout, costOutput{Cents: int(cost), Formatted: cost.String()})
				},
			},
		},
	}

	return app.RunContext(context.Background(), args)
}

func idArg(c *cli.Context, name string) (int, error) {
	if c.Args().Len() != 1 {
		return 0, fmt.Errorf("usage: amcards %s <%s>", c.Command.Name, name)
	}
	id, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, c.Args().First())
	}
	return id, nil
}

func readInput(r io.Reader) (*sendInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	var in sendInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse stdin: %w", err)
	}
	return &in, nil
}

func listOptions(c *cli.Context) []amcards.ListOption {
	var opts []amcards.ListOption
	if c.IsSet("limit") {
		opts = append(opts, amcards.WithLimit(c.Int("limit")))
	}
	if c.IsSet("offset") {
		opts = append(opts, amcards.WithOffset(c.Int("offset")))
	}
	return opts
}

func sendOptions(c *cli.Context, in *sendInput) []amcards.SendOption {
	var opts []amcards.SendOption
	if in.ReturnAddress != nil {
		opts = append(opts, amcards.WithReturnAddress(in.ReturnAddress))
	}
	if date := c.String("send-date"); date != "" {
		opts = append(opts, amcards.WithSendDate(date))
	}
	if c.Bool("send-if-error") {
		opts = append(opts, amcards.WithSendIfError(true))
	}
	return opts
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitMessage renders err for stderr, prefixed with its kind when the API
// client classified it.
func exitMessage(err error) string {
	var apiErr *amcards.Error
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%s: %v", apiErr.Kind, err)
	}
	return err.Error()
}
