package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/cardwallet/internal/core/card"
	"github.com/colonyops/cardwallet/internal/core/validate"
	"github.com/colonyops/cardwallet/internal/wallet"
	"github.com/colonyops/cardwallet/pkg/iojson"
)

type AddCmd struct {
	flags *Flags
	app   *wallet.App

	// flags
	cardType string
	title    string
	content  string
	data     []string
	file     iojson.FileReader[wallet.NewCard]
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *wallet.App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Add a card to the end of the deck",
		UsageText: "wallet add [--type TYPE --title TITLE] [--data key=value ...] | wallet add -f card.json",
		Description: `Adds a card to the end of the deck.

With --type the card is built from flags. With -f (or JSON piped on stdin)
the card is decoded from a document like:

  {"type": "loyalty", "title": "Corner Coffee", "data": {"points": "0"}}

With neither, an interactive form is shown.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "type",
				Aliases:     []string{"t"},
				Usage:       "card type (" + typeNames() + ")",
				Destination: &cmd.cardType,
			},
			&cli.StringFlag{
				Name:        "title",
				Usage:       "card title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "content",
				Usage:       "markdown body shown on the card",
				Destination: &cmd.content,
			},
			&cli.StringSliceFlag{
				Name:        "data",
				Aliases:     []string{"d"},
				Usage:       "data field as key=value (repeatable)",
				Destination: &cmd.data,
			},
			cmd.file.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer{w: c.Root().Writer}

	var (
		nc  wallet.NewCard
		err error
	)
	switch {
	case cmd.cardType != "":
		nc, err = cmd.fromFlags()
	case cmd.file.Provided():
		nc, err = cmd.file.Read()
	default:
		nc, err = cmd.runForm()
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
	}
	if err != nil {
		return err
	}
	if err := validate.CardInput(string(nc.Type), nc.Title, nc.Data); err != nil {
		return fmt.Errorf("invalid card: %w", err)
	}

	created, err := cmd.app.Cards.Add(ctx, nc)
	if err != nil {
		return fmt.Errorf("add card: %w", err)
	}

	if !created.Type.Known() {
		p.Warnf("type %q has no built-in actions", created.Type)
	}
	p.Successf("Added %s %s at position %d", created.DisplayTitle(), created.ID, created.Position)
	return nil
}

func (cmd *AddCmd) fromFlags() (wallet.NewCard, error) {
	data, err := parseData(cmd.data)
	if err != nil {
		return wallet.NewCard{}, err
	}
	return wallet.NewCard{
		Type:    card.ParseType(cmd.cardType),
		Title:   cmd.title,
		Content: cmd.content,
		Data:    data,
	}, nil
}

func (cmd *AddCmd) runForm() (wallet.NewCard, error) {
	var (
		typeName = string(card.KnownTypes[0])
		title    string
		content  string
	)

	options := make([]huh.Option[string], 0, len(card.KnownTypes))
	for _, t := range card.KnownTypes {
		options = append(options, huh.NewOption(strings.ReplaceAll(string(t), "_", " "), string(t)))
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Card type").
				Options(options...).
				Value(&typeName),
			huh.NewInput().
				Title("Title").
				Description("Shown at the top of the card").
				Validate(validate.Title).
				Value(&title),
			huh.NewText().
				Title("Content").
				Description("Markdown body (optional)").
				Value(&content),
		),
	).WithTheme(huh.ThemeCharm()).Run()
	if err != nil {
		return wallet.NewCard{}, err
	}

	return wallet.NewCard{
		Type:    card.ParseType(typeName),
		Title:   strings.TrimSpace(title),
		Content: content,
	}, nil
}

// parseData turns key=value pairs into a data map.
func parseData(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok {
			return nil, fmt.Errorf("invalid data %q: expected key=value", pair)
		}
		if err := validate.DataKey(k); err != nil {
			return nil, fmt.Errorf("invalid data %q: %w", pair, err)
		}
		out[k] = v
	}
	return out, nil
}

func typeNames() string {
	names := make([]string, 0, len(card.KnownTypes))
	for _, t := range card.KnownTypes {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
