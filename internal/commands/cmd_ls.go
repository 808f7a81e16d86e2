package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/cardwallet/internal/core/card"
	"github.com/colonyops/cardwallet/internal/wallet"
	"github.com/colonyops/cardwallet/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *wallet.App

	// flags
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *wallet.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List the cards in the deck",
		UsageText: "wallet ls [--json]",
		Description: `Displays the active cards in deck order with their id, type, title and
the actions bound to each swipe direction.

Output is a table on a terminal and JSON lines when piped. Use --json to
force JSON lines.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

// cardInfo is the JSON output format for wallet ls --json.
type cardInfo struct {
	ID       string            `json:"id"`
	Position int               `json:"position"`
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Data     map[string]string `json:"data,omitempty"`
	Actions  map[string]string `json:"actions"`
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	cards, err := cmd.app.Cards.Load(ctx)
	if err != nil {
		return fmt.Errorf("list cards: %w", err)
	}

	out := c.Root().Writer
	asJSON := cmd.jsonOutput
	if f, ok := out.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		asJSON = true
	}

	if asJSON {
		for _, cd := range cards {
			if err := iojson.WriteLine(out, buildCardInfo(cd)); err != nil {
				return fmt.Errorf("encode card: %w", err)
			}
		}
		return nil
	}

	if len(cards) == 0 {
		fmt.Fprintf(os.Stderr, "No cards found. Run 'wallet seed' or 'wallet add'.\n")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tID\tTYPE\tTITLE\tACTIONS")
	for _, cd := range cards {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", cd.Position, cd.ID, cd.Type, cd.DisplayTitle(), actionSummary(cd))
	}
	return w.Flush()
}

func buildCardInfo(c card.Card) cardInfo {
	info := cardInfo{
		ID:       c.ID,
		Position: c.Position,
		Type:     string(c.Type),
		Title:    c.DisplayTitle(),
		Data:     c.Data,
		Actions:  make(map[string]string, c.Actions.Len()),
	}
	for _, a := range c.Actions.Bound() {
		info.Actions[a.Direction.String()] = a.Label
	}
	return info
}

// actionSummary renders the bound actions as "up:Rewards down:Redeem".
func actionSummary(c card.Card) string {
	bound := c.Actions.Bound()
	if len(bound) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(bound))
	for _, a := range bound {
		parts = append(parts, a.Direction.String()+":"+a.Label)
	}
	return strings.Join(parts, " ")
}
