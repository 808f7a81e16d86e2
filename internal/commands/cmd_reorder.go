package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/cardwallet/internal/wallet"
)

type ReorderCmd struct {
	flags *Flags
	app   *wallet.App
}

// NewReorderCmd creates a new reorder command
func NewReorderCmd(flags *Flags, app *wallet.App) *ReorderCmd {
	return &ReorderCmd{flags: flags, app: app}
}

// Register adds the reorder command to the application
func (cmd *ReorderCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "reorder",
		Usage:     "Set the order of the deck",
		UsageText: "wallet reorder ID [ID...]",
		Description: `Rewrites the deck order. Every active card must be listed exactly once;
ids may be shortened to any unique prefix.`,
		ShellComplete: CardIDCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ReorderCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer{w: c.Root().Writer}

	cards, err := cmd.app.Cards.Load(ctx)
	if err != nil {
		return fmt.Errorf("load cards: %w", err)
	}

	args := c.Args().Slice()
	ids := make([]string, 0, len(args))
	for _, arg := range args {
		id, err := resolveCardID(cards, arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	ordered, err := cmd.app.Cards.Reorder(ctx, ids)
	if err != nil {
		return fmt.Errorf("reorder: %w", err)
	}

	for i, cd := range ordered {
		p.Printf("%d. %s", i+1, cd.DisplayTitle())
	}
	p.Successf("Saved order of %d cards", len(ordered))
	return nil
}
