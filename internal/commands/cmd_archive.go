package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/cardwallet/internal/wallet"
)

type ArchiveCmd struct {
	flags *Flags
	app   *wallet.App
}

// NewArchiveCmd creates a new archive command
func NewArchiveCmd(flags *Flags, app *wallet.App) *ArchiveCmd {
	return &ArchiveCmd{flags: flags, app: app}
}

// Register adds the archive command to the application
func (cmd *ArchiveCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:          "archive",
		Usage:         "Remove cards from the deck",
		UsageText:     "wallet archive ID [ID...]",
		Description:   "Archives the given cards. Ids may be shortened to any unique prefix.",
		ShellComplete: CardIDCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ArchiveCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer{w: c.Root().Writer}

	args := c.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("at least one card id is required")
	}

	cards, err := cmd.app.Cards.Load(ctx)
	if err != nil {
		return fmt.Errorf("load cards: %w", err)
	}

	for _, arg := range args {
		id, err := resolveCardID(cards, arg)
		if err != nil {
			return err
		}
		if err := cmd.app.Cards.Archive(ctx, id); err != nil {
			return fmt.Errorf("archive %s: %w", id, err)
		}
		p.Successf("Archived %s", id)
	}
	return nil
}
