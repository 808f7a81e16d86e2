package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/cardwallet/internal/wallet"
)

type SeedCmd struct {
	flags *Flags
	app   *wallet.App
}

// NewSeedCmd creates a new seed command
func NewSeedCmd(flags *Flags, app *wallet.App) *SeedCmd {
	return &SeedCmd{flags: flags, app: app}
}

// Register adds the seed command to the application
func (cmd *SeedCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "seed",
		Usage:       "Fill an empty deck with one card of each type",
		UsageText:   "wallet seed",
		Description: "Adds the demo deck when the wallet has no cards. Does nothing otherwise.",
		Action:      cmd.run,
	})

	return app
}

func (cmd *SeedCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer{w: c.Root().Writer}

	n, err := cmd.app.Cards.Seed(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if n == 0 {
		p.Infof("Deck already has cards, nothing to seed")
		return nil
	}
	p.Successf("Added %d cards for %s", n, cmd.app.Cards.Owner())
	return nil
}
