package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/cardwallet/internal/wallet"
)

// CardIDCompleter returns a ShellCompleteFunc that suggests the ids of the
// active cards as positional completions. Ids already on the command line
// are skipped.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func CardIDCompleter(app *wallet.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		args := cmd.Args().Slice()
		if len(args) > 0 {
			last := args[len(args)-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		cards, err := app.Cards.Load(ctx)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, c := range cards {
			if slices.Contains(args, c.ID) {
				continue
			}
			_, _ = fmt.Fprintf(w, "%s:%s\n", c.ID, c.DisplayTitle())
		}
	}
}
