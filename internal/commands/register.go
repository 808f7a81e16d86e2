package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/colonyops/cardwallet/internal/wallet"
)

// Register attaches the global flags and every subcommand to root and
// returns the TUI command, which the caller runs as the default action.
func Register(root *cli.Command, flags *Flags, app *wallet.App) (*cli.Command, *TuiCmd) {
	tuiCmd := NewTuiCmd(flags, app)

	root.Flags = append(root.Flags, flags.Global()...)
	root.Flags = append(root.Flags, tuiCmd.Flags()...)

	root = NewLsCmd(flags, app).Register(root)
	root = NewAddCmd(flags, app).Register(root)
	root = NewArchiveCmd(flags, app).Register(root)
	root = NewReorderCmd(flags, app).Register(root)
	root = NewSeedCmd(flags, app).Register(root)
	root = NewConfigValidateCmd(flags).Register(root)

	return root, tuiCmd
}
