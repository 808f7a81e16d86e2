package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/cardwallet/internal/commands"
	"github.com/colonyops/cardwallet/internal/core/config"
	"github.com/colonyops/cardwallet/internal/core/logging"
	"github.com/colonyops/cardwallet/internal/core/styles"
	"github.com/colonyops/cardwallet/internal/data/db"
	"github.com/colonyops/cardwallet/internal/data/stores"
	"github.com/colonyops/cardwallet/internal/wallet"
	"github.com/colonyops/cardwallet/pkg/logutils"
)

// Set with -ldflags at release time.
var (
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// go install builds carry no ldflags; use the module build info.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	var (
		flags     = &commands.Flags{}
		walletApp = &wallet.App{}
		rt        resources
	)

	root := &cli.Command{
		Name:      "wallet",
		Usage:     "A deck of cards you swipe to act on",
		UsageText: "wallet [global options] command [command options]",
		Description: `Wallet keeps a deck of cards (profile, ID badge, settings, assistant,
loyalty) and binds an action to each swipe direction of every card.

Run 'wallet' with no arguments to open the deck. Drag a card with the mouse
or use the arrow keys to swipe it.
Run 'wallet seed' to create a demo deck.`,
		Version: build(),
		Before: func(ctx context.Context, _ *cli.Command) (context.Context, error) {
			// Commands captured walletApp when they were registered, so it
			// is filled in place.
			return ctx, rt.setup(flags, walletApp)
		},
		After: func(context.Context, *cli.Command) error {
			return rt.teardown(walletApp)
		},
	}

	root, tuiCmd := commands.Register(root, flags, walletApp)
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'wallet --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	err := root.Run(ctx, os.Args)
	stop()
	if err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}

// resources holds what setup opened so teardown can release it.
type resources struct {
	closeLog func()
	database *db.DB
}

func (rt *resources) setup(flags *commands.Flags, app *wallet.App) error {
	// The TUI owns the terminal, so logs always go to a file.
	logFile := flags.LogFile
	if logFile == "" {
		logFile = filepath.Join(flags.DataDir, "wallet.log")
	}
	logger, closeLog, err := logutils.New(flags.LogLevel, logFile)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	log.Logger = logger
	rt.closeLog = closeLog

	cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	flags.Config = cfg

	if palette, ok := styles.GetPalette(cfg.TUI.Theme); ok {
		styles.SetTheme(palette)
	}

	rt.database, err = openDatabase(cfg)
	if err != nil {
		return err
	}

	cards := wallet.NewService(stores.NewCardStore(rt.database), cfg, logging.Component("wallet"))
	*app = *wallet.NewApp(cards, stores.NewNotifyStore(rt.database), cfg, flags.ConfigPath, rt.database)
	return nil
}

func (rt *resources) teardown(app *wallet.App) error {
	if app.Cards != nil {
		app.Cards.Wait()
	}

	var err error
	if rt.database != nil {
		if err = rt.database.Close(); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}
	if rt.closeLog != nil {
		rt.closeLog()
	}
	return err
}

// openDatabase opens the wallet database. A corrupt file is moved aside and
// replaced with a fresh one.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil {
		return database, nil
	}
	if !stores.IsCorruptionError(err) {
		return nil, fmt.Errorf("open database: %w", err)
	}

	log.Warn().Err(err).Str("data_dir", cfg.DataDir).Msg("database corrupt, starting fresh")
	if err := stores.RecoverFromCorruption(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("recover database: %w", err)
	}
	database, err = db.Open(cfg.DataDir, opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return database, nil
}
