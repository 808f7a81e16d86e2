package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/cardwallet/internal/profiler"
	"github.com/colonyops/cardwallet/internal/tui"
	"github.com/colonyops/cardwallet/internal/wallet"
	"github.com/colonyops/cardwallet/pkg/iojson"
)

type TuiCmd struct {
	flags *Flags
	app   *wallet.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *wallet.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on localhost at the given port (e.g., 6060)",
			Sources:     cli.EnvVars("WALLET_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	if cmd.flags.ProfilerPort > 0 {
		profServer := profiler.New(cmd.flags.ProfilerPort)
		profServer.Handle("/debug/wallet/cards", cmd.cardsHandler())
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	snap, err := cmd.app.Startup(ctx)
	if err != nil {
		return fmt.Errorf("load wallet: %w", err)
	}

	// Action handlers outlive a single key press but not the program.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := tui.New(tui.Options{
		App:      cmd.app,
		Snapshot: snap,
		Context:  runCtx,
	})

	_, err = tea.NewProgram(m).Run()
	cancel()

	// Flush order changes made from the deck before the database closes.
	cmd.app.Cards.Wait()

	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// cardsHandler dumps the live deck as JSON lines, the same shape `ls --json`
// prints.
func (cmd *TuiCmd) cardsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cards, err := cmd.app.Cards.Load(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		for _, c := range cards {
			if err := iojson.WriteLine(w, buildCardInfo(c)); err != nil {
				return
			}
		}
	})
}
