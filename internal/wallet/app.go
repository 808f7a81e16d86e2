package wallet

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/colonyops/cardwallet/internal/core/card"
	"github.com/colonyops/cardwallet/internal/core/config"
	"github.com/colonyops/cardwallet/internal/core/notify"
	"github.com/colonyops/cardwallet/internal/data/db"
)

// App is the central entry point for wallet operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Cards         *Service
	Notifications notify.Store
	Config        *config.Config
	ConfigPath    string
	DB            *db.DB
}

// NewApp constructs an App from explicit dependencies.
func NewApp(cards *Service, notifications notify.Store, cfg *config.Config, configPath string, database *db.DB) *App {
	return &App{
		Cards:         cards,
		Notifications: notifications,
		Config:        cfg,
		ConfigPath:    configPath,
		DB:            database,
	}
}

// Snapshot is what the TUI needs to start.
type Snapshot struct {
	Cards   []card.Card
	History []notify.Notification
}

// Startup loads the deck and the notification history concurrently.
func (a *App) Startup(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cards, err := a.Cards.Load(ctx)
		if err != nil {
			return err
		}
		snap.Cards = cards
		return nil
	})
	g.Go(func() error {
		if a.Notifications == nil {
			return nil
		}
		history, err := a.Notifications.List(ctx)
		if err != nil {
			return fmt.Errorf("load notifications: %w", err)
		}
		snap.History = history
		return nil
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
