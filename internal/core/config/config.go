// Package config handles configuration loading and validation for the wallet.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/cardwallet/internal/core/gesture"
	"github.com/colonyops/cardwallet/internal/core/styles"
	"github.com/colonyops/cardwallet/internal/core/swipe"
)

// Config holds the application configuration.
type Config struct {
	// User owns the deck. Cards are stored per user.
	User     string         `yaml:"user"`
	Gesture  GestureConfig  `yaml:"gesture"`
	Deck     DeckConfig     `yaml:"deck"`
	Keys     KeysConfig     `yaml:"keys"`
	Cards    CardsConfig    `yaml:"cards"`
	TUI      TUIConfig      `yaml:"tui"`
	Database DatabaseConfig `yaml:"database"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// GestureConfig tunes swipe recognition. Sizes are in terminal cells.
type GestureConfig struct {
	DeadZone         float64       `yaml:"dead_zone"`
	ConfirmThreshold float64       `yaml:"confirm_threshold"`
	ExecuteThreshold float64       `yaml:"execute_threshold"`
	SettleDelay      time.Duration `yaml:"settle_delay"`
	// HandlerTimeout bounds task actions. A negative value disables it.
	HandlerTimeout     time.Duration `yaml:"handler_timeout"`
	CardWidth          int           `yaml:"card_width"`
	CardHeight         int           `yaml:"card_height"`
	NavigationAxis     string        `yaml:"navigation_axis"` // none, horizontal, vertical
	ReverseScrollWheel bool          `yaml:"reverse_scroll_wheel"`
}

// DeckConfig controls deck layout.
type DeckConfig struct {
	Gap int `yaml:"gap"`
	// Window is how many neighbouring cards are drawn on each side.
	Window int `yaml:"window"`
}

// KeysConfig adds key aliases. Arrow keys are always bound.
type KeysConfig struct {
	Up    []string `yaml:"up"`
	Down  []string `yaml:"down"`
	Left  []string `yaml:"left"`
	Right []string `yaml:"right"`
	Next  []string `yaml:"next"`
	Prev  []string `yaml:"prev"`
}

// CardsConfig customizes the per-type action sets.
type CardsConfig struct {
	Overrides []CardOverride `yaml:"overrides"`
}

// CardOverride changes the actions of every card whose type matches one of
// the glob patterns in Types.
type CardOverride struct {
	Types []string `yaml:"types"`
	// Labels renames actions, keyed by direction.
	Labels map[string]string `yaml:"labels"`
	// Disable unbinds the listed directions.
	Disable []string `yaml:"disable"`
}

// Matches reports whether the override applies to cardType.
func (o CardOverride) Matches(cardType string) bool {
	for _, pattern := range o.Types {
		if ok, err := doublestar.Match(pattern, cardType); err == nil && ok {
			return true
		}
	}
	return false
}

// TUIConfig controls the terminal UI.
type TUIConfig struct {
	Theme string `yaml:"theme"`
	// FailureTTL is how long a failed action's badge stays on its card.
	FailureTTL time.Duration `yaml:"failure_ttl"`
	// ToastDuration is how long notifications stay on screen.
	ToastDuration time.Duration `yaml:"toast_duration"`
	// DisableLiveReload stops the TUI from watching the config file.
	DisableLiveReload bool `yaml:"disable_live_reload"`
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		User: defaultUser(),
		Gesture: GestureConfig{
			DeadZone:         2,
			ConfirmThreshold: 0.25,
			ExecuteThreshold: 0.50,
			SettleDelay:      300 * time.Millisecond,
			HandlerTimeout:   10 * time.Second,
			CardWidth:        44,
			CardHeight:       14,
			NavigationAxis:   "none",
		},
		Deck: DeckConfig{
			Gap:    1,
			Window: 1,
		},
		Keys: KeysConfig{
			Next: []string{"tab"},
			Prev: []string{"shift+tab"},
		},
		TUI: TUIConfig{
			Theme:         styles.DefaultTheme,
			FailureTTL:    4 * time.Second,
			ToastDuration: 5 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 2,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.User == "" {
		c.User = defaults.User
	}

	g := &c.Gesture
	if g.ConfirmThreshold == 0 {
		g.ConfirmThreshold = defaults.Gesture.ConfirmThreshold
	}
	if g.ExecuteThreshold == 0 {
		g.ExecuteThreshold = defaults.Gesture.ExecuteThreshold
	}
	if g.SettleDelay == 0 {
		g.SettleDelay = defaults.Gesture.SettleDelay
	}
	if g.HandlerTimeout == 0 {
		g.HandlerTimeout = defaults.Gesture.HandlerTimeout
	}
	if g.CardWidth == 0 {
		g.CardWidth = defaults.Gesture.CardWidth
	}
	if g.CardHeight == 0 {
		g.CardHeight = defaults.Gesture.CardHeight
	}
	if g.NavigationAxis == "" {
		g.NavigationAxis = defaults.Gesture.NavigationAxis
	}

	if len(c.Keys.Next) == 0 {
		c.Keys.Next = defaults.Keys.Next
	}
	if len(c.Keys.Prev) == 0 {
		c.Keys.Prev = defaults.Keys.Prev
	}

	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.FailureTTL == 0 {
		c.TUI.FailureTTL = defaults.TUI.FailureTTL
	}
	if c.TUI.ToastDuration == 0 {
		c.TUI.ToastDuration = defaults.TUI.ToastDuration
	}

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.User == "" {
		return fmt.Errorf("user cannot be empty")
	}

	if err := c.Swipe().Validate(); err != nil {
		return fmt.Errorf("gesture: %w", err)
	}

	if _, err := gesture.ParseAxis(c.Gesture.NavigationAxis); err != nil {
		return fmt.Errorf("gesture.navigation_axis: %w", err)
	}

	if c.Deck.Gap < 0 {
		return fmt.Errorf("deck.gap must not be negative")
	}
	if c.Deck.Window < 0 {
		return fmt.Errorf("deck.window must not be negative")
	}

	for i, o := range c.Cards.Overrides {
		if len(o.Types) == 0 {
			return fmt.Errorf("cards.overrides[%d]: types is required", i)
		}
		for dir := range o.Labels {
			if err := parseActionDirection(dir); err != nil {
				return fmt.Errorf("cards.overrides[%d].labels: %w", i, err)
			}
		}
		for _, dir := range o.Disable {
			if err := parseActionDirection(dir); err != nil {
				return fmt.Errorf("cards.overrides[%d].disable: %w", i, err)
			}
		}
	}

	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("tui.theme %q is not a known theme", c.TUI.Theme)
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns must not be negative")
	}
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout must not be negative")
	}

	return nil
}

func parseActionDirection(s string) error {
	dir, err := gesture.ParseDirection(s)
	if err != nil {
		return err
	}
	if dir == gesture.None {
		return fmt.Errorf("direction %q cannot carry an action", s)
	}
	return nil
}

// Swipe returns the swipe engine thresholds.
func (c *Config) Swipe() swipe.Config {
	return swipe.Config{
		CardWidth:        float64(c.Gesture.CardWidth),
		CardHeight:       float64(c.Gesture.CardHeight),
		DeadZone:         c.Gesture.DeadZone,
		ConfirmThreshold: c.Gesture.ConfirmThreshold,
		ExecuteThreshold: c.Gesture.ExecuteThreshold,
		SettleDelay:      c.Gesture.SettleDelay,
	}
}

// NavigationAxis returns the parsed navigation axis, NoAxis when invalid.
func (c *Config) NavigationAxis() gesture.Axis {
	axis, err := gesture.ParseAxis(c.Gesture.NavigationAxis)
	if err != nil {
		return gesture.NoAxis
	}
	return axis
}

// HandlerTimeout returns the action timeout, zero when disabled.
func (c *Config) HandlerTimeout() time.Duration {
	if c.Gesture.HandlerTimeout < 0 {
		return 0
	}
	return c.Gesture.HandlerTimeout
}

// DirectionKeys returns the configured aliases per direction.
func (c *Config) DirectionKeys() map[gesture.Direction][]string {
	return map[gesture.Direction][]string{
		gesture.Up:    c.Keys.Up,
		gesture.Down:  c.Keys.Down,
		gesture.Left:  c.Keys.Left,
		gesture.Right: c.Keys.Right,
	}
}

// DatabasePath returns the path to the SQLite database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "wallet.db")
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "wallet.log")
}

func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "default"
}
