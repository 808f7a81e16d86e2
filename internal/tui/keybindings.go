package tui

import (
	"strings"

	"charm.land/bubbles/v2/key"

	"github.com/colonyops/cardwallet/internal/core/config"
	"github.com/colonyops/cardwallet/internal/core/gesture"
	"github.com/colonyops/cardwallet/internal/core/styles"
)

// KeyMap holds the application keys. Direction keys are listed for help
// only; the interaction controller owns them.
type KeyMap struct {
	Swipe         key.Binding
	Next          key.Binding
	Prev          key.Binding
	MoveLeft      key.Binding
	MoveRight     key.Binding
	Notifications key.Binding
	Dismiss       key.Binding
	Help          key.Binding
	Quit          key.Binding
}

// NewKeyMap builds the key map for cfg.
func NewKeyMap(cfg *config.Config) KeyMap {
	next := orDefault(cfg.Keys.Next, "tab")
	prev := orDefault(cfg.Keys.Prev, "shift+tab")

	swipeKeys := []string{"up", "down", "left", "right"}
	for _, keys := range cfg.DirectionKeys() {
		swipeKeys = append(swipeKeys, keys...)
	}

	return KeyMap{
		Swipe: key.NewBinding(
			key.WithKeys(swipeKeys...),
			key.WithHelp(styles.ArrowUp+styles.ArrowDown+styles.ArrowLeft+styles.ArrowRight, "swipe"),
		),
		Next: key.NewBinding(key.WithKeys(next...), key.WithHelp(strings.Join(next, "/"), "next card")),
		Prev: key.NewBinding(key.WithKeys(prev...), key.WithHelp(strings.Join(prev, "/"), "previous card")),
		MoveLeft: key.NewBinding(
			key.WithKeys("shift+left"),
			key.WithHelp("shift+"+styles.ArrowLeft, "move card back"),
		),
		MoveRight: key.NewBinding(
			key.WithKeys("shift+right"),
			key.WithHelp("shift+"+styles.ArrowRight, "move card forward"),
		),
		Notifications: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notifications")),
		Dismiss:       key.NewBinding(key.WithKeys("x", "esc"), key.WithHelp("x", "dismiss toast")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Swipe, k.Next, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Swipe, k.Next, k.Prev},
		{k.MoveLeft, k.MoveRight},
		{k.Notifications, k.Dismiss, k.Help, k.Quit},
	}
}

// bindDirectionKeys replaces the extra direction aliases on bridge. Keys
// from the previous config are unbound first so a reload can remove them.
func bindDirectionKeys(bridge *gesture.KeyBridge, prev, next *config.Config) {
	if prev != nil {
		for _, keys := range prev.DirectionKeys() {
			bridge.Bind(gesture.None, keys...)
		}
	}
	// Unbinding an alias that shadowed an arrow removes the arrow too.
	for _, dir := range gesture.Directions {
		bridge.Bind(dir, dir.String())
	}
	for dir, keys := range next.DirectionKeys() {
		bridge.Bind(dir, keys...)
	}
}

func orDefault(keys []string, fallback string) []string {
	if len(keys) == 0 {
		return []string{fallback}
	}
	return keys
}
