package wallet

import (
	"sync"

	"github.com/colonyops/cardwallet/internal/core/card"
	"github.com/colonyops/cardwallet/internal/core/config"
	"github.com/colonyops/cardwallet/internal/core/gesture"
	"github.com/colonyops/cardwallet/internal/core/styles"
)

// ActionSet builds the actions for one card type. Handlers close over the
// Service so they can persist what they change.
type ActionSet func(s *Service) []card.Action

// Registry binds per-type action sets to cards. Bindings are computed when a
// card is loaded; the returned Actions are never mutated afterwards.
type Registry struct {
	mu        sync.RWMutex
	sets      map[card.Type]ActionSet
	overrides []config.CardOverride
}

// NewRegistry returns a registry with the built-in action sets.
func NewRegistry() *Registry {
	r := &Registry{sets: make(map[card.Type]ActionSet)}
	r.Register(card.TypeProfile, profileActions)
	r.Register(card.TypeBusinessID, businessIDActions)
	r.Register(card.TypeSettings, settingsActions)
	r.Register(card.TypeAIAssistant, assistantActions)
	r.Register(card.TypeLoyalty, loyaltyActions)
	return r
}

// Register sets the action set for t, replacing any previous one.
func (r *Registry) Register(t card.Type, set ActionSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets[t] = set
}

// SetOverrides replaces the configured overrides. Cards bound afterwards
// pick them up.
func (r *Registry) SetOverrides(overrides []config.CardOverride) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides = overrides
}

// Bind returns c with its actions set from its type and the overrides.
// Unknown types get no actions.
func (r *Registry) Bind(s *Service, c card.Card) card.Card {
	r.mu.RLock()
	set, ok := r.sets[c.Type]
	overrides := r.overrides
	r.mu.RUnlock()

	c.Actions = card.Actions{}
	if !ok {
		return c
	}

	for _, a := range set(s) {
		if a.Icon == "" {
			a.Icon = styles.Arrow(a.Direction.String())
		}
		c.Actions = c.Actions.With(a)
	}

	for _, o := range overrides {
		if !o.Matches(string(c.Type)) {
			continue
		}
		for _, name := range o.Disable {
			if dir, err := gesture.ParseDirection(name); err == nil {
				c.Actions = c.Actions.Without(dir)
			}
		}
		for name, label := range o.Labels {
			dir, err := gesture.ParseDirection(name)
			if err != nil {
				continue
			}
			if a, ok := c.Actions.Get(dir); ok {
				a.Label = label
				c.Actions = c.Actions.With(a)
			}
		}
	}

	return c
}
