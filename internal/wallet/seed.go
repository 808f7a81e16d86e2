package wallet

import (
	"context"
	"fmt"

	"github.com/colonyops/cardwallet/internal/core/card"
)

// DemoDeck is one card of each built-in type.
var DemoDeck = []NewCard{
	{
		Type:    card.TypeProfile,
		Title:   "Ada Lovelace",
		Content: "## Ada Lovelace\n\nAnalyst, *Difference Engine Ltd.*\n\n- ada@example.com\n- +44 20 7946 0000",
		Data:    map[string]string{"email": "ada@example.com"},
	},
	{
		Type:    card.TypeBusinessID,
		Title:   "Employee ID",
		Content: "**Difference Engine Ltd.**\n\nBadge grants access to floors 1 to 3.",
		Data:    map[string]string{KeyIDNumber: "DE-1815"},
	},
	{
		Type:    card.TypeSettings,
		Title:   "Settings",
		Content: "Swipe down to toggle dark mode, right to toggle notifications.",
		Data:    map[string]string{KeyDarkMode: "off", KeyNotifications: "on"},
	},
	{
		Type:    card.TypeAIAssistant,
		Title:   "Assistant",
		Content: "Ask anything about the cards in your wallet.",
	},
	{
		Type:    card.TypeLoyalty,
		Title:   "Corner Coffee",
		Content: "Ten stamps earn a free drink.",
		Data:    map[string]string{KeyPoints: "12", KeyRewardCost: "10"},
	},
}

// Seed adds the demo deck when the user has no cards. It returns the number
// of cards added.
func (s *Service) Seed(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx, s.owner)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	for i, nc := range DemoDeck {
		if _, err := s.Add(ctx, nc); err != nil {
			return i, fmt.Errorf("seed %s: %w", nc.Type, err)
		}
	}
	return len(DemoDeck), nil
}
