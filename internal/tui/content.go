package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/colonyops/cardwallet/internal/core/card"
	"github.com/colonyops/cardwallet/internal/core/gesture"
	"github.com/colonyops/cardwallet/internal/core/popup"
	"github.com/colonyops/cardwallet/internal/wallet"
)

// popupContent builds the markdown shown by popup actions. The title is
// the card title followed by the action label.
func popupContent(c card.Card, dir gesture.Direction, _ func()) (popup.Content, error) {
	a, ok := c.Actions.Get(dir)
	if !ok {
		return popup.Content{}, fmt.Errorf("no popup bound to %s on %s", dir, c.ID)
	}

	title := c.DisplayTitle()
	if a.Label != "" {
		title += " · " + a.Label
	}

	var b strings.Builder
	switch {
	case c.Type == card.TypeProfile && dir == gesture.Right:
		fmt.Fprintf(&b, "Share this card with the link below.\n\n`wallet://cards/%s`\n", c.ID)
	case c.Type == card.TypeLoyalty && dir == gesture.Up:
		points := valueOr(c.Get(wallet.KeyPoints), "0")
		cost := valueOr(c.Get(wallet.KeyRewardCost), "10")
		fmt.Fprintf(&b, "## Rewards\n\nYou have **%s** points. A reward costs **%s**.\n\n", points, cost)
		b.WriteString("Swipe down on the card to redeem, right to check in.\n")
	case c.Type == card.TypeAIAssistant && dir == gesture.Right:
		n := valueOr(c.Get(wallet.KeyConversations), "0")
		fmt.Fprintf(&b, "## History\n\n%s conversations so far.\n", n)
	case c.Type == card.TypeAIAssistant && dir == gesture.Up:
		b.WriteString("## Ask\n\nType your question in the assistant app. ")
		b.WriteString("Start a new chat by swiping down on the card.\n")
	default:
		if c.Content != "" {
			b.WriteString(c.Content)
			b.WriteString("\n\n")
		}
		b.WriteString(dataTable(c.Data))
	}

	return popup.Content{Title: title, Body: b.String()}, nil
}

// dataTable renders card data as a markdown table in key order.
func dataTable(data map[string]string) string {
	if len(data) == 0 {
		return "_No details stored on this card._\n"
	}

	var b strings.Builder
	b.WriteString("| Field | Value |\n|---|---|\n")
	for _, k := range slices.Sorted(maps.Keys(data)) {
		fmt.Fprintf(&b, "| %s | %s |\n", humanize(k), data[k])
	}
	return b.String()
}

// dataSummary is the one-line digest shown on the card face.
func dataSummary(data map[string]string) string {
	if len(data) == 0 {
		return ""
	}
	parts := make([]string, 0, len(data))
	for _, k := range slices.Sorted(maps.Keys(data)) {
		parts = append(parts, humanize(k)+": "+data[k])
	}
	return strings.Join(parts, " · ")
}

func humanize(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
