package commands

import (
	"fmt"
	"strings"

	"github.com/colonyops/cardwallet/internal/core/card"
)

// resolveCardID matches arg against the deck by exact id or a unique id
// prefix.
func resolveCardID(cards []card.Card, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("empty card id")
	}

	var matches []string
	for _, c := range cards {
		if c.ID == arg {
			return c.ID, nil
		}
		if strings.HasPrefix(c.ID, arg) {
			matches = append(matches, c.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", card.ErrNotFound, arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("card id %q is ambiguous (%d matches)", arg, len(matches))
	}
}
