// Package validate provides shared validation functions for card input.
package validate

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/hay-kot/criterio"
)

// Title validates a card title is non-empty after trimming whitespace.
func Title(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// DataKey validates a card data key. Keys are single words without '='.
func DataKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("key is required")
	case strings.ContainsAny(key, "= \t\n"):
		return fmt.Errorf("key %q must not contain '=' or whitespace", key)
	}
	return nil
}

// CardInput validates the user-supplied parts of a new card.
func CardInput(cardType, title string, data map[string]string) error {
	checks := []error{
		criterio.Run("type", cardType, func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("type is required")
			}
			return nil
		}),
		criterio.Run("title", title, Title),
	}
	for _, k := range slices.Sorted(maps.Keys(data)) {
		checks = append(checks, criterio.Run("data."+k, k, DataKey))
	}
	return criterio.ValidateStruct(checks...)
}
