package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/cardwallet/internal/core/card"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// glob patterns, key bindings, and file accessibility. The configPath argument
// specifies the config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateOverrides(),
		c.validateKeys(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	for i, o := range c.Cards.Overrides {
		matched := false
		for _, t := range card.KnownTypes {
			if o.Matches(string(t)) {
				matched = true
				break
			}
		}
		if !matched {
			warnings = append(warnings, ValidationWarning{
				Category: "Cards",
				Item:     fmt.Sprintf("override %d", i),
				Message:  fmt.Sprintf("types %v match no built-in card type", o.Types),
			})
		}
		if len(o.Labels) == 0 && len(o.Disable) == 0 {
			warnings = append(warnings, ValidationWarning{
				Category: "Cards",
				Item:     fmt.Sprintf("override %d", i),
				Message:  "override has neither labels nor disable defined",
			})
		}
	}

	if c.Gesture.HandlerTimeout < 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Gesture",
			Item:     "handler_timeout",
			Message:  "handler timeout is disabled, a hung action keeps its card busy",
		})
	}

	if c.Gesture.DeadZone > float64(min(c.Gesture.CardWidth, c.Gesture.CardHeight))*c.Gesture.ConfirmThreshold {
		warnings = append(warnings, ValidationWarning{
			Category: "Gesture",
			Item:     "dead_zone",
			Message:  "dead zone is large relative to the confirm distance",
		})
	}

	return warnings
}

// validateFileAccess checks config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// validateOverrides checks override type patterns are valid globs.
func (c *Config) validateOverrides() error {
	var errs criterio.FieldErrorsBuilder
	for i, o := range c.Cards.Overrides {
		for j, pattern := range o.Types {
			if !doublestar.ValidatePattern(pattern) {
				errs = errs.Append(fmt.Sprintf("cards.overrides[%d].types[%d]", i, j), fmt.Errorf("invalid glob %q", pattern))
			}
		}
		for dir, label := range o.Labels {
			if strings.TrimSpace(label) == "" {
				errs = errs.Append(fmt.Sprintf("cards.overrides[%d].labels.%s", i, dir), fmt.Errorf("label cannot be empty"))
			}
		}
	}
	return errs.ToError()
}

// validateKeys rejects a key bound to more than one action.
func (c *Config) validateKeys() error {
	groups := []struct {
		name string
		keys []string
	}{
		{"up", c.Keys.Up},
		{"down", c.Keys.Down},
		{"left", c.Keys.Left},
		{"right", c.Keys.Right},
		{"next", c.Keys.Next},
		{"prev", c.Keys.Prev},
	}

	owner := map[string]string{
		"up": "up", "down": "down", "left": "left", "right": "right", "esc": "cancel",
	}

	var errs criterio.FieldErrorsBuilder
	for _, g := range groups {
		for i, k := range g.keys {
			field := fmt.Sprintf("keys.%s[%d]", g.name, i)
			if strings.TrimSpace(k) == "" {
				errs = errs.Append(field, fmt.Errorf("key cannot be empty"))
				continue
			}
			if prev, ok := owner[k]; ok && prev != g.name {
				errs = errs.Append(field, fmt.Errorf("key %q is already bound to %s", k, prev))
				continue
			}
			owner[k] = g.name
		}
	}
	return errs.ToError()
}
