package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.User = "tester"
	cfg.DataDir = t.TempDir()
	return &cfg
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	cfg.Keys.Up = []string{"k"}
	cfg.Keys.Down = []string{"j"}
	cfg.Cards.Overrides = []CardOverride{
		{Types: []string{"loy*"}, Labels: map[string]string{"down": "Redeem"}},
		{Types: []string{"{profile,settings}"}, Disable: []string{"right"}},
	}

	err := cfg.ValidateDeep("")
	assert.NoError(t, err, "expected valid config")
}

func TestValidateDeep_InvalidGlob(t *testing.T) {
	cfg := validConfig(t)
	cfg.Cards.Overrides = []CardOverride{
		{Types: []string{"loyalty", "[unclosed"}, Disable: []string{"up"}},
	}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "cards.overrides[0].types[1]", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Err.Error(), "invalid glob")
}

func TestValidateDeep_EmptyLabel(t *testing.T) {
	cfg := validConfig(t)
	cfg.Cards.Overrides = []CardOverride{
		{Types: []string{"loyalty"}, Labels: map[string]string{"up": "  "}},
	}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "cards.overrides[0].labels.up", fieldErrs[0].Field)
}

func TestValidateDeep_KeyConflicts(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
		wantErr string
	}{
		{
			name:    "alias used twice",
			mutate:  func(c *Config) { c.Keys.Up = []string{"k"}; c.Keys.Down = []string{"k"} },
			field:   "keys.down[0]",
			wantErr: `"k" is already bound to up`,
		},
		{
			name:    "arrow rebound",
			mutate:  func(c *Config) { c.Keys.Next = []string{"left"} },
			field:   "keys.next[0]",
			wantErr: "already bound to left",
		},
		{
			name:    "esc is reserved",
			mutate:  func(c *Config) { c.Keys.Prev = []string{"esc"} },
			field:   "keys.prev[0]",
			wantErr: "already bound to cancel",
		},
		{
			name:    "empty key",
			mutate:  func(c *Config) { c.Keys.Right = []string{""} },
			field:   "keys.right[0]",
			wantErr: "cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.ValidateDeep("")

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.NotEmpty(t, fieldErrs)
			assert.Equal(t, tt.field, fieldErrs[0].Field)
			assert.Contains(t, fieldErrs[0].Err.Error(), tt.wantErr)
		})
	}
}

func TestValidateDeep_RebindingOwnArrowIsAllowed(t *testing.T) {
	cfg := validConfig(t)
	cfg.Keys.Left = []string{"left", "h"}

	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	err := cfg.ValidateDeep(t.TempDir())

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "config_file", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Err.Error(), "is a directory")
}

func TestValidateDeep_MissingConfigFileIsFine(t *testing.T) {
	cfg := validConfig(t)

	err := cfg.ValidateDeep(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NoError(t, err)
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	cfg.DataDir = file

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "data_dir", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Err.Error(), "not a directory")
}

func TestValidateDeep_RunsBasicValidation(t *testing.T) {
	cfg := validConfig(t)
	cfg.Gesture.ConfirmThreshold = 0.9

	err := cfg.ValidateDeep("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confirm threshold")
}

func TestWarnings(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		category string
		item     string
	}{
		{
			name: "override matches nothing",
			mutate: func(c *Config) {
				c.Cards.Overrides = []CardOverride{{Types: []string{"coupon"}, Disable: []string{"up"}}}
			},
			category: "Cards",
			item:     "override 0",
		},
		{
			name: "override without effect",
			mutate: func(c *Config) {
				c.Cards.Overrides = []CardOverride{{Types: []string{"profile"}}}
			},
			category: "Cards",
			item:     "override 0",
		},
		{
			name:     "timeout disabled",
			mutate:   func(c *Config) { c.Gesture.HandlerTimeout = -time.Second },
			category: "Gesture",
			item:     "handler_timeout",
		},
		{
			name:     "oversized dead zone",
			mutate:   func(c *Config) { c.Gesture.DeadZone = 8 },
			category: "Gesture",
			item:     "dead_zone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			warnings := cfg.Warnings()
			require.Len(t, warnings, 1)
			assert.Equal(t, tt.category, warnings[0].Category)
			assert.Equal(t, tt.item, warnings[0].Item)
		})
	}
}

func TestWarnings_DefaultsAreClean(t *testing.T) {
	cfg := validConfig(t)
	assert.Empty(t, cfg.Warnings())
}
