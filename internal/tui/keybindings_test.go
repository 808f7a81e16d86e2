package tui

import (
	"testing"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/colonyops/cardwallet/internal/core/config"
	"github.com/colonyops/cardwallet/internal/core/gesture"
)

func TestBindDirectionKeys(t *testing.T) {
	prev := config.DefaultConfig()
	prev.Keys.Up = []string{"k"}
	prev.Keys.Left = []string{"h"}

	bridge := gesture.NewKeyBridge()
	bindDirectionKeys(bridge, nil, &prev)

	dir, ok := bridge.Map("k")
	assert.True(t, ok)
	assert.Equal(t, gesture.Up, dir)

	next := config.DefaultConfig()
	next.Keys.Up = []string{"w"}
	bindDirectionKeys(bridge, &prev, &next)

	_, ok = bridge.Map("k")
	assert.False(t, ok, "alias from the previous config is removed")
	_, ok = bridge.Map("h")
	assert.False(t, ok)

	dir, ok = bridge.Map("w")
	assert.True(t, ok)
	assert.Equal(t, gesture.Up, dir)

	for _, d := range gesture.Directions {
		got, ok := bridge.Map(d.String())
		assert.True(t, ok, "arrow %s stays bound", d)
		assert.Equal(t, d, got)
	}
}

func TestBindDirectionKeys_aliasShadowingArrow(t *testing.T) {
	prev := config.DefaultConfig()
	prev.Keys.Up = []string{"down"}

	bridge := gesture.NewKeyBridge()
	bindDirectionKeys(bridge, nil, &prev)

	dir, _ := bridge.Map("down")
	assert.Equal(t, gesture.Up, dir)

	next := config.DefaultConfig()
	bindDirectionKeys(bridge, &prev, &next)

	dir, ok := bridge.Map("down")
	assert.True(t, ok)
	assert.Equal(t, gesture.Down, dir)
}

func TestNewKeyMap(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keys.Next = []string{"n", "l"}
	cfg.Keys.Right = []string{"d"}

	km := NewKeyMap(&cfg)

	assert.True(t, key.Matches(tea.KeyPressMsg(tea.Key{Code: 'l', Text: "l"}), km.Next))
	assert.True(t, key.Matches(tea.KeyPressMsg(tea.Key{Code: 'd', Text: "d"}), km.Swipe))
	assert.Equal(t, "n/l", km.Next.Help().Key)
	assert.Len(t, km.FullHelp(), 3)
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, []string{"tab"}, orDefault(nil, "tab"))
	assert.Equal(t, []string{"]"}, orDefault([]string{"]"}, "tab"))
}
