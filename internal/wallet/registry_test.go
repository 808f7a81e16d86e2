package wallet

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/cardwallet/internal/core/card"
	"github.com/colonyops/cardwallet/internal/core/config"
	"github.com/colonyops/cardwallet/internal/core/gesture"
	"github.com/colonyops/cardwallet/internal/core/styles"
)

func labels(c card.Card) map[gesture.Direction]string {
	out := make(map[gesture.Direction]string)
	for _, a := range c.Actions.Bound() {
		out[a.Direction] = a.Label
	}
	return out
}

func TestRegistry_DefaultBindings(t *testing.T) {
	svc := NewService(nil, testConfig(t), zerolog.Nop())

	tests := []struct {
		typ  card.Type
		want map[gesture.Direction]string
	}{
		{card.TypeProfile, map[gesture.Direction]string{gesture.Up: "Profile", gesture.Down: "Refresh", gesture.Right: "Share"}},
		{card.TypeBusinessID, map[gesture.Direction]string{gesture.Up: "Details", gesture.Down: "Verify", gesture.Left: "Archive"}},
		{card.TypeSettings, map[gesture.Direction]string{gesture.Up: "All settings", gesture.Down: "Dark mode", gesture.Right: "Notifications"}},
		{card.TypeAIAssistant, map[gesture.Direction]string{gesture.Up: "Ask", gesture.Down: "New chat", gesture.Right: "History", gesture.Left: "Archive"}},
		{card.TypeLoyalty, map[gesture.Direction]string{gesture.Up: "Rewards", gesture.Down: "Redeem", gesture.Right: "Check in", gesture.Left: "Archive"}},
		{card.Type("coupon"), map[gesture.Direction]string{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			c := svc.Bind(card.Card{ID: "x", Type: tt.typ})
			assert.Equal(t, tt.want, labels(c))

			for _, a := range c.Actions.Bound() {
				assert.True(t, a.Runnable())
				assert.Equal(t, styles.Arrow(a.Direction.String()), a.Icon)
			}
		})
	}
}

func TestRegistry_Overrides(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cards.Overrides = []config.CardOverride{
		{Types: []string{"loy*"}, Labels: map[string]string{"down": "Use reward"}, Disable: []string{"left"}},
		{Types: []string{"*"}, Disable: []string{"right"}},
		{Types: []string{"profile"}, Labels: map[string]string{"left": "Nothing bound here"}},
	}
	svc := NewService(nil, cfg, zerolog.Nop())

	loyalty := svc.Bind(card.Card{ID: "l", Type: card.TypeLoyalty})
	assert.Equal(t, map[gesture.Direction]string{gesture.Up: "Rewards", gesture.Down: "Use reward"}, labels(loyalty))

	profile := svc.Bind(card.Card{ID: "p", Type: card.TypeProfile})
	assert.Equal(t, map[gesture.Direction]string{gesture.Up: "Profile", gesture.Down: "Refresh"}, labels(profile),
		"labels for unbound directions are ignored")

	// Live reload: new overrides apply to cards bound afterwards.
	svc.Registry().SetOverrides(nil)
	loyalty = svc.Bind(loyalty)
	assert.Len(t, labels(loyalty), 4)
}

func TestRegistry_BindingsAreIndependent(t *testing.T) {
	svc := NewService(nil, testConfig(t), zerolog.Nop())

	a := svc.Bind(card.Card{ID: "a", Type: card.TypeLoyalty})
	b := svc.Bind(card.Card{ID: "b", Type: card.TypeLoyalty})

	up, _ := a.Actions.Get(gesture.Up)
	up.Label = "changed"
	a.Actions = a.Actions.With(up)

	got, _ := b.Actions.Get(gesture.Up)
	assert.Equal(t, "Rewards", got.Label)
}

func TestTransforms(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	tests := []struct {
		name    string
		fn      Transform
		data    map[string]string
		key     string
		want    string
		wantErr error
	}{
		{name: "refresh stamps time", fn: refresh, key: KeyRefreshedAt, want: "2026-03-04T05:06:07Z"},
		{name: "verify", fn: verify, data: map[string]string{KeyIDNumber: "1"}, key: KeyVerified, want: "yes"},
		{name: "verify without id", fn: verify, wantErr: ErrNoIDNumber},
		{name: "toggle off to on", fn: toggle(KeyDarkMode), data: map[string]string{KeyDarkMode: "off"}, key: KeyDarkMode, want: "on"},
		{name: "toggle on to off", fn: toggle(KeyDarkMode), data: map[string]string{KeyDarkMode: "on"}, key: KeyDarkMode, want: "off"},
		{name: "toggle unset", fn: toggle(KeyNotifications), key: KeyNotifications, want: "on"},
		{name: "new chat", fn: newChat, data: map[string]string{KeyConversations: "2"}, key: KeyConversations, want: "3"},
		{name: "check in", fn: checkIn, key: KeyPoints, want: "1"},
		{name: "redeem", fn: redeem, data: map[string]string{KeyPoints: "12"}, key: KeyPoints, want: "2"},
		{name: "redeem custom cost", fn: redeem, data: map[string]string{KeyPoints: "5", KeyRewardCost: "5"}, key: KeyPoints, want: "0"},
		{name: "redeem short", fn: redeem, data: map[string]string{KeyPoints: "9"}, wantErr: ErrNotEnoughPoints},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := card.Card{ID: "c", Data: tt.data}
			out, err := tt.fn(in, now)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Get(tt.key))
		})
	}
}

func TestTransforms_DoNotMutateInput(t *testing.T) {
	in := card.Card{ID: "c", Data: map[string]string{KeyPoints: "12"}}
	_, err := redeem(in, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "12", in.Get(KeyPoints))
}

func TestTransforms_BadNumber(t *testing.T) {
	_, err := checkIn(card.Card{Data: map[string]string{KeyPoints: "lots"}}, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a number")
}
