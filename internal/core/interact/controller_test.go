package interact

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/cardwallet/internal/core/action"
	"github.com/colonyops/cardwallet/internal/core/card"
	"github.com/colonyops/cardwallet/internal/core/deck"
	"github.com/colonyops/cardwallet/internal/core/gesture"
	"github.com/colonyops/cardwallet/internal/core/popup"
	"github.com/colonyops/cardwallet/internal/core/swipe"
)

type reports struct{ n atomic.Int32 }

func (r *reports) Report(error, map[string]string) { r.n.Add(1) }

type fixture struct {
	ctl      *Controller
	nav      *deck.Navigator
	reports  *reports
	calls    *atomic.Int32
	clock    time.Time
	handlerE error
}

func (f *fixture) now() time.Time { return f.clock }

func (f *fixture) advance(d time.Duration) { f.clock = f.clock.Add(d) }

// newFixture builds a three card deck. Card "a" has a popup on up and a
// task on down; card "b" archives itself on left; card "c" has nothing.
func newFixture(t *testing.T, mutate func(*Config)) *fixture {
	t.Helper()

	f := &fixture{reports: &reports{}, calls: &atomic.Int32{}, clock: time.Unix(1_700_000_000, 0)}

	task := func(context.Context, card.Card) error {
		f.calls.Add(1)
		return f.handlerE
	}

	var a, b, c card.Card
	a = card.Card{ID: "a", Type: card.TypeProfile, Position: 0}
	a.Actions = a.Actions.
		With(card.Action{Direction: gesture.Up, Label: "Details", Kind: card.KindPopup}).
		With(card.Action{Direction: gesture.Down, Label: "Refresh", Kind: card.KindTask, Handler: task})

	b = card.Card{ID: "b", Type: card.TypeLoyalty, Position: 1}
	b.Actions = b.Actions.With(card.Action{
		Direction: gesture.Left,
		Label:     "Archive",
		Kind:      card.KindTask,
		Handler:   task,
		Tentative: &card.Tentative{
			Apply: func(m card.Mutator, c card.Card) { m.Remove(c.ID) },
			Revert: func(m card.Mutator, before card.Card, index int) {
				m.Restore(before, index)
				m.SelectID(before.ID)
			},
		},
	})

	c = card.Card{ID: "c", Type: card.TypeSettings, Position: 2}

	f.nav = deck.New(deck.Config{Extent: 20, Gap: 2})
	f.nav.Load([]card.Card{a, b, c})

	cfg := DefaultConfig()
	cfg.Swipe.CardWidth = 300
	cfg.Swipe.CardHeight = 300
	if mutate != nil {
		mutate(&cfg)
	}

	resolver := action.NewResolver(f.reports, action.Options{Timeout: time.Second})
	popups := popup.NewController(popup.ProviderFunc(func(c card.Card, _ gesture.Direction, _ func()) (popup.Content, error) {
		return popup.Content{Title: c.ID}, nil
	}), f.reports, &popup.Scrim{}, popup.ScrollLock(f.nav))

	f.ctl = New(cfg, f.nav, resolver, popups, gesture.NewKeyBridge())
	f.ctl.SetNowFunc(f.now)
	return f
}

func sample(x, y float64) gesture.Sample {
	return gesture.Sample{Source: gesture.SourcePointer, Pos: gesture.Point{X: x, Y: y}}
}

func (f *fixture) drag(dx, dy float64) Outcome {
	f.ctl.PointerDown(sample(500, 500))
	f.ctl.PointerMove(sample(500+dx/2, 500+dy/2))
	f.ctl.PointerMove(sample(500+dx, 500+dy))
	return f.ctl.PointerUp(sample(500+dx, 500+dy))
}

func (f *fixture) run(t *testing.T, out Outcome) Outcome {
	t.Helper()
	require.Equal(t, Invoke, out.Kind)
	res := f.ctl.Run(context.Background(), out.Invocation)
	return f.ctl.Complete(res)
}

func TestController_SwipeUpOpensPopup(t *testing.T) {
	f := newFixture(t, nil)

	f.ctl.PointerDown(sample(100, 400))
	mid := f.ctl.PointerMove(sample(100, 230))
	assert.Equal(t, swipe.PhaseConfirming, mid.Session.Phase)
	assert.InDelta(t, 0.567, mid.Session.Progress, 0.001)

	out := f.ctl.PointerUp(sample(100, 230))
	require.Equal(t, Popup, out.Kind)
	assert.Equal(t, "a", out.Popup.Card.ID)
	assert.True(t, f.ctl.Popups().Blocking())
	assert.True(t, f.nav.Locked(), "popup holds the deck scroll lock")

	assert.Equal(t, None, f.ctl.Wheel(1).Kind, "deck input is suppressed behind the popup")

	out = f.ctl.Key("esc")
	assert.Equal(t, Dismissed, out.Kind)
	assert.False(t, f.nav.Locked())
}

func TestController_ShortDragCancelsWithoutSideEffects(t *testing.T) {
	f := newFixture(t, nil)

	out := f.drag(0, 60)
	assert.Equal(t, Cancelled, out.Kind)
	assert.Zero(t, f.calls.Load())
	assert.False(t, f.ctl.Popups().Blocking())
	assert.Equal(t, []string{"a", "b", "c"}, f.nav.IDs())
}

func TestController_DwellInConfirmThenRetreatCancels(t *testing.T) {
	f := newFixture(t, nil)

	f.ctl.PointerDown(sample(0, 0))
	for _, y := range []float64{50, 100, 140, 140, 140} {
		f.ctl.PointerMove(sample(0, y))
	}
	out := f.ctl.PointerUp(sample(0, 20))

	assert.Equal(t, Cancelled, out.Kind)
	assert.Zero(t, f.calls.Load())
}

func TestController_SwipeDownRunsTaskOnce(t *testing.T) {
	f := newFixture(t, nil)

	out := f.drag(0, 200)
	require.Equal(t, Invoke, out.Kind)
	assert.Equal(t, swipe.PhaseExecuting, f.ctl.Engine().Session().Phase)

	// Input arriving before the handler settles is ignored.
	assert.Equal(t, None, f.drag(0, 250).Kind)
	assert.Equal(t, None, f.ctl.Key("down").Kind)

	res := f.ctl.Run(context.Background(), out.Invocation)
	again := f.ctl.Run(context.Background(), out.Invocation)
	assert.Equal(t, action.StatusSucceeded, res.Status)
	assert.Equal(t, action.StatusDuplicate, again.Status)

	done := f.ctl.Complete(res)
	assert.Equal(t, Settled, done.Kind)
	assert.Equal(t, swipe.PhaseCommitted, done.Session.Phase)
	assert.Equal(t, int32(1), f.calls.Load())

	f.advance(400 * time.Millisecond)
	assert.True(t, f.ctl.Tick(f.now()))
	assert.Equal(t, swipe.PhaseIdle, f.ctl.Engine().Session().Phase)
}

func TestController_KeyboardRightWithNoBindingIsNoop(t *testing.T) {
	f := newFixture(t, nil)

	out := f.ctl.Key("right")
	assert.Equal(t, Noop, out.Kind)
	assert.True(t, out.Handled, "mapped keys are consumed")
	assert.Zero(t, f.calls.Load())
	assert.Zero(t, f.reports.n.Load())
	assert.Equal(t, swipe.PhaseCommitted, out.Session.Phase)

	f.advance(time.Second)
	f.ctl.Tick(f.now())
	assert.Equal(t, swipe.PhaseIdle, f.ctl.Engine().Session().Phase)
}

func TestController_UnmappedKeyIsIgnored(t *testing.T) {
	f := newFixture(t, nil)

	out := f.ctl.Key("x")
	assert.Equal(t, None, out.Kind)
	assert.False(t, out.Handled)
	assert.Equal(t, swipe.PhaseIdle, f.ctl.Engine().Session().Phase)
}

func TestController_KeyboardCommitRunsTask(t *testing.T) {
	f := newFixture(t, nil)

	out := f.ctl.Key("down")
	require.Equal(t, Invoke, out.Kind)
	assert.InDelta(t, 0.5, out.Session.Progress, 1e-9)

	f.run(t, out)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestController_TabNavigates(t *testing.T) {
	f := newFixture(t, nil)

	out := f.ctl.Key("tab")
	assert.Equal(t, Navigated, out.Kind)
	assert.Equal(t, 1, f.nav.SelectedIndex())

	f.ctl.Key("shift+tab")
	f.ctl.Key("shift+tab")
	assert.Equal(t, 2, f.nav.SelectedIndex(), "navigation loops")
}

func TestController_WheelNavigates(t *testing.T) {
	f := newFixture(t, nil)

	out := f.ctl.Wheel(2)
	assert.Equal(t, Navigated, out.Kind)
	assert.Equal(t, 2, f.nav.SelectedIndex())

	out = f.ctl.Wheel(1)
	assert.True(t, out.Scroll.Wrapped)
	assert.Equal(t, 0, f.nav.SelectedIndex())
}

func TestController_ReverseWheel(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.ReverseWheel = true })

	f.ctl.Wheel(1)
	assert.Equal(t, 2, f.nav.SelectedIndex())
}

func TestController_ArchiveFailureReverts(t *testing.T) {
	f := newFixture(t, nil)
	f.handlerE = errors.New("store offline")
	f.nav.SelectID("b")

	out := f.ctl.Key("left")
	require.Equal(t, Invoke, out.Kind)
	assert.Equal(t, []string{"a", "c"}, f.nav.IDs(), "archive is applied optimistically")

	done := f.run(t, out)
	assert.True(t, done.Result.Failed())
	assert.Equal(t, []string{"a", "b", "c"}, f.nav.IDs(), "failed archive is reverted")

	sel, _ := f.nav.Selected()
	assert.Equal(t, "b", sel.ID)

	fail, ok := f.ctl.Failure("b")
	require.True(t, ok)
	assert.Equal(t, "Archive", fail.Label)
	assert.Equal(t, int32(1), f.reports.n.Load())
	assert.True(t, f.ctl.Animating())

	f.advance(5 * time.Second)
	assert.True(t, f.ctl.Tick(f.now()))
	_, ok = f.ctl.Failure("b")
	assert.False(t, ok)
	assert.False(t, f.ctl.Animating())
}

func TestController_ArchiveSuccessKeepsRemoval(t *testing.T) {
	f := newFixture(t, nil)
	f.nav.SelectID("b")

	out := f.ctl.Key("left")
	done := f.run(t, out)

	assert.Equal(t, action.StatusSucceeded, done.Result.Status)
	assert.Equal(t, []string{"a", "c"}, f.nav.IDs())
	_, ok := f.ctl.Failure("b")
	assert.False(t, ok)
}

func TestController_NavigationAxisDrag(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.NavigationAxis = gesture.Horizontal })

	f.ctl.PointerDown(sample(100, 100))
	out := f.ctl.PointerMove(sample(85, 102))
	assert.Equal(t, Navigated, out.Kind)

	// Once locked to navigation, vertical motion does not start a swipe.
	out = f.ctl.PointerMove(sample(80, 300))
	assert.Equal(t, Navigated, out.Kind)
	assert.Equal(t, swipe.PhaseIdle, f.ctl.Engine().Session().Phase)

	out = f.ctl.PointerUp(sample(80, 300))
	assert.Equal(t, Navigated, out.Kind)
	assert.Equal(t, 1, f.nav.SelectedIndex(), "a drag of about one stride moves one card")
	assert.Zero(t, f.calls.Load())

	assert.Equal(t, Navigated, f.ctl.Key("left").Kind, "arrow keys on the navigation axis navigate")
	assert.Equal(t, 0, f.nav.SelectedIndex())
}

func TestController_SwipeModeIgnoresNavigationAxis(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.NavigationAxis = gesture.Horizontal })

	f.ctl.PointerDown(sample(0, 0))
	f.ctl.PointerMove(sample(0, 40))
	// Mostly horizontal now, but the gesture is locked to swiping down.
	f.ctl.PointerMove(sample(400, 200))
	out := f.ctl.PointerUp(sample(400, 200))

	require.Equal(t, Invoke, out.Kind)
	assert.Equal(t, gesture.Down, out.Invocation.Action.Direction)
	assert.Equal(t, 0, f.nav.SelectedIndex())
}

func TestController_InvalidSamplesAreDropped(t *testing.T) {
	f := newFixture(t, nil)

	f.ctl.PointerDown(sample(0, 0))
	nan := gesture.Sample{Pos: gesture.Point{X: 0, Y: math.Inf(1)}}
	out := f.ctl.PointerMove(nan)
	assert.Equal(t, None, out.Kind)
	assert.Equal(t, swipe.PhaseIdle, out.Session.Phase)

	out = f.ctl.PointerUp(nan)
	assert.Equal(t, None, out.Kind, "a tap with no valid movement does nothing")
}

func TestController_EscCancelsDrag(t *testing.T) {
	f := newFixture(t, nil)

	f.ctl.PointerDown(sample(0, 0))
	f.ctl.PointerMove(sample(0, 200))
	out := f.ctl.Key("esc")

	assert.Equal(t, Cancelled, out.Kind)
	assert.True(t, out.Handled)
	assert.False(t, f.ctl.Dragging())

	out = f.ctl.PointerUp(sample(0, 200))
	assert.Equal(t, None, out.Kind)
	assert.Zero(t, f.calls.Load())
}

func TestController_BackdropClosesPopup(t *testing.T) {
	f := newFixture(t, nil)

	require.Equal(t, Popup, f.ctl.Key("up").Kind)
	assert.Equal(t, None, f.ctl.Backdrop(true).Kind)
	assert.Equal(t, Dismissed, f.ctl.Backdrop(false).Kind)
	assert.False(t, f.ctl.Popups().Blocking())
}

func TestController_EmptyDeck(t *testing.T) {
	f := newFixture(t, nil)
	f.nav.Load(nil)

	assert.NotPanics(t, func() {
		f.drag(0, 200)
		f.ctl.Key("up")
		f.ctl.Wheel(3)
		f.ctl.Key("tab")
	})
	assert.Zero(t, f.calls.Load())
}
