// Package interact wires the gesture sampler, the swipe engine, the deck
// navigator, the popup controller and the action resolver into one input
// pipeline. Pointer, touch, keyboard and wheel input all end up as an
// Outcome the presentation layer renders.
package interact

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/cardwallet/internal/core/action"
	"github.com/colonyops/cardwallet/internal/core/card"
	"github.com/colonyops/cardwallet/internal/core/deck"
	"github.com/colonyops/cardwallet/internal/core/gesture"
	"github.com/colonyops/cardwallet/internal/core/logging"
	"github.com/colonyops/cardwallet/internal/core/popup"
	"github.com/colonyops/cardwallet/internal/core/swipe"
)

// Config tunes the controller.
type Config struct {
	Swipe swipe.Config
	// NavigationAxis is the drag axis that scrolls the deck instead of
	// swiping. NoAxis makes all four directions action directions.
	NavigationAxis gesture.Axis
	ReverseWheel   bool
	// NextKeys and PrevKeys step through the deck.
	NextKeys []string
	PrevKeys []string
	// FailureTTL is how long a failure badge stays on a card.
	FailureTTL time.Duration
}

// DefaultConfig returns the default controller configuration.
func DefaultConfig() Config {
	return Config{
		Swipe:      swipe.DefaultConfig(),
		NextKeys:   []string{"tab"},
		PrevKeys:   []string{"shift+tab"},
		FailureTTL: 4 * time.Second,
	}
}

type mode uint8

const (
	modeUndecided mode = iota
	modeNavigate
	modeSwipe
)

type pendingChange struct {
	before    card.Card
	index     int
	tentative *card.Tentative
}

// Controller turns input into outcomes. All methods except Run must be
// called from the UI loop.
type Controller struct {
	cfg      Config
	sampler  *gesture.Sampler
	engine   *swipe.Engine
	resolver *action.Resolver
	nav      *deck.Navigator
	popups   *popup.Controller
	keys     *gesture.KeyBridge
	log      zerolog.Logger
	now      func() time.Time

	mode     mode
	navLast  float64
	pending  map[uint64]pendingChange
	failures map[string]Failure
}

// New returns a controller over the given collaborators.
func New(cfg Config, nav *deck.Navigator, resolver *action.Resolver, popups *popup.Controller, keys *gesture.KeyBridge) *Controller {
	if keys == nil {
		keys = gesture.NewKeyBridge()
	}
	return &Controller{
		cfg:      cfg,
		sampler:  gesture.NewSampler(),
		engine:   swipe.NewEngine(cfg.Swipe),
		resolver: resolver,
		nav:      nav,
		popups:   popups,
		keys:     keys,
		log:      logging.Component("interact"),
		now:      time.Now,
		pending:  make(map[uint64]pendingChange),
		failures: make(map[string]Failure),
	}
}

// SetNowFunc overrides the clock for the controller and its engine.
func (c *Controller) SetNowFunc(fn func() time.Time) {
	if fn == nil {
		return
	}
	c.now = fn
	c.engine.SetNowFunc(fn)
}

// SetConfig applies a new configuration. A drag in progress keeps its
// gesture mode.
func (c *Controller) SetConfig(cfg Config) {
	c.cfg = cfg
	c.engine.SetConfig(cfg.Swipe)
}

// Config returns the active configuration.
func (c *Controller) Config() Config { return c.cfg }

// Engine returns the swipe engine.
func (c *Controller) Engine() *swipe.Engine { return c.engine }

// Navigator returns the deck navigator.
func (c *Controller) Navigator() *deck.Navigator { return c.nav }

// Popups returns the popup controller.
func (c *Controller) Popups() *popup.Controller { return c.popups }

// Keys returns the keyboard bridge.
func (c *Controller) Keys() *gesture.KeyBridge { return c.keys }

// Feedback returns the visual feedback for the current session.
func (c *Controller) Feedback() swipe.Feedback {
	return c.engine.Feedback(c.engine.Session())
}

// Failure returns the active failure badge for cardID.
func (c *Controller) Failure(cardID string) (Failure, bool) {
	f, ok := c.failures[cardID]
	if !ok || !c.now().Before(f.Until) {
		return Failure{}, false
	}
	return f, true
}

// Animating reports whether Tick still has work to do: a settle delay is
// running or a failure badge is showing.
func (c *Controller) Animating() bool {
	return c.engine.Session().Phase.Settling() || len(c.failures) > 0
}

// Dragging reports whether a pointer gesture is in progress.
func (c *Controller) Dragging() bool {
	return c.sampler.Active()
}

// PointerDown starts a gesture on the selected card.
func (c *Controller) PointerDown(s gesture.Sample) Outcome {
	if c.popups.Blocking() || c.engine.Locked() || c.nav.Len() == 0 {
		return Outcome{Session: c.engine.Session()}
	}
	if !c.sampler.Begin(s) {
		return Outcome{Session: c.engine.Session()}
	}
	c.mode = modeUndecided
	c.navLast = 0
	return Outcome{Session: c.engine.Session()}
}

// PointerMove feeds one sample of the gesture. Invalid samples are dropped.
func (c *Controller) PointerMove(s gesture.Sample) Outcome {
	if !c.sampler.Active() {
		return Outcome{Session: c.engine.Session()}
	}
	v, ok := c.sampler.Move(s)
	if !ok {
		return Outcome{Session: c.engine.Session()}
	}
	return c.track(v)
}

// PointerUp ends the gesture, committing or cancelling a swipe or snapping
// a navigation drag.
func (c *Controller) PointerUp(s gesture.Sample) Outcome {
	if !c.sampler.Active() {
		return Outcome{Session: c.engine.Session()}
	}
	v, _ := c.sampler.End(s)

	switch c.mode {
	case modeNavigate:
		c.scrollTo(v)
		u := c.nav.Snap()
		c.mode = modeUndecided
		return Outcome{Kind: Navigated, Scroll: u, Session: c.engine.Session()}
	case modeSwipe:
		c.mode = modeUndecided
		sess, committed := c.engine.Release(c.project(v))
		if !committed {
			c.log.Debug().Str("card", sess.CardID).Float64("progress", sess.Progress).Msg("swipe cancelled")
			return Outcome{Kind: Cancelled, Session: sess}
		}
		return c.commit(sess)
	default:
		return Outcome{Session: c.engine.Session()}
	}
}

// Cancel abandons any gesture in progress without side effects.
func (c *Controller) Cancel() Outcome {
	if !c.sampler.Active() {
		return Outcome{Session: c.engine.Session()}
	}
	c.sampler.Reset()

	switch c.mode {
	case modeNavigate:
		c.mode = modeUndecided
		return Outcome{Kind: Navigated, Scroll: c.nav.Snap(), Session: c.engine.Session()}
	case modeSwipe:
		c.mode = modeUndecided
		return Outcome{Kind: Cancelled, Session: c.engine.Cancel()}
	default:
		return Outcome{Session: c.engine.Session()}
	}
}

// Key handles a key press. Mapped keys commit immediately on the selected
// card; Outcome.Handled tells the caller to swallow the key.
func (c *Controller) Key(name string) Outcome {
	if c.popups.Blocking() {
		if c.popups.HandleKey(name) {
			return Outcome{Kind: Dismissed, Handled: true, Session: c.engine.Session()}
		}
		return Outcome{Session: c.engine.Session()}
	}

	if name == "esc" && c.sampler.Active() {
		out := c.Cancel()
		out.Handled = true
		return out
	}

	switch {
	case slices.Contains(c.cfg.NextKeys, name):
		return Outcome{Kind: Navigated, Scroll: c.nav.Next(), Handled: true, Session: c.engine.Session()}
	case slices.Contains(c.cfg.PrevKeys, name):
		return Outcome{Kind: Navigated, Scroll: c.nav.Prev(), Handled: true, Session: c.engine.Session()}
	}

	dir, handled := c.keys.Map(name)
	if !handled {
		return Outcome{Session: c.engine.Session()}
	}

	if c.cfg.NavigationAxis != gesture.NoAxis && dir.Axis() == c.cfg.NavigationAxis {
		u := c.stepToward(dir)
		return Outcome{Kind: Navigated, Scroll: u, Handled: true, Session: c.engine.Session()}
	}

	sel, ok := c.nav.Selected()
	if !ok || c.sampler.Active() {
		return Outcome{Handled: true, Session: c.engine.Session()}
	}

	sess, ok := c.engine.Commit(sel.ID, dir)
	if !ok {
		return Outcome{Handled: true, Session: sess}
	}

	out := c.commit(sess)
	out.Handled = true
	return out
}

// Wheel scrolls the deck by whole cards. Positive notches move forward.
func (c *Controller) Wheel(notches int) Outcome {
	if notches == 0 || c.popups.Blocking() || c.nav.Static() {
		return Outcome{Session: c.engine.Session()}
	}
	if c.cfg.ReverseWheel {
		notches = -notches
	}

	stride := c.nav.Config().Stride()
	first := c.nav.ScrollBy(float64(notches) * stride)
	u := c.nav.Snap()
	u.Wrapped = u.Wrapped || first.Wrapped
	u.Changed = u.Changed || first.Changed
	return Outcome{Kind: Navigated, Scroll: u, Session: c.engine.Session()}
}

// Backdrop routes a click while a popup is open. inside tells whether it
// landed on the popup.
func (c *Controller) Backdrop(inside bool) Outcome {
	if c.popups.HandleBackdrop(inside) {
		return Outcome{Kind: Dismissed, Session: c.engine.Session()}
	}
	return Outcome{Session: c.engine.Session()}
}

// Tick advances time: it finishes settle delays and expires failure badges.
// It reports whether anything visible changed.
func (c *Controller) Tick(now time.Time) bool {
	changed := c.engine.Tick(now)
	for id, f := range c.failures {
		if !now.Before(f.Until) {
			delete(c.failures, id)
			changed = true
		}
	}
	return changed
}

// Run executes an invocation. It is safe to call off the UI loop.
func (c *Controller) Run(ctx context.Context, inv Invocation) action.Result {
	return c.resolver.Invoke(ctx, inv.SessionID, inv.Card, inv.Action)
}

// Complete settles the session of a finished invocation. When the handler
// did not succeed the tentative change is reverted, and a failure leaves a
// badge on the card.
func (c *Controller) Complete(res action.Result) Outcome {
	if res.Status == action.StatusDuplicate {
		return Outcome{Session: c.engine.Session()}
	}

	pend, ok := c.pending[res.SessionID]
	delete(c.pending, res.SessionID)

	if res.Status != action.StatusSucceeded && ok && pend.tentative.Revert != nil {
		pend.tentative.Revert(c.nav, pend.before, pend.index)
		c.log.Debug().Uint64("session", res.SessionID).Str("card", res.CardID).Msg("tentative change reverted")
	}

	if res.Failed() {
		c.failures[res.CardID] = Failure{
			Label: res.Label,
			Err:   res.Err,
			Until: c.now().Add(c.cfg.FailureTTL),
		}
	}

	c.engine.Settle(res.SessionID)
	return Outcome{Kind: Settled, Result: res, Session: c.engine.Session()}
}

func (c *Controller) track(v gesture.Vector) Outcome {
	if c.mode == modeUndecided {
		dir := gesture.Classify(v.DX, v.DY, c.cfg.Swipe.DeadZone)
		if dir == gesture.None {
			return Outcome{Session: c.engine.Session()}
		}
		if c.cfg.NavigationAxis != gesture.NoAxis && dir.Axis() == c.cfg.NavigationAxis && !c.nav.Static() {
			c.mode = modeNavigate
		} else {
			c.mode = modeSwipe
		}
	}

	if c.mode == modeNavigate {
		return Outcome{Kind: Navigated, Scroll: c.scrollTo(v), Session: c.engine.Session()}
	}

	sel, ok := c.nav.Selected()
	if !ok {
		return Outcome{Session: c.engine.Session()}
	}
	return Outcome{Session: c.engine.Update(sel.ID, c.sampler.Source(), c.project(v))}
}

// scrollTo scrolls the deck by the part of the drag not yet applied.
// Dragging toward the start of the axis reveals the next card.
func (c *Controller) scrollTo(v gesture.Vector) deck.ScrollUpdate {
	along := v.DX
	if c.cfg.NavigationAxis == gesture.Vertical {
		along = v.DY
	}
	delta := along - c.navLast
	c.navLast = along
	return c.nav.ScrollBy(-delta)
}

// project drops the navigation axis component so a swipe can only commit
// on an action direction.
func (c *Controller) project(v gesture.Vector) gesture.Vector {
	switch c.cfg.NavigationAxis {
	case gesture.Horizontal:
		return gesture.NewVector(0, v.DY)
	case gesture.Vertical:
		return gesture.NewVector(v.DX, 0)
	default:
		return v
	}
}

func (c *Controller) stepToward(dir gesture.Direction) deck.ScrollUpdate {
	if dir == gesture.Right || dir == gesture.Down {
		return c.nav.Next()
	}
	return c.nav.Prev()
}

func (c *Controller) commit(sess swipe.Session) Outcome {
	cd, ok := c.nav.Card(c.nav.Index(sess.CardID))
	if !ok {
		c.engine.Settle(sess.ID)
		return Outcome{Kind: Noop, Session: c.engine.Session()}
	}

	a, ok := c.resolver.Resolve(cd, sess.Direction)
	if !ok {
		c.engine.Settle(sess.ID)
		c.log.Debug().Str("card", cd.ID).Stringer("direction", sess.Direction).Msg("no action bound")
		return Outcome{Kind: Noop, Session: c.engine.Session()}
	}

	if a.Kind == card.KindPopup {
		c.engine.Settle(sess.ID)
		p, err := c.popups.Open(cd, sess.Direction)
		if err != nil {
			return Outcome{Kind: Noop, Session: c.engine.Session()}
		}
		return Outcome{Kind: Popup, Popup: p, Session: c.engine.Session()}
	}

	if a.Tentative != nil {
		c.pending[sess.ID] = pendingChange{
			before:    cd,
			index:     c.nav.Index(cd.ID),
			tentative: a.Tentative,
		}
		if a.Tentative.Apply != nil {
			a.Tentative.Apply(c.nav, cd.Clone())
		}
	}

	return Outcome{
		Kind:       Invoke,
		Session:    sess,
		Invocation: Invocation{SessionID: sess.ID, Card: cd, Action: a},
	}
}
