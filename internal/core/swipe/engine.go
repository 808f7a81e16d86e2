// Package swipe implements the drag-to-commit state machine that decides
// when a directional drag becomes an action.
package swipe

import (
	"fmt"
	"math"
	"time"

	"github.com/colonyops/cardwallet/internal/core/gesture"
)

// Phase is the lifecycle state of a swipe session.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseConfirming
	PhaseExecuting
	PhaseCancelled
	PhaseCommitted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseConfirming:
		return "confirming"
	case PhaseExecuting:
		return "executing"
	case PhaseCancelled:
		return "cancelled"
	case PhaseCommitted:
		return "committed"
	default:
		return "unknown"
	}
}

// Settling reports whether the phase is waiting out the settle delay.
func (p Phase) Settling() bool {
	return p == PhaseCancelled || p == PhaseCommitted
}

// Live reports whether the phase still tracks a drag.
func (p Phase) Live() bool {
	return p == PhaseDragging || p == PhaseConfirming
}

// Config holds the thresholds of the engine. Sizes and the dead zone are in
// the input surface's units.
type Config struct {
	CardWidth        float64
	CardHeight       float64
	DeadZone         float64
	ConfirmThreshold float64
	ExecuteThreshold float64
	SettleDelay      time.Duration
}

// DefaultConfig returns thresholds for a 300x300 card.
func DefaultConfig() Config {
	return Config{
		CardWidth:        300,
		CardHeight:       300,
		DeadZone:         10,
		ConfirmThreshold: 0.25,
		ExecuteThreshold: 0.50,
		SettleDelay:      300 * time.Millisecond,
	}
}

// Validate checks the thresholds are usable.
func (c Config) Validate() error {
	switch {
	case c.CardWidth <= 0 || c.CardHeight <= 0:
		return fmt.Errorf("card size must be positive, got %vx%v", c.CardWidth, c.CardHeight)
	case c.DeadZone < 0:
		return fmt.Errorf("dead zone must not be negative, got %v", c.DeadZone)
	case c.ConfirmThreshold <= 0 || c.ConfirmThreshold > 1:
		return fmt.Errorf("confirm threshold must be in (0,1], got %v", c.ConfirmThreshold)
	case c.ExecuteThreshold <= 0 || c.ExecuteThreshold > 1:
		return fmt.Errorf("execute threshold must be in (0,1], got %v", c.ExecuteThreshold)
	case c.ConfirmThreshold > c.ExecuteThreshold:
		return fmt.Errorf("confirm threshold %v exceeds execute threshold %v", c.ConfirmThreshold, c.ExecuteThreshold)
	case c.SettleDelay < 0:
		return fmt.Errorf("settle delay must not be negative, got %v", c.SettleDelay)
	}
	return nil
}

// Progress normalizes v against the card size: each axis is divided by its
// reference size and the resulting length is capped at 1. With a square card
// this is min(distance/size, 1).
func (c Config) Progress(v gesture.Vector) float64 {
	if c.CardWidth <= 0 || c.CardHeight <= 0 {
		return 0
	}
	p := math.Hypot(v.DX/c.CardWidth, v.DY/c.CardHeight)
	if math.IsNaN(p) {
		return 0
	}
	return math.Min(p, 1)
}

// ExecuteDistance is the drag length along dir that lands exactly on the
// execute threshold.
func (c Config) ExecuteDistance(dir gesture.Direction) float64 {
	if dir.Axis() == gesture.Vertical {
		return c.ExecuteThreshold * c.CardHeight
	}
	return c.ExecuteThreshold * c.CardWidth
}

// Session is the state of one drag-to-commit cycle.
type Session struct {
	ID        uint64
	CardID    string
	Source    gesture.Source
	Direction gesture.Direction
	Progress  float64
	Phase     Phase
	Vector    gesture.Vector
}

// Active reports whether the session is anything but idle.
func (s Session) Active() bool {
	return s.Phase != PhaseIdle
}

// Engine drives a single swipe session. Only the selected card accepts
// input, so one engine serves a whole deck. Not safe for concurrent use;
// the owner serializes calls on its event loop.
type Engine struct {
	cfg         Config
	session     Session
	seq         uint64
	settleUntil time.Time
	now         func() time.Time
}

// NewEngine returns an idle engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg, now: time.Now}
}

// SetNowFunc overrides the clock used for the settle delay.
func (e *Engine) SetNowFunc(fn func() time.Time) {
	if fn != nil {
		e.now = fn
	}
}

// Config returns the active thresholds.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetConfig swaps thresholds. A live drag keeps running under the new
// values from its next sample on.
func (e *Engine) SetConfig(cfg Config) {
	e.cfg = cfg
}

// Session returns a snapshot of the current session.
func (e *Engine) Session() Session {
	return e.session
}

// Locked reports whether a committed action is still running.
func (e *Engine) Locked() bool {
	return e.session.Phase == PhaseExecuting
}

// Update feeds the current drag vector of a gesture on cardID.
//
// Input is ignored while executing. A drag arriving during the settle delay
// pre-empts it: the old session is dropped and the sample starts a new one.
func (e *Engine) Update(cardID string, src gesture.Source, v gesture.Vector) Session {
	switch {
	case e.session.Phase == PhaseExecuting:
		return e.session
	case e.session.Phase.Settling():
		e.reset()
	}

	dir := gesture.Classify(v.DX, v.DY, e.cfg.DeadZone)

	if e.session.Phase == PhaseIdle {
		if dir == gesture.None {
			return e.session
		}
		e.seq++
		e.session = Session{ID: e.seq, CardID: cardID, Source: src, Phase: PhaseDragging}
	}

	e.session.Direction = dir
	e.session.Vector = v
	e.session.Progress = e.cfg.Progress(v)

	switch e.session.Phase {
	case PhaseDragging:
		if e.session.Progress >= e.cfg.ConfirmThreshold {
			e.session.Phase = PhaseConfirming
		}
	case PhaseConfirming:
		if e.session.Progress < e.cfg.ConfirmThreshold {
			e.session.Phase = PhaseDragging
		}
	}

	return e.session
}

// Release ends the drag with its final vector. The returned flag is true
// when the session committed and now waits in PhaseExecuting for Settle.
// Releasing below the execute threshold cancels synchronously.
func (e *Engine) Release(v gesture.Vector) (Session, bool) {
	if !e.session.Phase.Live() {
		return e.session, false
	}

	e.Update(e.session.CardID, e.session.Source, v)

	if e.session.Phase == PhaseConfirming &&
		e.session.Direction != gesture.None &&
		e.session.Progress >= e.cfg.ExecuteThreshold {
		e.session.Phase = PhaseExecuting
		return e.session, true
	}

	e.enterSettle(PhaseCancelled)
	return e.session, false
}

// Commit performs a keyboard commit: one frame from idle straight to
// executing with progress pinned at the execute threshold. It returns false
// while another action is still executing.
func (e *Engine) Commit(cardID string, dir gesture.Direction) (Session, bool) {
	if e.session.Phase == PhaseExecuting || dir == gesture.None {
		return e.session, false
	}
	if e.session.Phase != PhaseIdle {
		e.reset()
	}

	v := gesture.Synthesize(dir, e.cfg.ExecuteDistance(dir))
	e.seq++
	e.session = Session{
		ID:        e.seq,
		CardID:    cardID,
		Source:    gesture.SourceKeyboard,
		Direction: dir,
		Vector:    v,
		Progress:  e.cfg.ExecuteThreshold,
		Phase:     PhaseExecuting,
	}
	return e.session, true
}

// Cancel abandons a live drag without side effects.
func (e *Engine) Cancel() Session {
	if e.session.Phase.Live() {
		e.enterSettle(PhaseCancelled)
	}
	return e.session
}

// Settle marks the executing session id as finished. Settles for any other
// session are ignored and report false.
func (e *Engine) Settle(id uint64) bool {
	if e.session.Phase != PhaseExecuting || e.session.ID != id {
		return false
	}
	e.enterSettle(PhaseCommitted)
	return true
}

// Tick returns the engine to idle once the settle delay has elapsed. It
// reports whether the session changed.
func (e *Engine) Tick(now time.Time) bool {
	if !e.session.Phase.Settling() {
		return false
	}
	if now.Before(e.settleUntil) {
		return false
	}
	e.reset()
	return true
}

// SettleDeadline returns when the current settle delay ends, or the zero
// time when the engine is not settling.
func (e *Engine) SettleDeadline() time.Time {
	if !e.session.Phase.Settling() {
		return time.Time{}
	}
	return e.settleUntil
}

// Reset forces the engine back to idle unless an action is executing.
func (e *Engine) Reset() {
	if e.session.Phase == PhaseExecuting {
		return
	}
	e.reset()
}

func (e *Engine) enterSettle(p Phase) {
	e.session.Phase = p
	e.settleUntil = e.now().Add(e.cfg.SettleDelay)
}

func (e *Engine) reset() {
	e.session = Session{}
	e.settleUntil = time.Time{}
}
