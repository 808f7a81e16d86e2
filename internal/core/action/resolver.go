// Package action maps committed directions to card actions and runs their
// handlers at most once per swipe session.
package action

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/cardwallet/internal/core/card"
	"github.com/colonyops/cardwallet/internal/core/gesture"
	"github.com/colonyops/cardwallet/internal/core/logging"
	"github.com/colonyops/cardwallet/pkg/kv"
)

// sessionHistory bounds how many finished session ids are remembered for
// duplicate detection.
const sessionHistory = 256

// Reporter receives handler failures. Implementations must be safe for
// concurrent use.
type Reporter interface {
	Report(err error, fields map[string]string)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(err error, fields map[string]string)

// Report implements Reporter.
func (f ReporterFunc) Report(err error, fields map[string]string) { f(err, fields) }

// Options configure a Resolver.
type Options struct {
	// Timeout bounds a handler run. Zero disables the limit, which lets a
	// hung handler keep its session executing until it returns.
	Timeout time.Duration
}

// Resolver resolves and invokes card actions. It is safe for concurrent
// use: invocations normally run off the UI loop.
type Resolver struct {
	opts     Options
	reporter Reporter
	log      zerolog.Logger
	now      func() time.Time

	sessions *kv.Store[uint64, string] // session id -> card id
	inflight *kv.Store[string, uint64] // card id -> session id
}

// NewResolver returns a Resolver. A nil reporter discards failures after
// logging them.
func NewResolver(reporter Reporter, opts Options) *Resolver {
	if reporter == nil {
		reporter = ReporterFunc(func(error, map[string]string) {})
	}
	return &Resolver{
		opts:     opts,
		reporter: reporter,
		log:      logging.Component("resolver"),
		now:      time.Now,
		sessions: kv.New[uint64, string](),
		inflight: kv.New[string, uint64](),
	}
}

// SetTimeout changes the handler timeout for future invocations.
func (r *Resolver) SetTimeout(d time.Duration) {
	r.opts.Timeout = d
}

// Resolve returns the action bound to dir on c. The boolean is false when
// nothing runnable is bound, which callers treat as a no-op commit.
func (r *Resolver) Resolve(c card.Card, dir gesture.Direction) (card.Action, bool) {
	a, ok := c.Actions.Get(dir)
	if !ok || !a.Runnable() {
		return card.Action{}, false
	}
	return a, true
}

// Busy reports whether an action is running on cardID.
func (r *Resolver) Busy(cardID string) bool {
	_, ok := r.inflight.Get(cardID)
	return ok
}

// Invoke runs a's handler for the session. A session id invokes at most
// once: later calls with the same id return StatusDuplicate without running
// anything. Only one handler runs per card at a time.
//
// Invoke never panics. Failures are reported and returned in the Result.
func (r *Resolver) Invoke(ctx context.Context, sessionID uint64, c card.Card, a card.Action) Result {
	res := Result{
		SessionID: sessionID,
		CardID:    c.ID,
		Direction: a.Direction,
		Label:     a.Label,
	}

	if a.Kind != card.KindTask || a.Handler == nil {
		res.Status = StatusNoop
		return res
	}

	if !r.sessions.Claim(sessionID, c.ID) {
		res.Status = StatusDuplicate
		r.log.Debug().Uint64("session", sessionID).Str("card", c.ID).Msg("duplicate invocation ignored")
		return res
	}
	r.prune(sessionID)

	if !r.inflight.Claim(c.ID, sessionID) {
		res.Status = StatusBusy
		r.log.Debug().Uint64("session", sessionID).Str("card", c.ID).Msg("card busy")
		return res
	}
	defer r.inflight.Release(c.ID, func(id uint64) bool { return id == sessionID })

	start := r.now()
	err := r.run(ctx, c, a.Handler)
	res.Elapsed = r.now().Sub(start)

	switch {
	case err == nil:
		res.Status = StatusSucceeded
		r.log.Debug().
			Uint64("session", sessionID).
			Str("card", c.ID).
			Str("action", a.Label).
			Dur("elapsed", res.Elapsed).
			Msg("action succeeded")
		return res
	case errors.Is(err, ErrTimeout):
		res.Status = StatusTimedOut
	default:
		res.Status = StatusFailed
	}
	res.Err = err

	r.log.Error().
		Err(err).
		Uint64("session", sessionID).
		Str("card", c.ID).
		Str("action", a.Label).
		Str("status", res.Status.String()).
		Msg("action failed")

	r.reporter.Report(err, map[string]string{
		"card":      c.ID,
		"card_type": string(c.Type),
		"action":    a.Label,
		"direction": a.Direction.String(),
		"session":   strconv.FormatUint(sessionID, 10),
		"source":    "action",
	})
	return res
}

func (r *Resolver) run(ctx context.Context, c card.Card, h card.Handler) error {
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- fmt.Errorf("%w: %v", ErrPanic, p)
			}
		}()
		done <- h(ctx, c.Clone())
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrTimeout, r.opts.Timeout)
		}
		return ctx.Err()
	}
}

func (r *Resolver) prune(latest uint64) {
	if r.sessions.Len() <= sessionHistory || latest <= sessionHistory {
		return
	}
	floor := latest - sessionHistory
	r.sessions.Sweep(func(id uint64, _ string) bool { return id < floor })
}
