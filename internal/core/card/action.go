package card

import (
	"context"

	"github.com/colonyops/cardwallet/internal/core/gesture"
)

// Kind selects what a committed action does.
type Kind uint8

const (
	// KindPopup opens the full-screen surface for the (card, direction) pair.
	KindPopup Kind = iota
	// KindTask runs the action's Handler asynchronously.
	KindTask
)

func (k Kind) String() string {
	if k == KindTask {
		return "task"
	}
	return "popup"
}

// Handler is the side effect bound to a task action. It may block and may
// fail; it must honor ctx cancellation.
type Handler func(ctx context.Context, c Card) error

// Mutator is the subset of the navigator a tentative change may touch.
type Mutator interface {
	Replace(c Card) bool
	Remove(id string) bool
	Restore(c Card, index int) bool
	SelectID(id string) bool
}

// Tentative is an optimistic change applied before the handler runs, paired
// with its inverse. Revert receives the card as it was before Apply together
// with its index at that time.
type Tentative struct {
	Apply  func(m Mutator, c Card)
	Revert func(m Mutator, before Card, index int)
}

// Action is a bound reaction to a directional commit.
type Action struct {
	Direction gesture.Direction
	Label     string
	Icon      string
	Kind      Kind
	Handler   Handler    // KindTask only
	Tentative *Tentative // optional
}

// Runnable reports whether the action has work to do when committed.
func (a Action) Runnable() bool {
	switch a.Kind {
	case KindPopup:
		return true
	case KindTask:
		return a.Handler != nil
	default:
		return false
	}
}

// Actions holds at most one action per direction.
type Actions [4]*Action

func slot(dir gesture.Direction) (int, bool) {
	if dir < gesture.Up || dir > gesture.Right {
		return 0, false
	}
	return int(dir - gesture.Up), true
}

// Get returns the action bound to dir.
func (as Actions) Get(dir gesture.Direction) (Action, bool) {
	i, ok := slot(dir)
	if !ok || as[i] == nil {
		return Action{}, false
	}
	return *as[i], true
}

// With returns a copy of as with a bound to a.Direction. Actions with no
// direction are ignored.
func (as Actions) With(a Action) Actions {
	i, ok := slot(a.Direction)
	if !ok {
		return as
	}
	as[i] = &a
	return as
}

// Without returns a copy of as with dir unbound.
func (as Actions) Without(dir gesture.Direction) Actions {
	if i, ok := slot(dir); ok {
		as[i] = nil
	}
	return as
}

// Bound returns the bound actions in direction order.
func (as Actions) Bound() []Action {
	out := make([]Action, 0, len(as))
	for _, a := range as {
		if a != nil {
			out = append(out, *a)
		}
	}
	return out
}

// Len returns the number of bound directions.
func (as Actions) Len() int {
	n := 0
	for _, a := range as {
		if a != nil {
			n++
		}
	}
	return n
}
