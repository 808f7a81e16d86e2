package interact

import (
	"time"

	"github.com/colonyops/cardwallet/internal/core/action"
	"github.com/colonyops/cardwallet/internal/core/card"
	"github.com/colonyops/cardwallet/internal/core/deck"
	"github.com/colonyops/cardwallet/internal/core/popup"
	"github.com/colonyops/cardwallet/internal/core/swipe"
)

// Kind classifies an Outcome.
type Kind uint8

const (
	// None: nothing the caller must act on beyond redrawing.
	None Kind = iota
	// Navigated: the selection or scroll offset moved.
	Navigated
	// Cancelled: a swipe was released below the execute threshold.
	Cancelled
	// Noop: a swipe committed on a direction with nothing bound.
	Noop
	// Popup: a popup was opened.
	Popup
	// Invoke: a task action must be run with Controller.Run off the UI loop.
	Invoke
	// Dismissed: the open popup was closed.
	Dismissed
	// Settled: a task action finished and its session was settled.
	Settled
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Navigated:
		return "navigated"
	case Cancelled:
		return "cancelled"
	case Noop:
		return "noop"
	case Popup:
		return "popup"
	case Invoke:
		return "invoke"
	case Dismissed:
		return "dismissed"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// Invocation is a task action waiting to run.
type Invocation struct {
	SessionID uint64
	Card      card.Card
	Action    card.Action
}

// Outcome is what one input event produced.
type Outcome struct {
	Kind    Kind
	Session swipe.Session
	Scroll  deck.ScrollUpdate
	Popup   popup.Popup
	// Invocation is set for Invoke.
	Invocation Invocation
	// Result is set for Settled.
	Result action.Result
	// Handled is true when a key was consumed and must not fall through to
	// default handling.
	Handled bool
}

// Failure is the transient failure badge shown on a card after its action
// failed.
type Failure struct {
	Label string
	Err   error
	Until time.Time
}
