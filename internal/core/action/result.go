package action

import (
	"errors"
	"time"

	"github.com/colonyops/cardwallet/internal/core/gesture"
)

var (
	// ErrTimeout marks a handler that did not settle within Options.Timeout.
	ErrTimeout = errors.New("action handler timed out")
	// ErrPanic marks a handler that panicked.
	ErrPanic = errors.New("action handler panicked")
)

// Status is the outcome of an invocation.
type Status uint8

const (
	// StatusNoop means nothing ran: no task handler was bound.
	StatusNoop Status = iota
	StatusSucceeded
	StatusFailed
	StatusTimedOut
	// StatusDuplicate means the session already invoked its action.
	StatusDuplicate
	// StatusBusy means another action is still running on the same card.
	StatusBusy
)

func (s Status) String() string {
	switch s {
	case StatusNoop:
		return "noop"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusTimedOut:
		return "timed_out"
	case StatusDuplicate:
		return "duplicate"
	case StatusBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// Result reports how an invocation ended.
type Result struct {
	SessionID uint64
	CardID    string
	Direction gesture.Direction
	Label     string
	Status    Status
	Err       error
	Elapsed   time.Duration
}

// Failed reports whether the handler ran and did not succeed.
func (r Result) Failed() bool {
	return r.Status == StatusFailed || r.Status == StatusTimedOut
}

// Ran reports whether this call executed the handler.
func (r Result) Ran() bool {
	return r.Status == StatusSucceeded || r.Failed()
}
