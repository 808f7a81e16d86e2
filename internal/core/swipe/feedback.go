package swipe

import (
	"math"

	"github.com/colonyops/cardwallet/internal/core/gesture"
)

// Feedback describes how the selected card should be drawn mid-gesture.
type Feedback struct {
	Direction gesture.Direction
	Phase     Phase
	// Offset is how far the card follows the drag, limited to half the card
	// on each axis and zero once the session stops tracking the drag.
	Offset gesture.Vector
	// Intensity grows from 0 at rest to 1 at the execute threshold.
	Intensity float64
	// Armed is true when releasing now would commit.
	Armed bool
}

// Feedback computes the visual scaling for s under the engine's thresholds.
func (e *Engine) Feedback(s Session) Feedback {
	fb := Feedback{Direction: s.Direction, Phase: s.Phase}

	switch s.Phase {
	case PhaseIdle, PhaseCancelled:
		return fb
	case PhaseExecuting, PhaseCommitted:
		fb.Intensity = 1
		fb.Armed = true
		return fb
	}

	if e.cfg.ExecuteThreshold > 0 {
		fb.Intensity = math.Min(s.Progress/e.cfg.ExecuteThreshold, 1)
	}
	fb.Armed = s.Phase == PhaseConfirming && s.Progress >= e.cfg.ExecuteThreshold

	limitX, limitY := e.cfg.CardWidth/2, e.cfg.CardHeight/2
	fb.Offset = gesture.NewVector(
		clamp(s.Vector.DX, -limitX, limitX),
		clamp(s.Vector.DY, -limitY, limitY),
	)
	return fb
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
