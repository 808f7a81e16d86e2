package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts the gesture session and card ID from context and adds
// them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if id, ok := GetGesture(ctx); ok {
		e.Uint64("gesture", id)
	}

	if cardID := GetCardID(ctx); cardID != "" {
		e.Str("card", cardID)
	}
}
