package logging

import "context"

type contextKey string

const (
	gestureKey contextKey = "gesture"
	cardIDKey  contextKey = "card_id"
)

// WithGesture tags the context with the swipe session that triggered the work.
func WithGesture(ctx context.Context, sessionID uint64) context.Context {
	return context.WithValue(ctx, gestureKey, sessionID)
}

// WithCardID adds a card ID to the context.
func WithCardID(ctx context.Context, cardID string) context.Context {
	return context.WithValue(ctx, cardIDKey, cardID)
}

// GetGesture retrieves the swipe session from the context.
func GetGesture(ctx context.Context) (uint64, bool) {
	id, ok := ctx.Value(gestureKey).(uint64)
	return id, ok
}

// GetCardID retrieves the card ID from the context.
// Returns empty string if not present.
func GetCardID(ctx context.Context) string {
	if id, ok := ctx.Value(cardIDKey).(string); ok {
		return id
	}
	return ""
}
