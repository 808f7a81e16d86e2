// Package notify defines user-facing notifications and their persistence.
package notify

import (
	"context"
	"time"
)

// Level represents the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// ParseLevel maps a stored level name back to a Level. Unknown names read
// as LevelInfo.
func ParseLevel(s string) Level {
	switch l := Level(s); l {
	case LevelWarning, LevelError:
		return l
	default:
		return LevelInfo
	}
}

// Notification represents a single notification event.
type Notification struct {
	ID      int64  `json:"id"`
	Level   Level  `json:"level"`
	Message string `json:"message"`
	// CardID is set when the notification concerns a specific card.
	CardID string `json:"card_id,omitempty"`
	// Source names the component that raised it, e.g. "action" or "popup".
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists notifications to durable storage.
type Store interface {
	Save(ctx context.Context, n Notification) (int64, error)
	List(ctx context.Context) ([]Notification, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
