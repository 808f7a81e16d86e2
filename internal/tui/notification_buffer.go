package tui

import (
	"context"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/cardwallet/internal/core/notify"
)

// maxBufferedNotifications bounds the notifications held between drains.
// A burst beyond it keeps the newest entries.
const maxBufferedNotifications = 64

type drainNotificationsMsg struct{}

// NotificationBuffer carries notifications from action goroutines to the
// UI loop. Any number of pushes between drains wake the loop once.
type NotificationBuffer struct {
	mu      sync.Mutex
	pending []notify.Notification
	dropped int
	limit   int
	wake    chan struct{}
	now     func() time.Time
}

// NewNotificationBuffer creates a buffer holding at most limit entries. A
// non-positive limit uses maxBufferedNotifications.
func NewNotificationBuffer(limit int) *NotificationBuffer {
	if limit <= 0 {
		limit = maxBufferedNotifications
	}
	return &NotificationBuffer{
		limit: limit,
		wake:  make(chan struct{}, 1),
		now:   time.Now,
	}
}

// Push queues n, evicting the oldest entry when full. It never blocks.
func (b *NotificationBuffer) Push(n notify.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = b.now()
	}

	b.mu.Lock()
	if len(b.pending) == b.limit {
		b.pending = append(b.pending[:0], b.pending[1:]...)
		b.dropped++
	}
	b.pending = append(b.pending, n)
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Drain takes every queued notification along with the number evicted since
// the last drain.
func (b *NotificationBuffer) Drain() ([]notify.Notification, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	dropped := b.dropped
	b.dropped = 0
	if len(b.pending) == 0 {
		return nil, dropped
	}

	out := b.pending
	b.pending = make([]notify.Notification, 0, len(out))
	return out, dropped
}

// WaitForSignal returns a command that resolves once notifications are
// queued. It resolves to nil when ctx ends so no goroutine outlives the
// program.
func (b *NotificationBuffer) WaitForSignal(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.wake:
			return drainNotificationsMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}
