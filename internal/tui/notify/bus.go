// Package notify fans user-facing notifications out to the TUI and records
// them in the notification history.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/cardwallet/internal/core/logging"
	"github.com/colonyops/cardwallet/internal/core/notify"
)

// saveTimeout bounds a history write so a locked database cannot stall an
// action goroutine.
const saveTimeout = 2 * time.Second

// Subscriber is called for every published notification, possibly from
// several goroutines at once.
type Subscriber func(notify.Notification)

// Bus records notifications in a Store and hands them to subscribers.
// A nil store keeps notifications in memory only.
type Bus struct {
	store notify.Store
	now   func() time.Time
	log   zerolog.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]Subscriber
}

// NewBus creates a bus backed by store.
func NewBus(store notify.Store) *Bus {
	return &Bus{
		store: store,
		now:   time.Now,
		log:   logging.Component("notify"),
		subs:  make(map[int]Subscriber),
	}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn Subscriber) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish stores n and delivers it to every subscriber. A failed write is
// logged and the notification is still delivered without an ID.
func (b *Bus) Publish(n notify.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = b.now()
	}

	if b.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		id, err := b.store.Save(ctx, n)
		cancel()
		if err != nil {
			b.log.Error().
				Err(err).
				Str("level", string(n.Level)).
				Str("message", n.Message).
				Msg("failed to persist notification")
		} else {
			n.ID = id
		}
	}

	b.mu.Lock()
	subs := make([]Subscriber, 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
}

// Report publishes a failure raised by an action handler or a popup
// content provider. The "card" and "source" fields are lifted onto the
// notification and "label" (or else "action") prefixes the message.
func (b *Bus) Report(err error, fields map[string]string) {
	if err == nil {
		return
	}

	msg := err.Error()
	for _, key := range []string{"label", "action"} {
		if prefix := fields[key]; prefix != "" {
			msg = prefix + ": " + msg
			break
		}
	}

	b.Publish(notify.Notification{
		Level:   notify.LevelError,
		Message: msg,
		CardID:  fields["card"],
		Source:  fields["source"],
	})
}

func (b *Bus) publishf(level notify.Level, format string, args ...any) {
	b.Publish(notify.Notification{Level: level, Message: fmt.Sprintf(format, args...)})
}

// Errorf publishes an error-level notification.
func (b *Bus) Errorf(format string, args ...any) { b.publishf(notify.LevelError, format, args...) }

// Warnf publishes a warning-level notification.
func (b *Bus) Warnf(format string, args ...any) { b.publishf(notify.LevelWarning, format, args...) }

// Infof publishes an info-level notification.
func (b *Bus) Infof(format string, args ...any) { b.publishf(notify.LevelInfo, format, args...) }
