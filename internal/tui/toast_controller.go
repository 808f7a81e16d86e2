package tui

import (
	"time"

	"github.com/colonyops/cardwallet/internal/core/notify"
)

const (
	defaultToastTTL   = 5 * time.Second
	defaultMaxToasts  = 5
	toastTickInterval = 100 * time.Millisecond
	toastWidth        = 48
)

type toast struct {
	notification notify.Notification
	remaining    time.Duration
	// repeats counts identical notifications folded into this toast.
	repeats int
}

func (t toast) sameAs(n notify.Notification) bool {
	return t.notification.Level == n.Level &&
		t.notification.Message == n.Message &&
		t.notification.CardID == n.CardID
}

// ToastController keeps the stack of visible toasts, oldest first.
//
// A notification identical to the newest toast refreshes it instead of
// stacking, so a card whose action fails on every swipe shows one toast
// with a repeat count.
type ToastController struct {
	toasts  []toast
	ttl     time.Duration
	ticking bool
}

// NewToastController returns a controller whose toasts live for ttl. A
// non-positive ttl uses the default.
func NewToastController(ttl time.Duration) *ToastController {
	c := &ToastController{}
	c.SetTTL(ttl)
	return c
}

// SetTTL changes the lifetime of toasts pushed from now on.
func (c *ToastController) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultToastTTL
	}
	c.ttl = ttl
}

// Push shows n, folding it into the newest toast when identical and
// evicting the oldest beyond defaultMaxToasts.
func (c *ToastController) Push(n notify.Notification) {
	if last := len(c.toasts) - 1; last >= 0 && c.toasts[last].sameAs(n) {
		c.toasts[last].repeats++
		c.toasts[last].remaining = c.ttl
		c.toasts[last].notification.CreatedAt = n.CreatedAt
		return
	}

	c.toasts = append(c.toasts, toast{notification: n, remaining: c.ttl, repeats: 1})
	if over := len(c.toasts) - defaultMaxToasts; over > 0 {
		c.toasts = c.toasts[over:]
	}
}

// Tick ages every toast by d and drops the expired ones.
func (c *ToastController) Tick(d time.Duration) {
	alive := c.toasts[:0]
	for _, t := range c.toasts {
		if t.remaining -= d; t.remaining > 0 {
			alive = append(alive, t)
		}
	}
	c.toasts = alive
}

// Dismiss removes the newest toast.
func (c *ToastController) Dismiss() {
	if n := len(c.toasts); n > 0 {
		c.toasts = c.toasts[:n-1]
	}
}

// DismissAll removes every toast.
func (c *ToastController) DismissAll() { c.toasts = c.toasts[:0] }

func (c *ToastController) HasToasts() bool { return len(c.toasts) > 0 }

func (c *ToastController) Toasts() []toast { return c.toasts }

// Ticking reports whether a tick command is in flight.
func (c *ToastController) Ticking() bool { return c.ticking }

func (c *ToastController) SetTicking(v bool) { c.ticking = v }
