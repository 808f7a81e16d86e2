// Package popup manages the full-screen surface opened by popup actions.
// A popup holds a set of scoped resources (scrim, scroll lock, focus trap)
// that are released on every close path, including content failures.
package popup

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/colonyops/cardwallet/internal/core/card"
	"github.com/colonyops/cardwallet/internal/core/gesture"
	"github.com/colonyops/cardwallet/internal/core/logging"
)

// ErrContent wraps failures raised while producing popup content.
var ErrContent = errors.New("popup content failed")

// FallbackBody is shown when content could not be produced.
const FallbackBody = "This panel could not be displayed. Press esc to close."

// Content is the renderable payload of a popup.
type Content struct {
	Title string
	Body  string // markdown
}

// ContentProvider builds the content for a (card, direction) pair. onClose
// lets the content close its own popup; calling it after the popup is gone
// is a no-op.
type ContentProvider interface {
	Render(c card.Card, dir gesture.Direction, onClose func()) (Content, error)
}

// ProviderFunc adapts a function to ContentProvider.
type ProviderFunc func(c card.Card, dir gesture.Direction, onClose func()) (Content, error)

// Render implements ContentProvider.
func (f ProviderFunc) Render(c card.Card, dir gesture.Direction, onClose func()) (Content, error) {
	return f(c, dir, onClose)
}

// Reporter receives content and resource failures.
type Reporter interface {
	Report(err error, fields map[string]string)
}

// Popup is an open popup.
type Popup struct {
	ID        uint64
	Card      card.Card
	Direction gesture.Direction
	Content   Content
	// Failed is true when Content holds the fallback.
	Failed bool
}

// Controller opens and closes popups. Not safe for concurrent use.
type Controller struct {
	provider  ContentProvider
	reporter  Reporter
	resources []Resource
	log       zerolog.Logger

	seq     uint64
	current *Popup
	held    []Resource
}

// NewController returns a controller that acquires resources, in order, for
// every popup it opens.
func NewController(provider ContentProvider, reporter Reporter, resources ...Resource) *Controller {
	return &Controller{
		provider:  provider,
		reporter:  reporter,
		resources: resources,
		log:       logging.Component("popup"),
	}
}

// Open shows the popup for (c, dir), closing any popup already open. If a
// resource cannot be acquired the ones already held are released in reverse
// order and the error is returned; the failing resource is not released.
// Content failures do not fail Open: the popup shows the fallback body
// instead.
func (ctl *Controller) Open(c card.Card, dir gesture.Direction) (Popup, error) {
	ctl.Close()

	ctl.seq++
	p := &Popup{ID: ctl.seq, Card: c.Clone(), Direction: dir}

	for _, r := range ctl.resources {
		if err := ctl.acquire(r); err != nil {
			ctl.releaseAll()
			err = fmt.Errorf("open popup for %s/%s: %w", c.ID, dir, err)
			ctl.report(err, p)
			return Popup{}, err
		}
		ctl.held = append(ctl.held, r)
	}
	ctl.current = p

	content, err := ctl.render(p)
	if err != nil {
		ctl.report(err, p)
		content = Content{Title: c.DisplayTitle(), Body: FallbackBody}
		p.Failed = true
	}
	p.Content = content

	// Content may close its own popup while rendering.
	if ctl.current != p {
		return *p, nil
	}

	ctl.log.Debug().Uint64("popup", p.ID).Str("card", c.ID).Stringer("direction", dir).Msg("popup opened")
	return *p, nil
}

// Close closes the open popup and releases its resources. It reports false
// when nothing was open.
func (ctl *Controller) Close() bool {
	if ctl.current == nil {
		return false
	}
	id := ctl.current.ID
	ctl.current = nil
	ctl.releaseAll()
	ctl.log.Debug().Uint64("popup", id).Msg("popup closed")
	return true
}

// Current returns the open popup.
func (ctl *Controller) Current() (Popup, bool) {
	if ctl.current == nil {
		return Popup{}, false
	}
	return *ctl.current, true
}

// Blocking reports whether a popup is open and input to the deck must be
// suppressed.
func (ctl *Controller) Blocking() bool {
	return ctl.current != nil
}

// HandleKey closes the popup on esc. It reports whether the key was used.
func (ctl *Controller) HandleKey(key string) bool {
	if ctl.current == nil || key != "esc" {
		return false
	}
	return ctl.Close()
}

// HandleBackdrop closes the popup when a click lands outside it.
func (ctl *Controller) HandleBackdrop(inside bool) bool {
	if ctl.current == nil || inside {
		return false
	}
	return ctl.Close()
}

func (ctl *Controller) closeID(id uint64) {
	if ctl.current != nil && ctl.current.ID == id {
		ctl.Close()
	}
}

func (ctl *Controller) render(p *Popup) (content Content, err error) {
	if ctl.provider == nil {
		return Content{Title: p.Card.DisplayTitle()}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrContent, r)
		}
	}()

	id := p.ID
	content, err = ctl.provider.Render(p.Card.Clone(), p.Direction, func() { ctl.closeID(id) })
	if err != nil {
		return Content{}, fmt.Errorf("%w: %w", ErrContent, err)
	}
	return content, nil
}

func (ctl *Controller) acquire(r Resource) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("acquire resource: panic: %v", p)
		}
	}()
	return r.Acquire()
}

// releaseAll releases held resources in reverse order. A panicking Release
// is reported and does not stop the others.
func (ctl *Controller) releaseAll() {
	held := ctl.held
	ctl.held = nil
	for i := len(held) - 1; i >= 0; i-- {
		ctl.release(held[i])
	}
}

func (ctl *Controller) release(r Resource) {
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("release resource: panic: %v", p)
			ctl.log.Error().Err(err).Msg("resource release failed")
			if ctl.reporter != nil {
				ctl.reporter.Report(err, map[string]string{"source": "popup"})
			}
		}
	}()
	r.Release()
}

func (ctl *Controller) report(err error, p *Popup) {
	ctl.log.Error().Err(err).Uint64("popup", p.ID).Str("card", p.Card.ID).Msg("popup failure")
	if ctl.reporter == nil {
		return
	}
	ctl.reporter.Report(err, map[string]string{
		"popup":     strconv.FormatUint(p.ID, 10),
		"card":      p.Card.ID,
		"card_type": string(p.Card.Type),
		"direction": p.Direction.String(),
		"source":    "popup",
	})
}
