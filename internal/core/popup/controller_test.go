package popup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/cardwallet/internal/core/card"
	"github.com/colonyops/cardwallet/internal/core/gesture"
)

type countingReporter struct {
	errs []error
}

func (r *countingReporter) Report(err error, _ map[string]string) {
	r.errs = append(r.errs, err)
}

type fakeLocker struct{ n int }

func (l *fakeLocker) Lock()   { l.n++ }
func (l *fakeLocker) Unlock() { l.n-- }

type harness struct {
	ctl      *Controller
	scrim    *Scrim
	focus    *FocusTrap
	lock     *fakeLocker
	reporter *countingReporter
}

func newHarness(provider ContentProvider) *harness {
	h := &harness{
		scrim:    &Scrim{},
		focus:    NewFocusTrap("deck"),
		lock:     &fakeLocker{},
		reporter: &countingReporter{},
	}
	h.ctl = NewController(provider, h.reporter, h.scrim, ScrollLock(h.lock), h.focus)
	return h
}

func (h *harness) assertReleased(t *testing.T) {
	t.Helper()
	assert.False(t, h.scrim.Active(), "scrim released")
	assert.Zero(t, h.lock.n, "scroll lock released")
	assert.False(t, h.focus.Trapped(), "focus trap released")
	assert.Equal(t, "deck", h.focus.Owner())
}

func staticProvider(body string) ContentProvider {
	return ProviderFunc(func(c card.Card, dir gesture.Direction, _ func()) (Content, error) {
		return Content{Title: c.ID + ":" + dir.String(), Body: body}, nil
	})
}

var testCard = card.Card{ID: "profile-1", Type: card.TypeProfile}

func TestController_OpenAcquiresAndCloseReleases(t *testing.T) {
	h := newHarness(staticProvider("hello"))

	p, err := h.ctl.Open(testCard, gesture.Up)
	require.NoError(t, err)
	assert.Equal(t, "profile-1:up", p.Content.Title)
	assert.False(t, p.Failed)

	assert.True(t, h.ctl.Blocking())
	assert.True(t, h.scrim.Active())
	assert.Equal(t, 1, h.lock.n)
	assert.Equal(t, "popup", h.focus.Owner())

	assert.True(t, h.ctl.Close())
	h.assertReleased(t)
	assert.False(t, h.ctl.Close(), "closing twice is a no-op")
}

func TestController_NoStacking(t *testing.T) {
	h := newHarness(staticProvider("x"))

	first, err := h.ctl.Open(testCard, gesture.Up)
	require.NoError(t, err)
	second, err := h.ctl.Open(testCard, gesture.Right)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	cur, ok := h.ctl.Current()
	require.True(t, ok)
	assert.Equal(t, gesture.Right, cur.Direction)

	assert.Equal(t, 1, h.lock.n, "resources are held once, not per popup opened")

	h.ctl.Close()
	h.assertReleased(t)
}

func TestController_EscAndBackdrop(t *testing.T) {
	h := newHarness(staticProvider("x"))

	assert.False(t, h.ctl.HandleKey("esc"), "nothing open")

	h.ctl.Open(testCard, gesture.Up)
	assert.False(t, h.ctl.HandleKey("enter"))
	assert.True(t, h.ctl.Blocking())
	assert.True(t, h.ctl.HandleKey("esc"))
	h.assertReleased(t)

	h.ctl.Open(testCard, gesture.Up)
	assert.False(t, h.ctl.HandleBackdrop(true), "clicks inside keep it open")
	assert.True(t, h.ctl.HandleBackdrop(false))
	h.assertReleased(t)
}

func TestController_ContentPanicShowsFallback(t *testing.T) {
	h := newHarness(ProviderFunc(func(card.Card, gesture.Direction, func()) (Content, error) {
		panic("template exploded")
	}))

	var p Popup
	var err error
	require.NotPanics(t, func() { p, err = h.ctl.Open(testCard, gesture.Up) })
	require.NoError(t, err)

	assert.True(t, p.Failed)
	assert.Equal(t, FallbackBody, p.Content.Body)
	require.Len(t, h.reporter.errs, 1)
	assert.ErrorIs(t, h.reporter.errs[0], ErrContent)

	assert.True(t, h.ctl.HandleKey("esc"))
	h.assertReleased(t)
}

func TestController_ContentErrorShowsFallback(t *testing.T) {
	boom := errors.New("no data")
	h := newHarness(ProviderFunc(func(card.Card, gesture.Direction, func()) (Content, error) {
		return Content{}, boom
	}))

	p, err := h.ctl.Open(testCard, gesture.Down)
	require.NoError(t, err)
	assert.True(t, p.Failed)
	require.Len(t, h.reporter.errs, 1)
	assert.ErrorIs(t, h.reporter.errs[0], boom)

	h.ctl.Close()
	h.assertReleased(t)
}

func TestController_AcquireFailureReleasesHeld(t *testing.T) {
	scrim := &Scrim{}
	lock := &fakeLocker{}
	rep := &countingReporter{}
	failing := Hook{Name: "broken", OnAcquire: func() error { return errors.New("terminal too small") }}

	ctl := NewController(staticProvider("x"), rep, scrim, ScrollLock(lock), failing)

	_, err := ctl.Open(testCard, gesture.Up)
	require.Error(t, err)
	assert.False(t, ctl.Blocking())
	assert.False(t, scrim.Active())
	assert.Zero(t, lock.n)
	assert.Len(t, rep.errs, 1)
}

func TestController_AcquireFailureReleaseOrder(t *testing.T) {
	var events []string
	hook := func(name string, fail bool) Hook {
		return Hook{
			Name: name,
			OnAcquire: func() error {
				events = append(events, "acquire "+name)
				if fail {
					return errors.New("no tty")
				}
				return nil
			},
			OnRelease: func() { events = append(events, "release "+name) },
		}
	}

	ctl := NewController(staticProvider("x"), nil, hook("first", false), hook("second", false), hook("broken", true))

	_, err := ctl.Open(testCard, gesture.Up)
	require.Error(t, err)
	assert.Equal(t, []string{
		"acquire first",
		"acquire second",
		"acquire broken",
		"release second",
		"release first",
	}, events)
}

func TestController_PanickingReleaseDoesNotStopOthers(t *testing.T) {
	scrim := &Scrim{}
	lock := &fakeLocker{}
	rep := &countingReporter{}
	bad := Hook{Name: "bad", OnRelease: func() { panic("double free") }}

	ctl := NewController(staticProvider("x"), rep, scrim, bad, ScrollLock(lock))
	_, err := ctl.Open(testCard, gesture.Up)
	require.NoError(t, err)

	require.NotPanics(t, func() { ctl.Close() })
	assert.False(t, scrim.Active())
	assert.Zero(t, lock.n)
	assert.Len(t, rep.errs, 1)
}

func TestController_ContentCanCloseItself(t *testing.T) {
	var closeFn func()
	h := newHarness(ProviderFunc(func(c card.Card, _ gesture.Direction, onClose func()) (Content, error) {
		closeFn = onClose
		return Content{Title: c.ID}, nil
	}))

	first, _ := h.ctl.Open(testCard, gesture.Up)
	staleClose := closeFn

	h.ctl.Open(testCard, gesture.Right)
	staleClose()
	assert.True(t, h.ctl.Blocking(), "a stale onClose must not close the newer popup")

	closeFn()
	assert.False(t, h.ctl.Blocking())
	h.assertReleased(t)
	assert.NotZero(t, first.ID)
}
