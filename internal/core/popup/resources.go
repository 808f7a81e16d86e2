package popup

// Resource is something a popup holds while it is open. Release is only
// called after a successful Acquire; a failing Acquire must leave nothing
// behind.
type Resource interface {
	Acquire() error
	Release()
}

// Hook adapts a pair of functions to Resource.
type Hook struct {
	Name      string
	OnAcquire func() error
	OnRelease func()
}

// Acquire implements Resource.
func (h Hook) Acquire() error {
	if h.OnAcquire == nil {
		return nil
	}
	return h.OnAcquire()
}

// Release implements Resource.
func (h Hook) Release() {
	if h.OnRelease != nil {
		h.OnRelease()
	}
}

// Locker is anything whose scrolling can be suspended, such as the deck
// navigator.
type Locker interface {
	Lock()
	Unlock()
}

// ScrollLock suspends l while a popup is open.
func ScrollLock(l Locker) Resource {
	return Hook{
		Name:      "scroll-lock",
		OnAcquire: func() error { l.Lock(); return nil },
		OnRelease: l.Unlock,
	}
}

// Scrim blocks input to everything behind the popup.
type Scrim struct {
	depth int
}

// Acquire implements Resource.
func (s *Scrim) Acquire() error {
	s.depth++
	return nil
}

// Release implements Resource.
func (s *Scrim) Release() {
	if s.depth > 0 {
		s.depth--
	}
}

// Active reports whether the scrim is up.
func (s *Scrim) Active() bool {
	return s.depth > 0
}

// FocusTrap keeps keyboard focus inside the popup and hands it back to the
// previous owner on release.
type FocusTrap struct {
	owner    string
	previous []string
}

// NewFocusTrap returns a trap whose initial focus owner is base.
func NewFocusTrap(base string) *FocusTrap {
	return &FocusTrap{owner: base}
}

// Acquire implements Resource.
func (f *FocusTrap) Acquire() error {
	f.previous = append(f.previous, f.owner)
	f.owner = "popup"
	return nil
}

// Release implements Resource.
func (f *FocusTrap) Release() {
	if len(f.previous) == 0 {
		return
	}
	f.owner = f.previous[len(f.previous)-1]
	f.previous = f.previous[:len(f.previous)-1]
}

// Owner returns the component holding focus.
func (f *FocusTrap) Owner() string {
	return f.owner
}

// Trapped reports whether focus is held by a popup.
func (f *FocusTrap) Trapped() bool {
	return len(f.previous) > 0
}
