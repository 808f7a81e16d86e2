package tui

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/cardwallet/internal/core/gesture"
)

// handleKey processes key presses. The interaction controller sees every
// key first while the deck has focus; keys it swallows never reach the
// application bindings.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		return m.quit()
	}

	switch m.state {
	case stateHelp:
		return m.handleHelpKey(keyStr)
	case stateNotifications:
		return m.handleNotificationModalKey(keyStr)
	}

	if m.popups.Blocking() {
		return m.handlePopupKey(keyStr)
	}

	out := m.ctrl.Key(keyStr)
	if out.Handled {
		cmd := m.handleOutcome(out)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.state = stateHelp
		m.help.ShowAll = true
	case key.Matches(msg, m.keys.Notifications):
		m.notificationModal = NewNotificationModal(m.app.Notifications, m.cardTitle, m.width, m.height)
		m.state = stateNotifications
	case key.Matches(msg, m.keys.MoveLeft):
		m.moveSelected(-1)
	case key.Matches(msg, m.keys.MoveRight):
		m.moveSelected(1)
	case key.Matches(msg, m.keys.Dismiss):
		m.toastController.Dismiss()
	}
	return m, nil
}

func (m Model) handlePopupKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "up", "k":
		m.popupView.ScrollUp()
		return m, nil
	case "down", "j":
		m.popupView.ScrollDown()
		return m, nil
	}
	cmd := m.handleOutcome(m.ctrl.Key(keyStr))
	return m, cmd
}

func (m Model) handleHelpKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "?", "esc", "q":
		m.state = stateDeck
		m.help.ShowAll = false
	}
	return m, nil
}

func (m Model) handleNotificationModalKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "esc", "q", "n":
		m.state = stateDeck
		m.notificationModal = nil
	case "j", "down":
		m.notificationModal.ScrollDown()
	case "k", "up":
		m.notificationModal.ScrollUp()
	case "D":
		if err := m.notificationModal.Clear(); err != nil {
			m.notifyBus.Errorf("clear notifications: %v", err)
			return m, nil
		}
		m.historyCount = 0
	}
	return m, nil
}

// sample converts a terminal mouse position into a gesture sample.
func (m Model) sample(mouse tea.Mouse) gesture.Sample {
	return gesture.Sample{
		Source: gesture.SourcePointer,
		Pos:    gesture.Point{X: float64(mouse.X), Y: float64(mouse.Y)},
		At:     m.now(),
	}
}

func (m Model) layout() screenLayout {
	return computeLayout(m.width, m.height, m.cfg.Gesture.CardWidth, m.cfg.Gesture.CardHeight)
}

// handleMouseClick starts a drag on the selected card, or routes the click
// to the popup backdrop while a popup is open.
func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if m.state != stateDeck {
		return m, nil
	}
	mouse := msg.Mouse()

	if m.popups.Blocking() {
		l := m.layout()
		inside := popupRect(l.width, l.height).contains(mouse.X, mouse.Y)
		cmd := m.handleOutcome(m.ctrl.Backdrop(inside))
		return m, cmd
	}

	if mouse.Button != tea.MouseLeft {
		return m, nil
	}
	if !m.layout().card.contains(mouse.X, mouse.Y) {
		return m, nil
	}
	cmd := m.handleOutcome(m.ctrl.PointerDown(m.sample(mouse)))
	return m, cmd
}

func (m Model) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	if !m.ctrl.Dragging() {
		return m, nil
	}
	cmd := m.handleOutcome(m.ctrl.PointerMove(m.sample(msg.Mouse())))
	return m, cmd
}

func (m Model) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	if !m.ctrl.Dragging() {
		return m, nil
	}
	cmd := m.handleOutcome(m.ctrl.PointerUp(m.sample(msg.Mouse())))
	return m, cmd
}

// handleMouseWheel scrolls whatever has focus. Wheel up and left move
// backwards through the deck.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	forward := false
	switch msg.Mouse().Button {
	case tea.MouseWheelDown, tea.MouseWheelRight:
		forward = true
	case tea.MouseWheelUp, tea.MouseWheelLeft:
	default:
		return m, nil
	}

	switch {
	case m.state == stateNotifications && m.notificationModal != nil:
		if forward {
			m.notificationModal.ScrollDown()
		} else {
			m.notificationModal.ScrollUp()
		}
		return m, nil
	case m.popups.Blocking():
		if forward {
			m.popupView.ScrollDown()
		} else {
			m.popupView.ScrollUp()
		}
		return m, nil
	case m.state != stateDeck:
		return m, nil
	}

	notches := -1
	if forward {
		notches = 1
	}
	cmd := m.handleOutcome(m.ctrl.Wheel(notches))
	return m, cmd
}

// cardTitle names a card still in the deck.
func (m Model) cardTitle(id string) string {
	if c, ok := m.nav.Card(m.nav.Index(id)); ok {
		return c.DisplayTitle()
	}
	return ""
}
