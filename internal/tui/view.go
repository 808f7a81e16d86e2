package tui

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/cardwallet/internal/core/gesture"
	"github.com/colonyops/cardwallet/internal/core/styles"
)

// View renders the model.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

// render composes the full screen: deck, the active overlay and toasts.
func (m Model) render() string {
	l := m.layout()
	w, h := l.width, l.height

	content := m.renderDeckScreen(l)

	switch {
	case m.scrim.Active() && m.popupView.Visible():
		content = m.popupView.Overlay(content, w, h)
	case m.state == stateNotifications && m.notificationModal != nil:
		content = m.notificationModal.Overlay(content, w, h)
	case m.state == stateHelp:
		content = m.renderHelpOverlay(content, w, h)
	}

	// Apply toast overlay on top of everything
	if m.toastController.HasToasts() {
		content = m.toastView.Overlay(content, w, h)
	}
	return content
}

// renderDeckScreen draws the header, the visible window of the deck and the
// footer onto a blank canvas.
func (m Model) renderDeckScreen(l screenLayout) string {
	w, h := l.width, l.height
	deckBottom := l.deck.y + l.deck.h

	layers := []*lipgloss.Layer{lipgloss.NewLayer(blank(w, h))}

	if m.nav.Len() == 0 {
		empty := styles.TextMutedStyle.Render("No cards yet. Run `wallet seed` or `wallet add` to create some.")
		ew := lipgloss.Width(empty)
		if layer := placeLayer(empty, (w-ew)/2, l.deck.y+l.deck.h/2, 1, w, deckBottom); layer != nil {
			layers = append(layers, layer)
		}
	} else {
		layers = append(layers, m.cardLayers(l)...)
	}

	if layer := placeLayer(m.renderHeader(w), 0, 0, 4, w, h); layer != nil {
		layers = append(layers, layer)
	}

	dots := renderDots(m.nav.Len(), m.nav.SelectedIndex())
	if layer := placeLayer(dots, (w-lipgloss.Width(dots))/2, h-footerHeight, 4, w, h); layer != nil {
		layers = append(layers, layer)
	}
	if layer := placeLayer(m.renderStatus(), 1, h-1, 4, w, h); layer != nil {
		layers = append(layers, layer)
	}

	return lipgloss.NewCompositor(layers...).Render()
}

// cardLayers renders the window around the selection. Neighbours sit one
// stride away along the navigation axis; the selected card follows the
// drag while a swipe is live.
func (m Model) cardLayers(l screenLayout) []*lipgloss.Layer {
	sess := m.ctrl.Engine().Session()
	fb := m.ctrl.Feedback()
	vertical := m.cfg.NavigationAxis() == gesture.Vertical
	deckBottom := l.deck.y + l.deck.h

	var layers []*lipgloss.Layer
	for _, slot := range m.nav.Window(m.cfg.Deck.Window) {
		x, y := l.card.x, l.card.y
		if vertical {
			y += round(slot.Offset)
		} else {
			x += round(slot.Offset)
		}

		frame := cardFrame{
			card:     slot.Card,
			width:    l.card.w,
			height:   l.card.h,
			selected: slot.Selected,
		}
		if slot.Selected && sess.Active() && sess.CardID == slot.Card.ID {
			f := fb
			frame.feedback = &f
			x += round(fb.Offset.DX)
			y += round(fb.Offset.DY)
		}
		if f, ok := m.ctrl.Failure(slot.Card.ID); ok {
			frame.failure = &f
		}
		if m.isExecuting(slot.Card.ID) {
			frame.busy = m.spinner.View()
		}

		z := 1
		if slot.Selected {
			z = 2
		}
		if layer := placeLayer(renderCard(frame, m.markdown), x, y, z, l.width, deckBottom); layer != nil {
			layers = append(layers, layer)
		}
	}
	return layers
}

func (m Model) renderHeader(width int) string {
	left := styles.CommandHeaderStyle.Render(styles.IconCard+" Wallet") +
		styles.TextMutedStyle.Render(fmt.Sprintf(" · %s · %d cards", m.app.Cards.Owner(), m.nav.Len()))

	right := ""
	if m.historyCount > 0 {
		right = styles.TextMutedStyle.Render(fmt.Sprintf("%s %d", styles.IconNotifyInfo, m.historyCount))
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 1 {
		return left
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, lipgloss.NewStyle().Width(gap).Render(""), right)
}

// renderStatus shows the swipe in progress, or the short help.
func (m Model) renderStatus() string {
	if sel, ok := m.nav.Selected(); ok {
		if line := statusLine(sel, m.ctrl.Feedback()); line != "" {
			return line
		}
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m Model) renderHelpOverlay(background string, width, height int) string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render("Keys"),
		"",
		m.help.FullHelpView(m.keys.FullHelp()),
		styles.ModalHelpStyle.Render("Drag a card with the mouse to swipe it. [esc] close"),
	)
	return overlayCenter(background, styles.ModalStyle.Render(content), width, height)
}
