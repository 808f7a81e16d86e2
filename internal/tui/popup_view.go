package tui

import (
	"fmt"
	"strconv"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/cardwallet/internal/core/popup"
	"github.com/colonyops/cardwallet/internal/core/styles"
)

const popupChrome = 7 // border + padding + title + help

// PopupView draws the open popup: a scrollable markdown body over a scrim.
type PopupView struct {
	viewport viewport.Model
	popup    popup.Popup
	open     bool
}

// NewPopupView returns a closed popup view.
func NewPopupView() *PopupView {
	return &PopupView{viewport: viewport.New()}
}

// Open shows p sized for a width x height screen.
func (v *PopupView) Open(p popup.Popup, md *MarkdownRenderer, width, height int) {
	r := popupRect(width, height)
	contentW := max(r.w-6, 10)

	v.viewport = viewport.New(
		viewport.WithWidth(contentW),
		viewport.WithHeight(max(r.h-popupChrome, 1)),
	)

	body := p.Content.Body
	if p.Failed {
		body = styles.TextErrorStyle.Render(body)
	} else {
		body = md.Render("popup:"+strconv.FormatUint(p.ID, 10)+":"+strconv.Itoa(contentW), body, contentW)
	}
	v.viewport.SetContent(body)

	v.popup = p
	v.open = true
}

// Close hides the view.
func (v *PopupView) Close() {
	v.open = false
	v.popup = popup.Popup{}
}

// Visible reports whether a popup is shown.
func (v *PopupView) Visible() bool {
	return v.open
}

// Popup returns the popup being shown.
func (v *PopupView) Popup() popup.Popup {
	return v.popup
}

// ScrollUp scrolls the body up.
func (v *PopupView) ScrollUp() {
	v.viewport.ScrollUp(1)
}

// ScrollDown scrolls the body down.
func (v *PopupView) ScrollDown() {
	v.viewport.ScrollDown(1)
}

// Overlay dims background and draws the popup centered over it.
func (v *PopupView) Overlay(background string, width, height int) string {
	if !v.open {
		return background
	}

	scrim := styles.ScrimStyle.Render(ansi.Strip(background))

	r := popupRect(width, height)
	scrollInfo := ""
	if v.viewport.TotalLineCount() > v.viewport.VisibleLineCount() {
		scrollInfo = styles.TextMutedStyle.Render(fmt.Sprintf(" (%.0f%%)", v.viewport.ScrollPercent()*100))
	}

	title := ansi.Truncate(v.popup.Content.Title, max(r.w-12, 10), "…")
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.PopupTitleStyle.Render(title)+scrollInfo,
		"",
		v.viewport.View(),
		styles.PopupHelpStyle.Render("[↑/↓] scroll  [esc] close  click outside to close"),
	)

	box := styles.PopupStyle.
		Width(r.w).
		Height(r.h).
		Render(content)

	bgLayer := lipgloss.NewLayer(scrim)
	boxLayer := lipgloss.NewLayer(box).X(r.x).Y(r.y).Z(2)
	return lipgloss.NewCompositor(bgLayer, boxLayer).Render()
}
