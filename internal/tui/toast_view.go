package tui

import (
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/cardwallet/internal/core/notify"
	"github.com/colonyops/cardwallet/internal/core/styles"
)

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg { return toastTickMsg(t) })
}

// ToastView draws the controller's toasts as a stack in the lower-right
// corner.
type ToastView struct {
	controller *ToastController
}

func NewToastView(controller *ToastController) *ToastView {
	return &ToastView{controller: controller}
}

// View stacks the live toasts, oldest on top. It is empty when there are
// none.
func (v *ToastView) View() string {
	toasts := v.controller.Toasts()
	if len(toasts) == 0 {
		return ""
	}
	blocks := make([]string, len(toasts))
	for i, t := range toasts {
		blocks[i] = renderToast(t)
	}
	return lipgloss.JoinVertical(lipgloss.Right, blocks...)
}

func renderToast(t toast) string {
	icon, style := levelStyle(t.notification.Level)
	text := icon + " " + t.notification.Message
	if t.repeats > 1 {
		text += " (x" + strconv.Itoa(t.repeats) + ")"
	}
	return style.Width(toastWidth).Render(text)
}

func levelStyle(level notify.Level) (string, lipgloss.Style) {
	switch level {
	case notify.LevelError:
		return styles.IconNotifyError, styles.ToastErrorStyle
	case notify.LevelWarning:
		return styles.IconNotifyWarning, styles.ToastWarningStyle
	default:
		return styles.IconNotifyInfo, styles.ToastInfoStyle
	}
}

// Overlay draws the stack over background, one column in from the right
// edge and clear of the footer.
func (v *ToastView) Overlay(background string, width, height int) string {
	stack := v.View()
	if stack == "" {
		return background
	}

	x := width - lipgloss.Width(stack) - 1
	y := height - lipgloss.Height(stack) - footerHeight
	layer := placeLayer(stack, max(x, 0), max(y, 0), 3, width, height)
	if layer == nil {
		return background
	}
	return lipgloss.NewCompositor(lipgloss.NewLayer(background), layer).Render()
}
