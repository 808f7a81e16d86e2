package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/cardwallet/internal/core/logging"
	"github.com/colonyops/cardwallet/internal/core/notify"
	"github.com/colonyops/cardwallet/internal/core/styles"
)

const (
	notifyModalWidthPct  = 65
	notifyModalMinWidth  = 60
	notifyModalMaxHeight = 30
	notifyModalMargin    = 4
	notifyModalChrome    = 6 // title, divider, help and padding
)

// CardTitler names the card a notification refers to. It returns "" for
// cards no longer in the deck.
type CardTitler func(id string) string

// NotificationModal is the scrollable notification history, grouped by day
// with the related card named on each entry.
type NotificationModal struct {
	store    notify.Store
	titles   CardTitler
	now      func() time.Time
	log      zerolog.Logger
	viewport viewport.Model
	count    int
}

// NewNotificationModal loads the history from store into a modal sized for
// a width x height terminal.
func NewNotificationModal(store notify.Store, titles CardTitler, width, height int) *NotificationModal {
	w, h := notificationModalSize(width, height)

	m := &NotificationModal{
		store:  store,
		titles: titles,
		now:    time.Now,
		log:    logging.Component("tui"),
		viewport: viewport.New(
			viewport.WithWidth(w-4),
			viewport.WithHeight(max(h-notifyModalChrome, 1)),
		),
	}
	m.reload()
	return m
}

func (m *NotificationModal) reload() {
	m.count = 0

	var history []notify.Notification
	if m.store != nil {
		var err error
		history, err = m.store.List(context.Background())
		if err != nil {
			m.log.Error().Err(err).Msg("failed to load notification history")
			m.viewport.SetContent(styles.TextErrorStyle.Render(fmt.Sprintf("failed to load notifications: %v", err)))
			return
		}
	}

	if len(history) == 0 {
		m.viewport.SetContent(styles.TextMutedStyle.Render("No notifications"))
		return
	}

	m.count = len(history)
	m.viewport.SetContent(m.renderHistory(history))
}

// renderHistory lists notifications newest first under a heading for each
// calendar day.
func (m *NotificationModal) renderHistory(history []notify.Notification) string {
	today := m.now().Local()

	var (
		b       strings.Builder
		lastDay string
	)
	for _, n := range history {
		at := n.CreatedAt.Local()
		if day := dayHeading(at, today); day != lastDay {
			if lastDay != "" {
				b.WriteByte('\n')
			}
			b.WriteString(styles.TextPrimaryStyle.Bold(true).Render(day))
			b.WriteByte('\n')
			lastDay = day
		}
		b.WriteString(m.formatEntry(n, at))
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func dayHeading(at, today time.Time) string {
	sameDay := func(a, b time.Time) bool {
		y1, m1, d1 := a.Date()
		y2, m2, d2 := b.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	}
	switch {
	case sameDay(at, today):
		return "Today"
	case sameDay(at, today.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return at.Format("Mon 2 Jan 2006")
	}
}

func (m *NotificationModal) formatEntry(n notify.Notification, at time.Time) string {
	icon, _ := levelStyle(n.Level)

	msgStyle := styles.TextPrimaryStyle
	switch n.Level {
	case notify.LevelError:
		msgStyle = styles.TextErrorStyle
	case notify.LevelWarning:
		msgStyle = styles.TextWarningStyle
	}

	line := fmt.Sprintf("  %s %s %s",
		styles.TextMutedStyle.Render(at.Format("15:04:05")), icon, msgStyle.Render(n.Message))

	if n.CardID != "" && m.titles != nil {
		if title := m.titles(n.CardID); title != "" {
			line += " " + styles.TextMutedStyle.Render("· "+title)
		}
	}
	if n.Source != "" {
		line += " " + styles.TextMutedStyle.Render("["+n.Source+"]")
	}
	return line
}

// Count returns how many notifications the modal shows.
func (m *NotificationModal) Count() int { return m.count }

func (m *NotificationModal) ScrollUp() { m.viewport.ScrollUp(1) }

func (m *NotificationModal) ScrollDown() { m.viewport.ScrollDown(1) }

// Clear deletes the stored history.
func (m *NotificationModal) Clear() error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Clear(context.Background()); err != nil {
		return err
	}
	m.reload()
	return nil
}

// Overlay draws the modal centered over background.
func (m *NotificationModal) Overlay(background string, width, height int) string {
	w, h := notificationModalSize(width, height)

	title := fmt.Sprintf("Notifications (%d)", m.count)
	if m.viewport.TotalLineCount() > m.viewport.VisibleLineCount() {
		title += styles.TextMutedStyle.Render(fmt.Sprintf(" %.0f%%", m.viewport.ScrollPercent()*100))
	}

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(title),
		styles.TextSurfaceStyle.Render(strings.Repeat("─", max(w-6, 1))),
		m.viewport.View(),
		styles.ModalHelpStyle.Render("[j/k] scroll  [D] clear all  [esc] close"),
	)

	return overlayCenter(background, styles.ModalStyle.Width(w).Height(h).Render(body), width, height)
}

func notificationModalSize(termWidth, termHeight int) (int, int) {
	return calcNotificationModalWidth(termWidth), min(termHeight-notifyModalMargin, notifyModalMaxHeight)
}

func calcNotificationModalWidth(termWidth int) int {
	available := max(termWidth-notifyModalMargin, 1)
	target := termWidth * notifyModalWidthPct / 100
	return min(max(target, notifyModalMinWidth), available)
}
