package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/cardwallet/internal/core/card"
	"github.com/colonyops/cardwallet/internal/core/gesture"
	"github.com/colonyops/cardwallet/internal/core/interact"
	"github.com/colonyops/cardwallet/internal/core/styles"
	"github.com/colonyops/cardwallet/internal/core/swipe"
)

const maxDots = 12

// cardFrame carries everything needed to draw one card.
type cardFrame struct {
	card     card.Card
	width    int
	height   int
	selected bool
	// feedback is set for the card under an active swipe session.
	feedback *swipe.Feedback
	failure  *interact.Failure
	busy     string // spinner frame while an action runs
}

// renderCard draws a card face: header, markdown content, data digest,
// failure badge and the action hints along the bottom.
func renderCard(f cardFrame, md *MarkdownRenderer) string {
	style := styles.CardStyle
	if f.selected {
		style = styles.CardSelectedStyle
	}
	if f.feedback != nil && f.feedback.Phase != swipe.PhaseIdle {
		style = style.BorderForeground(styles.SwipeBorder(f.feedback.Intensity, f.feedback.Armed))
	}

	innerW := max(f.width-style.GetHorizontalFrameSize(), 4)
	innerH := max(f.height-style.GetVerticalFrameSize(), 1)

	c := f.card
	icon := lipgloss.NewStyle().Foreground(styles.CardAccent(string(c.Type))).Render(styles.CardIcon(string(c.Type)))
	header := icon + " " + styles.CardTitleStyle.Render(c.DisplayTitle())
	if f.busy != "" {
		header += " " + f.busy
	}
	typeName := styles.CardTypeStyle.Render(humanize(string(c.Type)))
	gap := innerW - lipgloss.Width(header) - lipgloss.Width(typeName)
	if gap >= 1 {
		header += strings.Repeat(" ", gap) + typeName
	}

	top := []string{ansi.Truncate(header, innerW, "…")}
	if f.failure != nil {
		badge := styles.CardFailureStyle.Render(styles.IconWarning + " " + failureText(*f.failure))
		top = append(top, ansi.Truncate(badge, innerW, "…"))
	}

	bottom := []string{ansi.Truncate(actionHints(c, f.feedback), innerW, "…")}
	if summary := dataSummary(c.Data); summary != "" {
		bottom = append([]string{styles.TextMutedStyle.Render(ansi.Truncate(summary, innerW, "…"))}, bottom...)
	}

	room := innerH - len(top) - len(bottom)
	var body []string
	if room > 0 && f.selected {
		key := c.ID + ":" + c.UpdatedAt.String() + ":" + strconv.Itoa(innerW)
		rendered := md.Render(key, c.Content, innerW)
		if rendered != "" {
			for line := range strings.SplitSeq(rendered, "\n") {
				body = append(body, ansi.Truncate(line, innerW, "…"))
			}
		}
	}
	if len(body) > room {
		body = body[:max(room, 0)]
	}
	for len(body) < room {
		body = append(body, "")
	}

	lines := make([]string, 0, innerH)
	lines = append(lines, top...)
	lines = append(lines, body...)
	lines = append(lines, bottom...)
	if len(lines) > innerH {
		lines = lines[:innerH]
	}

	return style.
		Width(f.width).
		Height(f.height).
		Render(strings.Join(lines, "\n"))
}

func failureText(f interact.Failure) string {
	if f.Err == nil {
		return f.Label + " failed"
	}
	return fmt.Sprintf("%s failed: %v", f.Label, f.Err)
}

// actionHints lists the bound actions. The direction under an active swipe
// is tinted by its progress.
func actionHints(c card.Card, fb *swipe.Feedback) string {
	var parts []string
	for _, dir := range gesture.Directions {
		a, ok := c.Actions.Get(dir)
		if !ok {
			continue
		}
		hint := a.Icon + " " + a.Label
		switch {
		case fb != nil && fb.Direction == dir && fb.Armed:
			hint = styles.HintArmedStyle.Render(hint)
		case fb != nil && fb.Direction == dir && fb.Phase.Live():
			hint = lipgloss.NewStyle().Foreground(styles.SwipeBorder(fb.Intensity, false)).Render(hint)
		default:
			hint = styles.HintStyle.Render(hint)
		}
		parts = append(parts, hint)
	}
	if len(parts) == 0 {
		return styles.HintStyle.Render("no actions")
	}
	return strings.Join(parts, "  ")
}

// renderDots draws the deck position indicator.
func renderDots(count, selected int) string {
	switch {
	case count == 0:
		return ""
	case count > maxDots:
		return styles.DeckDotActive.Render(fmt.Sprintf("%d/%d", selected+1, count))
	}

	dots := make([]string, count)
	for i := range dots {
		if i == selected {
			dots[i] = styles.DeckDotActive.Render("●")
		} else {
			dots[i] = styles.DeckDotStyle.Render("○")
		}
	}
	return strings.Join(dots, " ")
}

// statusLine describes the swipe in progress, if any.
func statusLine(c card.Card, fb swipe.Feedback) string {
	if !fb.Phase.Live() {
		return ""
	}
	label := "nothing bound"
	if a, ok := c.Actions.Get(fb.Direction); ok {
		label = a.Label
	}
	text := fmt.Sprintf("%s %s %3.0f%%", styles.Arrow(fb.Direction.String()), label, math.Min(fb.Intensity, 1)*100)
	if fb.Armed {
		return styles.HintArmedStyle.Render(text + "  release to run")
	}
	return styles.HintStyle.Render(text)
}

func round(v float64) int {
	return int(math.Round(v))
}
