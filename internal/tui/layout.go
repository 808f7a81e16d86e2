package tui

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

const (
	headerHeight = 1
	footerHeight = 2 // deck dots + status/help line

	popupMaxWidth  = 84
	popupMaxHeight = 26
	popupMargin    = 4

	fallbackWidth  = 80
	fallbackHeight = 24
)

// rect is a cell rectangle on screen.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// screenLayout splits the screen into header, deck area and footer and
// places the selected card at rest.
type screenLayout struct {
	width, height int
	deck          rect
	card          rect
}

func computeLayout(width, height, cardW, cardH int) screenLayout {
	if width <= 0 {
		width = fallbackWidth
	}
	if height <= 0 {
		height = fallbackHeight
	}

	deckArea := rect{
		x: 0,
		y: headerHeight,
		w: width,
		h: max(height-headerHeight-footerHeight, 1),
	}

	w := max(min(cardW, width-2), 8)
	h := max(min(cardH, deckArea.h), 5)

	return screenLayout{
		width:  width,
		height: height,
		deck:   deckArea,
		card: rect{
			x: (width - w) / 2,
			y: deckArea.y + max((deckArea.h-h)/2, 0),
			w: w,
			h: h,
		},
	}
}

// popupRect is where the popup sits for a screen of the given size.
func popupRect(width, height int) rect {
	w := max(min(width-popupMargin, popupMaxWidth), 20)
	h := max(min(height-popupMargin, popupMaxHeight), 6)
	return rect{x: max((width-w)/2, 0), y: max((height-h)/2, 0), w: w, h: h}
}

// blank returns a width x height block of spaces used as the compositor's
// base layer.
func blank(width, height int) string {
	line := strings.Repeat(" ", max(width, 0))
	lines := make([]string, max(height, 1))
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// clipBlock cuts block so that, placed at (x, y), it stays inside a
// width x height screen. It returns the visible part and its clamped
// position; ok is false when nothing is visible.
func clipBlock(block string, x, y, width, height int) (string, int, int, bool) {
	lines := strings.Split(block, "\n")
	out := make([]string, 0, len(lines))
	top := -1
	visible := false

	for i, line := range lines {
		row := y + i
		if row < 0 || row >= height {
			continue
		}
		if top < 0 {
			top = row
		}

		lw := ansi.StringWidth(line)
		left := max(0, -x)
		right := min(lw, width-x)
		if right <= left {
			out = append(out, "")
			continue
		}
		visible = true
		if left == 0 && right == lw {
			out = append(out, line)
			continue
		}
		out = append(out, ansi.Cut(line, left, right))
	}

	if !visible {
		return "", 0, 0, false
	}
	return strings.Join(out, "\n"), max(x, 0), top, true
}

// placeLayer returns a compositor layer for block at (x, y), clipped to the
// screen, or nil when it is entirely off screen.
func placeLayer(block string, x, y, z, width, height int) *lipgloss.Layer {
	visible, cx, cy, ok := clipBlock(block, x, y, width, height)
	if !ok {
		return nil
	}
	return lipgloss.NewLayer(visible).X(cx).Y(cy).Z(z)
}

// overlayCenter composites fg centered over bg.
func overlayCenter(bg, fg string, width, height int) string {
	bgLayer := lipgloss.NewLayer(bg)
	fgLayer := lipgloss.NewLayer(fg)

	fgW := lipgloss.Width(fg)
	fgH := lipgloss.Height(fg)
	fgLayer.X(max((width-fgW)/2, 0)).Y(max((height-fgH)/2, 0)).Z(2)

	return lipgloss.NewCompositor(bgLayer, fgLayer).Render()
}
