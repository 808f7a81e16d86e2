package styles

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Tint blends from toward to by t in [0,1] in CIE-L*u*v* space, which keeps
// the midpoint from going muddy. Colors that cannot be converted return
// from unchanged.
func Tint(from, to color.Color, t float64) color.Color {
	a, ok := colorful.MakeColor(from)
	if !ok {
		return from
	}
	b, ok := colorful.MakeColor(to)
	if !ok {
		return from
	}
	if math.IsNaN(t) {
		t = 0
	}
	t = math.Max(0, math.Min(1, t))
	return a.BlendLuv(b, t).Clamped()
}

// SwipeBorder returns the card border color for a swipe at the given
// intensity. Armed swipes use the primary color outright.
func SwipeBorder(intensity float64, armed bool) color.Color {
	if armed {
		return active.Primary
	}
	return Tint(active.Surface, active.Primary, intensity)
}

// Hex returns the #rrggbb form of c, or "" when c cannot be converted.
func Hex(c color.Color) string {
	if p := colorHexPtr(c); p != nil {
		return *p
	}
	return ""
}
