package styles

import (
	"image/color"
	"maps"
	"slices"

	lipgloss "charm.land/lipgloss/v2"
)

// Palette is the set of semantic colors a theme provides.
type Palette struct {
	Primary    color.Color
	Secondary  color.Color
	Foreground color.Color
	Muted      color.Color
	Background color.Color
	Surface    color.Color
	Success    color.Color
	Warning    color.Color
	Error      color.Color
}

// DefaultTheme is used when the config names no theme.
const DefaultTheme = "tokyo-night"

// swatch lists a theme's hex colors in Palette field order.
type swatch [9]string

func (s swatch) palette() Palette {
	c := func(i int) color.Color { return lipgloss.Color(s[i]) }
	return Palette{
		Primary:    c(0),
		Secondary:  c(1),
		Foreground: c(2),
		Muted:      c(3),
		Background: c(4),
		Surface:    c(5),
		Success:    c(6),
		Warning:    c(7),
		Error:      c(8),
	}
}

var swatches = map[string]swatch{
	//             primary    secondary  fg         muted      bg         surface    success    warning    error
	"tokyo-night": {"#7aa2f7", "#bb9af7", "#c0caf5", "#565f89", "#1a1b26", "#292e42", "#9ece6a", "#ff9e64", "#f7768e"},
	"gruvbox":     {"#fe8019", "#83a598", "#ebdbb2", "#928374", "#282828", "#3c3836", "#b8bb26", "#fabd2f", "#fb4934"},
	"catppuccin":  {"#cba6f7", "#89dceb", "#cdd6f4", "#7f849c", "#1e1e2e", "#313244", "#a6e3a1", "#fab387", "#f38ba8"},
	"nord":        {"#88c0d0", "#b48ead", "#eceff4", "#4c566a", "#2e3440", "#3b4252", "#a3be8c", "#ebcb8b", "#bf616a"},
	"paper":       {"#1d4ed8", "#7c3aed", "#1f2937", "#9ca3af", "#fafaf9", "#e7e5e4", "#15803d", "#b45309", "#b91c1c"},
}

// ThemeNames returns the built-in theme names in sorted order.
func ThemeNames() []string {
	return slices.Sorted(maps.Keys(swatches))
}

// GetPalette looks up a built-in theme by name.
func GetPalette(name string) (Palette, bool) {
	s, ok := swatches[name]
	if !ok {
		return Palette{}, false
	}
	return s.palette(), true
}

// TypeAccent returns the palette color used to tell card types apart.
func (p Palette) TypeAccent(cardType string) color.Color {
	switch cardType {
	case "profile":
		return p.Primary
	case "business_id":
		return p.Secondary
	case "settings":
		return p.Muted
	case "ai_assistant":
		return p.Warning
	case "loyalty":
		return p.Success
	default:
		return p.Foreground
	}
}
