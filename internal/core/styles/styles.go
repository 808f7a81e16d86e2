// Package styles holds the themed lipgloss styles shared by the CLI and TUI.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// active is the palette the styles below were last built from.
var active Palette

var (
	CommandHeaderStyle lipgloss.Style

	// Deck.
	CardStyle         lipgloss.Style
	CardSelectedStyle lipgloss.Style
	CardTitleStyle    lipgloss.Style
	CardTypeStyle     lipgloss.Style
	CardFailureStyle  lipgloss.Style
	HintStyle         lipgloss.Style
	HintArmedStyle    lipgloss.Style
	DeckDotStyle      lipgloss.Style
	DeckDotActive     lipgloss.Style

	// Popups sit on a dimmed scrim.
	PopupStyle      lipgloss.Style
	PopupTitleStyle lipgloss.Style
	PopupHelpStyle  lipgloss.Style
	ScrimStyle      lipgloss.Style

	ModalStyle        lipgloss.Style
	ModalTitleStyle   lipgloss.Style
	ModalHelpStyle    lipgloss.Style
	ToastInfoStyle    lipgloss.Style
	ToastWarningStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style

	TextPrimaryStyle lipgloss.Style
	TextMutedStyle   lipgloss.Style
	TextSurfaceStyle lipgloss.Style
	TextSuccessStyle lipgloss.Style
	TextWarningStyle lipgloss.Style
	TextErrorStyle   lipgloss.Style
)

// SetTheme rebuilds every shared style from p.
func SetTheme(p Palette) {
	active = p
	fg := func(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	boxed := func(border color.Color) lipgloss.Style {
		return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border)
	}

	CommandHeaderStyle = fg(p.Primary).Bold(true)

	CardStyle = boxed(p.Surface).Padding(1, 2)
	CardSelectedStyle = CardStyle.BorderForeground(p.Primary)
	CardTitleStyle = fg(p.Foreground).Bold(true)
	CardTypeStyle = fg(p.Muted).Italic(true)
	CardFailureStyle = fg(p.Background).Background(p.Error).Padding(0, 1).Bold(true)
	HintStyle = fg(p.Muted)
	HintArmedStyle = fg(p.Primary).Bold(true)
	DeckDotStyle = fg(p.Surface)
	DeckDotActive = fg(p.Primary)

	PopupStyle = boxed(p.Primary).Padding(1, 2)
	PopupTitleStyle = fg(p.Foreground).Bold(true)
	PopupHelpStyle = fg(p.Muted).MarginTop(1)
	ScrimStyle = fg(p.Surface)

	ModalStyle = boxed(p.Surface).Padding(1, 2)
	ModalTitleStyle = fg(p.Primary).Bold(true)
	ModalHelpStyle = fg(p.Muted).MarginTop(1)
	ToastInfoStyle = boxed(p.Primary).Foreground(p.Foreground).Padding(0, 1)
	ToastWarningStyle = boxed(p.Warning).Foreground(p.Warning).Padding(0, 1)
	ToastErrorStyle = boxed(p.Error).Foreground(p.Error).Padding(0, 1)

	TextPrimaryStyle = fg(p.Primary)
	TextMutedStyle = fg(p.Muted)
	TextSurfaceStyle = fg(p.Surface)
	TextSuccessStyle = fg(p.Success)
	TextWarningStyle = fg(p.Warning)
	TextErrorStyle = fg(p.Error)
}

// CardAccent is the active theme's accent for a card type.
func CardAccent(cardType string) color.Color {
	return active.TypeAccent(cardType)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	p, _ := GetPalette(DefaultTheme)
	SetTheme(p)
}

func colorHexPtr(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	hex := cc.Hex()
	return &hex
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := colorHexPtr(active.Foreground)
	primary := colorHexPtr(active.Primary)
	secondary := colorHexPtr(active.Secondary)
	muted := colorHexPtr(active.Muted)

	// Cards are narrow; drop the document margin glamour adds by default.
	var zero uint
	cfg.Document.Margin = &zero
	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = primary
	cfg.H1.BackgroundColor = nil
	cfg.H2.Color = primary
	cfg.H3.Color = primary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary

	cfg.Code.Color = secondary
	cfg.CodeBlock.Color = muted

	cfg.Table.Color = fg

	return cfg
}
