package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/colonyops/cardwallet/internal/core/logging"
	"github.com/colonyops/cardwallet/internal/core/styles"
)

const markdownCacheSize = 64

// MarkdownRenderer renders markdown with the active theme. Renderers are
// kept per wrap width and output is cached by key, so redrawing a card
// during a drag does not re-render its content.
type MarkdownRenderer struct {
	renderers map[int]*glamour.TermRenderer
	cache     map[string]string
	order     []string
	log       zerolog.Logger
}

// NewMarkdownRenderer returns an empty renderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		renderers: make(map[int]*glamour.TermRenderer),
		cache:     make(map[string]string),
		log:       logging.Component("markdown"),
	}
}

// Reset drops renderers and cached output. Call after a theme change.
func (r *MarkdownRenderer) Reset() {
	clear(r.renderers)
	clear(r.cache)
	r.order = r.order[:0]
}

// Render renders md wrapped at width. key identifies the source for
// caching; an empty key disables the cache. Failures fall back to the raw
// markdown.
func (r *MarkdownRenderer) Render(key, md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	width = max(width, 10)

	if key != "" {
		if out, ok := r.cache[key]; ok {
			return out
		}
	}

	out := r.render(md, width)

	if key != "" {
		if len(r.order) >= markdownCacheSize {
			delete(r.cache, r.order[0])
			r.order = r.order[1:]
		}
		r.cache[key] = out
		r.order = append(r.order, key)
	}
	return out
}

func (r *MarkdownRenderer) render(md string, width int) string {
	tr, ok := r.renderers[width]
	if !ok {
		var err error
		tr, err = glamour.NewTermRenderer(
			glamour.WithStyles(styles.GlamourStyle()),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			r.log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw content")
			return md
		}
		r.renderers[width] = tr
	}

	rendered, err := tr.Render(md)
	if err != nil {
		r.log.Debug().Err(err).Msg("failed to render markdown, showing raw content")
		return md
	}
	return strings.Trim(rendered, "\n")
}
