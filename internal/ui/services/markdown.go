package services

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders markdown for a terminal of the given width.
type MarkdownRenderer interface {
	Render(content string, width int) (string, error)
}

// GlamourRenderer renders with glamour, keeping one renderer per width.
type GlamourRenderer struct {
	style string

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// NewGlamourRenderer picks a style from the terminal background.
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{renderers: make(map[int]*glamour.TermRenderer)}
}

// NewGlamourRendererWithStyle uses a fixed glamour style such as "dark"
// or "notty".
func NewGlamourRendererWithStyle(style string) *GlamourRenderer {
	return &GlamourRenderer{style: style, renderers: make(map[int]*glamour.TermRenderer)}
}

func (g *GlamourRenderer) Render(content string, width int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.renderers[width]
	if !ok {
		styleOpt := glamour.WithAutoStyle()
		if g.style != "" {
			styleOpt = glamour.WithStandardStyle(g.style)
		}
		var err error
		r, err = glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
		if err != nil {
			return "", err
		}
		g.renderers[width] = r
	}
	return r.Render(content)
}

// RenderMarkdown renders content, falling back to the raw text when no
// renderer is set or rendering fails.
func RenderMarkdown(content string, width int, renderer MarkdownRenderer) string {
	if renderer == nil {
		return content
	}
	out, err := renderer.Render(content, width)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
