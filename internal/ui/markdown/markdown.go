// Package markdown renders slide captions.
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/posters/internal/log"
)

// noMarginStyle removes glamour's document margins so captions sit flush in
// the side panel.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer renders captions at a fixed wrap width. A renderer that failed to
// build falls back to plain word wrapping.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a renderer. style is "dark" or "light"; empty means dark.
// WithAutoStyle is avoided because its background query leaks escape
// sequences into the input stream.
func New(width int, style string) (*Renderer, error) {
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return &Renderer{width: width}, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render turns markdown into styled terminal text.
func (r *Renderer) Render(md string) string {
	if r.renderer != nil {
		out, err := r.renderer.Render(md)
		if err == nil {
			return strings.Trim(out, "\n")
		}
		log.Warn(log.CatUI, "Caption render failed, using plain text", "error", err)
	}
	return Plain(md, r.width)
}

// Plain word-wraps text without any markdown styling.
func Plain(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(strings.TrimSpace(text), width)
}
