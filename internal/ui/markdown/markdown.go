// Package markdown renders slide and notes markdown for the terminal.
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// noMarginStyle removes document margins so slides use the full width.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// ResolveStyle turns "auto" into "dark" or "light" by asking the terminal
// once. It must run before the Bubble Tea program owns stdin, otherwise the
// terminal's OSC reply leaks into the input stream. Other names pass through.
func ResolveStyle(style string) string {
	switch strings.ToLower(style) {
	case "", "auto":
		if termenv.HasDarkBackground() {
			return "dark"
		}
		return "light"
	default:
		return style
	}
}

// Renderer wraps glamour with a fixed word-wrap width.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a renderer. style should already be resolved; empty means
// "dark".
func New(width int, style string) (*Renderer, error) {
	if style == "" || style == "auto" {
		style = "dark"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output without trailing
// blank lines.
func (r *Renderer) Render(markdown string) (string, error) {
	out, err := r.renderer.Render(markdown)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n "), nil
}
