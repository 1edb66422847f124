package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/folio/internal/deck"
	"github.com/zjrosen/folio/internal/log"
	"github.com/zjrosen/folio/internal/ui/styles"
)

// slideNamespace keys slide renderings in the markdown cache.
const slideNamespace = "slide"

// marginX is the blank columns on each side of a slide.
const marginX = 2

// Renderer renders markdown at a width.
type Renderer interface {
	Render(namespace string, width int, content string) (string, error)
}

// frame is the fitted layout of one slide.
type frame struct {
	lines []string
	scale float64
	align deck.Alignment
}

// Surface implements deck.Surface for the terminal. A slide's natural
// height is its rendered line count. Terminals cannot shrink text, so a
// scale below one compacts the slide instead: runs of blank lines collapse,
// then blank lines go, then the tail is cut behind a marker line.
type Surface struct {
	renderer  Renderer
	slide     func(i int) (deck.Slide, error)
	available func() int
	width     int
	padding   int

	rendered map[int][]string
	frames   map[int]frame
}

// NewSurface creates a surface. slide looks slides up; available returns
// the rows a slide may use.
func NewSurface(r Renderer, slide func(int) (deck.Slide, error), available func() int) *Surface {
	return &Surface{
		renderer:  r,
		slide:     slide,
		available: available,
		rendered:  make(map[int][]string),
		frames:    make(map[int]frame),
	}
}

// SetWidth sets the terminal width. Renderings are redone at the new width.
func (s *Surface) SetWidth(w int) {
	if w == s.width {
		return
	}
	s.width = w
	clear(s.rendered)
}

// SetPadding sets the blank rows above the slide content.
func (s *Surface) SetPadding(rows int) { s.padding = max(0, rows) }

// Invalidate drops the rendering of slide i after its content changed.
func (s *Surface) Invalidate(i int) { delete(s.rendered, i) }

// ClearScale implements deck.Surface.
func (s *Surface) ClearScale(i int) { delete(s.frames, i) }

// Measure implements deck.Surface.
func (s *Surface) Measure(i int) float64 {
	return float64(len(s.lines(i)))
}

// ApplyScale implements deck.Surface.
func (s *Surface) ApplyScale(i int, scale float64, align deck.Alignment) {
	lines := s.lines(i)
	if scale < 1 {
		lines = compact(lines, s.available())
	}
	s.frames[i] = frame{lines: lines, scale: scale, align: align}
}

// Line returns row r of slide i's frame. The frame starts right under the
// banner: padding rows, then the fitted content, centered in the
// available rows unless it was compacted.
func (s *Surface) Line(i, r int) string {
	f, ok := s.frames[i]
	if !ok {
		return ""
	}
	r -= s.padding
	if r < 0 {
		return ""
	}
	if f.align == deck.AlignCenter {
		r -= max(0, (s.available()-len(f.lines))/2)
	}
	if r < 0 || r >= len(f.lines) {
		return ""
	}
	return f.lines[r]
}

// Scale returns the last applied scale of slide i.
func (s *Surface) Scale(i int) (float64, bool) {
	f, ok := s.frames[i]
	return f.scale, ok
}

func (s *Surface) lines(i int) []string {
	if l, ok := s.rendered[i]; ok {
		return l
	}
	sl, err := s.slide(i)
	if err != nil {
		return nil
	}
	width := max(1, s.width-2*marginX)
	out, err := s.renderer.Render(slideNamespace, width, sl.Body)
	if err != nil {
		log.ErrorErr(log.CatFit, "slide render failed", err, "index", i)
		out = sl.Body
	}
	pad := strings.Repeat(" ", marginX)
	lines := strings.Split(out, "\n")
	for j, l := range lines {
		lines[j] = pad + ansi.Truncate(l, width, "")
	}
	s.rendered[i] = trimBlank(lines)
	return s.rendered[i]
}

// compact shrinks lines toward avail rows.
func compact(lines []string, avail int) []string {
	if len(lines) <= avail {
		return lines
	}
	out := collapseBlank(lines)
	if len(out) > avail {
		out = dropBlank(out)
	}
	if len(out) > avail && avail > 0 {
		cut := len(out) - avail + 1
		out = append(out[:avail-1:avail-1],
			strings.Repeat(" ", marginX)+styles.HintStyle.Render(fmt.Sprintf("⋯ %d more lines", cut)))
	}
	return out
}

func isBlank(l string) bool {
	return strings.TrimSpace(ansi.Strip(l)) == ""
}

func collapseBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i, l := range lines {
		if isBlank(l) && i > 0 && isBlank(lines[i-1]) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func dropBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if !isBlank(l) {
			out = append(out, l)
		}
	}
	return out
}

func trimBlank(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && isBlank(lines[start]) {
		start++
	}
	for end > start && isBlank(lines[end-1]) {
		end--
	}
	return lines[start:end]
}

var _ deck.Surface = (*Surface)(nil)
