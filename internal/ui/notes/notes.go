// Package notes is the presenter notes pane shown under the slides.
package notes

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/folio/internal/deck"
	"github.com/zjrosen/folio/internal/log"
	"github.com/zjrosen/folio/internal/ui/styles"
)

// Namespace keys notes renderings in the shared markdown cache.
const Namespace = "notes"

const (
	minHeight = 4
	// heightRatio is the share of the screen the pane takes.
	heightRatio = 3
)

var padStyle = lipgloss.NewStyle().PaddingLeft(1)

// Renderer renders markdown at a width.
type Renderer interface {
	Render(namespace string, width int, content string) (string, error)
}

// Model is the notes pane. It scrolls on its own, so the deck's input
// dispatcher treats it as a nested scrollable.
type Model struct {
	renderer Renderer
	viewport viewport.Model
	visible  bool
	focused  bool

	index    int
	count    int
	raw      string
	rendered bool

	width  int
	height int
}

// New creates a hidden notes pane.
func New(r Renderer) *Model {
	return &Model{renderer: r, viewport: viewport.New(0, 0)}
}

// Height returns the rows the pane takes for a screen of height h, or 0
// when hidden.
func Height(h int, visible bool) int {
	if !visible || h <= 0 {
		return 0
	}
	return max(minHeight, h/heightRatio)
}

// SetSize sets the pane's outer size.
func (m *Model) SetSize(width, height int) {
	if width == m.width && height == m.height {
		return
	}
	m.width = width
	m.height = height
	m.viewport.Width = max(1, width-4)
	m.viewport.Height = max(1, height-2)
	m.render(false)
}

// Toggle shows or hides the pane.
func (m *Model) Toggle() {
	m.visible = !m.visible
	log.Debug(log.CatUI, "notes toggled", "visible", m.visible)
}

// SetVisible shows or hides the pane.
func (m *Model) SetVisible(v bool) { m.visible = v }

// Visible reports whether the pane is shown.
func (m *Model) Visible() bool { return m.visible }

// SetFocused highlights the border while the pointer is over the pane.
func (m *Model) SetFocused(f bool) { m.focused = f }

// SetSlide shows the notes of slide index out of count. The scroll
// position resets when the slide changes.
func (m *Model) SetSlide(index, count int, notes string) {
	changed := index != m.index || notes != m.raw
	m.count = count
	if !changed && m.rendered {
		return
	}
	moved := index != m.index
	m.index = index
	m.raw = notes
	m.render(moved)
}

func (m *Model) render(top bool) {
	if m.width <= 0 {
		return
	}
	content := styles.HintStyle.Render("No notes for this slide.")
	if m.raw != "" {
		out, err := m.renderer.Render(Namespace, m.viewport.Width, m.raw)
		if err != nil {
			out = m.raw
		}
		content = out
	}
	m.viewport.SetContent(content)
	m.rendered = true
	if top {
		m.viewport.GotoTop()
	}
}

// ScrollBy scrolls by delta lines.
func (m *Model) ScrollBy(delta int) {
	if delta < 0 {
		m.viewport.ScrollUp(-delta)
	} else {
		m.viewport.ScrollDown(delta)
	}
}

// Update handles mouse wheel events aimed at the pane.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if !m.visible {
		return nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

// Scrollable implements deck.Scrollable.
func (m *Model) Scrollable() bool { return m.visible }

// ScrollTop implements deck.Scrollable.
func (m *Model) ScrollTop() float64 { return float64(m.viewport.YOffset) }

// ScrollHeight implements deck.Scrollable.
func (m *Model) ScrollHeight() float64 { return float64(m.viewport.TotalLineCount()) }

// ClientHeight implements deck.Scrollable.
func (m *Model) ClientHeight() float64 { return float64(m.viewport.Height) }

// View renders the pane, or "" when hidden.
func (m *Model) View() string {
	if !m.visible || m.width <= 0 || m.height <= 0 {
		return ""
	}
	footer := ""
	if m.count > 0 {
		footer = fmt.Sprintf("%d/%d", m.index+1, m.count)
	}
	if !m.viewport.AtTop() || !m.viewport.AtBottom() {
		footer = fmt.Sprintf("%s %.0f%%", footer, m.viewport.ScrollPercent()*100)
	}
	body := padStyle.Render(m.viewport.View())
	return styles.RenderWithTitleBorder(body, "Notes", footer, m.width, m.height, m.focused)
}

var _ deck.Scrollable = (*Model)(nil)
