// Package logoverlay is the in-app log viewer shown with ctrl+x in debug
// mode.
package logoverlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/folio/internal/log"
	"github.com/zjrosen/folio/internal/ui/overlay"
	"github.com/zjrosen/folio/internal/ui/styles"
)

const (
	viewportMaxHeight = 25
	viewportMinHeight = 5
	boxMaxWidth       = 160
	boxMinWidth       = 40
	bufferRequest     = 10000
)

// CloseMsg is sent when the overlay closes itself.
type CloseMsg struct{}

var levelKeys = []struct {
	key   string
	label string
	level log.Level
}{
	{"d", "Debug", log.LevelDebug},
	{"i", "Info", log.LevelInfo},
	{"w", "Warn", log.LevelWarn},
	{"e", "Error", log.LevelError},
}

// Model is the log overlay component state.
type Model struct {
	visible  bool
	minLevel log.Level
	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden overlay showing every level.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// Update handles keys while visible.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch k := msg.String(); k {
		case "c":
			log.ClearBuffer()
			m.refresh(false)
		case "d", "i", "w", "e":
			for _, lk := range levelKeys {
				if lk.key == k {
					m.minLevel = lk.level
				}
			}
			m.refresh(true)
		case "j", "down":
			m.viewport.ScrollDown(1)
		case "k", "up":
			m.viewport.ScrollUp(1)
		case "g":
			m.viewport.GotoTop()
		case "G":
			m.viewport.GotoBottom()
		case "ctrl+x", "esc", "q":
			m.visible = false
			return m, func() tea.Msg { return CloseMsg{} }
		}
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// Append refreshes after a new entry arrived, following the tail when the
// view was already at the bottom.
func (m *Model) Append() {
	if !m.visible {
		return
	}
	m.refresh(m.viewport.AtBottom())
}

// View renders the box.
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	boxWidth := m.boxWidth()
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(1)
	divider := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).Render(strings.Repeat("─", boxWidth))

	body := strings.Join([]string{
		titleStyle.Render("Logs"),
		divider,
		m.viewport.View(),
		divider,
		m.filterHint(),
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(boxWidth).
		Render(body)
}

// Overlay renders the box centered on bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{Width: m.width, Height: m.height, Position: overlay.Center}, m.View(), bg)
}

// Visible returns whether the overlay is currently visible.
func (m Model) Visible() bool { return m.visible }

// Toggle flips visibility, scrolled to the newest entries when opening.
func (m *Model) Toggle() {
	m.visible = !m.visible
	if m.visible {
		m.refresh(true)
	}
}

// Hide closes the overlay.
func (m *Model) Hide() { m.visible = false }

// SetSize updates the screen size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.refresh(m.viewport.AtBottom())
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m *Model) refresh(bottom bool) {
	if m.width == 0 || m.height == 0 {
		return
	}
	contentWidth := m.boxWidth() - 2

	// header, footer and borders take six rows
	h := max(min(viewportMaxHeight, m.height-6), viewportMinHeight)

	offset := m.viewport.YOffset
	m.viewport = viewport.New(contentWidth, h)
	m.viewport.SetContent(m.content(contentWidth))
	if bottom {
		m.viewport.GotoBottom()
	} else {
		m.viewport.SetYOffset(offset)
	}
}

func (m Model) content(width int) string {
	var lines []string
	for _, entry := range log.GetRecentLogs(bufferRequest) {
		level := log.ParseLevel(entry)
		if level < m.minLevel {
			continue
		}
		lines = append(lines, colorize(strings.TrimSuffix(entry, "\n"), level, width))
	}
	if len(lines) == 0 {
		return styles.LoadingStyle.Render("No logs to display")
	}
	return strings.Join(lines, "\n")
}

func colorize(entry string, level log.Level, width int) string {
	if ansi.StringWidth(entry) > width {
		entry = ansi.Truncate(entry, width, "…")
	}
	color := styles.LogDebugColor
	switch level {
	case log.LevelInfo:
		color = styles.LogInfoColor
	case log.LevelWarn:
		color = styles.LogWarnColor
	case log.LevelError:
		color = styles.LogErrorColor
	}
	return lipgloss.NewStyle().Foreground(color).Render(entry)
}

func (m Model) filterHint() string {
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)

	hints := []string{styles.HintStyle.Render("[c] Clear")}
	for _, lk := range levelKeys {
		label := "[" + lk.key + "] " + lk.label
		if lk.level == m.minLevel {
			hints = append(hints, active.Render(label))
		} else {
			hints = append(hints, styles.HintStyle.Render(label))
		}
	}
	return strings.Join(hints, "  ")
}
