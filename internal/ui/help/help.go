// Package help contains the help overlay component.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/folio/internal/keys"
	"github.com/zjrosen/folio/internal/ui/overlay"
	"github.com/zjrosen/folio/internal/ui/styles"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			PaddingLeft(2)

	dividerStyle = lipgloss.NewStyle().
			Foreground(styles.OverlayBorderColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			MarginTop(1)

	keyStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondaryColor).
			Width(11)

	descStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.OverlayBorderColor)

	contentStyle = lipgloss.NewStyle().
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			MarginTop(1)
)

// HelpMode indicates which screen's help to display.
type HelpMode int

const (
	ModeDeck HelpMode = iota
	ModeGrid
)

// Model holds the help view state.
type Model struct {
	keys     keys.KeyMap
	gridKeys keys.GridKeyMap
	mode     HelpMode
	remote   string
	debug    bool
	width    int
	height   int
}

// New creates a new help view for the presenter.
func New() Model {
	return Model{
		keys:     keys.DefaultKeyMap(),
		gridKeys: keys.DefaultGridKeyMap(),
		mode:     ModeDeck,
	}
}

// NewGrid creates a new help view for the slide overview.
func NewGrid() Model {
	m := New()
	m.mode = ModeGrid
	return m
}

// SetSize updates dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// SetRemote sets the remote control address listed in the footer. Empty
// hides it.
func (m Model) SetRemote(addr string) Model {
	m.remote = addr
	return m
}

// SetDebug shows the log overlay binding.
func (m Model) SetDebug(debug bool) Model {
	m.debug = debug
	return m
}

// View renders the help overlay (standalone, no background).
func (m Model) View() string {
	return m.Overlay("")
}

// Overlay renders the help box on top of a background view.
func (m Model) Overlay(background string) string {
	helpBox := m.renderContent()

	if background == "" {
		return lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			helpBox,
		)
	}

	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, helpBox, background)
}

func (m Model) renderContent() string {
	if m.mode == ModeGrid {
		return m.box("Slide Overview", m.renderGridColumns())
	}
	return m.box("Keybindings", m.renderDeckColumns())
}

func (m Model) renderDeckColumns() string {
	columnStyle := lipgloss.NewStyle().MarginRight(4)

	var navCol strings.Builder
	navCol.WriteString(sectionStyle.Render("Navigation"))
	navCol.WriteString("\n")
	navCol.WriteString(m.renderBinding(m.keys.Next))
	navCol.WriteString(m.renderBinding(m.keys.Prev))
	navCol.WriteString(m.renderBinding(m.keys.Home))
	navCol.WriteString(m.renderBinding(m.keys.End))
	navCol.WriteString(renderKeyDesc("wheel", "page the deck"))
	navCol.WriteString(renderKeyDesc("drag", "swipe"))

	var presCol strings.Builder
	presCol.WriteString(sectionStyle.Render("Presentation"))
	presCol.WriteString("\n")
	presCol.WriteString(m.renderBinding(m.keys.Fullscreen))
	presCol.WriteString(m.renderBinding(m.keys.Autoplay))
	presCol.WriteString(m.renderBinding(m.keys.Chrome))
	presCol.WriteString(m.renderBinding(m.keys.Notes))
	presCol.WriteString(m.renderBinding(m.keys.NotesUp))
	presCol.WriteString(m.renderBinding(m.keys.NotesDown))

	var toolsCol strings.Builder
	toolsCol.WriteString(sectionStyle.Render("Tools"))
	toolsCol.WriteString("\n")
	toolsCol.WriteString(m.renderBinding(m.keys.Grid))
	toolsCol.WriteString(m.renderBinding(m.keys.Yank))
	toolsCol.WriteString(m.renderBinding(m.keys.Reload))
	if m.debug {
		toolsCol.WriteString(m.renderBinding(m.keys.Log))
	}

	var generalCol strings.Builder
	generalCol.WriteString(sectionStyle.Render("General"))
	generalCol.WriteString("\n")
	generalCol.WriteString(m.renderBinding(m.keys.Help))
	generalCol.WriteString(m.renderBinding(m.keys.Escape))
	generalCol.WriteString(m.renderBinding(m.keys.Quit))

	// Two rows of two columns keep the box inside an 80 column terminal.
	top := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(navCol.String()),
		presCol.String(),
	)
	bottom := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(toolsCol.String()),
		generalCol.String(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

func (m Model) renderGridColumns() string {
	columnStyle := lipgloss.NewStyle().MarginRight(4)

	var moveCol strings.Builder
	moveCol.WriteString(sectionStyle.Render("Move"))
	moveCol.WriteString("\n")
	moveCol.WriteString(m.renderBinding(m.gridKeys.Up))
	moveCol.WriteString(m.renderBinding(m.gridKeys.Down))
	moveCol.WriteString(m.renderBinding(m.gridKeys.Left))
	moveCol.WriteString(m.renderBinding(m.gridKeys.Right))

	var actionsCol strings.Builder
	actionsCol.WriteString(sectionStyle.Render("Actions"))
	actionsCol.WriteString("\n")
	actionsCol.WriteString(m.renderBinding(m.gridKeys.Select))
	actionsCol.WriteString(renderKeyDesc("click", "open slide"))
	actionsCol.WriteString(m.renderBinding(m.gridKeys.Close))
	actionsCol.WriteString(m.renderBinding(m.keys.Help))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(moveCol.String()),
		actionsCol.String(),
	)
}

// box frames columns with a title, divider and footer.
func (m Model) box(title, columns string) string {
	footer := "Press ? or Esc to close"
	if m.remote != "" {
		footer = "Remote: http://" + m.remote + "\n" + footer
	}

	columnsWidth := lipgloss.Width(columns)
	boxWidth := columnsWidth + 4 // horizontal padding, 2 each side

	body := contentStyle.Render(columns + "\n" + footerStyle.Render(footer))
	divider := dividerStyle.Render(strings.Repeat("─", boxWidth))

	var content strings.Builder
	content.WriteString(titleStyle.Render(title))
	content.WriteString("\n")
	content.WriteString(divider)
	content.WriteString("\n")
	content.WriteString(body)

	return boxStyle.Width(boxWidth).Render(content.String())
}

func (m Model) renderBinding(b key.Binding) string {
	help := b.Help()
	return renderKeyDesc(help.Key, help.Desc)
}

func renderKeyDesc(key, desc string) string {
	return keyStyle.Render(key) + descStyle.Render(desc) + "\n"
}
