// Package grid is the slide overview: every slide as a tile, navigable
// with the keyboard and clickable.
package grid

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/folio/internal/deck"
	"github.com/zjrosen/folio/internal/keys"
	"github.com/zjrosen/folio/internal/ui/styles"
)

const (
	tileWidth  = 30
	tileHeight = 6 // border included
	tileGap    = 1
	zonePrefix = "grid-tile:"
)

// SelectMsg asks the host to jump to a slide.
type SelectMsg struct {
	Index int
}

// CloseMsg asks the host to close the overview.
type CloseMsg struct{}

// Tile is the summary of one slide.
type Tile struct {
	Title string
	Body  string
}

// TilesFrom summarizes slides.
func TilesFrom(slides []deck.Slide) []Tile {
	tiles := make([]Tile, len(slides))
	for i, s := range slides {
		tiles[i] = Tile{Title: s.Title, Body: s.Body}
	}
	return tiles
}

// Model is the overview state.
type Model struct {
	keys   keys.GridKeyMap
	tiles  []Tile
	active int
	cursor int
	offset int // first visible row
	width  int
	height int
}

// New creates an empty overview.
func New() Model {
	return Model{keys: keys.DefaultGridKeyMap()}
}

// Open shows tiles with the cursor on the active slide.
func (m Model) Open(tiles []Tile, active int) Model {
	m.tiles = tiles
	m.active = active
	m.cursor = clampIndex(active, len(tiles))
	m.offset = 0
	m.scrollToCursor()
	return m
}

// SetTiles replaces the tiles, e.g. when slides arrive while open.
func (m Model) SetTiles(tiles []Tile) Model {
	m.tiles = tiles
	m.cursor = clampIndex(m.cursor, len(tiles))
	m.scrollToCursor()
	return m
}

// SetSize updates dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.scrollToCursor()
	return m
}

// Cursor returns the highlighted tile.
func (m Model) Cursor() int { return m.cursor }

// Columns returns tiles per row for the current width.
func (m Model) Columns() int {
	return max(1, (m.width+tileGap)/(tileWidth+tileGap))
}

func (m Model) visibleRows() int {
	return max(1, (m.height-1)/tileHeight) // one row for the header
}

// Update handles keys and clicks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	n := len(m.tiles)
	cols := m.Columns()
	switch {
	case key.Matches(msg, m.keys.Close):
		return m, func() tea.Msg { return CloseMsg{} }
	case n == 0:
		return m, nil
	case key.Matches(msg, m.keys.Select):
		idx := m.cursor
		return m, func() tea.Msg { return SelectMsg{Index: idx} }
	case key.Matches(msg, m.keys.Left):
		m.cursor = max(0, m.cursor-1)
	case key.Matches(msg, m.keys.Right):
		m.cursor = min(n-1, m.cursor+1)
	case key.Matches(msg, m.keys.Up):
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor+cols < n {
			m.cursor += cols
		}
	}
	m.scrollToCursor()
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Action == tea.MouseActionPress {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.offset = max(0, m.offset-1)
			return m, nil
		case tea.MouseButtonWheelDown:
			m.offset = min(m.maxOffset(), m.offset+1)
			return m, nil
		}
	}
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
		return m, nil
	}
	for i := range m.tiles {
		if z := zone.Get(tileZoneID(i)); z != nil && z.InBounds(msg) {
			m.cursor = i
			return m, func() tea.Msg { return SelectMsg{Index: i} }
		}
	}
	return m, nil
}

func (m Model) maxOffset() int {
	rows := (len(m.tiles) + m.Columns() - 1) / m.Columns()
	return max(0, rows-m.visibleRows())
}

func (m *Model) scrollToCursor() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	row := m.cursor / m.Columns()
	visible := m.visibleRows()
	if row < m.offset {
		m.offset = row
	}
	if row >= m.offset+visible {
		m.offset = row - visible + 1
	}
	m.offset = min(m.offset, m.maxOffset())
}

// View renders the visible rows of tiles.
func (m Model) View() string {
	header := styles.BannerTitleStyle.Render("Slides") +
		styles.HintStyle.Render(fmt.Sprintf("  %d total  ·  enter open  ·  esc close", len(m.tiles)))
	if len(m.tiles) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styles.LoadingStyle.Render("No slides yet"))
	}

	cols := m.Columns()
	var rows []string
	for r := m.offset; r < m.offset+m.visibleRows(); r++ {
		start := r * cols
		if start >= len(m.tiles) {
			break
		}
		end := min(start+cols, len(m.tiles))
		row := make([]string, 0, 2*(end-start))
		for i := start; i < end; i++ {
			if i > start {
				row = append(row, strings.Repeat(" ", tileGap))
			}
			row = append(row, zone.Mark(tileZoneID(i), m.renderTile(i)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return lipgloss.NewStyle().MaxWidth(m.width).Render(header + "\n" + body)
}

func (m Model) renderTile(i int) string {
	style := styles.TileStyle
	switch {
	case i == m.cursor:
		style = styles.TileCursorStyle
	case i == m.active:
		style = styles.TileActiveStyle
	}
	inner := tileWidth - style.GetHorizontalFrameSize()
	lines := tileHeight - style.GetVerticalFrameSize()

	t := m.tiles[i]
	title := t.Title
	if title == "" {
		title = "Untitled"
	}
	head := fmt.Sprintf("%d. %s", i+1, title)
	if i == m.active {
		head = styles.SelectionIndicatorStyle.Render("▸") + " " + styles.TruncateString(head, inner-2)
	} else {
		head = styles.TruncateString(head, inner)
	}

	out := []string{head}
	for _, line := range strings.Split(wordwrap.String(excerpt(t.Body, t.Title), inner), "\n") {
		if len(out) == lines {
			break
		}
		out = append(out, styles.HintStyle.Render(styles.TruncateString(line, inner)))
	}
	return style.Width(tileWidth - style.GetHorizontalBorderSize()).Height(lines).Render(strings.Join(out, "\n"))
}

// excerpt returns the body text after the title with markdown markers
// and blank lines removed.
func excerpt(body, title string) string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#>*-+` "))
		if line == "" || line == title {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, " ")
}

func tileZoneID(i int) string {
	return fmt.Sprintf("%s%d", zonePrefix, i)
}

func clampIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	return min(max(i, 0), n-1)
}
