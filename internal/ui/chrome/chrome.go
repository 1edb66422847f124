// Package chrome renders the presentation chrome: a banner with the deck
// and slide titles, clickable navigation buttons and a progress bar.
package chrome

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/folio/internal/deck"
	"github.com/zjrosen/folio/internal/log"
	"github.com/zjrosen/folio/internal/ui/styles"
)

// BannerRows is the height of the banner: the title line and the progress
// bar.
const BannerRows = 2

// Button is a clickable banner control.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrev
	ButtonNext
	ButtonGrid
	ButtonNotes
	ButtonAutoplay
	ButtonProgress
)

func (b Button) String() string {
	switch b {
	case ButtonPrev:
		return "prev"
	case ButtonNext:
		return "next"
	case ButtonGrid:
		return "grid"
	case ButtonNotes:
		return "notes"
	case ButtonAutoplay:
		return "autoplay"
	case ButtonProgress:
		return "progress"
	default:
		return "none"
	}
}

// Zone IDs for mouse click detection.
const (
	zonePrev     = "chrome-prev"
	zoneNext     = "chrome-next"
	zoneGrid     = "chrome-grid"
	zoneNotes    = "chrome-notes"
	zoneAutoplay = "chrome-autoplay"
	zoneProgress = "chrome-progress"
)

var buttonZones = []struct {
	button Button
	id     string
}{
	{ButtonPrev, zonePrev},
	{ButtonNext, zoneNext},
	{ButtonGrid, zoneGrid},
	{ButtonNotes, zoneNotes},
	{ButtonAutoplay, zoneAutoplay},
	{ButtonProgress, zoneProgress},
}

// Options configures the chrome.
type Options struct {
	DeckTitle string
	// SlideTitle looks up the title of slide i.
	SlideTitle func(i int) string
	Visible    bool
	Fullscreen bool
}

// Model implements deck.Chrome. The deck mutates it through the interface,
// so it is shared by pointer.
type Model struct {
	deckTitle  string
	slideTitle func(int) string

	active     int
	count      int
	autoplay   bool
	paused     bool
	loading    bool
	notes      bool
	visible    bool
	fullscreen bool

	width int
	bar   progress.Model
}

// New creates the chrome.
func New(opts Options) *Model {
	bar := progress.New(
		progress.WithSolidFill(styles.ProgressFullColor),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = styles.ProgressEmptyColor
	return &Model{
		deckTitle:  opts.DeckTitle,
		slideTitle: opts.SlideTitle,
		visible:    opts.Visible,
		fullscreen: opts.Fullscreen,
		bar:        bar,
	}
}

// BannerHeight implements deck.Chrome.
func (m *Model) BannerHeight() float64 {
	if !m.visible {
		return 0
	}
	return BannerRows
}

// SetProgress implements deck.Chrome.
func (m *Model) SetProgress(active, count int) {
	m.active = active
	m.count = count
}

// SetAutoplay implements deck.Chrome.
func (m *Model) SetAutoplay(enabled bool) {
	m.autoplay = enabled
	if !enabled {
		m.paused = false
	}
}

// ToggleFullscreen implements deck.Chrome. The host applies the change to
// the terminal by comparing Fullscreen before and after.
func (m *Model) ToggleFullscreen() {
	m.fullscreen = !m.fullscreen
	log.Debug(log.CatUI, "fullscreen toggled", "fullscreen", m.fullscreen)
}

// ToggleChrome implements deck.Chrome.
func (m *Model) ToggleChrome() {
	m.visible = !m.visible
	log.Debug(log.CatUI, "chrome toggled", "visible", m.visible)
}

// SetPaused marks autoplay as paused while the terminal is unfocused.
func (m *Model) SetPaused(paused bool) { m.paused = paused }

// SetLoading marks that more slides are on their way.
func (m *Model) SetLoading(loading bool) { m.loading = loading }

// SetNotes highlights the notes button.
func (m *Model) SetNotes(open bool) { m.notes = open }

// SetDeckTitle replaces the deck title.
func (m *Model) SetDeckTitle(title string) { m.deckTitle = title }

// SetWidth sets the banner width.
func (m *Model) SetWidth(width int) {
	m.width = width
	m.bar.Width = width
}

// Visible reports whether the banner is shown.
func (m *Model) Visible() bool { return m.visible }

// Fullscreen reports whether the presentation wants the alternate screen.
func (m *Model) Fullscreen() bool { return m.fullscreen }

// View renders the banner, or "" when hidden.
func (m *Model) View() string {
	if !m.visible || m.width <= 0 {
		return ""
	}

	right := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderStatus(),
		m.renderCounter(),
		" ",
		m.renderButtons(),
	)

	inner := m.width - styles.BannerStyle.GetHorizontalPadding()
	leftWidth := max(0, inner-lipgloss.Width(right)-1)
	left := m.renderTitles(leftWidth)
	gap := max(0, inner-lipgloss.Width(left)-lipgloss.Width(right))

	line := styles.BannerStyle.Width(m.width).MaxWidth(m.width).Render(left + strings.Repeat(" ", gap) + right)
	bar := zone.Mark(zoneProgress, m.bar.ViewAs(m.percent()))
	return line + "\n" + bar
}

func (m *Model) percent() float64 {
	return deck.State{Active: m.active, Count: m.count}.Progress() / 100
}

func (m *Model) renderTitles(width int) string {
	if width <= 0 {
		return ""
	}
	deckTitle := styles.TruncateString(m.deckTitle, width)
	out := styles.BannerTitleStyle.Render(deckTitle)

	slide := ""
	if m.slideTitle != nil && m.count > 0 {
		slide = m.slideTitle(m.active)
	}
	rest := width - lipgloss.Width(deckTitle) - 3
	if slide == "" || rest <= 1 {
		return out
	}
	return out + styles.BannerSlideStyle.Render(" › "+styles.TruncateString(slide, rest))
}

func (m *Model) renderStatus() string {
	switch {
	case m.autoplay && m.paused:
		return styles.AutoplayPausedStyle.Render("⏸ paused ")
	case m.autoplay:
		return styles.AutoplayOnStyle.Render("▶ auto ")
	default:
		return ""
	}
}

func (m *Model) renderCounter() string {
	if m.count == 0 {
		if m.loading {
			return styles.LoadingStyle.Render("loading…")
		}
		return styles.CounterStyle.Render("0/0")
	}
	counter := fmt.Sprintf("%d/%d", m.active+1, m.count)
	if m.loading {
		counter += "…"
	}
	return styles.CounterStyle.Render(counter)
}

func (m *Model) renderButtons() string {
	button := func(id, label string, active bool) string {
		style := styles.ButtonStyle
		if active {
			style = styles.ButtonActiveStyle
		}
		return zone.Mark(id, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		button(zonePrev, "◀", false),
		" ",
		button(zoneNext, "▶", false),
		" ",
		button(zoneGrid, "▦", false),
		" ",
		button(zoneNotes, "✎", m.notes),
		" ",
		button(zoneAutoplay, "⏵", m.autoplay),
	)
}

// ButtonAt returns the button under a mouse event. For ButtonProgress the
// second result is the slide the click position maps to.
func (m *Model) ButtonAt(msg tea.MouseMsg) (Button, int) {
	if !m.visible {
		return ButtonNone, 0
	}
	for _, bz := range buttonZones {
		z := zone.Get(bz.id)
		if z == nil || !z.InBounds(msg) {
			continue
		}
		if bz.button != ButtonProgress {
			return bz.button, 0
		}
		x, _ := z.Pos(msg)
		return ButtonProgress, m.slideAt(x)
	}
	return ButtonNone, 0
}

// slideAt maps a column on the progress bar to a slide index.
func (m *Model) slideAt(x int) int {
	if m.count == 0 || m.width <= 0 || x < 0 {
		return 0
	}
	return min(x*m.count/m.width, m.count-1)
}

var _ deck.Chrome = (*Model)(nil)
