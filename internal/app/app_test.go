package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/folio/internal/config"
	"github.com/zjrosen/folio/internal/flags"
	"github.com/zjrosen/folio/internal/remote"
	"github.com/zjrosen/folio/internal/source"
	"github.com/zjrosen/folio/internal/ui/grid"
	"github.com/zjrosen/folio/internal/ui/notes"
	"github.com/zjrosen/folio/internal/ui/shared"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

const talk = `# Slide One

First slide
???
Say hello.
---
# Slide Two

Second slide
---
# Slide Three

Third slide
`

type plainRenderer struct{}

func (plainRenderer) Render(_ string, _ int, content string) (string, error) {
	return content, nil
}

type testModel struct {
	Model
	path string
	clip *shared.MockClipboard
}

func writeDeck(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talk.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testDeck(path string) *source.Deck {
	return &source.Deck{
		Ref:     path,
		Title:   "Talk",
		Entries: []source.ResolvedEntry{{Ref: path}},
	}
}

func newModel(t *testing.T, cfg config.Config, fragment string) testModel {
	t.Helper()
	path := writeDeck(t, talk)
	clip := &shared.MockClipboard{}
	m := New(Options{
		Config:    cfg,
		Deck:      testDeck(path),
		Fragment:  fragment,
		Markdown:  plainRenderer{},
		Clipboard: clip,
		Flags:     flags.New(map[string]bool{flags.FlagReducedMotion: true}),
	})
	t.Cleanup(func() { _ = m.Close() })
	return testModel{Model: m, path: path, clip: clip}
}

// loaded returns a model with every slide registered, sized 80x24.
func loaded(t *testing.T) testModel {
	t.Helper()
	tm := newModel(t, config.Defaults(), "")
	tm.Model = send(tm.Model, tea.WindowSizeMsg{Width: 80, Height: 24})
	tm.Model = deliver(t, tm.Model)
	return tm
}

func deliver(t *testing.T, m Model) Model {
	t.Helper()
	frag := m.loader.LoadOne(context.Background(), 0, m.src.Entries[0])
	require.NoError(t, frag.Err)
	m = send(m, fragmentMsg{frag: frag})
	return send(m, loadDoneMsg{})
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_LoadsAndRendersFirstSlide(t *testing.T) {
	m := loaded(t).Model

	require.Equal(t, 3, m.deck.Count())
	require.Equal(t, 0, m.deck.Active())
	require.False(t, m.deck.Loading())

	view := m.View()
	require.Contains(t, view, "First slide")
	require.Contains(t, view, "Talk")
	require.Contains(t, view, "1/3")
	require.NotContains(t, view, "Second slide")
	require.Len(t, strings.Split(view, "\n"), 24)
}

func TestApp_ShowsLoadingBeforeSlides(t *testing.T) {
	m := newModel(t, config.Defaults(), "").Model
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 24})

	require.Contains(t, m.View(), "Loading Talk")
}

func TestApp_KeyNavigation(t *testing.T) {
	m := loaded(t).Model

	m = send(m, press("right"))
	require.Equal(t, 1, m.deck.Active())
	require.Contains(t, m.View(), "Second slide")

	m = send(m, press("space"))
	require.Equal(t, 2, m.deck.Active())

	m = send(m, press("right"))
	require.Equal(t, 0, m.deck.Active(), "next wraps to the first slide")

	m = send(m, press("left"))
	require.Equal(t, 2, m.deck.Active(), "previous wraps to the last slide")

	m = send(m, press("home"))
	require.Equal(t, 0, m.deck.Active())
	m = send(m, press("end"))
	require.Equal(t, 2, m.deck.Active())
}

func TestApp_LocationFollowsActive(t *testing.T) {
	m := loaded(t).Model

	m = send(m, press("right"))
	require.Equal(t, "1", m.location.Fragment())
	require.Equal(t, "talk.md#1", m.location.Title())
}

func TestApp_DeepLinkWaitsForLoad(t *testing.T) {
	tm := newModel(t, config.Defaults(), "2")
	m := send(tm.Model, tea.WindowSizeMsg{Width: 80, Height: 24})
	require.True(t, m.deck.Loading())

	m = deliver(t, m)
	require.Equal(t, 2, m.deck.Active())
	require.Contains(t, m.View(), "Third slide")
}

func TestApp_HelpIsModal(t *testing.T) {
	m := loaded(t).Model

	m = send(m, press("?"))
	require.True(t, m.modal.help)
	require.Contains(t, m.View(), "Navigation")

	m = send(m, press("right"))
	require.Equal(t, 0, m.deck.Active(), "navigation is suppressed under help")

	m = send(m, press("esc"))
	require.False(t, m.modal.help)
	m = send(m, press("right"))
	require.Equal(t, 1, m.deck.Active())
}

func TestApp_GridSelectJumps(t *testing.T) {
	m := loaded(t).Model

	m = send(m, press("g"))
	require.True(t, m.modal.grid)
	require.Contains(t, m.View(), "3 total")

	m = send(m, grid.SelectMsg{Index: 2})
	require.False(t, m.modal.grid)
	require.Equal(t, 2, m.deck.Active())
}

func TestApp_NotesPane(t *testing.T) {
	m := loaded(t).Model

	m = send(m, press("n"))
	require.True(t, m.notes.Visible())
	require.Equal(t, float64(24-notes.Height(24, true)), m.vp.Height())

	view := m.View()
	require.Contains(t, view, "Say hello.")
	require.Len(t, strings.Split(view, "\n"), 24)

	m = send(m, press("right"))
	require.Contains(t, m.View(), "No notes for this slide.")

	m = send(m, press("n"))
	require.False(t, m.notes.Visible())
	require.Equal(t, float64(24), m.vp.Height())
}

func TestApp_NotesOnShortTerminal(t *testing.T) {
	tm := newModel(t, config.Defaults(), "")
	m := send(tm.Model, tea.WindowSizeMsg{Width: 80, Height: 7})
	m = deliver(t, m)

	m = send(m, press("p"))
	require.True(t, m.notes.Visible())
	require.Equal(t, 3.0, m.vp.Height(), "the slide area is shorter than two banners")

	m = send(m, press("right"))
	require.Equal(t, 1, m.deck.Active())
	m = send(m, press("right"))
	require.Equal(t, 2, m.deck.Active())
	m = send(m, press("left"))
	require.Equal(t, 1, m.deck.Active())
}

func TestApp_WheelPagesWithCooldown(t *testing.T) {
	m := loaded(t).Model
	wheel := tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress, Y: 10}

	m = send(m, wheel)
	require.Equal(t, 1, m.deck.Active())

	m = send(m, wheel)
	require.Equal(t, 1, m.deck.Active(), "second notch lands inside the cooldown")
	require.False(t, m.deck.State().CooldownUntil.IsZero())
}

func TestApp_WheelOverNotesScrollsNotes(t *testing.T) {
	path := writeDeck(t, "# Only\n\nbody\n???\n"+strings.Repeat("note line\n", 40))
	m := New(Options{
		Config:   config.Defaults(),
		Deck:     testDeck(path),
		Markdown: plainRenderer{},
		Flags:    flags.New(map[string]bool{flags.FlagReducedMotion: true}),
	})
	t.Cleanup(func() { _ = m.Close() })
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = deliver(t, m)
	m = send(m, press("n"))

	m = send(m, tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress, Y: 23})
	require.Positive(t, m.notes.ScrollTop())
	require.Equal(t, 0, m.deck.Active())
}

func TestApp_YankCopiesLink(t *testing.T) {
	tm := loaded(t)
	m := send(tm.Model, press("right"))

	m = send(m, press("y"))
	require.Equal(t, []string{tm.path + "#1"}, tm.clip.Copied)
	require.True(t, m.toaster.Visible())

	tm.clip.Err = errors.New("no clipboard")
	m = send(m, press("y"))
	require.Contains(t, m.toaster.Message(), "Copy failed")
}

func TestApp_AutoplayPausesWhileBlurred(t *testing.T) {
	m := loaded(t).Model

	m = send(m, press("a"))
	require.True(t, m.deck.State().AutoplayEnabled)

	m = send(m, tea.BlurMsg{})
	require.True(t, m.deck.State().AutoplayPaused)
	require.Contains(t, m.View(), "paused")

	m = send(m, tea.FocusMsg{})
	require.False(t, m.deck.State().AutoplayPaused)
}

func TestApp_AutoplayTimerAdvances(t *testing.T) {
	m := loaded(t).Model
	m = send(m, press("a"))
	require.Equal(t, 1, m.timers.Pending())

	var id uint64
	for k := range m.timers.pending {
		id = k
	}
	m = send(m, timerMsg{id: id})
	require.Equal(t, 1, m.deck.Active())
	require.Equal(t, 1, m.timers.Pending(), "the next tick is scheduled")
}

func TestApp_FullscreenTogglesAltScreen(t *testing.T) {
	m := loaded(t).Model
	require.True(t, m.altScreen)

	m = send(m, press("f"))
	require.False(t, m.altScreen)
	m = send(m, press("f"))
	require.True(t, m.altScreen)
}

func TestApp_ChromeToggle(t *testing.T) {
	m := loaded(t).Model

	m = send(m, press("c"))
	require.False(t, m.chrome.Visible())
	require.NotContains(t, m.View(), "1/3")
	require.Contains(t, m.View(), "First slide")
}

func TestApp_RemoteCommands(t *testing.T) {
	m := loaded(t).Model

	m.applyRemote(remote.Command{Action: remote.ActionGoTo, Index: 2})
	require.Equal(t, 2, m.deck.Active())

	m.applyRemote(remote.Command{Action: remote.ActionNext})
	require.Equal(t, 0, m.deck.Active())

	m.applyRemote(remote.Command{Action: remote.ActionGoTo, Index: -1})
	require.Equal(t, 2, m.deck.Active(), "negative indexes count from the end")
	m.applyRemote(remote.Command{Action: remote.ActionGoTo, Index: 4})
	require.Equal(t, 1, m.deck.Active())
	m.applyRemote(remote.Command{Action: remote.ActionHome})

	on := true
	m.applyRemote(remote.Command{Action: remote.ActionAutoplay, Enabled: &on})
	require.True(t, m.deck.State().AutoplayEnabled)
	m.applyRemote(remote.Command{Action: remote.ActionAutoplay})
	require.False(t, m.deck.State().AutoplayEnabled)

	snap := m.snapshot()
	require.Equal(t, remote.Snapshot{Active: 0, Count: 3, Progress: float64(1) / 3 * 100, Title: "Slide One", Deck: "Talk"}, snap)
}

func TestApp_ReloadReplacesChangedSlides(t *testing.T) {
	tm := loaded(t)
	m := tm.Model

	updated := strings.Replace(talk, "Second slide", "Second slide, revised", 1)
	require.NoError(t, os.WriteFile(tm.path, []byte(updated), 0o644))

	cmd := m.reload(m.entriesFor([]string{tm.path}))
	require.NotNil(t, cmd)
	m = send(m, cmd())

	s, err := m.deck.Slide(1)
	require.NoError(t, err)
	require.Contains(t, s.Body, "revised")
	require.Contains(t, m.toaster.Message(), "Reloaded 1 file(s)")
}

func TestApp_ReloadKeepsSlidesWhenCountChanges(t *testing.T) {
	tm := loaded(t)
	m := tm.Model

	require.NoError(t, os.WriteFile(tm.path, []byte(talk+"---\n# Slide Four\n"), 0o644))
	m = send(m, m.reload(m.loadedEntries())())

	require.Equal(t, 3, m.deck.Count())
	require.Contains(t, m.toaster.Message(), "restart")
}

func TestApp_EntriesForIgnoresUnknownFiles(t *testing.T) {
	tm := loaded(t)
	require.Equal(t, []int{0}, tm.entriesFor([]string{tm.path, "/elsewhere.md"}))
	require.Empty(t, tm.entriesFor([]string{"/elsewhere.md"}))
	require.Nil(t, tm.reload(nil))
}

func TestApp_FragmentErrorIsShown(t *testing.T) {
	m := newModel(t, config.Defaults(), "").Model
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m = send(m, fragmentMsg{frag: source.Fragment{Ref: "/decks/missing.md", Err: errors.New("loading /decks/missing.md: not found")}})
	m = send(m, loadDoneMsg{})

	require.Zero(t, m.deck.Count())
	require.Contains(t, m.View(), "not found")
	require.Contains(t, m.toaster.Message(), "missing.md")
}

func TestApp_QuitKey(t *testing.T) {
	m := loaded(t).Model

	_, cmd := m.Update(press("q"))
	require.NotNil(t, cmd)
}

func TestApp_SavesChangedUIToggles(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	tm := loaded(t)
	m := tm.Model
	m.configPath = cfgPath

	m = send(m, press("n"))
	require.NoError(t, m.Close())

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "show_notes: true")
}
