package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/folio/internal/deck"
	"github.com/zjrosen/folio/internal/flags"
	"github.com/zjrosen/folio/internal/log"
	"github.com/zjrosen/folio/internal/ui/chrome"
	"github.com/zjrosen/folio/internal/ui/help"
	"github.com/zjrosen/folio/internal/ui/toaster"
)

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.debugMode && key.Matches(msg, m.keys.Log) {
		m.logOverlay.Toggle()
		return m, nil
	}
	if m.logOverlay.Visible() {
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd
	}
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.modal.help {
		if key.Matches(msg, m.keys.Help, m.keys.Escape, m.keys.Quit) {
			m.modal.help = false
		}
		return m, nil
	}
	if m.modal.grid {
		if key.Matches(msg, m.keys.Help) {
			m.modal.help = true
			m.help = help.NewGrid().SetSize(m.width, m.height)
			return m, nil
		}
		var cmd tea.Cmd
		m.grid, cmd = m.grid.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.modal.help = true
		m.help = m.deckHelp()
		return m, nil
	case key.Matches(msg, m.keys.Grid):
		m.openGrid()
		return m, nil
	case key.Matches(msg, m.keys.Notes):
		m.toggleNotes()
		return m, nil
	case key.Matches(msg, m.keys.NotesUp):
		m.notes.ScrollBy(-1)
		return m, nil
	case key.Matches(msg, m.keys.NotesDown):
		m.notes.ScrollBy(1)
		return m, nil
	case key.Matches(msg, m.keys.Yank):
		return m.yank()
	case key.Matches(msg, m.keys.Reload):
		return m, m.reload(m.loadedEntries())
	case key.Matches(msg, m.keys.Escape):
		return m, nil
	}

	out := m.deck.Input().Key(msg.String())
	if out == deck.Handled {
		log.Debug(log.CatInput, "key", "key", msg.String())
	}
	return m, nil
}

func (m Model) deckHelp() help.Model {
	h := help.New().SetDebug(m.debugMode).SetSize(m.width, m.height)
	if m.remote != nil {
		h = h.SetRemote(m.remote.Addr())
	}
	return h
}

func (m Model) yank() (Model, tea.Cmd) {
	if m.deck.Count() == 0 {
		return m, nil
	}
	link := m.location.Link(m.src.Ref, m.deck.Active())
	if err := m.clipboard.Copy(link); err != nil {
		log.ErrorErr(log.CatUI, "copy failed", err)
		return m.toast(fmt.Sprintf("Copy failed: %v", err), toaster.StyleError)
	}
	return m.toast("Copied "+link, toaster.StyleSuccess)
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.logOverlay.Visible() {
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd
	}
	if m.modal.help {
		if msg.Action == tea.MouseActionRelease {
			m.modal.help = false
		}
		return m, nil
	}
	if m.modal.grid {
		var cmd tea.Cmd
		m.grid, cmd = m.grid.Update(msg)
		return m, cmd
	}

	overNotes := m.notes.Visible() && msg.Y >= int(m.vp.Height())
	m.notes.SetFocused(overNotes)
	var path []deck.Scrollable
	if overNotes {
		path = []deck.Scrollable{m.notes}
	}
	in := m.deck.Input()
	y := float64(msg.Y)

	switch {
	case msg.Action == tea.MouseActionPress && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
		dy := m.cfg.Input.WheelNotch
		if msg.Button == tea.MouseButtonWheelUp {
			dy = -dy
		}
		if in.Wheel(dy, path) == deck.Ceded {
			m.notes.ScrollBy(int(dy))
		}

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if m.flags.Enabled(flags.FlagMouseDrag) && !overNotes {
			in.TouchStart(y)
			m.dragging = true
		}

	case msg.Action == tea.MouseActionMotion && m.dragging:
		in.TouchMove(y, path)

	case msg.Action == tea.MouseActionRelease:
		if m.dragging {
			m.dragging = false
			if in.TouchEnd(y, path) == deck.Handled {
				return m, nil
			}
		}
		return m.click(msg)
	}
	return m, nil
}

// click handles a button release over the chrome.
func (m Model) click(msg tea.MouseMsg) (Model, tea.Cmd) {
	if !m.chrome.Visible() {
		return m, nil
	}
	btn, idx := m.chrome.ButtonAt(msg)
	in := m.deck.Input()
	switch btn {
	case chrome.ButtonPrev:
		in.Button(deck.ActionPrev)
	case chrome.ButtonNext:
		in.Button(deck.ActionNext)
	case chrome.ButtonAutoplay:
		in.Button(deck.ActionAutoplay)
	case chrome.ButtonProgress:
		in.ButtonGoTo(idx)
	case chrome.ButtonGrid:
		m.openGrid()
	case chrome.ButtonNotes:
		m.toggleNotes()
	case chrome.ButtonNone:
		return m, nil
	}
	log.Debug(log.CatInput, "chrome click", "button", btn, "index", idx)
	return m, nil
}
