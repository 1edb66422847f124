package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/folio/internal/deck"
	"github.com/zjrosen/folio/internal/log"
	"github.com/zjrosen/folio/internal/remote"
)

// remoteMsg carries a command from a remote client.
type remoteMsg struct {
	cmd remote.Command
}

func waitRemote(ctx context.Context, ch <-chan remote.Command) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-ch:
			if !ok {
				return nil
			}
			return remoteMsg{cmd: c}
		}
	}
}

// applyRemote maps a remote command onto the same dispatcher buttons the
// chrome uses.
func (m Model) applyRemote(c remote.Command) {
	in := m.deck.Input()
	switch c.Action {
	case remote.ActionNext:
		in.Button(deck.ActionNext)
	case remote.ActionPrev:
		in.Button(deck.ActionPrev)
	case remote.ActionHome:
		in.Button(deck.ActionHome)
	case remote.ActionEnd:
		in.Button(deck.ActionEnd)
	case remote.ActionGoTo:
		in.ButtonGoTo(c.Index)
	case remote.ActionAutoplay:
		if c.Enabled == nil {
			in.Button(deck.ActionAutoplay)
		} else {
			m.deck.SetAutoplay(*c.Enabled)
		}
	default:
		log.Warn(log.CatRemote, "unknown remote action", "action", c.Action, "client", c.ClientID)
		return
	}
	log.Debug(log.CatRemote, "remote command", "action", c.Action, "index", c.Index, "client", c.ClientID)
}

func (m Model) snapshot() remote.Snapshot {
	st := m.deck.State()
	snap := remote.Snapshot{
		Active:   st.Active,
		Count:    st.Count,
		Progress: st.Progress(),
		Deck:     m.src.Title,
		Autoplay: st.AutoplayEnabled,
		Paused:   st.AutoplayPaused,
		Loading:  m.deck.Loading(),
	}
	if s, err := m.deck.Slide(st.Active); err == nil {
		snap.Title = s.Title
	}
	return snap
}
