package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/folio/internal/deck"
)

// timerMsg is delivered when a scheduled timer is due.
type timerMsg struct {
	id uint64
}

// TeaTimers implements deck.Timers on top of tea.Tick. Each AfterFunc
// queues a tick command carrying a timer id; the root model drains the
// queue after every update and fires callbacks when their tick arrives.
// Stopped timers are forgotten, so their ticks are dropped.
type TeaTimers struct {
	next    uint64
	pending map[uint64]func()
	cmds    []tea.Cmd
}

// NewTeaTimers creates an empty timer set.
func NewTeaTimers() *TeaTimers {
	return &TeaTimers{pending: make(map[uint64]func())}
}

// AfterFunc implements deck.Timers.
func (t *TeaTimers) AfterFunc(d time.Duration, f func()) deck.Timer {
	t.next++
	id := t.next
	t.pending[id] = f
	t.cmds = append(t.cmds, tea.Tick(d, func(time.Time) tea.Msg { return timerMsg{id: id} }))
	return teaTimer{owner: t, id: id}
}

// Drain returns the ticks queued since the last call.
func (t *TeaTimers) Drain() tea.Cmd {
	if len(t.cmds) == 0 {
		return nil
	}
	cmds := t.cmds
	t.cmds = nil
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

// Fire runs the callback of timer id. It reports false for stopped or
// already fired timers.
func (t *TeaTimers) Fire(id uint64) bool {
	f, ok := t.pending[id]
	if !ok {
		return false
	}
	delete(t.pending, id)
	f()
	return true
}

// Pending reports the number of live timers.
func (t *TeaTimers) Pending() int { return len(t.pending) }

type teaTimer struct {
	owner *TeaTimers
	id    uint64
}

func (tt teaTimer) Stop() bool {
	if _, ok := tt.owner.pending[tt.id]; !ok {
		return false
	}
	delete(tt.owner.pending, tt.id)
	return true
}

// realClock implements deck.Clock.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
