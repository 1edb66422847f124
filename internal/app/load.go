package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/folio/internal/log"
	"github.com/zjrosen/folio/internal/source"
	"github.com/zjrosen/folio/internal/ui/toaster"
)

// fragmentMsg delivers the next fragment of the initial load.
type fragmentMsg struct {
	frag source.Fragment
}

// loadDoneMsg is sent when the initial load stream ends.
type loadDoneMsg struct{}

// changesMsg carries files the watcher saw change.
type changesMsg struct {
	paths []string
}

// reloadMsg carries re-fetched fragments.
type reloadMsg struct {
	frags []source.Fragment
}

func waitFragment(ch <-chan source.Fragment) tea.Cmd {
	return func() tea.Msg {
		frag, ok := <-ch
		if !ok {
			return loadDoneMsg{}
		}
		return fragmentMsg{frag: frag}
	}
}

func waitChanges(ctx context.Context, ch <-chan []string) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case paths, ok := <-ch:
			if !ok {
				return nil
			}
			return changesMsg{paths: paths}
		}
	}
}

// handleFragment registers a loaded fragment's slides in order.
func (m Model) handleFragment(frag source.Fragment) (Model, tea.Cmd) {
	next := waitFragment(m.fragments)
	if frag.Err != nil {
		m.loadErr = frag.Err
		log.ErrorErr(log.CatSource, "loading deck failed", frag.Err, "index", frag.Index, "ref", frag.Ref)
		m, cmd := m.toast(fmt.Sprintf("Failed to load %s", filepath.Base(frag.Ref)), toaster.StyleError)
		return m, tea.Batch(cmd, next)
	}

	start := m.deck.Count()
	for _, s := range frag.Slides {
		m.vp.SetCount(m.deck.Count() + 1)
		m.deck.Register(s)
	}
	m.spans[frag.Index] = span{start: start, count: len(frag.Slides)}
	m.raws[frag.Index] = frag.Raw
	return m, next
}

// entriesFor maps changed files to the deck entries that load them.
func (m Model) entriesFor(paths []string) []int {
	seen := make(map[int]bool)
	var out []int
	for _, p := range paths {
		for _, i := range m.byPath[filepath.Clean(p)] {
			if !seen[i] {
				seen[i] = true
				out = append(out, i)
			}
		}
	}
	sort.Ints(out)
	return out
}

// loadedEntries lists every entry whose slides are registered.
func (m Model) loadedEntries() []int {
	out := make([]int, 0, len(m.spans))
	for i := range m.spans {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// reload re-fetches entries off the update loop.
func (m Model) reload(indexes []int) tea.Cmd {
	if len(indexes) == 0 {
		return nil
	}
	ctx, loader, entries := m.ctx, m.loader, m.src.Entries
	return func() tea.Msg {
		frags := make([]source.Fragment, 0, len(indexes))
		for _, i := range indexes {
			if i < 0 || i >= len(entries) {
				continue
			}
			frags = append(frags, loader.LoadOne(ctx, i, entries[i]))
		}
		return reloadMsg{frags: frags}
	}
}

// applyReload swaps changed slides in place. A fragment whose slide count
// changed would shift every later slide, so it is left for a restart.
func (m Model) applyReload(msg reloadMsg) (Model, tea.Cmd) {
	var reloaded, changes int
	for _, f := range msg.frags {
		name := filepath.Base(f.Ref)
		if f.Err != nil {
			log.ErrorErr(log.CatWatcher, "reload failed", f.Err, "ref", f.Ref)
			return m.toast("Reload failed: "+name, toaster.StyleError)
		}
		sp, ok := m.spans[f.Index]
		if !ok {
			continue
		}
		sum := source.Summarize(m.raws[f.Index], f.Raw)
		if !sum.Changed() {
			continue
		}
		if len(f.Slides) != sp.count {
			log.Warn(log.CatWatcher, "slide count changed", "ref", f.Ref, "was", sp.count, "now", len(f.Slides))
			return m.toast(fmt.Sprintf("%s now has %d slides; restart to pick them up", name, len(f.Slides)), toaster.StyleWarn)
		}
		for j, s := range f.Slides {
			i := sp.start + j
			m.surface.Invalidate(i)
			if err := m.deck.Replace(i, s); err != nil {
				log.ErrorErr(log.CatWatcher, "replacing slide failed", err, "index", i)
			}
		}
		m.raws[f.Index] = f.Raw
		reloaded++
		changes += sum.Inserted + sum.Deleted
		log.Info(log.CatWatcher, "reloaded", "ref", f.Ref, "changes", sum.String())
	}
	if reloaded == 0 {
		return m, nil
	}
	return m.toast(fmt.Sprintf("Reloaded %d file(s), %d chars changed", reloaded, changes), toaster.StyleInfo)
}
