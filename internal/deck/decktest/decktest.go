// Package decktest provides deterministic fakes for deck collaborators.
package decktest

import (
	"sort"
	"sync"
	"time"

	"github.com/zjrosen/folio/internal/deck"
)

// Epoch is the start time of every FakeTimers clock.
var Epoch = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

// FakeTimers is a manual clock. Callbacks run synchronously from Advance in
// due order, so tests drive time explicitly.
type FakeTimers struct {
	mu      sync.Mutex
	now     time.Time
	seq     int
	pending []*fakeTimer
}

type fakeTimer struct {
	owner   *FakeTimers
	due     time.Time
	seq     int
	f       func()
	stopped bool
	fired   bool
}

// NewFakeTimers returns a clock set to Epoch.
func NewFakeTimers() *FakeTimers {
	return &FakeTimers{now: Epoch}
}

// Now implements deck.Clock.
func (t *FakeTimers) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now
}

// AfterFunc implements deck.Timers.
func (t *FakeTimers) AfterFunc(d time.Duration, f func()) deck.Timer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	ft := &fakeTimer{owner: t, due: t.now.Add(d), seq: t.seq, f: f}
	t.pending = append(t.pending, ft)
	return ft
}

func (ft *fakeTimer) Stop() bool {
	ft.owner.mu.Lock()
	defer ft.owner.mu.Unlock()
	if ft.stopped || ft.fired {
		return false
	}
	ft.stopped = true
	return true
}

// Advance moves the clock forward by d, firing every timer that becomes
// due, including timers scheduled by earlier callbacks.
func (t *FakeTimers) Advance(d time.Duration) {
	t.mu.Lock()
	end := t.now.Add(d)
	t.mu.Unlock()

	for {
		next := t.nextDue(end)
		if next == nil {
			break
		}
		t.mu.Lock()
		if next.due.After(t.now) {
			t.now = next.due
		}
		next.fired = true
		t.mu.Unlock()
		next.f()
	}

	t.mu.Lock()
	t.now = end
	t.mu.Unlock()
}

// Flush fires every pending timer regardless of its due time.
func (t *FakeTimers) Flush() {
	for t.Pending() > 0 {
		t.mu.Lock()
		var latest time.Time
		for _, ft := range t.pending {
			if ft.due.After(latest) {
				latest = ft.due
			}
		}
		d := latest.Sub(t.now)
		t.mu.Unlock()
		t.Advance(d)
	}
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (t *FakeTimers) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.compact()
	return len(t.pending)
}

func (t *FakeTimers) nextDue(end time.Time) *fakeTimer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.compact()
	sort.SliceStable(t.pending, func(i, j int) bool {
		if t.pending[i].due.Equal(t.pending[j].due) {
			return t.pending[i].seq < t.pending[j].seq
		}
		return t.pending[i].due.Before(t.pending[j].due)
	})
	if len(t.pending) == 0 || t.pending[0].due.After(end) {
		return nil
	}
	next := t.pending[0]
	t.pending = t.pending[1:]
	return next
}

func (t *FakeTimers) compact() {
	live := t.pending[:0]
	for _, ft := range t.pending {
		if !ft.stopped && !ft.fired {
			live = append(live, ft)
		}
	}
	t.pending = live
}

// Progress is one SetProgress call.
type Progress struct {
	Active, Count int
}

// RecordingChrome records chrome calls.
type RecordingChrome struct {
	Banner      float64
	Progress    []Progress
	Autoplay    []bool
	Fullscreen  int
	ChromeFlips int
	// OnToggleChrome, if set, runs on ToggleChrome, e.g. to change Banner.
	OnToggleChrome func()
}

func (c *RecordingChrome) BannerHeight() float64 { return c.Banner }

func (c *RecordingChrome) SetProgress(active, count int) {
	c.Progress = append(c.Progress, Progress{Active: active, Count: count})
}

func (c *RecordingChrome) SetAutoplay(on bool) { c.Autoplay = append(c.Autoplay, on) }

func (c *RecordingChrome) ToggleFullscreen() { c.Fullscreen++ }

func (c *RecordingChrome) ToggleChrome() {
	c.ChromeFlips++
	if c.OnToggleChrome != nil {
		c.OnToggleChrome()
	}
}

// LastProgress returns the most recent SetProgress call.
func (c *RecordingChrome) LastProgress() Progress {
	if len(c.Progress) == 0 {
		return Progress{}
	}
	return c.Progress[len(c.Progress)-1]
}

// MemLocation is an in-memory location fragment.
type MemLocation struct {
	Frag    string
	History []string
}

func (l *MemLocation) Fragment() string { return l.Frag }

func (l *MemLocation) Replace(fragment string) {
	l.Frag = fragment
	l.History = append(l.History, fragment)
}

// Applied is one ApplyScale call.
type Applied struct {
	Index int
	Scale float64
	Align deck.Alignment
}

// FakeSurface reports fixed natural heights and records applied scales.
// Measure returns the natural height only when the slide's scale is
// cleared; otherwise it returns the scaled height.
type FakeSurface struct {
	Natural map[int]float64
	Scales  map[int]float64
	Applied []Applied
	Clears  int
}

// NewFakeSurface creates a surface with the given natural heights.
func NewFakeSurface(natural map[int]float64) *FakeSurface {
	if natural == nil {
		natural = make(map[int]float64)
	}
	return &FakeSurface{Natural: natural, Scales: make(map[int]float64)}
}

func (s *FakeSurface) ClearScale(i int) {
	s.Clears++
	delete(s.Scales, i)
}

func (s *FakeSurface) Measure(i int) float64 {
	h := s.Natural[i]
	if sc, ok := s.Scales[i]; ok {
		return h * sc
	}
	return h
}

func (s *FakeSurface) ApplyScale(i int, scale float64, align deck.Alignment) {
	s.Scales[i] = scale
	s.Applied = append(s.Applied, Applied{Index: i, Scale: scale, Align: align})
}

var (
	_ deck.Timers   = (*FakeTimers)(nil)
	_ deck.Clock    = (*FakeTimers)(nil)
	_ deck.Chrome   = (*RecordingChrome)(nil)
	_ deck.Location = (*MemLocation)(nil)
	_ deck.Surface  = (*FakeSurface)(nil)
)
