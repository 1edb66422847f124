// Package viewport is the scroll container slides live in. Every slide is
// one viewport tall and stacked vertically; positions are in rows.
package viewport

import (
	"math"
	"time"

	"github.com/zjrosen/folio/internal/deck"
	"github.com/zjrosen/folio/internal/log"
)

// Config tunes smooth scrolling.
type Config struct {
	// Frame is the delay between animation frames.
	Frame time.Duration
	// Duration is the length of a smooth scroll. Zero makes every scroll
	// instant.
	Duration   time.Duration
	Thresholds []float64
}

// DefaultConfig returns a 60fps, 240ms ease-out animation.
func DefaultConfig() Config {
	return Config{
		Frame:      16 * time.Millisecond,
		Duration:   240 * time.Millisecond,
		Thresholds: DefaultThresholds,
	}
}

type animation struct {
	from, to float64
	step     int
	steps    int
	timer    deck.Timer
	gen      uint64
}

// Model implements deck.Viewport.
type Model struct {
	cfg      Config
	timers   deck.Timers
	listener deck.ScrollListener
	observer *Observer

	height float64
	lead   float64
	inset  func() float64
	count  int
	top    float64
	anim   *animation
	gen    uint64
}

// New creates an empty viewport. Timers drive the animation frames.
func New(timers deck.Timers, cfg Config) *Model {
	if cfg.Frame <= 0 {
		cfg.Frame = DefaultConfig().Frame
	}
	return &Model{
		cfg:      cfg,
		timers:   timers,
		observer: NewObserver(cfg.Thresholds...),
	}
}

// SetListener installs the receiver of scroll and visibility events.
func (m *Model) SetListener(l deck.ScrollListener) { m.listener = l }

// SetHeight sets the viewport height. Slides keep their index, so the
// caller realigns afterwards.
func (m *Model) SetHeight(h float64) {
	if h < 0 {
		h = 0
	}
	m.height = h
	m.top = m.clamp(m.top)
}

// SetLead reserves rows above the first slide. A host whose banner
// overlaps the viewport top sets it to the banner height so every slide,
// the first included, starts below the banner when scrolled into place.
func (m *Model) SetLead(rows float64) {
	m.lead = math.Max(0, rows)
	m.top = m.clamp(m.top)
}

// SetInset excludes the rows a banner covers from visibility. The
// function is read on every measurement so a banner that toggles keeps
// the region in step.
func (m *Model) SetInset(f func() float64) { m.inset = f }

// SetCount sets the number of slides.
func (m *Model) SetCount(n int) {
	if n < 0 {
		n = 0
	}
	m.count = n
	m.top = m.clamp(m.top)
}

func (m *Model) Height() float64    { return m.height }
func (m *Model) ScrollTop() float64 { return m.top }
func (m *Model) Count() int         { return m.count }

// SlideTop returns the offset of slide i from the top of the content.
func (m *Model) SlideTop(i int) float64 { return m.lead + float64(i)*m.height }

// ScrollHeight returns the total content height.
func (m *Model) ScrollHeight() float64 { return m.lead + float64(m.count)*m.height }

// Animating reports whether a smooth scroll is in flight.
func (m *Model) Animating() bool { return m.anim != nil }

func (m *Model) clamp(top float64) float64 {
	maxTop := math.Max(0, m.ScrollHeight()-m.height)
	return math.Min(math.Max(0, top), maxTop)
}

// ScrollTo scrolls to top, animating when smooth. A new call supersedes
// an animation in flight.
func (m *Model) ScrollTo(top float64, smooth bool) {
	m.stopAnimation()
	to := m.clamp(top)
	if !smooth || m.cfg.Duration <= 0 || m.timers == nil || math.Abs(to-m.top) < 0.5 {
		m.setTop(to, false)
		m.end()
		return
	}
	steps := int(math.Ceil(float64(m.cfg.Duration) / float64(m.cfg.Frame)))
	m.gen++
	m.anim = &animation{from: m.top, to: to, steps: max(steps, 1), gen: m.gen}
	log.Debug(log.CatNav, "scroll animation", "from", m.top, "to", to, "steps", m.anim.steps)
	m.scheduleFrame()
}

func (m *Model) scheduleFrame() {
	a := m.anim
	a.timer = m.timers.AfterFunc(m.cfg.Frame, func() {
		if m.anim == nil || m.anim.gen != a.gen {
			return
		}
		m.frame()
	})
}

func (m *Model) frame() {
	a := m.anim
	a.step++
	if a.step >= a.steps {
		m.anim = nil
		m.setTop(a.to, false)
		m.end()
		return
	}
	t := float64(a.step) / float64(a.steps)
	m.setTop(a.from+(a.to-a.from)*easeOutCubic(t), false)
	m.scheduleFrame()
}

func easeOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// CancelScroll stops an animation in place without a scroll end.
func (m *Model) CancelScroll() {
	m.stopAnimation()
}

func (m *Model) stopAnimation() {
	if m.anim == nil {
		return
	}
	if m.anim.timer != nil {
		m.anim.timer.Stop()
	}
	m.anim = nil
}

// ScrollBy scrolls by delta rows as a user would, outside any animation.
func (m *Model) ScrollBy(delta float64) {
	m.stopAnimation()
	m.setTop(m.clamp(m.top+delta), false)
	m.end()
}

func (m *Model) setTop(top float64, force bool) {
	m.top = top
	if m.listener == nil {
		return
	}
	m.listener.OnScroll(top)
	if entries := m.observer.Update(m.ratios(), force); len(entries) > 0 {
		m.listener.OnVisibility(entries)
	}
}

// end reports a finished scroll. Every visible slide is re-reported first
// so a listener that dropped its ratios sees the final geometry.
func (m *Model) end() {
	if m.listener == nil {
		return
	}
	if entries := m.observer.Update(m.ratios(), true); len(entries) > 0 {
		m.listener.OnVisibility(entries)
	}
	m.listener.OnScrollEnd()
}

// Ratio returns the fraction of slide i visible below the inset.
func (m *Model) Ratio(i int) float64 {
	if m.height <= 0 || i < 0 || i >= m.count {
		return 0
	}
	var inset float64
	if m.inset != nil {
		inset = math.Max(0, m.inset())
	}
	lo := math.Max(m.top+inset, m.SlideTop(i))
	hi := math.Min(m.top+m.height, m.SlideTop(i)+m.height)
	if hi <= lo {
		return 0
	}
	return (hi - lo) / m.height
}

func (m *Model) ratios() []float64 {
	out := make([]float64, m.count)
	for i := range out {
		out[i] = m.Ratio(i)
	}
	return out
}

// Locate maps a viewport row to the slide under it and the row inside
// that slide, rounding the scroll offset to whole rows. ok is false over
// the lead or past the last slide.
func (m *Model) Locate(row int) (slide, line int, ok bool) {
	h := int(m.height)
	if h <= 0 || m.count == 0 {
		return 0, 0, false
	}
	c := int(math.Round(m.top)) + row - int(m.lead)
	if c < 0 {
		return 0, 0, false
	}
	slide, line = c/h, c%h
	if slide >= m.count {
		return 0, 0, false
	}
	return slide, line, true
}

var _ deck.Viewport = (*Model)(nil)
