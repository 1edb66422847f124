package deck

import "time"

// DefaultInterval is the autoplay delay for slides without a duration.
const DefaultInterval = 5 * time.Second

// AutoplayState is the scheduler state.
type AutoplayState int

const (
	AutoplayIdle AutoplayState = iota
	AutoplayScheduled
)

func (s AutoplayState) String() string {
	if s == AutoplayScheduled {
		return "scheduled"
	}
	return "idle"
}

// Autoplay issues an advance request after each slide's duration.
// It owns a single timer.
type Autoplay struct {
	timers     Timers
	interval   time.Duration
	durationOf func(i int) time.Duration
	fire       func()

	enabled bool
	paused  bool
	timer   Timer
	seq     uint64
}

// NewAutoplay creates an idle scheduler. durationOf returns the per-slide
// override (zero for none); fire is called when the delay elapses.
func NewAutoplay(timers Timers, interval time.Duration, durationOf func(int) time.Duration, fire func()) *Autoplay {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Autoplay{
		timers:     timers,
		interval:   interval,
		durationOf: durationOf,
		fire:       fire,
	}
}

// Enabled reports whether autoplay is on, including while paused.
func (a *Autoplay) Enabled() bool { return a.enabled }

// Paused reports whether the timer is suspended by a visibility change.
func (a *Autoplay) Paused() bool { return a.paused }

// State returns Scheduled while a timer is pending.
func (a *Autoplay) State() AutoplayState {
	if a.timer != nil {
		return AutoplayScheduled
	}
	return AutoplayIdle
}

// Delay returns the delay used for slide i.
func (a *Autoplay) Delay(i int) time.Duration {
	if a.durationOf != nil {
		if d := a.durationOf(i); d > 0 {
			return d
		}
	}
	return a.interval
}

// Enable turns autoplay on and schedules the first tick from active.
func (a *Autoplay) Enable(active int) {
	a.enabled = true
	a.Schedule(active)
}

// Disable turns autoplay off and clears any pending timer.
func (a *Autoplay) Disable() {
	a.enabled = false
	a.paused = false
	a.Cancel()
}

// Schedule (re)starts the timer for slide active. No-op unless enabled and
// not paused.
func (a *Autoplay) Schedule(active int) {
	a.Cancel()
	if !a.enabled || a.paused || a.timers == nil {
		return
	}
	a.seq++
	seq := a.seq
	a.timer = a.timers.AfterFunc(a.Delay(active), func() {
		if seq != a.seq {
			return
		}
		a.timer = nil
		if a.fire != nil {
			a.fire()
		}
	})
}

// Cancel clears the pending timer without changing the enabled flag.
func (a *Autoplay) Cancel() {
	a.seq++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// Pause suspends the timer while the presentation is hidden.
func (a *Autoplay) Pause() {
	if !a.enabled {
		return
	}
	a.paused = true
	a.Cancel()
}

// Resume restarts the full interval for active. Elapsed time before the
// pause is not preserved.
func (a *Autoplay) Resume(active int) {
	if !a.enabled || !a.paused {
		return
	}
	a.paused = false
	a.Schedule(active)
}

// Stop releases the timer for teardown.
func (a *Autoplay) Stop() {
	a.enabled = false
	a.paused = false
	a.Cancel()
}
