// Package deck is the navigation and viewport-fit engine of a slide deck.
//
// A Deck owns the active slide index. Input and autoplay only emit
// intents; the position tracker proposes indices from observed
// visibility; the Deck applies both with the same wrap arithmetic. All
// methods must be called from one goroutine.
package deck

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/folio/internal/log"
	"github.com/zjrosen/folio/internal/pubsub"
	"github.com/zjrosen/folio/internal/tracing"
)

// Config tunes the engine.
type Config struct {
	// Interval is the default autoplay delay.
	Interval time.Duration
	// SmoothScroll animates programmatic jumps.
	SmoothScroll bool
	// FitPadding is subtracted from the available height before fitting.
	FitPadding float64
	TieBreak   TieBreak
	Input      InputConfig
	Keys       KeyMap
}

// DefaultConfig returns engine defaults.
func DefaultConfig() Config {
	return Config{
		Interval:     DefaultInterval,
		SmoothScroll: true,
		TieBreak:     TieKeepPrevious,
		Input:        DefaultInputConfig(),
		Keys:         DefaultKeyMap(),
	}
}

// Options wires a Deck to its collaborators. Nil collaborators degrade to
// no-op implementations.
type Options struct {
	Config   Config
	Viewport Viewport
	Chrome   Chrome
	Location Location
	Surface  Surface
	Timers   Timers
	Clock    Clock
	Tracer   trace.Tracer
}

// Deck is the navigation controller.
type Deck struct {
	cfg      Config
	registry *Registry
	viewport Viewport
	chrome   Chrome
	location Location
	timers   Timers
	tracer   trace.Tracer

	tracker  *Tracker
	autoplay *Autoplay
	fit      *FitEngine
	input    *Dispatcher
	broker   *pubsub.Broker[State]

	active     int
	lastSource Source
	owning     bool // a programmatic scroll is in flight
	loading    bool
	pending    int // deep link waiting for its slide, or -1
	closed     bool
}

// New creates a Deck over an empty registry.
func New(opts Options) *Deck {
	if opts.Chrome == nil {
		opts.Chrome = NopChrome{}
	}
	if opts.Location == nil {
		opts.Location = NopLocation{}
	}
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer("deck")
	}
	if opts.Config.Interval <= 0 {
		opts.Config.Interval = DefaultInterval
	}

	d := &Deck{
		cfg:      opts.Config,
		registry: NewRegistry(),
		viewport: opts.Viewport,
		chrome:   opts.Chrome,
		location: opts.Location,
		timers:   opts.Timers,
		tracer:   opts.Tracer,
		tracker:  NewTracker(opts.Config.TieBreak),
		broker:   pubsub.NewBroker[State](pubsub.WithReplay()),
		pending:  -1,
	}
	d.autoplay = NewAutoplay(opts.Timers, opts.Config.Interval, d.durationOf, func() {
		d.Dispatch(Intent{Kind: IntentAdvance, Delta: 1, Source: SourceAutoplay})
	})
	d.fit = NewFitEngine(opts.Surface, d.availableHeight, d.registry.Count)
	d.input = newDispatcher(d, opts.Config.Keys, opts.Config.Input, opts.Timers, opts.Clock)
	return d
}

// Input returns the input dispatcher.
func (d *Deck) Input() *Dispatcher { return d.input }

// Fit returns the viewport fit engine.
func (d *Deck) Fit() *FitEngine { return d.fit }

// Autoplay returns the autoplay scheduler.
func (d *Deck) Autoplay() *Autoplay { return d.autoplay }

// Active returns the active slide index.
func (d *Deck) Active() int { return d.active }

// Count returns the number of slides.
func (d *Deck) Count() int { return d.registry.Count() }

// Slide returns slide i.
func (d *Deck) Slide(i int) (Slide, error) { return d.registry.Get(i) }

// Slides returns all slides in order.
func (d *Deck) Slides() []Slide { return d.registry.All() }

// State returns a snapshot of the navigation state.
func (d *Deck) State() State {
	return State{
		Active:          d.active,
		Count:           d.registry.Count(),
		AutoplayEnabled: d.autoplay.Enabled(),
		AutoplayPaused:  d.autoplay.Paused(),
		Scrolling:       d.owning,
		LastSource:      d.lastSource,
		CooldownUntil:   d.input.CooldownUntil(),
	}
}

// Subscribe returns deck events. New subscribers first receive the latest
// state.
func (d *Deck) Subscribe(ctx context.Context) <-chan pubsub.Event[State] {
	return d.broker.Subscribe(ctx)
}

// Dispatch applies a navigation intent.
func (d *Deck) Dispatch(in Intent) {
	switch in.Kind {
	case IntentGoTo:
		d.goTo(in.Target, in.Source, in.Instant)
	case IntentAdvance:
		d.goTo(d.active+in.Delta, in.Source, in.Instant)
	case IntentHome:
		d.goTo(0, in.Source, in.Instant)
	case IntentEnd:
		d.goTo(d.registry.Count()-1, in.Source, in.Instant)
	}
}

// GoTo navigates to target, wrapping modulo the slide count.
func (d *Deck) GoTo(target int, src Source) { d.goTo(target, src, false) }

// Advance moves delta slides, wrapping at both ends.
func (d *Deck) Advance(delta int, src Source) { d.goTo(d.active+delta, src, false) }

// Home jumps to the first slide.
func (d *Deck) Home(src Source) { d.goTo(0, src, false) }

// End jumps to the last slide.
func (d *Deck) End(src Source) { d.goTo(d.registry.Count()-1, src, false) }

func (d *Deck) goTo(target int, src Source, instant bool) {
	n := d.registry.Count()
	if d.closed || n == 0 {
		return
	}
	idx := Wrap(target, n)
	from := d.active

	_, span := d.tracer.Start(context.Background(), tracing.SpanGoTo, trace.WithAttributes(
		attribute.Int(tracing.AttrDeckFrom, from),
		attribute.Int(tracing.AttrDeckTo, idx),
		attribute.Int(tracing.AttrDeckRequested, target),
		attribute.String(tracing.AttrDeckSource, src.String()),
	))
	defer span.End()

	d.autoplay.Cancel()
	d.lastSource = src

	// Optimistic: chrome and location follow the target immediately.
	d.owning = true
	d.active = idx
	d.publishActive(idx)

	smooth := d.cfg.SmoothScroll && !instant
	if d.viewport != nil {
		d.viewport.ScrollTo(d.targetTop(idx), smooth)
	}
	if !smooth || d.viewport == nil {
		d.settle()
	}

	log.Debug(log.CatNav, "goto", "from", from, "to", idx, "requested", target, "source", src, "smooth", smooth)
	d.broker.Publish(pubsub.NavigatedEvent, d.State())
	d.autoplay.Schedule(d.active)
}

// Realign scrolls the active slide back into place without animation,
// e.g. after the viewport was resized.
func (d *Deck) Realign() {
	if d.closed || d.registry.Count() == 0 || d.viewport == nil {
		return
	}
	d.owning = true
	d.viewport.ScrollTo(d.targetTop(d.active), false)
	d.settle()
}

// Resized handles a viewport size change.
func (d *Deck) Resized() {
	if d.closed {
		return
	}
	d.tracker.Invalidate()
	d.Realign()
	d.refit(FitResize)
	d.broker.Publish(pubsub.FitEvent, d.State())
}

// ChromeChanged handles chrome visibility changes that move the banner or
// change the space available to slides.
func (d *Deck) ChromeChanged() {
	if d.closed {
		return
	}
	d.refit(FitChrome)
	d.Realign()
	d.broker.Publish(pubsub.FitEvent, d.State())
}

// ContentChanged refits slide i after its content or media changed.
func (d *Deck) ContentChanged(i int) {
	if d.closed {
		return
	}
	if d.fit.RecomputeSlide(i, FitContentLoaded) {
		d.broker.Publish(pubsub.FitEvent, d.State())
	}
}

// SetAutoplay turns autoplay on or off. Enabling schedules the first tick
// from the active slide's duration.
func (d *Deck) SetAutoplay(enabled bool) {
	if d.closed || enabled == d.autoplay.Enabled() {
		return
	}
	if enabled {
		d.autoplay.Enable(d.active)
	} else {
		d.autoplay.Disable()
	}
	d.chrome.SetAutoplay(enabled)
	log.Info(log.CatAutoplay, "autoplay toggled", "enabled", enabled, "active", d.active)
	d.broker.Publish(pubsub.AutoplayEvent, d.State())
}

// ToggleAutoplay flips autoplay.
func (d *Deck) ToggleAutoplay() {
	d.SetAutoplay(!d.autoplay.Enabled())
}

// Hidden pauses autoplay while the presentation is not visible.
func (d *Deck) Hidden() {
	d.autoplay.Pause()
}

// Shown resumes autoplay with a full interval.
func (d *Deck) Shown() {
	if d.closed {
		return
	}
	d.autoplay.Resume(d.active)
}

// Register appends a slide that became available. Returns its index.
func (d *Deck) Register(s Slide) int {
	if d.closed {
		return -1
	}
	idx := d.registry.Register(s, -1)
	n := d.registry.Count()
	log.Debug(log.CatDeck, "slide registered", "index", idx, "count", n, "source", s.Source)

	d.tracker.Invalidate()
	d.refit(FitSlidesChanged)
	d.chrome.SetProgress(d.active, n)
	d.broker.Publish(pubsub.SlidesEvent, d.State())

	if d.pending >= 0 && d.pending < n {
		target := d.pending
		d.pending = -1
		d.goTo(target, SourceHash, true)
	} else if n == 1 && d.pending < 0 {
		d.Realign()
	}
	return idx
}

// Replace swaps slide i's content, keeping its position.
func (d *Deck) Replace(i int, s Slide) error {
	if err := d.registry.Replace(i, s); err != nil {
		return err
	}
	d.ContentChanged(i)
	d.broker.Publish(pubsub.SlidesEvent, d.State())
	return nil
}

// BeginLoading marks that more slides are still expected, so Start may
// hold a deep link past the slides registered so far.
func (d *Deck) BeginLoading() {
	d.loading = true
}

// LoadingDone marks the end of slide loading. An unresolved pending deep
// link is dropped.
func (d *Deck) LoadingDone() {
	d.loading = false
	if d.pending >= 0 {
		log.Warn(log.CatNav, "deep link never resolved", "index", d.pending, "count", d.registry.Count())
		d.pending = -1
	}
}

// Loading reports whether more slides are expected.
func (d *Deck) Loading() bool { return d.loading }

// Start reads the initial slide from the location fragment. Invalid or
// out-of-range fragments fall back to slide 0. A fragment past the slides
// loaded so far waits for that slide while loading.
func (d *Deck) Start() {
	if d.closed {
		return
	}
	n := d.registry.Count()
	idx, ok := ParseFragment(d.location.Fragment())
	switch {
	case ok && idx < n:
		d.goTo(idx, SourceHash, true)
		return
	case ok && d.loading:
		d.pending = idx
		log.Debug(log.CatNav, "deep link pending", "index", idx, "count", n)
	case ok:
		log.Warn(log.CatNav, "deep link out of range", "index", idx, "count", n)
	}
	if n > 0 {
		d.goTo(0, SourceHash, true)
	}
}

// ParseFragment parses "N" or "#N" into a non-negative index.
func ParseFragment(fragment string) (int, bool) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(fragment), "#"))
	if s == "" {
		return 0, false
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// Teardown releases timers, the scroll animation and subscribers.
func (d *Deck) Teardown() {
	if d.closed {
		return
	}
	d.closed = true
	d.autoplay.Stop()
	d.input.stop()
	if d.viewport != nil {
		d.viewport.CancelScroll()
	}
	d.owning = false
	d.broker.Close()
	log.Debug(log.CatDeck, "deck torn down")
}

// OnScroll applies the coarse midpoint estimate during raw scrolling.
func (d *Deck) OnScroll(top float64) {
	if d.closed || d.owning || d.viewport == nil {
		return
	}
	idx := d.tracker.Coarse(top, d.viewport.Height(), d.chrome.BannerHeight(), d.registry.Count(), d.viewport.SlideTop)
	d.observeActive(idx)
}

// OnVisibility records ratio changes. Ratios win over the coarse estimate
// because hosts report them after the scroll position they describe.
func (d *Deck) OnVisibility(entries []VisibilityEntry) {
	if d.closed {
		return
	}
	best, ok := d.tracker.Observe(entries, d.active)
	if !ok || d.owning {
		return
	}
	d.observeActive(best)
}

// OnScrollEnd settles an owned scroll.
func (d *Deck) OnScrollEnd() {
	if d.closed || !d.owning {
		return
	}
	d.settle()
}

func (d *Deck) settle() {
	if !d.owning {
		return
	}
	d.owning = false
	// Landing on the owned target keeps it, however little of the slide
	// a short viewport shows.
	if d.viewport != nil && math.Abs(d.viewport.ScrollTop()-d.targetTop(d.active)) < 0.5 {
		return
	}
	if best, ok := d.tracker.Best(d.active); ok {
		d.observeActive(best)
		return
	}
	if d.viewport != nil {
		d.OnScroll(d.viewport.ScrollTop())
	}
}

// observeActive is the tracker's only write path to the active index.
func (d *Deck) observeActive(idx int) {
	n := d.registry.Count()
	if n == 0 {
		return
	}
	idx = Wrap(idx, n)
	if idx == d.active {
		return
	}
	from := d.active
	d.active = idx
	d.lastSource = SourceTracker
	d.publishActive(idx)
	log.Debug(log.CatNav, "active changed", "from", from, "to", idx)
	d.broker.Publish(pubsub.ActiveChangedEvent, d.State())
	d.autoplay.Schedule(idx)
}

func (d *Deck) publishActive(idx int) {
	d.chrome.SetProgress(idx, d.registry.Count())
	d.location.Replace(strconv.Itoa(idx))
}

func (d *Deck) targetTop(i int) float64 {
	if d.viewport == nil {
		return 0
	}
	return d.viewport.SlideTop(i) - d.chrome.BannerHeight()
}

func (d *Deck) availableHeight() float64 {
	if d.viewport == nil {
		return 0
	}
	return d.viewport.Height() - d.chrome.BannerHeight() - d.cfg.FitPadding
}

func (d *Deck) durationOf(i int) time.Duration {
	s, err := d.registry.Get(i)
	if err != nil {
		return 0
	}
	return s.Duration
}

// refit recomputes every slide's fit inside a trace span.
func (d *Deck) refit(trigger FitTrigger) {
	_, span := d.tracer.Start(context.Background(), tracing.SpanFit, trace.WithAttributes(
		attribute.String(tracing.AttrFitTrigger, string(trigger)),
	))
	defer span.End()
	n := d.fit.Recompute(trigger)
	span.SetAttributes(attribute.Int(tracing.AttrDeckCount, n))
	if st, ok := d.fit.State(d.active); ok {
		span.SetAttributes(attribute.Float64(tracing.AttrFitScale, st.Scale))
	}
}
