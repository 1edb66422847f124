package deck

import (
	"math"
	"time"

	"github.com/zjrosen/folio/internal/log"
)

// Action is a keyboard or button action.
type Action int

const (
	ActionNone Action = iota
	ActionNext
	ActionPrev
	ActionHome
	ActionEnd
	ActionFullscreen
	ActionAutoplay
	ActionChrome
)

func (a Action) String() string {
	switch a {
	case ActionNext:
		return "next"
	case ActionPrev:
		return "prev"
	case ActionHome:
		return "home"
	case ActionEnd:
		return "end"
	case ActionFullscreen:
		return "fullscreen"
	case ActionAutoplay:
		return "autoplay"
	case ActionChrome:
		return "chrome"
	default:
		return "none"
	}
}

// ParseAction parses the String form of an Action.
func ParseAction(s string) Action {
	for a := ActionNext; a <= ActionChrome; a++ {
		if a.String() == s {
			return a
		}
	}
	return ActionNone
}

// KeyMap maps key names (as reported by the terminal) to actions.
type KeyMap map[string]Action

// DefaultKeyMap returns the fixed presenter key map.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		"down":   ActionNext,
		"right":  ActionNext,
		"pgdown": ActionNext,
		" ":      ActionNext,
		"space":  ActionNext,
		"j":      ActionNext,
		"l":      ActionNext,
		"up":     ActionPrev,
		"left":   ActionPrev,
		"pgup":   ActionPrev,
		"k":      ActionPrev,
		"h":      ActionPrev,
		"home":   ActionHome,
		"end":    ActionEnd,
		"f":      ActionFullscreen,
		"a":      ActionAutoplay,
		"c":      ActionChrome,
	}
}

// InputConfig holds gesture thresholds. Thresholds are fixed, not adaptive.
type InputConfig struct {
	// WheelThreshold is the |deltaY| a wheel event must exceed.
	WheelThreshold float64
	// WheelCooldown suppresses wheel navigation after a page turn.
	WheelCooldown time.Duration
	// SwipeThreshold is the net vertical distance a swipe must exceed.
	SwipeThreshold float64
	// TouchSlop is the distance after which a touch gesture is unambiguous.
	TouchSlop float64
}

// DefaultInputConfig returns thresholds in terminal rows.
func DefaultInputConfig() InputConfig {
	return InputConfig{
		WheelThreshold: 1,
		WheelCooldown:  700 * time.Millisecond,
		SwipeThreshold: 3,
		TouchSlop:      1,
	}
}

// Outcome reports what the dispatcher did with an input event.
type Outcome int

const (
	// Ignored events did not qualify (below threshold, unmapped key).
	Ignored Outcome = iota
	// Handled events produced an intent or a chrome action.
	Handled
	// Ceded events belong to a nested scrollable region.
	Ceded
	// Suppressed events were blocked by a modal or cooldown.
	Suppressed
)

func (o Outcome) String() string {
	switch o {
	case Handled:
		return "handled"
	case Ceded:
		return "ceded"
	case Suppressed:
		return "suppressed"
	default:
		return "ignored"
	}
}

// Scrollable is a nested region that may own scroll input.
type Scrollable interface {
	// Scrollable reports whether the region's overflow allows scrolling.
	Scrollable() bool
	ScrollTop() float64
	ScrollHeight() float64
	ClientHeight() float64
}

const edgeEpsilon = 0.5

// CanScrollFurther reports whether any region in path can scroll in the
// direction of deltaY (positive is down).
func CanScrollFurther(path []Scrollable, deltaY float64) bool {
	if deltaY == 0 {
		return false
	}
	for _, s := range path {
		if s == nil || !s.Scrollable() {
			continue
		}
		if s.ScrollHeight() <= s.ClientHeight()+edgeEpsilon {
			continue
		}
		if deltaY > 0 && s.ScrollTop()+s.ClientHeight() < s.ScrollHeight()-edgeEpsilon {
			return true
		}
		if deltaY < 0 && s.ScrollTop() > edgeEpsilon {
			return true
		}
	}
	return false
}

// Dispatcher normalizes keyboard, wheel, touch, button and resize input
// into navigation intents. It never changes the active index itself.
type Dispatcher struct {
	deck   *Deck
	keys   KeyMap
	cfg    InputConfig
	timers Timers
	clock  Clock
	modal  func() bool

	cooldown      Timer
	cooldownUntil time.Time

	touching    bool
	touchStartY float64
}

func newDispatcher(d *Deck, keys KeyMap, cfg InputConfig, timers Timers, clock Clock) *Dispatcher {
	if keys == nil {
		keys = DefaultKeyMap()
	}
	return &Dispatcher{deck: d, keys: keys, cfg: cfg, timers: timers, clock: clock}
}

// SetModal installs a predicate reporting whether a modal overlay is open.
func (p *Dispatcher) SetModal(open func() bool) {
	p.modal = open
}

func (p *Dispatcher) modalOpen() bool {
	return p.modal != nil && p.modal()
}

// Key handles a key name.
func (p *Dispatcher) Key(name string) Outcome {
	if p.modalOpen() {
		return Suppressed
	}
	action, ok := p.keys[name]
	if !ok {
		return Ignored
	}
	return p.act(action, SourceKeyboard)
}

// Button handles a chrome button or remote action.
func (p *Dispatcher) Button(action Action) Outcome {
	return p.act(action, SourceButton)
}

// ButtonGoTo jumps to slide i, e.g. from a grid thumbnail.
func (p *Dispatcher) ButtonGoTo(i int) Outcome {
	p.deck.Dispatch(Intent{Kind: IntentGoTo, Target: i, Source: SourceButton})
	return Handled
}

func (p *Dispatcher) act(action Action, src Source) Outcome {
	switch action {
	case ActionNext:
		p.deck.Dispatch(Intent{Kind: IntentAdvance, Delta: 1, Source: src})
	case ActionPrev:
		p.deck.Dispatch(Intent{Kind: IntentAdvance, Delta: -1, Source: src})
	case ActionHome:
		p.deck.Dispatch(Intent{Kind: IntentHome, Source: src})
	case ActionEnd:
		p.deck.Dispatch(Intent{Kind: IntentEnd, Source: src})
	case ActionFullscreen:
		p.deck.chrome.ToggleFullscreen()
	case ActionAutoplay:
		p.deck.ToggleAutoplay()
	case ActionChrome:
		p.deck.chrome.ToggleChrome()
		p.deck.ChromeChanged()
	default:
		return Ignored
	}
	log.Debug(log.CatInput, "action", "action", action, "source", src)
	return Handled
}

// Wheel handles a wheel event. path lists the regions under the pointer,
// innermost first.
func (p *Dispatcher) Wheel(deltaY float64, path []Scrollable) Outcome {
	if math.Abs(deltaY) <= p.cfg.WheelThreshold {
		return Ignored
	}
	if CanScrollFurther(path, deltaY) {
		return Ceded
	}
	if p.cooldown != nil {
		return Suppressed
	}

	delta := 1
	if deltaY < 0 {
		delta = -1
	}
	p.startCooldown()
	p.deck.Dispatch(Intent{Kind: IntentAdvance, Delta: delta, Source: SourceWheel})
	return Handled
}

func (p *Dispatcher) startCooldown() {
	if p.cfg.WheelCooldown <= 0 || p.timers == nil {
		return
	}
	if p.clock != nil {
		p.cooldownUntil = p.clock.Now().Add(p.cfg.WheelCooldown)
	}
	p.cooldown = p.timers.AfterFunc(p.cfg.WheelCooldown, func() {
		p.cooldown = nil
		p.cooldownUntil = time.Time{}
	})
}

// CooldownUntil returns when wheel navigation resumes, or zero.
func (p *Dispatcher) CooldownUntil() time.Time {
	return p.cooldownUntil
}

// TouchStart records the start of a touch gesture.
func (p *Dispatcher) TouchStart(y float64) {
	p.touching = true
	p.touchStartY = y
}

// TouchMove reports whether the host should prevent its default scrolling
// for this move: true once the gesture is unambiguous and no nested region
// owns it.
func (p *Dispatcher) TouchMove(y float64, path []Scrollable) bool {
	if !p.touching {
		return false
	}
	dy := y - p.touchStartY
	if math.Abs(dy) <= p.cfg.TouchSlop {
		return false
	}
	// A finger moving up scrolls content down.
	return !CanScrollFurther(path, -dy)
}

// TouchEnd completes a gesture. Upward swipes advance, downward swipes go
// back.
func (p *Dispatcher) TouchEnd(y float64, path []Scrollable) Outcome {
	if !p.touching {
		return Ignored
	}
	p.touching = false
	dy := y - p.touchStartY
	if math.Abs(dy) <= p.cfg.SwipeThreshold {
		return Ignored
	}
	if CanScrollFurther(path, -dy) {
		return Ceded
	}
	delta := -1
	if dy < 0 {
		delta = 1
	}
	p.deck.Dispatch(Intent{Kind: IntentAdvance, Delta: delta, Source: SourceTouch})
	return Handled
}

// TouchCancel abandons a gesture.
func (p *Dispatcher) TouchCancel() {
	p.touching = false
}

// Resize handles a viewport size change: realign instantly and refit.
func (p *Dispatcher) Resize() {
	p.deck.Resized()
}

func (p *Dispatcher) stop() {
	if p.cooldown != nil {
		p.cooldown.Stop()
		p.cooldown = nil
	}
	p.cooldownUntil = time.Time{}
	p.touching = false
}
