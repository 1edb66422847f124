package deck

import "time"

// Source identifies what produced a navigation intent.
type Source int

const (
	SourceNone Source = iota
	SourceKeyboard
	SourceWheel
	SourceTouch
	SourceButton
	SourceAutoplay
	SourceHash
	SourceResize
	SourceTracker
)

func (s Source) String() string {
	switch s {
	case SourceKeyboard:
		return "keyboard"
	case SourceWheel:
		return "wheel"
	case SourceTouch:
		return "touch"
	case SourceButton:
		return "button"
	case SourceAutoplay:
		return "autoplay"
	case SourceHash:
		return "hash"
	case SourceResize:
		return "resize"
	case SourceTracker:
		return "tracker"
	default:
		return "none"
	}
}

// IntentKind is the kind of navigation requested.
type IntentKind int

const (
	IntentGoTo IntentKind = iota
	IntentAdvance
	IntentHome
	IntentEnd
)

// Intent is a navigation request. Input and autoplay emit intents; only
// the Deck turns them into state changes.
type Intent struct {
	Kind    IntentKind
	Target  int // IntentGoTo
	Delta   int // IntentAdvance: +1 or -1
	Source  Source
	Instant bool // skip the smooth animation
}

// State is a snapshot of the navigation state.
type State struct {
	Active          int
	Count           int
	AutoplayEnabled bool
	AutoplayPaused  bool
	Scrolling       bool
	LastSource      Source
	CooldownUntil   time.Time
}

// Progress returns (active+1)/count as a percentage, or 0 for an empty deck.
func (s State) Progress() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Active+1) / float64(s.Count) * 100
}
