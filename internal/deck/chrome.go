package deck

// Chrome is the presentation chrome around the deck: banner, progress
// indicator, fullscreen and visibility toggles. The engine never renders
// chrome; it only reads the banner height and pushes state.
type Chrome interface {
	// BannerHeight is the height of the fixed banner overlapping the top of
	// the viewport, or 0 when hidden.
	BannerHeight() float64
	SetProgress(active, count int)
	SetAutoplay(enabled bool)
	ToggleFullscreen()
	ToggleChrome()
}

// NopChrome is a Chrome with no visible pieces.
type NopChrome struct{}

func (NopChrome) BannerHeight() float64 { return 0 }
func (NopChrome) SetProgress(_, _ int)  {}
func (NopChrome) SetAutoplay(bool)      {}
func (NopChrome) ToggleFullscreen()     {}
func (NopChrome) ToggleChrome()         {}

// Location is the addressable location used for deep links.
type Location interface {
	// Fragment returns the current fragment without a leading '#'.
	Fragment() string
	// Replace overwrites the fragment.
	Replace(fragment string)
}

// NopLocation ignores writes and has no fragment.
type NopLocation struct{}

func (NopLocation) Fragment() string { return "" }
func (NopLocation) Replace(string)   {}

// Viewport is the scroll container holding the slides.
// Offsets are in the host's units (terminal rows for the TUI).
type Viewport interface {
	Height() float64
	ScrollTop() float64
	// SlideTop returns the top offset of slide i inside the scroll content.
	SlideTop(i int) float64
	// ScrollTo moves to top. A smooth scroll supersedes any animation in
	// flight. The viewport reports progress through the ScrollListener.
	ScrollTo(top float64, smooth bool)
	// CancelScroll abandons an animation in flight.
	CancelScroll()
}

// VisibilityEntry reports how much of a slide intersects the viewport.
type VisibilityEntry struct {
	Index int
	// Ratio is the visible fraction of the slide in [0, 1].
	Ratio float64
}

// ScrollListener receives scroll and visibility notifications from a
// Viewport. *Deck implements it.
type ScrollListener interface {
	OnScroll(top float64)
	OnVisibility(entries []VisibilityEntry)
	OnScrollEnd()
}
