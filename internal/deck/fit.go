package deck

import "github.com/zjrosen/folio/internal/log"

// Alignment is the vertical placement of slide content.
type Alignment int

const (
	// AlignCenter centers unscaled content.
	AlignCenter Alignment = iota
	// AlignTop pins shrunk content to the top.
	AlignTop
)

func (a Alignment) String() string {
	if a == AlignTop {
		return "top"
	}
	return "center"
}

// FitTrigger names the cause of a fit recomputation.
type FitTrigger string

const (
	FitResize        FitTrigger = "resize"
	FitChrome        FitTrigger = "chrome"
	FitSlidesChanged FitTrigger = "slides-changed"
	FitContentLoaded FitTrigger = "content-loaded"
)

// Surface is where slide content is measured and scaled.
type Surface interface {
	// ClearScale removes any scale applied to slide i.
	ClearScale(i int)
	// Measure returns the natural (unscaled) content height of slide i.
	Measure(i int) float64
	// ApplyScale applies scale and alignment to slide i.
	ApplyScale(i int, scale float64, align Alignment)
}

// FitState is the last computed fit of one slide.
type FitState struct {
	NaturalHeight float64
	Scale         float64
	Align         Alignment
}

// FitEngine scales slide content to the available height, never above 1.
type FitEngine struct {
	surface   Surface
	available func() float64
	count     func() int
	states    map[int]FitState
}

// NewFitEngine creates a fit engine. available reports the height content
// may occupy; count reports the number of slides.
func NewFitEngine(surface Surface, available func() float64, count func() int) *FitEngine {
	return &FitEngine{
		surface:   surface,
		available: available,
		count:     count,
		states:    make(map[int]FitState),
	}
}

// Scale returns min(1, available/natural). Non-positive natural heights
// yield 1.
func Scale(available, natural float64) float64 {
	if natural <= 0 || available >= natural {
		return 1
	}
	return available / natural
}

// Recompute refits every slide. Returns the number of slides refitted.
func (f *FitEngine) Recompute(trigger FitTrigger) int {
	if f == nil || f.surface == nil {
		return 0
	}
	n := f.count()
	if n == 0 {
		return 0
	}
	avail := f.available()
	if avail <= 0 {
		return 0
	}
	for i := 0; i < n; i++ {
		f.fit(i, avail)
	}
	log.Debug(log.CatFit, "refit", "trigger", trigger, "slides", n, "available", avail)
	return n
}

// RecomputeSlide refits a single slide.
func (f *FitEngine) RecomputeSlide(i int, trigger FitTrigger) bool {
	if f == nil || f.surface == nil || i < 0 || i >= f.count() {
		return false
	}
	avail := f.available()
	if avail <= 0 {
		return false
	}
	f.fit(i, avail)
	log.Debug(log.CatFit, "refit slide", "trigger", trigger, "index", i, "scale", f.states[i].Scale)
	return true
}

// State returns the last fit of slide i.
func (f *FitEngine) State(i int) (FitState, bool) {
	if f == nil {
		return FitState{}, false
	}
	s, ok := f.states[i]
	return s, ok
}

// Forget drops cached states, e.g. when slides are replaced.
func (f *FitEngine) Forget() {
	clear(f.states)
}

func (f *FitEngine) fit(i int, avail float64) {
	// Measure with the transform cleared so repeated runs never compound.
	f.surface.ClearScale(i)
	natural := f.surface.Measure(i)
	scale := Scale(avail, natural)
	align := AlignCenter
	if scale < 1 {
		align = AlignTop
	}
	f.surface.ApplyScale(i, scale, align)
	f.states[i] = FitState{NaturalHeight: natural, Scale: scale, Align: align}
}
