package viewport

import (
	"sort"

	"github.com/zjrosen/folio/internal/deck"
)

// DefaultThresholds are the ratios at which the observer reports a slide.
var DefaultThresholds = []float64{0, 0.25, 0.5, 0.6, 0.75, 1}

// Observer reports slide visibility when a slide's ratio crosses one of
// its thresholds.
type Observer struct {
	thresholds []float64
	bands      map[int]int
}

// NewObserver creates an observer. With no thresholds DefaultThresholds
// are used.
func NewObserver(thresholds ...float64) *Observer {
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}
	ts := append([]float64(nil), thresholds...)
	sort.Float64s(ts)
	return &Observer{thresholds: ts, bands: make(map[int]int)}
}

// band is 0 for a slide outside the viewport and otherwise one more than
// the number of positive thresholds the ratio reached.
func (o *Observer) band(ratio float64) int {
	if ratio <= 0 {
		return 0
	}
	b := 1
	for _, t := range o.thresholds {
		if t > 0 && ratio >= t {
			b++
		}
	}
	return b
}

// Update takes the current ratio of every slide and returns the entries
// that crossed a threshold since the last update. With force every slide
// whose ratio is positive, or was positive, is reported.
func (o *Observer) Update(ratios []float64, force bool) []deck.VisibilityEntry {
	var out []deck.VisibilityEntry
	for i, r := range ratios {
		prev, seen := o.bands[i]
		b := o.band(r)
		if b == prev && !(force && (b > 0 || seen)) {
			continue
		}
		if b == 0 {
			delete(o.bands, i)
		} else {
			o.bands[i] = b
		}
		out = append(out, deck.VisibilityEntry{Index: i, Ratio: r})
	}
	// Slides that no longer exist leave the viewport.
	for i := range o.bands {
		if i >= len(ratios) {
			delete(o.bands, i)
			out = append(out, deck.VisibilityEntry{Index: i, Ratio: 0})
		}
	}
	return out
}

// Reset forgets all reported bands.
func (o *Observer) Reset() {
	clear(o.bands)
}
