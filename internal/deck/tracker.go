package deck

import "fmt"

// TieBreak selects the winner when several slides share the greatest
// intersection ratio.
type TieBreak int

const (
	// TieKeepPrevious keeps the previously active slide when it is among
	// the tied slides, and otherwise falls back to the earliest.
	TieKeepPrevious TieBreak = iota
	// TieEarlier picks the lowest tied index.
	TieEarlier
	// TieLater picks the highest tied index.
	TieLater
)

// ParseTieBreak parses "previous", "earlier" or "later".
func ParseTieBreak(s string) (TieBreak, error) {
	switch s {
	case "", "previous":
		return TieKeepPrevious, nil
	case "earlier":
		return TieEarlier, nil
	case "later":
		return TieLater, nil
	}
	return TieKeepPrevious, fmt.Errorf("unknown tie break %q", s)
}

func (t TieBreak) String() string {
	switch t {
	case TieEarlier:
		return "earlier"
	case TieLater:
		return "later"
	default:
		return "previous"
	}
}

// Tracker derives the active slide from observed visibility.
// It holds no reference to the active index; callers pass the previous
// value in and decide whether to apply the result.
type Tracker struct {
	ratios   map[int]float64
	tieBreak TieBreak
}

// NewTracker creates a tracker with the given tie break rule.
func NewTracker(tb TieBreak) *Tracker {
	return &Tracker{ratios: make(map[int]float64), tieBreak: tb}
}

// Observe records ratio changes and returns the best slide by ratio.
// ok is false when no slide intersects the viewport.
func (t *Tracker) Observe(entries []VisibilityEntry, previous int) (best int, ok bool) {
	for _, e := range entries {
		if e.Ratio <= 0 {
			delete(t.ratios, e.Index)
			continue
		}
		t.ratios[e.Index] = e.Ratio
	}
	return t.Best(previous)
}

// Best returns the slide with the strictly greatest recorded ratio.
func (t *Tracker) Best(previous int) (int, bool) {
	var (
		maxRatio float64
		tied     []int
	)
	for idx, r := range t.ratios {
		switch {
		case r > maxRatio:
			maxRatio = r
			tied = append(tied[:0], idx)
		case r == maxRatio:
			tied = append(tied, idx)
		}
	}
	if len(tied) == 0 {
		return previous, false
	}
	if len(tied) == 1 {
		return tied[0], true
	}

	lo, hi := tied[0], tied[0]
	for _, idx := range tied {
		if idx == previous && t.tieBreak == TieKeepPrevious {
			return previous, true
		}
		lo = min(lo, idx)
		hi = max(hi, idx)
	}
	if t.tieBreak == TieLater {
		return hi, true
	}
	return lo, true
}

// Coarse returns the last slide whose banner-adjusted top is at or above
// the vertical midpoint of the viewport.
func (t *Tracker) Coarse(top, height, banner float64, count int, slideTop func(int) float64) int {
	if count <= 0 {
		return 0
	}
	mid := top + height/2
	active := 0
	for i := 0; i < count; i++ {
		if slideTop(i)-banner <= mid {
			active = i
			continue
		}
		break
	}
	return active
}

// Invalidate drops recorded ratios after a geometry change.
func (t *Tracker) Invalidate() {
	clear(t.ratios)
}

// Ratio returns the last recorded ratio for slide i.
func (t *Tracker) Ratio(i int) float64 {
	return t.ratios[i]
}
