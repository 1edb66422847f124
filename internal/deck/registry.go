package deck

import (
	"errors"
	"fmt"
	"time"
)

// ErrOutOfRange is returned when a slide index is outside [0, count).
var ErrOutOfRange = errors.New("slide index out of range")

// Slide is one full-viewport page of the deck.
type Slide struct {
	// Index is the 0-based position, assigned by the registry.
	Index int
	// Title is the first heading of the slide, if any.
	Title string
	// Body is the slide's markdown content.
	Body string
	// Notes holds presenter notes (markdown).
	Notes string
	// Source identifies where the slide came from (file path or URL).
	Source string
	// Duration overrides the global autoplay interval when positive.
	Duration time.Duration
}

// Registry holds the ordered slides of a deck.
// Insertion order is presentation order.
type Registry struct {
	slides []Slide
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register inserts s at position, or appends it when position is negative
// or past the end. Slides after the insertion point are re-indexed; earlier
// slides keep their indices. Returns the assigned index.
func (r *Registry) Register(s Slide, position int) int {
	if position < 0 || position >= len(r.slides) {
		s.Index = len(r.slides)
		r.slides = append(r.slides, s)
		return s.Index
	}

	r.slides = append(r.slides, Slide{})
	copy(r.slides[position+1:], r.slides[position:])
	r.slides[position] = s
	for i := position; i < len(r.slides); i++ {
		r.slides[i].Index = i
	}
	return position
}

// Count returns the number of registered slides.
func (r *Registry) Count() int {
	return len(r.slides)
}

// Get returns the slide at i.
func (r *Registry) Get(i int) (Slide, error) {
	if i < 0 || i >= len(r.slides) {
		return Slide{}, fmt.Errorf("get slide %d of %d: %w", i, len(r.slides), ErrOutOfRange)
	}
	return r.slides[i], nil
}

// Replace swaps the content of slide i, keeping its index.
func (r *Registry) Replace(i int, s Slide) error {
	if i < 0 || i >= len(r.slides) {
		return fmt.Errorf("replace slide %d of %d: %w", i, len(r.slides), ErrOutOfRange)
	}
	s.Index = i
	r.slides[i] = s
	return nil
}

// All returns a copy of all slides in order.
func (r *Registry) All() []Slide {
	out := make([]Slide, len(r.slides))
	copy(out, r.slides)
	return out
}

// Wrap maps i into [0, n) with modulo semantics, so -1 becomes n-1 and n
// becomes 0. Returns 0 when n is not positive.
func Wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	m := i % n
	if m < 0 {
		m += n
	}
	return m
}
