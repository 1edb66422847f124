package app

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/folio/internal/deck"
)

func newTestSurface(bodies []string, avail int) *Surface {
	s := NewSurface(plainRenderer{}, func(i int) (deck.Slide, error) {
		if i < 0 || i >= len(bodies) {
			return deck.Slide{}, fmt.Errorf("no slide %d", i)
		}
		return deck.Slide{Index: i, Body: bodies[i]}, nil
	}, func() int { return avail })
	s.SetWidth(40)
	return s
}

func frameLines(s *Surface, i, rows int) []string {
	out := make([]string, rows)
	for r := range out {
		out[r] = strings.TrimSpace(s.Line(i, r))
	}
	return out
}

func TestSurface_MeasureTrimsBlankEdges(t *testing.T) {
	s := newTestSurface([]string{"\n\n# Title\n\nbody\n\n"}, 10)
	require.Equal(t, float64(3), s.Measure(0))
	require.Zero(t, s.Measure(5), "unknown slides measure as empty")
}

func TestSurface_CentersFittingContent(t *testing.T) {
	s := newTestSurface([]string{"a\nb"}, 6)
	s.SetPadding(1)
	s.ApplyScale(0, 1, deck.AlignCenter)

	// padding row, two rows above centre, content, rest blank
	require.Equal(t, []string{"", "", "", "a", "b", "", ""}, frameLines(s, 0, 7))
	scale, ok := s.Scale(0)
	require.True(t, ok)
	require.Equal(t, float64(1), scale)
}

func TestSurface_IndentsAndTruncates(t *testing.T) {
	s := newTestSurface([]string{strings.Repeat("x", 100)}, 5)
	s.ApplyScale(0, 1, deck.AlignTop)

	line := s.Line(0, 0)
	require.True(t, strings.HasPrefix(line, "  x"))
	require.Equal(t, 2+36, len(line))
}

func TestSurface_CompactsOverflow(t *testing.T) {
	body := "# Title\n\n\n\none\n\ntwo\n\nthree"
	s := newTestSurface([]string{body}, 7)
	s.ApplyScale(0, 0.5, deck.AlignTop)
	require.Equal(t, []string{"# Title", "", "one", "", "two", "", "three"}, frameLines(s, 0, 7),
		"blank runs collapse first")

	s = newTestSurface([]string{body}, 4)
	s.ApplyScale(0, 0.5, deck.AlignTop)
	require.Equal(t, []string{"# Title", "one", "two", "three"}, frameLines(s, 0, 4),
		"then blank lines go")

	s = newTestSurface([]string{body}, 3)
	s.ApplyScale(0, 0.3, deck.AlignTop)
	got := frameLines(s, 0, 3)
	require.Equal(t, []string{"# Title", "one"}, got[:2])
	require.Contains(t, got[2], "2 more lines")
}

func TestSurface_ClearScaleDropsFrame(t *testing.T) {
	s := newTestSurface([]string{"a"}, 3)
	s.ApplyScale(0, 1, deck.AlignTop)
	s.ClearScale(0)

	_, ok := s.Scale(0)
	require.False(t, ok)
	require.Empty(t, s.Line(0, 0))
}

func TestSurface_InvalidateRerenders(t *testing.T) {
	bodies := []string{"old"}
	s := newTestSurface(bodies, 3)
	require.Equal(t, float64(1), s.Measure(0))

	bodies[0] = "new\nlines"
	require.Equal(t, float64(1), s.Measure(0), "renderings are cached")
	s.Invalidate(0)
	require.Equal(t, float64(2), s.Measure(0))
}

func TestCompact_NeverExceedsAvailable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := rapid.SliceOf(rapid.SampledFrom([]string{"", "  ", "text", "more text"})).Draw(t, "lines")
		avail := rapid.IntRange(1, 20).Draw(t, "avail")

		out := compact(lines, avail)
		if len(out) > avail {
			t.Fatalf("compact returned %d lines for %d rows", len(out), avail)
		}
		if len(lines) <= avail && len(out) != len(lines) {
			t.Fatalf("fitting content changed: %q -> %q", lines, out)
		}
	})
}
