package deck_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/folio/internal/deck"
)

func TestTracker_GreatestRatioWins(t *testing.T) {
	tr := deck.NewTracker(deck.TieKeepPrevious)
	best, ok := tr.Observe([]deck.VisibilityEntry{{Index: 0, Ratio: 0.3}, {Index: 1, Ratio: 0.7}}, 0)
	require.True(t, ok)
	require.Equal(t, 1, best)

	// Ratios persist between partial updates.
	best, ok = tr.Observe([]deck.VisibilityEntry{{Index: 0, Ratio: 0.8}}, 1)
	require.True(t, ok)
	require.Equal(t, 0, best)
}

func TestTracker_NothingVisible(t *testing.T) {
	tr := deck.NewTracker(deck.TieKeepPrevious)
	tr.Observe([]deck.VisibilityEntry{{Index: 2, Ratio: 1}}, 0)
	best, ok := tr.Observe([]deck.VisibilityEntry{{Index: 2, Ratio: 0}}, 2)
	require.False(t, ok)
	require.Equal(t, 2, best)
	require.Zero(t, tr.Ratio(2))
}

func TestTracker_TieBreak(t *testing.T) {
	tied := []deck.VisibilityEntry{{Index: 1, Ratio: 0.5}, {Index: 2, Ratio: 0.5}}
	tests := []struct {
		name     string
		tb       deck.TieBreak
		previous int
		want     int
	}{
		{"keep previous when tied", deck.TieKeepPrevious, 2, 2},
		{"previous not tied falls back to earliest", deck.TieKeepPrevious, 0, 1},
		{"earlier", deck.TieEarlier, 2, 1},
		{"later", deck.TieLater, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := deck.NewTracker(tt.tb)
			best, ok := tr.Observe(tied, tt.previous)
			require.True(t, ok)
			require.Equal(t, tt.want, best)
		})
	}
}

func TestParseTieBreak(t *testing.T) {
	for _, s := range []string{"previous", "earlier", "later"} {
		tb, err := deck.ParseTieBreak(s)
		require.NoError(t, err)
		require.Equal(t, s, tb.String())
	}
	tb, err := deck.ParseTieBreak("")
	require.NoError(t, err)
	require.Equal(t, deck.TieKeepPrevious, tb)

	_, err = deck.ParseTieBreak("random")
	require.Error(t, err)
}

func TestTracker_Coarse(t *testing.T) {
	tr := deck.NewTracker(deck.TieKeepPrevious)
	top := func(i int) float64 { return float64(i) * 10 }

	require.Equal(t, 0, tr.Coarse(0, 10, 0, 4, top))
	require.Equal(t, 0, tr.Coarse(4, 10, 0, 4, top))
	require.Equal(t, 1, tr.Coarse(5, 10, 0, 4, top))
	// The banner shifts slide tops up.
	require.Equal(t, 1, tr.Coarse(3, 10, 2, 4, top))
	require.Equal(t, 3, tr.Coarse(100, 10, 0, 4, top))
	require.Equal(t, 0, tr.Coarse(0, 10, 0, 0, top))
}

func TestTracker_Invalidate(t *testing.T) {
	tr := deck.NewTracker(deck.TieKeepPrevious)
	tr.Observe([]deck.VisibilityEntry{{Index: 1, Ratio: 1}}, 0)
	tr.Invalidate()
	_, ok := tr.Best(0)
	require.False(t, ok)
}
