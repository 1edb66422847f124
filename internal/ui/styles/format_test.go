package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Intro", 10, "Intro"},
		{"Introduction", 6, "Intro…"},
		{"Introduction", 1, "…"},
		{"Introduction", 0, ""},
		{"日本語の題名", 5, "日本…"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, TruncateString(tt.in, tt.width), "%q at %d", tt.in, tt.width)
	}
}

func TestTruncateString_NeverExceedsWidth(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		w := rapid.IntRange(0, 40).Draw(t, "w")
		require.LessOrEqual(t, lipgloss.Width(TruncateString(s, w)), max(w, 0))
	})
}
