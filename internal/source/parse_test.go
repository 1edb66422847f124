package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	content := "# One\n\nintro\n---\n# Two\n\n```yaml\nkey: a\n---\nkey: b\n```\n---\n\n---\n# Three\n"
	chunks := Split(content)
	require.Len(t, chunks, 3)
	require.Equal(t, "# One\n\nintro", chunks[0])
	require.Contains(t, chunks[1], "key: a\n---\nkey: b", "separators inside fences are content")
	require.Equal(t, "# Three", chunks[2])
}

func TestSplit_TildeFenceAndTrailingSpace(t *testing.T) {
	chunks := Split("a\n~~~\n---\n~~~\n---   \nb\n")
	require.Equal(t, []string{"a\n~~~\n---\n~~~", "b"}, chunks)
}

func TestSplit_Empty(t *testing.T) {
	require.Empty(t, Split(""))
	require.Empty(t, Split("---\n\n---\n"))
}

func TestParseSlide(t *testing.T) {
	s := ParseSlide("<!-- duration: 8s -->\n# Hello *world*\n\nbody\n???\nsay hi\n\nslowly")
	require.Equal(t, "Hello world", s.Title)
	require.Equal(t, "# Hello *world*\n\nbody", s.Body)
	require.Equal(t, "say hi\n\nslowly", s.Notes)
	require.Equal(t, 8*time.Second, s.Duration)
}

func TestParseSlide_NotesMarkerInFenceIsContent(t *testing.T) {
	s := ParseSlide("```\n???\n```")
	require.Empty(t, s.Notes)
	require.Equal(t, "```\n???\n```", s.Body)
}

func TestParseDuration(t *testing.T) {
	tests := map[string]time.Duration{
		"8s":    8 * time.Second,
		"1m30s": 90 * time.Second,
		"2500":  2500 * time.Millisecond,
		"0":     0,
		"-3s":   0,
		"soon":  0,
	}
	for in, want := range tests {
		require.Equal(t, want, parseDuration(in), in)
	}
}

func TestParseDeck_DefaultDuration(t *testing.T) {
	slides := ParseDeck("talk.md", "# A\n---\n<!-- duration: 2s -->\n# B\n", 7*time.Second)
	require.Len(t, slides, 2)
	require.Equal(t, 7*time.Second, slides[0].Duration)
	require.Equal(t, 2*time.Second, slides[1].Duration)
	require.Equal(t, "talk.md", slides[1].Source)
}

func TestExtractTitle(t *testing.T) {
	require.Equal(t, "Setext", ExtractTitle("Setext\n======\n"))
	require.Equal(t, "Code x", ExtractTitle("text first\n\n## Code `x`\n# Later"))
	require.Equal(t, "", ExtractTitle("no heading here"))
}
