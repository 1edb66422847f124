package source

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/zjrosen/folio/internal/deck"
)

const (
	slideSeparator = "---"
	notesSeparator = "???"
)

var durationDirective = regexp.MustCompile(`<!--\s*duration:\s*([0-9a-zA-Z.]+)\s*-->`)

var md = goldmark.New()

// Split splits markdown into slide chunks on "---" lines outside code
// fences. Blank chunks are dropped.
func Split(content string) []string {
	var (
		chunks []string
		cur    strings.Builder
		fence  string
	)
	flush := func() {
		if strings.TrimSpace(cur.String()) != "" {
			chunks = append(chunks, strings.Trim(cur.String(), "\n"))
		}
		cur.Reset()
	}

	sc := bufio.NewScanner(strings.NewReader(content))
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		fence = nextFence(fence, trimmed)
		if fence == "" && strings.TrimRight(line, " \t") == slideSeparator {
			flush()
			continue
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
	}
	flush()
	return chunks
}

// nextFence returns the open fence marker after line: a line starting
// with ``` or ~~~ opens a fence, and the same marker closes it.
func nextFence(open, trimmed string) string {
	for _, marker := range []string{"```", "~~~"} {
		if !strings.HasPrefix(trimmed, marker) {
			continue
		}
		if open == "" {
			return marker
		}
		if open == marker {
			return ""
		}
	}
	return open
}

// ParseSlide turns one chunk into a slide: presenter notes after a "???"
// line, an optional duration directive, and a title from the first
// heading.
func ParseSlide(chunk string) deck.Slide {
	body, notes := splitNotes(chunk)

	var dur time.Duration
	if m := durationDirective.FindStringSubmatch(body); m != nil {
		dur = parseDuration(m[1])
		body = strings.TrimSpace(durationDirective.ReplaceAllString(body, ""))
	}

	return deck.Slide{
		Title:    ExtractTitle(body),
		Body:     body,
		Notes:    notes,
		Duration: dur,
	}
}

// ParseDeck parses a markdown fragment into slides.
func ParseDeck(ref, content string, defaultDuration time.Duration) []deck.Slide {
	chunks := Split(content)
	slides := make([]deck.Slide, 0, len(chunks))
	for _, c := range chunks {
		s := ParseSlide(c)
		s.Source = ref
		if s.Duration == 0 {
			s.Duration = defaultDuration
		}
		slides = append(slides, s)
	}
	return slides
}

func splitNotes(chunk string) (body, notes string) {
	lines := strings.Split(chunk, "\n")
	fence := ""
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		fence = nextFence(fence, trimmed)
		if fence == "" && trimmed == notesSeparator {
			return strings.TrimSpace(strings.Join(lines[:i], "\n")),
				strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		}
	}
	return strings.TrimSpace(chunk), ""
}

// parseDuration accepts Go durations ("8s", "1m30s") and bare
// milliseconds ("8000"). Invalid values yield zero.
func parseDuration(s string) time.Duration {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms <= 0 {
			return 0
		}
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}

// ExtractTitle returns the text of the first heading in markdown.
func ExtractTitle(markdown string) string {
	src := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(src))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			title = strings.TrimSpace(inlineText(h, src))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(inlineText(c, src))
		}
	}
	return b.String()
}
