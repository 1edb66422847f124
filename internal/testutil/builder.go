// Package testutil builds deck fixtures and stores for tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/folio/internal/source"
)

// Builder accumulates slides and writes them as a deck on disk.
type Builder struct {
	t      *testing.T
	dir    string
	name   string
	slides []slideData
}

// NewBuilder creates a builder writing into a fresh temp directory.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t, dir: t.TempDir(), name: "talk"}
}

// Named sets the deck's base file name, without extension.
func (b *Builder) Named(name string) *Builder {
	b.name = name
	return b
}

// Dir is where the deck files are written.
func (b *Builder) Dir() string { return b.dir }

// WithSlide adds a slide with optional configuration.
func (b *Builder) WithSlide(title string, opts ...SlideOption) *Builder {
	s := slideData{title: title}
	for _, opt := range opts {
		opt(&s)
	}
	b.slides = append(b.slides, s)
	return b
}

// Markdown is the single-file deck text.
func (b *Builder) Markdown() string {
	parts := make([]string, len(b.slides))
	for i, s := range b.slides {
		parts[i] = s.markdown()
	}
	return strings.Join(parts, "\n---\n\n")
}

// Build writes a single markdown deck and returns its path.
func (b *Builder) Build() string {
	b.t.Helper()
	path := filepath.Join(b.dir, b.name+".md")
	b.write(path, b.Markdown())
	return path
}

// BuildManifest writes one markdown file per slide plus a YAML manifest
// listing them, and returns the manifest path.
func (b *Builder) BuildManifest(title string, interval time.Duration) string {
	b.t.Helper()
	m := source.Manifest{Title: title, Interval: interval.Milliseconds()}
	for i, s := range b.slides {
		file := fmt.Sprintf("%02d.md", i+1)
		b.write(filepath.Join(b.dir, file), s.markdown())
		m.Slides = append(m.Slides, source.Entry{File: file})
	}
	data, err := yaml.Marshal(m)
	require.NoError(b.t, err)

	path := filepath.Join(b.dir, b.name+".yaml")
	b.write(path, string(data))
	return path
}

func (b *Builder) write(path, content string) {
	b.t.Helper()
	require.NoError(b.t, os.WriteFile(path, []byte(content), 0o600))
}
