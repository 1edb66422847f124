// Package source reads slide decks: a single markdown file split into
// slides, or a manifest listing fragment files and URLs.
package source

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/folio/internal/log"
)

var (
	// ErrEmptyDeck is returned when a deck has no slides or no entries.
	ErrEmptyDeck = errors.New("deck has no slides")
	// ErrUnsupportedScheme is returned for references that are neither
	// local paths nor http(s) URLs.
	ErrUnsupportedScheme = errors.New("unsupported scheme")
)

// Entry is one fragment of a deck.
type Entry struct {
	// File is a path relative to the manifest, an absolute path, or an
	// http(s) URL.
	File string `yaml:"file" json:"file"`
	// Duration is the autoplay delay in milliseconds for the fragment's
	// slides that do not set their own.
	Duration int64 `yaml:"duration" json:"duration"`
}

// Manifest lists the fragments of a deck in presentation order.
type Manifest struct {
	Title string `yaml:"title" json:"title"`
	// Interval is the default autoplay delay in milliseconds.
	Interval int64   `yaml:"interval" json:"interval"`
	Slides   []Entry `yaml:"slides" json:"slides"`
}

// Deck is an opened deck: where it lives and which fragments to load.
type Deck struct {
	// Ref is the path or URL the deck was opened from.
	Ref      string
	Title    string
	Interval time.Duration
	Entries  []ResolvedEntry
}

// ResolvedEntry is an Entry with its reference made absolute.
type ResolvedEntry struct {
	Ref      string
	Duration time.Duration
}

// Local reports whether the entry is a file on disk.
func (e ResolvedEntry) Local() bool {
	return !IsURL(e.Ref)
}

// IsManifest reports whether ref names a manifest rather than markdown.
func IsManifest(ref string) bool {
	switch strings.ToLower(path.Ext(stripQuery(ref))) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Open reads ref and returns the deck's fragment list. A markdown ref is a
// deck of one fragment.
func Open(ctx context.Context, ref string) (*Deck, error) {
	if !IsManifest(ref) {
		r := absRef(ref)
		return &Deck{
			Ref:     r,
			Title:   titleFromRef(r),
			Entries: []ResolvedEntry{{Ref: r}},
		}, nil
	}

	f, err := FetcherFor(ref)
	if err != nil {
		return nil, err
	}
	data, err := f.Fetch(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", ref, err)
	}
	d, err := m.Resolve(absRef(ref))
	if err != nil {
		return nil, err
	}
	log.Info(log.CatSource, "manifest opened", "ref", ref, "entries", len(d.Entries))
	return d, nil
}

// ParseManifest decodes a YAML manifest. JSON manifests are accepted too.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(data, &m); err != nil {
			return Manifest{}, err
		}
		return m, nil
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Resolve makes every entry absolute relative to the manifest at ref.
func (m Manifest) Resolve(ref string) (*Deck, error) {
	if len(m.Slides) == 0 {
		return nil, fmt.Errorf("manifest %s: %w", ref, ErrEmptyDeck)
	}
	d := &Deck{
		Ref:      ref,
		Title:    m.Title,
		Interval: time.Duration(m.Interval) * time.Millisecond,
	}
	if d.Title == "" {
		d.Title = titleFromRef(ref)
	}
	for i, e := range m.Slides {
		if strings.TrimSpace(e.File) == "" {
			return nil, fmt.Errorf("manifest %s: entry %d has no file", ref, i)
		}
		if e.Duration < 0 {
			return nil, fmt.Errorf("manifest %s: entry %d has negative duration", ref, i)
		}
		d.Entries = append(d.Entries, ResolvedEntry{
			Ref:      ResolveRef(ref, e.File),
			Duration: time.Duration(e.Duration) * time.Millisecond,
		})
	}
	return d, nil
}

// ResolveRef resolves ref against the manifest location base.
func ResolveRef(base, ref string) string {
	if IsURL(ref) || filepath.IsAbs(ref) {
		return ref
	}
	if IsURL(base) {
		u := stripQuery(base)
		return u[:strings.LastIndex(u, "/")+1] + ref
	}
	return filepath.Join(filepath.Dir(base), ref)
}

// IsURL reports whether ref is an http(s) URL.
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func absRef(ref string) string {
	if IsURL(ref) {
		return ref
	}
	if abs, err := filepath.Abs(ref); err == nil {
		return abs
	}
	return ref
}

func stripQuery(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		return ref[:i]
	}
	return ref
}

func titleFromRef(ref string) string {
	base := path.Base(filepath.ToSlash(stripQuery(ref)))
	return strings.TrimSuffix(base, path.Ext(base))
}
