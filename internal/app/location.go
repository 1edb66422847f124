package app

import (
	"strconv"

	"github.com/zjrosen/folio/internal/deck"
	"github.com/zjrosen/folio/internal/resume"
)

// Location implements deck.Location for the terminal: the fragment is the
// "#N" of the deck argument, mirrored to the window title and the resume
// store.
type Location struct {
	name     string
	fragment string
	store    *resume.Store
	count    func() int
	saved    string // last fragment written to the store
	shown    string // last title handed out
}

// NewLocation creates a location for the deck called name, starting at
// fragment. store may be nil.
func NewLocation(name, fragment string, store *resume.Store, count func() int) *Location {
	return &Location{name: name, fragment: fragment, store: store, count: count}
}

// Fragment implements deck.Location.
func (l *Location) Fragment() string { return l.fragment }

// Replace implements deck.Location.
func (l *Location) Replace(fragment string) {
	l.fragment = fragment
	if fragment == l.saved {
		return
	}
	l.saved = fragment
	if idx, ok := deck.ParseFragment(fragment); ok {
		n := 0
		if l.count != nil {
			n = l.count()
		}
		l.store.Save(idx, n)
	}
}

// TakeTitle returns the window title when it changed since the last call.
func (l *Location) TakeTitle() (string, bool) {
	t := l.Title()
	if t == l.shown {
		return "", false
	}
	l.shown = t
	return t, true
}

// Title is "<deck>#N", or the deck name before any navigation.
func (l *Location) Title() string {
	if l.fragment == "" {
		return l.name
	}
	return l.name + "#" + l.fragment
}

// Link is the shareable location of slide i.
func (l *Location) Link(ref string, i int) string {
	return ref + "#" + strconv.Itoa(i)
}

// StartFragment picks the initial fragment: an explicit "#N" on the deck
// argument, then the start flag, then the resume store. Negative start
// means unset.
func StartFragment(argFragment string, start int, store *resume.Store) string {
	if argFragment != "" {
		return argFragment
	}
	if start >= 0 {
		return strconv.Itoa(start)
	}
	if idx, ok := store.Load(); ok {
		return strconv.Itoa(idx)
	}
	return ""
}

var _ deck.Location = (*Location)(nil)
