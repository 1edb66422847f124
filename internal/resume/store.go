package resume

import (
	"errors"
	"time"

	"github.com/zjrosen/folio/internal/log"
)

// Store reads and writes the position of a single deck. A nil Store, or
// one with a nil Repository, does nothing.
type Store struct {
	repo Repository
	deck string
	now  func() time.Time
}

// NewStore binds repo to deck.
func NewStore(repo Repository, deck string) *Store {
	return &Store{repo: repo, deck: deck, now: time.Now}
}

// Load returns the saved index and whether one exists.
func (s *Store) Load() (int, bool) {
	if s == nil || s.repo == nil {
		return 0, false
	}
	p, err := s.repo.Find(s.deck)
	if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			log.ErrorErr(log.CatStore, "load position failed", err, "deck", s.deck)
		}
		return 0, false
	}
	log.Debug(log.CatStore, "loaded position", "deck", s.deck, "index", p.Index)
	return p.Index, true
}

// Save records index as the deck's current position.
func (s *Store) Save(index, count int) {
	if s == nil || s.repo == nil {
		return
	}
	err := s.repo.Save(Position{Deck: s.deck, Index: index, Count: count, UpdatedAt: s.now()})
	if err != nil {
		log.ErrorErr(log.CatStore, "save position failed", err, "deck", s.deck, "index", index)
	}
}

// Forget drops the stored position.
func (s *Store) Forget() error {
	if s == nil || s.repo == nil {
		return nil
	}
	return s.repo.Delete(s.deck)
}
