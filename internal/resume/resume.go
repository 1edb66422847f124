// Package resume remembers the last slide shown for each deck so a
// presentation can pick up where it left off.
package resume

import (
	"fmt"
	"time"
)

// Position is the last settled slide of one deck.
type Position struct {
	// Deck is the canonical deck reference: an absolute path or a URL.
	Deck      string
	Index     int
	Count     int
	UpdatedAt time.Time
}

// NotFoundError is returned when no position is stored for a deck.
type NotFoundError struct {
	Deck string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no saved position for %s", e.Deck)
}

// Repository defines the persistence interface for positions.
type Repository interface {
	// Save inserts or replaces the position for p.Deck.
	Save(p Position) error

	// Find returns the stored position for deck.
	// Returns NotFoundError if none exists.
	Find(deck string) (Position, error)

	// List returns stored positions, most recently updated first.
	// A limit of 0 returns all of them.
	List(limit int) ([]Position, error)

	// Delete removes the position for deck.
	// Returns NotFoundError if none exists.
	Delete(deck string) error
}
