package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/zjrosen/folio/internal/resume"
)

const positionColumns = `deck, slide_index, slide_count, updated_at`

// positionRepository implements resume.Repository using SQLite.
type positionRepository struct {
	db *sql.DB
}

func newPositionRepository(db *sql.DB) *positionRepository {
	return &positionRepository{db: db}
}

var _ resume.Repository = (*positionRepository)(nil)

func scanPosition(scanner interface{ Scan(...any) error }) (PositionModel, error) {
	var m PositionModel
	err := scanner.Scan(&m.Deck, &m.SlideIndex, &m.SlideCount, &m.UpdatedAt)
	return m, err
}

// Save upserts the position keyed by deck.
func (r *positionRepository) Save(p resume.Position) error {
	if p.Index < 0 {
		return fmt.Errorf("invalid slide index %d", p.Index)
	}
	m := toPositionModel(p)
	_, err := r.db.Exec(
		`INSERT INTO positions (`+positionColumns+`) VALUES (?, ?, ?, ?)
		 ON CONFLICT(deck) DO UPDATE SET
			slide_index = excluded.slide_index,
			slide_count = excluded.slide_count,
			updated_at = excluded.updated_at`,
		m.Deck, m.SlideIndex, m.SlideCount, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save position: %w", err)
	}
	return nil
}

// Find returns the stored position for deck.
func (r *positionRepository) Find(deck string) (resume.Position, error) {
	row := r.db.QueryRow(`SELECT `+positionColumns+` FROM positions WHERE deck = ?`, deck)
	m, err := scanPosition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return resume.Position{}, &resume.NotFoundError{Deck: deck}
	}
	if err != nil {
		return resume.Position{}, fmt.Errorf("failed to find position: %w", err)
	}
	return m.toDomain(), nil
}

// List returns positions ordered by updated_at descending.
func (r *positionRepository) List(limit int) ([]resume.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions ORDER BY updated_at DESC, deck`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []resume.Position
	for rows.Next() {
		m, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position row: %w", err)
		}
		out = append(out, m.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position rows: %w", err)
	}
	return out, nil
}

// Delete removes the position for deck.
func (r *positionRepository) Delete(deck string) error {
	result, err := r.db.Exec(`DELETE FROM positions WHERE deck = ?`, deck)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return &resume.NotFoundError{Deck: deck}
	}
	return nil
}
