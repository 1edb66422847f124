package sqlite

import (
	"time"

	"github.com/zjrosen/folio/internal/resume"
)

// PositionModel represents a row of the positions table.
type PositionModel struct {
	Deck       string
	SlideIndex int
	SlideCount int
	UpdatedAt  int64 // Unix milliseconds
}

func toPositionModel(p resume.Position) PositionModel {
	return PositionModel{
		Deck:       p.Deck,
		SlideIndex: p.Index,
		SlideCount: p.Count,
		UpdatedAt:  p.UpdatedAt.UnixMilli(),
	}
}

func (m PositionModel) toDomain() resume.Position {
	return resume.Position{
		Deck:      m.Deck,
		Index:     m.SlideIndex,
		Count:     m.SlideCount,
		UpdatedAt: time.UnixMilli(m.UpdatedAt),
	}
}
