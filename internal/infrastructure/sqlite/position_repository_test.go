package sqlite

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/folio/internal/resume"
)

func setupTestRepo(t *testing.T) resume.Repository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "folio.db"))
	require.NoError(t, err, "Failed to create test database")
	t.Cleanup(func() { db.Close() })
	return db.PositionRepository()
}

func TestPositionRepository_SaveFind(t *testing.T) {
	repo := setupTestRepo(t)
	now := time.UnixMilli(1_700_000_000_123)

	require.NoError(t, repo.Save(resume.Position{Deck: "/talks/go.md", Index: 3, Count: 10, UpdatedAt: now}))

	p, err := repo.Find("/talks/go.md")
	require.NoError(t, err)
	require.Equal(t, resume.Position{Deck: "/talks/go.md", Index: 3, Count: 10, UpdatedAt: now}, p)
}

func TestPositionRepository_SaveOverwrites(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Save(resume.Position{Deck: "d", Index: 1, Count: 4, UpdatedAt: time.UnixMilli(1)}))
	require.NoError(t, repo.Save(resume.Position{Deck: "d", Index: 2, Count: 5, UpdatedAt: time.UnixMilli(2)}))

	p, err := repo.Find("d")
	require.NoError(t, err)
	require.Equal(t, 2, p.Index)
	require.Equal(t, 5, p.Count)

	all, err := repo.List(0)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestPositionRepository_RejectsNegativeIndex(t *testing.T) {
	repo := setupTestRepo(t)
	require.Error(t, repo.Save(resume.Position{Deck: "d", Index: -1}))
}

func TestPositionRepository_FindMissing(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Find("nope")
	var nf *resume.NotFoundError
	require.True(t, errors.As(err, &nf))
	require.Equal(t, "nope", nf.Deck)
}

func TestPositionRepository_List(t *testing.T) {
	repo := setupTestRepo(t)
	for i, deck := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Save(resume.Position{Deck: deck, Index: i, UpdatedAt: time.UnixMilli(int64(100 + i))}))
	}

	all, err := repo.List(0)
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b", "a"}, decks(all), "newest first")

	two, err := repo.List(2)
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b"}, decks(two))
}

func TestPositionRepository_Delete(t *testing.T) {
	repo := setupTestRepo(t)
	require.NoError(t, repo.Save(resume.Position{Deck: "d", Index: 1}))

	require.NoError(t, repo.Delete("d"))
	_, err := repo.Find("d")
	require.Error(t, err)

	var nf *resume.NotFoundError
	require.True(t, errors.As(repo.Delete("d"), &nf), "second delete reports not found")
}

func TestPositionRepository_LastSaveWins(t *testing.T) {
	repo := setupTestRepo(t)
	rapid.Check(t, func(rt *rapid.T) {
		deck := fmt.Sprintf("deck-%d", rapid.IntRange(0, 3).Draw(rt, "deck"))
		indexes := rapid.SliceOfN(rapid.IntRange(0, 200), 1, 10).Draw(rt, "indexes")
		for _, idx := range indexes {
			require.NoError(rt, repo.Save(resume.Position{Deck: deck, Index: idx, Count: 201}))
		}
		p, err := repo.Find(deck)
		require.NoError(rt, err)
		require.Equal(rt, indexes[len(indexes)-1], p.Index)
	})
}

func decks(ps []resume.Position) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Deck
	}
	return out
}
