package repositories

import (
	"context"
	"testing"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTournamentState(name string) *models.TournamentState {
	return models.NewTournamentState(models.Tournament{
		Name:        name,
		Format:      "1v1",
		BracketType: models.BracketSingleElim,
		Status:      models.StatusOpen,
	})
}

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTournamentStateRepository()

	s := newTournamentState("Cup")
	require.NoError(t, repo.Create(ctx, s))
	assert.Equal(t, 1, s.Tournament.ID)
	assert.Equal(t, 1, s.Version)
	assert.False(t, s.Tournament.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, s.Tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	got.Tournament.Name = "changed"
	again, err := repo.GetByID(ctx, s.Tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cup", again.Tournament.Name, "reads are copies")

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, repo.Create(ctx, newTournamentState("cup")), ErrTournamentNameConflict)
}

func TestMemoryRepository_SaveVersionCheck(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTournamentStateRepository()
	s := newTournamentState("Cup")
	require.NoError(t, repo.Create(ctx, s))

	first, _ := repo.GetByID(ctx, s.Tournament.ID)
	second, _ := repo.GetByID(ctx, s.Tournament.ID)

	first.Tournament.Status = models.StatusClosed
	require.NoError(t, repo.Save(ctx, first))
	assert.Equal(t, 2, first.Version)

	err := repo.Save(ctx, second)
	require.ErrorIs(t, err, ErrConcurrentModification)
	assert.ErrorIs(t, err, models.ErrConflict)

	stored, _ := repo.GetByID(ctx, s.Tournament.ID)
	assert.Equal(t, models.StatusClosed, stored.Tournament.Status)
}

func TestMemoryRepository_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTournamentStateRepository()
	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Create(ctx, newTournamentState(name)))
	}
	b, _ := repo.GetByID(ctx, 2)
	b.Tournament.Status = models.StatusCompleted
	require.NoError(t, repo.Save(ctx, b))

	all, err := repo.List(ctx, ListTournamentsFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "C", all[0].Name)

	completed := models.StatusCompleted
	done, err := repo.List(ctx, ListTournamentsFilter{Status: &completed})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "B", done[0].Name)

	page, err := repo.List(ctx, ListTournamentsFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "B", page[0].Name)

	require.NoError(t, repo.Delete(ctx, 1))
	assert.ErrorIs(t, repo.Delete(ctx, 1), ErrTournamentNotFound)
}
