package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (TournamentStateRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresTournamentStateRepository(db), mock
}

func savedState() *models.TournamentState {
	state := models.NewTournamentState(models.Tournament{
		ID:          3,
		Name:        "Autumn Cup",
		Format:      "2v2",
		BracketType: models.BracketDoubleElim,
		Status:      models.StatusInProgress,
	})
	state.Version = 4
	return state
}

func TestPostgresSave_WritesListingColumns(t *testing.T) {
	repo, mock := newMockRepository(t)
	state := savedState()

	mock.ExpectExec("UPDATE tournaments").
		WithArgs("Autumn Cup", "2v2", "double_elim", "in_progress", sqlmock.AnyArg(), 3, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), state))
	assert.Equal(t, 5, state.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSave_StaleVersion(t *testing.T) {
	repo, mock := newMockRepository(t)
	state := savedState()

	mock.ExpectExec("UPDATE tournaments").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.Save(context.Background(), state)
	require.ErrorIs(t, err, ErrConcurrentModification)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, 4, state.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}
