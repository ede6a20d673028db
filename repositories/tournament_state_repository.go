package repositories

import (
	"context"
	"fmt"

	"github.com/Dosada05/tournament-brackets/models"
)

// Repository errors wrap the engine kinds so callers can map them without
// knowing the storage backend.
var (
	ErrTournamentNotFound     = fmt.Errorf("%w: tournament", models.ErrNotFound)
	ErrTournamentNameConflict = fmt.Errorf("%w: tournament name already taken", models.ErrConflict)
	ErrConcurrentModification = fmt.Errorf("%w: concurrent modification, reload and retry", models.ErrConflict)
	ErrTournamentInvalid      = fmt.Errorf("%w: tournament violates a storage constraint", models.ErrValidation)
)

type ListTournamentsFilter struct {
	Status *models.TournamentStatus
	Limit  int
	Offset int
}

// TournamentStateRepository stores the aggregate of one tournament as a unit.
// Save is a compare-and-swap on Version: it fails with
// ErrConcurrentModification when the stored version moved on since the state
// was loaded, and bumps state.Version on success.
type TournamentStateRepository interface {
	Create(ctx context.Context, state *models.TournamentState) error
	GetByID(ctx context.Context, id int) (*models.TournamentState, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	Save(ctx context.Context, state *models.TournamentState) error
	Delete(ctx context.Context, id int) error
}

func matchesFilter(t models.Tournament, filter ListTournamentsFilter) bool {
	return filter.Status == nil || t.Status == *filter.Status
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
