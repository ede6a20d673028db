package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/tournament-brackets/models"
)

type memoryTournamentStateRepository struct {
	mu     sync.RWMutex
	states map[int]*models.TournamentState
	nextID int
}

// NewMemoryTournamentStateRepository keeps states in process memory. Values
// are cloned on the way in and out so callers never share a state.
func NewMemoryTournamentStateRepository() TournamentStateRepository {
	return &memoryTournamentStateRepository{
		states: make(map[int]*models.TournamentState),
		nextID: 1,
	}
}

func (r *memoryTournamentStateRepository) nameTaken(name string, exceptID int) bool {
	for id, s := range r.states {
		if id != exceptID && strings.EqualFold(s.Tournament.Name, name) {
			return true
		}
	}
	return false
}

func (r *memoryTournamentStateRepository) Create(ctx context.Context, state *models.TournamentState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(state.Tournament.Name, 0) {
		return ErrTournamentNameConflict
	}
	state.Tournament.ID = r.nextID
	state.Tournament.CreatedAt = time.Now().UTC()
	state.Version = 1
	r.nextID++
	r.states[state.Tournament.ID] = state.Clone()
	return nil
}

func (r *memoryTournamentStateRepository) GetByID(ctx context.Context, id int) (*models.TournamentState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.states[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return s.Clone(), nil
}

func (r *memoryTournamentStateRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Tournament, 0, len(r.states))
	for _, s := range r.states {
		if matchesFilter(s.Tournament, filter) {
			out = append(out, s.Tournament)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *memoryTournamentStateRepository) Save(ctx context.Context, state *models.TournamentState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.states[state.Tournament.ID]
	if !ok {
		return ErrTournamentNotFound
	}
	if current.Version != state.Version {
		return ErrConcurrentModification
	}
	if r.nameTaken(state.Tournament.Name, state.Tournament.ID) {
		return ErrTournamentNameConflict
	}
	state.Version++
	r.states[state.Tournament.ID] = state.Clone()
	return nil
}

func (r *memoryTournamentStateRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.states[id]; !ok {
		return ErrTournamentNotFound
	}
	delete(r.states, id)
	return nil
}
