package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-brackets/events"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/repositories"
)

// Store is the shared core of the services: it loads a tournament aggregate,
// applies one command under the tournament's lock, saves it and announces the
// change.
type Store struct {
	repo      repositories.TournamentStateRepository
	locks     *tournamentLocks
	publisher events.Publisher
	logger    *slog.Logger
}

func NewStore(repo repositories.TournamentStateRepository, publisher events.Publisher, logger *slog.Logger) *Store {
	if publisher == nil {
		publisher = events.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		repo:      repo,
		locks:     newTournamentLocks(),
		publisher: publisher,
		logger:    logger,
	}
}

// load returns a private copy of the aggregate without taking the lock.
func (s *Store) load(ctx context.Context, id int) (*models.TournamentState, error) {
	return s.repo.GetByID(ctx, id)
}

// mutate runs fn on a fresh copy of the aggregate while holding the
// tournament's lock. Nothing is stored when fn fails.
func (s *Store) mutate(ctx context.Context, id int, fn func(state *models.TournamentState) error) (*models.TournamentState, error) {
	release, err := s.locks.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	state, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if state.Tournament.Status == models.StatusCanceled {
		return nil, fmt.Errorf("%w: tournament %d is canceled", models.ErrPrecondition, id)
	}
	status := state.Tournament.Status

	if err := fn(state); err != nil {
		return nil, err
	}
	syncLifecycle(state)

	if err := s.repo.Save(ctx, state); err != nil {
		return nil, err
	}

	if state.Tournament.Status != status {
		s.logger.InfoContext(ctx, "tournament status changed",
			slog.Int("tournament_id", id),
			slog.String("from", string(status)),
			slog.String("to", string(state.Tournament.Status)))
		s.publish(ctx, events.TypeTournamentUpdated, id, state.Tournament)
	}
	return state, nil
}

func (s *Store) publish(ctx context.Context, eventType string, tournamentID int, payload interface{}) {
	err := s.publisher.Publish(ctx, events.Event{Type: eventType, TournamentID: tournamentID, Payload: payload})
	if err != nil {
		s.logger.WarnContext(ctx, "event not delivered",
			slog.String("type", eventType),
			slog.Int("tournament_id", tournamentID),
			slog.Any("error", err))
	}
}

// syncLifecycle derives the bracket-driven statuses: a bracket puts the
// tournament in progress, a decided final completes it, and losing the
// bracket sends it back to closed.
func syncLifecycle(state *models.TournamentState) {
	t := &state.Tournament
	if t.Status == models.StatusCanceled {
		return
	}
	final := state.Bracket.Final()
	switch {
	case state.Bracket == nil:
		if t.Status == models.StatusInProgress || t.Status == models.StatusCompleted {
			t.Status = models.StatusClosed
		}
	case final != nil && final.IsDecided():
		t.Status = models.StatusCompleted
	default:
		t.Status = models.StatusInProgress
	}
}

// announce publishes the snapshots a committed command may have changed.
func (s *Store) announce(ctx context.Context, state *models.TournamentState, eventTypes ...string) {
	id := state.Tournament.ID
	for _, eventType := range eventTypes {
		switch eventType {
		case events.TypeRosterUpdated:
			s.publish(ctx, eventType, id, rosterSnapshot(state))
		case events.TypeTeamsUpdated:
			if state.Tournament.IsTeamFormat() {
				s.publish(ctx, eventType, id, teamsSnapshot(state))
			}
		case events.TypeBracketUpdated:
			s.publish(ctx, eventType, id, bracketSnapshot(state))
		}
	}
}
