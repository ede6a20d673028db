package services

import (
	"context"

	"github.com/Dosada05/tournament-brackets/events"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/roster"
)

type AddEntrantInput struct {
	DisplayName string `json:"display_name"`
}

type AddRegistrationInput struct {
	DisplayName string          `json:"display_name"`
	ExternalRef string          `json:"external_ref"`
	ListType    models.ListType `json:"list_type"`
}

// RosterService runs roster commands. Every command returns the roster as it
// is after the change.
type RosterService interface {
	Get(ctx context.Context, tournamentID int) (*RosterSnapshot, error)
	Add(ctx context.Context, tournamentID int, list models.ListType, input AddEntrantInput) (*RosterSnapshot, error)
	AddExternal(ctx context.Context, tournamentID int, input AddRegistrationInput) (*RosterSnapshot, error)
	Remove(ctx context.Context, tournamentID, entrantID int, view models.ListType) (*RosterSnapshot, error)
	RemoveExternal(ctx context.Context, tournamentID int, ref string) (*RosterSnapshot, error)
	Rename(ctx context.Context, tournamentID, entrantID int, displayName string) (*RosterSnapshot, error)
	Reorder(ctx context.Context, tournamentID int, list models.ListType, entrantIDs []int) (*RosterSnapshot, error)
	Move(ctx context.Context, tournamentID, entrantID int, target models.ListType) (*RosterSnapshot, error)
	SetEligible(ctx context.Context, tournamentID, entrantID int, eligible bool) (*RosterSnapshot, error)
}

type rosterService struct {
	store *Store
}

func NewRosterService(store *Store) RosterService {
	return &rosterService{store: store}
}

func (s *rosterService) apply(ctx context.Context, tournamentID int, fn func(r *roster.Store) error, also ...string) (*RosterSnapshot, error) {
	state, err := s.store.mutate(ctx, tournamentID, func(state *models.TournamentState) error {
		return fn(roster.NewStore(state))
	})
	if err != nil {
		return nil, err
	}
	s.store.announce(ctx, state, append([]string{events.TypeRosterUpdated}, also...)...)
	return rosterSnapshot(state), nil
}

func (s *rosterService) Get(ctx context.Context, tournamentID int) (*RosterSnapshot, error) {
	state, err := s.store.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return rosterSnapshot(state), nil
}

func (s *rosterService) Add(ctx context.Context, tournamentID int, list models.ListType, input AddEntrantInput) (*RosterSnapshot, error) {
	return s.apply(ctx, tournamentID, func(r *roster.Store) error {
		_, err := r.Add(list, input.DisplayName)
		return err
	})
}

func (s *rosterService) AddExternal(ctx context.Context, tournamentID int, input AddRegistrationInput) (*RosterSnapshot, error) {
	list := input.ListType
	if list == "" {
		list = models.ListParticipant
	}
	return s.apply(ctx, tournamentID, func(r *roster.Store) error {
		_, err := r.AddExternal(list, input.DisplayName, input.ExternalRef)
		return err
	})
}

func (s *rosterService) Remove(ctx context.Context, tournamentID, entrantID int, view models.ListType) (*RosterSnapshot, error) {
	return s.apply(ctx, tournamentID, func(r *roster.Store) error {
		return r.Remove(entrantID, view)
	}, events.TypeTeamsUpdated)
}

func (s *rosterService) RemoveExternal(ctx context.Context, tournamentID int, ref string) (*RosterSnapshot, error) {
	return s.apply(ctx, tournamentID, func(r *roster.Store) error {
		return r.RemoveExternal(ref)
	}, events.TypeTeamsUpdated)
}

func (s *rosterService) Rename(ctx context.Context, tournamentID, entrantID int, displayName string) (*RosterSnapshot, error) {
	return s.apply(ctx, tournamentID, func(r *roster.Store) error {
		_, err := r.Rename(entrantID, displayName)
		return err
	}, events.TypeTeamsUpdated, events.TypeBracketUpdated)
}

func (s *rosterService) Reorder(ctx context.Context, tournamentID int, list models.ListType, entrantIDs []int) (*RosterSnapshot, error) {
	return s.apply(ctx, tournamentID, func(r *roster.Store) error {
		return r.Reorder(list, entrantIDs)
	})
}

func (s *rosterService) Move(ctx context.Context, tournamentID, entrantID int, target models.ListType) (*RosterSnapshot, error) {
	return s.apply(ctx, tournamentID, func(r *roster.Store) error {
		_, err := r.Move(entrantID, target)
		return err
	}, events.TypeTeamsUpdated)
}

func (s *rosterService) SetEligible(ctx context.Context, tournamentID, entrantID int, eligible bool) (*RosterSnapshot, error) {
	return s.apply(ctx, tournamentID, func(r *roster.Store) error {
		_, err := r.SetEligible(entrantID, eligible)
		return err
	})
}
