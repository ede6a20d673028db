package services

import (
	"context"
	"errors"

	"github.com/Dosada05/tournament-brackets/events"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/teams"
)

type TeamNameInput struct {
	Name string `json:"name"`
}

type AssignInput struct {
	EntrantID int `json:"entrant_id"`
	TeamID    int `json:"team_id"`
}

type SwapMembersInput struct {
	EntrantA int `json:"entrant_a"`
	EntrantB int `json:"entrant_b"`
}

type UnassignInput struct {
	EntrantID int `json:"entrant_id"`
}

type SubstituteInput struct {
	TeamID    int `json:"team_id"`
	LeavingID int `json:"leaving_id"`
	StandbyID int `json:"standby_id"`
}

type TeamService interface {
	Get(ctx context.Context, tournamentID int) (*TeamsSnapshot, error)
	AddTeam(ctx context.Context, tournamentID int, input TeamNameInput) (*TeamsSnapshot, error)
	RenameTeam(ctx context.Context, tournamentID, teamID int, input TeamNameInput) (*TeamsSnapshot, error)
	RemoveTeam(ctx context.Context, tournamentID, teamID int) (*TeamsSnapshot, error)
	Assign(ctx context.Context, tournamentID int, input AssignInput) (*TeamsSnapshot, error)
	Swap(ctx context.Context, tournamentID int, input SwapMembersInput) (*TeamsSnapshot, error)
	Unassign(ctx context.Context, tournamentID int, input UnassignInput) (*TeamsSnapshot, error)
	Substitute(ctx context.Context, tournamentID int, input SubstituteInput) (*TeamsSnapshot, error)
	RegenerateAll(ctx context.Context, tournamentID int) (*TeamsSnapshot, error)
}

type teamService struct {
	store *Store
}

func NewTeamService(store *Store) TeamService {
	return &teamService{store: store}
}

func (s *teamService) apply(ctx context.Context, tournamentID int, fn func(e *teams.Engine) error, also ...string) (*TeamsSnapshot, error) {
	state, err := s.store.mutate(ctx, tournamentID, func(state *models.TournamentState) error {
		engine, err := teams.NewEngine(state)
		if err != nil {
			return err
		}
		return fn(engine)
	})
	if err != nil {
		return nil, err
	}
	s.store.announce(ctx, state, append([]string{events.TypeTeamsUpdated}, also...)...)
	return teamsSnapshot(state), nil
}

func (s *teamService) Get(ctx context.Context, tournamentID int) (*TeamsSnapshot, error) {
	state, err := s.store.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if _, err := teams.NewEngine(state); err != nil {
		return nil, err
	}
	return teamsSnapshot(state), nil
}

func (s *teamService) AddTeam(ctx context.Context, tournamentID int, input TeamNameInput) (*TeamsSnapshot, error) {
	return s.apply(ctx, tournamentID, func(e *teams.Engine) error {
		_, err := e.AddTeam(input.Name)
		return err
	})
}

func (s *teamService) RenameTeam(ctx context.Context, tournamentID, teamID int, input TeamNameInput) (*TeamsSnapshot, error) {
	return s.apply(ctx, tournamentID, func(e *teams.Engine) error {
		_, err := e.RenameTeam(teamID, input.Name)
		return err
	}, events.TypeBracketUpdated)
}

func (s *teamService) RemoveTeam(ctx context.Context, tournamentID, teamID int) (*TeamsSnapshot, error) {
	return s.apply(ctx, tournamentID, func(e *teams.Engine) error {
		return e.RemoveTeam(teamID)
	})
}

func (s *teamService) Assign(ctx context.Context, tournamentID int, input AssignInput) (*TeamsSnapshot, error) {
	return s.apply(ctx, tournamentID, func(e *teams.Engine) error {
		_, err := e.Assign(input.EntrantID, input.TeamID)
		return err
	}, events.TypeRosterUpdated)
}

func (s *teamService) Swap(ctx context.Context, tournamentID int, input SwapMembersInput) (*TeamsSnapshot, error) {
	return s.apply(ctx, tournamentID, func(e *teams.Engine) error {
		return e.Swap(input.EntrantA, input.EntrantB)
	}, events.TypeRosterUpdated)
}

func (s *teamService) Unassign(ctx context.Context, tournamentID int, input UnassignInput) (*TeamsSnapshot, error) {
	return s.apply(ctx, tournamentID, func(e *teams.Engine) error {
		return e.Unassign(input.EntrantID)
	}, events.TypeRosterUpdated)
}

func (s *teamService) Substitute(ctx context.Context, tournamentID int, input SubstituteInput) (*TeamsSnapshot, error) {
	return s.apply(ctx, tournamentID, func(e *teams.Engine) error {
		_, err := e.Substitute(input.TeamID, input.LeavingID, input.StandbyID)
		return err
	}, events.TypeRosterUpdated, events.TypeBracketUpdated)
}

// RegenerateAll rebuilds the teams from the lists and seeds a fresh bracket
// from them. With too few teams for the bracket type no bracket is left.
func (s *teamService) RegenerateAll(ctx context.Context, tournamentID int) (*TeamsSnapshot, error) {
	state, err := s.store.mutate(ctx, tournamentID, func(state *models.TournamentState) error {
		engine, err := teams.NewEngine(state)
		if err != nil {
			return err
		}
		if _, err := engine.RegenerateAll(); err != nil {
			return err
		}
		err = buildBracket(ctx, state, GenerateBracketInput{})
		if errors.Is(err, models.ErrInsufficientEntrants) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	s.store.announce(ctx, state, events.TypeTeamsUpdated, events.TypeRosterUpdated, events.TypeBracketUpdated)
	return teamsSnapshot(state), nil
}
