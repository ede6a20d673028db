package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/events"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/repositories"
	"golang.org/x/sync/errgroup"
)

const listLoadConcurrency = 8

type CreateTournamentInput struct {
	Name        string             `json:"name"`
	Format      string             `json:"format"`
	BracketType models.BracketType `json:"bracket_type,omitempty"`
}

// UpdateTournamentInput carries the fields a PATCH may change. Nil fields
// are left alone.
type UpdateTournamentInput struct {
	Name   *string `json:"name,omitempty"`
	Format *string `json:"format,omitempty"`
}

type CloneTournamentInput struct {
	Name   string `json:"name,omitempty"`
	Format string `json:"format,omitempty"`
}

type ListTournamentsInput struct {
	Status *models.TournamentStatus
	Limit  int
	Offset int
}

// TournamentView is a tournament with a few counters taken from its aggregate.
type TournamentView struct {
	models.Tournament
	Participants      int    `json:"participants"`
	Standby           int    `json:"standby"`
	Teams             int    `json:"teams"`
	HasBracket        bool   `json:"has_bracket"`
	CurrentRoundLabel string `json:"current_round_label,omitempty"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	Get(ctx context.Context, id int) (*TournamentView, error)
	List(ctx context.Context, input ListTournamentsInput) ([]TournamentView, error)
	Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error)
	Clone(ctx context.Context, id int, input CloneTournamentInput) (*models.Tournament, error)
	UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error
}

type tournamentService struct {
	store *Store
}

func NewTournamentService(store *Store) TournamentService {
	return &tournamentService{store: store}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if models.ParseFormatCapacity(input.Format) == 0 {
		return nil, fmt.Errorf("%w: got %q", ErrTournamentInvalidFormat, input.Format)
	}
	bracketType := input.BracketType
	if bracketType == "" {
		bracketType = models.BracketSingleElim
	}
	if !bracketType.Valid() {
		return nil, ErrTournamentInvalidBracketType
	}

	state := models.NewTournamentState(models.Tournament{
		Name:        name,
		Format:      strings.TrimSpace(input.Format),
		BracketType: bracketType,
		Status:      models.StatusOpen,
	})
	if err := s.store.repo.Create(ctx, state); err != nil {
		return nil, err
	}

	s.store.logger.InfoContext(ctx, "tournament created",
		slog.Int("tournament_id", state.Tournament.ID),
		slog.String("format", state.Tournament.Format))
	s.store.publish(ctx, events.TypeTournamentUpdated, state.Tournament.ID, state.Tournament)
	return &state.Tournament, nil
}

// Update renames the tournament and/or changes its format. A new format
// invalidates the teams, so they are discarded together with the bracket.
func (s *tournamentService) Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error) {
	var name, format string
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTournamentNameRequired
		}
	}
	if input.Format != nil {
		format = strings.TrimSpace(*input.Format)
		if models.ParseFormatCapacity(format) == 0 {
			return nil, fmt.Errorf("%w: got %q", ErrTournamentInvalidFormat, *input.Format)
		}
	}

	formatChanged := false
	state, err := s.store.mutate(ctx, id, func(state *models.TournamentState) error {
		if name != "" {
			state.Tournament.Name = name
		}
		if format != "" && format != state.Tournament.Format {
			state.Tournament.Format = format
			state.Teams = []models.Team{}
			state.Bracket = nil
			formatChanged = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if formatChanged {
		s.store.logger.InfoContext(ctx, "tournament format changed, teams and bracket discarded",
			slog.Int("tournament_id", id),
			slog.String("format", state.Tournament.Format))
		s.store.announce(ctx, state, events.TypeTeamsUpdated, events.TypeBracketUpdated)
	}
	s.store.publish(ctx, events.TypeTournamentUpdated, id, state.Tournament)
	return &state.Tournament, nil
}

// Clone creates an open tournament holding a copy of the source's lists.
// Teams and bracket are not copied.
func (s *tournamentService) Clone(ctx context.Context, id int, input CloneTournamentInput) (*models.Tournament, error) {
	src, err := s.store.load(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = src.Tournament.Name + " (copy)"
	}
	format := strings.TrimSpace(input.Format)
	if format == "" {
		format = src.Tournament.Format
	}
	if models.ParseFormatCapacity(format) == 0 {
		return nil, fmt.Errorf("%w: got %q", ErrTournamentInvalidFormat, input.Format)
	}

	state := models.NewTournamentState(models.Tournament{
		Name:        name,
		Format:      format,
		BracketType: src.Tournament.BracketType,
		Status:      models.StatusOpen,
	})
	state.Entrants = append(state.Entrants, src.Entrants...)
	state.NextEntrantID = src.NextEntrantID
	if err := s.store.repo.Create(ctx, state); err != nil {
		return nil, err
	}

	s.store.logger.InfoContext(ctx, "tournament cloned",
		slog.Int("source_id", id),
		slog.Int("tournament_id", state.Tournament.ID),
		slog.Int("entrants", len(state.Entrants)))
	s.store.publish(ctx, events.TypeTournamentUpdated, state.Tournament.ID, state.Tournament)
	return &state.Tournament, nil
}

func tournamentView(state *models.TournamentState) TournamentView {
	v := TournamentView{
		Tournament:   state.Tournament,
		Participants: len(state.List(models.ListParticipant)),
		Standby:      len(state.List(models.ListStandby)),
		Teams:        len(state.Teams),
		HasBracket:   state.Bracket != nil,
	}
	if state.Bracket != nil {
		v.CurrentRoundLabel = brackets.Summarize(state.Bracket).CurrentRoundLabel
	}
	return v
}

func (s *tournamentService) Get(ctx context.Context, id int) (*TournamentView, error) {
	state, err := s.store.load(ctx, id)
	if err != nil {
		return nil, err
	}
	v := tournamentView(state)
	return &v, nil
}

func (s *tournamentService) List(ctx context.Context, input ListTournamentsInput) ([]TournamentView, error) {
	tournaments, err := s.store.repo.List(ctx, repositories.ListTournamentsFilter{
		Status: input.Status,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, err
	}

	views := make([]TournamentView, len(tournaments))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(listLoadConcurrency)
	for i, t := range tournaments {
		i, t := i, t
		g.Go(func() error {
			state, err := s.store.load(gCtx, t.ID)
			if err != nil {
				return fmt.Errorf("load tournament %d: %w", t.ID, err)
			}
			views[i] = tournamentView(state)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowedTransitions := map[models.TournamentStatus][]models.TournamentStatus{
		models.StatusOpen:       {models.StatusClosed, models.StatusCanceled},
		models.StatusClosed:     {models.StatusOpen, models.StatusCanceled},
		models.StatusInProgress: {models.StatusCanceled},
		models.StatusCompleted:  {models.StatusCanceled},
		models.StatusCanceled:   {},
	}
	for _, allowedNextStatus := range allowedTransitions[current] {
		if next == allowedNextStatus {
			return true
		}
	}
	return false
}

func validStatus(status models.TournamentStatus) bool {
	switch status {
	case models.StatusOpen, models.StatusClosed, models.StatusInProgress, models.StatusCompleted, models.StatusCanceled:
		return true
	}
	return false
}

// UpdateStatus applies a manual status change. in_progress and completed
// follow the bracket and cannot be set by hand.
func (s *tournamentService) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error) {
	if !validStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrTournamentInvalidStatus, status)
	}
	state, err := s.store.mutate(ctx, id, func(state *models.TournamentState) error {
		current := state.Tournament.Status
		if !isValidStatusTransition(current, status) {
			return fmt.Errorf("%w: from %s to %s", ErrTournamentInvalidStatusTransition, current, status)
		}
		state.Tournament.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &state.Tournament, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	release, err := s.store.locks.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	if err := s.store.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.store.logger.InfoContext(ctx, "tournament deleted", slog.Int("tournament_id", id))
	s.store.publish(ctx, events.TypeTournamentUpdated, id, map[string]interface{}{"id": id, "deleted": true})
	return nil
}
