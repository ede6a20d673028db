package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/events"
	"github.com/Dosada05/tournament-brackets/models"
)

// SlotInput is the content written into a slot: an entity, a BYE, or
// nothing at all to empty the slot.
type SlotInput struct {
	EntityID int  `json:"entity_id,omitempty"`
	Bye      bool `json:"bye,omitempty"`
}

type SlotRef struct {
	MatchID int `json:"match_id"`
	Slot    int `json:"slot"`
}

type SwapSlotsInput struct {
	A SlotRef `json:"a"`
	B SlotRef `json:"b"`
}

type WinnerInput struct {
	Slot int `json:"slot"`
}

type DropoutInput struct {
	VacatedSlot int `json:"vacated_slot"`
}

// MatchService runs the bracket advancement commands.
type MatchService interface {
	SetSlot(ctx context.Context, tournamentID, matchID, slot int, input SlotInput) (*BracketSnapshot, error)
	SwapSlots(ctx context.Context, tournamentID int, input SwapSlotsInput) (*BracketSnapshot, error)
	SetWinner(ctx context.Context, tournamentID, matchID int, input WinnerInput) (*BracketSnapshot, error)
	AdvanceOnDropout(ctx context.Context, tournamentID, matchID int, input DropoutInput) (*BracketSnapshot, error)
	SwapWinner(ctx context.Context, tournamentID, matchID int) (*BracketSnapshot, error)
	ClearWinner(ctx context.Context, tournamentID, matchID int) (*BracketSnapshot, error)
}

type matchService struct {
	store *Store
}

func NewMatchService(store *Store) MatchService {
	return &matchService{store: store}
}

func (s *matchService) apply(ctx context.Context, tournamentID int, op string, matchID int, fn func(state *models.TournamentState) error) (*BracketSnapshot, error) {
	state, err := s.store.mutate(ctx, tournamentID, func(state *models.TournamentState) error {
		if state.Bracket == nil {
			return ErrBracketNotGenerated
		}
		return fn(state)
	})
	if err != nil {
		return nil, err
	}

	s.store.logger.DebugContext(ctx, "bracket updated",
		slog.Int("tournament_id", tournamentID),
		slog.String("op", op),
		slog.Int("match_id", matchID))

	snap := bracketSnapshot(state)
	s.store.publish(ctx, events.TypeBracketUpdated, tournamentID, snap)
	return snap, nil
}

// slotValue checks that the entity exists for the kind of ids the bracket
// holds and turns the input into a slot.
func slotValue(state *models.TournamentState, input SlotInput) (models.Slot, error) {
	switch {
	case input.Bye && input.EntityID != 0:
		return models.Slot{}, fmt.Errorf("%w: a slot holds either an entity or a BYE", models.ErrValidation)
	case input.EntityID < 0:
		return models.Slot{}, fmt.Errorf("%w: entity id must be positive", models.ErrValidation)
	case input.Bye:
		return models.ByeSlot, nil
	case input.EntityID == 0:
		return models.Slot{}, nil
	}

	if state.Bracket.EntityKind == models.EntityTeam {
		if state.Team(input.EntityID) == nil {
			return models.Slot{}, fmt.Errorf("%w: team %d", models.ErrNotFound, input.EntityID)
		}
	} else if state.Entrant(input.EntityID) == nil {
		return models.Slot{}, fmt.Errorf("%w: entrant %d", models.ErrNotFound, input.EntityID)
	}
	return models.EntitySlot(input.EntityID), nil
}

func (s *matchService) SetSlot(ctx context.Context, tournamentID, matchID, slot int, input SlotInput) (*BracketSnapshot, error) {
	return s.apply(ctx, tournamentID, "set_slot", matchID, func(state *models.TournamentState) error {
		value, err := slotValue(state, input)
		if err != nil {
			return err
		}
		return brackets.SetSlot(state.Bracket, matchID, slot, value)
	})
}

func (s *matchService) SwapSlots(ctx context.Context, tournamentID int, input SwapSlotsInput) (*BracketSnapshot, error) {
	return s.apply(ctx, tournamentID, "swap_slots", input.A.MatchID, func(state *models.TournamentState) error {
		return brackets.SwapSlots(state.Bracket, input.A.MatchID, input.A.Slot, input.B.MatchID, input.B.Slot)
	})
}

func (s *matchService) SetWinner(ctx context.Context, tournamentID, matchID int, input WinnerInput) (*BracketSnapshot, error) {
	return s.apply(ctx, tournamentID, "set_winner", matchID, func(state *models.TournamentState) error {
		return brackets.SetWinner(state.Bracket, matchID, input.Slot)
	})
}

func (s *matchService) AdvanceOnDropout(ctx context.Context, tournamentID, matchID int, input DropoutInput) (*BracketSnapshot, error) {
	return s.apply(ctx, tournamentID, "dropout", matchID, func(state *models.TournamentState) error {
		return brackets.AdvanceOnDropout(state.Bracket, matchID, input.VacatedSlot)
	})
}

func (s *matchService) SwapWinner(ctx context.Context, tournamentID, matchID int) (*BracketSnapshot, error) {
	return s.apply(ctx, tournamentID, "swap_winner", matchID, func(state *models.TournamentState) error {
		return brackets.SwapWinner(state.Bracket, matchID)
	})
}

func (s *matchService) ClearWinner(ctx context.Context, tournamentID, matchID int) (*BracketSnapshot, error) {
	return s.apply(ctx, tournamentID, "clear_winner", matchID, func(state *models.TournamentState) error {
		return brackets.ClearWinner(state.Bracket, matchID)
	})
}
