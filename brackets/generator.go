package brackets

import (
	"context"
	"fmt"

	"github.com/Dosada05/tournament-brackets/models"
)

const (
	minSingleElimEntities = 2
	minDoubleElimEntities = 8
)

// GenerateBracketParams carries the ordered seeds of a bracket. Seed order is
// kept as given; byes are appended after the last seed.
type GenerateBracketParams struct {
	EntityIDs    []int
	EntityKind   models.EntityKind
	FirstMatchID int
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) (*models.Bracket, error)

	GetName() string
}

func NewGenerator(bracketType models.BracketType) (BracketGenerator, error) {
	switch bracketType {
	case models.BracketSingleElim:
		return NewSingleEliminationGenerator(), nil
	case models.BracketDoubleElim:
		return NewDoubleEliminationGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: unknown bracket type %q", models.ErrValidation, bracketType)
	}
}

func validateSeeds(ids []int, min int, bracketType models.BracketType) error {
	if len(ids) < min {
		return fmt.Errorf("%w: %s needs at least %d entrants, got %d",
			models.ErrInsufficientEntrants, bracketType, min, len(ids))
	}
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: invalid entity id %d", models.ErrValidation, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: entity %d seeded twice", models.ErrValidation, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// bracketSize returns the power of two the seeds are padded to and the number
// of winners rounds.
func bracketSize(n int) (size, rounds int) {
	size = 1
	for size < n {
		size <<= 1
		rounds++
	}
	return size, rounds
}

// paddedSlots turns seeds into round-one slots with trailing byes.
func paddedSlots(ids []int, size int) []models.Slot {
	slots := make([]models.Slot, size)
	for i := range slots {
		if i < len(ids) {
			slots[i] = models.EntitySlot(ids[i])
		} else {
			slots[i] = models.ByeSlot
		}
	}
	return slots
}

// parentPosition maps the i-th (1-based) match of a round onto its match
// index in the next round and the slot its winner fills.
func parentPosition(i int) (order, slot int) {
	return (i + 1) / 2, ((i - 1) % 2) + 1
}
