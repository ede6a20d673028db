package brackets

import (
	"context"

	"github.com/Dosada05/tournament-brackets/models"
)

type SingleEliminationGenerator struct {
}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*models.Bracket, error) {
	if err := validateSeeds(params.EntityIDs, minSingleElimEntities, models.BracketSingleElim); err != nil {
		return nil, err
	}

	size, _ := bracketSize(len(params.EntityIDs))
	tree := buildEliminationTree(models.SectionWinners, paddedSlots(params.EntityIDs, size), firstMatchID(params))

	bracket := &models.Bracket{
		Type:       models.BracketSingleElim,
		EntityKind: params.EntityKind,
		Matches:    tree.matches,
	}
	if err := ResolveByes(bracket); err != nil {
		return nil, err
	}
	return bracket, nil
}

func firstMatchID(params GenerateBracketParams) int {
	if params.FirstMatchID < 1 {
		return 1
	}
	return params.FirstMatchID
}

// eliminationTree is a halving tree of matches. rounds[r][i] is the index in
// matches of the (i+1)-th match of round r+1.
type eliminationTree struct {
	matches []models.Match
	rounds  [][]int
	nextID  int
}

// buildEliminationTree pairs the given round-one slots as (1,2) (3,4) ... and
// links every match to its parent in the next round.
func buildEliminationTree(section models.Section, first []models.Slot, nextID int) *eliminationTree {
	tree := &eliminationTree{matches: make([]models.Match, 0, len(first)-1)}

	for count, round := len(first)/2, 1; count >= 1; count, round = count/2, round+1 {
		idx := make([]int, count)
		for i := 1; i <= count; i++ {
			m := models.Match{ID: nextID, Section: section, Round: round, Order: i}
			if round == 1 {
				m.Slot1 = first[2*i-2]
				m.Slot2 = first[2*i-1]
			}
			nextID++
			idx[i-1] = len(tree.matches)
			tree.matches = append(tree.matches, m)
		}
		tree.rounds = append(tree.rounds, idx)
	}

	for r := 0; r < len(tree.rounds)-1; r++ {
		for i, mi := range tree.rounds[r] {
			order, slot := parentPosition(i + 1)
			tree.matches[mi].ParentMatchID = tree.matches[tree.rounds[r+1][order-1]].ID
			tree.matches[mi].ParentSlot = slot
		}
	}
	tree.nextID = nextID
	return tree
}

func (t *eliminationTree) match(round, order int) *models.Match {
	return &t.matches[t.rounds[round-1][order-1]]
}

func (t *eliminationTree) roundCount() int {
	return len(t.rounds)
}

func (t *eliminationTree) roundSize(round int) int {
	return len(t.rounds[round-1])
}
