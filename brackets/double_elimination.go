package brackets

import (
	"context"

	"github.com/Dosada05/tournament-brackets/models"
)

// DoubleEliminationGenerator builds a winners tree, a losers bracket fed by
// every winners match, and one grand finals match. There is no bracket reset.
//
// Losers rounds come in pairs: losers round 2k-1 halves the field, losers
// round 2k takes the survivors against the losers of winners round k+1.
// Losers round 1 pairs the losers of winners round 1.
type DoubleEliminationGenerator struct {
}

func NewDoubleEliminationGenerator() BracketGenerator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

func (g *DoubleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*models.Bracket, error) {
	if err := validateSeeds(params.EntityIDs, minDoubleElimEntities, models.BracketDoubleElim); err != nil {
		return nil, err
	}

	size, winnersRounds := bracketSize(len(params.EntityIDs))
	winners := buildEliminationTree(models.SectionWinners, paddedSlots(params.EntityIDs, size), firstMatchID(params))
	nextID := winners.nextID

	// losers[r-1] holds the matches of losers round r.
	losersRounds := 2 * (winnersRounds - 1)
	losers := make([][]models.Match, losersRounds)
	for r := 1; r <= losersRounds; r++ {
		count := size >> ((r+1)/2 + 1)
		losers[r-1] = make([]models.Match, count)
		for i := 1; i <= count; i++ {
			losers[r-1][i-1] = models.Match{ID: nextID, Section: models.SectionLosers, Round: r, Order: i}
			nextID++
		}
	}
	grandFinals := models.Match{ID: nextID, Section: models.SectionGrandFinals, Round: 1, Order: 1}

	for i := 1; i <= winners.roundSize(1); i++ {
		order, slot := parentPosition(i)
		m := winners.match(1, i)
		m.LoserMatchID = losers[0][order-1].ID
		m.LoserSlot = slot
	}
	for k := 2; k <= winnersRounds; k++ {
		dropRound := losers[2*k-3]
		for i := 1; i <= winners.roundSize(k); i++ {
			m := winners.match(k, i)
			m.LoserMatchID = dropRound[i-1].ID
			m.LoserSlot = 2
		}
	}

	for r := 1; r < losersRounds; r++ {
		next := losers[r]
		for i := range losers[r-1] {
			m := &losers[r-1][i]
			if r%2 == 1 {
				// odd rounds feed the drop-in round one to one
				m.ParentMatchID = next[i].ID
				m.ParentSlot = 1
				continue
			}
			order, slot := parentPosition(i + 1)
			m.ParentMatchID = next[order-1].ID
			m.ParentSlot = slot
		}
	}

	winnersFinal := winners.match(winners.roundCount(), 1)
	winnersFinal.ParentMatchID = grandFinals.ID
	winnersFinal.ParentSlot = 1
	losersFinal := &losers[losersRounds-1][0]
	losersFinal.ParentMatchID = grandFinals.ID
	losersFinal.ParentSlot = 2

	matches := winners.matches
	for _, round := range losers {
		matches = append(matches, round...)
	}
	matches = append(matches, grandFinals)

	bracket := &models.Bracket{
		Type:       models.BracketDoubleElim,
		EntityKind: params.EntityKind,
		Matches:    matches,
	}
	if err := ResolveByes(bracket); err != nil {
		return nil, err
	}
	return bracket, nil
}
