package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-brackets/models"
)

const labelComplete = "Complete"

type Summary struct {
	CurrentRound      *models.RoundKey `json:"current_round,omitempty"`
	CurrentRoundLabel string           `json:"current_round_label"`
	WinLeaderID       int              `json:"win_leader_id,omitempty"`
	WinLeaderWins     int              `json:"win_leader_wins,omitempty"`
	ChampionID        int              `json:"champion_id,omitempty"`
	TotalMatches      int              `json:"total_matches"`
	DecidedMatches    int              `json:"decided_matches"`
}

// Summarize reports the first round that still has an undecided match, the
// entity with the most wins and the champion once the final is decided.
// BYE-vs-BYE matches never get a winner and are ignored.
func Summarize(b *models.Bracket) Summary {
	s := Summary{CurrentRoundLabel: labelComplete}
	if b == nil {
		return s
	}
	s.TotalMatches = len(b.Matches)

	for _, round := range b.Rounds() {
		if s.CurrentRound != nil {
			break
		}
		for _, m := range round.Matches {
			if m.IsDecided() || (m.Slot1.Bye && m.Slot2.Bye) {
				continue
			}
			key := round.Key
			s.CurrentRound = &key
			s.CurrentRoundLabel = RoundLabel(b.Type, key)
			break
		}
	}

	wins := make(map[int]int)
	for _, m := range b.Matches {
		if !m.IsDecided() {
			continue
		}
		s.DecidedMatches++
		wins[m.Winner]++
		if wins[m.Winner] > s.WinLeaderWins {
			s.WinLeaderID, s.WinLeaderWins = m.Winner, wins[m.Winner]
		}
	}

	if final := b.Final(); final != nil && final.IsDecided() {
		s.ChampionID = final.Winner
	}
	return s
}

// RoundLabel is the display name of a round.
func RoundLabel(bracketType models.BracketType, key models.RoundKey) string {
	switch {
	case key.Section == models.SectionGrandFinals:
		return "Grand Finals"
	case bracketType != models.BracketDoubleElim:
		return fmt.Sprintf("Round %d", key.Round)
	case key.Section == models.SectionLosers:
		return fmt.Sprintf("Secondary Round %d", key.Round)
	default:
		return fmt.Sprintf("Primary Round %d", key.Round)
	}
}
