package brackets

import "github.com/Dosada05/tournament-brackets/models"

// InferredAdvancement is a display hint: the winner of SourceMatchID feeds
// Slot of MatchID, which has no winner yet. It is derived on read and never
// stored or consulted by the advancement rules.
type InferredAdvancement struct {
	MatchID       int `json:"match_id"`
	Slot          int `json:"slot"`
	EntityID      int `json:"entity_id"`
	SourceMatchID int `json:"source_match_id"`
}

func InferredAdvancements(b *models.Bracket) []InferredAdvancement {
	if b == nil {
		return nil
	}
	var out []InferredAdvancement
	for i := range b.Matches {
		src := &b.Matches[i]
		if !src.IsDecided() || !src.HasParent() {
			continue
		}
		parent := b.Match(src.ParentMatchID)
		if parent == nil || parent.IsDecided() {
			continue
		}
		out = append(out, InferredAdvancement{
			MatchID:       parent.ID,
			Slot:          src.ParentSlot,
			EntityID:      src.Winner,
			SourceMatchID: src.ID,
		})
	}
	return out
}
