package brackets

import "github.com/Dosada05/tournament-brackets/models"

// ResolveByes decides every undecided match that pits a real entity against a
// BYE and pushes BYEs out of BYE-vs-BYE matches, until nothing changes. It is
// run after generation and after every advancement so a bye never waits for a
// manual result.
func ResolveByes(b *models.Bracket) error {
	for {
		changed := false
		for i := range b.Matches {
			m := &b.Matches[i]
			if m.IsDecided() {
				continue
			}

			switch {
			case m.Slot1.IsReal() && m.Slot2.Bye:
				m.Winner = m.Slot1.EntityID
			case m.Slot2.IsReal() && m.Slot1.Bye:
				m.Winner = m.Slot2.EntityID
			case m.Slot1.Bye && m.Slot2.Bye:
				if cascadeBye(b, m) {
					changed = true
				}
				continue
			default:
				continue
			}

			if err := propagate(b, m); err != nil {
				return err
			}
			changed = true
		}
		if !changed {
			return nil
		}
	}
}

// cascadeBye fills the empty downstream slots of a BYE-vs-BYE match with BYE.
func cascadeBye(b *models.Bracket, m *models.Match) bool {
	wrote := false
	for _, w := range byeOutputs(m) {
		t := b.Match(w.MatchID)
		if t == nil || !t.SlotAt(w.Slot).IsEmpty() {
			continue
		}
		t.SetSlotAt(w.Slot, models.ByeSlot)
		m.Writes = append(m.Writes, w)
		wrote = true
	}
	return wrote
}

func byeOutputs(m *models.Match) []models.SlotWrite {
	var out []models.SlotWrite
	if m.ParentMatchID != 0 {
		out = append(out, models.SlotWrite{MatchID: m.ParentMatchID, Slot: m.ParentSlot, Value: models.ByeSlot})
	}
	if m.LoserMatchID != 0 {
		out = append(out, models.SlotWrite{MatchID: m.LoserMatchID, Slot: m.LoserSlot, Value: models.ByeSlot})
	}
	return out
}

func hasBye(m *models.Match) bool {
	return m.Slot1.Bye || m.Slot2.Bye
}
