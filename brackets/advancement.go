package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-brackets/models"
)

// The functions in this file are the only way a generated bracket changes.
// Each one works on a copy of the match set and replaces b.Matches only when
// the whole operation succeeded, so a rejected command leaves b untouched.

func apply(b *models.Bracket, fn func(work *models.Bracket) error) error {
	if b == nil {
		return fmt.Errorf("%w: no bracket has been generated", models.ErrPrecondition)
	}
	work := b.Clone()
	if err := fn(work); err != nil {
		return err
	}
	b.Matches = work.Matches
	return nil
}

func findMatch(b *models.Bracket, id int) (*models.Match, error) {
	m := b.Match(id)
	if m == nil {
		return nil, fmt.Errorf("%w: match %d", models.ErrNotFound, id)
	}
	return m, nil
}

func checkSlot(slot int) error {
	if !models.ValidSlot(slot) {
		return fmt.Errorf("%w: slot must be 1 or 2, got %d", models.ErrValidation, slot)
	}
	return nil
}

// SetSlot places value into a slot. Decided matches accept it too; their
// winner is left as it is.
func SetSlot(b *models.Bracket, matchID, slot int, value models.Slot) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	return apply(b, func(work *models.Bracket) error {
		m, err := findMatch(work, matchID)
		if err != nil {
			return err
		}
		m.SetSlotAt(slot, value)
		return nil
	})
}

// SwapSlots exchanges the contents of two slots, possibly of the same match.
// Both matches must be undecided.
func SwapSlots(b *models.Bracket, matchA, slotA, matchB, slotB int) error {
	if err := checkSlot(slotA); err != nil {
		return err
	}
	if err := checkSlot(slotB); err != nil {
		return err
	}
	if matchA == matchB && slotA == slotB {
		return fmt.Errorf("%w: cannot swap slot %d of match %d with itself", models.ErrNoOp, slotA, matchA)
	}
	return apply(b, func(work *models.Bracket) error {
		ma, err := findMatch(work, matchA)
		if err != nil {
			return err
		}
		mb, err := findMatch(work, matchB)
		if err != nil {
			return err
		}
		for _, m := range []*models.Match{ma, mb} {
			if m.IsDecided() {
				return fmt.Errorf("%w: match %d is decided; clear its winner before moving slots", models.ErrPrecondition, m.ID)
			}
		}
		va, vb := ma.SlotAt(slotA), mb.SlotAt(slotB)
		ma.SetSlotAt(slotA, vb)
		mb.SetSlotAt(slotB, va)
		return nil
	})
}

// SetWinner records the entity in slot as the winner and propagates it.
// Repeating the current winner is a no-op; naming the other entity re-propagates
// unless a downstream match already decided on the old result.
func SetWinner(b *models.Bracket, matchID, slot int) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	return apply(b, func(work *models.Bracket) error {
		m, err := findMatch(work, matchID)
		if err != nil {
			return err
		}
		if m.Slot1.IsEmpty() || m.Slot2.IsEmpty() {
			return fmt.Errorf("%w: cannot set a winner before both slots are filled (match %d)", models.ErrPrecondition, m.ID)
		}
		chosen := m.SlotAt(slot)
		if !chosen.IsReal() {
			if m.Slot1.Bye && m.Slot2.Bye {
				return fmt.Errorf("%w: no real entrant present in match %d", models.ErrPrecondition, m.ID)
			}
			return fmt.Errorf("%w: slot %d of match %d holds a BYE", models.ErrPrecondition, slot, m.ID)
		}
		if m.Winner == chosen.EntityID {
			return nil
		}
		return decide(work, m, chosen.EntityID)
	})
}

// SwapWinner hands the win to the other slot of a decided match.
func SwapWinner(b *models.Bracket, matchID int) error {
	return apply(b, func(work *models.Bracket) error {
		m, err := findMatch(work, matchID)
		if err != nil {
			return err
		}
		if !m.IsDecided() {
			return fmt.Errorf("%w: match %d has no winner to swap", models.ErrPrecondition, m.ID)
		}
		if !m.Slot1.IsReal() || !m.Slot2.IsReal() {
			return fmt.Errorf("%w: match %d needs two real entrants to swap its winner", models.ErrPrecondition, m.ID)
		}
		other := m.Slot1.EntityID
		if m.Winner == other {
			other = m.Slot2.EntityID
		}
		return decide(work, m, other)
	})
}

// ClearWinner reopens a decided match and withdraws what it wrote downstream.
func ClearWinner(b *models.Bracket, matchID int) error {
	return apply(b, func(work *models.Bracket) error {
		m, err := findMatch(work, matchID)
		if err != nil {
			return err
		}
		if !m.IsDecided() {
			return fmt.Errorf("%w: match %d has no winner to clear", models.ErrPrecondition, m.ID)
		}
		if hasBye(m) {
			return fmt.Errorf("%w: match %d was decided by a bye", models.ErrPrecondition, m.ID)
		}
		if err := retract(work, m); err != nil {
			return err
		}
		m.Winner = 0
		return nil
	})
}

// AdvanceOnDropout handles a withdrawal from vacated: the entity in the other
// slot wins and the vacated slot is cleared. In double elimination the loser
// side receives a BYE.
func AdvanceOnDropout(b *models.Bracket, matchID, vacated int) error {
	if err := checkSlot(vacated); err != nil {
		return err
	}
	return apply(b, func(work *models.Bracket) error {
		m, err := findMatch(work, matchID)
		if err != nil {
			return err
		}
		remaining := m.SlotAt(3 - vacated)
		if !remaining.IsReal() {
			return fmt.Errorf("%w: no entrant left in slot %d of match %d to advance", models.ErrPrecondition, 3-vacated, m.ID)
		}
		if m.IsDecided() {
			if err := retract(work, m); err != nil {
				return err
			}
			m.Winner = 0
		}
		m.SetSlotAt(vacated, models.Slot{})
		m.Winner = remaining.EntityID
		if err := propagate(work, m); err != nil {
			return err
		}
		return ResolveByes(work)
	})
}

// decide replaces the winner of m, withdrawing an earlier result first.
func decide(b *models.Bracket, m *models.Match, winner int) error {
	if m.IsDecided() {
		if err := retract(b, m); err != nil {
			return err
		}
	}
	m.Winner = winner
	if err := propagate(b, m); err != nil {
		return err
	}
	return ResolveByes(b)
}

// loserValue is what a decided match sends to its loser target: the other
// entity, or a BYE when the other slot is empty or a BYE.
func loserValue(m *models.Match) models.Slot {
	var other models.Slot
	switch m.WinnerSlot() {
	case 1:
		other = m.Slot2
	case 2:
		other = m.Slot1
	}
	if other.IsReal() {
		return other
	}
	return models.ByeSlot
}

// outputs lists what a decided match sends downstream: its winner to the
// parent and, in double elimination, its loser to the loser target.
func outputs(m *models.Match) []models.SlotWrite {
	var out []models.SlotWrite
	if m.ParentMatchID != 0 {
		out = append(out, models.SlotWrite{MatchID: m.ParentMatchID, Slot: m.ParentSlot, Value: models.EntitySlot(m.Winner)})
	}
	if m.LoserMatchID != 0 {
		out = append(out, models.SlotWrite{MatchID: m.LoserMatchID, Slot: m.LoserSlot, Value: loserValue(m)})
	}
	return out
}

// propagate writes the outputs of a freshly decided match and records each
// write, together with the value it replaced, on m.
func propagate(b *models.Bracket, m *models.Match) error {
	for _, w := range outputs(m) {
		t := b.Match(w.MatchID)
		if t == nil {
			return fmt.Errorf("match %d links to missing match %d", m.ID, w.MatchID)
		}
		if t.IsDecided() && t.SlotAt(w.Slot) != w.Value {
			return fmt.Errorf("%w: downstream match %d already decided; clear it first", models.ErrConflict, t.ID)
		}
		w.Prev = t.SlotAt(w.Slot)
		t.SetSlotAt(w.Slot, w.Value)
		m.Writes = append(m.Writes, w)
	}
	return nil
}

// retract undoes the recorded writes of m, newest first. A target that was
// decided by hand on a written value is a conflict; a target that only
// advanced because of a bye is reopened along with its own writes.
func retract(b *models.Bracket, m *models.Match) error {
	for i := len(m.Writes) - 1; i >= 0; i-- {
		if err := undoWrite(b, m.Writes[i]); err != nil {
			return err
		}
	}
	m.Writes = nil
	return nil
}

func undoWrite(b *models.Bracket, w models.SlotWrite) error {
	t := b.Match(w.MatchID)
	// A slot set by hand after the write keeps its new value.
	if t == nil || t.SlotAt(w.Slot) != w.Value {
		return nil
	}
	switch {
	case t.IsDecided():
		if !hasBye(t) {
			return fmt.Errorf("%w: downstream match %d already decided on this result; clear it first", models.ErrConflict, t.ID)
		}
		if err := retract(b, t); err != nil {
			return err
		}
		t.Winner = 0
	case t.Slot1.Bye && t.Slot2.Bye:
		if err := retract(b, t); err != nil {
			return err
		}
	}
	t.SetSlotAt(w.Slot, w.Prev)
	return nil
}
