package models

import "fmt"

type Section string

const (
	SectionWinners     Section = "winners"
	SectionLosers      Section = "losers"
	SectionGrandFinals Section = "grand_finals"
)

// sectionRank orders sections for display and round walks.
func (s Section) rank() int {
	switch s {
	case SectionWinners:
		return 0
	case SectionLosers:
		return 1
	default:
		return 2
	}
}

// RoundKey identifies a round inside a bracket section. Rounds start at 1 in
// every section.
type RoundKey struct {
	Section Section `json:"section"`
	Round   int     `json:"round"`
}

func (k RoundKey) Less(o RoundKey) bool {
	if k.Section != o.Section {
		return k.Section.rank() < o.Section.rank()
	}
	return k.Round < o.Round
}

const (
	legacyLosersOffset     = 10
	legacyGrandFinalsRound = 21
)

// LegacyNumber flattens the key into the single integer namespace used by the
// bracket snapshot: losers rounds are shifted by 10, grand finals is 21.
func (k RoundKey) LegacyNumber() int {
	switch k.Section {
	case SectionLosers:
		return k.Round + legacyLosersOffset
	case SectionGrandFinals:
		return legacyGrandFinalsRound
	default:
		return k.Round
	}
}

// Slot is one input position of a match. A zero Slot is empty (TBD).
type Slot struct {
	EntityID int  `json:"entity_id,omitempty"`
	Bye      bool `json:"bye,omitempty"`
}

var ByeSlot = Slot{Bye: true}

func EntitySlot(id int) Slot {
	return Slot{EntityID: id}
}

func (s Slot) IsEmpty() bool  { return s.EntityID == 0 && !s.Bye }
func (s Slot) IsFilled() bool { return !s.IsEmpty() }
func (s Slot) IsReal() bool   { return s.EntityID != 0 }

func (s Slot) String() string {
	switch {
	case s.Bye:
		return "BYE"
	case s.EntityID != 0:
		return fmt.Sprintf("#%d", s.EntityID)
	default:
		return "TBD"
	}
}

type MatchState string

const (
	MatchEmpty           MatchState = "empty"
	MatchPartiallyFilled MatchState = "partially_filled"
	MatchReady           MatchState = "ready"
	MatchDecided         MatchState = "decided"
)

// Match is the atomic unit of a bracket. ParentMatchID/ParentSlot receive the
// winner; in double elimination LoserMatchID/LoserSlot receive the loser of a
// winners-section match. Zero ids mean "none".
type Match struct {
	ID            int     `json:"id"`
	Section       Section `json:"section"`
	Round         int     `json:"round"`
	Order         int     `json:"order"`
	Slot1         Slot    `json:"slot1"`
	Slot2         Slot    `json:"slot2"`
	Winner        int     `json:"winner,omitempty"`
	ParentMatchID int     `json:"parent_match_id,omitempty"`
	ParentSlot    int     `json:"parent_slot,omitempty"`
	LoserMatchID  int     `json:"loser_match_id,omitempty"`
	LoserSlot     int     `json:"loser_slot,omitempty"`

	// Writes lists what this match put into downstream slots and what those
	// slots held before, in write order. Clearing the match undoes them.
	Writes []SlotWrite `json:"writes,omitempty"`
}

// SlotWrite is one value a match wrote into another match's slot.
type SlotWrite struct {
	MatchID int  `json:"match_id"`
	Slot    int  `json:"slot"`
	Value   Slot `json:"value"`
	Prev    Slot `json:"prev"`
}

func (m *Match) Key() RoundKey {
	return RoundKey{Section: m.Section, Round: m.Round}
}

// LegacyRoundNum is the flattened round number of the match, see RoundKey.LegacyNumber.
func (m *Match) LegacyRoundNum() int {
	return m.Key().LegacyNumber()
}

func ValidSlot(n int) bool {
	return n == 1 || n == 2
}

func (m *Match) SlotAt(n int) Slot {
	if n == 2 {
		return m.Slot2
	}
	return m.Slot1
}

func (m *Match) SetSlotAt(n int, s Slot) {
	if n == 2 {
		m.Slot2 = s
		return
	}
	m.Slot1 = s
}

func (m *Match) IsDecided() bool {
	return m.Winner != 0
}

// WinnerSlot returns the slot holding the winner, or 0 when undecided.
func (m *Match) WinnerSlot() int {
	switch {
	case m.Winner == 0:
		return 0
	case m.Slot1.EntityID == m.Winner:
		return 1
	case m.Slot2.EntityID == m.Winner:
		return 2
	default:
		return 0
	}
}

func (m *Match) State() MatchState {
	if m.IsDecided() {
		return MatchDecided
	}
	switch {
	case m.Slot1.IsFilled() && m.Slot2.IsFilled():
		return MatchReady
	case m.Slot1.IsFilled() || m.Slot2.IsFilled():
		return MatchPartiallyFilled
	default:
		return MatchEmpty
	}
}

func (m *Match) HasParent() bool {
	return m.ParentMatchID != 0
}
