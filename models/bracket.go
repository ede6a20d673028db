package models

import "sort"

// EntityKind tells what the slot ids of a bracket refer to.
type EntityKind string

const (
	EntityEntrant EntityKind = "entrant"
	EntityTeam    EntityKind = "team"
)

type Bracket struct {
	Type       BracketType `json:"type"`
	EntityKind EntityKind  `json:"entity_kind"`
	Matches    []Match     `json:"matches"`
}

type Round struct {
	Key     RoundKey
	Matches []*Match
}

// Match returns the match with the given id or nil.
func (b *Bracket) Match(id int) *Match {
	if b == nil || id == 0 {
		return nil
	}
	for i := range b.Matches {
		if b.Matches[i].ID == id {
			return &b.Matches[i]
		}
	}
	return nil
}

// Rounds groups matches by section and round, ordered winners → losers →
// grand finals, each round ordered by bracket index.
func (b *Bracket) Rounds() []Round {
	byKey := make(map[RoundKey][]*Match)
	for i := range b.Matches {
		m := &b.Matches[i]
		byKey[m.Key()] = append(byKey[m.Key()], m)
	}

	rounds := make([]Round, 0, len(byKey))
	for k, ms := range byKey {
		sort.Slice(ms, func(i, j int) bool { return ms[i].Order < ms[j].Order })
		rounds = append(rounds, Round{Key: k, Matches: ms})
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].Key.Less(rounds[j].Key) })
	return rounds
}

// Final returns the terminal match of the bracket: the grand finals for double
// elimination, otherwise the single parentless match.
func (b *Bracket) Final() *Match {
	if b == nil {
		return nil
	}
	for i := range b.Matches {
		m := &b.Matches[i]
		if m.Section == SectionGrandFinals {
			return m
		}
	}
	for i := range b.Matches {
		m := &b.Matches[i]
		if !m.HasParent() {
			return m
		}
	}
	return nil
}

// References reports whether any slot or winner of the bracket holds id.
func (b *Bracket) References(id int) bool {
	if b == nil || id == 0 {
		return false
	}
	for _, m := range b.Matches {
		if m.Slot1.EntityID == id || m.Slot2.EntityID == id || m.Winner == id {
			return true
		}
	}
	return false
}

func (b *Bracket) MaxMatchID() int {
	highest := 0
	for _, m := range b.Matches {
		if m.ID > highest {
			highest = m.ID
		}
	}
	return highest
}

func (b *Bracket) Clone() *Bracket {
	if b == nil {
		return nil
	}
	c := *b
	c.Matches = cloneSlice(b.Matches)
	for i := range c.Matches {
		c.Matches[i].Writes = cloneSlice(c.Matches[i].Writes)
	}
	return &c
}
