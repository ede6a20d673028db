package models

// TournamentState is the aggregate every engine command operates on: the
// tournament, its rosters, teams and bracket. Entrants of both lists share one
// slice; the order of a list is the relative order of its entrants.
type TournamentState struct {
	Tournament    Tournament `json:"tournament"`
	Entrants      []Entrant  `json:"entrants"`
	Teams         []Team     `json:"teams"`
	Bracket       *Bracket   `json:"bracket,omitempty"`
	NextEntrantID int        `json:"next_entrant_id"`
	NextTeamID    int        `json:"next_team_id"`
	NextMatchID   int        `json:"next_match_id"`
	Version       int        `json:"-"`
}

func NewTournamentState(t Tournament) *TournamentState {
	return &TournamentState{
		Tournament:    t,
		Entrants:      []Entrant{},
		Teams:         []Team{},
		NextEntrantID: 1,
		NextTeamID:    1,
		NextMatchID:   1,
	}
}

func (s *TournamentState) Clone() *TournamentState {
	c := *s
	c.Entrants = cloneSlice(s.Entrants)
	c.Teams = cloneSlice(s.Teams)
	for i := range c.Teams {
		c.Teams[i].Members = cloneSlice(c.Teams[i].Members)
	}
	c.Bracket = s.Bracket.Clone()
	return &c
}

func (s *TournamentState) Entrant(id int) *Entrant {
	for i := range s.Entrants {
		if s.Entrants[i].ID == id {
			return &s.Entrants[i]
		}
	}
	return nil
}

func (s *TournamentState) EntrantIndex(id int) int {
	for i := range s.Entrants {
		if s.Entrants[i].ID == id {
			return i
		}
	}
	return -1
}

// List returns pointers to the entrants of one list in list order.
func (s *TournamentState) List(list ListType) []*Entrant {
	out := make([]*Entrant, 0, len(s.Entrants))
	for i := range s.Entrants {
		if s.Entrants[i].ListType == list {
			out = append(out, &s.Entrants[i])
		}
	}
	return out
}

func (s *TournamentState) Team(id int) *Team {
	for i := range s.Teams {
		if s.Teams[i].ID == id {
			return &s.Teams[i]
		}
	}
	return nil
}

// TeamOf returns the team entrantID belongs to and its member index, or nil, -1.
func (s *TournamentState) TeamOf(entrantID int) (*Team, int) {
	for i := range s.Teams {
		if idx := s.Teams[i].MemberIndex(entrantID); idx >= 0 {
			return &s.Teams[i], idx
		}
	}
	return nil, -1
}

// EntityName resolves a bracket entity id to its display name.
func (s *TournamentState) EntityName(kind EntityKind, id int) string {
	if id == 0 {
		return ""
	}
	if kind == EntityTeam {
		if t := s.Team(id); t != nil {
			return t.Name
		}
		return ""
	}
	if e := s.Entrant(id); e != nil {
		return e.DisplayName
	}
	return ""
}

// cloneSlice copies s, keeping nil and empty slices apart.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
