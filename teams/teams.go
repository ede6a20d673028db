// Package teams groups roster entrants into fixed-capacity teams for NvN
// formats. Capacity comes from the tournament format and is never exceeded.
package teams

import (
	"fmt"
	"strings"

	"github.com/Dosada05/tournament-brackets/models"
)

type Engine struct {
	state    *models.TournamentState
	capacity int
}

// NewEngine fails with ErrPrecondition when the tournament is not a team format.
func NewEngine(state *models.TournamentState) (*Engine, error) {
	capacity := state.Tournament.Capacity()
	if capacity < 2 {
		return nil, fmt.Errorf("%w: format %q does not use teams", models.ErrPrecondition, state.Tournament.Format)
	}
	return &Engine{state: state, capacity: capacity}, nil
}

func (e *Engine) Capacity() int {
	return e.capacity
}

func (e *Engine) entrant(id int) (*models.Entrant, error) {
	en := e.state.Entrant(id)
	if en == nil {
		return nil, fmt.Errorf("%w: entrant %d", models.ErrNotFound, id)
	}
	return en, nil
}

func (e *Engine) team(id int) (*models.Team, error) {
	t := e.state.Team(id)
	if t == nil {
		return nil, fmt.Errorf("%w: team %d", models.ErrNotFound, id)
	}
	return t, nil
}

func teamName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: team name must not be empty", models.ErrValidation)
	}
	return name, nil
}

// enterPlay marks a standby entrant as playing. OriginalListType keeps
// recording standby, which is what locks the entrant in the standby view.
func enterPlay(en *models.Entrant) {
	if en.ListType == models.ListStandby {
		en.ListType = models.ListParticipant
	}
}

func removeMember(t *models.Team, idx int) {
	t.Members = append(t.Members[:idx], t.Members[idx+1:]...)
}

// Assign moves an entrant into a team, leaving its previous team first.
func (e *Engine) Assign(entrantID, teamID int) (*models.Team, error) {
	en, err := e.entrant(entrantID)
	if err != nil {
		return nil, err
	}
	target, err := e.team(teamID)
	if err != nil {
		return nil, err
	}
	if target.MemberIndex(entrantID) >= 0 {
		return nil, fmt.Errorf("%w: entrant %d is already on team %q", models.ErrNoOp, entrantID, target.Name)
	}
	if len(target.Members) >= e.capacity {
		return nil, fmt.Errorf("%w: team %q already has %d of %d members", models.ErrCapacity, target.Name, len(target.Members), e.capacity)
	}

	if source, idx := e.state.TeamOf(entrantID); source != nil {
		removeMember(source, idx)
	}
	target.Members = append(target.Members, models.TeamMember{ID: en.ID, DisplayName: en.DisplayName})
	enterPlay(en)
	return target, nil
}

// Swap exchanges the team placements of two entrants. An unassigned entrant
// takes the other's place and the other becomes unassigned.
func (e *Engine) Swap(entrantA, entrantB int) error {
	if entrantA == entrantB {
		return fmt.Errorf("%w: cannot swap entrant %d with itself", models.ErrNoOp, entrantA)
	}
	a, err := e.entrant(entrantA)
	if err != nil {
		return err
	}
	b, err := e.entrant(entrantB)
	if err != nil {
		return err
	}

	ta, ia := e.state.TeamOf(entrantA)
	tb, ib := e.state.TeamOf(entrantB)
	if ta == nil && tb == nil {
		return fmt.Errorf("%w: neither entrant %d nor %d is on a team", models.ErrNoOp, entrantA, entrantB)
	}

	memberA := models.TeamMember{ID: a.ID, DisplayName: a.DisplayName}
	memberB := models.TeamMember{ID: b.ID, DisplayName: b.DisplayName}
	switch {
	case ta != nil && tb != nil:
		ta.Members[ia], tb.Members[ib] = memberB, memberA
		enterPlay(a)
		enterPlay(b)
	case ta != nil:
		ta.Members[ia] = memberB
		enterPlay(b)
	default:
		tb.Members[ib] = memberA
		enterPlay(a)
	}
	return nil
}

// Unassign removes an entrant from its team, if any.
func (e *Engine) Unassign(entrantID int) error {
	if _, err := e.entrant(entrantID); err != nil {
		return err
	}
	if t, idx := e.state.TeamOf(entrantID); t != nil {
		removeMember(t, idx)
	}
	return nil
}

func (e *Engine) AddTeam(name string) (*models.Team, error) {
	name, err := teamName(name)
	if err != nil {
		return nil, err
	}
	e.state.Teams = append(e.state.Teams, models.Team{ID: e.state.NextTeamID, Name: name, Members: []models.TeamMember{}})
	e.state.NextTeamID++
	return &e.state.Teams[len(e.state.Teams)-1], nil
}

// RemoveTeam deletes a team; its members become unassigned.
func (e *Engine) RemoveTeam(teamID int) error {
	if _, err := e.team(teamID); err != nil {
		return err
	}
	if b := e.state.Bracket; b != nil && b.EntityKind == models.EntityTeam && b.References(teamID) {
		return fmt.Errorf("%w: team %d is placed in the bracket; regenerate it first", models.ErrConflict, teamID)
	}
	for i := range e.state.Teams {
		if e.state.Teams[i].ID == teamID {
			e.state.Teams = append(e.state.Teams[:i], e.state.Teams[i+1:]...)
			break
		}
	}
	return nil
}

func (e *Engine) RenameTeam(teamID int, name string) (*models.Team, error) {
	t, err := e.team(teamID)
	if err != nil {
		return nil, err
	}
	name, err = teamName(name)
	if err != nil {
		return nil, err
	}
	t.Name = name
	return t, nil
}

// Pool returns the entrants a regeneration draws from: participants, then
// standby entrants marked eligible, each in list order.
func (e *Engine) Pool() []*models.Entrant {
	pool := e.state.List(models.ListParticipant)
	for _, en := range e.state.List(models.ListStandby) {
		if en.Eligible {
			pool = append(pool, en)
		}
	}
	return pool
}

// RegenerateAll discards every team and builds floor(pool/capacity) full
// teams from the pool. The bracket is discarded with the old teams.
func (e *Engine) RegenerateAll() ([]models.Team, error) {
	pool := e.Pool()
	if len(pool) < e.capacity {
		return nil, fmt.Errorf("%w: %d entrants available, a team needs %d", models.ErrInsufficientEntrants, len(pool), e.capacity)
	}

	count := len(pool) / e.capacity
	teams := make([]models.Team, 0, count)
	for i := 0; i < count; i++ {
		t := models.Team{
			ID:      e.state.NextTeamID,
			Name:    fmt.Sprintf("Team %d", i+1),
			Members: make([]models.TeamMember, 0, e.capacity),
		}
		e.state.NextTeamID++
		for _, en := range pool[i*e.capacity : (i+1)*e.capacity] {
			t.Members = append(t.Members, models.TeamMember{ID: en.ID, DisplayName: en.DisplayName})
			enterPlay(en)
		}
		teams = append(teams, t)
	}

	e.state.Teams = teams
	e.state.Bracket = nil
	return teams, nil
}

// Substitute replaces a team member with a standby entrant in the same
// position. The standby entrant is then in game.
func (e *Engine) Substitute(teamID, leavingID, standbyID int) (*models.Team, error) {
	t, err := e.team(teamID)
	if err != nil {
		return nil, err
	}
	idx := t.MemberIndex(leavingID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: entrant %d is not on team %q", models.ErrNotFound, leavingID, t.Name)
	}
	sub := e.state.Entrant(standbyID)
	if sub == nil || sub.ListType != models.ListStandby {
		return nil, fmt.Errorf("%w: entrant %d is not on standby", models.ErrNotFound, standbyID)
	}

	t.Members[idx] = models.TeamMember{ID: sub.ID, DisplayName: sub.DisplayName}
	sub.ListType = models.ListParticipant
	return t, nil
}
