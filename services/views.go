package services

import (
	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/thoas/go-funk"
)

const byeName = "BYE"

type EntrantView struct {
	ID               int                  `json:"id"`
	DisplayName      string               `json:"display_name"`
	ListType         models.ListType      `json:"list_type"`
	OriginalListType models.ListType      `json:"original_list_type"`
	Source           models.EntrantSource `json:"source"`
	ExternalRef      string               `json:"external_ref,omitempty"`
	Eligible         bool                 `json:"eligible"`
	InGame           bool                 `json:"in_game"`
	TeamID           *int                 `json:"team_id,omitempty"`
}

type RosterSnapshot struct {
	TournamentID int           `json:"tournament_id"`
	Participants []EntrantView `json:"participants"`
	Standby      []EntrantView `json:"standby"`
	Version      int           `json:"version"`
}

type TeamView struct {
	ID      int                 `json:"id"`
	Name    string              `json:"name"`
	Members []models.TeamMember `json:"members"`
	Full    bool                `json:"full"`
}

type TeamsSnapshot struct {
	TournamentID int           `json:"tournament_id"`
	Capacity     int           `json:"capacity"`
	Teams        []TeamView    `json:"teams"`
	Unassigned   []EntrantView `json:"unassigned"`
	Version      int           `json:"version"`
}

// MatchView is the wire shape of a match. Which id keys are set depends on
// what the bracket seeds: team1_id for teams, player1_id for externally
// registered entrants and manual_entry1_id for manually added ones.
type MatchView struct {
	ID             int               `json:"id"`
	MatchNum       int               `json:"match_num"`
	RoundNum       int               `json:"round_num"`
	Round          int               `json:"round"`
	BracketSection models.Section    `json:"bracket_section"`
	State          models.MatchState `json:"state"`

	Team1ID        *int   `json:"team1_id,omitempty"`
	Team2ID        *int   `json:"team2_id,omitempty"`
	Player1ID      *int   `json:"player1_id,omitempty"`
	Player2ID      *int   `json:"player2_id,omitempty"`
	ManualEntry1ID *int   `json:"manual_entry1_id,omitempty"`
	ManualEntry2ID *int   `json:"manual_entry2_id,omitempty"`
	Team1Name      string `json:"team1_name,omitempty"`
	Team2Name      string `json:"team2_name,omitempty"`
	Player1Name    string `json:"player1_name,omitempty"`
	Player2Name    string `json:"player2_name,omitempty"`
	Slot1Bye       bool   `json:"slot1_bye,omitempty"`
	Slot2Bye       bool   `json:"slot2_bye,omitempty"`

	WinnerTeamID        *int   `json:"winner_team_id,omitempty"`
	WinnerPlayerID      *int   `json:"winner_player_id,omitempty"`
	WinnerManualEntryID *int   `json:"winner_manual_entry_id,omitempty"`
	WinnerName          string `json:"winner_name,omitempty"`

	ParentMatchID   *int `json:"parent_match_id"`
	ParentMatchSlot *int `json:"parent_match_slot"`
	LoserMatchID    *int `json:"loser_match_id,omitempty"`
	LoserMatchSlot  *int `json:"loser_match_slot,omitempty"`

	// Advanced1Name and Advanced2Name name whoever a decided feeder sends to
	// a slot that does not hold them yet. They are display hints only.
	Advanced1Name string `json:"advanced1_name,omitempty"`
	Advanced2Name string `json:"advanced2_name,omitempty"`
}

// BracketSnapshot keys rounds by the flat round number clients expect:
// winners rounds as is, losers rounds plus 10 and the grand finals as 21.
type BracketSnapshot struct {
	Tournament  models.Tournament   `json:"tournament"`
	BracketType models.BracketType  `json:"bracket_type"`
	EntityKind  models.EntityKind   `json:"entity_kind,omitempty"`
	Teams       []TeamView          `json:"teams,omitempty"`
	Rounds      map[int][]MatchView `json:"rounds"`
	Version     int                 `json:"version"`
}

type SummaryView struct {
	brackets.Summary
	WinLeaderName string `json:"win_leader_name,omitempty"`
	ChampionName  string `json:"champion_name,omitempty"`
}

type ExportResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func intPtr(v int) *int {
	return &v
}

func entrantView(state *models.TournamentState, e *models.Entrant) EntrantView {
	v := EntrantView{
		ID:               e.ID,
		DisplayName:      e.DisplayName,
		ListType:         e.ListType,
		OriginalListType: e.OriginalListType,
		Source:           e.Source,
		ExternalRef:      e.ExternalRef,
		Eligible:         e.Eligible,
		InGame:           e.InGame(),
	}
	if t, _ := state.TeamOf(e.ID); t != nil {
		v.TeamID = intPtr(t.ID)
	}
	return v
}

func entrantViews(state *models.TournamentState, list []*models.Entrant) []EntrantView {
	return funk.Map(list, func(e *models.Entrant) EntrantView {
		return entrantView(state, e)
	}).([]EntrantView)
}

// standbyView lists the standby entrants together with the standby entrants
// currently in game, which keep their place in the standby view.
func standbyView(state *models.TournamentState) []*models.Entrant {
	out := make([]*models.Entrant, 0, len(state.Entrants))
	for i := range state.Entrants {
		e := &state.Entrants[i]
		if e.ListType == models.ListStandby || e.InGame() {
			out = append(out, e)
		}
	}
	return out
}

func rosterSnapshot(state *models.TournamentState) *RosterSnapshot {
	return &RosterSnapshot{
		TournamentID: state.Tournament.ID,
		Participants: entrantViews(state, state.List(models.ListParticipant)),
		Standby:      entrantViews(state, standbyView(state)),
		Version:      state.Version,
	}
}

func teamViews(state *models.TournamentState) []TeamView {
	capacity := state.Tournament.Capacity()
	return funk.Map(state.Teams, func(t models.Team) TeamView {
		members := t.Members
		if members == nil {
			members = []models.TeamMember{}
		}
		return TeamView{ID: t.ID, Name: t.Name, Members: members, Full: len(t.Members) >= capacity}
	}).([]TeamView)
}

func teamsSnapshot(state *models.TournamentState) *TeamsSnapshot {
	unassigned := funk.Filter(state.List(models.ListParticipant), func(e *models.Entrant) bool {
		t, _ := state.TeamOf(e.ID)
		return t == nil
	}).([]*models.Entrant)

	return &TeamsSnapshot{
		TournamentID: state.Tournament.ID,
		Capacity:     state.Tournament.Capacity(),
		Teams:        teamViews(state),
		Unassigned:   entrantViews(state, unassigned),
		Version:      state.Version,
	}
}

func bracketSnapshot(state *models.TournamentState) *BracketSnapshot {
	snap := &BracketSnapshot{
		Tournament:  state.Tournament,
		BracketType: state.Tournament.BracketType,
		Rounds:      make(map[int][]MatchView),
		Version:     state.Version,
	}
	b := state.Bracket
	if b == nil {
		return snap
	}
	snap.BracketType = b.Type
	snap.EntityKind = b.EntityKind
	if b.EntityKind == models.EntityTeam {
		snap.Teams = teamViews(state)
	}

	hints := make(map[[2]int]int)
	for _, h := range brackets.InferredAdvancements(b) {
		hints[[2]int{h.MatchID, h.Slot}] = h.EntityID
	}

	for _, round := range b.Rounds() {
		views := make([]MatchView, 0, len(round.Matches))
		for _, m := range round.Matches {
			views = append(views, matchView(state, b.EntityKind, m, hints))
		}
		snap.Rounds[round.Key.LegacyNumber()] = views
	}
	return snap
}

// entityKey tells which id field family an entity id belongs to.
type entityKey int

const (
	keyTeam entityKey = iota
	keyPlayer
	keyManual
)

func keyOf(state *models.TournamentState, kind models.EntityKind, id int) entityKey {
	if kind == models.EntityTeam {
		return keyTeam
	}
	if e := state.Entrant(id); e != nil && e.IsExternal() {
		return keyPlayer
	}
	return keyManual
}

func slotName(state *models.TournamentState, kind models.EntityKind, s models.Slot) string {
	if s.Bye {
		return byeName
	}
	return state.EntityName(kind, s.EntityID)
}

func matchView(state *models.TournamentState, kind models.EntityKind, m *models.Match, hints map[[2]int]int) MatchView {
	v := MatchView{
		ID:             m.ID,
		MatchNum:       m.Order,
		RoundNum:       m.LegacyRoundNum(),
		Round:          m.Round,
		BracketSection: m.Section,
		State:          m.State(),
		Slot1Bye:       m.Slot1.Bye,
		Slot2Bye:       m.Slot2.Bye,
	}

	setSlot := func(n int, s models.Slot) {
		name := slotName(state, kind, s)
		if kind == models.EntityTeam {
			if n == 1 {
				v.Team1Name = name
			} else {
				v.Team2Name = name
			}
		} else if n == 1 {
			v.Player1Name = name
		} else {
			v.Player2Name = name
		}
		if !s.IsReal() {
			return
		}
		id := intPtr(s.EntityID)
		switch keyOf(state, kind, s.EntityID) {
		case keyTeam:
			if n == 1 {
				v.Team1ID = id
			} else {
				v.Team2ID = id
			}
		case keyPlayer:
			if n == 1 {
				v.Player1ID = id
			} else {
				v.Player2ID = id
			}
		default:
			if n == 1 {
				v.ManualEntry1ID = id
			} else {
				v.ManualEntry2ID = id
			}
		}
	}
	setSlot(1, m.Slot1)
	setSlot(2, m.Slot2)

	if m.Winner != 0 {
		id := intPtr(m.Winner)
		switch keyOf(state, kind, m.Winner) {
		case keyTeam:
			v.WinnerTeamID = id
		case keyPlayer:
			v.WinnerPlayerID = id
		default:
			v.WinnerManualEntryID = id
		}
		v.WinnerName = state.EntityName(kind, m.Winner)
	}

	if m.HasParent() {
		v.ParentMatchID = intPtr(m.ParentMatchID)
		v.ParentMatchSlot = intPtr(m.ParentSlot)
	}
	if m.LoserMatchID != 0 {
		v.LoserMatchID = intPtr(m.LoserMatchID)
		v.LoserMatchSlot = intPtr(m.LoserSlot)
	}

	// A hint is shown whenever the slot does not already hold the advancing entity.
	if id, ok := hints[[2]int{m.ID, 1}]; ok && m.Slot1 != models.EntitySlot(id) {
		v.Advanced1Name = state.EntityName(kind, id)
	}
	if id, ok := hints[[2]int{m.ID, 2}]; ok && m.Slot2 != models.EntitySlot(id) {
		v.Advanced2Name = state.EntityName(kind, id)
	}
	return v
}

func summaryView(state *models.TournamentState) *SummaryView {
	s := brackets.Summarize(state.Bracket)
	kind := state.Bracket.EntityKind
	return &SummaryView{
		Summary:       s,
		WinLeaderName: state.EntityName(kind, s.WinLeaderID),
		ChampionName:  state.EntityName(kind, s.ChampionID),
	}
}
