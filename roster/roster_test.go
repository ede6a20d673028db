package roster

import (
	"testing"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState() *models.TournamentState {
	return models.NewTournamentState(models.Tournament{ID: 1, Name: "Cup", Format: "2v2", BracketType: models.BracketSingleElim})
}

func names(entrants []*models.Entrant) []string {
	out := make([]string, len(entrants))
	for i, e := range entrants {
		out[i] = e.DisplayName
	}
	return out
}

func addAll(t *testing.T, s *Store, list models.ListType, displayNames ...string) []int {
	t.Helper()
	ids := make([]int, len(displayNames))
	for i, n := range displayNames {
		e, err := s.Add(list, n)
		require.NoError(t, err)
		ids[i] = e.ID
	}
	return ids
}

func TestAdd(t *testing.T) {
	state := newState()
	store := NewStore(state)

	e, err := store.Add(models.ListStandby, "  Zed  ")
	require.NoError(t, err)
	assert.Equal(t, "Zed", e.DisplayName)
	assert.Equal(t, models.ListStandby, e.ListType)
	assert.Equal(t, models.ListStandby, e.OriginalListType)
	assert.Equal(t, models.SourceManual, e.Source)
	assert.False(t, e.Eligible)

	_, err = store.Add(models.ListParticipant, "   ")
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = store.Add("bench", "X")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRename(t *testing.T) {
	state := newState()
	store := NewStore(state)
	ids := addAll(t, store, models.ListParticipant, "A")

	e, err := store.Rename(ids[0], "Alpha")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", e.DisplayName)

	_, err = store.Rename(ids[0], "")
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = store.Rename(42, "x")
	assert.ErrorIs(t, err, models.ErrNotFound)

	ext, err := store.AddExternal(models.ListParticipant, "Reg", "reg-1")
	require.NoError(t, err)
	_, err = store.Rename(ext.ID, "Other")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestRenameUpdatesTeamMember(t *testing.T) {
	state := newState()
	store := NewStore(state)
	ids := addAll(t, store, models.ListParticipant, "A")
	state.Teams = []models.Team{{ID: 1, Name: "T", Members: []models.TeamMember{{ID: ids[0], DisplayName: "A"}}}}

	_, err := store.Rename(ids[0], "B")
	require.NoError(t, err)
	assert.Equal(t, "B", state.Teams[0].Members[0].DisplayName)
}

func TestReorder(t *testing.T) {
	state := newState()
	store := NewStore(state)
	p := addAll(t, store, models.ListParticipant, "A", "B", "C", "D")
	s := addAll(t, store, models.ListStandby, "S1")

	require.NoError(t, store.Reorder(models.ListParticipant, []int{p[2], 999, s[0], p[0]}))
	assert.Equal(t, []string{"C", "A", "B", "D"}, names(state.List(models.ListParticipant)))
	assert.Equal(t, []string{"S1"}, names(state.List(models.ListStandby)))
}

func TestMove(t *testing.T) {
	state := newState()
	store := NewStore(state)
	p := addAll(t, store, models.ListParticipant, "A", "B")
	addAll(t, store, models.ListStandby, "S1")
	state.Teams = []models.Team{{ID: 1, Name: "T", Members: []models.TeamMember{{ID: p[0], DisplayName: "A"}}}}

	e, err := store.Move(p[0], models.ListStandby)
	require.NoError(t, err)
	assert.Equal(t, models.ListStandby, e.ListType)
	assert.Equal(t, models.ListParticipant, e.OriginalListType)
	assert.Equal(t, []string{"S1", "A"}, names(state.List(models.ListStandby)))
	assert.Empty(t, state.Teams[0].Members, "standby entrants leave their team")

	e, err = store.Move(p[0], models.ListStandby)
	require.NoError(t, err, "moving to the same list changes nothing")
	assert.Equal(t, "A", e.DisplayName)
}

func TestRemove(t *testing.T) {
	state := newState()
	store := NewStore(state)
	p := addAll(t, store, models.ListParticipant, "A", "B")

	require.NoError(t, store.Remove(p[0], models.ListParticipant))
	assert.Equal(t, []string{"B"}, names(state.List(models.ListParticipant)))

	assert.ErrorIs(t, store.Remove(p[0], models.ListParticipant), models.ErrNotFound)
	assert.ErrorIs(t, store.Remove(p[1], models.ListStandby), models.ErrNotFound)
}

func TestRemove_InGameLock(t *testing.T) {
	state := newState()
	store := NewStore(state)
	s := addAll(t, store, models.ListStandby, "Z")
	state.Entrant(s[0]).ListType = models.ListParticipant

	err := store.Remove(s[0], models.ListStandby)
	require.ErrorIs(t, err, models.ErrConflict)
	assert.Contains(t, err.Error(), "in game")

	_, err = store.Move(s[0], models.ListStandby)
	require.NoError(t, err)
	assert.NoError(t, store.Remove(s[0], models.ListStandby), "lock releases once back on standby")
}

func TestRemove_ExternalAndBracket(t *testing.T) {
	state := newState()
	store := NewStore(state)
	p := addAll(t, store, models.ListParticipant, "A")
	ext, err := store.AddExternal(models.ListParticipant, "Reg", "reg-1")
	require.NoError(t, err)

	assert.ErrorIs(t, store.Remove(ext.ID, models.ListParticipant), models.ErrForbidden)

	_, err = store.AddExternal(models.ListParticipant, "Again", "reg-1")
	assert.ErrorIs(t, err, models.ErrConflict)

	state.Bracket = &models.Bracket{
		EntityKind: models.EntityEntrant,
		Matches:    []models.Match{{ID: 1, Slot1: models.EntitySlot(p[0]), Slot2: models.EntitySlot(ext.ID)}},
	}
	assert.ErrorIs(t, store.Remove(p[0], models.ListParticipant), models.ErrConflict)
	assert.ErrorIs(t, store.RemoveExternal("reg-1"), models.ErrConflict)

	state.Bracket = nil
	require.NoError(t, store.RemoveExternal("reg-1"))
	assert.ErrorIs(t, store.RemoveExternal("reg-1"), models.ErrNotFound)
}

func TestSetEligible(t *testing.T) {
	state := newState()
	store := NewStore(state)
	s := addAll(t, store, models.ListStandby, "S")

	e, err := store.SetEligible(s[0], true)
	require.NoError(t, err)
	assert.True(t, e.Eligible)

	_, err = store.SetEligible(77, true)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
