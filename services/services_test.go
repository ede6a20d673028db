package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/Dosada05/tournament-brackets/events"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/repositories"
	"github.com/Dosada05/tournament-brackets/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type memoryUploader struct {
	objects map[string][]byte
}

func (u *memoryUploader) Upload(_ context.Context, key string, _ string, r io.Reader) (*storage.UploadResult, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	u.objects[key] = body
	return &storage.UploadResult{Key: key, Location: u.PublicURL(key)}, nil
}

func (u *memoryUploader) Delete(_ context.Context, key string) error {
	delete(u.objects, key)
	return nil
}

func (u *memoryUploader) PublicURL(key string) string {
	return "https://cdn.example.test/" + key
}

type testServices struct {
	store       *Store
	publisher   *recordingPublisher
	tournaments TournamentService
	roster      RosterService
	teams       TeamService
	brackets    BracketService
	matches     MatchService
}

func newTestServices(t *testing.T, archive *storage.SnapshotArchive) *testServices {
	t.Helper()
	pub := &recordingPublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := NewStore(repositories.NewMemoryTournamentStateRepository(), pub, logger)
	return &testServices{
		store:       store,
		publisher:   pub,
		tournaments: NewTournamentService(store),
		roster:      NewRosterService(store),
		teams:       NewTeamService(store),
		brackets:    NewBracketService(store, archive),
		matches:     NewMatchService(store),
	}
}

func (s *testServices) tournament(t *testing.T, format string, bracketType models.BracketType, names ...string) int {
	t.Helper()
	ctx := context.Background()
	tr, err := s.tournaments.Create(ctx, CreateTournamentInput{
		Name:        fmt.Sprintf("Cup %d", len(s.publisher.types())),
		Format:      format,
		BracketType: bracketType,
	})
	require.NoError(t, err)
	for _, name := range names {
		_, err := s.roster.Add(ctx, tr.ID, models.ListParticipant, AddEntrantInput{DisplayName: name})
		require.NoError(t, err)
	}
	return tr.ID
}

func TestTournamentService_CreateValidates(t *testing.T) {
	s := newTestServices(t, nil)
	ctx := context.Background()

	_, err := s.tournaments.Create(ctx, CreateTournamentInput{Name: "  ", Format: "1v1"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = s.tournaments.Create(ctx, CreateTournamentInput{Name: "Cup", Format: "free for all"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = s.tournaments.Create(ctx, CreateTournamentInput{Name: "Cup", Format: "1v1", BracketType: "swiss"})
	assert.ErrorIs(t, err, models.ErrValidation)

	tr, err := s.tournaments.Create(ctx, CreateTournamentInput{Name: " Cup ", Format: "custom: 4v4"})
	require.NoError(t, err)
	assert.Equal(t, "Cup", tr.Name)
	assert.Equal(t, models.BracketSingleElim, tr.BracketType)
	assert.Equal(t, models.StatusOpen, tr.Status)
	assert.Equal(t, 4, tr.Capacity())

	_, err = s.tournaments.Create(ctx, CreateTournamentInput{Name: "cup", Format: "1v1"})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestTournamentService_StatusTransitions(t *testing.T) {
	s := newTestServices(t, nil)
	ctx := context.Background()
	id := s.tournament(t, "1v1", models.BracketSingleElim, "A", "B")

	tr, err := s.tournaments.UpdateStatus(ctx, id, models.StatusClosed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, tr.Status)

	_, err = s.tournaments.UpdateStatus(ctx, id, models.StatusCompleted)
	assert.ErrorIs(t, err, models.ErrPrecondition)

	_, err = s.tournaments.UpdateStatus(ctx, id, "paused")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = s.tournaments.UpdateStatus(ctx, id, models.StatusCanceled)
	require.NoError(t, err)

	_, err = s.roster.Add(ctx, id, models.ListParticipant, AddEntrantInput{DisplayName: "C"})
	assert.ErrorIs(t, err, models.ErrPrecondition, "canceled tournaments are frozen")
}

func TestTournamentService_ListAndDelete(t *testing.T) {
	s := newTestServices(t, nil)
	ctx := context.Background()
	first := s.tournament(t, "1v1", models.BracketSingleElim, "A", "B", "C")
	second := s.tournament(t, "2v2", models.BracketSingleElim)

	views, err := s.tournaments.List(ctx, ListTournamentsInput{})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, second, views[0].ID)
	assert.Equal(t, first, views[1].ID)
	assert.Equal(t, 3, views[1].Participants)

	require.NoError(t, s.tournaments.Delete(ctx, first))
	_, err = s.tournaments.Get(ctx, first)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, s.tournaments.Delete(ctx, first), models.ErrNotFound)
}

func TestTournamentService_Update(t *testing.T) {
	s := newTestServices(t, nil)
	ctx := context.Background()
	id := s.tournament(t, "2v2", models.BracketSingleElim, "W", "X", "Y", "Z")
	other := s.tournament(t, "1v1", models.BracketSingleElim)

	_, err := s.teams.RegenerateAll(ctx, id)
	require.NoError(t, err)

	name := " Winter Cup "
	tr, err := s.tournaments.Update(ctx, id, UpdateTournamentInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Winter Cup", tr.Name)
	assert.Equal(t, models.StatusInProgress, tr.Status, "renaming keeps the bracket")

	_, err = s.tournaments.Update(ctx, other, UpdateTournamentInput{Name: &name})
	assert.ErrorIs(t, err, models.ErrConflict)

	blank, bad := " ", "free for all"
	_, err = s.tournaments.Update(ctx, id, UpdateTournamentInput{Name: &blank})
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = s.tournaments.Update(ctx, id, UpdateTournamentInput{Format: &bad})
	assert.ErrorIs(t, err, models.ErrValidation)

	same := "2v2"
	_, err = s.tournaments.Update(ctx, id, UpdateTournamentInput{Format: &same})
	require.NoError(t, err)
	tv, err := s.tournaments.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, tv.Teams)
	assert.True(t, tv.HasBracket)

	format := "1v1"
	tr, err = s.tournaments.Update(ctx, id, UpdateTournamentInput{Format: &format})
	require.NoError(t, err)
	assert.Equal(t, "1v1", tr.Format)
	assert.Equal(t, models.StatusClosed, tr.Status)

	tv, err = s.tournaments.Get(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, tv.Teams)
	assert.False(t, tv.HasBracket)
	assert.Equal(t, 4, tv.Participants)
}

func TestTournamentService_Clone(t *testing.T) {
	s := newTestServices(t, nil)
	ctx := context.Background()
	id := s.tournament(t, "1v1", models.BracketDoubleElim, "A", "B", "C")

	rosterSnap, err := s.roster.Add(ctx, id, models.ListStandby, AddEntrantInput{DisplayName: "S"})
	require.NoError(t, err)
	standbyID := rosterSnap.Standby[0].ID
	_, err = s.roster.SetEligible(ctx, id, standbyID, true)
	require.NoError(t, err)
	_, err = s.roster.Reorder(ctx, id, models.ListParticipant, []int{3, 1, 2})
	require.NoError(t, err)

	src, err := s.tournaments.Get(ctx, id)
	require.NoError(t, err)

	tr, err := s.tournaments.Clone(ctx, id, CloneTournamentInput{})
	require.NoError(t, err)
	assert.NotEqual(t, id, tr.ID)
	assert.Equal(t, src.Name+" (copy)", tr.Name)
	assert.Equal(t, "1v1", tr.Format)
	assert.Equal(t, models.BracketDoubleElim, tr.BracketType)
	assert.Equal(t, models.StatusOpen, tr.Status)

	copied, err := s.roster.Get(ctx, tr.ID)
	require.NoError(t, err)
	require.Len(t, copied.Participants, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{
		copied.Participants[0].DisplayName,
		copied.Participants[1].DisplayName,
		copied.Participants[2].DisplayName,
	})
	require.Len(t, copied.Standby, 1)
	assert.Equal(t, "S", copied.Standby[0].DisplayName)
	assert.Equal(t, models.ListStandby, copied.Standby[0].OriginalListType)
	assert.True(t, copied.Standby[0].Eligible)

	rosterSnap, err = s.roster.Add(ctx, tr.ID, models.ListParticipant, AddEntrantInput{DisplayName: "D"})
	require.NoError(t, err)
	assert.Equal(t, 5, rosterSnap.Participants[3].ID, "ids continue after the copied entrants")

	_, err = s.tournaments.Clone(ctx, id, CloneTournamentInput{})
	assert.ErrorIs(t, err, models.ErrConflict, "the default copy name is taken")

	tr, err = s.tournaments.Clone(ctx, id, CloneTournamentInput{Name: "Rematch", Format: "3v3"})
	require.NoError(t, err)
	assert.Equal(t, "3v3", tr.Format)

	_, err = s.tournaments.Clone(ctx, 999, CloneTournamentInput{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestBracketFlow_SingleElimination(t *testing.T) {
	s := newTestServices(t, nil)
	ctx := context.Background()
	id := s.tournament(t, "1v1", models.BracketSingleElim, "A", "B", "C", "D", "E")

	snap, err := s.brackets.Generate(ctx, id, GenerateBracketInput{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, snap.Tournament.Status)
	assert.Equal(t, models.EntityEntrant, snap.EntityKind)
	require.Len(t, snap.Rounds, 3)
	require.Len(t, snap.Rounds[1], 4)

	m1 := snap.Rounds[1][0]
	require.NotNil(t, m1.ManualEntry1ID)
	assert.Equal(t, 1, *m1.ManualEntry1ID)
	assert.Equal(t, "A", m1.Player1Name)
	assert.Equal(t, "B", m1.Player2Name)
	assert.Nil(t, m1.Player1ID)
	require.NotNil(t, m1.ParentMatchID)
	assert.Equal(t, 5, *m1.ParentMatchID)

	m3 := snap.Rounds[1][2]
	assert.Equal(t, "BYE", m3.Player2Name)
	assert.True(t, m3.Slot2Bye)
	assert.Equal(t, "E", m3.WinnerName)

	_, err = s.brackets.Generate(ctx, id, GenerateBracketInput{})
	assert.ErrorIs(t, err, models.ErrConflict)

	snap, err = s.matches.SetWinner(ctx, id, 1, WinnerInput{Slot: 1})
	require.NoError(t, err)
	assert.Equal(t, "A", snap.Rounds[2][0].Player1Name)
	assert.Empty(t, snap.Rounds[2][0].Advanced1Name)

	snap, err = s.matches.SetSlot(ctx, id, 5, 1, SlotInput{})
	require.NoError(t, err)
	assert.Empty(t, snap.Rounds[2][0].Player1Name)
	assert.Equal(t, "A", snap.Rounds[2][0].Advanced1Name, "the decided feeder still names who advances")

	snap, err = s.matches.SetSlot(ctx, id, 5, 1, SlotInput{EntityID: 3})
	require.NoError(t, err)
	assert.Equal(t, "C", snap.Rounds[2][0].Player1Name)
	assert.Equal(t, "A", snap.Rounds[2][0].Advanced1Name, "hint shown while the slot holds someone else")

	_, err = s.matches.SetSlot(ctx, id, 5, 1, SlotInput{EntityID: 1})
	require.NoError(t, err)

	_, err = s.matches.SetWinner(ctx, id, 2, WinnerInput{Slot: 1})
	require.NoError(t, err)
	_, err = s.matches.SetWinner(ctx, id, 5, WinnerInput{Slot: 1})
	require.NoError(t, err)
	snap, err = s.matches.SetWinner(ctx, id, 7, WinnerInput{Slot: 1})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, snap.Tournament.Status)

	summary, err := s.brackets.Summary(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Complete", summary.CurrentRoundLabel)
	assert.Equal(t, "A", summary.ChampionName)

	snap, err = s.matches.ClearWinner(ctx, id, 7)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, snap.Tournament.Status)

	_, err = s.matches.ClearWinner(ctx, id, 1)
	assert.ErrorIs(t, err, models.ErrConflict, "match 5 is still decided")

	_, err = s.matches.ClearWinner(ctx, id, 5)
	require.NoError(t, err)
	snap, err = s.matches.ClearWinner(ctx, id, 1)
	require.NoError(t, err)
	assert.Empty(t, snap.Rounds[2][0].Player1Name)
	assert.Equal(t, models.MatchReady, snap.Rounds[1][0].State)
}

func TestBracketFlow_EventsAndDetail(t *testing.T) {
	s := newTestServices(t, nil)
	ctx := context.Background()
	id := s.tournament(t, "1v1", models.BracketSingleElim, "A", "B", "C", "D")

	_, err := s.brackets.Generate(ctx, id, GenerateBracketInput{})
	require.NoError(t, err)
	_, err = s.matches.SetWinner(ctx, id, 1, WinnerInput{Slot: 1})
	require.NoError(t, err)
	_, err = s.matches.SetWinner(ctx, id, 2, WinnerInput{Slot: 2})
	require.NoError(t, err)
	_, err = s.matches.SetWinner(ctx, id, 3, WinnerInput{Slot: 1})
	require.NoError(t, err)

	_, err = s.matches.ClearWinner(ctx, id, 1)
	require.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, "conflict", models.ErrorKind(err))
	assert.Contains(t, err.Error(), "clear it first")

	types := s.publisher.types()
	assert.Contains(t, types, events.TypeBracketUpdated)
	assert.Contains(t, types, events.TypeRosterUpdated)
	assert.Contains(t, types, events.TypeTournamentUpdated)
}

func TestBracketService_ParticipantSubset(t *testing.T) {
	s := newTestServices(t, nil)
	ctx := context.Background()
	id := s.tournament(t, "1v1", models.BracketSingleElim, "A", "B", "C", "D")

	_, err := s.brackets.Generate(ctx, id, GenerateBracketInput{ParticipantEntryIDs: []int{4, 4}})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = s.brackets.Generate(ctx, id, GenerateBracketInput{ParticipantEntryIDs: []int{4, 99}})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.brackets.Generate(ctx, id, GenerateBracketInput{ParticipantEntryIDs: []int{4}})
	assert.ErrorIs(t, err, models.ErrInsufficientEntrants)

	snap, err := s.brackets.Generate(ctx, id, GenerateBracketInput{ParticipantEntryIDs: []int{4, 2}})
	require.NoError(t, err)
	require.Len(t, snap.Rounds[1], 1)
	assert.Equal(t, "D", snap.Rounds[1][0].Player1Name)
	assert.Equal(t, "B", snap.Rounds[1][0].Player2Name)
}

func TestBracketService_RegenerateContinuesNumbering(t *testing.T) {
	s := newTestServices(t, nil)
	ctx := context.Background()
	id := s.tournament(t, "1v1", models.BracketSingleElim, "A", "B", "C", "D")

	_, err := s.brackets.Generate(ctx, id, GenerateBracketInput{})
	require.NoError(t, err)

	_, err = s.brackets.Generate(ctx, id, GenerateBracketInput{BracketType: models.BracketDoubleElim})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = s.brackets.Regenerate(ctx, id, GenerateBracketInput{BracketType: models.BracketDoubleElim})
	assert.ErrorIs(t, err, models.ErrInsufficientEntrants)

	snap, err := s.brackets.Regenerate(ctx, id, GenerateBracketInput{})
	require.NoError(t, err)
	assert.Equal(t, 4, snap.Rounds[1][0].ID)
}

func TestBracketService_PreviewDoesNotPersist(t *testing.T) {
	s := newTestServices(t, nil)
	ctx := context.Background()
	id := s.tournament(t, "1v1", models.BracketDoubleElim, "A", "B", "C", "D", "E", "F", "G", "H")

	preview, err := s.brackets.Preview(ctx, id, GenerateBracketInput{})
	require.NoError(t, err)
	assert.Equal(t, models.BracketDoubleElim, preview.BracketType)
	assert.Contains(t, preview.Rounds, 11)
	assert.Contains(t, preview.Rounds, 21)

	snap, err := s.brackets.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, snap.Rounds)
	assert.Equal(t, models.StatusOpen, snap.Tournament.Status)

	_, err = s.brackets.Summary(ctx, id)
	assert.ErrorIs(t, err, models.ErrPrecondition)
}

func TestBracketService_Export(t *testing.T) {
	ctx := context.Background()

	s := newTestServices(t, nil)
	id := s.tournament(t, "1v1", models.BracketSingleElim, "A", "B")
	_, err := s.brackets.Export(ctx, id)
	assert.ErrorIs(t, err, models.ErrPrecondition)

	uploader := &memoryUploader{objects: make(map[string][]byte)}
	s = newTestServices(t, storage.NewSnapshotArchive(uploader))
	id = s.tournament(t, "1v1", models.BracketSingleElim, "A", "B")

	_, err = s.brackets.Export(ctx, id)
	assert.ErrorIs(t, err, ErrBracketNotGenerated)

	_, err = s.brackets.Generate(ctx, id, GenerateBracketInput{})
	require.NoError(t, err)
	res, err := s.brackets.Export(ctx, id)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Key, fmt.Sprintf("brackets/%d/", id)))
	assert.Equal(t, "https://cdn.example.test/"+res.Key, res.URL)
	assert.True(t, bytes.Contains(uploader.objects[res.Key], []byte(`"rounds"`)))
}

func TestMatchService_SetSlotValidatesEntity(t *testing.T) {
	s := newTestServices(t, nil)
	ctx := context.Background()
	id := s.tournament(t, "1v1", models.BracketSingleElim, "A", "B", "C", "D")

	_, err := s.matches.SetWinner(ctx, id, 1, WinnerInput{Slot: 1})
	assert.ErrorIs(t, err, ErrBracketNotGenerated)

	_, err = s.brackets.Generate(ctx, id, GenerateBracketInput{})
	require.NoError(t, err)

	_, err = s.matches.SetSlot(ctx, id, 3, 1, SlotInput{EntityID: 42})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.matches.SetSlot(ctx, id, 3, 1, SlotInput{EntityID: 1, Bye: true})
	assert.ErrorIs(t, err, models.ErrValidation)

	snap, err := s.matches.SetSlot(ctx, id, 3, 1, SlotInput{Bye: true})
	require.NoError(t, err)
	assert.Equal(t, "BYE", snap.Rounds[2][0].Player1Name)

	snap, err = s.matches.SwapSlots(ctx, id, SwapSlotsInput{A: SlotRef{MatchID: 1, Slot: 1}, B: SlotRef{MatchID: 2, Slot: 1}})
	require.NoError(t, err)
	assert.Equal(t, "C", snap.Rounds[1][0].Player1Name)
	assert.Equal(t, "A", snap.Rounds[1][1].Player1Name)
}

func TestTeamFlow_SubstituteLocksStandby(t *testing.T) {
	s := newTestServices(t, nil)
	ctx := context.Background()
	id := s.tournament(t, "2v2", models.BracketSingleElim, "W", "X", "Y", "Z")

	_, err := s.teams.Get(ctx, s.tournament(t, "1v1", models.BracketSingleElim))
	assert.ErrorIs(t, err, models.ErrPrecondition)

	teamsSnap, err := s.teams.RegenerateAll(ctx, id)
	require.NoError(t, err)
	require.Len(t, teamsSnap.Teams, 2)
	assert.Equal(t, "Team 1", teamsSnap.Teams[0].Name)
	assert.True(t, teamsSnap.Teams[0].Full)
	assert.Empty(t, teamsSnap.Unassigned)

	_, err = s.brackets.Generate(ctx, id, GenerateBracketInput{})
	assert.ErrorIs(t, err, models.ErrConflict, "regenerating teams seeds the bracket")
	snap, err := s.brackets.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.EntityTeam, snap.EntityKind)
	require.Len(t, snap.Teams, 2)
	final := snap.Rounds[1][0]
	require.NotNil(t, final.Team1ID)
	assert.Equal(t, teamsSnap.Teams[0].ID, *final.Team1ID)
	assert.Equal(t, "Team 1", final.Team1Name)

	rosterSnap, err := s.roster.Add(ctx, id, models.ListStandby, AddEntrantInput{DisplayName: "Sub"})
	require.NoError(t, err)
	sub := rosterSnap.Standby[0]
	assert.False(t, sub.Eligible)

	teamsSnap, err = s.teams.Substitute(ctx, id, SubstituteInput{
		TeamID:    teamsSnap.Teams[0].ID,
		LeavingID: teamsSnap.Teams[0].Members[0].ID,
		StandbyID: sub.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, sub.ID, teamsSnap.Teams[0].Members[0].ID)

	rosterSnap, err = s.roster.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, rosterSnap.Standby, 1)
	assert.True(t, rosterSnap.Standby[0].InGame)
	require.NotNil(t, rosterSnap.Standby[0].TeamID)

	_, err = s.roster.Remove(ctx, id, sub.ID, models.ListStandby)
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = s.teams.RemoveTeam(ctx, id, teamsSnap.Teams[0].ID)
	assert.ErrorIs(t, err, models.ErrConflict, "team is in the bracket")

	_, err = s.teams.RegenerateAll(ctx, id)
	require.NoError(t, err)
	tv, err := s.tournaments.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, tv.HasBracket)
	assert.Equal(t, 2, tv.Teams)
	assert.Equal(t, models.StatusInProgress, tv.Status)
}

func TestTeamFlow_RegenerateAllWithoutEnoughTeamsLeavesNoBracket(t *testing.T) {
	s := newTestServices(t, nil)
	ctx := context.Background()
	id := s.tournament(t, "2v2", models.BracketDoubleElim, "A", "B", "C", "D")

	teamsSnap, err := s.teams.RegenerateAll(ctx, id)
	require.NoError(t, err)
	assert.Len(t, teamsSnap.Teams, 2)

	tv, err := s.tournaments.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, tv.HasBracket)
	assert.Equal(t, models.StatusOpen, tv.Status)
}

func TestStore_SerializesConcurrentCommands(t *testing.T) {
	s := newTestServices(t, nil)
	ctx := context.Background()
	id := s.tournament(t, "1v1", models.BracketSingleElim)

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.roster.Add(ctx, id, models.ListParticipant, AddEntrantInput{DisplayName: fmt.Sprintf("P%d", i)})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	snap, err := s.roster.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, snap.Participants, n)

	seen := make(map[int]bool)
	for _, e := range snap.Participants {
		assert.False(t, seen[e.ID], "entrant id %d handed out twice", e.ID)
		seen[e.ID] = true
	}
	assert.Zero(t, s.store.locks.size())
}

func TestTournamentLocks_AcquireHonorsContext(t *testing.T) {
	locks := newTournamentLocks()
	release, err := locks.acquire(context.Background(), 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = locks.acquire(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)

	other, err := locks.acquire(context.Background(), 2)
	require.NoError(t, err, "other tournaments are not blocked")
	other()

	release()
	assert.Zero(t, locks.size())
}
