package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/events"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/storage"
	"github.com/thoas/go-funk"
)

// GenerateBracketInput optionally overrides the tournament's bracket type.
// ParticipantEntryIDs seeds a 1v1 bracket with a subset of the participants
// in the given order instead of the whole participant list.
type GenerateBracketInput struct {
	BracketType         models.BracketType `json:"bracket_type,omitempty"`
	ParticipantEntryIDs []int              `json:"participant_entry_ids,omitempty"`
}

type BracketService interface {
	Get(ctx context.Context, tournamentID int) (*BracketSnapshot, error)
	Preview(ctx context.Context, tournamentID int, input GenerateBracketInput) (*BracketSnapshot, error)
	Summary(ctx context.Context, tournamentID int) (*SummaryView, error)
	Generate(ctx context.Context, tournamentID int, input GenerateBracketInput) (*BracketSnapshot, error)
	Regenerate(ctx context.Context, tournamentID int, input GenerateBracketInput) (*BracketSnapshot, error)
	Export(ctx context.Context, tournamentID int) (*ExportResult, error)
}

type bracketService struct {
	store   *Store
	archive *storage.SnapshotArchive
}

// NewBracketService builds the bracket service. archive may be nil, in which
// case Export is unavailable.
func NewBracketService(store *Store, archive *storage.SnapshotArchive) BracketService {
	return &bracketService{store: store, archive: archive}
}

// seedIDs lists the bracket entities in seeding order: teams with at least one
// member for team formats, participants for 1v1.
func seedIDs(state *models.TournamentState, entryIDs []int) (models.EntityKind, []int, error) {
	if state.Tournament.IsTeamFormat() {
		if len(entryIDs) > 0 {
			return "", nil, fmt.Errorf("%w: participant_entry_ids only applies to 1v1 formats", models.ErrValidation)
		}
		seeded := funk.Filter(state.Teams, func(t models.Team) bool {
			return len(t.Members) > 0
		}).([]models.Team)
		return models.EntityTeam, funk.Map(seeded, func(t models.Team) int { return t.ID }).([]int), nil
	}

	participants := funk.Map(state.List(models.ListParticipant), func(e *models.Entrant) int {
		return e.ID
	}).([]int)
	if len(entryIDs) == 0 {
		return models.EntityEntrant, participants, nil
	}

	if len(funk.UniqInt(entryIDs)) != len(entryIDs) {
		return "", nil, fmt.Errorf("%w: participant_entry_ids contains duplicates", models.ErrValidation)
	}
	for _, id := range entryIDs {
		if !funk.ContainsInt(participants, id) {
			return "", nil, fmt.Errorf("%w: entrant %d is not a participant", models.ErrNotFound, id)
		}
	}
	return models.EntityEntrant, entryIDs, nil
}

// buildBracket generates a bracket into state, replacing any existing one.
func buildBracket(ctx context.Context, state *models.TournamentState, input GenerateBracketInput) error {
	bracketType := input.BracketType
	if bracketType == "" {
		bracketType = state.Tournament.BracketType
	}
	if !bracketType.Valid() {
		return fmt.Errorf("%w: got %q", ErrTournamentInvalidBracketType, bracketType)
	}

	kind, ids, err := seedIDs(state, input.ParticipantEntryIDs)
	if err != nil {
		return err
	}
	gen, err := brackets.NewGenerator(bracketType)
	if err != nil {
		return err
	}
	b, err := gen.GenerateBracket(ctx, brackets.GenerateBracketParams{
		EntityIDs:    ids,
		EntityKind:   kind,
		FirstMatchID: state.NextMatchID,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", gen.GetName(), err)
	}

	state.Bracket = b
	state.Tournament.BracketType = bracketType
	state.NextMatchID = b.MaxMatchID() + 1
	return nil
}

// PreviewBracket generates a bracket on a copy of state and returns its
// snapshot. state itself is left untouched.
func PreviewBracket(ctx context.Context, state *models.TournamentState, input GenerateBracketInput) (*BracketSnapshot, error) {
	preview := state.Clone()
	if err := buildBracket(ctx, preview, input); err != nil {
		return nil, err
	}
	return bracketSnapshot(preview), nil
}

func (s *bracketService) Get(ctx context.Context, tournamentID int) (*BracketSnapshot, error) {
	state, err := s.store.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return bracketSnapshot(state), nil
}

func (s *bracketService) Preview(ctx context.Context, tournamentID int, input GenerateBracketInput) (*BracketSnapshot, error) {
	state, err := s.store.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return PreviewBracket(ctx, state, input)
}

func (s *bracketService) Summary(ctx context.Context, tournamentID int) (*SummaryView, error) {
	state, err := s.store.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if state.Bracket == nil {
		return nil, ErrBracketNotGenerated
	}
	return summaryView(state), nil
}

func (s *bracketService) generate(ctx context.Context, tournamentID int, input GenerateBracketInput, replace bool) (*BracketSnapshot, error) {
	state, err := s.store.mutate(ctx, tournamentID, func(state *models.TournamentState) error {
		if state.Bracket != nil && !replace {
			return ErrBracketAlreadyGenerated
		}
		return buildBracket(ctx, state, input)
	})
	if err != nil {
		return nil, err
	}

	s.store.logger.InfoContext(ctx, "bracket generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("bracket_type", string(state.Bracket.Type)),
		slog.Int("matches", len(state.Bracket.Matches)),
		slog.Bool("replaced", replace))

	snap := bracketSnapshot(state)
	s.store.publish(ctx, events.TypeBracketUpdated, tournamentID, snap)
	return snap, nil
}

func (s *bracketService) Generate(ctx context.Context, tournamentID int, input GenerateBracketInput) (*BracketSnapshot, error) {
	return s.generate(ctx, tournamentID, input, false)
}

func (s *bracketService) Regenerate(ctx context.Context, tournamentID int, input GenerateBracketInput) (*BracketSnapshot, error) {
	return s.generate(ctx, tournamentID, input, true)
}

// Export archives the current bracket snapshot and returns where it landed.
func (s *bracketService) Export(ctx context.Context, tournamentID int) (*ExportResult, error) {
	if s.archive == nil {
		return nil, ErrArchiveUnavailable
	}
	state, err := s.store.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if state.Bracket == nil {
		return nil, ErrBracketNotGenerated
	}

	res, err := s.archive.Store(ctx, tournamentID, bracketSnapshot(state))
	if err != nil {
		return nil, fmt.Errorf("archive bracket of tournament %d: %w", tournamentID, err)
	}
	s.store.logger.InfoContext(ctx, "bracket exported", slog.Int("tournament_id", tournamentID), slog.String("key", res.Key))
	return &ExportResult{Key: res.Key, URL: res.Location}, nil
}
