// Package roster maintains the participant and standby lists of a tournament.
// List order is the default seeding order of the bracket.
package roster

import (
	"fmt"
	"strings"

	"github.com/Dosada05/tournament-brackets/models"
)

type Store struct {
	state *models.TournamentState
}

func NewStore(state *models.TournamentState) *Store {
	return &Store{state: state}
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: display name must not be empty", models.ErrValidation)
	}
	return name, nil
}

func checkList(list models.ListType) error {
	if !list.Valid() {
		return fmt.Errorf("%w: unknown list %q", models.ErrValidation, list)
	}
	return nil
}

func (s *Store) entrant(id int) (*models.Entrant, error) {
	e := s.state.Entrant(id)
	if e == nil {
		return nil, fmt.Errorf("%w: entrant %d", models.ErrNotFound, id)
	}
	return e, nil
}

// Add appends a manual entrant to list.
func (s *Store) Add(list models.ListType, displayName string) (*models.Entrant, error) {
	return s.add(list, displayName, models.SourceManual, "")
}

// AddExternal appends an entrant owned by the registration subsystem. ref
// identifies the registration and must be unique within the tournament.
func (s *Store) AddExternal(list models.ListType, displayName, ref string) (*models.Entrant, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: external reference must not be empty", models.ErrValidation)
	}
	if s.byRef(ref) != nil {
		return nil, fmt.Errorf("%w: registration %q is already on the roster", models.ErrConflict, ref)
	}
	return s.add(list, displayName, models.SourceExternal, ref)
}

func (s *Store) add(list models.ListType, displayName string, source models.EntrantSource, ref string) (*models.Entrant, error) {
	if err := checkList(list); err != nil {
		return nil, err
	}
	name, err := normalizeName(displayName)
	if err != nil {
		return nil, err
	}

	e := models.Entrant{
		ID:               s.state.NextEntrantID,
		DisplayName:      name,
		ListType:         list,
		OriginalListType: list,
		Source:           source,
		ExternalRef:      ref,
		Eligible:         list == models.ListParticipant,
	}
	s.state.NextEntrantID++
	s.state.Entrants = append(s.state.Entrants, e)
	return &s.state.Entrants[len(s.state.Entrants)-1], nil
}

func (s *Store) byRef(ref string) *models.Entrant {
	for i := range s.state.Entrants {
		if s.state.Entrants[i].ExternalRef == ref {
			return &s.state.Entrants[i]
		}
	}
	return nil
}

// visibleIn reports whether e is shown in the view of list. Standby entrants
// pulled into play stay visible in the standby view.
func visibleIn(e *models.Entrant, view models.ListType) bool {
	return e.ListType == view || (view == models.ListStandby && e.OriginalListType == models.ListStandby)
}

// Remove deletes a manual entrant from the given view. An in-game standby
// entrant cannot be removed from the standby view.
func (s *Store) Remove(id int, view models.ListType) error {
	if err := checkList(view); err != nil {
		return err
	}
	e, err := s.entrant(id)
	if err != nil {
		return err
	}
	if !visibleIn(e, view) {
		return fmt.Errorf("%w: entrant %d is not in the %s list", models.ErrNotFound, id, view)
	}
	if e.IsExternal() {
		return fmt.Errorf("%w: entrant %d comes from registration and is removed there", models.ErrForbidden, id)
	}
	if view == models.ListStandby && e.InGame() {
		return fmt.Errorf("%w: entrant %d is in game; substitute them out before removing", models.ErrConflict, id)
	}
	return s.delete(e)
}

// RemoveExternal deletes the entrant of a registration.
func (s *Store) RemoveExternal(ref string) error {
	e := s.byRef(strings.TrimSpace(ref))
	if e == nil {
		return fmt.Errorf("%w: registration %q", models.ErrNotFound, ref)
	}
	if e.InGame() {
		return fmt.Errorf("%w: entrant %d is in game; substitute them out before removing", models.ErrConflict, e.ID)
	}
	return s.delete(e)
}

func (s *Store) delete(e *models.Entrant) error {
	if b := s.state.Bracket; b != nil && b.EntityKind == models.EntityEntrant && b.References(e.ID) {
		return fmt.Errorf("%w: entrant %d is placed in the bracket; replace them there first", models.ErrConflict, e.ID)
	}
	dropMembership(s.state, e.ID)

	idx := s.state.EntrantIndex(e.ID)
	s.state.Entrants = append(s.state.Entrants[:idx], s.state.Entrants[idx+1:]...)
	return nil
}

func dropMembership(state *models.TournamentState, entrantID int) {
	if team, idx := state.TeamOf(entrantID); team != nil {
		team.Members = append(team.Members[:idx], team.Members[idx+1:]...)
	}
}

func (s *Store) Rename(id int, displayName string) (*models.Entrant, error) {
	e, err := s.entrant(id)
	if err != nil {
		return nil, err
	}
	if e.IsExternal() {
		return nil, fmt.Errorf("%w: entrant %d takes its name from registration", models.ErrForbidden, id)
	}
	name, err := normalizeName(displayName)
	if err != nil {
		return nil, err
	}
	e.DisplayName = name
	if team, idx := s.state.TeamOf(id); team != nil {
		team.Members[idx].DisplayName = name
	}
	return e, nil
}

// Reorder puts the entrants of list in the order of ids. Ids that are not in
// the list are ignored; entrants missing from ids keep their relative order
// after the ones named.
func (s *Store) Reorder(list models.ListType, ids []int) error {
	if err := checkList(list); err != nil {
		return err
	}

	current := s.state.List(list)
	inList := make(map[int]models.Entrant, len(current))
	positions := make([]int, 0, len(current))
	for _, e := range current {
		inList[e.ID] = *e
		positions = append(positions, s.state.EntrantIndex(e.ID))
	}

	ordered := make([]models.Entrant, 0, len(current))
	placed := make(map[int]bool, len(current))
	for _, id := range ids {
		e, ok := inList[id]
		if !ok || placed[id] {
			continue
		}
		ordered = append(ordered, e)
		placed[id] = true
	}
	for _, e := range current {
		if !placed[e.ID] {
			ordered = append(ordered, *e)
		}
	}

	for i, pos := range positions {
		s.state.Entrants[pos] = ordered[i]
	}
	return nil
}

// Move transfers an entrant to the end of target. OriginalListType is never
// touched; moving to standby drops team membership.
func (s *Store) Move(id int, target models.ListType) (*models.Entrant, error) {
	if err := checkList(target); err != nil {
		return nil, err
	}
	e, err := s.entrant(id)
	if err != nil {
		return nil, err
	}
	if e.ListType == target {
		return e, nil
	}

	moved := *e
	moved.ListType = target
	if target == models.ListStandby {
		dropMembership(s.state, id)
	}

	idx := s.state.EntrantIndex(id)
	s.state.Entrants = append(s.state.Entrants[:idx], s.state.Entrants[idx+1:]...)
	s.state.Entrants = append(s.state.Entrants, moved)
	return &s.state.Entrants[len(s.state.Entrants)-1], nil
}

// SetEligible marks whether a standby entrant joins the pool of a team
// regeneration.
func (s *Store) SetEligible(id int, eligible bool) (*models.Entrant, error) {
	e, err := s.entrant(id)
	if err != nil {
		return nil, err
	}
	e.Eligible = eligible
	return e, nil
}
