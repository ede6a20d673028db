package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-brackets/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(ts services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: ts,
	}
}

// teamCommand runs a team command whose body decodes into T.
func teamCommand[T any](op string, run func(r *http.Request, tournamentID int, input T) (*services.TeamsSnapshot, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tournamentID, err := getIDFromURL(r, "tournamentID")
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}

		var input T
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}

		logMutation(r, op, tournamentID)
		teams, err := run(r, tournamentID, input)
		respond(w, r, http.StatusOK, "teams", teams, err)
	}
}

// GetTeams godoc
// @Summary Teams, capacity and unassigned participants
// @Tags teams
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{} "not a team format"
// @Router /tournaments/{tournamentID}/teams [get]
func (h *TeamHandler) GetTeams(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := h.teamService.Get(r.Context(), tournamentID)
	respond(w, r, http.StatusOK, "teams", teams, err)
}

// AddTeam godoc
// @Summary Add an empty team
// @Tags teams
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param input body services.TeamNameInput true "Team name"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams [post]
func (h *TeamHandler) AddTeam(w http.ResponseWriter, r *http.Request) {
	teamCommand("add_team", func(r *http.Request, id int, input services.TeamNameInput) (*services.TeamsSnapshot, error) {
		return h.teamService.AddTeam(r.Context(), id, input)
	})(w, r)
}

func (h *TeamHandler) RenameTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamCommand("rename_team", func(r *http.Request, id int, input services.TeamNameInput) (*services.TeamsSnapshot, error) {
		return h.teamService.RenameTeam(r.Context(), id, teamID, input)
	})(w, r)
}

// RemoveTeam godoc
// @Summary Remove a team
// @Tags teams
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param teamID path int true "Team ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "team is placed in the bracket"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams/{teamID} [delete]
func (h *TeamHandler) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logMutation(r, "remove_team", tournamentID)
	teams, err := h.teamService.RemoveTeam(r.Context(), tournamentID, teamID)
	respond(w, r, http.StatusOK, "teams", teams, err)
}

// Assign godoc
// @Summary Put an entrant on a team
// @Tags teams
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param input body services.AssignInput true "Entrant and team"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "team full or already a member"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams/assign [post]
func (h *TeamHandler) Assign(w http.ResponseWriter, r *http.Request) {
	teamCommand("assign", func(r *http.Request, id int, input services.AssignInput) (*services.TeamsSnapshot, error) {
		return h.teamService.Assign(r.Context(), id, input)
	})(w, r)
}

func (h *TeamHandler) Swap(w http.ResponseWriter, r *http.Request) {
	teamCommand("swap_members", func(r *http.Request, id int, input services.SwapMembersInput) (*services.TeamsSnapshot, error) {
		return h.teamService.Swap(r.Context(), id, input)
	})(w, r)
}

func (h *TeamHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	teamCommand("unassign", func(r *http.Request, id int, input services.UnassignInput) (*services.TeamsSnapshot, error) {
		return h.teamService.Unassign(r.Context(), id, input)
	})(w, r)
}

// Substitute godoc
// @Summary Replace a team member with a standby entrant
// @Tags teams
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param input body services.SubstituteInput true "Team, leaving member and standby entrant"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams/substitute [post]
func (h *TeamHandler) Substitute(w http.ResponseWriter, r *http.Request) {
	teamCommand("substitute", func(r *http.Request, id int, input services.SubstituteInput) (*services.TeamsSnapshot, error) {
		return h.teamService.Substitute(r.Context(), id, input)
	})(w, r)
}

// RegenerateAll godoc
// @Summary Rebuild every team from participants and eligible standby
// @Description Discards the bracket, which refers to the old teams.
// @Tags teams
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "not enough entrants for one team"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams/regenerate [post]
func (h *TeamHandler) RegenerateAll(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logMutation(r, "regenerate_teams", tournamentID)
	teams, err := h.teamService.RegenerateAll(r.Context(), tournamentID)
	respond(w, r, http.StatusOK, "teams", teams, err)
}
