package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/services"
	"github.com/go-chi/chi/v5"
)

type RosterHandler struct {
	rosterService services.RosterService
}

func NewRosterHandler(rs services.RosterService) *RosterHandler {
	return &RosterHandler{
		rosterService: rs,
	}
}

type reorderInput struct {
	EntrantIDs []int `json:"entrant_ids"`
}

type renameInput struct {
	DisplayName string `json:"display_name"`
}

type moveInput struct {
	Target models.ListType `json:"target"`
}

type eligibilityInput struct {
	Eligible bool `json:"eligible"`
}

// GetRoster godoc
// @Summary Participant and standby lists
// @Tags roster
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /tournaments/{tournamentID}/roster [get]
func (h *RosterHandler) GetRoster(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	roster, err := h.rosterService.Get(r.Context(), tournamentID)
	respond(w, r, http.StatusOK, "roster", roster, err)
}

// AddEntrant godoc
// @Summary Add a manual entrant to a list
// @Tags roster
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param list path string true "participant or standby"
// @Param input body services.AddEntrantInput true "Entrant"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/roster/{list} [post]
func (h *RosterHandler) AddEntrant(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	list, err := getListFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.AddEntrantInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logMutation(r, "add_entrant", tournamentID)
	roster, err := h.rosterService.Add(r.Context(), tournamentID, list, input)
	respond(w, r, http.StatusCreated, "roster", roster, err)
}

// Reorder godoc
// @Summary Reorder a list
// @Tags roster
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param list path string true "participant or standby"
// @Param input body reorderInput true "Every entrant id of the list in the new order"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/roster/{list}/reorder [patch]
func (h *RosterHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	list, err := getListFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input reorderInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logMutation(r, "reorder", tournamentID)
	roster, err := h.rosterService.Reorder(r.Context(), tournamentID, list, input.EntrantIDs)
	respond(w, r, http.StatusOK, "roster", roster, err)
}

// RemoveEntrant godoc
// @Summary Remove a manual entrant from a list view
// @Tags roster
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param list path string true "participant or standby"
// @Param entrantID path int true "Entrant ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{} "registered entrant"
// @Failure 409 {object} map[string]interface{} "entrant in game or in the bracket"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/roster/{list}/{entrantID} [delete]
func (h *RosterHandler) RemoveEntrant(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	list, err := getListFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	entrantID, err := getIDFromURL(r, "entrantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logMutation(r, "remove_entrant", tournamentID)
	roster, err := h.rosterService.Remove(r.Context(), tournamentID, entrantID, list)
	respond(w, r, http.StatusOK, "roster", roster, err)
}

// Rename godoc
// @Summary Rename a manual entrant
// @Tags roster
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param entrantID path int true "Entrant ID"
// @Param input body renameInput true "New name"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/entrants/{entrantID} [patch]
func (h *RosterHandler) Rename(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	entrantID, err := getIDFromURL(r, "entrantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input renameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logMutation(r, "rename_entrant", tournamentID)
	roster, err := h.rosterService.Rename(r.Context(), tournamentID, entrantID, input.DisplayName)
	respond(w, r, http.StatusOK, "roster", roster, err)
}

// Move godoc
// @Summary Move an entrant to the end of the other list
// @Tags roster
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param entrantID path int true "Entrant ID"
// @Param input body moveInput true "Target list"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/entrants/{entrantID}/move [patch]
func (h *RosterHandler) Move(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	entrantID, err := getIDFromURL(r, "entrantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input moveInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logMutation(r, "move_entrant", tournamentID)
	roster, err := h.rosterService.Move(r.Context(), tournamentID, entrantID, input.Target)
	respond(w, r, http.StatusOK, "roster", roster, err)
}

func (h *RosterHandler) SetEligibility(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	entrantID, err := getIDFromURL(r, "entrantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input eligibilityInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logMutation(r, "set_eligibility", tournamentID)
	roster, err := h.rosterService.SetEligible(r.Context(), tournamentID, entrantID, input.Eligible)
	respond(w, r, http.StatusOK, "roster", roster, err)
}

// AddRegistration godoc
// @Summary Add the entrant of an external registration
// @Tags registrations
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param input body services.AddRegistrationInput true "Registration"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "registration already on the roster"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/registrations [post]
func (h *RosterHandler) AddRegistration(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.AddRegistrationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logMutation(r, "add_registration", tournamentID)
	roster, err := h.rosterService.AddExternal(r.Context(), tournamentID, input)
	respond(w, r, http.StatusCreated, "roster", roster, err)
}

func (h *RosterHandler) RemoveRegistration(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logMutation(r, "remove_registration", tournamentID)
	roster, err := h.rosterService.RemoveExternal(r.Context(), tournamentID, chi.URLParam(r, "ref"))
	respond(w, r, http.StatusOK, "roster", roster, err)
}
