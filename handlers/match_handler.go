package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-brackets/services"
)

// matchTarget reads the tournament and match ids shared by the match routes.
func matchTarget(w http.ResponseWriter, r *http.Request) (tournamentID, matchID int, ok bool) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, 0, false
	}
	matchID, err = getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, 0, false
	}
	return tournamentID, matchID, true
}

// SetSlot godoc
// @Summary Place an entity, a BYE or nothing into a slot
// @Tags matches
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param matchID path int true "Match ID"
// @Param slot path int true "1 or 2"
// @Param input body services.SlotInput true "Slot content"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/bracket/matches/{matchID}/slots/{slot} [put]
func (h *BracketHandler) SetSlot(w http.ResponseWriter, r *http.Request) {
	tournamentID, matchID, ok := matchTarget(w, r)
	if !ok {
		return
	}
	slot, err := getIDFromURL(r, "slot")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SlotInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logMutation(r, "set_slot", tournamentID)
	bracket, err := h.matchService.SetSlot(r.Context(), tournamentID, matchID, slot, input)
	respond(w, r, http.StatusOK, "bracket", bracket, err)
}

// SwapSlots godoc
// @Summary Exchange two slots of undecided matches
// @Tags matches
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param input body services.SwapSlotsInput true "Both slots"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "same slot twice"
// @Failure 422 {object} map[string]interface{} "a match is decided"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/bracket/matches/swap-slots [post]
func (h *BracketHandler) SwapSlots(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SwapSlotsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logMutation(r, "swap_slots", tournamentID)
	bracket, err := h.matchService.SwapSlots(r.Context(), tournamentID, input)
	respond(w, r, http.StatusOK, "bracket", bracket, err)
}

// SetWinner godoc
// @Summary Decide a match
// @Tags matches
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param matchID path int true "Match ID"
// @Param input body services.WinnerInput true "Winning slot"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "a downstream match is already decided"
// @Failure 422 {object} map[string]interface{} "slots not filled"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/bracket/matches/{matchID}/winner [post]
func (h *BracketHandler) SetWinner(w http.ResponseWriter, r *http.Request) {
	tournamentID, matchID, ok := matchTarget(w, r)
	if !ok {
		return
	}

	var input services.WinnerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logMutation(r, "set_winner", tournamentID)
	bracket, err := h.matchService.SetWinner(r.Context(), tournamentID, matchID, input)
	respond(w, r, http.StatusOK, "bracket", bracket, err)
}

// Dropout godoc
// @Summary Advance the remaining entity after the other one dropped out
// @Tags matches
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param matchID path int true "Match ID"
// @Param input body services.DropoutInput true "Slot that was vacated"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/bracket/matches/{matchID}/dropout [post]
func (h *BracketHandler) Dropout(w http.ResponseWriter, r *http.Request) {
	tournamentID, matchID, ok := matchTarget(w, r)
	if !ok {
		return
	}

	var input services.DropoutInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logMutation(r, "dropout", tournamentID)
	bracket, err := h.matchService.AdvanceOnDropout(r.Context(), tournamentID, matchID, input)
	respond(w, r, http.StatusOK, "bracket", bracket, err)
}

func (h *BracketHandler) SwapWinner(w http.ResponseWriter, r *http.Request) {
	tournamentID, matchID, ok := matchTarget(w, r)
	if !ok {
		return
	}

	logMutation(r, "swap_winner", tournamentID)
	bracket, err := h.matchService.SwapWinner(r.Context(), tournamentID, matchID)
	respond(w, r, http.StatusOK, "bracket", bracket, err)
}

func (h *BracketHandler) ClearWinner(w http.ResponseWriter, r *http.Request) {
	tournamentID, matchID, ok := matchTarget(w, r)
	if !ok {
		return
	}

	logMutation(r, "clear_winner", tournamentID)
	bracket, err := h.matchService.ClearWinner(r.Context(), tournamentID, matchID)
	respond(w, r, http.StatusOK, "bracket", bracket, err)
}
