package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/services"
)

type BracketHandler struct {
	bracketService services.BracketService
	matchService   services.MatchService
}

func NewBracketHandler(bs services.BracketService, ms services.MatchService) *BracketHandler {
	return &BracketHandler{
		bracketService: bs,
		matchService:   ms,
	}
}

// GetBracket godoc
// @Summary Bracket snapshot
// @Description Rounds are keyed by round number: winners rounds as is, losers rounds plus 10, grand finals 21.
// @Tags bracket
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Router /tournaments/{tournamentID}/bracket [get]
func (h *BracketHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.bracketService.Get(r.Context(), tournamentID)
	respond(w, r, http.StatusOK, "bracket", bracket, err)
}

// Preview godoc
// @Summary Preview the bracket generation would produce
// @Tags bracket
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param bracket_type query string false "single_elim or double_elim"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "insufficient entrants"
// @Router /tournaments/{tournamentID}/bracket/preview [get]
func (h *BracketHandler) Preview(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input := services.GenerateBracketInput{}
	if bt := r.URL.Query().Get("bracket_type"); bt != "" {
		input.BracketType = models.BracketType(bt)
	}

	bracket, err := h.bracketService.Preview(r.Context(), tournamentID, input)
	respond(w, r, http.StatusOK, "bracket", bracket, err)
}

func (h *BracketHandler) Summary(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	summary, err := h.bracketService.Summary(r.Context(), tournamentID)
	respond(w, r, http.StatusOK, "summary", summary, err)
}

// Generate godoc
// @Summary Generate the bracket
// @Tags bracket
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param input body services.GenerateBracketInput false "Bracket type override and 1v1 seeding"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "bracket exists or insufficient entrants"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/bracket/generate [post]
func (h *BracketHandler) Generate(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, false)
}

// Regenerate godoc
// @Summary Replace the bracket with a freshly generated one
// @Tags bracket
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param input body services.GenerateBracketInput false "Bracket type override and 1v1 seeding"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/bracket/regenerate [post]
func (h *BracketHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, true)
}

func (h *BracketHandler) generate(w http.ResponseWriter, r *http.Request, replace bool) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.GenerateBracketInput
	if err := readOptionalJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var bracket *services.BracketSnapshot
	if replace {
		logMutation(r, "regenerate_bracket", tournamentID)
		bracket, err = h.bracketService.Regenerate(r.Context(), tournamentID, input)
	} else {
		logMutation(r, "generate_bracket", tournamentID)
		bracket, err = h.bracketService.Generate(r.Context(), tournamentID, input)
	}
	respond(w, r, http.StatusCreated, "bracket", bracket, err)
}

// Export godoc
// @Summary Archive the bracket snapshot in object storage
// @Tags bracket
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{} "no bracket or no archive configured"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/bracket/export [post]
func (h *BracketHandler) Export(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logMutation(r, "export_bracket", tournamentID)
	export, err := h.bracketService.Export(r.Context(), tournamentID)
	respond(w, r, http.StatusCreated, "export", export, err)
}
