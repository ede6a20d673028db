package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/events"
	"github.com/Dosada05/tournament-brackets/handlers"
	"github.com/Dosada05/tournament-brackets/repositories"
	"github.com/Dosada05/tournament-brackets/services"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("routes-test-secret")

type envelope struct {
	Tournament struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Format string `json:"format"`
		Status string `json:"status"`
	} `json:"tournament"`
	Roster struct {
		Participants []struct {
			ID          int    `json:"id"`
			DisplayName string `json:"display_name"`
		} `json:"participants"`
	} `json:"roster"`
	Bracket struct {
		BracketType string `json:"bracket_type"`
		Rounds      map[string][]struct {
			ID         int    `json:"id"`
			State      string `json:"state"`
			WinnerName string `json:"winner_name"`
		} `json:"rounds"`
	} `json:"bracket"`
	Error struct {
		Kind   string `json:"kind"`
		Detail string `json:"detail"`
	} `json:"error"`
}

type apiClient struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := services.NewStore(repositories.NewMemoryTournamentStateRepository(), events.Discard{}, logger)
	bracketService := services.NewBracketService(store, nil)

	router := chi.NewRouter()
	SetupRoutes(router, Options{JWTSecret: testSecret, AllowedOrigins: []string{"*"}}, Handlers{
		Tournament: handlers.NewTournamentHandler(services.NewTournamentService(store)),
		Roster:     handlers.NewRosterHandler(services.NewRosterService(store)),
		Team:       handlers.NewTeamHandler(services.NewTeamService(store)),
		Bracket:    handlers.NewBracketHandler(bracketService, services.NewMatchService(store)),
		WebSocket:  handlers.NewWebSocketHandler(brackets.NewHub(logger), bracketService, []string{"*"}),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &apiClient{t: t, server: server, token: signToken(t, "moderator")}
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func (c *apiClient) do(method, path, token string, body interface{}) (int, envelope) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(c.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (c *apiClient) createTournament(name string, names ...string) int {
	c.t.Helper()
	status, env := c.do(http.MethodPost, "/tournaments", c.token, map[string]string{"name": name, "format": "1v1"})
	require.Equal(c.t, http.StatusCreated, status, env.Error.Detail)
	id := env.Tournament.ID
	for _, n := range names {
		status, env = c.do(http.MethodPost, fmt.Sprintf("/tournaments/%d/roster/participant", id), c.token, map[string]string{"display_name": n})
		require.Equal(c.t, http.StatusCreated, status, env.Error.Detail)
	}
	return id
}

func TestHealthz(t *testing.T) {
	api := newAPI(t)
	resp, err := api.server.Client().Get(api.server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMutationsRequireModerator(t *testing.T) {
	api := newAPI(t)
	body := map[string]string{"name": "Cup", "format": "1v1"}

	tests := []struct {
		name   string
		token  string
		status int
		kind   string
	}{
		{name: "no token", token: "", status: http.StatusUnauthorized, kind: "unauthorized"},
		{name: "garbage token", token: "not-a-jwt", status: http.StatusUnauthorized, kind: "unauthorized"},
		{name: "viewer", token: signToken(t, "viewer"), status: http.StatusForbidden, kind: "forbidden"},
		{name: "admin", token: signToken(t, "admin"), status: http.StatusCreated},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body["name"] = fmt.Sprintf("Cup %d", i)
			status, env := api.do(http.MethodPost, "/tournaments", tt.token, body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.kind, env.Error.Kind)
		})
	}

	status, _ := api.do(http.MethodGet, "/tournaments", "", nil)
	assert.Equal(t, http.StatusOK, status, "reads stay public")
}

func TestErrorMapping(t *testing.T) {
	api := newAPI(t)
	id := api.createTournament("Errors Cup", "Ann", "Bob")

	status, env := api.do(http.MethodGet, "/tournaments/999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", env.Error.Kind)

	status, env = api.do(http.MethodGet, "/tournaments/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation", env.Error.Kind)

	status, env = api.do(http.MethodGet, fmt.Sprintf("/tournaments/%d/bracket/summary", id), "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "precondition", env.Error.Kind)

	status, env = api.do(http.MethodPost, fmt.Sprintf("/tournaments/%d/roster/bench", id), api.token, map[string]string{"display_name": "Cat"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation", env.Error.Kind)

	status, env = api.do(http.MethodPost, fmt.Sprintf("/tournaments/%d/roster/participant", id), api.token, map[string]string{"nickname": "Cat"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error.Detail, "unknown key")

	status, env = api.do(http.MethodPost, fmt.Sprintf("/tournaments/%d/bracket/generate", id), api.token, map[string]string{"bracket_type": "double_elim"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "insufficient_entrants", env.Error.Kind)

	status, env = api.do(http.MethodGet, fmt.Sprintf("/tournaments/%d/teams", id), "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status, "1v1 has no teams")
	assert.Equal(t, "precondition", env.Error.Kind)
}

func TestSingleEliminationOverHTTP(t *testing.T) {
	api := newAPI(t)
	id := api.createTournament("Spring Cup", "Ann", "Bob", "Cid", "Dan")
	base := fmt.Sprintf("/tournaments/%d", id)

	status, env := api.do(http.MethodGet, base+"/roster", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, env.Roster.Participants, 4)
	assert.Equal(t, "Ann", env.Roster.Participants[0].DisplayName)

	status, env = api.do(http.MethodPost, base+"/bracket/generate", api.token, nil)
	require.Equal(t, http.StatusCreated, status, env.Error.Detail)
	assert.Equal(t, "single_elim", env.Bracket.BracketType)
	require.Len(t, env.Bracket.Rounds["1"], 2)
	require.Len(t, env.Bracket.Rounds["2"], 1)

	status, env = api.do(http.MethodPost, base+"/bracket/generate", api.token, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", env.Error.Kind)

	status, env = api.do(http.MethodPost, base+"/bracket/matches/3/winner", api.token, map[string]int{"slot": 1})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Error.Detail, "cannot set a winner before both slots are filled")

	for _, matchID := range []int{1, 2, 3} {
		status, env = api.do(http.MethodPost, fmt.Sprintf("%s/bracket/matches/%d/winner", base, matchID), api.token, map[string]int{"slot": 1})
		require.Equal(t, http.StatusOK, status, env.Error.Detail)
	}
	assert.Equal(t, "Ann", env.Bracket.Rounds["2"][0].WinnerName)

	status, env = api.do(http.MethodPost, base+"/bracket/matches/1/winner", api.token, map[string]int{"slot": 2})
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, env.Error.Detail, "downstream match 3 already decided")

	status, env = api.do(http.MethodGet, base, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "completed", env.Tournament.Status)

	status, _ = api.do(http.MethodPost, base+"/bracket/matches/3/clear-winner", api.token, nil)
	require.Equal(t, http.StatusOK, status)
	status, env = api.do(http.MethodGet, base, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "in_progress", env.Tournament.Status)

	status, env = api.do(http.MethodPost, base+"/bracket/export", api.token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status, "no archive configured")
	assert.Equal(t, "precondition", env.Error.Kind)

	status, _ = api.do(http.MethodDelete, base, api.token, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = api.do(http.MethodGet, base, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUpdateAndCloneTournament(t *testing.T) {
	api := newAPI(t)
	id := api.createTournament("Spring Open", "A", "B", "C")
	path := fmt.Sprintf("/tournaments/%d", id)

	status, _ := api.do(http.MethodPatch, path, "", map[string]string{"name": "Spring Major"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := api.do(http.MethodPatch, path, api.token, map[string]string{"name": "Spring Major", "format": "3v3"})
	require.Equal(t, http.StatusOK, status, env.Error.Detail)
	assert.Equal(t, "Spring Major", env.Tournament.Name)
	assert.Equal(t, "3v3", env.Tournament.Format)

	status, env = api.do(http.MethodPost, path+"/clone", api.token, nil)
	require.Equal(t, http.StatusCreated, status, env.Error.Detail)
	assert.Equal(t, "Spring Major (copy)", env.Tournament.Name)
	assert.Equal(t, "open", env.Tournament.Status)
	cloneID := env.Tournament.ID
	assert.NotEqual(t, id, cloneID)

	status, env = api.do(http.MethodGet, fmt.Sprintf("/tournaments/%d/roster", cloneID), "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, env.Roster.Participants, 3)
	assert.Equal(t, "A", env.Roster.Participants[0].DisplayName)

	status, env = api.do(http.MethodPost, path+"/clone", api.token, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", env.Error.Kind)
}
