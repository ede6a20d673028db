package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err    error
		status int
		kind   string
	}{
		{fmt.Errorf("%w: name required", models.ErrValidation), http.StatusBadRequest, "validation"},
		{fmt.Errorf("%w: entrant 4", models.ErrNotFound), http.StatusNotFound, "not_found"},
		{fmt.Errorf("%w: team full", models.ErrCapacity), http.StatusConflict, "capacity"},
		{fmt.Errorf("%w: need 8", models.ErrInsufficientEntrants), http.StatusConflict, "insufficient_entrants"},
		{fmt.Errorf("%w: same slot", models.ErrNoOp), http.StatusConflict, "no_op"},
		{fmt.Errorf("%w: downstream", models.ErrConflict), http.StatusConflict, "conflict"},
		{fmt.Errorf("%w: undecided", models.ErrPrecondition), http.StatusUnprocessableEntity, "precondition"},
		{fmt.Errorf("%w: in game", models.ErrForbidden), http.StatusForbidden, "forbidden"},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			mapServiceErrorToHTTP(w, r, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), fmt.Sprintf(`"kind":%q`, tt.kind))
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "disk on fire")
			}
		})
	}
}

func TestReadJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", "body must not be empty"},
		{"syntax", `{"name":`, "badly-formed JSON"},
		{"unknown key", `{"title":"x"}`, `unknown key "title"`},
		{"wrong type", `{"name":5}`, `incorrect JSON type for field "name"`},
		{"two values", `{"name":"a"}{"name":"b"}`, "single JSON value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload
			err := readJSON(w, r, &dst)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	var dst payload
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ann"}`))
	require.NoError(t, readJSON(httptest.NewRecorder(), r, &dst))
	assert.Equal(t, "Ann", dst.Name)
}

func TestReadOptionalJSON_EmptyBody(t *testing.T) {
	var dst struct {
		Slot int `json:"slot"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	require.NoError(t, readOptionalJSON(httptest.NewRecorder(), r, &dst))
	assert.Zero(t, dst.Slot)
}
