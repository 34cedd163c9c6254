package schedule

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo scheduleRepo) *mux.Router {
	r := mux.NewRouter()
	NewHandler(repo).SetupRoutes(r)
	return r
}

func doRequest(t *testing.T, router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_replaceAndList(t *testing.T) {
	repo := newRepoMock()
	router := newTestRouter(repo)

	w := doRequest(t, router, "POST", "/api/schedule",
		`[{"date": "2026-08-24", "workout_id": 1}, {"date": "2026-08-26", "workout_id": 2}]`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "scheduled"}`, w.Body.String())

	w = doRequest(t, router, "GET", "/api/schedule", "")
	require.Equal(t, http.StatusOK, w.Code)

	var entries []Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "2026-08-24", entries[0].Date)
	assert.Equal(t, 1, entries[0].WorkoutID)
}

func TestHandler_replace_invalidBody(t *testing.T) {
	router := newTestRouter(newRepoMock())

	w := doRequest(t, router, "POST", "/api/schedule", `{"date": "2026-08-24"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_clear(t *testing.T) {
	repo := newRepoMock()
	require.NoError(t, repo.Replace(context.Background(), []NewEntry{
		{Date: "2026-08-24", WorkoutID: 1},
	}))
	router := newTestRouter(repo)

	w := doRequest(t, router, "DELETE", "/api/schedule", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "cleared"}`, w.Body.String())

	entries, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHandler_list_empty(t *testing.T) {
	router := newTestRouter(newRepoMock())

	w := doRequest(t, router, "GET", "/api/schedule", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
