package schedule

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/klye32/fit-coach/pkg"
)

type scheduleRepo interface {
	List(ctx context.Context) ([]Entry, error)
	Replace(ctx context.Context, entries []NewEntry) error
	Clear(ctx context.Context) error
}

type Handler struct {
	repo scheduleRepo
}

func NewHandler(repo scheduleRepo) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/schedule", h.handleList).Methods("GET", "OPTIONS").Name("get-schedule")
	router.HandleFunc("/api/schedule", h.handleReplace).Methods("POST", "OPTIONS").Name("set-schedule")
	router.HandleFunc("/api/schedule", h.handleClear).Methods("DELETE", "OPTIONS").Name("clear-schedule")
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.repo.List(r.Context())
	if err != nil {
		log.Errorf("list schedule: %s", err)
		pkg.WriteJSONError(w, "list schedule failed", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(entries)
	if err != nil {
		log.Errorf("list schedule, marshal response: %s", err)
		pkg.WriteJSONError(w, "list schedule failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (h *Handler) handleReplace(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var entries []NewEntry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		log.Errorf("set schedule, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "set schedule failed, invalid body", http.StatusBadRequest)
		return
	}

	if err := h.repo.Replace(r.Context(), entries); err != nil {
		log.Errorf("set schedule: %s", err)
		pkg.WriteJSONError(w, "set schedule failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"status": "scheduled"}`)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "DELETE, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.repo.Clear(r.Context()); err != nil {
		log.Errorf("clear schedule: %s", err)
		pkg.WriteJSONError(w, "clear schedule failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"status": "cleared"}`)
}
