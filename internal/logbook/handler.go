package logbook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/klye32/fit-coach/internal/telemetry/metrics"
	"github.com/klye32/fit-coach/pkg"
)

type logbookRepo interface {
	Add(ctx context.Context, entry NewEntry) (int, error)
	List(ctx context.Context) ([]Entry, error)
}

type Handler struct {
	repo    logbookRepo
	metrics *metrics.Manager
}

func NewHandler(repo logbookRepo, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metrics,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/logs", h.handleList).Methods("GET", "OPTIONS").Name("list-log-entries")
	router.HandleFunc("/api/logs", h.handleAdd).Methods("POST", "OPTIONS").Name("new-log-entry")
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var entry NewEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		log.Errorf("add log entry, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "add log entry failed, invalid body", http.StatusBadRequest)
		return
	}

	if _, err := h.repo.Add(r.Context(), entry); err != nil {
		if errors.Is(err, ErrInvalidEntry) {
			pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("add log entry: %s", err)
		pkg.WriteJSONError(w, "add log entry failed", http.StatusInternalServerError)
		return
	}

	h.metrics.CounterSessionsLogged.Inc()

	pkg.WriteJSONResponseOK(w, `{"status": "logged"}`)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.repo.List(r.Context())
	if err != nil {
		log.Errorf("list log entries: %s", err)
		pkg.WriteJSONError(w, "list log entries failed", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(entries)
	if err != nil {
		log.Errorf("list log entries, marshal response: %s", err)
		pkg.WriteJSONError(w, "list log entries failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}
