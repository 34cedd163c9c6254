package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/klye32/fit-coach/internal/telemetry/metrics"
	"github.com/klye32/fit-coach/pkg"
)

type workoutsRepo interface {
	Add(ctx context.Context, workout Workout) (int, error)
	Get(ctx context.Context, id int) (*Workout, error)
	List(ctx context.Context) ([]Workout, error)
	Update(ctx context.Context, id int, fields map[string]any) error
	Delete(ctx context.Context, id int) error
}

type CreateWorkoutResponse struct {
	ID int `json:"id"`
}

type Handler struct {
	repo    workoutsRepo
	metrics *metrics.Manager
}

func NewHandler(repo workoutsRepo, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metrics,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/workouts", h.handleList).Methods("GET", "OPTIONS").Name("list-workouts")
	router.HandleFunc("/api/workouts", h.handleAdd).Methods("POST", "OPTIONS").Name("new-workout")
	router.HandleFunc("/api/workouts/{id}", h.handleGet).Methods("GET", "OPTIONS").Name("get-workout")
	router.HandleFunc("/api/workouts/{id}", h.handleUpdate).Methods("PUT", "OPTIONS").Name("update-workout")
	router.HandleFunc("/api/workouts/{id}", h.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var workout Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Errorf("add workout, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "add workout failed, invalid body", http.StatusBadRequest)
		return
	}

	id, err := h.repo.Add(r.Context(), workout)
	if err != nil {
		if errors.Is(err, ErrInvalidWorkout) {
			pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("add workout: %s", err)
		pkg.WriteJSONError(w, "add workout failed", http.StatusInternalServerError)
		return
	}

	h.metrics.CounterWorkoutsCreated.Inc()

	respBytes, err := json.Marshal(CreateWorkoutResponse{ID: id})
	if err != nil {
		log.Errorf("add workout, marshal response: %s", err)
		pkg.WriteJSONError(w, "add workout failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.List(r.Context())
	if err != nil {
		log.Errorf("list workouts: %s", err)
		pkg.WriteJSONError(w, "list workouts failed", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(all)
	if err != nil {
		log.Errorf("list workouts, marshal response: %s", err)
		pkg.WriteJSONError(w, "list workouts failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := workoutIDParam(w, r)
	if !ok {
		return
	}

	workout, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			pkg.WriteJSONError(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("get workout %d: %s", id, err)
		pkg.WriteJSONError(w, "get workout failed", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(workout)
	if err != nil {
		log.Errorf("get workout %d, marshal response: %s", id, err)
		pkg.WriteJSONError(w, "get workout failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "PUT, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	id, ok := workoutIDParam(w, r)
	if !ok {
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		log.Errorf("update workout %d, unmarshal json params: %s", id, err)
		pkg.WriteJSONError(w, "update workout failed, invalid body", http.StatusBadRequest)
		return
	}

	if err := h.repo.Update(r.Context(), id, fields); err != nil {
		if errors.Is(err, ErrInvalidWorkout) || errors.Is(err, ErrNoUpdateFields) {
			pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("update workout %d: %s", id, err)
		pkg.WriteJSONError(w, "update workout failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"status": "updated"}`)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "DELETE, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	id, ok := workoutIDParam(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		log.Errorf("delete workout %d: %s", id, err)
		pkg.WriteJSONError(w, "delete workout failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"status": "deleted"}`)
}

func workoutIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	idStr := vars["id"]
	if idStr == "" {
		pkg.WriteJSONError(w, "workout id is required", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		pkg.WriteJSONError(w, fmt.Sprintf("invalid workout id: %s", idStr), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
