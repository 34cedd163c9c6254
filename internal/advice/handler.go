package advice

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/klye32/fit-coach/internal/telemetry/metrics"
	"github.com/klye32/fit-coach/pkg"
)

type recommender interface {
	Recommend(ctx context.Context) (string, error)
}

type RecommendationResponse struct {
	Recommendation string `json:"recommendation"`
}

type Handler struct {
	composer recommender
	metrics  *metrics.Manager
}

func NewHandler(composer recommender, metrics *metrics.Manager) *Handler {
	return &Handler{
		composer: composer,
		metrics:  metrics,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/recommendation", h.handleGet).Methods("GET", "OPTIONS").Name("get-recommendation")
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	recommendation, err := h.composer.Recommend(r.Context())
	if err != nil {
		h.metrics.CounterRecommendations.WithLabelValues("error").Inc()
		log.Errorf("get recommendation: %s", err)
		pkg.WriteJSONError(w, "get recommendation failed", http.StatusInternalServerError)
		return
	}

	h.metrics.CounterRecommendations.WithLabelValues("served").Inc()

	respBytes, err := json.Marshal(RecommendationResponse{Recommendation: recommendation})
	if err != nil {
		log.Errorf("get recommendation, marshal response: %s", err)
		pkg.WriteJSONError(w, "get recommendation failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}
