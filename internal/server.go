package internal

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/klye32/fit-coach/internal/advice"
	"github.com/klye32/fit-coach/internal/config"
	"github.com/klye32/fit-coach/internal/logbook"
	"github.com/klye32/fit-coach/internal/middleware"
	"github.com/klye32/fit-coach/internal/schedule"
	"github.com/klye32/fit-coach/internal/storage"
	"github.com/klye32/fit-coach/internal/telemetry/metrics"
	"github.com/klye32/fit-coach/internal/telemetry/tracing"
	"github.com/klye32/fit-coach/internal/workouts"
	"github.com/klye32/fit-coach/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	versionInfo string
	config      *config.Config

	db           *storage.DB
	adviceClient *advice.Client

	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	OpenAIAPIKey            string
	VersionInfo             string
	HoneycombTracingEnabled bool
}

func NewServer(params NewServerParams) (*Server, error) {
	cfg := params.Config

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		log.Warnf("storage ping failed: %s", err)
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("fitcoach", "service", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fit-coach")
	if err != nil {
		return nil, fmt.Errorf("honeycomb setup: %w", err)
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	adviceClient := advice.NewClient(cfg.OpenAIBaseURL, params.OpenAIAPIKey, cfg.OpenAIModel, tracedHttpClient)

	return &Server{
		versionInfo:    params.VersionInfo,
		config:         cfg,
		db:             db,
		adviceClient:   adviceClient,
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fit-coach-router"))

	workoutsRepo := workouts.NewRepo(s.db)
	workoutsHandler := workouts.NewHandler(workoutsRepo, s.metricsManager)
	workoutsHandler.SetupRoutes(r)

	scheduleRepo := schedule.NewRepo(s.db)
	scheduleHandler := schedule.NewHandler(scheduleRepo)
	scheduleHandler.SetupRoutes(r)

	logbookRepo := logbook.NewRepo(s.db)
	logbookHandler := logbook.NewHandler(logbookRepo, s.metricsManager)
	logbookHandler.SetupRoutes(r)

	composer := advice.NewComposer(logbookRepo, s.adviceClient)
	adviceHandler := advice.NewHandler(composer, s.metricsManager)
	adviceHandler.SetupRoutes(r)

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, fmt.Sprintf("fit-coach service, version: %s", s.versionInfo))
	}).Methods("GET").Name("root")

	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteJSONError(w, "not found", http.StatusNotFound)
	})

	r.Use(
		middleware.PanicRecovery(s.metricsManager),
		middleware.LogRequest(),
		middleware.RequestMetrics(s.metricsManager),
		middleware.Cors(s.config.AllowedOrigins),
		middleware.DrainAndCloseRequest(),
	)

	return r
}

func (s *Server) Serve() {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         addr,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{
		Registry: s.promRegistry,
	}))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, strconv.Itoa(s.config.PrometheusMetricsPort))
	s.metricsHttpServer = &http.Server{
		Handler:      metricsRouter,
		Addr:         metricsAddr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	go func() {
		log.Infof("prometheus metrics server starting on %s ...", metricsAddr)
		if err := s.metricsHttpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("metrics server: %s", err)
		}
	}()

	go func() {
		log.Infof(" > server listening on: [%s]", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeConnections.Inc()
	case http.StateClosed, http.StateHijacked:
		s.metricsManager.GaugeConnections.Dec()
	}
}

func (s *Server) GracefulShutdown() {
	log.Debugln("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.otelShutdown != nil {
		s.otelShutdown()
	}

	if err := s.db.Close(); err != nil {
		log.Errorf("close storage: %s", err)
	}

	if s.config.SentryEnabled {
		sentry.Flush(5 * time.Second)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Errorf("metrics server shutdown: %s", err)
		}
	}
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Errorf("server shutdown: %s", err)
		}
	}

	log.Debugln("graceful shutdown done")
}
