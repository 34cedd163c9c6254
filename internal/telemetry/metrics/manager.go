package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterHandleRequestPanic prometheus.Counter
	CounterWorkoutsCreated    prometheus.Counter
	CounterSessionsLogged     prometheus.Counter
	CounterRecommendations    *prometheus.CounterVec

	// gauges
	GaugeRequests    prometheus.Gauge
	GaugeConnections prometheus.Gauge
	GaugeLifeSignal  prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)
	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "total_requests",
			Help:      "Total number of requests",
		}, []string{"method", "status"}),
		CounterHandleRequestPanic: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "handle_request_panic",
			Help:      "Total number of panics during request handling",
		}),
		CounterWorkoutsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workouts_created",
			Help:      "Total number of workouts created",
		}),
		CounterSessionsLogged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sessions_logged",
			Help:      "Total number of workout sessions logged",
		}),
		CounterRecommendations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "recommendations",
			Help:      "Total number of recommendation requests by outcome",
		}, []string{"outcome"}),
		GaugeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "current_requests",
			Help:      "Current number of requests being handled",
		}),
		GaugeConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "open_connections",
			Help:      "Current number of open connections",
		}),
		GaugeLifeSignal: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "life_signal",
			Help:      "Service life signal, 1 when serving",
		}),
		HistogramRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Request duration in seconds per route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status_code"}),
	}
}

// NewTestManager creates a manager backed by a throwaway registry.
func NewTestManager() *Manager {
	return NewManager("test_namespace", "test_subsystem", prometheus.NewRegistry())
}
