package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	staleMarkedTotal *prometheus.CounterVec
	eventDuration    *prometheus.HistogramVec
	eventsInFlight   prometheus.Gauge
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	staleMarkedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vs",
			Subsystem: "worker",
			Name:      "stale_marked_total",
			Help:      "Total content-change events handled by status.",
		},
		[]string{"service", "status"},
	)
	eventDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vs",
			Subsystem: "worker",
			Name:      "event_duration_seconds",
			Help:      "Content-change event handling duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	eventsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "vs",
			Subsystem: "worker",
			Name:      "events_in_flight",
			Help:      "Number of in-flight content-change events.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(staleMarkedTotal, eventDuration, eventsInFlight)

	return &WorkerMetrics{
		registry:         registry,
		staleMarkedTotal: staleMarkedTotal,
		eventDuration:    eventDuration,
		eventsInFlight:   eventsInFlight,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartEvent() {
	m.eventsInFlight.Inc()
}

func (m *WorkerMetrics) FinishEvent(service string, duration time.Duration, err error) {
	m.eventsInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.staleMarkedTotal.WithLabelValues(service, status).Inc()
	m.eventDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}
