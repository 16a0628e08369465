package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	retrievalTotal          *prometheus.CounterVec
	retrievalHitTotal       *prometheus.CounterVec
	retrievalNoContextTotal *prometheus.CounterVec
	fusedResults            *prometheus.HistogramVec
	retrievalDuration       *prometheus.HistogramVec
	generationFailuresTotal *prometheus.CounterVec
	indexedDocumentsTotal   *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vs",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vs",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "vs",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	retrievalTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vs",
			Subsystem: "retrieval",
			Name:      "requests_total",
			Help:      "Total completed retrieval requests.",
		},
		[]string{"service", "endpoint"},
	)
	retrievalHitTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vs",
			Subsystem: "retrieval",
			Name:      "hit_total",
			Help:      "Total retrieval requests with at least one fused result.",
		},
		[]string{"service", "endpoint"},
	)
	retrievalNoContextTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vs",
			Subsystem: "retrieval",
			Name:      "no_context_total",
			Help:      "Total retrieval requests without fused results.",
		},
		[]string{"service", "endpoint"},
	)
	fusedResults := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vs",
			Subsystem: "retrieval",
			Name:      "fused_results",
			Help:      "Distribution of fused results per retrieval request.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service", "endpoint"},
	)
	retrievalDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vs",
			Subsystem: "retrieval",
			Name:      "duration_seconds",
			Help:      "Retrieval pipeline duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	generationFailuresTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vs",
			Subsystem: "generation",
			Name:      "failures_total",
			Help:      "Total answer generation failures by reason.",
		},
		[]string{"service", "endpoint", "reason"},
	)
	indexedDocumentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vs",
			Subsystem: "index",
			Name:      "documents_total",
			Help:      "Total indexed documents by status.",
		},
		[]string{"service", "status"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		retrievalTotal,
		retrievalHitTotal,
		retrievalNoContextTotal,
		fusedResults,
		retrievalDuration,
		generationFailuresTotal,
		indexedDocumentsTotal,
	)

	return &HTTPServerMetrics{
		registry:                registry,
		requestTotal:            requestTotal,
		requestDuration:         requestDuration,
		requestInFlight:         requestInFlight,
		retrievalTotal:          retrievalTotal,
		retrievalHitTotal:       retrievalHitTotal,
		retrievalNoContextTotal: retrievalNoContextTotal,
		fusedResults:            fusedResults,
		retrievalDuration:       retrievalDuration,
		generationFailuresTotal: generationFailuresTotal,
		indexedDocumentsTotal:   indexedDocumentsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			r.URL.Path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

func (m *HTTPServerMetrics) RecordRetrieval(service, endpoint string, fusedCount int, duration time.Duration) {
	m.retrievalTotal.WithLabelValues(service, endpoint).Inc()
	m.fusedResults.WithLabelValues(service, endpoint).Observe(float64(fusedCount))
	m.retrievalDuration.WithLabelValues(service, endpoint).Observe(duration.Seconds())

	if fusedCount > 0 {
		m.retrievalHitTotal.WithLabelValues(service, endpoint).Inc()
		return
	}
	m.retrievalNoContextTotal.WithLabelValues(service, endpoint).Inc()
}

func (m *HTTPServerMetrics) RecordGenerationFailure(service, endpoint, reason string) {
	if reason == "" {
		reason = "unknown"
	}
	m.generationFailuresTotal.WithLabelValues(service, endpoint, reason).Inc()
}

func (m *HTTPServerMetrics) RecordIndexedDocument(service string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.indexedDocumentsTotal.WithLabelValues(service, status).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
