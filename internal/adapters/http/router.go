package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sitebrain/vectorsearch/internal/core/ports"
	"github.com/sitebrain/vectorsearch/internal/observability/metrics"
)

// Options tunes the traffic-control middleware in front of the API.
type Options struct {
	RateLimitRPS     float64
	RateLimitBurst   int
	MaxInFlight      int
	BackpressureWait time.Duration
}

type Router struct {
	searchUC  ports.SearchService
	chatUC    ports.ChatService
	contentUC ports.ContentWriter
	indexer   ports.ContentIndexer
	settings  ports.SettingsStore
	metrics   *metrics.HTTPServerMetrics
	service   string
	options   Options
}

func NewRouter(
	service string,
	searchUC ports.SearchService,
	chatUC ports.ChatService,
	contentUC ports.ContentWriter,
	indexer ports.ContentIndexer,
	settings ports.SettingsStore,
	serverMetrics *metrics.HTTPServerMetrics,
	options Options,
) *Router {
	return &Router{
		searchUC:  searchUC,
		chatUC:    chatUC,
		contentUC: contentUC,
		indexer:   indexer,
		settings:  settings,
		metrics:   serverMetrics,
		service:   service,
		options:   options,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/search", rt.search)
	mux.HandleFunc("/v1/chat", rt.chat)
	mux.HandleFunc("/v1/documents", rt.upsertDocument)
	mux.HandleFunc("/v1/admin/reindex", rt.reindex)
	mux.HandleFunc("/v1/admin/settings", rt.settingsHandler)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	if rt.options.MaxInFlight > 0 {
		handler = backpressureMiddleware(handler, rt.options.MaxInFlight, rt.options.BackpressureWait)
	}
	if rt.options.RateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.options.RateLimitRPS, rt.options.RateLimitBurst)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
