package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/kirillkom/correspondence-analyzer/internal/config"
	"github.com/kirillkom/correspondence-analyzer/internal/core/ports"
	"github.com/kirillkom/correspondence-analyzer/internal/observability/metrics"
)

const (
	serviceName     = "api"
	maxJSONBodySize = 4 << 20
)

type Router struct {
	cfg      config.Config
	analyzer ports.CorrespondenceAnalyzer
	ingestor ports.CommunicationIngestor
	reader   ports.CommunicationReader
	metrics  *metrics.HTTPServerMetrics
}

type Option func(*Router)

func WithMetrics(m *metrics.HTTPServerMetrics) Option {
	return func(rt *Router) {
		rt.metrics = m
	}
}

func NewRouter(
	cfg config.Config,
	analyzer ports.CorrespondenceAnalyzer,
	ingestor ports.CommunicationIngestor,
	reader ports.CommunicationReader,
	opts ...Option,
) *Router {
	rt := &Router{
		cfg:      cfg,
		analyzer: analyzer,
		ingestor: ingestor,
		reader:   reader,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("POST /v1/analyze", rt.analyze)
	mux.HandleFunc("POST /v1/communications/email", rt.submitEmail)
	mux.HandleFunc("POST /v1/communications/transcript", rt.submitTranscript)
	mux.HandleFunc("POST /v1/communications/upload", rt.uploadCommunication)
	mux.HandleFunc("GET /v1/communications", rt.listCommunications)
	mux.HandleFunc("GET /v1/communications/{id}", rt.getCommunication)
	mux.HandleFunc("GET /v1/tasks", rt.listTasks)

	var handler http.Handler = mux
	if rt.cfg.APIMaxInFlight > 0 {
		wait := time.Duration(rt.cfg.APIBackpressureWaitMS) * time.Millisecond
		handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, wait, rt.rejected("backpressure"))
	}
	if rt.cfg.APIRateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, rt.rejected("rate_limit"))
	}

	root := http.NewServeMux()
	if rt.metrics != nil {
		root.Handle("GET /metrics", rt.metrics.Handler())
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	root.Handle("/", handler)

	return requestIDMiddleware(accessLogMiddleware(root, rt.cfg.RulesetVersion))
}

func (rt *Router) rejected(reason string) func() {
	return func() {
		if rt.metrics != nil {
			rt.metrics.RecordRejected(serviceName, reason)
		}
	}
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json: " + err.Error()})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request_failed", "request_id", requestIDFromContext(r.Context()), "path", r.URL.Path, "error", err)
		message = "internal error"
	}
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
