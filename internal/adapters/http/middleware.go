package httpadapter

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	requestIDHeader    = "X-Request-Id"
	maxRequestIDLength = 128
)

type requestIDContextKey struct{}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	requestID, _ := ctx.Value(requestIDContextKey{}).(string)
	return requestID
}

// requestIDMiddleware propagates a caller supplied id when it is safe to log
// and issues a fresh one otherwise.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}

		r = r.WithContext(context.WithValue(r.Context(), requestIDContextKey{}, requestID))
		w.Header().Set(requestIDHeader, requestID)
		next.ServeHTTP(w, r)
	})
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, r := range id {
		if r < 0x21 || r > 0x7e {
			return false
		}
	}
	return true
}

// routeGroup buckets a path by the part of the service it reaches. The
// communication id is returned separately for per-item lookups.
func routeGroup(path string) (group, communicationID string) {
	switch {
	case path == "/healthz" || path == "/metrics":
		return "ops", ""
	case path == "/v1/analyze":
		return "analyze", ""
	case path == "/v1/tasks":
		return "tasks", ""
	case path == "/v1/communications":
		return "communications", ""
	case strings.HasPrefix(path, "/v1/communications/"):
		rest := strings.TrimPrefix(path, "/v1/communications/")
		switch rest {
		case "email", "transcript", "upload":
			return "ingest", ""
		}
		if rest != "" && !strings.Contains(rest, "/") {
			return "communications", rest
		}
	}
	return "other", ""
}

func accessLogMiddleware(next http.Handler, rulesetVersion string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(recorder, r)

		remoteAddr := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			remoteAddr = host
		}
		group, communicationID := routeGroup(r.URL.Path)

		attrs := []any{
			"request_id", requestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"route", group,
			"status", recorder.statusCode,
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"bytes", recorder.bytesWritten,
			"remote_addr", remoteAddr,
		}
		if communicationID != "" {
			attrs = append(attrs, "communication_id", communicationID)
		}
		if group == "analyze" && rulesetVersion != "" {
			attrs = append(attrs, "ruleset", rulesetVersion)
		}

		level := slog.LevelInfo
		switch {
		case recorder.statusCode >= 500:
			level = slog.LevelError
		case recorder.statusCode >= 400:
			level = slog.LevelWarn
		case group == "ops":
			level = slog.LevelDebug
		}
		slog.Log(r.Context(), level, "http_request", attrs...)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
