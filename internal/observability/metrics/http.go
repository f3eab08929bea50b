package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "corr"

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge
	rejectedTotal   *prometheus.CounterVec

	analysesTotal      *prometheus.CounterVec
	analysisDuration   *prometheus.HistogramVec
	staffTasks         *prometheus.HistogramVec
	highPriorityTotal  *prometheus.CounterVec
	classifierFailures *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	rejectedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rejected_total",
			Help:      "Requests rejected by traffic control, by reason.",
		},
		[]string{"service", "reason"},
	)
	analysesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "completed_total",
			Help:      "Completed analyses by sentiment category.",
		},
		[]string{"service", "endpoint", "category"},
	)
	analysisDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Analysis duration in seconds, classifier call included.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	staffTasks := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "staff_tasks",
			Help:      "Distribution of extracted staff task lines per analysis.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service", "endpoint"},
	)
	highPriorityTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "high_priority_tasks_total",
			Help:      "Total urgent staff tasks extracted.",
		},
		[]string{"service", "endpoint"},
	)
	classifierFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "failures_total",
			Help:      "Sentiment classifier failures surfaced to callers.",
		},
		[]string{"service", "endpoint", "temporary"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		rejectedTotal,
		analysesTotal,
		analysisDuration,
		staffTasks,
		highPriorityTotal,
		classifierFailures,
	)

	return &HTTPServerMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		rejectedTotal:      rejectedTotal,
		analysesTotal:      analysesTotal,
		analysisDuration:   analysisDuration,
		staffTasks:         staffTasks,
		highPriorityTotal:  highPriorityTotal,
		classifierFailures: classifierFailures,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
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
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/communications/") &&
		!strings.HasSuffix(path, "/email") &&
		!strings.HasSuffix(path, "/transcript") &&
		!strings.HasSuffix(path, "/upload"):
		return "/v1/communications/{communication_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordAnalysis(service, endpoint, category string, taskLines, highPriority int, duration time.Duration) {
	if category == "" {
		category = "unknown"
	}
	m.analysesTotal.WithLabelValues(service, endpoint, category).Inc()
	m.analysisDuration.WithLabelValues(service, endpoint).Observe(duration.Seconds())
	m.staffTasks.WithLabelValues(service, endpoint).Observe(float64(taskLines))
	if highPriority > 0 {
		m.highPriorityTotal.WithLabelValues(service, endpoint).Add(float64(highPriority))
	}
}

func (m *HTTPServerMetrics) RecordClassifierFailure(service, endpoint string, temporary bool) {
	m.classifierFailures.WithLabelValues(service, endpoint, strconv.FormatBool(temporary)).Inc()
}

func (m *HTTPServerMetrics) RecordRejected(service, reason string) {
	m.rejectedTotal.WithLabelValues(service, reason).Inc()
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
