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

// HTTPServerMetrics holds the service registry: generic HTTP counters
// plus the analysis pipeline instruments.
type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	submissionsTotal     *prometheus.CounterVec
	inferenceDuration    *prometheus.HistogramVec
	uploadBytes          *prometheus.HistogramVec
	droppedProductsTotal *prometheus.CounterVec
	backfillTotal        *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skin",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "skin",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "skin",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	submissionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skin",
			Subsystem: "analysis",
			Name:      "submissions_total",
			Help:      "Total analysis submissions by outcome.",
		},
		[]string{"service", "outcome"},
	)
	inferenceDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "skin",
			Subsystem: "analysis",
			Name:      "inference_duration_seconds",
			Help:      "External inference call duration in seconds by outcome.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 90},
		},
		[]string{"service", "outcome"},
	)
	uploadBytes := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "skin",
			Subsystem: "analysis",
			Name:      "upload_bytes",
			Help:      "Distribution of submitted image sizes in bytes.",
			Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 8),
		},
		[]string{"service"},
	)
	droppedProductsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skin",
			Subsystem: "analysis",
			Name:      "dropped_products_total",
			Help:      "Recommendation entries dropped during result mapping.",
		},
		[]string{"service"},
	)
	backfillTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skin",
			Subsystem: "profile",
			Name:      "skin_type_backfill_total",
			Help:      "Profiles whose skin type was filled from a past analysis.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		submissionsTotal,
		inferenceDuration,
		uploadBytes,
		droppedProductsTotal,
		backfillTotal,
	)

	return &HTTPServerMetrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		submissionsTotal:     submissionsTotal,
		inferenceDuration:    inferenceDuration,
		uploadBytes:          uploadBytes,
		droppedProductsTotal: droppedProductsTotal,
		backfillTotal:        backfillTotal,
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
	case strings.HasPrefix(path, "/v1/analyses/") && path != "/v1/analyses/direct":
		return "/v1/analyses/{analysis_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordSubmission(service, outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.submissionsTotal.WithLabelValues(service, outcome).Inc()
}

func (m *HTTPServerMetrics) RecordInference(service, outcome string, duration time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.inferenceDuration.WithLabelValues(service, outcome).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordUploadSize(service string, sizeBytes int) {
	if sizeBytes <= 0 {
		return
	}
	m.uploadBytes.WithLabelValues(service).Observe(float64(sizeBytes))
}

func (m *HTTPServerMetrics) RecordDroppedProducts(service string, count int) {
	if count <= 0 {
		return
	}
	m.droppedProductsTotal.WithLabelValues(service).Add(float64(count))
}

func (m *HTTPServerMetrics) RecordSkinTypeBackfill(service string) {
	m.backfillTotal.WithLabelValues(service).Inc()
}

// PipelineRecorder binds the pipeline instruments to one service label
// so core code can record without knowing the registry.
type PipelineRecorder struct {
	m       *HTTPServerMetrics
	service string
}

func (m *HTTPServerMetrics) Pipeline(service string) *PipelineRecorder {
	return &PipelineRecorder{m: m, service: service}
}

func (p *PipelineRecorder) RecordInference(outcome string, duration time.Duration) {
	p.m.RecordInference(p.service, outcome, duration)
}

func (p *PipelineRecorder) RecordDroppedProducts(count int) {
	p.m.RecordDroppedProducts(p.service, count)
}

func (p *PipelineRecorder) RecordSkinTypeBackfill() {
	p.m.RecordSkinTypeBackfill(p.service)
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
