package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestsActive  prometheus.Gauge

	// LLM metrics
	LLMRequestsTotal   *prometheus.CounterVec
	LLMRequestDuration *prometheus.HistogramVec
	LLMCacheHits       *prometheus.CounterVec

	// Pipeline metrics
	StageDuration      *prometheus.HistogramVec
	FallbacksTotal     *prometheus.CounterVec
	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	SupersededTotal    prometheus.Counter
	ExportsTotal       *prometheus.CounterVec

	// Temporal workflow metrics
	WorkflowsStarted *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics registers all metrics on reg. A nil reg uses a fresh registry with
// the Go and process collectors, so tests never collide on the default one.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	if namespace == "" {
		namespace = "landingforge"
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsActive: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_active",
				Help:      "Number of active HTTP requests",
			},
		),

		LLMRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_requests_total",
				Help:      "Total number of LLM chat completion requests",
			},
			[]string{"agent", "status"},
		),
		LLMRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_request_duration_seconds",
				Help:      "LLM request duration in seconds",
				Buckets:   []float64{.5, 1, 2, 5, 10, 20, 30, 60, 120},
			},
			[]string{"agent"},
		),
		LLMCacheHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_cache_hits_total",
				Help:      "LLM responses served from cache",
			},
			[]string{"agent"},
		),

		StageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pipeline_stage_duration_seconds",
				Help:      "Duration of each generation stage",
				Buckets:   []float64{.01, .05, .1, .5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"stage", "status"},
		),
		FallbacksTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "agent_fallbacks_total",
				Help:      "Agent outputs replaced by deterministic fallbacks",
			},
			[]string{"agent", "reason"},
		),
		GenerationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Landing page generations",
			},
			[]string{"template", "status"},
		),
		GenerationDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_duration_seconds",
				Help:      "End-to-end generation duration",
				Buckets:   []float64{5, 10, 20, 30, 60, 90, 120, 180, 300},
			},
		),
		SupersededTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_superseded_total",
				Help:      "Generations discarded because a newer request arrived",
			},
		),
		ExportsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exports_total",
				Help:      "Exported landing page artifacts",
			},
			[]string{"status"},
		),

		WorkflowsStarted: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "workflows_started_total",
				Help:      "Total number of workflows started",
			},
			[]string{"workflow_type"},
		),

		gatherer: reg,
	}
}

// Handler serves the registry the metrics were created on
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordLLMRequest implements llm.Recorder
func (m *Metrics) RecordLLMRequest(agent, status string, duration time.Duration) {
	m.LLMRequestsTotal.WithLabelValues(agent, status).Inc()
	m.LLMRequestDuration.WithLabelValues(agent).Observe(duration.Seconds())
}

// RecordLLMCacheHit implements llm.Recorder
func (m *Metrics) RecordLLMCacheHit(agent string) {
	m.LLMCacheHits.WithLabelValues(agent).Inc()
}

// RecordFallback implements agents.FallbackRecorder
func (m *Metrics) RecordFallback(agent, reason string) {
	m.FallbacksTotal.WithLabelValues(agent, reason).Inc()
}

// RecordStage records one pipeline stage
func (m *Metrics) RecordStage(stage, status string, duration time.Duration) {
	m.StageDuration.WithLabelValues(stage, status).Observe(duration.Seconds())
}

// RecordGeneration records a finished generation
func (m *Metrics) RecordGeneration(template, status string, duration time.Duration) {
	m.GenerationsTotal.WithLabelValues(template, status).Inc()
	if status == "success" {
		m.GenerationDuration.Observe(duration.Seconds())
	}
}

// RecordSuperseded counts a discarded stale generation
func (m *Metrics) RecordSuperseded() {
	m.SupersededTotal.Inc()
}

// RecordExport records an export attempt
func (m *Metrics) RecordExport(status string) {
	m.ExportsTotal.WithLabelValues(status).Inc()
}

// RecordWorkflowStart records workflow start
func (m *Metrics) RecordWorkflowStart(workflowType string) {
	m.WorkflowsStarted.WithLabelValues(workflowType).Inc()
}

// HTTPMiddleware returns middleware for recording HTTP metrics.
// Paths are labeled with the chi route pattern to keep ids out of label values.
func (m *Metrics) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.HTTPRequestsActive.Inc()
		defer m.HTTPRequestsActive.Dec()

		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		m.RecordHTTPRequest(r.Method, path, wrapped.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
