package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI requests by provider and operation",
		},
		[]string{"provider", "operation"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider", "operation"},
	)

	// Guarded parser outcomes: cached, ok, partial, failed, empty.
	ParseOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parse_outcomes_total",
			Help: "Structured parse outcomes by kind",
		},
		[]string{"outcome"},
	)
	ChunkFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parse_chunk_failures_total",
			Help: "Per-chunk extraction failures by reason",
		},
		[]string{"reason"},
	)

	// Analysis outcome distributions.
	OverallScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_overall_score",
			Help:    "Distribution of the weighted overall score [0,10]",
			Buckets: []float64{1, 2, 3, 4, 5, 5.5, 6, 6.8, 7.8, 8.8, 10},
		},
	)
	BandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_bands_total",
			Help: "Count of analyses per competitiveness band",
		},
		[]string{"band"},
	)
)

// InitMetrics registers all collectors; call once per process.
func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(AIRequestsTotal)
	prometheus.MustRegister(AIRequestDuration)
	prometheus.MustRegister(ParseOutcomesTotal)
	prometheus.MustRegister(ChunkFailuresTotal)
	prometheus.MustRegister(OverallScoreHistogram)
	prometheus.MustRegister(BandsTotal)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// ObserveParseOutcome records one structured-parse outcome.
func ObserveParseOutcome(outcome string) { ParseOutcomesTotal.WithLabelValues(outcome).Inc() }

// ObserveChunkFailure records a per-chunk extraction failure reason.
func ObserveChunkFailure(reason string) { ChunkFailuresTotal.WithLabelValues(reason).Inc() }

// ObserveAnalysis records the resulting score and band from a completed analysis.
func ObserveAnalysis(overall float64, band string) {
	if overall >= 0 && overall <= 10 {
		OverallScoreHistogram.Observe(overall)
	}
	BandsTotal.WithLabelValues(band).Inc()
}
