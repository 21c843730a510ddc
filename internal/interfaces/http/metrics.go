package http

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// MetricsRegistry holds all Prometheus metrics for SearchLens
type MetricsRegistry struct {
	// Per-detector duration metrics
	SectionDuration *prometheus.HistogramVec

	// Finding counts by detector
	Findings *prometheus.CounterVec

	// Analysis run counters
	ActiveAnalyses prometheus.Gauge
	TotalAnalyses  prometheus.Counter
	AnalysisErrors *prometheus.CounterVec
}

// NewMetricsRegistry creates a new metrics registry with all SearchLens metrics
func NewMetricsRegistry() *MetricsRegistry {
	registry := &MetricsRegistry{
		SectionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "searchlens_section_duration_seconds",
				Help:    "Duration of each analysis section in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"section"},
		),

		Findings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "searchlens_findings_total",
				Help: "Total findings produced by detector",
			},
			[]string{"detector"},
		),

		ActiveAnalyses: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "searchlens_active_analyses",
				Help: "Number of currently running analyses",
			},
		),

		TotalAnalyses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "searchlens_analyses_total",
				Help: "Total number of analyses initiated",
			},
		),

		AnalysisErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "searchlens_analysis_errors_total",
				Help: "Total number of analysis errors by kind",
			},
			[]string{"kind"},
		),
	}

	prometheus.MustRegister(
		registry.SectionDuration,
		registry.Findings,
		registry.ActiveAnalyses,
		registry.TotalAnalyses,
		registry.AnalysisErrors,
	)

	return registry
}

// SectionTimer tracks execution time for one analysis section
type SectionTimer struct {
	metrics *MetricsRegistry
	section string
	start   time.Time
}

// StartSectionTimer begins timing an analysis section
func (m *MetricsRegistry) StartSectionTimer(section string) *SectionTimer {
	return &SectionTimer{
		metrics: m,
		section: section,
		start:   time.Now(),
	}
}

// Stop completes the section timing and records the metric
func (st *SectionTimer) Stop() {
	duration := time.Since(st.start)
	st.metrics.SectionDuration.WithLabelValues(st.section).Observe(duration.Seconds())

	log.Debug().
		Str("section", st.section).
		Dur("duration", duration).
		Msg("Analysis section completed")
}

// RecordFindings records the finding count for a detector
func (m *MetricsRegistry) RecordFindings(detector string, count int) {
	m.Findings.WithLabelValues(detector).Add(float64(count))
}

// RecordAnalysisError records a failed analysis by error kind
func (m *MetricsRegistry) RecordAnalysisError(kind string) {
	m.AnalysisErrors.WithLabelValues(kind).Inc()
	log.Warn().Str("kind", kind).Msg("Analysis error recorded")
}

// IncrementActiveAnalyses increments the active analyses counter
func (m *MetricsRegistry) IncrementActiveAnalyses() {
	m.ActiveAnalyses.Inc()
	m.TotalAnalyses.Inc()
}

// DecrementActiveAnalyses decrements the active analyses counter
func (m *MetricsRegistry) DecrementActiveAnalyses() {
	m.ActiveAnalyses.Dec()
}

// MetricsHandler returns an HTTP handler for Prometheus metrics
func (m *MetricsRegistry) MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// Global metrics registry instance
var DefaultMetrics *MetricsRegistry

// InitializeMetrics initializes the global metrics registry
func InitializeMetrics() {
	DefaultMetrics = NewMetricsRegistry()
	log.Info().Msg("Prometheus metrics registry initialized")
}
