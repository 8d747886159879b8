// internal/platform/metrics/metrics.go
package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"subsift/internal/platform/logx"
)

var (
	defaultMetrics *Metrics
	defaultOnce    sync.Once
)

// Default retorna la instancia de métricas del proceso.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = New()
	})
	return defaultMetrics
}

// Metrics agrupa los contadores e histogramas Prometheus del pipeline.
// Siempre se instancia; el endpoint HTTP solo se arranca si hay dirección
// configurada.
type Metrics struct {
	registry *prometheus.Registry

	// Fuentes
	CandidatesTotal   *prometheus.CounterVec
	DuplicatesTotal   prometheus.Counter
	PagesTotal        *prometheus.CounterVec
	PageFetchDuration *prometheus.HistogramVec
	SourceFailures    *prometheus.CounterVec

	// Resolución
	LookupsTotal    *prometheus.CounterVec
	LookupDuration  prometheus.Histogram
	LookupRetries   prometheus.Counter
	InFlightLookups prometheus.Gauge

	// Wildcard
	WildcardDetected prometheus.Gauge
}

// New crea y registra todas las métricas en un registry propio.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	buckets := []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

	return &Metrics{
		registry: registry,

		CandidatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subsift_candidates_total",
				Help: "Candidate names produced by each source",
			},
			[]string{"source"},
		),
		DuplicatesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "subsift_duplicates_total",
				Help: "Candidates discarded by case-insensitive deduplication",
			},
		),
		PagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subsift_pages_total",
				Help: "Dataset pages fetched per source",
			},
			[]string{"source", "status"},
		),
		PageFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "subsift_page_fetch_duration_seconds",
				Help:    "Time spent fetching one dataset page",
				Buckets: buckets,
			},
			[]string{"source"},
		),
		SourceFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subsift_source_failures_total",
				Help: "Sources that terminated with an error",
			},
			[]string{"source"},
		),

		LookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subsift_lookups_total",
				Help: "DNS verifications by final status",
			},
			[]string{"status"},
		),
		LookupDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "subsift_lookup_duration_seconds",
				Help:    "Time spent resolving one candidate",
				Buckets: buckets,
			},
		),
		LookupRetries: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "subsift_lookup_retries_total",
				Help: "DNS lookups retried after transient failures",
			},
		),
		InFlightLookups: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "subsift_inflight_lookups",
				Help: "DNS lookups currently in flight",
			},
		),

		WildcardDetected: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "subsift_wildcard_detected",
				Help: "Whether the target zone answered wildcard probes (1) or not (0)",
			},
		),
	}
}

// Registry expone el registry para handlers o tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler retorna el handler HTTP del endpoint /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveLookup registra una verificación completa.
func (m *Metrics) ObserveLookup(status string, duration time.Duration, retries int) {
	m.LookupsTotal.WithLabelValues(status).Inc()
	m.LookupDuration.Observe(duration.Seconds())
	if retries > 0 {
		m.LookupRetries.Add(float64(retries))
	}
}

// ObservePage registra la descarga de una página de dataset.
func (m *Metrics) ObservePage(source string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.PagesTotal.WithLabelValues(source, status).Inc()
	m.PageFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// Server expone las métricas por HTTP con apagado ordenado.
type Server struct {
	srv    *http.Server
	logger logx.Logger
}

// NewServer construye el servidor de métricas en addr.
func NewServer(addr string, m *Metrics, logger logx.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger.With("component", "metrics"),
	}
}

// Start arranca el listener en background.
func (s *Server) Start() {
	go func() {
		s.logger.Info("metrics endpoint listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Err(err, "addr", s.srv.Addr)
		}
	}()
}

// Shutdown detiene el servidor respetando el contexto.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
