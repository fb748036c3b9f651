package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Aquilabot/SmartPC-API/internal/models"
)

// Manager owns the service metrics and the registry they live on.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Compatibility
	validations          *prometheus.CounterVec
	validationIssues     *prometheus.CounterVec
	unresolvedComponents prometheus.Counter

	// Catalog
	catalogErrors *prometheus.CounterVec
	priceSyncs    *prometheus.CounterVec

	// Recommendations
	recommendations *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a manager on a fresh registry unless WithRegistry says
// otherwise. Go runtime and process collectors are always included.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "smartpc",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	m.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m.validations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validations_total",
		Help:      "Configurations validated, by outcome",
	}, []string{"valid"})

	m.validationIssues = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validation_issues_total",
		Help:      "Compatibility issues reported, by type and severity",
	}, []string{"issue_type", "severity"})

	m.unresolvedComponents = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unresolved_components_total",
		Help:      "Component ids submitted for validation that are not in the catalog",
	})

	m.catalogErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_errors_total",
		Help:      "Catalog operations that failed, by operation",
	}, []string{"op"})

	m.priceSyncs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "price_syncs_total",
		Help:      "Product price refreshes, by result",
	}, []string{"result"})

	m.recommendations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendations_total",
		Help:      "Recommendation queries answered, by segment",
	}, []string{"segment"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests, by method, route and status",
	}, []string{"method", "route", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   m.histogramBuckets,
	}, []string{"method", "route"})
}

// RecordValidation counts one validation and each issue it produced.
func (m *Manager) RecordValidation(res models.ValidationResult) {
	m.validations.WithLabelValues(strconv.FormatBool(res.IsValid)).Inc()
	for _, issue := range res.Issues {
		m.validationIssues.WithLabelValues(string(issue.IssueType), string(issue.Severity)).Inc()
	}
}

// RecordUnresolved counts ids that did not resolve during validation.
func (m *Manager) RecordUnresolved(ids []string) {
	m.unresolvedComponents.Add(float64(len(ids)))
}

func (m *Manager) RecordCatalogError(op string) {
	m.catalogErrors.WithLabelValues(op).Inc()
}

// RecordPriceSync counts a price refresh; result is "updated", "unchanged"
// or "failed".
func (m *Manager) RecordPriceSync(result string) {
	m.priceSyncs.WithLabelValues(result).Inc()
}

func (m *Manager) RecordRecommendation(segment models.Segment) {
	m.recommendations.WithLabelValues(string(segment)).Inc()
}

// ObserveHTTP records one served request.
func (m *Manager) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RegisterCacheSize exposes the number of cached catalog entries.
func (m *Manager) RegisterCacheSize(size func() int) {
	promauto.With(m.registry).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_cache_entries",
		Help:      "Components held in the lookup cache",
	}, func() float64 { return float64(size()) })
}

// Registry returns the registry the metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
