package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all HRH Logistics metrics on a private registry.
type Metrics struct {
	serviceName string
	registry    *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Kafka metrics
	KafkaEventsPublished *prometheus.CounterVec
	KafkaPublishDuration *prometheus.HistogramVec

	// MongoDB metrics
	MongoDBOperations        *prometheus.CounterVec
	MongoDBOperationDuration *prometheus.HistogramVec

	// Outbox metrics
	OutboxPending         prometheus.Gauge
	OutboxPublished       *prometheus.CounterVec
	OutboxPublishDuration *prometheus.HistogramVec
	OutboxRetries         *prometheus.CounterVec

	// External API metrics
	ExternalCalls        *prometheus.CounterVec
	ExternalCallDuration *prometheus.HistogramVec
	TranslationCache     *prometheus.CounterVec

	// Business metrics
	ZoneAssignments    *prometheus.CounterVec
	ZoneWarnings       *prometheus.CounterVec
	LabelTranslations  *prometheus.CounterVec
	LabelsWithoutText  prometheus.Counter
	RoutePlans         *prometheus.CounterVec
	ShippingDistanceKm prometheus.Histogram

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Namespace:   "hrh",
	}
}

// New creates a new Metrics instance
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ns := config.Namespace
	serviceLabel := prometheus.Labels{"service": config.ServiceName}

	m := &Metrics{
		serviceName: config.ServiceName,
		registry:    registry,
	}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"service", "method", "path", "status"})

	m.HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"service", "method", "path"})

	m.HTTPRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   ns,
		Name:        "http_requests_in_flight",
		Help:        "Number of HTTP requests currently being processed",
		ConstLabels: serviceLabel,
	})

	m.KafkaEventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "kafka_events_published_total",
		Help:      "Total number of Kafka events published",
	}, []string{"service", "topic", "event_type", "status"})

	m.KafkaPublishDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "kafka_publish_duration_seconds",
		Help:      "Kafka publish duration in seconds",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"service", "topic"})

	m.MongoDBOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "mongodb_operations_total",
		Help:      "Total number of MongoDB operations",
	}, []string{"service", "collection", "operation", "status"})

	m.MongoDBOperationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "mongodb_operation_duration_seconds",
		Help:      "MongoDB operation duration in seconds",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"service", "collection", "operation"})

	m.OutboxPending = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   ns,
		Name:        "outbox_pending_events",
		Help:        "Unpublished events found by the last outbox poll",
		ConstLabels: serviceLabel,
	})

	m.OutboxPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "outbox_events_published_total",
		Help:      "Total number of outbox events relayed",
	}, []string{"service", "event_type", "status"})

	m.OutboxPublishDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "outbox_publish_duration_seconds",
		Help:      "Outbox relay duration per event in seconds",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"service", "event_type"})

	m.OutboxRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "outbox_retries_total",
		Help:      "Total number of outbox relay retries",
	}, []string{"service", "event_type"})

	m.ExternalCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "external_calls_total",
		Help:      "Total number of calls to third-party APIs",
	}, []string{"service", "external_service", "outcome"})

	m.ExternalCallDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "external_call_duration_seconds",
		Help:      "Third-party API call duration in seconds",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"service", "external_service"})

	m.TranslationCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "translation_cache_lookups_total",
		Help:      "Translation cache lookups by result",
	}, []string{"service", "result"})

	m.ZoneAssignments = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "zone_assignments_total",
		Help:      "Total number of warehouse zone assignments",
	}, []string{"service", "category", "zone"})

	m.ZoneWarnings = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "zone_warnings_total",
		Help:      "Advisory warnings raised by zone assignments",
	}, []string{"service", "category"})

	m.LabelTranslations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "label_translations_total",
		Help:      "Total number of translated labels",
	}, []string{"service", "language"})

	m.LabelsWithoutText = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   ns,
		Name:        "labels_without_text_total",
		Help:        "Uploaded labels where OCR found no text",
		ConstLabels: serviceLabel,
	})

	m.RoutePlans = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "route_plans_total",
		Help:      "Total number of route plans",
	}, []string{"service", "mode"})

	m.ShippingDistanceKm = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   ns,
		Name:        "shipping_distance_km",
		Help:        "Shipping distance reported by route plans",
		Buckets:     []float64{100, 500, 1000, 2500, 5000, 10000, 20000},
		ConstLabels: serviceLabel,
	})

	m.CircuitBreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: ns,
		Name:      "circuit_breaker_state",
		Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
	}, []string{"service", "name"})

	m.CircuitBreakerTrips = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of circuit breaker trips",
	}, []string{"service", "name"})

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.KafkaEventsPublished,
		m.KafkaPublishDuration,
		m.MongoDBOperations,
		m.MongoDBOperationDuration,
		m.OutboxPending,
		m.OutboxPublished,
		m.OutboxPublishDuration,
		m.OutboxRetries,
		m.ExternalCalls,
		m.ExternalCallDuration,
		m.TranslationCache,
		m.ZoneAssignments,
		m.ZoneWarnings,
		m.LabelTranslations,
		m.LabelsWithoutText,
		m.RoutePlans,
		m.ShippingDistanceKm,
		m.CircuitBreakerState,
		m.CircuitBreakerTrips,
	)

	return m
}

// Handler returns an HTTP handler for metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// IncrementHTTPRequestsInFlight increments in-flight requests
func (m *Metrics) IncrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// DecrementHTTPRequestsInFlight decrements in-flight requests
func (m *Metrics) DecrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}

// RecordKafkaPublish records a Kafka publish event
func (m *Metrics) RecordKafkaPublish(topic, eventType string, success bool, duration time.Duration) {
	m.KafkaEventsPublished.WithLabelValues(m.serviceName, topic, eventType, outcome(success)).Inc()
	m.KafkaPublishDuration.WithLabelValues(m.serviceName, topic).Observe(duration.Seconds())
}

// RecordMongoDBOperation records a MongoDB operation
func (m *Metrics) RecordMongoDBOperation(collection, operation string, success bool, duration time.Duration) {
	m.MongoDBOperations.WithLabelValues(m.serviceName, collection, operation, outcome(success)).Inc()
	m.MongoDBOperationDuration.WithLabelValues(m.serviceName, collection, operation).Observe(duration.Seconds())
}

// SetOutboxPending sets the number of unpublished outbox events seen by the last poll
func (m *Metrics) SetOutboxPending(count int) {
	m.OutboxPending.Set(float64(count))
}

// RecordOutboxPublish records one outbox relay attempt
func (m *Metrics) RecordOutboxPublish(eventType string, success bool, duration time.Duration) {
	m.OutboxPublished.WithLabelValues(m.serviceName, eventType, outcome(success)).Inc()
	m.OutboxPublishDuration.WithLabelValues(m.serviceName, eventType).Observe(duration.Seconds())
}

// RecordOutboxRetry records a scheduled outbox retry
func (m *Metrics) RecordOutboxRetry(eventType string) {
	m.OutboxRetries.WithLabelValues(m.serviceName, eventType).Inc()
}

// RecordExternalCall records a call to a third-party API.
// result is one of "success", "error", "not_found" or "rejected".
func (m *Metrics) RecordExternalCall(service, result string, duration time.Duration) {
	m.ExternalCalls.WithLabelValues(m.serviceName, service, result).Inc()
	m.ExternalCallDuration.WithLabelValues(m.serviceName, service).Observe(duration.Seconds())
}

// RecordTranslationCacheLookup records a translation cache hit or miss
func (m *Metrics) RecordTranslationCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.TranslationCache.WithLabelValues(m.serviceName, result).Inc()
}

// RecordZoneAssignment records a zone assignment and how many warnings it raised
func (m *Metrics) RecordZoneAssignment(category, zone string, warnings int) {
	m.ZoneAssignments.WithLabelValues(m.serviceName, category, zone).Inc()
	if warnings > 0 {
		m.ZoneWarnings.WithLabelValues(m.serviceName, category).Add(float64(warnings))
	}
}

// RecordLabelTranslation records a translated label
func (m *Metrics) RecordLabelTranslation(language string) {
	m.LabelTranslations.WithLabelValues(m.serviceName, language).Inc()
}

// RecordLabelWithoutText records an upload where OCR found no text
func (m *Metrics) RecordLabelWithoutText() {
	m.LabelsWithoutText.Inc()
}

// RecordRoutePlan records a planned route
func (m *Metrics) RecordRoutePlan(mode string, shippingDistanceKm float64) {
	m.RoutePlans.WithLabelValues(m.serviceName, mode).Inc()
	m.ShippingDistanceKm.Observe(shippingDistanceKm)
}

// SetCircuitBreakerState sets the circuit breaker state
func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	m.CircuitBreakerState.WithLabelValues(m.serviceName, name).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(name string) {
	m.CircuitBreakerTrips.WithLabelValues(m.serviceName, name).Inc()
}
