package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline counters, registered on a private registry so
// each process exposes only its own series.
type Metrics struct {
	registry *prometheus.Registry

	FramesAnalyzed      prometheus.Counter
	InferenceErrors     prometheus.Counter
	Violations          prometheus.Counter
	AlarmsFired         prometheus.Counter
	AlarmsSuppressed    prometheus.Counter
	EventsEmitted       prometheus.Counter
	RecordsProduced     prometheus.Counter
	DuplicateDeliveries prometheus.Counter
	StorageFailures     prometheus.Counter
	ProcessingErrors    prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	counter := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help})
		m.registry.MustRegister(c)
		return c
	}
	m.FramesAnalyzed = counter("ppe_frames_analyzed_total", "Frames submitted to the inference oracle")
	m.InferenceErrors = counter("ppe_inference_errors_total", "Failed or malformed oracle exchanges")
	m.Violations = counter("ppe_violations_total", "Non-compliant verdicts")
	m.AlarmsFired = counter("ppe_alarms_fired_total", "Physical alarm signals published")
	m.AlarmsSuppressed = counter("ppe_alarms_suppressed_total", "Physical fires suppressed by the debounce gate")
	m.EventsEmitted = counter("ppe_alarm_events_emitted_total", "Alarm events handed to the notification pipeline")
	m.RecordsProduced = counter("ppe_notification_records_total", "Notification records fully produced")
	m.DuplicateDeliveries = counter("ppe_duplicate_deliveries_total", "Redeliveries collapsed by the idempotency key")
	m.StorageFailures = counter("ppe_storage_failures_total", "Records failed on evidence upload")
	m.ProcessingErrors = counter("ppe_processing_errors_total", "Other notification pipeline errors")
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
