// Package observability exposes prometheus metrics for the ingestion
// pipeline and the realtime channel.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the shared metric instruments. A dedicated registry keeps
// the exposition limited to what this process actually records.
type Metrics struct {
	registry *prometheus.Registry

	DetectionsIngested prometheus.Counter
	IngestFailures     prometheus.Counter
	AlertsRaised       prometheus.Counter
	AlertsAcknowledged prometheus.Counter
	StreamURLUpdates   prometheus.Counter
	SSEClients         prometheus.Gauge
}

// NewMetrics creates and registers all instruments.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		DetectionsIngested: factory.NewCounter(prometheus.CounterOpts{
			Name: "faunawatch_detections_ingested_total",
			Help: "Total number of detections accepted by the pipeline.",
		}),
		IngestFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "faunawatch_ingest_failures_total",
			Help: "Total number of detection submissions aborted by internal failures.",
		}),
		AlertsRaised: factory.NewCounter(prometheus.CounterOpts{
			Name: "faunawatch_alerts_raised_total",
			Help: "Total number of high priority alerts raised.",
		}),
		AlertsAcknowledged: factory.NewCounter(prometheus.CounterOpts{
			Name: "faunawatch_alerts_acknowledged_total",
			Help: "Total number of alert acknowledgements.",
		}),
		StreamURLUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "faunawatch_stream_url_updates_total",
			Help: "Total number of successful stream URL updates.",
		}),
		SSEClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "faunawatch_sse_clients",
			Help: "Number of currently connected SSE clients.",
		}),
	}
}

// Handler returns the exposition endpoint for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
