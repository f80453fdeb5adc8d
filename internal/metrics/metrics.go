// Package metrics holds the Prometheus collectors exposed at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// FormatInvalid replaces QR format labels outside qrFormats.
const FormatInvalid = "invalid"

// qrFormats bounds the format label of qr_generations_total.
var qrFormats = map[string]bool{"png": true, "svg": true}

// Metrics groups the application's collectors.
type Metrics struct {
	registry *prometheus.Registry

	QRGenerations *prometheus.CounterVec
	Exports       *prometheus.CounterVec
	FilterQueries prometheus.Counter
	Refreshes     *prometheus.CounterVec
}

// New registers the collectors on a fresh registry along with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		QRGenerations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "railsuraksha",
			Name:      "qr_generations_total",
			Help:      "QR certificate generations by image format and result.",
		}, []string{"format", "result"}),
		Exports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "railsuraksha",
			Name:      "inventory_exports_total",
			Help:      "Inventory exports by file format.",
		}, []string{"format"}),
		FilterQueries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "railsuraksha",
			Name:      "inventory_filter_queries_total",
			Help:      "Inventory listings served with filters applied.",
		}),
		Refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "railsuraksha",
			Name:      "integration_refreshes_total",
			Help:      "Integration telemetry refreshes by trigger and result.",
		}, []string{"trigger", "result"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// QRGenerated counts one QR generation attempt. Unknown formats share the
// "invalid" label.
func (m *Metrics) QRGenerated(format string, err error) {
	if m == nil {
		return
	}
	if !qrFormats[format] {
		format = FormatInvalid
	}
	m.QRGenerations.WithLabelValues(format, result(err)).Inc()
}

// Exported counts one inventory export.
func (m *Metrics) Exported(format string) {
	if m == nil {
		return
	}
	m.Exports.WithLabelValues(format).Inc()
}

// Filtered counts one filtered inventory listing.
func (m *Metrics) Filtered() {
	if m == nil {
		return
	}
	m.FilterQueries.Inc()
}

// Refreshed counts one integration refresh.
func (m *Metrics) Refreshed(trigger string, err error) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(trigger, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
