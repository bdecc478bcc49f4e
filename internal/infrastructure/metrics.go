package infrastructure

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yourusername/savevid-go/internal/domain"
)

// Download outcomes recorded by Metrics
const (
	OutcomeSuccess     = "success"
	OutcomeInvalid     = "invalid"
	OutcomeUnsupported = "unsupported"
	OutcomeFailed      = "failed"
)

// Metrics holds the Prometheus collectors of the server on a private registry
type Metrics struct {
	registry        *prometheus.Registry
	downloads       *prometheus.CounterVec
	extractDuration *prometheus.HistogramVec
	filesActive     prometheus.Gauge
	filesExpired    prometheus.Counter
	fileFetches     *prometheus.CounterVec
}

// NewMetrics registers the savevid collectors
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "savevid",
			Name:      "downloads_total",
			Help:      "Download requests by platform and outcome.",
		}, []string{"platform", "outcome"}),
		extractDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "savevid",
			Name:      "extract_duration_seconds",
			Help:      "Time spent running yt-dlp.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 80, 160, 300},
		}, []string{"platform"}),
		filesActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "savevid",
			Name:      "files_active",
			Help:      "Files registered and not yet swept.",
		}),
		filesExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "savevid",
			Name:      "files_expired_total",
			Help:      "Files removed by the expiry sweep.",
		}),
		fileFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "savevid",
			Name:      "file_fetches_total",
			Help:      "File retrievals by outcome.",
		}, []string{"outcome"}),
	}

	registry.MustRegister(m.downloads, m.extractDuration, m.filesActive, m.filesExpired, m.fileFetches)
	return m
}

// Registry exposes the registry for tests and custom gatherers
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveDownload counts one download request
func (m *Metrics) ObserveDownload(platform domain.Platform, outcome string) {
	m.downloads.WithLabelValues(string(platform), outcome).Inc()
}

// ObserveExtract records how long an extraction took
func (m *Metrics) ObserveExtract(platform domain.Platform, elapsed time.Duration) {
	m.extractDuration.WithLabelValues(string(platform)).Observe(elapsed.Seconds())
}

// FileRegistered tracks a new file on disk
func (m *Metrics) FileRegistered() {
	m.filesActive.Inc()
}

// FilesExpired tracks files removed by a sweep
func (m *Metrics) FilesExpired(n int) {
	m.filesExpired.Add(float64(n))
	m.filesActive.Sub(float64(n))
}

// SetFilesActive resets the active gauge from the registry
func (m *Metrics) SetFilesActive(n int64) {
	m.filesActive.Set(float64(n))
}

// ObserveFetch counts one retrieval attempt
func (m *Metrics) ObserveFetch(outcome string) {
	m.fileFetches.WithLabelValues(outcome).Inc()
}
