// Package metrics exports run results in the Prometheus textfile format.
//
// weatherscraper runs to completion and exits, so there is no endpoint to
// scrape. Instead each run records its results into a private registry and
// writes it to a file that the node_exporter textfile collector picks up.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nao1215/weatherscraper/internal/model"
)

const namespace = "weatherscraper"

// Metrics holds the collectors for one run.
type Metrics struct {
	registry *prometheus.Registry

	StationRuns     *prometheus.CounterVec // labels: station, status
	Failures        *prometheus.CounterVec // labels: station, kind
	ArchivedVersion *prometheus.GaugeVec   // labels: station
	LastRun         prometheus.Gauge
	RunDuration     prometheus.Gauge
}

// New creates the collectors and registers them with a new registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		StationRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "station_runs_total",
			Help:      "Stations processed by outcome status.",
		}, []string{"station", "status"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Station failures by failure kind.",
		}, []string{"station", "kind"}),
		ArchivedVersion: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "archived_version",
			Help:      "Version number of the file most recently archived for a station.",
		}, []string{"station"}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
	}

	m.registry.MustRegister(
		m.StationRuns,
		m.Failures,
		m.ArchivedVersion,
		m.LastRun,
		m.RunDuration,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Record adds a finished run to the collectors.
func (m *Metrics) Record(s *model.RunSummary) {
	for _, r := range s.Results {
		m.StationRuns.WithLabelValues(r.Station, string(r.Status)).Inc()
		if r.Failed() {
			m.Failures.WithLabelValues(r.Station, r.Kind.String()).Inc()
		}
		if r.Status == model.StatusArchived {
			m.ArchivedVersion.WithLabelValues(r.Station).Set(float64(r.Version))
		}
	}
	m.LastRun.Set(float64(s.FinishedAt.Unix()))
	m.RunDuration.Set(s.Duration().Seconds())
}

// WriteTextfile writes the registry to path in the text exposition format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
