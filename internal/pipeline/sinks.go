package pipeline

import (
	"context"

	"github.com/nao1215/weatherscraper/internal/database"
	"github.com/nao1215/weatherscraper/internal/metrics"
	"github.com/nao1215/weatherscraper/internal/model"
)

// Sink receives the summary of a finished run. Sink errors are logged and
// do not affect the run.
type Sink interface {
	Record(ctx context.Context, s *model.RunSummary) error
	Name() string
}

// HistorySink stores runs in the history database.
type HistorySink struct {
	db *database.HistoryDB
}

// NewHistorySink returns a sink writing to db.
func NewHistorySink(db *database.HistoryDB) *HistorySink {
	return &HistorySink{db: db}
}

// Name returns "history".
func (s *HistorySink) Name() string { return "history" }

// Record saves the run.
func (s *HistorySink) Record(ctx context.Context, summary *model.RunSummary) error {
	// The run is finished; a cancelled run context must not lose its history.
	return s.db.SaveRun(context.WithoutCancel(ctx), summary)
}

// MetricsSink writes run metrics to a node_exporter textfile.
type MetricsSink struct {
	path string
}

// NewMetricsSink returns a sink writing to path.
func NewMetricsSink(path string) *MetricsSink {
	return &MetricsSink{path: path}
}

// Name returns "metrics".
func (s *MetricsSink) Name() string { return "metrics" }

// Record writes the metrics of this run to the textfile.
func (s *MetricsSink) Record(_ context.Context, summary *model.RunSummary) error {
	m := metrics.New()
	m.Record(summary)
	return m.WriteTextfile(s.path)
}
