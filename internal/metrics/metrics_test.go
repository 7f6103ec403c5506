package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nao1215/weatherscraper/internal/model"
)

func testSummary() *model.RunSummary {
	start := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	s := model.NewRunSummary("/var/lib/metar", start)
	s.Add(&model.StationResult{Station: "CYNR", Status: model.StatusArchived, Version: 3})
	s.Add(&model.StationResult{Station: "CET2", Status: model.StatusUnchanged})
	failed := &model.StationResult{Station: "CFG6"}
	failed.Fail(model.FailureMissingNode, errors.New("no element with id METAR"))
	s.Add(failed)
	s.FinishedAt = start.Add(1500 * time.Millisecond)
	return s
}

func TestMetrics_Record(t *testing.T) {
	t.Parallel()

	m := New()
	m.Record(testSummary())

	if got := testutil.ToFloat64(m.StationRuns.WithLabelValues("CYNR", "archived")); got != 1 {
		t.Errorf("station_runs_total{CYNR,archived} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.StationRuns.WithLabelValues("CET2", "unchanged")); got != 1 {
		t.Errorf("station_runs_total{CET2,unchanged} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Failures.WithLabelValues("CFG6", "missing_node")); got != 1 {
		t.Errorf("failures_total{CFG6,missing_node} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ArchivedVersion.WithLabelValues("CYNR")); got != 3 {
		t.Errorf("archived_version{CYNR} = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.RunDuration); got != 1.5 {
		t.Errorf("run_duration_seconds = %v, want 1.5", got)
	}
	if got := testutil.CollectAndCount(m.Failures); got != 1 {
		t.Errorf("failures_total series = %d, want 1", got)
	}
}

func TestMetrics_WriteTextfile(t *testing.T) {
	t.Parallel()

	m := New()
	m.Record(testSummary())

	path := filepath.Join(t.TempDir(), "weatherscraper.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		`weatherscraper_station_runs_total{station="CYNR",status="archived"} 1`,
		`weatherscraper_failures_total{kind="missing_node",station="CFG6"} 1`,
		`weatherscraper_archived_version{station="CYNR"} 3`,
		"weatherscraper_last_run_timestamp_seconds",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q:\n%s", want, out)
		}
	}
}
