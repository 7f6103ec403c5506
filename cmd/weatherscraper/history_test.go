package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/weatherscraper/internal/database"
	"github.com/nao1215/weatherscraper/internal/model"
)

// seedHistory stores one run with an archived and a failed station.
func seedHistory(t *testing.T, dir string) *model.RunSummary {
	t.Helper()

	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	started := time.Date(2026, time.March, 15, 12, 5, 0, 0, time.UTC)
	s := model.NewRunSummary("/var/lib/metar", started)
	s.Add(&model.StationResult{
		Station:  "CYNR",
		URL:      "https://example.com/cynr",
		Status:   model.StatusArchived,
		FileName: "SACN61.CYNR.151200.1",
		Version:  1,
		Duration: 120 * time.Millisecond,
	})
	failed := &model.StationResult{Station: "CET2", URL: "https://example.com/cet2"}
	failed.Fail(model.FailureMissingNode, errors.New("missing node: first <br> sibling"))
	s.Add(failed)
	s.FinishedAt = started.Add(time.Second)

	if err := db.SaveRun(t.Context(), s); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	return s
}

func TestRunHistoryCmd(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "history")
	seeded := seedHistory(t, dir)

	execute := func(t *testing.T, args ...string) (string, error) {
		t.Helper()
		var out bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&out)
		cmd.SetErr(io.Discard)
		cmd.SetArgs(append([]string{"--history-dir", dir}, args...))
		err := cmd.Execute()
		return out.String(), err
	}

	t.Run("lists runs", func(t *testing.T) {
		t.Parallel()
		out, err := execute(t)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Recent runs (1)") {
			t.Errorf("expected run count, got %q", out)
		}
		if !strings.Contains(out, seeded.ID) {
			t.Errorf("expected run ID %s, got %q", seeded.ID, out)
		}
	})

	t.Run("lists station history case-insensitively", func(t *testing.T) {
		t.Parallel()
		out, err := execute(t, "cynr")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "History of station CYNR (1 results)") {
			t.Errorf("expected station header, got %q", out)
		}
		if !strings.Contains(out, "SACN61.CYNR.151200.1") {
			t.Errorf("expected archive file name, got %q", out)
		}
	})

	t.Run("shows failure kind in station history", func(t *testing.T) {
		t.Parallel()
		out, err := execute(t, "CET2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "[missing_node]") {
			t.Errorf("expected failure kind, got %q", out)
		}
	})

	t.Run("reports unknown station", func(t *testing.T) {
		t.Parallel()
		out, err := execute(t, "zzzz")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "No history found for station ZZZZ") {
			t.Errorf("expected empty history message, got %q", out)
		}
	})

	t.Run("shows one run as JSON", func(t *testing.T) {
		t.Parallel()
		out, err := execute(t, "--run", seeded.ID, "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var got model.RunSummary
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("failed to decode JSON: %v\n%s", err, out)
		}
		if got.ID != seeded.ID || len(got.Results) != 2 {
			t.Errorf("unexpected run: id=%s results=%d", got.ID, len(got.Results))
		}
	})

	t.Run("reports unknown run", func(t *testing.T) {
		t.Parallel()
		out, err := execute(t, "--run", "no-such-run")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "No run found") {
			t.Errorf("expected not found message, got %q", out)
		}
	})

	t.Run("rejects run with station", func(t *testing.T) {
		t.Parallel()
		if _, err := execute(t, "--run", seeded.ID, "cynr"); err == nil {
			t.Error("expected error for --run with a station code")
		}
	})
}

func TestRunHistoryCmd_NoDatabase(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--history-dir", filepath.Join(t.TempDir(), "missing")})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error without a history database")
	}
	if !strings.Contains(err.Error(), "failed to open history database") {
		t.Errorf("unexpected error: %v", err)
	}
}
