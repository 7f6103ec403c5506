package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/weatherscraper/internal/model"
)

// SimpleWriter renders a plain-text summary for the terminal.
type SimpleWriter struct {
	baseWriter

	// verbose adds bulletin text and timings.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose adds bulletin text and per-station timings.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter returns a SimpleWriter writing to output.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders s.
func (w *SimpleWriter) Write(s *model.RunSummary) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      WEATHERSCRAPER RUN SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "Run ID:     %s\n", s.ID)
	fmt.Fprintf(&sb, "Started:    %s\n", s.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "Duration:   %s\n", s.Duration().Round(time.Millisecond))
	fmt.Fprintf(&sb, "Archive:    %s\n\n", s.DataPath)

	fmt.Fprintf(&sb, "  ARCHIVED:  %d\n", s.Archived)
	fmt.Fprintf(&sb, "  UNCHANGED: %d\n", s.Unchanged)
	fmt.Fprintf(&sb, "  NO DATA:   %d\n", s.Skipped)
	fmt.Fprintf(&sb, "  FAILED:    %d\n\n", s.Failed)

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\nSTATIONS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(s.Results) == 0 {
		sb.WriteString("  No stations processed\n")
	}
	for _, r := range s.Results {
		fmt.Fprintf(&sb, "  %-6s %-10s %s\n", r.Station, statusLabel(r), detail(r))
		if w.verbose {
			fmt.Fprintf(&sb, "         url:  %s\n", r.URL)
			if r.Bulletin != nil {
				fmt.Fprintf(&sb, "         text: %s\n", r.Bulletin.Text)
			}
			fmt.Fprintf(&sb, "         took: %s\n", r.Duration.Round(time.Millisecond))
		}
	}
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}
