package report

import (
	"io"

	"github.com/nao1215/weatherscraper/internal/model"
)

// Writer renders a run summary.
type Writer interface {
	// Write renders s and returns the number of bytes written.
	Write(s *model.RunSummary) (int, error)
}

// MultiWriter renders the same summary with several Writers.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter returns a Writer that writes to all writers in order.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders s with every writer and stops at the first error.
func (m *MultiWriter) Write(s *model.RunSummary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(s)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// statusLabel is the short label used in text and markdown tables.
func statusLabel(r *model.StationResult) string {
	switch r.Status {
	case model.StatusArchived:
		return "ARCHIVED"
	case model.StatusUnchanged:
		return "UNCHANGED"
	case model.StatusExists:
		return "EXISTS"
	case model.StatusNoData:
		return "NO DATA"
	case model.StatusFailed:
		return "FAILED"
	default:
		return string(r.Status)
	}
}

// detail is the per-station detail column.
func detail(r *model.StationResult) string {
	switch r.Status {
	case model.StatusFailed:
		return r.Kind.String() + ": " + r.Error
	case model.StatusNoData:
		return "no bulletin published"
	default:
		return r.FileName
	}
}

// truncate shortens s to maxLen runes with an ellipsis.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
