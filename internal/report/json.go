package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/weatherscraper/internal/model"
)

// JSONWriter renders the run summary as JSON.
// The output is the RunSummary itself, so other tools can read the per-station
// results, failure kinds and archived file names without parsing text.
//
// Design decision: the summary is marshaled as is, with no wrapper object.
// The history command writes the same shape from the database, so a saved
// report and a replayed run decode into the same type.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	// When false, the summary is written on a single line.
	indent bool

	// indentPrefix is prepended to each line of indented output.
	indentPrefix string

	// indentString is the indentation for each nesting level.
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed output with two-space indentation.
// It is a shorthand for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter returns a JSONWriter writing to output.
// Without options the output is compact.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders s followed by a newline. Compact output from consecutive
// runs written to one stream forms JSON Lines.
func (w *JSONWriter) Write(s *model.RunSummary) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(s, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(s)
	}
	if err != nil {
		return 0, err
	}
	// Trailing newline for terminals and line-oriented readers.
	data = append(data, '\n')
	return w.output.Write(data)
}
