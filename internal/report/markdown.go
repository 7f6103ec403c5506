package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/weatherscraper/internal/model"
)

// MarkdownWriter renders the summary as a Markdown document.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter returns a MarkdownWriter writing to output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write renders s.
func (w *MarkdownWriter) Write(s *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("WeatherScraper Run Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + s.ID + "`"},
			{"Started", s.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", s.Duration().Round(time.Millisecond).String()},
			{"Archive", "`" + s.DataPath + "`"},
		},
	})
	md.PlainText("")

	w.writeOutcomes(md, s)
	w.writeStations(md, s)
	w.writeFailures(md, s)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeOutcomes(md *markdown.Markdown, s *model.RunSummary) {
	md.H2("Outcomes")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Stations"},
		Rows: [][]string{
			{"Archived", strconv.Itoa(s.Archived)},
			{"Unchanged", strconv.Itoa(s.Unchanged)},
			{"No data", strconv.Itoa(s.Skipped)},
			{"Failed", strconv.Itoa(s.Failed)},
		},
	})
	md.PlainText("")

	if len(s.Results) > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Station Outcomes"),
			piechart.WithShowData(true),
		)
		counts := []struct {
			label string
			n     int
		}{
			{"Archived", s.Archived},
			{"Unchanged", s.Unchanged},
			{"No data", s.Skipped},
			{"Failed", s.Failed},
		}
		for _, c := range counts {
			if c.n > 0 {
				chart.LabelAndIntValue(c.label, uint64(c.n))
			}
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	if s.HasFailures() {
		md.Warningf("%d station(s) failed. Check the log for details.", s.Failed)
	} else {
		md.Tip("All stations were processed without errors.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeStations(md *markdown.Markdown, s *model.RunSummary) {
	md.H2("Stations")
	md.PlainText("")

	if len(s.Results) == 0 {
		md.PlainText("No stations processed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(s.Results))
	for i, r := range s.Results {
		rows[i] = []string{
			r.Station,
			statusLabel(r),
			truncate(detail(r), 60),
			r.Duration.Round(time.Millisecond).String(),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Station", "Status", "Detail", "Duration"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, s *model.RunSummary) {
	failures := s.Failures()
	if len(failures) == 0 {
		return
	}

	md.H2("Failures")
	md.PlainText("")
	for _, r := range failures {
		md.Details(r.Station+" ("+r.Kind.String()+")", r.URL+"\n\n"+r.Error)
	}
	md.PlainText("")
}
