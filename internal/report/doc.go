// Package report renders run summaries.
//
// # Formats
//
// Three formats are available:
//   - SimpleWriter: plain text for the terminal (default)
//   - JSONWriter: the RunSummary as JSON for other tools
//   - MarkdownWriter: a document with tables and a mermaid outcome chart
//
// All writers implement Writer and can be combined with MultiWriter. The
// scrape command uses that to save a report with --output while still
// printing the plain summary.
//
// # Content
//
// The text and Markdown formats list the stations in configured order with
// a status label (ARCHIVED, UNCHANGED, EXISTS, NO DATA or FAILED) and a
// detail column holding the archive file name or the failure kind and
// message. Their counters match the RunSummary fields of the same names.
//
// # Usage
//
//	w := report.NewMarkdownWriter(os.Stdout)
//	if _, err := w.Write(summary); err != nil {
//		return err
//	}
package report
