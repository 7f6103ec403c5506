package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/weatherscraper/internal/database"
	"github.com/nao1215/weatherscraper/internal/report"
)

// historyTimeLayout formats run timestamps in listings.
const historyTimeLayout = "2006-01-02 15:04:05"

// NewHistoryCmd creates the history command.
// This command reads the run history recorded by previous scrapes.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [station]",
		Short: "Show recorded runs or the results of one station",
		Long: `History displays the runs recorded in the history database.

Without arguments it lists the most recent runs with their outcome counts.
With a station code it lists that station's results across runs. The
archive directory stays the source of truth for versions; the history is
informational only.

Examples:
  # List the 10 most recent runs
  weatherscraper history

  # Show the last 20 results of station CYNR
  weatherscraper history -n 20 cynr

  # Show the full summary of one run
  weatherscraper history --run 3f9c1c9e-4f7c-4c43-9d0b-1f1e0b2a5e11

  # Show one run as Markdown
  weatherscraper history --run 3f9c1c9e-4f7c-4c43-9d0b-1f1e0b2a5e11 --markdown`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 10, "Maximum number of entries to show")
	cmd.Flags().StringP("run", "r", "", "Show the full summary of the run with this ID")
	cmd.Flags().BoolP("json", "j", false, "Output the run summary in JSON format (with --run)")
	cmd.Flags().BoolP("markdown", "m", false, "Output the run summary in Markdown format (with --run)")
	addHistoryDirFlag(cmd)

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetString("run")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("history-dir")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	if runID != "" && len(args) > 0 {
		return errors.New("--run cannot be combined with a station code")
	}
	if jsonOutput && markdownOutput {
		return errors.New("--json and --markdown cannot be used together")
	}

	db, err := database.Open(dbDir, database.Options{})
	if err != nil {
		return fmt.Errorf("failed to open history database (has weatherscraper run yet?): %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case runID != "":
		var w report.Writer
		switch {
		case jsonOutput:
			w = report.NewJSONWriter(out, report.WithPrettyPrint())
		case markdownOutput:
			w = report.NewMarkdownWriter(out)
		default:
			w = report.NewSimpleWriter(out, report.WithVerbose(true))
		}
		return showRun(ctx, out, db, runID, w)
	case len(args) > 0:
		return listStationHistory(ctx, out, db, args[0], limit)
	default:
		return listRuns(ctx, out, db, limit)
	}
}

// listRuns prints the most recent runs.
func listRuns(ctx context.Context, out io.Writer, db *database.HistoryDB, limit int) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded in the history database.")
		return nil
	}

	fmt.Fprintf(out, "Recent runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-36s  %-19s  %8s  %9s  %7s  %6s\n",
		"ID", "Started", "Archived", "Unchanged", "Skipped", "Failed")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 96))

	for _, r := range runs {
		fmt.Fprintf(out, "  %-36s  %-19s  %8d  %9d  %7d  %6d\n",
			r.ID, r.StartedAt.Local().Format(historyTimeLayout),
			r.Archived, r.Unchanged, r.Skipped, r.Failed)
	}
	fmt.Fprintln(out, "\nUse 'weatherscraper history --run <id>' to see the stations of one run.")

	return nil
}

// listStationHistory prints the recorded results of one station.
func listStationHistory(ctx context.Context, out io.Writer, db *database.HistoryDB, station string, limit int) error {
	records, err := db.StationHistory(ctx, station, limit)
	if err != nil {
		return fmt.Errorf("failed to get station history: %w", err)
	}

	station = strings.ToUpper(strings.TrimSpace(station))
	if len(records) == 0 {
		fmt.Fprintf(out, "No history found for station %s\n", station)
		return nil
	}

	fmt.Fprintf(out, "History of station %s (%d results):\n\n", station, len(records))
	fmt.Fprintf(out, "  %-19s  %-10s  %-28s  %s\n", "Started", "Status", "File", "Detail")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 80))

	for _, rec := range records {
		res := rec.Result
		detail := ""
		if res.Failed() {
			detail = fmt.Sprintf("[%s] %s", res.Kind, res.Error)
		} else if res.Duration > 0 {
			detail = res.Duration.Round(time.Millisecond).String()
		}
		fmt.Fprintf(out, "  %-19s  %-10s  %-28s  %s\n",
			rec.StartedAt.Local().Format(historyTimeLayout), res.Status, res.FileName, detail)
	}

	return nil
}

// showRun renders one stored run with w.
func showRun(ctx context.Context, out io.Writer, db *database.HistoryDB, id string, w report.Writer) error {
	summary, err := db.GetRun(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}
	if summary == nil {
		fmt.Fprintf(out, "No run found with ID %s\n", id)
		return nil
	}

	_, err = w.Write(summary)
	return err
}
