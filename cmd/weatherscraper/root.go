package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/weatherscraper/internal/config"
)

// helpHint is printed after a configuration error.
const helpHint = "Try 'weatherscraper --help' for more information."

// NewRootCmd creates the root command. Running it without a subcommand
// performs one scrape of every configured station.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weatherscraper",
		Short: "Archive METAR/SPECI bulletins published on station web pages",
		Long: `weatherscraper downloads the current METAR/SPECI bulletin of each configured
station, validates it, and archives it in the data directory.

Archive files are named SACN61.<station>.<DDHHMM>.<version>. The version
restarts at 1 every calendar day and increases only when the bulletin text
changed since the most recent file, so repeated runs never overwrite or
duplicate a report.

A failure at one station is logged (and mailed when mail settings are given)
without stopping the other stations. The exit status is 1 only for
configuration errors.

Examples:
  # Scrape once
  weatherscraper -f stations.json -p /var/lib/metar

  # Mail failures through an SMTP relay
  weatherscraper -f stations.json -p /var/lib/metar \
    --mailfrom scraper@example.com --mailto ops@example.com --mailserver smtp.example.com

  # Print the run summary as Markdown and export Prometheus metrics
  weatherscraper -f stations.json -p /var/lib/metar --markdown \
    --metrics-file /var/lib/node_exporter/weatherscraper.prom

  # Create a station file template
  weatherscraper init`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScrapeCmd,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")

	addScrapeFlags(cmd)

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", config.ErrConfiguration, err)
	})

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits with its status.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI with args and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		if errors.Is(err, config.ErrConfiguration) {
			fmt.Fprintln(stderr, helpHint)
		}
		return 1
	}
	return 0
}
