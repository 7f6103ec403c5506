package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/nao1215/weatherscraper/internal/config"
)

// defaultSchedule scrapes every ten minutes. Stations publish a routine METAR
// hourly and a SPECI whenever conditions change.
const defaultSchedule = "*/10 * * * *"

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Scrape repeatedly on a cron schedule",
		Long: `Watch keeps running and scrapes every configured station on a cron schedule.

A run that is still in progress when the next one is due causes that next
run to be skipped, so two runs never touch the archive directory at the same
time. Watch stops after the current run when it receives SIGINT or SIGTERM.

The schedule uses the standard five-field cron syntax (minute hour
day-of-month month day-of-week) and is evaluated in local time, or UTC
with --utc.

Examples:
  # Scrape every 10 minutes
  weatherscraper watch -f stations.json -p /var/lib/metar

  # Scrape five minutes past every hour, without an initial run
  weatherscraper watch --schedule "5 * * * *" --run-now=false -f stations.json -p /var/lib/metar`,
		Args: cobra.NoArgs,
		RunE: runWatchCmd,
	}

	cmd.Flags().StringP("schedule", "s", defaultSchedule, "Cron schedule of the runs")
	cmd.Flags().Bool("run-now", true, "Run once immediately before the first scheduled run")
	addScrapeFlags(cmd)

	return cmd
}

// runWatchCmd executes the watch command.
func runWatchCmd(cmd *cobra.Command, _ []string) error {
	logger := newLogger(cmd)

	schedule, err := cmd.Flags().GetString("schedule")
	if err != nil {
		return err
	}
	runNow, err := cmd.Flags().GetBool("run-now")
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return err
	}
	if _, err := parseSchedule(schedule); err != nil {
		logger.Error("configuration error", "error", err)
		return err
	}

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	s := newScraper(cfg, logger, cmd.OutOrStdout())
	defer s.Close()

	return watch(ctx, s, schedule, runNow, cfg.Location(), logger)
}

// parseSchedule parses a five-field cron expression.
func parseSchedule(spec string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	s, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid cron schedule %q: %w", config.ErrConfiguration, spec, err)
	}
	return s, nil
}

// watch runs s on schedule until ctx is cancelled and waits for the run in
// progress to finish.
func watch(ctx context.Context, s *scraper, schedule string, runNow bool, loc *time.Location, logger *slog.Logger) error {
	cl := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	job := cron.FuncJob(func() {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.Run(ctx); err != nil {
			logger.Error("failed to write run summary", "error", err)
		}
	})

	id, err := c.AddJob(schedule, job)
	if err != nil {
		return fmt.Errorf("%w: invalid cron schedule %q: %w", config.ErrConfiguration, schedule, err)
	}

	if runNow {
		job.Run()
	}

	c.Start()
	logger.Info("watch started", "schedule", schedule, "next", c.Entry(id).Next)

	<-ctx.Done()
	logger.Info("watch stopping, waiting for the current run")
	<-c.Stop().Done()

	return nil
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	logger *slog.Logger
}

// Info logs scheduler events at debug level; they repeat on every tick.
func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

// Error logs scheduler errors.
func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
