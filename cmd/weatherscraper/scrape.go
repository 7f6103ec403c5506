package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/weatherscraper/internal/archive"
	"github.com/nao1215/weatherscraper/internal/config"
	"github.com/nao1215/weatherscraper/internal/database"
	"github.com/nao1215/weatherscraper/internal/extract"
	"github.com/nao1215/weatherscraper/internal/fetcher"
	"github.com/nao1215/weatherscraper/internal/log"
	"github.com/nao1215/weatherscraper/internal/model"
	"github.com/nao1215/weatherscraper/internal/notify"
	"github.com/nao1215/weatherscraper/internal/pipeline"
	"github.com/nao1215/weatherscraper/internal/report"
)

// addScrapeFlags registers the flags shared by the root and watch commands.
func addScrapeFlags(cmd *cobra.Command) {
	// Input and archive location
	cmd.Flags().StringP("file", "f", "",
		"Station file (JSON or YAML). Default: weatherscraper.json/.yaml in the current or XDG config directory")
	cmd.Flags().StringP("path", "p", "",
		"Existing directory in which the bulletin files are stored")
	cmd.Flags().Bool("utc", false,
		"Use UTC midnight instead of local midnight as the day boundary for versions")

	// Mail notification
	cmd.Flags().String("mailfrom", "", "Sender address of failure notifications")
	cmd.Flags().String("mailto", "", "Recipient address of failure notifications")
	cmd.Flags().String("mailserver", "", "SMTP relay as host or host:port (port 25 when omitted)")
	cmd.Flags().String("mail-provider", config.DefaultMailProvider, "Mail provider: smtp or sendgrid")
	cmd.Flags().String("sendgrid-key", "", "SendGrid API key (default: $SENDGRID_API_KEY)")

	// Fetch behavior
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each page fetch")
	cmd.Flags().Int("retries", config.DefaultRetryAttempts, "Retries after a transient fetch failure")

	// Report and history
	cmd.Flags().BoolP("json", "j", false, "Output the run summary as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Output the run summary as Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "", "Write the run summary to the specified file path")
	cmd.Flags().String("metrics-file", "", "Write Prometheus textfile metrics to the specified path after each run")
	cmd.Flags().Bool("no-history", false, "Do not record runs in the history database")
	addHistoryDirFlag(cmd)
}

// addHistoryDirFlag registers the history database directory flag.
func addHistoryDirFlag(cmd *cobra.Command) {
	cmd.Flags().String("history-dir", config.XDGDataDir(), "Directory of the run history database")
}

// runScrapeCmd executes one scrape.
func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	logger := newLogger(cmd)

	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	s := newScraper(cfg, logger, cmd.OutOrStdout())
	defer s.Close()

	_, err = s.Run(ctx)
	return err
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	return getPersistentBool(cmd, "verbose")
}

// getPersistentBool retrieves a root persistent bool flag, false when unset.
func getPersistentBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// newLogger returns the redacting logger writing to the command's stderr.
func newLogger(cmd *cobra.Command) *slog.Logger {
	var logger *slog.Logger
	if getPersistentBool(cmd, "log-json") {
		logger = log.NewJSONLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
	} else {
		logger = log.NewLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
	}
	slog.SetDefault(logger)
	return logger
}

// loadConfig builds and validates the configuration. A configuration error
// is logged and mailed before it is returned.
func loadConfig(cmd *cobra.Command, logger *slog.Logger) (*config.Config, error) {
	cfg, err := buildConfig(cmd)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		logger.Error("configuration error", "error", err)
		msg := fmt.Sprintf("weatherscraper could not start: %v", err)
		if nerr := notify.New(cfg.Mail).Notify(cmd.Context(), msg); nerr != nil {
			logger.Warn("failed to send notification", "error", nerr)
		}
		return nil, err
	}
	return cfg, nil
}

// buildConfig creates a Config from cobra command flags and loads the
// station file. The returned Config is never nil so that the mail settings
// remain usable when loading fails.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error

	// Mail settings come first: they are needed to report every later problem.
	if cfg.Mail.From, err = flags.GetString("mailfrom"); err != nil {
		return cfg, err
	}
	if cfg.Mail.To, err = flags.GetString("mailto"); err != nil {
		return cfg, err
	}
	if cfg.Mail.Server, err = flags.GetString("mailserver"); err != nil {
		return cfg, err
	}
	if cfg.Mail.Provider, err = flags.GetString("mail-provider"); err != nil {
		return cfg, err
	}
	if cfg.Mail.SendGridAPIKey, err = flags.GetString("sendgrid-key"); err != nil {
		return cfg, err
	}
	if cfg.Mail.SendGridAPIKey == "" {
		cfg.Mail.SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	}
	cfg.Mail.Username = os.Getenv("WEATHERSCRAPER_SMTP_USERNAME")
	cfg.Mail.Password = os.Getenv("WEATHERSCRAPER_SMTP_PASSWORD")

	if cfg.DataPath, err = flags.GetString("path"); err != nil {
		return cfg, err
	}
	if cfg.UTC, err = flags.GetBool("utc"); err != nil {
		return cfg, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return cfg, err
	}
	if cfg.RetryAttempts, err = flags.GetInt("retries"); err != nil {
		return cfg, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return cfg, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return cfg, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return cfg, err
	}
	if cfg.MetricsFile, err = flags.GetString("metrics-file"); err != nil {
		return cfg, err
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return cfg, err
	}
	cfg.SaveToDB = !noHistory
	if cfg.DBDir, err = flags.GetString("history-dir"); err != nil {
		return cfg, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if cfg.ConfigFilePath, err = flags.GetString("file"); err != nil {
		return cfg, err
	}

	// An explicit path is used as given so a missing file is reported by name.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath == "" {
		return cfg, config.ErrNoConfigFile
	}
	cfg.ConfigFilePath = configPath

	cfg.Stations, err = config.LoadStationFile(configPath)
	if err != nil {
		return cfg, err
	}

	return cfg, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// scraper runs the station pipeline with everything built from one Config.
type scraper struct {
	cfg    *config.Config
	runner *pipeline.Runner
	db     *database.HistoryDB
	out    io.Writer
	logger *slog.Logger
}

// newScraper wires the fetcher, dispatcher, archive store, notifier and
// sinks. The history database is optional: if it cannot be opened the run
// goes ahead without it.
func newScraper(cfg *config.Config, logger *slog.Logger, out io.Writer) *scraper {
	s := &scraper{cfg: cfg, out: out, logger: logger}

	var sinks []pipeline.Sink
	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("history database unavailable", "dir", cfg.DBDir, "error", err)
		} else {
			logger.Debug("history database opened", "path", db.Path())
			s.db = db
			sinks = append(sinks, pipeline.NewHistorySink(db))
		}
	}
	if cfg.MetricsFile != "" {
		sinks = append(sinks, pipeline.NewMetricsSink(cfg.MetricsFile))
	}

	f := fetcher.New(nil,
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithRetries(cfg.RetryAttempts),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithLogger(logger),
	)
	store := archive.New(cfg.DataPath, archive.WithLocation(cfg.Location()))
	p := pipeline.NewStationPipeline(f, extract.NewDispatcher(), store, logger)

	s.runner = pipeline.NewRunner(p, cfg.DataPath,
		pipeline.WithNotifier(notify.New(cfg.Mail)),
		pipeline.WithSinks(sinks...),
		pipeline.WithRunnerLogger(logger),
	)

	return s
}

// Run processes every station once and writes the run summary. Station
// failures are part of the summary; only a report failure is returned.
func (s *scraper) Run(ctx context.Context) (*model.RunSummary, error) {
	summary := s.runner.Run(ctx, s.cfg.Stations)
	if err := s.writeReport(summary); err != nil {
		return summary, err
	}
	return summary, nil
}

// Close releases the history database.
func (s *scraper) Close() {
	if s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		s.logger.Warn("failed to close history database", "error", err)
	}
}

// writeReport outputs the run summary in the requested format. When a report
// file is given, a plain summary still goes to the command output.
func (s *scraper) writeReport(summary *model.RunSummary) error {
	if s.cfg.ReportFile == "" {
		_, err := s.reportWriter(s.out).Write(summary)
		return err
	}

	dir := filepath.Dir(s.cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := report.NewMultiWriter(s.reportWriter(f), report.NewSimpleWriter(s.out))
	if _, err := w.Write(summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// reportWriter returns the writer for the configured format.
func (s *scraper) reportWriter(out io.Writer) report.Writer {
	switch {
	case s.cfg.JSONReport:
		return report.NewJSONWriter(out, report.WithPrettyPrint())
	case s.cfg.MarkdownReport:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out, report.WithVerbose(s.cfg.Verbose))
	}
}
