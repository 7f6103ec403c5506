package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/nao1215/weatherscraper/internal/archive"
	"github.com/nao1215/weatherscraper/internal/bulletin"
	"github.com/nao1215/weatherscraper/internal/config"
	"github.com/nao1215/weatherscraper/internal/document"
	"github.com/nao1215/weatherscraper/internal/extract"
	"github.com/nao1215/weatherscraper/internal/fetcher"
	"github.com/nao1215/weatherscraper/internal/model"
	"github.com/nao1215/weatherscraper/internal/notify"
)

// Runner processes a list of stations sequentially.
type Runner struct {
	pipeline *Pipeline
	dataPath string
	notifier notify.Notifier
	sinks    []Sink
	clock    clockwork.Clock
	logger   *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithNotifier sets the notifier that receives station failures.
func WithNotifier(n notify.Notifier) RunnerOption {
	return func(r *Runner) {
		r.notifier = n
	}
}

// WithSinks adds sinks that receive the finished run summary.
func WithSinks(sinks ...Sink) RunnerOption {
	return func(r *Runner) {
		r.sinks = append(r.sinks, sinks...)
	}
}

// WithClock sets the clock used for timestamps and durations.
func WithClock(clock clockwork.Clock) RunnerOption {
	return func(r *Runner) {
		r.clock = clock
	}
}

// WithRunnerLogger sets the runner logger.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner returns a Runner executing p for each station. dataPath is
// recorded in the summary.
func NewRunner(p *Pipeline, dataPath string, opts ...RunnerOption) *Runner {
	r := &Runner{
		pipeline: p,
		dataPath: dataPath,
		notifier: notify.Noop{},
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Run processes stations in order and returns the summary. A station
// failure never stops the run. When ctx is cancelled the remaining stations
// are recorded as cancelled.
func (r *Runner) Run(ctx context.Context, stations []config.StationSource) *model.RunSummary {
	summary := model.NewRunSummary(r.dataPath, r.clock.Now())
	logger := r.logger.With("run_id", summary.ID)

	logger.Info("run started", "stations", len(stations), "data_path", r.dataPath)

	for i, src := range stations {
		if err := ctx.Err(); err != nil {
			logger.Warn("run cancelled", "remaining", len(stations)-i, "reason", err)
			for _, rest := range stations[i:] {
				res := NewStationRun(rest).Result
				res.Fail(model.FailureCancelled, err)
				summary.Add(res)
			}
			break
		}
		summary.Add(r.runStation(ctx, logger, src))
	}

	summary.FinishedAt = r.clock.Now()

	logger.Info("run finished",
		"archived", summary.Archived,
		"unchanged", summary.Unchanged,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"duration", summary.Duration(),
	)

	for _, sink := range r.sinks {
		if err := sink.Record(ctx, summary); err != nil {
			logger.Warn("failed to record run", "sink", sink.Name(), "error", err)
		}
	}

	return summary
}

func (r *Runner) runStation(ctx context.Context, logger *slog.Logger, src config.StationSource) *model.StationResult {
	start := r.clock.Now()
	run := NewStationRun(src)

	err := r.pipeline.Execute(ctx, run)
	run.Result.Duration = r.clock.Since(start)

	switch {
	case err == nil:
	case errors.Is(err, ErrSkip):
		if run.Result.Status == "" {
			run.Result.Status = model.StatusNoData
		}
		logger.Info("no bulletin data", "station", run.Result.Station, "url", src.URL)
	default:
		kind := Classify(ctx, err)
		run.Result.Fail(kind, err)
		logger.Error("station failed",
			"station", run.Result.Station,
			"url", src.URL,
			"kind", kind.String(),
			"error", err,
		)
		if kind != model.FailureCancelled {
			r.notify(ctx, logger, run.Result)
		}
	}

	return run.Result
}

func (r *Runner) notify(ctx context.Context, logger *slog.Logger, res *model.StationResult) {
	msg := fmt.Sprintf("Station %s (%s) failed [%s]: %s", res.Station, res.URL, res.Kind, res.Error)
	if err := r.notifier.Notify(ctx, msg); err != nil {
		logger.Warn("failed to send notification", "station", res.Station, "error", err)
	}
}

// Classify maps a station error to its failure kind. ctx is the run
// context; its cancellation is reported as FailureCancelled.
func Classify(ctx context.Context, err error) model.FailureKind {
	switch {
	case err == nil:
		return model.FailureNone
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return model.FailureCancelled
	case errors.Is(err, fetcher.ErrInvalidURL):
		return model.FailureInvalidURL
	case errors.Is(err, fetcher.ErrEmptyDocument):
		return model.FailureEmptyDocument
	case errors.Is(err, document.ErrParse):
		return model.FailureParse
	case errors.Is(err, extract.ErrUnknownStation):
		return model.FailureUnknownStation
	case errors.Is(err, extract.ErrMissingNode):
		return model.FailureMissingNode
	case errors.Is(err, bulletin.ErrMalformed):
		return model.FailureMalformedBulletin
	case errors.Is(err, archive.ErrArchiveIO):
		return model.FailureArchiveIO
	}

	var stepErr *StepError
	if errors.As(err, &stepErr) && stepErr.Step == StepFetch {
		return model.FailureFetch
	}
	return model.FailureUnknown
}
