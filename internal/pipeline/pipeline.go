package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/weatherscraper/internal/config"
	"github.com/nao1215/weatherscraper/internal/document"
	"github.com/nao1215/weatherscraper/internal/model"
)

// ErrSkip stops a station without marking it failed.
// A step returns it when there is nothing to do this cycle, such as a page
// that publishes no bulletin. The Runner records the station as skipped and
// sends no notification.
var ErrSkip = errors.New("skip station")

// StationRun carries one station through the steps. Each step reads what
// earlier steps produced and fills in its own part.
//
// Design decision: steps share a mutable StationRun rather than passing
// return values along, so a step can be inserted or removed without
// changing the signatures of its neighbours.
type StationRun struct {
	// Source is the configured station entry, exactly as loaded.
	// Dispatch uses its StationCode unmodified.
	Source config.StationSource

	// Body is the fetched page.
	Body string

	// Document is the parsed page.
	Document *document.Document

	// Text is the raw extracted bulletin text.
	Text string

	// Result is the station's outcome, updated as steps complete.
	Result *model.StationResult
}

// NewStationRun prepares a run for src.
// The result's Station is the upper-cased code, used only for display.
func NewStationRun(src config.StationSource) *StationRun {
	return &StationRun{
		Source: src,
		Result: &model.StationResult{
			Station: strings.ToUpper(strings.TrimSpace(src.StationCode)),
			URL:     src.URL,
		},
	}
}

// Step is one stage of station processing.
type Step interface {
	// Do performs the step. Returning an error stops the station.
	Do(ctx context.Context, run *StationRun) error

	// Name identifies the step in logs and errors.
	Name() string
}

// StepError records which step failed.
// Classify looks through it to the underlying sentinel, and falls back to
// FailureFetch when the fetch step failed for a reason no sentinel names.
type StepError struct {
	// Step is the Name of the failing step.
	Step string

	// Err is the error the step returned.
	Err error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap returns the step's error.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Pipeline executes steps in order for one station at a time.
// It holds no per-station state, so one Pipeline serves every station of a
// run and every run of a watch loop.
type Pipeline struct {
	// steps are executed in the order they were added.
	steps []Step

	// logger receives step-level debug entries.
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline.
// The default logger is slog.Default.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{steps: make([]Step, 0)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends steps in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps for one station. It returns ErrSkip unwrapped when
// a step skipped the station, a *StepError when a step failed, and the
// context error when ctx was cancelled between steps.
func (p *Pipeline) Execute(ctx context.Context, run *StationRun) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"station", run.Result.Station,
		)

		if err := step.Do(ctx, run); err != nil {
			if errors.Is(err, ErrSkip) {
				p.logger.Debug("station skipped",
					"step", step.Name(),
					"station", run.Result.Station,
				)
				return ErrSkip
			}
			return &StepError{Step: step.Name(), Err: err}
		}
	}
	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
