package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/weatherscraper/internal/archive"
	"github.com/nao1215/weatherscraper/internal/bulletin"
	"github.com/nao1215/weatherscraper/internal/document"
	"github.com/nao1215/weatherscraper/internal/extract"
	"github.com/nao1215/weatherscraper/internal/fetcher"
	"github.com/nao1215/weatherscraper/internal/model"
)

// Step names.
const (
	StepFetch    = "fetch"
	StepParse    = "parse"
	StepExtract  = "extract"
	StepValidate = "validate"
	StepArchive  = "archive"
)

// PageFetcher downloads a station page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Archiver stores a validated bulletin.
type Archiver interface {
	Archive(b model.Bulletin) (archive.Result, error)
}

// FetchStep validates the station URL and downloads the page.
type FetchStep struct {
	fetcher PageFetcher
}

// NewFetchStep returns a FetchStep using f.
func NewFetchStep(f PageFetcher) *FetchStep {
	return &FetchStep{fetcher: f}
}

// Name returns the step name.
func (s *FetchStep) Name() string { return StepFetch }

// Do fetches run.Source.URL into run.Body.
func (s *FetchStep) Do(ctx context.Context, run *StationRun) error {
	if _, err := fetcher.ValidateURL(run.Source.URL); err != nil {
		return err
	}
	body, err := s.fetcher.Fetch(ctx, run.Source.URL)
	if err != nil {
		return err
	}
	run.Body = body
	return nil
}

// ParseStep parses the fetched page.
type ParseStep struct{}

// NewParseStep returns a ParseStep.
func NewParseStep() *ParseStep {
	return &ParseStep{}
}

// Name returns the step name.
func (s *ParseStep) Name() string { return StepParse }

// Do parses run.Body into run.Document.
func (s *ParseStep) Do(_ context.Context, run *StationRun) error {
	doc, err := document.ParseString(run.Body)
	if err != nil {
		return err
	}
	run.Document = doc
	return nil
}

// ExtractStep pulls the bulletin text out of the page.
type ExtractStep struct {
	dispatcher *extract.Dispatcher
}

// NewExtractStep returns an ExtractStep using d.
func NewExtractStep(d *extract.Dispatcher) *ExtractStep {
	return &ExtractStep{dispatcher: d}
}

// Name returns the step name.
func (s *ExtractStep) Name() string { return StepExtract }

// Do extracts run.Text with the rule registered for the station code.
func (s *ExtractStep) Do(_ context.Context, run *StationRun) error {
	text, err := s.dispatcher.Dispatch(run.Source.StationCode, run.Document)
	if err != nil {
		return err
	}
	run.Text = text
	return nil
}

// ValidateStep checks the extracted text and builds the Bulletin.
type ValidateStep struct{}

// NewValidateStep returns a ValidateStep.
func NewValidateStep() *ValidateStep {
	return &ValidateStep{}
}

// Name returns the step name.
func (s *ValidateStep) Name() string { return StepValidate }

// Do parses run.Text. Blank text marks the station as having no data and
// skips it.
func (s *ValidateStep) Do(_ context.Context, run *StationRun) error {
	b, err := bulletin.Parse(run.Source.URL, run.Text)
	if errors.Is(err, bulletin.ErrNoData) {
		run.Result.Status = model.StatusNoData
		return ErrSkip
	}
	if err != nil {
		return err
	}
	run.Result.Bulletin = &b
	return nil
}

// ArchiveStep writes the bulletin to the archive.
type ArchiveStep struct {
	archiver Archiver
	logger   *slog.Logger
}

// NewArchiveStep returns an ArchiveStep using a.
func NewArchiveStep(a Archiver, logger *slog.Logger) *ArchiveStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArchiveStep{archiver: a, logger: logger}
}

// Name returns the step name.
func (s *ArchiveStep) Name() string { return StepArchive }

// Do archives run.Result.Bulletin and records the outcome.
func (s *ArchiveStep) Do(_ context.Context, run *StationRun) error {
	res, err := s.archiver.Archive(*run.Result.Bulletin)
	if err != nil {
		return err
	}

	run.Result.FileName = res.FileName
	run.Result.Version = res.Version

	switch res.Outcome {
	case archive.OutcomeWritten:
		run.Result.Status = model.StatusArchived
		s.logger.Info("bulletin archived",
			"station", run.Result.Station,
			"file", res.FileName,
		)
	case archive.OutcomeUnchanged:
		run.Result.Status = model.StatusUnchanged
		s.logger.Debug("bulletin unchanged",
			"station", run.Result.Station,
			"previous", res.FileName,
		)
	case archive.OutcomeExists:
		run.Result.Status = model.StatusExists
		s.logger.Debug("archive file already exists",
			"station", run.Result.Station,
			"file", res.FileName,
		)
	}
	return nil
}

// NewStationPipeline builds the standard five-step pipeline.
func NewStationPipeline(f PageFetcher, d *extract.Dispatcher, a Archiver, logger *slog.Logger) *Pipeline {
	p := New(WithLogger(logger))
	p.AddSteps(
		NewFetchStep(f),
		NewParseStep(),
		NewExtractStep(d),
		NewValidateStep(),
		NewArchiveStep(a, logger),
	)
	return p
}
