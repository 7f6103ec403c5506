package archive

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/nao1215/weatherscraper/internal/model"
)

// Outcome is the result of archiving one bulletin.
type Outcome int

const (
	// OutcomeWritten means a new version file was created.
	OutcomeWritten Outcome = iota + 1
	// OutcomeUnchanged means the bulletin matched the latest archived version.
	OutcomeUnchanged
	// OutcomeExists means the target file was already present.
	OutcomeExists
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeExists:
		return "exists"
	default:
		return "unknown"
	}
}

// Entry is one archive file belonging to a station.
type Entry struct {
	Name    string
	Path    string
	DayTime string
	Version int
	Created time.Time
}

// Result describes what Archive did.
type Result struct {
	Outcome Outcome

	// FileName is the file that was written or already existed. For
	// OutcomeUnchanged it is the earlier file the bulletin matched.
	FileName string

	// Version is the version number of FileName.
	Version int
}

// Store archives bulletins into a directory.
type Store struct {
	dir   string
	clock clockwork.Clock
	loc   *time.Location
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock that decides the current day and stamps new files.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithLocation sets the time zone whose calendar day resets versions.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// New returns a Store writing into dir. The directory must already exist.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		dir:   dir,
		clock: clockwork.NewRealClock(),
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the archive directory.
func (s *Store) Dir() string {
	return s.dir
}

// List returns the files of a station, oldest first. Files with the
// station's prefix but an unusable version suffix are ignored.
func (s *Store) List(commonName string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &IOError{Op: "list", Path: s.dir, Err: err}
	}

	var entries []Entry
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		dayTime, version, ok := parseName(commonName, de.Name())
		if !ok {
			continue
		}
		info, err := de.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, &IOError{Op: "stat", Path: filepath.Join(s.dir, de.Name()), Err: err}
		}
		entries = append(entries, Entry{
			Name:    de.Name(),
			Path:    filepath.Join(s.dir, de.Name()),
			DayTime: dayTime,
			Version: version,
			Created: info.ModTime(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Created.Equal(entries[j].Created) {
			return entries[i].Created.Before(entries[j].Created)
		}
		return entries[i].Version < entries[j].Version
	})
	return entries, nil
}

// Previous returns the most recently created file of a station, or nil
// when the station has none.
func (s *Store) Previous(commonName string) (*Entry, error) {
	entries, err := s.List(commonName)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	last := entries[len(entries)-1]
	return &last, nil
}

// NextVersion returns the version the next bulletin of a station receives:
// one more than the highest version created today, or 1.
func (s *Store) NextVersion(commonName string) (int, error) {
	entries, err := s.List(commonName)
	if err != nil {
		return 0, err
	}
	return s.nextVersion(entries), nil
}

func (s *Store) nextVersion(entries []Entry) int {
	today := s.clock.Now().In(s.loc)
	highest := 0
	for _, e := range entries {
		if sameDay(e.Created.In(s.loc), today) && e.Version > highest {
			highest = e.Version
		}
	}
	return highest + 1
}

// Archive stores b unless it is already present or identical to the
// station's most recent file.
func (s *Store) Archive(b model.Bulletin) (Result, error) {
	commonName := CommonName(b.Station)

	entries, err := s.List(commonName)
	if err != nil {
		return Result{}, err
	}

	version := s.nextVersion(entries)
	name := FileName(commonName, b.DayTime, version)
	path := filepath.Join(s.dir, name)

	if _, err := os.Lstat(path); err == nil {
		return Result{Outcome: OutcomeExists, FileName: name, Version: version}, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Result{}, &IOError{Op: "stat", Path: path, Err: err}
	}

	lines := Lines(b)

	if len(entries) > 0 {
		prev := entries[len(entries)-1]
		prevLines, err := s.read(prev.Path)
		if err != nil {
			return Result{}, err
		}
		if slices.Equal(prevLines, lines) {
			return Result{Outcome: OutcomeUnchanged, FileName: prev.Name, Version: prev.Version}, nil
		}
	}

	if err := s.write(path, lines); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return Result{Outcome: OutcomeExists, FileName: name, Version: version}, nil
		}
		return Result{}, err
	}

	return Result{Outcome: OutcomeWritten, FileName: name, Version: version}, nil
}

func (s *Store) read(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from the archive directory listing
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	lines, err := readLines(f)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return lines, nil
}

// write creates path exclusively. A partially written file is removed.
func (s *Store) write(path string, lines []string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) //nolint:gosec // archive files are meant to be world-readable
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return err
		}
		return &IOError{Op: "create", Path: path, Err: err}
	}

	if err := writeLines(f, lines); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return &IOError{Op: "close", Path: path, Err: err}
	}

	// Stamp the file with the store's clock so the day boundary follows it.
	now := s.clock.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		return &IOError{Op: "chtimes", Path: path, Err: err}
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
