package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/weatherscraper/internal/model"
)

// FileName is the database file created inside the database directory.
const FileName = "history.db"

// HistoryDB stores run summaries.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures Open.
type Options struct {
	// CreateIfNotExists creates the directory and database file when missing.
	CreateIfNotExists bool

	// EnableWAL switches the journal to write-ahead logging.
	EnableWAL bool
}

// DefaultOptions returns the options used by the scrape command.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens the history database in dbDir.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	dsn := dbPath + "?mode=rwc"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	} else {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if opts.EnableWAL {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := hdb.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

func (h *HistoryDB) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		data_path TEXT NOT NULL,
		archived INTEGER NOT NULL DEFAULT 0,
		unchanged INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	CREATE TABLE IF NOT EXISTS station_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		station TEXT NOT NULL,
		url TEXT NOT NULL,
		status TEXT NOT NULL,
		kind TEXT NOT NULL,
		report_type TEXT,
		bulletin_station TEXT,
		day_time TEXT,
		bulletin TEXT,
		file_name TEXT,
		version INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_results_run ON station_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_results_station ON station_results(station);
	`
	_, err := h.db.ExecContext(ctx, schema)
	return err
}

// RunRecord is the stored summary of one run without its station results.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	DataPath   string
	Archived   int
	Unchanged  int
	Skipped    int
	Failed     int
}

// StationRecord is one station result together with the run it belongs to.
type StationRecord struct {
	RunID     string
	StartedAt time.Time
	Result    *model.StationResult
}

// SaveRun stores a finished run and its station results in one transaction.
func (h *HistoryDB) SaveRun(ctx context.Context, s *model.RunSummary) (err error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, started_at, finished_at, data_path, archived, unchanged, skipped, failed)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.ID,
		formatTimestamp(s.StartedAt),
		formatTimestamp(s.FinishedAt),
		s.DataPath,
		s.Archived, s.Unchanged, s.Skipped, s.Failed,
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", s.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO station_results
		(run_id, position, station, url, status, kind, report_type, bulletin_station, day_time,
		 bulletin, file_name, version, error, duration_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare station insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range s.Results {
		var reportType, bulletinStation, dayTime, text sql.NullString
		if b := r.Bulletin; b != nil {
			reportType = sql.NullString{String: b.Type, Valid: true}
			bulletinStation = sql.NullString{String: b.Station, Valid: true}
			dayTime = sql.NullString{String: b.DayTime, Valid: true}
			text = sql.NullString{String: b.Text, Valid: true}
		}

		_, err = stmt.ExecContext(ctx,
			s.ID, i, r.Station, r.URL, string(r.Status), r.Kind.String(),
			reportType, bulletinStation, dayTime, text,
			r.FileName, r.Version, r.Error, r.Duration.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("failed to save result for %s: %w", r.Station, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", s.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 means all.
func (h *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, started_at, finished_at, data_path, archived, unchanged, skipped, failed
	FROM runs
	ORDER BY started_at DESC
	LIMIT ?
	`
	rows, err := h.db.QueryContext(ctx, query, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}

// GetRun loads a run with its station results. It returns nil when no run
// has the given ID.
func (h *HistoryDB) GetRun(ctx context.Context, id string) (*model.RunSummary, error) {
	row := h.db.QueryRowContext(ctx, `
	SELECT id, started_at, finished_at, data_path, archived, unchanged, skipped, failed
	FROM runs WHERE id = ?
	`, id)

	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	summary := &model.RunSummary{
		ID:         rec.ID,
		StartedAt:  rec.StartedAt,
		FinishedAt: rec.FinishedAt,
		DataPath:   rec.DataPath,
		Results:    make([]*model.StationResult, 0),
		Archived:   rec.Archived,
		Unchanged:  rec.Unchanged,
		Skipped:    rec.Skipped,
		Failed:     rec.Failed,
	}

	records, err := h.queryResults(ctx, `WHERE r.run_id = ? ORDER BY sr.position`, id)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		summary.Results = append(summary.Results, rec.Result)
	}
	return summary, nil
}

// StationHistory returns the results recorded for a station code, newest
// first. limit <= 0 means all.
func (h *HistoryDB) StationHistory(ctx context.Context, station string, limit int) ([]StationRecord, error) {
	return h.queryResults(ctx,
		`WHERE sr.station = ? COLLATE NOCASE ORDER BY r.started_at DESC, sr.id DESC LIMIT ?`,
		station, sqlLimit(limit),
	)
}

func (h *HistoryDB) queryResults(ctx context.Context, where string, args ...any) ([]StationRecord, error) {
	query := `
	SELECT sr.run_id, r.started_at, sr.station, sr.url, sr.status, sr.kind,
		sr.report_type, sr.bulletin_station, sr.day_time, sr.bulletin,
		sr.file_name, sr.version, sr.error, sr.duration_ms
	FROM station_results sr
	JOIN runs r ON r.id = sr.run_id
	` + where

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query station results: %w", err)
	}
	defer rows.Close()

	var records []StationRecord
	for rows.Next() {
		var (
			rec                                        StationRecord
			startedAt, status, kind                    string
			reportType, bulletinStation, dayTime, text sql.NullString
			fileName, errMsg                           sql.NullString
			durationMS                                 int64
		)
		r := &model.StationResult{}
		if err := rows.Scan(
			&rec.RunID, &startedAt, &r.Station, &r.URL, &status, &kind,
			&reportType, &bulletinStation, &dayTime, &text,
			&fileName, &r.Version, &errMsg, &durationMS,
		); err != nil {
			return nil, fmt.Errorf("failed to scan station result: %w", err)
		}

		rec.StartedAt = parseTimestamp(startedAt)
		r.Status = model.Status(status)
		r.Kind = model.ParseFailureKind(kind)
		if text.Valid {
			r.Bulletin = &model.Bulletin{
				Type:    reportType.String,
				Station: bulletinStation.String,
				DayTime: dayTime.String,
				Text:    text.String,
			}
		}
		r.FileName = fileName.String
		r.Error = errMsg.String
		r.Duration = time.Duration(durationMS) * time.Millisecond

		rec.Result = r
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var (
		rec                   RunRecord
		startedAt, finishedAt string
	)
	err := row.Scan(&rec.ID, &startedAt, &finishedAt, &rec.DataPath,
		&rec.Archived, &rec.Unchanged, &rec.Skipped, &rec.Failed)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, err
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("failed to scan run: %w", err)
	}
	rec.StartedAt = parseTimestamp(startedAt)
	rec.FinishedAt = parseTimestamp(finishedAt)
	return rec, nil
}

// sqlLimit maps "no limit" to SQLite's LIMIT -1.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// Timestamps are stored as fixed-width UTC text so that they sort correctly.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// timestampFormats lists the layouts accepted when reading, most specific first.
var timestampFormats = []string{
	timestampLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// parseTimestamp returns the zero time when s matches no known layout.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
