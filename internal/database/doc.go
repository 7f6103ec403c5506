// Package database keeps a history of weatherscraper runs in SQLite.
//
// Each run stores one row in runs and one row per configured station in
// station_results, so operators can answer "when did CFG6 last archive a
// bulletin" without walking the archive directory. The history is advisory:
// version numbers are always derived from the archive directory itself.
//
// The database uses modernc.org/sqlite, a CGO-free driver, and lives in a
// single file under the XDG data directory.
package database
