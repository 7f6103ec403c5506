// Package main provides the entry point for the weatherscraper CLI.
//
// weatherscraper downloads METAR/SPECI bulletins from per-station web pages,
// validates them and archives each one under a versioned file name so that
// repeated runs never overwrite or duplicate a report.
//
// Usage:
//
//	weatherscraper -f stations.json -p /var/lib/metar
//	weatherscraper watch --schedule "*/10 * * * *" -f stations.json -p /var/lib/metar
//
// See --help for all available options.
package main

func main() {
	Execute()
}
