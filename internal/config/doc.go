// Package config provides the configuration for weatherscraper.
//
// A Config value is built from command-line flags, validated once with
// Validate, and then passed explicitly into the pipeline. There is no
// process-wide configuration state, so a pipeline can be run repeatedly
// with different configurations (as the tests do).
//
// The station list is loaded from a JSON or YAML file with
// LoadStationFile. The legacy JSON layout,
//
//	[{"Url": "http://example.com/metar.html", "Airport": "CYNR"}]
//
// is accepted unchanged; keys are matched case-insensitively.
package config
