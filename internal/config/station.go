package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// StationSource is one configured weather source.
// It is immutable for the duration of a run.
type StationSource struct {
	// URL is the page that publishes the station's bulletin.
	URL string `yaml:"url" json:"url"`

	// StationCode selects the extraction rule. It is case-insensitive.
	StationCode string `yaml:"airport" json:"airport"`
}

// Key returns the case-folded station code used for dispatch.
func (s StationSource) Key() string {
	return strings.ToLower(s.StationCode)
}

// String returns "CODE (url)" for logs and messages.
func (s StationSource) String() string {
	return fmt.Sprintf("%s (%s)", strings.ToUpper(s.StationCode), s.URL)
}

// stationCodeKeys are the accepted names for the station code, in priority order.
var stationCodeKeys = []string{"airport", "station", "stationcode", "station_code"}

// UnmarshalYAML decodes a station entry, matching keys case-insensitively
// so that {"Url": ..., "Airport": ...} and {url: ..., station: ...} both load.
// Values are kept exactly as written.
func (s *StationSource) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]string
	if err := node.Decode(&raw); err != nil {
		return err
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		fields[strings.ToLower(strings.TrimSpace(k))] = v
	}

	s.URL = fields["url"]
	s.StationCode = ""
	for _, key := range stationCodeKeys {
		if v := fields[key]; v != "" {
			s.StationCode = v
			break
		}
	}

	return nil
}

// File is the structure of a YAML station file that uses a top-level key.
// A bare list of stations (the JSON layout) is accepted as well.
type File struct {
	// Stations lists the configured sources in processing order.
	Stations []StationSource `yaml:"stations"`
}
