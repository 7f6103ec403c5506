package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default station file names, searched in this order.
var defaultConfigFiles = []string{
	"weatherscraper.json",
	"weatherscraper.yaml",
	"weatherscraper.yml",
}

// LoadStationFile loads the ordered station list from a JSON or YAML file.
// JSON is decoded by the YAML parser, which accepts it as a subset.
// Every failure is a configuration error. Entries missing a url or an
// airport are kept as they are and fail on their own when the station runs.
func LoadStationFile(path string) ([]StationSource, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoConfigFile
	}

	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfigFile, path, err)
	}

	// Station files written on Windows often start with a byte-order mark.
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyConfigFile, path)
	}

	stations, err := decodeStations(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfigFile, path, err)
	}

	if len(stations) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoStations, path)
	}

	return stations, nil
}

// decodeStations accepts either a top-level list or a mapping with a stations key.
func decodeStations(data []byte) ([]StationSource, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var stations []StationSource
		if err := root.Decode(&stations); err != nil {
			return nil, err
		}
		return stations, nil
	case yaml.MappingNode:
		var f File
		if err := root.Decode(&f); err != nil {
			return nil, err
		}
		return f.Stations, nil
	default:
		return nil, fmt.Errorf("expected a list of stations, got %s", nodeKindName(root.Kind))
	}
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.AliasNode:
		return "an alias"
	default:
		return "an unsupported node"
	}
}

// FindConfigFile searches for the station file in the following order:
//  1. If configPath is specified, use it directly (even if it does not exist,
//     so the caller reports the path the user gave)
//  2. weatherscraper.json / .yaml / .yml in the current directory
//  3. The same names in the XDG config directory
//
// Returns an empty string if nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	dirs := make([]string, 0, 2)
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	dirs = append(dirs, XDGConfigDir())

	for _, dir := range dirs {
		for _, name := range defaultConfigFiles {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
	}

	return ""
}
