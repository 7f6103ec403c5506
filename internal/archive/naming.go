package archive

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefix is the bulletin header every archive file name starts with.
const Prefix = "SACN61"

// CommonName returns the name shared by all archive files of a station.
func CommonName(station string) string {
	return Prefix + "." + station
}

// FileName returns the archive file name for one bulletin version.
func FileName(commonName, dayTime string, version int) string {
	return fmt.Sprintf("%s.%s.%d", commonName, dayTime, version)
}

// parseName splits a file name that belongs to commonName into its dayTime
// and version. ok is false for names of other stations and for names whose
// version suffix is not a positive decimal without leading zeros.
func parseName(commonName, name string) (dayTime string, version int, ok bool) {
	rest, found := strings.CutPrefix(name, commonName+".")
	if !found {
		return "", 0, false
	}

	dot := strings.LastIndexByte(rest, '.')
	if dot <= 0 {
		return "", 0, false
	}

	version, ok = parseVersion(rest[dot+1:])
	if !ok {
		return "", 0, false
	}
	return rest[:dot], version, true
}

func parseVersion(s string) (int, bool) {
	if s == "" || s[0] == '0' {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
