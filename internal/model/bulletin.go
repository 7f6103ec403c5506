package model

import "strings"

// Report type tokens that may open a bulletin.
const (
	// ReportTypeMETAR is a routine aviation weather observation.
	ReportTypeMETAR = "METAR"

	// ReportTypeSPECI is a special (non-routine) observation.
	ReportTypeSPECI = "SPECI"
)

// Bulletin is a validated aviation weather report.
// Only the bulletin package constructs Bulletins, and only after the text
// matched the bulletin grammar, so the leading groups are always populated.
type Bulletin struct {
	// Type is the report-type token, METAR or SPECI.
	Type string `json:"type"`

	// Station is the 4-character station identifier taken from the report,
	// e.g. "CYNR". It names the archive files, not the configured station code.
	Station string `json:"station"`

	// DayTime is the 6-digit day-time group with its trailing Z removed,
	// e.g. "151200" for the 15th at 12:00 UTC.
	DayTime string `json:"day_time"`

	// Text is the full bulletin exactly as extracted.
	Text string `json:"text"`
}

// Body returns the free-form report body following the day-time group.
func (b Bulletin) Body() string {
	fields := strings.Fields(b.Text)
	if len(fields) <= 3 {
		return ""
	}
	return strings.Join(fields[3:], " ")
}
