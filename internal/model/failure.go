package model

// FailureKind classifies why a station failed during a run.
// Every kind except FailureNone is a per-station failure: it is logged,
// optionally mailed, and the run moves on to the next station.
type FailureKind int

const (
	// FailureNone means the station did not fail.
	FailureNone FailureKind = iota

	// FailureInvalidURL means the configured URL is not an absolute HTTP(S) URL.
	FailureInvalidURL

	// FailureFetch means the page could not be retrieved (network or HTTP status).
	FailureFetch

	// FailureEmptyDocument means the page was retrieved but its body was blank.
	FailureEmptyDocument

	// FailureParse means the page body could not be parsed as HTML.
	FailureParse

	// FailureUnknownStation means no extraction rule is registered for the station code.
	FailureUnknownStation

	// FailureMissingNode means the extraction rule's structural anchor was absent,
	// which usually signals that the source page layout changed.
	FailureMissingNode

	// FailureMalformedBulletin means the extracted text does not match the bulletin grammar.
	FailureMalformedBulletin

	// FailureArchiveIO means reading or writing archive files failed.
	FailureArchiveIO

	// FailureCancelled means the run was interrupted before the station was processed.
	FailureCancelled

	// FailureUnknown is used for errors that match no other kind.
	FailureUnknown
)

// String returns the stable identifier used in logs, reports and metrics.
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureInvalidURL:
		return "invalid_url"
	case FailureFetch:
		return "fetch"
	case FailureEmptyDocument:
		return "empty_document"
	case FailureParse:
		return "parse"
	case FailureUnknownStation:
		return "unknown_station"
	case FailureMissingNode:
		return "missing_node"
	case FailureMalformedBulletin:
		return "malformed_bulletin"
	case FailureArchiveIO:
		return "archive_io"
	case FailureCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so JSON output uses the identifier.
func (k FailureKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseFailureKind converts an identifier produced by String back into a FailureKind.
// Unrecognized identifiers map to FailureUnknown.
func ParseFailureKind(s string) FailureKind {
	for k := FailureNone; k < FailureUnknown; k++ {
		if k.String() == s {
			return k
		}
	}
	return FailureUnknown
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *FailureKind) UnmarshalText(text []byte) error {
	*k = ParseFailureKind(string(text))
	return nil
}
