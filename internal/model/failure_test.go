package model

import (
	"encoding/json"
	"testing"
)

// TestFailureKindString tests the String method of FailureKind.
func TestFailureKindString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		kind     FailureKind
		expected string
	}{
		{FailureNone, "none"},
		{FailureInvalidURL, "invalid_url"},
		{FailureFetch, "fetch"},
		{FailureEmptyDocument, "empty_document"},
		{FailureParse, "parse"},
		{FailureUnknownStation, "unknown_station"},
		{FailureMissingNode, "missing_node"},
		{FailureMalformedBulletin, "malformed_bulletin"},
		{FailureArchiveIO, "archive_io"},
		{FailureCancelled, "cancelled"},
		{FailureKind(999), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.kind.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.kind.String(), tc.expected)
			}
		})
	}
}

// TestParseFailureKind tests that identifiers round-trip through ParseFailureKind.
func TestParseFailureKind(t *testing.T) {
	t.Parallel()

	for k := FailureNone; k < FailureUnknown; k++ {
		if got := ParseFailureKind(k.String()); got != k {
			t.Errorf("ParseFailureKind(%q) = %v, expected %v", k.String(), got, k)
		}
	}

	if got := ParseFailureKind("no-such-kind"); got != FailureUnknown {
		t.Errorf("expected FailureUnknown for unrecognized identifier, got %v", got)
	}
}

// TestFailureKindJSON tests that FailureKind is encoded by name in JSON.
func TestFailureKindJSON(t *testing.T) {
	t.Parallel()

	r := StationResult{Station: "CYNR", Status: StatusFailed, Kind: FailureMissingNode}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded["kind"] != "missing_node" {
		t.Errorf("expected kind 'missing_node', got %v", decoded["kind"])
	}
}
