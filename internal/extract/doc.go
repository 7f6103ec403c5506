// Package extract pulls the raw bulletin text out of a station page.
//
// Each station publishes its bulletin in a different place on its page, so
// extraction is a lookup from station code to a Rule. The Dispatcher holds
// the registered rules.
//
// # Rules
//
// Two rules cover the known station pages:
//   - BreakSibling: the text node right after the first <br> (CYNR, CET2)
//   - ElementByID: the text of the element with id "METAR" (CFG6)
//
// A rule that cannot find its anchor returns an error wrapping
// ErrMissingNode. A rule that finds its anchor but no text returns the
// empty string; deciding whether that is "no data" is left to the bulletin
// package.
//
// # Station codes
//
// Codes are matched case-insensitively and otherwise exactly: "cynr" and
// "CYNR" select the same rule, while " cynr " and "cyn" select none. An
// unregistered code is an UnknownStationError, which wraps
// ErrUnknownStation.
//
// # Usage
//
//	d := extract.NewDispatcher()
//	d.Register("kxyz", extract.ElementByID("METAR"))
//	text, err := d.Dispatch("KXYZ", doc)
package extract
