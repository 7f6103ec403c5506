// Package bulletin validates raw METAR/SPECI text and splits it into a
// model.Bulletin.
//
// # Grammar
//
// A bulletin starts with its report type, a four character station code
// and a six digit day/time group ending in Z:
//
//	METAR CYNR 151200Z 27010KT 15SM FEW030 M05/M12 A3002=
//
// The match is anchored and case-sensitive. Anything may follow the Z on
// the same line, including nothing at all. One trailing line break is
// accepted; a second line is not.
//
// # Outcomes
//
// Validate and Parse report three outcomes:
//   - nil: the text is a bulletin
//   - ErrNoData: the text is blank; the station has nothing this cycle
//   - *MalformedError: the text is present but does not match
//
// Blank text is checked first, so an empty page is never reported as
// malformed.
//
// # Normalization
//
// Parse returns the text on exactly one line. The trailing line break is
// dropped and line breaks between the header tokens become spaces, because
// the archive stores the text as the single last line of a four line file.
// Other whitespace is kept as published.
//
// # Usage
//
//	b, err := bulletin.Parse(url, text)
//	if errors.Is(err, bulletin.ErrNoData) {
//		// skip the station
//	}
package bulletin
