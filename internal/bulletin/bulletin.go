package bulletin

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/nao1215/weatherscraper/internal/model"
)

var (
	// ErrNoData is returned for blank text. The station simply has nothing
	// to publish this cycle; it is not a failure.
	ErrNoData = errors.New("no bulletin data")

	// ErrMalformed is matched by MalformedError.
	ErrMalformed = errors.New("malformed bulletin")
)

// grammar is anchored and case-sensitive. The dot does not match newlines,
// so the body after the time must sit on a single line; one trailing line
// break is tolerated at the end anchor. The \s separators between the header
// tokens also match line breaks, which Parse flattens.
var grammar = regexp.MustCompile(`^(METAR|SPECI)\s\S{4}\s\d{6}Z(.*)\r?\n?$`)

// MalformedError is returned when text does not match the bulletin grammar.
type MalformedError struct {
	URL  string
	Text string
}

// Error implements the error interface.
func (e *MalformedError) Error() string {
	return fmt.Sprintf("Format of METAR is not correct: %q (source %s)", e.Text, e.URL)
}

// Is reports whether target is ErrMalformed.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}

// Validate checks text against the bulletin grammar. url identifies the
// source page in the returned error.
func Validate(url, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrNoData
	}
	if !grammar.MatchString(text) {
		return &MalformedError{URL: url, Text: text}
	}
	return nil
}

// Parse validates text and splits its leading tokens into a Bulletin.
func Parse(url, text string) (model.Bulletin, error) {
	if err := Validate(url, text); err != nil {
		return model.Bulletin{}, err
	}

	fields := strings.Fields(text)
	if len(fields) < 3 {
		// Unreachable for text that passed the grammar.
		return model.Bulletin{}, &MalformedError{URL: url, Text: text}
	}

	return model.Bulletin{
		Type:    fields[0],
		Station: fields[1],
		DayTime: strings.TrimSuffix(fields[2], "Z"),
		Text:    singleLine(text),
	}, nil
}

// lineBreaks turns the line breaks the header separators may carry into
// plain spaces.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// singleLine drops the single trailing line break the grammar tolerates and
// flattens any line break between the header tokens, so the archived text is
// always exactly one line.
func singleLine(text string) string {
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	return lineBreaks.Replace(text)
}
