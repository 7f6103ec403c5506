package extract

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/nao1215/weatherscraper/internal/document"
)

// ErrUnknownStation is matched by UnknownStationError.
var ErrUnknownStation = errors.New("unknown station")

// UnknownStationError is returned when no rule is registered for a station code.
type UnknownStationError struct {
	Station string
}

// Error implements the error interface.
func (e *UnknownStationError) Error() string {
	return fmt.Sprintf("unknown station %q: no extraction rule is registered", e.Station)
}

// Is reports whether target is ErrUnknownStation.
func (e *UnknownStationError) Is(target error) bool {
	return target == ErrUnknownStation
}

// Dispatcher maps station codes to extraction rules.
type Dispatcher struct {
	rules map[string]Rule
}

// NewDispatcher returns a dispatcher with the built-in stations registered.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{rules: make(map[string]Rule)}
	d.Register("cynr", BreakSibling())
	d.Register("cet2", BreakSibling())
	d.Register("cfg6", ElementByID("METAR"))
	return d
}

// Register adds or replaces the rule for a station code.
func (d *Dispatcher) Register(code string, rule Rule) {
	d.rules[normalize(code)] = rule
}

// Dispatch runs the rule registered for code against doc.
func (d *Dispatcher) Dispatch(code string, doc *document.Document) (string, error) {
	rule, ok := d.rules[normalize(code)]
	if !ok {
		return "", &UnknownStationError{Station: code}
	}
	return rule.Extract(doc)
}

// Supports reports whether a rule is registered for code.
func (d *Dispatcher) Supports(code string) bool {
	_, ok := d.rules[normalize(code)]
	return ok
}

// Stations returns the registered station codes in sorted order.
func (d *Dispatcher) Stations() []string {
	codes := make([]string, 0, len(d.rules))
	for code := range d.rules {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// normalize folds case only. Codes are otherwise matched exactly, so
// surrounding whitespace makes a station unknown.
func normalize(code string) string {
	return strings.ToLower(code)
}
