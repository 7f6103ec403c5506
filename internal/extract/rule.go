package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/weatherscraper/internal/document"
)

// ErrMissingNode is returned when the anchor a rule looks for is absent.
var ErrMissingNode = errors.New("bulletin node not found")

// Rule extracts the raw bulletin text from a parsed page.
type Rule interface {
	Extract(doc *document.Document) (string, error)
}

// RuleFunc adapts a function to the Rule interface.
type RuleFunc func(doc *document.Document) (string, error)

// Extract calls f(doc).
func (f RuleFunc) Extract(doc *document.Document) (string, error) {
	return f(doc)
}

// BreakSibling returns the rule for pages that print the bulletin right
// after the first <br>. The text of the node following that <br> is
// returned untrimmed.
func BreakSibling() Rule {
	return RuleFunc(func(doc *document.Document) (string, error) {
		br := doc.FirstElement("br")
		if br == nil {
			return "", fmt.Errorf("%w: page has no <br> element", ErrMissingNode)
		}
		if br.NextSibling == nil {
			return "", fmt.Errorf("%w: first <br> has no following sibling", ErrMissingNode)
		}
		return document.Text(br.NextSibling), nil
	})
}

// ElementByID returns the rule for pages that hold the bulletin in the
// element with the given id. The element text is trimmed.
func ElementByID(id string) Rule {
	return RuleFunc(func(doc *document.Document) (string, error) {
		n := doc.ElementByID(id)
		if n == nil {
			return "", fmt.Errorf("%w: no element with id %q", ErrMissingNode, id)
		}
		return strings.TrimSpace(document.Text(n)), nil
	})
}
