package document

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrParse is returned when a page cannot be parsed as HTML.
var ErrParse = errors.New("unable to parse HTML document")

// Document is a parsed station page.
type Document struct {
	doc *goquery.Document
}

// Parse reads an HTML page from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return &Document{doc: goquery.NewDocumentFromNode(root)}, nil
}

// ParseString parses an HTML page held in memory.
func ParseString(body string) (*Document, error) {
	return Parse(strings.NewReader(body))
}

// Find returns the elements matching a CSS selector.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// FirstElement returns the first element with the given tag name in
// document order, or nil.
func (d *Document) FirstElement(tag string) *html.Node {
	sel := d.doc.Find(tag).First()
	if sel.Length() == 0 {
		return nil
	}
	return sel.Get(0)
}

// ElementByID returns the first element whose id attribute equals id, or nil.
// The match is exact and case-sensitive.
func (d *Document) ElementByID(id string) *html.Node {
	var found *html.Node
	d.doc.Find("[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, _ := s.Attr("id"); v == id {
			found = s.Get(0)
			return false
		}
		return true
	})
	return found
}

// Title returns the trimmed page title, if any.
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// Text returns the concatenated text content of n and its descendants.
// Text nodes are returned verbatim; a nil node yields "".
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	return goquery.NewDocumentFromNode(n).Text()
}
