// Package document parses station pages into a queryable HTML tree.
//
// Pages are parsed with golang.org/x/net/html, which tolerates the
// malformed markup common on hand-maintained weather pages, and wrapped in
// a goquery document for selection.
package document
