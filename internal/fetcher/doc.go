// Package fetcher retrieves station pages over HTTP.
//
// A Fetcher validates that the configured URL is an absolute HTTP(S) URL,
// issues a GET with a bounded timeout, retries transient failures with
// exponential backoff, and returns the page body as text. A blank body is
// reported as ErrEmptyDocument so the caller can tell "the page was empty"
// apart from "the page had no bulletin".
//
// # Usage
//
//	f := fetcher.New(&http.Client{}, fetcher.WithTimeout(30*time.Second))
//	body, err := f.Fetch(ctx, "http://example.com/metar.html")
package fetcher
