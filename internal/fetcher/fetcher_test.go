package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestFetcher(opts ...Option) *Fetcher {
	base := []Option{
		WithBackoff(time.Millisecond),
		WithTimeout(5 * time.Second),
	}
	return New(&http.Client{}, append(base, opts...)...)
}

func TestValidateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "http", url: "http://example.com/metar.html"},
		{name: "https", url: "https://example.com/metar.html"},
		{name: "surrounding whitespace", url: "  https://example.com/  "},
		{name: "relative", url: "/metar.html", wantErr: true},
		{name: "ftp scheme", url: "ftp://example.com/metar", wantErr: true},
		{name: "empty", url: "", wantErr: true},
		{name: "no host", url: "http://", wantErr: true},
		{name: "garbage", url: "::not a url", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ValidateURL(tt.url)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidURL) {
					t.Errorf("ValidateURL(%q) error = %v, want ErrInvalidURL", tt.url, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateURL(%q) unexpected error: %v", tt.url, err)
			}
		})
	}
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns body and sends user agent", func(t *testing.T) {
		t.Parallel()

		var gotUA atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA.Store(r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body><br>METAR CYNR 151200Z=</body></html>"))
		}))
		defer server.Close()

		f := newTestFetcher(WithUserAgent("test-agent/1.0"))
		body, err := f.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if body != "<html><body><br>METAR CYNR 151200Z=</body></html>" {
			t.Errorf("Fetch() body = %q", body)
		}
		if ua, _ := gotUA.Load().(string); ua != "test-agent/1.0" {
			t.Errorf("User-Agent = %q, want test-agent/1.0", ua)
		}
	})

	t.Run("blank body is an empty document", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("  \n\t "))
		}))
		defer server.Close()

		_, err := newTestFetcher().Fetch(context.Background(), server.URL)
		if !errors.Is(err, ErrEmptyDocument) {
			t.Errorf("Fetch() error = %v, want ErrEmptyDocument", err)
		}
	})

	t.Run("invalid url is rejected without a request", func(t *testing.T) {
		t.Parallel()

		_, err := newTestFetcher().Fetch(context.Background(), "metar.html")
		if !errors.Is(err, ErrInvalidURL) {
			t.Errorf("Fetch() error = %v, want ErrInvalidURL", err)
		}
	})

	t.Run("retries server errors then succeeds", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("<p id=\"METAR\">METAR CFG6 151200Z=</p>"))
		}))
		defer server.Close()

		body, err := newTestFetcher(WithRetries(2)).Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if body == "" {
			t.Error("Fetch() returned empty body")
		}
		if got := calls.Load(); got != 3 {
			t.Errorf("server calls = %d, want 3", got)
		}
	})

	t.Run("gives up after retries", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := newTestFetcher(WithRetries(1)).Fetch(context.Background(), server.URL)
		var httpErr *HTTPError
		if !errors.As(err, &httpErr) {
			t.Fatalf("Fetch() error = %v, want *HTTPError", err)
		}
		if httpErr.StatusCode != http.StatusBadGateway {
			t.Errorf("StatusCode = %d, want %d", httpErr.StatusCode, http.StatusBadGateway)
		}
		if got := calls.Load(); got != 2 {
			t.Errorf("server calls = %d, want 2", got)
		}
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := newTestFetcher(WithRetries(3)).Fetch(context.Background(), server.URL)
		var httpErr *HTTPError
		if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusNotFound {
			t.Fatalf("Fetch() error = %v, want 404 HTTPError", err)
		}
		if got := calls.Load(); got != 1 {
			t.Errorf("server calls = %d, want 1", got)
		}
	})

	t.Run("body is truncated at max size", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("0123456789"))
		}))
		defer server.Close()

		body, err := newTestFetcher(WithMaxBodySize(4)).Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if body != "0123" {
			t.Errorf("Fetch() body = %q, want %q", body, "0123")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestFetcher().Fetch(ctx, server.URL)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Fetch() error = %v, want context.Canceled", err)
		}
	})
}

func TestHTTPError_Temporary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code int
		want bool
	}{
		{code: 500, want: true},
		{code: 503, want: true},
		{code: 429, want: true},
		{code: 408, want: true},
		{code: 404, want: false},
		{code: 403, want: false},
	}

	for _, tt := range tests {
		e := &HTTPError{StatusCode: tt.code}
		if got := e.Temporary(); got != tt.want {
			t.Errorf("HTTPError{%d}.Temporary() = %v, want %v", tt.code, got, tt.want)
		}
	}
}
