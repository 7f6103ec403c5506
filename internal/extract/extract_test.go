package extract

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/weatherscraper/internal/document"
)

func mustParse(t *testing.T, body string) *document.Document {
	t.Helper()
	doc, err := document.ParseString(body)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return doc
}

func TestBreakSibling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{
			name: "text after first br",
			body: "<body>Header<br>METAR KXYZ 151200Z WIND CALM=<br>footer</body>",
			want: "METAR KXYZ 151200Z WIND CALM=",
		},
		{
			name: "text is not trimmed",
			body: "<body><br> METAR CYNR 151200Z 00000KT \n</body>",
			want: " METAR CYNR 151200Z 00000KT \n",
		},
		{
			name: "element sibling yields inner text",
			body: "<body><br><span>METAR CET2 151200Z</span></body>",
			want: "METAR CET2 151200Z",
		},
		{
			name:    "no br",
			body:    "<body><p>METAR CYNR 151200Z</p></body>",
			wantErr: ErrMissingNode,
		},
		{
			name:    "br is last child",
			body:    "<body><p>text</p><br></body>",
			wantErr: ErrMissingNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := BreakSibling().Extract(mustParse(t, tt.body))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Extract() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Extract() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestElementByID(t *testing.T) {
	t.Parallel()

	t.Run("trimmed element text", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<body><div id="METAR">
  METAR CFG6 151200Z 27010KT=
</div></body>`)
		got, err := ElementByID("METAR").Extract(doc)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if got != "METAR CFG6 151200Z 27010KT=" {
			t.Errorf("Extract() = %q", got)
		}
	})

	t.Run("id match is case-sensitive", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<body><div id="metar">METAR CFG6 151200Z</div></body>`)
		_, err := ElementByID("METAR").Extract(doc)
		if !errors.Is(err, ErrMissingNode) {
			t.Errorf("Extract() error = %v, want ErrMissingNode", err)
		}
	})

	t.Run("empty element yields empty text", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<body><div id="METAR">   </div></body>`)
		got, err := ElementByID("METAR").Extract(doc)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if got != "" {
			t.Errorf("Extract() = %q, want empty", got)
		}
	})
}

func TestDispatcher_Dispatch(t *testing.T) {
	t.Parallel()

	breakPage := "<body><br>METAR CYNR 151200Z 00000KT=</body>"
	idPage := `<body><p id="METAR">METAR CFG6 151200Z 00000KT=</p></body>`

	tests := []struct {
		name    string
		code    string
		body    string
		want    string
		wantErr error
	}{
		{name: "lower case", code: "cynr", body: breakPage, want: "METAR CYNR 151200Z 00000KT="},
		{name: "upper case", code: "CYNR", body: breakPage, want: "METAR CYNR 151200Z 00000KT="},
		{name: "mixed case", code: "CyNr", body: breakPage, want: "METAR CYNR 151200Z 00000KT="},
		{name: "cet2 uses br rule", code: "CET2", body: breakPage, want: "METAR CYNR 151200Z 00000KT="},
		{name: "cfg6 uses id rule", code: "cfg6", body: idPage, want: "METAR CFG6 151200Z 00000KT="},
		{name: "unknown", code: "KXYZ", body: breakPage, wantErr: ErrUnknownStation},
		{name: "prefix is not a match", code: "cyn", body: breakPage, wantErr: ErrUnknownStation},
		{name: "surrounding spaces are not a match", code: " cynr ", body: breakPage, wantErr: ErrUnknownStation},
		{name: "trailing tab is not a match", code: "CYNR\t", body: breakPage, wantErr: ErrUnknownStation},
		{name: "empty code", code: "", body: breakPage, wantErr: ErrUnknownStation},
		{name: "rule failure propagates", code: "cfg6", body: breakPage, wantErr: ErrMissingNode},
	}

	d := NewDispatcher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := d.Dispatch(tt.code, mustParse(t, tt.body))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Dispatch(%q) error = %v, want %v", tt.code, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Dispatch(%q) unexpected error: %v", tt.code, err)
			}
			if got != tt.want {
				t.Errorf("Dispatch(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestUnknownStationError(t *testing.T) {
	t.Parallel()

	_, err := NewDispatcher().Dispatch("KXYZ", mustParse(t, "<body></body>"))

	var unknown *UnknownStationError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %T, want *UnknownStationError", err)
	}
	if unknown.Station != "KXYZ" {
		t.Errorf("Station = %q, want KXYZ", unknown.Station)
	}
}

func TestDispatcher_Register(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()
	d.Register(" KXYZ ", RuleFunc(func(*document.Document) (string, error) {
		return "METAR KXYZ 151200Z=", nil
	}))

	if !d.Supports("kxyz") {
		t.Error("Supports(kxyz) = false after Register")
	}
	if d.Supports(" kxyz") {
		t.Error("Supports(\" kxyz\") = true, want an exact match only")
	}
	if diff := cmp.Diff([]string{"cet2", "cfg6", "cynr", "kxyz"}, d.Stations()); diff != "" {
		t.Errorf("Stations() mismatch (-want +got):\n%s", diff)
	}

	got, err := d.Dispatch("KXYZ", mustParse(t, "<body></body>"))
	if err != nil || got != "METAR KXYZ 151200Z=" {
		t.Errorf("Dispatch() = %q, %v", got, err)
	}
}
