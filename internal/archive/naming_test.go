package archive

import "testing"

func TestFileName(t *testing.T) {
	t.Parallel()

	if got := FileName(CommonName("KXYZ"), "151200", 12); got != "SACN61.KXYZ.151200.12" {
		t.Errorf("FileName() = %q", got)
	}
}

func TestParseName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		file        string
		wantDayTime string
		wantVersion int
		wantOK      bool
	}{
		{name: "valid", file: "SACN61.KXYZ.151200.1", wantDayTime: "151200", wantVersion: 1, wantOK: true},
		{name: "multi digit", file: "SACN61.KXYZ.151200.120", wantDayTime: "151200", wantVersion: 120, wantOK: true},
		{name: "leading zero", file: "SACN61.KXYZ.151200.01"},
		{name: "zero", file: "SACN61.KXYZ.151200.0"},
		{name: "non numeric", file: "SACN61.KXYZ.151200.tmp"},
		{name: "empty suffix", file: "SACN61.KXYZ.151200."},
		{name: "no day time", file: "SACN61.KXYZ.1"},
		{name: "other station", file: "SACN61.CYNR.151200.1"},
		{name: "station prefix only", file: "SACN61.KXYZA.151200.1"},
		{name: "overflow", file: "SACN61.KXYZ.151200.99999999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dayTime, version, ok := parseName("SACN61.KXYZ", tt.file)
			if ok != tt.wantOK {
				t.Fatalf("parseName(%q) ok = %v, want %v", tt.file, ok, tt.wantOK)
			}
			if dayTime != tt.wantDayTime || version != tt.wantVersion {
				t.Errorf("parseName(%q) = (%q, %d), want (%q, %d)", tt.file, dayTime, version, tt.wantDayTime, tt.wantVersion)
			}
		})
	}
}
