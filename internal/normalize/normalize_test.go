package normalize

import (
	"testing"

	"golang.org/x/text/encoding/charmap"
)

// misdecode simulates reading UTF-8 bytes as Windows-1252.
func misdecode(t *testing.T, s string) string {
	t.Helper()
	out, err := charmap.Windows1252.NewDecoder().String(s)
	if err != nil {
		t.Fatalf("misdecode %q: %v", s, err)
	}
	return out
}

func TestNormalize_PlaceholderEntityNewline(t *testing.T) {
	got := Normalize("It$q$s great! &amp; fun\n", DefaultOptions())
	want := "It's great! & fun"
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalize_KeepNewlines(t *testing.T) {
	got := Normalize("line one\nline two", Options{StripNewlines: false})
	if got != "line one\nline two" {
		t.Errorf("expected newline preserved, got %q", got)
	}
}

func TestNormalize_DoubleEscapedEntity(t *testing.T) {
	got := Normalize("Q&amp;amp;A", DefaultOptions())
	if got != "Q&A" {
		t.Errorf("expected Q&A, got %q", got)
	}
}

func TestRepairEncoding(t *testing.T) {
	once := misdecode(t, "café – naïve")
	twice := misdecode(t, once)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii untouched", "plain text", "plain text"},
		{"already correct", "café", "café"},
		{"single misdecode", once, "café – naïve"},
		{"double misdecode", twice, "café – naïve"},
		{"emoji not encodable", "hot 🔥 planet", "hot 🔥 planet"},
		{"raw windows-1252 bytes", "caf\xe9", "café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RepairEncoding(tt.in); got != tt.want {
				t.Errorf("RepairEncoding(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"It$q$s great! &amp; fun\n",
		misdecode(t, "Don’t panic"),
		"Ã\n©",
		"&amp;amp;amp;",
		"$$q$q$",
		"RT @someone: climate is real #science http://t.co/x",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in, DefaultOptions())
		twice := Normalize(once, DefaultOptions())
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestDenoise(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"RT @user: Climate change is real #science https://t.co/abc", "Climate change is real"},
		{"  spaced    out   words ", "spaced out words"},
		{"@only #tags http://x", ""},
		{"httpx is dropped too", "is dropped too"},
		{"no noise here", "no noise here"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Denoise(tt.in); got != tt.want {
				t.Errorf("Denoise(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
