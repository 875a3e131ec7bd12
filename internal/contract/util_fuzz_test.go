package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzTruncateMiddle fuzzes TruncateMiddle with random strings and widths.
func FuzzTruncateMiddle(f *testing.F) {
	seeds := []struct {
		s     string
		width int
	}{
		{"0199a5e4-8f0c-7b3e-a2d1-6c4f0e9b1a77", 12},
		{"peer-a", 20},
		{"", 5},
		{"ééééééééééé", 7},
		{"abc", 0},
	}
	for _, seed := range seeds {
		f.Add(seed.s, seed.width)
	}

	f.Fuzz(func(t *testing.T, s string, width int) {
		if !utf8.ValidString(s) {
			return
		}
		got := TruncateMiddle(s, width)
		n := utf8.RuneCountInString(s)
		if n <= width || width <= 3 {
			if got != s {
				t.Fatalf("expected %q unchanged, got %q", s, got)
			}
			return
		}
		if utf8.RuneCountInString(got) != width {
			t.Fatalf("expected width %d, got %q", width, got)
		}
	})
}

// FuzzParseBoolString ensures parsing never panics and accepted values round-trip.
func FuzzParseBoolString(f *testing.F) {
	for _, seed := range []string{"yes", "no", "TRUE", "0", "", "maybe"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		v, err := ParseBoolString(s)
		if err != nil {
			return
		}
		if v {
			_, err = ParseBoolString("yes")
		} else {
			_, err = ParseBoolString("no")
		}
		if err != nil {
			t.Fatal(err)
		}
	})
}
