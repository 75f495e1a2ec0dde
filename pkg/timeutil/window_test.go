package timeutil

import (
	"testing"
)

func TestParseWindowDefault(t *testing.T) {
	days, label, err := ParseWindow("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 7 {
		t.Fatalf("expected 7, got %d", days)
	}
	if label != "1w" {
		t.Fatalf("expected label 1w, got %s", label)
	}
}

func TestParseWindowComposite(t *testing.T) {
	days, label, err := ParseWindow("1w 3days")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 10 {
		t.Fatalf("expected 10, got %d", days)
	}
	if label != "1w3d" {
		t.Fatalf("unexpected label: %s", label)
	}
}

func TestParseWindowInvalid(t *testing.T) {
	for _, in := range []string{"noop", "3h", "0d", "5w"} {
		if _, _, err := ParseWindow(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestFormatWindow(t *testing.T) {
	cases := map[int]string{0: "0d", 6: "6d", 7: "1w", 30: "4w2d"}
	for in, want := range cases {
		if got := FormatWindow(in); got != want {
			t.Fatalf("FormatWindow(%d) = %s, want %s", in, got, want)
		}
	}
}
