package xgrid

import (
	"errors"
	"strings"
	"testing"
)

func TestMeasure(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"a b", 3},
		{"naïve", 5},
	}
	for _, tc := range cases {
		if got := Measure(tc.text); got != tc.want {
			t.Fatalf("Measure(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestWrapGreedy(t *testing.T) {
	lines, err := Wrap("the quick brown fox jumps over the lazy dog", 15)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	want := []string{"the quick brown", "fox jumps over", "the lazy dog"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
		if Measure(lines[i]) > 15 {
			t.Fatalf("line %d exceeds width: %q", i, lines[i])
		}
	}
}

func TestWrapOverlongToken(t *testing.T) {
	lines, err := Wrap("see https://example.com/very/long/path now", 10)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	found := false
	for _, line := range lines {
		if line == "https://example.com/very/long/path" {
			found = true
		}
	}
	if !found {
		t.Fatalf("overlong token not placed alone and untruncated: %q", lines)
	}
}

func TestWrapNoTruncation(t *testing.T) {
	text := "alpha beta gamma delta epsilon zeta eta theta"
	for w := 1; w <= 20; w++ {
		lines, err := Wrap(text, w)
		if err != nil {
			t.Fatalf("Wrap width %d: %v", w, err)
		}
		joined := strings.Join(strings.Fields(strings.Join(lines, " ")), " ")
		if joined != text {
			t.Fatalf("width %d lost tokens: %q", w, joined)
		}
	}
}

func TestWrapIdempotent(t *testing.T) {
	text := "one two three four five six seven eight nine ten"
	for _, w := range []int{1, 5, 9, 17, 80} {
		first, err := Wrap(text, w)
		if err != nil {
			t.Fatalf("Wrap: %v", err)
		}
		second, err := Wrap(strings.Join(first, " "), w)
		if err != nil {
			t.Fatalf("Wrap: %v", err)
		}
		if strings.Join(first, "\n") != strings.Join(second, "\n") {
			t.Fatalf("width %d not idempotent:\n first: %q\nsecond: %q", w, first, second)
		}
	}
}

func TestWrapInvalidWidth(t *testing.T) {
	for _, w := range []int{0, -1, -80} {
		if _, err := Wrap("text", w); !errors.Is(err, ErrInvalidWidth) {
			t.Fatalf("Wrap(_, %d) err = %v, want ErrInvalidWidth", w, err)
		}
	}
}

func TestWrapEmpty(t *testing.T) {
	lines, err := Wrap("   \t  ", 10)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("lines = %q, want none", lines)
	}
}
