package core

import (
	"strconv"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
	}{
		{"1.000.000", 1000000},
		{"$ 1.234.567", 1234567},
		{"2.500", 2500},
		{"500", 500},
		{"-500", -500},
		{"0", 0},
		{"", 0},
		{"   ", 0},
		{"n/a", 0},
		{"-", 0},
		{"12,5", 13}, // decimal comma rounds half away
		{"$", 0},
	}
	for _, tc := range cases {
		if got := ParseAmount(tc.in); got != tc.out {
			t.Fatalf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.out)
		}
	}
}

// Formatting an amount the way the sheet does and parsing it back must
// round-trip, and parsing its own output must be a fixed point.
func TestParseAmountRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, 999, 1000, 12345, 1000000, 987654321} {
		formatted := "$" + thousands(n)
		got := ParseAmount(formatted)
		if got != n {
			t.Fatalf("ParseAmount(%q) = %d, want %d", formatted, got, n)
		}
		again := ParseAmount(strconv.FormatInt(got, 10))
		if again != got {
			t.Fatalf("ParseAmount not idempotent: %d -> %d", got, again)
		}
	}
}

func TestParseAmountAny(t *testing.T) {
	cases := []struct {
		in  any
		out int64
	}{
		{nil, 0},
		{"1.000", 1000},
		{float64(1500.4), 1500},
		{int(7), 7},
		{int64(9), 9},
		{struct{}{}, 0},
	}
	for _, tc := range cases {
		if got := ParseAmountAny(tc.in); got != tc.out {
			t.Fatalf("ParseAmountAny(%v) = %d, want %d", tc.in, got, tc.out)
		}
	}
}

// thousands renders n with dot separators, the way the source sheet
// formats pesos.
func thousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var out string
	for len(s) > 3 {
		out = "." + s[len(s)-3:] + out
		s = s[:len(s)-3]
	}
	return s + out
}
