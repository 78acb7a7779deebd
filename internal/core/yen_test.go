package core

import (
	"math"
	"testing"
)

func TestParseYenInput(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1200", 1200, true},
		{"1,200", 1200, true},
		{"¥1200", 1200, true},
		{" ¥12,345 ", 12345, true},
		{"0", 0, false},
		{"-100", 0, false},
		{"+100", 0, false},
		{"12.50", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseYenInput(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Errorf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Errorf("%q expected error", tc.in)
		}
	}
}

func TestFormatYen(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "¥0"},
		{999, "¥999"},
		{1200, "¥1,200"},
		{200000, "¥200,000"},
		{1234567, "¥1,234,567"},
		{-4500, "-¥4,500"},
	}
	for _, tc := range cases {
		if got := FormatYen(Money{Yen: tc.in}); got != tc.want {
			t.Errorf("FormatYen(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClampPercent(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{50, 50},
		{0, 0},
		{100, 100},
		{-10, 0},
		{150, 100},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
	}
	for _, tc := range cases {
		if got := ClampPercent(tc.in); got != tc.want {
			t.Errorf("ClampPercent(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
