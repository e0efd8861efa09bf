package utils

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"25.00", 2500, true},
		{"49.99", 4999, true},
		{"89.99", 8999, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{"45", 4500, true},
		{"45.5", 4550, true},
		{".99", 99, true},
		{"", 0, false},
		{"12.345", 0, false},
		{"-5.00", 0, false},
		{"abc", 0, false},
	}
	for _, c := range cases {
		got, err := ParseAmount(c.in)
		if c.ok && (err != nil || got != c.cents) {
			t.Errorf("ParseAmount(%q) = %d, %v; want %d", c.in, got, err, c.cents)
		}
		if !c.ok && err == nil {
			t.Errorf("ParseAmount(%q) succeeded, want error", c.in)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		cents int64
		out   string
	}{
		{7500, "75.00"},
		{12499, "124.99"},
		{0, "0.00"},
		{5, "0.05"},
		{-150, "-1.50"},
	}
	for _, c := range cases {
		if got := FormatAmount(c.cents); got != c.out {
			t.Errorf("FormatAmount(%d) = %q; want %q", c.cents, got, c.out)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"75.00", "124.99", "0.00", "300.00"} {
		cents, err := ParseAmount(s)
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", s, err)
		}
		if got := FormatAmount(cents); got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
}
