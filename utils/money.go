package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Money amounts travel as decimal strings ("45.00") both over the wire
// and in the store. Arithmetic happens in integer cents so the .99 fee
// values never drift.

// ParseAmount converts a decimal string into cents. At most two
// fractional digits are accepted; negative amounts are rejected.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || dollars < 0 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	var centsPart int64
	if frac != "00" {
		centsPart, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || centsPart < 0 {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
	}
	return dollars*100 + centsPart, nil
}

// FormatAmount renders cents as a decimal string with two places
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
