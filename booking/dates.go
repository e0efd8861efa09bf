package booking

import "time"

const dateLayout = "2006-01-02"

// parseDate accepts only plain YYYY-MM-DD calendar dates
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// daysInclusive counts calendar days with both endpoints included, so a
// one-day rental has start == end and counts as 1
func daysInclusive(start, end time.Time) int64 {
	return int64(end.Sub(start).Hours()/24) + 1
}

// Overlaps reports whether two inclusive date ranges share at least one
// calendar day: s1 <= e2 AND s2 <= e1. A booking ending on day X conflicts
// with one starting on day X; there is no same-day turnover.
// YYYY-MM-DD strings order correctly under plain string comparison.
func Overlaps(start1, end1, start2, end2 string) bool {
	return start1 <= end2 && start2 <= end1
}
