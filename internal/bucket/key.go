package bucket

import (
	"fmt"
	"time"
)

// KeyForMonth returns the YYYY-MM bucket key for t. The key is taken from
// t's own calendar date with no timezone conversion: bucketing is a storage
// partition, not a timezone operation.
func KeyForMonth(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// KeysForRange returns every month key from start's month through end's
// month inclusive. An inverted range yields no keys.
func KeysForRange(start, end time.Time) []string {
	keys := []string{}
	if end.Before(start) {
		return keys
	}

	y, m := start.Year(), int(start.Month())
	endY, endM := end.Year(), int(end.Month())

	for y < endY || (y == endY && m <= endM) {
		keys = append(keys, fmt.Sprintf("%04d-%02d", y, m))
		m++
		if m > 12 {
			m = 1
			y++
		}
	}
	return keys
}

// KeysForEvent returns the month keys the half-open interval [start, end)
// actually reaches. Unlike KeysForRange, an interval ending exactly at a
// month's first midnight does not touch that month.
func KeysForEvent(start, end time.Time) []string {
	keys := KeysForRange(start, end)
	if len(keys) > 1 && end.Equal(monthStart(end)) {
		keys = keys[:len(keys)-1]
	}
	return keys
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
