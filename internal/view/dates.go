package view

import (
	"database/sql"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// layouts without a zone are read in the local time zone
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dateLayout,
}

// ParseDate normalizes the date shapes that reach the classifier. It accepts
// time.Time, *time.Time, sql.NullTime, string and nil. Zero values and strings
// that don't parse are reported as missing rather than as errors.
func ParseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return d, !d.IsZero()
	case *time.Time:
		if d == nil {
			return time.Time{}, false
		}
		return *d, !d.IsZero()
	case sql.NullTime:
		if !d.Valid {
			return time.Time{}, false
		}
		return d.Time, !d.Time.IsZero()
	case string:
		return parseDateString(d)
	default:
		return time.Time{}, false
	}
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsToday reports whether v falls on now's calendar day, in now's location.
func IsToday(v any, now time.Time) bool {
	d, ok := ParseDate(v)
	if !ok {
		return false
	}
	return sameDay(d.In(now.Location()), now)
}

// IsThisWeek reports whether v falls in now's week. Weeks start on Monday.
func IsThisWeek(v any, now time.Time) bool {
	d, ok := ParseDate(v)
	if !ok {
		return false
	}
	start := startOfWeek(now)
	end := start.AddDate(0, 0, 7)
	return !d.Before(start) && d.Before(end)
}

// IsWithinRange reports whether v lies between the start of start's day and
// the end of end's day, inclusive. Any missing argument yields false.
func IsWithinRange(v, start, end any) bool {
	d, ok := ParseDate(v)
	if !ok {
		return false
	}
	s, ok := ParseDate(start)
	if !ok {
		return false
	}
	e, ok := ParseDate(end)
	if !ok {
		return false
	}
	lo := startOfDay(s)
	hi := endOfDay(e)
	return !d.Before(lo) && !d.After(hi)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func startOfWeek(now time.Time) time.Time {
	offset := (int(now.Weekday()) + 6) % 7
	return startOfDay(now).AddDate(0, 0, -offset)
}
