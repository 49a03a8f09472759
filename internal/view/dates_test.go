package view

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Wednesday.
var refNow = time.Date(2024, time.March, 13, 15, 30, 0, 0, time.Local)

func TestParseDate(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		ok   bool
	}{
		{"nil", nil, false},
		{"time", ts, true},
		{"zero time", time.Time{}, false},
		{"pointer", &ts, true},
		{"nil pointer", (*time.Time)(nil), false},
		{"valid null time", sql.NullTime{Time: ts, Valid: true}, true},
		{"invalid null time", sql.NullTime{Time: ts}, false},
		{"rfc3339", "2024-01-02T03:04:05Z", true},
		{"date only", "2024-01-02", true},
		{"datetime no zone", "2024-01-02 03:04:05", true},
		{"empty", "", false},
		{"garbage", "not a date", false},
		{"unsupported type", 42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestParseDateOnlyIsLocalDay(t *testing.T) {
	d, ok := ParseDate("2024-03-13")
	assert.True(t, ok)
	assert.Equal(t, time.Local, d.Location())
	assert.True(t, IsToday(d, refNow))
}

func TestIsToday(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"start of day", time.Date(2024, 3, 13, 0, 0, 0, 0, time.Local), true},
		{"end of day", time.Date(2024, 3, 13, 23, 59, 59, 0, time.Local), true},
		{"yesterday", time.Date(2024, 3, 12, 23, 59, 59, 0, time.Local), false},
		{"tomorrow", time.Date(2024, 3, 14, 0, 0, 0, 0, time.Local), false},
		{"string", "2024-03-13", true},
		{"nil", nil, false},
		{"unparseable", "13/03/2024", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsToday(tt.in, refNow))
		})
	}
}

func TestIsThisWeekStartsMonday(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want bool
	}{
		{"monday midnight", time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local), true},
		{"sunday before", time.Date(2024, 3, 10, 23, 59, 59, 0, time.Local), false},
		{"sunday end of week", time.Date(2024, 3, 17, 23, 59, 59, 0, time.Local), true},
		{"next monday", time.Date(2024, 3, 18, 0, 0, 0, 0, time.Local), false},
		{"today", refNow, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsThisWeek(tt.in, refNow))
		})
	}
}

func TestIsThisWeekOnSunday(t *testing.T) {
	sunday := time.Date(2024, 3, 17, 10, 0, 0, 0, time.Local)
	assert.True(t, IsThisWeek(time.Date(2024, 3, 11, 9, 0, 0, 0, time.Local), sunday))
	assert.False(t, IsThisWeek(time.Date(2024, 3, 18, 9, 0, 0, 0, time.Local), sunday))
	assert.False(t, IsThisWeek(nil, sunday))
}

func TestIsWithinRangeInclusiveAtDayGranularity(t *testing.T) {
	start := time.Date(2024, 3, 1, 18, 0, 0, 0, time.Local)
	end := time.Date(2024, 3, 10, 6, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"start day early", time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), true},
		{"end day late", time.Date(2024, 3, 10, 23, 59, 59, 999_000_000, time.Local), true},
		{"middle", "2024-03-05", true},
		{"day before", time.Date(2024, 2, 29, 23, 59, 59, 0, time.Local), false},
		{"day after", time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local), false},
		{"missing date", nil, false},
		{"bad date", "soon", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWithinRange(tt.in, start, end))
		})
	}
}

func TestIsWithinRangeFailsClosed(t *testing.T) {
	d := time.Date(2024, 3, 5, 12, 0, 0, 0, time.Local)
	assert.False(t, IsWithinRange(d, nil, "2024-03-10"))
	assert.False(t, IsWithinRange(d, "2024-03-01", nil))
	assert.False(t, IsWithinRange(d, "2024-03-01", "garbage"))
	assert.False(t, IsWithinRange(d, sql.NullTime{}, sql.NullTime{}))
}
