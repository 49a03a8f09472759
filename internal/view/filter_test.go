package view

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bada/internal/task"
)

var (
	prioCritical = &task.Priority{ID: "critical", Label: "Critical"}
	prioHigh     = &task.Priority{ID: "high", Label: "High"}
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.Local)
}

func deadline(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

func filterFixtures() []task.Task {
	return []task.Task{
		{ID: "a", Name: "today pending high", Date: day(2024, 3, 1), Deadline: deadline(refNow), Priority: prioHigh},
		{ID: "b", Name: "created today done", Date: refNow, Done: true},
		{ID: "c", Name: "this week critical", Date: day(2024, 3, 11), Priority: prioCritical},
		{ID: "d", Name: "next month done high", Date: day(2024, 3, 1), Deadline: deadline(day(2024, 4, 20)), Done: true, Priority: prioHigh},
		{ID: "e", Name: "old", Date: day(2023, 12, 31)},
	}
}

func matchingIDs(tasks []task.Task, f FilterState) []string {
	var ids []string
	for _, tk := range tasks {
		if MatchesFilters(tk, f, refNow) {
			ids = append(ids, tk.ID)
		}
	}
	return ids
}

func TestMatchesFiltersDimensions(t *testing.T) {
	tasks := filterFixtures()

	tests := []struct {
		name   string
		mutate func(*FilterState)
		want   []string
	}{
		{"defaults match all", func(*FilterState) {}, []string{"a", "b", "c", "d", "e"}},
		{"today uses deadline before date", func(f *FilterState) { f.DateFilter = DateToday }, []string{"a", "b"}},
		{"this week", func(f *FilterState) { f.DateFilter = DateThisWeek }, []string{"a", "b", "c"}},
		{"pending", func(f *FilterState) { f.StatusFilter = StatusPending }, []string{"a", "c", "e"}},
		{"completed", func(f *FilterState) { f.StatusFilter = StatusCompleted }, []string{"b", "d"}},
		{"priority high", func(f *FilterState) { f.PriorityFilter = "high" }, []string{"a", "d"}},
		{"priority without tasks", func(f *FilterState) { f.PriorityFilter = "medium" }, nil},
		{"custom range", func(f *FilterState) {
			f.DateFilter = DateCustom
			f.CustomRange = DateRange{Start: deadline(day(2024, 4, 1)), End: deadline(day(2024, 4, 30))}
		}, []string{"d"}},
		{"combined", func(f *FilterState) {
			f.DateFilter = DateThisWeek
			f.StatusFilter = StatusPending
			f.PriorityFilter = "critical"
		}, []string{"c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DefaultFilterState()
			tt.mutate(&f)
			assert.Equal(t, tt.want, matchingIDs(tasks, f))
		})
	}
}

func TestMatchesFiltersIsConjunctionOfDimensions(t *testing.T) {
	dates := []DateFilter{DateAll, DateToday, DateThisWeek}
	statuses := []StatusFilter{StatusAll, StatusPending, StatusCompleted}
	priorities := []string{PriorityAll, "high", "critical", "medium"}

	for _, tk := range filterFixtures() {
		for _, d := range dates {
			for _, s := range statuses {
				for _, p := range priorities {
					f := FilterState{DateFilter: d, StatusFilter: s, PriorityFilter: p}
					want := matchesDate(tk, f, refNow) && matchesStatus(tk, s) && matchesPriority(tk, p)
					assert.Equal(t, want, MatchesFilters(tk, f, refNow), "task %s %+v", tk.ID, f)

					if MatchesFilters(tk, f, refNow) {
						// relaxing any dimension to "all" never drops a match
						relaxed := f
						relaxed.DateFilter = DateAll
						assert.True(t, MatchesFilters(tk, relaxed, refNow))
						relaxed = f
						relaxed.StatusFilter = StatusAll
						assert.True(t, MatchesFilters(tk, relaxed, refNow))
						relaxed = f
						relaxed.PriorityFilter = PriorityAll
						assert.True(t, MatchesFilters(tk, relaxed, refNow))
					}
				}
			}
		}
	}
}

func TestNoPriorityNeverMatchesSpecificPriority(t *testing.T) {
	tk := task.Task{ID: "x", Date: refNow}
	assert.False(t, matchesPriority(tk, "high"))
	assert.True(t, matchesPriority(tk, PriorityAll))
}

func TestBadDateDoesNotMatchDateWindows(t *testing.T) {
	tk := task.Task{ID: "x"}
	assert.False(t, MatchesFilters(tk, FilterState{DateFilter: DateToday}, refNow))
	assert.False(t, MatchesFilters(tk, FilterState{DateFilter: DateThisWeek}, refNow))
	assert.True(t, MatchesFilters(tk, DefaultFilterState(), refNow))
}

func TestParseFilterValues(t *testing.T) {
	s, ok := ParseStatusFilter("pending")
	assert.True(t, ok)
	assert.Equal(t, StatusPending, s)
	_, ok = ParseStatusFilter("open")
	assert.False(t, ok)

	d, ok := ParseDateFilter("thisWeek")
	assert.True(t, ok)
	assert.Equal(t, DateThisWeek, d)

	o, ok := ParseSortOption("dueDate")
	assert.True(t, ok)
	assert.Equal(t, SortDueDate, o)
	_, ok = ParseSortOption("priority")
	assert.False(t, ok)
}
