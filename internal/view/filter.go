package view

import (
	"database/sql"
	"time"

	"bada/internal/task"
)

type DateFilter string

const (
	DateAll      DateFilter = "all"
	DateToday    DateFilter = "today"
	DateThisWeek DateFilter = "thisWeek"
	DateCustom   DateFilter = "custom"
)

type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// PriorityAll disables the priority dimension. Any other value is the id of
// a configured priority.
const PriorityAll = "all"

type SortOption string

const (
	SortDateCreated  SortOption = "dateCreated"
	SortDueDate      SortOption = "dueDate"
	SortAlphabetical SortOption = "alphabetical"
	SortCustom       SortOption = "custom"
)

var (
	dateFilters   = []DateFilter{DateAll, DateToday, DateThisWeek}
	statusFilters = []StatusFilter{StatusAll, StatusPending, StatusCompleted}
	sortOptions   = []SortOption{SortDateCreated, SortDueDate, SortAlphabetical, SortCustom}
)

// DateRange is a custom date window. Either bound may be unset.
type DateRange struct {
	Start sql.NullTime
	End   sql.NullTime
}

func (r DateRange) IsEmpty() bool {
	return !r.Start.Valid && !r.End.Valid
}

// FilterState holds the view controls. It is never persisted.
type FilterState struct {
	DateFilter     DateFilter
	CustomRange    DateRange
	StatusFilter   StatusFilter
	PriorityFilter string
	Search         string
	SortOption     SortOption
}

// DefaultFilterState returns the controls a freshly mounted view starts with.
func DefaultFilterState() FilterState {
	return FilterState{
		DateFilter:     DateAll,
		StatusFilter:   StatusAll,
		PriorityFilter: PriorityAll,
		SortOption:     SortDateCreated,
	}
}

func ParseStatusFilter(v string) (StatusFilter, bool) {
	for _, s := range statusFilters {
		if string(s) == v {
			return s, true
		}
	}
	return "", false
}

func ParseDateFilter(v string) (DateFilter, bool) {
	for _, d := range []DateFilter{DateAll, DateToday, DateThisWeek, DateCustom} {
		if string(d) == v {
			return d, true
		}
	}
	return "", false
}

func ParseSortOption(v string) (SortOption, bool) {
	for _, s := range sortOptions {
		if string(s) == v {
			return s, true
		}
	}
	return "", false
}

// MatchesFilters reports whether t passes the date, status and priority
// dimensions of f. Search is applied separately by Derive.
func MatchesFilters(t task.Task, f FilterState, now time.Time) bool {
	date := matchesDate(t, f, now)
	status := matchesStatus(t, f.StatusFilter)
	priority := matchesPriority(t, f.PriorityFilter)
	return date && status && priority
}

// Predicate binds f and now into a reusable task predicate.
func Predicate(f FilterState, now time.Time) func(task.Task) bool {
	return func(t task.Task) bool {
		return MatchesFilters(t, f, now)
	}
}

// referenceDate is the date the date dimension looks at: the deadline when
// the task has one, otherwise its creation date.
func referenceDate(t task.Task) any {
	if t.Deadline.Valid {
		return t.Deadline
	}
	return t.Date
}

func matchesDate(t task.Task, f FilterState, now time.Time) bool {
	switch f.DateFilter {
	case DateToday:
		return IsToday(referenceDate(t), now)
	case DateThisWeek:
		return IsThisWeek(referenceDate(t), now)
	case DateCustom:
		return IsWithinRange(referenceDate(t), f.CustomRange.Start, f.CustomRange.End)
	default:
		return true
	}
}

func matchesStatus(t task.Task, s StatusFilter) bool {
	switch s {
	case StatusPending:
		return !t.Done
	case StatusCompleted:
		return t.Done
	default:
		return true
	}
}

func matchesPriority(t task.Task, id string) bool {
	if id == "" || id == PriorityAll {
		return true
	}
	return t.Priority != nil && t.Priority.ID == id
}
