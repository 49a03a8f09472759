package view

import (
	"cmp"
	"slices"
	"strings"

	"bada/internal/task"
)

// Compare orders a before b under opt, returning -1, 0 or 1. Done and pinned
// flags never take part; see GroupForDisplay for that.
func Compare(a, b task.Task, opt SortOption) int {
	switch opt {
	case SortDateCreated:
		return a.Date.Compare(b.Date)
	case SortDueDate:
		return compareMissingLast(a.Deadline.Valid, b.Deadline.Valid, func() int {
			return a.Deadline.Time.Compare(b.Deadline.Time)
		})
	case SortAlphabetical:
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case SortCustom:
		return compareMissingLast(a.Position.Valid, b.Position.Valid, func() int {
			return cmp.Compare(a.Position.Int64, b.Position.Int64)
		})
	default:
		return 0
	}
}

func compareMissingLast(aOK, bOK bool, both func() int) int {
	switch {
	case aOK && bOK:
		return both()
	case aOK:
		return -1
	case bOK:
		return 1
	default:
		return 0
	}
}

// Sort orders tasks in place, stably, so equal tasks keep their input order.
func Sort(tasks []task.Task, opt SortOption) {
	slices.SortStableFunc(tasks, func(a, b task.Task) int {
		return Compare(a, b, opt)
	})
}

// GroupForDisplay returns a copy of an already sorted list with pinned tasks
// first and, when doneToBottom is set, completed tasks last. Relative order
// inside each group is kept.
func GroupForDisplay(tasks []task.Task, doneToBottom bool) []task.Task {
	out := slices.Clone(tasks)
	rank := func(t task.Task) int {
		r := 1
		if t.Pinned {
			r = 0
		}
		if doneToBottom && t.Done {
			r += 2
		}
		return r
	}
	slices.SortStableFunc(out, func(a, b task.Task) int {
		return cmp.Compare(rank(a), rank(b))
	})
	return out
}
