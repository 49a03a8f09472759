package view

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bada/internal/task"
)

var (
	ErrEmptyRange = errors.New("choose at least one date for the custom range")
	ErrRangeOrder = errors.New("start cannot be after end")
)

// InvalidDateError indicates a range bound the user typed doesn't parse.
type InvalidDateError struct {
	Field string
	Value string
}

func (e InvalidDateError) Error() string {
	return fmt.Sprintf("invalid %s date %q (want YYYY-MM-DD)", e.Field, e.Value)
}

// TaskHighlight carries the search annotations of one visible task.
type TaskHighlight struct {
	Name        []Segment
	Description []Segment
}

// View is the derived, ordered list the user sees. Callers treat both fields
// as read-only.
type View struct {
	Visible    []task.Task
	Highlights map[string]TaskHighlight
}

// Derive filters, searches and sorts tasks according to f. It does not modify
// tasks and returns the same result for the same inputs.
func Derive(tasks []task.Task, f FilterState, now time.Time) View {
	keep := Predicate(f, now)
	query := f.Search

	visible := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if !keep(t) {
			continue
		}
		if query != "" && !Matches(t.Name, query) && !Matches(t.Description, query) {
			continue
		}
		visible = append(visible, t)
	}

	highlights := make(map[string]TaskHighlight, len(visible))
	for _, t := range visible {
		highlights[t.ID] = TaskHighlight{
			Name:        Highlight(t.Name, query),
			Description: Highlight(t.Description, query),
		}
	}

	Sort(visible, f.SortOption)
	return View{Visible: visible, Highlights: highlights}
}

// IDs returns the ids of the visible tasks in order.
func (v View) IDs() []string {
	ids := make([]string, len(v.Visible))
	for i, t := range v.Visible {
		ids[i] = t.ID
	}
	return ids
}

// ValidateRange checks a custom range before it is applied.
func ValidateRange(r DateRange) error {
	if r.IsEmpty() {
		return ErrEmptyRange
	}
	if r.Start.Valid && r.End.Valid && startOfDay(r.Start.Time).After(startOfDay(r.End.Time)) {
		return ErrRangeOrder
	}
	return nil
}

// ParseRange reads the two range inputs (YYYY-MM-DD, blank for unset) and
// validates the result.
func ParseRange(start, end string) (DateRange, error) {
	var r DateRange
	var err error
	if r.Start, err = parseBound("start", start); err != nil {
		return DateRange{}, err
	}
	if r.End, err = parseBound("end", end); err != nil {
		return DateRange{}, err
	}
	if err := ValidateRange(r); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// ParseDay reads a YYYY-MM-DD local date. Blank input is unset.
func ParseDay(v string) (sql.NullTime, error) {
	return parseBound("date", v)
}

func parseBound(field, v string) (sql.NullTime, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return sql.NullTime{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, v, time.Local)
	if err != nil {
		return sql.NullTime{}, InvalidDateError{Field: field, Value: v}
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}
