package view

import (
	"bytes"
	"errors"
	"log"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bada/internal/task"
)

// fakeSource is an in-memory task store.
type fakeSource struct {
	tasks      []task.Task
	categories []task.Category
	deleteErr  error
	deleted    []string
	patches    []task.CategoryPatch
}

func (f *fakeSource) Snapshot() (task.Snapshot, error) {
	return task.Snapshot{
		Tasks:      slices.Clone(f.tasks),
		Categories: slices.Clone(f.categories),
	}, nil
}

func (f *fakeSource) ApplyCategoryPatch(p task.CategoryPatch) error {
	f.patches = append(f.patches, p)
	for i, c := range f.categories {
		f.categories[i] = c.Apply(p)
	}
	for i := range f.tasks {
		cats := slices.Clone(f.tasks[i].Categories)
		for j, c := range cats {
			cats[j] = c.Apply(p)
		}
		f.tasks[i].Categories = cats
	}
	return nil
}

func (f *fakeSource) DeleteTask(id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	i := slices.IndexFunc(f.tasks, func(t task.Task) bool { return t.ID == id })
	if i < 0 {
		return task.NotFoundError{ID: id}
	}
	f.tasks = slices.Delete(f.tasks, i, i+1)
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestController(t *testing.T, tasks ...task.Task) (*Controller, *fakeSource) {
	t.Helper()
	src := &fakeSource{tasks: tasks}
	c := NewController(src, task.DefaultPriorities(), WithClock(func() time.Time { return refNow }))
	require.NoError(t, c.Refresh())
	return c, src
}

func TestControllerViewUsesFilter(t *testing.T) {
	c, _ := newTestController(t, filterFixtures()...)

	assert.Len(t, c.View().Visible, 5)

	c.SetStatusFilter(StatusCompleted)
	assert.Equal(t, []string{"d", "b"}, c.View().IDs())

	c.SetSortOption(SortAlphabetical)
	assert.Equal(t, []string{"b", "d"}, c.View().IDs())

	c.SetSearch("NEXT")
	assert.Equal(t, []string{"d"}, c.View().IDs())
}

func TestControllerSetPriorityFilterTracksConfiguration(t *testing.T) {
	src := &fakeSource{}
	priorities := append(task.DefaultPriorities(), task.Priority{ID: "low", Label: "Low"})
	c := NewController(src, priorities)

	require.NoError(t, c.SetPriorityFilter("low"))
	assert.Equal(t, "low", c.Filter().PriorityFilter)

	err := c.SetPriorityFilter("urgent")
	var unknown UnknownPriorityError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, []string{"all", "critical", "high", "medium", "low"}, unknown.Valid)
	assert.Equal(t, "low", c.Filter().PriorityFilter, "rejected value leaves state alone")

	seen := []string{}
	for range 5 {
		seen = append(seen, c.CyclePriorityFilter())
	}
	assert.Equal(t, []string{"all", "critical", "high", "medium", "low"}, seen)
}

func TestControllerApplyCustomRange(t *testing.T) {
	c, _ := newTestController(t, filterFixtures()...)
	c.SetDateFilter(DateToday)

	err := c.ApplyCustomRange(DateRange{})
	assert.ErrorIs(t, err, ErrEmptyRange)
	assert.Equal(t, DateToday, c.Filter().DateFilter)

	err = c.ApplyCustomRange(DateRange{Start: deadline(day(2024, 3, 10)), End: deadline(day(2024, 3, 1))})
	assert.ErrorIs(t, err, ErrRangeOrder)
	assert.Equal(t, DateToday, c.Filter().DateFilter)
	assert.True(t, c.Filter().CustomRange.IsEmpty())

	r := DateRange{Start: deadline(day(2024, 4, 1)), End: deadline(day(2024, 4, 30))}
	require.NoError(t, c.ApplyCustomRange(r))
	assert.Equal(t, DateCustom, c.Filter().DateFilter)
	assert.Equal(t, r, c.Filter().CustomRange)
	assert.Equal(t, []string{"d"}, c.View().IDs())

	c.ResetFilters()
	assert.Equal(t, DateAll, c.Filter().DateFilter)
	assert.True(t, c.Filter().CustomRange.IsEmpty())
}

func TestControllerResetAllKeepsSort(t *testing.T) {
	c, _ := newTestController(t)
	c.SetSortOption(SortDueDate)
	c.SetSearch("x")
	c.SetStatusFilter(StatusPending)
	require.NoError(t, c.SetPriorityFilter("high"))

	c.ResetAll()

	want := DefaultFilterState()
	want.SortOption = SortDueDate
	assert.Equal(t, want, c.Filter())
}

func TestControllerCycles(t *testing.T) {
	c, _ := newTestController(t)

	assert.Equal(t, DateToday, c.CycleDateFilter())
	assert.Equal(t, DateThisWeek, c.CycleDateFilter())
	assert.Equal(t, DateAll, c.CycleDateFilter())

	assert.Equal(t, StatusPending, c.CycleStatusFilter())
	assert.Equal(t, StatusCompleted, c.CycleStatusFilter())
	assert.Equal(t, StatusAll, c.CycleStatusFilter())

	assert.Equal(t, SortDueDate, c.CycleSortOption())
	assert.Equal(t, SortAlphabetical, c.CycleSortOption())
	assert.Equal(t, SortCustom, c.CycleSortOption())
	assert.Equal(t, SortDateCreated, c.CycleSortOption())
}

func TestControllerRejectsUnknownIDs(t *testing.T) {
	c, _ := newTestController(t, task.Task{ID: "a"})

	var notFound task.NotFoundError
	assert.True(t, errors.As(c.SetActive("zzz"), &notFound))
	assert.True(t, errors.As(c.ToggleExpanded("zzz"), &notFound))
	assert.True(t, errors.As(c.ToggleMultiSelect("zzz"), &notFound))
	assert.NoError(t, c.SetActive(""))
	assert.NoError(t, c.SetActive("a"))
}

func TestControllerConfirmDeletePrunesSelection(t *testing.T) {
	c, src := newTestController(t, task.Task{ID: "a"}, task.Task{ID: "b"})
	require.NoError(t, c.ToggleExpanded("a"))
	require.NoError(t, c.ToggleMultiSelect("a"))
	require.NoError(t, c.ToggleMultiSelect("b"))
	require.NoError(t, c.SetActive("a"))

	_, err := c.ConfirmDelete()
	assert.ErrorIs(t, err, ErrNoActiveTask, "confirmation must be requested first")

	require.NoError(t, c.RequestDelete())
	id, err := c.ConfirmDelete()
	require.NoError(t, err)
	assert.Equal(t, "a", id)
	assert.Equal(t, []string{"a"}, src.deleted)

	sel := c.Selection()
	assert.Equal(t, "", sel.Active())
	assert.Empty(t, sel.Expanded())
	assert.Equal(t, []string{"b"}, sel.Selected())
	assert.Equal(t, []string{"b"}, c.View().IDs())
}

func TestControllerConfirmDeleteStoreError(t *testing.T) {
	var buf bytes.Buffer
	src := &fakeSource{tasks: []task.Task{{ID: "a"}}, deleteErr: errors.New("disk full")}
	c := NewController(src, nil, WithLogger(log.New(&buf, "", 0)))
	require.NoError(t, c.Refresh())
	require.NoError(t, c.SetActive("a"))
	require.NoError(t, c.RequestDelete())

	_, err := c.ConfirmDelete()
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, "a", c.Selection().Active(), "failed delete keeps the task active")
	assert.False(t, c.Selection().DeletePending())
	assert.Contains(t, buf.String(), "delete a failed: disk full")
}

func TestControllerDeleteSelected(t *testing.T) {
	c, src := newTestController(t, task.Task{ID: "a"}, task.Task{ID: "b"}, task.Task{ID: "c"})
	require.NoError(t, c.ToggleMultiSelect("c"))
	require.NoError(t, c.ToggleMultiSelect("a"))
	require.NoError(t, c.ToggleExpanded("a"))

	n, err := c.DeleteSelected()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"c", "a"}, src.deleted)
	assert.Empty(t, c.Selection().Selected())
	assert.Empty(t, c.Selection().Expanded())
	assert.Equal(t, []string{"b"}, c.View().IDs())
}

func TestControllerRefreshPrunesVanishedTasks(t *testing.T) {
	c, src := newTestController(t, task.Task{ID: "a"}, task.Task{ID: "b"})
	require.NoError(t, c.ToggleExpanded("b"))
	require.NoError(t, c.SetActive("b"))

	src.tasks = src.tasks[:1]
	require.NoError(t, c.Refresh())

	assert.Empty(t, c.Selection().Expanded())
	assert.Equal(t, "", c.Selection().Active())
}

func TestControllerUpdateCategoryPropagates(t *testing.T) {
	work := task.Category{ID: "c1", Name: "Work", Color: "#000"}
	home := task.Category{ID: "c2", Name: "Home", Color: "#fff"}
	c, src := newTestController(t,
		task.Task{ID: "a", Categories: []task.Category{work, home}},
		task.Task{ID: "b", Categories: []task.Category{home}},
	)
	src.categories = []task.Category{work, home}

	name := "Office"
	require.NoError(t, c.UpdateCategory(task.CategoryPatch{ID: "c1", Name: &name}))

	a, ok := c.Task("a")
	require.True(t, ok)
	assert.Equal(t, "Office", a.Categories[0].Name)
	assert.Equal(t, "#000", a.Categories[0].Color)
	assert.Equal(t, home, a.Categories[1])
	b, _ := c.Task("b")
	assert.Equal(t, []task.Category{home}, b.Categories)
	assert.Equal(t, "Office", c.Snapshot().Categories[0].Name)
}

func TestControllerMenuAndMoveMode(t *testing.T) {
	c, _ := newTestController(t, task.Task{ID: "a"}, task.Task{ID: "b"})

	require.NoError(t, c.OpenMenu("a"))
	sel := c.Selection()
	assert.True(t, sel.MenuOpen())
	assert.Equal(t, "a", sel.Active())

	require.NoError(t, c.ToggleMultiSelect("b"))
	sel = c.Selection()
	assert.False(t, sel.MenuOpen())

	c.SetMoveMode(true)
	sel = c.Selection()
	assert.True(t, sel.MoveMode())
}
