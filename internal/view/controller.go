package view

import (
	"fmt"
	"io"
	"log"
	"slices"
	"strings"
	"time"

	"bada/internal/task"
)

// Source is the task store as seen by a view session.
type Source interface {
	Snapshot() (task.Snapshot, error)
	ApplyCategoryPatch(patch task.CategoryPatch) error
	DeleteTask(id string) error
}

// UnknownPriorityError indicates a priority filter value that isn't configured.
type UnknownPriorityError struct {
	ID    string
	Valid []string
}

func (e UnknownPriorityError) Error() string {
	return fmt.Sprintf("unknown priority: %s (valid: %s)", e.ID, strings.Join(e.Valid, ", "))
}

// Controller owns one view session: the latest store snapshot, the filter
// controls and the selection. All state changes go through its methods.
type Controller struct {
	src        Source
	priorities []task.Priority
	now        func() time.Time
	logger     *log.Logger

	snapshot  task.Snapshot
	filter    FilterState
	selection Selection
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithFilter seeds the initial filter controls.
func WithFilter(f FilterState) Option {
	return func(c *Controller) { c.filter = f }
}

func NewController(src Source, priorities []task.Priority, opts ...Option) *Controller {
	c := &Controller{
		src:        src,
		priorities: slices.Clone(priorities),
		now:        time.Now,
		logger:     log.New(io.Discard, "", 0),
		filter:     DefaultFilterState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh reloads the snapshot and drops selection ids that no longer exist.
func (c *Controller) Refresh() error {
	snap, err := c.src.Snapshot()
	if err != nil {
		c.logger.Printf("snapshot failed: %v", err)
		return err
	}
	c.snapshot = snap
	c.selection.Retain(snap.Contains)
	return nil
}

func (c *Controller) View() View {
	return Derive(c.snapshot.Tasks, c.filter, c.now())
}

func (c *Controller) Snapshot() task.Snapshot {
	return c.snapshot
}

func (c *Controller) Filter() FilterState {
	return c.filter
}

func (c *Controller) Selection() Selection {
	s := c.selection
	s.selected = s.Selected()
	s.expanded = s.Expanded()
	return s
}

func (c *Controller) Priorities() []task.Priority {
	return slices.Clone(c.priorities)
}

// Task returns the task with id from the current snapshot.
func (c *Controller) Task(id string) (task.Task, bool) {
	for _, t := range c.snapshot.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

func (c *Controller) SetDateFilter(d DateFilter) {
	c.filter.DateFilter = d
}

func (c *Controller) SetStatusFilter(s StatusFilter) {
	c.filter.StatusFilter = s
}

// SetPriorityFilter accepts PriorityAll or the id of a configured priority.
func (c *Controller) SetPriorityFilter(id string) error {
	if id != PriorityAll {
		if _, ok := task.FindPriority(c.priorities, id); !ok {
			return UnknownPriorityError{ID: id, Valid: c.priorityFilterValues()}
		}
	}
	c.filter.PriorityFilter = id
	return nil
}

func (c *Controller) SetSearch(q string) {
	c.filter.Search = q
}

func (c *Controller) SetSortOption(o SortOption) {
	c.filter.SortOption = o
}

// ApplyCustomRange validates r and, when it is acceptable, switches the date
// filter to custom with r in one step. On error nothing changes.
func (c *Controller) ApplyCustomRange(r DateRange) error {
	if err := ValidateRange(r); err != nil {
		return err
	}
	c.filter.CustomRange = r
	c.filter.DateFilter = DateCustom
	return nil
}

// ResetFilters clears the date window.
func (c *Controller) ResetFilters() {
	c.filter.DateFilter = DateAll
	c.filter.CustomRange = DateRange{}
}

// ResetAll restores every filter control to its default, keeping the sort.
func (c *Controller) ResetAll() {
	sortOption := c.filter.SortOption
	c.filter = DefaultFilterState()
	c.filter.SortOption = sortOption
}

// CycleDateFilter steps through all, today and this week. A custom window
// is only entered through ApplyCustomRange.
func (c *Controller) CycleDateFilter() DateFilter {
	c.filter.DateFilter = next(dateFilters, c.filter.DateFilter)
	return c.filter.DateFilter
}

func (c *Controller) CycleStatusFilter() StatusFilter {
	c.filter.StatusFilter = next(statusFilters, c.filter.StatusFilter)
	return c.filter.StatusFilter
}

// CyclePriorityFilter steps through "all" and then every configured priority.
func (c *Controller) CyclePriorityFilter() string {
	c.filter.PriorityFilter = next(c.priorityFilterValues(), c.filter.PriorityFilter)
	return c.filter.PriorityFilter
}

func (c *Controller) CycleSortOption() SortOption {
	c.filter.SortOption = next(sortOptions, c.filter.SortOption)
	return c.filter.SortOption
}

func (c *Controller) priorityFilterValues() []string {
	values := []string{PriorityAll}
	for _, p := range c.priorities {
		values = append(values, p.ID)
	}
	return values
}

func (c *Controller) ToggleExpanded(id string) error {
	if !c.snapshot.Contains(id) {
		return task.NotFoundError{ID: id}
	}
	c.selection.ToggleExpanded(id)
	return nil
}

func (c *Controller) ToggleMultiSelect(id string) error {
	if !c.snapshot.Contains(id) {
		return task.NotFoundError{ID: id}
	}
	c.selection.ToggleMultiSelect(id)
	return nil
}

func (c *Controller) ClearMultiSelect() {
	c.selection.ClearMultiSelect()
}

// SetActive sets the task single-task actions apply to. "" clears it.
func (c *Controller) SetActive(id string) error {
	if id != "" && !c.snapshot.Contains(id) {
		return task.NotFoundError{ID: id}
	}
	c.selection.SetActive(id)
	return nil
}

func (c *Controller) OpenMenu(id string) error {
	if err := c.SetActive(id); err != nil {
		return err
	}
	c.selection.OpenMenu(id)
	return nil
}

func (c *Controller) CloseMenu() {
	c.selection.CloseMenu()
}

func (c *Controller) SetMoveMode(on bool) {
	c.selection.SetMoveMode(on)
}

func (c *Controller) RequestDelete() error {
	return c.selection.RequestDelete()
}

func (c *Controller) CancelDelete() {
	c.selection.CancelDelete()
}

// ConfirmDelete deletes the active task through the store and prunes it from
// the selection.
func (c *Controller) ConfirmDelete() (string, error) {
	id := c.selection.Active()
	if id == "" || !c.selection.DeletePending() {
		return "", ErrNoActiveTask
	}
	if err := c.src.DeleteTask(id); err != nil {
		c.selection.CancelDelete()
		c.logger.Printf("delete %s failed: %v", id, err)
		return id, err
	}
	c.TaskRemoved(id)
	return id, c.Refresh()
}

// DeleteSelected deletes every multi-selected task. It stops at the first
// store error and reports how many were deleted before it.
func (c *Controller) DeleteSelected() (int, error) {
	deleted := 0
	for _, id := range c.selection.Selected() {
		if err := c.src.DeleteTask(id); err != nil {
			c.logger.Printf("delete %s failed: %v", id, err)
			_ = c.Refresh()
			return deleted, err
		}
		c.TaskRemoved(id)
		deleted++
	}
	return deleted, c.Refresh()
}

// TaskRemoved must be called whenever the store drops a task.
func (c *Controller) TaskRemoved(id string) {
	c.selection.Prune(id)
	c.logger.Printf("task %s removed", id)
}

// UpdateCategory has the store rewrite the category and every task copy of
// it, then reloads.
func (c *Controller) UpdateCategory(patch task.CategoryPatch) error {
	if err := c.src.ApplyCategoryPatch(patch); err != nil {
		c.logger.Printf("category patch %s failed: %v", patch.ID, err)
		return err
	}
	return c.Refresh()
}

func next[T comparable](values []T, cur T) T {
	i := slices.Index(values, cur)
	return values[(i+1)%len(values)]
}
