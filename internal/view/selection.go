package view

import (
	"errors"
	"slices"
)

var ErrNoActiveTask = errors.New("no task selected")

// Selection tracks the ephemeral per-task UI state: the active task used by
// single-task actions, the multi-selection, and expanded descriptions.
// The zero value is ready to use.
type Selection struct {
	active        string
	selected      []string
	expanded      []string
	menuOpen      bool
	confirmDelete bool
	moveMode      bool
}

func (s Selection) Active() string {
	return s.active
}

// SetActive makes id the target of single-task actions. "" clears it.
func (s *Selection) SetActive(id string) {
	if id != s.active {
		s.confirmDelete = false
	}
	s.active = id
}

// OpenMenu activates id and marks its context menu open.
func (s *Selection) OpenMenu(id string) {
	s.SetActive(id)
	s.menuOpen = id != ""
}

func (s *Selection) CloseMenu() {
	s.menuOpen = false
}

func (s Selection) MenuOpen() bool {
	return s.menuOpen
}

func (s *Selection) ToggleExpanded(id string) {
	s.expanded = toggle(s.expanded, id)
}

// ToggleMultiSelect flips id's membership in the multi-selection. Selecting
// dismisses an open context menu.
func (s *Selection) ToggleMultiSelect(id string) {
	s.menuOpen = false
	s.selected = toggle(s.selected, id)
}

func (s *Selection) ClearMultiSelect() {
	s.selected = nil
}

func (s Selection) IsExpanded(id string) bool {
	return slices.Contains(s.expanded, id)
}

func (s Selection) IsSelected(id string) bool {
	return slices.Contains(s.selected, id)
}

// Selected returns the multi-selected ids in insertion order.
func (s Selection) Selected() []string {
	return slices.Clone(s.selected)
}

// Expanded returns the expanded ids in insertion order.
func (s Selection) Expanded() []string {
	return slices.Clone(s.expanded)
}

// RequestDelete opens the delete confirmation for the active task.
func (s *Selection) RequestDelete() error {
	if s.active == "" {
		return ErrNoActiveTask
	}
	s.confirmDelete = true
	return nil
}

func (s *Selection) CancelDelete() {
	s.confirmDelete = false
}

func (s Selection) DeletePending() bool {
	return s.confirmDelete
}

func (s Selection) MoveMode() bool {
	return s.moveMode
}

func (s *Selection) SetMoveMode(on bool) {
	s.moveMode = on
}

// Prune forgets id everywhere. It must be called for every deleted task.
func (s *Selection) Prune(id string) {
	s.expanded = slices.DeleteFunc(s.expanded, func(v string) bool { return v == id })
	s.selected = slices.DeleteFunc(s.selected, func(v string) bool { return v == id })
	if s.active == id {
		s.active = ""
		s.menuOpen = false
		s.confirmDelete = false
	}
}

// Retain prunes every id for which exists returns false.
func (s *Selection) Retain(exists func(id string) bool) {
	for _, id := range slices.Concat(s.expanded, s.selected, []string{s.active}) {
		if id != "" && !exists(id) {
			s.Prune(id)
		}
	}
}

func toggle(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(slices.Clone(ids), i, i+1)
	}
	return append(slices.Clone(ids), id)
}
