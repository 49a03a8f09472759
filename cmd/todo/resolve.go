package main

import (
	"strings"

	"bada/internal/task"
)

// resolveTask finds the task whose id is ref or starts with ref, so the
// short ids printed by list can be typed back.
func resolveTask(tasks []task.Task, ref string) (task.Task, error) {
	var matches []task.Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if ref != "" && strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return task.Task{}, task.NotFoundError{ID: ref}
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, t := range matches {
			ids[i] = t.ID
		}
		return task.Task{}, AmbiguousIDError{Prefix: ref, Matches: ids}
	}
}

// resolveCategory accepts a category id, id prefix or name.
func resolveCategory(cats []task.Category, ref string) (task.Category, error) {
	var matches []task.Category
	for _, c := range cats {
		if c.ID == ref || strings.EqualFold(c.Name, ref) {
			return c, nil
		}
		if ref != "" && strings.HasPrefix(c.ID, ref) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return task.Category{}, task.CategoryNotFoundError{ID: ref}
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, c := range matches {
			ids[i] = c.ID
		}
		return task.Category{}, AmbiguousIDError{Prefix: ref, Matches: ids}
	}
}
