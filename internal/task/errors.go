package task

import "fmt"

// EmptyNameError indicates a task was submitted without a name.
type EmptyNameError struct{}

func (e EmptyNameError) Error() string {
	return "task name is required"
}

// NameTooLongError indicates the task name exceeds the configured limit.
type NameTooLongError struct {
	Max int
	Got int
}

func (e NameTooLongError) Error() string {
	return fmt.Sprintf("name should be less than or equal to %d characters (got %d)", e.Max, e.Got)
}

// DescriptionTooLongError indicates the description exceeds the configured limit.
type DescriptionTooLongError struct {
	Max int
	Got int
}

func (e DescriptionTooLongError) Error() string {
	return fmt.Sprintf("description should be less than or equal to %d characters (got %d)", e.Max, e.Got)
}

// NotFoundError indicates the id doesn't match any task.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// CategoryNotFoundError indicates the id doesn't match any category.
type CategoryNotFoundError struct {
	ID string
}

func (e CategoryNotFoundError) Error() string {
	return fmt.Sprintf("category not found: %s", e.ID)
}
