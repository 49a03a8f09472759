package task

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMaxNameLength        = 40
	DefaultMaxDescriptionLength = 350
)

// Task is a single to-do item. Categories hold copies of the category
// records they were assigned from; see Category.Apply.
type Task struct {
	ID          string
	Name        string
	Description string
	Done        bool
	Pinned      bool
	Color       string
	Emoji       string
	Date        time.Time
	Deadline    sql.NullTime
	Priority    *Priority
	Categories  []Category
	Position    sql.NullInt64
}

// Category groups tasks. Tasks embed a snapshot of it.
type Category struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
	Emoji string `yaml:"emoji,omitempty"`
}

// CategoryPatch is a partial category edit. Nil fields are left untouched.
type CategoryPatch struct {
	ID    string
	Name  *string
	Color *string
	Emoji *string
}

// Apply merges p into c when the ids match and returns the result.
func (c Category) Apply(p CategoryPatch) Category {
	if c.ID != p.ID {
		return c
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Emoji != nil {
		c.Emoji = *p.Emoji
	}
	return c
}

// Priority is one entry of the user-configurable priority set.
type Priority struct {
	ID    string `yaml:"id" toml:"id"`
	Label string `yaml:"label" toml:"label"`
	Color string `yaml:"color" toml:"color"`
}

// DefaultPriorities returns the built-in priority set, most urgent first.
func DefaultPriorities() []Priority {
	return []Priority{
		{ID: "critical", Label: "Critical", Color: "#E53935"},
		{ID: "high", Label: "High", Color: "#FB8C00"},
		{ID: "medium", Label: "Medium", Color: "#1E88E5"},
	}
}

// FindPriority looks up id in priorities.
func FindPriority(priorities []Priority, id string) (Priority, bool) {
	for _, p := range priorities {
		if p.ID == id {
			return p, true
		}
	}
	return Priority{}, false
}

// NewID returns a fresh random task or category identifier.
func NewID() string {
	return uuid.New().String()
}

// PriorityID returns the id of the task's priority, or "" when it has none.
func (t Task) PriorityID() string {
	if t.Priority == nil {
		return ""
	}
	return t.Priority.ID
}

// HasCategory reports whether the task carries a copy of category id.
func (t Task) HasCategory(id string) bool {
	for _, c := range t.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Limits bounds user-entered text.
type Limits struct {
	MaxNameLength        int
	MaxDescriptionLength int
}

func DefaultLimits() Limits {
	return Limits{
		MaxNameLength:        DefaultMaxNameLength,
		MaxDescriptionLength: DefaultMaxDescriptionLength,
	}
}

// Validate checks a task name and description against limits.
// Lengths are counted in runes.
func Validate(name, description string, limits Limits) error {
	if name == "" {
		return EmptyNameError{}
	}
	if n := len([]rune(name)); limits.MaxNameLength > 0 && n > limits.MaxNameLength {
		return NameTooLongError{Max: limits.MaxNameLength, Got: n}
	}
	if n := len([]rune(description)); limits.MaxDescriptionLength > 0 && n > limits.MaxDescriptionLength {
		return DescriptionTooLongError{Max: limits.MaxDescriptionLength, Got: n}
	}
	return nil
}

// Snapshot is a read-only copy of the task store's collections.
type Snapshot struct {
	Tasks      []Task
	Categories []Category
	Priorities []Priority
}

// Contains reports whether a task with id is in the snapshot.
func (s Snapshot) Contains(id string) bool {
	for _, t := range s.Tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}
