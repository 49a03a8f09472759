package output

import (
	"time"

	"bada/internal/task"
	"bada/internal/view"
)

// Formatter renders derived views and messages for the CLI.
type Formatter interface {
	FormatView(v view.View, now time.Time) string
	FormatCategories(cats []task.Category) string
	FormatError(err error) string
	FormatMessage(msg string) string
}
