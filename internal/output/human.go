package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"bada/internal/task"
	"bada/internal/view"
)

// HumanFormatter formats output for terminal display. Search matches are
// wrapped in Mark on both sides.
type HumanFormatter struct {
	Mark string
}

func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{Mark: "*"}
}

func (f *HumanFormatter) FormatView(v view.View, now time.Time) string {
	if len(v.Visible) == 0 {
		return "No tasks found.\n"
	}
	var sb strings.Builder
	for _, t := range v.Visible {
		sb.WriteString(f.formatTaskLine(t, v.Highlights[t.ID], now))
	}
	return sb.String()
}

func (f *HumanFormatter) formatTaskLine(t task.Task, hl view.TaskHighlight, now time.Time) string {
	checkbox := "[ ]"
	if t.Done {
		checkbox = "[x]"
	}
	name := t.Name
	if hl.Name != nil {
		name = f.mark(hl.Name)
	}

	line := fmt.Sprintf("%s %s %s", checkbox, shortID(t.ID), name)
	if t.Pinned {
		line += " (pinned)"
	}

	extras := make([]string, 0, 3)
	if t.Priority != nil {
		extras = append(extras, "prio:"+t.Priority.Label)
	}
	if t.Deadline.Valid {
		extras = append(extras, "due:"+FormatDeadline(t.Deadline.Time, now))
	}
	if len(t.Categories) > 0 {
		names := make([]string, len(t.Categories))
		for i, c := range t.Categories {
			names[i] = strings.TrimSpace(c.Emoji + " " + c.Name)
		}
		extras = append(extras, "cat:"+strings.Join(names, ","))
	}
	if len(extras) > 0 {
		line += " [" + strings.Join(extras, " | ") + "]"
	}
	line += "\n"

	if t.Description != "" && hl.Description != nil && hasMatch(hl.Description) {
		line += "      " + f.mark(hl.Description) + "\n"
	}
	return line
}

func (f *HumanFormatter) mark(segments []view.Segment) string {
	var sb strings.Builder
	for _, s := range segments {
		if s.IsMatch {
			sb.WriteString(f.Mark + s.Text + f.Mark)
			continue
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}

func (f *HumanFormatter) FormatCategories(cats []task.Category) string {
	if len(cats) == 0 {
		return "No categories.\n"
	}
	var sb strings.Builder
	for _, c := range cats {
		line := fmt.Sprintf("%s %s", shortID(c.ID), strings.TrimSpace(c.Emoji+" "+c.Name))
		if c.Color != "" {
			line += " (" + c.Color + ")"
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func (f *HumanFormatter) FormatError(err error) string {
	return fmt.Sprintf("Error: %v\n", err)
}

func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}

// FormatDeadline renders a deadline as a date plus a relative hint,
// e.g. "2024-03-15 (2 days from now)".
func FormatDeadline(d, now time.Time) string {
	return fmt.Sprintf("%s (%s)", d.In(now.Location()).Format("2006-01-02"), humanize.RelTime(d, now, "ago", "from now"))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func hasMatch(segments []view.Segment) bool {
	for _, s := range segments {
		if s.IsMatch {
			return true
		}
	}
	return false
}
