package ui

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"bada/internal/task"
	"bada/internal/view"
)

const collapsedDescription = 40

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	matchStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Underline(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Strikethrough(true)
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("237"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warningStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Todo"))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render(m.filterSummary()))
	b.WriteString("\n\n")

	rows := m.rows()
	switch {
	case len(m.ctrl.Snapshot().Tasks) == 0:
		b.WriteString(fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add))
	case len(rows) == 0:
		b.WriteString(fmt.Sprintf("No tasks match. Press '%s' to reset filters.", m.cfg.Keys.Reset))
	default:
		b.WriteString(m.renderTaskList(rows))
	}

	b.WriteString("\n---\n")

	switch {
	case m.meta != nil:
		b.WriteString("Task editor (tab/shift+tab to move, enter to save/next, esc to cancel)")
		b.WriteString("\n\n")
		b.WriteString(m.renderMetaBox())
		b.WriteString("\n")
		b.WriteString("Field: " + m.meta.currentLabel())
		b.WriteString("\n")
		b.WriteString(m.input.View())
	case m.mode != modeList:
		b.WriteString(m.input.View())
	default:
		b.WriteString(m.renderMetadataPanel())
		if m.ctrl.Selection().MenuOpen() {
			b.WriteString("\n")
			b.WriteString(m.renderMenu())
		}
	}

	b.WriteString("\n\n")
	if m.ctrl.Selection().DeletePending() {
		b.WriteString(warningStyle.Render(m.status))
	} else {
		b.WriteString(m.status)
	}
	b.WriteString("\n")
	b.WriteString(m.help.FullHelpView(helpBindings(m.cfg.Keys)))

	return b.String()
}

func (m Model) filterSummary() string {
	f := m.ctrl.Filter()
	parts := []string{
		"date:" + m.dateFilterLabel(),
		"status:" + string(f.StatusFilter),
		"priority:" + m.priorityLabel(f.PriorityFilter),
		"sort:" + string(f.SortOption),
	}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search:%q", f.Search))
	}
	if m.ctrl.Selection().MoveMode() {
		parts = append(parts, "MOVE")
	}
	return strings.Join(parts, " • ")
}

func (m Model) renderTaskList(rows []task.Task) string {
	v := m.ctrl.View()
	sel := m.ctrl.Selection()
	var b strings.Builder
	for i, t := range rows {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}
		checkbox := "[ ]"
		if t.Done {
			checkbox = "[x]"
		}
		mark := " "
		if sel.IsSelected(t.ID) {
			mark = "*"
		}

		hl := v.Highlights[t.ID]
		base := lipgloss.NewStyle()
		if t.Done {
			base = doneStyle
		}
		name := renderSegments(hl.Name, t.Name, base)
		if t.Emoji != "" {
			name = t.Emoji + " " + name
		}

		line := fmt.Sprintf("%s%s %s %s", cursor, mark, checkbox, name)
		if t.Pinned {
			line += " 📌"
		}
		if t.Priority != nil {
			line += " " + priorityBadge(*t.Priority)
		}
		if sel.IsSelected(t.ID) {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")

		if t.Description != "" {
			b.WriteString("      ")
			b.WriteString(m.renderDescription(t, hl.Description, sel.IsExpanded(t.ID)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderDescription shows the full description when expanded or when a
// search hit is in it; otherwise a truncated preview.
func (m Model) renderDescription(t task.Task, segs []view.Segment, expanded bool) string {
	if expanded || hasMatch(segs) {
		return renderSegments(segs, t.Description, lipgloss.NewStyle())
	}
	runes := []rune(t.Description)
	if len(runes) <= collapsedDescription {
		return mutedStyle.Render(t.Description)
	}
	more := fmt.Sprintf(" (%s to show more)", m.cfg.Keys.Expand)
	return mutedStyle.Render(string(runes[:collapsedDescription]) + "…" + more)
}

// renderSegments draws segs in base, with matches layered over it.
func renderSegments(segs []view.Segment, fallback string, base lipgloss.Style) string {
	if segs == nil {
		return base.Render(fallback)
	}
	match := matchStyle.Inherit(base)
	var b strings.Builder
	for _, s := range segs {
		if s.IsMatch {
			b.WriteString(match.Render(s.Text))
			continue
		}
		b.WriteString(base.Render(s.Text))
	}
	return b.String()
}

func hasMatch(segs []view.Segment) bool {
	for _, s := range segs {
		if s.IsMatch {
			return true
		}
	}
	return false
}

func priorityBadge(p task.Priority) string {
	style := lipgloss.NewStyle().Bold(true)
	if p.Color != "" {
		style = style.Foreground(lipgloss.Color(p.Color))
	}
	return style.Render("● " + p.Label)
}

func (m Model) renderMetaBox() string {
	if m.meta == nil {
		return ""
	}
	var b strings.Builder
	for i, name := range metaFields() {
		prefix := " "
		if i == m.meta.index {
			prefix = ">"
		}
		b.WriteString(fmt.Sprintf("%s %-28s : %s\n", prefix, name, emptyPlaceholder(*m.meta.fields()[i])))
	}
	return b.String()
}

func (m Model) renderMetadataPanel() string {
	t, ok := m.current()
	if !ok {
		return "No task selected"
	}
	now := time.Now()
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Name       : %s\n", t.Name))
	b.WriteString(fmt.Sprintf("Done       : %s\n", humanDone(t.Done)))
	b.WriteString(fmt.Sprintf("Created    : %s (%s)\n", t.Date.Local().Format("2006-01-02"), humanize.Time(t.Date)))
	b.WriteString(fmt.Sprintf("Deadline   : %s\n", formatDeadline(t.Deadline, now)))
	prio := "(empty)"
	if t.Priority != nil {
		prio = priorityBadge(*t.Priority)
	}
	b.WriteString(fmt.Sprintf("Priority   : %s\n", prio))
	b.WriteString(fmt.Sprintf("Categories : %s\n", emptyPlaceholder(categoryNames(t.Categories))))
	b.WriteString(fmt.Sprintf("Pinned     : %t", t.Pinned))
	return panelStyle.Render(b.String())
}

func (m Model) renderMenu() string {
	k := m.cfg.Keys
	actions := []string{
		k.Edit + " edit",
		k.Toggle + " done",
		k.Pin + " pin",
		k.Expand + " expand",
		k.Select + " select",
		k.Delete + " delete",
		k.Cancel + " close",
	}
	return mutedStyle.Render("Actions: " + strings.Join(actions, " • "))
}

func categoryNames(cats []task.Category) string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = strings.TrimSpace(c.Emoji + " " + c.Name)
	}
	return strings.Join(names, ", ")
}

func formatDeadline(d sql.NullTime, now time.Time) string {
	if !d.Valid {
		return "(empty)"
	}
	return fmt.Sprintf("%s (%s)", formatDate(d), humanize.RelTime(d.Time, now, "ago", "from now"))
}

func formatDate(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Local().Format("2006-01-02")
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}
