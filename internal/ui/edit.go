package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"bada/internal/task"
	"bada/internal/view"
)

type metaState struct {
	taskID      string
	name        string
	description string
	deadline    string
	priority    string
	categories  string
	color       string
	emoji       string
	index       int
}

type rangeState struct {
	start string
	onEnd bool
}

func metaFields() []string {
	return []string{"name", "description", "deadline (YYYY-MM-DD)", "priority", "categories (comma separated)", "color", "emoji"}
}

func (ms *metaState) fields() []*string {
	return []*string{&ms.name, &ms.description, &ms.deadline, &ms.priority, &ms.categories, &ms.color, &ms.emoji}
}

func (ms metaState) currentLabel() string {
	return metaFields()[ms.index]
}

func (ms *metaState) currentValue() string {
	return *ms.fields()[ms.index]
}

func (ms *metaState) setCurrentValue(v string) {
	*ms.fields()[ms.index] = v
}

func (m Model) startMetadataEdit(t task.Task) (tea.Model, tea.Cmd) {
	names := make([]string, len(t.Categories))
	for i, c := range t.Categories {
		names[i] = c.Name
	}
	m.meta = &metaState{
		taskID:      t.ID,
		name:        t.Name,
		description: t.Description,
		deadline:    formatDate(t.Deadline),
		priority:    t.PriorityID(),
		categories:  strings.Join(names, ", "),
		color:       t.Color,
		emoji:       t.Emoji,
	}
	m.mode = modeMetadata
	m.input.CharLimit = 0
	m.loadMetaField()
	m.input.Focus()
	m.status = "Edit task: tab to move, enter to save/next, esc to cancel"
	return m, nil
}

func (m *Model) loadMetaField() {
	m.input.SetValue(m.meta.currentValue())
	m.input.Placeholder = m.meta.currentLabel()
}

func (m Model) updateMetadataMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.meta = nil
		m.mode = modeList
		m.input.Blur()
		m.status = "Edit cancelled"
		return m, nil
	case "tab", "down":
		m.meta.setCurrentValue(m.input.Value())
		m.meta.index = wrapIndex(m.meta.index+1, len(metaFields()))
		m.loadMetaField()
		m.status = m.metaPrompt()
		return m, nil
	case "shift+tab", "up":
		m.meta.setCurrentValue(m.input.Value())
		m.meta.index = wrapIndex(m.meta.index-1, len(metaFields()))
		m.loadMetaField()
		m.status = m.metaPrompt()
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.meta.setCurrentValue(m.input.Value())
		if m.meta.index >= len(metaFields())-1 {
			return m.saveMetadata()
		}
		m.meta.index++
		m.loadMetaField()
		m.status = m.metaPrompt()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) saveMetadata() (tea.Model, tea.Cmd) {
	ms := m.meta
	t, ok := m.ctrl.Task(ms.taskID)
	if !ok {
		m.meta = nil
		m.mode = modeList
		m.input.Blur()
		m.status = task.NotFoundError{ID: ms.taskID}.Error()
		return m, nil
	}

	name := strings.TrimSpace(ms.name)
	desc := strings.TrimSpace(ms.description)
	if err := task.Validate(name, desc, m.cfg.Limits()); err != nil {
		m.status = err.Error()
		return m, nil
	}
	deadline, err := view.ParseDay(ms.deadline)
	if err != nil {
		m.status = fmt.Sprintf("deadline invalid: %v", err)
		return m, nil
	}
	prio := t.Priority
	if id := strings.TrimSpace(ms.priority); id == "" {
		prio = nil
	} else if id != t.PriorityID() {
		p, ok := task.FindPriority(m.ctrl.Priorities(), id)
		if !ok {
			m.status = fmt.Sprintf("priority invalid: %q", id)
			return m, nil
		}
		prio = &p
	}

	t.Name = name
	t.Description = desc
	t.Deadline = deadline
	t.Priority = prio
	t.Color = strings.TrimSpace(ms.color)
	t.Emoji = strings.TrimSpace(ms.emoji)
	if err := m.store.UpdateTask(t); err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		return m, nil
	}
	if err := m.setCategories(t, ms.categories); err != nil {
		m.status = fmt.Sprintf("categories failed: %v", err)
		return m, nil
	}

	m.meta = nil
	m.mode = modeList
	m.input.Blur()
	if err := m.reload(t.ID); err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
	} else {
		m.status = "Task saved"
	}
	return m, nil
}

// setCategories makes the named categories the task's complete list,
// creating unknown ones. Names left out of list are unassigned.
func (m Model) setCategories(t task.Task, list string) error {
	var ids []string
	seen := make(map[string]bool)
	for _, name := range splitList(list) {
		cat, err := m.store.EnsureCategory(name)
		if err != nil {
			return err
		}
		if seen[cat.ID] {
			continue
		}
		seen[cat.ID] = true
		ids = append(ids, cat.ID)
	}
	return m.store.SetTaskCategories(t.ID, ids)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (m Model) metaPrompt() string {
	if m.meta == nil {
		return ""
	}
	return fmt.Sprintf("Editing %s (field %d of %d). Enter to advance, Esc to cancel, tab to move.",
		m.meta.currentLabel(), m.meta.index+1, len(metaFields()))
}

func (m Model) startRangeInput() (tea.Model, tea.Cmd) {
	r := m.ctrl.Filter().CustomRange
	m.rng = &rangeState{}
	m.mode = modeRange
	m.input.CharLimit = 10
	m.input.Placeholder = "start (YYYY-MM-DD)"
	m.input.SetValue(formatDate(r.Start))
	m.input.Focus()
	m.status = "Custom range: enter start date, blank for none"
	return m, nil
}

// updateRangeMode collects the start and end bounds, then applies them as
// one change. A rejected range leaves the current filters untouched.
func (m Model) updateRangeMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.rng = nil
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Range cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		if !m.rng.onEnd {
			m.rng.start = m.input.Value()
			m.rng.onEnd = true
			m.input.Placeholder = "end (YYYY-MM-DD)"
			m.input.SetValue(formatDate(m.ctrl.Filter().CustomRange.End))
			m.status = "Custom range: enter end date, blank for none"
			return m, nil
		}
		r, err := view.ParseRange(m.rng.start, m.input.Value())
		if err == nil {
			err = m.ctrl.ApplyCustomRange(r)
		}
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.rng = nil
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.syncActive()
		m.status = "Date filter: " + m.dateFilterLabel()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
