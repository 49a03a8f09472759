package ui

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"bada/internal/config"
	"bada/internal/task"
	"bada/internal/view"
)

// Store is the task store the UI mutates directly. Deletes and category
// edits go through the view controller instead.
type Store interface {
	view.Source
	AddTask(t task.Task) (task.Task, error)
	UpdateTask(t task.Task) error
	SetDone(id string, done bool) error
	SetPinned(id string, pinned bool) error
	SetPosition(id string, pos sql.NullInt64) error
	EnsureCategory(name string) (task.Category, error)
	SetTaskCategories(taskID string, categoryIDs []string) error
}

type mode int

const (
	modeList mode = iota
	modeAdd
	modeSearch
	modeRange
	modeMetadata
)

type Model struct {
	store  Store
	ctrl   *view.Controller
	cfg    config.Config
	logger *log.Logger
	cursor int
	mode   mode
	input  textinput.Model
	help   help.Model
	status string
	meta   *metaState
	rng    *rangeState
}

// FilterFromConfig returns the initial filter controls for a session.
func FilterFromConfig(cfg config.Config) view.FilterState {
	f := view.DefaultFilterState()
	if s, ok := view.ParseStatusFilter(strings.ToLower(cfg.DefaultFilter)); ok {
		f.StatusFilter = s
	}
	if o, ok := view.ParseSortOption(cfg.DefaultSort); ok {
		f.SortOption = o
	}
	return f
}

// New builds the model and loads the first snapshot.
func New(store Store, cfg config.Config, logger *log.Logger) (Model, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	ctrl := view.NewController(store, cfg.Priorities,
		view.WithFilter(FilterFromConfig(cfg)),
		view.WithLogger(logger),
	)
	if err := ctrl.Refresh(); err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.Placeholder = "Task name"
	ti.CharLimit = cfg.MaxNameLength
	ti.Width = 40

	m := Model{
		store:  store,
		ctrl:   ctrl,
		cfg:    cfg,
		logger: logger,
		input:  ti,
		help:   help.New(),
		mode:   modeList,
		status: fmt.Sprintf("Press '%s' to add, '%s' to search, '%s' to filter by date.", cfg.Keys.Add, cfg.Keys.Search, cfg.Keys.DateFilter),
	}
	m.syncActive()
	return m, nil
}

// Run starts the interactive program. When cfg.LogFile is set, log output
// is appended there; otherwise it is discarded.
func Run(store Store, cfg config.Config) error {
	logger := log.New(io.Discard, "", 0)
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "bada")
		if err != nil {
			return err
		}
		defer f.Close()
		logger = log.Default()
	}

	m, err := New(store, cfg, logger)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m)
	_, err = program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.meta != nil {
			return m.updateMetadataMode(msg.String(), msg)
		}
		if m.ctrl.Selection().DeletePending() {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.mode {
	case modeAdd:
		return m.updateAddMode(key, msg)
	case modeSearch:
		return m.updateSearchMode(key, msg)
	case modeRange:
		return m.updateRangeMode(key, msg)
	}
	return m.updateListMode(key)
}

// rows is the list as displayed: the derived view grouped for presentation.
func (m Model) rows() []task.Task {
	return view.GroupForDisplay(m.ctrl.View().Visible, m.cfg.DoneToBottom)
}

func (m Model) current() (task.Task, bool) {
	rows := m.rows()
	if len(rows) == 0 {
		return task.Task{}, false
	}
	return rows[clampCursor(m.cursor, len(rows))], true
}

// syncActive clamps the cursor to the visible rows and makes the task under
// it the active one. An open menu closes once its task loses focus.
func (m *Model) syncActive() {
	prev := m.ctrl.Selection().Active()
	defer func() {
		if m.ctrl.Selection().Active() != prev {
			m.ctrl.CloseMenu()
		}
	}()
	rows := m.rows()
	m.cursor = clampCursor(m.cursor, len(rows))
	if len(rows) == 0 {
		_ = m.ctrl.SetActive("")
		return
	}
	if err := m.ctrl.SetActive(rows[m.cursor].ID); err != nil {
		m.logger.Printf("set active: %v", err)
	}
}

// reload refreshes the snapshot after a store mutation and keeps the cursor
// on focusID when it is still visible.
func (m *Model) reload(focusID string) error {
	if err := m.ctrl.Refresh(); err != nil {
		return err
	}
	if focusID != "" {
		for i, t := range m.rows() {
			if t.ID == focusID {
				m.cursor = i
				break
			}
		}
	}
	m.syncActive()
	return nil
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		name := strings.TrimSpace(m.input.Value())
		if err := task.Validate(name, "", m.cfg.Limits()); err != nil {
			m.status = err.Error()
			return m, nil
		}
		added, err := m.store.AddTask(task.Task{Name: name})
		if err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		if err := m.reload(added.ID); err != nil {
			m.status = fmt.Sprintf("reload failed: %v", err)
		} else {
			m.status = "Added task"
		}
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.ctrl.SetSearch("")
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		m.syncActive()
		m.status = "Search cleared"
		return m, nil
	case m.cfg.Keys.Confirm:
		m.input.Blur()
		m.mode = modeList
		m.syncActive()
		m.status = fmt.Sprintf("%d tasks match %q", len(m.ctrl.View().Visible), m.ctrl.Filter().Search)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.ctrl.SetSearch(m.input.Value())
		m.syncActive()
		return m, cmd
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	if m.ctrl.Selection().MoveMode() {
		switch key {
		case k.Down, "down":
			return m.moveCurrent(1)
		case k.Up, "up":
			return m.moveCurrent(-1)
		}
	}

	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.Down, "down":
		if n := len(m.rows()); n > 0 {
			m.cursor = clampCursor(m.cursor+1, n)
			m.syncActive()
		}
	case k.Up, "up":
		if m.cursor > 0 {
			m.cursor--
			m.syncActive()
		}
	case k.Add:
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Placeholder = "Task name"
		m.input.CharLimit = m.cfg.MaxNameLength
		m.input.Focus()
		m.status = "Add mode: type a name and press Enter"
	case k.Search:
		m.mode = modeSearch
		m.input.SetValue(m.ctrl.Filter().Search)
		m.input.Placeholder = "Search tasks"
		m.input.CharLimit = 0
		m.input.Focus()
		m.status = "Search: type to filter, Enter to keep, Esc to clear"
	case k.DateFilter:
		m.ctrl.CycleDateFilter()
		m.syncActive()
		m.status = "Date filter: " + m.dateFilterLabel()
	case k.CustomRange:
		return m.startRangeInput()
	case k.StatusFilter:
		m.status = "Status filter: " + string(m.ctrl.CycleStatusFilter())
		m.syncActive()
	case k.PriorityFilter:
		m.status = "Priority filter: " + m.priorityLabel(m.ctrl.CyclePriorityFilter())
		m.syncActive()
	case k.Sort:
		m.status = "Sort: " + string(m.ctrl.CycleSortOption())
		m.syncActive()
	case k.Reset:
		m.ctrl.ResetAll()
		m.ctrl.ClearMultiSelect()
		m.ctrl.SetMoveMode(false)
		m.input.SetValue("")
		m.syncActive()
		m.status = "Filters reset"
	case k.Toggle:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		if err := m.store.SetDone(t.ID, !t.Done); err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		if err := m.reload(""); err != nil {
			m.status = fmt.Sprintf("reload failed: %v", err)
		} else {
			m.status = fmt.Sprintf("Marked %q %s", t.Name, humanDone(!t.Done))
		}
	case k.Pin:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		if err := m.store.SetPinned(t.ID, !t.Pinned); err != nil {
			m.status = fmt.Sprintf("pin failed: %v", err)
			return m, nil
		}
		if err := m.reload(t.ID); err != nil {
			m.status = fmt.Sprintf("reload failed: %v", err)
		} else if t.Pinned {
			m.status = "Unpinned task"
		} else {
			m.status = "Pinned task"
		}
	case k.Expand:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		if err := m.ctrl.ToggleExpanded(t.ID); err != nil {
			m.status = err.Error()
		}
	case k.Select:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		if err := m.ctrl.ToggleMultiSelect(t.ID); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("%d selected", len(m.ctrl.Selection().Selected()))
	case k.DeleteSelected:
		selected := m.ctrl.Selection().Selected()
		if len(selected) == 0 {
			m.status = "No tasks selected"
			return m, nil
		}
		n, err := m.ctrl.DeleteSelected()
		m.syncActive()
		if err != nil {
			m.status = fmt.Sprintf("deleted %d of %d: %v", n, len(selected), err)
		} else {
			m.status = fmt.Sprintf("Deleted %d tasks", n)
		}
	case k.MoveMode:
		on := !m.ctrl.Selection().MoveMode()
		m.ctrl.SetMoveMode(on)
		if on {
			m.ctrl.SetSortOption(view.SortCustom)
			m.syncActive()
			m.status = "Move mode: up/down moves the task, press again to finish"
		} else {
			m.status = "Move mode off"
		}
	case k.Delete:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		if err := m.ctrl.SetActive(t.ID); err != nil {
			m.status = err.Error()
			return m, nil
		}
		if err := m.ctrl.RequestDelete(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Name)
	case k.Detail:
		t, ok := m.current()
		if !ok {
			m.status = "No tasks"
			return m, nil
		}
		info := fmt.Sprintf("%s • %s", t.Name, humanDone(t.Done))
		if t.Priority != nil {
			info += " • priority:" + t.Priority.Label
		}
		if t.Deadline.Valid {
			info += " • due:" + formatDate(t.Deadline)
		}
		if err := m.ctrl.OpenMenu(t.ID); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = info
	case k.Cancel:
		switch {
		case m.ctrl.Selection().MenuOpen():
			m.ctrl.CloseMenu()
			m.status = "Menu closed"
		case m.ctrl.Filter().DateFilter != view.DateAll:
			m.ctrl.ResetFilters()
			m.syncActive()
			m.status = "Date filter cleared"
		}
	case k.Edit:
		t, ok := m.current()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.startMetadataEdit(t)
	}
	return m, nil
}

// moveCurrent swaps the task under the cursor with its neighbour and
// renumbers positions to match the displayed order.
func (m Model) moveCurrent(delta int) (tea.Model, tea.Cmd) {
	rows := m.rows()
	from := clampCursor(m.cursor, len(rows))
	to := from + delta
	if len(rows) == 0 || to < 0 || to >= len(rows) {
		return m, nil
	}
	rows[from], rows[to] = rows[to], rows[from]
	for i, t := range rows {
		if t.Position.Valid && t.Position.Int64 == int64(i) {
			continue
		}
		if err := m.store.SetPosition(t.ID, sql.NullInt64{Int64: int64(i), Valid: true}); err != nil {
			m.status = fmt.Sprintf("move failed: %v", err)
			return m, nil
		}
	}
	m.ctrl.SetSortOption(view.SortCustom)
	if err := m.reload(rows[to].ID); err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
		return m, nil
	}
	m.status = "Moved task"
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.ctrl.CancelDelete()
		m.status = "Delete cancelled"
		return m, nil
	case "y", "Y":
		if _, err := m.ctrl.ConfirmDelete(); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			return m, nil
		}
		m.syncActive()
		m.status = "Deleted task"
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) dateFilterLabel() string {
	f := m.ctrl.Filter()
	if f.DateFilter != view.DateCustom {
		return string(f.DateFilter)
	}
	return fmt.Sprintf("%s..%s", formatDate(f.CustomRange.Start), formatDate(f.CustomRange.End))
}

func (m Model) priorityLabel(id string) string {
	if p, ok := task.FindPriority(m.ctrl.Priorities(), id); ok {
		return p.Label
	}
	return id
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
