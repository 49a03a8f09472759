package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"bada/internal/task"
)

type Store struct {
	db         *sql.DB
	priorities []task.Priority
	now        func() time.Time
}

// Open opens (creating if needed) the SQLite database at dbPath. Stored
// priority ids are resolved against priorities when tasks are loaded.
func Open(dbPath string, priorities []task.Priority) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	// modernc.org/sqlite uses driver name "sqlite" and prefers a file: DSN.
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, priorities: slices.Clone(priorities), now: time.Now}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	ddl := []string{`
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	done INTEGER NOT NULL DEFAULT 0,
	color TEXT NOT NULL DEFAULT '',
	deadline TEXT DEFAULT NULL,
	priority TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS categories (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	color TEXT NOT NULL DEFAULT '',
	emoji TEXT NOT NULL DEFAULT ''
);`, `
CREATE TABLE IF NOT EXISTS task_categories (
	task_id TEXT NOT NULL,
	category_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	name TEXT NOT NULL,
	color TEXT NOT NULL DEFAULT '',
	emoji TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (task_id, category_id)
);`}
	for _, stmt := range ddl {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return s.ensureTaskColumns()
}

func (s *Store) ensureTaskColumns() error {
	required := map[string]string{
		"pinned":   "ALTER TABLE tasks ADD COLUMN pinned INTEGER NOT NULL DEFAULT 0;",
		"emoji":    "ALTER TABLE tasks ADD COLUMN emoji TEXT NOT NULL DEFAULT '';",
		"position": "ALTER TABLE tasks ADD COLUMN position INTEGER DEFAULT NULL;",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(tasks);`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			rows.Close()
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot loads every task, in insertion order, with its category copies,
// plus the category list.
func (s *Store) Snapshot() (task.Snapshot, error) {
	tasks, err := s.fetchTasks()
	if err != nil {
		return task.Snapshot{}, err
	}
	categories, err := s.Categories()
	if err != nil {
		return task.Snapshot{}, err
	}
	return task.Snapshot{
		Tasks:      tasks,
		Categories: categories,
		Priorities: slices.Clone(s.priorities),
	}, nil
}

func (s *Store) fetchTasks() ([]task.Task, error) {
	rows, err := s.db.Query(`SELECT id, name, description, done, pinned, color, emoji, deadline, priority, position, created_at FROM tasks ORDER BY rowid;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []task.Task
	index := map[string]int{}
	for rows.Next() {
		var t task.Task
		var doneInt, pinnedInt int
		var deadlineStr sql.NullString
		var priorityID string
		var createdStr string

		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &doneInt, &pinnedInt, &t.Color, &t.Emoji,
			&deadlineStr, &priorityID, &t.Position, &createdStr); err != nil {
			return nil, err
		}
		t.Done = doneInt == 1
		t.Pinned = pinnedInt == 1
		t.Priority = s.resolvePriority(priorityID)
		if deadlineStr.Valid {
			if parsed, err := time.Parse(time.RFC3339Nano, deadlineStr.String); err == nil {
				t.Deadline = sql.NullTime{Time: parsed, Valid: true}
			}
		}
		if created, err := time.Parse(time.RFC3339Nano, createdStr); err == nil {
			t.Date = created
		}
		index[t.ID] = len(tasks)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	catRows, err := s.db.Query(`SELECT task_id, category_id, name, color, emoji FROM task_categories ORDER BY task_id, seq;`)
	if err != nil {
		return nil, err
	}
	defer catRows.Close()
	for catRows.Next() {
		var taskID string
		var c task.Category
		if err := catRows.Scan(&taskID, &c.ID, &c.Name, &c.Color, &c.Emoji); err != nil {
			return nil, err
		}
		if i, ok := index[taskID]; ok {
			tasks[i].Categories = append(tasks[i].Categories, c)
		}
	}
	return tasks, catRows.Err()
}

func (s *Store) resolvePriority(id string) *task.Priority {
	if id == "" {
		return nil
	}
	if p, ok := task.FindPriority(s.priorities, id); ok {
		return &p
	}
	// no longer configured: keep the id so filters still see it
	return &task.Priority{ID: id, Label: id}
}

// AddTask inserts t. An empty ID or creation date is filled in. Categories
// are stored as copies.
func (s *Store) AddTask(t task.Task) (task.Task, error) {
	if t.ID == "" {
		t.ID = task.NewID()
	}
	if t.Date.IsZero() {
		t.Date = s.now()
	}
	tx, err := s.db.Begin()
	if err != nil {
		return t, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO tasks (id, name, description, done, pinned, color, emoji, deadline, priority, position, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		t.ID, t.Name, t.Description, boolToInt(t.Done), boolToInt(t.Pinned), t.Color, t.Emoji,
		formatNullTime(t.Deadline), t.PriorityID(), t.Position, formatTime(t.Date))
	if err != nil {
		return t, fmt.Errorf("insert task: %w", err)
	}
	for i, c := range t.Categories {
		if err := insertCategoryCopy(tx, t.ID, i, c); err != nil {
			return t, err
		}
	}
	return t, tx.Commit()
}

// UpdateTask rewrites the editable fields of an existing task. Category
// copies are managed with AssignCategory and ApplyCategoryPatch.
func (s *Store) UpdateTask(t task.Task) error {
	res, err := s.db.Exec(`UPDATE tasks SET name = ?, description = ?, done = ?, pinned = ?, color = ?, emoji = ?, deadline = ?, priority = ?, position = ? WHERE id = ?;`,
		t.Name, t.Description, boolToInt(t.Done), boolToInt(t.Pinned), t.Color, t.Emoji,
		formatNullTime(t.Deadline), t.PriorityID(), t.Position, t.ID)
	if err != nil {
		return err
	}
	return expectRow(res, t.ID)
}

func (s *Store) SetDone(id string, done bool) error {
	res, err := s.db.Exec(`UPDATE tasks SET done = ? WHERE id = ?;`, boolToInt(done), id)
	if err != nil {
		return err
	}
	return expectRow(res, id)
}

func (s *Store) SetPinned(id string, pinned bool) error {
	res, err := s.db.Exec(`UPDATE tasks SET pinned = ? WHERE id = ?;`, boolToInt(pinned), id)
	if err != nil {
		return err
	}
	return expectRow(res, id)
}

func (s *Store) SetPosition(id string, pos sql.NullInt64) error {
	res, err := s.db.Exec(`UPDATE tasks SET position = ? WHERE id = ?;`, pos, id)
	if err != nil {
		return err
	}
	return expectRow(res, id)
}

// DeleteTask removes the task and its category copies. It returns
// task.NotFoundError when id doesn't exist.
func (s *Store) DeleteTask(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM tasks WHERE id = ?;`, id)
	if err != nil {
		return err
	}
	if err := expectRow(res, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM task_categories WHERE task_id = ?;`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) AddCategory(c task.Category) (task.Category, error) {
	if c.ID == "" {
		c.ID = task.NewID()
	}
	_, err := s.db.Exec(`INSERT INTO categories (id, name, color, emoji) VALUES (?, ?, ?, ?);`, c.ID, c.Name, c.Color, c.Emoji)
	if err != nil {
		return c, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (s *Store) Categories() ([]task.Category, error) {
	rows, err := s.db.Query(`SELECT id, name, color, emoji FROM categories ORDER BY rowid;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []task.Category
	for rows.Next() {
		var c task.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Emoji); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// EnsureCategory returns the category named name, matched case-insensitively,
// creating it when there is none.
func (s *Store) EnsureCategory(name string) (task.Category, error) {
	var c task.Category
	err := s.db.QueryRow(`SELECT id, name, color, emoji FROM categories WHERE name = ? COLLATE NOCASE ORDER BY rowid LIMIT 1;`, name).
		Scan(&c.ID, &c.Name, &c.Color, &c.Emoji)
	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, sql.ErrNoRows):
		return s.AddCategory(task.Category{Name: name})
	default:
		return c, err
	}
}

// AssignCategory appends a copy of the category to the task's list.
// Assigning a category twice is a no-op.
func (s *Store) AssignCategory(taskID, categoryID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM tasks WHERE id = ?;`, taskID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return task.NotFoundError{ID: taskID}
	}
	c, err := loadCategory(tx, categoryID)
	if err != nil {
		return err
	}
	var seq int
	if err := tx.QueryRow(`SELECT COALESCE(MAX(seq) + 1, 0) FROM task_categories WHERE task_id = ?;`, taskID).Scan(&seq); err != nil {
		return err
	}
	if err := insertCategoryCopy(tx, taskID, seq, c); err != nil {
		return err
	}
	return tx.Commit()
}

// SetTaskCategories replaces the task's categories with categoryIDs, in that
// order. Categories missing from the list are unassigned.
func (s *Store) SetTaskCategories(taskID string, categoryIDs []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM tasks WHERE id = ?;`, taskID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return task.NotFoundError{ID: taskID}
	}
	if _, err := tx.Exec(`DELETE FROM task_categories WHERE task_id = ?;`, taskID); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	for i, id := range categoryIDs {
		c, err := loadCategory(tx, id)
		if err != nil {
			return err
		}
		if err := insertCategoryCopy(tx, taskID, i, c); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ApplyCategoryPatch updates the category and every task's copy of it in
// one transaction.
func (s *Store) ApplyCategoryPatch(patch task.CategoryPatch) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	c, err := loadCategory(tx, patch.ID)
	if err != nil {
		return err
	}
	c = c.Apply(patch)
	if _, err := tx.Exec(`UPDATE categories SET name = ?, color = ?, emoji = ? WHERE id = ?;`, c.Name, c.Color, c.Emoji, c.ID); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if _, err := tx.Exec(`UPDATE task_categories SET name = ?, color = ?, emoji = ? WHERE category_id = ?;`, c.Name, c.Color, c.Emoji, c.ID); err != nil {
		return fmt.Errorf("propagate category: %w", err)
	}
	return tx.Commit()
}

func loadCategory(tx *sql.Tx, id string) (task.Category, error) {
	var c task.Category
	err := tx.QueryRow(`SELECT id, name, color, emoji FROM categories WHERE id = ?;`, id).Scan(&c.ID, &c.Name, &c.Color, &c.Emoji)
	if errors.Is(err, sql.ErrNoRows) {
		return c, task.CategoryNotFoundError{ID: id}
	}
	return c, err
}

func insertCategoryCopy(tx *sql.Tx, taskID string, seq int, c task.Category) error {
	_, err := tx.Exec(`INSERT OR IGNORE INTO task_categories (task_id, category_id, seq, name, color, emoji) VALUES (?, ?, ?, ?, ?, ?);`,
		taskID, c.ID, seq, c.Name, c.Color, c.Emoji)
	if err != nil {
		return fmt.Errorf("insert task category: %w", err)
	}
	return nil
}

func expectRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return task.NotFoundError{ID: id}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatNullTime(t sql.NullTime) sql.NullString {
	if !t.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(t.Time), Valid: true}
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
