package output

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"bada/internal/task"
	"bada/internal/view"
)

// YAMLFormatter formats output as YAML documents.
type YAMLFormatter struct{}

func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

type yamlTask struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	Done        bool            `yaml:"done"`
	Pinned      bool            `yaml:"pinned,omitempty"`
	Color       string          `yaml:"color,omitempty"`
	Emoji       string          `yaml:"emoji,omitempty"`
	Created     time.Time       `yaml:"created"`
	Deadline    *time.Time      `yaml:"deadline,omitempty"`
	Priority    string          `yaml:"priority,omitempty"`
	Position    *int64          `yaml:"position,omitempty"`
	Categories  []task.Category `yaml:"categories,omitempty"`
	Highlight   []view.Segment  `yaml:"highlight,omitempty"`
}

type yamlView struct {
	Count int        `yaml:"count"`
	Tasks []yamlTask `yaml:"tasks"`
}

type yamlMessage struct {
	Message string `yaml:"message,omitempty"`
	Error   string `yaml:"error,omitempty"`
}

func (f *YAMLFormatter) FormatView(v view.View, _ time.Time) string {
	out := yamlView{Count: len(v.Visible), Tasks: make([]yamlTask, 0, len(v.Visible))}
	for _, t := range v.Visible {
		yt := yamlTask{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Done:        t.Done,
			Pinned:      t.Pinned,
			Color:       t.Color,
			Emoji:       t.Emoji,
			Created:     t.Date,
			Priority:    t.PriorityID(),
			Categories:  t.Categories,
		}
		if t.Deadline.Valid {
			d := t.Deadline.Time
			yt.Deadline = &d
		}
		if t.Position.Valid {
			p := t.Position.Int64
			yt.Position = &p
		}
		if hl := v.Highlights[t.ID].Name; hasMatch(hl) {
			yt.Highlight = hl
		}
		out.Tasks = append(out.Tasks, yt)
	}
	return marshal(out)
}

func (f *YAMLFormatter) FormatCategories(cats []task.Category) string {
	if cats == nil {
		cats = []task.Category{}
	}
	return marshal(struct {
		Categories []task.Category `yaml:"categories"`
	}{cats})
}

func (f *YAMLFormatter) FormatError(err error) string {
	return marshal(yamlMessage{Error: err.Error()})
}

func (f *YAMLFormatter) FormatMessage(msg string) string {
	return marshal(yamlMessage{Message: msg})
}

func marshal(v any) string {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %q\n", err.Error())
	}
	return string(data)
}
