package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"bada/internal/task"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	appDirName            = "bada"
	configEnv             = "BADA_CONFIG"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Detail         string `toml:"detail"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	Edit           string `toml:"edit"`
	Search         string `toml:"search"`
	DateFilter     string `toml:"date_filter"`
	CustomRange    string `toml:"custom_range"`
	StatusFilter   string `toml:"status_filter"`
	PriorityFilter string `toml:"priority_filter"`
	Sort           string `toml:"sort"`
	Reset          string `toml:"reset"`
	Expand         string `toml:"expand"`
	Select         string `toml:"select"`
	DeleteSelected string `toml:"delete_selected"`
	Pin            string `toml:"pin"`
	MoveMode       string `toml:"move_mode"`
}

type Config struct {
	DBPath               string          `toml:"db_path"`
	DefaultFilter        string          `toml:"default_filter"`
	DefaultSort          string          `toml:"default_sort"`
	DoneToBottom         bool            `toml:"done_to_bottom"`
	MaxNameLength        int             `toml:"max_name_length"`
	MaxDescriptionLength int             `toml:"max_description_length"`
	LogFile              string          `toml:"log_file"`
	Keys                 Keymap          `toml:"keys"`
	Priorities           []task.Priority `toml:"priorities"`
}

// Limits returns the task text limits from the config.
func (c Config) Limits() task.Limits {
	return task.Limits{
		MaxNameLength:        c.MaxNameLength,
		MaxDescriptionLength: c.MaxDescriptionLength,
	}
}

// ResolveConfigPath picks the config file: $BADA_CONFIG, then
// $XDG_CONFIG_HOME/bada/config.toml, then ~/.config/bada/config.toml, and
// finally config.toml in the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(configEnv); p != "" {
		return p
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appDirName, DefaultConfigFileName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", appDirName, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg.DBPath = filepath.Join(filepath.Dir(path), DefaultDBName)
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	// start from an empty key set so a partial [keys] table can be merged
	// with the defaults by normalize
	cfg.Keys = Keymap{}
	cfg.Priorities = nil
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.normalize(filepath.Dir(path))
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// normalize fills zero fields with defaults. A relative db_path is taken
// relative to the config file's directory.
func (c *Config) normalize(dir string) {
	d := Default()
	if c.DBPath == "" {
		c.DBPath = DefaultDBName
	}
	if !filepath.IsAbs(c.DBPath) && dir != "" {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if c.DefaultFilter == "" {
		c.DefaultFilter = d.DefaultFilter
	}
	if c.DefaultSort == "" {
		c.DefaultSort = d.DefaultSort
	}
	if c.MaxNameLength <= 0 {
		c.MaxNameLength = d.MaxNameLength
	}
	if c.MaxDescriptionLength <= 0 {
		c.MaxDescriptionLength = d.MaxDescriptionLength
	}
	if len(c.Priorities) == 0 {
		c.Priorities = d.Priorities
	}
	c.Keys = c.Keys.withDefaults(d.Keys)
}

func (c Config) validate() error {
	seen := map[string]bool{}
	for _, p := range c.Priorities {
		if p.ID == "" {
			return errors.New("priority with empty id")
		}
		if p.ID == "all" {
			return errors.New(`priority id "all" is reserved`)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate priority id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

func (k Keymap) withDefaults(d Keymap) Keymap {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&k.Quit, d.Quit)
	fill(&k.Add, d.Add)
	fill(&k.Up, d.Up)
	fill(&k.Down, d.Down)
	fill(&k.Toggle, d.Toggle)
	fill(&k.Delete, d.Delete)
	fill(&k.Detail, d.Detail)
	fill(&k.Confirm, d.Confirm)
	fill(&k.Cancel, d.Cancel)
	fill(&k.Edit, d.Edit)
	fill(&k.Search, d.Search)
	fill(&k.DateFilter, d.DateFilter)
	fill(&k.CustomRange, d.CustomRange)
	fill(&k.StatusFilter, d.StatusFilter)
	fill(&k.PriorityFilter, d.PriorityFilter)
	fill(&k.Sort, d.Sort)
	fill(&k.Reset, d.Reset)
	fill(&k.Expand, d.Expand)
	fill(&k.Select, d.Select)
	fill(&k.DeleteSelected, d.DeleteSelected)
	fill(&k.Pin, d.Pin)
	fill(&k.MoveMode, d.MoveMode)
	return k
}

func Default() Config {
	return Config{
		DBPath:               DefaultDBName,
		DefaultFilter:        "all",
		DefaultSort:          "dateCreated",
		MaxNameLength:        task.DefaultMaxNameLength,
		MaxDescriptionLength: task.DefaultMaxDescriptionLength,
		Priorities:           task.DefaultPriorities(),
		Keys: Keymap{
			Quit:           "q",
			Add:            "a",
			Up:             "k",
			Down:           "j",
			Toggle:         " ",
			Delete:         "d",
			Detail:         "enter",
			Confirm:        "enter",
			Cancel:         "esc",
			Edit:           "e",
			Search:         "/",
			DateFilter:     "f",
			CustomRange:    "c",
			StatusFilter:   "s",
			PriorityFilter: "p",
			Sort:           "o",
			Reset:          "R",
			Expand:         "x",
			Select:         "v",
			DeleteSelected: "D",
			Pin:            "P",
			MoveMode:       "m",
		},
	}
}
