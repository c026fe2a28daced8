package config

import (
	"errors"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "studybuddy.db"
	DefaultResourcesPath  = "resources.json"
	DefaultSoonDueDays    = 2
	DefaultWeekStart      = "friday"
)

type Keymap struct {
	Quit        string `toml:"quit"`
	NextSection string `toml:"next_section"`
	PrevSection string `toml:"prev_section"`
	Up          string `toml:"up"`
	Down        string `toml:"down"`
	Add         string `toml:"add"`
	Edit        string `toml:"edit"`
	Toggle      string `toml:"toggle"`
	Delete      string `toml:"delete"`
	Confirm     string `toml:"confirm"`
	Cancel      string `toml:"cancel"`
	Filter      string `toml:"filter"`
	Sort        string `toml:"sort"`
	Search      string `toml:"search"`
	Category    string `toml:"category"`
	Theme       string `toml:"theme"`
	Reset       string `toml:"reset"`
}

type Config struct {
	DBPath        string `toml:"db_path"`
	ResourcesPath string `toml:"resources_path"`
	DefaultFilter string `toml:"default_filter"`
	DefaultSort   string `toml:"default_sort"`
	SoonDueDays   int    `toml:"soon_due_days"`
	WeekStart     string `toml:"week_start"`
	Keys          Keymap `toml:"keys"`
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.ResourcesPath == "" {
		cfg.ResourcesPath = DefaultResourcesPath
	}
	if cfg.SoonDueDays < 0 {
		cfg.SoonDueDays = DefaultSoonDueDays
	}
	return cfg, nil
}

// WeekStartDay maps the configured week_start name to a weekday, falling
// back to Friday on anything unrecognized.
func (c Config) WeekStartDay() time.Weekday {
	switch strings.ToLower(strings.TrimSpace(c.WeekStart)) {
	case "sunday":
		return time.Sunday
	case "monday":
		return time.Monday
	case "tuesday":
		return time.Tuesday
	case "wednesday":
		return time.Wednesday
	case "thursday":
		return time.Thursday
	case "friday":
		return time.Friday
	case "saturday":
		return time.Saturday
	}
	return time.Friday
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:        DefaultDBName,
		ResourcesPath: DefaultResourcesPath,
		DefaultFilter: "all",
		DefaultSort:   "due",
		SoonDueDays:   DefaultSoonDueDays,
		WeekStart:     DefaultWeekStart,
		Keys: Keymap{
			Quit:        "q",
			NextSection: "tab",
			PrevSection: "shift+tab",
			Up:          "k",
			Down:        "j",
			Add:         "a",
			Edit:        "e",
			Toggle:      " ",
			Delete:      "d",
			Confirm:     "enter",
			Cancel:      "esc",
			Filter:      "f",
			Sort:        "s",
			Search:      "/",
			Category:    "c",
			Theme:       "t",
			Reset:       "r",
		},
	}
}
