// Package config loads the planner configuration from a TOML file and
// applies TIMEPLANNER_* environment overrides on top.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "timeplanner.toml"
	DefaultDBName         = "timeplanner.db"

	// DefaultExpandCron expands recurring templates into the upcoming day
	// shortly after midnight.
	DefaultExpandCron = "5 0 * * *"
)

type Keymap struct {
	Quit       string `toml:"quit"`
	PrevDay    string `toml:"prev_day"`
	NextDay    string `toml:"next_day"`
	Up         string `toml:"up"`
	Down       string `toml:"down"`
	ShiftUp    string `toml:"shift_up"`
	ShiftDown  string `toml:"shift_down"`
	ToggleDone string `toml:"toggle_done"`
	Detail     string `toml:"detail"`
	Palette    string `toml:"palette"`
	Confirm    string `toml:"confirm"`
	Cancel     string `toml:"cancel"`
}

type Config struct {
	DBPath               string `toml:"db_path"`
	Timezone             string `toml:"timezone"`
	ShiftStepMinutes     int    `toml:"shift_step_minutes"`
	BeforeEndLeadMinutes int    `toml:"before_end_lead_minutes"`
	ExpandCron           string `toml:"expand_cron"`
	LogLevel             string `toml:"log_level"`
	Keys                 Keymap `toml:"keys"`
}

// LoadOrCreate reads the config at path, writing the defaults there first
// when no file exists. Environment overrides are applied last so they win
// over the file either way.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return applyEnv(cfg), nil
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
	if cfg.ShiftStepMinutes <= 0 {
		cfg.ShiftStepMinutes = 5
	}
	if cfg.BeforeEndLeadMinutes <= 0 {
		cfg.BeforeEndLeadMinutes = 10
	}
	if cfg.ExpandCron == "" {
		cfg.ExpandCron = DefaultExpandCron
	}
	return applyEnv(cfg), nil
}

// Location resolves the configured timezone, falling back to the system
// local zone when unset.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c Config) BeforeEndLead() time.Duration {
	return time.Duration(c.BeforeEndLeadMinutes) * time.Minute
}

func applyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv("TIMEPLANNER_DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("TIMEPLANNER_TIMEZONE")); v != "" {
		cfg.Timezone = v
	}
	if v, ok := getEnvInt("TIMEPLANNER_SHIFT_STEP_MINUTES"); ok && v > 0 {
		cfg.ShiftStepMinutes = v
	}
	if v, ok := getEnvInt("TIMEPLANNER_BEFORE_END_LEAD_MINUTES"); ok && v > 0 {
		cfg.BeforeEndLeadMinutes = v
	}
	if v := strings.TrimSpace(os.Getenv("TIMEPLANNER_EXPAND_CRON")); v != "" {
		cfg.ExpandCron = v
	}
	if v := strings.TrimSpace(os.Getenv("TIMEPLANNER_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
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
		DBPath:               DefaultDBName,
		Timezone:             "",
		ShiftStepMinutes:     5,
		BeforeEndLeadMinutes: 10,
		ExpandCron:           DefaultExpandCron,
		LogLevel:             "info",
		Keys: Keymap{
			Quit:       "q",
			PrevDay:    "h",
			NextDay:    "l",
			Up:         "k",
			Down:       "j",
			ShiftUp:    "+",
			ShiftDown:  "-",
			ToggleDone: " ",
			Detail:     "enter",
			Palette:    ":",
			Confirm:    "enter",
			Cancel:     "esc",
		},
	}
}
