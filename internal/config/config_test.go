package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file created: %v", err)
	}
	if cfg.DBPath != DefaultDBName {
		t.Fatalf("unexpected db path: %q", cfg.DBPath)
	}
	if cfg.ShiftStepMinutes != 5 || cfg.BeforeEndLeadMinutes != 10 {
		t.Fatalf("unexpected shift defaults: %+v", cfg)
	}
	if cfg.ExpandCron != DefaultExpandCron {
		t.Fatalf("unexpected expand cron: %q", cfg.ExpandCron)
	}
	if cfg.Keys.ShiftUp != "+" || cfg.Keys.ShiftDown != "-" {
		t.Fatalf("unexpected shift keys: %+v", cfg.Keys)
	}
}

func TestLoadOrCreateReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	contents := "db_path = \"plans.db\"\nshift_step_minutes = 15\nlog_level = \"debug\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.DBPath != "plans.db" || cfg.ShiftStepMinutes != 15 || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	// Missing fields fall back to defaults.
	if cfg.BeforeEndLeadMinutes != 10 || cfg.ExpandCron != DefaultExpandCron {
		t.Fatalf("unexpected fallback values: %+v", cfg)
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	if err := os.WriteFile(path, []byte("shift_step_minutes = 15\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("TIMEPLANNER_DB_PATH", "override.db")
	t.Setenv("TIMEPLANNER_SHIFT_STEP_MINUTES", "20")
	t.Setenv("TIMEPLANNER_BEFORE_END_LEAD_MINUTES", "25")
	t.Setenv("TIMEPLANNER_LOG_LEVEL", "warn")

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.DBPath != "override.db" || cfg.ShiftStepMinutes != 20 || cfg.LogLevel != "warn" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.BeforeEndLead() != 25*time.Minute {
		t.Fatalf("unexpected before-end lead: %v", cfg.BeforeEndLead())
	}
}

func TestLocation(t *testing.T) {
	cfg := Config{Timezone: ""}
	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Fatalf("expected local zone, got %v err=%v", loc, err)
	}

	cfg.Timezone = "UTC"
	loc, err = cfg.Location()
	if err != nil || loc.String() != "UTC" {
		t.Fatalf("expected UTC, got %v err=%v", loc, err)
	}

	cfg.Timezone = "Not/AZone"
	if _, err := cfg.Location(); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}
