package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/EmmeEffe/TimePlanner/internal/alarm"
	"github.com/EmmeEffe/TimePlanner/internal/config"
	"github.com/EmmeEffe/TimePlanner/internal/logging"
	"github.com/EmmeEffe/TimePlanner/internal/model"
	"github.com/EmmeEffe/TimePlanner/internal/planner"
	"github.com/EmmeEffe/TimePlanner/internal/storage"
	"github.com/EmmeEffe/TimePlanner/internal/update"
)

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("TIMEPLANNER_CONFIG")
	if configPath == "" {
		configPath = config.DefaultConfigFileName
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "timeplanner: load config: %v\n", err)
		os.Exit(1)
	}

	logFile, err := logging.OpenLogFile("timeplanner.log")
	if err != nil {
		fmt.Fprintf(os.Stderr, "timeplanner: open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := logging.New(logging.Options{Writer: logFile, Level: cfg.LogLevel})
	logger.Info("loaded config", "path", configPath, "db", cfg.DBPath)

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("bad timezone", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}
	clock := func() time.Time { return time.Now().In(loc) }

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		logger.Error("run migrations", "error", err)
		os.Exit(1)
	}

	engine := alarm.NewEngine(64)
	engine.Start()
	defer engine.Stop()
	alarms := alarm.NewManager(engine, clock, cfg.BeforeEndLead(), logger)

	shifter := planner.NewTimeShift(repo, repo, clock, logger)
	materializer := planner.NewMaterializer(repo, repo, repo, clock, logger)

	if err := prepareDays(context.Background(), repo, materializer, alarms, clock, logger); err != nil {
		logger.Error("prepare upcoming days", "error", err)
	}

	jobs := cron.New(cron.WithLocation(loc))
	if _, err := jobs.AddFunc(cfg.ExpandCron, func() {
		if err := prepareDays(context.Background(), repo, materializer, alarms, clock, logger); err != nil {
			logger.Error("scheduled day preparation failed", "error", err)
		}
	}); err != nil {
		logger.Error("bad expand cron expression", "cron", cfg.ExpandCron, "error", err)
		os.Exit(1)
	}
	jobs.Start()
	defer jobs.Stop()

	m := update.NewModel(update.Deps{
		Schedules:    repo,
		Templates:    repo,
		Categories:   repo,
		Shifter:      shifter,
		Materializer: materializer,
		Alarms:       alarms,
		AlarmEvents:  engine.C(),
		Keys:         cfg.Keys,
		ShiftStep:    cfg.ShiftStepMinutes,
		Clock:        clock,
		Log:          logger,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "timeplanner failed: %v\n", err)
		os.Exit(1)
	}
}

// prepareDays expands recurring templates into today and tomorrow and
// re-registers alarms for the upcoming week. Run at startup and on the
// expand cron so alarms survive restarts.
func prepareDays(
	ctx context.Context,
	repo *storage.SQLiteRepository,
	materializer *planner.Materializer,
	alarms *alarm.Manager,
	clock planner.Clock,
	logger *log.Logger,
) error {
	today := model.DateOf(clock())
	for _, day := range []time.Time{today, model.ShiftDay(today, 1)} {
		created, err := materializer.EnsureDay(ctx, day)
		if err != nil {
			return fmt.Errorf("expand templates for %s: %w", day.Format("2006-01-02"), err)
		}
		if len(created) > 0 {
			logger.Info("expanded templates", "day", day.Format("2006-01-02"), "tasks", len(created))
		}
	}

	schedules, err := repo.FetchSchedulesByRange(ctx, today, model.ShiftDay(today, 7))
	if err != nil {
		return fmt.Errorf("load upcoming schedules: %w", err)
	}
	for _, schedule := range schedules {
		for _, task := range schedule.Tasks {
			if task.IsCompleted || !task.EnableNotification {
				continue
			}
			if err := alarms.AddOrUpdate(task); err != nil {
				return fmt.Errorf("register alarms for task %d: %w", task.Key, err)
			}
		}
	}
	return nil
}
