package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"myguide/internal/reminder"
	"myguide/internal/storage"
	"myguide/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "myguide failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Migrate(); err != nil {
		return err
	}

	st, err := repo.Load(context.Background())
	if err != nil {
		return err
	}

	var notifier reminder.Notifier = reminder.NoopNotifier{}
	if cfg.DesktopNotifications && st.Settings.NotificationsEnabled {
		notifier = reminder.DesktopNotifier{}
	}
	sched := reminder.NewScheduler(reminder.NewEngine(cfg.ReminderBuffer), notifier)
	sched.Start()
	defer sched.Stop()

	// Arm reminders for each course's next class on startup; task reminders
	// are armed as tasks are added.
	now := time.Now()
	for _, c := range st.Courses {
		sched.ScheduleClass(c, now)
	}

	program := tea.NewProgram(update.NewModelWithRuntime(st, repo, sched, cfg))
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}
