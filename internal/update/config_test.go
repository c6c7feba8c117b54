package update

import "testing"

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("MYGUIDE_DB_PATH", "/tmp/guide.db")
	t.Setenv("MYGUIDE_DESKTOP_NOTIFICATIONS", "true")
	t.Setenv("MYGUIDE_REMINDER_BUFFER", "128")
	t.Setenv("MYGUIDE_WEEK_START", "Monday")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.DBPath != "/tmp/guide.db" {
		t.Fatalf("db path = %q", cfg.DBPath)
	}
	if !cfg.DesktopNotifications {
		t.Fatal("desktop notifications should be on")
	}
	if cfg.ReminderBuffer != 128 {
		t.Fatalf("buffer = %d", cfg.ReminderBuffer)
	}
	if cfg.WeekStartDay != "Monday" {
		t.Fatalf("week start = %q", cfg.WeekStartDay)
	}
}

func TestRuntimeConfigIgnoresInvalidValues(t *testing.T) {
	t.Setenv("MYGUIDE_DESKTOP_NOTIFICATIONS", "maybe")
	t.Setenv("MYGUIDE_REMINDER_BUFFER", "-3")
	t.Setenv("MYGUIDE_WEEK_START", "Someday")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.DesktopNotifications {
		t.Fatal("unparseable bool must keep default")
	}
	if cfg.ReminderBuffer != 64 {
		t.Fatalf("buffer = %d, want default 64", cfg.ReminderBuffer)
	}
	if cfg.WeekStartDay != "" {
		t.Fatalf("week start = %q, want default", cfg.WeekStartDay)
	}
}
