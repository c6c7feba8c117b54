package update

import (
	"os"
	"strconv"
	"strings"

	"myguide/internal/model"
)

type RuntimeConfig struct {
	DBPath               string
	DesktopNotifications bool
	ReminderBuffer       int
	WeekStartDay         string
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:               "myguide.db",
		DesktopNotifications: false,
		ReminderBuffer:       64,
		WeekStartDay:         "",
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("MYGUIDE_DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	if v, ok := getEnvBool("MYGUIDE_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("MYGUIDE_REMINDER_BUFFER"); ok && v > 0 {
		cfg.ReminderBuffer = v
	}
	if v := strings.TrimSpace(os.Getenv("MYGUIDE_WEEK_START")); v != "" {
		if _, err := model.ParseWeekday(v); err == nil {
			cfg.WeekStartDay = v
		}
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

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
