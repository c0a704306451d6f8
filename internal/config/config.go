package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the app.
type Config struct {
	TelegramToken   string
	OwnerChatID     int64
	DatabaseURL     string
	MorningReminder string
	EveningReminder string
	TickInterval    time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken:   strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		MorningReminder: strings.TrimSpace(os.Getenv("MORNING_REMINDER")),
		EveningReminder: strings.TrimSpace(os.Getenv("EVENING_REMINDER")),
		TickInterval:    parseMinutes(strings.TrimSpace(os.Getenv("TICK_INTERVAL_MINUTES"))),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "task_keeper.db"
	}
	if cfg.MorningReminder == "" {
		cfg.MorningReminder = "09:00"
	}
	if cfg.EveningReminder == "" {
		cfg.EveningReminder = "19:00"
	}
	if cfg.TickInterval == 0 {
		cfg.TickInterval = 30 * time.Minute
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	rawChat := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID"))
	if rawChat == "" {
		return cfg, fmt.Errorf("TELEGRAM_CHAT_ID is required")
	}
	chatID, err := strconv.ParseInt(rawChat, 10, 64)
	if err != nil {
		return cfg, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", rawChat, err)
	}
	cfg.OwnerChatID = chatID

	return cfg, nil
}

func parseMinutes(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}
