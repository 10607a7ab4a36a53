package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL   string
	HTTPAddr      string
	SessionSecret string
	UploadDir     string
	Location      *time.Location
	LogLevel      string
	Env           string // dev|prod
	SentryDSN     string
	BotToken      string // телеграм-уведомления о заказах; пусто — выключено
	AdminChatID   int64
	Seed          bool // наполнять ли базу стартовыми данными
}

func Load() (*Config, error) {
	tz := getenv("TZ", "Europe/Moscow")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	cfg := &Config{
		DatabaseURL:   mustEnv("DATABASE_URL"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		SessionSecret: getenv("SESSION_SECRET", "dev-secret-change-me"),
		UploadDir:     getenv("UPLOAD_DIR", "static/images/products"),
		Location:      loc,
		LogLevel:      getenv("LOG_LEVEL", "info"),
		Env:           getenv("ENV", "dev"),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		BotToken:      os.Getenv("BOT_TOKEN"),
		AdminChatID:   parseInt64(os.Getenv("ADMIN_CHAT_ID")),
		Seed:          getenv("SEED", "1") == "1",
	}
	return cfg, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
