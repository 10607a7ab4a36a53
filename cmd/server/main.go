package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Spok95/school-rewards-web/internal/config"
	"github.com/Spok95/school-rewards-web/internal/db"
	"github.com/Spok95/school-rewards-web/internal/logging"
	"github.com/Spok95/school-rewards-web/internal/notify"
	"github.com/Spok95/school-rewards-web/internal/observability"
	"github.com/Spok95/school-rewards-web/internal/web"
)

const release = "school-rewards-web@dev"

func main() {
	// Загрузка переменных окружения
	if err := godotenv.Load(); err != nil {
		log.Println("Не удалось загрузить .env файл, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Ошибка инициализации логгера: %v", err)
	}
	defer lg.Closer()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, release)
	if err != nil {
		lg.Sugar.Warnw("sentry init failed", "err", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		lg.Sugar.Fatalw("db open failed", "err", err)
	}
	defer func() { _ = database.Close() }()

	if err := db.Migrate(database); err != nil {
		lg.Sugar.Fatalw("migrate failed", "err", err)
	}
	if cfg.Seed {
		if err := db.Seed(ctx, database); err != nil {
			lg.Sugar.Fatalw("seed failed", "err", err)
		}
	}

	notifier := notify.NewTelegram(cfg.BotToken, cfg.AdminChatID, lg.Sugar)

	// При наличии каталога шаблонов отдаём HTML, иначе сервер работает
	// в JSON-режиме (API и интеграционные окружения).
	var render web.Renderer
	if st, err := os.Stat("templates"); err == nil && st.IsDir() {
		render = web.TemplateRenderer{}
	}

	srv := web.New(database, cfg, lg.Sugar, render, notifier)
	lg.Sugar.Infow("🚀 server starting", "addr", cfg.HTTPAddr, "env", cfg.Env)
	if err := srv.Run(ctx); err != nil {
		lg.Sugar.Fatalw("server stopped", "err", err)
	}
	lg.Sugar.Infow("server shut down")
}
