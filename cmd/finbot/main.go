package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"finbot/internal/amqp"
	"finbot/internal/bot"
	"finbot/internal/config"
	"finbot/internal/notify"
	"finbot/internal/scheduler"
	"finbot/internal/services"
	"finbot/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting finbot")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.BotToken == "" {
		logger.Error("BOT_TOKEN is required")
		os.Exit(1)
	}

	st, err := store.New(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to initialize data store", "error", err, "dir", cfg.DataDir)
		os.Exit(1)
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Error("Failed to initialize Telegram API", "error", err)
		os.Exit(1)
	}
	logger.Info("Telegram API ready", "username", api.Self.UserName)

	telegram := notify.NewTelegram(api, cfg.NotifyTimeout)

	// Prefer the AMQP handoff when configured; the notify-worker delivers
	// those. Otherwise send directly.
	var notifier notify.Notifier = telegram
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, sending notifications directly", "error", err)
		} else {
			defer amqpClient.Close()
			notifier = amqpClient
			logger.Info("AMQP notification handoff enabled", "exchange", cfg.AMQPExchange)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := bot.NewHandler(api, *cfg, st)
	sched := scheduler.New(st, notifier, cfg.TickInterval, nil)
	digest := services.NewDigest(st, notifier, cfg.DigestHour)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return handler.Run(ctx) })
	g.Go(func() error { return sched.Run(ctx) })
	g.Go(func() error { return digest.Run(ctx) })

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Finbot stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Finbot stopped")
}
