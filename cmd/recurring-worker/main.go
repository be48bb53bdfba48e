package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"finbot/internal/amqp"
	"finbot/internal/config"
	"finbot/internal/notify"
	"finbot/internal/scheduler"
	"finbot/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting recurring-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	st, err := store.New(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to initialize data store", "error", err, "dir", cfg.DataDir)
		os.Exit(1)
	}

	// Notification chain: AMQP handoff when configured, direct Telegram when
	// a token is present, otherwise materialize silently.
	var notifier notify.Notifier = notify.Noop{}
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, falling back", "error", err)
		} else {
			defer amqpClient.Close()
			notifier = amqpClient
			logger.Info("AMQP notification handoff enabled", "exchange", cfg.AMQPExchange)
		}
	}
	if _, ok := notifier.(notify.Noop); ok && cfg.BotToken != "" {
		api, err := tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			logger.Warn("Failed to initialize Telegram API, notifications disabled", "error", err)
		} else {
			notifier = notify.NewTelegram(api, cfg.NotifyTimeout)
			logger.Info("Direct Telegram notifications enabled")
		}
	}

	sched := scheduler.New(st, notifier, cfg.TickInterval, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Scheduler configured", "interval", cfg.TickInterval, "data_dir", cfg.DataDir)

	// Evaluate once on startup so a restart near a rule's minute is not a
	// guaranteed miss.
	if count, err := sched.Tick(ctx, time.Now()); err != nil {
		logger.Error("Initial tick failed", "error", err)
	} else if count > 0 {
		logger.Info("Initial tick complete", "entries_created", count)
	}

	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
		<-done
	case err := <-done:
		if err != nil && err != context.Canceled {
			logger.Error("Scheduler stopped with error", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Recurring-worker stopped")
}
