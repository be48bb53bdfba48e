package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"finbot/internal/amqp"
	"finbot/internal/config"
	"finbot/internal/notify"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting notify-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the notify-worker")
		os.Exit(1)
	}
	if cfg.BotToken == "" {
		logger.Error("BOT_TOKEN is required for the notify-worker")
		os.Exit(1)
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Error("Failed to initialize Telegram API", "error", err)
		os.Exit(1)
	}
	telegram := notify.NewTelegram(api, cfg.NotifyTimeout)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Consuming notifications", "queue", cfg.AMQPQueue)

	done := make(chan error, 1)
	go func() {
		done <- amqpClient.ConsumeNotifications(ctx, func(msg *amqp.NotificationMessage) error {
			err := telegram.Notify(ctx, msg.UserID, msg.Message)
			if err != nil {
				// Unreachable users are dropped, not requeued; anything else
				// goes back on the queue for another attempt.
				if errors.Is(err, notify.ErrUnreachable) {
					logger.Warn("User unreachable, dropping notification",
						"user_id", msg.UserID, "error", err)
					return nil
				}
				return err
			}
			return nil
		})
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
		<-done
	case err := <-done:
		if err != nil && err != context.Canceled {
			logger.Error("Consumption failed", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Notify-worker stopped")
}
