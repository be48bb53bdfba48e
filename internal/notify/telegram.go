package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram delivers notifications as direct Telegram messages. Each send is
// bounded by timeout so one unreachable user cannot stall a batch.
type Telegram struct {
	api     *tgbotapi.BotAPI
	timeout time.Duration
}

func NewTelegram(api *tgbotapi.BotAPI, timeout time.Duration) *Telegram {
	return &Telegram{api: api, timeout: timeout}
}

func (t *Telegram) Notify(ctx context.Context, userID, message string) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad user id %q", ErrUnreachable, userID)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	msg := tgbotapi.NewMessage(chatID, message)
	msg.ParseMode = tgbotapi.ModeMarkdown

	// The bot API client has no context support; run the send aside and
	// bound the wait.
	done := make(chan error, 1)
	go func() {
		_, err := t.api.Send(msg)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrUnreachable, ctx.Err())
	}
}
