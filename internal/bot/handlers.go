package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finbot/internal/config"
	finlog "finbot/internal/log"
	"finbot/internal/services"
	"finbot/internal/store"
)

type Handler struct {
	api *tgbotapi.BotAPI
	cfg config.Config
	log *finlog.Logger

	expenses *services.Ledger
	incomes  *services.Ledger

	expenseCats *services.Categories
	incomeCats  *services.Categories

	autoExpenses *services.RuleRegistry
	autoIncome   *services.RuleRegistry

	settings *services.SettingsService
}

func NewHandler(api *tgbotapi.BotAPI, cfg config.Config, s *store.Store) *Handler {
	return &Handler{
		api:          api,
		cfg:          cfg,
		log:          finlog.New(finlog.Config{Component: finlog.ComponentBot}),
		expenses:     services.NewLedger(s, store.DomainExpenses),
		incomes:      services.NewLedger(s, store.DomainIncome),
		expenseCats:  services.NewCategories(s, store.DomainCategories, true),
		incomeCats:   services.NewCategories(s, store.DomainIncomeCategories, false),
		autoExpenses: services.NewRuleRegistry(s, store.DomainAutoExpenses),
		autoIncome:   services.NewRuleRegistry(s, store.DomainAutoIncome),
		settings:     services.NewSettingsService(s),
	}
}

// Run drains the long-poll update channel until ctx is cancelled.
func (h *Handler) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := h.api.GetUpdatesChan(u)

	h.log.InfoContext(ctx, "Bot started", "username", h.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			h.api.StopReceivingUpdates()
			return ctx.Err()
		case upd := <-updates:
			h.HandleUpdate(ctx, upd)
		}
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	if !msg.Chat.IsPrivate() {
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	userID := strconv.FormatInt(msg.From.ID, 10)
	chatID := msg.Chat.ID

	cmd, rest := splitCommand(text)
	switch cmd {
	case "/start", "/help":
		h.handleStart(chatID)
	case "/expense":
		h.handleExpense(ctx, chatID, userID, rest)
	case "/income":
		h.handleIncome(ctx, chatID, userID, rest)
	case "/categories":
		h.handleCategories(ctx, chatID, userID, rest)
	case "/report":
		h.handleReport(ctx, chatID, userID)
	case "/limit":
		h.handleLimit(ctx, chatID, userID, rest)
	case "/auto":
		h.handleAuto(ctx, chatID, userID, rest)
	case "/digest":
		h.handleDigest(ctx, chatID, userID)
	default:
		// Bare "<amount> <category> [date]" records an expense.
		h.handleExpense(ctx, chatID, userID, text)
	}
}

func splitCommand(text string) (cmd, rest string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	parts := strings.SplitN(text, " ", 2)
	cmd = parts[0]
	// strip the @BotName suffix Telegram appends in some clients
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}
	if len(parts) == 2 {
		rest = strings.TrimSpace(parts[1])
	}
	return cmd, rest
}

func (h *Handler) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		h.log.Error("Reply failed", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) replyMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := h.api.Send(msg); err != nil {
		h.log.Error("Reply failed", "chat_id", chatID, "error", err)
	}
}
