package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finbot/internal/core"
	"finbot/internal/services"
)

const startText = `Hi! I track your money.

/expense 250 Food — record an expense (or just type "250 Food")
/income 5000 Salary — record income
/report — expenses by category
/categories — manage expense categories
/limit 500 — warn when a day's spending passes 500 (/limit off to clear)
/auto — recurring rules, e.g. /auto add income 5000 Salary monthly 31
/digest — toggle the morning report

Dates are DD/MM/YYYY and default to today.`

func (h *Handler) handleStart(chatID int64) {
	h.reply(chatID, startText)
}

func (h *Handler) handleExpense(ctx context.Context, chatID int64, userID, text string) {
	parsed, err := ParseEntryText(text, time.Now())
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	entry := core.NewEntry(parsed.Category, parsed.Amount, parsed.Date)
	if err := h.expenses.Add(ctx, userID, entry); err != nil {
		h.log.ErrorContext(ctx, "Add expense failed", "user_id", userID, "error", err)
		h.reply(chatID, "❌ Could not save the expense, try again")
		return
	}

	h.reply(chatID, fmt.Sprintf("💸 Spent %s on %s (%s)", entry.Amount.Display(), entry.Category, entry.Date))
	h.warnIfOverLimit(ctx, chatID, userID, parsed.Date)
}

func (h *Handler) handleIncome(ctx context.Context, chatID int64, userID, text string) {
	parsed, err := ParseEntryText(text, time.Now())
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	entry := core.NewEntry(parsed.Category, parsed.Amount, parsed.Date)
	if err := h.incomes.Add(ctx, userID, entry); err != nil {
		h.log.ErrorContext(ctx, "Add income failed", "user_id", userID, "error", err)
		h.reply(chatID, "❌ Could not save the income, try again")
		return
	}

	// Remember income sources as they appear; duplicates are fine to skip.
	if err := h.incomeCats.Add(ctx, userID, entry.Category); err != nil && !errors.Is(err, services.ErrCategoryExists) {
		h.log.WarnContext(ctx, "Income category not recorded", "user_id", userID, "error", err)
	}

	h.reply(chatID, fmt.Sprintf("💰 Got %s from %s (%s)", entry.Amount.Display(), entry.Category, entry.Date))
}

func (h *Handler) warnIfOverLimit(ctx context.Context, chatID int64, userID string, day core.Date) {
	total, err := h.expenses.TotalOn(ctx, userID, day)
	if err != nil {
		return
	}
	over, limit, err := h.settings.CheckDailyLimit(ctx, userID, total)
	if err != nil || !over {
		return
	}
	h.reply(chatID, fmt.Sprintf("⚠️ You're over your daily limit: %s spent, limit %s", total.Display(), limit.Display()))
}

func (h *Handler) handleCategories(ctx context.Context, chatID int64, userID, rest string) {
	args := strings.Fields(rest)
	if len(args) == 0 {
		h.listCategories(ctx, chatID, userID)
		return
	}

	sub := strings.ToLower(args[0])
	args = args[1:]

	var err error
	switch sub {
	case "add":
		if len(args) == 0 {
			h.reply(chatID, "Use: /categories add <name>")
			return
		}
		err = h.expenseCats.Add(ctx, userID, strings.Join(args, " "))
	case "del", "delete":
		if len(args) == 0 {
			h.reply(chatID, "Use: /categories del <name>")
			return
		}
		err = h.expenseCats.Delete(ctx, userID, strings.Join(args, " "))
	case "rename":
		// names may contain spaces, so the separator is an arrow
		from, to, ok := strings.Cut(strings.Join(args, " "), "->")
		if !ok {
			h.reply(chatID, "Use: /categories rename <old> -> <new>")
			return
		}
		err = h.expenseCats.Rename(ctx, userID, strings.TrimSpace(from), strings.TrimSpace(to))
	case "up":
		err = h.expenseCats.MoveUp(ctx, userID, strings.Join(args, " "))
	case "down":
		err = h.expenseCats.MoveDown(ctx, userID, strings.Join(args, " "))
	default:
		h.reply(chatID, "Use: /categories [add|del|rename|up|down]")
		return
	}

	switch {
	case errors.Is(err, services.ErrCategoryExists):
		h.reply(chatID, "❌ That category already exists")
	case errors.Is(err, services.ErrCategoryNotFound):
		h.reply(chatID, "❌ No such category")
	case err != nil:
		h.log.ErrorContext(ctx, "Category update failed", "user_id", userID, "error", err)
		h.reply(chatID, "❌ Could not update categories, try again")
	default:
		h.listCategories(ctx, chatID, userID)
	}
}

func (h *Handler) listCategories(ctx context.Context, chatID int64, userID string) {
	cats, err := h.expenseCats.List(ctx, userID)
	if err != nil {
		h.log.ErrorContext(ctx, "List categories failed", "user_id", userID, "error", err)
		h.reply(chatID, "❌ Could not load categories, try again")
		return
	}

	var b strings.Builder
	b.WriteString("🗂 *Your categories:*\n")
	for i, c := range cats {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}
	h.replyMarkdown(chatID, b.String())
}

func (h *Handler) handleReport(ctx context.Context, chatID int64, userID string) {
	summary, err := h.expenses.Summary(ctx, userID)
	if err != nil {
		h.log.ErrorContext(ctx, "Report failed", "user_id", userID, "error", err)
		h.reply(chatID, "❌ Could not build the report, try again")
		return
	}
	if len(summary.ByCategory) == 0 {
		h.reply(chatID, "Nothing recorded yet. Try: 250 Food")
		return
	}

	var b strings.Builder
	b.WriteString("📊 *Expenses by category:*\n")
	for _, ca := range summary.ByCategory {
		fmt.Fprintf(&b, "• %s: %s\n", ca.Name, ca.Amount.Display())
	}
	fmt.Fprintf(&b, "\nTotal: %s", summary.Total.Display())
	h.replyMarkdown(chatID, b.String())
}

func (h *Handler) handleLimit(ctx context.Context, chatID int64, userID, rest string) {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		settings, err := h.settings.Get(ctx, userID)
		if err != nil {
			h.reply(chatID, "❌ Could not load settings, try again")
			return
		}
		if settings.DailyLimit == nil {
			h.reply(chatID, "No daily limit set. Use: /limit 500")
			return
		}
		h.reply(chatID, "Daily limit: "+settings.DailyLimit.Display())
		return
	}

	if strings.EqualFold(rest, "off") {
		if err := h.settings.ClearDailyLimit(ctx, userID); err != nil {
			h.reply(chatID, "❌ Could not update settings, try again")
			return
		}
		h.reply(chatID, "Daily limit removed")
		return
	}

	limit, err := core.ParseAmount(rest)
	if err != nil {
		h.reply(chatID, "❌ Bad amount. Use: /limit 500 or /limit off")
		return
	}
	if err := h.settings.SetDailyLimit(ctx, userID, limit); err != nil {
		h.log.ErrorContext(ctx, "Set limit failed", "user_id", userID, "error", err)
		h.reply(chatID, "❌ Could not update settings, try again")
		return
	}
	h.reply(chatID, "Daily limit set to "+limit.Display())
}

const autoUsage = `Use:
/auto list
/auto add <income|expense> <amount> <category> daily [HH:MM]
/auto add <income|expense> <amount> <category> weekly <weekday> [HH:MM]
/auto add <income|expense> <amount> <category> monthly <day> [HH:MM]
/auto del <income|expense> <category>`

func (h *Handler) handleAuto(ctx context.Context, chatID int64, userID, rest string) {
	args := strings.Fields(rest)
	if len(args) == 0 {
		h.reply(chatID, autoUsage)
		return
	}

	switch strings.ToLower(args[0]) {
	case "list":
		h.listRules(ctx, chatID, userID)
	case "add":
		h.addRule(ctx, chatID, userID, args[1:])
	case "del", "delete":
		h.deleteRules(ctx, chatID, userID, args[1:])
	default:
		h.reply(chatID, autoUsage)
	}
}

func (h *Handler) registryFor(kind string) *services.RuleRegistry {
	switch strings.ToLower(kind) {
	case "income":
		return h.autoIncome
	case "expense", "expenses":
		return h.autoExpenses
	default:
		return nil
	}
}

func (h *Handler) listRules(ctx context.Context, chatID int64, userID string) {
	income, err := h.autoIncome.List(ctx, userID)
	if err != nil {
		h.reply(chatID, "❌ Could not load rules, try again")
		return
	}
	expenses, err := h.autoExpenses.List(ctx, userID)
	if err != nil {
		h.reply(chatID, "❌ Could not load rules, try again")
		return
	}

	if len(income)+len(expenses) == 0 {
		h.reply(chatID, "No recurring rules yet.\n\n"+autoUsage)
		return
	}

	var b strings.Builder
	b.WriteString("🔁 *Recurring rules:*\n")
	for _, r := range income {
		fmt.Fprintf(&b, "• income: %s\n", describeRule(r))
	}
	for _, r := range expenses {
		fmt.Fprintf(&b, "• expense: %s\n", describeRule(r))
	}
	h.replyMarkdown(chatID, b.String())
}

func describeRule(r core.Rule) string {
	switch r.Interval {
	case core.Weekly:
		return fmt.Sprintf("%s %s weekly on %s at %s", r.Amount.Display(), r.Category, r.DayOfWeek, r.Time)
	case core.Monthly:
		return fmt.Sprintf("%s %s monthly on day %d at %s", r.Amount.Display(), r.Category, r.DayOfMonth, r.Time)
	default:
		return fmt.Sprintf("%s %s daily at %s", r.Amount.Display(), r.Category, r.Time)
	}
}

func (h *Handler) addRule(ctx context.Context, chatID int64, userID string, args []string) {
	if len(args) < 1 {
		h.reply(chatID, autoUsage)
		return
	}
	reg := h.registryFor(args[0])
	if reg == nil {
		h.reply(chatID, autoUsage)
		return
	}

	rule, err := ParseRuleArgs(args[1:], h.cfg.RuleDefaultTime, time.Now())
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	if err := reg.Add(ctx, userID, rule); err != nil {
		h.log.ErrorContext(ctx, "Add rule failed", "user_id", userID, "error", err)
		h.reply(chatID, "❌ Could not save the rule, try again")
		return
	}
	h.reply(chatID, "✅ Rule saved: "+describeRule(rule))
}

func (h *Handler) deleteRules(ctx context.Context, chatID int64, userID string, args []string) {
	if len(args) < 2 {
		h.reply(chatID, "Use: /auto del <income|expense> <category>")
		return
	}
	reg := h.registryFor(args[0])
	if reg == nil {
		h.reply(chatID, "Use: /auto del <income|expense> <category>")
		return
	}

	category := strings.Join(args[1:], " ")
	removed, err := reg.RemoveByCategory(ctx, userID, category)
	if err != nil {
		h.log.ErrorContext(ctx, "Delete rules failed", "user_id", userID, "error", err)
		h.reply(chatID, "❌ Could not delete rules, try again")
		return
	}
	if removed == 0 {
		h.reply(chatID, "No rules for "+category)
		return
	}
	h.reply(chatID, fmt.Sprintf("🗑 Removed %d rule(s) for %s", removed, category))
}

func (h *Handler) handleDigest(ctx context.Context, chatID int64, userID string) {
	on, err := h.settings.ToggleAutoReport(ctx, userID)
	if err != nil {
		h.log.ErrorContext(ctx, "Toggle digest failed", "user_id", userID, "error", err)
		h.reply(chatID, "❌ Could not update settings, try again")
		return
	}
	if on {
		h.reply(chatID, fmt.Sprintf("📬 Morning report is on, expect it around %02d:00", h.cfg.DigestHour))
	} else {
		h.reply(chatID, "📭 Morning report is off")
	}
}
