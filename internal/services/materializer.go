package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finbot/internal/core"
	"finbot/internal/notify"
)

// Materializer turns a matched recurring rule into a concrete dated ledger
// entry. The append goes into the caller's in-memory ledger mutation; the
// caller persists the whole domain once per tick. Notification is queued
// separately and is best effort.
type Materializer struct {
	notifier notify.Notifier
	kind     string // "income" or "expense", used in notification text
}

func NewMaterializer(notifier notify.Notifier, kind string) *Materializer {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Materializer{notifier: notifier, kind: kind}
}

// Materialize appends a new entry for the rule, dated on now's calendar
// day, to the user's slice in ledger. Prior entries are never touched.
func (m *Materializer) Materialize(ctx context.Context, userID string, rule core.Rule, now time.Time, ledger map[string][]core.Entry) core.Entry {
	entry := core.NewEntry(rule.Category, rule.Amount, core.Today(now))
	ledger[userID] = append(ledger[userID], entry)

	slog.InfoContext(ctx, "Materialized recurring entry",
		"user_id", userID,
		"entry_id", entry.ID,
		"category", entry.Category,
		"amount", entry.Amount.String(),
		"date", entry.Date.String(),
		"interval", rule.Interval)
	return entry
}

// NotifyBestEffort tells the user about a materialized entry. Unreachable
// users are logged and skipped; the ledger write is never affected.
func (m *Materializer) NotifyBestEffort(ctx context.Context, userID string, entry core.Entry) {
	message := fmt.Sprintf("📥 Added automatic %s: %s — %s", m.kind, entry.Category, entry.Amount.Display())
	if err := m.notifier.Notify(ctx, userID, message); err != nil {
		slog.WarnContext(ctx, "Notification delivery failed",
			"user_id", userID,
			"entry_id", entry.ID,
			"error", err)
	}
}
