package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"finbot/internal/core"
	"finbot/internal/notify"
	"finbot/internal/store"
)

// Digest sends each opted-in user a daily expense summary at a fixed hour.
type Digest struct {
	store    *store.Store
	notifier notify.Notifier
	hour     int

	lastSent core.Date
}

func NewDigest(s *store.Store, notifier notify.Notifier, hour int) *Digest {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Digest{store: s, notifier: notifier, hour: hour}
}

// Run checks once an hour whether the digest hour has been reached and
// sends at most one digest per calendar day.
func (d *Digest) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if now.Hour() != d.hour {
				continue
			}
			today := core.Today(now)
			if d.lastSent.SameDay(today) {
				continue
			}
			count, err := d.SendAll(ctx, now)
			if err != nil {
				slog.ErrorContext(ctx, "Digest run failed", "error", err)
				continue
			}
			d.lastSent = today
			slog.InfoContext(ctx, "Digest run complete", "sent", count)
		}
	}
}

// SendAll delivers the digest to every user with the auto-report setting
// enabled and a non-empty expense ledger. Delivery failures are logged per
// user and do not stop the batch.
func (d *Digest) SendAll(ctx context.Context, now time.Time) (int, error) {
	settings, err := d.store.LoadSettings()
	if err != nil {
		return 0, fmt.Errorf("load settings: %w", err)
	}
	expenses, err := d.store.LoadLedger(store.DomainExpenses)
	if err != nil {
		return 0, fmt.Errorf("load expenses: %w", err)
	}

	sent := 0
	for userID, userSettings := range settings {
		if !userSettings.AutoReport {
			continue
		}
		entries := expenses[userID]
		if len(entries) == 0 {
			continue
		}

		message := FormatDigest(core.Summarize(entries, DefaultCategory))
		if err := d.notifier.Notify(ctx, userID, message); err != nil {
			slog.WarnContext(ctx, "Digest delivery failed",
				"user_id", userID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

// FormatDigest renders a category summary as the digest message body.
func FormatDigest(summary core.Summary) string {
	var b strings.Builder
	b.WriteString("📊 *Your report for today:*\n")
	for _, ca := range summary.ByCategory {
		fmt.Fprintf(&b, "• %s: %s\n", ca.Name, ca.Amount.Display())
	}
	fmt.Fprintf(&b, "\nTotal: %s", summary.Total.Display())
	return b.String()
}
