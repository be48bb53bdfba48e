package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"finbot/internal/core"
	"finbot/internal/store"
)

// Ledger manages one ledger domain (income or expenses) for all users.
type Ledger struct {
	store  *store.Store
	domain store.Domain
}

func NewLedger(s *store.Store, domain store.Domain) *Ledger {
	return &Ledger{store: s, domain: domain}
}

func (l *Ledger) Domain() store.Domain { return l.domain }

// Add validates and appends an entry to the user's ledger.
func (l *Ledger) Add(ctx context.Context, userID string, entry core.Entry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validate entry: %w", err)
	}

	data, err := l.store.LoadLedger(l.domain)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	data[userID] = append(data[userID], entry)
	if err := l.store.SaveLedger(l.domain, data); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}

	slog.InfoContext(ctx, "Ledger entry added",
		"user_id", userID,
		"domain", l.domain,
		"entry_id", entry.ID,
		"category", entry.Category,
		"amount", entry.Amount.String(),
		"date", entry.Date.String())
	return nil
}

// List returns the user's entries; a missing user means an empty slice.
func (l *Ledger) List(ctx context.Context, userID string) ([]core.Entry, error) {
	data, err := l.store.LoadLedger(l.domain)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return data[userID], nil
}

// ListByCategory returns the user's entries for one category, oldest first.
func (l *Ledger) ListByCategory(ctx context.Context, userID, category string) ([]core.Entry, error) {
	entries, err := l.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	var filtered []core.Entry
	for _, e := range entries {
		if e.Category == category {
			filtered = append(filtered, e)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.Before(filtered[j].Date.Time)
	})
	return filtered, nil
}

// Update rewrites the amount and date of the entry with the given id. For
// records written before ids existed, pass the entry's current amount and
// date as oldAmount/oldDate with an empty id: the first value match in
// ledger order is edited.
func (l *Ledger) Update(ctx context.Context, userID, entryID string, oldAmount core.Amount, oldDate core.Date, newAmount core.Amount, newDate core.Date) error {
	data, err := l.store.LoadLedger(l.domain)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	entries := data[userID]
	i := findEntry(entries, entryID, oldAmount, oldDate)
	if i < 0 {
		return core.ErrEntryNotFound
	}
	entries[i].Amount = newAmount
	entries[i].Date = newDate
	if err := entries[i].Validate(); err != nil {
		return fmt.Errorf("validate entry: %w", err)
	}

	data[userID] = entries
	if err := l.store.SaveLedger(l.domain, data); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}

	slog.InfoContext(ctx, "Ledger entry updated",
		"user_id", userID,
		"domain", l.domain,
		"entry_id", entries[i].ID,
		"amount", newAmount.String(),
		"date", newDate.String())
	return nil
}

// Delete removes the entry with the given id, falling back to the first
// value match for pre-id records.
func (l *Ledger) Delete(ctx context.Context, userID, entryID string, oldAmount core.Amount, oldDate core.Date) error {
	data, err := l.store.LoadLedger(l.domain)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	entries := data[userID]
	i := findEntry(entries, entryID, oldAmount, oldDate)
	if i < 0 {
		return core.ErrEntryNotFound
	}
	removed := entries[i]
	data[userID] = append(entries[:i], entries[i+1:]...)
	if err := l.store.SaveLedger(l.domain, data); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}

	slog.InfoContext(ctx, "Ledger entry deleted",
		"user_id", userID,
		"domain", l.domain,
		"entry_id", removed.ID,
		"category", removed.Category)
	return nil
}

// Summary aggregates the user's ledger by category.
func (l *Ledger) Summary(ctx context.Context, userID string) (core.Summary, error) {
	entries, err := l.List(ctx, userID)
	if err != nil {
		return core.Summary{}, err
	}
	return core.Summarize(entries, DefaultCategory), nil
}

// TotalOn sums the user's entries dated on the given day.
func (l *Ledger) TotalOn(ctx context.Context, userID string, day core.Date) (core.Amount, error) {
	entries, err := l.List(ctx, userID)
	if err != nil {
		return core.Amount{}, err
	}
	return core.TotalOn(entries, day), nil
}

// findEntry locates an entry by id when one is given, otherwise by the first
// amount+date value match in current ledger order. Value matching is
// ambiguous for duplicates; which duplicate is picked follows file order and
// is not otherwise guaranteed.
func findEntry(entries []core.Entry, entryID string, amount core.Amount, date core.Date) int {
	if entryID != "" {
		for i, e := range entries {
			if e.ID == entryID {
				return i
			}
		}
		return -1
	}
	for i, e := range entries {
		if e.Amount.Equal(amount) && e.Date.SameDay(date) {
			return i
		}
	}
	return -1
}
