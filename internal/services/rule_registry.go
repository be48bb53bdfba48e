package services

import (
	"context"
	"fmt"
	"log/slog"

	"finbot/internal/core"
	"finbot/internal/store"
)

// RuleRegistry is CRUD over one rule domain (auto income or auto expenses).
// Add appends without dedup checking; duplicate category+interval rules can
// coexist.
type RuleRegistry struct {
	store  *store.Store
	domain store.Domain
}

func NewRuleRegistry(s *store.Store, domain store.Domain) *RuleRegistry {
	return &RuleRegistry{store: s, domain: domain}
}

func (r *RuleRegistry) Add(ctx context.Context, userID string, rule core.Rule) error {
	if err := rule.Validate(); err != nil {
		return fmt.Errorf("validate rule: %w", err)
	}

	data, err := r.store.LoadRules(r.domain)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	data[userID] = append(data[userID], rule)
	if err := r.store.SaveRules(r.domain, data); err != nil {
		return fmt.Errorf("save rules: %w", err)
	}

	slog.InfoContext(ctx, "Recurring rule added",
		"user_id", userID,
		"domain", r.domain,
		"category", rule.Category,
		"interval", rule.Interval,
		"amount", rule.Amount.String())
	return nil
}

// Remove deletes every rule of the user matching the predicate and returns
// how many were removed. Removing by category name is intentionally a bulk
// delete: all same-named rules go together.
func (r *RuleRegistry) Remove(ctx context.Context, userID string, match func(core.Rule) bool) (int, error) {
	data, err := r.store.LoadRules(r.domain)
	if err != nil {
		return 0, fmt.Errorf("load rules: %w", err)
	}

	kept := data[userID][:0]
	removed := 0
	for _, rule := range data[userID] {
		if match(rule) {
			removed++
			continue
		}
		kept = append(kept, rule)
	}
	if removed == 0 {
		return 0, nil
	}

	data[userID] = kept
	if err := r.store.SaveRules(r.domain, data); err != nil {
		return 0, fmt.Errorf("save rules: %w", err)
	}

	slog.InfoContext(ctx, "Recurring rules removed",
		"user_id", userID,
		"domain", r.domain,
		"count", removed)
	return removed, nil
}

// RemoveByCategory deletes all of the user's rules with the given category.
func (r *RuleRegistry) RemoveByCategory(ctx context.Context, userID, category string) (int, error) {
	return r.Remove(ctx, userID, func(rule core.Rule) bool {
		return rule.Category == category
	})
}

// List returns the user's rules; a missing user means an empty slice.
func (r *RuleRegistry) List(ctx context.Context, userID string) ([]core.Rule, error) {
	data, err := r.store.LoadRules(r.domain)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	return data[userID], nil
}
