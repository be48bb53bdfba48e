package services

import (
	"context"
	"testing"

	"finbot/internal/core"
	"finbot/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return s
}

func mustMonthly(t *testing.T, category string, amount int64, day int) core.Rule {
	t.Helper()
	r, err := core.NewMonthlyRule(category, core.AmountFromInt(amount), "12:10", day, core.NewDate(2025, 3, day))
	if err != nil {
		t.Fatalf("NewMonthlyRule: %v", err)
	}
	return r
}

func TestRuleRegistryAddAndList(t *testing.T) {
	ctx := context.Background()
	reg := NewRuleRegistry(newTestStore(t), store.DomainAutoIncome)

	if rules, err := reg.List(ctx, "42"); err != nil || len(rules) != 0 {
		t.Fatalf("fresh user: rules=%v err=%v, want empty", rules, err)
	}

	if err := reg.Add(ctx, "42", mustMonthly(t, "Salary", 5000, 31)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// no dedup: identical rule coexists
	if err := reg.Add(ctx, "42", mustMonthly(t, "Salary", 5000, 31)); err != nil {
		t.Fatalf("Add duplicate: %v", err)
	}

	rules, err := reg.List(ctx, "42")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("rules = %d, want 2 (duplicates allowed)", len(rules))
	}
}

func TestRuleRegistryAddRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	reg := NewRuleRegistry(newTestStore(t), store.DomainAutoIncome)

	bad := core.Rule{Category: "Salary", Amount: core.AmountFromInt(1), Interval: core.Monthly, Time: "12:10"} // no anchor
	if err := reg.Add(ctx, "42", bad); err == nil {
		t.Fatal("expected validation error for anchorless monthly rule")
	}
	if rules, _ := reg.List(ctx, "42"); len(rules) != 0 {
		t.Fatalf("invalid rule was persisted: %v", rules)
	}
}

func TestRemoveByCategoryDeletesAllMatches(t *testing.T) {
	ctx := context.Background()
	reg := NewRuleRegistry(newTestStore(t), store.DomainAutoIncome)

	for _, r := range []core.Rule{
		mustMonthly(t, "Bonus", 200, 1),
		mustMonthly(t, "Salary", 5000, 31),
		mustMonthly(t, "Bonus", 300, 15),
	} {
		if err := reg.Add(ctx, "42", r); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := reg.RemoveByCategory(ctx, "42", "Bonus")
	if err != nil {
		t.Fatalf("RemoveByCategory: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}

	rules, err := reg.List(ctx, "42")
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 1 || rules[0].Category != "Salary" {
		t.Fatalf("remaining rules = %v, want only Salary", rules)
	}
}

func TestRemoveNoMatchIsNoop(t *testing.T) {
	ctx := context.Background()
	reg := NewRuleRegistry(newTestStore(t), store.DomainAutoIncome)

	if err := reg.Add(ctx, "42", mustMonthly(t, "Salary", 5000, 31)); err != nil {
		t.Fatal(err)
	}
	removed, err := reg.RemoveByCategory(ctx, "42", "Rent")
	if err != nil {
		t.Fatalf("RemoveByCategory: %v", err)
	}
	if removed != 0 {
		t.Fatalf("removed = %d, want 0", removed)
	}
	if rules, _ := reg.List(ctx, "42"); len(rules) != 1 {
		t.Fatalf("rules = %d, want 1 untouched", len(rules))
	}
}

func TestRemoveScopedToUser(t *testing.T) {
	ctx := context.Background()
	reg := NewRuleRegistry(newTestStore(t), store.DomainAutoIncome)

	if err := reg.Add(ctx, "42", mustMonthly(t, "Bonus", 200, 1)); err != nil {
		t.Fatal(err)
	}
	if err := reg.Add(ctx, "43", mustMonthly(t, "Bonus", 200, 1)); err != nil {
		t.Fatal(err)
	}

	if _, err := reg.RemoveByCategory(ctx, "42", "Bonus"); err != nil {
		t.Fatal(err)
	}
	if rules, _ := reg.List(ctx, "43"); len(rules) != 1 {
		t.Fatalf("other user's rules touched: %v", rules)
	}
}
