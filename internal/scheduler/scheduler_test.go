package scheduler

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"finbot/internal/core"
	"finbot/internal/notify"
	"finbot/internal/store"
)

type fakeNotifier struct {
	mu       sync.Mutex
	fail     bool
	messages []string
}

func (f *fakeNotifier) Notify(ctx context.Context, userID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return notify.ErrUnreachable
	}
	f.messages = append(f.messages, userID+": "+message)
	return nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return s
}

func saveRule(t *testing.T, s *store.Store, domain store.Domain, userID string, rule core.Rule) {
	t.Helper()
	data, err := s.LoadRules(domain)
	if err != nil {
		t.Fatal(err)
	}
	data[userID] = append(data[userID], rule)
	if err := s.SaveRules(domain, data); err != nil {
		t.Fatal(err)
	}
}

func TestTickMaterializesMonthEndFallback(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	rec := &fakeNotifier{}

	rule, err := core.NewMonthlyRule("Salary", core.AmountFromInt(5000), "12:10", 31, core.NewDate(2025, 3, 31))
	if err != nil {
		t.Fatal(err)
	}
	saveRule(t, s, store.DomainAutoIncome, "123456", rule)

	sched := New(s, rec, time.Minute, nil)

	// April 15 at the rule's time: nothing fires.
	count, err := sched.Tick(ctx, time.Date(2025, 4, 15, 12, 10, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if count != 0 {
		t.Fatalf("April 15 created %d entries, want 0", count)
	}

	// April 30, last day of a 30-day month: the day-31 anchor falls back.
	count, err = sched.Tick(ctx, time.Date(2025, 4, 30, 12, 10, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if count != 1 {
		t.Fatalf("April 30 created %d entries, want 1", count)
	}

	ledger, err := s.LoadLedger(store.DomainIncome)
	if err != nil {
		t.Fatal(err)
	}
	entries := ledger["123456"]
	if len(entries) != 1 {
		t.Fatalf("persisted entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Category != "Salary" || !e.Amount.Equal(core.AmountFromInt(5000)) || e.Date.String() != "30/04/2025" {
		t.Errorf("entry = %+v, want Salary 5000 on 30/04/2025", e)
	}
	if e.ID == "" {
		t.Error("materialized entry has no id")
	}

	if len(rec.messages) != 1 {
		t.Fatalf("notifications = %v, want exactly one", rec.messages)
	}
}

func TestTickCoversBothFlows(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	income, err := core.NewDailyRule("Salary", core.AmountFromInt(100), "08:00", core.NewDate(2025, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	expense, err := core.NewDailyRule("Rent", core.AmountFromInt(25), "08:00", core.NewDate(2025, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	saveRule(t, s, store.DomainAutoIncome, "1", income)
	saveRule(t, s, store.DomainAutoExpenses, "1", expense)

	sched := New(s, &fakeNotifier{}, time.Minute, nil)
	count, err := sched.Tick(ctx, time.Date(2025, 4, 30, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2 (one per flow)", count)
	}

	incomes, _ := s.LoadLedger(store.DomainIncome)
	expenses, _ := s.LoadLedger(store.DomainExpenses)
	if len(incomes["1"]) != 1 || incomes["1"][0].Category != "Salary" {
		t.Errorf("income ledger = %v", incomes["1"])
	}
	if len(expenses["1"]) != 1 || expenses["1"][0].Category != "Rent" {
		t.Errorf("expense ledger = %v", expenses["1"])
	}
}

func TestTickPersistsDespiteNotifyFailure(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rule, err := core.NewDailyRule("Salary", core.AmountFromInt(100), "08:00", core.NewDate(2025, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	saveRule(t, s, store.DomainAutoIncome, "1", rule)

	sched := New(s, &fakeNotifier{fail: true}, time.Minute, nil)
	count, err := sched.Tick(ctx, time.Date(2025, 4, 30, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Tick must not fail on unreachable users: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	ledger, _ := s.LoadLedger(store.DomainIncome)
	if len(ledger["1"]) != 1 {
		t.Fatalf("ledger write lost on notify failure: %v", ledger["1"])
	}
}

func TestTickAbortsOnMalformedRules(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := os.WriteFile(s.Path(store.DomainAutoIncome), []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	sched := New(s, &fakeNotifier{}, time.Minute, nil)
	_, err := sched.Tick(ctx, time.Now())
	if err == nil {
		t.Fatal("expected tick to abort on malformed rules file")
	}
	if !store.IsParseError(err) {
		t.Fatalf("error chain hides the parse error: %v", err)
	}
}

func TestTickNoRulesNoWrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	sched := New(s, &fakeNotifier{}, time.Minute, nil)

	count, err := sched.Tick(ctx, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s := newTestStore(t)
	sched := New(s, &fakeNotifier{}, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
