// Package scheduler drives recurring-rule evaluation: a fixed-interval tick
// loads each rule domain and its target ledger, matches every rule against
// the tick's snapshot of now, materializes the hits and persists each
// ledger once per tick.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finbot/internal/core"
	"finbot/internal/notify"
	"finbot/internal/services"
	"finbot/internal/store"
)

// Flow pairs a rule domain with the ledger it materializes into.
type Flow struct {
	Rules  store.Domain
	Ledger store.Domain
	Kind   string
}

// DefaultFlows covers auto income and auto expenses.
func DefaultFlows() []Flow {
	return []Flow{
		{Rules: store.DomainAutoIncome, Ledger: store.DomainIncome, Kind: "income"},
		{Rules: store.DomainAutoExpenses, Ledger: store.DomainExpenses, Kind: "expense"},
	}
}

// Scheduler owns the periodic evaluation loop. It lives for the duration of
// Run; there is no persisted cursor and no catch-up for ticks missed while
// the process was down.
type Scheduler struct {
	store    *store.Store
	interval time.Duration
	flows    []Flow
	mats     map[string]*services.Materializer
}

func New(s *store.Store, notifier notify.Notifier, interval time.Duration, flows []Flow) *Scheduler {
	if len(flows) == 0 {
		flows = DefaultFlows()
	}
	mats := make(map[string]*services.Materializer, len(flows))
	for _, f := range flows {
		mats[f.Kind] = services.NewMaterializer(notifier, f.Kind)
	}
	return &Scheduler{
		store:    s,
		interval: interval,
		flows:    flows,
		mats:     mats,
	}
}

// Run ticks until ctx is cancelled. A failed tick is logged and the loop
// keeps going; cancellation is the only way out.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Scheduler started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Scheduler stopped", "reason", ctx.Err())
			return ctx.Err()
		case now := <-ticker.C:
			count, err := s.Tick(ctx, now)
			if err != nil {
				slog.ErrorContext(ctx, "Tick failed", "error", err)
				continue
			}
			if count > 0 {
				slog.InfoContext(ctx, "Tick complete", "entries_created", count)
			}
		}
	}
}

// Tick evaluates every user's rules against now and returns how many
// entries were materialized. Each flow's ledger is written at most once; a
// storage error aborts the tick before any partial write of that flow.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) (int, error) {
	total := 0
	for _, flow := range s.flows {
		n, err := s.runFlow(ctx, flow, now)
		if err != nil {
			return total, fmt.Errorf("flow %s: %w", flow.Rules, err)
		}
		total += n
	}
	return total, nil
}

type pendingNotice struct {
	userID string
	entry  core.Entry
}

func (s *Scheduler) runFlow(ctx context.Context, flow Flow, now time.Time) (int, error) {
	rules, err := s.store.LoadRules(flow.Rules)
	if err != nil {
		return 0, fmt.Errorf("load rules: %w", err)
	}
	if len(rules) == 0 {
		return 0, nil
	}

	ledger, err := s.store.LoadLedger(flow.Ledger)
	if err != nil {
		return 0, fmt.Errorf("load ledger: %w", err)
	}

	mat := s.mats[flow.Kind]
	var notices []pendingNotice
	for userID, userRules := range rules {
		for _, rule := range userRules {
			if !services.Matches(rule, now) {
				continue
			}
			entry := mat.Materialize(ctx, userID, rule, now, ledger)
			notices = append(notices, pendingNotice{userID: userID, entry: entry})
		}
	}
	if len(notices) == 0 {
		return 0, nil
	}

	// Persist first; notifications never gate or roll back the write.
	if err := s.store.SaveLedger(flow.Ledger, ledger); err != nil {
		return 0, fmt.Errorf("save ledger: %w", err)
	}

	for _, n := range notices {
		mat.NotifyBestEffort(ctx, n.userID, n.entry)
	}
	return len(notices), nil
}
