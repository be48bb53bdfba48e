package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"finbot/internal/core"
	"finbot/internal/notify"
)

// recordingNotifier captures notifications and can be told to fail.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	users    []string
	fail     bool
}

func (r *recordingNotifier) Notify(ctx context.Context, userID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return notify.ErrUnreachable
	}
	r.users = append(r.users, userID)
	r.messages = append(r.messages, message)
	return nil
}

func TestMaterializeAppendsExactlyOneEntry(t *testing.T) {
	ctx := context.Background()
	mat := NewMaterializer(&recordingNotifier{}, "income")

	now := time.Date(2025, 4, 30, 12, 10, 0, 0, time.UTC)
	rule := mustMonthly(t, "Salary", 5000, 31)

	prior := core.NewEntry("Bonus", core.AmountFromInt(1), core.NewDate(2025, 4, 1))
	ledger := map[string][]core.Entry{"42": {prior}}

	entry := mat.Materialize(ctx, "42", rule, now, ledger)

	if len(ledger["42"]) != 2 {
		t.Fatalf("ledger entries = %d, want 2", len(ledger["42"]))
	}
	if ledger["42"][0].ID != prior.ID || !ledger["42"][0].Amount.Equal(prior.Amount) {
		t.Errorf("prior entry was mutated: %+v", ledger["42"][0])
	}
	if entry.ID == "" {
		t.Error("materialized entry has no id")
	}
	if entry.Category != "Salary" || !entry.Amount.Equal(core.AmountFromInt(5000)) {
		t.Errorf("entry = %+v, want Salary 5000", entry)
	}
	if entry.Date.String() != "30/04/2025" {
		t.Errorf("entry date = %s, want 30/04/2025", entry.Date)
	}
}

func TestNotifyBestEffortDelivers(t *testing.T) {
	ctx := context.Background()
	rec := &recordingNotifier{}
	mat := NewMaterializer(rec, "income")

	entry := core.NewEntry("Salary", core.AmountFromInt(5000), core.NewDate(2025, 4, 30))
	mat.NotifyBestEffort(ctx, "42", entry)

	if len(rec.messages) != 1 || rec.users[0] != "42" {
		t.Fatalf("notifications = %v to %v, want one to 42", rec.messages, rec.users)
	}
}

func TestNotifyBestEffortSwallowsFailure(t *testing.T) {
	ctx := context.Background()
	mat := NewMaterializer(&recordingNotifier{fail: true}, "income")

	entry := core.NewEntry("Salary", core.AmountFromInt(5000), core.NewDate(2025, 4, 30))
	// must not panic or propagate
	mat.NotifyBestEffort(ctx, "42", entry)
}

func TestNewMaterializerNilNotifier(t *testing.T) {
	mat := NewMaterializer(nil, "expense")
	entry := core.NewEntry("Rent", core.AmountFromInt(700), core.NewDate(2025, 4, 1))
	mat.NotifyBestEffort(context.Background(), "42", entry) // noop, no panic
}
