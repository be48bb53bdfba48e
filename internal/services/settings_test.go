package services

import (
	"context"
	"testing"

	"finbot/internal/core"
)

func TestSettingsDailyLimit(t *testing.T) {
	ctx := context.Background()
	s := NewSettingsService(newTestStore(t))

	settings, err := s.Get(ctx, "42")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if settings.DailyLimit != nil {
		t.Fatalf("fresh user limit = %v, want nil", settings.DailyLimit)
	}

	if err := s.SetDailyLimit(ctx, "42", core.AmountFromInt(500)); err != nil {
		t.Fatalf("SetDailyLimit: %v", err)
	}
	settings, _ = s.Get(ctx, "42")
	if settings.DailyLimit == nil || !settings.DailyLimit.Equal(core.AmountFromInt(500)) {
		t.Fatalf("limit = %v, want 500", settings.DailyLimit)
	}

	if err := s.ClearDailyLimit(ctx, "42"); err != nil {
		t.Fatalf("ClearDailyLimit: %v", err)
	}
	settings, _ = s.Get(ctx, "42")
	if settings.DailyLimit != nil {
		t.Fatalf("cleared limit = %v, want nil", settings.DailyLimit)
	}
}

func TestSettingsToggleAutoReport(t *testing.T) {
	ctx := context.Background()
	s := NewSettingsService(newTestStore(t))

	on, err := s.ToggleAutoReport(ctx, "42")
	if err != nil || !on {
		t.Fatalf("first toggle = %v, %v; want true", on, err)
	}
	off, err := s.ToggleAutoReport(ctx, "42")
	if err != nil || off {
		t.Fatalf("second toggle = %v, %v; want false", off, err)
	}
}

func TestCheckDailyLimit(t *testing.T) {
	ctx := context.Background()
	s := NewSettingsService(newTestStore(t))

	// no limit set: never over
	over, _, err := s.CheckDailyLimit(ctx, "42", core.AmountFromInt(10000))
	if err != nil {
		t.Fatal(err)
	}
	if over {
		t.Fatal("user without limit reported over")
	}

	if err := s.SetDailyLimit(ctx, "42", core.AmountFromInt(500)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		total int64
		over  bool
	}{
		{499, false},
		{500, false}, // exactly at the limit is not over
		{501, true},
	}
	for _, tt := range tests {
		over, limit, err := s.CheckDailyLimit(ctx, "42", core.AmountFromInt(tt.total))
		if err != nil {
			t.Fatal(err)
		}
		if over != tt.over {
			t.Errorf("total %d: over = %v, want %v", tt.total, over, tt.over)
		}
		if !limit.Equal(core.AmountFromInt(500)) {
			t.Errorf("limit = %s, want 500", limit)
		}
	}
}
