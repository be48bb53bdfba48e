package services

import (
	"context"
	"fmt"
	"log/slog"

	"finbot/internal/core"
	"finbot/internal/store"
)

// SettingsService manages the per-user settings domain: the daily spending
// limit and the digest opt-in.
type SettingsService struct {
	store *store.Store
}

func NewSettingsService(s *store.Store) *SettingsService {
	return &SettingsService{store: s}
}

// Get returns the user's settings; a missing user means zero-value settings.
func (s *SettingsService) Get(ctx context.Context, userID string) (core.Settings, error) {
	data, err := s.store.LoadSettings()
	if err != nil {
		return core.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return data[userID], nil
}

// ClearDailyLimit removes the user's daily spending limit.
func (s *SettingsService) ClearDailyLimit(ctx context.Context, userID string) error {
	data, err := s.store.LoadSettings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	settings := data[userID]
	settings.DailyLimit = nil
	data[userID] = settings
	if err := s.store.SaveSettings(data); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	slog.InfoContext(ctx, "Daily limit cleared", "user_id", userID)
	return nil
}

// SetDailyLimit stores the user's daily spending limit.
func (s *SettingsService) SetDailyLimit(ctx context.Context, userID string, limit core.Amount) error {
	if err := limit.Validate(); err != nil {
		return fmt.Errorf("validate limit: %w", err)
	}

	data, err := s.store.LoadSettings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	settings := data[userID]
	settings.DailyLimit = &limit
	data[userID] = settings
	if err := s.store.SaveSettings(data); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	slog.InfoContext(ctx, "Daily limit set",
		"user_id", userID, "amount", limit.String())
	return nil
}

// ToggleAutoReport flips the digest opt-in and returns the new state.
func (s *SettingsService) ToggleAutoReport(ctx context.Context, userID string) (bool, error) {
	data, err := s.store.LoadSettings()
	if err != nil {
		return false, fmt.Errorf("load settings: %w", err)
	}
	settings := data[userID]
	settings.AutoReport = !settings.AutoReport
	data[userID] = settings
	if err := s.store.SaveSettings(data); err != nil {
		return false, fmt.Errorf("save settings: %w", err)
	}

	slog.InfoContext(ctx, "Auto report toggled",
		"user_id", userID, "enabled", settings.AutoReport)
	return settings.AutoReport, nil
}

// CheckDailyLimit reports whether adding spent to today's expenses pushes
// the user over their limit. Users without a limit are never over.
func (s *SettingsService) CheckDailyLimit(ctx context.Context, userID string, todayTotal core.Amount) (over bool, limit core.Amount, err error) {
	settings, err := s.Get(ctx, userID)
	if err != nil {
		return false, core.Amount{}, err
	}
	if settings.DailyLimit == nil {
		return false, core.Amount{}, nil
	}
	return todayTotal.GreaterThan(*settings.DailyLimit), *settings.DailyLimit, nil
}
