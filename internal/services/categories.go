package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"finbot/internal/store"
)

// DefaultCategory is bootstrapped into an empty expense category list on
// first access so new users always have somewhere to file an entry.
const DefaultCategory = "Other"

var (
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryNotFound = errors.New("category not found")
)

// Categories manages one per-user ordered category list (expense or income
// categories). Order is display order and is preserved across operations.
// Deleting a category does not touch ledger entries that reference it.
type Categories struct {
	store     *store.Store
	domain    store.Domain
	bootstrap bool
}

// NewCategories builds a category service for the domain. When bootstrap is
// true an empty list is seeded with DefaultCategory on first List.
func NewCategories(s *store.Store, domain store.Domain, bootstrap bool) *Categories {
	return &Categories{store: s, domain: domain, bootstrap: bootstrap}
}

// List returns the user's categories in display order.
func (c *Categories) List(ctx context.Context, userID string) ([]string, error) {
	data, err := c.store.LoadCategories(c.domain)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	cats := data[userID]
	if len(cats) == 0 && c.bootstrap {
		cats = []string{DefaultCategory}
		data[userID] = cats
		if err := c.store.SaveCategories(c.domain, data); err != nil {
			return nil, fmt.Errorf("save categories: %w", err)
		}
		slog.InfoContext(ctx, "Seeded default category",
			"user_id", userID, "domain", c.domain)
	}
	return cats, nil
}

// Add appends a category; duplicates within a user's list are rejected.
func (c *Categories) Add(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrCategoryNotFound
	}

	data, err := c.store.LoadCategories(c.domain)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	for _, cat := range data[userID] {
		if cat == name {
			return ErrCategoryExists
		}
	}
	data[userID] = append(data[userID], name)
	if err := c.store.SaveCategories(c.domain, data); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}

	slog.InfoContext(ctx, "Category added",
		"user_id", userID, "domain", c.domain, "category", name)
	return nil
}

// Rename replaces oldName with newName in place, keeping list position.
func (c *Categories) Rename(ctx context.Context, userID, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrCategoryNotFound
	}

	data, err := c.store.LoadCategories(c.domain)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	cats := data[userID]
	idx := indexOf(cats, oldName)
	if idx < 0 {
		return ErrCategoryNotFound
	}
	if idx != indexOf(cats, newName) && indexOf(cats, newName) >= 0 {
		return ErrCategoryExists
	}
	cats[idx] = newName
	data[userID] = cats
	if err := c.store.SaveCategories(c.domain, data); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}

	slog.InfoContext(ctx, "Category renamed",
		"user_id", userID, "domain", c.domain, "category", newName)
	return nil
}

// Delete removes the category from the list. Historic entries keep the name.
func (c *Categories) Delete(ctx context.Context, userID, name string) error {
	data, err := c.store.LoadCategories(c.domain)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	cats := data[userID]
	idx := indexOf(cats, name)
	if idx < 0 {
		return ErrCategoryNotFound
	}
	data[userID] = append(cats[:idx], cats[idx+1:]...)
	if err := c.store.SaveCategories(c.domain, data); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}

	slog.InfoContext(ctx, "Category deleted",
		"user_id", userID, "domain", c.domain, "category", name)
	return nil
}

// MoveUp swaps the category with its predecessor. Already first is a no-op.
func (c *Categories) MoveUp(ctx context.Context, userID, name string) error {
	return c.move(ctx, userID, name, -1)
}

// MoveDown swaps the category with its successor. Already last is a no-op.
func (c *Categories) MoveDown(ctx context.Context, userID, name string) error {
	return c.move(ctx, userID, name, +1)
}

func (c *Categories) move(ctx context.Context, userID, name string, dir int) error {
	data, err := c.store.LoadCategories(c.domain)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	cats := data[userID]
	idx := indexOf(cats, name)
	if idx < 0 {
		return ErrCategoryNotFound
	}
	target := idx + dir
	if target < 0 || target >= len(cats) {
		return nil
	}
	cats[idx], cats[target] = cats[target], cats[idx]
	data[userID] = cats
	if err := c.store.SaveCategories(c.domain, data); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	return nil
}

func indexOf(cats []string, name string) int {
	for i, cat := range cats {
		if cat == name {
			return i
		}
	}
	return -1
}
