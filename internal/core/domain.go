package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Daily   Interval = "daily"
	Weekly  Interval = "weekly"
	Monthly Interval = "monthly"
)

type (
	// Interval is the repetition cadence of a recurring rule.
	Interval string

	// Entry is a single dated amount in a user's income or expense ledger.
	// ID is assigned at creation; entries loaded from older data files may
	// have an empty ID and are then only addressable by value.
	Entry struct {
		ID       string `json:"id,omitempty"`
		Category string `json:"category"`
		Amount   Amount `json:"amount"`
		Date     Date   `json:"date"`
	}

	// Rule is a recurring-entry template. Interval decides which anchor is
	// meaningful: DayOfWeek for weekly, DayOfMonth for monthly. Time is the
	// minute of day the rule fires at, "HH:MM".
	Rule struct {
		Category   string   `json:"category"`
		Amount     Amount   `json:"amount"`
		Interval   Interval `json:"interval"`
		Time       string   `json:"time"`
		DayOfWeek  string   `json:"day_of_week,omitempty"`
		DayOfMonth int      `json:"day_of_month,omitempty"`
		Created    Date     `json:"date"`
	}

	// Settings holds a user's named settings. DailyLimit is nil when unset.
	Settings struct {
		DailyLimit *Amount `json:"daily_limit,omitempty"`
		AutoReport bool    `json:"autozvit"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidTime     = errors.New("invalid time of day")
	ErrInvalidInterval = errors.New("invalid interval")
	ErrMissingAnchor   = errors.New("missing schedule anchor")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEntryNotFound   = errors.New("entry not found")
)

// NewEntry builds a ledger entry with a fresh synthetic id.
func NewEntry(category string, amount Amount, date Date) Entry {
	return Entry{
		ID:       uuid.NewString(),
		Category: category,
		Amount:   amount,
		Date:     date,
	}
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NewDailyRule builds a rule firing every day at timeOfDay ("HH:MM").
func NewDailyRule(category string, amount Amount, timeOfDay string, created Date) (Rule, error) {
	r := Rule{
		Category: category,
		Amount:   amount,
		Interval: Daily,
		Time:     timeOfDay,
		Created:  created,
	}
	return r, r.Validate()
}

// NewWeeklyRule builds a rule anchored to an English weekday name
// ("Monday".."Sunday").
func NewWeeklyRule(category string, amount Amount, timeOfDay, dayOfWeek string, created Date) (Rule, error) {
	r := Rule{
		Category:  category,
		Amount:    amount,
		Interval:  Weekly,
		Time:      timeOfDay,
		DayOfWeek: dayOfWeek,
		Created:   created,
	}
	return r, r.Validate()
}

// NewMonthlyRule builds a rule anchored to a day of the month (1-31). When
// the anchor day does not exist in a month the rule fires on that month's
// last day instead.
func NewMonthlyRule(category string, amount Amount, timeOfDay string, dayOfMonth int, created Date) (Rule, error) {
	r := Rule{
		Category:   category,
		Amount:     amount,
		Interval:   Monthly,
		Time:       timeOfDay,
		DayOfMonth: dayOfMonth,
		Created:    created,
	}
	return r, r.Validate()
}

func (r Rule) Validate() error {
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if !validTimeOfDay(r.Time) {
		return ErrInvalidTime
	}
	switch r.Interval {
	case Daily:
		return nil
	case Weekly:
		if !validWeekday(r.DayOfWeek) {
			return ErrMissingAnchor
		}
		return nil
	case Monthly:
		if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
			return ErrMissingAnchor
		}
		return nil
	default:
		return ErrInvalidInterval
	}
}

// validTimeOfDay accepts strict "HH:MM", minute precision.
func validTimeOfDay(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

func validWeekday(s string) bool {
	switch s {
	case "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday":
		return true
	}
	return false
}
