package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"finbot/internal/core"
)

// ParsedEntry is a user-typed ledger record: "250.50 Food" or
// "250.50 Food 12/05/2025". The date defaults to today when omitted.
type ParsedEntry struct {
	Amount   core.Amount
	Category string
	Date     core.Date
}

func ParseEntryText(text string, now time.Time) (ParsedEntry, error) {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) < 2 {
		return ParsedEntry{}, fmt.Errorf("expected: <amount> <category> [date]")
	}

	amount, err := core.ParseAmount(parts[0])
	if err != nil {
		return ParsedEntry{}, fmt.Errorf("bad amount %q: %w", parts[0], err)
	}

	// A trailing token that parses as a date is the date; everything between
	// amount and date is the category, which may contain spaces.
	date := core.Today(now)
	catParts := parts[1:]
	if len(catParts) > 1 {
		if d, err := core.ParseDate(catParts[len(catParts)-1]); err == nil {
			date = d
			catParts = catParts[:len(catParts)-1]
		}
	}

	category := strings.Join(catParts, " ")
	if category == "" {
		return ParsedEntry{}, fmt.Errorf("expected: <amount> <category> [date]")
	}

	return ParsedEntry{Amount: amount, Category: category, Date: date}, nil
}

// ParseRuleArgs builds a recurring rule from command arguments:
//
//	<amount> <category> daily [HH:MM]
//	<amount> <category> weekly <weekday> [HH:MM]
//	<amount> <category> monthly <day> [HH:MM]
//
// defaultTime is used when the trailing HH:MM is omitted.
func ParseRuleArgs(args []string, defaultTime string, now time.Time) (core.Rule, error) {
	if len(args) < 3 {
		return core.Rule{}, fmt.Errorf("expected: <amount> <category> <daily|weekly|monthly> ...")
	}

	amount, err := core.ParseAmount(args[0])
	if err != nil {
		return core.Rule{}, fmt.Errorf("bad amount %q: %w", args[0], err)
	}
	category := args[1]
	interval := strings.ToLower(args[2])
	rest := args[3:]

	timeOfDay := defaultTime
	if len(rest) > 0 && looksLikeClock(rest[len(rest)-1]) {
		timeOfDay = rest[len(rest)-1]
		rest = rest[:len(rest)-1]
	}

	created := core.Today(now)

	switch interval {
	case string(core.Daily):
		if len(rest) != 0 {
			return core.Rule{}, fmt.Errorf("daily rules take no anchor")
		}
		return core.NewDailyRule(category, amount, timeOfDay, created)

	case string(core.Weekly):
		if len(rest) != 1 {
			return core.Rule{}, fmt.Errorf("weekly rules need a weekday, e.g. Monday")
		}
		weekday := canonicalWeekday(rest[0])
		return core.NewWeeklyRule(category, amount, timeOfDay, weekday, created)

	case string(core.Monthly):
		if len(rest) != 1 {
			return core.Rule{}, fmt.Errorf("monthly rules need a day of month, 1-31")
		}
		day, err := strconv.Atoi(rest[0])
		if err != nil {
			return core.Rule{}, fmt.Errorf("bad day of month %q", rest[0])
		}
		return core.NewMonthlyRule(category, amount, timeOfDay, day, created)

	default:
		return core.Rule{}, fmt.Errorf("unknown interval %q: use daily, weekly or monthly", args[2])
	}
}

func looksLikeClock(s string) bool {
	return len(s) == 5 && s[2] == ':'
}

func canonicalWeekday(s string) string {
	s = strings.ToLower(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
