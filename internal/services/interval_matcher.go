// Package services carries the business logic between the Telegram front
// end, the file store and the scheduler: ledger and category CRUD, the
// recurring-rule registry, interval matching and entry materialization.
package services

import (
	"fmt"
	"time"

	"finbot/internal/core"
)

// IntervalMatcher decides whether a recurring rule fires at the given
// wall-clock instant. Implementations are pure; granularity is one minute.
type IntervalMatcher interface {
	Matches(rule core.Rule, now time.Time) bool
}

// DailyMatcher fires when now's clock minute equals the rule's time.
type DailyMatcher struct{}

func (DailyMatcher) Matches(rule core.Rule, now time.Time) bool {
	return clock(now) == rule.Time
}

// WeeklyMatcher fires when now's weekday name and clock minute both match.
type WeeklyMatcher struct{}

func (WeeklyMatcher) Matches(rule core.Rule, now time.Time) bool {
	if rule.DayOfWeek == "" {
		return false
	}
	return now.Weekday().String() == rule.DayOfWeek && clock(now) == rule.Time
}

// MonthlyMatcher fires on the anchor day of the month, or on the month's
// last day when the anchor day does not exist in it (31st in April fires on
// the 30th). A rule without an anchor never fires.
type MonthlyMatcher struct{}

func (MonthlyMatcher) Matches(rule core.Rule, now time.Time) bool {
	if rule.DayOfMonth < 1 {
		return false
	}
	if clock(now) != rule.Time {
		return false
	}
	if rule.DayOfMonth == now.Day() {
		return true
	}
	actualLast := core.LastDayOfMonth(now)
	return rule.DayOfMonth > actualLast && now.Day() == actualLast
}

var matchers = map[core.Interval]IntervalMatcher{
	core.Daily:   DailyMatcher{},
	core.Weekly:  WeeklyMatcher{},
	core.Monthly: MonthlyMatcher{},
}

// MatcherFor returns the matcher for an interval.
func MatcherFor(interval core.Interval) (IntervalMatcher, error) {
	m, ok := matchers[interval]
	if !ok {
		return nil, fmt.Errorf("unknown interval: %s", interval)
	}
	return m, nil
}

// Matches evaluates a rule against now. Rules with an unknown interval or a
// missing anchor never fire.
func Matches(rule core.Rule, now time.Time) bool {
	m, err := MatcherFor(rule.Interval)
	if err != nil {
		return false
	}
	return m.Matches(rule, now)
}

func clock(now time.Time) string {
	return now.Format("15:04")
}
