package bot

import (
	"strings"
	"testing"
	"time"

	"finbot/internal/core"
)

var parserNow = time.Date(2025, 4, 30, 15, 0, 0, 0, time.UTC)

func TestParseEntryText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		amount   string
		category string
		date     string
		wantErr  bool
	}{
		{name: "amount and category", text: "250 Food", amount: "250", category: "Food", date: "30/04/2025"},
		{name: "decimal comma", text: "99,90 Food", amount: "99.90", category: "Food", date: "30/04/2025"},
		{name: "explicit date", text: "250 Food 12/05/2025", amount: "250", category: "Food", date: "12/05/2025"},
		{name: "compact date", text: "250 Food 12052025", amount: "250", category: "Food", date: "12/05/2025"},
		{name: "multi word category", text: "10 Public Transport", amount: "10", category: "Public Transport", date: "30/04/2025"},
		{name: "multi word category with date", text: "10 Public Transport 01/01/2025", amount: "10", category: "Public Transport", date: "01/01/2025"},
		{name: "empty", text: "", wantErr: true},
		{name: "amount only", text: "250", wantErr: true},
		{name: "bad amount", text: "lots Food", wantErr: true},
		{name: "negative amount", text: "-5 Food", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntryText(tt.text, parserNow)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseEntryText(%q) = %+v, want error", tt.text, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEntryText(%q): %v", tt.text, err)
			}
			want, _ := core.ParseAmount(tt.amount)
			if !got.Amount.Equal(want) {
				t.Errorf("amount = %s, want %s", got.Amount.Display(), tt.amount)
			}
			if got.Category != tt.category {
				t.Errorf("category = %q, want %q", got.Category, tt.category)
			}
			if got.Date.String() != tt.date {
				t.Errorf("date = %s, want %s", got.Date, tt.date)
			}
		})
	}
}

func TestParseRuleArgs(t *testing.T) {
	args := strings.Fields

	tests := []struct {
		name     string
		args     []string
		interval core.Interval
		time     string
		anchor   string
		wantErr  bool
	}{
		{name: "daily default time", args: args("100 Coffee daily"), interval: core.Daily, time: "12:10"},
		{name: "daily explicit time", args: args("100 Coffee daily 08:30"), interval: core.Daily, time: "08:30"},
		{name: "weekly", args: args("20 Gym weekly monday"), interval: core.Weekly, time: "12:10", anchor: "Monday"},
		{name: "monthly", args: args("5000 Salary monthly 31 09:00"), interval: core.Monthly, time: "09:00", anchor: "31"},
		{name: "too few args", args: args("100 Coffee"), wantErr: true},
		{name: "unknown interval", args: args("100 Coffee yearly"), wantErr: true},
		{name: "weekly without weekday", args: args("20 Gym weekly"), wantErr: true},
		{name: "weekly bad weekday", args: args("20 Gym weekly someday"), wantErr: true},
		{name: "monthly without day", args: args("5000 Salary monthly"), wantErr: true},
		{name: "monthly day out of range", args: args("5000 Salary monthly 32"), wantErr: true},
		{name: "daily with stray anchor", args: args("100 Coffee daily monday"), wantErr: true},
		{name: "bad amount", args: args("free Coffee daily"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := ParseRuleArgs(tt.args, "12:10", parserNow)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRuleArgs(%v) = %+v, want error", tt.args, rule)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRuleArgs(%v): %v", tt.args, err)
			}
			if rule.Interval != tt.interval {
				t.Errorf("interval = %s, want %s", rule.Interval, tt.interval)
			}
			if rule.Time != tt.time {
				t.Errorf("time = %s, want %s", rule.Time, tt.time)
			}
			switch tt.interval {
			case core.Weekly:
				if rule.DayOfWeek != tt.anchor {
					t.Errorf("day_of_week = %q, want %q", rule.DayOfWeek, tt.anchor)
				}
			case core.Monthly:
				if got := rule.DayOfMonth; got != 31 && tt.anchor == "31" {
					t.Errorf("day_of_month = %d, want %s", got, tt.anchor)
				}
			}
			if !rule.Created.SameDay(core.Today(parserNow)) {
				t.Errorf("created = %s, want today", rule.Created)
			}
		})
	}
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		text, cmd, rest string
	}{
		{"/start", "/start", ""},
		{"/expense 250 Food", "/expense", "250 Food"},
		{"/report@finbot", "/report", ""},
		{"250 Food", "", "250 Food"},
	}
	for _, tt := range tests {
		cmd, rest := splitCommand(tt.text)
		if cmd != tt.cmd || rest != tt.rest {
			t.Errorf("splitCommand(%q) = %q, %q; want %q, %q", tt.text, cmd, rest, tt.cmd, tt.rest)
		}
	}
}
