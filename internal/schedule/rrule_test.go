package schedule

import (
	"strings"
	"testing"
	"time"
)

func TestParseHourlyDefaults(t *testing.T) {
	rule, err := Parse("FREQ=HOURLY")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rule.Freq != FreqHourly {
		t.Fatalf("freq = %q", rule.Freq)
	}
	if rule.IntervalHours != 1 {
		t.Fatalf("interval = %d, want 1", rule.IntervalHours)
	}
	if len(rule.ByDay) != 0 {
		t.Fatalf("byday = %v, want none", rule.ByDay)
	}
}

func TestParseHourlyIntervalAndByDay(t *testing.T) {
	rule, err := Parse("freq=hourly;interval=3;byday=mo,we,mo")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rule.IntervalHours != 3 {
		t.Fatalf("interval = %d, want 3", rule.IntervalHours)
	}
	want := []time.Weekday{time.Monday, time.Wednesday}
	if len(rule.ByDay) != len(want) {
		t.Fatalf("byday = %v, want %v", rule.ByDay, want)
	}
	for i, d := range want {
		if rule.ByDay[i] != d {
			t.Fatalf("byday[%d] = %v, want %v", i, rule.ByDay[i], d)
		}
	}
}

func TestParseWeekly(t *testing.T) {
	rule, err := Parse("FREQ=WEEKLY;BYDAY=FR;BYHOUR=9;BYMINUTE=30")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rule.Freq != FreqWeekly || rule.ByHour != 9 || rule.ByMinute != 30 {
		t.Fatalf("rule = %+v", rule)
	}
	if len(rule.ByDay) != 1 || rule.ByDay[0] != time.Friday {
		t.Fatalf("byday = %v", rule.ByDay)
	}
}

func TestParseRejections(t *testing.T) {
	cases := []struct {
		rrule string
		want  string
	}{
		{"FREQ=DAILY", "unsupported FREQ"},
		{"INTERVAL=2", "must include FREQ"},
		{"FREQ=HOURLY;INTERVAL=0", "INTERVAL must be >= 1"},
		{"FREQ=HOURLY;BYHOUR=9", "unsupported field"},
		{"FREQ=WEEKLY;BYHOUR=9;BYMINUTE=0", "require BYDAY"},
		{"FREQ=WEEKLY;BYDAY=MO;BYMINUTE=0", "require BYHOUR"},
		{"FREQ=WEEKLY;BYDAY=MO;BYHOUR=25;BYMINUTE=0", "between 0 and 23"},
		{"FREQ=WEEKLY;BYDAY=MO;BYHOUR=9;BYMINUTE=75", "between 0 and 59"},
		{"FREQ=WEEKLY;BYDAY=XX;BYHOUR=9;BYMINUTE=0", "invalid BYDAY"},
		{"FREQ=HOURLY;bogus", "invalid rrule segment"},
	}
	for _, tc := range cases {
		_, err := Parse(tc.rrule)
		if err == nil {
			t.Fatalf("%q: expected error", tc.rrule)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%q: error %q does not mention %q", tc.rrule, err, tc.want)
		}
	}
}

func TestNextHourly(t *testing.T) {
	rule, err := Parse("FREQ=HOURLY;INTERVAL=2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	after := time.Date(2026, 3, 2, 10, 15, 42, 0, time.Local)
	next, err := rule.Next(after)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	want := time.Date(2026, 3, 2, 12, 15, 0, 0, time.Local)
	if !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestNextHourlySkipsFilteredDays(t *testing.T) {
	rule, err := Parse("FREQ=HOURLY;BYDAY=TU")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// Monday 23:00 local: the first hourly candidate lands on Tuesday.
	after := time.Date(2026, 3, 2, 23, 0, 0, 0, time.Local)
	next, err := rule.Next(after)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if next.Local().Weekday() != time.Tuesday {
		t.Fatalf("next weekday = %v, want Tuesday", next.Local().Weekday())
	}
}

func TestNextWeekly(t *testing.T) {
	rule, err := Parse("FREQ=WEEKLY;BYDAY=MO;BYHOUR=9;BYMINUTE=0")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// Monday 10:00 local is past today's slot, so the run moves a week out.
	after := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	next, err := rule.Next(after)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	want := time.Date(2026, 3, 9, 9, 0, 0, 0, time.Local)
	if !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestDescribe(t *testing.T) {
	hourly, _ := Parse("FREQ=HOURLY;INTERVAL=2;BYDAY=MO")
	if got := hourly.Describe(); got != "every 2h on MO" {
		t.Fatalf("describe = %q", got)
	}
	weekly, _ := Parse("FREQ=WEEKLY;BYDAY=FR;BYHOUR=9;BYMINUTE=5")
	if got := weekly.Describe(); got != "weekly on FR at 09:05" {
		t.Fatalf("describe = %q", got)
	}
}

func TestValidateCwd(t *testing.T) {
	if err := ValidateCwd("/home/user/project"); err != nil {
		t.Fatalf("absolute path rejected: %v", err)
	}
	for _, bad := range []string{"", "  ", "relative/path", "https://example.com/repo"} {
		if err := ValidateCwd(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}
