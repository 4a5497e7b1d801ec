// Package schedule parses the recurrence rules automations use and
// previews upcoming run times. Execution is handled by the runtime
// service; this package only validates input before submission and
// renders "next run" hints.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rule is a parsed recurrence rule. Exactly one frequency is set.
type Rule struct {
	Freq Freq

	// Hourly fields.
	IntervalHours int

	// Weekly fields.
	ByHour   int
	ByMinute int

	// ByDay applies to both frequencies. For hourly rules it is an
	// optional filter; for weekly rules it is required.
	ByDay []time.Weekday
}

type Freq string

const (
	FreqHourly Freq = "HOURLY"
	FreqWeekly Freq = "WEEKLY"
)

var weekdayCodes = map[string]time.Weekday{
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
	"SU": time.Sunday,
}

// Parse parses an RRULE string such as "FREQ=HOURLY;INTERVAL=2" or
// "FREQ=WEEKLY;BYDAY=MO,WE;BYHOUR=9;BYMINUTE=30". Only HOURLY and
// WEEKLY frequencies are accepted; unknown fields are rejected so a
// typo fails at submission rather than silently on the server.
func Parse(rrule string) (*Rule, error) {
	parts := map[string]string{}
	for _, raw := range strings.Split(rrule, ";") {
		item := strings.TrimSpace(raw)
		if item == "" {
			continue
		}
		k, v, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("invalid rrule segment %q", item)
		}
		parts[strings.ToUpper(strings.TrimSpace(k))] = strings.ToUpper(strings.TrimSpace(v))
	}

	switch parts["FREQ"] {
	case "HOURLY":
		return parseHourly(parts)
	case "WEEKLY":
		return parseWeekly(parts)
	case "":
		return nil, fmt.Errorf("rrule must include FREQ")
	default:
		return nil, fmt.Errorf("unsupported FREQ %q: supported values are HOURLY and WEEKLY", parts["FREQ"])
	}
}

func parseHourly(parts map[string]string) (*Rule, error) {
	for key := range parts {
		switch key {
		case "FREQ", "INTERVAL", "BYDAY":
		default:
			return nil, fmt.Errorf("unsupported field %q for HOURLY: allowed are FREQ, INTERVAL, BYDAY", key)
		}
	}
	interval := 1
	if v, ok := parts["INTERVAL"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse INTERVAL: %w", err)
		}
		if n < 1 {
			return nil, fmt.Errorf("INTERVAL must be >= 1 for HOURLY schedules")
		}
		interval = n
	}
	var days []time.Weekday
	if v, ok := parts["BYDAY"]; ok {
		parsed, err := parseByDay(v)
		if err != nil {
			return nil, err
		}
		days = parsed
	}
	return &Rule{Freq: FreqHourly, IntervalHours: interval, ByDay: days}, nil
}

func parseWeekly(parts map[string]string) (*Rule, error) {
	for key := range parts {
		switch key {
		case "FREQ", "BYDAY", "BYHOUR", "BYMINUTE":
		default:
			return nil, fmt.Errorf("unsupported field %q for WEEKLY: allowed are FREQ, BYDAY, BYHOUR, BYMINUTE", key)
		}
	}
	raw, ok := parts["BYDAY"]
	if !ok {
		return nil, fmt.Errorf("WEEKLY schedules require BYDAY")
	}
	days, err := parseByDay(raw)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("BYDAY cannot be empty for WEEKLY schedules")
	}
	hour, err := weeklyField(parts, "BYHOUR", 23)
	if err != nil {
		return nil, err
	}
	minute, err := weeklyField(parts, "BYMINUTE", 59)
	if err != nil {
		return nil, err
	}
	return &Rule{Freq: FreqWeekly, ByDay: days, ByHour: hour, ByMinute: minute}, nil
}

func weeklyField(parts map[string]string, name string, max int) (int, error) {
	raw, ok := parts[name]
	if !ok {
		return 0, fmt.Errorf("WEEKLY schedules require %s", name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	if n < 0 || n > max {
		return 0, fmt.Errorf("%s must be between 0 and %d", name, max)
	}
	return n, nil
}

func parseByDay(value string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, token := range strings.Split(value, ",") {
		code := strings.ToUpper(strings.TrimSpace(token))
		day, ok := weekdayCodes[code]
		if !ok {
			return nil, fmt.Errorf("invalid BYDAY value %q", token)
		}
		seen := false
		for _, d := range days {
			if d == day {
				seen = true
				break
			}
		}
		if !seen {
			days = append(days, day)
		}
	}
	return days, nil
}

// Next returns the first run time strictly after the given instant.
// Times are evaluated in the local zone since that is how users wrote
// the rule, then returned in UTC.
func (r *Rule) Next(after time.Time) (time.Time, error) {
	local := after.Local()
	switch r.Freq {
	case FreqHourly:
		candidate := local.Add(time.Duration(r.IntervalHours) * time.Hour).Truncate(time.Minute)
		if len(r.ByDay) == 0 {
			return candidate.UTC(), nil
		}
		for i := 0; i < 24*21; i++ {
			if r.matchesDay(candidate.Weekday()) {
				return candidate.UTC(), nil
			}
			candidate = candidate.Add(time.Duration(r.IntervalHours) * time.Hour)
		}
		return time.Time{}, fmt.Errorf("no HOURLY run matches the BYDAY filter")
	case FreqWeekly:
		for offset := 0; offset < 15; offset++ {
			date := local.AddDate(0, 0, offset)
			if !r.matchesDay(date.Weekday()) {
				continue
			}
			candidate := time.Date(date.Year(), date.Month(), date.Day(), r.ByHour, r.ByMinute, 0, 0, local.Location())
			if candidate.After(local) {
				return candidate.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("no WEEKLY run within the next two weeks")
	default:
		return time.Time{}, fmt.Errorf("unknown frequency %q", r.Freq)
	}
}

func (r *Rule) matchesDay(day time.Weekday) bool {
	for _, d := range r.ByDay {
		if d == day {
			return true
		}
	}
	return false
}

// Describe renders a short human summary, e.g. "every 2h on MO, WE"
// or "weekly on FR at 09:30".
func (r *Rule) Describe() string {
	switch r.Freq {
	case FreqHourly:
		base := "every hour"
		if r.IntervalHours > 1 {
			base = fmt.Sprintf("every %dh", r.IntervalHours)
		}
		if len(r.ByDay) > 0 {
			return base + " on " + dayCodes(r.ByDay)
		}
		return base
	case FreqWeekly:
		return fmt.Sprintf("weekly on %s at %02d:%02d", dayCodes(r.ByDay), r.ByHour, r.ByMinute)
	}
	return string(r.Freq)
}

func dayCodes(days []time.Weekday) string {
	codes := make([]string, 0, len(days))
	for _, d := range days {
		for code, wd := range weekdayCodes {
			if wd == d {
				codes = append(codes, code)
				break
			}
		}
	}
	return strings.Join(codes, ", ")
}

// ValidateCwd checks that a working directory entry is a plain
// absolute local path. URLs and relative paths are rejected before the
// automation is submitted.
func ValidateCwd(cwd string) error {
	trimmed := strings.TrimSpace(cwd)
	if trimmed == "" {
		return fmt.Errorf("working directory cannot be empty")
	}
	if strings.Contains(trimmed, "://") {
		return fmt.Errorf("working directory %q must be a local path, not a URL", trimmed)
	}
	if !strings.HasPrefix(trimmed, "/") {
		return fmt.Errorf("working directory %q must be an absolute path", trimmed)
	}
	return nil
}
