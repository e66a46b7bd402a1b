package service

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/yusufkecer/fittrack-backend/internal/domain"
)

var weekdayNames = [...]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

func WeekdayName(d time.Weekday) string {
	return weekdayNames[d]
}

func IsWeekdayName(s string) bool {
	return slices.Contains(weekdayNames[:], s)
}

// ParseClock parses "HH:MM" in 24 hour form.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, domain.ValidationError("invalid time %q, expected HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

// NextTrigger returns the next instant strictly after now at clock on one of
// days, in now's location.
//
// An empty days list rolls daily: today if still ahead, otherwise tomorrow.
// isRecurring is not consulted, so one-shot and daily reminders behave the
// same. With days set, today and the next seven days are scanned, so a
// reminder whose only day is today and whose time has passed lands on the
// same weekday next week. Every weekday is therefore reachable and the
// result is nil only when days names no weekday at all; handlers pass
// days through NormalizeDays first, so they always get a trigger.
func NextTrigger(now time.Time, clock string, days []string) (*time.Time, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return nil, err
	}

	at := func(offset int) time.Time {
		y, m, d := now.Date()
		return time.Date(y, m, d+offset, hour, minute, 0, 0, now.Location())
	}

	if len(days) == 0 {
		t := at(0)
		if !t.After(now) {
			t = at(1)
		}
		return &t, nil
	}

	for i := 0; i <= 7; i++ {
		t := at(i)
		if slices.Contains(days, WeekdayName(t.Weekday())) && t.After(now) {
			return &t, nil
		}
	}
	return nil, nil
}

// DueToday reports whether r fires on now's weekday. An empty day list means
// every day.
func DueToday(r domain.Reminder, now time.Time) bool {
	if len(r.Days) == 0 {
		return true
	}
	return slices.Contains(r.Days, WeekdayName(now.Weekday()))
}

// TodayReminders filters active reminders due today, ordered by time.
func TodayReminders(reminders []domain.Reminder, now time.Time) []domain.Reminder {
	due := make([]domain.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if r.IsActive && DueToday(r, now) {
			due = append(due, r)
		}
	}
	slices.SortStableFunc(due, func(a, b domain.Reminder) int { return strings.Compare(a.Time, b.Time) })
	return due
}

// NormalizeDays lowercases and de-duplicates day names, rejecting unknown
// ones.
func NormalizeDays(days []string) ([]string, error) {
	out := make([]string, 0, len(days))
	for _, d := range days {
		d = strings.ToLower(strings.TrimSpace(d))
		if !IsWeekdayName(d) {
			return nil, domain.ValidationError("invalid day %q", d)
		}
		if !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	return out, nil
}

func formatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// NormalizeClock rewrites "9:05" style input to "09:05".
func NormalizeClock(s string) (string, error) {
	h, m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return formatClock(h, m), nil
}
