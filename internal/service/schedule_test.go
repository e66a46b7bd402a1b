package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yusufkecer/fittrack-backend/internal/domain"
)

// 2025-01-15 is a Wednesday.
func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.January, day, hour, minute, 0, 0, time.UTC)
}

func TestNextTrigger(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		clock string
		days  []string
		want  time.Time
	}{
		{"daily later today", at(15, 8, 0), "09:00", nil, at(15, 9, 0)},
		{"daily rolls to tomorrow", at(15, 10, 0), "09:00", nil, at(16, 9, 0)},
		{"daily at the exact minute rolls", at(15, 9, 0), "09:00", nil, at(16, 9, 0)},
		{"next listed weekday", at(15, 8, 0), "09:00", []string{"monday"}, at(20, 9, 0)},
		{"same weekday still ahead", at(13, 8, 0), "09:00", []string{"monday"}, at(13, 9, 0)},
		{"same weekday passed rolls a week", at(13, 10, 0), "09:00", []string{"monday"}, at(20, 9, 0)},
		{"earliest of several days", at(15, 10, 0), "07:30", []string{"friday", "thursday"}, at(16, 7, 30)},
		{"single digit hour", at(15, 8, 0), "9:05", nil, at(15, 9, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextTrigger(tt.now, tt.clock, tt.days)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestNextTriggerAlwaysFindsListedWeekday(t *testing.T) {
	for day := 13; day <= 19; day++ {
		now := at(day, 23, 59)
		name := WeekdayName(now.Weekday())
		got, err := NextTrigger(now, "00:00", []string{name})
		require.NoError(t, err)
		require.NotNil(t, got, name)
		assert.True(t, at(day+7, 0, 0).Equal(*got), "%s: got %s", name, got)
	}
}

func TestNextTriggerWithoutKnownWeekday(t *testing.T) {
	got, err := NextTrigger(at(15, 8, 0), "09:00", []string{"someday"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNextTriggerKeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	now := time.Date(2025, time.January, 15, 8, 0, 0, 0, loc)

	got, err := NextTrigger(now, "21:15", nil)
	require.NoError(t, err)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 21, got.Hour())
}

func TestNextTriggerRejectsBadClock(t *testing.T) {
	for _, clock := range []string{"", "25:00", "12:60", "noon"} {
		_, err := NextTrigger(at(15, 8, 0), clock, nil)
		require.Error(t, err, clock)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	}
}

func TestTodayReminders(t *testing.T) {
	now := at(15, 12, 0)
	reminders := []domain.Reminder{
		{Title: "late", Time: "21:00", IsActive: true},
		{Title: "wed", Time: "08:00", IsActive: true, Days: []string{"wednesday"}},
		{Title: "mon", Time: "07:00", IsActive: true, Days: []string{"monday"}},
		{Title: "off", Time: "06:00", IsActive: false},
	}

	due := TodayReminders(reminders, now)
	require.Len(t, due, 2)
	assert.Equal(t, "wed", due[0].Title)
	assert.Equal(t, "late", due[1].Title)
	assert.Equal(t, "wednesday", WeekdayName(now.Weekday()))
}

func TestNormalizeDays(t *testing.T) {
	days, err := NormalizeDays([]string{"Monday", " friday ", "monday"})
	require.NoError(t, err)
	assert.Equal(t, []string{"monday", "friday"}, days)

	days, err = NormalizeDays(nil)
	require.NoError(t, err)
	assert.Empty(t, days)

	_, err = NormalizeDays([]string{"funday"})
	assert.Error(t, err)
}

func TestNormalizeClock(t *testing.T) {
	got, err := NormalizeClock("7:05")
	require.NoError(t, err)
	assert.Equal(t, "07:05", got)

	_, err = NormalizeClock("7pm")
	assert.Error(t, err)
}
