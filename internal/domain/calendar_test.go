package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekdayIndex(t *testing.T) {
	// 2025-10-13 - понедельник
	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i)
		assert.Equal(t, i, WeekdayIndex(day), day.Weekday().String())
	}
}

func TestWeekdayIndex_SundayOnlyForSixIndex(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 366; i++ {
		day := start.AddDate(0, 0, i)
		if WeekdayIndex(day) == 6 {
			assert.Equal(t, time.Sunday, day.Weekday(), DateKey(day))
		} else {
			assert.NotEqual(t, time.Sunday, day.Weekday(), DateKey(day))
		}
	}
}

func TestWeekdayIndex_IgnoresTimeOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		t.Skip("tzdata not available")
	}
	lateSunday := time.Date(2025, 10, 19, 23, 30, 0, 0, loc)
	assert.Equal(t, 6, WeekdayIndex(lateSunday))
}

func TestIsDateInPast(t *testing.T) {
	now := time.Date(2025, 10, 15, 18, 0, 0, 0, time.UTC)

	assert.True(t, IsDateInPast(time.Date(2025, 10, 14, 23, 59, 0, 0, time.UTC), now))
	assert.False(t, IsDateInPast(time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, IsDateInPast(time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC), now))
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysBetween(from, from))
	assert.Equal(t, 27, DaysBetween(from, time.Date(2025, 10, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, DaysBetween(from, time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)))
}
