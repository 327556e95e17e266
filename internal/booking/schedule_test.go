package booking_test

import (
	"testing"
	"time"

	"courtbook/internal/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) booking.TimeOfDay {
	t.Helper()
	parsed, err := booking.ParseTimeOfDay(s)
	require.NoError(t, err)
	return parsed
}

func TestWeekdayOfDate(t *testing.T) {
	// 2024-01-01 was a Monday.
	assert.Equal(t, booking.Monday, booking.NewDate(2024, time.January, 1).Weekday())
	assert.Equal(t, booking.Sunday, booking.NewDate(2024, time.January, 7).Weekday())
	assert.Equal(t, booking.Saturday, booking.NewDate(2024, time.January, 6).Weekday())
}

func TestParseWeekday(t *testing.T) {
	w, err := booking.ParseWeekday(" Monday ")
	require.NoError(t, err)
	assert.Equal(t, booking.Monday, w)

	_, err = booking.ParseWeekday("mon")
	assert.Error(t, err, "short forms are not canonical and must be rejected")

	_, err = booking.ParseWeekday("funday")
	assert.Error(t, err)
}

func TestScheduleResolve(t *testing.T) {
	sched := booking.WeeklySchedule{
		booking.Monday: {Open: mustTime(t, "06:00"), Close: mustTime(t, "22:00"), IsOpen: true},
		booking.Friday: {Open: mustTime(t, "08:00"), Close: mustTime(t, "20:00"), IsOpen: false},
	}

	monday := booking.NewDate(2024, time.January, 1)
	w := sched.Resolve(monday)
	require.True(t, w.IsOpen)
	assert.Equal(t, "06:00", w.Open.String())
	assert.Equal(t, "22:00", w.Close.String())

	// Explicitly closed day.
	friday := booking.NewDate(2024, time.January, 5)
	assert.False(t, sched.Resolve(friday).IsOpen)

	// Unconfigured day resolves to closed, not an error.
	tuesday := booking.NewDate(2024, time.January, 2)
	assert.False(t, sched.Resolve(tuesday).IsOpen)
}

func TestScheduleResolveInvertedWindow(t *testing.T) {
	sched := booking.WeeklySchedule{
		booking.Monday: {Open: mustTime(t, "22:00"), Close: mustTime(t, "06:00"), IsOpen: true},
	}
	monday := booking.NewDate(2024, time.January, 1)
	assert.False(t, sched.Resolve(monday).IsOpen, "open >= close must resolve to closed")
}

func TestWindowContains(t *testing.T) {
	w := booking.OpenWindow{IsOpen: true, Open: mustTime(t, "06:00"), Close: mustTime(t, "22:00")}

	assert.True(t, w.Contains(mustTime(t, "06:00"), mustTime(t, "07:00")))
	assert.True(t, w.Contains(mustTime(t, "21:00"), mustTime(t, "22:00")))
	assert.False(t, w.Contains(mustTime(t, "05:00"), mustTime(t, "06:30")))
	assert.False(t, w.Contains(mustTime(t, "21:30"), mustTime(t, "22:30")))
	assert.False(t, booking.OpenWindow{}.Contains(mustTime(t, "10:00"), mustTime(t, "11:00")))
}
