package booking_test

import (
	"testing"

	"courtbook/internal/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotStartsHourly(t *testing.T) {
	w := booking.OpenWindow{IsOpen: true, Open: mustTime(t, "06:00"), Close: mustTime(t, "22:00")}

	starts := booking.SlotStarts(w, 60)
	require.Len(t, starts, 16)
	assert.Equal(t, "06:00", starts[0].String())
	assert.Equal(t, "21:00", starts[len(starts)-1].String(), "last start must leave room for a full slot before close")
}

func TestSlotStartsGranularity(t *testing.T) {
	w := booking.OpenWindow{IsOpen: true, Open: mustTime(t, "09:00"), Close: mustTime(t, "11:00")}

	starts := booking.SlotStarts(w, 30)
	require.Len(t, starts, 4)
	assert.Equal(t, "10:30", starts[3].String())

	// A slot that would not fit before close is never offered.
	starts = booking.SlotStarts(w, 90)
	require.Len(t, starts, 1)
	assert.Equal(t, "09:00", starts[0].String())
}

func TestSlotStartsClosedWindow(t *testing.T) {
	assert.Nil(t, booking.SlotStarts(booking.OpenWindow{}, 60))
	assert.Nil(t, booking.SlotStarts(booking.OpenWindow{IsOpen: true, Open: 600, Close: 660}, 0))
}

func TestSlotStartsRestartable(t *testing.T) {
	w := booking.OpenWindow{IsOpen: true, Open: mustTime(t, "06:00"), Close: mustTime(t, "22:00")}

	first := booking.SlotStarts(w, 60)
	second := booking.SlotStarts(w, 60)
	assert.Equal(t, first, second, "same window and granularity must always yield the same sequence")
}
