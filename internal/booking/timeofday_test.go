package booking_test

import (
	"testing"

	"courtbook/internal/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    booking.TimeOfDay
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "06:00", want: 360},
		{in: "10:30", want: 630},
		{in: "23:59", want: 1439},
		{in: "24:00", wantErr: true},
		{in: "09:60", wantErr: true},
		{in: "9:00", wantErr: true},
		{in: "0900", wantErr: true},
		{in: "morning", wantErr: true},
		{in: "", wantErr: true},
		{in: "09:3x", wantErr: true},
		{in: "0x:30", wantErr: true},
		{in: " 9:00", wantErr: true},
		{in: "09:30 ", wantErr: true},
		{in: "-9:00", wantErr: true},
	}
	for _, tc := range cases {
		got, err := booking.ParseTimeOfDay(tc.in)
		if tc.wantErr {
			var verr *booking.ValidationError
			assert.ErrorAs(t, err, &verr, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestTimeOfDayString(t *testing.T) {
	for _, s := range []string{"00:00", "06:05", "10:30", "23:59"} {
		parsed, err := booking.ParseTimeOfDay(s)
		require.NoError(t, err)
		assert.Equal(t, s, parsed.String())
	}
}

func TestTimeOfDayAdd(t *testing.T) {
	ten, err := booking.ParseTimeOfDay("10:00")
	require.NoError(t, err)

	eleven, err := ten.Add(60)
	require.NoError(t, err)
	assert.Equal(t, "11:00", eleven.String())

	_, err = ten.Add(15 * 60)
	assert.ErrorIs(t, err, booking.ErrTimeOverflow, "additions past midnight must fail")

	// Ending exactly at midnight closes the day without overflowing.
	lateStart, err := booking.ParseTimeOfDay("23:00")
	require.NoError(t, err)
	_, err = lateStart.Add(60)
	assert.NoError(t, err)
}
