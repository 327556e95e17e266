package booking_test

import (
	"testing"
	"time"

	"courtbook/internal/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmedBooking(t *testing.T) *booking.Booking {
	t.Helper()
	return &booking.Booking{
		ID:              7,
		FacilityID:      1,
		CourtName:       "Court 1",
		UserID:          42,
		Date:            booking.NewDate(2024, time.January, 1),
		Start:           mustTime(t, "10:00"),
		End:             mustTime(t, "11:00"),
		DurationMinutes: 60,
		TotalAmount:     500,
		Status:          booking.StatusConfirmed,
		PaymentStatus:   booking.PaymentPaid,
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to booking.Status
		ok       bool
	}{
		{booking.StatusPending, booking.StatusConfirmed, true},
		{booking.StatusPending, booking.StatusCancelled, true},
		{booking.StatusPending, booking.StatusCompleted, false},
		{booking.StatusPending, booking.StatusNoShow, false},
		{booking.StatusConfirmed, booking.StatusCompleted, true},
		{booking.StatusConfirmed, booking.StatusCancelled, true},
		{booking.StatusConfirmed, booking.StatusNoShow, true},
		{booking.StatusConfirmed, booking.StatusPending, false},
		{booking.StatusCancelled, booking.StatusConfirmed, false},
		{booking.StatusCompleted, booking.StatusCancelled, false},
		{booking.StatusNoShow, booking.StatusConfirmed, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, booking.CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestEntryPolicy(t *testing.T) {
	assert.Equal(t, booking.StatusPending, booking.EntryPending.Initial())
	assert.Equal(t, booking.StatusConfirmed, booking.EntryConfirmed.Initial())
}

func TestPriceFor(t *testing.T) {
	assert.Equal(t, 500, booking.PriceFor(500, 60))
	assert.Equal(t, 250, booking.PriceFor(500, 30))
	assert.Equal(t, 4000, booking.PriceFor(500, 480))
	assert.Equal(t, 750, booking.PriceFor(500, 90))
	assert.Equal(t, 0, booking.PriceFor(0, 60))
}

func TestCancelRefundBoundary(t *testing.T) {
	policy := booking.CancellationPolicy{MinNotice: 24 * time.Hour}
	start := booking.NewDate(2024, time.January, 1).At(mustTime(t, "10:00"))

	t.Run("exactly at the cutoff refunds in full", func(t *testing.T) {
		b := confirmedBooking(t)
		now := start.Add(-24 * time.Hour)
		require.NoError(t, booking.Cancel(b, policy, now, b.UserID))
		assert.Equal(t, booking.StatusCancelled, b.Status)
		assert.Equal(t, 500, b.RefundAmount)
		assert.Equal(t, booking.PaymentRefunded, b.PaymentStatus)
		require.NotNil(t, b.CancelledBy)
		assert.Equal(t, b.UserID, *b.CancelledBy)
		require.NotNil(t, b.CancelledAt)
		assert.Equal(t, now, *b.CancelledAt)
	})

	t.Run("one minute inside the window is rejected", func(t *testing.T) {
		b := confirmedBooking(t)
		now := start.Add(-24*time.Hour + time.Minute)
		err := booking.Cancel(b, policy, now, b.UserID)
		var werr *booking.CancellationWindowError
		require.ErrorAs(t, err, &werr)
		assert.Equal(t, booking.StatusConfirmed, b.Status, "a rejected cancellation must not mutate the booking")
		assert.Zero(t, b.RefundAmount)
	})

	t.Run("pending bookings can be cancelled too", func(t *testing.T) {
		b := confirmedBooking(t)
		b.Status = booking.StatusPending
		now := start.Add(-48 * time.Hour)
		require.NoError(t, booking.Cancel(b, policy, now, b.UserID))
		assert.Equal(t, 500, b.RefundAmount)
	})

	t.Run("terminal bookings cannot be cancelled", func(t *testing.T) {
		b := confirmedBooking(t)
		b.Status = booking.StatusCompleted
		err := booking.Cancel(b, policy, start.Add(-48*time.Hour), b.UserID)
		var verr *booking.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestForceCancel(t *testing.T) {
	policy := booking.CancellationPolicy{MinNotice: 24 * time.Hour}
	start := booking.NewDate(2024, time.January, 1).At(mustTime(t, "10:00"))

	t.Run("inside the window cancels with zero refund", func(t *testing.T) {
		b := confirmedBooking(t)
		now := start.Add(-30 * time.Minute)
		require.NoError(t, booking.ForceCancel(b, policy, now, 99))
		assert.Equal(t, booking.StatusCancelled, b.Status)
		assert.Zero(t, b.RefundAmount)
		assert.Equal(t, booking.PaymentPaid, b.PaymentStatus, "no refund means payment state is untouched")
	})

	t.Run("outside the window still refunds in full", func(t *testing.T) {
		b := confirmedBooking(t)
		now := start.Add(-48 * time.Hour)
		require.NoError(t, booking.ForceCancel(b, policy, now, 99))
		assert.Equal(t, 500, b.RefundAmount)
		assert.Equal(t, booking.PaymentRefunded, b.PaymentStatus)
	})
}

func TestFacilityCancellationPolicy(t *testing.T) {
	f := &booking.Facility{CancellationHours: 48}
	assert.Equal(t, 48*time.Hour, f.CancellationPolicy().MinNotice)

	f = &booking.Facility{}
	assert.Equal(t, 24*time.Hour, f.CancellationPolicy().MinNotice, "default window is 24h")
}

func TestCompleteAndNoShow(t *testing.T) {
	endOfBooking := booking.NewDate(2024, time.January, 1).At(mustTime(t, "11:00"))

	t.Run("complete after end", func(t *testing.T) {
		b := confirmedBooking(t)
		require.NoError(t, booking.Complete(b, endOfBooking.Add(time.Minute)))
		assert.Equal(t, booking.StatusCompleted, b.Status)
	})

	t.Run("complete before end is rejected", func(t *testing.T) {
		b := confirmedBooking(t)
		assert.Error(t, booking.Complete(b, endOfBooking.Add(-30*time.Minute)))
	})

	t.Run("no-show after start", func(t *testing.T) {
		b := confirmedBooking(t)
		require.NoError(t, booking.MarkNoShow(b, endOfBooking.Add(-30*time.Minute)))
		assert.Equal(t, booking.StatusNoShow, b.Status)
	})

	t.Run("pending bookings cannot be completed", func(t *testing.T) {
		b := confirmedBooking(t)
		b.Status = booking.StatusPending
		assert.Error(t, booking.Complete(b, endOfBooking.Add(time.Hour)))
	})
}

func TestConfirm(t *testing.T) {
	b := confirmedBooking(t)
	b.Status = booking.StatusPending
	require.NoError(t, booking.Confirm(b))
	assert.Equal(t, booking.StatusConfirmed, b.Status)

	assert.Error(t, booking.Confirm(b), "confirming twice is not a legal transition")
}
