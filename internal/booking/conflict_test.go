package booking_test

import (
	"testing"
	"time"

	"courtbook/internal/booking"

	"github.com/stretchr/testify/assert"
)

func TestOverlapsSymmetry(t *testing.T) {
	intervals := [][2]booking.TimeOfDay{
		{540, 600},  // 09:00-10:00
		{600, 660},  // 10:00-11:00
		{570, 630},  // 09:30-10:30
		{540, 660},  // 09:00-11:00
		{0, 1439},   // whole day
		{630, 1140}, // 10:30-19:00
	}
	for _, a := range intervals {
		for _, b := range intervals {
			assert.Equal(t,
				booking.Overlaps(a[0], a[1], b[0], b[1]),
				booking.Overlaps(b[0], b[1], a[0], a[1]),
				"overlaps(%v,%v) must be symmetric", a, b)
		}
	}
}

func TestOverlapsBoundaries(t *testing.T) {
	// Touching endpoints never conflict: half-open semantics.
	assert.False(t, booking.Overlaps(540, 600, 600, 660), "09:00-10:00 vs 10:00-11:00")
	assert.False(t, booking.Overlaps(600, 660, 540, 600))

	// Strictly nested and crossing intervals always conflict.
	assert.True(t, booking.Overlaps(540, 660, 570, 630), "nested")
	assert.True(t, booking.Overlaps(570, 630, 540, 660), "containing")
	assert.True(t, booking.Overlaps(540, 600, 570, 630), "crossing")
	assert.True(t, booking.Overlaps(540, 600, 540, 600), "identical")
}

func TestHasConflictFiltering(t *testing.T) {
	date := booking.NewDate(2024, time.January, 1)
	otherDate := booking.NewDate(2024, time.January, 2)

	cand := booking.Candidate{
		FacilityID: 1,
		CourtName:  "Court 1",
		Date:       date,
		Start:      600, // 10:00
		End:        660, // 11:00
	}

	base := booking.Booking{
		FacilityID: 1,
		CourtName:  "Court 1",
		Date:       date,
		Start:      630,
		End:        690,
		Status:     booking.StatusConfirmed,
	}

	t.Run("live booking on same court conflicts", func(t *testing.T) {
		assert.True(t, booking.HasConflict(cand, []booking.Booking{base}, nil))
	})

	t.Run("pending bookings also hold the slot", func(t *testing.T) {
		b := base
		b.Status = booking.StatusPending
		assert.True(t, booking.HasConflict(cand, []booking.Booking{b}, nil))
	})

	t.Run("cancelled and completed bookings are inert", func(t *testing.T) {
		for _, s := range []booking.Status{booking.StatusCancelled, booking.StatusCompleted, booking.StatusNoShow} {
			b := base
			b.Status = s
			assert.False(t, booking.HasConflict(cand, []booking.Booking{b}, nil), "status %s", s)
		}
	})

	t.Run("other court name never compared", func(t *testing.T) {
		b := base
		b.CourtName = "Court 2"
		assert.False(t, booking.HasConflict(cand, []booking.Booking{b}, nil))
	})

	t.Run("court name match is exact", func(t *testing.T) {
		b := base
		b.CourtName = "court 1"
		assert.False(t, booking.HasConflict(cand, []booking.Booking{b}, nil))
	})

	t.Run("other date never compared", func(t *testing.T) {
		b := base
		b.Date = otherDate
		assert.False(t, booking.HasConflict(cand, []booking.Booking{b}, nil))
	})

	t.Run("other facility never compared", func(t *testing.T) {
		b := base
		b.FacilityID = 2
		assert.False(t, booking.HasConflict(cand, []booking.Booking{b}, nil))
	})
}

func TestHasConflictBlockedSlots(t *testing.T) {
	date := booking.NewDate(2024, time.January, 1)
	cand := booking.Candidate{FacilityID: 1, CourtName: "Court 1", Date: date, Start: 600, End: 660}

	block := booking.BlockedSlot{
		FacilityID: 1,
		CourtName:  "Court 1",
		Date:       date,
		Start:      630,
		End:        720,
		IsActive:   true,
	}
	assert.True(t, booking.HasConflict(cand, nil, []booking.BlockedSlot{block}))

	block.IsActive = false
	assert.False(t, booking.HasConflict(cand, nil, []booking.BlockedSlot{block}), "soft-removed blocks are inert")

	block.IsActive = true
	block.Start, block.End = 660, 720
	assert.False(t, booking.HasConflict(cand, nil, []booking.BlockedSlot{block}), "touching block does not conflict")
}
