package booking

import "time"

// EntryPolicy decides the initial status of a new booking. Facilities that
// review requests manually start bookings in pending; facilities that skip
// review confirm immediately. Both are supported.
type EntryPolicy int

const (
	EntryPending EntryPolicy = iota
	EntryConfirmed
)

// Initial returns the status a new booking is created in.
func (p EntryPolicy) Initial() Status {
	if p == EntryConfirmed {
		return StatusConfirmed
	}
	return StatusPending
}

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// CanTransition reports whether the lifecycle permits moving from one status
// to another. Cancelled, completed and no_show are terminal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CancellationPolicy is the structured refund-window policy consumed by the
// lifecycle. The cutoff lives here, loaded from the facility's configuration,
// not as inline constants at call sites.
type CancellationPolicy struct {
	MinNotice time.Duration
}

// DefaultCancellationHours applies when a facility has no override.
const DefaultCancellationHours = 24

// CancellationPolicy returns the facility's refund-window policy.
func (f *Facility) CancellationPolicy() CancellationPolicy {
	hours := f.CancellationHours
	if hours <= 0 {
		hours = DefaultCancellationHours
	}
	return CancellationPolicy{MinNotice: time.Duration(hours) * time.Hour}
}

// PriceFor computes the frozen total for a booking: hourly rate times the
// booked duration.
func PriceFor(hourlyRate, durationMinutes int) int {
	return hourlyRate * durationMinutes / minutesPerHour
}

// Cancel transitions a booking to cancelled on behalf of its holder. It
// fails with CancellationWindowError when less than the policy's notice
// remains before the start: cancelling at exactly the cutoff still succeeds
// with a full refund. On success the booking's refund fields are set and the
// row is ready to persist.
func Cancel(b *Booking, policy CancellationPolicy, now time.Time, byUserID int64) error {
	if !CanTransition(b.Status, StatusCancelled) {
		return invalidf("status", "booking is %s and cannot be cancelled", b.Status)
	}
	startsIn := b.StartsAt().Sub(now)
	if startsIn < policy.MinNotice {
		return &CancellationWindowError{MinNotice: policy.MinNotice, StartsIn: startsIn}
	}
	applyCancellation(b, now, byUserID, b.TotalAmount)
	return nil
}

// ForceCancel transitions a booking to cancelled regardless of the notice
// window; operators declining a request go through here. The refund still
// honors the window: full when enough notice remains, zero inside it.
func ForceCancel(b *Booking, policy CancellationPolicy, now time.Time, byUserID int64) error {
	if !CanTransition(b.Status, StatusCancelled) {
		return invalidf("status", "booking is %s and cannot be cancelled", b.Status)
	}
	refund := 0
	if b.StartsAt().Sub(now) >= policy.MinNotice {
		refund = b.TotalAmount
	}
	applyCancellation(b, now, byUserID, refund)
	return nil
}

func applyCancellation(b *Booking, now time.Time, byUserID int64, refund int) {
	b.Status = StatusCancelled
	b.RefundAmount = refund
	if refund > 0 {
		b.PaymentStatus = PaymentRefunded
	}
	by := byUserID
	at := now
	b.CancelledBy = &by
	b.CancelledAt = &at
}

// Complete marks a confirmed booking as completed once its scheduled end has
// passed.
func Complete(b *Booking, now time.Time) error {
	if !CanTransition(b.Status, StatusCompleted) {
		return invalidf("status", "booking is %s and cannot be completed", b.Status)
	}
	if now.Before(b.EndsAt()) {
		return invalidf("status", "booking has not finished yet")
	}
	b.Status = StatusCompleted
	return nil
}

// MarkNoShow marks a confirmed booking as no_show once its start has passed.
// No-shows forfeit the payment.
func MarkNoShow(b *Booking, now time.Time) error {
	if !CanTransition(b.Status, StatusNoShow) {
		return invalidf("status", "booking is %s and cannot be marked no-show", b.Status)
	}
	if now.Before(b.StartsAt()) {
		return invalidf("status", "booking has not started yet")
	}
	b.Status = StatusNoShow
	return nil
}

// Confirm moves a pending booking to confirmed.
func Confirm(b *Booking) error {
	if !CanTransition(b.Status, StatusConfirmed) {
		return invalidf("status", "booking is %s and cannot be confirmed", b.Status)
	}
	b.Status = StatusConfirmed
	return nil
}
