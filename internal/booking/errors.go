package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSlotConflict means the requested interval overlaps an existing
	// booking or an active blocked slot for the same facility/court/date.
	ErrSlotConflict = errors.New("time slot is already taken")

	// ErrTimeOverflow means a time-of-day computation would cross midnight.
	// Bookings never span days.
	ErrTimeOverflow = errors.New("time would cross midnight")

	// ErrNotFound is returned when a referenced facility, court or booking
	// does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden is returned when the acting user does not own the
	// resource the operation targets.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports a malformed or out-of-range request field. It is
// raised before the store is touched and is never worth retrying.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ScheduleClosedError means the facility is not open for the requested
// window. An unconfigured weekday is a legitimate business state, so this is
// a rejection of the request, not a system failure.
type ScheduleClosedError struct {
	Date    Date
	Weekday Weekday
	Reason  string
}

func (e *ScheduleClosedError) Error() string {
	return fmt.Sprintf("facility is closed on %s (%s): %s", e.Date, e.Weekday, e.Reason)
}

// CancellationWindowError rejects a cancellation attempted with less notice
// than the facility's policy allows.
type CancellationWindowError struct {
	MinNotice time.Duration
	StartsIn  time.Duration
}

func (e *CancellationWindowError) Error() string {
	return fmt.Sprintf("cancellation window expired: booking starts in %s, policy requires %s notice",
		e.StartsIn.Round(time.Minute), e.MinNotice)
}

// StoreUnavailableError wraps a transient persistence failure (timeout,
// broken connection). It is the only error kind a caller should retry.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }
