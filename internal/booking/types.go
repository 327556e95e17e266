package booking

import "time"

// Status is the booking lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

// Live reports whether a booking in this status still occupies its interval.
// Only live bookings participate in conflict detection.
func (s Status) Live() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusNoShow
}

func (s Status) Valid() bool {
	return s.Live() || s.Terminal()
}

// PaymentStatus tracks money state only; no gateway integration lives here.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// CourtType distinguishes indoor and outdoor courts.
type CourtType string

const (
	CourtIndoor  CourtType = "indoor"
	CourtOutdoor CourtType = "outdoor"
)

// Facility carries the subset of a facility the engine needs: ownership,
// schedule, and structured booking policy.
type Facility struct {
	ID                int64          `json:"id"`
	OwnerID           int64          `json:"owner_id"`
	Name              string         `json:"name"`
	CancellationHours int            `json:"cancellation_hours"`
	MinSlotMinutes    int            `json:"min_slot_minutes"`
	Schedule          WeeklySchedule `json:"schedule"`
}

// SlotMinutes returns the facility's slot granularity.
func (f *Facility) SlotMinutes() int {
	if f.MinSlotMinutes <= 0 {
		return DefaultSlotMinutes
	}
	return f.MinSlotMinutes
}

// Court is a bookable unit under a facility's sport entry. Bookings identify
// it by (facility, sport, name), not by its row id; the denormalized snapshot
// on Booking follows from that.
type Court struct {
	ID         int64     `json:"id"`
	FacilityID int64     `json:"facility_id"`
	Sport      string    `json:"sport"`
	Name       string    `json:"name"`
	Type       CourtType `json:"type"`
	HourlyRate int       `json:"hourly_rate"`
	IsActive   bool      `json:"is_active"`
}

// Booking is a reservation of one court interval on one calendar day.
// End is always derived from Start + Duration, and TotalAmount is frozen at
// creation: later rate changes on the court never touch existing bookings.
type Booking struct {
	ID              int64         `json:"id"`
	Reference       string        `json:"reference"`
	FacilityID      int64         `json:"facility_id"`
	Sport           string        `json:"sport"`
	CourtName       string        `json:"court_name"`
	CourtType       CourtType     `json:"court_type"`
	UserID          int64         `json:"user_id"`
	Date            Date          `json:"date"`
	Start           TimeOfDay     `json:"start_time"`
	End             TimeOfDay     `json:"end_time"`
	DurationMinutes int           `json:"duration_minutes"`
	TotalAmount     int           `json:"total_amount"`
	Status          Status        `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	RefundAmount    int           `json:"refund_amount"`
	CancelledBy     *int64        `json:"cancelled_by,omitempty"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty"`
	Players         []string      `json:"players,omitempty"`
	SpecialRequests string        `json:"special_requests,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// StartsAt returns the booking's start instant in the engine's naive UTC
// frame.
func (b *Booking) StartsAt() time.Time { return b.Date.At(b.Start) }

// EndsAt returns the booking's end instant.
func (b *Booking) EndsAt() time.Time { return b.Date.At(b.End) }

// BlockedSlot is an operator-declared maintenance interval. It behaves like
// a booking for conflict purposes but carries no payment state, and is
// soft-removed by clearing IsActive. Time-range edits are delete+recreate;
// an existing row is never mutated in place.
type BlockedSlot struct {
	ID         int64     `json:"id"`
	FacilityID int64     `json:"facility_id"`
	CourtName  string    `json:"court_name"`
	Date       Date      `json:"date"`
	Start      TimeOfDay `json:"start_time"`
	End        TimeOfDay `json:"end_time"`
	Reason     string    `json:"reason"`
	CreatedBy  int64     `json:"created_by"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}
