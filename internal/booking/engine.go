package booking

import (
	"context"
	"strings"
	"time"
)

// Booking duration limits: half an hour up to eight hours, in half-hour
// steps.
const (
	MinDurationMinutes  = 30
	MaxDurationMinutes  = 8 * 60
	DurationStepMinutes = 30
)

// ReservationStore is the persistence contract the engine requires. The one
// non-negotiable is CreateIfAvailable: conflict checking and insertion must
// be a single atomic operation scoped to the booking's (facility, court,
// date) triple, so that concurrent create attempts for overlapping intervals
// can never both succeed. Implementations surface timeouts as
// StoreUnavailableError, never as conflicts.
type ReservationStore interface {
	FacilityByID(ctx context.Context, facilityID int64) (*Facility, error)
	CourtByName(ctx context.Context, facilityID int64, sport, name string) (*Court, error)
	BookingsForCourtDate(ctx context.Context, facilityID int64, courtName string, date Date) ([]Booking, error)
	BlockedSlotsForCourtDate(ctx context.Context, facilityID int64, courtName string, date Date) ([]BlockedSlot, error)

	// CreateIfAvailable atomically re-checks conflicts and inserts the
	// booking, returning ErrSlotConflict when the interval is taken.
	CreateIfAvailable(ctx context.Context, b *Booking) error

	BookingByID(ctx context.Context, bookingID int64) (*Booking, error)
	UpdateStatus(ctx context.Context, b *Booking) error
}

// Engine is the availability and conflict-resolution core. It holds no
// internal state beyond its collaborators and spawns no goroutines; many
// request handlers call it concurrently.
type Engine struct {
	store ReservationStore
	refs  *ReferenceGenerator
	entry EntryPolicy

	// Now is the engine's clock, overridable in tests.
	Now func() time.Time
}

func NewEngine(store ReservationStore, refs *ReferenceGenerator, entry EntryPolicy) *Engine {
	return &Engine{
		store: store,
		refs:  refs,
		entry: entry,
		Now:   func() time.Time { return time.Now().UTC() },
	}
}

// Availability is the read-only view of one court's day.
type Availability struct {
	FacilityID     int64      `json:"facility_id"`
	Sport          string     `json:"sport"`
	CourtName      string     `json:"court_name"`
	Date           Date       `json:"date"`
	Window         OpenWindow `json:"window"`
	Slots          []Slot     `json:"slots"`
	ActiveBookings []Booking  `json:"active_bookings"`
}

// CheckAvailability resolves the operating window for the date, enumerates
// candidate slots at the facility's granularity, and marks each one against
// the live bookings and active blocks. With no intervening writes, two calls
// return identical slot lists.
func (e *Engine) CheckAvailability(ctx context.Context, facilityID int64, sport, courtName string, date Date) (*Availability, error) {
	facility, err := e.store.FacilityByID(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	court, err := e.store.CourtByName(ctx, facilityID, sport, courtName)
	if err != nil {
		return nil, err
	}

	out := &Availability{
		FacilityID: facilityID,
		Sport:      sport,
		CourtName:  court.Name,
		Date:       date,
		Window:     facility.Schedule.Resolve(date),
	}
	if !out.Window.IsOpen || !court.IsActive {
		out.Window = OpenWindow{}
		return out, nil
	}

	bookings, err := e.store.BookingsForCourtDate(ctx, facilityID, court.Name, date)
	if err != nil {
		return nil, err
	}
	blocks, err := e.store.BlockedSlotsForCourtDate(ctx, facilityID, court.Name, date)
	if err != nil {
		return nil, err
	}

	granularity := facility.SlotMinutes()
	for _, start := range SlotStarts(out.Window, granularity) {
		end := start + TimeOfDay(granularity)
		taken := HasConflict(Candidate{
			FacilityID: facilityID,
			CourtName:  court.Name,
			Date:       date,
			Start:      start,
			End:        end,
		}, bookings, blocks)
		out.Slots = append(out.Slots, Slot{Start: start, End: end, Available: !taken})
	}
	for _, b := range bookings {
		if b.Status.Live() {
			out.ActiveBookings = append(out.ActiveBookings, b)
		}
	}
	return out, nil
}

// CreateBookingRequest carries the raw reservation request. Date and
// StartTime arrive as wire strings; parse failures come back as
// ValidationError before the store is touched.
type CreateBookingRequest struct {
	FacilityID      int64
	UserID          int64
	Sport           string
	CourtName       string
	Date            string // "YYYY-MM-DD"
	StartTime       string // "HH:MM"
	DurationMinutes int
	Players         []string
	SpecialRequests string
}

// CreateBooking validates the request against the facility's schedule,
// prices the interval at the court's current rate, and hands the booking to
// the store's atomic insert. On success the returned booking is persisted in
// the entry policy's initial status with its total frozen.
func (e *Engine) CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error) {
	if strings.TrimSpace(req.Sport) == "" {
		return nil, invalidf("sport", "is required")
	}
	if strings.TrimSpace(req.CourtName) == "" {
		return nil, invalidf("court", "is required")
	}
	if req.DurationMinutes < MinDurationMinutes || req.DurationMinutes > MaxDurationMinutes {
		return nil, invalidf("duration", "must be between %d and %d minutes", MinDurationMinutes, MaxDurationMinutes)
	}
	if req.DurationMinutes%DurationStepMinutes != 0 {
		return nil, invalidf("duration", "must be a multiple of %d minutes", DurationStepMinutes)
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	start, err := ParseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := start.Add(req.DurationMinutes)
	if err != nil {
		return nil, invalidf("duration", "booking would run past midnight")
	}

	facility, err := e.store.FacilityByID(ctx, req.FacilityID)
	if err != nil {
		return nil, err
	}
	window := facility.Schedule.Resolve(date)
	if !window.IsOpen {
		return nil, &ScheduleClosedError{Date: date, Weekday: date.Weekday(), Reason: "facility is closed on this day"}
	}
	if !window.Contains(start, end) {
		return nil, &ScheduleClosedError{
			Date:    date,
			Weekday: date.Weekday(),
			Reason:  "requested time is outside operating hours " + window.Open.String() + "-" + window.Close.String(),
		}
	}

	court, err := e.store.CourtByName(ctx, req.FacilityID, req.Sport, req.CourtName)
	if err != nil {
		return nil, err
	}
	if !court.IsActive {
		return nil, invalidf("court", "%q is not accepting bookings", court.Name)
	}

	b := &Booking{
		Reference:       e.refs.Generate(req.UserID),
		FacilityID:      req.FacilityID,
		Sport:           court.Sport,
		CourtName:       court.Name,
		CourtType:       court.Type,
		UserID:          req.UserID,
		Date:            date,
		Start:           start,
		End:             end,
		DurationMinutes: req.DurationMinutes,
		TotalAmount:     PriceFor(court.HourlyRate, req.DurationMinutes),
		Status:          e.entry.Initial(),
		PaymentStatus:   PaymentPending,
		Players:         req.Players,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
	}
	if err := e.store.CreateIfAvailable(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// CancelBooking cancels on behalf of the booking's holder, computing the
// refund under the facility's cancellation policy. Inside the notice window
// it fails with CancellationWindowError; at or beyond the cutoff the refund
// is the full frozen amount.
func (e *Engine) CancelBooking(ctx context.Context, bookingID, actingUserID int64) (*Booking, error) {
	b, err := e.store.BookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != actingUserID {
		return nil, ErrForbidden
	}
	facility, err := e.store.FacilityByID(ctx, b.FacilityID)
	if err != nil {
		return nil, err
	}
	if err := Cancel(b, facility.CancellationPolicy(), e.Now(), actingUserID); err != nil {
		return nil, err
	}
	if err := e.store.UpdateStatus(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ConfirmBooking is the operator's accept step for pending requests.
func (e *Engine) ConfirmBooking(ctx context.Context, bookingID, actingUserID int64) (*Booking, error) {
	b, _, err := e.bookingForOperator(ctx, bookingID, actingUserID)
	if err != nil {
		return nil, err
	}
	if err := Confirm(b); err != nil {
		return nil, err
	}
	if err := e.store.UpdateStatus(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeclineBooking is the operator's rejection of a request. It cancels
// regardless of the notice window; the refund still honors the policy.
func (e *Engine) DeclineBooking(ctx context.Context, bookingID, actingUserID int64) (*Booking, error) {
	b, facility, err := e.bookingForOperator(ctx, bookingID, actingUserID)
	if err != nil {
		return nil, err
	}
	if err := ForceCancel(b, facility.CancellationPolicy(), e.Now(), actingUserID); err != nil {
		return nil, err
	}
	if err := e.store.UpdateStatus(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// CompleteBooking marks a confirmed booking completed after its end time.
func (e *Engine) CompleteBooking(ctx context.Context, bookingID, actingUserID int64) (*Booking, error) {
	b, _, err := e.bookingForOperator(ctx, bookingID, actingUserID)
	if err != nil {
		return nil, err
	}
	if err := Complete(b, e.Now()); err != nil {
		return nil, err
	}
	if err := e.store.UpdateStatus(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// MarkBookingNoShow records that the holder never turned up.
func (e *Engine) MarkBookingNoShow(ctx context.Context, bookingID, actingUserID int64) (*Booking, error) {
	b, _, err := e.bookingForOperator(ctx, bookingID, actingUserID)
	if err != nil {
		return nil, err
	}
	if err := MarkNoShow(b, e.Now()); err != nil {
		return nil, err
	}
	if err := e.store.UpdateStatus(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// bookingForOperator loads a booking and verifies the acting user owns the
// facility it belongs to.
func (e *Engine) bookingForOperator(ctx context.Context, bookingID, actingUserID int64) (*Booking, *Facility, error) {
	b, err := e.store.BookingByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	facility, err := e.store.FacilityByID(ctx, b.FacilityID)
	if err != nil {
		return nil, nil, err
	}
	if facility.OwnerID != actingUserID {
		return nil, nil, ErrForbidden
	}
	return b, facility, nil
}
