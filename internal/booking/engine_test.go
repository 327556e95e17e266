package booking_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"courtbook/internal/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore is an in-memory ReservationStore honoring the atomic
// insert-if-no-conflict contract with a single mutex, which stands in for
// the per-(facility,court,date) exclusion scope the real store takes via an
// advisory lock.
type stubStore struct {
	mu         sync.Mutex
	facilities map[int64]*booking.Facility
	courts     map[string]*booking.Court
	bookings   map[int64]*booking.Booking
	blocks     []booking.BlockedSlot
	nextID     int64

	failWith error // injected transient failure for every call when set
}

func newStubStore() *stubStore {
	return &stubStore{
		facilities: make(map[int64]*booking.Facility),
		courts:     make(map[string]*booking.Court),
		bookings:   make(map[int64]*booking.Booking),
	}
}

func courtKey(facilityID int64, sport, name string) string {
	return fmt.Sprintf("%d/%s/%s", facilityID, sport, name)
}

func (s *stubStore) FacilityByID(_ context.Context, id int64) (*booking.Facility, error) {
	if s.failWith != nil {
		return nil, &booking.StoreUnavailableError{Op: "load facility", Err: s.failWith}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.facilities[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (s *stubStore) CourtByName(_ context.Context, facilityID int64, sport, name string) (*booking.Court, error) {
	if s.failWith != nil {
		return nil, &booking.StoreUnavailableError{Op: "load court", Err: s.failWith}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courts[courtKey(facilityID, sport, name)]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *stubStore) BookingsForCourtDate(_ context.Context, facilityID int64, courtName string, date booking.Date) ([]booking.Booking, error) {
	if s.failWith != nil {
		return nil, &booking.StoreUnavailableError{Op: "load bookings", Err: s.failWith}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookingsLocked(facilityID, courtName, date), nil
}

func (s *stubStore) bookingsLocked(facilityID int64, courtName string, date booking.Date) []booking.Booking {
	var out []booking.Booking
	for _, b := range s.bookings {
		if b.FacilityID == facilityID && b.CourtName == courtName && b.Date.Equal(date) {
			out = append(out, *b)
		}
	}
	return out
}

func (s *stubStore) BlockedSlotsForCourtDate(_ context.Context, facilityID int64, courtName string, date booking.Date) ([]booking.BlockedSlot, error) {
	if s.failWith != nil {
		return nil, &booking.StoreUnavailableError{Op: "load blocked slots", Err: s.failWith}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []booking.BlockedSlot
	for _, bl := range s.blocks {
		if bl.FacilityID == facilityID && bl.CourtName == courtName && bl.Date.Equal(date) {
			out = append(out, bl)
		}
	}
	return out, nil
}

func (s *stubStore) CreateIfAvailable(_ context.Context, b *booking.Booking) error {
	if s.failWith != nil {
		return &booking.StoreUnavailableError{Op: "create booking", Err: s.failWith}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cand := booking.Candidate{
		FacilityID: b.FacilityID,
		CourtName:  b.CourtName,
		Date:       b.Date,
		Start:      b.Start,
		End:        b.End,
	}
	if booking.HasConflict(cand, s.bookingsLocked(b.FacilityID, b.CourtName, b.Date), s.blocks) {
		return booking.ErrSlotConflict
	}
	s.nextID++
	b.ID = s.nextID
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *stubStore) BookingByID(_ context.Context, id int64) (*booking.Booking, error) {
	if s.failWith != nil {
		return nil, &booking.StoreUnavailableError{Op: "load booking", Err: s.failWith}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *stubStore) UpdateStatus(_ context.Context, b *booking.Booking) error {
	if s.failWith != nil {
		return &booking.StoreUnavailableError{Op: "update booking", Err: s.failWith}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[b.ID]; !ok {
		return booking.ErrNotFound
	}
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

const (
	ownerID  = int64(1)
	playerID = int64(42)
)

// testEngine builds an engine over facility 1 with "Court 1" (badminton,
// Monday 06:00-22:00, rate 500/h) — the end-to-end fixture.
func testEngine(t *testing.T, entry booking.EntryPolicy) (*booking.Engine, *stubStore) {
	t.Helper()
	store := newStubStore()
	store.facilities[1] = &booking.Facility{
		ID:                1,
		OwnerID:           ownerID,
		Name:              "Riverside Sports Arena",
		CancellationHours: 24,
		MinSlotMinutes:    60,
		Schedule: booking.WeeklySchedule{
			booking.Monday: {Open: mustTime(t, "06:00"), Close: mustTime(t, "22:00"), IsOpen: true},
		},
	}
	store.courts[courtKey(1, "badminton", "Court 1")] = &booking.Court{
		ID: 10, FacilityID: 1, Sport: "badminton", Name: "Court 1",
		Type: booking.CourtIndoor, HourlyRate: 500, IsActive: true,
	}

	refs, err := booking.NewReferenceGenerator("test-salt")
	require.NoError(t, err)
	return booking.NewEngine(store, refs, entry), store
}

func createReq(start string, durationMinutes int) booking.CreateBookingRequest {
	return booking.CreateBookingRequest{
		FacilityID:      1,
		UserID:          playerID,
		Sport:           "badminton",
		CourtName:       "Court 1",
		Date:            "2024-01-01", // a Monday
		StartTime:       start,
		DurationMinutes: durationMinutes,
	}
}

func TestCreateBookingScenario(t *testing.T) {
	eng, _ := testEngine(t, booking.EntryPending)
	ctx := context.Background()

	// Booking A: 10:00 for one hour.
	a, err := eng.CreateBooking(ctx, createReq("10:00", 60))
	require.NoError(t, err)
	assert.Equal(t, 500, a.TotalAmount)
	assert.Equal(t, booking.StatusPending, a.Status)
	assert.Equal(t, "11:00", a.End.String())
	assert.Equal(t, booking.PaymentPending, a.PaymentStatus)
	assert.NotEmpty(t, a.Reference)

	// Booking B: 10:30-11:30 overlaps A.
	_, err = eng.CreateBooking(ctx, createReq("10:30", 60))
	assert.ErrorIs(t, err, booking.ErrSlotConflict)

	// Booking C: 11:00-12:00 touches A and succeeds.
	c, err := eng.CreateBooking(ctx, createReq("11:00", 60))
	require.NoError(t, err)
	assert.Equal(t, "12:00", c.End.String())
}

func TestCreateBookingAutoConfirm(t *testing.T) {
	eng, _ := testEngine(t, booking.EntryConfirmed)
	b, err := eng.CreateBooking(context.Background(), createReq("10:00", 60))
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed, b.Status)
}

func TestCreateBookingPricingFrozen(t *testing.T) {
	eng, store := testEngine(t, booking.EntryPending)
	ctx := context.Background()

	b, err := eng.CreateBooking(ctx, createReq("10:00", 90))
	require.NoError(t, err)
	assert.Equal(t, 750, b.TotalAmount)

	// A later rate change must not touch the persisted amount.
	store.courts[courtKey(1, "badminton", "Court 1")].HourlyRate = 900
	got, err := store.BookingByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 750, got.TotalAmount)
}

func TestCreateBookingValidation(t *testing.T) {
	eng, _ := testEngine(t, booking.EntryPending)
	ctx := context.Background()

	cases := []struct {
		name string
		req  booking.CreateBookingRequest
	}{
		{"bad time", createReq("10:xx", 60)},
		{"bad duration", createReq("10:00", 25)},
		{"duration too short", createReq("10:00", 15)},
		{"duration too long", createReq("10:00", 10*60)},
		{"missing court", func() booking.CreateBookingRequest { r := createReq("10:00", 60); r.CourtName = " "; return r }()},
		{"missing sport", func() booking.CreateBookingRequest { r := createReq("10:00", 60); r.Sport = ""; return r }()},
		{"bad date", func() booking.CreateBookingRequest { r := createReq("10:00", 60); r.Date = "01/01/2024"; return r }()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := eng.CreateBooking(ctx, tc.req)
			var verr *booking.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestCreateBookingScheduleClosed(t *testing.T) {
	eng, _ := testEngine(t, booking.EntryPending)
	ctx := context.Background()

	var cerr *booking.ScheduleClosedError

	// Tuesday is unconfigured: closed, not an error in the system sense.
	req := createReq("10:00", 60)
	req.Date = "2024-01-02"
	_, err := eng.CreateBooking(ctx, req)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, booking.Tuesday, cerr.Weekday)

	// Before opening.
	_, err = eng.CreateBooking(ctx, createReq("05:00", 60))
	assert.ErrorAs(t, err, &cerr)

	// Runs past closing.
	_, err = eng.CreateBooking(ctx, createReq("21:30", 60))
	assert.ErrorAs(t, err, &cerr)
}

func TestCreateBookingBlockedSlot(t *testing.T) {
	eng, store := testEngine(t, booking.EntryPending)
	store.blocks = append(store.blocks, booking.BlockedSlot{
		ID: 1, FacilityID: 1, CourtName: "Court 1",
		Date:  booking.NewDate(2024, time.January, 1),
		Start: mustTime(t, "09:00"), End: mustTime(t, "12:00"),
		Reason: "resurfacing", CreatedBy: ownerID, IsActive: true,
	})

	_, err := eng.CreateBooking(context.Background(), createReq("10:00", 60))
	assert.ErrorIs(t, err, booking.ErrSlotConflict)

	// Deactivated blocks release the window.
	store.blocks[0].IsActive = false
	_, err = eng.CreateBooking(context.Background(), createReq("10:00", 60))
	assert.NoError(t, err)
}

func TestCreateBookingConcurrent(t *testing.T) {
	eng, _ := testEngine(t, booking.EntryPending)

	const n = 24
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := eng.CreateBooking(context.Background(), createReq("10:00", 60))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, booking.ErrSlotConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent create may win")
	assert.Equal(t, n-1, conflicts)
}

func TestCheckAvailability(t *testing.T) {
	eng, _ := testEngine(t, booking.EntryPending)
	ctx := context.Background()
	date := booking.NewDate(2024, time.January, 1)

	_, err := eng.CreateBooking(ctx, createReq("10:00", 60))
	require.NoError(t, err)

	avail, err := eng.CheckAvailability(ctx, 1, "badminton", "Court 1", date)
	require.NoError(t, err)
	require.True(t, avail.Window.IsOpen)
	assert.Equal(t, "06:00", avail.Window.Open.String())
	require.Len(t, avail.Slots, 16)

	bySlot := make(map[string]bool, len(avail.Slots))
	for _, s := range avail.Slots {
		bySlot[s.Start.String()] = s.Available
	}
	assert.False(t, bySlot["10:00"], "booked hour is unavailable")
	assert.True(t, bySlot["09:00"])
	assert.True(t, bySlot["11:00"], "touching slot stays available")
	require.Len(t, avail.ActiveBookings, 1)

	// Idempotent with no intervening writes.
	again, err := eng.CheckAvailability(ctx, 1, "badminton", "Court 1", date)
	require.NoError(t, err)
	assert.Equal(t, avail.Slots, again.Slots)

	// Closed day: no slots, window closed.
	closed, err := eng.CheckAvailability(ctx, 1, "badminton", "Court 1", booking.NewDate(2024, time.January, 2))
	require.NoError(t, err)
	assert.False(t, closed.Window.IsOpen)
	assert.Empty(t, closed.Slots)
}

func TestCancelBooking(t *testing.T) {
	eng, _ := testEngine(t, booking.EntryPending)
	ctx := context.Background()

	b, err := eng.CreateBooking(ctx, createReq("10:00", 60))
	require.NoError(t, err)
	start := b.StartsAt()

	t.Run("more than 24h out refunds in full", func(t *testing.T) {
		eng.Now = func() time.Time { return start.Add(-49 * time.Hour) } // 2023-12-30 09:00
		cancelled, err := eng.CancelBooking(ctx, b.ID, playerID)
		require.NoError(t, err)
		assert.Equal(t, 500, cancelled.RefundAmount)
		assert.Equal(t, booking.PaymentRefunded, cancelled.PaymentStatus)
	})

	b2, err := eng.CreateBooking(ctx, createReq("10:00", 60))
	require.NoError(t, err)

	t.Run("inside the window is rejected", func(t *testing.T) {
		eng.Now = func() time.Time { return start.Add(-10*time.Hour - 30*time.Minute) } // 2023-12-31 23:30
		_, err := eng.CancelBooking(ctx, b2.ID, playerID)
		var werr *booking.CancellationWindowError
		assert.ErrorAs(t, err, &werr)
	})

	t.Run("only the holder may cancel", func(t *testing.T) {
		eng.Now = func() time.Time { return start.Add(-48 * time.Hour) }
		_, err := eng.CancelBooking(ctx, b2.ID, playerID+1)
		assert.ErrorIs(t, err, booking.ErrForbidden)
	})

	t.Run("unknown booking", func(t *testing.T) {
		_, err := eng.CancelBooking(ctx, 999, playerID)
		assert.ErrorIs(t, err, booking.ErrNotFound)
	})
}

func TestOperatorLifecycle(t *testing.T) {
	eng, _ := testEngine(t, booking.EntryPending)
	ctx := context.Background()

	b, err := eng.CreateBooking(ctx, createReq("10:00", 60))
	require.NoError(t, err)

	t.Run("only the facility owner operates", func(t *testing.T) {
		_, err := eng.ConfirmBooking(ctx, b.ID, playerID)
		assert.ErrorIs(t, err, booking.ErrForbidden)
	})

	confirmed, err := eng.ConfirmBooking(ctx, b.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed, confirmed.Status)

	t.Run("complete after the slot has passed", func(t *testing.T) {
		eng.Now = func() time.Time { return confirmed.EndsAt().Add(time.Hour) }
		done, err := eng.CompleteBooking(ctx, b.ID, ownerID)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusCompleted, done.Status)
	})

	t.Run("decline inside the window refunds nothing", func(t *testing.T) {
		b2, err := eng.CreateBooking(ctx, createReq("14:00", 60))
		require.NoError(t, err)
		eng.Now = func() time.Time { return b2.StartsAt().Add(-time.Hour) }
		declined, err := eng.DeclineBooking(ctx, b2.ID, ownerID)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusCancelled, declined.Status)
		assert.Zero(t, declined.RefundAmount)
	})

	t.Run("no-show after start", func(t *testing.T) {
		b3, err := eng.CreateBooking(ctx, createReq("16:00", 60))
		require.NoError(t, err)
		_, err = eng.ConfirmBooking(ctx, b3.ID, ownerID)
		require.NoError(t, err)
		eng.Now = func() time.Time { return b3.StartsAt().Add(30 * time.Minute) }
		ns, err := eng.MarkBookingNoShow(ctx, b3.ID, ownerID)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusNoShow, ns.Status)
	})
}

func TestStoreUnavailableSurfaces(t *testing.T) {
	eng, store := testEngine(t, booking.EntryPending)
	store.failWith = context.DeadlineExceeded

	var serr *booking.StoreUnavailableError

	_, err := eng.CheckAvailability(context.Background(), 1, "badminton", "Court 1", booking.NewDate(2024, time.January, 1))
	require.ErrorAs(t, err, &serr)

	_, err = eng.CreateBooking(context.Background(), createReq("12:00", 60))
	require.ErrorAs(t, err, &serr, "timeouts must surface as retryable store errors, not conflicts")
	assert.NotErrorIs(t, err, booking.ErrSlotConflict)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "the cause stays reachable for logging")
}
