package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"courtbook/internal/booking"
)

// ReservationsStore persists bookings and implements the engine's
// ReservationStore contract on top of pgx.
type ReservationsStore struct {
	db         *pgxpool.Pool
	facilities *FacilitiesStore
	courts     *CourtsStore
	blocked    *BlockedSlotsStore
}

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const bookingColumns = `
	id, reference, facility_id, sport, court_name, court_type, user_id,
	date, start_minutes, end_minutes, duration_minutes, total_amount,
	status, payment_status, refund_amount, cancelled_by, cancelled_at,
	players, special_requests, created_at, updated_at`

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var b booking.Booking
	var date time.Time
	var status, paymentStatus, courtType string
	err := row.Scan(
		&b.ID,
		&b.Reference,
		&b.FacilityID,
		&b.Sport,
		&b.CourtName,
		&courtType,
		&b.UserID,
		&date,
		&b.Start,
		&b.End,
		&b.DurationMinutes,
		&b.TotalAmount,
		&status,
		&paymentStatus,
		&b.RefundAmount,
		&b.CancelledBy,
		&b.CancelledAt,
		&b.Players,
		&b.SpecialRequests,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Date = booking.DateOf(date)
	b.Status = booking.Status(status)
	b.PaymentStatus = booking.PaymentStatus(paymentStatus)
	b.CourtType = booking.CourtType(courtType)
	return &b, nil
}

func collectBookings(ctx context.Context, q querier, sql string, args ...any) ([]booking.Booking, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (s *ReservationsStore) FacilityByID(ctx context.Context, facilityID int64) (*booking.Facility, error) {
	return s.facilities.EngineView(ctx, facilityID)
}

func (s *ReservationsStore) CourtByName(ctx context.Context, facilityID int64, sport, name string) (*booking.Court, error) {
	return s.courts.GetByName(ctx, facilityID, sport, name)
}

const bookingsForCourtDateQuery = `
	SELECT ` + bookingColumns + `
	FROM bookings
	WHERE facility_id = $1 AND court_name = $2 AND date = $3
	ORDER BY start_minutes`

func (s *ReservationsStore) BookingsForCourtDate(ctx context.Context, facilityID int64, courtName string, date booking.Date) ([]booking.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	out, err := collectBookings(ctx, s.db, bookingsForCourtDateQuery, facilityID, courtName, date.Time())
	if err != nil {
		return nil, wrapUnavailable("load bookings", err)
	}
	return out, nil
}

func (s *ReservationsStore) BlockedSlotsForCourtDate(ctx context.Context, facilityID int64, courtName string, date booking.Date) ([]booking.BlockedSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	out, err := s.blocked.forCourtDate(ctx, s.db, facilityID, courtName, date)
	if err != nil {
		return nil, wrapUnavailable("load blocked slots", err)
	}
	return out, nil
}

// CreateIfAvailable is the single atomic reserve operation. The transaction
// takes an advisory lock keyed by the booking's (facility, court, date)
// scope, so concurrent creates for the same court-day serialize; the
// conflict re-check inside the lock uses the same predicate as the
// availability path. Overlap is reported as booking.ErrSlotConflict;
// timeouts surface as retryable store errors, never as conflicts.
func (s *ReservationsStore) CreateIfAvailable(ctx context.Context, b *booking.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return wrapUnavailable("begin booking", err)
	}
	defer tx.Rollback(ctx)

	scope := fmt.Sprintf("%d|%s|%s", b.FacilityID, b.CourtName, b.Date)
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, scope); err != nil {
		return wrapUnavailable("lock booking scope", err)
	}

	existing, err := collectBookings(ctx, tx, bookingsForCourtDateQuery, b.FacilityID, b.CourtName, b.Date.Time())
	if err != nil {
		return wrapUnavailable("load bookings", err)
	}
	blocks, err := s.blocked.forCourtDate(ctx, tx, b.FacilityID, b.CourtName, b.Date)
	if err != nil {
		return wrapUnavailable("load blocked slots", err)
	}

	cand := booking.Candidate{
		FacilityID: b.FacilityID,
		CourtName:  b.CourtName,
		Date:       b.Date,
		Start:      b.Start,
		End:        b.End,
	}
	if booking.HasConflict(cand, existing, blocks) {
		return booking.ErrSlotConflict
	}

	insert := `
		INSERT INTO bookings
			(reference, facility_id, sport, court_name, court_type, user_id,
			 date, start_minutes, end_minutes, duration_minutes, total_amount,
			 status, payment_status, refund_amount, players, special_requests)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRow(ctx, insert,
		b.Reference,
		b.FacilityID,
		b.Sport,
		b.CourtName,
		string(b.CourtType),
		b.UserID,
		b.Date.Time(),
		b.Start,
		b.End,
		b.DurationMinutes,
		b.TotalAmount,
		string(b.Status),
		string(b.PaymentStatus),
		b.RefundAmount,
		b.Players,
		b.SpecialRequests,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return wrapUnavailable("insert booking", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return wrapUnavailable("commit booking", err)
	}
	return nil
}

func (s *ReservationsStore) BookingByID(ctx context.Context, bookingID int64) (*booking.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(s.db.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapUnavailable("load booking", err)
	}
	return b, nil
}

// UpdateStatus persists a lifecycle transition already validated by the
// engine. Bookings are never hard-deleted; cancellation only writes the
// refund fields and flips the status.
func (s *ReservationsStore) UpdateStatus(ctx context.Context, b *booking.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		UPDATE bookings
		SET status = $1,
		    payment_status = $2,
		    refund_amount = $3,
		    cancelled_by = $4,
		    cancelled_at = $5,
		    updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`
	err := s.db.QueryRow(ctx, query,
		string(b.Status),
		string(b.PaymentStatus),
		b.RefundAmount,
		b.CancelledBy,
		b.CancelledAt,
		b.ID,
	).Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return wrapUnavailable("update booking", err)
	}
	return nil
}

// ForFacilityDateStatus lists a facility's bookings for one date in one
// status, for the operator's pending/scheduled/cancelled views.
func (s *ReservationsStore) ForFacilityDateStatus(ctx context.Context, facilityID int64, date booking.Date, status booking.Status) ([]booking.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE facility_id = $1 AND date = $2 AND status = $3
		ORDER BY start_minutes, court_name`
	out, err := collectBookings(ctx, s.db, query, facilityID, date.Time(), string(status))
	if err != nil {
		return nil, wrapUnavailable("list facility bookings", err)
	}
	return out, nil
}

// ByUser lists a user's bookings, newest first, optionally filtered by
// status.
func (s *ReservationsStore) ByUser(ctx context.Context, userID int64, filter BookingFilter) ([]booking.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	offset := (filter.Page - 1) * filter.Limit
	out, err := collectBookings(ctx, s.db, query, userID, filter.Status, filter.Limit, offset)
	if err != nil {
		return nil, wrapUnavailable("list user bookings", err)
	}
	return out, nil
}

// MarkCompletedPast flips confirmed bookings whose end time has passed to
// completed. Run periodically from a background sweeper.
func (s *ReservationsStore) MarkCompletedPast(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, `
		UPDATE bookings
		SET status = 'completed', updated_at = NOW()
		WHERE status = 'confirmed'
		  AND date + make_interval(mins => end_minutes) < NOW()`)
	if err != nil {
		return 0, wrapUnavailable("sweep completed bookings", err)
	}
	return tag.RowsAffected(), nil
}
