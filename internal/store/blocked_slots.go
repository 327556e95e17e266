package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"courtbook/internal/booking"
)

type BlockedSlotsStore struct {
	db *pgxpool.Pool
}

func (s *BlockedSlotsStore) Create(ctx context.Context, blk *booking.BlockedSlot) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO blocked_slots
			(facility_id, court_name, date, start_minutes, end_minutes, reason, created_by, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	err := s.db.QueryRow(ctx, query,
		blk.FacilityID,
		blk.CourtName,
		blk.Date.Time(),
		int(blk.Start),
		int(blk.End),
		blk.Reason,
		blk.CreatedBy,
		blk.IsActive,
	).Scan(&blk.ID, &blk.CreatedAt)
	if err != nil {
		return wrapUnavailable("create blocked slot", err)
	}
	return nil
}

// forCourtDate loads every block for a court on a date, active or not, so
// the caller can apply the activity filter alongside the other conflict
// rules. It accepts a querier so CreateIfAvailable can read inside its
// transaction.
func (s *BlockedSlotsStore) forCourtDate(ctx context.Context, q querier, facilityID int64, courtName string, date booking.Date) ([]booking.BlockedSlot, error) {
	rows, err := q.Query(ctx, `
		SELECT id, facility_id, court_name, date, start_minutes, end_minutes, reason, created_by, is_active, created_at
		FROM blocked_slots
		WHERE facility_id = $1 AND court_name = $2 AND date = $3`,
		facilityID, courtName, date.Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []booking.BlockedSlot
	for rows.Next() {
		blk, err := scanBlockedSlot(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, blk)
	}
	return blocks, rows.Err()
}

func (s *BlockedSlotsStore) ListForFacilityDate(ctx context.Context, facilityID int64, date booking.Date) ([]booking.BlockedSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT id, facility_id, court_name, date, start_minutes, end_minutes, reason, created_by, is_active, created_at
		FROM blocked_slots
		WHERE facility_id = $1 AND date = $2 AND is_active = TRUE
		ORDER BY court_name, start_minutes`,
		facilityID, date.Time())
	if err != nil {
		return nil, wrapUnavailable("list blocked slots", err)
	}
	defer rows.Close()

	var blocks []booking.BlockedSlot
	for rows.Next() {
		blk, err := scanBlockedSlot(rows)
		if err != nil {
			return nil, wrapUnavailable("list blocked slots", err)
		}
		blocks = append(blocks, blk)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapUnavailable("list blocked slots", err)
	}
	return blocks, nil
}

// Deactivate soft-removes a block and returns its date so callers can drop
// cached grids for that day. The facility scoping in the WHERE clause keeps
// one facility's operator from touching another facility's blocks.
func (s *BlockedSlotsStore) Deactivate(ctx context.Context, facilityID, slotID int64) (booking.Date, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		UPDATE blocked_slots
		SET is_active = FALSE
		WHERE id = $1 AND facility_id = $2 AND is_active = TRUE
		RETURNING date`
	var date time.Time
	err := s.db.QueryRow(ctx, query, slotID, facilityID).Scan(&date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.Date{}, ErrNotFound
		}
		return booking.Date{}, wrapUnavailable("deactivate blocked slot", err)
	}
	return booking.DateOf(date), nil
}

func scanBlockedSlot(row pgx.Row) (booking.BlockedSlot, error) {
	var blk booking.BlockedSlot
	var date time.Time
	var start, end int
	err := row.Scan(
		&blk.ID, &blk.FacilityID, &blk.CourtName, &date, &start, &end,
		&blk.Reason, &blk.CreatedBy, &blk.IsActive, &blk.CreatedAt,
	)
	if err != nil {
		return booking.BlockedSlot{}, err
	}
	blk.Date = booking.DateOf(date)
	blk.Start = booking.TimeOfDay(start)
	blk.End = booking.TimeOfDay(end)
	return blk, nil
}
