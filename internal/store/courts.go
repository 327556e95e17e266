package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"courtbook/internal/booking"
)

type CourtsStore struct {
	db *pgxpool.Pool
}

func (s *CourtsStore) Create(ctx context.Context, c *booking.Court) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO courts (facility_id, name, sport, court_type, hourly_rate, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := s.db.QueryRow(ctx, query,
		c.FacilityID, c.Name, c.Sport, string(c.Type), c.HourlyRate, c.IsActive,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return wrapUnavailable("create court", err)
	}
	return nil
}

func (s *CourtsStore) ListByFacility(ctx context.Context, facilityID int64) ([]booking.Court, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT id, facility_id, name, sport, court_type, hourly_rate, is_active
		FROM courts
		WHERE facility_id = $1
		ORDER BY name`, facilityID)
	if err != nil {
		return nil, wrapUnavailable("list courts", err)
	}
	defer rows.Close()

	var courts []booking.Court
	for rows.Next() {
		var c booking.Court
		var courtType string
		if err := rows.Scan(&c.ID, &c.FacilityID, &c.Name, &c.Sport, &courtType, &c.HourlyRate, &c.IsActive); err != nil {
			return nil, wrapUnavailable("list courts", err)
		}
		c.Type = booking.CourtType(courtType)
		courts = append(courts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapUnavailable("list courts", err)
	}
	return courts, nil
}

// GetByName matches the court name exactly; lookups are case sensitive.
func (s *CourtsStore) GetByName(ctx context.Context, facilityID int64, sport, name string) (*booking.Court, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT id, facility_id, name, sport, court_type, hourly_rate, is_active
		FROM courts
		WHERE facility_id = $1 AND sport = $2 AND name = $3`
	var c booking.Court
	var courtType string
	err := s.db.QueryRow(ctx, query, facilityID, sport, name).Scan(
		&c.ID, &c.FacilityID, &c.Name, &c.Sport, &courtType, &c.HourlyRate, &c.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapUnavailable("load court", err)
	}
	c.Type = booking.CourtType(courtType)
	return &c, nil
}

func (s *CourtsStore) SetActive(ctx context.Context, facilityID, courtID int64, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, `UPDATE courts SET is_active = $1 WHERE id = $2 AND facility_id = $3`, active, courtID, facilityID)
	if err != nil {
		return wrapUnavailable("update court", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
