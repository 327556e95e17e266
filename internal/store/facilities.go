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

// Facility is the full stored record; the engine consumes the narrower
// booking.Facility view assembled by EngineView.
type Facility struct {
	ID                int64     `json:"id"`
	OwnerID           int64     `json:"owner_id"`
	Name              string    `json:"name"`
	Address           string    `json:"address"`
	Phone             string    `json:"phone"`
	Description       *string   `json:"description,omitempty"`
	CancellationHours int       `json:"cancellation_hours"`
	MinSlotMinutes    int       `json:"min_slot_minutes"`
	PhotoURLs         []string  `json:"photo_urls,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type FacilitiesStore struct {
	db *pgxpool.Pool
}

func (s *FacilitiesStore) Create(ctx context.Context, f *Facility) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO facilities
			(owner_id, name, address, phone, description, cancellation_hours, min_slot_minutes, photo_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	err := s.db.QueryRow(ctx, query,
		f.OwnerID,
		f.Name,
		f.Address,
		f.Phone,
		f.Description,
		f.CancellationHours,
		f.MinSlotMinutes,
		f.PhotoURLs,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return wrapUnavailable("create facility", err)
	}
	return nil
}

func (s *FacilitiesStore) GetByID(ctx context.Context, facilityID int64) (*Facility, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT id, owner_id, name, address, phone, description,
		       cancellation_hours, min_slot_minutes, photo_urls, created_at, updated_at
		FROM facilities
		WHERE id = $1`
	var f Facility
	err := s.db.QueryRow(ctx, query, facilityID).Scan(
		&f.ID, &f.OwnerID, &f.Name, &f.Address, &f.Phone, &f.Description,
		&f.CancellationHours, &f.MinSlotMinutes, &f.PhotoURLs, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapUnavailable("load facility", err)
	}
	return &f, nil
}

func (s *FacilitiesStore) GetOwnedFacilityIDs(ctx context.Context, userID int64) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, `SELECT id FROM facilities WHERE owner_id = $1`, userID)
	if err != nil {
		return nil, wrapUnavailable("list owned facilities", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, wrapUnavailable("list owned facilities", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// EngineView loads the facility with its weekday schedule in the shape the
// booking engine consumes. Hours rows are keyed by the canonical weekday
// enum; nothing here guesses at alternative day-name spellings.
func (s *FacilitiesStore) EngineView(ctx context.Context, facilityID int64) (*booking.Facility, error) {
	f, err := s.GetByID(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT weekday, open_minutes, close_minutes, is_open
		FROM facility_hours
		WHERE facility_id = $1`, facilityID)
	if err != nil {
		return nil, wrapUnavailable("load facility hours", err)
	}
	defer rows.Close()

	schedule := make(booking.WeeklySchedule)
	for rows.Next() {
		var weekday int16
		var hours booking.DayHours
		if err := rows.Scan(&weekday, &hours.Open, &hours.Close, &hours.IsOpen); err != nil {
			return nil, wrapUnavailable("load facility hours", err)
		}
		schedule[booking.Weekday(weekday)] = hours
	}
	if err := rows.Err(); err != nil {
		return nil, wrapUnavailable("load facility hours", err)
	}

	return &booking.Facility{
		ID:                f.ID,
		OwnerID:           f.OwnerID,
		Name:              f.Name,
		CancellationHours: f.CancellationHours,
		MinSlotMinutes:    f.MinSlotMinutes,
		Schedule:          schedule,
	}, nil
}

// SetWeeklyHours replaces the facility's schedule in one transaction. Rows
// are written under canonical weekday keys only.
func (s *FacilitiesStore) SetWeeklyHours(ctx context.Context, facilityID int64, schedule booking.WeeklySchedule) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return wrapUnavailable("begin hours update", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM facility_hours WHERE facility_id = $1`, facilityID); err != nil {
		return wrapUnavailable("clear facility hours", err)
	}
	for weekday, hours := range schedule {
		_, err := tx.Exec(ctx, `
			INSERT INTO facility_hours (facility_id, weekday, open_minutes, close_minutes, is_open)
			VALUES ($1, $2, $3, $4, $5)`,
			facilityID, int16(weekday), int(hours.Open), int(hours.Close), hours.IsOpen)
		if err != nil {
			return wrapUnavailable("insert facility hours", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapUnavailable("commit hours update", err)
	}
	return nil
}

// UpdateInfo applies a partial update from an allow-listed field map.
func (s *FacilitiesStore) UpdateInfo(ctx context.Context, facilityID int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	allowed := map[string]bool{
		"name": true, "address": true, "phone": true, "description": true,
		"cancellation_hours": true, "min_slot_minutes": true,
	}
	setClauses := ""
	args := []any{}
	i := 1
	for field, value := range updates {
		if !allowed[field] {
			return fmt.Errorf("field %q cannot be updated", field)
		}
		if setClauses != "" {
			setClauses += ", "
		}
		setClauses += fmt.Sprintf("%s = $%d", field, i)
		args = append(args, value)
		i++
	}
	args = append(args, facilityID)

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := fmt.Sprintf(`UPDATE facilities SET %s, updated_at = NOW() WHERE id = $%d`, setClauses, i)
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return wrapUnavailable("update facility", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *FacilitiesStore) AddPhotoURL(ctx context.Context, facilityID int64, url string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, `
		UPDATE facilities
		SET photo_urls = array_append(photo_urls, $1), updated_at = NOW()
		WHERE id = $2`, url, facilityID)
	if err != nil {
		return wrapUnavailable("add facility photo", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *FacilitiesStore) RemovePhotoURL(ctx context.Context, facilityID int64, url string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, `
		UPDATE facilities
		SET photo_urls = array_remove(photo_urls, $1), updated_at = NOW()
		WHERE id = $2`, url, facilityID)
	if err != nil {
		return wrapUnavailable("remove facility photo", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
