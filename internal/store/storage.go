package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"courtbook/internal/booking"
)

var (
	ErrNotFound          = booking.ErrNotFound
	ErrConflict          = errors.New("resource already exists")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Users interface {
		Create(context.Context, *User) error
		GetByID(context.Context, int64) (*User, error)
		GetByEmail(context.Context, string) (*User, error)
		SaveRefreshToken(ctx context.Context, userID int64, token string) error
		GetRefreshToken(ctx context.Context, userID int64) (string, error)
		DeleteRefreshToken(ctx context.Context, userID int64) error
	}
	Facilities interface {
		Create(context.Context, *Facility) error
		GetByID(context.Context, int64) (*Facility, error)
		EngineView(context.Context, int64) (*booking.Facility, error)
		GetOwnedFacilityIDs(ctx context.Context, userID int64) ([]int64, error)
		UpdateInfo(context.Context, int64, map[string]interface{}) error
		SetWeeklyHours(context.Context, int64, booking.WeeklySchedule) error
		AddPhotoURL(context.Context, int64, string) error
		RemovePhotoURL(context.Context, int64, string) error
	}
	Courts interface {
		Create(context.Context, *booking.Court) error
		ListByFacility(context.Context, int64) ([]booking.Court, error)
		GetByName(ctx context.Context, facilityID int64, sport, name string) (*booking.Court, error)
		SetActive(ctx context.Context, facilityID, courtID int64, active bool) error
	}
	Reservations interface {
		booking.ReservationStore
		ForFacilityDateStatus(ctx context.Context, facilityID int64, date booking.Date, status booking.Status) ([]booking.Booking, error)
		ByUser(ctx context.Context, userID int64, filter BookingFilter) ([]booking.Booking, error)
		MarkCompletedPast(ctx context.Context) (int64, error)
	}
	BlockedSlots interface {
		Create(context.Context, *booking.BlockedSlot) error
		ListForFacilityDate(context.Context, int64, booking.Date) ([]booking.BlockedSlot, error)
		Deactivate(ctx context.Context, facilityID, slotID int64) (booking.Date, error)
	}
	PushTokens interface {
		AddOrUpdate(ctx context.Context, userID int64, token string, deviceInfo json.RawMessage) error
		Remove(ctx context.Context, userID int64, token string) error
		GetTokensByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]string, error)
	}
}

func NewStorage(db *pgxpool.Pool) Storage {
	facilities := &FacilitiesStore{db}
	courts := &CourtsStore{db}
	blocked := &BlockedSlotsStore{db}
	return Storage{
		Users:        &UsersStore{db},
		Facilities:   facilities,
		Courts:       courts,
		Reservations: &ReservationsStore{db: db, facilities: facilities, courts: courts, blocked: blocked},
		BlockedSlots: blocked,
		PushTokens:   &PushTokensStore{db},
	}
}

// BookingFilter narrows per-user booking listings.
type BookingFilter struct {
	Status *string
	Page   int
	Limit  int
}
