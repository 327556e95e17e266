package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"courtbook/internal/booking"
	"courtbook/internal/cache"
	"courtbook/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCourts struct {
	courts map[string]*booking.Court
}

func (s *stubCourts) Create(context.Context, *booking.Court) error { return nil }

func (s *stubCourts) ListByFacility(context.Context, int64) ([]booking.Court, error) {
	return nil, nil
}

func (s *stubCourts) GetByName(_ context.Context, _ int64, sport, name string) (*booking.Court, error) {
	c, ok := s.courts[sport+"/"+name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (s *stubCourts) SetActive(context.Context, int64, int64, bool) error { return nil }

type stubBlockedSlots struct {
	created []*booking.BlockedSlot
}

func (s *stubBlockedSlots) Create(_ context.Context, blk *booking.BlockedSlot) error {
	s.created = append(s.created, blk)
	return nil
}

func (s *stubBlockedSlots) ListForFacilityDate(context.Context, int64, booking.Date) ([]booking.BlockedSlot, error) {
	return nil, nil
}

func (s *stubBlockedSlots) Deactivate(context.Context, int64, int64) (booking.Date, error) {
	return booking.Date{}, nil
}

func blockedSlotRequest(t *testing.T, payload CreateBlockedSlotPayload) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/facilities/1/blocked-slots", bytes.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("facilityID", "1")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, userCtx, &store.User{ID: 9})
	return req.WithContext(ctx)
}

func TestCreateBlockedSlotResolvesCourt(t *testing.T) {
	courts := &stubCourts{courts: map[string]*booking.Court{
		"futsal/Court 1": {ID: 1, FacilityID: 1, Sport: "futsal", Name: "Court 1", IsActive: true},
	}}
	blocked := &stubBlockedSlots{}
	app := &application{
		logger:       zap.NewNop().Sugar(),
		availability: cache.NewAvailabilityCache(nil),
		store:        store.Storage{Courts: courts, BlockedSlots: blocked},
	}

	payload := CreateBlockedSlotPayload{
		Sport:     "futsal",
		CourtName: "Court 1",
		Date:      "2026-09-07",
		StartTime: "10:00",
		EndTime:   "12:00",
		Reason:    "resurfacing",
	}

	rr := httptest.NewRecorder()
	app.createBlockedSlotHandler(rr, blockedSlotRequest(t, payload))

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Len(t, blocked.created, 1)
	assert.Equal(t, "Court 1", blocked.created[0].CourtName)
	assert.Equal(t, int64(9), blocked.created[0].CreatedBy)
	assert.True(t, blocked.created[0].IsActive)
}

func TestCreateBlockedSlotUnknownCourt(t *testing.T) {
	blocked := &stubBlockedSlots{}
	app := &application{
		logger:       zap.NewNop().Sugar(),
		availability: cache.NewAvailabilityCache(nil),
		store:        store.Storage{Courts: &stubCourts{}, BlockedSlots: blocked},
	}

	payload := CreateBlockedSlotPayload{
		Sport:     "futsal",
		CourtName: "Cuort 1",
		Date:      "2026-09-07",
		StartTime: "10:00",
		EndTime:   "12:00",
		Reason:    "resurfacing",
	}

	rr := httptest.NewRecorder()
	app.createBlockedSlotHandler(rr, blockedSlotRequest(t, payload))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, blocked.created)
}
