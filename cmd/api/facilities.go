package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"courtbook/internal/booking"
	"courtbook/internal/store"
)

type CreateFacilityPayload struct {
	Name              string  `json:"name" validate:"required,max=120"`
	Address           string  `json:"address" validate:"required,max=255"`
	Phone             string  `json:"phone" validate:"required,len=10,numeric"`
	Description       *string `json:"description" validate:"omitempty,max=1000"`
	CancellationHours int     `json:"cancellation_hours" validate:"omitempty,min=0,max=168"`
	MinSlotMinutes    int     `json:"min_slot_minutes" validate:"omitempty,oneof=30 60 90 120"`
}

// createFacilityHandler godoc
//
//	@Summary		Create a facility
//	@Description	Registers a new facility owned by the authenticated user
//	@Tags			facilities
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateFacilityPayload	true	"Facility details"
//	@Success		201		{object}	store.Facility
//	@Failure		400		{object}	error	"Bad Request"
//	@Failure		500		{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/facilities [post]
func (app *application) createFacilityHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload CreateFacilityPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	facility := &store.Facility{
		OwnerID:           user.ID,
		Name:              payload.Name,
		Address:           payload.Address,
		Phone:             payload.Phone,
		Description:       payload.Description,
		CancellationHours: payload.CancellationHours,
		MinSlotMinutes:    payload.MinSlotMinutes,
	}
	if facility.CancellationHours == 0 {
		facility.CancellationHours = booking.DefaultCancellationHours
	}
	if facility.MinSlotMinutes == 0 {
		facility.MinSlotMinutes = booking.DefaultSlotMinutes
	}

	if err := app.store.Facilities.Create(r.Context(), facility); err != nil {
		if errors.Is(err, store.ErrConflict) {
			app.conflictResponse(w, r, err)
			return
		}
		app.bookingErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, facility); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getFacilityHandler godoc
//
//	@Summary		Get a facility
//	@Description	Fetches a facility with its weekly operating hours
//	@Tags			facilities
//	@Produce		json
//	@Param			facilityID	path		int	true	"Facility ID"
//	@Success		200			{object}	map[string]any
//	@Failure		404			{object}	error	"Not Found"
//	@Failure		500			{object}	error	"Internal Server Error"
//	@Router			/facilities/{facilityID} [get]
func (app *application) getFacilityHandler(w http.ResponseWriter, r *http.Request) {
	facilityID, err := parseIDParam(r, "facilityID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	facility, err := app.store.Facilities.GetByID(r.Context(), facilityID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	view, err := app.store.Facilities.EngineView(r.Context(), facilityID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	response := map[string]any{
		"facility": facility,
		"hours":    view.Schedule,
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateFacilityPayload struct {
	Name              *string `json:"name" validate:"omitempty,max=120"`
	Address           *string `json:"address" validate:"omitempty,max=255"`
	Phone             *string `json:"phone" validate:"omitempty,len=10,numeric"`
	Description       *string `json:"description" validate:"omitempty,max=1000"`
	CancellationHours *int    `json:"cancellation_hours" validate:"omitempty,min=0,max=168"`
	MinSlotMinutes    *int    `json:"min_slot_minutes" validate:"omitempty,oneof=30 60 90 120"`
}

// updateFacilityHandler godoc
//
//	@Summary		Update facility information
//	@Description	Applies a partial update to a facility's details
//	@Tags			facilities
//	@Accept			json
//	@Produce		json
//	@Param			facilityID	path	int						true	"Facility ID"
//	@Param			payload		body	UpdateFacilityPayload	true	"Fields to update"
//	@Success		204
//	@Failure		400	{object}	error	"Bad Request"
//	@Failure		403	{object}	error	"Forbidden"
//	@Failure		500	{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/facilities/{facilityID} [patch]
func (app *application) updateFacilityHandler(w http.ResponseWriter, r *http.Request) {
	facilityID, err := parseIDParam(r, "facilityID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateFacilityPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	updates := map[string]interface{}{}
	if payload.Name != nil {
		updates["name"] = *payload.Name
	}
	if payload.Address != nil {
		updates["address"] = *payload.Address
	}
	if payload.Phone != nil {
		updates["phone"] = *payload.Phone
	}
	if payload.Description != nil {
		updates["description"] = *payload.Description
	}
	if payload.CancellationHours != nil {
		updates["cancellation_hours"] = *payload.CancellationHours
	}
	if payload.MinSlotMinutes != nil {
		updates["min_slot_minutes"] = *payload.MinSlotMinutes
	}
	if len(updates) == 0 {
		app.badRequestResponse(w, r, errors.New("no fields to update"))
		return
	}

	if err := app.store.Facilities.UpdateInfo(r.Context(), facilityID, updates); err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type DayHoursPayload struct {
	Open   string `json:"open" validate:"required_if=IsOpen true,omitempty,hhmm"`
	Close  string `json:"close" validate:"required_if=IsOpen true,omitempty,hhmm"`
	IsOpen bool   `json:"is_open"`
}

type SetHoursPayload struct {
	Hours map[string]DayHoursPayload `json:"hours" validate:"required,min=1,max=7"`
}

// setFacilityHoursHandler godoc
//
//	@Summary		Set weekly operating hours
//	@Description	Replaces the facility's schedule. Days are keyed by lowercase weekday name; a missing day means closed.
//	@Tags			facilities
//	@Accept			json
//	@Produce		json
//	@Param			facilityID	path	int				true	"Facility ID"
//	@Param			payload		body	SetHoursPayload	true	"Weekly hours"
//	@Success		204
//	@Failure		400	{object}	error	"Bad Request"
//	@Failure		403	{object}	error	"Forbidden"
//	@Failure		500	{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/facilities/{facilityID}/hours [put]
func (app *application) setFacilityHoursHandler(w http.ResponseWriter, r *http.Request) {
	facilityID, err := parseIDParam(r, "facilityID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload SetHoursPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	schedule := make(booking.WeeklySchedule, len(payload.Hours))
	for dayName, hours := range payload.Hours {
		weekday, err := booking.ParseWeekday(dayName)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}

		day := booking.DayHours{IsOpen: hours.IsOpen}
		if hours.IsOpen {
			open, err := booking.ParseTimeOfDay(hours.Open)
			if err != nil {
				app.badRequestResponse(w, r, fmt.Errorf("%s: %w", dayName, err))
				return
			}
			close, err := booking.ParseTimeOfDay(hours.Close)
			if err != nil {
				app.badRequestResponse(w, r, fmt.Errorf("%s: %w", dayName, err))
				return
			}
			if close <= open {
				app.badRequestResponse(w, r, fmt.Errorf("%s: close must be after open", dayName))
				return
			}
			day.Open = open
			day.Close = close
		}
		schedule[weekday] = day
	}

	if err := app.store.Facilities.SetWeeklyHours(r.Context(), facilityID, schedule); err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	// Hours changes reshape every grid for this facility. Today's grid is
	// dropped eagerly; other dates age out with the cache TTL.
	app.availability.Invalidate(r.Context(), facilityID, booking.DateOf(app.engine.Now()))

	w.WriteHeader(http.StatusNoContent)
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}
