package main

import (
	"errors"
	"fmt"
	"net/http"

	"courtbook/internal/booking"
	"courtbook/internal/store"
)

type CreateBlockedSlotPayload struct {
	Sport     string `json:"sport" validate:"required,max=40"`
	CourtName string `json:"court_name" validate:"required,max=80"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
	Reason    string `json:"reason" validate:"required,max=255"`
}

// createBlockedSlotHandler godoc
//
//	@Summary		Block a time range
//	@Description	Declares a maintenance block on one court. Blocks behave like bookings for conflict purposes.
//	@Tags			blocked-slots
//	@Accept			json
//	@Produce		json
//	@Param			facilityID	path		int							true	"Facility ID"
//	@Param			payload		body		CreateBlockedSlotPayload	true	"Block details"
//	@Success		201			{object}	booking.BlockedSlot
//	@Failure		400			{object}	error	"Bad Request"
//	@Failure		403			{object}	error	"Forbidden"
//	@Failure		404			{object}	error	"Court Not Found"
//	@Failure		500			{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/facilities/{facilityID}/blocked-slots [post]
func (app *application) createBlockedSlotHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	facilityID, err := parseIDParam(r, "facilityID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload CreateBlockedSlotPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	date, err := booking.ParseDate(payload.Date)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	start, err := booking.ParseTimeOfDay(payload.StartTime)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	end, err := booking.ParseTimeOfDay(payload.EndTime)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if end <= start {
		app.badRequestResponse(w, r, fmt.Errorf("end_time must be after start_time"))
		return
	}

	court, err := app.store.Courts.GetByName(r.Context(), facilityID, payload.Sport, payload.CourtName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, fmt.Errorf("court %q not found", payload.CourtName))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	blk := &booking.BlockedSlot{
		FacilityID: facilityID,
		CourtName:  court.Name,
		Date:       date,
		Start:      start,
		End:        end,
		Reason:     payload.Reason,
		CreatedBy:  user.ID,
		IsActive:   true,
	}

	if err := app.store.BlockedSlots.Create(r.Context(), blk); err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.availability.Invalidate(r.Context(), facilityID, date)

	if err := app.jsonResponse(w, http.StatusCreated, blk); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listBlockedSlotsHandler godoc
//
//	@Summary		List blocked slots
//	@Description	Lists the active blocks for a facility on one date
//	@Tags			blocked-slots
//	@Produce		json
//	@Param			facilityID	path		int		true	"Facility ID"
//	@Param			date		query		string	true	"Date (YYYY-MM-DD)"
//	@Success		200			{array}		booking.BlockedSlot
//	@Failure		400			{object}	error	"Bad Request"
//	@Failure		403			{object}	error	"Forbidden"
//	@Security		ApiKeyAuth
//	@Router			/facilities/{facilityID}/blocked-slots [get]
func (app *application) listBlockedSlotsHandler(w http.ResponseWriter, r *http.Request) {
	facilityID, err := parseIDParam(r, "facilityID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	date, err := booking.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	blocks, err := app.store.BlockedSlots.ListForFacilityDate(r.Context(), facilityID, date)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, blocks); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deactivateBlockedSlotHandler godoc
//
//	@Summary		Remove a blocked slot
//	@Description	Soft-removes a block; the court becomes bookable again for that range
//	@Tags			blocked-slots
//	@Produce		json
//	@Param			facilityID	path	int	true	"Facility ID"
//	@Param			slotID		path	int	true	"Blocked slot ID"
//	@Success		204
//	@Failure		400	{object}	error	"Bad Request"
//	@Failure		403	{object}	error	"Forbidden"
//	@Failure		404	{object}	error	"Not Found"
//	@Security		ApiKeyAuth
//	@Router			/facilities/{facilityID}/blocked-slots/{slotID} [delete]
func (app *application) deactivateBlockedSlotHandler(w http.ResponseWriter, r *http.Request) {
	facilityID, err := parseIDParam(r, "facilityID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	slotID, err := parseIDParam(r, "slotID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	date, err := app.store.BlockedSlots.Deactivate(r.Context(), facilityID, slotID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.availability.Invalidate(r.Context(), facilityID, date)

	w.WriteHeader(http.StatusNoContent)
}
