package main

import (
	"errors"
	"net/http"

	"courtbook/internal/booking"
	"courtbook/internal/store"
)

type CreateCourtPayload struct {
	Name       string `json:"name" validate:"required,max=80"`
	Sport      string `json:"sport" validate:"required,max=40"`
	CourtType  string `json:"court_type" validate:"required,oneof=indoor outdoor"`
	HourlyRate int    `json:"hourly_rate" validate:"required,min=1"`
}

// createCourtHandler godoc
//
//	@Summary		Add a court
//	@Description	Adds a court to a facility. The (facility, sport, name) triple must be unique.
//	@Tags			courts
//	@Accept			json
//	@Produce		json
//	@Param			facilityID	path		int					true	"Facility ID"
//	@Param			payload		body		CreateCourtPayload	true	"Court details"
//	@Success		201			{object}	booking.Court
//	@Failure		400			{object}	error	"Bad Request"
//	@Failure		403			{object}	error	"Forbidden"
//	@Failure		409			{object}	error	"Duplicate court"
//	@Failure		500			{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/facilities/{facilityID}/courts [post]
func (app *application) createCourtHandler(w http.ResponseWriter, r *http.Request) {
	facilityID, err := parseIDParam(r, "facilityID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload CreateCourtPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	court := &booking.Court{
		FacilityID: facilityID,
		Name:       payload.Name,
		Sport:      payload.Sport,
		Type:       booking.CourtType(payload.CourtType),
		HourlyRate: payload.HourlyRate,
		IsActive:   true,
	}

	if err := app.store.Courts.Create(r.Context(), court); err != nil {
		if errors.Is(err, store.ErrConflict) {
			app.conflictResponse(w, r, errors.New("a court with this name already exists"))
			return
		}
		app.bookingErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, court); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listCourtsHandler godoc
//
//	@Summary		List courts
//	@Description	Lists a facility's courts
//	@Tags			courts
//	@Produce		json
//	@Param			facilityID	path		int	true	"Facility ID"
//	@Success		200			{array}		booking.Court
//	@Failure		500			{object}	error	"Internal Server Error"
//	@Router			/facilities/{facilityID}/courts [get]
func (app *application) listCourtsHandler(w http.ResponseWriter, r *http.Request) {
	facilityID, err := parseIDParam(r, "facilityID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	courts, err := app.store.Courts.ListByFacility(r.Context(), facilityID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, courts); err != nil {
		app.internalServerError(w, r, err)
	}
}

type SetCourtActivePayload struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// setCourtActiveHandler godoc
//
//	@Summary		Activate or deactivate a court
//	@Description	Toggles whether a court accepts new bookings. Existing bookings are untouched.
//	@Tags			courts
//	@Accept			json
//	@Produce		json
//	@Param			facilityID	path	int						true	"Facility ID"
//	@Param			courtID		path	int						true	"Court ID"
//	@Param			payload		body	SetCourtActivePayload	true	"Active flag"
//	@Success		204
//	@Failure		400	{object}	error	"Bad Request"
//	@Failure		403	{object}	error	"Forbidden"
//	@Failure		404	{object}	error	"Not Found"
//	@Failure		500	{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/facilities/{facilityID}/courts/{courtID}/active [patch]
func (app *application) setCourtActiveHandler(w http.ResponseWriter, r *http.Request) {
	facilityID, err := parseIDParam(r, "facilityID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	courtID, err := parseIDParam(r, "courtID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload SetCourtActivePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Courts.SetActive(r.Context(), facilityID, courtID, *payload.IsActive); err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
