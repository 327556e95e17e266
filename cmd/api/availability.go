package main

import (
	"errors"
	"net/http"

	"courtbook/internal/booking"
)

// availabilityHandler godoc
//
//	@Summary		Check availability
//	@Description	Returns the slot grid for a court on a date, with each slot marked available or taken
//	@Tags			availability
//	@Produce		json
//	@Param			facilityID	path		int		true	"Facility ID"
//	@Param			sport		query		string	true	"Sport"
//	@Param			court		query		string	true	"Court name"
//	@Param			date		query		string	true	"Date (YYYY-MM-DD)"
//	@Success		200			{object}	booking.Availability
//	@Failure		400			{object}	error	"Bad Request"
//	@Failure		404			{object}	error	"Not Found"
//	@Failure		500			{object}	error	"Internal Server Error"
//	@Router			/facilities/{facilityID}/availability [get]
func (app *application) availabilityHandler(w http.ResponseWriter, r *http.Request) {
	facilityID, err := parseIDParam(r, "facilityID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	q := r.URL.Query()
	sport := q.Get("sport")
	courtName := q.Get("court")
	dateStr := q.Get("date")
	if sport == "" || courtName == "" || dateStr == "" {
		app.badRequestResponse(w, r, errors.New("sport, court and date are required"))
		return
	}

	date, err := booking.ParseDate(dateStr)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if cached := app.availability.Get(r.Context(), facilityID, sport, courtName, date); cached != nil {
		if err := app.jsonResponse(w, http.StatusOK, cached); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	grid, err := app.engine.CheckAvailability(r.Context(), facilityID, sport, courtName, date)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.availability.Set(r.Context(), facilityID, sport, courtName, date, grid)

	if err := app.jsonResponse(w, http.StatusOK, grid); err != nil {
		app.internalServerError(w, r, err)
	}
}
