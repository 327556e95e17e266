package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"courtbook/internal/booking"
	"courtbook/internal/mailer"
	"courtbook/internal/notifications"
	"courtbook/internal/params"
	"courtbook/internal/store"
)

type CreateBookingPayload struct {
	Sport           string   `json:"sport" validate:"required,max=40"`
	CourtName       string   `json:"court_name" validate:"required,max=80"`
	Date            string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime       string   `json:"start_time" validate:"required,hhmm"`
	DurationMinutes int      `json:"duration_minutes" validate:"required,min=30,max=480"`
	Players         []string `json:"players" validate:"omitempty,max=20,dive,max=80"`
	SpecialRequests string   `json:"special_requests" validate:"omitempty,max=500"`
}

// createBookingHandler godoc
//
//	@Summary		Create a booking
//	@Description	Books a court slot. Price is frozen at creation from the court's hourly rate. Returns 409 when the slot is taken.
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			facilityID	path		int						true	"Facility ID"
//	@Param			payload		body		CreateBookingPayload	true	"Booking request"
//	@Success		201			{object}	booking.Booking
//	@Failure		400			{object}	error	"Bad Request"
//	@Failure		409			{object}	error	"Slot conflict"
//	@Failure		422			{object}	error	"Facility closed"
//	@Failure		503			{object}	error	"Store unavailable"
//	@Security		ApiKeyAuth
//	@Router			/facilities/{facilityID}/bookings [post]
func (app *application) createBookingHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	facilityID, err := parseIDParam(r, "facilityID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload CreateBookingPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	b, err := app.engine.CreateBooking(r.Context(), booking.CreateBookingRequest{
		FacilityID:      facilityID,
		UserID:          user.ID,
		Sport:           payload.Sport,
		CourtName:       payload.CourtName,
		Date:            payload.Date,
		StartTime:       payload.StartTime,
		DurationMinutes: payload.DurationMinutes,
		Players:         payload.Players,
		SpecialRequests: payload.SpecialRequests,
	})
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.availability.Invalidate(r.Context(), b.FacilityID, b.Date)

	event := notifications.BookingCreated
	if b.Status == booking.StatusConfirmed {
		event = notifications.BookingConfirmed
	}
	app.notifyBookingAsync(user.ID, event, b.Reference)
	app.alertFacilityOwnerAsync(b)

	if b.Status == booking.StatusConfirmed {
		app.sendBookingEmailAsync(mailer.BookingConfirmedTemplate, user, b)
	}

	if err := app.jsonResponse(w, http.StatusCreated, b); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getBookingHandler godoc
//
//	@Summary		Get a booking
//	@Description	Fetches one booking. Only the holder or the facility owner may view it.
//	@Tags			bookings
//	@Produce		json
//	@Param			bookingID	path		int	true	"Booking ID"
//	@Success		200			{object}	booking.Booking
//	@Failure		403			{object}	error	"Forbidden"
//	@Failure		404			{object}	error	"Not Found"
//	@Security		ApiKeyAuth
//	@Router			/bookings/{bookingID} [get]
func (app *application) getBookingHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	bookingID, err := parseIDParam(r, "bookingID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	b, err := app.store.Reservations.BookingByID(r.Context(), bookingID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	if b.UserID != user.ID {
		facility, err := app.store.Facilities.GetByID(r.Context(), b.FacilityID)
		if err != nil {
			app.bookingErrorResponse(w, r, err)
			return
		}
		if facility.OwnerID != user.ID {
			app.forbiddenResponse(w, r)
			return
		}
	}

	if err := app.jsonResponse(w, http.StatusOK, b); err != nil {
		app.internalServerError(w, r, err)
	}
}

// cancelBookingHandler godoc
//
//	@Summary		Cancel a booking
//	@Description	Cancels the holder's booking. Inside the facility's cancellation window the request is rejected; outside it the full amount is refunded.
//	@Tags			bookings
//	@Produce		json
//	@Param			bookingID	path		int	true	"Booking ID"
//	@Success		200			{object}	booking.Booking
//	@Failure		403			{object}	error	"Forbidden"
//	@Failure		404			{object}	error	"Not Found"
//	@Failure		422			{object}	error	"Cancellation window expired"
//	@Security		ApiKeyAuth
//	@Router			/bookings/{bookingID}/cancel [post]
func (app *application) cancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	bookingID, err := parseIDParam(r, "bookingID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	b, err := app.engine.CancelBooking(r.Context(), bookingID, user.ID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.availability.Invalidate(r.Context(), b.FacilityID, b.Date)
	app.notifyBookingAsync(user.ID, notifications.BookingCancelled, b.Reference)
	app.sendBookingEmailAsync(mailer.BookingCancelledTemplate, user, b)

	if err := app.jsonResponse(w, http.StatusOK, b); err != nil {
		app.internalServerError(w, r, err)
	}
}

// confirmBookingHandler godoc
//
//	@Summary		Confirm a booking
//	@Description	Facility owner confirms a pending booking
//	@Tags			bookings
//	@Produce		json
//	@Param			bookingID	path		int	true	"Booking ID"
//	@Success		200			{object}	booking.Booking
//	@Failure		403			{object}	error	"Forbidden"
//	@Failure		404			{object}	error	"Not Found"
//	@Security		ApiKeyAuth
//	@Router			/bookings/{bookingID}/confirm [post]
func (app *application) confirmBookingHandler(w http.ResponseWriter, r *http.Request) {
	app.operatorAction(w, r, app.engine.ConfirmBooking, notifications.BookingConfirmed, mailer.BookingConfirmedTemplate)
}

// declineBookingHandler godoc
//
//	@Summary		Decline a booking
//	@Description	Facility owner declines a booking. The slot is released; refund follows the cancellation policy.
//	@Tags			bookings
//	@Produce		json
//	@Param			bookingID	path		int	true	"Booking ID"
//	@Success		200			{object}	booking.Booking
//	@Failure		403			{object}	error	"Forbidden"
//	@Failure		404			{object}	error	"Not Found"
//	@Security		ApiKeyAuth
//	@Router			/bookings/{bookingID}/decline [post]
func (app *application) declineBookingHandler(w http.ResponseWriter, r *http.Request) {
	app.operatorAction(w, r, app.engine.DeclineBooking, notifications.BookingDeclined, mailer.BookingCancelledTemplate)
}

// completeBookingHandler godoc
//
//	@Summary		Complete a booking
//	@Description	Facility owner marks a confirmed booking as completed after its end time
//	@Tags			bookings
//	@Produce		json
//	@Param			bookingID	path		int	true	"Booking ID"
//	@Success		200			{object}	booking.Booking
//	@Failure		403			{object}	error	"Forbidden"
//	@Failure		404			{object}	error	"Not Found"
//	@Security		ApiKeyAuth
//	@Router			/bookings/{bookingID}/complete [post]
func (app *application) completeBookingHandler(w http.ResponseWriter, r *http.Request) {
	app.operatorAction(w, r, app.engine.CompleteBooking, notifications.BookingCompleted, "")
}

// noShowBookingHandler godoc
//
//	@Summary		Mark a booking as no-show
//	@Description	Facility owner records that the player did not turn up
//	@Tags			bookings
//	@Produce		json
//	@Param			bookingID	path		int	true	"Booking ID"
//	@Success		200			{object}	booking.Booking
//	@Failure		403			{object}	error	"Forbidden"
//	@Failure		404			{object}	error	"Not Found"
//	@Security		ApiKeyAuth
//	@Router			/bookings/{bookingID}/no-show [post]
func (app *application) noShowBookingHandler(w http.ResponseWriter, r *http.Request) {
	app.operatorAction(w, r, app.engine.MarkBookingNoShow, notifications.BookingNoShow, "")
}

// operatorAction runs one owner-side lifecycle transition and fans out the
// side effects shared by all of them.
func (app *application) operatorAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, bookingID, actingUserID int64) (*booking.Booking, error),
	event notifications.BookingEvent,
	emailTemplate string,
) {
	user := getUserFromContext(r)

	bookingID, err := parseIDParam(r, "bookingID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	b, err := action(r.Context(), bookingID, user.ID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.availability.Invalidate(r.Context(), b.FacilityID, b.Date)
	app.notifyBookingAsync(b.UserID, event, b.Reference)

	if emailTemplate != "" {
		holder, err := app.store.Users.GetByID(r.Context(), b.UserID)
		if err != nil {
			app.logger.Errorw("loading booking holder for email", "error", err)
		} else {
			app.sendBookingEmailAsync(emailTemplate, holder, b)
		}
	}

	if err := app.jsonResponse(w, http.StatusOK, b); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listFacilityBookingsHandler godoc
//
//	@Summary		List facility bookings
//	@Description	Lists a facility's bookings for one date and status, for the owner's dashboard
//	@Tags			bookings
//	@Produce		json
//	@Param			facilityID	path		int		true	"Facility ID"
//	@Param			date		query		string	true	"Date (YYYY-MM-DD)"
//	@Param			status		query		string	false	"Booking status (default pending)"
//	@Success		200			{array}		booking.Booking
//	@Failure		400			{object}	error	"Bad Request"
//	@Failure		403			{object}	error	"Forbidden"
//	@Security		ApiKeyAuth
//	@Router			/facilities/{facilityID}/bookings [get]
func (app *application) listFacilityBookingsHandler(w http.ResponseWriter, r *http.Request) {
	facilityID, err := parseIDParam(r, "facilityID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	q := r.URL.Query()
	date, err := booking.ParseDate(q.Get("date"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	status := booking.StatusPending
	if s := q.Get("status"); s != "" {
		status = booking.Status(s)
		if !status.Valid() {
			app.badRequestResponse(w, r, fmt.Errorf("invalid status %q", s))
			return
		}
	}

	bookings, err := app.store.Reservations.ForFacilityDateStatus(r.Context(), facilityID, date, status)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, bookings); err != nil {
		app.internalServerError(w, r, err)
	}
}

func parseBookingFilter(r *http.Request) store.BookingFilter {
	p := params.ParsePagination(r.URL.Query())
	f := store.BookingFilter{Page: p.Page, Limit: p.Limit}
	if s := r.URL.Query().Get("status"); s != "" {
		f.Status = &s
	}
	return f
}

// notifyBookingAsync pushes a lifecycle notification without holding up the
// response. Missing tokens are expected for users who never registered a
// device.
func (app *application) notifyBookingAsync(userID int64, event notifications.BookingEvent, reference string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := notifications.SendBookingNotification(ctx, app.push, app.store.PushTokens, userID, event, reference)
		if err != nil && err != notifications.ErrNoTokens {
			app.logger.Errorw("sending booking notification", "event", event, "error", err)
		}
	}()
}

func (app *application) alertFacilityOwnerAsync(b *booking.Booking) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		facility, err := app.store.Facilities.GetByID(ctx, b.FacilityID)
		if err != nil {
			app.logger.Errorw("loading facility for owner alert", "error", err)
			return
		}

		err = notifications.SendOwnerBookingAlert(ctx, app.push, app.store.PushTokens, facility.OwnerID, facility.Name, b.Reference)
		if err != nil {
			app.logger.Errorw("sending owner booking alert", "error", err)
		}
	}()
}

func (app *application) sendBookingEmailAsync(templateFile string, user *store.User, b *booking.Booking) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		facility, err := app.store.Facilities.GetByID(ctx, b.FacilityID)
		if err != nil {
			app.logger.Errorw("loading facility for booking email", "error", err)
			return
		}

		vars := struct {
			Username     string
			Reference    string
			FacilityName string
			CourtName    string
			Date         string
			StartTime    string
			EndTime      string
			TotalAmount  int
			RefundAmount int
		}{
			Username:     user.FirstName,
			Reference:    b.Reference,
			FacilityName: facility.Name,
			CourtName:    b.CourtName,
			Date:         b.Date.String(),
			StartTime:    b.Start.String(),
			EndTime:      b.End.String(),
			TotalAmount:  b.TotalAmount,
			RefundAmount: b.RefundAmount,
		}

		status, err := app.mailer.Send(templateFile, user.FirstName, user.Email, vars)
		if err != nil {
			app.logger.Errorw("sending booking email", "template", templateFile, "error", err)
			return
		}
		app.logger.Infow("booking email sent", "template", templateFile, "status code", status)
	}()
}
