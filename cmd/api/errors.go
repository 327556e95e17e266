package main

import (
	"errors"
	"fmt"
	"net/http"

	"courtbook/internal/booking"
)

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	writeJSONError(w, http.StatusInternalServerError, "the server encountered a problem")
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	writeJSONError(w, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	writeJSONError(w, http.StatusNotFound, "not found")
}

func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("conflict", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	writeJSONError(w, http.StatusConflict, err.Error())
}

func (app *application) unauthorizedErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) unauthorizedBasicErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized basic", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)
	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	app.logger.Warnw("forbidden", "method", r.Method, "path", r.URL.Path)
	writeJSONError(w, http.StatusForbidden, "forbidden")
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter string) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path)
	w.Header().Set("Retry-After", retryAfter)
	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after: "+retryAfter)
}

func (app *application) unprocessableEntityResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unprocessable entity", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
}

func (app *application) serviceUnavailableResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("store unavailable", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	w.Header().Set("Retry-After", "5")
	writeJSONError(w, http.StatusServiceUnavailable, "service temporarily unavailable, please retry")
}

// bookingErrorResponse translates engine errors into HTTP responses. Every
// handler that calls into the engine funnels its failures through here.
func (app *application) bookingErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr  *booking.ValidationError
		closedErr      *booking.ScheduleClosedError
		windowErr      *booking.CancellationWindowError
		unavailableErr *booking.StoreUnavailableError
	)

	switch {
	case errors.As(err, &validationErr):
		app.badRequestResponse(w, r, err)
	case errors.As(err, &closedErr):
		app.unprocessableEntityResponse(w, r, err)
	case errors.As(err, &windowErr):
		app.unprocessableEntityResponse(w, r, err)
	case errors.Is(err, booking.ErrSlotConflict):
		app.conflictResponse(w, r, fmt.Errorf("the requested time slot is already taken"))
	case errors.Is(err, booking.ErrNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, booking.ErrForbidden):
		app.forbiddenResponse(w, r)
	case errors.As(err, &unavailableErr):
		app.serviceUnavailableResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}
