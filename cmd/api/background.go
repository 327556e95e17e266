package main

import (
	"context"
	"time"
)

// sweepCompletedBookingsEvery30Mins periodically flips confirmed bookings
// whose end time has passed to completed, so courts show accurate histories
// even when owners never press the complete button.
func (app *application) sweepCompletedBookingsEvery30Mins() {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		app.sweepCompletedBookings()
		for range ticker.C {
			app.sweepCompletedBookings()
		}
	}()
}

func (app *application) sweepCompletedBookings() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := app.store.Reservations.MarkCompletedPast(ctx)
	if err != nil {
		app.logger.Errorw("sweeping completed bookings", "error", err)
		return
	}
	if n > 0 {
		app.logger.Infow("swept completed bookings", "count", n)
	}
}
