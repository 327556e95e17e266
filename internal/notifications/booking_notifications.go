package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/9ssi7/exponent"
)

type BookingEvent string

const (
	BookingCreated   BookingEvent = "created"
	BookingConfirmed BookingEvent = "confirmed"
	BookingDeclined  BookingEvent = "declined"
	BookingCancelled BookingEvent = "cancelled"
	BookingCompleted BookingEvent = "completed"
	BookingNoShow    BookingEvent = "no_show"
)

var ErrNoTokens = errors.New("no push tokens")

// SendBookingNotification pushes a lifecycle update to every device the user
// has registered. The data payload drives deep linking on the client; tapping
// the notification routes to the bookings screen.
func SendBookingNotification(ctx context.Context, push PushSender, tokens TokenSource, userID int64, event BookingEvent, reference string) error {
	tokensMap, err := tokens.GetTokensByUserIDs(ctx, []int64{userID})
	if err != nil {
		return err
	}
	userTokens := dedupe(tokensMap[userID])
	if len(userTokens) == 0 {
		return ErrNoTokens
	}

	var title, body string
	switch event {
	case BookingCreated:
		title = "Booking Received"
		body = fmt.Sprintf("Your booking %s is pending confirmation", reference)
	case BookingConfirmed:
		title = "Booking Confirmed"
		body = fmt.Sprintf("Your booking %s has been confirmed! 🎉", reference)
	case BookingDeclined:
		title = "Booking Declined"
		body = fmt.Sprintf("Your booking %s was declined by the facility", reference)
	case BookingCancelled:
		title = "Booking Cancelled"
		body = fmt.Sprintf("Your booking %s has been cancelled", reference)
	case BookingCompleted:
		title = "Thanks for Playing"
		body = fmt.Sprintf("Your booking %s is complete. Hope you had a great game!", reference)
	case BookingNoShow:
		title = "Missed Booking"
		body = fmt.Sprintf("You were marked absent for booking %s", reference)
	default:
		title = "Booking Update"
		body = fmt.Sprintf("Your booking %s has an update", reference)
	}

	msgs := make([]*exponent.Message, 0, len(userTokens))
	for _, t := range userTokens {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			Data: map[string]string{
				"type":      "booking",
				"event":     string(event),
				"reference": reference,
				"screen":    "my-bookings",
			},
		})
	}

	_, err = push.Publish(ctx, msgs)
	return err
}

// SendOwnerBookingAlert tells a facility owner that a new booking request
// needs their attention. Missing tokens are not an error here; owners often
// manage bookings from the web dashboard only.
func SendOwnerBookingAlert(ctx context.Context, push PushSender, tokens TokenSource, ownerID int64, facilityName, reference string) error {
	tokensMap, err := tokens.GetTokensByUserIDs(ctx, []int64{ownerID})
	if err != nil {
		return err
	}
	ownerTokens := dedupe(tokensMap[ownerID])
	if len(ownerTokens) == 0 {
		return nil
	}

	msgs := make([]*exponent.Message, 0, len(ownerTokens))
	for _, t := range ownerTokens {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: "New Booking Request",
			Body:  fmt.Sprintf("%s has a new booking request (%s)", facilityName, reference),
			Data: map[string]string{
				"type":      "booking_request",
				"reference": reference,
				"screen":    "owner-bookings",
			},
		})
	}

	_, err = push.Publish(ctx, msgs)
	return err
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
