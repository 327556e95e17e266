package mailer

import "embed"

const (
	FromName                 = "CourtBook"
	maxRetries               = 3
	UserWelcomeTemplate      = "user_welcome.tmpl"
	BookingConfirmedTemplate = "booking_confirmed.tmpl"
	BookingCancelledTemplate = "booking_cancelled.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
