package booking

import (
	"encoding/json"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a time-zone-naive calendar day. Internally it is pinned to
// midnight UTC so that equality and weekday derivation never depend on the
// server's locale.
type Date struct {
	t time.Time
}

// ParseDate parses a "YYYY-MM-DD" calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return Date{}, invalidf("date", "%q is not in YYYY-MM-DD format", s)
	}
	return Date{t: t}, nil
}

// NewDate builds a Date from calendar components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its UTC calendar day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

func (d Date) String() string { return d.t.Format(dateLayout) }

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// Weekday returns the canonical weekday for the date.
func (d Date) Weekday() Weekday { return weekdayOf(d.t.Weekday()) }

// At combines the date with a wall-clock time into a UTC instant. The
// cancellation-window comparison and the availability "now" cutoff both use
// this frame.
func (d Date) At(t TimeOfDay) time.Time {
	return d.t.Add(time.Duration(t) * time.Minute)
}

// Time returns midnight UTC of the date, for persistence as a DATE column.
func (d Date) Time() time.Time { return d.t }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
