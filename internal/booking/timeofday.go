package booking

import (
	"encoding/json"
	"fmt"
)

// TimeOfDay is a wall-clock time expressed as minutes since midnight
// (0..1439). All interval comparisons happen on these integers; "HH:MM"
// strings exist only at the external interface.
type TimeOfDay int

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour

	// Midnight is the first representable time of a day.
	Midnight TimeOfDay = 0
)

// ParseTimeOfDay parses a strict "HH:MM" wall-clock string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' ||
		!isDigit(s[0]) || !isDigit(s[1]) || !isDigit(s[3]) || !isDigit(s[4]) {
		return 0, invalidf("time", "%q is not in HH:MM format", s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, invalidf("time", "%q is out of range", s)
	}
	return TimeOfDay(h*minutesPerHour + m), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/minutesPerHour, int(t)%minutesPerHour)
}

// Valid reports whether t falls within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

// Add advances t by the given number of minutes. The result must stay within
// the same day; a booking ending past midnight is ErrTimeOverflow, not a
// wraparound.
func (t TimeOfDay) Add(minutes int) (TimeOfDay, error) {
	out := t + TimeOfDay(minutes)
	if out < 0 || out > minutesPerDay {
		return 0, ErrTimeOverflow
	}
	return out, nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
