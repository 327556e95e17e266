package booking

import (
	"strings"
	"time"
)

// Weekday is the single canonical weekday enumeration, Monday through
// Sunday. Schedule data is normalized to it when hours are written; lookups
// never probe alternative spellings of a day name.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func (w Weekday) String() string {
	if w < Monday || w > Sunday {
		return "invalid"
	}
	return weekdayNames[w-1]
}

// ParseWeekday normalizes a lowercase full day name ("monday".."sunday")
// into the canonical enum. Used at schedule-write time only.
func ParseWeekday(s string) (Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range weekdayNames {
		if n == name {
			return Weekday(i + 1), nil
		}
	}
	return 0, invalidf("weekday", "%q is not a day of the week", s)
}

func weekdayOf(w time.Weekday) Weekday {
	if w == time.Sunday {
		return Sunday
	}
	return Weekday(w)
}

// DayHours is one weekday's configured operating window.
type DayHours struct {
	Open   TimeOfDay `json:"open"`
	Close  TimeOfDay `json:"close"`
	IsOpen bool      `json:"is_open"`
}

// WeeklySchedule maps canonical weekdays to operating windows. Days without
// an entry are treated as closed.
type WeeklySchedule map[Weekday]DayHours

// OpenWindow is the resolved operating window for one calendar date.
type OpenWindow struct {
	IsOpen bool      `json:"is_open"`
	Open   TimeOfDay `json:"open"`
	Close  TimeOfDay `json:"close"`
}

// Resolve maps a calendar date to the facility's open/close window for that
// day. A missing schedule entry yields closed, not an error: unconfigured
// days are a normal business state and must fail safe.
func (s WeeklySchedule) Resolve(d Date) OpenWindow {
	hours, ok := s[d.Weekday()]
	if !ok || !hours.IsOpen {
		return OpenWindow{}
	}
	if hours.Open >= hours.Close {
		// Malformed row; refuse to offer slots rather than invert the window.
		return OpenWindow{}
	}
	return OpenWindow{IsOpen: true, Open: hours.Open, Close: hours.Close}
}

// Contains reports whether [start,end) fits inside the open window.
func (w OpenWindow) Contains(start, end TimeOfDay) bool {
	return w.IsOpen && start >= w.Open && end <= w.Close
}
