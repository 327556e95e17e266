package booking

// DefaultSlotMinutes is the nominal slot granularity when a facility has not
// configured a minimum booking duration.
const DefaultSlotMinutes = 60

// Slot is one candidate bookable bucket within an open window.
type Slot struct {
	Start     TimeOfDay `json:"start"`
	End       TimeOfDay `json:"end"`
	Available bool      `json:"available"`
}

// SlotStarts enumerates the candidate start times inside an open window at
// the given granularity: every start such that start+granularity <= close.
// It is a pure function of (window, granularity) — re-invoking it with the
// same inputs always yields the same sequence.
func SlotStarts(w OpenWindow, granularityMinutes int) []TimeOfDay {
	if !w.IsOpen || granularityMinutes <= 0 {
		return nil
	}
	var starts []TimeOfDay
	for t := w.Open; t+TimeOfDay(granularityMinutes) <= w.Close; t += TimeOfDay(granularityMinutes) {
		starts = append(starts, t)
	}
	return starts
}
