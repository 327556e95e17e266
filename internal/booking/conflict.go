package booking

// Overlaps is the single overlap predicate for half-open intervals
// [s1,e1) and [s2,e2): they conflict iff s1 < e2 && e1 > s2. Touching
// endpoints — one booking ending at 10:00, another starting at 10:00 — do
// not conflict. Every call site, including the store's insert transaction,
// goes through this function; a second implementation anywhere is a bug.
func Overlaps(s1, e1, s2, e2 TimeOfDay) bool {
	return s1 < e2 && e1 > s2
}

// Candidate is a requested reservation interval to test for conflicts.
type Candidate struct {
	FacilityID int64
	CourtName  string
	Date       Date
	Start      TimeOfDay
	End        TimeOfDay
}

// HasConflict reports whether the candidate interval collides with any live
// booking or active blocked slot. Comparisons are scoped to the same
// facility, the same calendar date, and the exact court name — courts are
// identified by name within their facility, so name equality is the contract,
// and cross-court or cross-date intervals are never compared. Cancelled,
// completed and no-show bookings are inert, as are inactive blocks.
func HasConflict(c Candidate, bookings []Booking, blocks []BlockedSlot) bool {
	for _, b := range bookings {
		if b.FacilityID != c.FacilityID || b.CourtName != c.CourtName || !b.Date.Equal(c.Date) {
			continue
		}
		if !b.Status.Live() {
			continue
		}
		if Overlaps(c.Start, c.End, b.Start, b.End) {
			return true
		}
	}
	for _, bl := range blocks {
		if bl.FacilityID != c.FacilityID || bl.CourtName != c.CourtName || !bl.Date.Equal(c.Date) {
			continue
		}
		if !bl.IsActive {
			continue
		}
		if Overlaps(c.Start, c.End, bl.Start, bl.End) {
			return true
		}
	}
	return false
}
