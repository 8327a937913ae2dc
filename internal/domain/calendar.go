package domain

import "time"

const secondsPerDay = 24 * 60 * 60

// ArrivalDay is a calendar date encoded as whole days since 1970-01-01 UTC.
// It has no time-of-day component, so date comparisons are plain integer
// comparisons and it packs into composite map keys. Day arithmetic is pure
// calendar arithmetic in UTC; there is no DST to account for.
type ArrivalDay int

func ArrivalDayFromDate(d time.Time) ArrivalDay {
	u := d.UTC()
	midnight := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return ArrivalDay(midnight.Unix() / secondsPerDay)
}

// Date returns the day as midnight UTC of the calendar date it encodes.
func (d ArrivalDay) Date() time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

// String renders the day as YYYY-MM-DD.
func (d ArrivalDay) String() string { return d.Date().Format("2006-01-02") }

// ExtractWindow is a half-open capture interval [StartUTC, EndUTCExclusive).
type ExtractWindow struct {
	StartUTC        time.Time
	EndUTCExclusive time.Time
}

// WindowForArrivalMonth returns the calendar month immediately before the
// arrival month, as [firstInstantOfPrevMonth, firstInstantOfArrivalMonth).
// Capture activity happens roughly one month ahead of the stay, so that
// month holds the snapshots priced for arrivalMonth. The day component of
// arrivalMonth is ignored.
func WindowForArrivalMonth(arrivalMonth time.Time) ExtractWindow {
	u := arrivalMonth.UTC()
	end := time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	return ExtractWindow{StartUTC: end.AddDate(0, -1, 0), EndUTCExclusive: end}
}

func (w ExtractWindow) Contains(t time.Time) bool {
	return !t.Before(w.StartUTC) && t.Before(w.EndUTCExclusive)
}
