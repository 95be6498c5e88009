package domain

import "time"

// CalendarRules carries the booking grid and clinic operating window.
// All checks are against UTC wall-clock time.
type CalendarRules struct {
	SlotMinutes  int
	OpenHourUTC  int
	CloseHourUTC int
}

func DefaultCalendarRules() CalendarRules {
	return CalendarRules{
		SlotMinutes:  15,
		OpenHourUTC:  9,
		CloseHourUTC: 17,
	}
}

func (r CalendarRules) SlotDuration() time.Duration {
	return time.Duration(r.SlotMinutes) * time.Minute
}

func (r CalendarRules) GridAligned(t time.Time) bool {
	t = t.UTC()
	return t.Minute()%r.SlotMinutes == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// WithinClinicHours checks the start hour only. An appointment that starts
// before close is allowed to run past it; this is clinic policy, not a bug.
func (r CalendarRules) WithinClinicHours(t time.Time) bool {
	h := t.UTC().Hour()
	return h >= r.OpenHourUTC && h < r.CloseHourUTC
}

// DayWindow returns the clinic open and close instants for the given date.
func (r CalendarRules) DayWindow(date time.Time) (time.Time, time.Time) {
	d := date.UTC()
	open := time.Date(d.Year(), d.Month(), d.Day(), r.OpenHourUTC, 0, 0, 0, time.UTC)
	close := time.Date(d.Year(), d.Month(), d.Day(), r.CloseHourUTC, 0, 0, 0, time.UTC)
	return open, close
}

// Overlaps reports half-open interval intersection: back-to-back intervals
// where one ends exactly when the other starts do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
