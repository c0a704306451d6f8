package service

import "time"

// startOfDay truncates to local calendar-day granularity. All engine date
// comparisons happen at this granularity.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return startOfDay(a).Equal(startOfDay(b))
}

// monthsBetween counts whole calendar months elapsed from `from` to `to`.
// The fractional remainder toward the next month is deliberately not
// consumed: callers advance `from` by exactly the returned count.
func monthsBetween(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	// AddDate normalizes month-end overflow (Jan 31 + 1 month = Mar 3),
	// so walk back until the anchor actually fits.
	for months > 0 && from.AddDate(0, months, 0).After(to) {
		months--
	}
	return months
}
