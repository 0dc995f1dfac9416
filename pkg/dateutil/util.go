package dateutil

import "time"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// NextDay returns midnight of the day after t, the usual firing time for
// daily jobs.
func NextDay(t time.Time) time.Time {
	return BeginningOfDay(t).AddDate(0, 0, 1)
}
