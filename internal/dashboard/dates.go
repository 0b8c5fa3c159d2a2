package dashboard

import "time"

// LabelLayout renders a day as DD/MM.
const LabelLayout = "02/01"

// DateOf truncates t to its calendar date, keeping t's location for the
// year/month/day read but normalising the result to UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthBounds returns the first and last calendar day of the month containing day.
func MonthBounds(day time.Time) (time.Time, time.Time) {
	y, m, _ := day.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// DaysBetween counts whole calendar days from a to b. Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// Label formats a day for the daily series.
func Label(day time.Time) string {
	return day.Format(LabelLayout)
}
