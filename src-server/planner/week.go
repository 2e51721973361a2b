package planner

import "time"

// Midnight truncates a timestamp to its calendar date, keeping the location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// utcDate rebases a timestamp's calendar date to midnight UTC. Stored
// rows parse their dates in UTC while routes build dates in the
// configured zone; every date comparison goes through here so the same
// calendar day never splits into two instants.
func utcDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MondayOf is the Monday of the week containing the date.
func MondayOf(date time.Time) time.Time {
	date = Midnight(date)
	// time.Weekday puts Sunday first; shift so Monday is day 0
	offset := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -offset)
}

// WeekBounds returns the Monday and Sunday of the week containing the date.
func WeekBounds(date time.Time) (time.Time, time.Time) {
	monday := MondayOf(date)
	return monday, monday.AddDate(0, 0, 6)
}

// DisplayWeek picks the week worth showing for a given "today": the
// current week on weekdays, the next week once the weekend has started.
func DisplayWeek(today time.Time) (time.Time, time.Time) {
	today = Midnight(today)
	if wd := today.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return WeekBounds(MondayOf(today).AddDate(0, 0, 7))
	}
	return WeekBounds(today)
}

// isMondayWeek reports whether [start, end] is exactly a Monday..Sunday
// week, the range for which the compact weekly projection applies.
func isMondayWeek(start, end time.Time) bool {
	return start.Weekday() == time.Monday && Midnight(end).Equal(Midnight(start).AddDate(0, 0, 6))
}
