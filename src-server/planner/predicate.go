package planner

import "time"

// ShouldOccur decides whether a record produces an occurrence on a date.
//
// A date matches when it falls inside the record's valid range, its
// weekday is in the record's day set, and (for bi-weekly rules) the week
// has the right parity. Parity is anchored to the Monday-aligned week
// containing validFrom, not to validFrom itself, so a rule starting
// mid-week still counts that whole week as week zero.
func ShouldOccur(rec *EventRecord, date time.Time) bool {
	// rebase to UTC so a date built in the display zone compares as the
	// same calendar day as one parsed from storage
	day := utcDate(date)
	if day.Before(utcDate(rec.ValidFrom)) || day.After(utcDate(rec.ValidTo)) {
		return false
	}
	if !rec.HasDay(WeekdayName(day)) {
		return false
	}
	if rec.Frequency != FreqBiWeekly {
		return true
	}

	baselineMonday := MondayOf(utcDate(rec.ValidFrom))
	targetMonday := MondayOf(day)
	if targetMonday.Before(baselineMonday) {
		return false
	}
	weekIndex := int(targetMonday.Sub(baselineMonday).Hours()/24) / 7
	return weekIndex%2 == 0
}
