package planner

import (
	"strings"
	"time"
)

// activeInWeek reports whether the record's valid range overlaps the
// week. Both sides rebase to UTC so the comparison is by calendar day,
// whatever zones the dates were built in.
func activeInWeek(rec *EventRecord, weekStart, weekEnd time.Time) bool {
	return !utcDate(rec.ValidFrom).After(utcDate(weekEnd)) && !utcDate(rec.ValidTo).Before(utcDate(weekStart))
}

// HoursByDay sums a participant's scheduled hours per weekday for one
// week. Records named "school" are the baseline of the day, not an
// activity, so they are excluded from the totals.
func HoursByDay(records []EventRecord, participant string, weekStart, weekEnd time.Time) map[string]float64 {
	hours := map[string]float64{
		"monday": 0, "tuesday": 0, "wednesday": 0,
		"thursday": 0, "friday": 0, "saturday": 0, "sunday": 0,
	}
	for i := range records {
		rec := &records[i]
		if rec.Participant != participant || strings.EqualFold(rec.Name, "school") {
			continue
		}
		if !activeInWeek(rec, weekStart, weekEnd) {
			continue
		}
		for _, day := range rec.DaysOfWeek {
			hours[strings.ToLower(day)] += rec.DurationHours
		}
	}
	return hours
}

// WeeklyHours is the participant's total scheduled hours for the week.
func WeeklyHours(records []EventRecord, participant string, weekStart, weekEnd time.Time) float64 {
	total := 0.0
	for _, h := range HoursByDay(records, participant, weekStart, weekEnd) {
		total += h
	}
	return total
}

// DrivesPerDriver counts how many pickups plus returns each driver owes
// for the week, one per scheduled day per leg.
func DrivesPerDriver(records []EventRecord, weekStart, weekEnd time.Time) map[string]int {
	drives := make(map[string]int)
	for i := range records {
		rec := &records[i]
		if strings.EqualFold(rec.Name, "school") {
			continue
		}
		if !activeInWeek(rec, weekStart, weekEnd) {
			continue
		}
		days := len(rec.DaysOfWeek)
		if rec.PickupAgent != "" {
			drives[rec.PickupAgent] += days
		}
		if rec.ReturnAgent != "" {
			drives[rec.ReturnAgent] += days
		}
	}
	return drives
}
