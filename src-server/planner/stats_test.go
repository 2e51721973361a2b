package planner_test

import (
	"testing"
	"time"
	"weekplan/src-server/planner"
)

func statsRecords() []planner.EventRecord {
	return []planner.EventRecord{
		{
			Participant:   "Ariella",
			Name:          "Piano",
			StartTime:     "15:00",
			DurationHours: 1,
			Frequency:     planner.FreqWeekly,
			DaysOfWeek:    []string{"monday", "wednesday"},
			ValidFrom:     date(2025, 1, 1),
			ValidTo:       date(2025, 12, 31),
			PickupAgent:   "Ronen",
			ReturnAgent:   "Maya",
		},
		{
			Participant:   "Ariella",
			Name:          "School",
			StartTime:     "08:30",
			DurationHours: 6.5,
			Frequency:     planner.FreqWeekly,
			DaysOfWeek:    []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
			ValidFrom:     date(2025, 1, 1),
			ValidTo:       date(2025, 12, 31),
			PickupAgent:   "Ronen",
			ReturnAgent:   "Ronen",
		},
		{
			Participant:   "Eitan",
			Name:          "Soccer",
			StartTime:     "16:00",
			DurationHours: 1.5,
			Frequency:     planner.FreqWeekly,
			DaysOfWeek:    []string{"wednesday"},
			ValidFrom:     date(2025, 9, 1), // not active in June
			ValidTo:       date(2025, 12, 31),
			PickupAgent:   "Maya",
			ReturnAgent:   "Maya",
		},
	}
}

func TestHoursByDayExcludesSchool(t *testing.T) {
	hours := planner.HoursByDay(statsRecords(), "Ariella", date(2025, 6, 2), date(2025, 6, 8))
	if hours["monday"] != 1 || hours["wednesday"] != 1 {
		t.Errorf("monday/wednesday = %v/%v, want 1/1", hours["monday"], hours["wednesday"])
	}
	if hours["tuesday"] != 0 {
		t.Errorf("tuesday = %v, school must not count", hours["tuesday"])
	}
	if total := planner.WeeklyHours(statsRecords(), "Ariella", date(2025, 6, 2), date(2025, 6, 8)); total != 2 {
		t.Errorf("weekly total = %v, want 2", total)
	}
}

func TestHoursByDayAcrossZones(t *testing.T) {
	// a one-time activity valid exactly on the week's first day, dates
	// parsed in UTC as stored rows are, queried with UTC-7 week bounds
	pacific := time.FixedZone("UTC-7", -7*3600)
	records := []planner.EventRecord{{
		Participant:   "Eitan",
		Name:          "Field Trip",
		StartTime:     "09:00",
		DurationHours: 3,
		Frequency:     planner.FreqOneTime,
		DaysOfWeek:    []string{"monday"},
		ValidFrom:     date(2025, 6, 2),
		ValidTo:       date(2025, 6, 2),
	}}
	weekStart := time.Date(2025, 6, 2, 0, 0, 0, 0, pacific)
	weekEnd := time.Date(2025, 6, 8, 0, 0, 0, 0, pacific)

	hours := planner.HoursByDay(records, "Eitan", weekStart, weekEnd)
	if hours["monday"] != 3 {
		t.Errorf("monday = %v, want 3 under UTC-7 week bounds", hours["monday"])
	}
}

func TestDrivesPerDriverSkipsInactive(t *testing.T) {
	drives := planner.DrivesPerDriver(statsRecords(), date(2025, 6, 2), date(2025, 6, 8))
	// Piano: Ronen picks up 2 days, Maya returns 2 days; Soccer inactive in June
	if drives["Ronen"] != 2 {
		t.Errorf("Ronen = %d, want 2", drives["Ronen"])
	}
	if drives["Maya"] != 2 {
		t.Errorf("Maya = %d, want 2", drives["Maya"])
	}
}
