package planner_test

import (
	"testing"
	"time"
	"weekplan/src-server/planner"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weeklyRecord() planner.EventRecord {
	return planner.EventRecord{
		Participant:   "Ariella",
		Name:          "Piano",
		StartTime:     "15:00",
		DurationHours: 1,
		Frequency:     planner.FreqWeekly,
		DaysOfWeek:    []string{"monday", "wednesday"},
		ValidFrom:     date(2025, 1, 6),
		ValidTo:       date(2025, 12, 31),
		Origin:        planner.OriginManual,
	}
}

func TestShouldOccurDateContainment(t *testing.T) {
	rec := weeklyRecord()

	// Mondays outside the valid range
	if planner.ShouldOccur(&rec, date(2024, 12, 30)) {
		t.Error("should not occur before validFrom")
	}
	if planner.ShouldOccur(&rec, date(2026, 1, 5)) {
		t.Error("should not occur after validTo")
	}
	if !planner.ShouldOccur(&rec, date(2025, 1, 6)) {
		t.Error("should occur on validFrom itself")
	}
}

func TestShouldOccurWeekdayGating(t *testing.T) {
	rec := weeklyRecord()

	if planner.ShouldOccur(&rec, date(2025, 1, 7)) {
		t.Error("tuesday is not in the day set")
	}
	if !planner.ShouldOccur(&rec, date(2025, 1, 8)) {
		t.Error("wednesday is in the day set")
	}

	// day membership is case-insensitive
	rec.DaysOfWeek = []string{"Monday"}
	if !planner.ShouldOccur(&rec, date(2025, 1, 6)) {
		t.Error("capitalized day name should still match")
	}
}

func TestShouldOccurBiWeeklyParity(t *testing.T) {
	rec := weeklyRecord()
	rec.Frequency = planner.FreqBiWeekly
	rec.DaysOfWeek = []string{"monday"}
	rec.ValidFrom = date(2025, 1, 6) // a Monday

	cases := []struct {
		day  time.Time
		want bool
	}{
		{date(2025, 1, 6), true},
		{date(2025, 1, 13), false},
		{date(2025, 1, 20), true},
		{date(2025, 1, 27), false},
	}
	for _, c := range cases {
		if got := planner.ShouldOccur(&rec, c.day); got != c.want {
			t.Errorf("ShouldOccur(%s) = %v, want %v", c.day.Format("2006-01-02"), got, c.want)
		}
	}
}

func TestShouldOccurBiWeeklyMidWeekAnchor(t *testing.T) {
	// validFrom on a Thursday: parity is anchored to that whole week,
	// so the Monday three weeks later (an odd week) never matches.
	rec := weeklyRecord()
	rec.Frequency = planner.FreqBiWeekly
	rec.DaysOfWeek = []string{"monday"}
	rec.ValidFrom = date(2025, 1, 9) // Thursday of week starting 2025-01-06

	if planner.ShouldOccur(&rec, date(2025, 1, 13)) {
		t.Error("monday of the following (odd) week should not match")
	}
	if !planner.ShouldOccur(&rec, date(2025, 1, 20)) {
		t.Error("monday two weeks after the anchor week should match")
	}
}

func TestShouldOccurAcrossZones(t *testing.T) {
	// stored rows parse their dates in UTC; the routes query with dates
	// in the configured display zone (default UTC-7)
	pacific := time.FixedZone("UTC-7", -7*3600)

	rec := planner.EventRecord{
		Participant:   "All",
		Name:          "Last Day of School",
		StartTime:     "08:30",
		DurationHours: 4,
		Frequency:     planner.FreqOneTime,
		DaysOfWeek:    []string{"friday"},
		ValidFrom:     date(2025, 6, 6),
		ValidTo:       date(2025, 6, 6),
		Origin:        planner.OriginSchool,
	}
	queried := time.Date(2025, 6, 6, 0, 0, 0, 0, pacific)
	if !planner.ShouldOccur(&rec, queried) {
		t.Error("one-time event must occur on its own date regardless of query zone")
	}

	biweekly := weeklyRecord()
	biweekly.Frequency = planner.FreqBiWeekly
	biweekly.DaysOfWeek = []string{"monday"}
	biweekly.ValidFrom = date(2025, 1, 6)
	if !planner.ShouldOccur(&biweekly, time.Date(2025, 1, 20, 0, 0, 0, 0, pacific)) {
		t.Error("even week must match when queried from another zone")
	}
	if planner.ShouldOccur(&biweekly, time.Date(2025, 1, 13, 0, 0, 0, 0, pacific)) {
		t.Error("odd week must not match when queried from another zone")
	}
}

func TestShouldOccurBeforeBaselineWeek(t *testing.T) {
	rec := weeklyRecord()
	rec.Frequency = planner.FreqBiWeekly
	rec.DaysOfWeek = []string{"monday"}
	rec.ValidFrom = date(2025, 1, 6)
	rec.ValidTo = date(2025, 12, 31)

	// in-range date can't exist before validFrom, but guard the parity
	// math directly: a target Monday before the baseline never matches
	rec.ValidFrom = date(2025, 1, 9)
	if planner.ShouldOccur(&rec, date(2025, 1, 6)) {
		t.Error("date before validFrom must not occur")
	}
}
