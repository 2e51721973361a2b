package planner_test

import (
	"testing"
	"time"
	"weekplan/src-server/planner"
)

func TestMondayOf(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{date(2025, 6, 2), date(2025, 6, 2)},  // Monday
		{date(2025, 6, 5), date(2025, 6, 2)},  // Thursday
		{date(2025, 6, 8), date(2025, 6, 2)},  // Sunday
		{date(2025, 6, 9), date(2025, 6, 9)},  // next Monday
		{date(2025, 1, 5), date(2024, 12, 30)}, // Sunday crossing a year
	}
	for _, c := range cases {
		if got := planner.MondayOf(c.in); !got.Equal(c.want) {
			t.Errorf("MondayOf(%s) = %s, want %s",
				c.in.Format("2006-01-02"), got.Format("2006-01-02"), c.want.Format("2006-01-02"))
		}
	}
}

func TestWeekBounds(t *testing.T) {
	start, end := planner.WeekBounds(date(2025, 6, 5))
	if !start.Equal(date(2025, 6, 2)) || !end.Equal(date(2025, 6, 8)) {
		t.Errorf("WeekBounds = %s..%s, want 2025-06-02..2025-06-08",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
}

func TestDisplayWeekRollsOverOnWeekend(t *testing.T) {
	// Thursday: current week
	start, _ := planner.DisplayWeek(date(2025, 6, 5))
	if !start.Equal(date(2025, 6, 2)) {
		t.Errorf("weekday DisplayWeek start = %s, want 2025-06-02", start.Format("2006-01-02"))
	}

	// Saturday: next week
	start, end := planner.DisplayWeek(date(2025, 6, 7))
	if !start.Equal(date(2025, 6, 9)) || !end.Equal(date(2025, 6, 15)) {
		t.Errorf("weekend DisplayWeek = %s..%s, want 2025-06-09..2025-06-15",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
}
