package planner_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"
	"weekplan/src-server/planner"
)

const plannerCSVHeader = "kid_name,activity,time,duration,frequency,days_of_week,start_date,end_date,address,pickup_driver,return_driver\n"

func writeSchoolEvents(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "school_events.csv")
	if err := os.WriteFile(path, []byte(plannerCSVHeader+rows), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testRules() planner.SchoolRules {
	return planner.SchoolRules{
		ParticipantSchool: map[string]string{"Ariella": "JLS"},
		MinimumDay: map[string]planner.MinimumDayRule{
			"JLS": {
				NamePattern: regexp.MustCompile(`(?i)minimum day`),
				EndByWeekday: map[string]string{
					"monday": "13:15",
					"friday": "12:45",
				},
			},
		},
	}
}

func TestResolveEndNaiveFallback(t *testing.T) {
	resolver := planner.EndTimeResolver{Rules: testRules()}
	rec := planner.EventRecord{
		Participant:   "Ariella",
		Name:          "Soccer",
		StartTime:     "10:00",
		DurationHours: 1.5,
		Origin:        planner.OriginManual,
	}

	end, err := resolver.ResolveEnd(&rec, date(2025, 6, 6), "friday")
	if err != nil {
		t.Fatal(err)
	}
	if end != "11:30" {
		t.Errorf("end = %q, want 11:30", end)
	}
}

func TestResolveEndMinimumDayOverride(t *testing.T) {
	aFriday := date(2025, 6, 6)
	path := writeSchoolEvents(t,
		"All,Minimum Day,08:30,4.0,one-time,\"[\"\"friday\"\"]\",2025-06-06,2025-06-06,480 E Meadow Dr,N/A,N/A\n")

	resolver := planner.EndTimeResolver{
		Rules:  testRules(),
		Source: planner.NewMinimumDaySource(path),
	}
	rec := planner.EventRecord{
		Participant:   "Ariella",
		Name:          "School",
		StartTime:     "08:30",
		DurationHours: 6.5, // would normally end 15:00
		Origin:        planner.OriginSchool,
	}

	end, err := resolver.ResolveEnd(&rec, aFriday, "friday")
	if err != nil {
		t.Fatal(err)
	}
	if end != "12:45" {
		t.Errorf("end = %q, want 12:45 override", end)
	}

	// no minimum day announced on the following Friday
	end, err = resolver.ResolveEnd(&rec, date(2025, 6, 13), "friday")
	if err != nil {
		t.Fatal(err)
	}
	if end != "15:00" {
		t.Errorf("end = %q, want naive 15:00", end)
	}
}

func TestResolveEndOverrideAcrossZones(t *testing.T) {
	// the CSV snapshot parses its dates in UTC; the materializer hands
	// over dates built in the display zone
	pacific := time.FixedZone("UTC-7", -7*3600)
	path := writeSchoolEvents(t,
		"All,Minimum Day,08:30,4.0,one-time,\"[\"\"friday\"\"]\",2025-06-06,2025-06-06,480 E Meadow Dr,N/A,N/A\n")

	resolver := planner.EndTimeResolver{
		Rules:  testRules(),
		Source: planner.NewMinimumDaySource(path),
	}
	rec := planner.EventRecord{
		Participant:   "Ariella",
		Name:          "School",
		StartTime:     "08:30",
		DurationHours: 6.5,
		Origin:        planner.OriginSchool,
	}

	end, err := resolver.ResolveEnd(&rec, time.Date(2025, 6, 6, 0, 0, 0, 0, pacific), "friday")
	if err != nil {
		t.Fatal(err)
	}
	if end != "12:45" {
		t.Errorf("end = %q, want 12:45 override under a UTC-7 query date", end)
	}
}

func TestResolveEndNoWeekdayEntry(t *testing.T) {
	path := writeSchoolEvents(t,
		"All,Minimum Day,08:30,4.0,one-time,\"[\"\"saturday\"\"]\",2025-06-07,2025-06-07,480 E Meadow Dr,N/A,N/A\n")

	resolver := planner.EndTimeResolver{
		Rules:  testRules(),
		Source: planner.NewMinimumDaySource(path),
	}
	rec := planner.EventRecord{
		Participant:   "Ariella",
		Name:          "school",
		StartTime:     "09:00",
		DurationHours: 2,
		Origin:        planner.OriginSchool,
	}

	// event matches but the rule has no saturday entry
	end, err := resolver.ResolveEnd(&rec, date(2025, 6, 7), "saturday")
	if err != nil {
		t.Fatal(err)
	}
	if end != "11:00" {
		t.Errorf("end = %q, want naive 11:00", end)
	}
}

func TestResolveEndUnknownParticipant(t *testing.T) {
	resolver := planner.EndTimeResolver{Rules: testRules()}
	rec := planner.EventRecord{
		Participant:   "Noa", // not in the participant table
		Name:          "school",
		StartTime:     "08:30",
		DurationHours: 6.5,
		Origin:        planner.OriginSchool,
	}

	end, err := resolver.ResolveEnd(&rec, date(2025, 6, 6), "friday")
	if err != nil {
		t.Fatal(err)
	}
	if end != "15:00" {
		t.Errorf("end = %q, want naive 15:00", end)
	}
}

func TestMinimumDaySourceReloadsOnChange(t *testing.T) {
	path := writeSchoolEvents(t,
		"All,Spirit Day,08:30,4.0,one-time,\"[\"\"friday\"\"]\",2025-06-06,2025-06-06,,N/A,N/A\n")
	source := planner.NewMinimumDaySource(path)

	if err := source.InvalidateIfStale(); err != nil {
		t.Fatal(err)
	}
	if names := source.Lookup("Ariella", date(2025, 6, 6)); len(names) != 1 || names[0] != "Spirit Day" {
		t.Errorf("lookup = %v, want [Spirit Day]", names)
	}

	// rewrite the backing file with a new modification time
	if err := os.WriteFile(path, []byte(plannerCSVHeader+
		"All,Minimum Day,08:30,4.0,one-time,\"[\"\"friday\"\"]\",2025-06-06,2025-06-06,,N/A,N/A\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	if err := source.InvalidateIfStale(); err != nil {
		t.Fatal(err)
	}
	if names := source.Lookup("Ariella", date(2025, 6, 6)); len(names) != 1 || names[0] != "Minimum Day" {
		t.Errorf("lookup after reload = %v, want [Minimum Day]", names)
	}
}

func TestMinimumDaySourceMissingFile(t *testing.T) {
	source := planner.NewMinimumDaySource(filepath.Join(t.TempDir(), "nope.csv"))
	if err := source.InvalidateIfStale(); err != nil {
		t.Fatal(err)
	}
	if names := source.Lookup("Ariella", date(2025, 6, 6)); len(names) != 0 {
		t.Errorf("lookup = %v, want empty", names)
	}
}
