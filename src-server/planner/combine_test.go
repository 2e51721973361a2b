package planner_test

import (
	"testing"
	"weekplan/src-server/planner"
)

func TestCombineTagsOrigins(t *testing.T) {
	today := date(2025, 6, 2)
	manual := []planner.EventRecord{{Name: "Piano", Participant: "Ariella"}}
	school := []planner.EventRecord{{Name: "Minimum Day", Participant: "All"}}
	holiday := []planner.EventRecord{{Name: "Shavuot", Participant: "All"}}

	combined := planner.Combine(today, manual, school, holiday)
	if len(combined) != 3 {
		t.Fatalf("got %d records, want 3", len(combined))
	}
	wantOrigins := []planner.Origin{planner.OriginManual, planner.OriginSchool, planner.OriginHoliday}
	for i, rec := range combined {
		if rec.Origin != wantOrigins[i] {
			t.Errorf("combined[%d].Origin = %q, want %q", i, rec.Origin, wantOrigins[i])
		}
	}
}

func TestCombineStripsLegacyPrefixes(t *testing.T) {
	today := date(2025, 6, 2)
	manual := []planner.EventRecord{
		{Name: "School: Back to School Night", Participant: "All"},
		{Name: "jewish: Rosh Hashanah", Participant: "All"},
	}

	combined := planner.Combine(today, manual, nil, nil)
	if combined[0].Name != "Back to School Night" || combined[0].Origin != planner.OriginSchool {
		t.Errorf("got %q/%q, want stripped School origin", combined[0].Name, combined[0].Origin)
	}
	if combined[1].Name != "Rosh Hashanah" || combined[1].Origin != planner.OriginHoliday {
		t.Errorf("got %q/%q, want stripped Holiday origin", combined[1].Name, combined[1].Origin)
	}
}

func TestCombineKeepsExplicitTags(t *testing.T) {
	today := date(2025, 6, 2)
	// already tagged: the prefix heuristic must not re-route it
	manual := []planner.EventRecord{
		{Name: "School: Fundraiser", Origin: planner.OriginManual},
	}
	combined := planner.Combine(today, manual, nil, nil)
	if combined[0].Origin != planner.OriginManual {
		t.Errorf("origin = %q, want Manual kept", combined[0].Origin)
	}
	if combined[0].Name != "School: Fundraiser" {
		t.Errorf("name = %q, tagged records keep their name", combined[0].Name)
	}
}

func TestCombineDefaultsValidRange(t *testing.T) {
	today := date(2025, 6, 2)
	combined := planner.Combine(today, []planner.EventRecord{{Name: "Piano"}}, nil, nil)
	if !combined[0].ValidFrom.Equal(today) {
		t.Errorf("validFrom = %s, want today", combined[0].ValidFrom)
	}
	if !combined[0].ValidTo.Equal(today.AddDate(0, 0, 365)) {
		t.Errorf("validTo = %s, want today+365d", combined[0].ValidTo)
	}
}

func TestCombineNoCrossSourceDedup(t *testing.T) {
	today := date(2025, 6, 2)
	rec := planner.EventRecord{Name: "Field Trip", Participant: "All"}
	combined := planner.Combine(today, []planner.EventRecord{rec}, []planner.EventRecord{rec}, nil)
	if len(combined) != 2 {
		t.Errorf("got %d records, want both kept", len(combined))
	}
}
