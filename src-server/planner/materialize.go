package planner

import (
	"log/slog"
	"sort"
	"strings"
	"time"
)

// Occurrence is one concrete, dated instance of an EventRecord. It is
// created fresh per materialization pass and never persisted.
type Occurrence struct {
	Date        time.Time
	Weekday     string // lowercase weekday name
	StartTime   string // "15:04"
	EndTime     string // "15:04", possibly a minimum-day override
	Participant string
	Name        string
	Location    string
	PickupAgent string
	ReturnAgent string
	Origin      Origin

	// Compact weekly-view projection, only set when the materialized
	// range is exactly a Monday..Sunday week.
	DayAbbrev         string // M T W Th F S Su
	ParticipantAbbrev string // first letter, uppercased
}

var dayAbbrevs = map[string]string{
	"monday":    "M",
	"tuesday":   "T",
	"wednesday": "W",
	"thursday":  "Th",
	"friday":    "F",
	"saturday":  "S",
	"sunday":    "Su",
}

var weekdayOrdinals = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// Materializer turns recurrence rules into concrete occurrences over a
// date range.
type Materializer struct {
	EndTimes *EndTimeResolver
}

// Materialize emits one Occurrence per (record, matching date) over the
// inclusive range. A record that fails validation is skipped with a
// warning; a single bad record never aborts the pass. An inverted range
// is a valid degenerate case and yields an empty result.
func (m *Materializer) Materialize(records []EventRecord, rangeStart, rangeEnd time.Time) []Occurrence {
	rangeStart = Midnight(rangeStart)
	rangeEnd = Midnight(rangeEnd)
	weekly := isMondayWeek(rangeStart, rangeEnd)

	occurrences := make([]Occurrence, 0)
	for i := range records {
		rec := &records[i]
		if err := rec.Validate(); err != nil {
			slog.Warn("skipping malformed record", "name", rec.Name, "participant", rec.Participant, "error", err)
			continue
		}
		for date := rangeStart; !date.After(rangeEnd); date = date.AddDate(0, 0, 1) {
			if !ShouldOccur(rec, date) {
				continue
			}
			weekday := WeekdayName(date)
			endTime, err := m.EndTimes.ResolveEnd(rec, date, weekday)
			if err != nil {
				// Validate already vetted the start time, so this only
				// fires on records mutated mid-pass; skip the date.
				slog.Warn("can't resolve end time", "name", rec.Name, "date", date.Format("2006-01-02"), "error", err)
				continue
			}
			occ := Occurrence{
				Date:        date,
				Weekday:     weekday,
				StartTime:   formatStart(rec.StartTime),
				EndTime:     endTime,
				Participant: rec.Participant,
				Name:        rec.Name,
				Location:    rec.Location,
				PickupAgent: rec.PickupAgent,
				ReturnAgent: rec.ReturnAgent,
				Origin:      rec.Origin,
			}
			if weekly {
				occ.DayAbbrev = dayAbbrevs[weekday]
				occ.ParticipantAbbrev = abbreviateParticipant(rec.Participant)
			}
			occurrences = append(occurrences, occ)
		}
	}

	if weekly {
		sort.SliceStable(occurrences, func(i, j int) bool {
			if weekdayOrdinals[occurrences[i].Weekday] != weekdayOrdinals[occurrences[j].Weekday] {
				return weekdayOrdinals[occurrences[i].Weekday] < weekdayOrdinals[occurrences[j].Weekday]
			}
			return occurrences[i].StartTime < occurrences[j].StartTime
		})
		return occurrences
	}
	sort.SliceStable(occurrences, func(i, j int) bool {
		if !occurrences[i].Date.Equal(occurrences[j].Date) {
			return occurrences[i].Date.Before(occurrences[j].Date)
		}
		return occurrences[i].StartTime < occurrences[j].StartTime
	})
	return occurrences
}

// formatStart re-renders the record's start time as "15:04" so seconds
// from "15:04:05" inputs never leak into display rows.
func formatStart(s string) string {
	minutes, err := parseClock(s)
	if err != nil {
		return s
	}
	return formatClock(minutes)
}

func abbreviateParticipant(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1])
}
