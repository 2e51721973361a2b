package planner

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// How often an EventRecord repeats.
type Frequency string

const (
	FreqWeekly   Frequency = "weekly"
	FreqBiWeekly Frequency = "bi-weekly"
	FreqOneTime  Frequency = "one-time"
)

// Where an EventRecord came from. Controls display color on the client
// and whether minimum-day end-time overrides may apply.
type Origin string

const (
	OriginManual  Origin = "Manual"
	OriginSchool  Origin = "School"
	OriginHoliday Origin = "Holiday"
)

// The sentinel participant meaning "applies to the whole family".
const ParticipantAll = "All"

// EventRecord is a recurrence rule: the abstract definition from which
// concrete occurrences are materialized. It is read-only input for a
// materialization pass.
type EventRecord struct {
	Participant   string
	Name          string
	StartTime     string // "15:04", "15:04:05" also accepted
	DurationHours float64
	Frequency     Frequency
	DaysOfWeek    []string // normalized lowercase weekday names
	ValidFrom     time.Time
	ValidTo       time.Time
	Location      string
	PickupAgent   string
	ReturnAgent   string
	Origin        Origin
}

var weekdayNames = map[string]struct{}{
	"monday":    {},
	"tuesday":   {},
	"wednesday": {},
	"thursday":  {},
	"friday":    {},
	"saturday":  {},
	"sunday":    {},
}

// ParseDays normalizes a serialized days-of-week list (a JSON array like
// `["monday","wednesday"]`) into lowercase weekday names. Unknown day
// names and non-array payloads are rejected here, once, so later stages
// never re-check the shape.
func ParseDays(raw string) ([]string, error) {
	var days []string
	if err := json.Unmarshal([]byte(raw), &days); err != nil {
		return nil, fmt.Errorf("ParseDays: not a day list: %w", err)
	}
	return NormalizeDays(days)
}

// NormalizeDays lowercases and validates weekday names.
func NormalizeDays(days []string) ([]string, error) {
	out := make([]string, 0, len(days))
	for _, day := range days {
		day = strings.ToLower(strings.TrimSpace(day))
		if _, ok := weekdayNames[day]; !ok {
			return nil, fmt.Errorf("NormalizeDays: unknown weekday %q", day)
		}
		out = append(out, day)
	}
	return out, nil
}

// Validate reports why a record cannot produce occurrences. Malformed
// records are skipped by the materializer, never fatal for a pass.
func (r *EventRecord) Validate() error {
	switch {
	case r.Name == "":
		return fmt.Errorf("EventRecord.Validate: name is blank")
	case r.DurationHours < 0:
		return fmt.Errorf("EventRecord.Validate: negative duration %v", r.DurationHours)
	case r.ValidFrom.IsZero() || r.ValidTo.IsZero():
		return fmt.Errorf("EventRecord.Validate: missing valid date range")
	case r.ValidFrom.After(r.ValidTo):
		return fmt.Errorf("EventRecord.Validate: validFrom after validTo")
	}
	if _, err := parseClock(r.StartTime); err != nil {
		return fmt.Errorf("EventRecord.Validate: %w", err)
	}
	if len(r.DaysOfWeek) == 0 {
		return fmt.Errorf("EventRecord.Validate: empty days of week")
	}
	if _, err := NormalizeDays(r.DaysOfWeek); err != nil {
		return fmt.Errorf("EventRecord.Validate: %w", err)
	}
	return nil
}

// HasDay reports whether the record's day set contains the weekday,
// case-insensitively.
func (r *EventRecord) HasDay(weekday string) bool {
	weekday = strings.ToLower(weekday)
	for _, day := range r.DaysOfWeek {
		if strings.ToLower(day) == weekday {
			return true
		}
	}
	return false
}

// parseClock parses a time-of-day string into minutes since midnight.
func parseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("parseClock: unparseable time %q", s)
}

// formatClock renders minutes since midnight as "15:04".
func formatClock(minutes int) string {
	minutes = ((minutes % (24 * 60)) + 24*60) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// WeekdayName is the lowercase weekday name of a date.
func WeekdayName(date time.Time) string {
	return strings.ToLower(date.Weekday().String())
}
