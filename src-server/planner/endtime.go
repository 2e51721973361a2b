package planner

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
)

// EndTimeResolver computes an occurrence's end time. The usual answer is
// start time plus duration; school-day records can instead get the
// dismissal time from their school's minimum-day rule when the school
// calendar announces a minimum day on that date.
type EndTimeResolver struct {
	Rules  SchoolRules
	Source *MinimumDaySource // nil means no override source is available
}

// ResolveEnd returns the end time ("15:04") for the record on the date.
// Missing override data of any kind (no school mapping, no rule, no
// source, no matching event, no weekday entry) is not an error: the
// naive end time applies.
func (r *EndTimeResolver) ResolveEnd(rec *EventRecord, date time.Time, weekday string) (string, error) {
	startMinutes, err := parseClock(rec.StartTime)
	if err != nil {
		return "", fmt.Errorf("EndTimeResolver.ResolveEnd: %w", err)
	}
	naiveEnd := formatClock(startMinutes + int(math.Round(rec.DurationHours*60)))

	if rec.Origin != OriginSchool && !strings.EqualFold(rec.Name, "school") {
		return naiveEnd, nil
	}

	school, ok := r.Rules.ParticipantSchool[rec.Participant]
	if !ok {
		return naiveEnd, nil
	}
	rule, ok := r.Rules.MinimumDay[school]
	if !ok || rule.NamePattern == nil {
		return naiveEnd, nil
	}
	if r.Source == nil {
		return naiveEnd, nil
	}

	if err := r.Source.InvalidateIfStale(); err != nil {
		// stale data beats no schedule; fall back to the naive end
		slog.Warn("can't refresh minimum-day source", "error", err)
		return naiveEnd, nil
	}

	matched := false
	for _, name := range r.Source.Lookup(rec.Participant, date) {
		if rule.NamePattern.MatchString(name) {
			matched = true
			break
		}
	}
	if !matched {
		return naiveEnd, nil
	}

	if override, ok := rule.EndByWeekday[strings.ToLower(weekday)]; ok {
		return override, nil
	}
	return naiveEnd, nil
}
