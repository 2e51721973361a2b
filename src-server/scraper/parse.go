package scraper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"weekplan/src-server/model"
	"weekplan/src-server/planner"
	"weekplan/src-server/utils"

	ical "github.com/arran4/golang-ical"
	"github.com/xyedo/rrule"
)

// hard cap on recurrence expansion; feeds occasionally publish
// unbounded RRULEs
const maxInstancesPerEvent = 500

// ParseFeed converts an ICS payload into stored planner activities, one
// per concrete event date. Recurring VEVENTs are expanded here, so the
// planner only ever sees one-time records from feeds. Events before
// today are dropped; when maxDate is non-zero, so are events past it.
// A single unparseable VEVENT is skipped, not fatal.
func ParseFeed(feed Feed, body []byte, today, maxDate time.Time) ([]model.Activity, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ParseFeed: %s: %w", feed.Code, err)
	}
	today = planner.Midnight(today)

	activities := make([]model.Activity, 0)
	for _, ve := range cal.Events() {
		evs, err := parseVEvent(feed, ve, today, maxDate)
		if err != nil {
			slog.Warn("skipping feed event", "feed", feed.Code, "error", err)
			continue
		}
		activities = append(activities, evs...)
	}
	slog.Info("feed parsed", "feed", feed.Code, "activities", len(activities))
	return activities, nil
}

func parseVEvent(feed Feed, ve *ical.VEvent, today, maxDate time.Time) ([]model.Activity, error) {
	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return nil, fmt.Errorf("parseVEvent: missing UID")
	}
	uid := uidProp.Value

	summary := ""
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		summary = utils.CleanupString(p.Value)
	}
	if summary == "" {
		return nil, fmt.Errorf("parseVEvent: %s: blank summary", uid)
	}

	location := feed.Address
	if location == "" {
		if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
			location = p.Value
		}
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return nil, fmt.Errorf("parseVEvent: %s: no usable DTSTART: %w", uid, err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		end = start.Add(time.Hour)
	}

	allDay := false
	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		if params := p.ICalParameters; params != nil {
			if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
				allDay = true
			}
		}
		if !strings.Contains(p.Value, "T") {
			allDay = true
		}
	}

	dates := []time.Time{start}
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil && p.Value != "" {
		dates, err = expandRRule(start, p.Value, maxDate)
		if err != nil {
			return nil, fmt.Errorf("parseVEvent: %s: %w", uid, err)
		}
	}

	hours := durationHours(start, end, allDay)
	startTime := "00:00"
	if !allDay {
		startTime = start.Format("15:04")
	}

	activities := make([]model.Activity, 0, len(dates))
	for _, instance := range dates {
		date := planner.Midnight(instance)
		if date.Before(today) {
			continue
		}
		if !maxDate.IsZero() && date.After(maxDate) {
			continue
		}
		isoDate := date.Format("2006-01-02")
		days, _ := json.Marshal([]string{planner.WeekdayName(date)})
		activities = append(activities, model.Activity{
			ID:            fmt.Sprintf("%s-%s-%s", feed.Code, uid, isoDate),
			KidName:       planner.ParticipantAll,
			Name:          summary,
			StartTime:     startTime,
			DurationHours: hours,
			Frequency:     string(planner.FreqOneTime),
			DaysOfWeek:    string(days),
			ValidFrom:     isoDate,
			ValidTo:       isoDate,
			Location:      location,
			PickupDriver:  "N/A",
			ReturnDriver:  "N/A",
			OriginSource:  string(feed.Origin),
		})
	}
	return activities, nil
}

// expandRRule materializes a recurring feed event into concrete dates.
// Unbounded rules get a two year horizon so a COUNT-less weekly rule
// can't balloon the table.
func expandRRule(start time.Time, raw string, maxDate time.Time) ([]time.Time, error) {
	setStr := "DTSTART:" + start.UTC().Format("20060102T150405Z") + "\nRRULE:" + raw
	set, err := rrule.StrToRRuleSet(setStr)
	if err != nil {
		return nil, fmt.Errorf("expandRRule: %w", err)
	}

	horizon := maxDate
	if horizon.IsZero() {
		horizon = start.AddDate(2, 0, 0)
	}
	dates := set.Between(start.AddDate(0, 0, -1), horizon.AddDate(0, 0, 1), true)
	if len(dates) > maxInstancesPerEvent {
		dates = dates[:maxInstancesPerEvent]
	}
	return dates, nil
}

// durationHours computes the event length, handling overnight ends the
// way the legacy planner did. All-day rows end a minute before midnight
// so the end time stays on the occurrence date.
func durationHours(start, end time.Time, allDay bool) float64 {
	if allDay {
		return 23.99
	}
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	hours := end.Sub(start).Hours()
	if hours <= 0 {
		return 1.0
	}
	return hours
}
