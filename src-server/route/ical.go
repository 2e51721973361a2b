package route

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"weekplan/src-server/planner"
	"weekplan/src-server/utils"

	ics "github.com/arran4/golang-ical"
)

// Ical exports the merged weekly schedule as an iCalendar feed so the
// plan can be subscribed to from a phone.
func Ical(muxer *http.ServeMux, as *utils.AppState) {
	materializer := planner.Materializer{
		EndTimes: &planner.EndTimeResolver{
			Rules:  as.SchoolRules,
			Source: as.MinDaySource,
		},
	}

	muxer.HandleFunc("GET /schedule/ical", func(w http.ResponseWriter, r *http.Request) {
		var weekStart, weekEnd time.Time
		if raw := r.URL.Query().Get("date"); raw == "" {
			weekStart, weekEnd = planner.DisplayWeek(time.Now().In(as.Config.GetLocation()))
		} else {
			date, ok := resolveDate(as, raw)
			if !ok {
				http.Error(w, "Can't understand the date", http.StatusBadRequest)
				return
			}
			weekStart, weekEnd = planner.WeekBounds(date)
		}

		records, err := loadCombined(r, as)
		if err != nil {
			slog.Error("can't load activities", "error", err)
			http.Error(w, "Can't load activities", http.StatusInternalServerError)
			return
		}
		occurrences := planner.Merge(materializer.Materialize(records, weekStart, weekEnd))

		cal := ics.NewCalendar()
		cal.SetMethod(ics.MethodPublish)
		cal.SetProductId("-//weekplan//EN")
		for i, occ := range occurrences {
			start, err := occurrenceTime(occ.Date, occ.StartTime, as.Config.GetLocation())
			if err != nil {
				slog.Warn("skipping occurrence with bad start", "activity", occ.Name, "error", err)
				continue
			}
			end, err := occurrenceTime(occ.Date, occ.EndTime, as.Config.GetLocation())
			if err != nil {
				slog.Warn("skipping occurrence with bad end", "activity", occ.Name, "error", err)
				continue
			}
			if end.Before(start) {
				end = end.AddDate(0, 0, 1)
			}

			event := cal.AddEvent(fmt.Sprintf("%s-%d@weekplan", occ.Date.Format("20060102"), i))
			event.SetSummary(fmt.Sprintf("%s: %s", occ.Participant, occ.Name))
			event.SetLocation(occ.Location)
			event.SetStartAt(start)
			event.SetEndAt(end)
			event.SetDtStampTime(time.Now())
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, cal.Serialize()); err != nil {
			slog.Warn("can't write to response", "where", "route/ical.go", "error", err)
		}
	})
}

func occurrenceTime(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("occurrenceTime: %w", err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
