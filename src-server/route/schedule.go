package route

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"
	"weekplan/src-server/model"
	"weekplan/src-server/planner"
	"weekplan/src-server/utils"
)

// resolveDate turns a "date" query value into a calendar date in the
// configured zone. ISO dates are tried first, then natural language
// ("next friday") via the when parser.
func resolveDate(as *utils.AppState, raw string) (time.Time, bool) {
	now := time.Now().In(as.Config.GetLocation())
	if raw == "" {
		return planner.Midnight(now), true
	}
	if date, err := time.ParseInLocation("2006-01-02", raw, as.Config.GetLocation()); err == nil {
		return date, true
	}
	result, err := as.When.Parse(raw, now)
	if err != nil || result == nil {
		return time.Time{}, false
	}
	return planner.Midnight(result.Time), true
}

// loadCombined reads all three origins from the database and combines
// them into one record set. Rows that no longer parse are logged and
// skipped.
func loadCombined(r *http.Request, as *utils.AppState) ([]planner.EventRecord, error) {
	startTimer := time.Now()
	byOrigin := make(map[planner.Origin][]planner.EventRecord)
	for _, origin := range []planner.Origin{planner.OriginManual, planner.OriginSchool, planner.OriginHoliday} {
		records, errs := model.RecordsByOrigin(r.Context(), as.BunDB, origin)
		if records == nil && len(errs) > 0 {
			return nil, errs[0]
		}
		for _, err := range errs {
			slog.Warn("skipping stored activity row", "origin", origin, "error", err)
		}
		byOrigin[origin] = records
	}
	as.MetricChans.DatabaseRead <- float64(time.Since(startTimer).Microseconds())

	today := planner.Midnight(time.Now().In(as.Config.GetLocation()))
	return planner.Combine(today,
		byOrigin[planner.OriginManual],
		byOrigin[planner.OriginSchool],
		byOrigin[planner.OriginHoliday]), nil
}

func Schedule(muxer *http.ServeMux, as *utils.AppState) {
	materializer := planner.Materializer{
		EndTimes: &planner.EndTimeResolver{
			Rules:  as.SchoolRules,
			Source: as.MinDaySource,
		},
	}

	type OneOccurrenceRespBody struct {
		Date         string `json:"date"`
		Day          string `json:"day"`
		DayAbbrev    string `json:"dayAbbrev,omitempty"`
		Start        string `json:"start"`
		End          string `json:"end"`
		Kid          string `json:"kid"`
		KidAbbrev    string `json:"kidAbbrev,omitempty"`
		Activity     string `json:"activity"`
		Location     string `json:"location"`
		PickupDriver string `json:"pickupDriver"`
		ReturnDriver string `json:"returnDriver"`
		Origin       string `json:"origin"`
	}

	type WeekRespBody struct {
		WeekStart   string                  `json:"weekStart"`
		WeekEnd     string                  `json:"weekEnd"`
		Occurrences []OneOccurrenceRespBody `json:"occurrences"`
	}

	// the merged weekly schedule; defaults to the current week, rolling
	// to next week on weekends
	muxer.HandleFunc("GET /schedule/week", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var weekStart, weekEnd time.Time
		if raw := r.URL.Query().Get("date"); raw == "" {
			weekStart, weekEnd = planner.DisplayWeek(time.Now().In(as.Config.GetLocation()))
		} else {
			date, ok := resolveDate(as, raw)
			if !ok {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Can't understand the date"))
				return
			}
			weekStart, weekEnd = planner.WeekBounds(date)
		}

		records, err := loadCombined(r, as)
		if err != nil {
			slog.Error("can't load activities", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't load activities"))
			return
		}
		if kid := r.URL.Query().Get("kid"); kid != "" {
			filtered := make([]planner.EventRecord, 0, len(records))
			for _, rec := range records {
				if strings.EqualFold(rec.Participant, kid) || rec.Participant == planner.ParticipantAll {
					filtered = append(filtered, rec)
				}
			}
			records = filtered
		}

		startTimer := time.Now()
		occurrences := planner.Merge(materializer.Materialize(records, weekStart, weekEnd))
		as.MetricChans.MaterializeLatency <- float64(time.Since(startTimer).Microseconds())

		respBody := WeekRespBody{
			WeekStart:   weekStart.Format("2006-01-02"),
			WeekEnd:     weekEnd.Format("2006-01-02"),
			Occurrences: make([]OneOccurrenceRespBody, 0, len(occurrences)),
		}
		for _, occ := range occurrences {
			respBody.Occurrences = append(respBody.Occurrences, OneOccurrenceRespBody{
				Date:         occ.Date.Format("2006-01-02"),
				Day:          occ.Weekday,
				DayAbbrev:    occ.DayAbbrev,
				Start:        occ.StartTime,
				End:          occ.EndTime,
				Kid:          occ.Participant,
				KidAbbrev:    occ.ParticipantAbbrev,
				Activity:     occ.Name,
				Location:     occ.Location,
				PickupDriver: occ.PickupAgent,
				ReturnDriver: occ.ReturnAgent,
				Origin:       string(occ.Origin),
			})
		}
		respBodyJson, err := json.Marshal(respBody)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	type OneLegRespBody struct {
		Date     string `json:"date"`
		Day      string `json:"day"`
		Time     string `json:"time"`
		Kid      string `json:"kid"`
		Activity string `json:"activity"`
		Leg      string `json:"leg"` // pickup | return
		Driver   string `json:"driver"`
	}

	type DriverRespBody struct {
		WeekStart string           `json:"weekStart"`
		WeekEnd   string           `json:"weekEnd"`
		Drives    map[string]int   `json:"drives"`
		Legs      []OneLegRespBody `json:"legs"`
	}

	// who is driving whom this week
	muxer.HandleFunc("GET /schedule/driver", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var weekStart, weekEnd time.Time
		if raw := r.URL.Query().Get("date"); raw == "" {
			weekStart, weekEnd = planner.DisplayWeek(time.Now().In(as.Config.GetLocation()))
		} else {
			date, ok := resolveDate(as, raw)
			if !ok {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Can't understand the date"))
				return
			}
			weekStart, weekEnd = planner.WeekBounds(date)
		}

		records, err := loadCombined(r, as)
		if err != nil {
			slog.Error("can't load activities", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't load activities"))
			return
		}

		startTimer := time.Now()
		occurrences := planner.Merge(materializer.Materialize(records, weekStart, weekEnd))
		as.MetricChans.MaterializeLatency <- float64(time.Since(startTimer).Microseconds())

		driverFilter := r.URL.Query().Get("driver")
		wantLeg := func(driver string) bool {
			if driver == "" || strings.EqualFold(driver, "N/A") {
				return false
			}
			return driverFilter == "" || strings.EqualFold(driver, driverFilter)
		}

		respBody := DriverRespBody{
			WeekStart: weekStart.Format("2006-01-02"),
			WeekEnd:   weekEnd.Format("2006-01-02"),
			Drives:    planner.DrivesPerDriver(records, weekStart, weekEnd),
			Legs:      make([]OneLegRespBody, 0),
		}
		for _, occ := range occurrences {
			if driver := occ.PickupAgent; wantLeg(driver) {
				respBody.Legs = append(respBody.Legs, OneLegRespBody{
					Date:     occ.Date.Format("2006-01-02"),
					Day:      occ.Weekday,
					Time:     occ.StartTime,
					Kid:      occ.Participant,
					Activity: occ.Name,
					Leg:      "pickup",
					Driver:   driver,
				})
			}
			if driver := occ.ReturnAgent; wantLeg(driver) {
				respBody.Legs = append(respBody.Legs, OneLegRespBody{
					Date:     occ.Date.Format("2006-01-02"),
					Day:      occ.Weekday,
					Time:     occ.EndTime,
					Kid:      occ.Participant,
					Activity: occ.Name,
					Leg:      "return",
					Driver:   driver,
				})
			}
		}
		respBodyJson, err := json.Marshal(respBody)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	type OneKidStatsRespBody struct {
		Kid         string             `json:"kid"`
		WeeklyHours float64            `json:"weeklyHours"`
		HoursByDay  map[string]float64 `json:"hoursByDay"`
	}

	type StatsRespBody struct {
		WeekStart string                `json:"weekStart"`
		WeekEnd   string                `json:"weekEnd"`
		Kids      []OneKidStatsRespBody `json:"kids"`
		Drives    map[string]int        `json:"drives"`
	}

	// per-kid hour totals and per-driver drive counts for the week
	muxer.HandleFunc("GET /schedule/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var weekStart, weekEnd time.Time
		if raw := r.URL.Query().Get("date"); raw == "" {
			weekStart, weekEnd = planner.DisplayWeek(time.Now().In(as.Config.GetLocation()))
		} else {
			date, ok := resolveDate(as, raw)
			if !ok {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Can't understand the date"))
				return
			}
			weekStart, weekEnd = planner.WeekBounds(date)
		}

		records, err := loadCombined(r, as)
		if err != nil {
			slog.Error("can't load activities", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't load activities"))
			return
		}

		kids := make([]string, 0)
		seen := make(map[string]bool)
		if kid := r.URL.Query().Get("kid"); kid != "" {
			kids = append(kids, kid)
		} else {
			for _, rec := range records {
				if rec.Participant == planner.ParticipantAll || seen[rec.Participant] {
					continue
				}
				seen[rec.Participant] = true
				kids = append(kids, rec.Participant)
			}
			sort.Strings(kids)
		}

		respBody := StatsRespBody{
			WeekStart: weekStart.Format("2006-01-02"),
			WeekEnd:   weekEnd.Format("2006-01-02"),
			Kids:      make([]OneKidStatsRespBody, 0, len(kids)),
			Drives:    planner.DrivesPerDriver(records, weekStart, weekEnd),
		}
		for _, kid := range kids {
			respBody.Kids = append(respBody.Kids, OneKidStatsRespBody{
				Kid:         kid,
				WeeklyHours: planner.WeeklyHours(records, kid, weekStart, weekEnd),
				HoursByDay:  planner.HoursByDay(records, kid, weekStart, weekEnd),
			})
		}
		respBodyJson, err := json.Marshal(respBody)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})
}
