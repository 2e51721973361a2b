package route

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
	"weekplan/src-server/model"
	"weekplan/src-server/planner"
	"weekplan/src-server/utils"

	"github.com/google/uuid"
)

func Activity(muxer *http.ServeMux, as *utils.AppState) {
	type OneActivityRespBody struct {
		ID            string  `json:"id"`
		Kid           string  `json:"kid"`
		Activity      string  `json:"activity"`
		Start         string  `json:"start"`
		DurationHours float64 `json:"durationHours"`
		Frequency     string  `json:"frequency"`
		DaysOfWeek    string  `json:"daysOfWeek"`
		StartDate     string  `json:"startDate"`
		EndDate       string  `json:"endDate"`
		Location      string  `json:"location"`
		PickupDriver  string  `json:"pickupDriver"`
		ReturnDriver  string  `json:"returnDriver"`
		Origin        string  `json:"origin"`
	}

	// list stored activities, optionally one origin only
	muxer.HandleFunc("GET /activity/list", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		startTimer := time.Now()
		activityModels := make([]model.Activity, 0)
		query := as.BunDB.
			NewSelect().
			Model(&activityModels).
			Order("created_at ASC")
		if origin := r.URL.Query().Get("origin"); origin != "" {
			query = query.Where("origin_source = ?", origin)
		}
		if err := query.Scan(r.Context()); err != nil {
			slog.Error("can't list activities", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't list activities"))
			return
		}
		as.MetricChans.DatabaseRead <- float64(time.Since(startTimer).Microseconds())

		respBody := make([]OneActivityRespBody, 0, len(activityModels))
		for _, activityModel := range activityModels {
			respBody = append(respBody, OneActivityRespBody{
				ID:            activityModel.ID,
				Kid:           activityModel.KidName,
				Activity:      activityModel.Name,
				Start:         activityModel.StartTime,
				DurationHours: activityModel.DurationHours,
				Frequency:     activityModel.Frequency,
				DaysOfWeek:    activityModel.DaysOfWeek,
				StartDate:     activityModel.ValidFrom,
				EndDate:       activityModel.ValidTo,
				Location:      activityModel.Location,
				PickupDriver:  activityModel.PickupDriver,
				ReturnDriver:  activityModel.ReturnDriver,
				Origin:        activityModel.OriginSource,
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

	type CreateActivityReqBody struct {
		Kid           string  `json:"kid"`
		Activity      string  `json:"activity"`
		Start         string  `json:"start"`
		DurationHours float64 `json:"durationHours"`
		Frequency     string  `json:"frequency"`
		DaysOfWeek    string  `json:"daysOfWeek"`
		StartDate     string  `json:"startDate"`
		EndDate       string  `json:"endDate"`
		Location      string  `json:"location"`
		PickupDriver  string  `json:"pickupDriver"`
		ReturnDriver  string  `json:"returnDriver"`
	}

	type ModifyActivityReqBody struct {
		ID string `json:"id"`
		CreateActivityReqBody
	}

	// create a new manual activity, the success response is the row ID
	muxer.HandleFunc("POST /activity/create", func(w http.ResponseWriter, r *http.Request) {
		var reqBody CreateActivityReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		newActivity := model.Activity{
			ID:            uuid.NewString(),
			KidName:       reqBody.Kid,
			Name:          reqBody.Activity,
			StartTime:     reqBody.Start,
			DurationHours: reqBody.DurationHours,
			Frequency:     reqBody.Frequency,
			DaysOfWeek:    reqBody.DaysOfWeek,
			ValidFrom:     reqBody.StartDate,
			ValidTo:       reqBody.EndDate,
			Location:      reqBody.Location,
			PickupDriver:  reqBody.PickupDriver,
			ReturnDriver:  reqBody.ReturnDriver,
			OriginSource:  string(planner.OriginManual),
		}
		startTimer := time.Now()
		if err := newActivity.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(err.Error()))
			return
		}
		as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds())

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(newActivity.ID))
	})

	// modify an existing activity
	muxer.HandleFunc("POST /activity/modify", func(w http.ResponseWriter, r *http.Request) {
		var reqBody ModifyActivityReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}
		if reqBody.ID == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide an activity ID"))
			return
		}

		activityModel := new(model.Activity)
		if err := as.BunDB.
			NewSelect().
			Model(activityModel).
			Where("id = ?", reqBody.ID).
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Activity not found"))
			return
		}

		activityModel.KidName = reqBody.Kid
		activityModel.Name = reqBody.Activity
		activityModel.StartTime = reqBody.Start
		activityModel.DurationHours = reqBody.DurationHours
		activityModel.Frequency = reqBody.Frequency
		activityModel.DaysOfWeek = reqBody.DaysOfWeek
		activityModel.ValidFrom = reqBody.StartDate
		activityModel.ValidTo = reqBody.EndDate
		activityModel.Location = reqBody.Location
		activityModel.PickupDriver = reqBody.PickupDriver
		activityModel.ReturnDriver = reqBody.ReturnDriver

		startTimer := time.Now()
		if err := activityModel.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(err.Error()))
			return
		}
		as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds())

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(reqBody.ID))
	})

	// delete an activity
	muxer.HandleFunc("DELETE /activity/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide an activity ID"))
			return
		}

		startTimer := time.Now()
		if _, err := as.BunDB.NewDelete().
			Model((*model.Activity)(nil)).
			Where("id = ?", id).
			Exec(r.Context()); err != nil {
			slog.Error("can't delete activity", "id", id, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't delete activity"))
			return
		}
		as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds())

		w.WriteHeader(http.StatusOK)
	})
}
