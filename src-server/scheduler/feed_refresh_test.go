package scheduler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"weekplan/src-server/planner"
	"weekplan/src-server/scraper"
)

func TestCompleteOriginsPartialSchoolFailure(t *testing.T) {
	feeds := []scraper.Feed{
		{Code: "JLS", Origin: planner.OriginSchool},
		{Code: "Ohlone", Origin: planner.OriginSchool},
		{Code: "Hebcal", Origin: planner.OriginHoliday},
	}

	// Ohlone timed out: only JLS and Hebcal produced results
	results := []feedResult{
		{feed: feeds[0]},
		{feed: feeds[2]},
	}
	complete := completeOrigins(feeds, results)
	if complete[planner.OriginSchool] {
		t.Error("School must not be rewritten while one school feed is missing")
	}
	if !complete[planner.OriginHoliday] {
		t.Error("Holiday had all its feeds and must be rewritten")
	}

	// all feeds back: both origins rewrite
	results = append(results, feedResult{feed: feeds[1]})
	complete = completeOrigins(feeds, results)
	if !complete[planner.OriginSchool] || !complete[planner.OriginHoliday] {
		t.Errorf("expected both origins complete, got %v", complete)
	}
}

func TestCompleteOriginsNothingFetched(t *testing.T) {
	feeds := []scraper.Feed{
		{Code: "JLS", Origin: planner.OriginSchool},
		{Code: "Hebcal", Origin: planner.OriginHoliday},
	}
	if complete := completeOrigins(feeds, nil); len(complete) != 0 {
		t.Errorf("expected no complete origins, got %v", complete)
	}
}

func TestFetchFeedTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	if _, err := fetchFeed(server.URL, 50*time.Millisecond); err == nil {
		t.Fatal("expected a timeout error from a stalled server")
	}
}

func TestFetchFeedSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("BEGIN:VCALENDAR"))
	}))
	defer server.Close()

	body, err := fetchFeed(server.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "BEGIN:VCALENDAR" {
		t.Errorf("body = %q", body)
	}
}
