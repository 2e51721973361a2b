package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"weekplan/src-server/model"
	"weekplan/src-server/planner"
	"weekplan/src-server/scraper"
	"weekplan/src-server/utils"

	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

const (
	WORKER_COUNT  = 4
	FETCH_TIMEOUT = time.Minute * 5

	// holiday feeds publish years ahead; no point storing all of it
	HOLIDAY_HORIZON_MONTHS = 18
)

type feedResult struct {
	feed       scraper.Feed
	hash       string
	activities []model.Activity
}

// Refresher re-scrapes the school and holiday feeds on a cron schedule
// and replaces the stored rows for those origins. Manual rows are never
// touched.
type Refresher struct {
	as *utils.AppState

	mu       sync.Mutex
	lastHash map[string]string
}

func NewRefresher(as *utils.AppState) *Refresher {
	return &Refresher{
		as:       as,
		lastHash: make(map[string]string),
	}
}

// Start runs one refresh immediately, then schedules the rest per
// SCRAPE_CRON. The returned cron is stopped by main on shutdown.
func (r *Refresher) Start() (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(r.as.Config.GetScrapeCron(), func() {
		if err := r.RefreshAll(); err != nil {
			slog.Error("scheduled feed refresh failed", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("(*Refresher).Start: %w", err)
	}
	c.Start()

	go func() {
		if err := r.RefreshAll(); err != nil {
			slog.Error("initial feed refresh failed", "error", err)
		}
	}()

	return c, nil
}

// fetchFeed guards a feed download so one stuck server can't stall the
// whole refresh. The channels are buffered so a download that finishes
// after the timeout doesn't leak its goroutine.
func fetchFeed(url string, timeout time.Duration) ([]byte, error) {
	bodyCh := make(chan []byte, 1)
	errCh := make(chan error, 1)

	go func() {
		body, err := scraper.DownloadFeed(url)
		if err != nil {
			errCh <- err
			return
		}
		bodyCh <- body
	}()

	select {
	case <-time.After(timeout):
		return nil, fmt.Errorf("fetchFeed: timed out after %s", timeout)
	case err := <-errCh:
		return nil, err
	case body := <-bodyCh:
		return body, nil
	}
}

// completeOrigins reports which origins had every one of their feeds
// fetched and parsed. An origin with a failed feed keeps its stored
// rows untouched; rewriting it anyway would wipe the failed school's
// events (and its minimum-day overrides) until the next refresh.
func completeOrigins(feeds []scraper.Feed, results []feedResult) map[planner.Origin]bool {
	want := make(map[planner.Origin]int)
	for _, feed := range feeds {
		want[feed.Origin]++
	}
	got := make(map[planner.Origin]int)
	for _, result := range results {
		got[result.feed.Origin]++
	}

	complete := make(map[planner.Origin]bool)
	for origin, n := range want {
		if got[origin] == n {
			complete[origin] = true
		}
	}
	return complete
}

// RefreshAll fetches every feed with a worker pool, then rewrites the
// stored rows of each fully fetched origin in one transaction. When no
// feed's content hash changed since the last run, the database is left
// alone.
func (r *Refresher) RefreshAll() error {
	started := time.Now()
	today := planner.Midnight(time.Now().In(r.as.Config.GetLocation()))

	feeds := scraper.DefaultSchoolFeeds()
	feeds = append(feeds, scraper.HolidayFeed(r.as.Config.GetHebcalUrl()))

	jobs := make(chan scraper.Feed, len(feeds))
	var (
		resultsMutex sync.Mutex
		results      []feedResult
	)
	var wg sync.WaitGroup

	for range WORKER_COUNT {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for feed := range jobs {
				body, err := fetchFeed(feed.URL, FETCH_TIMEOUT)
				if err != nil {
					slog.Warn("RefreshAll: can't fetch feed", "feed", feed.Code, "error", err)
					continue
				}

				maxDate := time.Time{}
				if feed.Origin == planner.OriginHoliday {
					maxDate = today.AddDate(0, HOLIDAY_HORIZON_MONTHS, 0)
				}
				activities, err := scraper.ParseFeed(feed, body, today, maxDate)
				if err != nil {
					slog.Warn("RefreshAll: can't parse feed", "feed", feed.Code, "error", err)
					continue
				}

				resultsMutex.Lock()
				results = append(results, feedResult{
					feed:       feed,
					hash:       utils.HashBytes(body),
					activities: activities,
				})
				resultsMutex.Unlock()
			}
		}()
	}

	for _, feed := range feeds {
		jobs <- feed
	}
	close(jobs)
	wg.Wait()

	if len(results) == 0 {
		return fmt.Errorf("(*Refresher).RefreshAll: no feed could be fetched")
	}

	if r.unchanged(results) && len(results) == len(feeds) {
		slog.Debug("feed refresh skipped, content unchanged")
		return nil
	}

	complete := completeOrigins(feeds, results)
	if len(complete) == 0 {
		return fmt.Errorf("(*Refresher).RefreshAll: every origin had a failed feed")
	}

	schoolRows := make([]model.Activity, 0)
	freshRows := make([]model.Activity, 0)
	for _, result := range results {
		if !complete[result.feed.Origin] {
			slog.Warn("RefreshAll: keeping stored rows, a sibling feed failed",
				"feed", result.feed.Code, "origin", result.feed.Origin)
			continue
		}
		if result.feed.Origin == planner.OriginSchool {
			schoolRows = append(schoolRows, result.activities...)
		}
		freshRows = append(freshRows, result.activities...)
	}

	dbStarted := time.Now()
	if err := r.as.BunDB.RunInTx(context.Background(), &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for origin := range complete {
			if _, err := tx.NewDelete().
				Model((*model.Activity)(nil)).
				Where("origin_source = ?", string(origin)).
				Exec(ctx); err != nil {
				return fmt.Errorf("can't delete old %s rows: %w", origin, err)
			}
		}
		if len(freshRows) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().
			Model(&freshRows).
			Exec(ctx); err != nil {
			return fmt.Errorf("can't insert scraped rows: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("(*Refresher).RefreshAll: %w", err)
	}
	r.as.MetricChans.DatabaseWrite <- float64(time.Since(dbStarted).Microseconds())

	if complete[planner.OriginSchool] {
		if err := scraper.WriteSnapshot(r.as.Config.GetSchoolEventsFile(), schoolRows); err != nil {
			slog.Warn("RefreshAll: can't write school snapshot", "error", err)
		} else if err := r.as.MinDaySource.InvalidateIfStale(); err != nil {
			slog.Warn("RefreshAll: can't reload minimum-day source", "error", err)
		}
	}

	r.rememberHashes(results)

	r.as.MetricChans.ScrapeLatency <- time.Since(started).Seconds()
	r.as.MetricChans.ScrapedEvents <- float64(len(freshRows))
	slog.Info("feed refresh done",
		"feeds", len(results),
		"activities", len(freshRows),
		"took", time.Since(started).String())
	return nil
}

func (r *Refresher) unchanged(results []feedResult) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, result := range results {
		if r.lastHash[result.feed.Code] != result.hash {
			return false
		}
	}
	return true
}

func (r *Refresher) rememberHashes(results []feedResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, result := range results {
		r.lastHash[result.feed.Code] = result.hash
	}
}
