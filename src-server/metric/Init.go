package metric

import (
	"log/slog"
	"time"
	"weekplan/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func databaseEmptyRead(as *utils.AppState, tickerInterval *time.Duration) {
	databaseEmptyRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "weekplan_database_empty_read_microsec",
		Help: "The latency of an empty database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseEmptyRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register weekplan_database_empty_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("weekplan_database_empty_read_microsec metric registered")
		databaseEmptyRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseEmptyRead) {
				case true:
					slog.Debug("weekplan_database_empty_read_microsec metric unregistered")
				case false:
					slog.Warn("weekplan_database_empty_read_microsec metric not registered")
				}
				return
			case <-ticker.C:
				latency, err := database(as)
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				databaseEmptyRead.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

func databaseRead(as *utils.AppState, clearTickerInterval *time.Duration) {
	databaseRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "weekplan_database_read_microsec",
		Help: "The latency of a database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register weekplan_database_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("weekplan_database_read_microsec metric registered")
		databaseRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseRead) {
				case true:
					slog.Debug("weekplan_database_read_microsec metric unregistered")
				case false:
					slog.Warn("weekplan_database_read_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.DatabaseRead:
				databaseRead.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				databaseRead.Set(0)
			}
		}
	}()
}

func databaseWrite(as *utils.AppState, clearTickerInterval *time.Duration) {
	databaseWrite := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "weekplan_database_write_microsec",
		Help: "The latency of a database write in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseWrite); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register weekplan_database_write_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("weekplan_database_write_microsec metric registered")
		databaseWrite.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseWrite) {
				case true:
					slog.Debug("weekplan_database_write_microsec metric unregistered")
				case false:
					slog.Warn("weekplan_database_write_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.DatabaseWrite:
				databaseWrite.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				databaseWrite.Set(0)
			}
		}
	}()
}

func materializeLatency(as *utils.AppState, clearTickerInterval *time.Duration) {
	materializeLatency := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "weekplan_materialize_microsec",
		Help: "The latency of a schedule materialization in microseconds",
	})
	good := true
	if err := prometheus.Register(materializeLatency); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register weekplan_materialize_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("weekplan_materialize_microsec metric registered")
		materializeLatency.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(materializeLatency) {
				case true:
					slog.Debug("weekplan_materialize_microsec metric unregistered")
				case false:
					slog.Warn("weekplan_materialize_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.MaterializeLatency:
				materializeLatency.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				materializeLatency.Set(0)
			}
		}
	}()
}

func scrapeLatency(as *utils.AppState, clearTickerInterval *time.Duration) {
	scrapeLatency := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "weekplan_scrape_latency_sec",
		Help: "How long the last full feed refresh took in seconds",
	})
	good := true
	if err := prometheus.Register(scrapeLatency); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register weekplan_scrape_latency_sec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("weekplan_scrape_latency_sec metric registered")
		scrapeLatency.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(scrapeLatency) {
				case true:
					slog.Debug("weekplan_scrape_latency_sec metric unregistered")
				case false:
					slog.Warn("weekplan_scrape_latency_sec metric not registered")
				}
				return
			case latency := <-as.MetricChans.ScrapeLatency:
				scrapeLatency.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				scrapeLatency.Set(0)
			}
		}
	}()
}

func scrapedEvents(as *utils.AppState) {
	scrapedEvents := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "weekplan_scraped_events",
		Help: "How many feed rows the last refresh stored",
	})
	good := true
	if err := prometheus.Register(scrapedEvents); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register weekplan_scraped_events metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("weekplan_scraped_events metric registered")
		scrapedEvents.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(scrapedEvents) {
				case true:
					slog.Debug("weekplan_scraped_events metric unregistered")
				case false:
					slog.Warn("weekplan_scraped_events metric not registered")
				}
				return
			case count := <-as.MetricChans.ScrapedEvents:
				scrapedEvents.Set(count)
			}
		}
	}()
}

func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	databaseEmptyRead(as, &tickerInterval)
	databaseRead(as, &clearTickerInterval)
	databaseWrite(as, &clearTickerInterval)
	materializeLatency(as, &clearTickerInterval)
	scrapeLatency(as, &clearTickerInterval)
	scrapedEvents(as)
}
