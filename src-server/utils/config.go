package utils

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	port string

	databasePath     string
	schoolEventsFile string

	location *time.Location

	scrapeCron string
	hebcalUrl  string

	metricCollectionInterval time.Duration
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		databasePath: func() string {
			databasePath := os.Getenv("DATABASE_PATH")
			if databasePath == "" {
				databasePath = "./weekplan.db"
			}
			slog.Debug("env", "DATABASE_PATH", databasePath)
			return databasePath
		}(),
		schoolEventsFile: func() string {
			schoolEventsFile := os.Getenv("SCHOOL_EVENTS_FILE")
			if schoolEventsFile == "" {
				schoolEventsFile = "./school_events.csv"
			}
			slog.Debug("env", "SCHOOL_EVENTS_FILE", schoolEventsFile)
			return schoolEventsFile
		}(),

		location: func() *time.Location {
			// fixed UTC offset, not a tz database zone; DST correctness
			// is out of scope for the planner
			offsetStr := os.Getenv("UTC_OFFSET_HOURS")
			if offsetStr == "" {
				offsetStr = "-7" // Pacific
			}
			offset, err := strconv.Atoi(offsetStr)
			if err != nil {
				slog.Error("invalid UTC_OFFSET_HOURS", "value", offsetStr, "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "UTC_OFFSET_HOURS", offset)
			return time.FixedZone(fmt.Sprintf("UTC%+d", offset), offset*3600)
		}(),

		scrapeCron: func() string {
			scrapeCron := os.Getenv("SCRAPE_CRON")
			if scrapeCron == "" {
				slog.Warn("SCRAPE_CRON is not set")
				scrapeCron = "0 6 * * *" // daily, early morning
			}
			slog.Debug("env", "SCRAPE_CRON", scrapeCron)
			return scrapeCron
		}(),
		hebcalUrl: func() string {
			hebcalUrl := os.Getenv("HEBCAL_URL")
			if hebcalUrl == "" {
				hebcalUrl = "https://download.hebcal.com/v4/CAEQARgBIAEoATABQAGAAQGYAQGgAQH4AQU/hebcal.ics"
			}
			slog.Debug("env", "HEBCAL_URL", hebcalUrl)
			return hebcalUrl
		}(),

		metricCollectionInterval: func() time.Duration {
			intervalStr := os.Getenv("METRIC_COLLECTION_INTERVAL_SEC")
			if intervalStr == "" {
				intervalStr = "60"
			}
			interval, err := strconv.Atoi(intervalStr)
			if err != nil || interval <= 0 {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL_SEC", "value", intervalStr)
				os.Exit(1)
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL_SEC", interval)
			return time.Duration(interval) * time.Second
		}(),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get DATABASE_PATH env
func (c *Config) GetDatabasePath() string {
	return c.databasePath
}

// Get SCHOOL_EVENTS_FILE env, the minimum-day source snapshot
func (c *Config) GetSchoolEventsFile() string {
	return c.schoolEventsFile
}

// Get the fixed-offset display zone from UTC_OFFSET_HOURS
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get SCRAPE_CRON env
func (c *Config) GetScrapeCron() string {
	return c.scrapeCron
}

// Get HEBCAL_URL env
func (c *Config) GetHebcalUrl() string {
	return c.hebcalUrl
}

// Get METRIC_COLLECTION_INTERVAL_SEC env, default to 60s
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}
