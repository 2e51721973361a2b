package scraper

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"weekplan/src-server/model"
)

var snapshotHeader = []string{
	"kid_name",
	"activity",
	"time",
	"duration",
	"frequency",
	"days_of_week",
	"start_date",
	"end_date",
	"address",
	"pickup_driver",
	"return_driver",
}

// WriteSnapshot dumps scraped activities to a planner-format CSV. The
// minimum-day lookup reads this file back and invalidates on mtime, so
// the write goes through a temp file and a rename to avoid a half
// written snapshot being picked up.
func WriteSnapshot(path string, activities []model.Activity) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.csv")
	if err != nil {
		return fmt.Errorf("WriteSnapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.Write(snapshotHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("WriteSnapshot: %w", err)
	}
	for i := range activities {
		a := &activities[i]
		row := []string{
			a.KidName,
			a.Name,
			a.StartTime,
			strconv.FormatFloat(a.DurationHours, 'g', -1, 64),
			a.Frequency,
			a.DaysOfWeek,
			a.ValidFrom,
			a.ValidTo,
			a.Location,
			a.PickupDriver,
			a.ReturnDriver,
		}
		if err := writer.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("WriteSnapshot: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("WriteSnapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("WriteSnapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("WriteSnapshot: %w", err)
	}
	return nil
}
