package planner

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// MinimumDaySource serves the school-event names that minimum-day rules
// pattern-match against. It is backed by the scraped school-events CSV
// snapshot and reloads lazily: each lookup first compares the file's
// modification time against the one seen at the last load.
type MinimumDaySource struct {
	path string

	mu      sync.Mutex
	modTime time.Time
	loaded  bool
	rows    []minDayRow
}

type minDayRow struct {
	participant string
	date        time.Time
	name        string
}

func NewMinimumDaySource(path string) *MinimumDaySource {
	return &MinimumDaySource{path: path}
}

// InvalidateIfStale reloads the backing file when its modification time
// has changed since the last load. A missing file is not an error: it
// simply means no overrides apply.
func (s *MinimumDaySource) InvalidateIfStale() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.rows = nil
			s.loaded = true
			s.modTime = time.Time{}
			return nil
		}
		return fmt.Errorf("MinimumDaySource.InvalidateIfStale: %w", err)
	}
	if s.loaded && info.ModTime().Equal(s.modTime) {
		return nil
	}

	rows, err := readMinDayRows(s.path)
	if err != nil {
		return fmt.Errorf("MinimumDaySource.InvalidateIfStale: %w", err)
	}
	s.rows = rows
	s.modTime = info.ModTime()
	s.loaded = true
	slog.Debug("minimum-day source reloaded", "path", s.path, "rows", len(rows))
	return nil
}

// Lookup returns the event names recorded for the participant on the
// date. Rows tagged with the "All" participant match everyone.
func (s *MinimumDaySource) Lookup(participant string, date time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	// rows parse their dates in UTC; rebase the query date so a lookup
	// from the display zone hits the same calendar day
	date = utcDate(date)
	var names []string
	for _, row := range s.rows {
		if !row.date.Equal(date) {
			continue
		}
		if row.participant != ParticipantAll && !strings.EqualFold(row.participant, participant) {
			continue
		}
		names = append(names, row.name)
	}
	return names
}

// readMinDayRows parses the planner-format CSV, keeping only the columns
// a minimum-day lookup needs. Rows with unparseable dates are skipped.
func readMinDayRows(path string) ([]minDayRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	col := make(map[string]int)
	for i, name := range records[0] {
		col[strings.TrimSpace(name)] = i
	}
	kidCol, ok1 := col["kid_name"]
	nameCol, ok2 := col["activity"]
	dateCol, ok3 := col["start_date"]
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("missing planner columns in %s", path)
	}

	rows := make([]minDayRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) <= kidCol || len(record) <= nameCol || len(record) <= dateCol {
			continue
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(record[dateCol]))
		if err != nil {
			slog.Warn("skipping school event row with bad date", "date", record[dateCol])
			continue
		}
		rows = append(rows, minDayRow{
			participant: strings.TrimSpace(record[kidCol]),
			date:        utcDate(date),
			name:        strings.TrimSpace(record[nameCol]),
		})
	}
	return rows, nil
}
