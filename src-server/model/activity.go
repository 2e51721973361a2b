package model

import (
	"context"
	"fmt"
	"time"
	"weekplan/src-server/planner"

	"github.com/uptrace/bun"
)

// Activity is the persisted form of a recurrence rule. Column names
// mirror the legacy planner CSV so exported snapshots stay compatible.
type Activity struct {
	bun.BaseModel `bun:"table:activities"`

	ID            string  `bun:"id,pk"`                // required
	KidName       string  `bun:"kid_name,notnull"`     // required, "All" applies to everyone
	Name          string  `bun:"activity,notnull"`     // required
	StartTime     string  `bun:"time,notnull"`         // required, "15:04"
	DurationHours float64 `bun:"duration,notnull"`
	Frequency     string  `bun:"frequency,notnull"` // weekly | bi-weekly | one-time
	DaysOfWeek    string  `bun:"days_of_week,notnull"` // JSON array of weekday names
	ValidFrom     string  `bun:"start_date"`           // ISO 8601 calendar date
	ValidTo       string  `bun:"end_date"`
	Location      string  `bun:"address"`
	PickupDriver  string  `bun:"pickup_driver"`
	ReturnDriver  string  `bun:"return_driver"`
	OriginSource  string  `bun:"origin_source,notnull"` // Manual | School | Holiday

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`
}

const dateLayout = "2006-01-02"

func (a *Activity) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case a.ID == "":
		return fmt.Errorf("(*Activity).Upsert: id is blank")
	case a.KidName == "":
		return fmt.Errorf("(*Activity).Upsert: kid name is blank")
	case a.Name == "":
		return fmt.Errorf("(*Activity).Upsert: activity name is blank")
	case a.StartTime == "":
		return fmt.Errorf("(*Activity).Upsert: start time is blank")
	case a.DurationHours < 0:
		return fmt.Errorf("(*Activity).Upsert: duration is negative")
	case a.OriginSource == "":
		return fmt.Errorf("(*Activity).Upsert: origin source is blank")
	}
	switch planner.Frequency(a.Frequency) {
	case planner.FreqWeekly, planner.FreqBiWeekly, planner.FreqOneTime:
	default:
		return fmt.Errorf("(*Activity).Upsert: unknown frequency %q", a.Frequency)
	}
	if _, err := planner.ParseDays(a.DaysOfWeek); err != nil {
		return fmt.Errorf("(*Activity).Upsert: %w", err)
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().UTC().Unix()
	}

	exists, err := db.NewSelect().
		Model((*Activity)(nil)).
		Where("id = ?", a.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("(*Activity).Upsert: %w", err)
	}

	switch exists {
	case true:
		a.UpdatedAt = time.Now().UTC().Unix()
		if _, err := db.NewUpdate().
			Model(a).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Activity).Upsert: %w", err)
		}
	case false:
		if _, err := db.NewInsert().
			Model(a).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Activity).Upsert: %w", err)
		}
	}

	return nil
}

// ToRecord converts the stored row into the engine's recurrence rule.
// Blank date columns stay zero so SourceCombiner can apply its defaults.
func (a *Activity) ToRecord() (planner.EventRecord, error) {
	days, err := planner.ParseDays(a.DaysOfWeek)
	if err != nil {
		return planner.EventRecord{}, fmt.Errorf("(*Activity).ToRecord: %w", err)
	}
	rec := planner.EventRecord{
		Participant:   a.KidName,
		Name:          a.Name,
		StartTime:     a.StartTime,
		DurationHours: a.DurationHours,
		Frequency:     planner.Frequency(a.Frequency),
		DaysOfWeek:    days,
		Location:      a.Location,
		PickupAgent:   a.PickupDriver,
		ReturnAgent:   a.ReturnDriver,
		Origin:        planner.Origin(a.OriginSource),
	}
	if a.ValidFrom != "" {
		from, err := time.Parse(dateLayout, a.ValidFrom)
		if err != nil {
			return planner.EventRecord{}, fmt.Errorf("(*Activity).ToRecord: bad start date: %w", err)
		}
		rec.ValidFrom = from
	}
	if a.ValidTo != "" {
		to, err := time.Parse(dateLayout, a.ValidTo)
		if err != nil {
			return planner.EventRecord{}, fmt.Errorf("(*Activity).ToRecord: bad end date: %w", err)
		}
		rec.ValidTo = to
	}
	return rec, nil
}

// RecordsByOrigin loads every stored activity of one origin as engine
// records. Rows that no longer parse are skipped, not fatal, matching
// the engine's malformed-record policy.
func RecordsByOrigin(ctx context.Context, db bun.IDB, origin planner.Origin) ([]planner.EventRecord, []error) {
	activities := make([]Activity, 0)
	if err := db.NewSelect().
		Model(&activities).
		Where("origin_source = ?", string(origin)).
		Order("created_at ASC").
		Scan(ctx); err != nil {
		return nil, []error{fmt.Errorf("RecordsByOrigin: %w", err)}
	}

	records := make([]planner.EventRecord, 0, len(activities))
	var errs []error
	for i := range activities {
		rec, err := activities[i].ToRecord()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, rec)
	}
	return records, errs
}
