package planner

import (
	"strings"
	"time"
)

// Legacy scraped rows carried their provenance as a literal name prefix.
// Combine strips these during ingestion so provenance lives only in the
// Origin tag.
var legacyPrefixes = []struct {
	prefix string
	origin Origin
}{
	{"school: ", OriginSchool},
	{"jewish: ", OriginHoliday},
}

// Combine merges record collections from the three origins into one,
// preserving source order (manual, school, holiday). Each record gets
// tagged with its list's origin unless a legacy name prefix already
// names one; missing valid ranges default to today..today+365d. No
// cross-source de-duplication happens here: identically named records
// from different sources stay separate.
func Combine(today time.Time, manual, school, holiday []EventRecord) []EventRecord {
	today = Midnight(today)

	combined := make([]EventRecord, 0, len(manual)+len(school)+len(holiday))
	for _, batch := range []struct {
		records []EventRecord
		origin  Origin
	}{
		{manual, OriginManual},
		{school, OriginSchool},
		{holiday, OriginHoliday},
	} {
		for _, rec := range batch.records {
			if rec.Origin == "" {
				if origin, stripped, ok := stripLegacyPrefix(rec.Name); ok {
					rec.Origin = origin
					rec.Name = stripped
				} else {
					rec.Origin = batch.origin
				}
			}
			if rec.ValidFrom.IsZero() {
				rec.ValidFrom = today
			}
			if rec.ValidTo.IsZero() {
				rec.ValidTo = today.AddDate(0, 0, 365)
			}
			combined = append(combined, rec)
		}
	}
	return combined
}

func stripLegacyPrefix(name string) (Origin, string, bool) {
	lower := strings.ToLower(name)
	for _, legacy := range legacyPrefixes {
		if strings.HasPrefix(lower, legacy.prefix) {
			return legacy.origin, strings.TrimSpace(name[len(legacy.prefix):]), true
		}
	}
	return "", name, false
}
