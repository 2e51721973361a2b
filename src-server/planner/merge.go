package planner

import (
	"sort"
	"strings"
)

// mergeKey is every Occurrence field except the participant identity.
type mergeKey struct {
	date        int64
	weekday     string
	startTime   string
	endTime     string
	name        string
	location    string
	pickupAgent string
	returnAgent string
	origin      Origin
	dayAbbrev   string
}

// Merge collapses occurrences that differ only by participant into one
// row with a combined participant label ("Alice + Bob", alphabetical).
// Groups keep their first-seen relative order, and merging an already
// merged list changes nothing.
func Merge(occurrences []Occurrence) []Occurrence {
	groups := make(map[mergeKey][]Occurrence)
	order := make([]mergeKey, 0, len(occurrences))

	for _, occ := range occurrences {
		key := mergeKey{
			date:        Midnight(occ.Date).Unix(),
			weekday:     occ.Weekday,
			startTime:   occ.StartTime,
			endTime:     occ.EndTime,
			name:        occ.Name,
			location:    occ.Location,
			pickupAgent: occ.PickupAgent,
			returnAgent: occ.ReturnAgent,
			origin:      occ.Origin,
			dayAbbrev:   occ.DayAbbrev,
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], occ)
	}

	merged := make([]Occurrence, 0, len(order))
	for _, key := range order {
		group := groups[key]
		if len(group) == 1 {
			merged = append(merged, group[0])
			continue
		}

		participants := make([]string, 0, len(group))
		for _, occ := range group {
			participants = append(participants, occ.Participant)
		}
		sort.Strings(participants)

		row := group[0]
		row.Participant = strings.Join(participants, " + ")
		if row.ParticipantAbbrev != "" {
			abbrevs := make([]string, 0, len(participants))
			for _, p := range participants {
				abbrevs = append(abbrevs, abbreviateParticipant(p))
			}
			row.ParticipantAbbrev = strings.Join(abbrevs, " + ")
		}
		merged = append(merged, row)
	}
	return merged
}
