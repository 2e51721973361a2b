package planner

import "regexp"

// MinimumDayRule describes one school's early-dismissal policy: which
// calendar events announce a minimum day, and what the dismissal time is
// on each weekday that has one.
type MinimumDayRule struct {
	// NamePattern matches the announcing event's name, case-insensitively.
	NamePattern *regexp.Regexp
	// EndByWeekday maps lowercase weekday names to the override end time.
	EndByWeekday map[string]string
}

// SchoolRules is the static configuration tying participants to their
// school and schools to their minimum-day policy. It is data, not
// computed: edit here when a kid changes school.
type SchoolRules struct {
	ParticipantSchool map[string]string
	MinimumDay        map[string]MinimumDayRule
}

// DefaultSchoolRules mirrors the family's current enrollment.
func DefaultSchoolRules() SchoolRules {
	return SchoolRules{
		ParticipantSchool: map[string]string{
			"Ariella": "JLS",
			"Eitan":   "Ohlone",
		},
		MinimumDay: map[string]MinimumDayRule{
			"JLS": {
				NamePattern: regexp.MustCompile(`(?i)minimum day`),
				EndByWeekday: map[string]string{
					"monday":    "13:15",
					"tuesday":   "13:15",
					"wednesday": "13:15",
					"thursday":  "13:15",
					"friday":    "12:45",
				},
			},
			"Ohlone": {
				NamePattern: regexp.MustCompile(`(?i)minimum day|early dismissal`),
				EndByWeekday: map[string]string{
					"monday":    "12:50",
					"tuesday":   "12:50",
					"wednesday": "12:50",
					"thursday":  "12:50",
					"friday":    "12:50",
				},
			},
		},
	}
}
