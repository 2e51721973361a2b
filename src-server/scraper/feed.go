package scraper

import "weekplan/src-server/planner"

// Feed is one ICS subscription: a school calendar or the holiday feed.
type Feed struct {
	Code    string // short identifier, also the institution key for school feeds
	Name    string
	URL     string
	Address string // campus address, overrides per-event locations
	Origin  planner.Origin
}

// DefaultSchoolFeeds lists the schools the family attends. The Code must
// match the institution keys in planner.DefaultSchoolRules.
func DefaultSchoolFeeds() []Feed {
	return []Feed{
		{
			Code:    "JLS",
			Name:    "Jane Lathrop Stanford Middle School",
			URL:     "https://jls.pausd.org/fs/calendar-manager/events.ics?calendar_ids[]=7",
			Address: "480 E Meadow Dr, Palo Alto, CA",
			Origin:  planner.OriginSchool,
		},
		{
			Code:    "Ohlone",
			Name:    "Ohlone Elementary School",
			URL:     "https://ohlone.pausd.org/fs/calendar-manager/events.ics?calendar_ids[]=45",
			Address: "950 Amarillo Ave, Palo Alto, CA 94303",
			Origin:  planner.OriginSchool,
		},
	}
}

// HolidayFeed is the Hebcal subscription for Jewish holidays.
func HolidayFeed(url string) Feed {
	return Feed{
		Code:   "Hebcal",
		Name:   "Jewish Holidays",
		URL:    url,
		Origin: planner.OriginHoliday,
	}
}
