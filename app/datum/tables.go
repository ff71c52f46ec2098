package datum

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// DefaultMonths maps German month words to the English abbreviations the
// parser understands.
var DefaultMonths = map[string]string{
	"januar":    "jan",
	"jänner":    "jan",
	"februar":   "feb",
	"märz":      "mar",
	"maerz":     "mar",
	"mär":       "mar",
	"mrz":       "mar",
	"april":     "apr",
	"mai":       "may",
	"juni":      "jun",
	"juli":      "jul",
	"august":    "aug",
	"september": "sep",
	"oktober":   "oct",
	"okt":       "oct",
	"november":  "nov",
	"dezember":  "dec",
	"dez":       "dec",
}

// DefaultZoneNames maps zone abbreviations to IANA location names.
var DefaultZoneNames = map[string]string{
	"CEST": "Europe/Berlin",
	"CET":  "Europe/Berlin",
	"MESZ": "Europe/Berlin",
	"MEZ":  "Europe/Berlin",
	"UTC":  "UTC",
	"GMT":  "UTC",
	"EDT":  "America/New_York",
	"EST":  "America/New_York",
	"CDT":  "America/Chicago",
	"CST":  "America/Chicago",
	"MDT":  "America/Denver",
	"MST":  "America/Denver",
	"PDT":  "America/Los_Angeles",
	"PST":  "America/Los_Angeles",
}

var englishMonths = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var weekdayWords = map[string]bool{
	"monday": true, "mon": true,
	"tuesday": true, "tue": true, "tues": true,
	"wednesday": true, "wed": true,
	"thursday": true, "thu": true, "thur": true, "thurs": true,
	"friday": true, "fri": true,
	"saturday": true, "sat": true,
	"sunday": true, "sun": true,
	"montag": true, "mo": true,
	"dienstag": true, "di": true,
	"mittwoch": true, "mi": true,
	"donnerstag": true, "do": true,
	"freitag": true, "fr": true,
	"samstag": true, "sonnabend": true, "sa": true,
	"sonntag": true, "so": true,
}

// fillerWords are skipped by the scanner and tolerated by the dateparse gate.
var fillerWords = map[string]bool{
	"am": true, "pm": true, "at": true, "on": true, "from": true, "of": true,
	"the": true, "t": true, "z": true, "uhr": true, "um": true, "ab": true,
	"st": true, "nd": true, "rd": true, "th": true,
}

// LoadZones resolves abbreviation -> IANA name pairs into locations.
func LoadZones(names map[string]string) (map[string]*time.Location, error) {
	zones := make(map[string]*time.Location, len(names))
	for abbr, name := range names {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("invalid zone %q for %s: %w", name, abbr, err)
		}
		zones[strings.ToUpper(abbr)] = loc
	}
	return zones, nil
}

// DefaultZones returns the locations for DefaultZoneNames.
func DefaultZones() map[string]*time.Location {
	zones, err := LoadZones(DefaultZoneNames)
	if err != nil {
		// tzdata is embedded, so the defaults always resolve
		panic(err)
	}
	return zones
}

func monthByName(word string) (time.Month, bool) {
	m, ok := englishMonths[strings.TrimSuffix(strings.ToLower(word), ".")]
	return m, ok
}

func copyMonths(src map[string]string) map[string]string {
	if src == nil {
		src = DefaultMonths
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[strings.ToLower(k)] = strings.ToLower(v)
	}
	return dst
}

func copyZones(src map[string]*time.Location) map[string]*time.Location {
	if src == nil {
		return DefaultZones()
	}
	dst := make(map[string]*time.Location, len(src))
	for k, v := range src {
		dst[strings.ToUpper(k)] = v
	}
	return dst
}
