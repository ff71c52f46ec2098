package datum

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	scanSeparators = strings.NewReplacer(",", " ", ";", " ", "(", " ", ")", " ", "|", " ", "a.m.", "am", "p.m.", "pm")

	isoDateToken     = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	ymdToken         = regexp.MustCompile(`^(\d{4})[./](\d{1,2})[./](\d{1,2})$`)
	numericDateToken = regexp.MustCompile(`^(\d{1,2})([./-])(\d{1,2})(?:[./-](\d{4}|\d{2}))?\.?$`)
	clockToken       = regexp.MustCompile(`^(\d{1,2})(?::|h)(\d{2})(?::(\d{2}))?(am|pm)?$`)
	hourMerToken     = regexp.MustCompile(`^(\d{1,2})(am|pm)$`)
	ordinalToken     = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th)$`)
	offsetToken      = regexp.MustCompile(`^(?:utc|gmt)?([+-])(\d{1,2})(?::?(\d{2}))?$`)
	yearToken        = regexp.MustCompile(`^\d{4}$`)
	numberToken      = regexp.MustCompile(`^\d{1,2}$`)
)

type scanNumber struct {
	value int
	index int
}

// scanState collects date components from loosely ordered tokens.
type scanState struct {
	year, month, day     int
	hour, minute, second int
	hasClock             bool
	meridiem             string
	loc                  *time.Location
	numbers              []scanNumber
	hourCandidate        int
	proseWords           int
}

// scan is a fuzzy token scanner: unknown tokens are skipped, partial times
// and am/pm markers are accepted, zone abbreviations resolve through zones.
func scan(text string, dayFirst bool, zones map[string]*time.Location, naive *time.Location, defaultYear int) (Instant, error) {
	tokens := strings.Fields(scanSeparators.Replace(strings.ToLower(text)))
	st := &scanState{hourCandidate: -1}

	for i, tok := range tokens {
		if numericDateToken.MatchString(tok) {
			st.numericDate(tok, dayFirst)
			continue
		}
		tok = strings.TrimRight(tok, ".:")
		if tok == "" {
			continue
		}
		st.token(i, tok, zones)
	}

	return st.resolve(dayFirst, naive, defaultYear)
}

func (st *scanState) token(i int, tok string, zones map[string]*time.Location) {
	if loc, ok := zones[strings.ToUpper(tok)]; ok {
		if st.loc == nil {
			st.loc = loc
		}
		return
	}

	if g := offsetToken.FindStringSubmatch(tok); g != nil && st.hasClock {
		hours, _ := strconv.Atoi(g[2])
		minutes, _ := strconv.Atoi(g[3])
		offset := hours*3600 + minutes*60
		if g[1] == "-" {
			offset = -offset
		}
		if st.loc == nil {
			st.loc = time.FixedZone(strings.ToUpper(tok), offset)
		}
		return
	}

	switch {
	case tok == "am" || tok == "pm":
		st.meridiem = tok
		if !st.hasClock && len(st.numbers) > 0 && st.numbers[len(st.numbers)-1].index == i-1 {
			st.hourCandidate = len(st.numbers) - 1
		}
	case isoDateToken.MatchString(tok):
		g := isoDateToken.FindStringSubmatch(tok)
		st.setDate(atoi(g[1]), atoi(g[2]), atoi(g[3]))
	case ymdToken.MatchString(tok):
		g := ymdToken.FindStringSubmatch(tok)
		st.setDate(atoi(g[1]), atoi(g[2]), atoi(g[3]))
	case clockToken.MatchString(tok):
		g := clockToken.FindStringSubmatch(tok)
		if !st.hasClock {
			st.hour, st.minute, st.second = atoi(g[1]), atoi(g[2]), atoi(g[3])
			st.hasClock = true
		}
		if g[4] != "" {
			st.meridiem = g[4]
		}
	case hourMerToken.MatchString(tok):
		g := hourMerToken.FindStringSubmatch(tok)
		if !st.hasClock {
			st.hour = atoi(g[1])
			st.hasClock = true
		}
		st.meridiem = g[2]
	case ordinalToken.MatchString(tok):
		g := ordinalToken.FindStringSubmatch(tok)
		st.numbers = append(st.numbers, scanNumber{value: atoi(g[1]), index: i})
	case yearToken.MatchString(tok):
		if y := atoi(tok); st.year == 0 && y >= 1900 && y < 2200 {
			st.year = y
		}
	case numberToken.MatchString(tok):
		st.numbers = append(st.numbers, scanNumber{value: atoi(tok), index: i})
	default:
		if m, ok := monthByName(tok); ok {
			if st.month == 0 {
				st.month = int(m)
			}
			return
		}
		if !weekdayWords[tok] && !fillerWords[tok] && letterRuns.MatchString(tok) {
			st.proseWords++
		}
	}
}

func (st *scanState) numericDate(tok string, dayFirst bool) {
	g := numericDateToken.FindStringSubmatch(strings.TrimSuffix(tok, "."))
	a, b := atoi(g[1]), atoi(g[3])
	day, month := a, b
	switch {
	case g[2] != "/":
		// dotted and dashed numerics are always day-first
	case a > 12:
	case b > 12:
		day, month = b, a
	case !dayFirst:
		day, month = b, a
	}

	year := 0
	if g[4] != "" {
		year = atoi(g[4])
		if year < 100 {
			year += 2000
		}
	}
	st.setDate(year, month, day)
}

func (st *scanState) setDate(year, month, day int) {
	if st.day != 0 || st.month != 0 {
		return
	}
	st.day, st.month = day, month
	if year != 0 && st.year == 0 {
		st.year = year
	}
}

func (st *scanState) resolve(dayFirst bool, naive *time.Location, defaultYear int) (Instant, error) {
	numbers := st.numbers
	if st.hourCandidate >= 0 && !st.hasClock && (st.day != 0 || len(numbers) >= 2) {
		st.hour = numbers[st.hourCandidate].value
		st.hasClock = true
		numbers = append(numbers[:st.hourCandidate:st.hourCandidate], numbers[st.hourCandidate+1:]...)
	}

	remaining := make([]int, 0, len(numbers))
	for _, n := range numbers {
		if n.value >= 1 && n.value <= 31 {
			remaining = append(remaining, n.value)
		}
	}

	switch {
	case st.day != 0:
	case st.month != 0 && len(remaining) > 0:
		st.day = remaining[0]
	// "Raum 12, Gebäude 3" is no date: bare numbers among other words need
	// a clock beside them.
	case st.month == 0 && len(remaining) >= 2 && (st.proseWords == 0 || st.hasClock):
		if dayFirst {
			st.day, st.month = remaining[0], remaining[1]
		} else {
			st.month, st.day = remaining[0], remaining[1]
		}
	}

	if st.day == 0 || st.month == 0 {
		return Instant{}, fmt.Errorf("%w: no day and month found", ErrUnparseable)
	}
	if st.year == 0 {
		st.year = defaultYear
	}

	if st.hasClock && st.hour <= 12 {
		switch {
		case st.meridiem == "pm" && st.hour < 12:
			st.hour += 12
		case st.meridiem == "am" && st.hour == 12:
			st.hour = 0
		}
	}

	loc, aware := naive, false
	if st.loc != nil {
		loc, aware = st.loc, true
	}

	t, err := buildTime(st.year, st.month, st.day, st.hour, st.minute, st.second, loc)
	if err != nil {
		return Instant{}, err
	}
	return newInstant(t, aware), nil
}

// buildTime constructs a time and rejects values time.Date would normalize,
// such as 31 June or 25:00.
func buildTime(year, month, day, hour, minute, second int, loc *time.Location) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidCalendarValue, year, month, day)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return time.Time{}, fmt.Errorf("%w: %02d:%02d:%02d", ErrInvalidCalendarValue, hour, minute, second)
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, loc)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidCalendarValue, year, month, day)
	}
	return t, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
