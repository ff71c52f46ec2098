package datum

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	meridiemMarker = regexp.MustCompile(`(?i)(?:^|[^a-z])(am|pm)\b`)
	clockMarker    = regexp.MustCompile(`\d{1,2}:\d{2}`)
	trailingHour   = regexp.MustCompile(`^.*\d.*\s(\d{1,2})$`)
	bareDay        = regexp.MustCompile(`^(\d{1,2})\.?$`)
	endDayMonth    = regexp.MustCompile(`\b\d{1,2}\.(\d{1,2})\b`)
	endDayMonthStr = regexp.MustCompile(`(?i)\b\d{1,2}\.?\s*(` + monthAlternation + `)\b`)
	bareTime       = regexp.MustCompile(`(?i)^\d{1,2}(?::\d{2}\s*(?:am|pm)?|\s*(?:am|pm))(?:\s+[a-z]{2,5})?$`)
	bareHour       = regexp.MustCompile(`^\d{1,2}$`)
	fourDigitYear  = regexp.MustCompile(`\b(\d{4})\b`)
)

// ResolveRange parses both sides of a range, letting the start inherit the
// meridiem, month, year and zone of the end where it lacks them, and letting
// a bare-time end inherit the start's date. An end before the start is kept.
func (e *Engine) ResolveRange(start, end string, hint Hint) (Value, error) {
	start, end = StripWeekday(start), StripWeekday(end)
	start, end = e.inheritBoundaries(start, end)

	s, err := e.ParseInstant(start, hint)
	if err != nil {
		return Value{}, fmt.Errorf("range start: %w", err)
	}

	switch {
	case bareTime.MatchString(end):
		end = shortDate(s.Time) + " " + end
	case bareDay.MatchString(end):
		g := bareDay.FindStringSubmatch(end)
		end = fmt.Sprintf("%s %s %d", g[1], monthAbbr(s.Time), s.Time.Year())
	}

	en, err := e.ParseInstant(end, hint)
	if err != nil {
		return Value{}, fmt.Errorf("range end: %w", err)
	}

	if en.Time.Before(s.Time) {
		e.logger.Debug("Range end precedes start", "start", s.String(), "end", en.String(), "organisation", hint.Organisation)
	}
	return RangeValue(s, en), nil
}

func (e *Engine) inheritBoundaries(start, end string) (string, string) {
	// "12.06.2025, 15 - 17:00": the bare start hour becomes 15:00.
	if clockMarker.MatchString(end) && !clockMarker.MatchString(start) {
		if g := trailingHour.FindStringSubmatchIndex(start); g != nil && atoi(start[g[2]:g[3]]) <= 23 {
			start = start[:g[3]] + ":00"
		}
	}

	if mer := meridiemOf(end); mer != "" && meridiemOf(start) == "" && hasClock(start) {
		start = start + " " + mer
	}

	if g := bareDay.FindStringSubmatch(start); g != nil {
		if m := endDayMonth.FindStringSubmatch(end); m != nil {
			start = g[1] + "." + m[1]
		} else if m := endDayMonthStr.FindStringSubmatch(end); m != nil {
			start = g[1] + ". " + strings.ToLower(m[1])
		}
	}

	if !bareTime.MatchString(start) && !fourDigitYear.MatchString(start) {
		if y := fourDigitYear.FindString(end); y != "" {
			start = start + " " + y
		}
	}

	startZone, endZone := e.zoneOf(start), e.zoneOf(end)
	switch {
	case endZone != "" && startZone == "":
		start = start + " " + endZone
	case startZone != "" && endZone == "":
		end = end + " " + startZone
	}

	return start, end
}

func (e *Engine) zoneOf(text string) string {
	for _, field := range strings.Fields(text) {
		tok := strings.ToUpper(strings.Trim(field, ".,()"))
		if _, ok := e.zones[tok]; ok {
			return tok
		}
	}
	return ""
}

func meridiemOf(text string) string {
	if g := meridiemMarker.FindStringSubmatch(text); g != nil {
		return strings.ToLower(g[1])
	}
	return ""
}

func hasClock(text string) bool {
	return clockMarker.MatchString(text) || trailingHour.MatchString(text) || bareHour.MatchString(text)
}

// shortDate renders a start date as "02 jan 2006" so a bare end time can
// be prefixed with it.
func shortDate(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), monthAbbr(t), t.Year())
}

func monthAbbr(t time.Time) string {
	return strings.ToLower(t.Month().String()[:3])
}

// resolveTemplate builds the value of a "Weekday, Month Day · H - H:MMpm TZ"
// listing. A missing start meridiem is taken from the end.
func (e *Engine) resolveTemplate(m *TemplateMatch, hint Hint) (Value, error) {
	month, ok := monthByName(m.Month)
	if !ok {
		return Value{}, fmt.Errorf("%w: month %q", ErrUnparseable, m.Month)
	}

	year := e.referenceYear
	if m.Year != "" {
		year = atoi(m.Year)
	}

	loc, aware := e.naive, false
	if hint.Location != nil {
		loc = hint.Location
	}
	if m.Zone != "" {
		zone, ok := e.zones[strings.ToUpper(m.Zone)]
		if !ok {
			return Value{}, fmt.Errorf("%w: unknown zone %q", ErrUnparseable, m.Zone)
		}
		loc, aware = zone, true
	}

	startMer := strings.ToLower(m.StartMer)
	if startMer == "" {
		startMer = strings.ToLower(m.EndMer)
	}

	st, err := buildTime(year, int(month), atoi(m.Day), to24(atoi(m.StartHour), startMer), atoi(m.StartMinute), 0, loc)
	if err != nil {
		return Value{}, fmt.Errorf("%w: template start: %w", ErrUnparseable, err)
	}
	start := newInstant(st, aware)
	if m.EndHour == "" {
		return InstantValue(start), nil
	}

	et, err := buildTime(year, int(month), atoi(m.Day), to24(atoi(m.EndHour), strings.ToLower(m.EndMer)), atoi(m.EndMinute), 0, loc)
	if err != nil {
		return Value{}, fmt.Errorf("%w: template end: %w", ErrUnparseable, err)
	}
	return RangeValue(start, newInstant(et, aware)), nil
}
