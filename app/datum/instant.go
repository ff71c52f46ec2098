package datum

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	yearPresent   = regexp.MustCompile(`\b\d{4}\b`)
	germanDayForm = regexp.MustCompile(`(?i)^\d{1,2}\.\s*[a-z]`)
	letterRuns    = regexp.MustCompile(`\p{L}+`)

	dayMonthPattern     = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.?$`)
	dayMonthYearPattern = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)
	dayMonthNamePattern = regexp.MustCompile(`(?i)^(\d{1,2})\.\s*(` + monthAlternation + `)\.?(?:\s+(\d{4}))?$`)
	listingPattern      = regexp.MustCompile(`(?i)^(` + monthAlternation + `)\.?\s+(\d{1,2}),?\s+(\d{4})\s+(\d{1,2}):(\d{2})\s*(am|pm)$`)

	trailingYear       = regexp.MustCompile(`\s+(\d{4})$`)
	manualNumeric      = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.?$`)
	manualNamedPattern = regexp.MustCompile(`(?i)^(\d{1,2})\.?\s*([a-z]+)\.?$`)
)

// cluster is one side of a range, or a whole single date, ready for the
// strategy cascade.
type cluster struct {
	text      string
	completed string
	dayFirst  bool
	year      int
	loc       *time.Location
}

type strategy struct {
	name string
	run  func(c cluster) (Instant, error)
}

func (e *Engine) cascade() []strategy {
	return []strategy{
		{name: "structured", run: e.parseStructured},
		{name: "scanner", run: e.parseScanned},
		{name: "dateparse", run: e.parseLibrary},
		{name: "manual", run: e.parseManual},
	}
}

// ParseInstant resolves one date cluster. The first strategy that succeeds
// wins; each failure is logged at debug level.
func (e *Engine) ParseInstant(text string, hint Hint) (Instant, error) {
	c := e.newCluster(text, hint)
	if c.text == "" {
		return Instant{}, fmt.Errorf("%w: empty cluster", ErrUnparseable)
	}

	for _, s := range e.strategies {
		inst, err := s.run(c)
		if err == nil {
			e.logger.Debug("Date cluster resolved", "strategy", s.name, "text", c.text, "result", inst.String())
			return inst, nil
		}
		e.logger.Debug("Date strategy failed", "strategy", s.name, "text", c.text, "error", err)
	}

	return Instant{}, fmt.Errorf("%w: %q", ErrUnparseable, text)
}

func (e *Engine) newCluster(text string, hint Hint) cluster {
	text = StripWeekday(collapseSpaces(text))
	c := cluster{
		text:      text,
		completed: text,
		dayFirst:  !hint.MonthFirst || germanDayForm.MatchString(text),
		year:      e.referenceYear,
		loc:       e.naive,
	}
	if hint.Location != nil {
		c.loc = hint.Location
	}
	if !yearPresent.MatchString(text) {
		c.completed = fmt.Sprintf("%s %d", text, e.referenceYear)
	}
	return c
}

func (e *Engine) parseStructured(c cluster) (Instant, error) {
	if g := dayMonthPattern.FindStringSubmatch(c.text); g != nil {
		return e.dateOnly(c.year, atoi(g[2]), atoi(g[1]), c.loc)
	}
	if g := dayMonthYearPattern.FindStringSubmatch(c.text); g != nil {
		return e.dateOnly(atoi(g[3]), atoi(g[2]), atoi(g[1]), c.loc)
	}
	if g := dayMonthNamePattern.FindStringSubmatch(c.text); g != nil {
		m, _ := monthByName(g[2])
		year := c.year
		if g[3] != "" {
			year = atoi(g[3])
		}
		return e.dateOnly(year, int(m), atoi(g[1]), c.loc)
	}
	if g := listingPattern.FindStringSubmatch(c.text); g != nil {
		m, _ := monthByName(g[1])
		hour := to24(atoi(g[4]), strings.ToLower(g[6]))
		t, err := buildTime(atoi(g[3]), int(m), atoi(g[2]), hour, atoi(g[5]), 0, c.loc)
		if err != nil {
			return Instant{}, err
		}
		return newInstant(t, false), nil
	}
	return Instant{}, fmt.Errorf("%w: no structured pattern matched", ErrUnparseable)
}

func (e *Engine) parseScanned(c cluster) (Instant, error) {
	return scan(c.completed, c.dayFirst, e.zones, c.loc, c.year)
}

// parseLibrary hands the cluster to dateparse, but only when every word in it
// is date vocabulary. dateparse guesses freely on prose.
func (e *Engine) parseLibrary(c cluster) (Instant, error) {
	if !e.onlyDateWords(c.completed) {
		return Instant{}, fmt.Errorf("%w: text contains non-date words", ErrUnparseable)
	}

	t, err := dateparse.ParseIn(c.completed, c.loc, dateparse.PreferMonthFirst(!c.dayFirst))
	if err != nil {
		return Instant{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	if t.Year() == 0 {
		t = t.AddDate(c.year, 0, 0)
	}
	return newInstant(t, t.Location() != c.loc), nil
}

func (e *Engine) parseManual(c cluster) (Instant, error) {
	text := c.completed
	year := c.year
	if g := trailingYear.FindStringSubmatch(text); g != nil {
		year = atoi(g[1])
		text = strings.TrimSpace(strings.TrimSuffix(text, g[0]))
	}

	if g := manualNumeric.FindStringSubmatch(text); g != nil {
		return e.dateOnly(year, atoi(g[2]), atoi(g[1]), c.loc)
	}
	if g := manualNamedPattern.FindStringSubmatch(text); g != nil {
		if m, ok := monthByName(g[2]); ok {
			return e.dateOnly(year, int(m), atoi(g[1]), c.loc)
		}
	}
	return Instant{}, fmt.Errorf("%w: no manual pattern matched", ErrUnparseable)
}

func (e *Engine) dateOnly(year, month, day int, loc *time.Location) (Instant, error) {
	t, err := buildTime(year, month, day, 0, 0, 0, loc)
	if err != nil {
		return Instant{}, err
	}
	return Instant{Time: t}, nil
}

func (e *Engine) onlyDateWords(text string) bool {
	for _, word := range letterRuns.FindAllString(text, -1) {
		w := strings.ToLower(word)
		if _, ok := monthByName(w); ok {
			continue
		}
		if weekdayWords[w] || fillerWords[w] {
			continue
		}
		if _, ok := e.zones[strings.ToUpper(w)]; ok {
			continue
		}
		return false
	}
	return true
}

func to24(hour int, meridiem string) int {
	switch {
	case hour > 12:
		return hour
	case meridiem == "pm" && hour < 12:
		return hour + 12
	case meridiem == "am" && hour == 12:
		return 0
	}
	return hour
}
