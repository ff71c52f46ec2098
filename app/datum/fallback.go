package datum

import (
	"regexp"
	"time"

	"golang.org/x/text/unicode/norm"
)

const (
	dashClass = `[-\x{2012}-\x{2014}\x{2212}]`

	// leftEdge keeps a pattern from starting inside another number, e.g. on
	// the month of "31.4." or the last digits of "2025".
	leftEdge = `(?:^|[^\d.])`
)

var (
	fallbackDayRange   = regexp.MustCompile(leftEdge + `(\d{1,2})\.?\s*` + dashClass + `\s*(\d{1,2})\.(\d{1,2})\b\.?(?:\s*(\d{4})\b)?`)
	fallbackNamedRange = regexp.MustCompile(leftEdge + `(\d{1,2})\.?\s*(\p{L}+)\.?\s*` + dashClass + `\s*(\d{1,2})\.?\s*(\p{L}+)`)
	fallbackNumeric    = regexp.MustCompile(leftEdge + `(\d{1,2})\.(\d{1,2})\b\.?(?:\s*(\d{4})\b)?`)
	fallbackNamed      = regexp.MustCompile(leftEdge + `(\d{1,2})\.?\s*(\p{L}+)`)
)

// Fallback searches the raw text for a recognisable day, day range or
// "DD Mon" fragment anywhere inside it. It is the last resort after the
// main cascade gave up; ok is false when nothing was found.
//
// Each pattern only looks at its first candidate. An invalid calendar value
// there fails the pattern instead of moving on to a later fragment.
func (e *Engine) Fallback(raw string) (string, bool) {
	text := norm.NFC.String(raw)

	if g := fallbackDayRange.FindStringSubmatch(text); g != nil {
		year := e.referenceYear
		if g[4] != "" {
			year = atoi(g[4])
		}
		if v, ok := e.dateRange(year, atoi(g[3]), atoi(g[1]), atoi(g[3]), atoi(g[2])); ok {
			return v.String(), true
		}
	}

	for _, g := range fallbackNamedRange.FindAllStringSubmatch(text, -1) {
		startMonth, ok1 := e.anyMonth(g[2])
		endMonth, ok2 := e.anyMonth(g[4])
		if !ok1 || !ok2 {
			continue
		}
		if v, ok := e.dateRange(e.referenceYear, int(startMonth), atoi(g[1]), int(endMonth), atoi(g[3])); ok {
			return v.String(), true
		}
		break
	}

	if g := fallbackNumeric.FindStringSubmatch(text); g != nil {
		year := e.referenceYear
		if g[3] != "" {
			year = atoi(g[3])
		}
		if inst, err := e.dateOnly(year, atoi(g[2]), atoi(g[1]), e.naive); err == nil {
			return inst.String(), true
		}
	}

	for _, g := range fallbackNamed.FindAllStringSubmatch(text, -1) {
		month, ok := e.anyMonth(g[2])
		if !ok {
			continue
		}
		if inst, err := e.dateOnly(e.referenceYear, int(month), atoi(g[1]), e.naive); err == nil {
			return inst.String(), true
		}
		break
	}

	return "", false
}

func (e *Engine) dateRange(year, startMonth, startDay, endMonth, endDay int) (Value, bool) {
	start, err := e.dateOnly(year, startMonth, startDay, e.naive)
	if err != nil {
		return Value{}, false
	}
	end, err := e.dateOnly(year, endMonth, endDay, e.naive)
	if err != nil {
		return Value{}, false
	}
	return RangeValue(start, end), true
}

// anyMonth accepts English month names and the locale's German words.
func (e *Engine) anyMonth(word string) (time.Month, bool) {
	if m, ok := monthByName(word); ok {
		return m, true
	}
	if abbr, ok := e.locale.MonthAbbrev(word); ok {
		return monthByName(abbr)
	}
	return 0, false
}
