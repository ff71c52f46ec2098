package datum

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	dashReplacer = strings.NewReplacer(
		"\u2012", "-", // figure dash
		"\u2013", "-", // en dash
		"\u2014", "-", // em dash
		"\u2212", "-", // minus sign
		"\ufffd", "-", // mis-decoded dash from scraped pages
	)
	clockUhrPattern    = regexp.MustCompile(`(?i)\b(\d{1,2})[.:](\d{2})\s*uhr\b`)
	hourUhrPattern     = regexp.MustCompile(`(?i)\b(\d{1,2})\s*uhr\b`)
	uhrPattern         = regexp.MustCompile(`(?i)\buhr\b`)
	bracketZonePattern = regexp.MustCompile(`(?i)\(\s*(CEST|CET|MESZ|MEZ)\s*\)`)
	bisPattern         = regexp.MustCompile(`(?i)\s+bis\s+`)
	trailingPeriod     = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\s|$)`)
	whitespace         = regexp.MustCompile(`\s+`)
)

// Locale rewrites decorative and German tokens into the vocabulary the
// parser understands. It is safe for concurrent use.
type Locale struct {
	months map[string]string
}

func NewLocale(months map[string]string) *Locale {
	return &Locale{months: copyMonths(months)}
}

func (l *Locale) Normalize(text string) string {
	s := norm.NFC.String(text)
	s = dashReplacer.Replace(s)
	s = clockUhrPattern.ReplaceAllString(s, "$1:$2")
	s = hourUhrPattern.ReplaceAllString(s, "$1:00")
	s = uhrPattern.ReplaceAllString(s, " ")
	s = bracketZonePattern.ReplaceAllString(s, " $1 ")
	s = bisPattern.ReplaceAllString(s, " - ")
	s = strings.ReplaceAll(s, "\u00b7", " ")
	s = collapseSpaces(s)
	s = trailingPeriod.ReplaceAllString(s, "$1.$2$3")
	s = l.replaceMonths(s)
	return collapseSpaces(s)
}

// MonthAbbrev returns the English abbreviation for a German month word.
func (l *Locale) MonthAbbrev(word string) (string, bool) {
	abbr, ok := l.months[cases.Fold().String(strings.TrimSuffix(word, "."))]
	return abbr, ok
}

// replaceMonths only swaps whole letter runs, so "Mailand" or
// "Dezemberüberraschung" keep their month-like prefixes.
func (l *Locale) replaceMonths(s string) string {
	if len(l.months) == 0 {
		return s
	}
	return letterRuns.ReplaceAllStringFunc(s, func(word string) string {
		if abbr, ok := l.MonthAbbrev(word); ok {
			return abbr
		}
		return word
	})
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
