package datum

import (
	"regexp"
	"strings"
)

type ShapeKind int

const (
	ShapeSingle ShapeKind = iota
	ShapeCanonical
	ShapeTemplate
	ShapeAt
	ShapeHyphen
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCanonical:
		return "canonical"
	case ShapeTemplate:
		return "template"
	case ShapeAt:
		return "at"
	case ShapeHyphen:
		return "hyphen"
	default:
		return "single"
	}
}

// Shape is the classifier's verdict on one normalized date text.
//
//	ShapeSingle, ShapeCanonical: Text
//	ShapeHyphen:                 Start, End
//	ShapeAt:                     Date, Start, End
//	ShapeTemplate:               Template
type Shape struct {
	Kind     ShapeKind
	Text     string
	Date     string
	Start    string
	End      string
	Template *TemplateMatch
}

// TemplateMatch holds the groups of the "Weekday, Month Day · H - H:MMpm TZ"
// listing format. Empty strings mean the group was absent.
type TemplateMatch struct {
	Month       string
	Day         string
	Year        string
	StartHour   string
	StartMinute string
	StartMer    string
	EndHour     string
	EndMinute   string
	EndMer      string
	Zone        string
}

const (
	weekdayAlternation = `monday|tuesday|wednesday|thursday|friday|saturday|sunday|` +
		`mon|tues|tue|wed|thurs|thur|thu|fri|sat|sun|` +
		`montag|dienstag|mittwoch|donnerstag|freitag|samstag|sonnabend|sonntag|` +
		`mo|di|mi|do|fr|sa|so`
	monthAlternation = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|` +
		`sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`
	offsetPlaceholder = "\ue000"
)

var (
	canonicalPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(?:T\d{2}:\d{2}:\d{2}(?:\.\d{1,9})?Z)?$`)
	weekdayPrefix    = regexp.MustCompile(`(?i)^(?:` + weekdayAlternation + `)\.?\s*,\s*`)

	rangeTemplate = regexp.MustCompile(`(?i)^(?:starts on\s+)?(?:` + weekdayAlternation + `)\.?,\s*` +
		`(` + monthAlternation + `)\.?\s+(\d{1,2})(?:,?\s+(\d{4}))?\s+` +
		`(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\s*-\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)` +
		`(?:\s*([a-z]{2,5}))?$`)
	startsTemplate = regexp.MustCompile(`(?i)^starts on\s+(?:` + weekdayAlternation + `)\.?,\s*` +
		`(` + monthAlternation + `)\.?\s+(\d{1,2})(?:,?\s+(\d{4}))?\s+` +
		`(\d{1,2})(?::(\d{2}))?\s*(am|pm)` +
		`(?:\s*([a-z]{2,5}))?$`)

	rangeSplit = regexp.MustCompile(`\s*-\s*`)

	// hyphens that belong to a date or a zone offset rather than a range
	isoDateHyphens   = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	dmyDateHyphens   = regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})-(\d{4})\b`)
	namedOffset      = regexp.MustCompile(`(?i)\b(utc|gmt)\s*-\s*(\d)`)
	isoOffset        = regexp.MustCompile(`(T\d{2}:\d{2}(?::\d{2})?(?:\.\d+)?)-(\d{2}:?\d{2})\b`)
	numericOffset    = regexp.MustCompile(`(\d:\d{2}(?::\d{2})?)\s+-(\d{4})\b`)
	placeholderSwaps = strings.NewReplacer(offsetPlaceholder, "-")
)

// Classify decides which input shape a normalized date text has. The first
// matching rule wins: canonical, template, "@" cluster, single hyphen, single.
func Classify(text string) Shape {
	text = strings.TrimSpace(text)

	if isCanonical(text) {
		return Shape{Kind: ShapeCanonical, Text: text}
	}

	if m := matchTemplate(text); m != nil {
		return Shape{Kind: ShapeTemplate, Text: text, Template: m}
	}

	if date, rest, ok := strings.Cut(text, "@"); ok {
		date = StripWeekday(strings.TrimSpace(date))
		times := splitRange(rest)
		if len(times) == 2 {
			return Shape{Kind: ShapeAt, Text: text, Date: date, Start: times[0], End: times[1]}
		}
		return Shape{Kind: ShapeSingle, Text: collapseSpaces(date + " " + rest)}
	}

	if parts := splitRange(text); len(parts) == 2 {
		return Shape{
			Kind:  ShapeHyphen,
			Text:  text,
			Start: StripWeekday(parts[0]),
			End:   StripWeekday(parts[1]),
		}
	}

	return Shape{Kind: ShapeSingle, Text: StripWeekday(text)}
}

// StripWeekday removes a leading "Weekday," prefix.
func StripWeekday(text string) string {
	return strings.TrimSpace(weekdayPrefix.ReplaceAllString(strings.TrimSpace(text), ""))
}

func isCanonical(text string) bool {
	if canonicalPattern.MatchString(text) {
		return true
	}
	start, end, ok := strings.Cut(text, rangeSeparator)
	return ok && canonicalPattern.MatchString(start) && canonicalPattern.MatchString(end)
}

func matchTemplate(text string) *TemplateMatch {
	if g := rangeTemplate.FindStringSubmatch(text); g != nil {
		return &TemplateMatch{
			Month: g[1], Day: g[2], Year: g[3],
			StartHour: g[4], StartMinute: g[5], StartMer: g[6],
			EndHour: g[7], EndMinute: g[8], EndMer: g[9],
			Zone: g[10],
		}
	}
	if g := startsTemplate.FindStringSubmatch(text); g != nil {
		return &TemplateMatch{
			Month: g[1], Day: g[2], Year: g[3],
			StartHour: g[4], StartMinute: g[5], StartMer: g[6],
			Zone: g[7],
		}
	}
	return nil
}

// splitRange splits on range hyphens only, keeping hyphens of dates and
// zone offsets intact. Empty sides yield no split.
func splitRange(text string) []string {
	protected := isoDateHyphens.ReplaceAllString(text, "${1}"+offsetPlaceholder+"${2}"+offsetPlaceholder+"${3}")
	protected = dmyDateHyphens.ReplaceAllString(protected, "${1}"+offsetPlaceholder+"${2}"+offsetPlaceholder+"${3}")
	protected = namedOffset.ReplaceAllString(protected, "${1}"+offsetPlaceholder+"${2}")
	protected = isoOffset.ReplaceAllString(protected, "${1}"+offsetPlaceholder+"${2}")
	protected = numericOffset.ReplaceAllString(protected, "${1} "+offsetPlaceholder+"${2}")

	parts := rangeSplit.Split(strings.TrimSpace(protected), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(placeholderSwaps.Replace(p))
		if p == "" {
			return []string{placeholderSwaps.Replace(strings.TrimSpace(protected))}
		}
		out = append(out, p)
	}
	return out
}
