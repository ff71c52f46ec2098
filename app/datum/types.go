package datum

import (
	"errors"
	"log/slog"
	"time"
)

var (
	ErrUnparseable          = errors.New("unparseable date text")
	ErrInvalidCalendarValue = errors.New("invalid calendar value")
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05.000Z"
	rangeSeparator = " - "
)

// Instant is a resolved calendar timestamp. HasTime is false for date-only
// values; a wall clock of exactly midnight is treated as date-only.
type Instant struct {
	Time    time.Time
	HasTime bool
	Aware   bool
}

func newInstant(t time.Time, aware bool) Instant {
	return Instant{
		Time:    t,
		HasTime: t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0,
		Aware:   aware,
	}
}

func (i Instant) String() string {
	if !i.HasTime {
		return i.Time.Format(dateLayout)
	}
	return i.Time.UTC().Format(dateTimeLayout)
}

// Value is either a single instant or a range. End is nil for instants.
type Value struct {
	Start Instant
	End   *Instant
}

func InstantValue(i Instant) Value {
	return Value{Start: i}
}

func RangeValue(start, end Instant) Value {
	return Value{Start: start, End: &end}
}

func (v Value) IsRange() bool {
	return v.End != nil
}

func (v Value) String() string {
	if v.End == nil {
		return v.Start.String()
	}
	return v.Start.String() + rangeSeparator + v.End.String()
}

// Hint carries per-record parsing hints derived from the source organisation.
// A hint never turns a parseable input into a failure.
type Hint struct {
	Organisation string
	MonthFirst   bool
	Location     *time.Location
}

type Options struct {
	// ReferenceYear fills in missing years. Zero means the current year at New.
	ReferenceYear int
	// NaiveLocation is applied to clock times without a zone. Defaults to UTC.
	NaiveLocation *time.Location
	// Zones maps upper-case abbreviations to locations. Nil uses DefaultZones.
	Zones map[string]*time.Location
	// Months maps lower-case German month words to English abbreviations.
	// Nil uses DefaultMonths.
	Months map[string]string
	Logger *slog.Logger
}
