package datum

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Engine turns free-form German/English event date texts into canonical
// date strings. An Engine is immutable after New and safe for concurrent use.
type Engine struct {
	locale        *Locale
	zones         map[string]*time.Location
	naive         *time.Location
	referenceYear int
	logger        *slog.Logger
	strategies    []strategy
}

func New(opts Options) *Engine {
	e := &Engine{
		locale:        NewLocale(opts.Months),
		zones:         copyZones(opts.Zones),
		naive:         opts.NaiveLocation,
		referenceYear: opts.ReferenceYear,
		logger:        opts.Logger,
	}
	if e.naive == nil {
		e.naive = time.UTC
	}
	if e.referenceYear == 0 {
		e.referenceYear = time.Now().Year()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	e.strategies = e.cascade()
	return e
}

// WithReferenceYear returns a copy of the engine that fills missing years
// with year.
func (e *Engine) WithReferenceYear(year int) *Engine {
	c := *e
	c.referenceYear = year
	c.strategies = c.cascade()
	return &c
}

func (e *Engine) ReferenceYear() int {
	return e.referenceYear
}

// Parse normalizes, classifies and resolves raw into a Value.
func (e *Engine) Parse(raw string, hint Hint) (Value, error) {
	text := e.locale.Normalize(raw)
	if text == "" {
		return Value{}, fmt.Errorf("%w: empty text", ErrUnparseable)
	}

	shape := Classify(text)
	switch shape.Kind {
	case ShapeCanonical:
		return e.parseCanonical(shape.Text)
	case ShapeTemplate:
		return e.resolveTemplate(shape.Template, hint)
	case ShapeAt:
		return e.ResolveRange(shape.Date+" "+shape.Start, shape.Date+" "+shape.End, hint)
	case ShapeHyphen:
		// A failed range is never re-read as one instant.
		return e.ResolveRange(shape.Start, shape.End, hint)
	}

	inst, err := e.ParseInstant(shape.Text, hint)
	if err != nil {
		return Value{}, err
	}
	return InstantValue(inst), nil
}

// Normalize returns the canonical form of raw, or raw itself when neither
// the cascade nor the fallback parser can make sense of it. It never panics.
func (e *Engine) Normalize(raw string, hint Hint) (out string) {
	if strings.TrimSpace(raw) == "" {
		return raw
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Date normalization panicked", "text", raw, "organisation", hint.Organisation, "panic", r)
			out = raw
		}
	}()

	v, err := e.Parse(raw, hint)
	if err == nil {
		return v.String()
	}

	if s, ok := e.Fallback(raw); ok {
		e.logger.Debug("Date resolved by fallback", "text", raw, "result", s, "organisation", hint.Organisation)
		return s
	}

	e.logger.Debug("Date text left unchanged", "text", raw, "organisation", hint.Organisation, "error", err)
	return raw
}

func (e *Engine) parseCanonical(text string) (Value, error) {
	start, end, isRange := strings.Cut(text, rangeSeparator)

	s, err := e.canonicalInstant(start)
	if err != nil {
		return Value{}, err
	}
	if !isRange {
		return InstantValue(s), nil
	}

	en, err := e.canonicalInstant(end)
	if err != nil {
		return Value{}, err
	}
	return RangeValue(s, en), nil
}

func (e *Engine) canonicalInstant(text string) (Instant, error) {
	if len(text) == len(dateLayout) {
		t, err := time.ParseInLocation(dateLayout, text, e.naive)
		if err != nil {
			return Instant{}, fmt.Errorf("%w: %v", ErrInvalidCalendarValue, err)
		}
		return Instant{Time: t}, nil
	}

	t, err := time.Parse(time.RFC3339Nano, text)
	if err != nil {
		return Instant{}, fmt.Errorf("%w: %v", ErrInvalidCalendarValue, err)
	}
	return Instant{Time: t, HasTime: true, Aware: true}, nil
}
