package collect

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lysyi3m/event-comb/app/event"
	"github.com/lysyi3m/event-comb/app/source"
)

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run drops the events rejected by any filter and returns the rest in order.
func (f *Filterer) Run(events []event.Event, filters []source.ConfigFilter) []event.Event {
	if len(filters) == 0 {
		return events
	}

	kept := make([]event.Event, 0, len(events))
	for _, ev := range events {
		if reason, rejected := f.applyFilters(ev, filters); rejected {
			slog.Debug("Event filtered", "organisation", ev.Organisation, "title", ev.Title, "reason", reason)
			continue
		}
		kept = append(kept, ev)
	}

	return kept
}

func (f *Filterer) applyFilters(ev event.Event, filters []source.ConfigFilter) (string, bool) {
	for _, filter := range filters {
		value := f.getFieldValue(ev, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return fmt.Sprintf("excluded by %s filter: contains '%s'", filter.Field, exclude), true
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return fmt.Sprintf("excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes), true
			}
		}
	}

	return "", false
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(ev event.Event, field string) string {
	switch field {
	case "title":
		return ev.Title
	case "description":
		return ev.Description
	case "location":
		return ev.Location
	case "link":
		return ev.Link
	case "datum":
		return ev.Datum
	default:
		return ""
	}
}
