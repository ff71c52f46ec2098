package database

import (
	"time"

	"github.com/lysyi3m/event-comb/app/event"
)

// NewEvent is a collected record together with the text it was normalized from.
type NewEvent struct {
	Event       event.Event
	RawDatum    string
	ContentHash string
}

type SourceRepository interface {
	GetSource(sourceName string) (*Source, error)
	GetSources() ([]Source, error)
	GetSourceCount() (int, error)

	UpsertSource(sourceName, organisation, sourceURL string) (bool, error)
	UpdateFetchTimes(sourceName string, fetchedAt time.Time, nextFetch time.Time) error
}

type EventRepository interface {
	ListEvents(organisation string, limit int) ([]Event, error)
	GetSourceEvents(sourceName string) ([]Event, error)
	GetEventCount(sourceName string) (int, error)
	GetEventStats() (EventStats, error)

	CheckDuplicate(contentHash string) (bool, error)
	UpsertEvent(sourceName string, ev NewEvent) error
	UpdateDatum(eventID int64, datum string) error
}
