package database

import (
	"time"

	"github.com/lysyi3m/event-comb/app/event"
)

type Source struct {
	Name          string // Configuration identifier derived from filename
	Organisation  string
	URL           string
	LastFetchedAt *time.Time
	NextFetchAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Event struct {
	ID           int64
	SourceName   string
	Organisation string
	Title        string
	RawDatum     string // Date text as published by the source
	Datum        string // Canonical form, or RawDatum when it could not be normalized
	StartDatum   string
	EndDatum     string
	Location     string
	Description  string
	Link         string
	ContentHash  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Record converts a stored row back into an exportable event record.
func (e Event) Record() event.Event {
	return event.Event{
		Organisation: e.Organisation,
		Title:        e.Title,
		Datum:        e.Datum,
		Location:     e.Location,
		Description:  e.Description,
		Link:         e.Link,
	}
}

// EventStats counts stored events by normalization outcome.
type EventStats struct {
	Total      int
	Normalized int
	Unchanged  int
	Empty      int
}
