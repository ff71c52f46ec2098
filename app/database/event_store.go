package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lysyi3m/event-comb/app/event"
)

var _ EventRepository = (*EventStore)(nil)

type EventStore struct {
	db *DB
}

func NewEventStore(db *DB) *EventStore {
	return &EventStore{db: db}
}

const eventColumns = `id, source_name, organisation, title, raw_datum, datum, start_datum, end_datum,
	location, description, link, content_hash, created_at, updated_at`

// CheckDuplicate reports whether an event with the given content hash is already stored.
func (r *EventStore) CheckDuplicate(contentHash string) (bool, error) {
	var id int64
	err := r.db.QueryRow(`SELECT id FROM events WHERE content_hash = ? LIMIT 1`, contentHash).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate: %w", err)
	}
	return true, nil
}

// UpsertEvent inserts the event or refreshes the mutable columns of the row
// sharing its content hash.
func (r *EventStore) UpsertEvent(sourceName string, ev NewEvent) error {
	start, end := event.Split(ev.Event.Datum)
	now := time.Now().UTC()

	_, err := r.db.Exec(`
		INSERT INTO events (
			source_name, organisation, title, raw_datum, datum, start_datum, end_datum,
			location, description, link, content_hash, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (content_hash) DO UPDATE SET
			datum = excluded.datum,
			start_datum = excluded.start_datum,
			end_datum = excluded.end_datum,
			description = excluded.description,
			link = excluded.link,
			updated_at = excluded.updated_at
	`, sourceName, ev.Event.Organisation, ev.Event.Title, ev.RawDatum, ev.Event.Datum, start, end,
		ev.Event.Location, ev.Event.Description, ev.Event.Link, ev.ContentHash, now, now)
	if err != nil {
		return fmt.Errorf("failed to store event: %w", err)
	}

	return nil
}

// UpdateDatum replaces the canonical date of a stored event, keeping its raw text.
func (r *EventStore) UpdateDatum(eventID int64, datum string) error {
	start, end := event.Split(datum)

	result, err := r.db.Exec(`
		UPDATE events
		SET datum = ?, start_datum = ?, end_datum = ?, updated_at = ?
		WHERE id = ?
	`, datum, start, end, time.Now().UTC(), eventID)
	if err != nil {
		return fmt.Errorf("failed to update datum: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("event %d: %w", eventID, ErrNotFound)
	}

	return nil
}

// ListEvents returns stored events ordered by start date, optionally limited
// to one organisation. A non-positive limit returns every row.
func (r *EventStore) ListEvents(organisation string, limit int) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	var args []any

	if organisation != "" {
		query += ` WHERE organisation = ? COLLATE NOCASE`
		args = append(args, organisation)
	}
	query += ` ORDER BY start_datum, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	return r.queryEvents(query, args...)
}

func (r *EventStore) GetSourceEvents(sourceName string) ([]Event, error) {
	return r.queryEvents(`SELECT `+eventColumns+` FROM events WHERE source_name = ? ORDER BY id`, sourceName)
}

func (r *EventStore) GetEventCount(sourceName string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM events WHERE source_name = ?`, sourceName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get event count: %w", err)
	}
	return count, nil
}

func (r *EventStore) GetEventStats() (EventStats, error) {
	var stats EventStats
	err := r.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN raw_datum <> '' AND datum <> raw_datum THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN raw_datum <> '' AND datum = raw_datum THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN raw_datum = '' THEN 1 ELSE 0 END), 0)
		FROM events
	`).Scan(&stats.Total, &stats.Normalized, &stats.Unchanged, &stats.Empty)
	if err != nil {
		return EventStats{}, fmt.Errorf("failed to get event stats: %w", err)
	}
	return stats, nil
}

func (r *EventStore) queryEvents(query string, args ...any) ([]Event, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		err := rows.Scan(
			&ev.ID, &ev.SourceName, &ev.Organisation, &ev.Title, &ev.RawDatum, &ev.Datum,
			&ev.StartDatum, &ev.EndDatum, &ev.Location, &ev.Description, &ev.Link,
			&ev.ContentHash, &ev.CreatedAt, &ev.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}
