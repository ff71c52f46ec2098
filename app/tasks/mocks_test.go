package tasks

import (
	"fmt"
	"sync"
	"time"

	"github.com/lysyi3m/event-comb/app/database"
)

type mockSourceRepo struct {
	mu      sync.Mutex
	sources map[string]*database.Source
	upserts int
}

func newMockSourceRepo() *mockSourceRepo {
	return &mockSourceRepo{sources: make(map[string]*database.Source)}
}

func (m *mockSourceRepo) GetSource(sourceName string) (*database.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	source, ok := m.sources[sourceName]
	if !ok {
		return nil, fmt.Errorf("source %s: %w", sourceName, database.ErrNotFound)
	}
	copied := *source
	return &copied, nil
}

func (m *mockSourceRepo) GetSources() ([]database.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sources []database.Source
	for _, source := range m.sources {
		sources = append(sources, *source)
	}
	return sources, nil
}

func (m *mockSourceRepo) GetSourceCount() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sources), nil
}

func (m *mockSourceRepo) UpsertSource(sourceName, organisation, sourceURL string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.upserts++
	existing, ok := m.sources[sourceName]
	if ok {
		changed := existing.URL != sourceURL
		existing.Organisation = organisation
		existing.URL = sourceURL
		return changed, nil
	}

	m.sources[sourceName] = &database.Source{Name: sourceName, Organisation: organisation, URL: sourceURL}
	return false, nil
}

func (m *mockSourceRepo) UpdateFetchTimes(sourceName string, fetchedAt time.Time, nextFetch time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	source, ok := m.sources[sourceName]
	if !ok {
		return fmt.Errorf("source %s: %w", sourceName, database.ErrNotFound)
	}
	source.LastFetchedAt = &fetchedAt
	source.NextFetchAt = &nextFetch
	return nil
}

func (m *mockSourceRepo) upsertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upserts
}

type mockEventRepo struct {
	mu      sync.Mutex
	events  []database.Event
	updates int
}

func (m *mockEventRepo) ListEvents(organisation string, limit int) ([]database.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]database.Event(nil), m.events...), nil
}

func (m *mockEventRepo) GetSourceEvents(sourceName string) ([]database.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var events []database.Event
	for _, ev := range m.events {
		if ev.SourceName == sourceName {
			events = append(events, ev)
		}
	}
	return events, nil
}

func (m *mockEventRepo) GetEventCount(sourceName string) (int, error) {
	events, _ := m.GetSourceEvents(sourceName)
	return len(events), nil
}

func (m *mockEventRepo) GetEventStats() (database.EventStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return database.EventStats{Total: len(m.events)}, nil
}

func (m *mockEventRepo) CheckDuplicate(contentHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ev := range m.events {
		if ev.ContentHash == contentHash {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEventRepo) UpsertEvent(sourceName string, ev database.NewEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, database.Event{
		ID:           int64(len(m.events) + 1),
		SourceName:   sourceName,
		Organisation: ev.Event.Organisation,
		Title:        ev.Event.Title,
		RawDatum:     ev.RawDatum,
		Datum:        ev.Event.Datum,
		Location:     ev.Event.Location,
		Description:  ev.Event.Description,
		Link:         ev.Event.Link,
		ContentHash:  ev.ContentHash,
	})
	return nil
}

func (m *mockEventRepo) UpdateDatum(eventID int64, datum string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.events {
		if m.events[i].ID == eventID {
			m.events[i].Datum = datum
			m.updates++
			return nil
		}
	}
	return fmt.Errorf("event %d: %w", eventID, database.ErrNotFound)
}

type stubExtractor struct {
	text string
}

func (s stubExtractor) Run(data []byte, pageURL string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}
	return s.text, nil
}
