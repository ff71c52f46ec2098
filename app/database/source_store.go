package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var _ SourceRepository = (*SourceStore)(nil)

type SourceStore struct {
	db *DB
}

func NewSourceStore(db *DB) *SourceStore {
	return &SourceStore{db: db}
}

const sourceColumns = `name, organisation, url, last_fetched_at, next_fetch_at, created_at, updated_at`

// UpsertSource stores the configured source and reports whether its URL changed.
func (r *SourceStore) UpsertSource(sourceName, organisation, sourceURL string) (bool, error) {
	existing, err := r.GetSource(sourceName)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("failed to check existing source: %w", err)
	}

	now := time.Now().UTC()

	if existing != nil {
		_, err = r.db.Exec(`
			UPDATE sources
			SET organisation = ?, url = ?, updated_at = ?
			WHERE name = ?
		`, organisation, sourceURL, now, sourceName)
		if err != nil {
			return false, fmt.Errorf("failed to update source: %w", err)
		}
		return existing.URL != sourceURL, nil
	}

	_, err = r.db.Exec(`
		INSERT INTO sources (name, organisation, url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, sourceName, organisation, sourceURL, now, now)
	if err != nil {
		return false, fmt.Errorf("failed to insert source: %w", err)
	}

	return false, nil
}

func (r *SourceStore) UpdateFetchTimes(sourceName string, fetchedAt time.Time, nextFetch time.Time) error {
	result, err := r.db.Exec(`
		UPDATE sources
		SET last_fetched_at = ?, next_fetch_at = ?, updated_at = ?
		WHERE name = ?
	`, fetchedAt.UTC(), nextFetch.UTC(), time.Now().UTC(), sourceName)
	if err != nil {
		return fmt.Errorf("failed to update fetch times: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("source %s: %w", sourceName, ErrNotFound)
	}

	return nil
}

func (r *SourceStore) GetSource(sourceName string) (*Source, error) {
	row := r.db.QueryRow(`SELECT `+sourceColumns+` FROM sources WHERE name = ?`, sourceName)

	source, err := scanSource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("source %s: %w", sourceName, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	return source, nil
}

func (r *SourceStore) GetSources() ([]Source, error) {
	rows, err := r.db.Query(`SELECT ` + sourceColumns + ` FROM sources ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to get sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, *source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source rows: %w", err)
	}

	return sources, nil
}

func (r *SourceStore) GetSourceCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM sources").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get source count: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSource(row scanner) (*Source, error) {
	var source Source
	var lastFetched, nextFetch sql.NullTime

	err := row.Scan(
		&source.Name, &source.Organisation, &source.URL,
		&lastFetched, &nextFetch, &source.CreatedAt, &source.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastFetched.Valid {
		source.LastFetchedAt = &lastFetched.Time
	}
	if nextFetch.Valid {
		source.NextFetchAt = &nextFetch.Time
	}

	return &source, nil
}
