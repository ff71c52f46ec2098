package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/event-comb/app/database"
	"github.com/lysyi3m/event-comb/app/event"
	"github.com/lysyi3m/event-comb/app/source"
)

type CollectSourceTask struct {
	Task
	SourceConfig *source.Config
	httpClient   *http.Client
	parser       FeedParserInterface
	filterer     FiltererInterface
	extractor    DescriptionExtractorInterface
	processor    event.ProcessorInterface
	sourceRepo   database.SourceRepository
	eventRepo    database.EventRepository
	userAgent    string
}

func NewCollectSourceTask(sourceName string, sourceConfig *source.Config, httpClient *http.Client,
	parser FeedParserInterface, filterer FiltererInterface, extractor DescriptionExtractorInterface, processor event.ProcessorInterface,
	sourceRepo database.SourceRepository, eventRepo database.EventRepository, userAgent string) *CollectSourceTask {
	return &CollectSourceTask{
		Task:         NewTask(TaskTypeCollectSource, sourceName),
		SourceConfig: sourceConfig,
		httpClient:   httpClient,
		parser:       parser,
		filterer:     filterer,
		extractor:    extractor,
		processor:    processor,
		sourceRepo:   sourceRepo,
		eventRepo:    eventRepo,
		userAgent:    userAgent,
	}
}

func (t *CollectSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	data, err := fetch(ctx, t.httpClient, t.SourceConfig.URL, t.userAgent, t.timeout())
	if err != nil {
		return fmt.Errorf("failed to fetch source: %w", err)
	}

	collected, err := t.parser.Run(data, t.SourceConfig.Organisation)
	if err != nil {
		return fmt.Errorf("failed to parse source: %w", err)
	}

	if maxItems := t.SourceConfig.Settings.MaxItems; maxItems > 0 && len(collected) > maxItems {
		collected = collected[:maxItems]
	}

	collected = event.Dedupe(t.filterer.Run(collected, t.SourceConfig.Filters))

	var fresh []database.NewEvent
	duplicateCount := 0

	for _, ev := range collected {
		hash := ev.ContentHash()

		isDuplicate, err := t.eventRepo.CheckDuplicate(hash)
		if err != nil {
			return fmt.Errorf("failed to check for duplicates: %w", err)
		}
		if isDuplicate {
			duplicateCount++
			continue
		}

		fresh = append(fresh, database.NewEvent{Event: ev, RawDatum: ev.Datum, ContentHash: hash})
	}

	if t.SourceConfig.Settings.ExtractDescription {
		t.extractDescriptions(ctx, fresh)
	}

	stats, err := t.storeEvents(ctx, fresh)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	nextFetch := now.Add(time.Duration(t.SourceConfig.Settings.RefreshInterval) * time.Second)
	if err := t.sourceRepo.UpdateFetchTimes(t.SourceName, now, nextFetch); err != nil {
		return fmt.Errorf("failed to update fetch times: %w", err)
	}

	slog.Info("Task completed",
		"type", "CollectSource",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"total", len(collected),
		"duplicates", duplicateCount,
		"new", len(fresh),
		"normalized", stats.Normalized,
		"unchanged", stats.Unchanged)

	return nil
}

// extractDescriptions replaces feed descriptions with the landing page text.
// Failures keep the feed description.
func (t *CollectSourceTask) extractDescriptions(ctx context.Context, events []database.NewEvent) {
	for i := range events {
		link := events[i].Event.Link
		if link == "" {
			continue
		}
		if ctx.Err() != nil {
			return
		}

		page, err := fetch(ctx, t.httpClient, link, t.userAgent, t.timeout())
		if err != nil {
			slog.Warn("Failed to fetch event page", "source", t.SourceName, "url", link, "error", err)
			continue
		}

		description, err := t.extractor.Run(page, link)
		if err != nil {
			slog.Warn("Failed to extract description", "source", t.SourceName, "url", link, "error", err)
			continue
		}

		events[i].Event.Description = description
	}
}

func (t *CollectSourceTask) storeEvents(ctx context.Context, fresh []database.NewEvent) (event.Stats, error) {
	if len(fresh) == 0 {
		return event.Stats{}, nil
	}

	records := make([]event.Event, len(fresh))
	for i, ev := range fresh {
		records[i] = ev.Event
	}

	normalized, stats, err := t.processor.Run(ctx, records)
	if err != nil {
		return event.Stats{}, fmt.Errorf("failed to normalize events: %w", err)
	}

	for i := range fresh {
		fresh[i].Event = normalized[i]
		if err := t.eventRepo.UpsertEvent(t.SourceName, fresh[i]); err != nil {
			return event.Stats{}, fmt.Errorf("failed to store event: %w", err)
		}
	}

	return stats, nil
}

func (t *CollectSourceTask) timeout() time.Duration {
	return time.Duration(t.SourceConfig.Settings.Timeout) * time.Second
}
