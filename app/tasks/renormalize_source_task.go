package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/event-comb/app/database"
	"github.com/lysyi3m/event-comb/app/event"
)

// RenormalizeSourceTask re-runs date normalization over the raw date texts
// stored for a source, e.g. after the zone or month tables changed.
type RenormalizeSourceTask struct {
	Task
	processor event.ProcessorInterface
	eventRepo database.EventRepository
}

func NewRenormalizeSourceTask(sourceName string, processor event.ProcessorInterface, eventRepo database.EventRepository) *RenormalizeSourceTask {
	return &RenormalizeSourceTask{
		Task:      NewTask(TaskTypeRenormalizeSource, sourceName),
		processor: processor,
		eventRepo: eventRepo,
	}
}

func (t *RenormalizeSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	stored, err := t.eventRepo.GetSourceEvents(t.SourceName)
	if err != nil {
		return fmt.Errorf("failed to get source events: %w", err)
	}

	records := make([]event.Event, len(stored))
	for i, ev := range stored {
		records[i] = ev.Record()
		records[i].Datum = ev.RawDatum
	}

	normalized, _, err := t.processor.Run(ctx, records)
	if err != nil {
		return fmt.Errorf("failed to normalize events: %w", err)
	}

	updatedCount := 0
	errorCount := 0

	for i, ev := range stored {
		if normalized[i].Datum == ev.Datum {
			continue
		}

		if err := t.eventRepo.UpdateDatum(ev.ID, normalized[i].Datum); err != nil {
			slog.Error("Failed to update event datum", "event_id", ev.ID, "error", err)
			errorCount++
			continue
		}
		updatedCount++
	}

	slog.Info("Task completed",
		"type", "RenormalizeSource",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"total", len(stored),
		"success", updatedCount,
		"errors", errorCount)

	return nil
}
