package event

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/lysyi3m/event-comb/app/datum"
)

var _ ProcessorInterface = (*Processor)(nil)

// Processor normalizes the Datum field of event records on a bounded pool
// of workers. Output order matches input order.
type Processor struct {
	normalizer  Normalizer
	hints       HintProvider
	workerCount int
}

func NewProcessor(normalizer Normalizer, hints HintProvider, workerCount int) *Processor {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Processor{
		normalizer:  normalizer,
		hints:       hints,
		workerCount: workerCount,
	}
}

func (p *Processor) Run(ctx context.Context, events []Event) ([]Event, Stats, error) {
	out := make([]Event, len(events))
	copy(out, events)

	jobs := make(chan int)
	var wg sync.WaitGroup

	for i := 0; i < p.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				out[idx].Datum = p.normalize(out[idx])
				out[idx].Description = TruncateDescription(out[idx].Description, MaxDescriptionLength)
			}
		}()
	}

	var err error
dispatch:
	for i := range out {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{Total: len(events)}
	for i := range out {
		switch {
		case strings.TrimSpace(events[i].Datum) == "":
			stats.Empty++
		case out[i].Datum == events[i].Datum:
			stats.Unchanged++
		default:
			stats.Normalized++
		}
	}

	slog.Debug("Event dates normalized",
		"total", stats.Total,
		"normalized", stats.Normalized,
		"unchanged", stats.Unchanged,
		"empty", stats.Empty)

	return out, stats, nil
}

func (p *Processor) normalize(e Event) string {
	hint := datum.Hint{Organisation: e.Organisation}
	if p.hints != nil {
		hint = p.hints.Hint(e.Organisation)
	}
	return p.normalizer.Normalize(e.Datum, hint)
}
