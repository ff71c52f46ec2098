package tasks

import (
	"github.com/lysyi3m/event-comb/app/event"
	"github.com/lysyi3m/event-comb/app/source"
)

// TaskSchedulerInterface is what the API and main need from the scheduler:
// lifecycle control plus enqueueing of ad-hoc tasks.
//
//	scheduler := NewScheduler(configCache, sourceRepo, eventRepo, httpClient, parser, filterer, extractor, processor)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewRenormalizeSourceTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

type FeedParserInterface interface {
	Run(data []byte, organisation string) ([]event.Event, error)
}

type DescriptionExtractorInterface interface {
	Run(data []byte, pageURL string) (string, error)
}

type FiltererInterface interface {
	Run(events []event.Event, filters []source.ConfigFilter) []event.Event
}
