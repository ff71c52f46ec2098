package api

import (
	"github.com/lysyi3m/event-comb/app/database"
	"github.com/lysyi3m/event-comb/app/datum"
	"github.com/lysyi3m/event-comb/app/event"
	"github.com/lysyi3m/event-comb/app/source"
	"github.com/lysyi3m/event-comb/app/tasks"
)

type GeneratorInterface interface {
	Run(organisation string, events []database.Event) (string, error)
}

var _ GeneratorInterface = (*Generator)(nil)

// maxBatchItems bounds a single POST /api/normalize batch.
const maxBatchItems = 1000

type Handler struct {
	sourceRepo  database.SourceRepository
	eventRepo   database.EventRepository
	configCache *source.ConfigCache
	engine      *datum.Engine
	processor   event.ProcessorInterface
	generator   GeneratorInterface
	scheduler   tasks.TaskSchedulerInterface
}

type NormalizeItem struct {
	Datum         string `json:"datum"`
	Organisation  string `json:"organisation"`
	ReferenceYear int    `json:"reference_year"`
}

type NormalizeRequest struct {
	NormalizeItem
	Items []NormalizeItem `json:"items"`
}

type NormalizeResult struct {
	Input      string `json:"input"`
	Datum      string `json:"datum"`
	Start      string `json:"start,omitempty"`
	End        string `json:"end,omitempty"`
	Normalized bool   `json:"normalized"`
}

type EventResponse struct {
	Organisation string `json:"organisation"`
	Title        string `json:"title"`
	Datum        string `json:"datum"`
	RawDatum     string `json:"raw_datum"`
	Start        string `json:"start,omitempty"`
	End          string `json:"end,omitempty"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	Link         string `json:"link"`
}
