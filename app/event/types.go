package event

import (
	"context"

	"github.com/lysyi3m/event-comb/app/datum"
)

const (
	MaxDescriptionLength = 2000
	truncationSuffix     = "..."
)

// Event is one scraped event record. Datum holds the free-form date text
// until the processor replaces it with its canonical form.
type Event struct {
	Organisation string `json:"Organisation"`
	Title        string `json:"Titel"`
	Datum        string `json:"Datum"`
	Location     string `json:"Location"`
	Description  string `json:"Description"`
	Link         string `json:"Link"`
}

type Stats struct {
	Total      int `json:"total"`
	Normalized int `json:"normalized"`
	Unchanged  int `json:"unchanged"`
	Empty      int `json:"empty"`
}

// Normalizer is satisfied by *datum.Engine.
type Normalizer interface {
	Normalize(raw string, hint datum.Hint) string
}

// HintProvider returns the parsing hint of an organisation.
type HintProvider interface {
	Hint(organisation string) datum.Hint
}

type ProcessorInterface interface {
	Run(ctx context.Context, events []Event) ([]Event, Stats, error)
}
