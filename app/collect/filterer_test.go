package collect

import (
	"testing"

	"github.com/lysyi3m/event-comb/app/event"
	"github.com/lysyi3m/event-comb/app/source"
)

func TestFiltererNoFilters(t *testing.T) {
	filterer := NewFilterer()

	events := []event.Event{
		{Title: "Pitch Night"},
		{Title: "Founders Breakfast"},
	}

	result := filterer.Run(events, nil)
	if len(result) != 2 {
		t.Errorf("Expected 2 events, got %d", len(result))
	}
}

func TestFiltererTitleInclude(t *testing.T) {
	filterer := NewFilterer()

	events := []event.Event{
		{Title: "Startup Pitch Night"},
		{Title: "Startup Breakfast"},
		{Title: "Library Closure"},
	}

	filters := []source.ConfigFilter{
		{Field: "title", Includes: []string{"pitch", "breakfast"}},
	}

	result := filterer.Run(events, filters)
	if len(result) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(result))
	}
	if result[0].Title != "Startup Pitch Night" || result[1].Title != "Startup Breakfast" {
		t.Errorf("Expected included events in order, got %+v", result)
	}
}

func TestFiltererCombinedIncludeExclude(t *testing.T) {
	filterer := NewFilterer()

	events := []event.Event{
		{Title: "Tech Meetup", Location: "Garching"},
		{Title: "Tech Meetup (cancelled)", Location: "Garching"},
		{Title: "Tech Talk", Location: "Online"},
		{Title: "Career Fair", Location: "Garching"},
	}

	filters := []source.ConfigFilter{
		{Field: "title", Includes: []string{"tech"}, Excludes: []string{"cancelled"}},
		{Field: "location", Excludes: []string{"online"}},
	}

	result := filterer.Run(events, filters)
	if len(result) != 1 {
		t.Fatalf("Expected 1 event, got %d: %+v", len(result), result)
	}
	if result[0].Title != "Tech Meetup" {
		t.Errorf("Expected 'Tech Meetup', got %s", result[0].Title)
	}
}

func TestFiltererDatumField(t *testing.T) {
	filterer := NewFilterer()

	events := []event.Event{
		{Title: "A", Datum: "25.6."},
		{Title: "B", Datum: "TBA"},
	}

	result := filterer.Run(events, []source.ConfigFilter{{Field: "datum", Excludes: []string{"tba"}}})
	if len(result) != 1 || result[0].Title != "A" {
		t.Errorf("Expected only event A, got %+v", result)
	}
}
