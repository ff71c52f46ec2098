package api

import (
	"strings"
	"testing"

	"github.com/lysyi3m/event-comb/app/database"
)

func TestGeneratorRun(t *testing.T) {
	generator := NewGenerator("https://events.example.com/", "1.0.0")

	events := []database.Event{
		{
			Organisation: "TUM",
			Title:        "Pitch <Night>",
			Link:         "https://example.com/pitch",
			Description:  "Founders & investors",
			StartDatum:   "2025-06-25",
			Location:     "Garching",
			ContentHash:  "abc123",
		},
		{
			Organisation: "TUM",
			Title:        "Summit",
			StartDatum:   "2025-03-26",
			EndDatum:     "2025-03-28",
			ContentHash:  "def456",
		},
	}

	rss, err := generator.Run("TUM", events)
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{
		`xmlns:ev="http://purl.org/rss/1.0/modules/event/"`,
		"<title>Event Comb: TUM</title>",
		`<atom:link href="https://events.example.com/events.rss?organisation=TUM"`,
		"<generator>Event-Comb/1.0.0</generator>",
		`<guid isPermaLink="false">abc123</guid>`,
		"<title>Pitch &lt;Night&gt;</title>",
		"<description>Founders &amp; investors</description>",
		"<ev:startdate>2025-06-25</ev:startdate>",
		"<ev:location>Garching</ev:location>",
		"<ev:enddate>2025-03-28</ev:enddate>",
		"<ev:organizer>TUM</ev:organizer>",
	}
	for _, s := range expected {
		if !strings.Contains(rss, s) {
			t.Errorf("Expected RSS to contain %q", s)
		}
	}

	if strings.Count(rss, "<ev:enddate>") != 1 {
		t.Errorf("Expected enddate only for the range event, got %d", strings.Count(rss, "<ev:enddate>"))
	}
}

func TestGeneratorRunWithoutBaseURL(t *testing.T) {
	rss, err := NewGenerator("", "dev").Run("", nil)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(rss, "atom:link") {
		t.Error("Expected no self link without a base URL")
	}
	if !strings.Contains(rss, "<title>Event Comb</title>") {
		t.Error("Expected default channel title")
	}
	if strings.Contains(rss, "<item>") {
		t.Error("Expected no items")
	}
}
