package datum

import (
	"log/slog"
	"testing"
	"time"
)

func newTestEngine() *Engine {
	return New(Options{
		ReferenceYear: 2025,
		Logger:        slog.New(slog.DiscardHandler),
	})
}

func TestEngine_Normalize(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"German day and month", "25.6.", "2025-06-25"},
		{"German date with year", "25.06.2025", "2025-06-25"},
		{"weekday prefix", "Samstag, 25.6.", "2025-06-25"},
		{"German month name range", "26. März – 28. März", "2025-03-26 - 2025-03-28"},
		{"German month name", "9. Mai", "2025-05-09"},
		{"range with bis", "12.7.2025 bis 14.7.2025", "2025-07-12 - 2025-07-14"},
		{"clock with Uhr", "18.30 Uhr, 25.6.2025", "2025-06-25T18:30:00.000Z"},
		{"time range inherits date", "03 MAR 1:30 pm - 2:30 pm", "2025-03-03T13:30:00.000Z - 2025-03-03T14:30:00.000Z"},
		{"bare start day", "23 - 26.6", "2025-06-23 - 2025-06-26"},
		{"dotted start day", "23.–26.6.", "2025-06-23 - 2025-06-26"},
		{"full English range", "April 28, 2025 9:00 AM - May 23, 2025 5:00 PM", "2025-04-28T09:00:00.000Z - 2025-05-23T17:00:00.000Z"},
		{"listing template range", "Friday, June 13 · 6 - 9pm CEST", "2025-06-13T16:00:00.000Z - 2025-06-13T19:00:00.000Z"},
		{"listing template in Pacific time", "Fri, Jun 13 · 6:00 - 9:30pm PDT", "2025-06-14T01:00:00.000Z - 2025-06-14T04:30:00.000Z"},
		{"listing template start", "Starts on Thursday, July 10 · 5:30pm CEST", "2025-07-10T15:30:00.000Z"},
		{"at cluster", "Thu, Jun 12 @ 6:00 pm - 9:00 pm", "2025-06-12T18:00:00.000Z - 2025-06-12T21:00:00.000Z"},
		{"bracketed zone", "Jun 12, 2025 6:00 pm (CEST)", "2025-06-12T16:00:00.000Z"},
		{"German zone", "25.6.2025 18:00 MESZ", "2025-06-25T16:00:00.000Z"},
		{"ISO with offset", "2025-04-28T09:00:00+02:00", "2025-04-28T07:00:00.000Z"},
		{"midnight is date only", "25.6.2025 00:00", "2025-06-25"},
		{"bare start hour before Uhr", "12.06.2025, 15 - 17 Uhr", "2025-06-12T15:00:00.000Z - 2025-06-12T17:00:00.000Z"},
		{"bare start hour with weekday", "Samstag, 14. Juni 2025, 15 - 17:30 Uhr", "2025-06-14T15:00:00.000Z - 2025-06-14T17:30:00.000Z"},
		{"year inherited from end", "Jan 5 - Jan 7, 2026", "2026-01-05 - 2026-01-07"},
		{"fallback inside prose", "Termin: 23.–26.6. (Anmeldung erforderlich)", "2025-06-23 - 2025-06-26"},
		{"canonical date", "2025-06-25", "2025-06-25"},
		{"canonical range", "2025-03-03T13:30:00.000Z - 2025-03-03T14:30:00.000Z", "2025-03-03T13:30:00.000Z - 2025-03-03T14:30:00.000Z"},
		{"unparseable text", "Online", "Online"},
		{"invalid range start stays raw", "31.4. - 2.5.", "31.4. - 2.5."},
		{"year digits are no day", "Vorträge 2025 Mai", "Vorträge 2025 Mai"},
		{"failed range is not merged", "11 - 1 pm, Jun 3", "11 - 1 pm, Jun 3"},
		{"failed range keeps fallback date", "5 pm - 7 pm, 03 MAR", "2025-03-03"},
		{"room numbers are no date", "Raum 12, Gebäude 3", "Raum 12, Gebäude 3"},
		{"empty text", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Normalize(tt.input, Hint{})
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestEngine_Normalize_Idempotent(t *testing.T) {
	engine := newTestEngine()

	inputs := []string{
		"25.6.",
		"26. März – 28. März",
		"03 MAR 1:30 pm - 2:30 pm",
		"Friday, June 13 · 6 - 9pm CEST",
		"2025-04-28T09:00:00+02:00",
		"Termin: 23.–26.6. (Anmeldung erforderlich)",
		"Online",
	}

	for _, input := range inputs {
		once := engine.Normalize(input, Hint{})
		twice := engine.Normalize(once, Hint{})
		if once != twice {
			t.Errorf("Expected %q to be stable, got %q then %q", input, once, twice)
		}
	}
}

func TestEngine_Normalize_MonthFirstHint(t *testing.T) {
	engine := newTestEngine()

	result := engine.Normalize("06/07/2025", Hint{})
	if result != "2025-07-06" {
		t.Errorf("Expected day-first 2025-07-06, got %s", result)
	}

	result = engine.Normalize("06/07/2025", Hint{Organisation: "Eventbrite", MonthFirst: true})
	if result != "2025-06-07" {
		t.Errorf("Expected month-first 2025-06-07, got %s", result)
	}

	// dotted dates stay day-first whatever the hint says
	result = engine.Normalize("06.07.2025", Hint{MonthFirst: true})
	if result != "2025-07-06" {
		t.Errorf("Expected 2025-07-06, got %s", result)
	}
}

func TestEngine_Normalize_LocationHint(t *testing.T) {
	engine := newTestEngine()
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("Failed to load location: %v", err)
	}

	result := engine.Normalize("25.6.2025 18:00", Hint{Location: berlin})
	if result != "2025-06-25T16:00:00.000Z" {
		t.Errorf("Expected 2025-06-25T16:00:00.000Z, got %s", result)
	}

	// an explicit zone in the text wins over the hint
	result = engine.Normalize("25.6.2025 18:00 UTC", Hint{Location: berlin})
	if result != "2025-06-25T18:00:00.000Z" {
		t.Errorf("Expected 2025-06-25T18:00:00.000Z, got %s", result)
	}
}

func TestEngine_NaiveLocation(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("Failed to load location: %v", err)
	}
	engine := New(Options{
		ReferenceYear: 2025,
		NaiveLocation: berlin,
		Logger:        slog.New(slog.DiscardHandler),
	})

	result := engine.Normalize("03 MAR 1:30 pm", Hint{})
	if result != "2025-03-03T12:30:00.000Z" {
		t.Errorf("Expected 2025-03-03T12:30:00.000Z, got %s", result)
	}
}

func TestEngine_WithReferenceYear(t *testing.T) {
	engine := newTestEngine()
	other := engine.WithReferenceYear(2024)

	if result := other.Normalize("25.6.", Hint{}); result != "2024-06-25" {
		t.Errorf("Expected 2024-06-25, got %s", result)
	}
	if result := engine.Normalize("25.6.", Hint{}); result != "2025-06-25" {
		t.Errorf("Expected original engine to keep 2025, got %s", result)
	}
	if other.ReferenceYear() != 2024 {
		t.Errorf("Expected reference year 2024, got %d", other.ReferenceYear())
	}
}

func TestEngine_Parse(t *testing.T) {
	engine := newTestEngine()

	v, err := engine.Parse("03 MAR 1:30 pm - 2:30 pm", Hint{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !v.IsRange() {
		t.Fatal("Expected a range")
	}
	if !v.Start.HasTime || !v.End.HasTime {
		t.Error("Expected both boundaries to carry a time")
	}

	v, err = engine.Parse("25.6.", Hint{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if v.IsRange() {
		t.Error("Expected a single instant")
	}
	if v.Start.HasTime {
		t.Error("Expected a date-only instant")
	}

	if _, err := engine.Parse("Online", Hint{}); err == nil {
		t.Error("Expected error for unparseable text")
	}
}
