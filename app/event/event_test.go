package event

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/lysyi3m/event-comb/app/datum"
)

func TestContentHash_UsesRawDatum(t *testing.T) {
	a := Event{Organisation: "TUM", Title: "Pitch Night", Datum: "25.6."}
	b := a
	b.Datum = "2025-06-25"

	if a.ContentHash() == b.ContentHash() {
		t.Error("Expected different hashes for different raw dates")
	}
	if a.ContentHash() != a.ContentHash() {
		t.Error("Expected hash to be stable")
	}
	if len(a.ContentHash()) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(a.ContentHash()))
	}
}

func TestDedupe(t *testing.T) {
	events := []Event{
		{Organisation: "TUM", Title: "A", Datum: "25.6."},
		{Organisation: "TUM", Title: "B", Datum: "26.6."},
		{Organisation: "TUM", Title: "A", Datum: "25.6."},
		{Organisation: "ForTe", Title: "A", Datum: "25.6."},
	}

	result := Dedupe(events)

	if len(result) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(result))
	}
	if result[0].Title != "A" || result[1].Title != "B" || result[2].Organisation != "ForTe" {
		t.Errorf("Expected original order to be kept, got %+v", result)
	}
}

func TestTruncateDescription(t *testing.T) {
	short := "Kurze Beschreibung"
	if TruncateDescription(short, MaxDescriptionLength) != short {
		t.Error("Expected short description unchanged")
	}

	long := strings.Repeat("wort ", 500)
	result := TruncateDescription(long, MaxDescriptionLength)

	if !strings.HasSuffix(result, "...") {
		t.Errorf("Expected ... suffix, got %q", result[len(result)-10:])
	}
	if utf8.RuneCountInString(result) > MaxDescriptionLength {
		t.Errorf("Expected at most %d runes, got %d", MaxDescriptionLength, utf8.RuneCountInString(result))
	}
	if strings.HasSuffix(strings.TrimSuffix(result, "..."), " ") {
		t.Error("Expected cut at a word boundary without trailing space")
	}

	umlauts := strings.Repeat("ä", 2100)
	result = TruncateDescription(umlauts, MaxDescriptionLength)
	if utf8.RuneCountInString(result) != 2000 {
		t.Errorf("Expected 2000 runes without spaces to cut, got %d", utf8.RuneCountInString(result))
	}
}

func TestSplit(t *testing.T) {
	start, end := Split("2025-06-23 - 2025-06-26")
	if start != "2025-06-23" || end != "2025-06-26" {
		t.Errorf("Expected 2025-06-23 and 2025-06-26, got %q and %q", start, end)
	}

	start, end = Split("2025-06-25T18:00:00.000Z")
	if start != "2025-06-25T18:00:00.000Z" || end != "" {
		t.Errorf("Expected single start, got %q and %q", start, end)
	}
}

type staticHints map[string]datum.Hint

func (h staticHints) Hint(organisation string) datum.Hint {
	hint := h[organisation]
	hint.Organisation = organisation
	return hint
}

func TestProcessor_Run(t *testing.T) {
	engine := datum.New(datum.Options{ReferenceYear: 2025, Logger: slog.New(slog.DiscardHandler)})
	hints := staticHints{"Eventbrite": {MonthFirst: true}}
	processor := NewProcessor(engine, hints, 3)

	events := []Event{
		{Organisation: "TUM", Title: "A", Datum: "25.6."},
		{Organisation: "Eventbrite", Title: "B", Datum: "06/07/2025"},
		{Organisation: "TUM", Title: "C", Datum: "Online"},
		{Organisation: "TUM", Title: "D", Datum: ""},
		{Organisation: "TUM", Title: "E", Datum: "06/07/2025"},
	}

	result, stats, err := processor.Run(context.Background(), events)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := []string{"2025-06-25", "2025-06-07", "Online", "", "2025-07-06"}
	for i, e := range result {
		if e.Datum != expected[i] {
			t.Errorf("Event %d: expected %q, got %q", i, expected[i], e.Datum)
		}
		if e.Title != events[i].Title {
			t.Errorf("Event %d: expected order preserved, got title %s", i, e.Title)
		}
	}

	if stats.Total != 5 || stats.Normalized != 3 || stats.Unchanged != 1 || stats.Empty != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if events[0].Datum != "25.6." {
		t.Error("Expected input slice to be left untouched")
	}
}

func TestProcessor_RunCancelled(t *testing.T) {
	engine := datum.New(datum.Options{ReferenceYear: 2025})
	processor := NewProcessor(engine, nil, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := make([]Event, 50)
	if _, _, err := processor.Run(ctx, events); err == nil {
		t.Error("Expected context error")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	events := []Event{
		{Organisation: "TUM", Title: "Pitch, Night", Datum: "2025-06-25", Location: "Garching", Description: "Line one", Link: "https://example.com"},
	}

	if err := WriteCSV(&buf, events); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "Organisation,Titel,Datum,Location,Description,Link" {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if lines[1] != `TUM,"Pitch, Night",2025-06-25,Garching,Line one,https://example.com` {
		t.Errorf("Unexpected record: %s", lines[1])
	}
}

func TestReadJSON(t *testing.T) {
	input := `[{"Organisation":"TUM","Titel":"Pitch Night","Datum":"25.6.","Location":"Garching","Description":"","Link":"https://example.com"}]`

	events, err := ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(events) != 1 || events[0].Title != "Pitch Night" || events[0].Datum != "25.6." {
		t.Errorf("Unexpected events: %+v", events)
	}

	if _, err := ReadJSON(strings.NewReader("{not json")); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}
