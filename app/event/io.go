package event

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

var csvHeader = []string{"Organisation", "Titel", "Datum", "Location", "Description", "Link"}

// ReadJSON decodes a JSON array of event records.
func ReadJSON(r io.Reader) ([]Event, error) {
	var events []Event
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

// WriteCSV writes records with the Organisation,Titel,Datum,Location,
// Description,Link header.
func WriteCSV(w io.Writer, events []Event) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range events {
		record := []string{e.Organisation, e.Title, e.Datum, e.Location, e.Description, e.Link}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
