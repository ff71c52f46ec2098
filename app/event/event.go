package event

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ContentHash identifies a record by everything a reader sees, using the
// raw date text so that re-normalization never changes identity.
func (e Event) ContentHash() string {
	content := fmt.Sprintf("%s|%s|%s|%s|%s",
		e.Organisation,
		e.Title,
		e.Datum,
		e.Location,
		e.Description)

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// Dedupe keeps the first record of every content hash, preserving order.
func Dedupe(events []Event) []Event {
	seen := make(map[string]bool, len(events))
	unique := make([]Event, 0, len(events))

	for _, e := range events {
		hash := e.ContentHash()
		if seen[hash] {
			continue
		}
		seen[hash] = true
		unique = append(unique, e)
	}

	return unique
}

// TruncateDescription shortens descriptions longer than maxLen runes to the
// last word boundary before maxLen-3 runes and appends "...".
func TruncateDescription(description string, maxLen int) string {
	if utf8.RuneCountInString(description) <= maxLen {
		return description
	}

	keep := maxLen - len(truncationSuffix)
	runes := []rune(description)
	cut := string(runes[:keep])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + truncationSuffix
}

// Split separates a canonical Datum into start and end. End is empty for
// single dates.
func Split(datum string) (start, end string) {
	start, end, _ = strings.Cut(datum, " - ")
	return strings.TrimSpace(start), strings.TrimSpace(end)
}
