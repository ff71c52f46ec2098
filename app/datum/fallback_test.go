package datum

import "testing"

func TestEngine_Fallback(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		input    string
		expected string
	}{
		{"Termin: 23.–26.6. (Anmeldung erforderlich)", "2025-06-23 - 2025-06-26"},
		{"Blockseminar 3.-5.7.2026 in Garching", "2026-07-03 - 2026-07-05"},
		{"Vom 3. März – 5. April im Audimax", "2025-03-03 - 2025-04-05"},
		{"Deadline ist der 14.2. um Mitternacht", "2025-02-14"},
		{"Beginn 24 Mai, Ort folgt", "2025-05-24"},
		{"Kickoff on 12 June at the Makerspace", "2025-06-12"},
	}

	for _, tt := range tests {
		result, ok := engine.Fallback(tt.input)
		if !ok {
			t.Errorf("Fallback(%q): expected a match", tt.input)
			continue
		}
		if result != tt.expected {
			t.Errorf("Fallback(%q): expected %q, got %q", tt.input, tt.expected, result)
		}
	}
}

func TestEngine_Fallback_NoMatch(t *testing.T) {
	engine := newTestEngine()

	for _, input := range []string{
		"Online",
		"Termin folgt",
		"Raum 12 Etage 3",
		"31.4. - 2.5.",
		"Vorträge 2025 Mai",
	} {
		if result, ok := engine.Fallback(input); ok {
			t.Errorf("Fallback(%q): expected no match, got %q", input, result)
		}
	}
}
