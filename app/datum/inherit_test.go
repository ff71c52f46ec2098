package datum

import "testing"

func TestEngine_ResolveRange(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name       string
		start, end string
		expected   string
	}{
		{"month from numeric end", "23", "26.6", "2025-06-23 - 2025-06-26"},
		{"month from named end", "23.", "26. mar", "2025-03-23 - 2025-03-26"},
		{"day end takes start month", "23.6", "26", "2025-06-23 - 2025-06-26"},
		{"meridiem and zone from end", "jun 13 6", "9pm CEST", "2025-06-13T16:00:00.000Z - 2025-06-13T19:00:00.000Z"},
		{"bare time end", "03 mar 1:30 pm", "2:30 pm", "2025-03-03T13:30:00.000Z - 2025-03-03T14:30:00.000Z"},
		{"year from end", "Jan 5", "Jan 7, 2026", "2026-01-05 - 2026-01-07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := engine.ResolveRange(tt.start, tt.end, Hint{})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if v.String() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, v.String())
			}
		})
	}
}

func TestEngine_ResolveRange_EndBeforeStartKept(t *testing.T) {
	engine := newTestEngine()

	v, err := engine.ResolveRange("28.6", "26.6", Hint{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !v.End.Time.Before(v.Start.Time) {
		t.Errorf("Expected reversed range to be kept, got %s", v.String())
	}
}

func TestEngine_ResolveRange_StartFailure(t *testing.T) {
	engine := newTestEngine()

	if _, err := engine.ResolveRange("Einlass", "26.6", Hint{}); err == nil {
		t.Error("Expected error for unparseable start")
	}
}

func TestEngine_InheritBoundaries(t *testing.T) {
	engine := newTestEngine()

	start, end := engine.inheritBoundaries("6:00", "9:00 pm CEST")
	if start != "6:00 pm CEST" {
		t.Errorf("Expected start '6:00 pm CEST', got %q", start)
	}
	if end != "9:00 pm CEST" {
		t.Errorf("Expected end unchanged, got %q", end)
	}

	start, end = engine.inheritBoundaries("13.6.2025 18:00 MESZ", "20:00")
	if start != "13.6.2025 18:00 MESZ" {
		t.Errorf("Expected start unchanged, got %q", start)
	}
	if end != "20:00 MESZ" {
		t.Errorf("Expected end to take the start zone, got %q", end)
	}
}
