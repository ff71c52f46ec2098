package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DBPath != "./data/events.db" {
		t.Errorf("Expected default db path './data/events.db', got '%s'", cfg.DBPath)
	}
	if cfg.SourcesDir != "./sources" {
		t.Errorf("Expected default sources dir './sources', got '%s'", cfg.SourcesDir)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.WorkerCount != 5 {
		t.Errorf("Expected worker count 5, got %d", cfg.WorkerCount)
	}
	if cfg.SchedulerInterval != 30 {
		t.Errorf("Expected scheduler interval 30, got %d", cfg.SchedulerInterval)
	}
	if cfg.NaiveZone != "UTC" {
		t.Errorf("Expected naive zone 'UTC', got '%s'", cfg.NaiveZone)
	}
	if cfg.BatchMode() {
		t.Error("Expected server mode without --input")
	}
	if Get() != cfg {
		t.Error("Expected Get to return the loaded configuration")
	}
}

func TestLoadArgsOverrides(t *testing.T) {
	cfg, err := LoadArgs([]string{
		"--db-path", "/tmp/test.db",
		"--worker-count", "2",
		"--reference-year", "2024",
		"--naive-zone", "Europe/Berlin",
		"--month-first",
		"--zone", "PST:America/Los_Angeles",
		"--month", "sept:sep",
		"--input", "events.json",
		"--output", "events.csv",
		"--debug",
	})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("Expected db path '/tmp/test.db', got '%s'", cfg.DBPath)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("Expected worker count 2, got %d", cfg.WorkerCount)
	}
	if cfg.ReferenceYear != 2024 {
		t.Errorf("Expected reference year 2024, got %d", cfg.ReferenceYear)
	}
	if !cfg.MonthFirst {
		t.Error("Expected month-first to be enabled")
	}
	if cfg.Zones["PST"] != "America/Los_Angeles" {
		t.Errorf("Expected PST zone override, got %v", cfg.Zones)
	}
	if cfg.Months["sept"] != "sep" {
		t.Errorf("Expected month override, got %v", cfg.Months)
	}
	if !cfg.BatchMode() || cfg.Output != "events.csv" {
		t.Errorf("Expected batch mode with output, got input=%s output=%s", cfg.Input, cfg.Output)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestLoadArgsInvalid(t *testing.T) {
	if _, err := LoadArgs([]string{"--worker-count", "0"}); err == nil {
		t.Error("Expected error for zero worker count")
	}
	if _, err := LoadArgs([]string{"--worker-count", "many"}); err == nil {
		t.Error("Expected error for non-numeric worker count")
	}
}

func TestDatumOptions(t *testing.T) {
	cfg := &Cfg{
		ReferenceYear: 2025,
		NaiveZone:     "Europe/Berlin",
		Zones:         map[string]string{"pst": "America/Los_Angeles"},
		Months:        map[string]string{"Sept": "SEP"},
	}

	opts, err := cfg.DatumOptions(nil)
	if err != nil {
		t.Fatal(err)
	}

	if opts.ReferenceYear != 2025 {
		t.Errorf("Expected reference year 2025, got %d", opts.ReferenceYear)
	}
	if opts.NaiveLocation.String() != "Europe/Berlin" {
		t.Errorf("Expected naive location Europe/Berlin, got %s", opts.NaiveLocation)
	}
	if loc, ok := opts.Zones["PST"]; !ok || loc.String() != "America/Los_Angeles" {
		t.Errorf("Expected PST zone, got %v", opts.Zones["PST"])
	}
	if _, ok := opts.Zones["CEST"]; !ok {
		t.Error("Expected built-in CEST zone to be kept")
	}
	if opts.Months["sept"] != "sep" {
		t.Errorf("Expected lower-cased month override, got %q", opts.Months["sept"])
	}
	if opts.Months["märz"] != "mar" {
		t.Errorf("Expected built-in month words to be kept, got %q", opts.Months["märz"])
	}

	cfg.NaiveZone = "Mars/Olympus"
	if _, err := cfg.DatumOptions(nil); err == nil {
		t.Error("Expected error for invalid naive zone")
	}

	cfg.NaiveZone = ""
	cfg.Zones = map[string]string{"XYZ": "Nowhere/Town"}
	if _, err := cfg.DatumOptions(nil); err == nil {
		t.Error("Expected error for invalid zone override")
	}
}
