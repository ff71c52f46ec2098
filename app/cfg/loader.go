package cfg

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/lysyi3m/event-comb/app/datum"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage and sources
	DBPath     string `long:"db-path" env:"DB_PATH" default:"./data/events.db" description:"SQLite database file"`
	SourcesDir string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source configuration files"`

	// Server and scheduler
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl           string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://events.example.com)"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for collection and normalization"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"30" description:"Scheduler interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Date normalization
	ReferenceYear int               `long:"reference-year" env:"REFERENCE_YEAR" description:"Year assumed for dates without one (default: current year)"`
	NaiveZone     string            `long:"naive-zone" env:"NAIVE_ZONE" default:"UTC" description:"Zone applied to clock times without a zone"`
	MonthFirst    bool              `long:"month-first" env:"MONTH_FIRST" description:"Read ambiguous slash dates month first unless a source says otherwise"`
	Zones         map[string]string `long:"zone" env:"ZONES" env-delim:"," description:"Extra zone abbreviation as ABBR:IANA name (repeatable)"`
	Months        map[string]string `long:"month" env:"MONTHS" env-delim:"," description:"Extra month word as word:abbr (repeatable)"`

	// Batch mode
	Input  string `long:"input" description:"Normalize a JSON file of events and exit"`
	Output string `long:"output" description:"CSV output file for --input (default: stdout)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Event Comb/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Berlin)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs parses args and the environment into the global configuration.
// It returns nil without error when help was requested.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.WorkerCount < 1 {
		return nil, fmt.Errorf("worker count must be positive, got %d", raw.WorkerCount)
	}
	if raw.SchedulerInterval < 1 {
		return nil, fmt.Errorf("scheduler interval must be positive, got %d", raw.SchedulerInterval)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		SourcesDir:        raw.SourcesDir,
		Port:              raw.Port,
		BaseUrl:           raw.BaseUrl,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		APIAccessKey:      raw.APIAccessKey,
		ReferenceYear:     raw.ReferenceYear,
		NaiveZone:         raw.NaiveZone,
		MonthFirst:        raw.MonthFirst,
		Zones:             raw.Zones,
		Months:            raw.Months,
		Input:             raw.Input,
		Output:            raw.Output,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// DatumOptions builds the engine options, layering the configured zone and
// month words over the built-in tables.
func (c *Cfg) DatumOptions(logger *slog.Logger) (datum.Options, error) {
	naive, err := time.LoadLocation(cmp.Or(c.NaiveZone, "UTC"))
	if err != nil {
		return datum.Options{}, fmt.Errorf("invalid naive zone %s: %w", c.NaiveZone, err)
	}

	zoneNames := maps.Clone(datum.DefaultZoneNames)
	for abbr, name := range c.Zones {
		zoneNames[strings.ToUpper(abbr)] = name
	}
	zones, err := datum.LoadZones(zoneNames)
	if err != nil {
		return datum.Options{}, err
	}

	months := maps.Clone(datum.DefaultMonths)
	for word, abbr := range c.Months {
		months[strings.ToLower(word)] = strings.ToLower(abbr)
	}

	return datum.Options{
		ReferenceYear: c.ReferenceYear,
		NaiveLocation: naive,
		Zones:         zones,
		Months:        months,
		Logger:        logger,
	}, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
		slog.Debug("Timezone configured", "timezone", timezone)
	}
	return nil
}
