package cfg

type Cfg struct {
	// Storage and sources
	DBPath     string
	SourcesDir string

	// Server and scheduler
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Date normalization
	ReferenceYear int
	NaiveZone     string
	MonthFirst    bool
	Zones         map[string]string
	Months        map[string]string

	// Batch mode
	Input  string
	Output string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

// BatchMode reports whether the run converts a file instead of serving.
func (c *Cfg) BatchMode() bool {
	return c.Input != ""
}
