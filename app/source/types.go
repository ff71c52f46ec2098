package source

import "time"

const (
	DateOrderDMY = "dmy"
	DateOrderMDY = "mdy"
)

type Config struct {
	Name         string         // Derived from filename (without .yml extension)
	Organisation string         `yaml:"organisation"`
	URL          string         `yaml:"url"`
	Settings     ConfigSettings `yaml:"settings"`
	Filters      []ConfigFilter `yaml:"filters"`

	location *time.Location
}

type ConfigSettings struct {
	Enabled            bool   `yaml:"enabled"`
	RefreshInterval    int    `yaml:"refresh_interval"` // seconds
	MaxItems           int    `yaml:"max_items"`
	Timeout            int    `yaml:"timeout"`             // seconds
	ExtractDescription bool   `yaml:"extract_description"` // fetch event pages for descriptions
	DateOrder          string `yaml:"date_order"`          // dmy or mdy, for slash dates
	Timezone           string `yaml:"timezone"`            // IANA name for naive clock times
}

// Location is the configured zone for naive clock times, or nil.
func (c *Config) Location() *time.Location {
	return c.location
}

// ConfigFilter keeps or drops collected events by case-insensitive keyword
// matches on one field.
type ConfigFilter struct {
	Field    string   `yaml:"field"` // title, description, location, link or datum
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

var filterFields = map[string]bool{
	"title":       true,
	"description": true,
	"location":    true,
	"link":        true,
	"datum":       true,
}
