package source

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/event-comb/app/datum"
)

type ConfigCache struct {
	sourcesDir string
	cache      map[string]*Config
	defaults   datum.Hint
	mu         sync.RWMutex
}

func NewConfigCache(sourcesDir string) *ConfigCache {
	return &ConfigCache{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*Config),
	}
}

func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.sourcesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		sourceName := strings.TrimSuffix(filepath.Base(file), ".yml")

		config, err := cc.LoadConfig(sourceName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Configuration loaded", "source", sourceName, "organisation", config.Organisation, "enabled", config.Settings.Enabled, "date_order", config.Settings.DateOrder)
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(sourceName string) (*Config, error) {
	configFile := cc.getConfigFilePath(sourceName)
	sourceConfig, err := cc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	sourceConfig.Name = sourceName
	if sourceConfig.Organisation == "" {
		sourceConfig.Organisation = sourceName
	}

	if err := cc.validateConfig(sourceConfig); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[sourceConfig.Name] = sourceConfig

	return sourceConfig, nil
}

func (cc *ConfigCache) GetConfig(sourceName string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	sourceConfig, ok := cc.cache[sourceName]
	if !ok {
		return nil, fmt.Errorf("source config with name '%s' not found", sourceName)
	}
	return sourceConfig, nil
}

func (cc *ConfigCache) GetConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configsCopy := make(map[string]*Config, len(cc.cache))
	for k, v := range cc.cache {
		configsCopy[k] = v
	}
	return configsCopy
}

func (cc *ConfigCache) GetEnabledConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	enabledConfigs := make(map[string]*Config)
	for k, v := range cc.cache {
		if v.Settings.Enabled {
			enabledConfigs[k] = v
		}
	}
	return enabledConfigs
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

// SetDefaultHint sets the hint used for organisations without a source file.
func (cc *ConfigCache) SetDefaultHint(hint datum.Hint) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.defaults = hint
}

// Hint returns the date parsing hint for an organisation. Unknown
// organisations get the default hint.
func (cc *ConfigCache) Hint(organisation string) datum.Hint {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	hint := cc.defaults
	hint.Organisation = organisation

	for _, c := range cc.cache {
		if !strings.EqualFold(c.Organisation, organisation) {
			continue
		}
		hint.MonthFirst = c.Settings.DateOrder == DateOrderMDY
		if c.location != nil {
			hint.Location = c.location
		}
		break
	}
	return hint
}

func (cc *ConfigCache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var sourceConfig Config
	if err := yaml.Unmarshal(data, &sourceConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if sourceConfig.Settings.RefreshInterval == 0 {
		sourceConfig.Settings.RefreshInterval = 3600
	}
	if sourceConfig.Settings.MaxItems == 0 {
		sourceConfig.Settings.MaxItems = 100
	}
	if sourceConfig.Settings.Timeout == 0 {
		sourceConfig.Settings.Timeout = 30
	}
	if sourceConfig.Settings.DateOrder == "" {
		sourceConfig.Settings.DateOrder = DateOrderDMY
	}

	return &sourceConfig, nil
}

func (cc *ConfigCache) validateConfig(sourceConfig *Config) error {
	if sourceConfig == nil {
		return fmt.Errorf("sourceConfig is nil")
	}

	requiredFields := map[string]string{
		"source name": sourceConfig.Name,
		"source URL":  sourceConfig.URL,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	nonNegativeFields := map[string]int{
		"refresh interval": sourceConfig.Settings.RefreshInterval,
		"max items":        sourceConfig.Settings.MaxItems,
		"timeout":          sourceConfig.Settings.Timeout,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	switch sourceConfig.Settings.DateOrder {
	case "", DateOrderDMY, DateOrderMDY:
	default:
		return fmt.Errorf("invalid date order: %s", sourceConfig.Settings.DateOrder)
	}

	for _, filter := range sourceConfig.Filters {
		if !filterFields[filter.Field] {
			return fmt.Errorf("invalid filter field: %s", filter.Field)
		}
	}

	if tz := sourceConfig.Settings.Timezone; tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("invalid timezone %s: %w", tz, err)
		}
		sourceConfig.location = loc
	}

	return nil
}

func (cc *ConfigCache) getConfigFilePath(sourceName string) string {
	return filepath.Join(cc.sourcesDir, sourceName+".yml")
}
