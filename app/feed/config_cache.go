package feed

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const configExt = ".yml"

type ConfigCache struct {
	feedsDir string
	cache    map[string]*Config
	mu       sync.RWMutex
}

func NewConfigCache(feedsDir string) *ConfigCache {
	return &ConfigCache{
		feedsDir: feedsDir,
		cache:    make(map[string]*Config),
	}
}

// Run loads every feed configuration in the feeds directory. A missing
// directory leaves the cache empty.
func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.feedsDir); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.feedsDir, "*"+configExt))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		feedName := strings.TrimSuffix(filepath.Base(file), configExt)

		config, err := cc.LoadConfig(feedName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Configuration loaded", "feed", feedName, "enabled", config.Settings.Enabled, "refresh_interval", config.Settings.RefreshInterval, "locale", config.Settings.Locale)
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(feedName string) (*Config, error) {
	configFile := filepath.Join(cc.feedsDir, feedName+configExt)

	feedConfig, err := readConfig(configFile)
	if err != nil {
		return nil, err
	}
	feedConfig.Name = feedName

	if err := feedConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[feedConfig.Name] = feedConfig

	return feedConfig, nil
}

func (cc *ConfigCache) GetConfig(feedName string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	feedConfig, ok := cc.cache[feedName]
	if !ok {
		return nil, fmt.Errorf("feed config with name '%s' not found", feedName)
	}
	return feedConfig, nil
}

func (cc *ConfigCache) GetConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return maps.Clone(cc.cache)
}

func (cc *ConfigCache) GetEnabledConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	enabled := make(map[string]*Config)
	for name, config := range cc.cache {
		if config.Settings.Enabled {
			enabled[name] = config
		}
	}
	return enabled
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func readConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var feedConfig Config
	if err := yaml.Unmarshal(data, &feedConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if feedConfig.Settings.RefreshInterval == 0 {
		feedConfig.Settings.RefreshInterval = 3600
	}
	if feedConfig.Settings.MaxItems == 0 {
		feedConfig.Settings.MaxItems = 100
	}
	if feedConfig.Settings.Timeout == 0 {
		feedConfig.Settings.Timeout = 30
	}

	return &feedConfig, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Name == "":
		return errors.New("feed name is required")
	case c.URL == "":
		return errors.New("feed URL is required")
	case c.Settings.RefreshInterval < 0:
		return errors.New("refresh interval must be non-negative")
	case c.Settings.MaxItems < 0:
		return errors.New("max items must be non-negative")
	case c.Settings.Timeout < 0:
		return errors.New("timeout must be non-negative")
	}

	if c.Settings.Locale != "" {
		if _, err := language.Parse(c.Settings.Locale); err != nil {
			return fmt.Errorf("invalid locale %q: %w", c.Settings.Locale, err)
		}
	}

	for i, filter := range c.Filters {
		if _, ok := filterFields[filter.Field]; !ok {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}

// Language resolves the feed's locale, falling back to def.
func (c *Config) Language(def language.Tag) language.Tag {
	if c.Settings.Locale == "" {
		return def
	}
	tag, err := language.Parse(c.Settings.Locale)
	if err != nil {
		return def
	}
	return tag
}
