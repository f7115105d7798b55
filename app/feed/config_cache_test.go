package feed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestConfigCacheLoadValidConfig(t *testing.T) {
	tempDir := t.TempDir()

	writeConfig(t, tempDir, "test.yml", `
url: "https://example.com/podcast.xml"

settings:
  enabled: true
  refresh_interval: 1800
  max_items: 25
  timeout: 15
  locale: "de-DE"

filters:
  - field: "explicit"
    excludes:
      - "yes"
  - field: "keywords"
    includes:
      - "technology"
`)

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	if configCache.GetConfigCount() != 1 {
		t.Errorf("Expected 1 feedConfig, got %d", configCache.GetConfigCount())
	}

	feedConfig, err := configCache.GetConfig("test")
	if err != nil {
		t.Fatal(err)
	}

	if feedConfig.Name != "test" {
		t.Errorf("Expected name 'test', got '%s'", feedConfig.Name)
	}
	if feedConfig.URL != "https://example.com/podcast.xml" {
		t.Errorf("Expected URL 'https://example.com/podcast.xml', got '%s'", feedConfig.URL)
	}
	if feedConfig.Settings.RefreshInterval != 1800 {
		t.Errorf("Expected refresh interval 1800, got %d", feedConfig.Settings.RefreshInterval)
	}
	if feedConfig.Settings.MaxItems != 25 {
		t.Errorf("Expected max items 25, got %d", feedConfig.Settings.MaxItems)
	}
	if len(feedConfig.Filters) != 2 {
		t.Errorf("Expected 2 filters, got %d", len(feedConfig.Filters))
	}
	if tag := feedConfig.Language(language.English); tag.String() != "de-DE" {
		t.Errorf("Expected locale de-DE, got %s", tag)
	}
}

func TestConfigCacheLoadConfigWithDefaults(t *testing.T) {
	tempDir := t.TempDir()

	writeConfig(t, tempDir, "minimal.yml", `url: "https://example.com/podcast.xml"`)

	configCache := NewConfigCache(tempDir)
	feedConfig, err := configCache.LoadConfig("minimal")
	if err != nil {
		t.Fatal(err)
	}

	if feedConfig.Settings.Enabled {
		t.Error("Expected feed to be disabled by default")
	}
	if feedConfig.Settings.RefreshInterval != 3600 {
		t.Errorf("Expected default refresh interval 3600, got %d", feedConfig.Settings.RefreshInterval)
	}
	if feedConfig.Settings.MaxItems != 100 {
		t.Errorf("Expected default max items 100, got %d", feedConfig.Settings.MaxItems)
	}
	if feedConfig.Settings.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", feedConfig.Settings.Timeout)
	}
	if tag := feedConfig.Language(language.English); tag != language.English {
		t.Errorf("Expected default locale, got %s", tag)
	}
}

func TestConfigCacheInvalidConfig(t *testing.T) {
	tempDir := t.TempDir()

	writeConfig(t, tempDir, "invalid.yml", `
settings:
  enabled: true
`)

	configCache := NewConfigCache(tempDir)
	err := configCache.Run()
	if err == nil {
		t.Fatal("Expected error for config without URL")
	}
	if !strings.Contains(err.Error(), "feed URL is required") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestConfigCacheMissingDirectory(t *testing.T) {
	configCache := NewConfigCache(filepath.Join(t.TempDir(), "missing"))

	if err := configCache.Run(); err != nil {
		t.Fatalf("Expected no error for missing directory, got %v", err)
	}
	if configCache.GetConfigCount() != 0 {
		t.Errorf("Expected empty cache, got %d", configCache.GetConfigCount())
	}
}

func TestConfigCacheReloadConfig(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "reload.yml", `
url: "https://example.com/v1.xml"
settings:
  enabled: true
`)

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	writeConfig(t, tempDir, "reload.yml", `
url: "https://example.com/v2.xml"
settings:
  enabled: false
`)

	if _, err := configCache.LoadConfig("reload"); err != nil {
		t.Fatal(err)
	}

	feedConfig, err := configCache.GetConfig("reload")
	if err != nil {
		t.Fatal(err)
	}
	if feedConfig.URL != "https://example.com/v2.xml" {
		t.Errorf("Expected reloaded URL, got '%s'", feedConfig.URL)
	}
	if len(configCache.GetEnabledConfigs()) != 0 {
		t.Error("Expected no enabled configs after reload")
	}

	writeConfig(t, tempDir, "reload.yml", `invalid yaml content`)
	if _, err := configCache.LoadConfig("reload"); err == nil {
		t.Error("Expected error for invalid YAML")
	}

	// A failed reload keeps the previous config
	if feedConfig, _ := configCache.GetConfig("reload"); feedConfig.URL != "https://example.com/v2.xml" {
		t.Errorf("Expected previous config to be kept, got '%s'", feedConfig.URL)
	}
}

func TestConfigCacheGetConfigs(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "enabled.yml", "url: https://example.com/a.xml\nsettings:\n  enabled: true\n")
	writeConfig(t, tempDir, "disabled.yml", "url: https://example.com/b.xml\n")
	writeConfig(t, tempDir, "notes.txt", "not a feed")

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	configs := configCache.GetConfigs()
	if len(configs) != 2 {
		t.Fatalf("Expected 2 configs, got %d", len(configs))
	}
	delete(configs, "enabled")
	if configCache.GetConfigCount() != 2 {
		t.Error("Expected GetConfigs to return a copy")
	}

	enabled := configCache.GetEnabledConfigs()
	if len(enabled) != 1 || enabled["enabled"] == nil {
		t.Errorf("Expected only 'enabled' config, got %v", enabled)
	}

	if _, err := configCache.GetConfig("unknown"); err == nil {
		t.Error("Expected error for unknown config")
	}
}

func TestConfigValidate(t *testing.T) {
	base := func() Config {
		return Config{Name: "feed", URL: "https://example.com/feed.xml"}
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing name", func(c *Config) { c.Name = "" }, "feed name is required"},
		{"missing URL", func(c *Config) { c.URL = "" }, "feed URL is required"},
		{"negative refresh", func(c *Config) { c.Settings.RefreshInterval = -1 }, "refresh interval must be non-negative"},
		{"negative max items", func(c *Config) { c.Settings.MaxItems = -1 }, "max items must be non-negative"},
		{"negative timeout", func(c *Config) { c.Settings.Timeout = -1 }, "timeout must be non-negative"},
		{"bad locale", func(c *Config) { c.Settings.Locale = "not a locale" }, "invalid locale"},
		{"unknown filter field", func(c *Config) {
			c.Filters = []ConfigFilter{{Field: "content", Includes: []string{"x"}}}
		}, "invalid filter field at index 0: content"},
		{"empty filter", func(c *Config) {
			c.Filters = []ConfigFilter{{Field: "title"}}
		}, "must have at least one include or exclude rule"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.modify(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigValidateFilterFields(t *testing.T) {
	for _, field := range []string{"title", "description", "categories", "authors", "keywords", "subtitle", "summary", "explicit"} {
		c := Config{Name: "feed", URL: "https://example.com/feed.xml", Filters: []ConfigFilter{{Field: field, Excludes: []string{"x"}}}}
		if err := c.Validate(); err != nil {
			t.Errorf("Expected field %q to be valid, got %v", field, err)
		}
	}
}
