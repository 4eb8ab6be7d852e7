package config

import (
	"path/filepath"
	"slices"
	"time"
)

// DefaultExcludes are glob patterns skipped when reading markdown chapters.
var DefaultExcludes = []string{
	"_*.md",
	"drafts/**",
	"node_modules/**",
	".git/**",
	"README.md",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Source:      SourceHTML,
		SiteDir:     ".",
		IndexPage:   "index.html",
		ChaptersDir: "chapters",
		Include:     []string{"**/*.md"},
		Exclude:     slices.Clone(DefaultExcludes),
		DataDir:     ".docsearch",
		LogLevel:    "info",
		Server: ServerConfig{
			Port:       8080,
			DebounceMS: 300,
		},
		Analytics: AnalyticsConfig{
			Enabled:       true,
			RetentionDays: 90,
		},
	}
}

// IndexPath returns the path of the rendered index page.
func (c *Config) IndexPath() string {
	if filepath.IsAbs(c.IndexPage) {
		return c.IndexPage
	}
	return filepath.Join(c.SiteDir, c.IndexPage)
}

// DatabasePath returns the path of the analytics database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "docsearch.db")
}

// Debounce returns the settling interval for live search input.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Server.DebounceMS) * time.Millisecond
}
