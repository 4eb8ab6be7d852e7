package config

// SourceType selects where the card snapshot is read from.
type SourceType string

const (
	// SourceHTML scrapes .chapter-card elements from the rendered index page.
	SourceHTML SourceType = "html"
	// SourceMarkdown reads chapter markdown files and their front matter.
	SourceMarkdown SourceType = "markdown"
)

// Config is the top-level docsearch configuration, corresponding to .docsearch.yml.
type Config struct {
	Source      SourceType      `yaml:"source" koanf:"source"`
	SiteDir     string          `yaml:"site_dir" koanf:"site_dir"`
	IndexPage   string          `yaml:"index_page" koanf:"index_page"`
	ChaptersDir string          `yaml:"chapters_dir" koanf:"chapters_dir"`
	Include     []string        `yaml:"include" koanf:"include"`
	Exclude     []string        `yaml:"exclude" koanf:"exclude"`
	DataDir     string          `yaml:"data_dir" koanf:"data_dir"`
	LogLevel    string          `yaml:"log_level" koanf:"log_level"`
	Server      ServerConfig    `yaml:"server" koanf:"server"`
	Analytics   AnalyticsConfig `yaml:"analytics" koanf:"analytics"`
}

// ServerConfig holds settings for `docsearch serve`.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	DebounceMS      int  `yaml:"debounce_ms" koanf:"debounce_ms"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// AnalyticsConfig controls recording of search events.
type AnalyticsConfig struct {
	Enabled       bool `yaml:"enabled" koanf:"enabled"`
	RetentionDays int  `yaml:"retention_days" koanf:"retention_days"`
}
