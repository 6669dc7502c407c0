package model

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultRulesURL is the published plain-text comprehensive rules
const DefaultRulesURL = "https://media.wizards.com/2025/downloads/MagicCompRules%2020250404.txt"

// Config is the complete spellbook configuration
type Config struct {
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Rules        RulesConfig        `yaml:"rules" mapstructure:"rules"`
	Keywords     KeywordsConfig     `yaml:"keywords" mapstructure:"keywords"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
}

// HTTPConfig controls how remote documents are fetched
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// CacheConfig selects and sizes the cache backend
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Backend   string        `yaml:"backend" mapstructure:"backend"` // memory, disk, bolt
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RulesConfig locates the comprehensive rules text
type RulesConfig struct {
	URL      string        `yaml:"url" mapstructure:"url"`
	File     string        `yaml:"file,omitempty" mapstructure:"file"` // Local copy, takes precedence over URL
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// KeywordsConfig points at an optional user keyword catalog
type KeywordsConfig struct {
	CatalogFile string `yaml:"catalog_file,omitempty" mapstructure:"catalog_file"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig limits requests per host
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Format          string `yaml:"format" mapstructure:"format"` // text, markdown, json
	IncludeReminder bool   `yaml:"include_reminder" mapstructure:"include_reminder"`
	Verbose         bool   `yaml:"verbose" mapstructure:"verbose"`
}

// LoggingConfig controls the zap logger
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // console, json
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Spellbook/0.1 (+https://github.com/ppiankov/spellbook)",
			MaxBodyBytes:  16 << 20, // the rules text is a few MB
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Backend:   "disk",
			Dir:       defaultCacheDir(),
			MemoryTTL: time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Rules: RulesConfig{
			URL:      DefaultRulesURL,
			CacheTTL: 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 1,
			BurstSize:         2,
		},
		Output: OutputConfig{
			Format:          "text",
			IncludeReminder: true,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".spellbook-cache"
	}
	return filepath.Join(dir, "spellbook")
}
