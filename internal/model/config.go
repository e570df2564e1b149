package model

import (
	"fmt"
	"time"
)

// Config holds the complete dashboard configuration
type Config struct {
	Source      Source            `yaml:"source" mapstructure:"source"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Load        LoadConfig        `yaml:"load" mapstructure:"load"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
}

// Source identifies the remote CSV resource
type Source struct {
	Owner  string `yaml:"owner" mapstructure:"owner" json:"owner"`
	Repo   string `yaml:"repo" mapstructure:"repo" json:"repo"`
	Path   string `yaml:"path" mapstructure:"path" json:"path"`
	Branch string `yaml:"branch" mapstructure:"branch" json:"branch"`
}

// String renders the source as owner/repo@branch:path
func (s Source) String() string {
	return fmt.Sprintf("%s/%s@%s:%s", s.Owner, s.Repo, s.Branch, s.Path)
}

// HTTPConfig controls how the dataset is downloaded
type HTTPConfig struct {
	BaseURL       string        `yaml:"base_url" mapstructure:"base_url"`             // Raw content host
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`               // Per-request timeout
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`         // HTTP User-Agent
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"` // Max CSV bytes to read
	MaxAttempts   int           `yaml:"max_attempts" mapstructure:"max_attempts"`     // 1 = one-shot
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"` // Check robots.txt before fetching
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// CacheConfig controls memoization of the raw download
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskDir   string        `yaml:"disk_dir" mapstructure:"disk_dir"` // Empty keeps the cache in memory only
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// LoadConfig controls normalization after parsing
type LoadConfig struct {
	CauseFilter string `yaml:"cause_filter" mapstructure:"cause_filter"` // Case-insensitive substring of cause_name
}

// ServerConfig configures the web dashboard
type ServerConfig struct {
	Addr              string        `yaml:"addr" mapstructure:"addr"`
	Env               string        `yaml:"env" mapstructure:"env"` // development, production
	ReadTimeout       time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size" mapstructure:"burst_size"`
}

// LoggingConfig configures structured logging
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json, text
}

// ConcurrencyConfig bounds parallel work
type ConcurrencyConfig struct {
	Workers     int `yaml:"workers" mapstructure:"workers"`           // Batch export workers
	ChartBuilds int `yaml:"chart_builds" mapstructure:"chart_builds"` // Parallel chart builders per render pass
}

// DefaultSource returns the published dataset location
func DefaultSource() Source {
	return Source{
		Owner:  "HQhanqiZHQ",
		Repo:   "bmi706-2024-Project",
		Path:   "Combined_USA_Data.csv",
		Branch: "main",
	}
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Source: DefaultSource(),
		HTTP: HTTPConfig{
			BaseURL:      "https://raw.githubusercontent.com",
			Timeout:      30 * time.Second,
			UserAgent:    "cirrhosis-dashboard/0.1 (+https://github.com/HQhanqiZHQ/bmi706-2024-Project)",
			MaxBodyBytes: 200_000_000,
			MaxAttempts:  1,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 12 * time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Load: LoadConfig{
			CauseFilter: "Cirrhosis",
		},
		Server: ServerConfig{
			Addr:              ":8501",
			Env:               "development",
			ReadTimeout:       5 * time.Second,
			WriteTimeout:      30 * time.Second,
			RequestsPerSecond: 10,
			BurstSize:         20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Concurrency: ConcurrencyConfig{
			Workers:     4,
			ChartBuilds: 4,
		},
	}
}
