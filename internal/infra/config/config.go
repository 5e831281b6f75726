package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Logger LoggerConfig `yaml:"logger"`
	Tracer TracerConfig `yaml:"tracer"`
	Search SearchConfig `yaml:"search"`
	Fetch  FetchConfig  `yaml:"fetch"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// SearchConfig holds settings for the multi_search pipeline.
type SearchConfig struct {
	// Backend selects the search provider: "duckduckgo" or "searxng".
	Backend    string `yaml:"backend"`
	SearXNGURL string `yaml:"searxng_url"`
	// Workers bounds concurrent provider calls. Kept lower than fetch
	// workers: providers are rate sensitive.
	Workers            int `yaml:"workers"`
	MaxResultsPerQuery int `yaml:"max_results_per_query"`
	// RatePerSecond paces provider calls across workers. 0 disables pacing.
	RatePerSecond float64       `yaml:"rate_per_second"`
	Breaker       BreakerConfig `yaml:"breaker"`
}

// BreakerConfig holds circuit breaker settings for the search provider.
type BreakerConfig struct {
	Enabled         bool   `yaml:"enabled"`
	MaxFailures     uint32 `yaml:"max_failures"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	IntervalSeconds int    `yaml:"interval_seconds"`
}

// FetchConfig holds settings for the fetch_pages pipeline.
type FetchConfig struct {
	Workers               int    `yaml:"workers"`
	MaxBodyBytes          int64  `yaml:"max_body_bytes"`
	UserAgent             string `yaml:"user_agent"`
	MaxRedirects          int    `yaml:"max_redirects"`
	DefaultMaxChars       int    `yaml:"default_max_chars"`
	DefaultTimeoutSeconds int    `yaml:"default_timeout_seconds"`
	SSRFProtection        bool   `yaml:"ssrf_protection"`
}

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Defaults returns a Config with all defaults applied.
func Defaults() *Config {
	return &Config{
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
		Search: SearchConfig{
			Backend:            "duckduckgo",
			Workers:            5,
			MaxResultsPerQuery: 20,
			RatePerSecond:      2,
			Breaker: BreakerConfig{
				Enabled:         true,
				MaxFailures:     5,
				TimeoutSeconds:  30,
				IntervalSeconds: 60,
			},
		},
		Fetch: FetchConfig{
			Workers:               10,
			MaxBodyBytes:          2 * 1024 * 1024,
			UserAgent:             defaultUserAgent,
			MaxRedirects:          5,
			DefaultMaxChars:       15000,
			DefaultTimeoutSeconds: 30,
			SSRFProtection:        true,
		},
	}
}

// Load reads the config file at path, applies env overrides and validates.
// A missing file is not an error: defaults plus env overrides are used.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnvOverrides maps WEBRESEARCH_* env vars to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WEBRESEARCH_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("WEBRESEARCH_LOGGER_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("WEBRESEARCH_LOGGER_OUTPUT"); v != "" {
		cfg.Logger.Output = v
	}
	if v := os.Getenv("WEBRESEARCH_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("WEBRESEARCH_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
	if v := os.Getenv("WEBRESEARCH_SEARCH_BACKEND"); v != "" {
		cfg.Search.Backend = v
	}
	if v := os.Getenv("WEBRESEARCH_SEARXNG_URL"); v != "" {
		cfg.Search.SearXNGURL = v
	}
	if v := os.Getenv("WEBRESEARCH_SEARCH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.Workers = n
		}
	}
	if v := os.Getenv("WEBRESEARCH_FETCH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Fetch.Workers = n
		}
	}
	if v := os.Getenv("WEBRESEARCH_FETCH_USER_AGENT"); v != "" {
		cfg.Fetch.UserAgent = v
	}
	if v := os.Getenv("WEBRESEARCH_FETCH_SSRF_PROTECTION"); v == "false" {
		cfg.Fetch.SSRFProtection = false
	}
}
