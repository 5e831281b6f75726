package config

import (
	"fmt"

	"webresearch/internal/domain"
)

// Validate checks config consistency. It is called by Load after env
// overrides, so it sees the effective configuration.
func Validate(cfg *Config) error {
	switch cfg.Logger.Format {
	case "", "text", "json":
	default:
		return validationError("logger.format", fmt.Sprintf("unknown format %q (want: text, json)", cfg.Logger.Format))
	}

	switch cfg.Tracer.Exporter {
	case "", "noop", "stdout":
	default:
		return validationError("tracer.exporter", fmt.Sprintf("unknown exporter %q (want: noop, stdout)", cfg.Tracer.Exporter))
	}

	switch cfg.Search.Backend {
	case "duckduckgo":
	case "searxng":
		if cfg.Search.SearXNGURL == "" {
			return validationError("search.searxng_url", "required when search.backend is searxng")
		}
	default:
		return validationError("search.backend", fmt.Sprintf("unknown backend %q (want: duckduckgo, searxng)", cfg.Search.Backend))
	}

	if cfg.Search.Workers < 1 {
		return validationError("search.workers", "must be >= 1")
	}
	if cfg.Search.MaxResultsPerQuery < 1 {
		return validationError("search.max_results_per_query", "must be >= 1")
	}
	if cfg.Search.RatePerSecond < 0 {
		return validationError("search.rate_per_second", "must be >= 0")
	}

	if cfg.Fetch.Workers < 1 {
		return validationError("fetch.workers", "must be >= 1")
	}
	if cfg.Fetch.MaxBodyBytes < 1 {
		return validationError("fetch.max_body_bytes", "must be >= 1")
	}
	if cfg.Fetch.MaxRedirects < 0 {
		return validationError("fetch.max_redirects", "must be >= 0")
	}
	if cfg.Fetch.DefaultMaxChars < 1 {
		return validationError("fetch.default_max_chars", "must be >= 1")
	}
	if cfg.Fetch.DefaultTimeoutSeconds < 1 {
		return validationError("fetch.default_timeout_seconds", "must be >= 1")
	}

	return nil
}

func validationError(field, detail string) error {
	return domain.NewDomainError("config.Validate", domain.ErrConfigLoad, field+": "+detail)
}
